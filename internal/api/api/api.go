package api

import (
	"github.com/RamezHany/Edit/cmd/middleware"
	"github.com/RamezHany/Edit/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/wb-go/wbf/ginext"
)

type Routers struct {
	Service service.Service
}

func NewRouters(r *Routers) *ginext.Engine {
	app := ginext.New("release")

	app.Use(middleware.LoggingMiddleware())
	app.Use(cors.Default())
	apiGroup := app.Group("/api")

	apiGroup.POST("/events/register", r.Service.Register)
	apiGroup.GET("/events", r.Service.ListEvents)
	apiGroup.GET("/events/details", r.Service.GetEvent)

	adminGroup := apiGroup.Group("/admin")
	adminGroup.POST("/companies", r.Service.CreateCompany)
	adminGroup.PATCH("/companies/:company", r.Service.SetCompanyStatus)
	adminGroup.POST("/companies/:company/events", r.Service.CreateEvent)
	adminGroup.PATCH("/companies/:company/events/:event", r.Service.SetEventStatus)
	adminGroup.GET("/companies/:company/events/:event/registrations", r.Service.ListRegistrations)

	return app
}
