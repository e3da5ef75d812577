package dto

import (
	"github.com/wb-go/wbf/ginext"
)

const (
	MsgCompanyNotFound     = "Company not found"
	MsgCompanyDisabled     = "Company is currently disabled"
	MsgEventNotFound       = "Event not found"
	MsgEventDataNotFound   = "Event data not found"
	MsgEventDisabled       = "Event registration is currently disabled"
	MsgAlreadyRegistered   = "You are already registered for this event"
	MsgCompanyCheckFailed  = "Error checking company status"
	MsgProcessingFailed    = "Error processing registration"
	MsgRegistrationSuccess = "Registration successful"
)

type RegisterRequest struct {
	CompanyName string `json:"companyName" validate:"required"`
	EventName   string `json:"eventName" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Phone       string `json:"phone" validate:"required,phone"`
	Email       string `json:"email" validate:"required,email"`
	Gender      string `json:"gender" validate:"required,oneof=male female"`
	College     string `json:"college" validate:"required"`
	Status      string `json:"status" validate:"required,oneof=student graduate"`
	NationalID  string `json:"nationalId" validate:"required"`
	Age         string `json:"age,omitempty"`
	University  string `json:"university,omitempty"`
}

type RegistrationInfo struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	EventName        string `json:"eventName"`
	RegistrationDate string `json:"registrationDate"`
}

type RegisterResponse struct {
	Success      bool             `json:"success"`
	Message      string           `json:"message"`
	Registration RegistrationInfo `json:"registration"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type CreateCompanyRequest struct {
	Name  string `json:"name" validate:"required"`
	Image string `json:"image"`
}

type CreateEventRequest struct {
	Name        string `json:"name" validate:"required"`
	Image       string `json:"image"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

type SetStatusRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type RegistrationConfirmedMessage struct {
	Company          string `json:"company"`
	Event            string `json:"event"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	RegistrationDate string `json:"registration_date"`
}

func ErrorJSON(c *ginext.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

func ValidationError(c *ginext.Context, message string) {
	ErrorJSON(c, 400, message)
}

func CompanyNotFoundError(c *ginext.Context) {
	ErrorJSON(c, 404, MsgCompanyNotFound)
}

func CompanyDisabledError(c *ginext.Context) {
	ErrorJSON(c, 403, MsgCompanyDisabled)
}

func EventNotFoundError(c *ginext.Context) {
	ErrorJSON(c, 404, MsgEventNotFound)
}

func EventDataNotFoundError(c *ginext.Context) {
	ErrorJSON(c, 404, MsgEventDataNotFound)
}

func EventDisabledError(c *ginext.Context) {
	ErrorJSON(c, 403, MsgEventDisabled)
}

func AlreadyRegisteredError(c *ginext.Context) {
	ErrorJSON(c, 400, MsgAlreadyRegistered)
}

func CompanyCheckError(c *ginext.Context) {
	ErrorJSON(c, 500, MsgCompanyCheckFailed)
}

func ProcessingError(c *ginext.Context) {
	ErrorJSON(c, 500, MsgProcessingFailed)
}

func SuccessResponse(c *ginext.Context, data any) {
	c.JSON(200, data)
}

func SuccessCreatedResponse(c *ginext.Context, data any) {
	c.JSON(201, data)
}
