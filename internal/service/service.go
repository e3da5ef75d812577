package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/RamezHany/Edit/internal/dto"
	"github.com/RamezHany/Edit/internal/model"
	"github.com/RamezHany/Edit/internal/repo"
	"github.com/RamezHany/Edit/pkg/validator"
	"github.com/wb-go/wbf/ginext"
)

// Publisher is the slice of the message client the service needs. Nil means
// messaging is disabled and confirmations are skipped.
type Publisher interface {
	Publish(message []byte) error
}

type Service interface {
	Register(ctx *ginext.Context)
	ListEvents(ctx *ginext.Context)
	GetEvent(ctx *ginext.Context)
	CreateCompany(ctx *ginext.Context)
	CreateEvent(ctx *ginext.Context)
	SetCompanyStatus(ctx *ginext.Context)
	SetEventStatus(ctx *ginext.Context)
	ListRegistrations(ctx *ginext.Context)
}

type service struct {
	repo repo.Repository
	log  *zerolog.Logger
	pub  Publisher
}

func NewService(repo repo.Repository, logger *zerolog.Logger, pub Publisher) Service {
	return &service{
		repo: repo,
		log:  logger,
		pub:  pub,
	}
}

// Register runs the intake pipeline in fixed order: decode, field validation,
// company existence and gate, event resolution, event data and gate, duplicate
// check, append. Each failure short-circuits with its own status code.
func (s *service) Register(ctx *ginext.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.ValidationError(ctx, "Invalid JSON format")
		return
	}

	// companyName and eventName arrive URL-encoded in the body
	companyName, err := url.QueryUnescape(req.CompanyName)
	if err != nil {
		dto.ValidationError(ctx, "Invalid company name encoding")
		return
	}
	eventName, err := url.QueryUnescape(req.EventName)
	if err != nil {
		dto.ValidationError(ctx, "Invalid event name encoding")
		return
	}
	req.CompanyName = companyName
	req.EventName = eventName

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.ValidationError(ctx, fmt.Sprintf("%v", verr))
		return
	}

	if err := s.repo.CheckCompany(ctx.Request.Context(), companyName); err != nil {
		switch {
		case errors.Is(err, repo.ErrCompanyNotFound):
			dto.CompanyNotFoundError(ctx)
		case errors.Is(err, repo.ErrCompanyDisabled):
			dto.CompanyDisabledError(ctx)
		default:
			s.log.Error().Err(err).Str("company", companyName).Msg("company check failed")
			dto.CompanyCheckError(ctx)
		}
		return
	}

	registration := &model.Registration{
		Name:       req.Name,
		Phone:      req.Phone,
		Email:      req.Email,
		Gender:     req.Gender,
		College:    req.College,
		Status:     req.Status,
		NationalID: req.NationalID,
	}

	resolved, saved, err := s.repo.Register(ctx.Request.Context(), companyName, eventName, registration)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrCompanyNotFound):
			dto.CompanyNotFoundError(ctx)
		case errors.Is(err, repo.ErrEventNotFound):
			dto.EventNotFoundError(ctx)
		case errors.Is(err, repo.ErrEventDataNotFound):
			dto.EventDataNotFoundError(ctx)
		case errors.Is(err, repo.ErrEventDisabled):
			dto.EventDisabledError(ctx)
		case errors.Is(err, repo.ErrDuplicateRegistration):
			dto.AlreadyRegisteredError(ctx)
		default:
			s.log.Error().Err(err).Str("company", companyName).Str("event", eventName).Msg("registration failed")
			dto.ProcessingError(ctx)
		}
		return
	}

	s.log.Info().
		Str("company", companyName).
		Str("event", resolved).
		Str("email", saved.Email).
		Msg("registration recorded")

	s.publishConfirmation(companyName, resolved, saved)

	dto.SuccessResponse(ctx, dto.RegisterResponse{
		Success: true,
		Message: dto.MsgRegistrationSuccess,
		Registration: dto.RegistrationInfo{
			Name:             saved.Name,
			Email:            saved.Email,
			EventName:        resolved,
			RegistrationDate: saved.RegistrationDate,
		},
	})
}

// publishConfirmation hands the confirmation off to the worker. Failures are
// logged only; the registration is already stored.
func (s *service) publishConfirmation(companyName, eventName string, reg *model.Registration) {
	if s.pub == nil {
		return
	}

	msg := dto.RegistrationConfirmedMessage{
		Company:          companyName,
		Event:            eventName,
		Name:             reg.Name,
		Email:            reg.Email,
		RegistrationDate: reg.RegistrationDate,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to marshal confirmation message")
		return
	}
	if err := s.pub.Publish(payload); err != nil {
		s.log.Error().Err(err).Msg("failed to publish confirmation message")
	}
}

func (s *service) ListEvents(ctx *ginext.Context) {
	companyName := ctx.Query("company")
	if companyName == "" {
		dto.ValidationError(ctx, "Missing company parameter")
		return
	}

	events, err := s.repo.ListEvents(ctx.Request.Context(), companyName)
	if err != nil {
		if errors.Is(err, repo.ErrCompanyNotFound) {
			dto.CompanyNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Str("company", companyName).Msg("failed to list events")
		dto.ProcessingError(ctx)
		return
	}

	dto.SuccessResponse(ctx, events)
}

func (s *service) GetEvent(ctx *ginext.Context) {
	companyName := ctx.Query("company")
	eventName := ctx.Query("event")
	if companyName == "" || eventName == "" {
		dto.ValidationError(ctx, "Missing company or event parameter")
		return
	}

	event, err := s.repo.GetEvent(ctx.Request.Context(), companyName, eventName)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrCompanyNotFound):
			dto.CompanyNotFoundError(ctx)
		case errors.Is(err, repo.ErrEventNotFound):
			dto.EventNotFoundError(ctx)
		default:
			s.log.Error().Err(err).Str("company", companyName).Str("event", eventName).Msg("failed to get event")
			dto.ProcessingError(ctx)
		}
		return
	}

	dto.SuccessResponse(ctx, event)
}

func (s *service) CreateCompany(ctx *ginext.Context) {
	var req dto.CreateCompanyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.ValidationError(ctx, "Invalid JSON format")
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.ValidationError(ctx, fmt.Sprintf("%v", verr))
		return
	}

	company := &model.Company{
		Name:    req.Name,
		Image:   req.Image,
		Enabled: true,
	}
	if err := s.repo.CreateCompany(ctx.Request.Context(), company); err != nil {
		if errors.Is(err, repo.ErrCompanyExists) {
			dto.ErrorJSON(ctx, 409, "Company already exists")
			return
		}
		s.log.Error().Err(err).Str("company", req.Name).Msg("failed to create company")
		dto.ProcessingError(ctx)
		return
	}

	dto.SuccessCreatedResponse(ctx, company)
}

func (s *service) CreateEvent(ctx *ginext.Context) {
	companyName := ctx.Param("company")

	var req dto.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.ValidationError(ctx, "Invalid JSON format")
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.ValidationError(ctx, fmt.Sprintf("%v", verr))
		return
	}

	event := &model.Event{
		Company:     companyName,
		Name:        req.Name,
		Image:       req.Image,
		Description: req.Description,
		Date:        req.Date,
		Enabled:     true,
	}
	if err := s.repo.CreateEvent(ctx.Request.Context(), event); err != nil {
		switch {
		case errors.Is(err, repo.ErrCompanyNotFound):
			dto.CompanyNotFoundError(ctx)
		case errors.Is(err, repo.ErrEventExists):
			dto.ErrorJSON(ctx, 409, "Event already exists")
		default:
			s.log.Error().Err(err).Str("company", companyName).Str("event", req.Name).Msg("failed to create event")
			dto.ProcessingError(ctx)
		}
		return
	}

	dto.SuccessCreatedResponse(ctx, event)
}

func (s *service) SetCompanyStatus(ctx *ginext.Context) {
	companyName := ctx.Param("company")

	var req dto.SetStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Enabled == nil {
		dto.ValidationError(ctx, "Invalid JSON format")
		return
	}

	if err := s.repo.SetCompanyEnabled(ctx.Request.Context(), companyName, *req.Enabled); err != nil {
		if errors.Is(err, repo.ErrCompanyNotFound) {
			dto.CompanyNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Str("company", companyName).Msg("failed to update company status")
		dto.ProcessingError(ctx)
		return
	}

	dto.SuccessResponse(ctx, model.Company{Name: companyName, Enabled: *req.Enabled})
}

func (s *service) SetEventStatus(ctx *ginext.Context) {
	companyName := ctx.Param("company")
	eventName := ctx.Param("event")

	var req dto.SetStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Enabled == nil {
		dto.ValidationError(ctx, "Invalid JSON format")
		return
	}

	if err := s.repo.SetEventEnabled(ctx.Request.Context(), companyName, eventName, *req.Enabled); err != nil {
		switch {
		case errors.Is(err, repo.ErrCompanyNotFound):
			dto.CompanyNotFoundError(ctx)
		case errors.Is(err, repo.ErrEventNotFound):
			dto.EventNotFoundError(ctx)
		case errors.Is(err, repo.ErrEventDataNotFound):
			dto.EventDataNotFoundError(ctx)
		default:
			s.log.Error().Err(err).Str("company", companyName).Str("event", eventName).Msg("failed to update event status")
			dto.ProcessingError(ctx)
		}
		return
	}

	dto.SuccessResponse(ctx, model.Event{Company: companyName, Name: eventName, Enabled: *req.Enabled})
}

func (s *service) ListRegistrations(ctx *ginext.Context) {
	companyName := ctx.Param("company")
	eventName := ctx.Param("event")

	regs, err := s.repo.ListRegistrations(ctx.Request.Context(), companyName, eventName)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrCompanyNotFound):
			dto.CompanyNotFoundError(ctx)
		case errors.Is(err, repo.ErrEventNotFound):
			dto.EventNotFoundError(ctx)
		case errors.Is(err, repo.ErrEventDataNotFound):
			dto.EventDataNotFoundError(ctx)
		default:
			s.log.Error().Err(err).Str("company", companyName).Str("event", eventName).Msg("failed to list registrations")
			dto.ProcessingError(ctx)
		}
		return
	}

	if regs == nil {
		regs = []model.Registration{}
	}
	dto.SuccessResponse(ctx, regs)
}
