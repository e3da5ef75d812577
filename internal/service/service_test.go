package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RamezHany/Edit/internal/api/api"
	"github.com/RamezHany/Edit/internal/dto"
	"github.com/RamezHany/Edit/internal/model"
	"github.com/RamezHany/Edit/internal/repo"
	"github.com/RamezHany/Edit/internal/service"
	"github.com/RamezHany/Edit/internal/store"
)

type capturingPublisher struct {
	messages [][]byte
}

func (p *capturingPublisher) Publish(message []byte) error {
	p.messages = append(p.messages, message)
	return nil
}

type testApp struct {
	router http.Handler
	repo   repo.Repository
	pub    *capturingPublisher
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	st := store.NewMemoryStore()
	log := zerolog.Nop()
	r, err := repo.NewRepository(st, &log)
	require.NoError(t, err)

	pub := &capturingPublisher{}
	svc := service.NewService(r, &log, pub)
	return &testApp{
		router: api.NewRouters(&api.Routers{Service: svc}),
		repo:   r,
		pub:    pub,
	}
}

func (a *testApp) seed(t *testing.T, company, event string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, a.repo.CreateCompany(ctx, &model.Company{Name: company, Enabled: true}))
	require.NoError(t, a.repo.CreateEvent(ctx, &model.Event{Company: company, Name: event, Enabled: true}))
}

func (a *testApp) postJSON(t *testing.T, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func validRegisterBody() map[string]string {
	return map[string]string{
		"companyName": "acme",
		"eventName":   "Summer Fest",
		"name":        "Sara Ali",
		"phone":       "01012345678",
		"email":       "sara@example.com",
		"gender":      "female",
		"college":     "Engineering",
		"status":      "student",
		"nationalId":  "29801010101234",
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestRegisterEndpoint_Success(t *testing.T) {
	app := newTestApp(t)
	app.seed(t, "acme", "Summer Fest")

	w := app.postJSON(t, "/api/events/register", validRegisterBody())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp dto.RegisterResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, dto.MsgRegistrationSuccess, resp.Message)
	assert.Equal(t, "Sara Ali", resp.Registration.Name)
	assert.Equal(t, "sara@example.com", resp.Registration.Email)
	assert.Equal(t, "Summer Fest", resp.Registration.EventName)
	assert.NotEmpty(t, resp.Registration.RegistrationDate)

	require.Len(t, app.pub.messages, 1)
	var msg dto.RegistrationConfirmedMessage
	require.NoError(t, json.Unmarshal(app.pub.messages[0], &msg))
	assert.Equal(t, "Summer Fest", msg.Event)
	assert.Equal(t, "sara@example.com", msg.Email)
}

func TestRegisterEndpoint_DecodesURLEncodedNames(t *testing.T) {
	app := newTestApp(t)
	app.seed(t, "Tech Corp", "Annual Meetup")

	body := validRegisterBody()
	body["companyName"] = "Tech%20Corp"
	body["eventName"] = "Annual%20Meetup"

	w := app.postJSON(t, "/api/events/register", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestRegisterEndpoint_MissingFields(t *testing.T) {
	app := newTestApp(t)
	app.seed(t, "acme", "Summer Fest")

	for _, field := range []string{"companyName", "eventName", "name", "phone", "email", "gender", "college", "status", "nationalId"} {
		body := validRegisterBody()
		delete(body, field)

		w := app.postJSON(t, "/api/events/register", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "missing %s", field)
	}

	regs, err := app.repo.ListRegistrations(context.Background(), "acme", "Summer Fest")
	require.NoError(t, err)
	assert.Empty(t, regs)
}

func TestRegisterEndpoint_BadEmail(t *testing.T) {
	app := newTestApp(t)
	app.seed(t, "acme", "Summer Fest")

	body := validRegisterBody()
	body["email"] = "not-an-email"
	w := app.postJSON(t, "/api/events/register", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body["email"] = "missing-tld@domain"
	w = app.postJSON(t, "/api/events/register", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterEndpoint_BadPhone(t *testing.T) {
	app := newTestApp(t)
	app.seed(t, "acme", "Summer Fest")

	body := validRegisterBody()
	body["phone"] = "12345"
	w := app.postJSON(t, "/api/events/register", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body["phone"] = "0101234567890123" // 16 digits
	w = app.postJSON(t, "/api/events/register", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body["phone"] = "01012345678"
	w = app.postJSON(t, "/api/events/register", body)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestRegisterEndpoint_CompanyNotFound(t *testing.T) {
	app := newTestApp(t)

	w := app.postJSON(t, "/api/events/register", validRegisterBody())
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.MsgCompanyNotFound, decodeError(t, w))
}

func TestRegisterEndpoint_CompanyDisabled(t *testing.T) {
	app := newTestApp(t)
	app.seed(t, "acme", "Summer Fest")
	require.NoError(t, app.repo.SetCompanyEnabled(context.Background(), "acme", false))

	w := app.postJSON(t, "/api/events/register", validRegisterBody())
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.MsgCompanyDisabled, decodeError(t, w))
}

func TestRegisterEndpoint_EventNotFound(t *testing.T) {
	app := newTestApp(t)
	app.seed(t, "acme", "Summer Fest")

	body := validRegisterBody()
	body["eventName"] = "Winter Ball"
	w := app.postJSON(t, "/api/events/register", body)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.MsgEventNotFound, decodeError(t, w))
}

func TestRegisterEndpoint_EventDisabled(t *testing.T) {
	app := newTestApp(t)
	app.seed(t, "acme", "Summer Fest")
	require.NoError(t, app.repo.SetEventEnabled(context.Background(), "acme", "Summer Fest", false))

	w := app.postJSON(t, "/api/events/register", validRegisterBody())
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.MsgEventDisabled, decodeError(t, w))
}

func TestRegisterEndpoint_Duplicate(t *testing.T) {
	app := newTestApp(t)
	app.seed(t, "acme", "Summer Fest")

	w := app.postJSON(t, "/api/events/register", validRegisterBody())
	require.Equal(t, http.StatusOK, w.Code)

	// same email, different phone
	body := validRegisterBody()
	body["phone"] = "01099999999"
	w = app.postJSON(t, "/api/events/register", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.MsgAlreadyRegistered, decodeError(t, w))

	// same phone, different email
	body = validRegisterBody()
	body["email"] = "other@example.com"
	w = app.postJSON(t, "/api/events/register", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.MsgAlreadyRegistered, decodeError(t, w))
}

func TestListEventsEndpoint(t *testing.T) {
	app := newTestApp(t)
	app.seed(t, "acme", "Summer Fest")

	req := httptest.NewRequest(http.MethodGet, "/api/events?company=acme", nil)
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var events []model.Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "Summer Fest", events[0].Name)

	req = httptest.NewRequest(http.MethodGet, "/api/events?company=nonexistent", nil)
	w = httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminEndpoints(t *testing.T) {
	app := newTestApp(t)

	w := app.postJSON(t, "/api/admin/companies", map[string]string{"name": "acme"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = app.postJSON(t, "/api/admin/companies", map[string]string{"name": "acme"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.postJSON(t, "/api/admin/companies/acme/events", map[string]string{"name": "Summer Fest", "date": "2026-09-15"})
	require.Equal(t, http.StatusCreated, w.Code)

	// disable the event, then the registration must be rejected
	body, _ := json.Marshal(map[string]bool{"enabled": false})
	req := httptest.NewRequest(http.MethodPatch, "/api/admin/companies/acme/events/Summer%20Fest", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.postJSON(t, "/api/events/register", validRegisterBody())
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/admin/companies/acme/events/Summer%20Fest/registrations", nil)
	w = httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var regs []model.Registration
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &regs))
	assert.Empty(t, regs)
}
