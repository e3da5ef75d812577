package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/RamezHany/Edit/internal/model"
	"github.com/RamezHany/Edit/internal/store"
)

var (
	ErrCompanyNotFound       = errors.New("company not found")
	ErrCompanyDisabled       = errors.New("company is disabled")
	ErrCompanyExists         = errors.New("company already exists")
	ErrEventNotFound         = errors.New("event not found")
	ErrEventExists           = errors.New("event already exists")
	ErrEventDataNotFound     = errors.New("event data not found")
	ErrEventDisabled         = errors.New("event is disabled")
	ErrDuplicateRegistration = errors.New("duplicate registration")
)

// The companies registry lives in its own reserved tenant, separate from the
// per-company tables.
const (
	companiesTenant = "companies"
	companiesTable  = "companies"
)

// Fixed registration row layout. Registration rows carry exactly these nine
// cells; the event metadata row reuses the same header with extra trailing
// columns, so all cell access is bounds-checked.
const (
	colName = iota
	colPhone
	colEmail
	colGender
	colCollege
	colStatus
	colNationalID
	colRegistrationDate
	colImage
)

const (
	statusEnabled  = "enabled"
	statusDisabled = "disabled"
)

var eventTableHeader = []string{
	"name", "phone", "email", "gender", "college", "status",
	"nationalId", "registrationDate", "image",
	"eventName", "eventImage", "eventDescription", "eventDate", "eventStatus",
}

var companiesTableHeader = []string{"name", "image", "status"}

type Repository interface {
	CheckCompany(ctx context.Context, companyName string) error
	Register(ctx context.Context, companyName, eventName string, reg *model.Registration) (string, *model.Registration, error)
	ListEvents(ctx context.Context, companyName string) ([]model.Event, error)
	GetEvent(ctx context.Context, companyName, eventName string) (*model.Event, error)
	ListRegistrations(ctx context.Context, companyName, eventName string) ([]model.Registration, error)
	CreateCompany(ctx context.Context, company *model.Company) error
	CreateEvent(ctx context.Context, event *model.Event) error
	SetCompanyEnabled(ctx context.Context, companyName string, enabled bool) error
	SetEventEnabled(ctx context.Context, companyName, eventName string, enabled bool) error
}

type repository struct {
	store store.TableStore
	log   *zerolog.Logger
	locks sync.Map // "tenant\x00table" -> *sync.Mutex
}

func NewRepository(st store.TableStore, log *zerolog.Logger) (Repository, error) {
	if st == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	return &repository{store: st, log: log}, nil
}

// lockFor serializes the duplicate-check-then-append sequence per event table.
// The store itself has no uniqueness constraint, so without this two
// concurrent submissions with the same contact could both pass the guard.
func (r *repository) lockFor(tenant, table string) *sync.Mutex {
	v, _ := r.locks.LoadOrStore(tenant+"\x00"+table, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func findColumn(header []string, name string) int {
	for i, col := range header {
		if col == name {
			return i
		}
	}
	return -1
}

// resolveEvent scans a company root table for single-cell marker rows. Exact
// match is tried first; the fallback pass trims and lowercases both sides.
// First matching marker in table order wins, and the stored name is returned
// verbatim.
func resolveEvent(rows [][]string, requested string) (string, bool) {
	for _, row := range rows {
		if len(row) == 1 && row[0] == requested {
			return row[0], true
		}
	}

	want := strings.ToLower(strings.TrimSpace(requested))
	for _, row := range rows {
		if len(row) == 1 && strings.ToLower(strings.TrimSpace(row[0])) == want {
			return row[0], true
		}
	}
	return "", false
}

// companyEnabled reads the company's status cell from the registry. A missing
// row, a missing status column or an empty registry all mean enabled.
func (r *repository) companyEnabled(ctx context.Context, companyName string) (bool, error) {
	rows, err := r.store.ReadTable(ctx, companiesTenant, companiesTable)
	if err != nil {
		return false, fmt.Errorf("failed to read companies registry: %w", err)
	}
	if len(rows) == 0 {
		return true, nil
	}

	nameCol := findColumn(rows[0], "name")
	if nameCol < 0 {
		nameCol = 0
	}
	statusCol := findColumn(rows[0], "status")
	if statusCol < 0 {
		return true, nil
	}

	for _, row := range rows[1:] {
		if cell(row, nameCol) == companyName {
			return cell(row, statusCol) != statusDisabled, nil
		}
	}
	return true, nil
}

// eventEnabled reads the status column named in the header out of the first
// data row. Absent column or no data row means enabled.
func eventEnabled(rows [][]string) bool {
	if len(rows) < 2 {
		return true
	}
	statusCol := findColumn(rows[0], "eventStatus")
	if statusCol < 0 {
		return true
	}
	return cell(rows[1], statusCol) != statusDisabled
}

// isDuplicate reports whether any data row already holds the submitted email
// or phone. Comparison is exact string equality, no normalization.
func isDuplicate(rows [][]string, email, phone string) bool {
	for _, row := range rows[1:] {
		if cell(row, colEmail) == email || cell(row, colPhone) == phone {
			return true
		}
	}
	return false
}

func (r *repository) CheckCompany(ctx context.Context, companyName string) error {
	rows, err := r.store.ReadTable(ctx, companyName, companyName)
	if err != nil {
		return fmt.Errorf("failed to read company table: %w", err)
	}
	if len(rows) == 0 {
		return ErrCompanyNotFound
	}

	enabled, err := r.companyEnabled(ctx, companyName)
	if err != nil {
		return err
	}
	if !enabled {
		return ErrCompanyDisabled
	}
	return nil
}

func (r *repository) Register(ctx context.Context, companyName, eventName string, reg *model.Registration) (string, *model.Registration, error) {
	rootRows, err := r.store.ReadTable(ctx, companyName, companyName)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read company table: %w", err)
	}

	resolved, ok := resolveEvent(rootRows, eventName)
	if !ok {
		return "", nil, ErrEventNotFound
	}

	mu := r.lockFor(companyName, resolved)
	mu.Lock()
	defer mu.Unlock()

	eventRows, err := r.store.ReadTable(ctx, companyName, resolved)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read event table: %w", err)
	}
	if len(eventRows) == 0 {
		return "", nil, ErrEventDataNotFound
	}
	if !eventEnabled(eventRows) {
		return "", nil, ErrEventDisabled
	}
	if isDuplicate(eventRows, reg.Email, reg.Phone) {
		return "", nil, ErrDuplicateRegistration
	}

	ts := time.Now().UTC().Format(time.RFC3339)
	row := []string{
		reg.Name, reg.Phone, reg.Email, reg.Gender,
		reg.College, reg.Status, reg.NationalID, ts,
		"", // image placeholder, reserved
	}
	if err := r.store.AppendRow(ctx, companyName, resolved, row); err != nil {
		r.log.Error().Err(err).Str("company", companyName).Str("event", resolved).Msg("failed to append registration")
		return "", nil, fmt.Errorf("failed to append registration: %w", err)
	}

	out := *reg
	out.RegistrationDate = ts
	return resolved, &out, nil
}

func (r *repository) ListEvents(ctx context.Context, companyName string) ([]model.Event, error) {
	rootRows, err := r.store.ReadTable(ctx, companyName, companyName)
	if err != nil {
		return nil, fmt.Errorf("failed to read company table: %w", err)
	}
	if len(rootRows) == 0 {
		return nil, ErrCompanyNotFound
	}

	var events []model.Event
	for _, row := range rootRows {
		if len(row) != 1 {
			continue
		}
		event, err := r.readEvent(ctx, companyName, row[0])
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	return events, nil
}

func (r *repository) GetEvent(ctx context.Context, companyName, eventName string) (*model.Event, error) {
	resolved, err := r.resolve(ctx, companyName, eventName)
	if err != nil {
		return nil, err
	}
	return r.readEvent(ctx, companyName, resolved)
}

// readEvent builds an event from its table's metadata row. A marker whose
// table has no metadata yet still lists, with the marker name as display name.
func (r *repository) readEvent(ctx context.Context, companyName, resolved string) (*model.Event, error) {
	rows, err := r.store.ReadTable(ctx, companyName, resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to read event table: %w", err)
	}

	event := &model.Event{
		Company: companyName,
		Name:    resolved,
		Enabled: true,
	}
	if len(rows) < 2 {
		return event, nil
	}

	header, meta := rows[0], rows[1]
	if idx := findColumn(header, "eventName"); idx >= 0 && cell(meta, idx) != "" {
		event.Name = cell(meta, idx)
	}
	if idx := findColumn(header, "eventImage"); idx >= 0 {
		event.Image = cell(meta, idx)
	}
	if idx := findColumn(header, "eventDescription"); idx >= 0 {
		event.Description = cell(meta, idx)
	}
	if idx := findColumn(header, "eventDate"); idx >= 0 {
		event.Date = cell(meta, idx)
	}
	event.Enabled = eventEnabled(rows)
	return event, nil
}

func (r *repository) ListRegistrations(ctx context.Context, companyName, eventName string) ([]model.Registration, error) {
	resolved, err := r.resolve(ctx, companyName, eventName)
	if err != nil {
		return nil, err
	}

	rows, err := r.store.ReadTable(ctx, companyName, resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to read event table: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEventDataNotFound
	}

	var regs []model.Registration
	// rows[0] is the header, rows[1] the event metadata row
	if len(rows) < 3 {
		return regs, nil
	}
	for _, row := range rows[2:] {
		regs = append(regs, model.Registration{
			Name:             cell(row, colName),
			Phone:            cell(row, colPhone),
			Email:            cell(row, colEmail),
			Gender:           cell(row, colGender),
			College:          cell(row, colCollege),
			Status:           cell(row, colStatus),
			NationalID:       cell(row, colNationalID),
			RegistrationDate: cell(row, colRegistrationDate),
		})
	}
	return regs, nil
}

func (r *repository) resolve(ctx context.Context, companyName, eventName string) (string, error) {
	rootRows, err := r.store.ReadTable(ctx, companyName, companyName)
	if err != nil {
		return "", fmt.Errorf("failed to read company table: %w", err)
	}
	if len(rootRows) == 0 {
		return "", ErrCompanyNotFound
	}

	resolved, ok := resolveEvent(rootRows, eventName)
	if !ok {
		return "", ErrEventNotFound
	}
	return resolved, nil
}

func (r *repository) CreateCompany(ctx context.Context, company *model.Company) error {
	rows, err := r.store.ReadTable(ctx, companiesTenant, companiesTable)
	if err != nil {
		return fmt.Errorf("failed to read companies registry: %w", err)
	}

	if len(rows) == 0 {
		if err := r.store.AppendRow(ctx, companiesTenant, companiesTable, companiesTableHeader); err != nil {
			return fmt.Errorf("failed to initialize companies registry: %w", err)
		}
	} else {
		nameCol := findColumn(rows[0], "name")
		if nameCol < 0 {
			nameCol = 0
		}
		for _, row := range rows[1:] {
			if cell(row, nameCol) == company.Name {
				return ErrCompanyExists
			}
		}
	}

	status := statusEnabled
	if !company.Enabled {
		status = statusDisabled
	}
	if err := r.store.AppendRow(ctx, companiesTenant, companiesTable, []string{company.Name, company.Image, status}); err != nil {
		return fmt.Errorf("failed to register company: %w", err)
	}
	r.log.Info().Str("company", company.Name).Msg("company registered")
	return nil
}

func (r *repository) CreateEvent(ctx context.Context, event *model.Event) error {
	registered, err := r.companyRegistered(ctx, event.Company)
	if err != nil {
		return err
	}
	if !registered {
		return ErrCompanyNotFound
	}

	rootRows, err := r.store.ReadTable(ctx, event.Company, event.Company)
	if err != nil {
		return fmt.Errorf("failed to read company table: %w", err)
	}
	if _, ok := resolveEvent(rootRows, event.Name); ok {
		return ErrEventExists
	}

	if err := r.store.AppendRow(ctx, event.Company, event.Company, []string{event.Name}); err != nil {
		return fmt.Errorf("failed to append event marker: %w", err)
	}
	if err := r.store.AppendRow(ctx, event.Company, event.Name, eventTableHeader); err != nil {
		return fmt.Errorf("failed to write event table header: %w", err)
	}

	status := statusEnabled
	if !event.Enabled {
		status = statusDisabled
	}
	meta := make([]string, len(eventTableHeader))
	meta[findColumn(eventTableHeader, "eventName")] = event.Name
	meta[findColumn(eventTableHeader, "eventImage")] = event.Image
	meta[findColumn(eventTableHeader, "eventDescription")] = event.Description
	meta[findColumn(eventTableHeader, "eventDate")] = event.Date
	meta[findColumn(eventTableHeader, "eventStatus")] = status
	if err := r.store.AppendRow(ctx, event.Company, event.Name, meta); err != nil {
		return fmt.Errorf("failed to write event metadata: %w", err)
	}

	r.log.Info().Str("company", event.Company).Str("event", event.Name).Msg("event created")
	return nil
}

func (r *repository) companyRegistered(ctx context.Context, companyName string) (bool, error) {
	rows, err := r.store.ReadTable(ctx, companiesTenant, companiesTable)
	if err != nil {
		return false, fmt.Errorf("failed to read companies registry: %w", err)
	}
	if len(rows) == 0 {
		return false, nil
	}

	nameCol := findColumn(rows[0], "name")
	if nameCol < 0 {
		nameCol = 0
	}
	for _, row := range rows[1:] {
		if cell(row, nameCol) == companyName {
			return true, nil
		}
	}
	return false, nil
}

func (r *repository) SetCompanyEnabled(ctx context.Context, companyName string, enabled bool) error {
	rows, err := r.store.ReadTable(ctx, companiesTenant, companiesTable)
	if err != nil {
		return fmt.Errorf("failed to read companies registry: %w", err)
	}
	if len(rows) == 0 {
		return ErrCompanyNotFound
	}

	nameCol := findColumn(rows[0], "name")
	if nameCol < 0 {
		nameCol = 0
	}
	statusCol := findColumn(rows[0], "status")
	if statusCol < 0 {
		return fmt.Errorf("companies registry has no status column")
	}

	status := statusEnabled
	if !enabled {
		status = statusDisabled
	}
	for i, row := range rows[1:] {
		if cell(row, nameCol) == companyName {
			if err := r.store.UpdateCell(ctx, companiesTenant, companiesTable, i+1, statusCol, status); err != nil {
				return fmt.Errorf("failed to update company status: %w", err)
			}
			r.log.Info().Str("company", companyName).Str("status", status).Msg("company status updated")
			return nil
		}
	}
	return ErrCompanyNotFound
}

func (r *repository) SetEventEnabled(ctx context.Context, companyName, eventName string, enabled bool) error {
	resolved, err := r.resolve(ctx, companyName, eventName)
	if err != nil {
		return err
	}

	rows, err := r.store.ReadTable(ctx, companyName, resolved)
	if err != nil {
		return fmt.Errorf("failed to read event table: %w", err)
	}
	if len(rows) < 2 {
		return ErrEventDataNotFound
	}
	statusCol := findColumn(rows[0], "eventStatus")
	if statusCol < 0 {
		return fmt.Errorf("event table has no status column")
	}

	status := statusEnabled
	if !enabled {
		status = statusDisabled
	}
	if err := r.store.UpdateCell(ctx, companyName, resolved, 1, statusCol, status); err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}
	r.log.Info().Str("company", companyName).Str("event", resolved).Str("status", status).Msg("event status updated")
	return nil
}
