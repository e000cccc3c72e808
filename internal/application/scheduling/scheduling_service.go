package scheduling

import (
	"context"
	"time"

	"github.com/barberflow/backend/internal/domain/client"
	"github.com/barberflow/backend/internal/domain/scheduling"
	"github.com/barberflow/backend/internal/domain/shared"
	"github.com/barberflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// SchedulingService provides application-level appointment operations
type SchedulingService struct {
	appointmentRepo scheduling.AppointmentRepository
	clientRepo      client.ClientRepository
	today           func() valueobject.CalDate
}

// SchedulingServiceOption is a functional option for configuring SchedulingService
type SchedulingServiceOption func(*SchedulingService)

// WithToday overrides the clock used for past-date validation
func WithToday(fn func() valueobject.CalDate) SchedulingServiceOption {
	return func(s *SchedulingService) {
		s.today = fn
	}
}

// NewSchedulingService creates a new SchedulingService
func NewSchedulingService(
	appointmentRepo scheduling.AppointmentRepository,
	clientRepo client.ClientRepository,
	opts ...SchedulingServiceOption,
) *SchedulingService {
	s := &SchedulingService{
		appointmentRepo: appointmentRepo,
		clientRepo:      clientRepo,
		today:           valueobject.Today,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScheduleAppointmentRequest represents a request to book a slot
type ScheduleAppointmentRequest struct {
	ClientID   *uuid.UUID `json:"client_id"`
	ClientName string     `json:"client_name" binding:"required"`
	Service    string     `json:"service" binding:"required"`
	Date       string     `json:"date" binding:"required"`
	Slot       string     `json:"slot" binding:"required"`
	Notes      string     `json:"notes"`
}

// AppointmentListFilter defines filtering options for appointment list queries
type AppointmentListFilter struct {
	Search   string     `form:"search"`
	ClientID *uuid.UUID `form:"client_id"`
	Status   string     `form:"status"`
	Date     string     `form:"date"`
	FromDate string     `form:"from_date"`
	ToDate   string     `form:"to_date"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
}

// AppointmentResponse represents an appointment in API responses
type AppointmentResponse struct {
	ID         uuid.UUID  `json:"id"`
	ClientID   *uuid.UUID `json:"client_id,omitempty"`
	ClientName string     `json:"client_name"`
	Service    string     `json:"service"`
	Date       string     `json:"date"`
	Slot       string     `json:"slot"`
	Status     string     `json:"status"`
	Notes      string     `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Version    int        `json:"version"`
}

// DaySlotsResponse lists the free slots of one day
type DaySlotsResponse struct {
	Date      string   `json:"date"`
	Available []string `json:"available"`
}

// ScheduleAppointment books a slot. A date/slot pair already held by a
// non-cancelled appointment is rejected with a conflict error.
func (s *SchedulingService) ScheduleAppointment(ctx context.Context, req ScheduleAppointmentRequest) (*AppointmentResponse, error) {
	date, err := valueobject.ParseCalDate(req.Date)
	if err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid appointment date: "+err.Error())
	}

	slot := scheduling.TimeSlot(req.Slot)
	taken, err := s.appointmentRepo.SlotTaken(ctx, date, slot)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("SLOT_TAKEN", "Time slot is already booked")
	}

	clientID := req.ClientID
	if clientID == nil && s.clientRepo != nil {
		if match, lookupErr := s.clientRepo.FindByName(ctx, req.ClientName); lookupErr == nil && match != nil {
			clientID = &match.ID
		}
	}

	appointment, err := scheduling.NewAppointment(req.ClientName, req.Service, date, slot, req.Notes, clientID, s.today())
	if err != nil {
		return nil, err
	}

	if err := s.appointmentRepo.Create(ctx, appointment); err != nil {
		if domainErr, ok := err.(*shared.DomainError); ok {
			return nil, domainErr
		}
		return nil, shared.NewDomainError("CREATION_FAILED", "Appointment could not be created: "+err.Error())
	}

	return toAppointmentResponse(appointment), nil
}

// CompleteAppointment marks an appointment as done
func (s *SchedulingService) CompleteAppointment(ctx context.Context, id uuid.UUID) (*AppointmentResponse, error) {
	return s.transition(ctx, id, (*scheduling.Appointment).Complete)
}

// CancelAppointment releases an appointment's slot
func (s *SchedulingService) CancelAppointment(ctx context.Context, id uuid.UUID) (*AppointmentResponse, error) {
	return s.transition(ctx, id, (*scheduling.Appointment).Cancel)
}

func (s *SchedulingService) transition(ctx context.Context, id uuid.UUID, apply func(*scheduling.Appointment) error) (*AppointmentResponse, error) {
	appointment, err := s.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Appointment not found")
	}

	if err := apply(appointment); err != nil {
		return nil, err
	}

	if err := s.appointmentRepo.Save(ctx, appointment); err != nil {
		if domainErr, ok := err.(*shared.DomainError); ok {
			return nil, domainErr
		}
		return nil, shared.NewDomainError("PERSISTENCE_ERROR", "Appointment could not be stored: "+err.Error())
	}

	return toAppointmentResponse(appointment), nil
}

// GetAppointment gets an appointment by ID
func (s *SchedulingService) GetAppointment(ctx context.Context, id uuid.UUID) (*AppointmentResponse, error) {
	appointment, err := s.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Appointment not found")
	}
	return toAppointmentResponse(appointment), nil
}

// ListAppointments lists appointments with filtering
func (s *SchedulingService) ListAppointments(ctx context.Context, filter AppointmentListFilter) ([]AppointmentResponse, int64, error) {
	domainFilter := scheduling.AppointmentFilter{
		ClientID: filter.ClientID,
	}
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.Search = filter.Search

	if filter.Status != "" {
		status := scheduling.AppointmentStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("VALIDATION_ERROR", "Invalid status filter")
		}
		domainFilter.Status = &status
	}
	for _, field := range []struct {
		value  string
		target **valueobject.CalDate
	}{
		{filter.Date, &domainFilter.Date},
		{filter.FromDate, &domainFilter.FromDate},
		{filter.ToDate, &domainFilter.ToDate},
	} {
		if field.value == "" {
			continue
		}
		parsed, err := valueobject.ParseCalDate(field.value)
		if err != nil {
			return nil, 0, shared.NewDomainError("VALIDATION_ERROR", "Invalid date filter: "+err.Error())
		}
		*field.target = &parsed
	}

	appointments, err := s.appointmentRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.appointmentRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *toAppointmentResponse(&appointments[i])
	}

	return responses, total, nil
}

// AvailableSlots lists the free slots of one day
func (s *SchedulingService) AvailableSlots(ctx context.Context, rawDate string) (*DaySlotsResponse, error) {
	date, err := valueobject.ParseCalDate(rawDate)
	if err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid date: "+err.Error())
	}

	active, err := s.appointmentRepo.FindActiveByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	booked := make([]scheduling.TimeSlot, 0, len(active))
	for _, appointment := range active {
		booked = append(booked, appointment.Slot)
	}

	available := scheduling.AvailableSlots(booked)
	names := make([]string, len(available))
	for i, slot := range available {
		names[i] = slot.String()
	}

	return &DaySlotsResponse{Date: date.String(), Available: names}, nil
}

func toAppointmentResponse(a *scheduling.Appointment) *AppointmentResponse {
	return &AppointmentResponse{
		ID:         a.ID,
		ClientID:   a.ClientID,
		ClientName: a.ClientName,
		Service:    a.Service,
		Date:       a.Date.String(),
		Slot:       a.Slot.String(),
		Status:     a.Status.String(),
		Notes:      a.Notes,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
		Version:    a.Version,
	}
}
