package scheduling

import (
	"github.com/barberflow/backend/internal/domain/shared"
	"github.com/barberflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// AppointmentScheduledEvent is raised when a slot is booked
type AppointmentScheduledEvent struct {
	shared.BaseDomainEvent
	AppointmentID uuid.UUID           `json:"appointment_id"`
	ClientName    string              `json:"client_name"`
	Date          valueobject.CalDate `json:"date"`
	Slot          TimeSlot            `json:"slot"`
}

// EventType returns the event type name
func (e *AppointmentScheduledEvent) EventType() string {
	return "AppointmentScheduled"
}

// NewAppointmentScheduledEvent creates a new AppointmentScheduledEvent
func NewAppointmentScheduledEvent(a *Appointment) *AppointmentScheduledEvent {
	return &AppointmentScheduledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AppointmentScheduled", "Appointment", a.ID),
		AppointmentID:   a.ID,
		ClientName:      a.ClientName,
		Date:            a.Date,
		Slot:            a.Slot,
	}
}

// AppointmentCompletedEvent is raised when a visit is marked done
type AppointmentCompletedEvent struct {
	shared.BaseDomainEvent
	AppointmentID uuid.UUID           `json:"appointment_id"`
	ClientName    string              `json:"client_name"`
	Date          valueobject.CalDate `json:"date"`
}

// EventType returns the event type name
func (e *AppointmentCompletedEvent) EventType() string {
	return "AppointmentCompleted"
}

// NewAppointmentCompletedEvent creates a new AppointmentCompletedEvent
func NewAppointmentCompletedEvent(a *Appointment) *AppointmentCompletedEvent {
	return &AppointmentCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AppointmentCompleted", "Appointment", a.ID),
		AppointmentID:   a.ID,
		ClientName:      a.ClientName,
		Date:            a.Date,
	}
}

// AppointmentCancelledEvent is raised when a booking releases its slot
type AppointmentCancelledEvent struct {
	shared.BaseDomainEvent
	AppointmentID uuid.UUID           `json:"appointment_id"`
	Date          valueobject.CalDate `json:"date"`
	Slot          TimeSlot            `json:"slot"`
}

// EventType returns the event type name
func (e *AppointmentCancelledEvent) EventType() string {
	return "AppointmentCancelled"
}

// NewAppointmentCancelledEvent creates a new AppointmentCancelledEvent
func NewAppointmentCancelledEvent(a *Appointment) *AppointmentCancelledEvent {
	return &AppointmentCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AppointmentCancelled", "Appointment", a.ID),
		AppointmentID:   a.ID,
		Date:            a.Date,
		Slot:            a.Slot,
	}
}
