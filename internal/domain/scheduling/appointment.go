package scheduling

import (
	"fmt"
	"time"

	"github.com/barberflow/backend/internal/domain/shared"
	"github.com/barberflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "SCHEDULED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
)

// IsValid checks if the status is a valid AppointmentStatus
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of AppointmentStatus
func (s AppointmentStatus) String() string {
	return string(s)
}

// TimeSlot is one of the shop's fixed daily service slots
type TimeSlot string

const (
	TimeSlotMorning   TimeSlot = "09:00"
	TimeSlotLate      TimeSlot = "11:00"
	TimeSlotAfternoon TimeSlot = "14:00"
	TimeSlotEvening   TimeSlot = "16:00"
)

// AllTimeSlots returns every bookable slot in chronological order
func AllTimeSlots() []TimeSlot {
	return []TimeSlot{TimeSlotMorning, TimeSlotLate, TimeSlotAfternoon, TimeSlotEvening}
}

// IsValid checks if the slot is one of the fixed daily slots
func (t TimeSlot) IsValid() bool {
	switch t {
	case TimeSlotMorning, TimeSlotLate, TimeSlotAfternoon, TimeSlotEvening:
		return true
	}
	return false
}

// String returns the string representation of TimeSlot
func (t TimeSlot) String() string {
	return string(t)
}

// AvailableSlots returns the slots of a day that are not held by any of the
// given active appointments. Cancelled appointments release their slot.
func AvailableSlots(booked []TimeSlot) []TimeSlot {
	taken := make(map[TimeSlot]bool, len(booked))
	for _, slot := range booked {
		taken[slot] = true
	}
	available := make([]TimeSlot, 0, 4)
	for _, slot := range AllTimeSlots() {
		if !taken[slot] {
			available = append(available, slot)
		}
	}
	return available
}

// Appointment is the aggregate root for a booked service slot. A date/slot
// pair can be held by at most one non-cancelled appointment.
type Appointment struct {
	shared.BaseAggregateRoot
	ClientID   *uuid.UUID          `json:"client_id,omitempty"`
	ClientName string              `json:"client_name"`
	Service    string              `json:"service"`
	Date       valueobject.CalDate `json:"date"`
	Slot       TimeSlot            `json:"slot"`
	Status     AppointmentStatus   `json:"status"`
	Notes      string              `json:"notes,omitempty"`
}

// NewAppointment creates a scheduled appointment. Booking a past date is
// rejected; same-day booking is allowed.
func NewAppointment(
	clientName string,
	service string,
	date valueobject.CalDate,
	slot TimeSlot,
	notes string,
	clientID *uuid.UUID,
	today valueobject.CalDate,
) (*Appointment, error) {
	if clientName == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Client name cannot be empty")
	}
	if len(clientName) > 200 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Client name cannot exceed 200 characters")
	}
	if service == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Service description cannot be empty")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Appointment date is required")
	}
	if date.Before(today) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Cannot schedule an appointment in the past")
	}
	if !slot.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Invalid time slot %q", slot))
	}

	appt := &Appointment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ClientID:          clientID,
		ClientName:        clientName,
		Service:           service,
		Date:              date,
		Slot:              slot,
		Status:            AppointmentStatusScheduled,
		Notes:             notes,
	}

	appt.AddDomainEvent(NewAppointmentScheduledEvent(appt))
	return appt, nil
}

// Complete marks the appointment as done. Only scheduled appointments can
// be completed.
func (a *Appointment) Complete() error {
	if a.Status != AppointmentStatusScheduled {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot complete an appointment in status %s", a.Status))
	}
	a.Status = AppointmentStatusCompleted
	a.touch()
	a.AddDomainEvent(NewAppointmentCompletedEvent(a))
	return nil
}

// Cancel releases the appointment's slot. Completed appointments cannot be
// cancelled; cancelling twice is an error.
func (a *Appointment) Cancel() error {
	if a.Status != AppointmentStatusScheduled {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot cancel an appointment in status %s", a.Status))
	}
	a.Status = AppointmentStatusCancelled
	a.touch()
	a.AddDomainEvent(NewAppointmentCancelledEvent(a))
	return nil
}

func (a *Appointment) touch() {
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// IsActive returns true while the appointment still holds its slot
func (a *Appointment) IsActive() bool {
	return a.Status == AppointmentStatusScheduled
}
