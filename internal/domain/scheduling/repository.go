package scheduling

import (
	"context"

	"github.com/barberflow/backend/internal/domain/shared"
	"github.com/barberflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// AppointmentFilter defines filtering options for appointment queries
type AppointmentFilter struct {
	shared.Filter
	ClientID *uuid.UUID           // Filter by linked client
	Status   *AppointmentStatus   // Filter by status
	Date     *valueobject.CalDate // Filter by exact date
	FromDate *valueobject.CalDate // Filter by date range start
	ToDate   *valueobject.CalDate // Filter by date range end
}

// AppointmentRepository defines the interface for appointment persistence
type AppointmentRepository interface {
	// FindByID finds an appointment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// FindAll finds appointments with filtering
	FindAll(ctx context.Context, filter AppointmentFilter) ([]Appointment, error)

	// FindActiveByDate finds the non-cancelled appointments of a date
	FindActiveByDate(ctx context.Context, date valueobject.CalDate) ([]Appointment, error)

	// SlotTaken reports whether a non-cancelled appointment holds the slot
	SlotTaken(ctx context.Context, date valueobject.CalDate, slot TimeSlot) (bool, error)

	// Create persists a new appointment
	Create(ctx context.Context, appointment *Appointment) error

	// Save updates an appointment with optimistic locking
	Save(ctx context.Context, appointment *Appointment) error

	// Count counts appointments matching the filter
	Count(ctx context.Context, filter AppointmentFilter) (int64, error)
}
