package models

import (
	"github.com/barberflow/backend/internal/domain/scheduling"
	"github.com/barberflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// AppointmentModel is the persistence model for the Appointment aggregate root.
type AppointmentModel struct {
	AggregateModel
	ClientID   *uuid.UUID                   `gorm:"type:uuid;index"`
	ClientName string                       `gorm:"type:varchar(200);not null;index"`
	Service    string                       `gorm:"type:text;not null"`
	Date       valueobject.CalDate          `gorm:"type:date;not null;index:idx_appointment_date_slot,priority:1"`
	Slot       scheduling.TimeSlot          `gorm:"type:varchar(5);not null;index:idx_appointment_date_slot,priority:2"`
	Status     scheduling.AppointmentStatus `gorm:"type:varchar(20);not null;default:'SCHEDULED';index"`
	Notes      string                       `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (AppointmentModel) TableName() string {
	return "appointments"
}

// ToDomain converts the persistence model to a domain Appointment aggregate.
func (m *AppointmentModel) ToDomain() *scheduling.Appointment {
	appointment := &scheduling.Appointment{
		ClientID:   m.ClientID,
		ClientName: m.ClientName,
		Service:    m.Service,
		Date:       m.Date,
		Slot:       m.Slot,
		Status:     m.Status,
		Notes:      m.Notes,
	}
	m.PopulateAggregateRoot(&appointment.BaseAggregateRoot)
	return appointment
}

// FromDomain populates the persistence model from a domain Appointment aggregate.
func (m *AppointmentModel) FromDomain(a *scheduling.Appointment) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.ClientID = a.ClientID
	m.ClientName = a.ClientName
	m.Service = a.Service
	m.Date = a.Date
	m.Slot = a.Slot
	m.Status = a.Status
	m.Notes = a.Notes
}

// AppointmentModelFromDomain creates a new persistence model from a domain Appointment.
func AppointmentModelFromDomain(a *scheduling.Appointment) *AppointmentModel {
	m := &AppointmentModel{}
	m.FromDomain(a)
	return m
}
