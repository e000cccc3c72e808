package models

import (
	"github.com/barberflow/backend/internal/domain/client"
)

// ClientModel is the persistence model for the Client aggregate root.
type ClientModel struct {
	AggregateModel
	Name   string `gorm:"type:varchar(200);not null;index"`
	Phone  string `gorm:"type:varchar(30)"`
	Email  string `gorm:"type:varchar(200)"`
	Notes  string `gorm:"type:text"`
	Active bool   `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client aggregate.
func (m *ClientModel) ToDomain() *client.Client {
	record := &client.Client{
		Name:   m.Name,
		Phone:  m.Phone,
		Email:  m.Email,
		Notes:  m.Notes,
		Active: m.Active,
	}
	m.PopulateAggregateRoot(&record.BaseAggregateRoot)
	return record
}

// FromDomain populates the persistence model from a domain Client aggregate.
func (m *ClientModel) FromDomain(c *client.Client) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.Phone = c.Phone
	m.Email = c.Email
	m.Notes = c.Notes
	m.Active = c.Active
}

// ClientModelFromDomain creates a new persistence model from a domain Client.
func ClientModelFromDomain(c *client.Client) *ClientModel {
	m := &ClientModel{}
	m.FromDomain(c)
	return m
}
