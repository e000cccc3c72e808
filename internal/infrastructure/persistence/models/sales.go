package models

import (
	"github.com/barberflow/backend/internal/domain/ledger"
	"github.com/barberflow/backend/internal/domain/sales"
	"github.com/barberflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ServiceSaleModel is the persistence model for the ServiceSale aggregate root.
type ServiceSaleModel struct {
	AggregateModel
	ClientID      *uuid.UUID           `gorm:"type:uuid;index"`
	ClientName    string               `gorm:"type:varchar(200);not null;index"`
	Items         sales.SaleItems      `gorm:"type:jsonb;not null;default:'[]'"`
	Subtotal      decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Discount      decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Total         decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	PaymentMethod ledger.PaymentMethod `gorm:"type:varchar(20);not null;index"`
	SaleDate      valueobject.CalDate  `gorm:"type:date;not null;index"`
	Origin        sales.SaleOrigin     `gorm:"type:varchar(20);not null;default:'WALK_IN';index"`
	AppointmentID *uuid.UUID           `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (ServiceSaleModel) TableName() string {
	return "service_sales"
}

// ToDomain converts the persistence model to a domain ServiceSale aggregate.
func (m *ServiceSaleModel) ToDomain() *sales.ServiceSale {
	sale := &sales.ServiceSale{
		ClientID:      m.ClientID,
		ClientName:    m.ClientName,
		Items:         m.Items,
		Subtotal:      m.Subtotal,
		Discount:      m.Discount,
		Total:         m.Total,
		PaymentMethod: m.PaymentMethod,
		SaleDate:      m.SaleDate,
		Origin:        m.Origin,
		AppointmentID: m.AppointmentID,
	}
	m.PopulateAggregateRoot(&sale.BaseAggregateRoot)
	return sale
}

// FromDomain populates the persistence model from a domain ServiceSale aggregate.
func (m *ServiceSaleModel) FromDomain(sale *sales.ServiceSale) {
	m.FromDomainAggregateRoot(sale.BaseAggregateRoot)
	m.ClientID = sale.ClientID
	m.ClientName = sale.ClientName
	m.Items = sale.Items
	m.Subtotal = sale.Subtotal
	m.Discount = sale.Discount
	m.Total = sale.Total
	m.PaymentMethod = sale.PaymentMethod
	m.SaleDate = sale.SaleDate
	m.Origin = sale.Origin
	m.AppointmentID = sale.AppointmentID
}

// ServiceSaleModelFromDomain creates a new persistence model from a domain ServiceSale.
func ServiceSaleModelFromDomain(sale *sales.ServiceSale) *ServiceSaleModel {
	m := &ServiceSaleModel{}
	m.FromDomain(sale)
	return m
}
