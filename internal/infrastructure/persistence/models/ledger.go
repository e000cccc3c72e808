package models

import (
	"github.com/barberflow/backend/internal/domain/ledger"
	"github.com/barberflow/backend/internal/domain/shared"
	"github.com/barberflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditSaleModel is the persistence model for the CreditSale aggregate root.
type CreditSaleModel struct {
	AggregateModel
	ClientID         *uuid.UUID           `gorm:"type:uuid;index"`
	ClientName       string               `gorm:"type:varchar(200);not null;index"`
	Products         string               `gorm:"type:text;not null"`
	Subtotal         decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Discount         decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	TotalAmount      decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	InstallmentCount int                  `gorm:"not null"`
	FirstDueDate     valueobject.CalDate  `gorm:"type:date;not null"`
	SaleDate         valueobject.CalDate  `gorm:"type:date;not null;index"`
	Status           ledger.SaleStatus    `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	TotalPaid        decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	RemainingAmount  decimal.Decimal      `gorm:"type:decimal(18,4);not null;index"`
	Installments     []InstallmentModel   `gorm:"foreignKey:SaleID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (CreditSaleModel) TableName() string {
	return "credit_sales"
}

// InstallmentModel is the persistence model for a CreditSale installment.
type InstallmentModel struct {
	BaseModel
	SaleID        uuid.UUID                `gorm:"type:uuid;not null;index"`
	Number        int                      `gorm:"not null"`
	Amount        decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	DueDate       valueobject.CalDate      `gorm:"type:date;not null;index"`
	Status        ledger.InstallmentStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	PaidDate      *valueobject.CalDate     `gorm:"type:date;index"`
	PaymentMethod ledger.PaymentMethod     `gorm:"type:varchar(20)"`
}

// TableName returns the table name for GORM
func (InstallmentModel) TableName() string {
	return "installments"
}

// ToDomain converts the persistence model to a domain Installment entity.
func (m *InstallmentModel) ToDomain() ledger.Installment {
	return ledger.Installment{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		SaleID:        m.SaleID,
		Number:        m.Number,
		Amount:        m.Amount,
		DueDate:       m.DueDate,
		Status:        m.Status,
		PaidDate:      m.PaidDate,
		PaymentMethod: m.PaymentMethod,
	}
}

// FromDomain populates the persistence model from a domain Installment entity.
func (m *InstallmentModel) FromDomain(inst *ledger.Installment) {
	m.FromDomainBaseEntity(inst.BaseEntity)
	m.SaleID = inst.SaleID
	m.Number = inst.Number
	m.Amount = inst.Amount
	m.DueDate = inst.DueDate
	m.Status = inst.Status
	m.PaidDate = inst.PaidDate
	m.PaymentMethod = inst.PaymentMethod
}

// ToDomain converts the persistence model to a domain CreditSale aggregate.
func (m *CreditSaleModel) ToDomain() *ledger.CreditSale {
	sale := &ledger.CreditSale{
		ClientID:         m.ClientID,
		ClientName:       m.ClientName,
		Products:         m.Products,
		Subtotal:         m.Subtotal,
		Discount:         m.Discount,
		TotalAmount:      m.TotalAmount,
		InstallmentCount: m.InstallmentCount,
		FirstDueDate:     m.FirstDueDate,
		SaleDate:         m.SaleDate,
		Status:           m.Status,
		TotalPaid:        m.TotalPaid,
		RemainingAmount:  m.RemainingAmount,
	}
	m.PopulateAggregateRoot(&sale.BaseAggregateRoot)

	sale.Installments = make([]ledger.Installment, len(m.Installments))
	for i := range m.Installments {
		sale.Installments[i] = m.Installments[i].ToDomain()
	}
	return sale
}

// FromDomain populates the persistence model from a domain CreditSale aggregate.
func (m *CreditSaleModel) FromDomain(sale *ledger.CreditSale) {
	m.FromDomainAggregateRoot(sale.BaseAggregateRoot)
	m.ClientID = sale.ClientID
	m.ClientName = sale.ClientName
	m.Products = sale.Products
	m.Subtotal = sale.Subtotal
	m.Discount = sale.Discount
	m.TotalAmount = sale.TotalAmount
	m.InstallmentCount = sale.InstallmentCount
	m.FirstDueDate = sale.FirstDueDate
	m.SaleDate = sale.SaleDate
	m.Status = sale.Status
	m.TotalPaid = sale.TotalPaid
	m.RemainingAmount = sale.RemainingAmount

	m.Installments = make([]InstallmentModel, len(sale.Installments))
	for i := range sale.Installments {
		m.Installments[i].FromDomain(&sale.Installments[i])
	}
}

// CreditSaleModelFromDomain creates a new persistence model from a domain CreditSale.
func CreditSaleModelFromDomain(sale *ledger.CreditSale) *CreditSaleModel {
	m := &CreditSaleModel{}
	m.FromDomain(sale)
	return m
}
