package ledger

import (
	"github.com/barberflow/backend/internal/domain/shared"
	"github.com/barberflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditSaleCreatedEvent is raised when a new credit sale is registered
type CreditSaleCreatedEvent struct {
	shared.BaseDomainEvent
	SaleID           uuid.UUID           `json:"sale_id"`
	ClientID         *uuid.UUID          `json:"client_id,omitempty"`
	ClientName       string              `json:"client_name"`
	TotalAmount      decimal.Decimal     `json:"total_amount"`
	InstallmentCount int                 `json:"installment_count"`
	FirstDueDate     valueobject.CalDate `json:"first_due_date"`
}

// EventType returns the event type name
func (e *CreditSaleCreatedEvent) EventType() string {
	return "CreditSaleCreated"
}

// NewCreditSaleCreatedEvent creates a new CreditSaleCreatedEvent
func NewCreditSaleCreatedEvent(cs *CreditSale) *CreditSaleCreatedEvent {
	return &CreditSaleCreatedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("CreditSaleCreated", "CreditSale", cs.ID),
		SaleID:           cs.ID,
		ClientID:         cs.ClientID,
		ClientName:       cs.ClientName,
		TotalAmount:      cs.TotalAmount,
		InstallmentCount: cs.InstallmentCount,
		FirstDueDate:     cs.FirstDueDate,
	}
}

// InstallmentPaidEvent is raised when a payment is recorded against an installment
type InstallmentPaidEvent struct {
	shared.BaseDomainEvent
	SaleID            uuid.UUID           `json:"sale_id"`
	InstallmentID     uuid.UUID           `json:"installment_id"`
	InstallmentNumber int                 `json:"installment_number"`
	Amount            decimal.Decimal     `json:"amount"`
	PaidDate          valueobject.CalDate `json:"paid_date"`
	PaymentMethod     PaymentMethod       `json:"payment_method"`
	RemainingAmount   decimal.Decimal     `json:"remaining_amount"`
}

// EventType returns the event type name
func (e *InstallmentPaidEvent) EventType() string {
	return "InstallmentPaid"
}

// NewInstallmentPaidEvent creates a new InstallmentPaidEvent
func NewInstallmentPaidEvent(cs *CreditSale, inst *Installment) *InstallmentPaidEvent {
	var paidDate valueobject.CalDate
	if inst.PaidDate != nil {
		paidDate = *inst.PaidDate
	}
	return &InstallmentPaidEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent("InstallmentPaid", "CreditSale", cs.ID),
		SaleID:            cs.ID,
		InstallmentID:     inst.ID,
		InstallmentNumber: inst.Number,
		Amount:            inst.Amount,
		PaidDate:          paidDate,
		PaymentMethod:     inst.PaymentMethod,
		RemainingAmount:   cs.RemainingAmount,
	}
}

// CreditSalePaidEvent is raised when the final installment of a sale is paid
type CreditSalePaidEvent struct {
	shared.BaseDomainEvent
	SaleID      uuid.UUID       `json:"sale_id"`
	ClientName  string          `json:"client_name"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// EventType returns the event type name
func (e *CreditSalePaidEvent) EventType() string {
	return "CreditSalePaid"
}

// NewCreditSalePaidEvent creates a new CreditSalePaidEvent
func NewCreditSalePaidEvent(cs *CreditSale) *CreditSalePaidEvent {
	return &CreditSalePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("CreditSalePaid", "CreditSale", cs.ID),
		SaleID:          cs.ID,
		ClientName:      cs.ClientName,
		TotalAmount:     cs.TotalAmount,
	}
}

// CreditSaleOverdueEvent is raised when a refresh pass moves a sale into overdue
type CreditSaleOverdueEvent struct {
	shared.BaseDomainEvent
	SaleID          uuid.UUID       `json:"sale_id"`
	ClientName      string          `json:"client_name"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
}

// EventType returns the event type name
func (e *CreditSaleOverdueEvent) EventType() string {
	return "CreditSaleOverdue"
}

// NewCreditSaleOverdueEvent creates a new CreditSaleOverdueEvent
func NewCreditSaleOverdueEvent(cs *CreditSale) *CreditSaleOverdueEvent {
	return &CreditSaleOverdueEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("CreditSaleOverdue", "CreditSale", cs.ID),
		SaleID:          cs.ID,
		ClientName:      cs.ClientName,
		RemainingAmount: cs.RemainingAmount,
	}
}
