package sales

import (
	"github.com/barberflow/backend/internal/domain/ledger"
	"github.com/barberflow/backend/internal/domain/shared"
	"github.com/barberflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ServiceSaleRegisteredEvent is raised when a settled sale is recorded
type ServiceSaleRegisteredEvent struct {
	shared.BaseDomainEvent
	SaleID        uuid.UUID            `json:"sale_id"`
	ClientName    string               `json:"client_name"`
	Total         decimal.Decimal      `json:"total"`
	PaymentMethod ledger.PaymentMethod `json:"payment_method"`
	SaleDate      valueobject.CalDate  `json:"sale_date"`
	Origin        SaleOrigin           `json:"origin"`
}

// EventType returns the event type name
func (e *ServiceSaleRegisteredEvent) EventType() string {
	return "ServiceSaleRegistered"
}

// NewServiceSaleRegisteredEvent creates a new ServiceSaleRegisteredEvent
func NewServiceSaleRegisteredEvent(s *ServiceSale) *ServiceSaleRegisteredEvent {
	return &ServiceSaleRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ServiceSaleRegistered", "ServiceSale", s.ID),
		SaleID:          s.ID,
		ClientName:      s.ClientName,
		Total:           s.Total,
		PaymentMethod:   s.PaymentMethod,
		SaleDate:        s.SaleDate,
		Origin:          s.Origin,
	}
}
