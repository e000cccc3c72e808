package sales

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/barberflow/backend/internal/domain/ledger"
	"github.com/barberflow/backend/internal/domain/shared"
	"github.com/barberflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleOrigin indicates how the client arrived at the counter
type SaleOrigin string

const (
	SaleOriginWalkIn      SaleOrigin = "WALK_IN"
	SaleOriginAppointment SaleOrigin = "APPOINTMENT"
)

// IsValid checks if the origin is a valid SaleOrigin
func (o SaleOrigin) IsValid() bool {
	switch o {
	case SaleOriginWalkIn, SaleOriginAppointment:
		return true
	}
	return false
}

// String returns the string representation of SaleOrigin
func (o SaleOrigin) String() string {
	return string(o)
}

// SaleItem is one line of a service sale
type SaleItem struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// LineTotal returns quantity times unit price
func (s SaleItem) LineTotal() decimal.Decimal {
	return s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Quantity)))
}

// SaleItems is the owned line set of a sale, stored as JSONB
type SaleItems []SaleItem

// Value implements driver.Valuer interface for GORM to store as JSONB
func (s SaleItems) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (s *SaleItems) Scan(value interface{}) error {
	if value == nil {
		*s = SaleItems{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("failed to scan SaleItems: unsupported type")
	}
}

// Validate checks the item fields
func (s SaleItem) Validate() error {
	if s.Description == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Item description cannot be empty")
	}
	if s.Quantity < 1 {
		return shared.NewDomainError("VALIDATION_ERROR", "Item quantity must be at least 1")
	}
	if s.UnitPrice.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Item unit price cannot be negative")
	}
	return nil
}

// ServiceSale is the aggregate root for a paid-on-the-spot sale, as opposed
// to a credit sale handled by the ledger. Payment is settled in full at
// registration time.
type ServiceSale struct {
	shared.BaseAggregateRoot
	ClientID      *uuid.UUID           `json:"client_id,omitempty"`
	ClientName    string               `json:"client_name"`
	Items         SaleItems            `json:"items"`
	Subtotal      decimal.Decimal      `json:"subtotal"`
	Discount      decimal.Decimal      `json:"discount"`
	Total         decimal.Decimal      `json:"total"`
	PaymentMethod ledger.PaymentMethod `json:"payment_method"`
	SaleDate      valueobject.CalDate  `json:"sale_date"`
	Origin        SaleOrigin           `json:"origin"`
	AppointmentID *uuid.UUID           `json:"appointment_id,omitempty"`
}

// NewServiceSale registers a fully settled sale. The subtotal is derived
// from the items; callers pass only the discount.
func NewServiceSale(
	clientName string,
	items []SaleItem,
	discount valueobject.Money,
	method ledger.PaymentMethod,
	saleDate valueobject.CalDate,
	origin SaleOrigin,
	clientID *uuid.UUID,
	appointmentID *uuid.UUID,
) (*ServiceSale, error) {
	if clientName == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Client name cannot be empty")
	}
	if len(clientName) > 200 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Client name cannot exceed 200 characters")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Sale must have at least one item")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Invalid payment method %q", method))
	}
	if saleDate.IsZero() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Sale date is required")
	}
	if !origin.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Invalid sale origin %q", origin))
	}
	if origin == SaleOriginAppointment && appointmentID == nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Appointment sales require an appointment reference")
	}
	if discount.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Discount cannot be negative")
	}

	subtotal := decimal.Zero
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		subtotal = subtotal.Add(item.LineTotal())
	}

	if discount.Amount().GreaterThanOrEqual(subtotal) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Discount must be less than subtotal")
	}
	total := subtotal.Sub(discount.Amount())
	if !total.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Total amount must be positive")
	}

	sale := &ServiceSale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ClientID:          clientID,
		ClientName:        clientName,
		Items:             items,
		Subtotal:          subtotal,
		Discount:          discount.Amount(),
		Total:             total,
		PaymentMethod:     method,
		SaleDate:          saleDate,
		Origin:            origin,
		AppointmentID:     appointmentID,
	}

	sale.AddDomainEvent(NewServiceSaleRegisteredEvent(sale))
	return sale, nil
}

// ItemCount returns the total quantity across all lines
func (s *ServiceSale) ItemCount() int {
	n := 0
	for _, item := range s.Items {
		n += item.Quantity
	}
	return n
}

// GetTotalMoney returns the settled amount as Money
func (s *ServiceSale) GetTotalMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(s.Total)
}

// Touch bumps the modification timestamp and version
func (s *ServiceSale) Touch() {
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}
