package sales

import (
	"context"

	"github.com/barberflow/backend/internal/domain/ledger"
	"github.com/barberflow/backend/internal/domain/shared"
	"github.com/barberflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ServiceSaleFilter defines filtering options for service sale queries
type ServiceSaleFilter struct {
	shared.Filter
	ClientID      *uuid.UUID            // Filter by linked client
	PaymentMethod *ledger.PaymentMethod // Filter by settlement method
	Origin        *SaleOrigin           // Filter by sale origin
	FromDate      *valueobject.CalDate  // Filter by sale date range start
	ToDate        *valueobject.CalDate  // Filter by sale date range end
}

// MethodTotal is one payment-method bucket of a revenue summary
type MethodTotal struct {
	Method ledger.PaymentMethod `json:"method"`
	Total  decimal.Decimal      `json:"total"`
	Count  int64                `json:"count"`
}

// ServiceSaleRepository defines the interface for service sale persistence
type ServiceSaleRepository interface {
	// FindByID finds a service sale by ID
	FindByID(ctx context.Context, id uuid.UUID) (*ServiceSale, error)

	// FindAll finds service sales with filtering
	FindAll(ctx context.Context, filter ServiceSaleFilter) ([]ServiceSale, error)

	// Create persists a new service sale
	Create(ctx context.Context, sale *ServiceSale) error

	// Count counts service sales matching the filter
	Count(ctx context.Context, filter ServiceSaleFilter) (int64, error)

	// SumTotal sums settled totals over a sale-date period
	SumTotal(ctx context.Context, from, to valueobject.CalDate) (decimal.Decimal, error)

	// TotalsByMethod breaks the period's settled totals down by payment method
	TotalsByMethod(ctx context.Context, from, to valueobject.CalDate) ([]MethodTotal, error)
}
