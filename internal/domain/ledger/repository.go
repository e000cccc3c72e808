package ledger

import (
	"context"

	"github.com/barberflow/backend/internal/domain/shared"
	"github.com/barberflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditSaleFilter defines filtering options for credit sale queries
type CreditSaleFilter struct {
	shared.Filter
	ClientID *uuid.UUID           // Filter by linked client
	Status   *SaleStatus          // Filter by derived status
	Overdue  *bool                // Filter only overdue sales
	FromDate *valueobject.CalDate // Filter by sale date range start
	ToDate   *valueobject.CalDate // Filter by sale date range end
}

// CreditSaleRepository defines the interface for credit sale persistence.
// Implementations always load and store a sale together with its owned
// installment set.
type CreditSaleRepository interface {
	// FindByID finds a credit sale with its installments by sale ID
	FindByID(ctx context.Context, id uuid.UUID) (*CreditSale, error)

	// FindByInstallmentID finds the sale owning the given installment
	FindByInstallmentID(ctx context.Context, installmentID uuid.UUID) (*CreditSale, error)

	// FindAll finds credit sales with filtering
	FindAll(ctx context.Context, filter CreditSaleFilter) ([]CreditSale, error)

	// FindOpen finds every sale that is not fully paid, with installments
	FindOpen(ctx context.Context) ([]CreditSale, error)

	// Create persists a new sale and all of its installments atomically;
	// on failure no partial rows remain
	Create(ctx context.Context, sale *CreditSale) error

	// Save updates a sale and its installments with optimistic locking
	Save(ctx context.Context, sale *CreditSale) error

	// Count counts credit sales matching the filter
	Count(ctx context.Context, filter CreditSaleFilter) (int64, error)

	// CountByStatus counts credit sales in the given status
	CountByStatus(ctx context.Context, status SaleStatus) (int64, error)

	// SumRemaining sums the remaining amount over all open sales
	SumRemaining(ctx context.Context) (decimal.Decimal, error)

	// SumOverdue sums the remaining amount over all overdue sales
	SumOverdue(ctx context.Context) (decimal.Decimal, error)

	// SumCollected sums installment amounts paid within the period
	SumCollected(ctx context.Context, from, to valueobject.CalDate) (decimal.Decimal, error)
}
