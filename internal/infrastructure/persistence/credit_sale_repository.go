package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/barberflow/backend/internal/domain/ledger"
	"github.com/barberflow/backend/internal/domain/shared"
	"github.com/barberflow/backend/internal/domain/shared/valueobject"
	"github.com/barberflow/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormCreditSaleRepository implements CreditSaleRepository using GORM
type GormCreditSaleRepository struct {
	db *gorm.DB
}

// NewGormCreditSaleRepository creates a new GormCreditSaleRepository
func NewGormCreditSaleRepository(db *gorm.DB) *GormCreditSaleRepository {
	return &GormCreditSaleRepository{db: db}
}

// FindByID finds a credit sale with its installments by sale ID
func (r *GormCreditSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.CreditSale, error) {
	var model models.CreditSaleModel
	if err := r.db.WithContext(ctx).
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("number ASC")
		}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByInstallmentID finds the sale owning the given installment
func (r *GormCreditSaleRepository) FindByInstallmentID(ctx context.Context, installmentID uuid.UUID) (*ledger.CreditSale, error) {
	var installment models.InstallmentModel
	if err := r.db.WithContext(ctx).
		Select("sale_id").
		First(&installment, "id = ?", installmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.FindByID(ctx, installment.SaleID)
}

// FindAll finds credit sales with filtering
func (r *GormCreditSaleRepository) FindAll(ctx context.Context, filter ledger.CreditSaleFilter) ([]ledger.CreditSale, error) {
	var saleModels []models.CreditSaleModel
	query := r.db.WithContext(ctx).Model(&models.CreditSaleModel{}).
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("number ASC")
		})
	query = r.applyFilter(query, filter)

	if err := query.Find(&saleModels).Error; err != nil {
		return nil, err
	}
	sales := make([]ledger.CreditSale, len(saleModels))
	for i := range saleModels {
		sales[i] = *saleModels[i].ToDomain()
	}
	return sales, nil
}

// FindOpen finds every sale that is not fully paid, with installments
func (r *GormCreditSaleRepository) FindOpen(ctx context.Context) ([]ledger.CreditSale, error) {
	var saleModels []models.CreditSaleModel
	if err := r.db.WithContext(ctx).
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("number ASC")
		}).
		Where("status <> ?", ledger.SaleStatusPaid).
		Order("sale_date ASC").
		Find(&saleModels).Error; err != nil {
		return nil, err
	}
	sales := make([]ledger.CreditSale, len(saleModels))
	for i := range saleModels {
		sales[i] = *saleModels[i].ToDomain()
	}
	return sales, nil
}

// Create persists a new sale and all of its installments in one transaction
func (r *GormCreditSaleRepository) Create(ctx context.Context, sale *ledger.CreditSale) error {
	model := models.CreditSaleModelFromDomain(sale)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(model).Error
	})
}

// Save updates a sale and its installments with optimistic locking
func (r *GormCreditSaleRepository) Save(ctx context.Context, sale *ledger.CreditSale) error {
	model := models.CreditSaleModelFromDomain(sale)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.CreditSaleModel{}).
			Omit("Installments").
			Where("id = ? AND version = ?", sale.ID, sale.Version-1).
			Select("status", "total_paid", "remaining_amount", "updated_at", "version").
			Updates(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The record has been modified by another transaction")
		}

		for i := range model.Installments {
			if err := tx.Model(&models.InstallmentModel{}).
				Where("id = ?", model.Installments[i].ID).
				Select("status", "paid_date", "payment_method", "updated_at").
				Updates(&model.Installments[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Count counts credit sales matching the filter
func (r *GormCreditSaleRepository) Count(ctx context.Context, filter ledger.CreditSaleFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.CreditSaleModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts credit sales in the given status
func (r *GormCreditSaleRepository) CountByStatus(ctx context.Context, status ledger.SaleStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CreditSaleModel{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumRemaining sums the remaining amount over all open sales
func (r *GormCreditSaleRepository) SumRemaining(ctx context.Context) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.CreditSaleModel{}).
		Select("COALESCE(SUM(remaining_amount), 0) as total").
		Where("status <> ?", ledger.SaleStatusPaid).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// SumOverdue sums the remaining amount over all overdue sales
func (r *GormCreditSaleRepository) SumOverdue(ctx context.Context) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.CreditSaleModel{}).
		Select("COALESCE(SUM(remaining_amount), 0) as total").
		Where("status = ?", ledger.SaleStatusOverdue).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// SumCollected sums installment amounts paid within the period
func (r *GormCreditSaleRepository) SumCollected(ctx context.Context, from, to valueobject.CalDate) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.InstallmentModel{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("paid_date IS NOT NULL AND paid_date >= ? AND paid_date <= ?", from, to).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

func (r *GormCreditSaleRepository) applyFilter(query *gorm.DB, filter ledger.CreditSaleFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, CreditSaleSortFields, "sale_date")
		sortOrder := ValidateSortOrder(filter.OrderDir)
		return query.Order(sortField + " " + sortOrder)
	}
	return query.Order("sale_date DESC, created_at DESC")
}

func (r *GormCreditSaleRepository) applyFilterWithoutPagination(query *gorm.DB, filter ledger.CreditSaleFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.TrimSpace(filter.Search) + "%"
		query = query.Where("client_name ILIKE ? OR products ILIKE ?", pattern, pattern)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Overdue != nil && *filter.Overdue {
		query = query.Where("status = ?", ledger.SaleStatusOverdue)
	}
	if filter.FromDate != nil {
		query = query.Where("sale_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("sale_date <= ?", *filter.ToDate)
	}
	return query
}
