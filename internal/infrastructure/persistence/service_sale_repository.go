package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/barberflow/backend/internal/domain/ledger"
	"github.com/barberflow/backend/internal/domain/sales"
	"github.com/barberflow/backend/internal/domain/shared/valueobject"
	"github.com/barberflow/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormServiceSaleRepository implements ServiceSaleRepository using GORM
type GormServiceSaleRepository struct {
	db *gorm.DB
}

// NewGormServiceSaleRepository creates a new GormServiceSaleRepository
func NewGormServiceSaleRepository(db *gorm.DB) *GormServiceSaleRepository {
	return &GormServiceSaleRepository{db: db}
}

// FindByID finds a service sale by ID
func (r *GormServiceSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.ServiceSale, error) {
	var model models.ServiceSaleModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds service sales with filtering
func (r *GormServiceSaleRepository) FindAll(ctx context.Context, filter sales.ServiceSaleFilter) ([]sales.ServiceSale, error) {
	var saleModels []models.ServiceSaleModel
	query := r.db.WithContext(ctx).Model(&models.ServiceSaleModel{})
	query = r.applyFilter(query, filter)

	if err := query.Find(&saleModels).Error; err != nil {
		return nil, err
	}
	results := make([]sales.ServiceSale, len(saleModels))
	for i := range saleModels {
		results[i] = *saleModels[i].ToDomain()
	}
	return results, nil
}

// Create persists a new service sale
func (r *GormServiceSaleRepository) Create(ctx context.Context, sale *sales.ServiceSale) error {
	model := models.ServiceSaleModelFromDomain(sale)
	return r.db.WithContext(ctx).Create(model).Error
}

// Count counts service sales matching the filter
func (r *GormServiceSaleRepository) Count(ctx context.Context, filter sales.ServiceSaleFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ServiceSaleModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumTotal sums settled totals over a sale-date period
func (r *GormServiceSaleRepository) SumTotal(ctx context.Context, from, to valueobject.CalDate) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.ServiceSaleModel{}).
		Select("COALESCE(SUM(total), 0) as total").
		Where("sale_date >= ? AND sale_date <= ?", from, to).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// TotalsByMethod breaks the period's settled totals down by payment method
func (r *GormServiceSaleRepository) TotalsByMethod(ctx context.Context, from, to valueobject.CalDate) ([]sales.MethodTotal, error) {
	var rows []struct {
		PaymentMethod string
		Total         decimal.Decimal
		Count         int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.ServiceSaleModel{}).
		Select("payment_method, COALESCE(SUM(total), 0) as total, COUNT(*) as count").
		Where("sale_date >= ? AND sale_date <= ?", from, to).
		Group("payment_method").
		Order("total DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make([]sales.MethodTotal, len(rows))
	for i, row := range rows {
		totals[i] = sales.MethodTotal{
			Method: ledger.PaymentMethod(row.PaymentMethod),
			Total:  row.Total,
			Count:  row.Count,
		}
	}
	return totals, nil
}

func (r *GormServiceSaleRepository) applyFilter(query *gorm.DB, filter sales.ServiceSaleFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, ServiceSaleSortFields, "sale_date")
		sortOrder := ValidateSortOrder(filter.OrderDir)
		return query.Order(sortField + " " + sortOrder)
	}
	return query.Order("sale_date DESC, created_at DESC")
}

func (r *GormServiceSaleRepository) applyFilterWithoutPagination(query *gorm.DB, filter sales.ServiceSaleFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.TrimSpace(filter.Search) + "%"
		query = query.Where("client_name ILIKE ?", pattern)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.PaymentMethod != nil {
		query = query.Where("payment_method = ?", *filter.PaymentMethod)
	}
	if filter.Origin != nil {
		query = query.Where("origin = ?", *filter.Origin)
	}
	if filter.FromDate != nil {
		query = query.Where("sale_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("sale_date <= ?", *filter.ToDate)
	}
	return query
}
