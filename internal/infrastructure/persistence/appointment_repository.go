package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/barberflow/backend/internal/domain/scheduling"
	"github.com/barberflow/backend/internal/domain/shared"
	"github.com/barberflow/backend/internal/domain/shared/valueobject"
	"github.com/barberflow/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GormAppointmentRepository implements AppointmentRepository using GORM
type GormAppointmentRepository struct {
	db *gorm.DB
}

// NewGormAppointmentRepository creates a new GormAppointmentRepository
func NewGormAppointmentRepository(db *gorm.DB) *GormAppointmentRepository {
	return &GormAppointmentRepository{db: db}
}

// FindByID finds an appointment by ID
func (r *GormAppointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*scheduling.Appointment, error) {
	var model models.AppointmentModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds appointments with filtering
func (r *GormAppointmentRepository) FindAll(ctx context.Context, filter scheduling.AppointmentFilter) ([]scheduling.Appointment, error) {
	var appointmentModels []models.AppointmentModel
	query := r.db.WithContext(ctx).Model(&models.AppointmentModel{})
	query = r.applyFilter(query, filter)

	if err := query.Find(&appointmentModels).Error; err != nil {
		return nil, err
	}
	appointments := make([]scheduling.Appointment, len(appointmentModels))
	for i := range appointmentModels {
		appointments[i] = *appointmentModels[i].ToDomain()
	}
	return appointments, nil
}

// FindActiveByDate finds the non-cancelled appointments of a date
func (r *GormAppointmentRepository) FindActiveByDate(ctx context.Context, date valueobject.CalDate) ([]scheduling.Appointment, error) {
	var appointmentModels []models.AppointmentModel
	if err := r.db.WithContext(ctx).
		Where("date = ? AND status <> ?", date, scheduling.AppointmentStatusCancelled).
		Order("slot ASC").
		Find(&appointmentModels).Error; err != nil {
		return nil, err
	}
	appointments := make([]scheduling.Appointment, len(appointmentModels))
	for i := range appointmentModels {
		appointments[i] = *appointmentModels[i].ToDomain()
	}
	return appointments, nil
}

// SlotTaken reports whether a non-cancelled appointment holds the slot
func (r *GormAppointmentRepository) SlotTaken(ctx context.Context, date valueobject.CalDate, slot scheduling.TimeSlot) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AppointmentModel{}).
		Where("date = ? AND slot = ? AND status <> ?", date, slot, scheduling.AppointmentStatusCancelled).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create persists a new appointment. The partial unique index on live
// slots backstops the application-level availability check; a violation
// surfaces as the same conflict error.
func (r *GormAppointmentRepository) Create(ctx context.Context, appointment *scheduling.Appointment) error {
	model := models.AppointmentModelFromDomain(appointment)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.NewDomainError("SLOT_TAKEN", "Time slot is already booked")
		}
		return err
	}
	return nil
}

// isUniqueViolation reports whether the error is a unique constraint
// violation, either translated by GORM or raw from the SQL driver.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// Save updates an appointment with optimistic locking
func (r *GormAppointmentRepository) Save(ctx context.Context, appointment *scheduling.Appointment) error {
	model := models.AppointmentModelFromDomain(appointment)
	result := r.db.WithContext(ctx).
		Model(&models.AppointmentModel{}).
		Where("id = ? AND version = ?", appointment.ID, appointment.Version-1).
		Select("status", "notes", "updated_at", "version").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The record has been modified by another transaction")
	}
	return nil
}

// Count counts appointments matching the filter
func (r *GormAppointmentRepository) Count(ctx context.Context, filter scheduling.AppointmentFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.AppointmentModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormAppointmentRepository) applyFilter(query *gorm.DB, filter scheduling.AppointmentFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, AppointmentSortFields, "date")
		sortOrder := ValidateSortOrder(filter.OrderDir)
		return query.Order(sortField + " " + sortOrder)
	}
	return query.Order("date ASC, slot ASC")
}

func (r *GormAppointmentRepository) applyFilterWithoutPagination(query *gorm.DB, filter scheduling.AppointmentFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.TrimSpace(filter.Search) + "%"
		query = query.Where("client_name ILIKE ? OR service ILIKE ?", pattern, pattern)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Date != nil {
		query = query.Where("date = ?", *filter.Date)
	}
	if filter.FromDate != nil {
		query = query.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("date <= ?", *filter.ToDate)
	}
	return query
}
