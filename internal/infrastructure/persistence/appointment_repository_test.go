package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/barberflow/backend/internal/domain/scheduling"
	"github.com/barberflow/backend/internal/domain/shared"
	"github.com/barberflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockAppointmentRepository creates a GormAppointmentRepository with a mocked SQL connection
func newMockAppointmentRepository(t *testing.T) (*GormAppointmentRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormAppointmentRepository(gormDB), mock, mockDB
}

func appointmentRows(appointmentID uuid.UUID, slot string, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "created_at", "updated_at", "version",
		"client_id", "client_name", "service", "date", "slot", "status", "notes",
	}).AddRow(
		appointmentID, now, now, 1,
		nil, "João Silva", "Corte e barba",
		time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), slot, status, "",
	)
}

func TestGormAppointmentRepository_FindByID(t *testing.T) {
	t.Run("finds existing appointment", func(t *testing.T) {
		repo, mock, mockDB := newMockAppointmentRepository(t)
		defer mockDB.Close()

		appointmentID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "appointments" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(appointmentID, 1).
			WillReturnRows(appointmentRows(appointmentID, "09:00", "SCHEDULED"))

		found, err := repo.FindByID(context.Background(), appointmentID)

		assert.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, appointmentID, found.ID)
		assert.Equal(t, scheduling.TimeSlotMorning, found.Slot)
		assert.Equal(t, scheduling.AppointmentStatusScheduled, found.Status)
		assert.Equal(t, "2024-03-15", found.Date.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns nil for non-existent appointment", func(t *testing.T) {
		repo, mock, mockDB := newMockAppointmentRepository(t)
		defer mockDB.Close()

		appointmentID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "appointments" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(appointmentID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		found, err := repo.FindByID(context.Background(), appointmentID)

		assert.NoError(t, err)
		assert.Nil(t, found)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAppointmentRepository_FindActiveByDate(t *testing.T) {
	t.Run("returns the non-cancelled appointments of the date in slot order", func(t *testing.T) {
		repo, mock, mockDB := newMockAppointmentRepository(t)
		defer mockDB.Close()

		date := valueobject.NewCalDate(2024, time.March, 15)
		now := time.Now()
		rows := sqlmock.NewRows([]string{
			"id", "created_at", "updated_at", "version",
			"client_id", "client_name", "service", "date", "slot", "status", "notes",
		}).
			AddRow(uuid.New(), now, now, 1, nil, "João Silva", "Corte", date.Time(), "09:00", "SCHEDULED", "").
			AddRow(uuid.New(), now, now, 1, nil, "Maria Souza", "Barba", date.Time(), "14:00", "COMPLETED", "")

		mock.ExpectQuery(`SELECT \* FROM "appointments" WHERE date = \$1 AND status <> \$2 ORDER BY slot ASC`).
			WithArgs(date, scheduling.AppointmentStatusCancelled).
			WillReturnRows(rows)

		appointments, err := repo.FindActiveByDate(context.Background(), date)

		assert.NoError(t, err)
		require.Len(t, appointments, 2)
		assert.Equal(t, scheduling.TimeSlotMorning, appointments[0].Slot)
		assert.Equal(t, scheduling.TimeSlotAfternoon, appointments[1].Slot)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAppointmentRepository_SlotTaken(t *testing.T) {
	t.Run("reports a held slot", func(t *testing.T) {
		repo, mock, mockDB := newMockAppointmentRepository(t)
		defer mockDB.Close()

		date := valueobject.NewCalDate(2024, time.March, 15)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "appointments" WHERE date = \$1 AND slot = \$2 AND status <> \$3`).
			WithArgs(date, scheduling.TimeSlotMorning, scheduling.AppointmentStatusCancelled).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		taken, err := repo.SlotTaken(context.Background(), date, scheduling.TimeSlotMorning)

		assert.NoError(t, err)
		assert.True(t, taken)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports a free slot", func(t *testing.T) {
		repo, mock, mockDB := newMockAppointmentRepository(t)
		defer mockDB.Close()

		date := valueobject.NewCalDate(2024, time.March, 15)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "appointments" WHERE date = \$1 AND slot = \$2 AND status <> \$3`).
			WithArgs(date, scheduling.TimeSlotEvening, scheduling.AppointmentStatusCancelled).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		taken, err := repo.SlotTaken(context.Background(), date, scheduling.TimeSlotEvening)

		assert.NoError(t, err)
		assert.False(t, taken)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAppointmentRepository_Create(t *testing.T) {
	t.Run("inserts a new appointment", func(t *testing.T) {
		repo, mock, mockDB := newMockAppointmentRepository(t)
		defer mockDB.Close()

		today := valueobject.NewCalDate(2024, time.March, 1)
		appointment, err := scheduling.NewAppointment(
			"João Silva", "Corte e barba",
			valueobject.NewCalDate(2024, time.March, 15),
			scheduling.TimeSlotMorning, "", nil, today,
		)
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO "appointments"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Create(context.Background(), appointment)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps a live-slot unique violation to a slot conflict", func(t *testing.T) {
		repo, mock, mockDB := newMockAppointmentRepository(t)
		defer mockDB.Close()

		today := valueobject.NewCalDate(2024, time.March, 1)
		appointment, err := scheduling.NewAppointment(
			"Maria Souza", "Corte",
			valueobject.NewCalDate(2024, time.March, 15),
			scheduling.TimeSlotMorning, "", nil, today,
		)
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO "appointments"`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "uq_appointments_live_slot"})

		err = repo.Create(context.Background(), appointment)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "SLOT_TAKEN", domainErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps a translated duplicate-key error to a slot conflict", func(t *testing.T) {
		repo, mock, mockDB := newMockAppointmentRepository(t)
		defer mockDB.Close()

		today := valueobject.NewCalDate(2024, time.March, 1)
		appointment, err := scheduling.NewAppointment(
			"Maria Souza", "Corte",
			valueobject.NewCalDate(2024, time.March, 15),
			scheduling.TimeSlotMorning, "", nil, today,
		)
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO "appointments"`).
			WillReturnError(gorm.ErrDuplicatedKey)

		err = repo.Create(context.Background(), appointment)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "SLOT_TAKEN", domainErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAppointmentRepository_Save(t *testing.T) {
	t.Run("fails with optimistic lock error when version is stale", func(t *testing.T) {
		repo, mock, mockDB := newMockAppointmentRepository(t)
		defer mockDB.Close()

		today := valueobject.NewCalDate(2024, time.March, 1)
		appointment, err := scheduling.NewAppointment(
			"João Silva", "Corte e barba",
			valueobject.NewCalDate(2024, time.March, 15),
			scheduling.TimeSlotMorning, "", nil, today,
		)
		require.NoError(t, err)
		require.NoError(t, appointment.Complete())

		mock.ExpectExec(`UPDATE "appointments" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.Save(context.Background(), appointment)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "OPTIMISTIC_LOCK_ERROR", domainErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAppointmentRepository_Count(t *testing.T) {
	t.Run("counts appointments by status", func(t *testing.T) {
		repo, mock, mockDB := newMockAppointmentRepository(t)
		defer mockDB.Close()

		status := scheduling.AppointmentStatusScheduled

		mock.ExpectQuery(`SELECT count\(\*\) FROM "appointments" WHERE status = \$1`).
			WithArgs(status).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

		count, err := repo.Count(context.Background(), scheduling.AppointmentFilter{Status: &status})

		assert.NoError(t, err)
		assert.Equal(t, int64(4), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAppointmentRepository_InterfaceCompliance(t *testing.T) {
	t.Run("implements AppointmentRepository interface", func(t *testing.T) {
		repo, _, mockDB := newMockAppointmentRepository(t)
		defer mockDB.Close()

		var _ scheduling.AppointmentRepository = repo
	})
}
