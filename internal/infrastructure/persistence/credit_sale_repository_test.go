package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/barberflow/backend/internal/domain/ledger"
	"github.com/barberflow/backend/internal/domain/shared"
	"github.com/barberflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockCreditSaleRepository creates a GormCreditSaleRepository with a mocked SQL connection
func newMockCreditSaleRepository(t *testing.T) (*GormCreditSaleRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormCreditSaleRepository(gormDB), mock, mockDB
}

func creditSaleRows(saleID uuid.UUID) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "created_at", "updated_at", "version",
		"client_id", "client_name", "products",
		"subtotal", "discount", "total_amount", "installment_count",
		"first_due_date", "sale_date", "status", "total_paid", "remaining_amount",
	}).AddRow(
		saleID, now, now, 1,
		nil, "João Silva", "Corte e barba",
		decimal.RequireFromString("300.00"), decimal.Zero, decimal.RequireFromString("300.00"), 3,
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		"ACTIVE", decimal.Zero, decimal.RequireFromString("300.00"),
	)
}

func installmentRows(saleID uuid.UUID) *sqlmock.Rows {
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "created_at", "updated_at",
		"sale_id", "number", "amount", "due_date", "status", "paid_date", "payment_method",
	})
	for i := 1; i <= 3; i++ {
		rows.AddRow(
			uuid.New(), now, now,
			saleID, i, decimal.RequireFromString("100.00"),
			time.Date(2024, time.Month(i), 28, 0, 0, 0, 0, time.UTC),
			"PENDING", nil, "",
		)
	}
	return rows
}

func TestNewGormCreditSaleRepository(t *testing.T) {
	t.Run("creates repository with valid DB", func(t *testing.T) {
		repo, _, mockDB := newMockCreditSaleRepository(t)
		defer mockDB.Close()

		assert.NotNil(t, repo)
		assert.NotNil(t, repo.db)
	})
}

func TestGormCreditSaleRepository_FindByID(t *testing.T) {
	t.Run("finds existing sale with installments", func(t *testing.T) {
		repo, mock, mockDB := newMockCreditSaleRepository(t)
		defer mockDB.Close()

		saleID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "credit_sales" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(saleID, 1).
			WillReturnRows(creditSaleRows(saleID))
		mock.ExpectQuery(`SELECT \* FROM "installments" WHERE .*sale_id.* ORDER BY number ASC`).
			WillReturnRows(installmentRows(saleID))

		sale, err := repo.FindByID(context.Background(), saleID)

		assert.NoError(t, err)
		require.NotNil(t, sale)
		assert.Equal(t, saleID, sale.ID)
		assert.Equal(t, "João Silva", sale.ClientName)
		assert.Equal(t, ledger.SaleStatusActive, sale.Status)
		assert.Len(t, sale.Installments, 3)
		assert.Equal(t, 1, sale.Installments[0].Number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns nil for non-existent sale", func(t *testing.T) {
		repo, mock, mockDB := newMockCreditSaleRepository(t)
		defer mockDB.Close()

		saleID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "credit_sales" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(saleID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		sale, err := repo.FindByID(context.Background(), saleID)

		assert.NoError(t, err)
		assert.Nil(t, sale)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCreditSaleRepository_FindByInstallmentID(t *testing.T) {
	t.Run("resolves the owning sale", func(t *testing.T) {
		repo, mock, mockDB := newMockCreditSaleRepository(t)
		defer mockDB.Close()

		saleID := uuid.New()
		installmentID := uuid.New()

		mock.ExpectQuery(`SELECT "sale_id" FROM "installments" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(installmentID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"sale_id"}).AddRow(saleID))
		mock.ExpectQuery(`SELECT \* FROM "credit_sales" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(saleID, 1).
			WillReturnRows(creditSaleRows(saleID))
		mock.ExpectQuery(`SELECT \* FROM "installments" WHERE .*sale_id.* ORDER BY number ASC`).
			WillReturnRows(installmentRows(saleID))

		sale, err := repo.FindByInstallmentID(context.Background(), installmentID)

		assert.NoError(t, err)
		require.NotNil(t, sale)
		assert.Equal(t, saleID, sale.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns nil for unknown installment", func(t *testing.T) {
		repo, mock, mockDB := newMockCreditSaleRepository(t)
		defer mockDB.Close()

		installmentID := uuid.New()

		mock.ExpectQuery(`SELECT "sale_id" FROM "installments" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(installmentID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		sale, err := repo.FindByInstallmentID(context.Background(), installmentID)

		assert.NoError(t, err)
		assert.Nil(t, sale)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCreditSaleRepository_Count(t *testing.T) {
	t.Run("counts with status filter", func(t *testing.T) {
		repo, mock, mockDB := newMockCreditSaleRepository(t)
		defer mockDB.Close()

		status := ledger.SaleStatusOverdue

		mock.ExpectQuery(`SELECT count\(\*\) FROM "credit_sales" WHERE status = \$1`).
			WithArgs(string(status)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

		count, err := repo.Count(context.Background(), ledger.CreditSaleFilter{Status: &status})

		assert.NoError(t, err)
		assert.Equal(t, int64(4), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCreditSaleRepository_CountByStatus(t *testing.T) {
	t.Run("counts sales in status", func(t *testing.T) {
		repo, mock, mockDB := newMockCreditSaleRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "credit_sales" WHERE status = \$1`).
			WithArgs(string(ledger.SaleStatusPaid)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

		count, err := repo.CountByStatus(context.Background(), ledger.SaleStatusPaid)

		assert.NoError(t, err)
		assert.Equal(t, int64(7), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCreditSaleRepository_SumRemaining(t *testing.T) {
	t.Run("sums remaining over open sales", func(t *testing.T) {
		repo, mock, mockDB := newMockCreditSaleRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(remaining_amount\), 0\) as total FROM "credit_sales" WHERE status <> \$1`).
			WithArgs(string(ledger.SaleStatusPaid)).
			WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(decimal.RequireFromString("450.00")))

		total, err := repo.SumRemaining(context.Background())

		assert.NoError(t, err)
		assert.True(t, total.Equal(decimal.RequireFromString("450.00")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCreditSaleRepository_SumOverdue(t *testing.T) {
	t.Run("sums remaining over overdue sales", func(t *testing.T) {
		repo, mock, mockDB := newMockCreditSaleRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(remaining_amount\), 0\) as total FROM "credit_sales" WHERE status = \$1`).
			WithArgs(string(ledger.SaleStatusOverdue)).
			WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(decimal.RequireFromString("120.00")))

		total, err := repo.SumOverdue(context.Background())

		assert.NoError(t, err)
		assert.True(t, total.Equal(decimal.RequireFromString("120.00")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCreditSaleRepository_SumCollected(t *testing.T) {
	t.Run("sums paid installment amounts in period", func(t *testing.T) {
		repo, mock, mockDB := newMockCreditSaleRepository(t)
		defer mockDB.Close()

		from := valueobject.NewCalDate(2024, time.January, 1)
		to := valueobject.NewCalDate(2024, time.January, 31)

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) as total FROM "installments" WHERE paid_date IS NOT NULL AND paid_date >= \$1 AND paid_date <= \$2`).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(decimal.RequireFromString("200.00")))

		total, err := repo.SumCollected(context.Background(), from, to)

		assert.NoError(t, err)
		assert.True(t, total.Equal(decimal.RequireFromString("200.00")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCreditSaleRepository_Save(t *testing.T) {
	t.Run("fails with optimistic lock error when version is stale", func(t *testing.T) {
		repo, mock, mockDB := newMockCreditSaleRepository(t)
		defer mockDB.Close()

		sale, err := ledger.NewCreditSale(
			"João Silva", "Corte e barba",
			valueobject.NewMoneyBRL(decimal.RequireFromString("300.00")),
			valueobject.NewMoneyBRL(decimal.Zero),
			3,
			valueobject.NewCalDate(2024, time.January, 31),
			valueobject.NewCalDate(2024, time.January, 1),
			nil,
			valueobject.NewCalDate(2024, time.January, 1),
		)
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "credit_sales" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err = repo.Save(context.Background(), sale)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "OPTIMISTIC_LOCK_ERROR", domainErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCreditSaleRepository_InterfaceCompliance(t *testing.T) {
	t.Run("implements CreditSaleRepository interface", func(t *testing.T) {
		repo, _, mockDB := newMockCreditSaleRepository(t)
		defer mockDB.Close()

		var _ ledger.CreditSaleRepository = repo
	})
}
