package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/barberflow/backend/internal/domain/client"
	"github.com/barberflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockClientRepository creates a GormClientRepository with a mocked SQL connection
func newMockClientRepository(t *testing.T) (*GormClientRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormClientRepository(gormDB), mock, mockDB
}

func clientRows(clientID uuid.UUID, name string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "created_at", "updated_at", "version",
		"name", "phone", "email", "notes", "active",
	}).AddRow(clientID, now, now, 1, name, "11 99999-0000", "", "", true)
}

func TestGormClientRepository_FindByID(t *testing.T) {
	t.Run("finds existing client", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		clientID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(clientID, 1).
			WillReturnRows(clientRows(clientID, "Maria Souza"))

		found, err := repo.FindByID(context.Background(), clientID)

		assert.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, clientID, found.ID)
		assert.Equal(t, "Maria Souza", found.Name)
		assert.True(t, found.Active)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns nil for non-existent client", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		clientID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(clientID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		found, err := repo.FindByID(context.Background(), clientID)

		assert.NoError(t, err)
		assert.Nil(t, found)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormClientRepository_FindByName(t *testing.T) {
	t.Run("finds single active match", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		clientID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE LOWER\(name\) = LOWER\(\$1\) AND active = \$2 LIMIT .*`).
			WithArgs("Maria Souza", true, 2).
			WillReturnRows(clientRows(clientID, "Maria Souza"))

		found, err := repo.FindByName(context.Background(), "Maria Souza")

		assert.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, clientID, found.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns nil without error on miss", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE LOWER\(name\) = LOWER\(\$1\) AND active = \$2 LIMIT .*`).
			WithArgs("Desconhecido", true, 2).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

		found, err := repo.FindByName(context.Background(), "Desconhecido")

		assert.NoError(t, err)
		assert.Nil(t, found)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns nil when the name is ambiguous", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		now := time.Now()
		rows := sqlmock.NewRows([]string{
			"id", "created_at", "updated_at", "version",
			"name", "phone", "email", "notes", "active",
		}).
			AddRow(uuid.New(), now, now, 1, "João Silva", "", "", "", true).
			AddRow(uuid.New(), now, now, 1, "João Silva", "", "", "", true)

		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE LOWER\(name\) = LOWER\(\$1\) AND active = \$2 LIMIT .*`).
			WithArgs("João Silva", true, 2).
			WillReturnRows(rows)

		found, err := repo.FindByName(context.Background(), "João Silva")

		assert.NoError(t, err)
		assert.Nil(t, found)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormClientRepository_Create(t *testing.T) {
	t.Run("inserts a new client", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		newClient, err := client.NewClient("Maria Souza", "11 99999-0000", "", "")
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO "clients"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Create(context.Background(), newClient)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormClientRepository_Save(t *testing.T) {
	t.Run("updates an existing client", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		existing, err := client.NewClient("Maria Souza", "11 99999-0000", "", "")
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "clients" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Save(context.Background(), existing)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("fails with optimistic lock error when version is stale", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		existing, err := client.NewClient("Maria Souza", "11 99999-0000", "", "")
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "clients" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.Save(context.Background(), existing)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "OPTIMISTIC_LOCK_ERROR", domainErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormClientRepository_Count(t *testing.T) {
	t.Run("counts active clients", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		active := true

		mock.ExpectQuery(`SELECT count\(\*\) FROM "clients" WHERE active = \$1`).
			WithArgs(true).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

		count, err := repo.Count(context.Background(), client.ClientFilter{Active: &active})

		assert.NoError(t, err)
		assert.Equal(t, int64(12), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormClientRepository_InterfaceCompliance(t *testing.T) {
	t.Run("implements ClientRepository interface", func(t *testing.T) {
		repo, _, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		var _ client.ClientRepository = repo
	})
}
