package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"uppercase ASC", "ASC", "ASC"},
		{"lowercase asc", "asc", "ASC"},
		{"mixed case", "AsC", "ASC"},
		{"with whitespace", "  asc  ", "ASC"},
		{"uppercase DESC", "DESC", "DESC"},
		{"lowercase desc", "desc", "DESC"},
		{"empty defaults to DESC", "", "DESC"},
		{"garbage defaults to DESC", "ascending; DROP TABLE clients", "DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	t.Run("allows whitelisted fields", func(t *testing.T) {
		assert.Equal(t, "sale_date", ValidateSortField("sale_date", CreditSaleSortFields, "created_at"))
		assert.Equal(t, "client_name", ValidateSortField("client_name", CreditSaleSortFields, "created_at"))
	})

	t.Run("falls back to default for unknown fields", func(t *testing.T) {
		assert.Equal(t, "created_at", ValidateSortField("password", CreditSaleSortFields, "created_at"))
		assert.Equal(t, "created_at", ValidateSortField("1; DELETE FROM credit_sales", CreditSaleSortFields, "created_at"))
	})

	t.Run("falls back to default for empty input", func(t *testing.T) {
		assert.Equal(t, "name", ValidateSortField("", ClientSortFields, "name"))
		assert.Equal(t, "name", ValidateSortField("   ", ClientSortFields, "name"))
	})

	t.Run("whitelists cover entity-specific columns", func(t *testing.T) {
		assert.True(t, AppointmentSortFields["slot"])
		assert.True(t, ServiceSaleSortFields["total"])
		assert.True(t, ClientSortFields["phone"])
		assert.False(t, ClientSortFields["slot"])
	})
}
