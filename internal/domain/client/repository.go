package client

import (
	"context"

	"github.com/barberflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientFilter defines filtering options for client queries
type ClientFilter struct {
	shared.Filter
	Active *bool // Filter by active flag
}

// ClientRepository defines the interface for client persistence
type ClientRepository interface {
	// FindByID finds a client by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)

	// FindByName finds an active client by case-insensitive exact name.
	// Used only for soft linking; returns nil without error when no
	// single match exists.
	FindByName(ctx context.Context, name string) (*Client, error)

	// FindAll finds clients with filtering
	FindAll(ctx context.Context, filter ClientFilter) ([]Client, error)

	// Create persists a new client
	Create(ctx context.Context, client *Client) error

	// Save updates a client with optimistic locking
	Save(ctx context.Context, client *Client) error

	// Count counts clients matching the filter
	Count(ctx context.Context, filter ClientFilter) (int64, error)
}
