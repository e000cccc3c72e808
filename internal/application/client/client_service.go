package client

import (
	"context"
	"time"

	"github.com/barberflow/backend/internal/domain/client"
	"github.com/barberflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientService provides application-level client registry operations
type ClientService struct {
	clientRepo client.ClientRepository
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo client.ClientRepository) *ClientService {
	return &ClientService{clientRepo: clientRepo}
}

// CreateClientRequest represents a request to register a client
type CreateClientRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
	Email string `json:"email" binding:"omitempty,email"`
	Notes string `json:"notes"`
}

// UpdateClientRequest represents a request to update a client
type UpdateClientRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
	Email string `json:"email" binding:"omitempty,email"`
	Notes string `json:"notes"`
}

// ClientListFilter defines filtering options for client list queries
type ClientListFilter struct {
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// CreateClient registers a new client
func (s *ClientService) CreateClient(ctx context.Context, req CreateClientRequest) (*ClientResponse, error) {
	record, err := client.NewClient(req.Name, req.Phone, req.Email, req.Notes)
	if err != nil {
		return nil, err
	}

	if err := s.clientRepo.Create(ctx, record); err != nil {
		if domainErr, ok := err.(*shared.DomainError); ok {
			return nil, domainErr
		}
		return nil, shared.NewDomainError("CREATION_FAILED", "Client could not be created: "+err.Error())
	}

	return toClientResponse(record), nil
}

// UpdateClient changes a client's contact details
func (s *ClientService) UpdateClient(ctx context.Context, id uuid.UUID, req UpdateClientRequest) (*ClientResponse, error) {
	record, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Client not found")
	}

	if err := record.Update(req.Name, req.Phone, req.Email, req.Notes); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Save(ctx, record); err != nil {
		if domainErr, ok := err.(*shared.DomainError); ok {
			return nil, domainErr
		}
		return nil, shared.NewDomainError("PERSISTENCE_ERROR", "Client could not be stored: "+err.Error())
	}

	return toClientResponse(record), nil
}

// DeactivateClient hides a client from lookups without deleting history
func (s *ClientService) DeactivateClient(ctx context.Context, id uuid.UUID) error {
	record, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if record == nil {
		return shared.NewDomainError("NOT_FOUND", "Client not found")
	}

	if err := record.Deactivate(); err != nil {
		return err
	}

	if err := s.clientRepo.Save(ctx, record); err != nil {
		if domainErr, ok := err.(*shared.DomainError); ok {
			return domainErr
		}
		return shared.NewDomainError("PERSISTENCE_ERROR", "Client could not be stored: "+err.Error())
	}

	return nil
}

// GetClient gets a client by ID
func (s *ClientService) GetClient(ctx context.Context, id uuid.UUID) (*ClientResponse, error) {
	record, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Client not found")
	}
	return toClientResponse(record), nil
}

// ListClients lists clients with filtering
func (s *ClientService) ListClients(ctx context.Context, filter ClientListFilter) ([]ClientResponse, int64, error) {
	domainFilter := client.ClientFilter{
		Active: filter.Active,
	}
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.Search = filter.Search

	records, err := s.clientRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.clientRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ClientResponse, len(records))
	for i := range records {
		responses[i] = *toClientResponse(&records[i])
	}

	return responses, total, nil
}

func toClientResponse(c *client.Client) *ClientResponse {
	return &ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		Notes:     c.Notes,
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Version:   c.Version,
	}
}
