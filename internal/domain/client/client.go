package client

import (
	"strings"
	"time"

	"github.com/barberflow/backend/internal/domain/shared"
)

// Client is the aggregate root for a registered customer. Registration is
// optional: ledger and sales records carry a free-text client name and only
// soft-link to a Client when one matches.
type Client struct {
	shared.BaseAggregateRoot
	Name   string `json:"name"`
	Phone  string `json:"phone,omitempty"`
	Email  string `json:"email,omitempty"`
	Notes  string `json:"notes,omitempty"`
	Active bool   `json:"active"`
}

// NewClient creates an active client record
func NewClient(name, phone, email, notes string) (*Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Client name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Client name cannot exceed 200 characters")
	}

	return &Client{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Phone:             phone,
		Email:             email,
		Notes:             notes,
		Active:            true,
	}, nil
}

// Update changes the client's contact details
func (c *Client) Update(name, phone, email, notes string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Client name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("VALIDATION_ERROR", "Client name cannot exceed 200 characters")
	}

	c.Name = name
	c.Phone = phone
	c.Email = email
	c.Notes = notes
	c.touch()
	return nil
}

// Deactivate hides the client from lookups without deleting history
func (c *Client) Deactivate() error {
	if !c.Active {
		return shared.NewDomainError("INVALID_STATE", "Client is already inactive")
	}
	c.Active = false
	c.touch()
	return nil
}

// Activate restores a deactivated client
func (c *Client) Activate() error {
	if c.Active {
		return shared.NewDomainError("INVALID_STATE", "Client is already active")
	}
	c.Active = true
	c.touch()
	return nil
}

func (c *Client) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
