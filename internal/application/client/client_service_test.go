package client

import (
	"context"
	"errors"
	"testing"

	clientdomain "github.com/barberflow/backend/internal/domain/client"
	"github.com/barberflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*clientdomain.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clientdomain.Client), args.Error(1)
}

func (m *MockClientRepository) FindByName(ctx context.Context, name string) (*clientdomain.Client, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clientdomain.Client), args.Error(1)
}

func (m *MockClientRepository) FindAll(ctx context.Context, filter clientdomain.ClientFilter) ([]clientdomain.Client, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]clientdomain.Client), args.Error(1)
}

func (m *MockClientRepository) Create(ctx context.Context, c *clientdomain.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClientRepository) Save(ctx context.Context, c *clientdomain.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClientRepository) Count(ctx context.Context, filter clientdomain.ClientFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func TestClientService_CreateClient(t *testing.T) {
	repo := new(MockClientRepository)
	svc := NewClientService(repo)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*client.Client")).Return(nil)

	resp, err := svc.CreateClient(context.Background(), CreateClientRequest{
		Name:  "Ana Souza",
		Phone: "+55 11 98888-7777",
	})
	require.NoError(t, err)

	assert.Equal(t, "Ana Souza", resp.Name)
	assert.True(t, resp.Active)
	repo.AssertExpectations(t)
}

func TestClientService_CreateClient_RepoFailureWrapped(t *testing.T) {
	repo := new(MockClientRepository)
	svc := NewClientService(repo)

	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("duplicate key"))

	_, err := svc.CreateClient(context.Background(), CreateClientRequest{Name: "Ana"})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CREATION_FAILED", domainErr.Code)
}

func TestClientService_UpdateClient(t *testing.T) {
	repo := new(MockClientRepository)
	svc := NewClientService(repo)

	existing, err := clientdomain.NewClient("Ana", "", "", "")
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
	repo.On("Save", mock.Anything, existing).Return(nil)

	resp, err := svc.UpdateClient(context.Background(), existing.ID, UpdateClientRequest{
		Name:  "Ana Souza",
		Email: "ana@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", resp.Name)
	assert.Equal(t, 2, resp.Version)
}

func TestClientService_UpdateClient_NotFound(t *testing.T) {
	repo := new(MockClientRepository)
	svc := NewClientService(repo)

	repo.On("FindByID", mock.Anything, mock.Anything).Return(nil, nil)

	_, err := svc.UpdateClient(context.Background(), uuid.New(), UpdateClientRequest{Name: "Ana"})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestClientService_DeactivateClient(t *testing.T) {
	repo := new(MockClientRepository)
	svc := NewClientService(repo)

	existing, err := clientdomain.NewClient("Ana", "", "", "")
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
	repo.On("Save", mock.Anything, existing).Return(nil)

	require.NoError(t, svc.DeactivateClient(context.Background(), existing.ID))
	assert.False(t, existing.Active)

	// second deactivation hits the domain guard
	err = svc.DeactivateClient(context.Background(), existing.ID)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestClientService_ListClients(t *testing.T) {
	repo := new(MockClientRepository)
	svc := NewClientService(repo)

	first, err := clientdomain.NewClient("Ana", "", "", "")
	require.NoError(t, err)
	second, err := clientdomain.NewClient("Bruno", "", "", "")
	require.NoError(t, err)

	repo.On("FindAll", mock.Anything, mock.Anything).Return([]clientdomain.Client{*first, *second}, nil)
	repo.On("Count", mock.Anything, mock.Anything).Return(int64(2), nil)

	responses, total, err := svc.ListClients(context.Background(), ClientListFilter{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, responses, 2)
	assert.Equal(t, "Ana", responses[0].Name)
}
