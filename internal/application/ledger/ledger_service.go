package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/barberflow/backend/internal/domain/client"
	"github.com/barberflow/backend/internal/domain/ledger"
	"github.com/barberflow/backend/internal/domain/shared"
	"github.com/barberflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// keyedMutex serializes operations per sale while leaving unrelated sales
// free to proceed in parallel.
type keyedMutex struct {
	locks sync.Map
}

func (k *keyedMutex) Lock(key uuid.UUID) func() {
	value, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// LedgerService provides application-level credit sale operations
type LedgerService struct {
	saleRepo   ledger.CreditSaleRepository
	clientRepo client.ClientRepository
	saleLocks  keyedMutex
	today      func() valueobject.CalDate
}

// LedgerServiceOption is a functional option for configuring LedgerService
type LedgerServiceOption func(*LedgerService)

// WithToday overrides the clock used for status derivation
func WithToday(fn func() valueobject.CalDate) LedgerServiceOption {
	return func(s *LedgerService) {
		s.today = fn
	}
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	saleRepo ledger.CreditSaleRepository,
	clientRepo client.ClientRepository,
	opts ...LedgerServiceOption,
) *LedgerService {
	s := &LedgerService{
		saleRepo:   saleRepo,
		clientRepo: clientRepo,
		today:      valueobject.Today,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateCreditSaleRequest represents a request to register a credit sale
type CreateCreditSaleRequest struct {
	ClientID         *uuid.UUID      `json:"client_id"`
	ClientName       string          `json:"client_name" binding:"required"`
	Products         string          `json:"products" binding:"required"`
	Subtotal         decimal.Decimal `json:"subtotal" binding:"required"`
	Discount         decimal.Decimal `json:"discount"`
	InstallmentCount int             `json:"installment_count" binding:"required"`
	FirstDueDate     string          `json:"first_due_date" binding:"required"`
	SaleDate         string          `json:"sale_date"`
}

// PayInstallmentRequest represents a request to settle one installment
type PayInstallmentRequest struct {
	PaidDate      string `json:"paid_date" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// CreditSaleListFilter defines filtering options for credit sale list queries
type CreditSaleListFilter struct {
	Search   string     `form:"search"`
	ClientID *uuid.UUID `form:"client_id"`
	Status   string     `form:"status"`
	Overdue  *bool      `form:"overdue"`
	FromDate string     `form:"from_date"`
	ToDate   string     `form:"to_date"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
}

// InstallmentResponse represents an installment in API responses
type InstallmentResponse struct {
	ID            uuid.UUID       `json:"id"`
	Number        int             `json:"number"`
	Amount        decimal.Decimal `json:"amount"`
	DueDate       string          `json:"due_date"`
	Status        string          `json:"status"`
	PaidDate      *string         `json:"paid_date,omitempty"`
	PaymentMethod string          `json:"payment_method,omitempty"`
}

// CreditSaleResponse represents a credit sale in API responses
type CreditSaleResponse struct {
	ID               uuid.UUID             `json:"id"`
	ClientID         *uuid.UUID            `json:"client_id,omitempty"`
	ClientName       string                `json:"client_name"`
	Products         string                `json:"products"`
	Subtotal         decimal.Decimal       `json:"subtotal"`
	Discount         decimal.Decimal       `json:"discount"`
	TotalAmount      decimal.Decimal       `json:"total_amount"`
	InstallmentCount int                   `json:"installment_count"`
	FirstDueDate     string                `json:"first_due_date"`
	SaleDate         string                `json:"sale_date"`
	Status           string                `json:"status"`
	TotalPaid        decimal.Decimal       `json:"total_paid"`
	RemainingAmount  decimal.Decimal       `json:"remaining_amount"`
	Installments     []InstallmentResponse `json:"installments,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
	Version          int                   `json:"version"`
}

// LedgerSummary aggregates the open book across all sales
type LedgerSummary struct {
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	TotalOverdue     decimal.Decimal `json:"total_overdue"`
	ActiveCount      int64           `json:"active_count"`
	OverdueCount     int64           `json:"overdue_count"`
	PaidCount        int64           `json:"paid_count"`
}

// RefreshResult reports the outcome of a bulk status refresh
type RefreshResult struct {
	Scanned int `json:"scanned"`
	Updated int `json:"updated"`
}

// CreateCreditSale registers a credit sale with its full installment
// schedule in one atomic write. When no client reference is given, an
// active client with the same name is soft-linked best effort.
func (s *LedgerService) CreateCreditSale(ctx context.Context, req CreateCreditSaleRequest) (*CreditSaleResponse, error) {
	firstDueDate, err := valueobject.ParseCalDate(req.FirstDueDate)
	if err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid first due date: "+err.Error())
	}

	today := s.today()
	saleDate := today
	if req.SaleDate != "" {
		saleDate, err = valueobject.ParseCalDate(req.SaleDate)
		if err != nil {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid sale date: "+err.Error())
		}
	}

	clientID := req.ClientID
	if clientID == nil && s.clientRepo != nil {
		// lookup failures never block the sale
		if match, lookupErr := s.clientRepo.FindByName(ctx, req.ClientName); lookupErr == nil && match != nil {
			clientID = &match.ID
		}
	}

	sale, err := ledger.NewCreditSale(
		req.ClientName,
		req.Products,
		valueobject.NewMoneyBRL(req.Subtotal),
		valueobject.NewMoneyBRL(req.Discount),
		req.InstallmentCount,
		firstDueDate,
		saleDate,
		clientID,
		today,
	)
	if err != nil {
		return nil, err
	}

	if err := s.saleRepo.Create(ctx, sale); err != nil {
		if domainErr, ok := err.(*shared.DomainError); ok {
			return nil, domainErr
		}
		return nil, shared.NewDomainError("CREATION_FAILED", "Credit sale could not be created: "+err.Error())
	}

	return toCreditSaleResponse(sale, true), nil
}

// PayInstallment records a payment against one installment. Calls for the
// same sale are serialized; the sale is re-read under the lock so a racing
// payment observes the winner's write.
func (s *LedgerService) PayInstallment(ctx context.Context, installmentID uuid.UUID, req PayInstallmentRequest) (*CreditSaleResponse, error) {
	paidDate, err := valueobject.ParseCalDate(req.PaidDate)
	if err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid paid date: "+err.Error())
	}

	owner, err := s.saleRepo.FindByInstallmentID(ctx, installmentID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Installment not found")
	}

	unlock := s.saleLocks.Lock(owner.ID)
	defer unlock()

	sale, err := s.saleRepo.FindByID(ctx, owner.ID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Credit sale not found")
	}

	if err := sale.PayInstallment(installmentID, paidDate, ledger.PaymentMethod(req.PaymentMethod), s.today()); err != nil {
		return nil, err
	}

	if err := s.saleRepo.Save(ctx, sale); err != nil {
		if domainErr, ok := err.(*shared.DomainError); ok {
			return nil, domainErr
		}
		return nil, shared.NewDomainError("PERSISTENCE_ERROR", "Payment could not be stored: "+err.Error())
	}

	return toCreditSaleResponse(sale, true), nil
}

// RefreshAllStatuses rederives installment and sale statuses across every
// open sale. Already-correct sales are skipped; the pass is idempotent.
func (s *LedgerService) RefreshAllStatuses(ctx context.Context) (*RefreshResult, error) {
	sales, err := s.saleRepo.FindOpen(ctx)
	if err != nil {
		return nil, err
	}

	today := s.today()
	result := &RefreshResult{Scanned: len(sales)}

	for idx := range sales {
		sale := &sales[idx]
		unlock := s.saleLocks.Lock(sale.ID)

		changed, refreshErr := sale.RefreshStatuses(today)
		if refreshErr != nil {
			unlock()
			return nil, refreshErr
		}
		if changed {
			if saveErr := s.saleRepo.Save(ctx, sale); saveErr != nil {
				unlock()
				return nil, shared.NewDomainError("PERSISTENCE_ERROR", "Status refresh could not be stored: "+saveErr.Error())
			}
			result.Updated++
		}
		unlock()
	}

	return result, nil
}

// GetSaleWithInstallments gets a sale and its full schedule by ID. Statuses
// are rederived against today for display only; the stored row keeps its
// version until the next persisted refresh.
func (s *LedgerService) GetSaleWithInstallments(ctx context.Context, id uuid.UUID) (*CreditSaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Credit sale not found")
	}
	sale.ResolveDisplayStatuses(s.today())
	return toCreditSaleResponse(sale, true), nil
}

// ListCreditSales lists sales with filtering. Statuses are rederived
// against today before mapping so a stale stored value never surfaces.
func (s *LedgerService) ListCreditSales(ctx context.Context, filter CreditSaleListFilter) ([]CreditSaleResponse, int64, error) {
	domainFilter, err := toDomainFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	sales, err := s.saleRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.saleRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	today := s.today()
	responses := make([]CreditSaleResponse, len(sales))
	for i := range sales {
		// display-only; persistence happens on the bulk refresh pass
		sales[i].ResolveDisplayStatuses(today)
		responses[i] = *toCreditSaleResponse(&sales[i], false)
	}

	return responses, total, nil
}

// GetLedgerSummary aggregates outstanding and overdue totals with counts
func (s *LedgerService) GetLedgerSummary(ctx context.Context) (*LedgerSummary, error) {
	totalOutstanding, err := s.saleRepo.SumRemaining(ctx)
	if err != nil {
		return nil, err
	}

	totalOverdue, err := s.saleRepo.SumOverdue(ctx)
	if err != nil {
		return nil, err
	}

	activeCount, err := s.saleRepo.CountByStatus(ctx, ledger.SaleStatusActive)
	if err != nil {
		return nil, err
	}

	overdueCount, err := s.saleRepo.CountByStatus(ctx, ledger.SaleStatusOverdue)
	if err != nil {
		return nil, err
	}

	paidCount, err := s.saleRepo.CountByStatus(ctx, ledger.SaleStatusPaid)
	if err != nil {
		return nil, err
	}

	return &LedgerSummary{
		TotalOutstanding: totalOutstanding,
		TotalOverdue:     totalOverdue,
		ActiveCount:      activeCount,
		OverdueCount:     overdueCount,
		PaidCount:        paidCount,
	}, nil
}

func toDomainFilter(filter CreditSaleListFilter) (ledger.CreditSaleFilter, error) {
	domainFilter := ledger.CreditSaleFilter{
		ClientID: filter.ClientID,
		Overdue:  filter.Overdue,
	}
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.Search = filter.Search

	if filter.Status != "" {
		status := ledger.SaleStatus(filter.Status)
		if !status.IsValid() {
			return ledger.CreditSaleFilter{}, shared.NewDomainError("VALIDATION_ERROR", "Invalid status filter")
		}
		domainFilter.Status = &status
	}
	if filter.FromDate != "" {
		from, err := valueobject.ParseCalDate(filter.FromDate)
		if err != nil {
			return ledger.CreditSaleFilter{}, shared.NewDomainError("VALIDATION_ERROR", "Invalid from date: "+err.Error())
		}
		domainFilter.FromDate = &from
	}
	if filter.ToDate != "" {
		to, err := valueobject.ParseCalDate(filter.ToDate)
		if err != nil {
			return ledger.CreditSaleFilter{}, shared.NewDomainError("VALIDATION_ERROR", "Invalid to date: "+err.Error())
		}
		domainFilter.ToDate = &to
	}

	return domainFilter, nil
}

func toCreditSaleResponse(sale *ledger.CreditSale, includeInstallments bool) *CreditSaleResponse {
	resp := &CreditSaleResponse{
		ID:               sale.ID,
		ClientID:         sale.ClientID,
		ClientName:       sale.ClientName,
		Products:         sale.Products,
		Subtotal:         sale.Subtotal,
		Discount:         sale.Discount,
		TotalAmount:      sale.TotalAmount,
		InstallmentCount: sale.InstallmentCount,
		FirstDueDate:     sale.FirstDueDate.String(),
		SaleDate:         sale.SaleDate.String(),
		Status:           sale.Status.String(),
		TotalPaid:        sale.TotalPaid,
		RemainingAmount:  sale.RemainingAmount,
		CreatedAt:        sale.CreatedAt,
		UpdatedAt:        sale.UpdatedAt,
		Version:          sale.Version,
	}

	if includeInstallments {
		resp.Installments = make([]InstallmentResponse, len(sale.Installments))
		for i, inst := range sale.Installments {
			item := InstallmentResponse{
				ID:            inst.ID,
				Number:        inst.Number,
				Amount:        inst.Amount,
				DueDate:       inst.DueDate.String(),
				Status:        inst.Status.String(),
				PaymentMethod: inst.PaymentMethod.String(),
			}
			if inst.PaidDate != nil {
				paid := inst.PaidDate.String()
				item.PaidDate = &paid
			}
			resp.Installments[i] = item
		}
	}

	return resp
}
