package sales

import (
	"context"
	"time"

	"github.com/barberflow/backend/internal/domain/client"
	"github.com/barberflow/backend/internal/domain/ledger"
	"github.com/barberflow/backend/internal/domain/sales"
	"github.com/barberflow/backend/internal/domain/shared"
	"github.com/barberflow/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesService provides application-level service sale operations
type SalesService struct {
	saleRepo   sales.ServiceSaleRepository
	ledgerRepo ledger.CreditSaleRepository
	clientRepo client.ClientRepository
	today      func() valueobject.CalDate
}

// SalesServiceOption is a functional option for configuring SalesService
type SalesServiceOption func(*SalesService)

// WithToday overrides the clock used for default sale dates
func WithToday(fn func() valueobject.CalDate) SalesServiceOption {
	return func(s *SalesService) {
		s.today = fn
	}
}

// NewSalesService creates a new SalesService
func NewSalesService(
	saleRepo sales.ServiceSaleRepository,
	ledgerRepo ledger.CreditSaleRepository,
	clientRepo client.ClientRepository,
	opts ...SalesServiceOption,
) *SalesService {
	s := &SalesService{
		saleRepo:   saleRepo,
		ledgerRepo: ledgerRepo,
		clientRepo: clientRepo,
		today:      valueobject.Today,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaleItemRequest is one line of a sale registration request
type SaleItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Quantity    int             `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// RegisterSaleRequest represents a request to record a settled sale
type RegisterSaleRequest struct {
	ClientID      *uuid.UUID        `json:"client_id"`
	ClientName    string            `json:"client_name" binding:"required"`
	Items         []SaleItemRequest `json:"items" binding:"required,dive"`
	Discount      decimal.Decimal   `json:"discount"`
	PaymentMethod string            `json:"payment_method" binding:"required"`
	SaleDate      string            `json:"sale_date"`
	Origin        string            `json:"origin"`
	AppointmentID *uuid.UUID        `json:"appointment_id"`
}

// ServiceSaleListFilter defines filtering options for sale list queries
type ServiceSaleListFilter struct {
	Search        string     `form:"search"`
	ClientID      *uuid.UUID `form:"client_id"`
	PaymentMethod string     `form:"payment_method"`
	Origin        string     `form:"origin"`
	FromDate      string     `form:"from_date"`
	ToDate        string     `form:"to_date"`
	Page          int        `form:"page"`
	PageSize      int        `form:"page_size"`
}

// SaleItemResponse represents a sale line in API responses
type SaleItemResponse struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// ServiceSaleResponse represents a service sale in API responses
type ServiceSaleResponse struct {
	ID            uuid.UUID          `json:"id"`
	ClientID      *uuid.UUID         `json:"client_id,omitempty"`
	ClientName    string             `json:"client_name"`
	Items         []SaleItemResponse `json:"items"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Discount      decimal.Decimal    `json:"discount"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod string             `json:"payment_method"`
	SaleDate      string             `json:"sale_date"`
	Origin        string             `json:"origin"`
	AppointmentID *uuid.UUID         `json:"appointment_id,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	Version       int                `json:"version"`
}

// MethodTotalResponse is one payment-method bucket of a revenue summary
type MethodTotalResponse struct {
	Method string          `json:"method"`
	Total  decimal.Decimal `json:"total"`
	Count  int64           `json:"count"`
}

// RevenueSummary aggregates settled revenue plus credit collections for a period
type RevenueSummary struct {
	From              string                `json:"from"`
	To                string                `json:"to"`
	TotalRevenue      decimal.Decimal       `json:"total_revenue"`
	SaleCount         int64                 `json:"sale_count"`
	ByMethod          []MethodTotalResponse `json:"by_method"`
	CreditCollections decimal.Decimal       `json:"credit_collections"`
}

// RegisterSale records a settled sale. Sale date defaults to today; origin
// defaults to walk-in.
func (s *SalesService) RegisterSale(ctx context.Context, req RegisterSaleRequest) (*ServiceSaleResponse, error) {
	saleDate := s.today()
	if req.SaleDate != "" {
		parsed, err := valueobject.ParseCalDate(req.SaleDate)
		if err != nil {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid sale date: "+err.Error())
		}
		saleDate = parsed
	}

	origin := sales.SaleOriginWalkIn
	if req.Origin != "" {
		origin = sales.SaleOrigin(req.Origin)
	}

	items := make([]sales.SaleItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = sales.SaleItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}

	clientID := req.ClientID
	if clientID == nil && s.clientRepo != nil {
		if match, lookupErr := s.clientRepo.FindByName(ctx, req.ClientName); lookupErr == nil && match != nil {
			clientID = &match.ID
		}
	}

	sale, err := sales.NewServiceSale(
		req.ClientName,
		items,
		valueobject.NewMoneyBRL(req.Discount),
		ledger.PaymentMethod(req.PaymentMethod),
		saleDate,
		origin,
		clientID,
		req.AppointmentID,
	)
	if err != nil {
		return nil, err
	}

	if err := s.saleRepo.Create(ctx, sale); err != nil {
		if domainErr, ok := err.(*shared.DomainError); ok {
			return nil, domainErr
		}
		return nil, shared.NewDomainError("CREATION_FAILED", "Sale could not be created: "+err.Error())
	}

	return toServiceSaleResponse(sale), nil
}

// GetSale gets a service sale by ID
func (s *SalesService) GetSale(ctx context.Context, id uuid.UUID) (*ServiceSaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Sale not found")
	}
	return toServiceSaleResponse(sale), nil
}

// ListSales lists service sales with filtering
func (s *SalesService) ListSales(ctx context.Context, filter ServiceSaleListFilter) ([]ServiceSaleResponse, int64, error) {
	domainFilter := sales.ServiceSaleFilter{
		ClientID: filter.ClientID,
	}
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.Search = filter.Search

	if filter.PaymentMethod != "" {
		method := ledger.PaymentMethod(filter.PaymentMethod)
		if !method.IsValid() {
			return nil, 0, shared.NewDomainError("VALIDATION_ERROR", "Invalid payment method filter")
		}
		domainFilter.PaymentMethod = &method
	}
	if filter.Origin != "" {
		origin := sales.SaleOrigin(filter.Origin)
		if !origin.IsValid() {
			return nil, 0, shared.NewDomainError("VALIDATION_ERROR", "Invalid origin filter")
		}
		domainFilter.Origin = &origin
	}
	if filter.FromDate != "" {
		from, err := valueobject.ParseCalDate(filter.FromDate)
		if err != nil {
			return nil, 0, shared.NewDomainError("VALIDATION_ERROR", "Invalid from date: "+err.Error())
		}
		domainFilter.FromDate = &from
	}
	if filter.ToDate != "" {
		to, err := valueobject.ParseCalDate(filter.ToDate)
		if err != nil {
			return nil, 0, shared.NewDomainError("VALIDATION_ERROR", "Invalid to date: "+err.Error())
		}
		domainFilter.ToDate = &to
	}

	results, err := s.saleRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.saleRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ServiceSaleResponse, len(results))
	for i := range results {
		responses[i] = *toServiceSaleResponse(&results[i])
	}

	return responses, total, nil
}

// GetRevenueSummary aggregates the period's settled revenue and the credit
// installments collected in it
func (s *SalesService) GetRevenueSummary(ctx context.Context, fromRaw, toRaw string) (*RevenueSummary, error) {
	from, err := valueobject.ParseCalDate(fromRaw)
	if err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid from date: "+err.Error())
	}
	to, err := valueobject.ParseCalDate(toRaw)
	if err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid to date: "+err.Error())
	}
	if to.Before(from) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Period end cannot precede period start")
	}

	totalRevenue, err := s.saleRepo.SumTotal(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byMethod, err := s.saleRepo.TotalsByMethod(ctx, from, to)
	if err != nil {
		return nil, err
	}

	periodFilter := sales.ServiceSaleFilter{FromDate: &from, ToDate: &to}
	saleCount, err := s.saleRepo.Count(ctx, periodFilter)
	if err != nil {
		return nil, err
	}

	collections, err := s.ledgerRepo.SumCollected(ctx, from, to)
	if err != nil {
		return nil, err
	}

	methods := make([]MethodTotalResponse, len(byMethod))
	for i, bucket := range byMethod {
		methods[i] = MethodTotalResponse{
			Method: bucket.Method.String(),
			Total:  bucket.Total,
			Count:  bucket.Count,
		}
	}

	return &RevenueSummary{
		From:              from.String(),
		To:                to.String(),
		TotalRevenue:      totalRevenue,
		SaleCount:         saleCount,
		ByMethod:          methods,
		CreditCollections: collections,
	}, nil
}

func toServiceSaleResponse(sale *sales.ServiceSale) *ServiceSaleResponse {
	items := make([]SaleItemResponse, len(sale.Items))
	for i, item := range sale.Items {
		items[i] = SaleItemResponse{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal(),
		}
	}

	return &ServiceSaleResponse{
		ID:            sale.ID,
		ClientID:      sale.ClientID,
		ClientName:    sale.ClientName,
		Items:         items,
		Subtotal:      sale.Subtotal,
		Discount:      sale.Discount,
		Total:         sale.Total,
		PaymentMethod: sale.PaymentMethod.String(),
		SaleDate:      sale.SaleDate.String(),
		Origin:        sale.Origin.String(),
		AppointmentID: sale.AppointmentID,
		CreatedAt:     sale.CreatedAt,
		Version:       sale.Version,
	}
}
