package handler

import (
	ledgerapp "github.com/barberflow/backend/internal/application/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LedgerHandler handles credit sale ledger API endpoints
type LedgerHandler struct {
	BaseHandler
	ledgerService *ledgerapp.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledgerService *ledgerapp.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
	}
}

// CreateSale records a new credit sale with its installment schedule
func (h *LedgerHandler) CreateSale(c *gin.Context) {
	var req ledgerapp.CreateCreditSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sale, err := h.ledgerService.CreateCreditSale(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, sale)
}

// GetSale returns a credit sale with its installments
func (h *LedgerHandler) GetSale(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	sale, err := h.ledgerService.GetSaleWithInstallments(c.Request.Context(), saleID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, sale)
}

// ListSales returns a paginated list of credit sales
func (h *LedgerHandler) ListSales(c *gin.Context) {
	var filter ledgerapp.CreditSaleListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = 20
	}

	sales, total, err := h.ledgerService.ListCreditSales(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, sales, total, filter.Page, filter.PageSize)
}

// PayInstallment settles a single installment and returns the updated sale
func (h *LedgerHandler) PayInstallment(c *gin.Context) {
	installmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid installment ID format")
		return
	}

	var req ledgerapp.PayInstallmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sale, err := h.ledgerService.PayInstallment(c.Request.Context(), installmentID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, sale)
}

// RefreshStatuses sweeps open sales and marks due installments overdue
func (h *LedgerHandler) RefreshStatuses(c *gin.Context) {
	result, err := h.ledgerService.RefreshAllStatuses(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// GetSummary returns outstanding/overdue totals across the ledger
func (h *LedgerHandler) GetSummary(c *gin.Context) {
	summary, err := h.ledgerService.GetLedgerSummary(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}
