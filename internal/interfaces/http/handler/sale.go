package handler

import (
	salesapp "github.com/barberflow/backend/internal/application/sales"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SaleHandler handles settled service sale API endpoints
type SaleHandler struct {
	BaseHandler
	salesService *salesapp.SalesService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(salesService *salesapp.SalesService) *SaleHandler {
	return &SaleHandler{
		salesService: salesService,
	}
}

// Register records a sale settled at the counter
func (h *SaleHandler) Register(c *gin.Context) {
	var req salesapp.RegisterSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sale, err := h.salesService.RegisterSale(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, sale)
}

// GetByID returns a single sale
func (h *SaleHandler) GetByID(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	sale, err := h.salesService.GetSale(c.Request.Context(), saleID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, sale)
}

// List returns a paginated list of sales
func (h *SaleHandler) List(c *gin.Context) {
	var filter salesapp.ServiceSaleListFilter
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

	sales, total, err := h.salesService.ListSales(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, sales, total, filter.Page, filter.PageSize)
}

// RevenueSummary returns revenue totals for a period, including credit collections
func (h *SaleHandler) RevenueSummary(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		h.BadRequest(c, "from and to query parameters are required")
		return
	}

	summary, err := h.salesService.GetRevenueSummary(c.Request.Context(), from, to)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}
