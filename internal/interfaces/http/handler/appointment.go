package handler

import (
	schedulingapp "github.com/barberflow/backend/internal/application/scheduling"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AppointmentHandler handles appointment scheduling API endpoints
type AppointmentHandler struct {
	BaseHandler
	schedulingService *schedulingapp.SchedulingService
}

// NewAppointmentHandler creates a new AppointmentHandler
func NewAppointmentHandler(schedulingService *schedulingapp.SchedulingService) *AppointmentHandler {
	return &AppointmentHandler{
		schedulingService: schedulingService,
	}
}

// Schedule books an appointment in one of the fixed day slots
func (h *AppointmentHandler) Schedule(c *gin.Context) {
	var req schedulingapp.ScheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appointment, err := h.schedulingService.ScheduleAppointment(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, appointment)
}

// GetByID returns a single appointment
func (h *AppointmentHandler) GetByID(c *gin.Context) {
	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid appointment ID format")
		return
	}

	appointment, err := h.schedulingService.GetAppointment(c.Request.Context(), appointmentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, appointment)
}

// List returns a paginated list of appointments
func (h *AppointmentHandler) List(c *gin.Context) {
	var filter schedulingapp.AppointmentListFilter
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

	appointments, total, err := h.schedulingService.ListAppointments(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, appointments, total, filter.Page, filter.PageSize)
}

// Complete marks a scheduled appointment as completed
func (h *AppointmentHandler) Complete(c *gin.Context) {
	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid appointment ID format")
		return
	}

	appointment, err := h.schedulingService.CompleteAppointment(c.Request.Context(), appointmentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, appointment)
}

// Cancel marks a scheduled appointment as cancelled, freeing its slot
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid appointment ID format")
		return
	}

	appointment, err := h.schedulingService.CancelAppointment(c.Request.Context(), appointmentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, appointment)
}

// AvailableSlots returns the free slots for a given date
func (h *AppointmentHandler) AvailableSlots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		h.BadRequest(c, "date query parameter is required")
		return
	}

	slots, err := h.schedulingService.AvailableSlots(c.Request.Context(), date)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, slots)
}
