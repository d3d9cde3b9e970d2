package handler

import (
	"strings"

	supplyapp "github.com/agrisupply/backend/internal/application/supply"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentHandler handles supply payment endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *supplyapp.SupplyPaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *supplyapp.SupplyPaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// listPaymentsQuery carries the payment list query parameters
type listPaymentsQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=PENDING PAID pending paid"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,max=100"`
}

// MarkPaidRequest settles a payment
// @Description Request body for marking a payment as paid
type MarkPaidRequest struct {
	Version int `json:"version" binding:"min=0" example:"1"`
}

// List godoc
// @ID           listSupplyPayments
// @Summary      List supply payments
// @Description  Retrieve a paginated list of supply payments with optional status filtering
// @Tags         payments
// @Produce      json
// @Param        status query string false "Payment status" Enums(PENDING, PAID)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]supplyapp.PaymentResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	var query listPaymentsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.PageSize <= 0 {
		query.PageSize = 20
	}

	result, err := h.paymentService.ListPayments(c.Request.Context(), query.Page, query.PageSize, strings.ToUpper(query.Status))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetByID godoc
// @ID           getSupplyPaymentById
// @Summary      Get payment by ID
// @Description  Retrieve a supply payment by its ID
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Success      200 {object} APIResponse[supplyapp.PaymentResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /payments/{id} [get]
func (h *PaymentHandler) GetByID(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), paymentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payment)
}

// GetBySupply godoc
// @ID           getSupplyPaymentBySupply
// @Summary      Get payment by supply
// @Description  Retrieve the payment record attached to a supply
// @Tags         payments
// @Produce      json
// @Param        supply_id path string true "Supply ID" format(uuid)
// @Success      200 {object} APIResponse[supplyapp.PaymentResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /payments/supply/{supply_id} [get]
func (h *PaymentHandler) GetBySupply(c *gin.Context) {
	supplyID, err := uuid.Parse(c.Param("supply_id"))
	if err != nil {
		h.BadRequest(c, "Invalid supply ID format")
		return
	}

	payment, err := h.paymentService.GetPaymentBySupply(c.Request.Context(), supplyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payment)
}

// MarkPaid godoc
// @ID           markSupplyPaymentPaid
// @Summary      Mark a payment as paid
// @Description  Settle an unpaid supply payment. The request version must match the stored version.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Param        request body MarkPaidRequest true "Mark paid request"
// @Success      200 {object} APIResponse[supplyapp.PaymentResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /payments/{id}/mark-paid [post]
func (h *PaymentHandler) MarkPaid(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	var req MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	payment, err := h.paymentService.MarkPaid(c.Request.Context(), paymentID, req.Version)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payment)
}
