package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lotusroom/enroll-backend/internal/middleware"
	"github.com/lotusroom/enroll-backend/internal/model"
	"github.com/lotusroom/enroll-backend/internal/repository"
	"github.com/lotusroom/enroll-backend/internal/response"
	"github.com/lotusroom/enroll-backend/internal/service"
	"github.com/lotusroom/enroll-backend/internal/validator"
)

// PaymentHandler handles checkout: provider intent creation and the single
// settlement entry point.
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreateIntent godoc
// POST /api/v1/student/checkout/intent
// Authorizes the snapshotted price of an own pending selection with the
// provider and returns the client secret. No local state changes.
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CheckoutIntentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	intent, err := h.paymentService.CreateCheckoutIntent(c.Request.Context(), claims.Email, req.SelectionID)
	if err != nil {
		h.failCheckout(c, err)
		return
	}

	response.Success(c, http.StatusOK, intent)
}

// Confirm godoc
// POST /api/v1/student/checkout/confirm
// Settles a pending selection: one atomic seat decrement + state flip +
// receipt. Safe to retry; a repeat reports 409 ALREADY_PAID.
func (h *PaymentHandler) Confirm(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.ConfirmPaymentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	receipt, err := h.paymentService.Confirm(c.Request.Context(), claims.Email, req.SelectionID, req.ProviderRef)
	if err != nil {
		h.failCheckout(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"receipt": receipt})
}

// ListReceipts godoc
// GET /api/v1/student/receipts
// Lists the student's own payment receipts.
func (h *PaymentHandler) ListReceipts(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	receipts, err := h.paymentService.ListReceiptsByStudent(c.Request.Context(), claims.Email)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"receipts": receipts})
}

func (h *PaymentHandler) failCheckout(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNotOwner):
		response.Fail(c, http.StatusForbidden, response.ErrOwnershipRequired)
	case errors.Is(err, repository.ErrAlreadyPaid):
		response.Fail(c, http.StatusConflict, response.ErrAlreadyPaid)
	case errors.Is(err, repository.ErrSeatUnavailable):
		response.Fail(c, http.StatusConflict, response.ErrSeatUnavailable)
	case errors.Is(err, service.ErrInvalidAmount):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
	case errors.Is(err, service.ErrProvider):
		response.Fail(c, http.StatusBadGateway, response.ErrPaymentProvider)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
