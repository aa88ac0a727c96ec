package payment

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"lodgebooking/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/webhook", h.Webhook)
}

func (h *Handler) Webhook(c *gin.Context) {
	var req CaptureNotification
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid webhook payload")
		return
	}

	err := h.service.HandleCapture(c.Request.Context(), req)
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, gin.H{"booking_id": req.BookingID, "status": "finalised"})
	case errors.Is(err, ErrInvalidSignature):
		response.Error(c, http.StatusForbidden, "INVALID_SIGNATURE", "Webhook signature is invalid")
	case errors.Is(err, ErrAmountMismatch):
		response.Error(c, http.StatusConflict, "AMOUNT_MISMATCH", "Captured amount does not match the booking cost")
	case errors.Is(err, ErrNotPayable):
		response.Error(c, http.StatusConflict, "NOT_PAYABLE", "Booking is not awaiting payment")
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process capture")
	}
}
