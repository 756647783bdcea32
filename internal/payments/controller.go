package payments

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"railbook/internal/bookings"
	"railbook/internal/shared/flow"
	"railbook/internal/shared/middleware"
	"railbook/internal/shared/utils/response"
)

type Controller interface {
	GetPending(c *gin.Context)
	Pay(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) GetPending(c *gin.Context) {
	pending, err := ctrl.service.GetPending(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		ctrl.handleError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Pending booking retrieved successfully", pending, nil)
}

func (ctrl *controller) Pay(c *gin.Context) {
	var req PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Please select a payment method", nil, err.Error())
		return
	}

	paid, next, err := ctrl.service.Pay(c.Request.Context(), middleware.SessionID(c), req.PaymentMethod)
	if err != nil {
		ctrl.handleError(c, err)
		return
	}

	response.RespondWithNext(c, "success", http.StatusOK, "Payment successful! Your booking is confirmed.", paid, nil, next)
}

func (ctrl *controller) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidMethod):
		response.RespondJSON(c, "error", http.StatusBadRequest, "Please select a payment method", nil, err.Error())
	case errors.Is(err, bookings.ErrNoPendingBooking):
		response.RespondWithNext(c, "error", http.StatusNotFound,
			"Booking data not found. Please try again.", nil, nil, flow.To(flow.StepHome, nil))
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to process payment", nil, nil)
	}
}
