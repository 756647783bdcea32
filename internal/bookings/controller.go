package bookings

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"railbook/internal/shared/flow"
	"railbook/internal/shared/middleware"
	"railbook/internal/shared/utils/response"
)

type Controller interface {
	GetForm(c *gin.Context)
	ResetForm(c *gin.Context)
	AddPassenger(c *gin.Context)
	UpdatePassenger(c *gin.Context)
	RemovePassenger(c *gin.Context)
	ValidateForm(c *gin.Context)

	SubmitBooking(c *gin.Context)
	ListBookings(c *gin.Context)
	GetPending(c *gin.Context)
	GetBooking(c *gin.Context)
	DownloadTicket(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) GetForm(c *gin.Context) {
	form, err := ctrl.service.GetForm(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to load passenger form", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Passenger form retrieved successfully", form, nil)
}

func (ctrl *controller) ResetForm(c *gin.Context) {
	if err := ctrl.service.ResetForm(c.Request.Context(), middleware.SessionID(c)); err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to reset passenger form", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Passenger form reset", nil, nil)
}

func (ctrl *controller) AddPassenger(c *gin.Context) {
	var in *PassengerInput
	body := &PassengerInput{}
	present, err := bindOptionalJSON(c, body)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if present {
		in = body
	}

	form, err := ctrl.service.AddPassenger(c.Request.Context(), middleware.SessionID(c), in)
	if err != nil {
		ctrl.handleError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Passenger added", form, nil)
}

func (ctrl *controller) UpdatePassenger(c *gin.Context) {
	index, ok := parseIndex(c)
	if !ok {
		return
	}

	var in PassengerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	form, err := ctrl.service.UpdatePassenger(c.Request.Context(), middleware.SessionID(c), index, in)
	if err != nil {
		ctrl.handleError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Passenger updated", form, nil)
}

func (ctrl *controller) RemovePassenger(c *gin.Context) {
	index, ok := parseIndex(c)
	if !ok {
		return
	}

	form, err := ctrl.service.RemovePassenger(c.Request.Context(), middleware.SessionID(c), index)
	if err != nil {
		ctrl.handleError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Passenger removed", form, nil)
}

func (ctrl *controller) ValidateForm(c *gin.Context) {
	form, err := ctrl.service.ValidateForm(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		if IsUserError(err) && form != nil {
			response.RespondJSON(c, "error", http.StatusUnprocessableEntity, userMessage(err), form, form.Invalid)
			return
		}
		ctrl.handleError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Passenger details are complete", form, nil)
}

func (ctrl *controller) SubmitBooking(c *gin.Context) {
	var req SubmitBookingRequest
	if _, err := bindOptionalJSON(c, &req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	rec, next, err := ctrl.service.Submit(c.Request.Context(), middleware.SessionID(c), &req)
	if err != nil {
		ctrl.handleError(c, err)
		return
	}

	response.RespondWithNext(c, "success", http.StatusCreated, "Booking confirmed. Proceed to payment.", rec, nil, next)
}

func (ctrl *controller) ListBookings(c *gin.Context) {
	list, err := ctrl.service.ListBookings(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to retrieve bookings", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Bookings retrieved successfully", list, nil)
}

func (ctrl *controller) GetPending(c *gin.Context) {
	rec, err := ctrl.service.GetPending(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		ctrl.handleError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Pending booking retrieved successfully", rec, nil)
}

func (ctrl *controller) GetBooking(c *gin.Context) {
	rec, err := ctrl.service.GetBooking(c.Request.Context(), middleware.SessionID(c), c.Param("pnr"))
	if err != nil {
		ctrl.handleError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking retrieved successfully", rec, nil)
}

func (ctrl *controller) DownloadTicket(c *gin.Context) {
	pnr := c.Param("pnr")
	pdf, err := ctrl.service.Ticket(c.Request.Context(), middleware.SessionID(c), pnr)
	if err != nil {
		ctrl.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=ticket-"+pnr+".pdf")
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (ctrl *controller) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNoPassengers), errors.Is(err, ErrIncompletePassenger):
		var perr *PassengerError
		if errors.As(err, &perr) {
			response.RespondJSON(c, "error", http.StatusUnprocessableEntity, userMessage(err), nil, perr)
			return
		}
		response.RespondJSON(c, "error", http.StatusUnprocessableEntity, userMessage(err), nil, nil)
	case errors.Is(err, ErrPassengerIndex):
		response.RespondJSON(c, "error", http.StatusNotFound, "Passenger not found", nil, err.Error())
	case errors.Is(err, ErrNoSelection):
		response.RespondWithNext(c, "error", http.StatusNotFound,
			"No train selected. Please go back and select a train.", nil, nil, flow.To(flow.StepTrainList, nil))
	case errors.Is(err, ErrNoPendingBooking):
		response.RespondWithNext(c, "error", http.StatusNotFound,
			"Booking data not found. Please try again.", nil, nil, flow.To(flow.StepHome, nil))
	case errors.Is(err, ErrBookingNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, "Booking not found", nil, nil)
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to process booking", nil, nil)
	}
}

func userMessage(err error) string {
	if errors.Is(err, ErrNoPassengers) {
		return "Please add at least one passenger"
	}
	return "Please fill in all required fields for all passengers"
}

// bindOptionalJSON decodes the body into obj and reports whether there was
// one. An empty body, chunked or not, is not an error.
func bindOptionalJSON(c *gin.Context, obj interface{}) (bool, error) {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return false, nil
	}
	if err := c.ShouldBindJSON(obj); err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func parseIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid passenger index", nil, err.Error())
		return 0, false
	}
	return index, true
}
