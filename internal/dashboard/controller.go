package dashboard

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"railbook/internal/shared/middleware"
	"railbook/internal/shared/utils/response"
	"railbook/internal/trains"
)

type Controller interface {
	GetOverview(c *gin.Context)
	AddSchedule(c *gin.Context)
	DeleteTrain(c *gin.Context)
	GetUserSummary(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) GetOverview(c *gin.Context) {
	overview, err := ctrl.service.GetOverview(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to load overview", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Overview retrieved successfully", overview, nil)
}

func (ctrl *controller) AddSchedule(c *gin.Context) {
	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	ack, err := ctrl.service.ValidateSchedule(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrIncompleteSchedule) {
			response.RespondJSON(c, "error", http.StatusBadRequest, "Please fill in all required fields", nil, err.Error())
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to add schedule", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Train schedule added successfully!", ack, nil)
}

func (ctrl *controller) DeleteTrain(c *gin.Context) {
	id := c.Param("id")
	ack, err := ctrl.service.DeleteTrain(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, trains.ErrTrainNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Train details not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to delete train", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Train "+id+" deleted successfully!", ack, nil)
}

func (ctrl *controller) GetUserSummary(c *gin.Context) {
	summary, err := ctrl.service.GetUserSummary(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to load dashboard", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Dashboard retrieved successfully", summary, nil)
}
