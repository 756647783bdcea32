package trains

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"railbook/internal/search"
	"railbook/internal/shared/flow"
	"railbook/internal/shared/middleware"
	"railbook/internal/shared/utils/response"
)

type Controller interface {
	ListTrains(c *gin.Context)
	ListStations(c *gin.Context)
	GetTrain(c *gin.Context)
	GetFare(c *gin.Context)
	SelectTrain(c *gin.Context)
	GetSelection(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) ListTrains(c *gin.Context) {
	var req ListTrainsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Trains retrieved successfully", ctrl.service.ListTrains(c.Request.Context(), &req), nil)
}

func (ctrl *controller) ListStations(c *gin.Context) {
	response.RespondJSON(c, "success", http.StatusOK, "Stations retrieved successfully", StationsResponse{Stations: Stations()}, nil)
}

func (ctrl *controller) GetTrain(c *gin.Context) {
	train, err := ctrl.service.GetTrain(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrTrainNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Train details not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to retrieve train", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Train retrieved successfully", train, nil)
}

func (ctrl *controller) GetFare(c *gin.Context) {
	var req FareRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "passengers must be a positive number", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Fare calculated successfully", ctrl.service.GetFare(c.Request.Context(), c.Param("id"), req.Passengers), nil)
}

func (ctrl *controller) SelectTrain(c *gin.Context) {
	var req SelectTrainRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
			return
		}
	}

	query := search.SearchQuery{From: req.From, To: req.To, Date: req.Date}
	sel, next, err := ctrl.service.SelectTrain(c.Request.Context(), middleware.SessionID(c), c.Param("id"), query)
	if err != nil {
		if errors.Is(err, ErrTrainNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Train details not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to store train selection", nil, nil)
		return
	}

	response.RespondWithNext(c, "success", http.StatusOK, "Train selected", sel, nil, next)
}

func (ctrl *controller) GetSelection(c *gin.Context) {
	sel, err := ctrl.service.GetSelection(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		if errors.Is(err, ErrNoSelection) {
			response.RespondWithNext(c, "error", http.StatusNotFound,
				"No train selected. Please go back and select a train.", nil, nil, flow.To(flow.StepTrainList, nil))
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to load train selection", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Selection retrieved successfully", sel, nil)
}
