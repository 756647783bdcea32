package search

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"railbook/internal/shared/utils/response"
)

type Controller interface {
	SubmitSearch(c *gin.Context)
	SwapStations(c *gin.Context)
	GetDefaults(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) SubmitSearch(c *gin.Context) {
	var req SubmitSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	result, err := ctrl.service.Submit(c.Request.Context(), &req)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			response.RespondJSON(c, "error", http.StatusBadRequest, verr.Message, nil, verr)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to submit search", nil, nil)
		return
	}

	response.RespondWithNext(c, "success", http.StatusOK, "Search accepted", result, nil, result.Next)
}

func (ctrl *controller) SwapStations(c *gin.Context) {
	var req SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Stations swapped", ctrl.service.Swap(&req), nil)
}

func (ctrl *controller) GetDefaults(c *gin.Context) {
	response.RespondJSON(c, "success", http.StatusOK, "Search defaults retrieved", ctrl.service.Defaults(), nil)
}
