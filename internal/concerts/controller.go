package concerts

import (
	"errors"
	"net/http"
	"strconv"

	"concertly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller interface {
	GetConcert(c *gin.Context)
	GetAllConcerts(c *gin.Context)
	GetConcertSummaries(c *gin.Context)
	GetPerformer(c *gin.Context)
	GetAllPerformers(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) GetConcert(c *gin.Context) {
	id, err := parseID(c.Param("concertId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid concert ID", nil, err.Error())
		return
	}

	concert, err := ctrl.service.GetConcert(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrConcertNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Concert not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to get concert", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Concert retrieved successfully", concert, nil)
}

func (ctrl *controller) GetAllConcerts(c *gin.Context) {
	list, err := ctrl.service.GetAllConcerts(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to list concerts", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Concerts retrieved successfully", list, nil)
}

func (ctrl *controller) GetConcertSummaries(c *gin.Context) {
	summaries, err := ctrl.service.GetConcertSummaries(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to list concert summaries", nil, nil)
		return
	}
	if len(summaries) == 0 {
		response.RespondJSON(c, "error", http.StatusNotFound, "No concerts found", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Concert summaries retrieved successfully", summaries, nil)
}

func (ctrl *controller) GetPerformer(c *gin.Context) {
	id, err := parseID(c.Param("performerId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid performer ID", nil, err.Error())
		return
	}

	performer, err := ctrl.service.GetPerformer(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPerformerNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Performer not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to get performer", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Performer retrieved successfully", performer, nil)
}

func (ctrl *controller) GetAllPerformers(c *gin.Context) {
	list, err := ctrl.service.GetAllPerformers(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to list performers", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Performers retrieved successfully", list, nil)
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
