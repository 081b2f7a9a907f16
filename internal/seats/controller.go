package seats

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"concertly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller interface {
	GetSeatsForDate(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

// GetSeatsForDate lists the seats for one concert date, optionally
// filtered by ?status=booked|unbooked (default any).
func (ctrl *controller) GetSeatsForDate(c *gin.Context) {
	date, err := time.Parse(time.RFC3339, c.Param("date"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid date, expected RFC 3339", nil, err.Error())
		return
	}

	status, ok := ParseBookingStatus(strings.ToLower(c.Query("status")))
	if !ok {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid status, expected any, booked or unbooked", nil, nil)
		return
	}

	seatRows, err := ctrl.service.GetSeatsForDate(c.Request.Context(), date, status)
	if err != nil {
		if errors.Is(err, ErrDateNotLoaded) || strings.Contains(err.Error(), "no seats provisioned") {
			response.RespondJSON(c, "error", http.StatusNotFound, "No seats for this date", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to load seats", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seats retrieved successfully", toSeatResponses(seatRows), nil)
}
