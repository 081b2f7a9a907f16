package bookings

import (
	"errors"
	"net/http"

	"concertly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Controller interface {
	AttemptBooking(c *gin.Context)
	CancelBooking(c *gin.Context)
	GetBooking(c *gin.Context)
	GetUserBookings(c *gin.Context)
}

type controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) Controller {
	return &controller{
		service:   service,
		validator: validator.New(),
	}
}

// AttemptBooking handles POST /bookings. Unknown concert, bad date and
// empty seat lists are caller errors (400); losing the race for a seat
// is a 403 with the contested labels.
func (ctrl *controller) AttemptBooking(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}

	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	booking, err := ctrl.service.AttemptBooking(c.Request.Context(), req, ownerID)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownConcert),
			errors.Is(err, ErrInvalidDate),
			errors.Is(err, ErrEmptyRequest):
			response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		case errors.Is(err, ErrSeatsUnavailable):
			response.RespondJSON(c, "error", http.StatusForbidden, err.Error(), nil, nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to create booking", nil, nil)
		}
		return
	}

	c.Header("Location", "/api/v1/bookings/"+booking.ID.String())
	response.RespondJSON(c, "success", http.StatusCreated, "Booking created successfully", booking, nil)
}

func (ctrl *controller) CancelBooking(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	if err := ctrl.service.CancelBooking(c.Request.Context(), bookingID, ownerID); err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Booking not found", nil, nil)
		case errors.Is(err, ErrNotOwner):
			response.RespondJSON(c, "error", http.StatusForbidden, "Booking belongs to another user", nil, nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to cancel booking", nil, nil)
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking cancelled successfully", nil, nil)
}

func (ctrl *controller) GetBooking(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	booking, err := ctrl.service.GetBooking(c.Request.Context(), bookingID, ownerID)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Booking not found", nil, nil)
		case errors.Is(err, ErrNotOwner):
			response.RespondJSON(c, "error", http.StatusForbidden, "Booking belongs to another user", nil, nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to get booking", nil, nil)
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

func (ctrl *controller) GetUserBookings(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}

	list, err := ctrl.service.GetUserBookings(c.Request.Context(), ownerID)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to list bookings", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Bookings retrieved successfully", list, nil)
}

// ownerFromContext resolves the authenticated user set by the JWT
// middleware; it writes the error response itself on failure
func ownerFromContext(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return uuid.Nil, false
	}

	str, ok := raw.(string)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Invalid user identity", nil, nil)
		return uuid.Nil, false
	}

	ownerID, err := uuid.Parse(str)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Invalid user identity", nil, nil)
		return uuid.Nil, false
	}

	return ownerID, true
}
