package booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/homerportes/RealStateRD/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(authed *gin.RouterGroup) {
	bookingGroup := authed.Group("/bookings")
	{
		bookingGroup.GET("/available-slots", h.GetAvailableSlots)
		bookingGroup.POST("", h.CreateBooking)
		bookingGroup.GET("/my-bookings", h.GetMyBookings)
		bookingGroup.GET("/dashboard", h.GetDashboard)
		bookingGroup.DELETE("/:id", h.CancelBooking)
	}
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.GET("/bookings/all", h.GetAllBookings)
}

func (h *Handler) GetAvailableSlots(c *gin.Context) {
	slots, err := h.service.GetAvailableSlots(c.Request.Context(),
		c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		if errors.Is(err, ErrInvalidRange) {
			response.Error(c, http.StatusBadRequest, "INVALID_RANGE", "Invalid date range")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load available slots")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"slots": slots})
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	userID := c.GetInt64("user_id")
	b, err := h.service.CreateBooking(c.Request.Context(), userID, req.TimeSlotID)
	if err != nil {
		switch {
		case errors.Is(err, ErrSlotNotFound):
			response.Error(c, http.StatusNotFound, "SLOT_NOT_FOUND", "Time slot not found")
		case errors.Is(err, ErrSlotInPast):
			response.Error(c, http.StatusConflict, "SLOT_IN_PAST", "Time slot has already started")
		case errors.Is(err, ErrSlotFull):
			response.Error(c, http.StatusConflict, "SLOT_FULL", "Time slot has no available capacity")
		case errors.Is(err, ErrAlreadyBookedSameDay):
			response.Error(c, http.StatusConflict, "ALREADY_BOOKED", "You already have a confirmed booking on that date")
		case errors.Is(err, ErrConcurrency):
			response.Error(c, http.StatusServiceUnavailable, "BOOKING_CONTENTION", "Slot is being booked by someone else, please retry")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create booking")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) CancelBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking id")
		return
	}

	userID := c.GetInt64("user_id")
	if err := h.service.CancelBooking(c.Request.Context(), id, userID); err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.Error(c, http.StatusNotFound, "BOOKING_NOT_FOUND", "Booking not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You can only cancel your own bookings")
		case errors.Is(err, ErrNotConfirmed):
			response.Error(c, http.StatusConflict, "NOT_CONFIRMED", "Only confirmed bookings can be cancelled")
		case errors.Is(err, ErrCancelTooLate):
			response.Error(c, http.StatusConflict, "CANCEL_TOO_LATE", "Bookings can only be cancelled at least one hour before start")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to cancel booking")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Booking cancelled"})
}

func (h *Handler) GetMyBookings(c *gin.Context) {
	userID := c.GetInt64("user_id")
	bookings, err := h.service.GetMyBookings(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load bookings")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

func (h *Handler) GetAllBookings(c *gin.Context) {
	bookings, err := h.service.GetAllBookings(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load bookings")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

func (h *Handler) GetDashboard(c *gin.Context) {
	userID := c.GetInt64("user_id")
	dash, err := h.service.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load dashboard")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"dashboard": dash})
}
