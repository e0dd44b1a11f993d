package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/ownstays/settlement-service/internal/dtos"
	"github.com/ownstays/settlement-service/internal/models"
	"github.com/ownstays/settlement-service/internal/services"
	"github.com/ownstays/settlement-service/internal/utils"
)

type BookingController struct {
	bookingService *services.BookingService
	validate       *validator.Validate
}

func NewBookingController(bookingService *services.BookingService) *BookingController {
	return &BookingController{
		bookingService: bookingService,
		validate:       validator.New(),
	}
}

// CreateBookingHandler -> POST /api/v1/bookings
func (c *BookingController) CreateBookingHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON body", nil, err)
		return
	}
	if err := c.validate.Struct(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Request failed validation", nil, err)
		return
	}

	booking, err := c.bookingService.CreateBooking(r.Context(), &req)
	if err != nil {
		respondBookingError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.BookingResponse{Booking: booking})
}

// ListBookingsHandler -> GET /api/v1/collections/{id}/bookings
func (c *BookingController) ListBookingsHandler(w http.ResponseWriter, r *http.Request) {
	collectionID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	bookings, err := c.bookingService.ListBookings(r.Context(), collectionID)
	if err != nil {
		respondBookingError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.BookingListResponse{Bookings: bookings})
}

// GetBookingHandler -> GET /api/v1/bookings/{id}
func (c *BookingController) GetBookingHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	booking, err := c.bookingService.GetBooking(r.Context(), id)
	if err != nil {
		respondBookingError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.BookingResponse{Booking: booking})
}

// ConfirmBookingHandler -> POST /api/v1/admin/bookings/{id}/confirm
func (c *BookingController) ConfirmBookingHandler(w http.ResponseWriter, r *http.Request) {
	c.transitionHandler(w, r, c.bookingService.Confirm)
}

// CompleteBookingHandler -> POST /api/v1/admin/bookings/{id}/complete
func (c *BookingController) CompleteBookingHandler(w http.ResponseWriter, r *http.Request) {
	c.transitionHandler(w, r, c.bookingService.Complete)
}

// CancelBookingHandler -> POST /api/v1/admin/bookings/{id}/cancel
func (c *BookingController) CancelBookingHandler(w http.ResponseWriter, r *http.Request) {
	c.transitionHandler(w, r, c.bookingService.Cancel)
}

func (c *BookingController) transitionHandler(
	w http.ResponseWriter,
	r *http.Request,
	transition func(ctx context.Context, id uuid.UUID) (*models.Booking, error),
) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	booking, err := transition(r.Context(), id)
	if err != nil {
		respondBookingError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.BookingResponse{Booking: booking})
}

func respondBookingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, utils.ErrBookingNotFound):
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeBookingNotFound, "Booking not found", nil)
	case errors.Is(err, utils.ErrCollectionNotFound):
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeCollectionNotFound, "Collection not found", nil)
	case errors.Is(err, utils.ErrInvalidBookingTransition):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeInvalidBookingTransition, "Booking cannot move to that status", nil)
	default:
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Booking operation failed", nil, err)
	}
}
