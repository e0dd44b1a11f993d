package dtos

import (
	"time"

	"github.com/ownstays/settlement-service/internal/models"
)

type CreateBookingRequest struct {
	CollectionID string    `json:"collection_id" validate:"required,uuid4"`
	GuestName    string    `json:"guest_name" validate:"required"`
	GuestEmail   string    `json:"guest_email" validate:"required,email"`
	CheckIn      time.Time `json:"check_in" validate:"required"`
	CheckOut     time.Time `json:"check_out" validate:"required,gtfield=CheckIn"`
	Guests       int       `json:"guests" validate:"required,gt=0"`
	TotalCents   int64     `json:"total_cents" validate:"required,gt=0"`
	Currency     string    `json:"currency" validate:"required,len=3"`
}

type BookingResponse struct {
	Booking *models.Booking `json:"booking"`
}

type BookingListResponse struct {
	Bookings []*models.Booking `json:"bookings"`
}
