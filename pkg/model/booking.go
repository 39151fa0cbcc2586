package model

import "time"

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Booking is the server-owned record. Its identifier and status are only
// ever assigned here; clients read them back after the fact.
type Booking struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID          string    `json:"userId" bson:"user_id" validate:"required,mongodb"`
	TourID          string    `json:"tourId,omitempty" bson:"tour_id,omitempty" validate:"omitempty,mongodb"`
	CarID           string    `json:"carId,omitempty" bson:"car_id,omitempty" validate:"omitempty,mongodb"`
	OfferID         string    `json:"offerId,omitempty" bson:"offer_id,omitempty" validate:"omitempty,mongodb"`
	Travelers       int       `json:"travelers" bson:"travelers" validate:"required,min=1,max=200"`
	Date            time.Time `json:"date" bson:"date" validate:"required"`
	PickupLocation  string    `json:"pickupLocation" bson:"pickup_location" validate:"required,min=2,max=200"`
	Phone           string    `json:"phone" bson:"phone" validate:"required,e164"`
	SpecialRequests string    `json:"specialRequests,omitempty" bson:"special_requests,omitempty" validate:"omitempty,max=2000"`
	TotalPrice      int64     `json:"totalPrice" bson:"total_price" validate:"required,min=1"`
	Status          string    `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled"`
	CreatedAt       time.Time `json:"createdAt,omitempty" bson:"created_at" validate:"omitempty"`
}

// ProductID returns whichever product reference is set on the booking.
func (b *Booking) ProductID() string {
	switch {
	case b.TourID != "":
		return b.TourID
	case b.CarID != "":
		return b.CarID
	default:
		return b.OfferID
	}
}

// BookingRequest is the create-booking wire payload shared by the booking
// flow (producer) and the bookings handler (consumer). The total price it
// carries is advisory: the server recomputes the authoritative value.
type BookingRequest struct {
	TourID          string `json:"tourId,omitempty" validate:"omitempty,mongodb"`
	CarID           string `json:"carId,omitempty" validate:"omitempty,mongodb"`
	OfferID         string `json:"offerId,omitempty" validate:"omitempty,mongodb"`
	Travelers       int    `json:"travelers" validate:"required,min=1,max=200"` // passenger/guest count, or rental days for cars
	Date            string `json:"date" validate:"required,datetime=2006-01-02"`
	PickupLocation  string `json:"pickupLocation" validate:"required,min=2,max=200"`
	Phone           string `json:"phone" validate:"required"`
	SpecialRequests string `json:"specialRequests,omitempty" validate:"omitempty,max=2000"`
	TotalPrice      int64  `json:"totalPrice" validate:"required,min=1"`
}

type BookingUpdate struct {
	Status          string `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed cancelled"`
	PickupLocation  string `json:"pickupLocation,omitempty" validate:"omitempty,min=2,max=200"`
	SpecialRequests string `json:"specialRequests,omitempty" validate:"omitempty,max=2000"`
}
