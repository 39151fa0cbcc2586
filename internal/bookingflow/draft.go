package bookingflow

import (
	"strings"
	"time"

	"travelbook/internal/pricing"
	"travelbook/pkg/model"
	"travelbook/pkg/session"
)

const dateLayout = "2006-01-02"

// Draft is the tagged union of the per-product booking forms. Each variant
// carries only the fields that exist for its product, validates itself, and
// derives its own total price.
type Draft interface {
	// CanSubmit reports whether every required field holds after trimming.
	// It deliberately knows nothing about authentication.
	CanSubmit() bool
	// Total derives the price from the product's unit price and the
	// quantity dimension. Never taken from user input.
	Total() int64
	// Request builds the create-booking payload with the derived total.
	Request() model.BookingRequest
}

// TourDefaults are caller-supplied prefills when a tour form opens.
type TourDefaults struct {
	Date       string
	Passengers int
}

type TourDraft struct {
	Tour           model.Tour
	FullName       string
	Phone          string
	Passengers     int
	Date           string
	PickupLocation string
	Message        string
}

// NewTourDraft opens a fresh draft, prefilled from the session user's
// profile and the caller's defaults.
func NewTourDraft(tour model.Tour, user *session.User, d TourDefaults) *TourDraft {
	draft := &TourDraft{
		Tour:       tour,
		Passengers: 1,
		Date:       d.Date,
	}
	if d.Passengers > 0 {
		draft.Passengers = d.Passengers
	}
	if user != nil {
		draft.FullName = user.Name
		draft.Phone = user.Phone
	}
	return draft
}

// SetPassengers mirrors the form's numeric input: clearing the field is
// held as 0 so the total computes, while submission stays blocked.
func (d *TourDraft) SetPassengers(n int) {
	if n <= 0 {
		d.Passengers = 0
		return
	}
	d.Passengers = n
}

func (d *TourDraft) CanSubmit() bool {
	if strings.TrimSpace(d.FullName) == "" ||
		strings.TrimSpace(d.Phone) == "" ||
		strings.TrimSpace(d.PickupLocation) == "" {
		return false
	}
	if d.Passengers < 1 {
		return false
	}
	date, err := time.Parse(dateLayout, d.Date)
	if err != nil {
		return false
	}
	today, _ := time.Parse(dateLayout, time.Now().Format(dateLayout))
	return !date.Before(today)
}

func (d *TourDraft) Total() int64 {
	return pricing.TourTotal(d.Tour.Price, d.Passengers)
}

func (d *TourDraft) Request() model.BookingRequest {
	return model.BookingRequest{
		TourID:          d.Tour.ID,
		Travelers:       d.Passengers,
		Date:            d.Date,
		PickupLocation:  strings.TrimSpace(d.PickupLocation),
		Phone:           strings.TrimSpace(d.Phone),
		SpecialRequests: strings.TrimSpace(d.Message),
		TotalPrice:      d.Total(),
	}
}

// CarDefaults are caller-supplied prefills when a rental form opens.
type CarDefaults struct {
	PickupLocation string
	PickupDate     string
	DropoffDate    string
}

type CarDraft struct {
	Car            model.Car
	FullName       string
	Phone          string
	PickupLocation string
	PickupDate     string
	DropoffDate    string
	Notes          string
}

func NewCarDraft(car model.Car, user *session.User, d CarDefaults) *CarDraft {
	draft := &CarDraft{
		Car:            car,
		PickupLocation: d.PickupLocation,
		PickupDate:     d.PickupDate,
		DropoffDate:    d.DropoffDate,
	}
	if user != nil {
		draft.FullName = user.Name
		draft.Phone = user.Phone
	}
	return draft
}

// Days derives the rental length from the date pair; 0 while the pair is
// incomplete or inverted.
func (d *CarDraft) Days() int {
	pickup, err := time.Parse(dateLayout, d.PickupDate)
	if err != nil {
		return 0
	}
	dropoff, err := time.Parse(dateLayout, d.DropoffDate)
	if err != nil {
		return 0
	}
	return pricing.RentalDays(pickup, dropoff)
}

func (d *CarDraft) CanSubmit() bool {
	if strings.TrimSpace(d.FullName) == "" ||
		strings.TrimSpace(d.Phone) == "" ||
		strings.TrimSpace(d.PickupLocation) == "" {
		return false
	}
	// Days() is positive only when both dates parse and the drop-off is
	// strictly after the pickup.
	return d.Days() >= 1
}

func (d *CarDraft) Total() int64 {
	return pricing.CarTotalForDays(d.Car.Price, d.Days())
}

func (d *CarDraft) Request() model.BookingRequest {
	return model.BookingRequest{
		CarID:           d.Car.ID,
		Travelers:       d.Days(),
		Date:            d.PickupDate,
		PickupLocation:  strings.TrimSpace(d.PickupLocation),
		Phone:           strings.TrimSpace(d.Phone),
		SpecialRequests: strings.TrimSpace(d.Notes),
		TotalPrice:      d.Total(),
	}
}

// OfferDefaults are caller-supplied prefills when an offer form opens.
type OfferDefaults struct {
	Date   string
	Guests int
}

type OfferDraft struct {
	Offer           model.Offer
	FullName        string
	Phone           string
	PickupLocation  string
	Date            string
	Guests          int
	SpecialRequests string
}

func NewOfferDraft(offer model.Offer, user *session.User, d OfferDefaults) *OfferDraft {
	draft := &OfferDraft{
		Offer:  offer,
		Guests: 1,
		Date:   d.Date,
	}
	if d.Guests > 0 {
		draft.Guests = d.Guests
	}
	if user != nil {
		draft.FullName = user.Name
		draft.Phone = user.Phone
	}
	return draft
}

// SetGuests mirrors the form's numeric input: clearing the field is held
// as 0 so the total computes, while submission stays blocked.
func (d *OfferDraft) SetGuests(n int) {
	if n <= 0 {
		d.Guests = 0
		return
	}
	d.Guests = n
}

func (d *OfferDraft) CanSubmit() bool {
	if strings.TrimSpace(d.FullName) == "" ||
		strings.TrimSpace(d.Phone) == "" ||
		strings.TrimSpace(d.PickupLocation) == "" {
		return false
	}
	if d.Guests < 1 {
		return false
	}
	_, err := time.Parse(dateLayout, d.Date)
	return err == nil
}

func (d *OfferDraft) Total() int64 {
	return pricing.OfferTotal(d.Offer.OfferPrice, d.Guests)
}

func (d *OfferDraft) Request() model.BookingRequest {
	return model.BookingRequest{
		OfferID:         d.Offer.ID,
		Travelers:       d.Guests,
		Date:            d.Date,
		PickupLocation:  strings.TrimSpace(d.PickupLocation),
		Phone:           strings.TrimSpace(d.Phone),
		SpecialRequests: strings.TrimSpace(d.SpecialRequests),
		TotalPrice:      d.Total(),
	}
}
