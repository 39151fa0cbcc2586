// Package pricing derives booking totals from a product's unit price and
// its quantity dimension. Totals are deterministic: they are never taken
// from user input, only recomputed from these rules. The three product
// lines intentionally carry different service-fee rates.
package pricing

import (
	"math"
	"time"
)

const (
	// OfferFeeRate is the service-fee surcharge on promotional offers.
	OfferFeeRate = 0.08
	// CarFeeRate is the service-fee surcharge on car rentals.
	CarFeeRate = 0.10
	// Tours carry no service fee.
)

// TourTotal returns unit price times passenger count.
func TourTotal(unitPrice int64, passengers int) int64 {
	if passengers < 1 {
		return 0
	}
	return unitPrice * int64(passengers)
}

// OfferTotal returns the guest-count base plus the rounded 8% service fee.
func OfferTotal(unitPrice int64, guests int) int64 {
	if guests < 1 {
		return 0
	}
	base := unitPrice * int64(guests)
	return base + fee(base, OfferFeeRate)
}

// CarTotalForDays returns the day-count base plus the rounded 10% service fee.
func CarTotalForDays(unitPrice int64, days int) int64 {
	if days < 1 {
		return 0
	}
	base := unitPrice * int64(days)
	return base + fee(base, CarFeeRate)
}

// CarTotal derives the rental day count from the pickup/drop-off pair and
// prices it. Partial days round up.
func CarTotal(unitPrice int64, pickup, dropoff time.Time) int64 {
	return CarTotalForDays(unitPrice, RentalDays(pickup, dropoff))
}

// RentalDays is ceil((dropoff − pickup) / 24h). It returns 0 unless the
// drop-off is strictly after the pickup.
func RentalDays(pickup, dropoff time.Time) int {
	if !dropoff.After(pickup) {
		return 0
	}
	return int(math.Ceil(dropoff.Sub(pickup).Hours() / 24))
}

// fee rounds to the nearest whole currency unit, halves away from zero.
func fee(base int64, rate float64) int64 {
	return int64(math.Round(float64(base) * rate))
}
