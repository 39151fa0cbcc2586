package model

import "time"

type Car struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name         string    `json:"name" bson:"name" validate:"required,min=2,max=120"`
	Brand        string    `json:"brand,omitempty" bson:"brand,omitempty" validate:"omitempty,max=60"`
	CarType      string    `json:"carType" bson:"car_type" validate:"required,oneof=hatchback sedan suv van luxury"`
	EngineType   string    `json:"engineType" bson:"engine_type" validate:"required,oneof=petrol diesel electric hybrid"`
	SeatCapacity int       `json:"seatCapacity" bson:"seat_capacity" validate:"required,min=2,max=20"`
	Price        int64     `json:"price" bson:"price" validate:"required,min=1"` // per rental day
	Available    bool      `json:"available" bson:"available"`
	ImageURL     string    `json:"imageUrl,omitempty" bson:"image_url,omitempty" validate:"omitempty,url"`
	CreatedAt    time.Time `json:"createdAt,omitempty" bson:"created_at" validate:"omitempty"`
}

type CarUpdate struct {
	Name         string `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Brand        string `json:"brand,omitempty" validate:"omitempty,max=60"`
	CarType      string `json:"carType,omitempty" validate:"omitempty,oneof=hatchback sedan suv van luxury"`
	EngineType   string `json:"engineType,omitempty" validate:"omitempty,oneof=petrol diesel electric hybrid"`
	SeatCapacity *int   `json:"seatCapacity,omitempty" validate:"omitempty,min=2,max=20"`
	Price        *int64 `json:"price,omitempty" validate:"omitempty,min=1"`
	Available    *bool  `json:"available,omitempty"`
	ImageURL     string `json:"imageUrl,omitempty" validate:"omitempty,url"`
}

// CarQuery captures the listing filters accepted by GET /api/cars.
type CarQuery struct {
	CarType      string
	EngineType   string
	SeatCapacity int
	Page         int
	Limit        int
}
