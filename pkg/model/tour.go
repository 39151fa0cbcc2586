package model

import "time"

type Tour struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Title        string    `json:"title" bson:"title" validate:"required,min=2,max=120"`
	Description  string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=4000"`
	Location     string    `json:"location" bson:"location" validate:"required,min=2,max=120"`
	Type         string    `json:"type" bson:"type" validate:"required,oneof=adventure cultural beach wildlife pilgrimage"`
	Price        int64     `json:"price" bson:"price" validate:"required,min=1"` // per guest, whole currency units
	MaxGroupSize int       `json:"maxGroupSize,omitempty" bson:"max_group_size,omitempty" validate:"omitempty,min=1,max=200"`
	ImageURL     string    `json:"imageUrl,omitempty" bson:"image_url,omitempty" validate:"omitempty,url"`
	Rating       float64   `json:"rating,omitempty" bson:"rating,omitempty" validate:"omitempty,min=0,max=5"`
	CreatedAt    time.Time `json:"createdAt,omitempty" bson:"created_at" validate:"omitempty"`
}

type TourUpdate struct {
	Title        string   `json:"title,omitempty" validate:"omitempty,min=2,max=120"`
	Description  string   `json:"description,omitempty" validate:"omitempty,max=4000"`
	Location     string   `json:"location,omitempty" validate:"omitempty,min=2,max=120"`
	Type         string   `json:"type,omitempty" validate:"omitempty,oneof=adventure cultural beach wildlife pilgrimage"`
	Price        *int64   `json:"price,omitempty" validate:"omitempty,min=1"`
	MaxGroupSize *int     `json:"maxGroupSize,omitempty" validate:"omitempty,min=1,max=200"`
	ImageURL     string   `json:"imageUrl,omitempty" validate:"omitempty,url"`
	Rating       *float64 `json:"rating,omitempty" validate:"omitempty,min=0,max=5"`
}

// TourQuery captures the listing filters accepted by GET /api/tours.
type TourQuery struct {
	Search   string
	Type     string
	MaxPrice int64
	SortBy   string
	Page     int
	Limit    int
}
