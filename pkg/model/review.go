package model

import "time"

type Review struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	TourID    string    `json:"tourId" bson:"tour_id" validate:"required,mongodb"`
	UserID    string    `json:"userId,omitempty" bson:"user_id,omitempty" validate:"omitempty,mongodb"`
	Author    string    `json:"author" bson:"author" validate:"required,min=2,max=120"`
	Rating    int       `json:"rating" bson:"rating" validate:"required,min=1,max=5"`
	Comment   string    `json:"comment,omitempty" bson:"comment,omitempty" validate:"omitempty,max=2000"`
	CreatedAt time.Time `json:"createdAt,omitempty" bson:"created_at" validate:"omitempty"`
}
