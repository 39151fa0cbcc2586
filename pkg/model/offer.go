package model

import "time"

type Offer struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Title         string    `json:"title" bson:"title" validate:"required,min=2,max=120"`
	Description   string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=4000"`
	OfferPrice    int64     `json:"offerPrice" bson:"offer_price" validate:"required,min=1"` // per guest
	OriginalPrice int64     `json:"originalPrice,omitempty" bson:"original_price,omitempty" validate:"omitempty,gtfield=OfferPrice"`
	ImageURL      string    `json:"imageUrl,omitempty" bson:"image_url,omitempty" validate:"omitempty,url"`
	ExpiresAt     time.Time `json:"expiresAt,omitempty" bson:"expires_at,omitempty" validate:"omitempty"`
	CreatedAt     time.Time `json:"createdAt,omitempty" bson:"created_at" validate:"omitempty"`
}

type OfferUpdate struct {
	Title         string     `json:"title,omitempty" validate:"omitempty,min=2,max=120"`
	Description   string     `json:"description,omitempty" validate:"omitempty,max=4000"`
	OfferPrice    *int64     `json:"offerPrice,omitempty" validate:"omitempty,min=1"`
	OriginalPrice *int64     `json:"originalPrice,omitempty" validate:"omitempty,min=1"`
	ImageURL      string     `json:"imageUrl,omitempty" validate:"omitempty,url"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
}

// OfferQuery captures the listing filters accepted by GET /api/offers.
type OfferQuery struct {
	Search string
	Page   int
	Limit  int
}
