package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

type User struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name         string    `json:"name" bson:"name" validate:"required,min=2,max=120"`
	Email        string    `json:"email" bson:"email" validate:"required,email"`
	Phone        string    `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
	PasswordHash string    `json:"-" bson:"password_hash,omitempty"`
	Role         string    `json:"role" bson:"role" validate:"required,oneof=user admin"`
	Provider     string    `json:"provider,omitempty" bson:"provider" validate:"omitempty,oneof=local google"`
	CreatedAt    time.Time `json:"createdAt,omitempty" bson:"created_at" validate:"omitempty"`
}
