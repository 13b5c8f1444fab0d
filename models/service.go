package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProviderSnapshot is the creator's identity captured when a listing is created.
// It is never refreshed afterwards.
type ProviderSnapshot struct {
	UID   string `bson:"uid,omitempty" json:"uid,omitempty"`
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Image string `bson:"image" json:"image"`
}

// Service is a repair service listing owned by its provider.
type Service struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Area        string             `bson:"area" json:"area"`
	Price       float64            `bson:"price" json:"price"`
	ImageURL    string             `bson:"imageUrl" json:"imageUrl"`
	Provider    ProviderSnapshot   `bson:"provider" json:"provider"`
	CreatedAt   time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitzero"`
	UpdatedAt   time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitzero"`
}

// ServiceInput is the client-supplied part of a listing. Any provider block sent by
// the client is ignored.
type ServiceInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Area        string  `json:"area" binding:"required"`
	Price       float64 `json:"price" binding:"gte=0"`
	ImageURL    string  `json:"imageUrl"`
}

// ServiceUpdate carries a partial listing update. Nil fields are left untouched.
type ServiceUpdate struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Area        *string  `json:"area"`
	Price       *float64 `json:"price"`
	ImageURL    *string  `json:"imageUrl"`
}

// IsEmpty reports whether the update touches no field.
func (u ServiceUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.Area == nil && u.Price == nil && u.ImageURL == nil
}

// ServiceQuery filters and orders the public catalog.
type ServiceQuery struct {
	Search string `form:"search"`
	Sort   string `form:"sort"`
}

// Catalog sort orders.
const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNewest    = "newest"
)
