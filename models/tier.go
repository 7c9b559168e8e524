package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserTier is a loyalty level. Membership is advisory: it discounts the
// shipping fee but is not a hard account state.
type UserTier struct {
	ID                 primitive.ObjectID `bson:"_id" json:"_id"`
	Name               string             `bson:"name" json:"name"`
	Level              int                `bson:"level" json:"level"`
	MinShipments       int                `bson:"min_shipments" json:"min_shipments"`
	DiscountPercentage float64            `bson:"discount_percentage" json:"discount_percentage"`
	IsActive           bool               `bson:"is_active" json:"is_active"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updated_at"`
}

type UserTierRequest struct {
	Name               string  `json:"name" validate:"required"`
	Level              int     `json:"level" validate:"gte=1"`
	MinShipments       int     `json:"min_shipments" validate:"gte=0"`
	DiscountPercentage float64 `json:"discount_percentage" validate:"gte=0,lte=100"`
	IsActive           *bool   `json:"is_active"`
}

type SetUserTierRequest struct {
	TierID string `json:"tier_id" validate:"required"`
}
