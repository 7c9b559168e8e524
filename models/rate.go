package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ServiceType string

const (
	ServiceTypeImport ServiceType = "import"
	ServiceTypeExport ServiceType = "export"
)

func (s ServiceType) Valid() bool {
	return s == ServiceTypeImport || s == ServiceTypeExport
}

// ShipmentOption is a service level (e.g. "Express") with a transit-day
// window shown on quotes.
type ShipmentOption struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	MinDays     int                `bson:"min_days" json:"min_days"`
	MaxDays     int                `bson:"max_days" json:"max_days"`
	IsActive    bool               `bson:"is_active" json:"is_active"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// ShippingRate is one weight bracket on a route. City legs are optional:
// a nil city leg makes the rate country-generic for that leg. Several
// rates may cover the same (route, option, service type) partitioned by
// weight bracket and city specificity.
type ShippingRate struct {
	ID                   primitive.ObjectID  `bson:"_id" json:"_id"`
	PickupCountryID      primitive.ObjectID  `bson:"pickup_country_id" json:"pickup_country_id"`
	DestinationCountryID primitive.ObjectID  `bson:"destination_country_id" json:"destination_country_id"`
	PickupCityID         *primitive.ObjectID `bson:"pickup_city_id,omitempty" json:"pickup_city_id,omitempty"`
	DestinationCityID    *primitive.ObjectID `bson:"destination_city_id,omitempty" json:"destination_city_id,omitempty"`
	ShipmentOptionID     primitive.ObjectID  `bson:"shipment_option_id" json:"shipment_option_id"`
	ServiceType          ServiceType         `bson:"service_type" json:"service_type"`
	MinWeight            float64             `bson:"min_weight" json:"min_weight"`
	MaxWeight            float64             `bson:"max_weight" json:"max_weight"`
	BaseFee              float64             `bson:"base_fee" json:"base_fee"`
	RatePerKg            float64             `bson:"rate_per_kg" json:"rate_per_kg"`
	CreatedAt            time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt            time.Time           `bson:"updated_at" json:"updated_at"`
}

type ShipmentOptionRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	MinDays     int    `json:"min_days" validate:"gte=0"`
	MaxDays     int    `json:"max_days" validate:"gte=0"`
	IsActive    *bool  `json:"is_active"`
}

type ShipmentOptionUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	MinDays     *int    `json:"min_days"`
	MaxDays     *int    `json:"max_days"`
	IsActive    *bool   `json:"is_active"`
}

type ShippingRateRequest struct {
	PickupCountryID      string  `json:"pickup_country_id" validate:"required"`
	DestinationCountryID string  `json:"destination_country_id" validate:"required"`
	PickupCityID         string  `json:"pickup_city_id"`
	DestinationCityID    string  `json:"destination_city_id"`
	ShipmentOptionID     string  `json:"shipment_option_id" validate:"required"`
	ServiceType          string  `json:"service_type" validate:"required,oneof=import export"`
	MinWeight            float64 `json:"min_weight" validate:"gte=0"`
	MaxWeight            float64 `json:"max_weight" validate:"gtfield=MinWeight"`
	BaseFee              float64 `json:"base_fee" validate:"gte=0"`
	RatePerKg            float64 `json:"rate_per_kg" validate:"gte=0"`
}

type ShippingRateUpdateRequest struct {
	MinWeight *float64 `json:"min_weight"`
	MaxWeight *float64 `json:"max_weight"`
	BaseFee   *float64 `json:"base_fee"`
	RatePerKg *float64 `json:"rate_per_kg"`
}
