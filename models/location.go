package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Region struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// Country route feasibility is directional: CanImportFrom gates import
// pickups, CanExportTo gates export destinations. The two flags are never
// checked symmetrically.
type Country struct {
	ID            primitive.ObjectID  `bson:"_id" json:"_id"`
	Name          string              `bson:"name" json:"name"`
	Code          string              `bson:"code" json:"code"`
	CanImportFrom bool                `bson:"can_import_from" json:"can_import_from"`
	CanExportTo   bool                `bson:"can_export_to" json:"can_export_to"`
	IsActive      bool                `bson:"is_active" json:"is_active"`
	RegionID      *primitive.ObjectID `bson:"region_id,omitempty" json:"region_id,omitempty"`
	CreatedAt     time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time           `bson:"updated_at" json:"updated_at"`
}

type City struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	CountryID primitive.ObjectID `bson:"country_id" json:"country_id"`
	Name      string             `bson:"name" json:"name"`
	State     string             `bson:"state" json:"state"`
	IsActive  bool               `bson:"is_active" json:"is_active"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// CityServesRoute reports whether a city may appear on a route leg for
// the given country: it must belong to that country and be active. A
// deactivated city never participates in quoting or booking, even if
// city-specific rates still reference it.
func CityServesRoute(city City, countryID primitive.ObjectID) bool {
	return city.IsActive && city.CountryID == countryID
}

type CountryRequest struct {
	Name          string `json:"name" validate:"required"`
	Code          string `json:"code" validate:"required"`
	CanImportFrom *bool  `json:"can_import_from"`
	CanExportTo   *bool  `json:"can_export_to"`
	IsActive      *bool  `json:"is_active"`
	RegionID      string `json:"region_id"`
}

// CountryUpdateRequest carries only the fields an admin may patch. Nil
// pointers mean "leave unchanged".
type CountryUpdateRequest struct {
	Name          *string `json:"name"`
	Code          *string `json:"code"`
	CanImportFrom *bool   `json:"can_import_from"`
	CanExportTo   *bool   `json:"can_export_to"`
	IsActive      *bool   `json:"is_active"`
	RegionID      *string `json:"region_id"`
}

type CityRequest struct {
	CountryID string `json:"country_id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	State     string `json:"state"`
	IsActive  *bool  `json:"is_active"`
}

type CityUpdateRequest struct {
	Name     *string `json:"name"`
	State    *string `json:"state"`
	IsActive *bool   `json:"is_active"`
}

type RegionRequest struct {
	Name string `json:"name" validate:"required"`
}
