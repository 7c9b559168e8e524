package models

import (
	"time"

	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PackageCategory is an admin-managed label for what a package contains.
// Bookings carry the category name as free text on each package, so
// deactivating a category never touches existing shipments.
type PackageCategory struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description" json:"description"`
	IsActive    bool               `bson:"is_active" json:"is_active"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

type PackageCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

type PackageCategoryUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// NewPackageCategory builds a category from an admin request, deriving
// the slug from the name. IsActive defaults to true when unset.
func NewPackageCategory(req PackageCategoryRequest) PackageCategory {
	now := time.Now()
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return PackageCategory{
		ID:          primitive.NewObjectID(),
		Name:        req.Name,
		Slug:        slug.Make(req.Name),
		Description: req.Description,
		IsActive:    active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
