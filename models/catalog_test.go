package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPackageCategoryDefaults(t *testing.T) {
	category := NewPackageCategory(PackageCategoryRequest{
		Name:        "Electronics & Gadgets",
		Description: "Phones, laptops and accessories",
	})

	assert.False(t, category.ID.IsZero())
	assert.Equal(t, "Electronics & Gadgets", category.Name)
	assert.Equal(t, "electronics-gadgets", category.Slug)
	assert.True(t, category.IsActive)
	assert.Equal(t, category.CreatedAt, category.UpdatedAt)
}

func TestNewPackageCategoryInactive(t *testing.T) {
	inactive := false
	category := NewPackageCategory(PackageCategoryRequest{
		Name:     "Perishables",
		IsActive: &inactive,
	})

	assert.False(t, category.IsActive)
	assert.Equal(t, "perishables", category.Slug)
}
