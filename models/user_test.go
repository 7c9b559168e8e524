package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strptr(s string) *string { return &s }

func TestProfileUpdateSetsOnlySentFields(t *testing.T) {
	body := UpdateProfileBody{
		FirstName: strptr("Ada"),
		Phone:     strptr("+2348012345678"),
	}

	set := body.ProfileUpdate()

	assert.Equal(t, "Ada", set["first_name"])
	assert.Equal(t, "+2348012345678", set["phone"])
	assert.NotContains(t, set, "last_name")
	assert.NotContains(t, set, "email")
	assert.NotContains(t, set, "role")
}

func TestProfileUpdateEmptyBody(t *testing.T) {
	set := UpdateProfileBody{}.ProfileUpdate()
	assert.Empty(t, set)
}
