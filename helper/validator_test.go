package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAndCheckPassword(t *testing.T) {
	digest, err := HashPassword("s3curepass")
	assert.NoError(t, err)
	assert.NotEqual(t, "s3curepass", digest)

	assert.NoError(t, CheckPassword(digest, "s3curepass"))
	assert.Error(t, CheckPassword(digest, "wrongpass"))
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword("short1"))
	assert.Error(t, ValidatePassword("NOLOWERCASE1"))
	assert.Error(t, ValidatePassword("nodigitshere"))
	assert.NoError(t, ValidatePassword("goodpass1"))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("sender@example.com"))
	assert.Error(t, ValidateEmail("not-an-email"))
}
