package services

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func callbackContext(t *testing.T, query string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/payment/callback/paystack?"+query, nil)
	return c
}

func TestCallbackReference(t *testing.T) {
	assert.Equal(t, "HX123_ab1cd", CallbackReference(callbackContext(t, "reference=HX123_ab1cd")))

	// Paystack redirects carry trxref instead of reference.
	assert.Equal(t, "HX123_ab1cd", CallbackReference(callbackContext(t, "trxref=HX123_ab1cd")))

	assert.Equal(t, "HX123_ab1cd", CallbackReference(callbackContext(t, "reference=HX123_ab1cd&trxref=other")))
	assert.Equal(t, "", CallbackReference(callbackContext(t, "")))
}

func TestRedirectStatusFor(t *testing.T) {
	assert.Equal(t, "success", RedirectStatusFor(nil))
	assert.Equal(t, "duplicate", RedirectStatusFor(ErrAlreadySettled))
	assert.Equal(t, "duplicate", RedirectStatusFor(errors.Wrap(ErrAlreadySettled, "settle shipment")))
	assert.Equal(t, "error", RedirectStatusFor(errors.New("connection reset")))
}
