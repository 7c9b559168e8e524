package services

import (
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// ErrAlreadySettled marks a settlement race that lost: another callback
// moved the shipment out of pending first. It is a duplicate, not a
// failure.
var ErrAlreadySettled = errors.New("shipment already settled")

// CallbackReference reads the transaction reference off a gateway
// redirect. Paystack sends it as trxref while our own callback_url
// carries reference; either names the same transaction.
func CallbackReference(c *gin.Context) string {
	if ref := c.Query("reference"); ref != "" {
		return ref
	}
	return c.Query("trxref")
}

// RedirectStatusFor maps a settlement outcome to the status the frontend
// payment page expects. Losing the settlement race is "duplicate"; any
// other failure is a real "error".
func RedirectStatusFor(err error) string {
	if err == nil {
		return "success"
	}
	if errors.Cause(err) == ErrAlreadySettled {
		return "duplicate"
	}
	return "error"
}
