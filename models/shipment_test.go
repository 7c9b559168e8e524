package models

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionMainLine(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusPaid))
	assert.True(t, CanTransition(StatusPaid, StatusProcessing))
	assert.True(t, CanTransition(StatusProcessing, StatusPickup))
	assert.True(t, CanTransition(StatusPickup, StatusInTransit))
	assert.True(t, CanTransition(StatusInTransit, StatusDelivered))
}

func TestCanTransitionNoSkipsOrReverses(t *testing.T) {
	assert.False(t, CanTransition(StatusPending, StatusProcessing))
	assert.False(t, CanTransition(StatusPaid, StatusPending))
	assert.False(t, CanTransition(StatusPending, StatusDelivered))
}

func TestCancelledReachableFromAnyPreDeliveredState(t *testing.T) {
	for _, from := range []ShipmentStatus{StatusPending, StatusPaid, StatusProcessing, StatusPickup, StatusInTransit} {
		assert.True(t, CanTransition(from, StatusCancelled), "from %s", from)
	}
	assert.False(t, CanTransition(StatusDelivered, StatusCancelled))
}

func TestTerminalStates(t *testing.T) {
	assert.False(t, CanTransition(StatusCancelled, StatusPending))
	assert.False(t, CanTransition(StatusCancelled, StatusPaid))
	assert.False(t, CanTransition(StatusDelivered, StatusInTransit))
}

func TestStatusValid(t *testing.T) {
	assert.True(t, ShipmentStatus("pending").Valid())
	assert.True(t, ShipmentStatus("cancelled").Valid())
	assert.False(t, ShipmentStatus("lost").Valid())
}

func TestNewTrackingNumberFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^HER-[0-9A-F]{8}$`)
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		tn := NewTrackingNumber()
		assert.Regexp(t, pattern, tn)
		assert.False(t, seen[tn], "tracking numbers should not repeat")
		seen[tn] = true
	}
}
