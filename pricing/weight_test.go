package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hermexpress-io/api/models"
)

func TestVolumetricWeight(t *testing.T) {
	assert.InDelta(t, 2.0, VolumetricWeight(50, 20, 10), 1e-9)
	assert.InDelta(t, 0.2, VolumetricWeight(10, 10, 10), 1e-9)
}

func TestPackageTotalsVolumetricBeatsActual(t *testing.T) {
	pkgs := []models.ShipmentPackage{
		{Weight: 1, Length: 50, Width: 20, Height: 10, Quantity: 1},
	}
	actual, volumetric, _ := PackageTotals(pkgs)
	assert.InDelta(t, 1.0, actual, 1e-9)
	assert.InDelta(t, 2.0, volumetric, 1e-9)
	assert.InDelta(t, 2.0, ChargeableWeight(actual, volumetric), 1e-9)
}

func TestPackageTotalsSkipsVolumetricWithoutAllDimensions(t *testing.T) {
	pkgs := []models.ShipmentPackage{
		{Weight: 3, Length: 100, Width: 100, Quantity: 2},
	}
	actual, volumetric, _ := PackageTotals(pkgs)
	assert.InDelta(t, 6.0, actual, 1e-9)
	assert.Zero(t, volumetric)
	assert.InDelta(t, 6.0, ChargeableWeight(actual, volumetric), 1e-9)
}

func TestQuoteWeightVolumetricOnly(t *testing.T) {
	// A volumetric-only request prices on dimensions even when the
	// actual weight is heavier.
	assert.InDelta(t, 2.0, QuoteWeight(5, 2, true), 1e-9)
	assert.InDelta(t, 5.0, QuoteWeight(5, 2, false), 1e-9)
	assert.InDelta(t, 7.0, QuoteWeight(3, 7, false), 1e-9)

	// Dimensionless volumetric-only requests fall through to the
	// weight-or-dimensions guard.
	assert.Zero(t, QuoteWeight(5, 0, true))
}

func TestPackageTotalsQuantityDefaultsToOne(t *testing.T) {
	pkgs := []models.ShipmentPackage{
		{Weight: 2.5, Value: 1000},
	}
	actual, _, value := PackageTotals(pkgs)
	assert.InDelta(t, 2.5, actual, 1e-9)
	assert.InDelta(t, 1000.0, value, 1e-9)
}

func TestPackageTotalsAccumulatesAcrossPackages(t *testing.T) {
	pkgs := []models.ShipmentPackage{
		{Weight: 1, Length: 50, Width: 20, Height: 10, Quantity: 2, Value: 500},
		{Weight: 4, Quantity: 1, Value: 200},
	}
	actual, volumetric, value := PackageTotals(pkgs)
	assert.InDelta(t, 6.0, actual, 1e-9)
	assert.InDelta(t, 4.0, volumetric, 1e-9)
	assert.InDelta(t, 1200.0, value, 1e-9)
	// actual still wins here
	assert.InDelta(t, 6.0, ChargeableWeight(actual, volumetric), 1e-9)
}
