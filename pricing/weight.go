// Package pricing holds the pure quoting math: chargeable weight, rate
// selection and fee computation. Nothing in here touches the database;
// controllers feed it catalog rows and persist what it returns.
package pricing

import "hermexpress-io/api/models"

// VolumetricDivisor is the standard freight divisor for cm dimensions.
const VolumetricDivisor = 5000.0

// VolumetricWeight converts dimensions in cm to kilograms.
func VolumetricWeight(length, width, height float64) float64 {
	return (length * width * height) / VolumetricDivisor
}

// PackageTotals reduces a package list to its actual weight, volumetric
// weight and declared value sums. Volumetric weight is only accumulated
// for packages carrying all three dimensions. Quantity defaults to 1.
func PackageTotals(packages []models.ShipmentPackage) (actual, volumetric, value float64) {
	for _, pkg := range packages {
		qty := float64(pkg.Quantity)
		if qty <= 0 {
			qty = 1
		}
		if pkg.Length > 0 && pkg.Width > 0 && pkg.Height > 0 {
			volumetric += VolumetricWeight(pkg.Length, pkg.Width, pkg.Height) * qty
		}
		actual += pkg.Weight * qty
		value += pkg.Value * qty
	}
	return actual, volumetric, value
}

// ChargeableWeight is the greater of actual and volumetric weight.
func ChargeableWeight(actual, volumetric float64) float64 {
	if volumetric > actual {
		return volumetric
	}
	return actual
}

// QuoteWeight picks the weight a quote is priced on. A volumetric-only
// request prices purely on dimensions, for callers who have not weighed
// the package yet; otherwise the usual greater-of rule applies.
func QuoteWeight(actual, volumetric float64, volumetricOnly bool) float64 {
	if volumetricOnly {
		return volumetric
	}
	return ChargeableWeight(actual, volumetric)
}
