package pricing

import (
	"math"

	"hermexpress-io/api/models"
)

// ShippingFee prices a chargeable weight against a rate row.
func ShippingFee(rate models.ShippingRate, chargeableWeight float64) float64 {
	return rate.BaseFee + chargeableWeight*rate.RatePerKg
}

// ApplyTierDiscount discounts the shipping component by the tier's
// percentage. Inactive tiers give no discount. The insurance fee is never
// discounted.
func ApplyTierDiscount(shippingFee float64, tier models.UserTier) float64 {
	if !tier.IsActive || tier.DiscountPercentage <= 0 {
		return shippingFee
	}
	return shippingFee - shippingFee*(tier.DiscountPercentage/100)
}

// InsuranceFee computes the cover fee from the declared value. MinFee
// floors percentage fees only; a flat fee is already a fixed amount.
func InsuranceFee(policy models.InsurancePolicy, declaredValue float64) float64 {
	var fee float64
	if policy.FeeType == models.InsuranceFeeFlat {
		fee = policy.FeeAmount
	} else {
		fee = declaredValue * (policy.FeeAmount / 100)
		if policy.MinFee > 0 && fee < policy.MinFee {
			fee = policy.MinFee
		}
	}
	return fee
}

// TotalPrice rounds the fee sum half-up to the nearest whole currency
// unit. The unrounded components are stored alongside it on the shipment.
func TotalPrice(shippingFee, insuranceFee float64) float64 {
	return math.Floor(shippingFee + insuranceFee + 0.5)
}
