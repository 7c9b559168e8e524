package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hermexpress-io/api/models"
)

func TestShippingFee(t *testing.T) {
	rate := models.ShippingRate{BaseFee: 5000, RatePerKg: 1200}
	assert.InDelta(t, 5000+2.5*1200, ShippingFee(rate, 2.5), 1e-9)
}

func TestApplyTierDiscount(t *testing.T) {
	tier := models.UserTier{DiscountPercentage: 10, IsActive: true}
	assert.InDelta(t, 9000.0, ApplyTierDiscount(10000, tier), 1e-9)

	inactive := models.UserTier{DiscountPercentage: 10, IsActive: false}
	assert.InDelta(t, 10000.0, ApplyTierDiscount(10000, inactive), 1e-9)

	zero := models.UserTier{IsActive: true}
	assert.InDelta(t, 10000.0, ApplyTierDiscount(10000, zero), 1e-9)
}

func TestInsuranceFeePercentageAboveMin(t *testing.T) {
	policy := models.InsurancePolicy{
		FeeType:   models.InsuranceFeePercentage,
		FeeAmount: 4,
		MinFee:    14000,
	}
	// 4% of 500000 = 20000, above the floor
	assert.InDelta(t, 20000.0, InsuranceFee(policy, 500000), 1e-9)
}

func TestInsuranceFeePercentageFlooredByMin(t *testing.T) {
	policy := models.InsurancePolicy{
		FeeType:   models.InsuranceFeePercentage,
		FeeAmount: 4,
		MinFee:    14000,
	}
	// 4% of 100000 = 4000, floored to 14000
	assert.InDelta(t, 14000.0, InsuranceFee(policy, 100000), 1e-9)
}

func TestInsuranceFeeFlatNeverFloored(t *testing.T) {
	policy := models.InsurancePolicy{
		FeeType:   models.InsuranceFeeFlat,
		FeeAmount: 3000,
		MinFee:    14000,
	}
	assert.InDelta(t, 3000.0, InsuranceFee(policy, 500000), 1e-9)
}

func TestTotalPriceRoundsHalfUp(t *testing.T) {
	assert.InDelta(t, 101.0, TotalPrice(100.5, 0), 1e-9)
	assert.InDelta(t, 100.0, TotalPrice(100.4, 0), 1e-9)
	assert.InDelta(t, 30000.0, TotalPrice(16000, 14000), 1e-9)
}

func TestDiscountAppliesToShippingOnly(t *testing.T) {
	rate := models.ShippingRate{BaseFee: 10000, RatePerKg: 0}
	tier := models.UserTier{DiscountPercentage: 50, IsActive: true}
	policy := models.InsurancePolicy{FeeType: models.InsuranceFeeFlat, FeeAmount: 2000}

	shipping := ApplyTierDiscount(ShippingFee(rate, 1), tier)
	insurance := InsuranceFee(policy, 0)

	assert.InDelta(t, 5000.0, shipping, 1e-9)
	assert.InDelta(t, 2000.0, insurance, 1e-9, "insurance fee must not be discounted")
	assert.InDelta(t, 7000.0, TotalPrice(shipping, insurance), 1e-9)
}
