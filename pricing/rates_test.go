package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hermexpress-io/api/models"
)

func objID(hex byte) primitive.ObjectID {
	var id primitive.ObjectID
	for i := range id {
		id[i] = hex
	}
	return id
}

func TestBestRatePrefersCitySpecific(t *testing.T) {
	city := objID(0x01)
	generic := models.ShippingRate{ID: objID(0x02), BaseFee: 10000}
	citySpecific := models.ShippingRate{ID: objID(0x03), PickupCityID: &city, BaseFee: 50000}

	best, ok := BestRate([]models.ShippingRate{generic, citySpecific})
	assert.True(t, ok)
	assert.Equal(t, citySpecific.ID, best.ID)
	assert.InDelta(t, 50000.0, best.BaseFee, 1e-9)
}

func TestBestRateTwoCityLegsBeatOne(t *testing.T) {
	pickup, dest := objID(0x01), objID(0x02)
	oneLeg := models.ShippingRate{ID: objID(0x03), PickupCityID: &pickup}
	twoLegs := models.ShippingRate{ID: objID(0x04), PickupCityID: &pickup, DestinationCityID: &dest}

	best, ok := BestRate([]models.ShippingRate{oneLeg, twoLegs})
	assert.True(t, ok)
	assert.Equal(t, twoLegs.ID, best.ID)
}

func TestBestRateTieBreaksOnLowestID(t *testing.T) {
	a := models.ShippingRate{ID: objID(0x01)}
	b := models.ShippingRate{ID: objID(0x02)}

	best, ok := BestRate([]models.ShippingRate{b, a})
	assert.True(t, ok)
	assert.Equal(t, a.ID, best.ID)

	// order of candidates must not matter
	best, _ = BestRate([]models.ShippingRate{a, b})
	assert.Equal(t, a.ID, best.ID)
}

func TestBestRateEmpty(t *testing.T) {
	_, ok := BestRate(nil)
	assert.False(t, ok)
}

func TestBestRatePerOptionOnePerOption(t *testing.T) {
	city := objID(0x0a)
	optExpress, optStandard := objID(0x01), objID(0x02)

	candidates := []models.ShippingRate{
		{ID: objID(0x03), ShipmentOptionID: optExpress, BaseFee: 100},
		{ID: objID(0x04), ShipmentOptionID: optExpress, PickupCityID: &city, BaseFee: 200},
		{ID: objID(0x05), ShipmentOptionID: optStandard, BaseFee: 50},
	}

	best := BestRatePerOption(candidates)
	assert.Len(t, best, 2)
	assert.Equal(t, optExpress, best[0].ShipmentOptionID)
	assert.InDelta(t, 200.0, best[0].BaseFee, 1e-9, "city-specific rate must win within its option")
	assert.Equal(t, optStandard, best[1].ShipmentOptionID)
}

func TestMatchesWeightInclusiveBounds(t *testing.T) {
	rate := models.ShippingRate{MinWeight: 1, MaxWeight: 5}
	assert.True(t, MatchesWeight(rate, 1))
	assert.True(t, MatchesWeight(rate, 5))
	assert.False(t, MatchesWeight(rate, 0.99))
	assert.False(t, MatchesWeight(rate, 5.01))
}
