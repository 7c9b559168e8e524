package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hermexpress-io/api/models"
)

func tiers() []models.UserTier {
	return []models.UserTier{
		{Name: "Bronze", Level: 1, MinShipments: 0, IsActive: true},
		{Name: "Silver", Level: 2, MinShipments: 5, IsActive: true},
		{Name: "Gold", Level: 3, MinShipments: 20, IsActive: false},
	}
}

func TestQualifyingTierAtZeroDeliveries(t *testing.T) {
	tier, ok := QualifyingTier(tiers(), 0)
	assert.True(t, ok)
	assert.Equal(t, "Bronze", tier.Name)
}

func TestQualifyingTierUpgradeAtThreshold(t *testing.T) {
	tier, ok := QualifyingTier(tiers(), 5)
	assert.True(t, ok)
	assert.Equal(t, "Silver", tier.Name)
	assert.True(t, ShouldUpgrade(1, tier))
}

func TestNoRetriggerWhenNoHigherTierQualifies(t *testing.T) {
	// a sixth delivery still qualifies Silver only; no upgrade from Silver
	tier, ok := QualifyingTier(tiers(), 6)
	assert.True(t, ok)
	assert.Equal(t, "Silver", tier.Name)
	assert.False(t, ShouldUpgrade(2, tier))
}

func TestInactiveTierNeverQualifies(t *testing.T) {
	tier, ok := QualifyingTier(tiers(), 100)
	assert.True(t, ok)
	assert.Equal(t, "Silver", tier.Name, "inactive Gold must be skipped")
}

func TestNeverDowngrades(t *testing.T) {
	tier, _ := QualifyingTier(tiers(), 0)
	assert.False(t, ShouldUpgrade(2, tier), "Bronze must not replace Silver")
}

func TestNoActiveTiers(t *testing.T) {
	_, ok := QualifyingTier([]models.UserTier{{Level: 1, IsActive: false}}, 10)
	assert.False(t, ok)
}
