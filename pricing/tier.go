package pricing

import "hermexpress-io/api/models"

// QualifyingTier returns the highest-level active tier whose MinShipments
// threshold the delivered count meets.
func QualifyingTier(tiers []models.UserTier, deliveredCount int) (models.UserTier, bool) {
	var best models.UserTier
	found := false
	for _, t := range tiers {
		if !t.IsActive || deliveredCount < t.MinShipments {
			continue
		}
		if !found || t.Level > best.Level {
			best = t
			found = true
		}
	}
	return best, found
}

// ShouldUpgrade reports whether a user on currentLevel should move to the
// qualifying tier. Upgrades only; a qualifying tier at or below the
// current level leaves the user untouched.
func ShouldUpgrade(currentLevel int, qualifying models.UserTier) bool {
	return qualifying.Level > currentLevel
}
