package pricing

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hermexpress-io/api/models"
)

// Specificity counts the non-nil city legs on a rate. A rate naming both
// cities beats one naming one, which beats a country-generic rate.
func Specificity(rate models.ShippingRate) int {
	n := 0
	if rate.PickupCityID != nil {
		n++
	}
	if rate.DestinationCityID != nil {
		n++
	}
	return n
}

// preferred reports whether a should be selected over b. Higher
// specificity wins; ties fall to the lower ObjectID so selection is
// deterministic for identical catalogs.
func preferred(a, b models.ShippingRate) bool {
	sa, sb := Specificity(a), Specificity(b)
	if sa != sb {
		return sa > sb
	}
	return a.ID.Hex() < b.ID.Hex()
}

// BestRate picks the single winning rate from candidates that already
// satisfy the route/service/weight predicate. Returns false when no
// candidate exists; callers must surface that, never substitute a
// default.
func BestRate(candidates []models.ShippingRate) (models.ShippingRate, bool) {
	if len(candidates) == 0 {
		return models.ShippingRate{}, false
	}
	best := candidates[0]
	for _, r := range candidates[1:] {
		if preferred(r, best) {
			best = r
		}
	}
	return best, true
}

// BestRatePerOption applies the BestRate tie-break independently per
// shipment option, returning at most one rate per option. Order follows
// first appearance of each option in candidates, so a sorted fetch stays
// sorted.
func BestRatePerOption(candidates []models.ShippingRate) []models.ShippingRate {
	byOption := make(map[primitive.ObjectID]models.ShippingRate)
	var order []primitive.ObjectID
	for _, r := range candidates {
		cur, seen := byOption[r.ShipmentOptionID]
		if !seen {
			byOption[r.ShipmentOptionID] = r
			order = append(order, r.ShipmentOptionID)
			continue
		}
		if preferred(r, cur) {
			byOption[r.ShipmentOptionID] = r
		}
	}

	out := make([]models.ShippingRate, 0, len(order))
	for _, id := range order {
		out = append(out, byOption[id])
	}
	return out
}

// MatchesWeight reports whether w falls inside the rate's bracket,
// inclusive on both ends.
func MatchesWeight(rate models.ShippingRate, w float64) bool {
	return w >= rate.MinWeight && w <= rate.MaxWeight
}
