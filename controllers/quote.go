package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hermexpress-io/api/helper"
	"hermexpress-io/api/models"
	"hermexpress-io/api/pricing"
)

// QuoteOption is one priced service level on a quote response.
type QuoteOption struct {
	RateID           primitive.ObjectID `json:"rate_id"`
	OptionID         primitive.ObjectID `json:"option_id"`
	Name             string             `json:"name"`
	Slug             string             `json:"slug"`
	Description      string             `json:"description"`
	Eta              string             `json:"eta"`
	ChargeableWeight float64            `json:"chargeable_weight"`
	ShippingFee      float64            `json:"shipping_fee"`
	DiscountApplied  float64            `json:"discount_applied"`
	Currency         string             `json:"currency"`
}

type QuoteInsuranceOption struct {
	PolicyID           primitive.ObjectID `json:"policy_id"`
	Name               string             `json:"name"`
	Description        string             `json:"description"`
	Fee                float64            `json:"fee"`
	CoveragePercentage float64            `json:"coverage_percentage"`
}

// routeCountries loads and feasibility-checks both ends of a route.
// Import routes require the pickup country to allow imports from it;
// export routes require the destination country to allow exports to it.
func routeCountries(ctx context.Context, serviceType models.ServiceType, pickupID, destinationID primitive.ObjectID) (models.Country, models.Country, error) {
	var pickup, destination models.Country
	if err := CountryCollection.FindOne(ctx, bson.M{"_id": pickupID}).Decode(&pickup); err != nil {
		return pickup, destination, errors.New("pickup country not found")
	}
	if err := CountryCollection.FindOne(ctx, bson.M{"_id": destinationID}).Decode(&destination); err != nil {
		return pickup, destination, errors.New("destination country not found")
	}
	if !pickup.IsActive || !destination.IsActive {
		return pickup, destination, errors.New("shipping is not available on this route")
	}
	if serviceType == models.ServiceTypeImport && !pickup.CanImportFrom {
		return pickup, destination, fmt.Errorf("imports from %s are not supported", pickup.Name)
	}
	if serviceType == models.ServiceTypeExport && !destination.CanExportTo {
		return pickup, destination, fmt.Errorf("exports to %s are not supported", destination.Name)
	}
	return pickup, destination, nil
}

// cityLegFilter matches rates whose leg is either country-generic (city
// unset) or names the requested city. With no requested city only
// generic rates match.
func cityLegFilter(field string, cityID *primitive.ObjectID) bson.M {
	if cityID == nil {
		return bson.M{field: bson.M{"$exists": false}}
	}
	return bson.M{"$or": bson.A{
		bson.M{field: bson.M{"$exists": false}},
		bson.M{field: nil},
		bson.M{field: *cityID},
	}}
}

// validateCityLeg rejects a requested city that does not exist, belongs
// to a different country than its route leg, or has been deactivated.
// Nil means the leg is country-generic and nothing is checked.
func validateCityLeg(ctx context.Context, cityID *primitive.ObjectID, countryID primitive.ObjectID, leg string) error {
	if cityID == nil {
		return nil
	}
	var city models.City
	if err := CityCollection.FindOne(ctx, bson.M{"_id": *cityID}).Decode(&city); err != nil {
		return fmt.Errorf("invalid or inactive %s city", leg)
	}
	if !models.CityServesRoute(city, countryID) {
		return fmt.Errorf("invalid or inactive %s city", leg)
	}
	return nil
}

func parseOptionalCityID(hex string) (*primitive.ObjectID, error) {
	if hex == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil, errors.New("invalid city id")
	}
	return &id, nil
}

// rateCandidates fetches every rate matching route, service type, weight
// bracket and active option; the per-option tie-break happens in Go.
func rateCandidates(ctx context.Context, serviceType models.ServiceType, pickupID, destinationID primitive.ObjectID, pickupCityID, destinationCityID *primitive.ObjectID, weight float64, activeOptionIDs []primitive.ObjectID) ([]models.ShippingRate, error) {
	filter := bson.M{
		"service_type":           serviceType,
		"pickup_country_id":      pickupID,
		"destination_country_id": destinationID,
		"min_weight":             bson.M{"$lte": weight},
		"max_weight":             bson.M{"$gte": weight},
		"shipment_option_id":     bson.M{"$in": activeOptionIDs},
		"$and": bson.A{
			cityLegFilter("pickup_city_id", pickupCityID),
			cityLegFilter("destination_city_id", destinationCityID),
		},
	}

	cursor, err := ShippingRateCollection.Find(ctx, filter, options.Find().SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	var candidates []models.ShippingRate
	if err := cursor.All(ctx, &candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

func activeShipmentOptions(ctx context.Context) (map[primitive.ObjectID]models.ShipmentOption, []primitive.ObjectID, error) {
	cursor, err := ShipmentOptionCollection.Find(ctx, bson.M{"is_active": true})
	if err != nil {
		return nil, nil, err
	}
	var opts []models.ShipmentOption
	if err := cursor.All(ctx, &opts); err != nil {
		return nil, nil, err
	}

	byID := make(map[primitive.ObjectID]models.ShipmentOption, len(opts))
	ids := make([]primitive.ObjectID, 0, len(opts))
	for _, o := range opts {
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}
	return byID, ids, nil
}

func formatEta(option models.ShipmentOption) string {
	if option.MinDays == option.MaxDays {
		return fmt.Sprintf("%d business days", option.MaxDays)
	}
	return fmt.Sprintf("%d - %d business days", option.MinDays, option.MaxDays)
}

// GetQuote prices a prospective shipment without persisting anything.
// Guests get list prices; an authenticated caller with a tier sees the
// discounted shipping fee.
func GetQuote() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		var req models.QuoteRequest
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid request body")
			return
		}
		if err := Validate.Struct(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, err.Error())
			return
		}

		serviceType := models.ServiceType(req.ServiceType)
		pickupID, err := primitive.ObjectIDFromHex(req.PickupCountryID)
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid pickup country id")
			return
		}
		destinationID, err := primitive.ObjectIDFromHex(req.DestinationCountryID)
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid destination country id")
			return
		}
		pickupCityID, err := parseOptionalCityID(req.PickupCityID)
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid pickup city id")
			return
		}
		destinationCityID, err := parseOptionalCityID(req.DestinationCityID)
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid destination city id")
			return
		}

		if _, _, err := routeCountries(ctx, serviceType, pickupID, destinationID); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, err.Error())
			return
		}
		if err := validateCityLeg(ctx, pickupCityID, pickupID, "pickup"); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, err.Error())
			return
		}
		if err := validateCityLeg(ctx, destinationCityID, destinationID, "destination"); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, err.Error())
			return
		}

		pkg := models.ShipmentPackage{
			Weight: req.Weight,
			Length: req.Length,
			Width:  req.Width,
			Height: req.Height,
			Value:  req.Value,
		}
		actual, volumetric, declaredValue := pricing.PackageTotals([]models.ShipmentPackage{pkg})
		chargeable := pricing.QuoteWeight(actual, volumetric, req.IsVolumetric)
		if chargeable <= 0 {
			helper.HandleError(c, http.StatusBadRequest, errors.New("weight or dimensions are required"), "Weight or dimensions are required")
			return
		}

		optionsByID, activeOptionIDs, err := activeShipmentOptions(ctx)
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load shipment options")
			return
		}

		candidates, err := rateCandidates(ctx, serviceType, pickupID, destinationID, pickupCityID, destinationCityID, chargeable, activeOptionIDs)
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load shipping rates")
			return
		}
		winners := pricing.BestRatePerOption(candidates)
		if len(winners) == 0 {
			helper.HandleError(c, http.StatusNotFound, errors.New("no shipping rate available for this route"), "No shipping rate available for this route")
			return
		}

		var tier models.UserTier
		hasTier := false
		if claims := optionalClaims(c); claims != nil {
			if userID, err := claims.GetUserObjectId(); err == nil {
				tier, hasTier = tierForUser(ctx, userID)
			}
		}

		quotes := make([]QuoteOption, 0, len(winners))
		for _, rate := range winners {
			option := optionsByID[rate.ShipmentOptionID]
			fee := pricing.ShippingFee(rate, chargeable)
			discounted := fee
			if hasTier {
				discounted = pricing.ApplyTierDiscount(fee, tier)
			}
			quotes = append(quotes, QuoteOption{
				RateID:           rate.ID,
				OptionID:         option.ID,
				Name:             option.Name,
				Slug:             slug.Make(option.Name),
				Description:      option.Description,
				Eta:              formatEta(option),
				ChargeableWeight: chargeable,
				ShippingFee:      discounted,
				DiscountApplied:  fee - discounted,
				Currency:         DefaultCurrency,
			})
		}

		insuranceOptions, err := quoteInsuranceOptions(ctx, declaredValue)
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load insurance policies")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "success", gin.H{
			"chargeable_weight": chargeable,
			"quotes":            quotes,
			"insurance_options": insuranceOptions,
		})
	}
}

func quoteInsuranceOptions(ctx context.Context, declaredValue float64) ([]QuoteInsuranceOption, error) {
	cursor, err := InsurancePolicyCollection.Find(ctx, bson.M{"is_active": true})
	if err != nil {
		return nil, err
	}
	var policies []models.InsurancePolicy
	if err := cursor.All(ctx, &policies); err != nil {
		return nil, err
	}

	out := make([]QuoteInsuranceOption, 0, len(policies))
	for _, p := range policies {
		out = append(out, QuoteInsuranceOption{
			PolicyID:           p.ID,
			Name:               p.Name,
			Description:        p.Description,
			Fee:                pricing.InsuranceFee(p, declaredValue),
			CoveragePercentage: p.CoveragePercentage,
		})
	}
	return out, nil
}
