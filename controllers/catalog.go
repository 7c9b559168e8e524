package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hermexpress-io/api/helper"
	"hermexpress-io/api/models"
)

func CreateShipmentOption() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		var req models.ShipmentOptionRequest
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid request body")
			return
		}
		if err := Validate.Struct(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, err.Error())
			return
		}

		now := time.Now()
		option := models.ShipmentOption{
			ID:          primitive.NewObjectID(),
			Name:        req.Name,
			Description: req.Description,
			MinDays:     req.MinDays,
			MaxDays:     req.MaxDays,
			IsActive:    boolOr(req.IsActive, true),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if _, err := ShipmentOptionCollection.InsertOne(ctx, option); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to create shipment option")
			return
		}

		helper.HandleSuccess(c, http.StatusCreated, "Shipment option created", option)
	}
}

func GetShipmentOptions() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		cursor, err := ShipmentOptionCollection.Find(ctx, bson.M{"is_active": true},
			options.Find().SetSort(bson.M{"name": 1}))
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load shipment options")
			return
		}
		opts := []models.ShipmentOption{}
		if err := cursor.All(ctx, &opts); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load shipment options")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "success", opts)
	}
}

func UpdateShipmentOption() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		optionID, err := primitive.ObjectIDFromHex(c.Param("optionId"))
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid option id")
			return
		}
		var req models.ShipmentOptionUpdateRequest
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid request body")
			return
		}

		set := bson.M{"updated_at": time.Now()}
		if req.Name != nil {
			set["name"] = *req.Name
		}
		if req.Description != nil {
			set["description"] = *req.Description
		}
		if req.MinDays != nil {
			set["min_days"] = *req.MinDays
		}
		if req.MaxDays != nil {
			set["max_days"] = *req.MaxDays
		}
		if req.IsActive != nil {
			set["is_active"] = *req.IsActive
		}

		result, err := ShipmentOptionCollection.UpdateOne(ctx, bson.M{"_id": optionID}, bson.M{"$set": set})
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to update shipment option")
			return
		}
		if result.MatchedCount == 0 {
			helper.HandleError(c, http.StatusNotFound, err, "Shipment option not found")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "Shipment option updated", nil)
	}
}

func CreateShippingRate() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		var req models.ShippingRateRequest
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid request body")
			return
		}
		if err := Validate.Struct(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, err.Error())
			return
		}

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
		optionID, err := primitive.ObjectIDFromHex(req.ShipmentOptionID)
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid shipment option id")
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
		if err := ShipmentOptionCollection.FindOne(ctx, bson.M{"_id": optionID}).Err(); err != nil {
			helper.HandleError(c, http.StatusNotFound, err, "Shipment option not found")
			return
		}

		now := time.Now()
		rate := models.ShippingRate{
			ID:                   primitive.NewObjectID(),
			PickupCountryID:      pickupID,
			DestinationCountryID: destinationID,
			PickupCityID:         pickupCityID,
			DestinationCityID:    destinationCityID,
			ShipmentOptionID:     optionID,
			ServiceType:          models.ServiceType(req.ServiceType),
			MinWeight:            req.MinWeight,
			MaxWeight:            req.MaxWeight,
			BaseFee:              req.BaseFee,
			RatePerKg:            req.RatePerKg,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		if _, err := ShippingRateCollection.InsertOne(ctx, rate); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to create shipping rate")
			return
		}

		helper.HandleSuccess(c, http.StatusCreated, "Shipping rate created", rate)
	}
}

func GetShippingRates() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		filter := bson.M{}
		if serviceType := c.Query("service_type"); serviceType != "" {
			filter["service_type"] = serviceType
		}
		if pickup := c.Query("pickup_country_id"); pickup != "" {
			id, err := primitive.ObjectIDFromHex(pickup)
			if err != nil {
				helper.HandleError(c, http.StatusBadRequest, err, "Invalid pickup country id")
				return
			}
			filter["pickup_country_id"] = id
		}
		if destination := c.Query("destination_country_id"); destination != "" {
			id, err := primitive.ObjectIDFromHex(destination)
			if err != nil {
				helper.HandleError(c, http.StatusBadRequest, err, "Invalid destination country id")
				return
			}
			filter["destination_country_id"] = id
		}

		cursor, err := ShippingRateCollection.Find(ctx, filter, options.Find().SetSort(bson.M{"_id": 1}))
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load shipping rates")
			return
		}
		rates := []models.ShippingRate{}
		if err := cursor.All(ctx, &rates); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load shipping rates")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "success", rates)
	}
}

// UpdateShippingRate patches the pricing fields only. Route, option and
// service type are identity; admins create a new rate instead of
// repointing an old one.
func UpdateShippingRate() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		rateID, err := primitive.ObjectIDFromHex(c.Param("rateId"))
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid rate id")
			return
		}
		var req models.ShippingRateUpdateRequest
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid request body")
			return
		}

		set := bson.M{"updated_at": time.Now()}
		if req.MinWeight != nil {
			set["min_weight"] = *req.MinWeight
		}
		if req.MaxWeight != nil {
			set["max_weight"] = *req.MaxWeight
		}
		if req.BaseFee != nil {
			set["base_fee"] = *req.BaseFee
		}
		if req.RatePerKg != nil {
			set["rate_per_kg"] = *req.RatePerKg
		}

		result, err := ShippingRateCollection.UpdateOne(ctx, bson.M{"_id": rateID}, bson.M{"$set": set})
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to update shipping rate")
			return
		}
		if result.MatchedCount == 0 {
			helper.HandleError(c, http.StatusNotFound, err, "Shipping rate not found")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "Shipping rate updated", nil)
	}
}

func DeleteShippingRate() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		rateID, err := primitive.ObjectIDFromHex(c.Param("rateId"))
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid rate id")
			return
		}

		result, err := ShippingRateCollection.DeleteOne(ctx, bson.M{"_id": rateID})
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to delete shipping rate")
			return
		}
		if result.DeletedCount == 0 {
			helper.HandleError(c, http.StatusNotFound, err, "Shipping rate not found")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "Shipping rate deleted", nil)
	}
}

func CreateInsurancePolicy() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		var req models.InsurancePolicyRequest
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid request body")
			return
		}
		if err := Validate.Struct(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, err.Error())
			return
		}

		now := time.Now()
		policy := models.InsurancePolicy{
			ID:                 primitive.NewObjectID(),
			Name:               req.Name,
			Description:        req.Description,
			FeeType:            models.InsuranceFeeType(req.FeeType),
			FeeAmount:          req.FeeAmount,
			MinFee:             req.MinFee,
			CoveragePercentage: req.CoveragePercentage,
			IsActive:           boolOr(req.IsActive, true),
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if _, err := InsurancePolicyCollection.InsertOne(ctx, policy); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to create insurance policy")
			return
		}

		helper.HandleSuccess(c, http.StatusCreated, "Insurance policy created", policy)
	}
}

func GetInsurancePolicies() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		cursor, err := InsurancePolicyCollection.Find(ctx, bson.M{"is_active": true})
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load insurance policies")
			return
		}
		policies := []models.InsurancePolicy{}
		if err := cursor.All(ctx, &policies); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load insurance policies")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "success", policies)
	}
}

func UpdateInsurancePolicy() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		policyID, err := primitive.ObjectIDFromHex(c.Param("policyId"))
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid policy id")
			return
		}
		var req models.InsurancePolicyUpdateRequest
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid request body")
			return
		}

		set := bson.M{"updated_at": time.Now()}
		if req.Name != nil {
			set["name"] = *req.Name
		}
		if req.Description != nil {
			set["description"] = *req.Description
		}
		if req.FeeType != nil {
			set["fee_type"] = *req.FeeType
		}
		if req.FeeAmount != nil {
			set["fee_amount"] = *req.FeeAmount
		}
		if req.MinFee != nil {
			set["min_fee"] = *req.MinFee
		}
		if req.CoveragePercentage != nil {
			set["coverage_percentage"] = *req.CoveragePercentage
		}
		if req.IsActive != nil {
			set["is_active"] = *req.IsActive
		}

		result, err := InsurancePolicyCollection.UpdateOne(ctx, bson.M{"_id": policyID}, bson.M{"$set": set})
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to update insurance policy")
			return
		}
		if result.MatchedCount == 0 {
			helper.HandleError(c, http.StatusNotFound, err, "Insurance policy not found")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "Insurance policy updated", nil)
	}
}

func CreateUserTier() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		var req models.UserTierRequest
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid request body")
			return
		}
		if err := Validate.Struct(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, err.Error())
			return
		}

		now := time.Now()
		tier := models.UserTier{
			ID:                 primitive.NewObjectID(),
			Name:               req.Name,
			Level:              req.Level,
			MinShipments:       req.MinShipments,
			DiscountPercentage: req.DiscountPercentage,
			IsActive:           boolOr(req.IsActive, true),
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if _, err := UserTierCollection.InsertOne(ctx, tier); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to create user tier")
			return
		}

		helper.HandleSuccess(c, http.StatusCreated, "User tier created", tier)
	}
}

func GetUserTiers() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		cursor, err := UserTierCollection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"level": 1}))
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load user tiers")
			return
		}
		tiers := []models.UserTier{}
		if err := cursor.All(ctx, &tiers); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load user tiers")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "success", tiers)
	}
}

// SetUserTier pins a user to a tier manually, outside the automatic
// upgrade path.
func SetUserTier() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid user id")
			return
		}
		var req models.SetUserTierRequest
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid request body")
			return
		}
		if err := Validate.Struct(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, err.Error())
			return
		}
		tierID, err := primitive.ObjectIDFromHex(req.TierID)
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid tier id")
			return
		}
		if err := UserTierCollection.FindOne(ctx, bson.M{"_id": tierID}).Err(); err != nil {
			helper.HandleError(c, http.StatusNotFound, err, "User tier not found")
			return
		}

		result, err := UserCollection.UpdateOne(ctx, bson.M{"_id": userID},
			bson.M{"$set": bson.M{"tier_id": tierID, "modified_at": time.Now()}})
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to set user tier")
			return
		}
		if result.MatchedCount == 0 {
			helper.HandleError(c, http.StatusNotFound, err, "User not found")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "User tier updated", nil)
	}
}

func CreatePackageCategory() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		var req models.PackageCategoryRequest
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid request body")
			return
		}
		if err := Validate.Struct(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, err.Error())
			return
		}

		category := models.NewPackageCategory(req)
		if _, err := PackageCategoryCollection.InsertOne(ctx, category); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to create package category")
			return
		}

		helper.HandleSuccess(c, http.StatusCreated, "Package category created", category)
	}
}

func GetPackageCategories() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		cursor, err := PackageCategoryCollection.Find(ctx, bson.M{"is_active": true},
			options.Find().SetSort(bson.M{"name": 1}))
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load package categories")
			return
		}
		categories := []models.PackageCategory{}
		if err := cursor.All(ctx, &categories); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load package categories")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "success", categories)
	}
}

func UpdatePackageCategory() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		categoryID, err := primitive.ObjectIDFromHex(c.Param("categoryId"))
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid category id")
			return
		}
		var req models.PackageCategoryUpdateRequest
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid request body")
			return
		}

		set := bson.M{"updated_at": time.Now()}
		if req.Name != nil {
			set["name"] = *req.Name
			set["slug"] = slug.Make(*req.Name)
		}
		if req.Description != nil {
			set["description"] = *req.Description
		}
		if req.IsActive != nil {
			set["is_active"] = *req.IsActive
		}

		result, err := PackageCategoryCollection.UpdateOne(ctx, bson.M{"_id": categoryID}, bson.M{"$set": set})
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to update package category")
			return
		}
		if result.MatchedCount == 0 {
			helper.HandleError(c, http.StatusNotFound, err, "Package category not found")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "Package category updated", nil)
	}
}

func CreatePaymentMethod() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		var req models.PaymentMethodRequest
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid request body")
			return
		}
		if err := Validate.Struct(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, err.Error())
			return
		}

		now := time.Now()
		method := models.PaymentMethod{
			ID:          primitive.NewObjectID(),
			Provider:    models.PaymentProvider(req.Provider),
			Name:        req.Name,
			Description: req.Description,
			Config:      req.Config,
			IsActive:    boolOr(req.IsActive, true),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if _, err := PaymentMethodCollection.InsertOne(ctx, method); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to create payment method")
			return
		}

		helper.HandleSuccess(c, http.StatusCreated, "Payment method created", method)
	}
}

// UpdatePaymentMethod edits the stored method only. Snapshots embedded
// in already-booked shipments keep the config they were booked with.
func UpdatePaymentMethod() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		methodID, err := primitive.ObjectIDFromHex(c.Param("methodId"))
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid method id")
			return
		}
		var req models.PaymentMethodUpdateRequest
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid request body")
			return
		}

		set := bson.M{"updated_at": time.Now()}
		if req.Name != nil {
			set["name"] = *req.Name
		}
		if req.Description != nil {
			set["description"] = *req.Description
		}
		if req.Config != nil {
			set["config"] = req.Config
		}
		if req.IsActive != nil {
			set["is_active"] = *req.IsActive
		}

		result, err := PaymentMethodCollection.UpdateOne(ctx, bson.M{"_id": methodID}, bson.M{"$set": set})
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to update payment method")
			return
		}
		if result.MatchedCount == 0 {
			helper.HandleError(c, http.StatusNotFound, err, "Payment method not found")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "Payment method updated", nil)
	}
}
