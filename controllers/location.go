package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hermexpress-io/api/helper"
	"hermexpress-io/api/models"
)

func CreateRegion() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		var req models.RegionRequest
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid request body")
			return
		}
		if err := Validate.Struct(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, err.Error())
			return
		}

		now := time.Now()
		region := models.Region{
			ID:        primitive.NewObjectID(),
			Name:      req.Name,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := RegionCollection.InsertOne(ctx, region); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to create region")
			return
		}

		helper.HandleSuccess(c, http.StatusCreated, "Region created", region)
	}
}

func GetRegions() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		cursor, err := RegionCollection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"name": 1}))
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load regions")
			return
		}
		regions := []models.Region{}
		if err := cursor.All(ctx, &regions); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load regions")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "success", regions)
	}
}

func CreateCountry() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		var req models.CountryRequest
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid request body")
			return
		}
		if err := Validate.Struct(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, err.Error())
			return
		}

		now := time.Now()
		country := models.Country{
			ID:            primitive.NewObjectID(),
			Name:          req.Name,
			Code:          req.Code,
			CanImportFrom: boolOr(req.CanImportFrom, false),
			CanExportTo:   boolOr(req.CanExportTo, false),
			IsActive:      boolOr(req.IsActive, true),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if req.RegionID != "" {
			regionID, err := primitive.ObjectIDFromHex(req.RegionID)
			if err != nil {
				helper.HandleError(c, http.StatusBadRequest, err, "Invalid region id")
				return
			}
			country.RegionID = &regionID
		}

		if _, err := CountryCollection.InsertOne(ctx, country); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to create country")
			return
		}

		helper.HandleSuccess(c, http.StatusCreated, "Country created", country)
	}
}

// GetCountries is the public country list. service_type=import narrows
// to import-capable pickups, service_type=export to export-capable
// destinations.
func GetCountries() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		filter := bson.M{"is_active": true}
		switch c.Query("service_type") {
		case "import":
			filter["can_import_from"] = true
		case "export":
			filter["can_export_to"] = true
		}

		cursor, err := CountryCollection.Find(ctx, filter, options.Find().SetSort(bson.M{"name": 1}))
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load countries")
			return
		}
		countries := []models.Country{}
		if err := cursor.All(ctx, &countries); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load countries")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "success", countries)
	}
}

func UpdateCountry() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		countryID, err := primitive.ObjectIDFromHex(c.Param("countryId"))
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid country id")
			return
		}
		var req models.CountryUpdateRequest
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid request body")
			return
		}

		set := bson.M{"updated_at": time.Now()}
		if req.Name != nil {
			set["name"] = *req.Name
		}
		if req.Code != nil {
			set["code"] = *req.Code
		}
		if req.CanImportFrom != nil {
			set["can_import_from"] = *req.CanImportFrom
		}
		if req.CanExportTo != nil {
			set["can_export_to"] = *req.CanExportTo
		}
		if req.IsActive != nil {
			set["is_active"] = *req.IsActive
		}
		if req.RegionID != nil {
			regionID, err := primitive.ObjectIDFromHex(*req.RegionID)
			if err != nil {
				helper.HandleError(c, http.StatusBadRequest, err, "Invalid region id")
				return
			}
			set["region_id"] = regionID
		}

		result, err := CountryCollection.UpdateOne(ctx, bson.M{"_id": countryID}, bson.M{"$set": set})
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to update country")
			return
		}
		if result.MatchedCount == 0 {
			helper.HandleError(c, http.StatusNotFound, err, "Country not found")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "Country updated", nil)
	}
}

func CreateCity() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		var req models.CityRequest
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid request body")
			return
		}
		if err := Validate.Struct(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, err.Error())
			return
		}
		countryID, err := primitive.ObjectIDFromHex(req.CountryID)
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid country id")
			return
		}
		if err := CountryCollection.FindOne(ctx, bson.M{"_id": countryID}).Err(); err != nil {
			helper.HandleError(c, http.StatusNotFound, err, "Country not found")
			return
		}

		now := time.Now()
		city := models.City{
			ID:        primitive.NewObjectID(),
			CountryID: countryID,
			Name:      req.Name,
			State:     req.State,
			IsActive:  boolOr(req.IsActive, true),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := CityCollection.InsertOne(ctx, city); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to create city")
			return
		}

		helper.HandleSuccess(c, http.StatusCreated, "City created", city)
	}
}

func GetCitiesByCountry() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		countryID, err := primitive.ObjectIDFromHex(c.Param("countryId"))
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid country id")
			return
		}

		cursor, err := CityCollection.Find(ctx, bson.M{"country_id": countryID, "is_active": true},
			options.Find().SetSort(bson.M{"name": 1}))
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load cities")
			return
		}
		cities := []models.City{}
		if err := cursor.All(ctx, &cities); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load cities")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "success", cities)
	}
}

func UpdateCity() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		cityID, err := primitive.ObjectIDFromHex(c.Param("cityId"))
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid city id")
			return
		}
		var req models.CityUpdateRequest
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid request body")
			return
		}

		set := bson.M{"updated_at": time.Now()}
		if req.Name != nil {
			set["name"] = *req.Name
		}
		if req.State != nil {
			set["state"] = *req.State
		}
		if req.IsActive != nil {
			set["is_active"] = *req.IsActive
		}

		result, err := CityCollection.UpdateOne(ctx, bson.M{"_id": cityID}, bson.M{"$set": set})
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to update city")
			return
		}
		if result.MatchedCount == 0 {
			helper.HandleError(c, http.StatusNotFound, err, "City not found")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "City updated", nil)
	}
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
