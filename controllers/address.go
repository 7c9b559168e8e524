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

func CreateAddress() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		userID, err := currentUserObjectId(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Invalid user token")
			return
		}
		var req models.AddressRequest
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid request body")
			return
		}
		if err := Validate.Struct(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, err.Error())
			return
		}

		address := models.Address{
			ID:         primitive.NewObjectID(),
			UserID:     userID,
			Type:       req.Type,
			Name:       req.Name,
			Email:      req.Email,
			Phone:      req.Phone,
			Country:    req.Country,
			State:      req.State,
			City:       req.City,
			Address:    req.Address,
			PostalCode: req.PostalCode,
			CreatedAt:  time.Now(),
		}
		if _, err := AddressCollection.InsertOne(ctx, address); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to save address")
			return
		}

		helper.HandleSuccess(c, http.StatusCreated, "Address saved", address)
	}
}

func GetAddresses() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		userID, err := currentUserObjectId(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Invalid user token")
			return
		}

		filter := bson.M{"user_id": userID}
		if addrType := c.Query("type"); addrType != "" {
			filter["type"] = addrType
		}

		cursor, err := AddressCollection.Find(ctx, filter, options.Find().SetSort(bson.M{"created_at": -1}))
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load addresses")
			return
		}
		addresses := []models.Address{}
		if err := cursor.All(ctx, &addresses); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load addresses")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "success", addresses)
	}
}

func DeleteAddress() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		userID, err := currentUserObjectId(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Invalid user token")
			return
		}
		addressID, err := primitive.ObjectIDFromHex(c.Param("addressId"))
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid address id")
			return
		}

		result, err := AddressCollection.DeleteOne(ctx, bson.M{"_id": addressID, "user_id": userID})
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to delete address")
			return
		}
		if result.DeletedCount == 0 {
			helper.HandleError(c, http.StatusNotFound, err, "Address not found")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "Address deleted", nil)
	}
}
