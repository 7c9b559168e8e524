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
	"hermexpress-io/api/services"
)

// SubmitContactMessage accepts a public contact-form submission.
func SubmitContactMessage() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		var req models.ContactMessageRequest
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid request body")
			return
		}
		if err := Validate.Struct(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, err.Error())
			return
		}

		now := time.Now()
		message := models.ContactMessage{
			ID:        primitive.NewObjectID(),
			Name:      req.Name,
			Email:     req.Email,
			Subject:   req.Subject,
			Message:   req.Message,
			Status:    "new",
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := ContactMessageCollection.InsertOne(ctx, message); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to submit message")
			return
		}

		helper.HandleSuccess(c, http.StatusCreated, "Message received, we will get back to you", nil)
	}
}

func AdminGetContactMessages() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		pagination := services.GetPaginationArgs(c)
		filter := bson.M{}
		if status := c.Query("status"); status != "" {
			filter["status"] = status
		}

		count, err := ContactMessageCollection.CountDocuments(ctx, filter)
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to count messages")
			return
		}
		cursor, err := ContactMessageCollection.Find(ctx, filter, options.Find().
			SetSort(bson.M{"created_at": -1}).
			SetLimit(int64(pagination.Limit)).
			SetSkip(int64(pagination.Skip)))
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load messages")
			return
		}
		messages := []models.ContactMessage{}
		if err := cursor.All(ctx, &messages); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load messages")
			return
		}

		helper.HandleSuccessMeta(c, http.StatusOK, "success", messages,
			helper.Pagination{Limit: pagination.Limit, Skip: pagination.Skip, Count: count})
	}
}

func AdminUpdateContactMessage() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		messageID, err := primitive.ObjectIDFromHex(c.Param("messageId"))
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid message id")
			return
		}
		var req struct {
			Status string `json:"status" validate:"required,oneof=new in_progress resolved"`
		}
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid request body")
			return
		}
		if err := Validate.Struct(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, err.Error())
			return
		}

		result, err := ContactMessageCollection.UpdateOne(ctx, bson.M{"_id": messageID},
			bson.M{"$set": bson.M{"status": req.Status, "updated_at": time.Now()}})
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to update message")
			return
		}
		if result.MatchedCount == 0 {
			helper.HandleError(c, http.StatusNotFound, err, "Message not found")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "Message updated", nil)
	}
}
