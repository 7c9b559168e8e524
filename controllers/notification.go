package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hermexpress-io/api/helper"
	"hermexpress-io/api/models"
	"hermexpress-io/api/services"
)

// GetNotifications pages through the caller's feed newest first.
func GetNotifications() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		userID, err := currentUserObjectId(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Invalid user token")
			return
		}
		pagination := services.GetPaginationArgs(c)

		filter := bson.M{"user_id": userID}
		count, err := NotificationCollection.CountDocuments(ctx, filter)
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to count notifications")
			return
		}
		cursor, err := NotificationCollection.Find(ctx, filter, options.Find().
			SetSort(bson.M{"created_at": -1}).
			SetLimit(int64(pagination.Limit)).
			SetSkip(int64(pagination.Skip)))
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load notifications")
			return
		}
		notifications := []models.Notification{}
		if err := cursor.All(ctx, &notifications); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load notifications")
			return
		}

		unread, err := NotificationCollection.CountDocuments(ctx, bson.M{"user_id": userID, "status": "unread"})
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to count notifications")
			return
		}

		helper.HandleSuccessMeta(c, http.StatusOK, "success",
			gin.H{"notifications": notifications, "unread_count": unread},
			helper.Pagination{Limit: pagination.Limit, Skip: pagination.Skip, Count: count})
	}
}

func MarkNotificationRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		userID, err := currentUserObjectId(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Invalid user token")
			return
		}
		notificationID, err := primitive.ObjectIDFromHex(c.Param("notificationId"))
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid notification id")
			return
		}

		result, err := NotificationCollection.UpdateOne(ctx,
			bson.M{"_id": notificationID, "user_id": userID},
			bson.M{"$set": bson.M{"status": "read"}})
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to update notification")
			return
		}
		if result.MatchedCount == 0 {
			helper.HandleError(c, http.StatusNotFound, err, "Notification not found")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "Notification marked as read", nil)
	}
}

func MarkAllNotificationsRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		userID, err := currentUserObjectId(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Invalid user token")
			return
		}

		_, err = NotificationCollection.UpdateMany(ctx,
			bson.M{"user_id": userID, "status": "unread"},
			bson.M{"$set": bson.M{"status": "read"}})
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to update notifications")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "All notifications marked as read", nil)
	}
}
