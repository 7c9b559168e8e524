package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hermexpress-io/api/helper"
	"hermexpress-io/api/models"
	"hermexpress-io/api/pricing"
	"hermexpress-io/api/services"
)

// AdminGetShipments lists all shipments newest first with optional
// status and tracking number filters.
func AdminGetShipments() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		pagination := services.GetPaginationArgs(c)
		filter := bson.M{}
		if status := c.Query("status"); status != "" {
			if !models.ShipmentStatus(status).Valid() {
				helper.HandleError(c, http.StatusBadRequest, errors.New("invalid status filter"), "Invalid status filter")
				return
			}
			filter["status"] = status
		}
		if trackingNumber := c.Query("tracking_number"); trackingNumber != "" {
			filter["tracking_number"] = trackingNumber
		}

		count, err := ShipmentCollection.CountDocuments(ctx, filter)
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to count shipments")
			return
		}
		cursor, err := ShipmentCollection.Find(ctx, filter, options.Find().
			SetSort(bson.M{"created_at": -1}).
			SetLimit(int64(pagination.Limit)).
			SetSkip(int64(pagination.Skip)))
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load shipments")
			return
		}
		shipments := []models.Shipment{}
		if err := cursor.All(ctx, &shipments); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load shipments")
			return
		}

		helper.HandleSuccessMeta(c, http.StatusOK, "success", shipments,
			helper.Pagination{Limit: pagination.Limit, Skip: pagination.Skip, Count: count})
	}
}

// UpdateShipmentStatus advances a shipment along the status machine.
// Price fields never change here; only status, history and the tier
// follow-up on delivery.
func UpdateShipmentStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		shipmentID, err := primitive.ObjectIDFromHex(c.Param("shipmentId"))
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid shipment id")
			return
		}
		var req models.UpdateShipmentStatusRequest
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid request body")
			return
		}
		if err := Validate.Struct(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, err.Error())
			return
		}
		newStatus := models.ShipmentStatus(req.Status)
		if !newStatus.Valid() {
			helper.HandleError(c, http.StatusBadRequest, errors.New("unknown status"), "Unknown status")
			return
		}

		var shipment models.Shipment
		if err := ShipmentCollection.FindOne(ctx, bson.M{"_id": shipmentID}).Decode(&shipment); err != nil {
			helper.HandleError(c, http.StatusNotFound, err, "Shipment not found")
			return
		}
		if !models.CanTransition(shipment.Status, newStatus) {
			helper.HandleError(c, http.StatusBadRequest,
				errors.Errorf("cannot move shipment from %s to %s", shipment.Status, newStatus),
				"Invalid status transition")
			return
		}

		// The filter repeats the current status so a concurrent update
		// cannot double-apply a transition.
		result, err := ShipmentCollection.UpdateOne(ctx,
			bson.M{"_id": shipment.ID, "status": shipment.Status},
			bson.M{"$set": bson.M{"status": newStatus, "updated_at": time.Now()}})
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to update shipment status")
			return
		}
		if result.ModifiedCount == 0 {
			helper.HandleError(c, http.StatusConflict, errors.New("shipment status changed concurrently"), "Shipment status changed, please retry")
			return
		}

		description := req.Description
		if description == "" {
			description = "Status updated to " + string(newStatus)
		}
		history := models.NewStatusHistory(shipment.ID, newStatus, description)
		if _, err := StatusHistoryCollection.InsertOne(ctx, history); err != nil {
			log.Printf("Failed to record status history for shipment %s: %v", shipment.TrackingNumber, err)
		}

		if shipment.UserID != nil {
			go CreateNotification(*shipment.UserID, "Shipment update",
				"Shipment "+shipment.TrackingNumber+" is now "+string(newStatus)+".",
				"shipment", map[string]interface{}{"tracking_number": shipment.TrackingNumber, "status": string(newStatus)})
			if newStatus == models.StatusDelivered {
				go maybeUpgradeTier(*shipment.UserID)
			}
		}

		helper.HandleSuccess(c, http.StatusOK, "Shipment status updated", gin.H{"status": newStatus})
	}
}

// maybeUpgradeTier re-evaluates a user's tier after a delivery. Upgrades
// only; users never move down a level automatically.
func maybeUpgradeTier(userID primitive.ObjectID) {
	ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
	defer cancel()

	deliveredCount, err := ShipmentCollection.CountDocuments(ctx,
		bson.M{"user_id": userID, "status": models.StatusDelivered})
	if err != nil {
		log.Printf("Tier check failed for user %s: %v", userID.Hex(), err)
		return
	}

	cursor, err := UserTierCollection.Find(ctx, bson.M{"is_active": true})
	if err != nil {
		log.Printf("Tier check failed for user %s: %v", userID.Hex(), err)
		return
	}
	var tiers []models.UserTier
	if err := cursor.All(ctx, &tiers); err != nil {
		log.Printf("Tier check failed for user %s: %v", userID.Hex(), err)
		return
	}

	qualifying, found := pricing.QualifyingTier(tiers, int(deliveredCount))
	if !found {
		return
	}

	currentLevel := 0
	if tier, ok := tierForUser(ctx, userID); ok {
		currentLevel = tier.Level
	}
	if !pricing.ShouldUpgrade(currentLevel, qualifying) {
		return
	}

	_, err = UserCollection.UpdateOne(ctx, bson.M{"_id": userID},
		bson.M{"$set": bson.M{"tier_id": qualifying.ID, "modified_at": time.Now()}})
	if err != nil {
		log.Printf("Tier upgrade failed for user %s: %v", userID.Hex(), err)
		return
	}
	log.Printf("User %s upgraded to tier %s", userID.Hex(), qualifying.Name)
	CreateNotification(userID, "Tier upgrade",
		"Congratulations, you are now on the "+qualifying.Name+" tier.",
		"tier", map[string]interface{}{"tier": qualifying.Name, "level": qualifying.Level})
}

// AdminDashboard aggregates platform-wide shipment counts and revenue.
// Revenue counts settled shipments only.
func AdminDashboard() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		pipeline := mongo.Pipeline{
			{{Key: "$group", Value: bson.M{
				"_id":   "$status",
				"count": bson.M{"$sum": 1},
				"total": bson.M{"$sum": "$total_price"},
			}}},
		}
		cursor, err := ShipmentCollection.Aggregate(ctx, pipeline)
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load dashboard")
			return
		}
		var rows []struct {
			Status models.ShipmentStatus `bson:"_id"`
			Count  int64                 `bson:"count"`
			Total  float64               `bson:"total"`
		}
		if err := cursor.All(ctx, &rows); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load dashboard")
			return
		}

		byStatus := map[models.ShipmentStatus]int64{}
		var totalShipments int64
		var revenue float64
		for _, row := range rows {
			byStatus[row.Status] = row.Count
			totalShipments += row.Count
			if row.Status != models.StatusPending && row.Status != models.StatusCancelled {
				revenue += row.Total
			}
		}

		userCount, err := UserCollection.CountDocuments(ctx, bson.M{})
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load dashboard")
			return
		}

		recentCursor, err := ShipmentCollection.Find(ctx, bson.M{}, options.Find().
			SetSort(bson.M{"created_at": -1}).SetLimit(10))
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load dashboard")
			return
		}
		recent := []models.Shipment{}
		if err := recentCursor.All(ctx, &recent); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load dashboard")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "success", gin.H{
			"total_shipments":  totalShipments,
			"by_status":        byStatus,
			"revenue":          revenue,
			"total_users":      userCount,
			"recent_shipments": recent,
		})
	}
}
