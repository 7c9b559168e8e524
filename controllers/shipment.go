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
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"hermexpress-io/api/configs"
	"hermexpress-io/api/email"
	"hermexpress-io/api/helper"
	"hermexpress-io/api/models"
	"hermexpress-io/api/pricing"
	"hermexpress-io/api/services"
)

var (
	errWalletRequiresAuth  = errors.New("wallet payment requires an account, please login")
	errWalletUnavailable   = errors.New("wallet is unavailable or inactive")
	errInsufficientBalance = errors.New("insufficient wallet balance")
	errRateNotFound        = errors.New("no shipping rate available for this route and weight")
)

// BookShipment creates a shipment from a validated quote context. The
// price is recomputed server-side from the catalog; client-submitted
// amounts are never trusted. Wallet settlement happens synchronously in
// the same transaction as the shipment insert.
func BookShipment() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		var req models.BookShipmentRequest
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
		optionID, err := primitive.ObjectIDFromHex(req.ServiceOptionID)
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid service option id")
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

		var option models.ShipmentOption
		if err := ShipmentOptionCollection.FindOne(ctx, bson.M{"_id": optionID, "is_active": true}).Decode(&option); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Shipment option not found or inactive")
			return
		}

		var insurance *models.InsurancePolicy
		if req.InsurancePolicyID != "" {
			policyID, err := primitive.ObjectIDFromHex(req.InsurancePolicyID)
			if err != nil {
				helper.HandleError(c, http.StatusBadRequest, err, "Invalid insurance policy id")
				return
			}
			var policy models.InsurancePolicy
			if err := InsurancePolicyCollection.FindOne(ctx, bson.M{"_id": policyID, "is_active": true}).Decode(&policy); err != nil {
				helper.HandleError(c, http.StatusBadRequest, err, "Insurance policy not found or inactive")
				return
			}
			insurance = &policy
		}

		if req.PaymentMethodID == "" {
			helper.HandleError(c, http.StatusBadRequest, errors.New("payment method is required"), "Payment method is required")
			return
		}
		methodID, err := primitive.ObjectIDFromHex(req.PaymentMethodID)
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid payment method id")
			return
		}
		var method models.PaymentMethod
		if err := PaymentMethodCollection.FindOne(ctx, bson.M{"_id": methodID, "is_active": true}).Decode(&method); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Payment method not found or inactive")
			return
		}

		// Principal is optional; wallet settlement is the one flow that
		// demands one.
		var userID *primitive.ObjectID
		if claims := optionalClaims(c); claims != nil {
			if id, err := claims.GetUserObjectId(); err == nil {
				userID = &id
			}
		}
		if method.Provider == models.ProviderWallet && userID == nil {
			helper.HandleError(c, http.StatusUnauthorized, errWalletRequiresAuth, errWalletRequiresAuth.Error())
			return
		}

		packages := make([]models.ShipmentPackage, 0, len(req.Packages))
		for _, p := range req.Packages {
			packages = append(packages, models.ShipmentPackage{
				Category:    p.Category,
				Description: p.Description,
				Weight:      p.Weight,
				Length:      p.Length,
				Width:       p.Width,
				Height:      p.Height,
				Value:       p.Value,
				Quantity:    p.Quantity,
			})
		}
		actual, volumetric, declaredValue := pricing.PackageTotals(packages)
		chargeable := pricing.ChargeableWeight(actual, volumetric)

		_, activeOptionIDs, err := activeShipmentOptions(ctx)
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load shipment options")
			return
		}
		candidates, err := rateCandidates(ctx, serviceType, pickupID, destinationID, pickupCityID, destinationCityID, chargeable, activeOptionIDs)
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load shipping rates")
			return
		}
		var forOption []models.ShippingRate
		for _, r := range candidates {
			if r.ShipmentOptionID == option.ID {
				forOption = append(forOption, r)
			}
		}
		rate, ok := pricing.BestRate(forOption)
		if !ok {
			helper.HandleError(c, http.StatusNotFound, errRateNotFound, errRateNotFound.Error())
			return
		}

		shippingFee := pricing.ShippingFee(rate, chargeable)
		if userID != nil {
			if tier, hasTier := tierForUser(ctx, *userID); hasTier {
				shippingFee = pricing.ApplyTierDiscount(shippingFee, tier)
			}
		}
		var insuranceFee float64
		var insuranceID *primitive.ObjectID
		if insurance != nil {
			insuranceFee = pricing.InsuranceFee(*insurance, declaredValue)
			insuranceID = &insurance.ID
		}
		totalPrice := pricing.TotalPrice(shippingFee, insuranceFee)

		now := time.Now()
		status := models.StatusPending
		if method.Provider == models.ProviderWallet {
			status = models.StatusPaid
		}
		shipment := models.Shipment{
			ID:                   primitive.NewObjectID(),
			TrackingNumber:       models.NewTrackingNumber(),
			UserID:               userID,
			Status:               status,
			ServiceType:          serviceType,
			ShipmentOptionID:     option.ID,
			InsurancePolicyID:    insuranceID,
			PickupCountryID:      pickupID,
			DestinationCountryID: destinationID,
			PickupCityID:         pickupCityID,
			DestinationCityID:    destinationCityID,
			ChargeableWeight:     chargeable,
			ShippingFee:          shippingFee,
			InsuranceFee:         insuranceFee,
			TotalPrice:           totalPrice,
			Currency:             DefaultCurrency,
			PaymentMethod:        models.NewPaymentSnapshot(method),
			Addresses: []models.ShipmentAddress{
				shipmentAddress("sender", req.Sender),
				shipmentAddress("receiver", req.Receiver),
			},
			Packages:  packages,
			CreatedAt: now,
			UpdatedAt: now,
		}

		wc := writeconcern.New(writeconcern.WMajority())
		txnOptions := options.Transaction().SetWriteConcern(wc)
		session, err := configs.DB.StartSession()
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "failed to start mongodb session")
			return
		}
		defer session.EndSession(ctx)

		callback := func(sessCtx mongo.SessionContext) (interface{}, error) {
			if method.Provider == models.ProviderWallet {
				if err := debitWalletForShipment(sessCtx, *userID, shipment); err != nil {
					return nil, err
				}
			}

			if _, err := ShipmentCollection.InsertOne(sessCtx, shipment); err != nil {
				return nil, err
			}
			history := models.NewStatusHistory(shipment.ID, shipment.Status, bookingDescription(shipment.Status))
			if _, err := StatusHistoryCollection.InsertOne(sessCtx, history); err != nil {
				return nil, err
			}
			return shipment, nil
		}

		if _, err := session.WithTransaction(ctx, callback, txnOptions); err != nil {
			switch errors.Cause(err) {
			case errWalletUnavailable:
				helper.HandleError(c, http.StatusBadRequest, err, errWalletUnavailable.Error())
			case errInsufficientBalance:
				helper.HandleError(c, http.StatusBadRequest, err, errInsufficientBalance.Error())
			default:
				helper.HandleError(c, http.StatusInternalServerError, err, "Unable to book shipment")
			}
			return
		}

		if userID != nil {
			saveBookingAddresses(*userID, req)
			go CreateNotification(*userID, "Shipment booked",
				"Your shipment "+shipment.TrackingNumber+" has been booked.",
				"shipment", map[string]interface{}{"tracking_number": shipment.TrackingNumber, "shipment_id": shipment.ID.Hex()})
		}
		EmailPool.Enqueue(email.EmailJob{
			Type: "shipment_booked",
			Data: email.HermesEmailData{
				TrackingNumber:    shipment.TrackingNumber,
				SenderName:        req.Sender.Name,
				SenderEmail:       req.Sender.Email,
				ReceiverName:      req.Receiver.Name,
				ReceiverEmail:     req.Receiver.Email,
				TotalPrice:        shipment.TotalPrice,
				Currency:          shipment.Currency,
				PaymentMethodName: method.Name,
			},
		})

		response := gin.H{"shipment": shipment}
		if method.Provider == models.ProviderBankTransfer {
			response["payment_instructions"] = method.Config
		}
		helper.HandleSuccess(c, http.StatusCreated, "Shipment booked successfully", response)
	}
}

func bookingDescription(status models.ShipmentStatus) string {
	if status == models.StatusPaid {
		return "Shipment booked and paid from wallet"
	}
	return "Shipment booked, awaiting payment"
}

func shipmentAddress(addrType string, req models.ShipmentAddressRequest) models.ShipmentAddress {
	return models.ShipmentAddress{
		Type:       addrType,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Country:    req.Country,
		State:      req.State,
		City:       req.City,
		Address:    req.Address,
		PostalCode: req.PostalCode,
	}
}

// debitWalletForShipment performs the guarded debit inside the booking
// transaction. The filter carries the balance and active checks, so a
// concurrent spend can never drive the balance negative.
func debitWalletForShipment(sessCtx mongo.SessionContext, userID primitive.ObjectID, shipment models.Shipment) error {
	var wallet models.Wallet
	err := WalletCollection.FindOne(sessCtx, bson.M{"user_id": userID}).Decode(&wallet)
	if err != nil {
		return errWalletUnavailable
	}
	if !wallet.IsActive {
		return errWalletUnavailable
	}

	filter := bson.M{
		"_id":       wallet.ID,
		"is_active": true,
		"balance":   bson.M{"$gte": shipment.TotalPrice},
	}
	update := bson.M{
		"$inc": bson.M{"balance": -shipment.TotalPrice},
		"$set": bson.M{"updated_at": time.Now()},
	}
	var before models.Wallet
	err = WalletCollection.FindOneAndUpdate(sessCtx, filter, update).Decode(&before)
	if err == mongo.ErrNoDocuments {
		return errInsufficientBalance
	}
	if err != nil {
		return err
	}

	txn := models.NewDebitTransaction(wallet.ID, shipment.TotalPrice, before.Balance,
		shipment.TrackingNumber, "Shipment payment", map[string]interface{}{
			"shipment_id":     shipment.ID.Hex(),
			"tracking_number": shipment.TrackingNumber,
		})
	if _, err := WalletTransactionCollection.InsertOne(sessCtx, txn); err != nil {
		return err
	}
	return nil
}

// saveBookingAddresses copies booked addresses into the user's address
// book when asked. Best-effort; a failure never unwinds the booking.
func saveBookingAddresses(userID primitive.ObjectID, req models.BookShipmentRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
	defer cancel()

	save := func(addrType string, a models.ShipmentAddressRequest) {
		address := models.Address{
			ID:         primitive.NewObjectID(),
			UserID:     userID,
			Type:       addrType,
			Name:       a.Name,
			Email:      a.Email,
			Phone:      a.Phone,
			Country:    a.Country,
			State:      a.State,
			City:       a.City,
			Address:    a.Address,
			PostalCode: a.PostalCode,
			CreatedAt:  time.Now(),
		}
		if _, err := AddressCollection.InsertOne(ctx, address); err != nil {
			log.Printf("Failed to save %s address for user %s: %v", addrType, userID.Hex(), err)
		}
	}
	if req.SaveSenderAddress {
		save("sender", req.Sender)
	}
	if req.SaveReceiverAddress {
		save("receiver", req.Receiver)
	}
}

// TrackShipment is the public tracking view: current status plus the
// ordered history, looked up by tracking number.
func TrackShipment() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		trackingNumber := c.Param("trackingNumber")
		var shipment models.Shipment
		if err := ShipmentCollection.FindOne(ctx, bson.M{"tracking_number": trackingNumber}).Decode(&shipment); err != nil {
			helper.HandleError(c, http.StatusNotFound, err, "Shipment not found")
			return
		}

		history, err := shipmentHistory(ctx, shipment.ID)
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load tracking history")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "success", gin.H{
			"tracking_number": shipment.TrackingNumber,
			"status":          shipment.Status,
			"service_type":    shipment.ServiceType,
			"created_at":      shipment.CreatedAt,
			"history":         history,
		})
	}
}

func shipmentHistory(ctx context.Context, shipmentID primitive.ObjectID) ([]models.ShipmentStatusHistory, error) {
	cursor, err := StatusHistoryCollection.Find(ctx, bson.M{"shipment_id": shipmentID},
		options.Find().SetSort(bson.M{"created_at": 1}))
	if err != nil {
		return nil, err
	}
	history := []models.ShipmentStatusHistory{}
	if err := cursor.All(ctx, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// GetShipmentDetails returns a full shipment to its owner.
func GetShipmentDetails() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		userID, err := currentUserObjectId(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Invalid user token")
			return
		}
		shipmentID, err := primitive.ObjectIDFromHex(c.Param("shipmentId"))
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid shipment id")
			return
		}

		var shipment models.Shipment
		if err := ShipmentCollection.FindOne(ctx, bson.M{"_id": shipmentID, "user_id": userID}).Decode(&shipment); err != nil {
			helper.HandleError(c, http.StatusNotFound, err, "Shipment not found")
			return
		}

		history, err := shipmentHistory(ctx, shipment.ID)
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load tracking history")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "success", gin.H{"shipment": shipment, "history": history})
	}
}

// GetMyShipments lists the caller's shipments newest first, optionally
// filtered by status.
func GetMyShipments() gin.HandlerFunc {
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
		if status := c.Query("status"); status != "" {
			if !models.ShipmentStatus(status).Valid() {
				helper.HandleError(c, http.StatusBadRequest, errors.New("invalid status filter"), "Invalid status filter")
				return
			}
			filter["status"] = status
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

// GetUserDashboard aggregates the caller's shipment counts by status and
// their total spend on settled shipments.
func GetUserDashboard() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		userID, err := currentUserObjectId(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Invalid user token")
			return
		}

		pipeline := mongo.Pipeline{
			{{Key: "$match", Value: bson.M{"user_id": userID}}},
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
		var totalSpent float64
		for _, row := range rows {
			byStatus[row.Status] = row.Count
			totalShipments += row.Count
			if row.Status != models.StatusPending && row.Status != models.StatusCancelled {
				totalSpent += row.Total
			}
		}

		helper.HandleSuccess(c, http.StatusOK, "success", gin.H{
			"total_shipments": totalShipments,
			"by_status":       byStatus,
			"total_spent":     totalSpent,
		})
	}
}
