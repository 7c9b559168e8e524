package controllers

import (
	"context"
	"net/http"
	"net/url"
	"strings"
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
	"hermexpress-io/api/services"
)

// GetPaymentMethods lists the active settlement channels. Secret keys in
// the config map are stripped before the response leaves.
func GetPaymentMethods() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		cursor, err := PaymentMethodCollection.Find(ctx, bson.M{"is_active": true})
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load payment methods")
			return
		}
		methods := []models.PaymentMethod{}
		if err := cursor.All(ctx, &methods); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load payment methods")
			return
		}
		for i := range methods {
			methods[i].Config = publicConfig(methods[i].Config)
		}

		helper.HandleSuccess(c, http.StatusOK, "success", methods)
	}
}

func publicConfig(config map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(config))
	for k, v := range config {
		if strings.Contains(strings.ToLower(k), "secret") {
			continue
		}
		out[k] = v
	}
	return out
}

// InitializeTransaction starts a gateway checkout for a pending
// shipment. Re-initialization is allowed while unpaid; each attempt gets
// a fresh reference so the callback can tell them apart.
func InitializeTransaction() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		var req models.InitializeTransactionRequest
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid request body")
			return
		}
		if err := Validate.Struct(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, err.Error())
			return
		}
		shipmentID, err := primitive.ObjectIDFromHex(req.ShipmentID)
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid shipment id")
			return
		}

		var shipment models.Shipment
		if err := ShipmentCollection.FindOne(ctx, bson.M{"_id": shipmentID}).Decode(&shipment); err != nil {
			helper.HandleError(c, http.StatusNotFound, err, "Shipment not found")
			return
		}
		if shipment.Status != models.StatusPending {
			helper.HandleError(c, http.StatusBadRequest, errors.New("shipment is not awaiting payment"), "Shipment is not awaiting payment")
			return
		}
		provider := shipment.PaymentMethod.Provider
		if provider == models.ProviderWallet {
			helper.HandleError(c, http.StatusBadRequest, errors.New("wallet payments settle at booking"), "Wallet payments settle at booking")
			return
		}

		sender := senderAddress(shipment)
		result, err := Gateway.Initialize(ctx, services.InitializePaymentRequest{
			Provider:       provider,
			Config:         shipment.PaymentMethod.Config,
			Amount:         shipment.TotalPrice,
			Email:          sender.Email,
			Name:           sender.Name,
			TrackingNumber: shipment.TrackingNumber,
			ShipmentID:     shipment.ID.Hex(),
		})
		if err != nil {
			helper.HandleError(c, http.StatusBadGateway, err, "Unable to initialize payment")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "Payment initialized", result)
	}
}

func senderAddress(shipment models.Shipment) models.ShipmentAddress {
	for _, a := range shipment.Addresses {
		if a.Type == "sender" {
			return a
		}
	}
	return models.ShipmentAddress{}
}

// HandlePaymentCallback lands the customer after a gateway checkout. The
// status is always re-verified with the provider; the redirect target is
// the frontend payment status page either way.
func HandlePaymentCallback() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		provider := models.PaymentProvider(c.Param("provider"))
		reference := services.CallbackReference(c)

		result, err := Gateway.Verify(ctx, provider, reference)
		if err != nil {
			redirectPaymentStatus(c, "error", reference, "")
			return
		}

		if transactionType, _ := result.Metadata["transaction_type"].(string); transactionType == "wallet_funding" {
			settleWalletFunding(c, ctx, reference, result)
			return
		}

		settleShipmentPayment(c, ctx, reference, result)
	}
}

func redirectPaymentStatus(c *gin.Context, status, reference, trackingNumber string) {
	appURL := configs.LoadEnvFor("APP_URL")
	q := url.Values{}
	q.Set("status", status)
	if reference != "" {
		q.Set("reference", reference)
	}
	if trackingNumber != "" {
		q.Set("tracking_number", trackingNumber)
	}
	c.Redirect(http.StatusFound, appURL+"/payment/status?"+q.Encode())
}

// settleShipmentPayment moves a pending shipment to paid exactly once.
// The reference carries the tracking number; a repeat callback for an
// already-paid shipment redirects without mutating anything.
func settleShipmentPayment(c *gin.Context, ctx context.Context, reference string, result services.VerifyPaymentResult) {
	trackingNumber, _ := result.Metadata["tracking_number"].(string)
	if trackingNumber == "" {
		trackingNumber = strings.SplitN(reference, "_", 2)[0]
	}

	var shipment models.Shipment
	if err := ShipmentCollection.FindOne(ctx, bson.M{"tracking_number": trackingNumber}).Decode(&shipment); err != nil {
		redirectPaymentStatus(c, "error", reference, trackingNumber)
		return
	}

	sender := senderAddress(shipment)
	if !result.Success || result.Amount < shipment.TotalPrice {
		EmailPool.Enqueue(email.EmailJob{Type: "payment_failed", Data: email.HermesEmailData{
			TrackingNumber: shipment.TrackingNumber,
			SenderName:     sender.Name,
			SenderEmail:    sender.Email,
			TotalPrice:     shipment.TotalPrice,
			Currency:       shipment.Currency,
		}})
		redirectPaymentStatus(c, "failed", reference, trackingNumber)
		return
	}
	if shipment.Status != models.StatusPending {
		redirectPaymentStatus(c, "duplicate", reference, trackingNumber)
		return
	}

	wc := writeconcern.New(writeconcern.WMajority())
	txnOptions := options.Transaction().SetWriteConcern(wc)
	session, err := configs.DB.StartSession()
	if err != nil {
		redirectPaymentStatus(c, "error", reference, trackingNumber)
		return
	}
	defer session.EndSession(ctx)

	callback := func(sessCtx mongo.SessionContext) (interface{}, error) {
		now := time.Now()
		res, err := ShipmentCollection.UpdateOne(sessCtx,
			bson.M{"_id": shipment.ID, "status": models.StatusPending},
			bson.M{"$set": bson.M{
				"status":     models.StatusPaid,
				"updated_at": now,
				"payment_method.transaction_reference": reference,
				"payment_method.verified_at":           now,
			}})
		if err != nil {
			return nil, err
		}
		if res.ModifiedCount == 0 {
			return nil, services.ErrAlreadySettled
		}
		history := models.NewStatusHistory(shipment.ID, models.StatusPaid, "Payment confirmed via "+string(shipment.PaymentMethod.Provider))
		if _, err := StatusHistoryCollection.InsertOne(sessCtx, history); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if _, err := session.WithTransaction(ctx, callback, txnOptions); err != nil {
		redirectPaymentStatus(c, services.RedirectStatusFor(err), reference, trackingNumber)
		return
	}

	if shipment.UserID != nil {
		go CreateNotification(*shipment.UserID, "Payment confirmed",
			"Payment for shipment "+shipment.TrackingNumber+" has been confirmed.",
			"payment", map[string]interface{}{"tracking_number": shipment.TrackingNumber, "reference": reference})
	}
	EmailPool.Enqueue(email.EmailJob{Type: "payment_confirmed", Data: email.HermesEmailData{
		TrackingNumber: shipment.TrackingNumber,
		SenderName:     sender.Name,
		SenderEmail:    sender.Email,
		TotalPrice:     shipment.TotalPrice,
		Currency:       shipment.Currency,
	}})

	redirectPaymentStatus(c, "success", reference, trackingNumber)
}

// settleWalletFunding credits a wallet from a verified gateway charge.
// Idempotent by ledger reference: a replayed callback finds the existing
// row and redirects without crediting twice.
func settleWalletFunding(c *gin.Context, ctx context.Context, reference string, result services.VerifyPaymentResult) {
	if !result.Success {
		redirectPaymentStatus(c, "failed", reference, "")
		return
	}

	walletHex, _ := result.Metadata["wallet_id"].(string)
	walletID, err := primitive.ObjectIDFromHex(walletHex)
	if err != nil {
		redirectPaymentStatus(c, "error", reference, "")
		return
	}

	count, err := WalletTransactionCollection.CountDocuments(ctx, bson.M{"reference": reference})
	if err != nil {
		redirectPaymentStatus(c, "error", reference, "")
		return
	}
	if count > 0 {
		redirectPaymentStatus(c, "duplicate", reference, "")
		return
	}

	wc := writeconcern.New(writeconcern.WMajority())
	txnOptions := options.Transaction().SetWriteConcern(wc)
	session, err := configs.DB.StartSession()
	if err != nil {
		redirectPaymentStatus(c, "error", reference, "")
		return
	}
	defer session.EndSession(ctx)

	var wallet models.Wallet
	callback := func(sessCtx mongo.SessionContext) (interface{}, error) {
		err := WalletCollection.FindOneAndUpdate(sessCtx,
			bson.M{"_id": walletID, "is_active": true},
			bson.M{"$inc": bson.M{"balance": result.Amount}, "$set": bson.M{"updated_at": time.Now()}},
		).Decode(&wallet)
		if err != nil {
			return nil, err
		}
		txn := models.NewCreditTransaction(wallet.ID, result.Amount, wallet.Balance,
			reference, "Wallet funding", map[string]interface{}{"provider": string(c.Param("provider"))})
		if _, err := WalletTransactionCollection.InsertOne(sessCtx, txn); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if _, err := session.WithTransaction(ctx, callback, txnOptions); err != nil {
		redirectPaymentStatus(c, "error", reference, "")
		return
	}

	var user models.User
	if err := UserCollection.FindOne(ctx, bson.M{"_id": wallet.UserID}).Decode(&user); err == nil {
		go CreateNotification(user.ID, "Wallet funded",
			"Your wallet has been credited.", "wallet",
			map[string]interface{}{"reference": reference, "amount": result.Amount})
		EmailPool.Enqueue(email.EmailJob{Type: "wallet_funded", Data: email.HermesEmailData{
			SenderName:  user.FirstName,
			SenderEmail: user.Email,
			Amount:      result.Amount,
			Currency:    DefaultCurrency,
		}})
	}

	redirectPaymentStatus(c, "success", reference, "")
}
