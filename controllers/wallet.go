package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"hermexpress-io/api/configs"
	"hermexpress-io/api/helper"
	"hermexpress-io/api/models"
	"hermexpress-io/api/services"
)

// getOrCreateWallet loads the user's wallet, creating it on first use.
// The unique index on user_id keeps a concurrent first read from
// producing two wallets; the loser of the race re-reads.
func getOrCreateWallet(ctx context.Context, userID primitive.ObjectID) (models.Wallet, error) {
	var wallet models.Wallet
	err := WalletCollection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&wallet)
	if err == nil {
		return wallet, nil
	}
	if err != mongo.ErrNoDocuments {
		return wallet, err
	}

	wallet = models.NewWallet(userID, DefaultCurrency)
	if _, err := WalletCollection.InsertOne(ctx, wallet); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			err = WalletCollection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&wallet)
			return wallet, err
		}
		return wallet, err
	}
	return wallet, nil
}

// GetWallet returns the caller's wallet, creating an empty one lazily.
func GetWallet() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		userID, err := currentUserObjectId(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Invalid user token")
			return
		}

		wallet, err := getOrCreateWallet(ctx, userID)
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load wallet")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "success", wallet)
	}
}

// GetWalletTransactions pages through the caller's ledger newest first.
func GetWalletTransactions() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		userID, err := currentUserObjectId(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Invalid user token")
			return
		}
		wallet, err := getOrCreateWallet(ctx, userID)
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load wallet")
			return
		}
		pagination := services.GetPaginationArgs(c)

		filter := bson.M{"wallet_id": wallet.ID}
		count, err := WalletTransactionCollection.CountDocuments(ctx, filter)
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to count transactions")
			return
		}
		cursor, err := WalletTransactionCollection.Find(ctx, filter, options.Find().
			SetSort(bson.M{"created_at": -1}).
			SetLimit(int64(pagination.Limit)).
			SetSkip(int64(pagination.Skip)))
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load transactions")
			return
		}
		transactions := []models.WalletTransaction{}
		if err := cursor.All(ctx, &transactions); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load transactions")
			return
		}

		helper.HandleSuccessMeta(c, http.StatusOK, "success", transactions,
			helper.Pagination{Limit: pagination.Limit, Skip: pagination.Skip, Count: count})
	}
}

// FundWallet starts a gateway checkout that credits the wallet once the
// callback verifies. The credit itself happens in the callback, never
// here.
func FundWallet() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		userID, err := currentUserObjectId(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Invalid user token")
			return
		}
		var req models.FundWalletRequest
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid request body")
			return
		}
		if err := Validate.Struct(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, err.Error())
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
		if method.Provider != models.ProviderPaystack && method.Provider != models.ProviderKorapay {
			helper.HandleError(c, http.StatusBadRequest, errors.New("wallet funding requires a gateway payment method"), "Wallet funding requires a gateway payment method")
			return
		}

		wallet, err := getOrCreateWallet(ctx, userID)
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load wallet")
			return
		}
		if !wallet.IsActive {
			helper.HandleError(c, http.StatusBadRequest, errors.New("wallet is inactive"), "Wallet is inactive")
			return
		}

		var user models.User
		if err := UserCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			helper.HandleError(c, http.StatusNotFound, err, "User not found")
			return
		}

		fundingRef := "WREF-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString()[:8], "-", ""))
		result, err := Gateway.Initialize(ctx, services.InitializePaymentRequest{
			Provider:       method.Provider,
			Config:         method.Config,
			Amount:         req.Amount,
			Email:          user.Email,
			Name:           user.FirstName + " " + user.LastName,
			TrackingNumber: fundingRef,
			Metadata: map[string]interface{}{
				"transaction_type": "wallet_funding",
				"wallet_id":        wallet.ID.Hex(),
			},
		})
		if err != nil {
			helper.HandleError(c, http.StatusBadGateway, err, "Unable to initialize wallet funding")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "Wallet funding initialized", result)
	}
}

// AdminUpdateWallet lets an admin credit, debit or toggle a user's
// wallet. Balance changes go through the same transactional guarded
// update as customer flows and always leave a ledger row.
func AdminUpdateWallet() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		var req models.AdminWalletRequest
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid request body")
			return
		}
		if err := Validate.Struct(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, err.Error())
			return
		}
		userID, err := primitive.ObjectIDFromHex(req.UserID)
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid user id")
			return
		}

		wallet, err := getOrCreateWallet(ctx, userID)
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to load wallet")
			return
		}

		if req.Action == "toggle" {
			active := !wallet.IsActive
			if req.IsActive != nil {
				active = *req.IsActive
			}
			_, err := WalletCollection.UpdateOne(ctx, bson.M{"_id": wallet.ID},
				bson.M{"$set": bson.M{"is_active": active, "updated_at": time.Now()}})
			if err != nil {
				helper.HandleError(c, http.StatusInternalServerError, err, "Unable to update wallet")
				return
			}
			wallet.IsActive = active
			helper.HandleSuccess(c, http.StatusOK, "Wallet updated", wallet)
			return
		}

		if req.Amount <= 0 {
			helper.HandleError(c, http.StatusBadRequest, errors.New("amount must be greater than zero"), "Amount must be greater than zero")
			return
		}

		wc := writeconcern.New(writeconcern.WMajority())
		txnOptions := options.Transaction().SetWriteConcern(wc)
		session, err := configs.DB.StartSession()
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "failed to start mongodb session")
			return
		}
		defer session.EndSession(ctx)

		reference := "ADJ-" + strings.ToUpper(uuid.NewString()[:8])
		description := req.Description
		if description == "" {
			description = "Admin adjustment"
		}

		callback := func(sessCtx mongo.SessionContext) (interface{}, error) {
			filter := bson.M{"_id": wallet.ID}
			delta := req.Amount
			if req.Action == "debit" {
				filter["balance"] = bson.M{"$gte": req.Amount}
				delta = -req.Amount
			}
			var before models.Wallet
			err := WalletCollection.FindOneAndUpdate(sessCtx, filter,
				bson.M{"$inc": bson.M{"balance": delta}, "$set": bson.M{"updated_at": time.Now()}},
			).Decode(&before)
			if err == mongo.ErrNoDocuments {
				return nil, errInsufficientBalance
			}
			if err != nil {
				return nil, err
			}

			var txn models.WalletTransaction
			if req.Action == "debit" {
				txn = models.NewDebitTransaction(wallet.ID, req.Amount, before.Balance, reference, description, nil)
			} else {
				txn = models.NewCreditTransaction(wallet.ID, req.Amount, before.Balance, reference, description, nil)
			}
			if _, err := WalletTransactionCollection.InsertOne(sessCtx, txn); err != nil {
				return nil, err
			}
			return txn, nil
		}

		result, err := session.WithTransaction(ctx, callback, txnOptions)
		if err != nil {
			if errors.Cause(err) == errInsufficientBalance {
				helper.HandleError(c, http.StatusBadRequest, err, errInsufficientBalance.Error())
				return
			}
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to update wallet")
			return
		}

		go CreateNotification(userID, "Wallet adjusted",
			"An adjustment was made to your wallet: "+description, "wallet",
			map[string]interface{}{"reference": reference, "action": req.Action, "amount": req.Amount})

		helper.HandleSuccess(c, http.StatusOK, "Wallet updated", result)
	}
}
