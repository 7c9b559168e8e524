package controllers

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hermexpress-io/api/configs"
	"hermexpress-io/api/email"
	"hermexpress-io/api/helper"
	"hermexpress-io/api/models"
	"hermexpress-io/api/services"
)

var RegionCollection = configs.GetCollection(configs.DB, "Region")
var CountryCollection = configs.GetCollection(configs.DB, "Country")
var CityCollection = configs.GetCollection(configs.DB, "City")
var ShipmentOptionCollection = configs.GetCollection(configs.DB, "ShipmentOption")
var ShippingRateCollection = configs.GetCollection(configs.DB, "ShippingRate")
var InsurancePolicyCollection = configs.GetCollection(configs.DB, "InsurancePolicy")
var UserTierCollection = configs.GetCollection(configs.DB, "UserTier")
var PaymentMethodCollection = configs.GetCollection(configs.DB, "PaymentMethod")
var PackageCategoryCollection = configs.GetCollection(configs.DB, "PackageCategory")
var WalletCollection = configs.GetCollection(configs.DB, "Wallet")
var WalletTransactionCollection = configs.GetCollection(configs.DB, "WalletTransaction")
var ShipmentCollection = configs.GetCollection(configs.DB, "Shipment")
var StatusHistoryCollection = configs.GetCollection(configs.DB, "ShipmentStatusHistory")
var UserCollection = configs.GetCollection(configs.DB, "User")
var AddressCollection = configs.GetCollection(configs.DB, "UserAddress")
var NotificationCollection = configs.GetCollection(configs.DB, "UserNotification")
var ContactMessageCollection = configs.GetCollection(configs.DB, "ContactMessage")
var VerificationCodeCollection = configs.GetCollection(configs.DB, "UserVerificationCode")

var Validate = validator.New()

const (
	REQ_TIMEOUT_SECS      = 50 * time.Second
	MongoDuplicateKeyCode = 11000
	DefaultCurrency       = "NGN"
	OTP_EXPIRATION_TIME   = 15 * time.Minute
)

var Gateway = services.NewGatewayClient(services.GatewayConfig{
	PaystackBaseURL: configs.LoadEnvOr("PAYSTACK_BASE_URL", "https://api.paystack.co"),
	KorapayBaseURL:  configs.LoadEnvOr("KORAPAY_BASE_URL", "https://api.korapay.com/merchant/api/v1"),
	PaystackSecret:  configs.LoadEnvFor("PAYSTACK_SECRET_KEY"),
	KorapaySecret:   configs.LoadEnvFor("KORAPAY_SECRET_KEY"),
	AppURL:          configs.LoadEnvFor("APP_URL"),
})

var EmailPool = email.HermesEmailWorkerPoolInstance(5)

// optionalClaims returns the validated principal on the request, or nil
// when the caller is a guest. Routes behind OptionalAuth use this;
// absence is not an error.
func optionalClaims(c *gin.Context) *configs.JWTClaim {
	claims, err := configs.InitJwtClaim(c)
	if err != nil {
		return nil
	}
	if !helper.IsTokenValid(configs.REDIS, configs.ExtractToken(c)) {
		return nil
	}
	return claims
}

// currentUserObjectId resolves the authenticated user's object id. Only
// called on routes behind the Auth middleware, so failures are 401s the
// caller turns into responses.
func currentUserObjectId(c *gin.Context) (primitive.ObjectID, error) {
	claims, err := configs.InitJwtClaim(c)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return claims.GetUserObjectId()
}

// CreateNotification appends a feed entry for a user. Best-effort: a
// failed insert is logged and never propagates to the request that
// triggered it.
func CreateNotification(userID primitive.ObjectID, title, body, notifType string, meta map[string]interface{}) {
	ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
	defer cancel()

	notification := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Title:     title,
		Body:      body,
		Type:      notifType,
		Status:    "unread",
		MetaData:  meta,
		CreatedAt: time.Now(),
	}
	if _, err := NotificationCollection.InsertOne(ctx, notification); err != nil {
		log.Printf("Failed to create notification for user %s: %v", userID.Hex(), err)
	}
}

// tierForUser loads the user's current tier, if any. Guests and users
// with no tier get (zero, false).
func tierForUser(ctx context.Context, userID primitive.ObjectID) (models.UserTier, bool) {
	var user models.User
	if err := UserCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return models.UserTier{}, false
	}
	if user.TierID == nil {
		return models.UserTier{}, false
	}
	var tier models.UserTier
	if err := UserTierCollection.FindOne(ctx, bson.M{"_id": user.TierID}).Decode(&tier); err != nil {
		return models.UserTier{}, false
	}
	return tier, true
}
