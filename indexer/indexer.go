// Package indexer provisions the MongoDB indexes the request paths rely
// on. The unique indexes are load-bearing: one wallet per user, unique
// account emails, unique tracking numbers and unique ledger references
// are all enforced here rather than in application code.
package indexer

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type IndexDefinition struct {
	Collection string
	Index      mongo.IndexModel
}

// Definitions lists every index the application expects at startup.
func Definitions() []IndexDefinition {
	return []IndexDefinition{
		{
			Collection: "User",
			Index: mongo.IndexModel{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("user_email_unique"),
			},
		},
		{
			Collection: "Wallet",
			Index: mongo.IndexModel{
				Keys:    bson.D{{Key: "user_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("wallet_user_unique"),
			},
		},
		{
			Collection: "Shipment",
			Index: mongo.IndexModel{
				Keys:    bson.D{{Key: "tracking_number", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("shipment_tracking_unique"),
			},
		},
		{
			Collection: "Shipment",
			Index: mongo.IndexModel{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("shipment_user_created"),
			},
		},
		{
			Collection: "WalletTransaction",
			Index: mongo.IndexModel{
				Keys:    bson.D{{Key: "reference", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("wallet_txn_reference_unique"),
			},
		},
		{
			Collection: "WalletTransaction",
			Index: mongo.IndexModel{
				Keys:    bson.D{{Key: "wallet_id", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("wallet_txn_wallet_created"),
			},
		},
		{
			Collection: "ShipmentStatusHistory",
			Index: mongo.IndexModel{
				Keys:    bson.D{{Key: "shipment_id", Value: 1}, {Key: "created_at", Value: 1}},
				Options: options.Index().SetName("history_shipment_created"),
			},
		},
		{
			Collection: "ShippingRate",
			Index: mongo.IndexModel{
				Keys: bson.D{
					{Key: "pickup_country_id", Value: 1},
					{Key: "destination_country_id", Value: 1},
					{Key: "service_type", Value: 1},
				},
				Options: options.Index().SetName("rate_route"),
			},
		},
		{
			Collection: "UserNotification",
			Index: mongo.IndexModel{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("notification_user_created"),
			},
		},
		{
			Collection: "UserVerificationCode",
			Index: mongo.IndexModel{
				Keys:    bson.D{{Key: "expires_at", Value: 1}},
				Options: options.Index().SetExpireAfterSeconds(0).SetName("verification_code_ttl"),
			},
		},
	}
}

// EnsureIndexes creates every definition, skipping ones that already
// exist. A unique index that cannot be built over pre-existing duplicate
// data is logged as a warning so startup still completes; any other
// failure aborts.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
	}

	for _, def := range Definitions() {
		collection := db.Collection(def.Collection)
		indexName, err := collection.Indexes().CreateOne(ctx, def.Index)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				log.Printf("Warning: cannot create unique index on %s due to duplicate data", def.Collection)
				continue
			}
			return fmt.Errorf("failed to create index on %s: %w", def.Collection, err)
		}
		log.Printf("Ensured index %s on collection %s", indexName, def.Collection)
	}

	return nil
}
