package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func findIndex(t *testing.T, collection, name string) *IndexDefinition {
	t.Helper()
	for _, def := range Definitions() {
		if def.Collection == collection && def.Index.Options != nil &&
			def.Index.Options.Name != nil && *def.Index.Options.Name == name {
			d := def
			return &d
		}
	}
	return nil
}

func firstKey(def *IndexDefinition) string {
	keys := def.Index.Keys.(bson.D)
	return keys[0].Key
}

func TestUniqueIndexesCoverConcurrencyGuards(t *testing.T) {
	cases := []struct {
		collection string
		name       string
		key        string
	}{
		{"User", "user_email_unique", "email"},
		{"Wallet", "wallet_user_unique", "user_id"},
		{"Shipment", "shipment_tracking_unique", "tracking_number"},
		{"WalletTransaction", "wallet_txn_reference_unique", "reference"},
	}

	for _, tc := range cases {
		def := findIndex(t, tc.collection, tc.name)
		assert.NotNil(t, def, tc.name)
		if def == nil {
			continue
		}
		assert.Equal(t, tc.key, firstKey(def), tc.name)
		assert.NotNil(t, def.Index.Options.Unique, tc.name)
		assert.True(t, *def.Index.Options.Unique, tc.name)
	}
}

func TestVerificationCodesExpireViaTTL(t *testing.T) {
	def := findIndex(t, "UserVerificationCode", "verification_code_ttl")
	assert.NotNil(t, def)
	if def == nil {
		return
	}
	assert.Equal(t, "expires_at", firstKey(def))
	assert.NotNil(t, def.Index.Options.ExpireAfterSeconds)
	assert.Equal(t, int32(0), *def.Index.Options.ExpireAfterSeconds)
}
