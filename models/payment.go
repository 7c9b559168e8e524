package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentProvider string

const (
	ProviderBankTransfer PaymentProvider = "bank_transfer"
	ProviderWallet       PaymentProvider = "wallet"
	ProviderPaystack     PaymentProvider = "paystack"
	ProviderKorapay      PaymentProvider = "korapay"
)

// PaymentMethod is a configured settlement channel. Config holds
// provider-specific data (bank details, API keys) as a free-form map.
type PaymentMethod struct {
	ID          primitive.ObjectID     `bson:"_id" json:"_id"`
	Provider    PaymentProvider        `bson:"provider" json:"provider"`
	Name        string                 `bson:"name" json:"name"`
	Description string                 `bson:"description" json:"description"`
	Config      map[string]interface{} `bson:"config" json:"config"`
	IsActive    bool                   `bson:"is_active" json:"is_active"`
	CreatedAt   time.Time              `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time              `bson:"updated_at" json:"updated_at"`
}

// PaymentSnapshot is the by-value copy of a payment method embedded in a
// shipment at booking time. Later admin edits to the method never rewrite
// it; the only post-booking mutation is recording the verified gateway
// reference once at callback time.
type PaymentSnapshot struct {
	MethodID             primitive.ObjectID     `bson:"method_id" json:"method_id"`
	Provider             PaymentProvider        `bson:"provider" json:"provider"`
	Name                 string                 `bson:"name" json:"name"`
	Config               map[string]interface{} `bson:"config" json:"config"`
	TransactionReference string                 `bson:"transaction_reference,omitempty" json:"transaction_reference,omitempty"`
	VerifiedAt           *time.Time             `bson:"verified_at,omitempty" json:"verified_at,omitempty"`
}

func NewPaymentSnapshot(method PaymentMethod) PaymentSnapshot {
	cfg := make(map[string]interface{}, len(method.Config))
	for k, v := range method.Config {
		cfg[k] = v
	}
	return PaymentSnapshot{
		MethodID: method.ID,
		Provider: method.Provider,
		Name:     method.Name,
		Config:   cfg,
	}
}

type PaymentMethodRequest struct {
	Provider    string                 `json:"provider" validate:"required,oneof=bank_transfer wallet paystack korapay"`
	Name        string                 `json:"name" validate:"required"`
	Description string                 `json:"description"`
	Config      map[string]interface{} `json:"config"`
	IsActive    *bool                  `json:"is_active"`
}

type PaymentMethodUpdateRequest struct {
	Name        *string                `json:"name"`
	Description *string                `json:"description"`
	Config      map[string]interface{} `json:"config"`
	IsActive    *bool                  `json:"is_active"`
}

type InitializeTransactionRequest struct {
	ShipmentID string `json:"shipment_id" validate:"required"`
}
