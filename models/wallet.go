package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Wallet holds a user's prepaid balance. One wallet per user, created
// lazily on first read. The balance is mutated only inside a session
// transaction with a guarded update, never read-modify-written across
// requests.
type Wallet struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Balance   float64            `bson:"balance" json:"balance"`
	Currency  string             `bson:"currency" json:"currency"`
	IsActive  bool               `bson:"is_active" json:"is_active"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

func NewWallet(userID primitive.ObjectID, currency string) Wallet {
	now := time.Now()
	return Wallet{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Balance:   0,
		Currency:  currency,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type WalletTransactionType string

const (
	WalletCredit WalletTransactionType = "credit"
	WalletDebit  WalletTransactionType = "debit"
)

// WalletTransaction is an append-only ledger row. BalanceBefore/After are
// point-in-time snapshots taken when the row is written; replaying the
// ledger must reproduce the current balance.
type WalletTransaction struct {
	ID            primitive.ObjectID     `bson:"_id" json:"_id"`
	WalletID      primitive.ObjectID     `bson:"wallet_id" json:"wallet_id"`
	Type          WalletTransactionType  `bson:"type" json:"type"`
	Amount        float64                `bson:"amount" json:"amount"`
	BalanceBefore float64                `bson:"balance_before" json:"balance_before"`
	BalanceAfter  float64                `bson:"balance_after" json:"balance_after"`
	Reference     string                 `bson:"reference" json:"reference"`
	Description   string                 `bson:"description" json:"description"`
	Status        string                 `bson:"status" json:"status"`
	MetaData      map[string]interface{} `bson:"meta_data" json:"meta_data"`
	CreatedAt     time.Time              `bson:"created_at" json:"created_at"`
}

// NewDebitTransaction records a debit of amount against the pre-debit
// balance. The reference doubles as the idempotency key for callers that
// retry.
func NewDebitTransaction(walletID primitive.ObjectID, amount, balanceBefore float64, reference, description string, meta map[string]interface{}) WalletTransaction {
	return WalletTransaction{
		ID:            primitive.NewObjectID(),
		WalletID:      walletID,
		Type:          WalletDebit,
		Amount:        amount,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceBefore - amount,
		Reference:     reference,
		Description:   description,
		Status:        "success",
		MetaData:      meta,
		CreatedAt:     time.Now(),
	}
}

func NewCreditTransaction(walletID primitive.ObjectID, amount, balanceBefore float64, reference, description string, meta map[string]interface{}) WalletTransaction {
	return WalletTransaction{
		ID:            primitive.NewObjectID(),
		WalletID:      walletID,
		Type:          WalletCredit,
		Amount:        amount,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceBefore + amount,
		Reference:     reference,
		Description:   description,
		Status:        "success",
		MetaData:      meta,
		CreatedAt:     time.Now(),
	}
}

type FundWalletRequest struct {
	Amount          float64 `json:"amount" validate:"required,gt=0"`
	PaymentMethodID string  `json:"payment_method_id" validate:"required"`
}

type AdminWalletRequest struct {
	UserID      string  `json:"user_id" validate:"required"`
	Action      string  `json:"action" validate:"required,oneof=credit debit toggle"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	IsActive    *bool   `json:"is_active"`
}
