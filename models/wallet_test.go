package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewDebitTransactionSnapshots(t *testing.T) {
	walletID := primitive.NewObjectID()
	tx := NewDebitTransaction(walletID, 30000, 50000, "HER-AB12CD34", "Payment for Shipment", map[string]interface{}{"shipment_id": "x"})

	assert.Equal(t, WalletDebit, tx.Type)
	assert.InDelta(t, 50000.0, tx.BalanceBefore, 1e-9)
	assert.InDelta(t, 20000.0, tx.BalanceAfter, 1e-9)
	assert.Equal(t, "HER-AB12CD34", tx.Reference)
	assert.Equal(t, "success", tx.Status)
	assert.False(t, tx.ID.IsZero())
}

func TestNewCreditTransactionSnapshots(t *testing.T) {
	walletID := primitive.NewObjectID()
	tx := NewCreditTransaction(walletID, 10000, 20000, "REF_1", "Wallet funding", nil)

	assert.Equal(t, WalletCredit, tx.Type)
	assert.InDelta(t, 20000.0, tx.BalanceBefore, 1e-9)
	assert.InDelta(t, 30000.0, tx.BalanceAfter, 1e-9)
}

func TestLedgerReplayMatchesBalance(t *testing.T) {
	walletID := primitive.NewObjectID()
	balance := 0.0
	var ledger []WalletTransaction

	credit := NewCreditTransaction(walletID, 50000, balance, "FUND_1", "funding", nil)
	ledger = append(ledger, credit)
	balance = credit.BalanceAfter

	debit := NewDebitTransaction(walletID, 30000, balance, "HER-00000001", "booking", nil)
	ledger = append(ledger, debit)
	balance = debit.BalanceAfter

	replayed := 0.0
	for _, tx := range ledger {
		assert.InDelta(t, replayed, tx.BalanceBefore, 1e-9)
		if tx.Type == WalletCredit {
			replayed += tx.Amount
		} else {
			replayed -= tx.Amount
		}
		assert.InDelta(t, replayed, tx.BalanceAfter, 1e-9)
	}
	assert.InDelta(t, 20000.0, balance, 1e-9)
}
