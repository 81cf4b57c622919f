package domain

import (
	"time"

	"github.com/google/uuid"
)

// Transaction statuses. Provider statuses are mapped onto these before any
// write; "paid" is terminal.
const (
	TxPending = "pending"
	TxPaid    = "paid"
	TxFailed  = "failed"
)

// Transaction is one Kashier payment attempt for a subscription plan.
// MerchantOrderID is the key echoed back by webhooks and redirects.
type Transaction struct {
	ID              uuid.UUID `json:"id"`
	MerchantOrderID string    `json:"merchant_order_id"`
	UserID          uuid.UUID `json:"user_id"`
	PlanID          string    `json:"plan_id"`
	Amount          string    `json:"amount"`
	Currency        string    `json:"currency"`
	Status          string    `json:"status"`
	ProviderTxID    string    `json:"provider_tx_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
