package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/nasreldeenmohamed/sera-pro-server/internal/adapter/repository"
	"github.com/nasreldeenmohamed/sera-pro-server/internal/domain"
	"github.com/nasreldeenmohamed/sera-pro-server/pkg/kashier"
)

// ErrUnknownOrder is returned when a webhook or redirect references a
// merchantOrderId we never issued.
var ErrUnknownOrder = errors.New("unknown merchant order id")

// ErrUnknownPlan is returned for checkout requests naming a plan we don't sell.
var ErrUnknownPlan = errors.New("unknown plan")

// TxStore is what payment flows need from the transactions repository.
type TxStore interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	GetByOrderID(ctx context.Context, orderID string) (*domain.Transaction, error)
	SetStatus(ctx context.Context, orderID, status, providerTxID string) (bool, error)
}

// CVStore is what payment flows need from the CVs repository.
type CVStore interface {
	ActivateSubscription(ctx context.Context, userID uuid.UUID, until time.Time) error
}

// Payments owns checkout creation and webhook/redirect reconciliation.
type Payments struct {
	txs TxStore
	cvs CVStore

	merchantID  string
	apiKey      string
	checkoutURL string
	mode        string
}

func NewPayments(txs TxStore, cvs CVStore, merchantID, apiKey, checkoutURL, mode string) *Payments {
	if mode == "" {
		mode = "test"
	}
	return &Payments{txs: txs, cvs: cvs, merchantID: merchantID, apiKey: apiKey, checkoutURL: checkoutURL, mode: mode}
}

// CheckoutSession carries everything the client needs to open Kashier's
// hosted checkout for a pending transaction.
type CheckoutSession struct {
	MerchantID  string `json:"merchantId"`
	OrderID     string `json:"orderId"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Hash        string `json:"hash"`
	Mode        string `json:"mode"`
	RedirectURL string `json:"redirectUrl"`
}

// CreateCheckout records a pending transaction for the plan and signs the
// hosted-checkout parameters.
func (p *Payments) CreateCheckout(ctx context.Context, userID uuid.UUID, planID string) (*CheckoutSession, error) {
	plan, ok := domain.PlanByID(planID)
	if !ok {
		return nil, ErrUnknownPlan
	}

	now := time.Now()
	tx := &domain.Transaction{
		ID:              uuid.New(),
		MerchantOrderID: uuid.New().String(),
		UserID:          userID,
		PlanID:          plan.ID,
		Amount:          plan.Amount,
		Currency:        plan.Currency,
		Status:          domain.TxPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := p.txs.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	hash := kashier.OrderHash(p.merchantID, tx.MerchantOrderID, tx.Amount, tx.Currency, p.apiKey)

	q := url.Values{}
	q.Set("merchantId", p.merchantID)
	q.Set("orderId", tx.MerchantOrderID)
	q.Set("amount", tx.Amount)
	q.Set("currency", tx.Currency)
	q.Set("hash", hash)
	q.Set("mode", p.mode)

	return &CheckoutSession{
		MerchantID:  p.merchantID,
		OrderID:     tx.MerchantOrderID,
		Amount:      tx.Amount,
		Currency:    tx.Currency,
		Hash:        hash,
		Mode:        p.mode,
		RedirectURL: p.checkoutURL + "?" + q.Encode(),
	}, nil
}

// Reconcile applies a provider status to the stored transaction. The status
// write is a compare-and-set (SetStatus refuses to touch a paid row), so a
// duplicate or racing delivery can't double-activate: activation only runs
// when this call actually flipped the row to paid.
func (p *Payments) Reconcile(ctx context.Context, orderID, providerStatus, providerTxID string) (status string, activated bool, err error) {
	tx, err := p.txs.GetByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", false, ErrUnknownOrder
		}
		return "", false, err
	}

	mapped := kashier.MapStatus(providerStatus)
	if tx.Status == mapped {
		return mapped, false, nil
	}

	changed, err := p.txs.SetStatus(ctx, orderID, mapped, providerTxID)
	if err != nil {
		return "", false, fmt.Errorf("update transaction %s: %w", orderID, err)
	}
	if !changed || mapped != domain.TxPaid {
		return mapped, false, nil
	}

	plan, ok := domain.PlanByID(tx.PlanID)
	if !ok {
		// Paid for a plan that has since disappeared; keep the payment
		// recorded, surface the inconsistency.
		return mapped, false, fmt.Errorf("transaction %s references %w %q", orderID, ErrUnknownPlan, tx.PlanID)
	}

	until := time.Now().Add(plan.Duration())
	if err := p.cvs.ActivateSubscription(ctx, tx.UserID, until); err != nil {
		return mapped, false, fmt.Errorf("activate subscription for %s: %w", tx.UserID, err)
	}
	slog.Info("subscription activated", "user_id", tx.UserID, "plan", plan.ID, "until", until)
	return mapped, true, nil
}
