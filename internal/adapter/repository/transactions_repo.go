package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/nasreldeenmohamed/sera-pro-server/internal/domain"
)

type TransactionsRepo struct {
	pool *pgxpool.Pool
}

func NewTransactionsRepo(pool *pgxpool.Pool) *TransactionsRepo {
	return &TransactionsRepo{pool: pool}
}

func (r *TransactionsRepo) Create(ctx context.Context, tx *domain.Transaction) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO transactions (id, merchant_order_id, user_id, plan_id, amount, currency, status, provider_tx_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		tx.ID, tx.MerchantOrderID, tx.UserID, tx.PlanID, tx.Amount, tx.Currency, tx.Status, tx.ProviderTxID, tx.CreatedAt, tx.UpdatedAt)
	return err
}

func (r *TransactionsRepo) GetByOrderID(ctx context.Context, orderID string) (*domain.Transaction, error) {
	var tx domain.Transaction
	err := r.pool.QueryRow(ctx, `SELECT id, merchant_order_id, user_id, plan_id, amount, currency, status, provider_tx_id, created_at, updated_at
		FROM transactions WHERE merchant_order_id = $1`, orderID).
		Scan(&tx.ID, &tx.MerchantOrderID, &tx.UserID, &tx.PlanID, &tx.Amount, &tx.Currency, &tx.Status, &tx.ProviderTxID, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// SetStatus updates the transaction status unless the row is already paid.
// The WHERE guard makes duplicate webhook deliveries idempotent: only the
// delivery that actually flips the row sees changed=true, so subscription
// activation fires exactly once.
func (r *TransactionsRepo) SetStatus(ctx context.Context, orderID, status, providerTxID string) (changed bool, err error) {
	tag, err := r.pool.Exec(ctx, `UPDATE transactions
		SET status = $2, provider_tx_id = COALESCE(NULLIF($3, ''), provider_tx_id), updated_at = now()
		WHERE merchant_order_id = $1 AND status <> $4 AND status <> $2`,
		orderID, status, providerTxID, domain.TxPaid)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
