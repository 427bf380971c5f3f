package wallet

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/gofrs/uuid/v5"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"servicehub/internal/apperr"
	"servicehub/internal/db"
)

const walletColumns = `id, user_id, balance, credit_balance, created_at, updated_at`

type repository struct {
	db *sqlx.DB
	tx db.TxManager
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database, tx: db.NewTxManager(database)}
}

func (r *repository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*Wallet, error) {
	conn := db.Conn(ctx, r.db)

	w := &Wallet{}
	err := conn.GetContext(ctx, w, `SELECT `+walletColumns+` FROM wallets WHERE user_id = $1`, userID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	return r.insert(ctx, conn, userID)
}

func (r *repository) Get(ctx context.Context, userID uuid.UUID) (*Wallet, error) {
	w := &Wallet{}
	err := db.Conn(ctx, r.db).GetContext(ctx, w, `SELECT `+walletColumns+` FROM wallets WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("wallet")
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

// insert tolerates a concurrent lazy creation of the same wallet.
func (r *repository) insert(ctx context.Context, conn db.Executor, userID uuid.UUID) (*Wallet, error) {
	w := &Wallet{}
	err := conn.QueryRowxContext(ctx,
		`INSERT INTO wallets (id, user_id)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET updated_at = wallets.updated_at
		 RETURNING `+walletColumns,
		uuid.Must(uuid.NewV4()), userID,
	).StructScan(w)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// GetForUpdate locks the wallet row until the surrounding transaction ends.
func (r *repository) GetForUpdate(ctx context.Context, userID uuid.UUID) (*Wallet, error) {
	return r.lockForUpdate(ctx, db.Conn(ctx, r.db), userID)
}

func (r *repository) lockForUpdate(ctx context.Context, conn db.Executor, userID uuid.UUID) (*Wallet, error) {
	w := &Wallet{}
	err := conn.QueryRowxContext(ctx,
		`SELECT `+walletColumns+`
		 FROM wallets
		 WHERE user_id = $1
		 FOR UPDATE`,
		userID,
	).StructScan(w)
	if errors.Is(err, sql.ErrNoRows) {
		return r.insert(ctx, conn, userID)
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (r *repository) Debit(ctx context.Context, e Entry) (*Transaction, error) {
	return r.apply(ctx, e, e.Amount.Neg(), 0)
}

func (r *repository) Credit(ctx context.Context, e Entry) (*Transaction, error) {
	return r.apply(ctx, e, e.Amount, 0)
}

func (r *repository) DebitCredits(ctx context.Context, credits int, e Entry) (*Transaction, error) {
	return r.apply(ctx, e, decimal.Zero, -credits)
}

func (r *repository) CreditCredits(ctx context.Context, credits int, e Entry) (*Transaction, error) {
	return r.apply(ctx, e, decimal.Zero, credits)
}

// apply changes the wallet and records the ledger entry for it in one transaction.
func (r *repository) apply(ctx context.Context, e Entry, money decimal.Decimal, credits int) (*Transaction, error) {
	if e.Amount.IsNegative() {
		return nil, apperr.Validation("ledger amount must not be negative")
	}
	if !e.Type.IsValid() {
		return nil, apperr.Validation("unknown transaction type " + string(e.Type))
	}
	if e.Status == "" {
		e.Status = StatusCompleted
	}

	var t *Transaction
	err := r.tx.WithinTx(ctx, func(ctx context.Context) error {
		conn := db.Conn(ctx, r.db)

		w, err := r.lockForUpdate(ctx, conn, e.UserID)
		if err != nil {
			return err
		}

		newBalance := w.Balance.Add(money)
		if newBalance.IsNegative() {
			return apperr.ErrInsufficientBalance
		}
		newCredits := w.CreditBalance + credits
		if newCredits < 0 {
			return apperr.ErrInsufficientCredit
		}

		_, err = conn.ExecContext(ctx,
			`UPDATE wallets
			 SET balance = $1, credit_balance = $2, updated_at = NOW()
			 WHERE id = $3`,
			newBalance, newCredits, w.ID,
		)
		if err != nil {
			return err
		}

		t, err = r.insertTransaction(ctx, conn, w.ID, e)
		return err
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *repository) insertTransaction(ctx context.Context, conn db.Executor, walletID uuid.UUID, e Entry) (*Transaction, error) {
	t := &Transaction{
		ID:            uuid.Must(uuid.NewV4()),
		WalletID:      walletID,
		Amount:        e.Amount,
		DescriptionEN: e.Description.EN,
		DescriptionAR: e.Description.AR,
		Type:          e.Type,
		Status:        e.Status,
		JobID:         e.JobID,
		PromotionID:   e.PromotionID,
	}

	err := conn.QueryRowxContext(ctx,
		`INSERT INTO wallet_transactions (id, wallet_id, amount, description_en, description_ar, type, status, job_id, promotion_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at`,
		t.ID, t.WalletID, t.Amount, t.DescriptionEN, t.DescriptionAR, t.Type, t.Status, t.JobID, t.PromotionID,
	).Scan(&t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *repository) TopUp(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, apperr.Validation("top up amount must be positive")
	}
	return r.Credit(ctx, Entry{
		UserID: userID,
		Amount: amount,
		Type:   TypeAddMoney,
		Status: StatusCompleted,
		Description: Description{
			EN: "Wallet top up",
			AR: "شحن المحفظة",
		},
	})
}

func (r *repository) ListTransactions(ctx context.Context, userID uuid.UUID, f Filter) ([]Transaction, error) {
	if f.Limit == 0 {
		f.Limit = 50
	}

	stmt := sq.Select(
		"t.id", "t.wallet_id", "t.amount", "t.description_en", "t.description_ar",
		"t.type", "t.status", "t.job_id", "t.promotion_id", "t.created_at",
	).
		From("wallet_transactions t").
		Join("wallets w ON w.id = t.wallet_id").
		Where("w.user_id = ?", userID).
		OrderBy("t.created_at DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		PlaceholderFormat(sq.Dollar)

	if f.Type != "" {
		stmt = stmt.Where(sq.Eq{"t.type": string(f.Type)})
	}
	if f.Status != "" {
		stmt = stmt.Where(sq.Eq{"t.status": string(f.Status)})
	}

	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, err
	}

	txs := []Transaction{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &txs, query, args...); err != nil {
		return nil, err
	}
	return txs, nil
}

// SetTransactionStatus is the only mutation a recorded transaction allows.
func (r *repository) SetTransactionStatus(ctx context.Context, id uuid.UUID, status TransactionStatus) error {
	if !status.IsValid() {
		return apperr.Validation("unknown transaction status " + string(status))
	}

	res, err := db.Conn(ctx, r.db).ExecContext(ctx,
		`UPDATE wallet_transactions SET status = $1 WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return err
	}
	ok, err := db.RowsAffected(res)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("transaction")
	}
	return nil
}
