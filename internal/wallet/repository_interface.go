package wallet

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

type Repository interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*Wallet, error)
	GetForUpdate(ctx context.Context, userID uuid.UUID) (*Wallet, error)
	Get(ctx context.Context, userID uuid.UUID) (*Wallet, error)
	Debit(ctx context.Context, e Entry) (*Transaction, error)
	Credit(ctx context.Context, e Entry) (*Transaction, error)
	DebitCredits(ctx context.Context, credits int, e Entry) (*Transaction, error)
	CreditCredits(ctx context.Context, credits int, e Entry) (*Transaction, error)
	TopUp(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*Transaction, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, f Filter) ([]Transaction, error)
	SetTransactionStatus(ctx context.Context, id uuid.UUID, status TransactionStatus) error
}
