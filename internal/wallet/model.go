package wallet

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

type TransactionType string
type TransactionStatus string

const (
	TypePurchaseCredit      TransactionType = "purchase_credit"
	TypeDiscountCredit      TransactionType = "discount_credit"
	TypeServiceFee          TransactionType = "service_fee"
	TypeWithdrawal          TransactionType = "withdrawal"
	TypeRefund              TransactionType = "refund"
	TypePromotion           TransactionType = "promotion"
	TypeAddMoney            TransactionType = "add_money"
	TypeSubscriptionDebt    TransactionType = "subscription_debt"
	TypeSubscriptionPayment TransactionType = "subscription_payment"
	TypeServicePayment      TransactionType = "service_payment"
	TypeServiceSalary       TransactionType = "service_salary"

	StatusCompleted TransactionStatus = "completed"
	StatusPending   TransactionStatus = "pending"
	StatusCancelled TransactionStatus = "cancelled"
	StatusUsed      TransactionStatus = "used"
)

func (t TransactionType) IsValid() bool {
	switch t {
	case TypePurchaseCredit, TypeDiscountCredit, TypeServiceFee, TypeWithdrawal, TypeRefund,
		TypePromotion, TypeAddMoney, TypeSubscriptionDebt, TypeSubscriptionPayment,
		TypeServicePayment, TypeServiceSalary:
		return true
	}
	return false
}

func (s TransactionStatus) IsValid() bool {
	switch s {
	case StatusCompleted, StatusPending, StatusCancelled, StatusUsed:
		return true
	}
	return false
}

// Wallet хранит денежный баланс пользователя и кредиты на отклики.
type Wallet struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	UserID        uuid.UUID       `db:"user_id" json:"user_id"`
	Balance       decimal.Decimal `db:"balance" json:"balance"`
	CreditBalance int             `db:"credit_balance" json:"credit_balance"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

type Transaction struct {
	ID            uuid.UUID         `db:"id" json:"id"`
	WalletID      uuid.UUID         `db:"wallet_id" json:"wallet_id"`
	Amount        decimal.Decimal   `db:"amount" json:"amount"`
	DescriptionEN string            `db:"description_en" json:"description_en"`
	DescriptionAR string            `db:"description_ar" json:"description_ar"`
	Type          TransactionType   `db:"type" json:"type"`
	Status        TransactionStatus `db:"status" json:"status"`
	JobID         *uuid.UUID        `db:"job_id" json:"job_id,omitempty"`
	PromotionID   *uuid.UUID        `db:"promotion_id" json:"promotion_id,omitempty"`
	CreatedAt     time.Time         `db:"created_at" json:"created_at"`
}

type Description struct {
	EN string
	AR string
}

// Entry describes one wallet mutation together with the ledger record written for it.
type Entry struct {
	UserID      uuid.UUID
	Amount      decimal.Decimal
	Type        TransactionType
	Status      TransactionStatus
	Description Description
	JobID       *uuid.UUID
	PromotionID *uuid.UUID
}

type Filter struct {
	Type   TransactionType
	Status TransactionStatus
	Limit  uint64
	Offset uint64
}
