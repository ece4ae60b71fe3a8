package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TransactionTypeCredit = "credit"
	TransactionTypeDebit  = "debit"
)

// BankAccount is the cash ledger the payment flow credits. Balance
// consistency is the account repository's concern; the loan core only emits
// credit/debit instructions against it.
type BankAccount struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Bank      string          `json:"bank" db:"bank"`
	Balance   decimal.Decimal `json:"balance" db:"balance"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// Transaction is one ledger movement on a bank account.
type Transaction struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	AccountID   uuid.UUID       `json:"account_id" db:"account_id"`
	Type        string          `json:"type" db:"type"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Description string          `json:"description" db:"description"`
	OccurredAt  time.Time       `json:"occurred_at" db:"occurred_at"`
}

// DTOs for requests and responses

type CreateAccountRequest struct {
	Name           string          `json:"name" validate:"required"`
	Bank           string          `json:"bank" validate:"required"`
	InitialBalance decimal.Decimal `json:"initial_balance" validate:"decimal_gte=0"`
}

type CreateTransactionRequest struct {
	Type        string          `json:"type" validate:"required,oneof=credit debit"`
	Amount      decimal.Decimal `json:"amount" validate:"decimal_gt=0"`
	Description string          `json:"description" validate:"required"`
}
