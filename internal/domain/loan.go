package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	LoanStatusOnTime  = "on_time"
	LoanStatusOverdue = "overdue"
	LoanStatusPaid    = "paid"
)

// Loan represents a loan entity. MonthlyPayment is the level amortized
// payment computed at origination; Status is recomputed from the installment
// ledger, never written directly by callers.
type Loan struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	CustomerID     uuid.UUID       `json:"customer_id" db:"customer_id"`
	Amount         decimal.Decimal `json:"amount" db:"amount"`
	MonthlyRate    decimal.Decimal `json:"monthly_rate" db:"monthly_rate"`
	TermMonths     int             `json:"term_months" db:"term_months"`
	StartDate      time.Time       `json:"start_date" db:"start_date"`
	LateFeeRate    decimal.Decimal `json:"late_fee_rate" db:"late_fee_rate"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment" db:"monthly_payment"`
	Status         string          `json:"status" db:"status"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// DTOs for requests and responses

type CreateLoanRequest struct {
	CustomerID  string          `json:"customer_id" validate:"required,uuid4"`
	Amount      decimal.Decimal `json:"amount" validate:"decimal_gt=0"`
	MonthlyRate decimal.Decimal `json:"monthly_rate" validate:"decimal_gte=0"`
	TermMonths  int             `json:"term_months" validate:"required,gte=1"`
	StartDate   time.Time       `json:"start_date" validate:"required"`
	LateFeeRate decimal.Decimal `json:"late_fee_rate" validate:"decimal_gte=0"`
}

type UpdateLoanRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"decimal_gt=0"`
	MonthlyRate decimal.Decimal `json:"monthly_rate" validate:"decimal_gte=0"`
	TermMonths  int             `json:"term_months" validate:"required,gte=1"`
	StartDate   time.Time       `json:"start_date" validate:"required"`
	LateFeeRate decimal.Decimal `json:"late_fee_rate" validate:"decimal_gte=0"`
}

type CreateLoanResponse struct {
	Loan         *Loan          `json:"loan"`
	Installments []*Installment `json:"installments"`
	Plan         *LoanPlan      `json:"plan"`
}

// LoanPlan mirrors the informational amortization outputs for display.
type LoanPlan struct {
	Payment       decimal.Decimal `json:"payment"`
	TotalPayment  decimal.Decimal `json:"total_payment"`
	TotalInterest decimal.Decimal `json:"total_interest"`
}

// UpdateLoanResponse reports the destructive schedule regeneration: editing
// loan terms discards every installment along with any payment history
// recorded on it. DiscardedPaid tells the caller how many discarded
// installments had money against them, schedule payments or late fees.
type UpdateLoanResponse struct {
	Loan                *Loan          `json:"loan"`
	Installments        []*Installment `json:"installments"`
	ScheduleRegenerated bool           `json:"schedule_regenerated"`
	DiscardedPaid       int            `json:"discarded_paid_installments"`
}

type OutstandingResponse struct {
	LoanID      string          `json:"loan_id"`
	Outstanding decimal.Decimal `json:"outstanding"`
}
