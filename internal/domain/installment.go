package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	InstallmentStatusPending       = "pending"
	InstallmentStatusPartiallyPaid = "partially_paid"
	InstallmentStatusPaid          = "paid"
	InstallmentStatusOverdue       = "overdue"
)

// Installment is one scheduled periodic obligation of a loan. Numbers run
// contiguously 1..term; due dates advance one calendar month per installment
// from the loan start date. OriginalAmount is retained for recomputation;
// PaidAmount tracks principal-schedule payments only, late fees accumulate in
// LateFeePaid so that PaidAmount never exceeds Amount on their account.
type Installment struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	LoanID         uuid.UUID       `json:"loan_id" db:"loan_id"`
	Number         int             `json:"number" db:"number"`
	DueDate        time.Time       `json:"due_date" db:"due_date"`
	Amount         decimal.Decimal `json:"amount" db:"amount"`
	OriginalAmount decimal.Decimal `json:"original_amount" db:"original_amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount" db:"paid_amount"`
	LateFeePaid    decimal.Decimal `json:"late_fee_paid" db:"late_fee_paid"`
	Status         string          `json:"status" db:"status"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// Remaining returns the unpaid portion of the scheduled amount.
func (i *Installment) Remaining() decimal.Decimal {
	remaining := i.Amount.Sub(i.PaidAmount)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

type ScheduleResponse struct {
	LoanID       string         `json:"loan_id"`
	Installments []*Installment `json:"installments"`
}
