package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment modes. Total settles the installment's remaining scheduled amount
// plus any supplied late fee; Partial pays an explicit amount against the
// schedule; InterestOnly pays the supplied late fee alone. The late fee is
// always an input computed by the caller, never derived here.
const (
	PaymentModeTotal        = "total"
	PaymentModePartial      = "partial"
	PaymentModeInterestOnly = "interest_only"
)

// Payment is the audit record of one payment application.
type Payment struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	LoanID            uuid.UUID       `json:"loan_id" db:"loan_id"`
	InstallmentNumber int             `json:"installment_number" db:"installment_number"`
	AccountID         uuid.UUID       `json:"account_id" db:"account_id"`
	Mode              string          `json:"mode" db:"mode"`
	Amount            decimal.Decimal `json:"amount" db:"amount"`
	LateFee           decimal.Decimal `json:"late_fee" db:"late_fee"`
	PaidAt            time.Time       `json:"paid_at" db:"paid_at"`
}

type ApplyPaymentRequest struct {
	InstallmentNumber int             `json:"installment_number" validate:"required,gte=1"`
	AccountID         string          `json:"account_id" validate:"required,uuid4"`
	Mode              string          `json:"mode" validate:"required,oneof=total partial interest_only"`
	Amount            decimal.Decimal `json:"amount" validate:"decimal_gte=0"`
	LateFee           decimal.Decimal `json:"late_fee" validate:"decimal_gte=0"`
}

type ApplyPaymentResponse struct {
	Payment        *Payment     `json:"payment"`
	Installment    *Installment `json:"installment"`
	LoanStatus     string       `json:"loan_status"`
	CustomerStatus string       `json:"customer_status"`
}
