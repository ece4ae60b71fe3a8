package amortization

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/credsimples/loan-engine/pkg/errors"
)

// Plan holds the level-payment outputs for a loan. TotalPayment and
// TotalInterest are informational (simulation/display); ledger bookkeeping
// works off Payment alone.
type Plan struct {
	Payment       decimal.Decimal `json:"payment"`
	TotalPayment  decimal.Decimal `json:"total_payment"`
	TotalInterest decimal.Decimal `json:"total_interest"`
}

// Calculate computes the level monthly payment for a loan.
//
// For monthlyRate == 0 the payment is a plain principal split P/n, otherwise
// the standard annuity formula P * r * (1+r)^n / ((1+r)^n - 1).
// The power term is computed in float64 and converted back to decimal for
// monetary rounding.
func Calculate(principal, monthlyRate decimal.Decimal, termMonths int) (*Plan, error) {
	if principal.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.WrapInvalidSchedule(
			fmt.Sprintf("principal must be greater than zero, got %s", principal))
	}
	if termMonths <= 0 {
		return nil, apperrors.WrapInvalidSchedule(
			fmt.Sprintf("term must be at least 1 month, got %d", termMonths))
	}
	if monthlyRate.IsNegative() {
		return nil, apperrors.WrapInvalidSchedule(
			fmt.Sprintf("interest rate must not be negative, got %s", monthlyRate))
	}

	var payment decimal.Decimal
	if monthlyRate.IsZero() {
		payment = principal.Div(decimal.NewFromInt(int64(termMonths))).Round(2)
	} else {
		r := monthlyRate.InexactFloat64()
		n := float64(termMonths)
		factor := math.Pow(1+r, n)
		raw := principal.InexactFloat64() * r * factor / (factor - 1)
		if math.IsNaN(raw) || math.IsInf(raw, 0) {
			return nil, apperrors.WrapInvalidSchedule(
				fmt.Sprintf("computed payment is not finite for rate %s over %d months", monthlyRate, termMonths))
		}
		payment = decimal.NewFromFloat(raw).Round(2)
	}

	total := payment.Mul(decimal.NewFromInt(int64(termMonths)))
	return &Plan{
		Payment:       payment,
		TotalPayment:  total,
		TotalInterest: total.Sub(principal),
	}, nil
}

// DueDate returns the due date of installment number (1-indexed): the loan
// start date plus that many calendar months. When the target month is shorter
// than the start day the date clamps to the month's last day, so a loan
// starting Jan 31 falls due Feb 28, Mar 31, Apr 30 and never skips or doubles
// a month the way AddDate's overflow normalization would.
func DueDate(startDate time.Time, number int) time.Time {
	first := time.Date(startDate.Year(), startDate.Month()+time.Month(number), 1,
		startDate.Hour(), startDate.Minute(), startDate.Second(), startDate.Nanosecond(),
		startDate.Location())

	day := startDate.Day()
	if last := daysInMonth(first); day > last {
		day = last
	}

	return first.AddDate(0, 0, day-1)
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// IsPastDue reports whether a due date has passed relative to now.
func IsPastDue(dueDate, now time.Time) bool {
	return now.After(dueDate)
}
