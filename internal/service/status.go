package service

import (
	"context"
	"time"

	"github.com/credsimples/loan-engine/internal/domain"
	"github.com/credsimples/loan-engine/internal/repository"
	"github.com/credsimples/loan-engine/pkg/amortization"
)

// LoanStatusFor derives a loan's status from its installment ledger.
// All installments paid means the loan is paid; an unpaid installment whose
// due date has passed makes the whole loan overdue; otherwise it is on time.
// Idempotent: same ledger and clock, same answer.
func LoanStatusFor(installments []*domain.Installment, now time.Time) string {
	if len(installments) == 0 {
		return domain.LoanStatusOnTime
	}

	allPaid := true
	for _, installment := range installments {
		if installment.Status == domain.InstallmentStatusPaid {
			continue
		}
		allPaid = false

		if installment.Status == domain.InstallmentStatusOverdue ||
			amortization.IsPastDue(installment.DueDate, now) {
			return domain.LoanStatusOverdue
		}
	}

	if allPaid {
		return domain.LoanStatusPaid
	}

	return domain.LoanStatusOnTime
}

// CustomerStatusFor rolls a customer's loans up into one aggregate status.
// A customer with no loans reports "paid" (clear) by convention.
func CustomerStatusFor(loans []*domain.Loan) string {
	if len(loans) == 0 {
		return domain.CustomerStatusPaid
	}

	anyOpen := false
	for _, loan := range loans {
		switch loan.Status {
		case domain.LoanStatusOverdue:
			return domain.CustomerStatusDelinquent
		case domain.LoanStatusPaid:
		default:
			anyOpen = true
		}
	}

	if anyOpen {
		return domain.CustomerStatusActive
	}

	return domain.CustomerStatusPaid
}

// recomputeStatuses recomputes and persists a loan's status and the owning
// customer's aggregate status. Runs against whatever repositories it is
// handed, so callers inside a unit of work cascade transactionally.
func recomputeStatuses(ctx context.Context, r repository.Repos, loan *domain.Loan, now time.Time) (string, string, error) {
	installments, err := r.Loans.GetInstallments(ctx, loan.ID)
	if err != nil {
		return "", "", err
	}

	loanStatus := LoanStatusFor(installments, now)
	if err := r.Loans.UpdateStatus(ctx, loan.ID, loanStatus); err != nil {
		return "", "", err
	}

	loans, err := r.Loans.GetByCustomer(ctx, loan.CustomerID)
	if err != nil {
		return "", "", err
	}

	customerStatus := CustomerStatusFor(loans)
	if err := r.Customers.UpdateLoanStatus(ctx, loan.CustomerID, customerStatus); err != nil {
		return "", "", err
	}

	return loanStatus, customerStatus, nil
}
