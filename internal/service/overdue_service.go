package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/credsimples/loan-engine/internal/domain"
	"github.com/credsimples/loan-engine/internal/repository"
	"github.com/credsimples/loan-engine/pkg/amortization"
	customError "github.com/credsimples/loan-engine/pkg/errors"
)

// OverdueService runs the daily delinquency sweep.
type OverdueService struct {
	Uow repository.UnitOfWork
}

func NewOverdueService(uow repository.UnitOfWork) *OverdueService {
	return &OverdueService{Uow: uow}
}

// MarkOverdue flags every unpaid installment past its due date as overdue and
// recomputes the affected loan and customer statuses. Each loan is processed
// in its own transaction so one bad loan does not stall the sweep.
// Idempotent: a second run with no intervening payments changes nothing.
func (s *OverdueService) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	var ids []uuid.UUID
	err := s.Uow.WithinTx(ctx, func(r repository.Repos) error {
		pastDue, err := r.Loans.ListWithPastDueInstallments(ctx, now)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}
		ids = pastDue
		return nil
	})
	if err != nil {
		return 0, err
	}

	affected := 0
	for _, loanID := range ids {
		if err := s.markLoanOverdue(ctx, loanID, now); err != nil {
			log.Printf("overdue sweep failed for loan %s: %v", loanID, err)
			continue
		}
		affected++
	}

	return affected, nil
}

func (s *OverdueService) markLoanOverdue(ctx context.Context, loanID uuid.UUID, now time.Time) error {
	return s.Uow.WithinTx(ctx, func(r repository.Repos) error {
		loan, err := r.Loans.GetByID(ctx, loanID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return customError.WrapLoanNotFound(loanID.String())
			}
			return customError.WrapDatabaseError(err)
		}

		installments, err := r.Loans.GetInstallments(ctx, loanID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}

		for _, installment := range installments {
			if installment.Status == domain.InstallmentStatusPaid ||
				installment.Status == domain.InstallmentStatusOverdue {
				continue
			}
			if !amortization.IsPastDue(installment.DueDate, now) {
				continue
			}

			installment.Status = domain.InstallmentStatusOverdue
			if err := r.Loans.UpdateInstallment(ctx, installment); err != nil {
				return customError.WrapDatabaseError(err)
			}
		}

		if _, _, err := recomputeStatuses(ctx, r, loan, now); err != nil {
			return customError.WrapDatabaseError(err)
		}

		return nil
	})
}
