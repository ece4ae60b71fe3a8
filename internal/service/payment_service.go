package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/credsimples/loan-engine/internal/config"
	"github.com/credsimples/loan-engine/internal/domain"
	"github.com/credsimples/loan-engine/internal/repository"
	customError "github.com/credsimples/loan-engine/pkg/errors"
)

type PaymentService struct {
	Uow         repository.UnitOfWork
	PaymentRepo repository.PaymentRepository
	LoanRepo    repository.LoanRepository
	redis       *redis.Client
	config      *config.Config
}

func NewPaymentService(
	uow repository.UnitOfWork,
	paymentRepo repository.PaymentRepository,
	loanRepo repository.LoanRepository,
	redis *redis.Client,
	config *config.Config,
) *PaymentService {
	return &PaymentService{
		Uow:         uow,
		PaymentRepo: paymentRepo,
		LoanRepo:    loanRepo,
		redis:       redis,
		config:      config,
	}
}

// ApplyPayment applies a payment to one installment of a loan and cascades
// the loan and customer status recomputation inside the same transaction.
//
// Modes resolve the amounts as follows. Total settles the installment's
// remaining scheduled amount plus the supplied late fee; Partial applies the
// caller's explicit amount against the schedule; InterestOnly applies the
// supplied late fee alone. The late fee is an input accrued by the caller
// (scheduled amount owed times the loan's late fee rate), never computed
// here. A resolved amount of zero or less is rejected before any mutation.
//
// On success the chosen bank account is credited by the full payment amount
// as part of the same unit of work.
func (s *PaymentService) ApplyPayment(ctx context.Context, loanID uuid.UUID, request *domain.ApplyPaymentRequest) (*domain.ApplyPaymentResponse, error) {
	accountID, err := uuid.Parse(request.AccountID)
	if err != nil {
		return nil, customError.WrapAccountNotFound(request.AccountID)
	}

	now := time.Now()
	response := &domain.ApplyPaymentResponse{}

	err = s.Uow.WithinTx(ctx, func(r repository.Repos) error {
		loan, err := r.Loans.GetByID(ctx, loanID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return customError.WrapLoanNotFound(loanID.String())
			}
			return customError.WrapDatabaseError(err)
		}

		installment, err := r.Loans.GetInstallment(ctx, loanID, request.InstallmentNumber)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return customError.WrapInstallmentNotFound(loanID.String(), request.InstallmentNumber)
			}
			return customError.WrapDatabaseError(err)
		}

		principal, lateFee, err := resolvePayment(installment, request)
		if err != nil {
			return err
		}
		amount := principal.Add(lateFee)

		if _, err := r.Accounts.GetByID(ctx, accountID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return customError.WrapAccountNotFound(request.AccountID)
			}
			return customError.WrapDatabaseError(err)
		}

		installment.PaidAmount = installment.PaidAmount.Add(principal)
		installment.LateFeePaid = installment.LateFeePaid.Add(lateFee)
		applyInstallmentStatus(installment)

		if err := r.Loans.UpdateInstallment(ctx, installment); err != nil {
			return customError.WrapDatabaseError(err)
		}

		payment := &domain.Payment{
			ID:                uuid.New(),
			LoanID:            loanID,
			InstallmentNumber: installment.Number,
			AccountID:         accountID,
			Mode:              request.Mode,
			Amount:            amount,
			LateFee:           lateFee,
			PaidAt:            now,
		}
		if err := r.Payments.Create(ctx, payment); err != nil {
			return customError.WrapDatabaseError(err)
		}

		// Credit instruction to the cash ledger.
		transaction := &domain.Transaction{
			ID:          uuid.New(),
			AccountID:   accountID,
			Type:        domain.TransactionTypeCredit,
			Amount:      amount,
			Description: fmt.Sprintf("Payment on installment %d of loan %s", installment.Number, loanID),
			OccurredAt:  now,
		}
		if err := r.Accounts.CreateTransaction(ctx, transaction); err != nil {
			return customError.WrapDatabaseError(err)
		}
		if err := r.Accounts.UpdateBalance(ctx, accountID, amount); err != nil {
			return customError.WrapDatabaseError(err)
		}

		loanStatus, customerStatus, err := recomputeStatuses(ctx, r, loan, now)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}

		response.Payment = payment
		response.Installment = installment
		response.LoanStatus = loanStatus
		response.CustomerStatus = customerStatus

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSchedule(ctx, loanID)

	return response, nil
}

// GetPayments lists a loan's payment history, oldest first.
func (s *PaymentService) GetPayments(ctx context.Context, loanID uuid.UUID) ([]*domain.Payment, error) {
	if _, err := s.LoanRepo.GetByID(ctx, loanID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoanNotFound(loanID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	payments, err := s.PaymentRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return payments, nil
}

// resolvePayment splits a payment request into its schedule portion and its
// late fee portion. Zero or negative resolved amounts are rejected, as are
// partial amounts beyond the installment's remaining scheduled amount: paid
// amount never exceeds the scheduled amount, only LateFeePaid moves past it.
func resolvePayment(installment *domain.Installment, request *domain.ApplyPaymentRequest) (decimal.Decimal, decimal.Decimal, error) {
	var principal, lateFee decimal.Decimal

	switch request.Mode {
	case domain.PaymentModeTotal:
		principal = installment.Remaining()
		lateFee = request.LateFee
		if principal.LessThanOrEqual(decimal.Zero) {
			return decimal.Zero, decimal.Zero,
				customError.WrapNothingOutstanding(installment.LoanID.String(), installment.Number)
		}
	case domain.PaymentModePartial:
		principal = request.Amount
		lateFee = decimal.Zero
		if principal.GreaterThan(installment.Remaining()) {
			return decimal.Zero, decimal.Zero, customError.WrapInvalidPaymentAmount(
				fmt.Sprintf("%s exceeds the remaining %s on installment %d",
					principal, installment.Remaining(), installment.Number))
		}
	case domain.PaymentModeInterestOnly:
		principal = decimal.Zero
		lateFee = request.LateFee
	default:
		return decimal.Zero, decimal.Zero,
			customError.WrapInvalidPaymentAmount(fmt.Sprintf("unknown payment mode %q", request.Mode))
	}

	total := principal.Add(lateFee)
	if total.LessThanOrEqual(decimal.Zero) || principal.IsNegative() || lateFee.IsNegative() {
		return decimal.Zero, decimal.Zero, customError.WrapInvalidPaymentAmount(total.String())
	}

	return principal, lateFee, nil
}

// applyInstallmentStatus recomputes an installment's status from its paid
// amount: paid when the schedule is covered, partially paid when something
// but not everything is covered, otherwise unchanged.
func applyInstallmentStatus(installment *domain.Installment) {
	switch {
	case installment.PaidAmount.GreaterThanOrEqual(installment.Amount):
		installment.Status = domain.InstallmentStatusPaid
	case installment.PaidAmount.GreaterThan(decimal.Zero):
		installment.Status = domain.InstallmentStatusPartiallyPaid
	}
}

func (s *PaymentService) invalidateSchedule(ctx context.Context, loanID uuid.UUID) {
	if s.redis == nil {
		return
	}

	if err := s.redis.Del(ctx, scheduleCacheKey(loanID)).Err(); err != nil {
		log.Printf("schedule cache invalidation failed for loan %s: %v", loanID, err)
	}
}
