package service

import (
	"context"
	"database/sql"
	"encoding/json"
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
	"github.com/credsimples/loan-engine/pkg/amortization"
	customError "github.com/credsimples/loan-engine/pkg/errors"
)

const scheduleCacheTTL = 10 * time.Minute

type LoanService struct {
	Uow          repository.UnitOfWork
	LoanRepo     repository.LoanRepository
	CustomerRepo repository.CustomerRepository
	redis        *redis.Client
	config       *config.Config
}

func NewLoanService(
	uow repository.UnitOfWork,
	loanRepo repository.LoanRepository,
	customerRepo repository.CustomerRepository,
	redis *redis.Client,
	config *config.Config,
) *LoanService {
	return &LoanService{
		Uow:          uow,
		LoanRepo:     loanRepo,
		CustomerRepo: customerRepo,
		redis:        redis,
		config:       config,
	}
}

// CreateLoan originates a loan and its full installment schedule in one
// transaction, then recomputes the owning customer's aggregate status.
func (s *LoanService) CreateLoan(ctx context.Context, request *domain.CreateLoanRequest) (*domain.CreateLoanResponse, error) {
	customerID, err := uuid.Parse(request.CustomerID)
	if err != nil {
		return nil, customError.WrapCustomerNotFound(request.CustomerID)
	}

	plan, err := amortization.Calculate(request.Amount, request.MonthlyRate, request.TermMonths)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	loan := &domain.Loan{
		ID:             uuid.New(),
		CustomerID:     customerID,
		Amount:         request.Amount,
		MonthlyRate:    request.MonthlyRate,
		TermMonths:     request.TermMonths,
		StartDate:      request.StartDate,
		LateFeeRate:    request.LateFeeRate,
		MonthlyPayment: plan.Payment,
		Status:         domain.LoanStatusOnTime,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	installments := buildInstallments(loan)
	loan.Status = LoanStatusFor(installments, now)

	err = s.Uow.WithinTx(ctx, func(r repository.Repos) error {
		if _, err := r.Customers.GetByID(ctx, customerID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return customError.WrapCustomerNotFound(request.CustomerID)
			}
			return customError.WrapDatabaseError(err)
		}

		if err := r.Loans.Create(ctx, loan); err != nil {
			return customError.WrapDatabaseError(err)
		}

		if err := r.Loans.CreateInstallments(ctx, installments); err != nil {
			return customError.WrapDatabaseError(err)
		}

		loans, err := r.Loans.GetByCustomer(ctx, customerID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}

		return r.Customers.UpdateLoanStatus(ctx, customerID, CustomerStatusFor(loans))
	})
	if err != nil {
		return nil, err
	}

	return &domain.CreateLoanResponse{
		Loan:         loan,
		Installments: installments,
		Plan: &domain.LoanPlan{
			Payment:       plan.Payment,
			TotalPayment:  plan.TotalPayment,
			TotalInterest: plan.TotalInterest,
		},
	}, nil
}

// GetLoan retrieves a loan by ID
func (s *LoanService) GetLoan(ctx context.Context, loanID uuid.UUID) (*domain.Loan, error) {
	loan, err := s.LoanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoanNotFound(loanID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	return loan, nil
}

// GetLoansByCustomer retrieves every loan owned by a customer
func (s *LoanService) GetLoansByCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.Loan, error) {
	loans, err := s.LoanRepo.GetByCustomer(ctx, customerID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return loans, nil
}

// GetSchedule returns the installment schedule for a loan, cache-aside
func (s *LoanService) GetSchedule(ctx context.Context, loanID uuid.UUID) ([]*domain.Installment, error) {
	if cached := s.getCachedSchedule(ctx, loanID); cached != nil {
		return cached, nil
	}

	loan, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	installments, err := s.LoanRepo.GetInstallments(ctx, loan.ID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.cacheSchedule(ctx, loanID, installments)

	return installments, nil
}

// GetOutstanding sums the unpaid scheduled amounts across a loan's installments
func (s *LoanService) GetOutstanding(ctx context.Context, loanID uuid.UUID) (decimal.Decimal, error) {
	installments, err := s.GetSchedule(ctx, loanID)
	if err != nil {
		return decimal.Zero, err
	}

	outstanding := decimal.Zero
	for _, installment := range installments {
		outstanding = outstanding.Add(installment.Remaining())
	}

	return outstanding, nil
}

// UpdateLoan edits a loan's terms. Changing amount, rate, term, or start date
// discards the entire installment schedule and regenerates it from scratch:
// payment history on the old installments is NOT preserved. The response
// carries ScheduleRegenerated and the number of discarded paid installments
// so callers can surface a warning.
func (s *LoanService) UpdateLoan(ctx context.Context, loanID uuid.UUID, request *domain.UpdateLoanRequest) (*domain.UpdateLoanResponse, error) {
	loan, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	regenerate := !loan.Amount.Equal(request.Amount) ||
		!loan.MonthlyRate.Equal(request.MonthlyRate) ||
		loan.TermMonths != request.TermMonths ||
		!loan.StartDate.Equal(request.StartDate)

	loan.Amount = request.Amount
	loan.MonthlyRate = request.MonthlyRate
	loan.TermMonths = request.TermMonths
	loan.StartDate = request.StartDate
	loan.LateFeeRate = request.LateFeeRate

	response := &domain.UpdateLoanResponse{Loan: loan}

	if !regenerate {
		if err := s.LoanRepo.Update(ctx, loan); err != nil {
			return nil, customError.WrapDatabaseError(err)
		}

		installments, err := s.LoanRepo.GetInstallments(ctx, loan.ID)
		if err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
		response.Installments = installments

		return response, nil
	}

	plan, err := amortization.Calculate(request.Amount, request.MonthlyRate, request.TermMonths)
	if err != nil {
		return nil, err
	}
	loan.MonthlyPayment = plan.Payment

	now := time.Now()
	installments := buildInstallments(loan)
	loan.Status = LoanStatusFor(installments, now)

	err = s.Uow.WithinTx(ctx, func(r repository.Repos) error {
		previous, err := r.Loans.GetInstallments(ctx, loan.ID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}

		// Any money on the installment counts, schedule payments and late
		// fees alike, so fee-only history is not discarded silently.
		for _, installment := range previous {
			if installment.PaidAmount.GreaterThan(decimal.Zero) ||
				installment.LateFeePaid.GreaterThan(decimal.Zero) {
				response.DiscardedPaid++
			}
		}

		if err := r.Loans.DeleteInstallments(ctx, loan.ID); err != nil {
			return customError.WrapDatabaseError(err)
		}

		if err := r.Loans.CreateInstallments(ctx, installments); err != nil {
			return customError.WrapDatabaseError(err)
		}

		if err := r.Loans.Update(ctx, loan); err != nil {
			return customError.WrapDatabaseError(err)
		}

		loans, err := r.Loans.GetByCustomer(ctx, loan.CustomerID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}

		return r.Customers.UpdateLoanStatus(ctx, loan.CustomerID, CustomerStatusFor(loans))
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSchedule(ctx, loanID)

	response.Installments = installments
	response.ScheduleRegenerated = true

	return response, nil
}

// DeleteLoan removes a loan with its installments and recomputes the
// customer's aggregate status.
func (s *LoanService) DeleteLoan(ctx context.Context, loanID uuid.UUID) error {
	loan, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return err
	}

	err = s.Uow.WithinTx(ctx, func(r repository.Repos) error {
		if err := r.Loans.Delete(ctx, loan.ID); err != nil {
			return customError.WrapDatabaseError(err)
		}

		loans, err := r.Loans.GetByCustomer(ctx, loan.CustomerID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}

		return r.Customers.UpdateLoanStatus(ctx, loan.CustomerID, CustomerStatusFor(loans))
	})
	if err != nil {
		return err
	}

	s.invalidateSchedule(ctx, loanID)

	return nil
}

// buildInstallments produces the flat equal-payment schedule for a loan:
// n installments, each for the level monthly payment, due dates one calendar
// month apart starting one month after the loan start date. This is an
// equal-payment schedule, not a per-period principal/interest split.
func buildInstallments(loan *domain.Loan) []*domain.Installment {
	installments := make([]*domain.Installment, 0, loan.TermMonths)
	now := time.Now()

	for number := 1; number <= loan.TermMonths; number++ {
		installments = append(installments, &domain.Installment{
			ID:             uuid.New(),
			LoanID:         loan.ID,
			Number:         number,
			DueDate:        amortization.DueDate(loan.StartDate, number),
			Amount:         loan.MonthlyPayment,
			OriginalAmount: loan.MonthlyPayment,
			PaidAmount:     decimal.Zero,
			LateFeePaid:    decimal.Zero,
			Status:         domain.InstallmentStatusPending,
			CreatedAt:      now,
		})
	}

	return installments
}

func scheduleCacheKey(loanID uuid.UUID) string {
	return fmt.Sprintf("loan:%s:schedule", loanID)
}

func (s *LoanService) getCachedSchedule(ctx context.Context, loanID uuid.UUID) []*domain.Installment {
	if s.redis == nil {
		return nil
	}

	payload, err := s.redis.Get(ctx, scheduleCacheKey(loanID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("schedule cache read failed for loan %s: %v", loanID, err)
		}
		return nil
	}

	var installments []*domain.Installment
	if err := json.Unmarshal(payload, &installments); err != nil {
		log.Printf("schedule cache decode failed for loan %s: %v", loanID, err)
		return nil
	}

	return installments
}

func (s *LoanService) cacheSchedule(ctx context.Context, loanID uuid.UUID, installments []*domain.Installment) {
	if s.redis == nil {
		return
	}

	payload, err := json.Marshal(installments)
	if err != nil {
		return
	}

	if err := s.redis.Set(ctx, scheduleCacheKey(loanID), payload, scheduleCacheTTL).Err(); err != nil {
		log.Printf("schedule cache write failed for loan %s: %v", loanID, err)
	}
}

func (s *LoanService) invalidateSchedule(ctx context.Context, loanID uuid.UUID) {
	if s.redis == nil {
		return
	}

	if err := s.redis.Del(ctx, scheduleCacheKey(loanID)).Err(); err != nil {
		log.Printf("schedule cache invalidation failed for loan %s: %v", loanID, err)
	}
}
