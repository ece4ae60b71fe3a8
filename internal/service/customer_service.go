package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/credsimples/loan-engine/internal/domain"
	"github.com/credsimples/loan-engine/internal/repository"
	customError "github.com/credsimples/loan-engine/pkg/errors"
)

type CustomerService struct {
	Uow          repository.UnitOfWork
	CustomerRepo repository.CustomerRepository
	LoanRepo     repository.LoanRepository
}

func NewCustomerService(
	uow repository.UnitOfWork,
	customerRepo repository.CustomerRepository,
	loanRepo repository.LoanRepository,
) *CustomerService {
	return &CustomerService{
		Uow:          uow,
		CustomerRepo: customerRepo,
		LoanRepo:     loanRepo,
	}
}

// CreateCustomer creates a customer. New customers start "paid" (clear),
// the aggregate status for an empty loan set.
func (s *CustomerService) CreateCustomer(ctx context.Context, request *domain.CreateCustomerRequest) (*domain.Customer, error) {
	now := time.Now()
	customer := &domain.Customer{
		ID:         uuid.New(),
		Name:       request.Name,
		Document:   request.Document,
		Email:      request.Email,
		Phone:      request.Phone,
		LoanStatus: domain.CustomerStatusPaid,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.CustomerRepo.Create(ctx, customer); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, customerID uuid.UUID) (*domain.Customer, error) {
	customer, err := s.CustomerRepo.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapCustomerNotFound(customerID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	return customer, nil
}

// ListCustomers retrieves all customers
func (s *CustomerService) ListCustomers(ctx context.Context) ([]*domain.Customer, error) {
	customers, err := s.CustomerRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return customers, nil
}

// UpdateCustomer updates a customer's contact fields. The aggregate loan
// status is not editable here; it only moves through recomputation.
func (s *CustomerService) UpdateCustomer(ctx context.Context, customerID uuid.UUID, request *domain.UpdateCustomerRequest) (*domain.Customer, error) {
	customer, err := s.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	customer.Name = request.Name
	customer.Document = request.Document
	customer.Email = request.Email
	customer.Phone = request.Phone

	if err := s.CustomerRepo.Update(ctx, customer); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return customer, nil
}

// DeleteCustomer removes a customer together with their loans and
// installments in one transaction.
func (s *CustomerService) DeleteCustomer(ctx context.Context, customerID uuid.UUID) error {
	if _, err := s.GetCustomer(ctx, customerID); err != nil {
		return err
	}

	return s.Uow.WithinTx(ctx, func(r repository.Repos) error {
		loans, err := r.Loans.GetByCustomer(ctx, customerID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}

		for _, loan := range loans {
			if err := r.Loans.Delete(ctx, loan.ID); err != nil {
				return customError.WrapDatabaseError(err)
			}
		}

		if err := r.Customers.Delete(ctx, customerID); err != nil {
			return customError.WrapDatabaseError(err)
		}

		return nil
	})
}

// RecomputeStatus re-derives the customer's aggregate status from their
// loans. Idempotent: unchanged loans yield an unchanged status.
func (s *CustomerService) RecomputeStatus(ctx context.Context, customerID uuid.UUID) (string, error) {
	if _, err := s.GetCustomer(ctx, customerID); err != nil {
		return "", err
	}

	loans, err := s.LoanRepo.GetByCustomer(ctx, customerID)
	if err != nil {
		return "", customError.WrapDatabaseError(err)
	}

	status := CustomerStatusFor(loans)
	if err := s.CustomerRepo.UpdateLoanStatus(ctx, customerID, status); err != nil {
		return "", customError.WrapDatabaseError(err)
	}

	return status, nil
}
