package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/credsimples/loan-engine/internal/domain"
)

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	// Create creates a new customer
	Create(ctx context.Context, customer *domain.Customer) error

	// GetByID retrieves a customer by ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)

	// List retrieves all customers
	List(ctx context.Context) ([]*domain.Customer, error)

	// Update updates a customer's editable fields
	Update(ctx context.Context, customer *domain.Customer) error

	// UpdateLoanStatus writes the derived aggregate loan status
	UpdateLoanStatus(ctx context.Context, id uuid.UUID, status string) error

	// Delete removes a customer
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByLoanStatus counts customers with the given aggregate status
	CountByLoanStatus(ctx context.Context, status string) (int, error)
}

// LoanRepository defines the interface for loan and installment data operations
type LoanRepository interface {
	// Create creates a new loan
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByID retrieves a loan by ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)

	// GetByCustomer retrieves all loans owned by a customer
	GetByCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.Loan, error)

	// Update updates a loan
	Update(ctx context.Context, loan *domain.Loan) error

	// UpdateStatus updates only the loan status
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error

	// Delete removes a loan and its installments
	Delete(ctx context.Context, id uuid.UUID) error

	// CreateInstallments creates installment entries for a loan
	CreateInstallments(ctx context.Context, installments []*domain.Installment) error

	// GetInstallments retrieves a loan's installments ordered by number
	GetInstallments(ctx context.Context, loanID uuid.UUID) ([]*domain.Installment, error)

	// GetInstallment retrieves a single installment by loan and sequence number
	GetInstallment(ctx context.Context, loanID uuid.UUID, number int) (*domain.Installment, error)

	// UpdateInstallment persists an installment's payment state
	UpdateInstallment(ctx context.Context, installment *domain.Installment) error

	// DeleteInstallments removes every installment of a loan
	DeleteInstallments(ctx context.Context, loanID uuid.UUID) error

	// ListWithPastDueInstallments lists loan IDs holding unpaid installments past due
	ListWithPastDueInstallments(ctx context.Context, now time.Time) ([]uuid.UUID, error)

	// GetOriginatedBetween retrieves loans created inside a period
	GetOriginatedBetween(ctx context.Context, start, end time.Time) ([]*domain.Loan, error)

	// GetOverdueInstallments retrieves every installment currently marked overdue
	GetOverdueInstallments(ctx context.Context) ([]*domain.Installment, error)
}

// PaymentRepository defines the interface for payment audit records
type PaymentRepository interface {
	// Create creates a new payment record
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByLoanID retrieves all payments for a loan
	GetByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.Payment, error)

	// GetBetween retrieves payments applied inside a period
	GetBetween(ctx context.Context, start, end time.Time) ([]*domain.Payment, error)
}

// AccountRepository defines the interface for the bank-account cash ledger
type AccountRepository interface {
	// Create creates a new bank account
	Create(ctx context.Context, account *domain.BankAccount) error

	// GetByID retrieves an account by ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BankAccount, error)

	// List retrieves all accounts
	List(ctx context.Context) ([]*domain.BankAccount, error)

	// UpdateBalance applies a signed delta to an account balance
	UpdateBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error

	// CreateTransaction records one ledger movement
	CreateTransaction(ctx context.Context, transaction *domain.Transaction) error

	// GetTransactions retrieves an account's ledger movements, newest first
	GetTransactions(ctx context.Context, accountID uuid.UUID) ([]*domain.Transaction, error)

	// SumTransactionsBetween sums movements of one type inside a period
	SumTransactionsBetween(ctx context.Context, txType string, start, end time.Time) (decimal.Decimal, error)
}
