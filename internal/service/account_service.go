package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/credsimples/loan-engine/internal/domain"
	"github.com/credsimples/loan-engine/internal/repository"
	customError "github.com/credsimples/loan-engine/pkg/errors"
)

type AccountService struct {
	Uow         repository.UnitOfWork
	AccountRepo repository.AccountRepository
}

func NewAccountService(uow repository.UnitOfWork, accountRepo repository.AccountRepository) *AccountService {
	return &AccountService{
		Uow:         uow,
		AccountRepo: accountRepo,
	}
}

// CreateAccount creates a bank account, recording the opening balance as a
// credit transaction when it is non-zero.
func (s *AccountService) CreateAccount(ctx context.Context, request *domain.CreateAccountRequest) (*domain.BankAccount, error) {
	now := time.Now()
	account := &domain.BankAccount{
		ID:        uuid.New(),
		Name:      request.Name,
		Bank:      request.Bank,
		Balance:   request.InitialBalance,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.Uow.WithinTx(ctx, func(r repository.Repos) error {
		if err := r.Accounts.Create(ctx, account); err != nil {
			return customError.WrapDatabaseError(err)
		}

		if account.Balance.IsPositive() {
			transaction := &domain.Transaction{
				ID:          uuid.New(),
				AccountID:   account.ID,
				Type:        domain.TransactionTypeCredit,
				Amount:      account.Balance,
				Description: "Opening balance",
				OccurredAt:  now,
			}
			if err := r.Accounts.CreateTransaction(ctx, transaction); err != nil {
				return customError.WrapDatabaseError(err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves an account by ID
func (s *AccountService) GetAccount(ctx context.Context, accountID uuid.UUID) (*domain.BankAccount, error) {
	account, err := s.AccountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapAccountNotFound(accountID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	return account, nil
}

// ListAccounts retrieves all accounts
func (s *AccountService) ListAccounts(ctx context.Context) ([]*domain.BankAccount, error) {
	accounts, err := s.AccountRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return accounts, nil
}

// CreateTransaction records a manual credit or debit against an account.
// Debits that would overdraw the account are rejected before any mutation.
func (s *AccountService) CreateTransaction(ctx context.Context, accountID uuid.UUID, request *domain.CreateTransactionRequest) (*domain.Transaction, error) {
	if request.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, customError.WrapInvalidPaymentAmount(request.Amount.String())
	}

	transaction := &domain.Transaction{
		ID:          uuid.New(),
		AccountID:   accountID,
		Type:        request.Type,
		Amount:      request.Amount,
		Description: request.Description,
		OccurredAt:  time.Now(),
	}

	err := s.Uow.WithinTx(ctx, func(r repository.Repos) error {
		account, err := r.Accounts.GetByID(ctx, accountID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return customError.WrapAccountNotFound(accountID.String())
			}
			return customError.WrapDatabaseError(err)
		}

		delta := request.Amount
		if request.Type == domain.TransactionTypeDebit {
			if account.Balance.LessThan(request.Amount) {
				return customError.WrapInsufficientFunds(accountID.String())
			}
			delta = request.Amount.Neg()
		}

		if err := r.Accounts.CreateTransaction(ctx, transaction); err != nil {
			return customError.WrapDatabaseError(err)
		}

		return r.Accounts.UpdateBalance(ctx, accountID, delta)
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// ListTransactions retrieves an account's ledger movements
func (s *AccountService) ListTransactions(ctx context.Context, accountID uuid.UUID) ([]*domain.Transaction, error) {
	if _, err := s.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}

	transactions, err := s.AccountRepo.GetTransactions(ctx, accountID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return transactions, nil
}
