package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/credsimples/loan-engine/internal/domain"
)

type accountRepository struct {
	db sqlx.ExtContext
}

func NewAccountRepository(db *sqlx.DB) AccountRepository {
	return &accountRepository{db: db}
}

func newAccountRepository(ext sqlx.ExtContext) AccountRepository {
	return &accountRepository{db: ext}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.BankAccount) error {
	query := `
		INSERT INTO bank_accounts (id, name, bank, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		account.ID,
		account.Name,
		account.Bank,
		account.Balance,
		account.CreatedAt,
		account.UpdatedAt,
	)

	return err
}

func (r *accountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.BankAccount, error) {
	query := `
		SELECT id, name, bank, balance, created_at, updated_at
		FROM bank_accounts
		WHERE id = $1
	`

	var account domain.BankAccount
	if err := sqlx.GetContext(ctx, r.db, &account, query, id); err != nil {
		return nil, err
	}

	return &account, nil
}

func (r *accountRepository) List(ctx context.Context) ([]*domain.BankAccount, error) {
	query := `
		SELECT id, name, bank, balance, created_at, updated_at
		FROM bank_accounts
		ORDER BY name
	`

	var accounts []*domain.BankAccount
	if err := sqlx.SelectContext(ctx, r.db, &accounts, query); err != nil {
		return nil, err
	}

	return accounts, nil
}

func (r *accountRepository) UpdateBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	query := `
		UPDATE bank_accounts
		SET balance = balance + $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, delta, time.Now())
	return err
}

func (r *accountRepository) CreateTransaction(ctx context.Context, transaction *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, account_id, type, amount, description, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		transaction.ID,
		transaction.AccountID,
		transaction.Type,
		transaction.Amount,
		transaction.Description,
		transaction.OccurredAt,
	)

	return err
}

func (r *accountRepository) GetTransactions(ctx context.Context, accountID uuid.UUID) ([]*domain.Transaction, error) {
	query := `
		SELECT id, account_id, type, amount, description, occurred_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY occurred_at DESC
	`

	var transactions []*domain.Transaction
	if err := sqlx.SelectContext(ctx, r.db, &transactions, query, accountID); err != nil {
		return nil, err
	}

	return transactions, nil
}

func (r *accountRepository) SumTransactionsBetween(ctx context.Context, txType string, start, end time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE type = $1 AND occurred_at >= $2 AND occurred_at < $3
	`

	var total decimal.Decimal
	if err := sqlx.GetContext(ctx, r.db, &total, query, txType, start, end); err != nil {
		return decimal.Zero, err
	}

	return total, nil
}
