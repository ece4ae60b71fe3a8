package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Repos bundles every repository bound to one transaction.
type Repos struct {
	Customers CustomerRepository
	Loans     LoanRepository
	Payments  PaymentRepository
	Accounts  AccountRepository
}

// UnitOfWork runs a function with all repositories sharing a single
// database transaction. A payment application and its cascading loan and
// customer status recomputation must commit or roll back as one unit.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
}

type sqlxUnitOfWork struct {
	db *sqlx.DB
}

func NewUnitOfWork(db *sqlx.DB) UnitOfWork {
	return &sqlxUnitOfWork{db: db}
}

func (u *sqlxUnitOfWork) WithinTx(ctx context.Context, fn func(r Repos) error) error {
	tx, err := u.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	repos := Repos{
		Customers: newCustomerRepository(tx),
		Loans:     newLoanRepository(tx),
		Payments:  newPaymentRepository(tx),
		Accounts:  newAccountRepository(tx),
	}

	if err := fn(repos); err != nil {
		return err
	}

	return tx.Commit()
}
