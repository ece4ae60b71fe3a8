package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/credsimples/loan-engine/internal/domain"
)

type customerRepository struct {
	db sqlx.ExtContext
}

func NewCustomerRepository(db *sqlx.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func newCustomerRepository(ext sqlx.ExtContext) CustomerRepository {
	return &customerRepository{db: ext}
}

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	query := `
		INSERT INTO customers (id, name, document, email, phone, loan_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		customer.ID,
		customer.Name,
		customer.Document,
		customer.Email,
		customer.Phone,
		customer.LoanStatus,
		customer.CreatedAt,
		customer.UpdatedAt,
	)

	return err
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	query := `
		SELECT id, name, document, email, phone, loan_status, created_at, updated_at
		FROM customers
		WHERE id = $1
	`

	var customer domain.Customer
	if err := sqlx.GetContext(ctx, r.db, &customer, query, id); err != nil {
		return nil, err
	}

	return &customer, nil
}

func (r *customerRepository) List(ctx context.Context) ([]*domain.Customer, error) {
	query := `
		SELECT id, name, document, email, phone, loan_status, created_at, updated_at
		FROM customers
		ORDER BY name
	`

	var customers []*domain.Customer
	if err := sqlx.SelectContext(ctx, r.db, &customers, query); err != nil {
		return nil, err
	}

	return customers, nil
}

func (r *customerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	query := `
		UPDATE customers
		SET name = $2, document = $3, email = $4, phone = $5, updated_at = $6
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		customer.ID,
		customer.Name,
		customer.Document,
		customer.Email,
		customer.Phone,
		time.Now(),
	)

	return err
}

func (r *customerRepository) UpdateLoanStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE customers
		SET loan_status = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, status, time.Now())
	return err
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM customers WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *customerRepository) CountByLoanStatus(ctx context.Context, status string) (int, error) {
	query := `SELECT COUNT(*) FROM customers WHERE loan_status = $1`

	var count int
	if err := sqlx.GetContext(ctx, r.db, &count, query, status); err != nil {
		return 0, err
	}

	return count, nil
}
