package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/credsimples/loan-engine/internal/domain"
)

type paymentRepository struct {
	db sqlx.ExtContext
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func newPaymentRepository(ext sqlx.ExtContext) PaymentRepository {
	return &paymentRepository{db: ext}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, loan_id, installment_number, account_id, mode, amount, late_fee, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		payment.ID,
		payment.LoanID,
		payment.InstallmentNumber,
		payment.AccountID,
		payment.Mode,
		payment.Amount,
		payment.LateFee,
		payment.PaidAt,
	)

	return err
}

func (r *paymentRepository) GetByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.Payment, error) {
	query := `
		SELECT id, loan_id, installment_number, account_id, mode, amount, late_fee, paid_at
		FROM payments
		WHERE loan_id = $1
		ORDER BY paid_at
	`

	var payments []*domain.Payment
	if err := sqlx.SelectContext(ctx, r.db, &payments, query, loanID); err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepository) GetBetween(ctx context.Context, start, end time.Time) ([]*domain.Payment, error) {
	query := `
		SELECT id, loan_id, installment_number, account_id, mode, amount, late_fee, paid_at
		FROM payments
		WHERE paid_at >= $1 AND paid_at < $2
		ORDER BY paid_at
	`

	var payments []*domain.Payment
	if err := sqlx.SelectContext(ctx, r.db, &payments, query, start, end); err != nil {
		return nil, err
	}

	return payments, nil
}
