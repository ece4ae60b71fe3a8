package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/credsimples/loan-engine/internal/domain"
)

type loanRepository struct {
	db sqlx.ExtContext
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

func newLoanRepository(ext sqlx.ExtContext) LoanRepository {
	return &loanRepository{db: ext}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (id, customer_id, amount, monthly_rate, term_months, start_date,
			late_fee_rate, monthly_payment, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		loan.ID,
		loan.CustomerID,
		loan.Amount,
		loan.MonthlyRate,
		loan.TermMonths,
		loan.StartDate,
		loan.LateFeeRate,
		loan.MonthlyPayment,
		loan.Status,
		loan.CreatedAt,
		loan.UpdatedAt,
	)

	return err
}

func (r *loanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	query := `
		SELECT id, customer_id, amount, monthly_rate, term_months, start_date,
			late_fee_rate, monthly_payment, status, created_at, updated_at
		FROM loans
		WHERE id = $1
	`

	var loan domain.Loan
	if err := sqlx.GetContext(ctx, r.db, &loan, query, id); err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) GetByCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.Loan, error) {
	query := `
		SELECT id, customer_id, amount, monthly_rate, term_months, start_date,
			late_fee_rate, monthly_payment, status, created_at, updated_at
		FROM loans
		WHERE customer_id = $1
		ORDER BY created_at
	`

	var loans []*domain.Loan
	if err := sqlx.SelectContext(ctx, r.db, &loans, query, customerID); err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	query := `
		UPDATE loans
		SET amount = $2, monthly_rate = $3, term_months = $4, start_date = $5,
			late_fee_rate = $6, monthly_payment = $7, status = $8, updated_at = $9
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		loan.ID,
		loan.Amount,
		loan.MonthlyRate,
		loan.TermMonths,
		loan.StartDate,
		loan.LateFeeRate,
		loan.MonthlyPayment,
		loan.Status,
		time.Now(),
	)

	return err
}

func (r *loanRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE loans
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, status, time.Now())
	return err
}

func (r *loanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.DeleteInstallments(ctx, id); err != nil {
		return err
	}

	query := `DELETE FROM loans WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *loanRepository) CreateInstallments(ctx context.Context, installments []*domain.Installment) error {
	query := `
		INSERT INTO installments (id, loan_id, number, due_date, amount, original_amount,
			paid_amount, late_fee_paid, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	for _, installment := range installments {
		_, err := r.db.ExecContext(ctx, query,
			installment.ID,
			installment.LoanID,
			installment.Number,
			installment.DueDate,
			installment.Amount,
			installment.OriginalAmount,
			installment.PaidAmount,
			installment.LateFeePaid,
			installment.Status,
			installment.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *loanRepository) GetInstallments(ctx context.Context, loanID uuid.UUID) ([]*domain.Installment, error) {
	query := `
		SELECT id, loan_id, number, due_date, amount, original_amount,
			paid_amount, late_fee_paid, status, created_at
		FROM installments
		WHERE loan_id = $1
		ORDER BY number
	`

	var installments []*domain.Installment
	if err := sqlx.SelectContext(ctx, r.db, &installments, query, loanID); err != nil {
		return nil, err
	}

	return installments, nil
}

func (r *loanRepository) GetInstallment(ctx context.Context, loanID uuid.UUID, number int) (*domain.Installment, error) {
	query := `
		SELECT id, loan_id, number, due_date, amount, original_amount,
			paid_amount, late_fee_paid, status, created_at
		FROM installments
		WHERE loan_id = $1 AND number = $2
	`

	var installment domain.Installment
	if err := sqlx.GetContext(ctx, r.db, &installment, query, loanID, number); err != nil {
		return nil, err
	}

	return &installment, nil
}

func (r *loanRepository) UpdateInstallment(ctx context.Context, installment *domain.Installment) error {
	query := `
		UPDATE installments
		SET amount = $2, paid_amount = $3, late_fee_paid = $4, status = $5
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		installment.ID,
		installment.Amount,
		installment.PaidAmount,
		installment.LateFeePaid,
		installment.Status,
	)

	return err
}

func (r *loanRepository) DeleteInstallments(ctx context.Context, loanID uuid.UUID) error {
	query := `DELETE FROM installments WHERE loan_id = $1`

	_, err := r.db.ExecContext(ctx, query, loanID)
	return err
}

func (r *loanRepository) ListWithPastDueInstallments(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT loan_id
		FROM installments
		WHERE status IN ($1, $2) AND due_date < $3
	`

	var ids []uuid.UUID
	err := sqlx.SelectContext(ctx, r.db, &ids, query,
		domain.InstallmentStatusPending,
		domain.InstallmentStatusPartiallyPaid,
		now,
	)
	if err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *loanRepository) GetOriginatedBetween(ctx context.Context, start, end time.Time) ([]*domain.Loan, error) {
	query := `
		SELECT id, customer_id, amount, monthly_rate, term_months, start_date,
			late_fee_rate, monthly_payment, status, created_at, updated_at
		FROM loans
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at
	`

	var loans []*domain.Loan
	if err := sqlx.SelectContext(ctx, r.db, &loans, query, start, end); err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) GetOverdueInstallments(ctx context.Context) ([]*domain.Installment, error) {
	query := `
		SELECT id, loan_id, number, due_date, amount, original_amount,
			paid_amount, late_fee_paid, status, created_at
		FROM installments
		WHERE status = $1
		ORDER BY due_date
	`

	var installments []*domain.Installment
	if err := sqlx.SelectContext(ctx, r.db, &installments, query, domain.InstallmentStatusOverdue); err != nil {
		return nil, err
	}

	return installments, nil
}
