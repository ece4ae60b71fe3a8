package domain

import (
	"time"

	"github.com/google/uuid"
)

// Customer loan statuses. LoanStatus is derived from the customer's full set
// of loans and is never set directly: a customer with no loans reports "paid"
// (clear) by convention.
const (
	CustomerStatusPaid       = "paid"
	CustomerStatusActive     = "active"
	CustomerStatusDelinquent = "delinquent"
)

// Customer represents a customer entity
type Customer struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Document   string    `json:"document" db:"document"`
	Email      string    `json:"email" db:"email"`
	Phone      string    `json:"phone" db:"phone"`
	LoanStatus string    `json:"loan_status" db:"loan_status"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// DTOs for requests and responses

type CreateCustomerRequest struct {
	Name     string `json:"name" validate:"required"`
	Document string `json:"document" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"omitempty"`
}

type UpdateCustomerRequest struct {
	Name     string `json:"name" validate:"required"`
	Document string `json:"document" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"omitempty"`
}
