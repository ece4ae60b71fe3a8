package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrInvalidScheduleParameters = errors.New("invalid schedule parameters")
	ErrInvalidPaymentAmount      = errors.New("invalid payment amount")
	ErrCustomerNotFound          = errors.New("customer not found")
	ErrLoanNotFound              = errors.New("loan not found")
	ErrInstallmentNotFound       = errors.New("installment not found")
	ErrAccountNotFound           = errors.New("bank account not found")
	ErrNothingOutstanding        = errors.New("installment has no outstanding amount")
	ErrInsufficientFunds         = errors.New("insufficient account funds")
	ErrPersistenceDenied         = errors.New("persistence operation denied")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeInvalidSchedule      = "INVALID_SCHEDULE_PARAMETERS"
	ErrCodeInvalidPaymentAmount = "INVALID_PAYMENT_AMOUNT"
	ErrCodeCustomerNotFound     = "CUSTOMER_NOT_FOUND"
	ErrCodeLoanNotFound         = "LOAN_NOT_FOUND"
	ErrCodeInstallmentNotFound  = "INSTALLMENT_NOT_FOUND"
	ErrCodeAccountNotFound      = "ACCOUNT_NOT_FOUND"
	ErrCodeNothingOutstanding   = "NOTHING_OUTSTANDING"
	ErrCodeInsufficientFunds    = "INSUFFICIENT_FUNDS"
	ErrCodePersistenceDenied    = "PERSISTENCE_DENIED"
	ErrCodeDatabaseError        = "DATABASE_ERROR"
	ErrCodeCacheError           = "CACHE_ERROR"
	ErrCodeReportError          = "REPORT_ERROR"
)

// Wrap common errors with business context

func WrapInvalidSchedule(reason string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidSchedule,
		reason,
		ErrInvalidScheduleParameters,
	)
}

func WrapInvalidPaymentAmount(amount string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidPaymentAmount,
		fmt.Sprintf("Invalid payment amount: %s", amount),
		ErrInvalidPaymentAmount,
	)
}

func WrapCustomerNotFound(customerID string) *BusinessError {
	return NewBusinessError(
		ErrCodeCustomerNotFound,
		fmt.Sprintf("Customer with ID %s not found", customerID),
		ErrCustomerNotFound,
	)
}

func WrapLoanNotFound(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("Loan with ID %s not found", loanID),
		ErrLoanNotFound,
	)
}

func WrapInstallmentNotFound(loanID string, number int) *BusinessError {
	return NewBusinessError(
		ErrCodeInstallmentNotFound,
		fmt.Sprintf("Installment %d of loan %s not found", number, loanID),
		ErrInstallmentNotFound,
	)
}

func WrapAccountNotFound(accountID string) *BusinessError {
	return NewBusinessError(
		ErrCodeAccountNotFound,
		fmt.Sprintf("Bank account with ID %s not found", accountID),
		ErrAccountNotFound,
	)
}

func WrapNothingOutstanding(loanID string, number int) *BusinessError {
	return NewBusinessError(
		ErrCodeNothingOutstanding,
		fmt.Sprintf("Installment %d of loan %s is already fully paid", number, loanID),
		ErrNothingOutstanding,
	)
}

func WrapInsufficientFunds(accountID string) *BusinessError {
	return NewBusinessError(
		ErrCodeInsufficientFunds,
		fmt.Sprintf("Account %s has insufficient funds", accountID),
		ErrInsufficientFunds,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"cache operation failed",
		err,
	)
}

func WrapReportError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeReportError,
		"report generation failed",
		err,
	)
}
