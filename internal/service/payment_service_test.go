package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/credsimples/loan-engine/internal/domain"
	"github.com/credsimples/loan-engine/internal/repository"
	customError "github.com/credsimples/loan-engine/pkg/errors"
)

type paymentServiceMocks struct {
	loans     *MockLoanRepository
	customers *MockCustomerRepository
	payments  *MockPaymentRepository
	accounts  *MockAccountRepository
}

func newPaymentServiceForTest() (*PaymentService, *paymentServiceMocks) {
	mocks := &paymentServiceMocks{
		loans:     &MockLoanRepository{},
		customers: &MockCustomerRepository{},
		payments:  &MockPaymentRepository{},
		accounts:  &MockAccountRepository{},
	}
	uow := &fakeUnitOfWork{repos: repository.Repos{
		Customers: mocks.customers,
		Loans:     mocks.loans,
		Payments:  mocks.payments,
		Accounts:  mocks.accounts,
	}}

	return NewPaymentService(uow, mocks.payments, mocks.loans, nil, nil), mocks
}

func decimalEq(expected decimal.Decimal) interface{} {
	return mock.MatchedBy(func(actual decimal.Decimal) bool {
		return actual.Equal(expected)
	})
}

func TestApplyPayment_TotalSettlesInstallment(t *testing.T) {
	service, mocks := newPaymentServiceForTest()

	loanID := uuid.New()
	customerID := uuid.New()
	accountID := uuid.New()
	amount := decimal.NewFromFloat(135.39)

	loan := &domain.Loan{ID: loanID, CustomerID: customerID, Status: domain.LoanStatusOnTime}
	installment := &domain.Installment{
		LoanID:  loanID,
		Number:  1,
		Amount:  amount,
		DueDate: time.Now().AddDate(0, 1, 0),
		Status:  domain.InstallmentStatusPending,
	}

	mocks.loans.On("GetByID", mock.Anything, loanID).Return(loan, nil)
	mocks.loans.On("GetInstallment", mock.Anything, loanID, 1).Return(installment, nil)
	mocks.accounts.On("GetByID", mock.Anything, accountID).
		Return(&domain.BankAccount{ID: accountID}, nil)
	mocks.loans.On("UpdateInstallment", mock.Anything, mock.MatchedBy(func(updated *domain.Installment) bool {
		return updated.Status == domain.InstallmentStatusPaid && updated.PaidAmount.Equal(amount)
	})).Return(nil)
	mocks.payments.On("Create", mock.Anything, mock.MatchedBy(func(payment *domain.Payment) bool {
		return payment.Mode == domain.PaymentModeTotal &&
			payment.Amount.Equal(amount) && payment.LateFee.IsZero()
	})).Return(nil)
	mocks.accounts.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(transaction *domain.Transaction) bool {
		return transaction.Type == domain.TransactionTypeCredit &&
			transaction.AccountID == accountID && transaction.Amount.Equal(amount)
	})).Return(nil)
	mocks.accounts.On("UpdateBalance", mock.Anything, accountID, decimalEq(amount)).Return(nil)
	mocks.loans.On("GetInstallments", mock.Anything, loanID).
		Return([]*domain.Installment{installment}, nil)
	mocks.loans.On("UpdateStatus", mock.Anything, loanID, domain.LoanStatusPaid).Return(nil)
	mocks.loans.On("GetByCustomer", mock.Anything, customerID).
		Return([]*domain.Loan{{Status: domain.LoanStatusPaid}}, nil)
	mocks.customers.On("UpdateLoanStatus", mock.Anything, customerID, domain.CustomerStatusPaid).
		Return(nil)

	request := &domain.ApplyPaymentRequest{
		InstallmentNumber: 1,
		AccountID:         accountID.String(),
		Mode:              domain.PaymentModeTotal,
	}

	result, err := service.ApplyPayment(context.Background(), loanID, request)

	require.NoError(t, err)
	assert.Equal(t, domain.InstallmentStatusPaid, result.Installment.Status)
	assert.True(t, result.Installment.Remaining().IsZero())
	assert.Equal(t, domain.LoanStatusPaid, result.LoanStatus)
	assert.Equal(t, domain.CustomerStatusPaid, result.CustomerStatus)

	mocks.loans.AssertExpectations(t)
	mocks.payments.AssertExpectations(t)
	mocks.accounts.AssertExpectations(t)
	mocks.customers.AssertExpectations(t)
}

func TestApplyPayment_PartialLeavesInstallmentPartiallyPaid(t *testing.T) {
	service, mocks := newPaymentServiceForTest()

	loanID := uuid.New()
	customerID := uuid.New()
	accountID := uuid.New()
	paid := decimal.NewFromInt(50)

	loan := &domain.Loan{ID: loanID, CustomerID: customerID, Status: domain.LoanStatusOnTime}
	installment := &domain.Installment{
		LoanID:  loanID,
		Number:  2,
		Amount:  decimal.NewFromFloat(135.39),
		DueDate: time.Now().AddDate(0, 1, 0),
		Status:  domain.InstallmentStatusPending,
	}

	mocks.loans.On("GetByID", mock.Anything, loanID).Return(loan, nil)
	mocks.loans.On("GetInstallment", mock.Anything, loanID, 2).Return(installment, nil)
	mocks.accounts.On("GetByID", mock.Anything, accountID).
		Return(&domain.BankAccount{ID: accountID}, nil)
	mocks.loans.On("UpdateInstallment", mock.Anything, mock.MatchedBy(func(updated *domain.Installment) bool {
		return updated.Status == domain.InstallmentStatusPartiallyPaid && updated.PaidAmount.Equal(paid)
	})).Return(nil)
	mocks.payments.On("Create", mock.Anything, mock.Anything).Return(nil)
	mocks.accounts.On("CreateTransaction", mock.Anything, mock.Anything).Return(nil)
	mocks.accounts.On("UpdateBalance", mock.Anything, accountID, decimalEq(paid)).Return(nil)
	mocks.loans.On("GetInstallments", mock.Anything, loanID).
		Return([]*domain.Installment{installment}, nil)
	mocks.loans.On("UpdateStatus", mock.Anything, loanID, domain.LoanStatusOnTime).Return(nil)
	mocks.loans.On("GetByCustomer", mock.Anything, customerID).
		Return([]*domain.Loan{loan}, nil)
	mocks.customers.On("UpdateLoanStatus", mock.Anything, customerID, domain.CustomerStatusActive).
		Return(nil)

	request := &domain.ApplyPaymentRequest{
		InstallmentNumber: 2,
		AccountID:         accountID.String(),
		Mode:              domain.PaymentModePartial,
		Amount:            paid,
	}

	result, err := service.ApplyPayment(context.Background(), loanID, request)

	require.NoError(t, err)
	assert.Equal(t, domain.InstallmentStatusPartiallyPaid, result.Installment.Status)
	assert.True(t, result.Installment.Remaining().Equal(decimal.NewFromFloat(85.39)))
	assert.Equal(t, domain.LoanStatusOnTime, result.LoanStatus)
	assert.Equal(t, domain.CustomerStatusActive, result.CustomerStatus)

	mocks.loans.AssertExpectations(t)
}

func TestApplyPayment_PartialForTheExactRemainderSettles(t *testing.T) {
	service, mocks := newPaymentServiceForTest()

	loanID := uuid.New()
	customerID := uuid.New()
	accountID := uuid.New()
	remainder := decimal.NewFromInt(40)

	loan := &domain.Loan{ID: loanID, CustomerID: customerID, Status: domain.LoanStatusOnTime}
	installment := &domain.Installment{
		LoanID:     loanID,
		Number:     3,
		Amount:     decimal.NewFromInt(100),
		PaidAmount: decimal.NewFromInt(60),
		DueDate:    time.Now().AddDate(0, 1, 0),
		Status:     domain.InstallmentStatusPartiallyPaid,
	}

	mocks.loans.On("GetByID", mock.Anything, loanID).Return(loan, nil)
	mocks.loans.On("GetInstallment", mock.Anything, loanID, 3).Return(installment, nil)
	mocks.accounts.On("GetByID", mock.Anything, accountID).
		Return(&domain.BankAccount{ID: accountID}, nil)
	mocks.loans.On("UpdateInstallment", mock.Anything, mock.MatchedBy(func(updated *domain.Installment) bool {
		return updated.Status == domain.InstallmentStatusPaid &&
			updated.PaidAmount.Equal(updated.Amount)
	})).Return(nil)
	mocks.payments.On("Create", mock.Anything, mock.Anything).Return(nil)
	mocks.accounts.On("CreateTransaction", mock.Anything, mock.Anything).Return(nil)
	mocks.accounts.On("UpdateBalance", mock.Anything, accountID, decimalEq(remainder)).Return(nil)
	mocks.loans.On("GetInstallments", mock.Anything, loanID).
		Return([]*domain.Installment{installment}, nil)
	mocks.loans.On("UpdateStatus", mock.Anything, loanID, domain.LoanStatusPaid).Return(nil)
	mocks.loans.On("GetByCustomer", mock.Anything, customerID).
		Return([]*domain.Loan{{Status: domain.LoanStatusPaid}}, nil)
	mocks.customers.On("UpdateLoanStatus", mock.Anything, customerID, domain.CustomerStatusPaid).
		Return(nil)

	request := &domain.ApplyPaymentRequest{
		InstallmentNumber: 3,
		AccountID:         accountID.String(),
		Mode:              domain.PaymentModePartial,
		Amount:            remainder,
	}

	result, err := service.ApplyPayment(context.Background(), loanID, request)

	require.NoError(t, err)
	assert.Equal(t, domain.InstallmentStatusPaid, result.Installment.Status)
	assert.True(t, result.Installment.PaidAmount.Equal(result.Installment.Amount),
		"paid amount must land exactly on the scheduled amount")
}

func TestApplyPayment_InterestOnlyRecordsFeeWithoutTouchingSchedule(t *testing.T) {
	service, mocks := newPaymentServiceForTest()

	loanID := uuid.New()
	customerID := uuid.New()
	accountID := uuid.New()
	fee := decimal.NewFromFloat(2.77)

	loan := &domain.Loan{ID: loanID, CustomerID: customerID, Status: domain.LoanStatusOverdue}
	installment := &domain.Installment{
		LoanID:  loanID,
		Number:  1,
		Amount:  decimal.NewFromFloat(135.39),
		DueDate: time.Now().AddDate(0, -1, 0),
		Status:  domain.InstallmentStatusOverdue,
	}

	mocks.loans.On("GetByID", mock.Anything, loanID).Return(loan, nil)
	mocks.loans.On("GetInstallment", mock.Anything, loanID, 1).Return(installment, nil)
	mocks.accounts.On("GetByID", mock.Anything, accountID).
		Return(&domain.BankAccount{ID: accountID}, nil)
	mocks.loans.On("UpdateInstallment", mock.Anything, mock.MatchedBy(func(updated *domain.Installment) bool {
		return updated.PaidAmount.IsZero() &&
			updated.LateFeePaid.Equal(fee) &&
			updated.Status == domain.InstallmentStatusOverdue
	})).Return(nil)
	mocks.payments.On("Create", mock.Anything, mock.MatchedBy(func(payment *domain.Payment) bool {
		return payment.Mode == domain.PaymentModeInterestOnly &&
			payment.Amount.Equal(fee) && payment.LateFee.Equal(fee)
	})).Return(nil)
	mocks.accounts.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(transaction *domain.Transaction) bool {
		return transaction.Amount.Equal(fee)
	})).Return(nil)
	mocks.accounts.On("UpdateBalance", mock.Anything, accountID, decimalEq(fee)).Return(nil)
	mocks.loans.On("GetInstallments", mock.Anything, loanID).
		Return([]*domain.Installment{installment}, nil)
	mocks.loans.On("UpdateStatus", mock.Anything, loanID, domain.LoanStatusOverdue).Return(nil)
	mocks.loans.On("GetByCustomer", mock.Anything, customerID).
		Return([]*domain.Loan{loan}, nil)
	mocks.customers.On("UpdateLoanStatus", mock.Anything, customerID, domain.CustomerStatusDelinquent).
		Return(nil)

	request := &domain.ApplyPaymentRequest{
		InstallmentNumber: 1,
		AccountID:         accountID.String(),
		Mode:              domain.PaymentModeInterestOnly,
		LateFee:           fee,
	}

	result, err := service.ApplyPayment(context.Background(), loanID, request)

	require.NoError(t, err)
	// Schedule bookkeeping untouched; only the separately tracked fee moved.
	assert.True(t, result.Installment.PaidAmount.IsZero())
	assert.True(t, result.Installment.LateFeePaid.Equal(fee))
	assert.Equal(t, domain.InstallmentStatusOverdue, result.Installment.Status)

	mocks.loans.AssertExpectations(t)
	mocks.accounts.AssertExpectations(t)
}

func TestApplyPayment_RejectsNonPositiveAmounts(t *testing.T) {
	tests := []struct {
		name        string
		installment *domain.Installment
		request     *domain.ApplyPaymentRequest
		expected    error
	}{
		{
			name: "partial with zero amount",
			installment: &domain.Installment{
				Amount: decimal.NewFromInt(100),
				Status: domain.InstallmentStatusPending,
			},
			request: &domain.ApplyPaymentRequest{
				InstallmentNumber: 1,
				Mode:              domain.PaymentModePartial,
				Amount:            decimal.Zero,
			},
			expected: customError.ErrInvalidPaymentAmount,
		},
		{
			name: "partial with negative amount",
			installment: &domain.Installment{
				Amount: decimal.NewFromInt(100),
				Status: domain.InstallmentStatusPending,
			},
			request: &domain.ApplyPaymentRequest{
				InstallmentNumber: 1,
				Mode:              domain.PaymentModePartial,
				Amount:            decimal.NewFromInt(-10),
			},
			expected: customError.ErrInvalidPaymentAmount,
		},
		{
			name: "interest only without a fee",
			installment: &domain.Installment{
				Amount: decimal.NewFromInt(100),
				Status: domain.InstallmentStatusPending,
			},
			request: &domain.ApplyPaymentRequest{
				InstallmentNumber: 1,
				Mode:              domain.PaymentModeInterestOnly,
				LateFee:           decimal.Zero,
			},
			expected: customError.ErrInvalidPaymentAmount,
		},
		{
			name: "partial above the remaining scheduled amount",
			installment: &domain.Installment{
				Amount: decimal.NewFromFloat(135.39),
				Status: domain.InstallmentStatusPending,
			},
			request: &domain.ApplyPaymentRequest{
				InstallmentNumber: 1,
				Mode:              domain.PaymentModePartial,
				Amount:            decimal.NewFromInt(200),
			},
			expected: customError.ErrInvalidPaymentAmount,
		},
		{
			name: "partial above the remainder of a partially paid installment",
			installment: &domain.Installment{
				Amount:     decimal.NewFromInt(100),
				PaidAmount: decimal.NewFromInt(60),
				Status:     domain.InstallmentStatusPartiallyPaid,
			},
			request: &domain.ApplyPaymentRequest{
				InstallmentNumber: 1,
				Mode:              domain.PaymentModePartial,
				Amount:            decimal.NewFromInt(50),
			},
			expected: customError.ErrInvalidPaymentAmount,
		},
		{
			name: "total on a settled installment",
			installment: &domain.Installment{
				Amount:     decimal.NewFromInt(100),
				PaidAmount: decimal.NewFromInt(100),
				Status:     domain.InstallmentStatusPaid,
			},
			request: &domain.ApplyPaymentRequest{
				InstallmentNumber: 1,
				Mode:              domain.PaymentModeTotal,
			},
			expected: customError.ErrNothingOutstanding,
		},
		{
			name: "unknown mode",
			installment: &domain.Installment{
				Amount: decimal.NewFromInt(100),
				Status: domain.InstallmentStatusPending,
			},
			request: &domain.ApplyPaymentRequest{
				InstallmentNumber: 1,
				Mode:              "settlement",
				Amount:            decimal.NewFromInt(10),
			},
			expected: customError.ErrInvalidPaymentAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, mocks := newPaymentServiceForTest()

			loanID := uuid.New()
			accountID := uuid.New()
			tt.installment.LoanID = loanID
			tt.installment.Number = tt.request.InstallmentNumber
			tt.request.AccountID = accountID.String()

			mocks.loans.On("GetByID", mock.Anything, loanID).
				Return(&domain.Loan{ID: loanID}, nil)
			mocks.loans.On("GetInstallment", mock.Anything, loanID, tt.request.InstallmentNumber).
				Return(tt.installment, nil)

			result, err := service.ApplyPayment(context.Background(), loanID, tt.request)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.expected)
			assert.Nil(t, result)

			// Nothing was mutated or recorded.
			mocks.loans.AssertNotCalled(t, "UpdateInstallment", mock.Anything, mock.Anything)
			mocks.payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			mocks.accounts.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything)
			mocks.accounts.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)
		})
	}
}

func TestGetPayments(t *testing.T) {
	service, mocks := newPaymentServiceForTest()

	loanID := uuid.New()
	mocks.loans.On("GetByID", mock.Anything, loanID).Return(&domain.Loan{ID: loanID}, nil)
	mocks.payments.On("GetByLoanID", mock.Anything, loanID).Return([]*domain.Payment{
		{LoanID: loanID, Mode: domain.PaymentModePartial, Amount: decimal.NewFromInt(50)},
	}, nil)

	payments, err := service.GetPayments(context.Background(), loanID)

	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, domain.PaymentModePartial, payments[0].Mode)
}

func TestGetPayments_UnknownLoan(t *testing.T) {
	service, mocks := newPaymentServiceForTest()

	loanID := uuid.New()
	mocks.loans.On("GetByID", mock.Anything, loanID).Return(nil, sql.ErrNoRows)

	payments, err := service.GetPayments(context.Background(), loanID)

	require.Error(t, err)
	assert.ErrorIs(t, err, customError.ErrLoanNotFound)
	assert.Nil(t, payments)

	mocks.payments.AssertNotCalled(t, "GetByLoanID", mock.Anything, mock.Anything)
}

func TestApplyPayment_MalformedAccountID(t *testing.T) {
	service, mocks := newPaymentServiceForTest()

	request := &domain.ApplyPaymentRequest{
		InstallmentNumber: 1,
		AccountID:         "not-a-uuid",
		Mode:              domain.PaymentModeTotal,
	}

	result, err := service.ApplyPayment(context.Background(), uuid.New(), request)

	require.Error(t, err)
	assert.ErrorIs(t, err, customError.ErrAccountNotFound)
	assert.Nil(t, result)

	mocks.loans.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}
