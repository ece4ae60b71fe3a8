package handler

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/credsimples/loan-engine/internal/domain"
)

func TestDecimalValidationRules(t *testing.T) {
	v := newValidator()

	base := func() *domain.CreateLoanRequest {
		return &domain.CreateLoanRequest{
			CustomerID:  uuid.New().String(),
			Amount:      decimal.NewFromInt(1200),
			MonthlyRate: decimal.NewFromFloat(0.05),
			TermMonths:  12,
			StartDate:   time.Now(),
			LateFeeRate: decimal.NewFromFloat(0.02),
		}
	}

	t.Run("valid request passes", func(t *testing.T) {
		assert.NoError(t, v.Struct(base()))
	})

	t.Run("zero amount fails decimal_gt", func(t *testing.T) {
		request := base()
		request.Amount = decimal.Zero
		assert.Error(t, v.Struct(request))
	})

	t.Run("negative rate fails decimal_gte", func(t *testing.T) {
		request := base()
		request.MonthlyRate = decimal.NewFromFloat(-0.01)
		assert.Error(t, v.Struct(request))
	})

	t.Run("zero rate is allowed", func(t *testing.T) {
		request := base()
		request.MonthlyRate = decimal.Zero
		assert.NoError(t, v.Struct(request))
	})

	t.Run("zero term fails min", func(t *testing.T) {
		request := base()
		request.TermMonths = 0
		assert.Error(t, v.Struct(request))
	})

	t.Run("malformed customer id fails uuid rule", func(t *testing.T) {
		request := base()
		request.CustomerID = "cliente-1"
		assert.Error(t, v.Struct(request))
	})
}
