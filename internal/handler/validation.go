package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// newValidator builds the request validator with the decimal comparison
// rules used by the DTO tags (decimal_gt, decimal_gte).
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("decimal_gt", decimalGT)
	_ = v.RegisterValidation("decimal_gte", decimalGTE)
	return v
}

func decimalGT(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}

	param, err := decimal.NewFromString(fl.Param())
	if err != nil {
		return false
	}

	return value.GreaterThan(param)
}

func decimalGTE(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}

	param, err := decimal.NewFromString(fl.Param())
	if err != nil {
		return false
	}

	return value.GreaterThanOrEqual(param)
}
