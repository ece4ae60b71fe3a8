package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ReportTypeCashFlow    = "cash_flow"
	ReportTypeLoans       = "loans"
	ReportTypeDelinquency = "delinquency"
)

// ReportSummary aggregates the period figures fed to the report generator.
type ReportSummary struct {
	StartDate           time.Time       `json:"start_date"`
	EndDate             time.Time       `json:"end_date"`
	LoansOriginated     int             `json:"loans_originated"`
	PrincipalOriginated decimal.Decimal `json:"principal_originated"`
	PaymentsReceived    int             `json:"payments_received"`
	AmountReceived      decimal.Decimal `json:"amount_received"`
	LateFeesReceived    decimal.Decimal `json:"late_fees_received"`
	OverdueInstallments int             `json:"overdue_installments"`
	OverdueAmount       decimal.Decimal `json:"overdue_amount"`
	DelinquentCustomers int             `json:"delinquent_customers"`
	TotalCredits        decimal.Decimal `json:"total_credits"`
	TotalDebits         decimal.Decimal `json:"total_debits"`
}

type GenerateReportRequest struct {
	StartDate  time.Time `json:"start_date" validate:"required"`
	EndDate    time.Time `json:"end_date" validate:"required"`
	ReportType string    `json:"report_type" validate:"required,oneof=cash_flow loans delinquency"`
}

type GenerateReportResponse struct {
	ReportType  string         `json:"report_type"`
	Text        string         `json:"text"`
	Summary     *ReportSummary `json:"summary"`
	GeneratedAt time.Time      `json:"generated_at"`
}
