package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/credsimples/loan-engine/internal/config"
	"github.com/credsimples/loan-engine/internal/domain"
	"github.com/credsimples/loan-engine/internal/repository"
	customError "github.com/credsimples/loan-engine/pkg/errors"
)

// TextGenerator is the narrow boundary to the hosted language model.
type TextGenerator interface {
	Enabled() bool
	Generate(ctx context.Context, prompt string) (string, error)
}

type ReportService struct {
	LoanRepo     repository.LoanRepository
	PaymentRepo  repository.PaymentRepository
	AccountRepo  repository.AccountRepository
	CustomerRepo repository.CustomerRepository
	Generator    TextGenerator
	redis        *redis.Client
	config       *config.Config
}

func NewReportService(
	loanRepo repository.LoanRepository,
	paymentRepo repository.PaymentRepository,
	accountRepo repository.AccountRepository,
	customerRepo repository.CustomerRepository,
	generator TextGenerator,
	redis *redis.Client,
	config *config.Config,
) *ReportService {
	return &ReportService{
		LoanRepo:     loanRepo,
		PaymentRepo:  paymentRepo,
		AccountRepo:  accountRepo,
		CustomerRepo: customerRepo,
		Generator:    generator,
		redis:        redis,
		config:       config,
	}
}

// Generate aggregates the period figures and renders a management report.
// The model output is opaque text; when the generator is disabled or fails
// the deterministic fallback rendering is used instead.
func (s *ReportService) Generate(ctx context.Context, request *domain.GenerateReportRequest) (*domain.GenerateReportResponse, error) {
	if !request.EndDate.After(request.StartDate) {
		return nil, customError.WrapReportError(
			fmt.Errorf("end date %s must be after start date %s", request.EndDate, request.StartDate))
	}

	if cached := s.getCachedReport(ctx, request); cached != nil {
		return cached, nil
	}

	summary, err := s.buildSummary(ctx, request.StartDate, request.EndDate)
	if err != nil {
		return nil, err
	}

	prompt := buildPrompt(request.ReportType, summary)

	text := ""
	if s.Generator != nil && s.Generator.Enabled() {
		text, err = s.Generator.Generate(ctx, prompt)
		if err != nil {
			log.Printf("report generation via model failed, using fallback: %v", err)
			text = ""
		}
	}
	if text == "" {
		text = fallbackReport(request.ReportType, summary)
	}

	response := &domain.GenerateReportResponse{
		ReportType:  request.ReportType,
		Text:        text,
		Summary:     summary,
		GeneratedAt: time.Now(),
	}

	s.cacheReport(ctx, request, response)

	return response, nil
}

func (s *ReportService) buildSummary(ctx context.Context, start, end time.Time) (*domain.ReportSummary, error) {
	summary := &domain.ReportSummary{
		StartDate:           start,
		EndDate:             end,
		PrincipalOriginated: decimal.Zero,
		AmountReceived:      decimal.Zero,
		LateFeesReceived:    decimal.Zero,
		OverdueAmount:       decimal.Zero,
	}

	loans, err := s.LoanRepo.GetOriginatedBetween(ctx, start, end)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	summary.LoansOriginated = len(loans)
	for _, loan := range loans {
		summary.PrincipalOriginated = summary.PrincipalOriginated.Add(loan.Amount)
	}

	payments, err := s.PaymentRepo.GetBetween(ctx, start, end)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	summary.PaymentsReceived = len(payments)
	for _, payment := range payments {
		summary.AmountReceived = summary.AmountReceived.Add(payment.Amount)
		summary.LateFeesReceived = summary.LateFeesReceived.Add(payment.LateFee)
	}

	overdue, err := s.LoanRepo.GetOverdueInstallments(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	summary.OverdueInstallments = len(overdue)
	for _, installment := range overdue {
		summary.OverdueAmount = summary.OverdueAmount.Add(installment.Remaining())
	}

	delinquent, err := s.CustomerRepo.CountByLoanStatus(ctx, domain.CustomerStatusDelinquent)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	summary.DelinquentCustomers = delinquent

	credits, err := s.AccountRepo.SumTransactionsBetween(ctx, domain.TransactionTypeCredit, start, end)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	summary.TotalCredits = credits

	debits, err := s.AccountRepo.SumTransactionsBetween(ctx, domain.TransactionTypeDebit, start, end)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	summary.TotalDebits = debits

	return summary, nil
}

func buildPrompt(reportType string, s *domain.ReportSummary) string {
	focus := map[string]string{
		domain.ReportTypeCashFlow:    "o fluxo de caixa do período (entradas, saídas e saldo líquido)",
		domain.ReportTypeLoans:       "a originação de empréstimos e o recebimento de parcelas no período",
		domain.ReportTypeDelinquency: "a inadimplência: parcelas vencidas, valores em atraso e clientes inadimplentes",
	}[reportType]

	return fmt.Sprintf(`Gere um relatório gerencial sobre %s.

DADOS DO PERÍODO (%s a %s):
- Empréstimos originados: %d, somando R$ %s em principal
- Pagamentos recebidos: %d, somando R$ %s (dos quais R$ %s em multas de atraso)
- Parcelas vencidas em aberto: %d, somando R$ %s
- Clientes inadimplentes: %d
- Entradas em conta: R$ %s
- Saídas de conta: R$ %s

Escreva de 3 a 5 parágrafos curtos, citando os números acima.`,
		focus,
		s.StartDate.Format("02/01/2006"), s.EndDate.Format("02/01/2006"),
		s.LoansOriginated, s.PrincipalOriginated.StringFixed(2),
		s.PaymentsReceived, s.AmountReceived.StringFixed(2), s.LateFeesReceived.StringFixed(2),
		s.OverdueInstallments, s.OverdueAmount.StringFixed(2),
		s.DelinquentCustomers,
		s.TotalCredits.StringFixed(2),
		s.TotalDebits.StringFixed(2),
	)
}

// fallbackReport renders a deterministic plain-text report when the model is
// unavailable.
func fallbackReport(reportType string, s *domain.ReportSummary) string {
	period := fmt.Sprintf("%s a %s", s.StartDate.Format("02/01/2006"), s.EndDate.Format("02/01/2006"))

	switch reportType {
	case domain.ReportTypeCashFlow:
		net := s.TotalCredits.Sub(s.TotalDebits)
		return fmt.Sprintf(
			"Fluxo de caixa (%s): entradas de R$ %s e saídas de R$ %s, resultado líquido de R$ %s. "+
				"Foram recebidos %d pagamentos somando R$ %s.",
			period, s.TotalCredits.StringFixed(2), s.TotalDebits.StringFixed(2), net.StringFixed(2),
			s.PaymentsReceived, s.AmountReceived.StringFixed(2))
	case domain.ReportTypeDelinquency:
		return fmt.Sprintf(
			"Inadimplência (%s): %d parcelas vencidas em aberto somando R$ %s, com %d clientes inadimplentes. "+
				"Multas de atraso recebidas no período: R$ %s.",
			period, s.OverdueInstallments, s.OverdueAmount.StringFixed(2), s.DelinquentCustomers,
			s.LateFeesReceived.StringFixed(2))
	default:
		return fmt.Sprintf(
			"Empréstimos (%s): %d contratos originados somando R$ %s em principal; %d pagamentos recebidos "+
				"somando R$ %s.",
			period, s.LoansOriginated, s.PrincipalOriginated.StringFixed(2),
			s.PaymentsReceived, s.AmountReceived.StringFixed(2))
	}
}

func reportCacheKey(request *domain.GenerateReportRequest) string {
	return fmt.Sprintf("report:%s:%d:%d", request.ReportType, request.StartDate.Unix(), request.EndDate.Unix())
}

func (s *ReportService) getCachedReport(ctx context.Context, request *domain.GenerateReportRequest) *domain.GenerateReportResponse {
	if s.redis == nil {
		return nil
	}

	payload, err := s.redis.Get(ctx, reportCacheKey(request)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("report cache read failed: %v", err)
		}
		return nil
	}

	var response domain.GenerateReportResponse
	if err := json.Unmarshal(payload, &response); err != nil {
		return nil
	}

	return &response
}

func (s *ReportService) cacheReport(ctx context.Context, request *domain.GenerateReportRequest, response *domain.GenerateReportResponse) {
	if s.redis == nil {
		return
	}

	payload, err := json.Marshal(response)
	if err != nil {
		return
	}

	ttl := time.Hour
	if s.config != nil && s.config.Report.CacheTTL > 0 {
		ttl = s.config.Report.CacheTTL
	}

	if err := s.redis.Set(ctx, reportCacheKey(request), payload, ttl).Err(); err != nil {
		log.Printf("report cache write failed: %v", err)
	}
}
