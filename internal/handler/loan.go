package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/credsimples/loan-engine/internal/domain"
	"github.com/credsimples/loan-engine/internal/service"
	"github.com/credsimples/loan-engine/pkg/response"
)

type LoanHandler struct {
	loans     *service.LoanService
	payments  *service.PaymentService
	validator *validator.Validate
}

func NewLoanHandler(loans *service.LoanService, payments *service.PaymentService) *LoanHandler {
	return &LoanHandler{
		loans:     loans,
		payments:  payments,
		validator: newValidator(),
	}
}

func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	result, err := h.loans.CreateLoan(r.Context(), &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, result)
}

func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathID(w, r, "loanId")
	if !ok {
		return
	}

	loan, err := h.loans.GetLoan(r.Context(), loanID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, loan)
}

func (h *LoanHandler) Update(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathID(w, r, "loanId")
	if !ok {
		return
	}

	var request domain.UpdateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	result, err := h.loans.UpdateLoan(r.Context(), loanID, &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *LoanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathID(w, r, "loanId")
	if !ok {
		return
	}

	if err := h.loans.DeleteLoan(r.Context(), loanID); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}

func (h *LoanHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathID(w, r, "loanId")
	if !ok {
		return
	}

	installments, err := h.loans.GetSchedule(r.Context(), loanID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, &domain.ScheduleResponse{
		LoanID:       loanID.String(),
		Installments: installments,
	})
}

func (h *LoanHandler) GetOutstanding(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathID(w, r, "loanId")
	if !ok {
		return
	}

	outstanding, err := h.loans.GetOutstanding(r.Context(), loanID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, &domain.OutstandingResponse{
		LoanID:      loanID.String(),
		Outstanding: outstanding,
	})
}

func (h *LoanHandler) GetByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathID(w, r, "customerId")
	if !ok {
		return
	}

	loans, err := h.loans.GetLoansByCustomer(r.Context(), customerID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, loans)
}

func (h *LoanHandler) ApplyPayment(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathID(w, r, "loanId")
	if !ok {
		return
	}

	var request domain.ApplyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	result, err := h.payments.ApplyPayment(r.Context(), loanID, &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *LoanHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathID(w, r, "loanId")
	if !ok {
		return
	}

	payments, err := h.payments.GetPayments(r.Context(), loanID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, payments)
}
