package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/credsimples/loan-engine/internal/domain"
	"github.com/credsimples/loan-engine/internal/service"
	"github.com/credsimples/loan-engine/pkg/response"
)

type AccountHandler struct {
	service   *service.AccountService
	validator *validator.Validate
}

func NewAccountHandler(service *service.AccountService) *AccountHandler {
	return &AccountHandler{
		service:   service,
		validator: newValidator(),
	}
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	account, err := h.service.CreateAccount(r.Context(), &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, account)
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathID(w, r, "accountId")
	if !ok {
		return
	}

	account, err := h.service.GetAccount(r.Context(), accountID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, account)
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.ListAccounts(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, accounts)
}

func (h *AccountHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathID(w, r, "accountId")
	if !ok {
		return
	}

	var request domain.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	transaction, err := h.service.CreateTransaction(r.Context(), accountID, &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, transaction)
}

func (h *AccountHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathID(w, r, "accountId")
	if !ok {
		return
	}

	transactions, err := h.service.ListTransactions(r.Context(), accountID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, transactions)
}
