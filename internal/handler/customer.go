package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/credsimples/loan-engine/internal/domain"
	"github.com/credsimples/loan-engine/internal/service"
	"github.com/credsimples/loan-engine/pkg/response"
)

type CustomerHandler struct {
	service   *service.CustomerService
	validator *validator.Validate
}

func NewCustomerHandler(service *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		service:   service,
		validator: newValidator(),
	}
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	customer, err := h.service.CreateCustomer(r.Context(), &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, customer)
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathID(w, r, "customerId")
	if !ok {
		return
	}

	customer, err := h.service.GetCustomer(r.Context(), customerID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, customer)
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.ListCustomers(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, customers)
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathID(w, r, "customerId")
	if !ok {
		return
	}

	var request domain.UpdateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	customer, err := h.service.UpdateCustomer(r.Context(), customerID, &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, customer)
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathID(w, r, "customerId")
	if !ok {
		return
	}

	if err := h.service.DeleteCustomer(r.Context(), customerID); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}

// pathID parses a UUID path variable, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := mux.Vars(r)[name]
	id, err := uuid.Parse(raw)
	if err != nil {
		response.BadRequest(w, "invalid "+name, err)
		return uuid.Nil, false
	}

	return id, true
}
