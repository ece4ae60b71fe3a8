package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/credsimples/loan-engine/internal/domain"
	"github.com/credsimples/loan-engine/internal/service"
	"github.com/credsimples/loan-engine/pkg/response"
)

type ReportHandler struct {
	service   *service.ReportService
	validator *validator.Validate
}

func NewReportHandler(service *service.ReportService) *ReportHandler {
	return &ReportHandler{
		service:   service,
		validator: newValidator(),
	}
}

func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var request domain.GenerateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	report, err := h.service.Generate(r.Context(), &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, report)
}
