package costing

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/de-tools/lab-costing/pkg/adapters"
	apperrors "github.com/de-tools/lab-costing/pkg/errors"
	"github.com/de-tools/lab-costing/pkg/models/api"
	"github.com/de-tools/lab-costing/pkg/services/dashboard"
)

type Handler struct {
	dashboard dashboard.Service
}

func NewHandler(svc dashboard.Service) *Handler {
	return &Handler{
		dashboard: svc,
	}
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	d, err := h.dashboard.Dashboard(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response, err := adapters.MapDashboardDomainToApi(*d)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logger.Debug().
		Int("tests", len(response.Tests)).
		Msg("dashboard served")
}

func (h *Handler) GetTestCost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rawID := chi.URLParam(r, "id")

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, apperrors.NewValidationError("invalid test id: "+rawID))
		return
	}

	summary, err := h.dashboard.TestCost(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response, err := adapters.MapTestCostSummaryDomainToApi(*summary)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	logger := zerolog.Ctx(r.Context())

	status := http.StatusInternalServerError
	message := "internal server error"
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeNotFound:
		status = http.StatusNotFound
		message = apperrors.MessageOf(err)
	case apperrors.ErrorTypeValidation:
		status = http.StatusBadRequest
		message = apperrors.MessageOf(err)
	}

	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	} else {
		logger.Debug().Err(err).Str("path", r.URL.Path).Msg("request rejected")
	}
	writeJSON(w, status, api.ErrorResponse{Error: message})
}
