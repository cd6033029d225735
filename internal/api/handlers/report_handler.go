// Package handlers exposes the report services over HTTP.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/clinicops/leakwatch/internal/application/services"
	"github.com/clinicops/leakwatch/internal/domain/entities"
	apperrors "github.com/clinicops/leakwatch/pkg/errors"
)

// Throughput override bounds accepted from the API
const (
	minThroughput = 1
	maxThroughput = 30
)

// ReportHandler handles financial report HTTP requests
type ReportHandler struct {
	reports *services.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// ListPeriods handles GET /api/reports/periods
func (h *ReportHandler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.reports.AvailablePeriods(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	out := make([]string, 0, len(periods))
	for _, p := range periods {
		out = append(out, p.String())
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"periods": out,
		"count":   len(out),
	})
}

// GetFinancialReport handles GET /api/reports/financial
func (h *ReportHandler) GetFinancialReport(w http.ResponseWriter, r *http.Request) {
	periodParam := r.URL.Query().Get("period")
	if periodParam == "" {
		respondWithError(w, http.StatusBadRequest, "period is required")
		return
	}
	period, err := entities.ParsePeriod(periodParam)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := services.FinancialReportRequest{Period: period}

	if raw := r.URL.Query().Get("throughput"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < minThroughput || v > maxThroughput {
			respondWithError(w, http.StatusBadRequest,
				fmt.Sprintf("throughput must be a number between %d and %d", minThroughput, maxThroughput))
			return
		}
		req.ThroughputOverride = &v
	}

	if raw := r.URL.Query().Get("recoveryTarget"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 100 {
			respondWithError(w, http.StatusBadRequest, "recoveryTarget must be a number between 0 and 100")
			return
		}
		req.RecoveryTargetPct = v
	}

	report, err := h.reports.Generate(r.Context(), req)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps an application error onto an HTTP status.
// Internal details never reach the client.
func respondWithAppError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	switch appErr.Type {
	case apperrors.ErrorTypeNotFound:
		respondWithError(w, http.StatusNotFound, appErr.Message)
	case apperrors.ErrorTypeValidation:
		respondWithError(w, http.StatusBadRequest, appErr.Message)
	case apperrors.ErrorTypeEmptyState:
		respondWithError(w, http.StatusConflict, appErr.Message)
	case apperrors.ErrorTypeExternal:
		respondWithError(w, http.StatusBadGateway, appErr.Message)
	default:
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
