package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/clinicops/leakwatch/internal/application/services"
	"github.com/clinicops/leakwatch/internal/domain/entities"
)

// CallCenterHandler handles call-center report HTTP requests
type CallCenterHandler struct {
	callCenter *services.CallCenterService
}

// NewCallCenterHandler creates a new call-center handler
func NewCallCenterHandler(callCenter *services.CallCenterService) *CallCenterHandler {
	return &CallCenterHandler{callCenter: callCenter}
}

// ListPeriods handles GET /api/callcenter/periods
func (h *CallCenterHandler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.callCenter.AvailablePeriods(r.Context())
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

// GetSummary handles GET /api/callcenter/summary
func (h *CallCenterHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
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

	segment, ok := parseSegment(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "segment must be one of unified, obra_social, particular")
		return
	}

	report, err := h.callCenter.Summary(r.Context(), period, segment)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}

// GetYearly handles GET /api/callcenter/yearly
func (h *CallCenterHandler) GetYearly(w http.ResponseWriter, r *http.Request) {
	monthParam := r.URL.Query().Get("month")
	if monthParam == "" {
		respondWithError(w, http.StatusBadRequest, "month is required")
		return
	}
	monthNum, err := strconv.Atoi(monthParam)
	if err != nil || monthNum < 1 || monthNum > 12 {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("invalid month %q: expected 1-12", monthParam))
		return
	}

	segment, ok := parseSegment(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "segment must be one of unified, obra_social, particular")
		return
	}

	report, err := h.callCenter.Yearly(r.Context(), time.Month(monthNum), segment)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}

// parseSegment reads the optional segment query parameter, defaulting to the
// unified view.
func parseSegment(r *http.Request) (entities.Segment, bool) {
	raw := r.URL.Query().Get("segment")
	if raw == "" {
		return entities.SegmentUnified, true
	}
	segment := entities.Segment(raw)
	if !entities.ValidSegment(segment) {
		return "", false
	}
	return segment, true
}
