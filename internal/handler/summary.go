package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/frocha/mesada/internal/summary"
)

type SummaryHandler struct {
	service *summary.Service
	logger  *slog.Logger
}

func NewSummaryHandler(service *summary.Service, logger *slog.Logger) *SummaryHandler {
	return &SummaryHandler{service: service, logger: logger}
}

func summaryParams(r *http.Request) (childID string, date time.Time, errMsg string) {
	childID = r.URL.Query().Get("childId")
	if childID == "" {
		return "", time.Time{}, "childId is required"
	}
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		return "", time.Time{}, "date is required"
	}
	date, err := parseDate(dateStr)
	if err != nil {
		return "", time.Time{}, "date must be RFC3339 or YYYY-MM-DD format"
	}
	return childID, date, ""
}

func (h *SummaryHandler) Daily(w http.ResponseWriter, r *http.Request) {
	childID, date, errMsg := summaryParams(r)
	if errMsg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMsg})
		return
	}

	s, err := h.service.Daily(childID, date)
	if err != nil {
		h.logger.Error("daily summary", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to compute daily summary"})
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *SummaryHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	childID, date, errMsg := summaryParams(r)
	if errMsg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMsg})
		return
	}

	s, err := h.service.Monthly(childID, date)
	if err != nil {
		h.logger.Error("monthly summary", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to compute monthly summary"})
		return
	}
	writeJSON(w, http.StatusOK, s)
}
