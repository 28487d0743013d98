package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frocha/mesada/internal/dates"
	"github.com/frocha/mesada/internal/model"
	"github.com/frocha/mesada/internal/store"
	"github.com/frocha/mesada/internal/websocket"
)

type CompletedTaskHandler struct {
	completions *store.CompletedTaskStore
	tasks       *store.TaskStore
	children    *store.ChildStore
	hub         *websocket.Hub
	logger      *slog.Logger
}

func NewCompletedTaskHandler(completions *store.CompletedTaskStore, tasks *store.TaskStore, children *store.ChildStore, hub *websocket.Hub, logger *slog.Logger) *CompletedTaskHandler {
	return &CompletedTaskHandler{
		completions: completions,
		tasks:       tasks,
		children:    children,
		hub:         hub,
		logger:      logger,
	}
}

// List returns a child's completions in a date range, each joined with its
// task's value and category flags. endDate defaults to startDate, giving a
// single-day listing.
func (h *CompletedTaskHandler) List(w http.ResponseWriter, r *http.Request) {
	childID := r.URL.Query().Get("childId")
	if childID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "childId is required"})
		return
	}

	startStr := r.URL.Query().Get("startDate")
	if startStr == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "startDate is required"})
		return
	}
	start, err := parseDate(startStr)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "startDate must be RFC3339 or YYYY-MM-DD format"})
		return
	}

	end := start
	if endStr := r.URL.Query().Get("endDate"); endStr != "" {
		end, err = parseDate(endStr)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "endDate must be RFC3339 or YYYY-MM-DD format"})
			return
		}
	}

	completions, err := h.completions.ListByChildAndRange(childID, dates.StartOfDay(start), dates.EndOfDay(end))
	if err != nil {
		h.logger.Error("list completions", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list completed tasks"})
		return
	}
	if completions == nil {
		completions = []model.CompletedTaskWithTask{}
	}
	writeJSON(w, http.StatusOK, completions)
}

// Toggle flips the completion state of (taskId, childId, day). Completing
// returns the created record; uncompleting returns a confirmation message.
func (h *CompletedTaskHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TaskID  string `json:"taskId"`
		ChildID string `json:"childId"`
		Date    string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.TaskID == "" || req.ChildID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "taskId and childId are required"})
		return
	}
	if req.Date == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date is required"})
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date must be RFC3339 or YYYY-MM-DD format"})
		return
	}

	task, err := h.tasks.GetByID(req.TaskID)
	if err != nil {
		h.logger.Error("get task", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get task"})
		return
	}
	if task == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "task not found"})
		return
	}

	child, err := h.children.GetByID(req.ChildID)
	if err != nil {
		h.logger.Error("get child", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get child"})
		return
	}
	if child == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "child not found"})
		return
	}

	created, deleted, err := h.completions.Toggle(req.TaskID, req.ChildID, date)
	if err != nil {
		h.logger.Error("toggle completion", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to toggle task"})
		return
	}

	extra := map[string]any{
		"childId": req.ChildID,
		"date":    date.Format("2006-01-02"),
	}

	if deleted {
		h.hub.Broadcast(websocket.NewMessage("completed_task", "deleted", "", extra))
		writeJSON(w, http.StatusOK, map[string]string{"message": "Task uncompleted"})
		return
	}

	h.hub.Broadcast(websocket.NewMessage("completed_task", "created", created.ID, extra))
	writeJSON(w, http.StatusCreated, created)
}
