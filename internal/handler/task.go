package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/frocha/mesada/internal/model"
	"github.com/frocha/mesada/internal/store"
	"github.com/frocha/mesada/internal/websocket"
)

type TaskHandler struct {
	store  *store.TaskStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewTaskHandler(s *store.TaskStore, hub *websocket.Hub, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{store: s, hub: hub, logger: logger}
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.store.ListEnabled()
	if err != nil {
		h.logger.Error("list tasks", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list tasks"})
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	task, err := h.store.GetByID(idParam(r))
	if err != nil {
		h.logger.Error("get task", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get task"})
		return
	}
	if task == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "task not found"})
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Value       float64 `json:"value"`
		IsDiscount  bool    `json:"isDiscount"`
		IsBonus     bool    `json:"isBonus"`
		SortOrder   int     `json:"order"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}
	if req.Value < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "value must be non-negative"})
		return
	}
	if req.IsDiscount && req.IsBonus {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "task cannot be both discount and bonus"})
		return
	}

	task, err := h.store.Create(req.Title, req.Description, req.Value, req.IsDiscount, req.IsBonus, req.SortOrder)
	if err != nil {
		h.logger.Error("create task", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create task"})
		return
	}

	h.hub.Broadcast(websocket.NewMessage("task", "created", task.ID, nil))
	writeJSON(w, http.StatusCreated, task)
}

// Update applies a partial update: absent fields keep their current values.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)

	existing, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get task", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get task"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "task not found"})
		return
	}

	var req struct {
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		Value       *float64 `json:"value"`
		IsDiscount  *bool    `json:"isDiscount"`
		IsBonus     *bool    `json:"isBonus"`
		SortOrder   *int     `json:"order"`
		Enable      *bool    `json:"enable"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if req.Title != nil {
		*req.Title = strings.TrimSpace(*req.Title)
		if *req.Title == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
			return
		}
		existing.Title = *req.Title
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.Value != nil {
		if *req.Value < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "value must be non-negative"})
			return
		}
		existing.Value = *req.Value
	}
	if req.IsDiscount != nil {
		existing.IsDiscount = *req.IsDiscount
	}
	if req.IsBonus != nil {
		existing.IsBonus = *req.IsBonus
	}
	if existing.IsDiscount && existing.IsBonus {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "task cannot be both discount and bonus"})
		return
	}
	if req.SortOrder != nil {
		existing.SortOrder = *req.SortOrder
	}
	if req.Enable != nil {
		existing.Enable = *req.Enable
	}

	task, err := h.store.Update(id, existing.Title, existing.Description, existing.Value,
		existing.IsDiscount, existing.IsBonus, existing.SortOrder, existing.Enable)
	if err != nil {
		h.logger.Error("update task", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update task"})
		return
	}

	h.hub.Broadcast(websocket.NewMessage("task", "updated", task.ID, nil))
	writeJSON(w, http.StatusOK, task)
}

// Delete disables the task. Historical completions keep referencing it.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)

	existing, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get task", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get task"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "task not found"})
		return
	}

	if err := h.store.SoftDelete(id); err != nil {
		h.logger.Error("delete task", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete task"})
		return
	}

	h.hub.Broadcast(websocket.NewMessage("task", "deleted", id, nil))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Reorder rewrites the display order to match the given id list and returns
// the refreshed task list.
func (h *TaskHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TaskIDs []string `json:"taskIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if len(req.TaskIDs) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "taskIds is required"})
		return
	}

	if err := h.store.UpdateSortOrder(req.TaskIDs); err != nil {
		h.logger.Error("reorder tasks", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to reorder tasks"})
		return
	}

	tasks, err := h.store.ListEnabled()
	if err != nil {
		h.logger.Error("list tasks", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list tasks"})
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}

	h.hub.Broadcast(websocket.NewMessage("task", "reordered", "", nil))
	writeJSON(w, http.StatusOK, tasks)
}
