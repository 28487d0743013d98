package handler

import (
	"net/http"

	"github.com/frocha/mesada/internal/backup"
)

type BackupHandler struct {
	manager *backup.Manager
}

func NewBackupHandler(m *backup.Manager) *BackupHandler {
	return &BackupHandler{manager: m}
}

func (h *BackupHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.manager.Status())
}
