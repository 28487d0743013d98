package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/frocha/mesada/internal/backup"
	"github.com/frocha/mesada/internal/handler"
	"github.com/frocha/mesada/internal/middleware"
	"github.com/frocha/mesada/internal/store"
	"github.com/frocha/mesada/internal/summary"
	ws "github.com/frocha/mesada/internal/websocket"
)

type Server struct {
	db            *sql.DB
	hub           *ws.Hub
	childH        *handler.ChildHandler
	taskH         *handler.TaskHandler
	completedH    *handler.CompletedTaskHandler
	summaryH      *handler.SummaryHandler
	authH         *handler.AuthHandler
	backupH       *handler.BackupHandler
	sessionStore  *store.SessionStore
	rateLimiter   *middleware.RateLimiter
	backupManager *backup.Manager
	logger        *slog.Logger
}

func New(db *sql.DB, backupCfg backup.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	childStore := store.NewChildStore(db)
	taskStore := store.NewTaskStore(db)
	completedStore := store.NewCompletedTaskStore(db)
	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)

	summarySvc := summary.NewService(completedStore, taskStore)
	backupMgr := backup.NewManager(backupCfg, db, logger.With("component", "backup"))

	return &Server{
		db:            db,
		hub:           hub,
		childH:        handler.NewChildHandler(childStore, hub, logger.With("component", "child")),
		taskH:         handler.NewTaskHandler(taskStore, hub, logger.With("component", "task")),
		completedH:    handler.NewCompletedTaskHandler(completedStore, taskStore, childStore, hub, logger.With("component", "completed_task")),
		summaryH:      handler.NewSummaryHandler(summarySvc, logger.With("component", "summary")),
		authH:         handler.NewAuthHandler(userStore, sessionStore, logger.With("component", "auth")),
		backupH:       handler.NewBackupHandler(backupMgr),
		sessionStore:  sessionStore,
		rateLimiter:   middleware.NewRateLimiter(),
		backupManager: backupMgr,
		logger:        logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// BackupManager returns the backup manager.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupManager
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /api/auth/register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /api/auth/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes — wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/logout", s.authH.Logout)

	// Children API routes
	mux.HandleFunc("GET /api/children", s.childH.List)
	mux.HandleFunc("POST /api/children", s.childH.Create)
	mux.HandleFunc("GET /api/children/{id}", s.childH.Get)
	mux.HandleFunc("PUT /api/children/{id}", s.childH.Update)
	mux.HandleFunc("DELETE /api/children/{id}", s.childH.Delete)

	// Task API routes
	mux.HandleFunc("GET /api/tasks", s.taskH.List)
	mux.HandleFunc("POST /api/tasks", s.taskH.Create)
	mux.HandleFunc("GET /api/tasks/{id}", s.taskH.Get)
	mux.HandleFunc("PUT /api/tasks/{id}", s.taskH.Update)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.taskH.Delete)
	mux.HandleFunc("POST /api/tasks/reorder", s.taskH.Reorder)

	// Completed task API routes
	mux.HandleFunc("GET /api/completed-tasks", s.completedH.List)
	mux.HandleFunc("POST /api/completed-tasks", s.completedH.Toggle)

	// Summary API routes
	mux.HandleFunc("GET /api/daily-summary", s.summaryH.Daily)
	mux.HandleFunc("GET /api/monthly-summary", s.summaryH.Monthly)

	// Backup status
	mux.HandleFunc("GET /api/backup/status", s.backupH.Status)

	// Real-time sync
	mux.Handle("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))
}
