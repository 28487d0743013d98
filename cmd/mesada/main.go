package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/frocha/mesada/internal/backup"
	"github.com/frocha/mesada/internal/database"
	"github.com/frocha/mesada/internal/logging"
	"github.com/frocha/mesada/internal/server"
)

func main() {
	port := os.Getenv("MESADA_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("MESADA_DB_PATH")
	if dbPath == "" {
		dbPath = "mesada.db"
	}

	logger := logging.Setup(os.Getenv("MESADA_LOG_LEVEL"), os.Getenv("MESADA_LOG_FORMAT"))

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	backupCfg := backup.Config{
		S3: backup.S3Config{
			Endpoint:  os.Getenv("MESADA_BACKUP_S3_ENDPOINT"),
			Bucket:    os.Getenv("MESADA_BACKUP_S3_BUCKET"),
			Region:    os.Getenv("MESADA_BACKUP_S3_REGION"),
			AccessKey: os.Getenv("MESADA_BACKUP_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("MESADA_BACKUP_S3_SECRET_KEY"),
		},
		DBPath:        dbPath,
		ScheduleHour:  envInt("MESADA_BACKUP_HOUR", 3),
		RetentionDays: envInt("MESADA_BACKUP_RETENTION_DAYS", 30),
	}

	srv := server.New(db, backupCfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv.BackupManager().Start(ctx)
	defer srv.BackupManager().Stop()

	// Hourly housekeeping: expired sessions and stale rate-limit entries.
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := srv.SessionStore().DeleteExpired(); err != nil {
					logger.Error("session cleanup", "error", err)
				} else if n > 0 {
					logger.Info("purged expired sessions", "count", n)
				}
				srv.RateLimiter().Cleanup()
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("Mesada running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
