package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbakken/wodboard/internal/backup"
	"github.com/kbakken/wodboard/internal/database"
	"github.com/kbakken/wodboard/internal/logging"
	"github.com/kbakken/wodboard/internal/push"
	"github.com/kbakken/wodboard/internal/server"
)

func main() {
	logger := logging.Setup(os.Getenv("WODBOARD_LOG_LEVEL"))

	port := os.Getenv("WODBOARD_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("WODBOARD_DB_PATH")
	if dbPath == "" {
		dbPath = "wodboard.db"
	}

	secret := os.Getenv("WODBOARD_AUTH_SECRET")
	if secret == "" {
		log.Fatal("WODBOARD_AUTH_SECRET is required")
	}

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	cfg := server.Config{
		AuthSecret: []byte(secret),
		Push: push.Config{
			VAPIDPublicKey:  os.Getenv("WODBOARD_VAPID_PUBLIC_KEY"),
			VAPIDPrivateKey: os.Getenv("WODBOARD_VAPID_PRIVATE_KEY"),
		},
		Backup: backup.Config{
			S3: backup.S3Config{
				Endpoint:  os.Getenv("WODBOARD_S3_ENDPOINT"),
				Bucket:    os.Getenv("WODBOARD_S3_BUCKET"),
				Region:    os.Getenv("WODBOARD_S3_REGION"),
				AccessKey: os.Getenv("WODBOARD_S3_ACCESS_KEY"),
				SecretKey: os.Getenv("WODBOARD_S3_SECRET_KEY"),
			},
			DBPath:     dbPath,
			Passphrase: os.Getenv("WODBOARD_BACKUP_PASSPHRASE"),
		},
	}

	srv := server.New(db, cfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv.Scheduler().Start(ctx)
	defer srv.Scheduler().Stop()

	if srv.BackupManager().Enabled() {
		srv.BackupManager().Start(ctx)
		defer srv.BackupManager().Stop()
	}

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("wodboard notification service listening", "port", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
