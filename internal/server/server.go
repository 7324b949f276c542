package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/kbakken/wodboard/internal/agent"
	"github.com/kbakken/wodboard/internal/backup"
	"github.com/kbakken/wodboard/internal/handler"
	"github.com/kbakken/wodboard/internal/middleware"
	"github.com/kbakken/wodboard/internal/notify"
	"github.com/kbakken/wodboard/internal/push"
	"github.com/kbakken/wodboard/internal/store"
	ws "github.com/kbakken/wodboard/internal/websocket"
)

// Config holds the server's wiring configuration.
type Config struct {
	AuthSecret []byte
	Push       push.Config
	Backup     backup.Config
}

type Server struct {
	db            *sql.DB
	hub           *ws.Hub
	notificationH *handler.NotificationHandler
	preferenceH   *handler.PreferenceHandler
	pushH         *handler.PushHandler
	agentH        *handler.AgentHandler
	bracketH      *handler.BracketHandler
	backupH       *handler.BackupHandler
	channel       *notify.Channel
	scheduler     *notify.Scheduler
	backupManager *backup.Manager
	rateLimiter   *middleware.RateLimiter
	authSecret    []byte
	logger        *slog.Logger
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	stateStore := store.NewStateStore(db)
	prefStore := store.NewPreferenceStore(db, logger.With("component", "preferences"))
	historyStore := store.NewHistoryStore(db, logger.With("component", "history"))
	pushStore := store.NewPushStore(db)
	backupStore := store.NewBackupStore(db)

	pushSvc := push.NewService(cfg.Push.VAPIDPublicKey, cfg.Push.VAPIDPrivateKey)

	channel := notify.NewChannel(prefStore, historyStore, pushStore, pushSvc, hub,
		logger.With("component", "channel"))
	scheduler := notify.NewScheduler(channel, historyStore, stateStore,
		logger.With("component", "scheduler"))

	backgroundAgent := agent.New(pushStore, pushSvc, logger.With("component", "agent"))

	backupMgr := backup.NewManager(cfg.Backup, db, backupStore, func(s backup.Status) {
		hub.Broadcast(ws.Message{
			Type: "backup_status",
			Extra: map[string]any{
				"state":       string(s.State),
				"in_progress": s.InProgress,
				"error":       s.Error,
			},
		})
	}, logger.With("component", "backup"))

	return &Server{
		db:            db,
		hub:           hub,
		notificationH: handler.NewNotificationHandler(historyStore, channel, logger.With("component", "notification_handler")),
		preferenceH:   handler.NewPreferenceHandler(prefStore),
		pushH:         handler.NewPushHandler(pushStore, pushSvc, logger.With("component", "push_handler")),
		agentH:        handler.NewAgentHandler(backgroundAgent),
		bracketH:      handler.NewBracketHandler(hub),
		backupH:       handler.NewBackupHandler(backupMgr, backupStore, logger.With("component", "backup_handler")),
		channel:       channel,
		scheduler:     scheduler,
		backupManager: backupMgr,
		rateLimiter:   middleware.NewRateLimiter(),
		authSecret:    cfg.AuthSecret,
		logger:        logger,
	}
}

// Scheduler returns the notification scheduler for lifecycle management.
func (s *Server) Scheduler() *notify.Scheduler {
	return s.scheduler
}

// BackupManager returns the backup manager for lifecycle management.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupManager
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes
	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.HandleFunc("GET /ws", ws.Handle(s.hub, s.logger.With("component", "websocket")))

	// Protected routes, wrapped with bearer-token middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireToken(s.authSecret)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	// Notification history
	mux.HandleFunc("GET /api/notifications", s.notificationH.List)
	mux.HandleFunc("GET /api/notifications/unread-count", s.notificationH.UnreadCount)
	mux.HandleFunc("POST /api/notifications/{id}/read", s.notificationH.MarkRead)
	mux.HandleFunc("DELETE /api/notifications", s.notificationH.Clear)
	mux.HandleFunc("POST /api/notifications/send", s.notificationH.Send)

	// Delivery preferences
	mux.HandleFunc("GET /api/notifications/preferences", s.preferenceH.Get)
	mux.HandleFunc("PUT /api/notifications/preferences", s.preferenceH.Update)

	// Push subscriptions
	mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
	mux.HandleFunc("DELETE /api/push/subscriptions/{id}", s.pushH.Unsubscribe)
	mux.HandleFunc("GET /api/push/subscriptions", s.pushH.ListSubscriptions)
	mux.HandleFunc("GET /api/push/vapid-key", s.pushH.GetVAPIDKey)
	mux.HandleFunc("POST /api/push/test", s.pushH.TestNotification)

	// Background agent boundary
	mux.Handle("POST /api/agent/push", s.rateLimited(s.agentH.Receive))
	mux.HandleFunc("POST /api/agent/click", s.agentH.Click)

	// Live bracket relay
	mux.HandleFunc("POST /api/bracket/update", s.bracketH.Update)

	// Backups
	mux.HandleFunc("POST /api/backup/run", s.backupH.Run)
	mux.HandleFunc("GET /api/backup/status", s.backupH.Status)
	mux.HandleFunc("GET /api/backups", s.backupH.List)
	mux.HandleFunc("GET /api/backups/{id}/download", s.backupH.Download)
}

func (s *Server) rateLimited(h http.HandlerFunc) http.Handler {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	return middleware.RateLimit(s.rateLimiter, keyFunc, 60, time.Minute)(h)
}
