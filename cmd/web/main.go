package main

import (
	"embed"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"

	"studio-space/internal/config"
	"studio-space/internal/gemini"
	"studio-space/internal/history"
	"studio-space/internal/httpclient"
	"studio-space/internal/studio"
	"studio-space/internal/ws"
)

//go:embed static/*
var staticFS embed.FS

type server struct {
	studio   *studio.Service
	history  *history.Store
	hub      *ws.Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
	timeout  time.Duration
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg)

	httpClient := httpclient.New(httpclient.Options{
		PreferIPv4: cfg.PreferIPv4,
		Timeout:    cfg.HTTPTimeout,
	})

	gem := gemini.New(gemini.Options{
		APIKey:     cfg.GeminiAPIKey,
		BaseURL:    cfg.GeminiBaseURL,
		APIVersion: cfg.GeminiAPIVersion,
		HTTPClient: httpClient,
		Logger:     logger,
	})

	store, err := history.NewStore(history.Options{
		Path:     cfg.HistoryPath,
		MaxItems: cfg.MaxHistory,
	})
	if err != nil {
		logger.Error("history init failed", "err", err)
		os.Exit(1)
	}

	hub := ws.NewHub(logger)
	go hub.Run()

	svc, err := studio.New(studio.Options{
		AI:                gem,
		History:           store,
		Notifier:          hub,
		Logger:            logger,
		MaxParallelImages: cfg.MaxParallelImages,
	})
	if err != nil {
		logger.Error("studio init failed", "err", err)
		os.Exit(1)
	}

	s := &server{
		studio:  svc,
		history: store,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger:  logger,
		timeout: cfg.RequestTimeout,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/generate", s.handleGenerate)
	mux.HandleFunc("/api/enhance", s.handleEnhance)
	mux.HandleFunc("/api/storyboard", s.handleStoryboard)
	mux.HandleFunc("/api/regenerate", s.handleRegenerate)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/options", s.handleOptions)
	mux.HandleFunc("/api/ws", s.handleWS)

	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	mux.Handle("/", http.FileServer(http.FS(staticSub)))

	srv := &http.Server{
		Addr:              cfg.WebAddr,
		Handler:           withLogging(mux, logger),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       90 * time.Second,
	}

	logger.Info("web started", "addr", cfg.WebAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "err", err)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}

func withLogging(next http.Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info("http", "method", r.Method, "path", r.URL.Path, "dur_ms", time.Since(start).Milliseconds())
	})
}
