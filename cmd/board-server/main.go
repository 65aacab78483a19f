package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sense-checkers/server/internal/boardimg"
	appcfg "github.com/sense-checkers/server/internal/config"
	"github.com/sense-checkers/server/internal/hub"
	"github.com/sense-checkers/server/internal/journal"
	"github.com/sense-checkers/server/internal/match"
	"github.com/sense-checkers/server/internal/obslog"
	"github.com/sense-checkers/server/internal/rules"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}

	registry := match.NewRegistry(rules.NewGame)

	if cfg.DatabaseURL != "" {
		repo, err := match.NewRepository(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("repository init error: %v", err)
		}
		defer repo.Close()
		registry.AttachRepository(repo)
	}

	var jr *journal.Store
	if cfg.RedisURL != "" {
		jr, err = journal.NewStore(cfg.RedisURL)
		if err != nil {
			log.Fatalf("journal init error: %v", err)
		}
		defer jr.Close()
	}

	h := hub.NewHub(registry, cfg, jr)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.ServeWS)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /rooms/{room}/board.png", func(w http.ResponseWriter, r *http.Request) {
		sess := registry.Lookup(r.PathValue("room"))
		if sess == nil {
			http.Error(w, "no such room", http.StatusNotFound)
			return
		}
		flip := r.URL.Query().Get("player") == "1"
		png, err := boardimg.RenderPNG(sess.Pieces(), flip)
		if err != nil {
			obslog.L().Error("board_render_error", zap.String("room", sess.Key()), zap.Error(err))
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	})

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: mux}

	go func() {
		obslog.L().Info("server_listen", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			obslog.L().Fatal("server_error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	obslog.L().Info("server_stopped")
}
