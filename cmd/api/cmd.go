package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/GregMSThompson/decision-backend/internal/bootstrap"
	"github.com/GregMSThompson/decision-backend/internal/config"
	"github.com/GregMSThompson/decision-backend/internal/handlers"
	"github.com/GregMSThompson/decision-backend/internal/response"
	"github.com/GregMSThompson/decision-backend/internal/router"
	"github.com/GregMSThompson/decision-backend/internal/services"
	"github.com/GregMSThompson/decision-backend/internal/store"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(ctx, cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// stores
	hstore := newHistoryStore(cfg, bs)
	mstore := newMediaStore(cfg, bs)
	pstore := store.NewPreferencesStore(bs.Firestore)
	cstore := store.NewChatStore(bs.Firestore)

	// services
	hserv := services.NewHistoryService(hstore, newCipher(cfg, bs), cfg.HistoryLimit)
	pserv := services.NewPreferencesService(pstore)
	mserv := services.NewMediaService(bs.GeminiAdapter, mstore, hserv, services.MediaModels{
		Image:      cfg.Models.Image,
		Video:      cfg.Models.Video,
		TTS:        cfg.Models.TTS,
		Transcribe: cfg.Models.Transcribe,
	})
	dserv := services.NewDecisionService(bs.GeminiAdapter, pserv, hserv, mserv, mstore, services.DecisionConfig{
		Model:          cfg.Models.Eval,
		ThinkingBudget: cfg.ThinkingBudget,
		GoogleSearch:   cfg.GoogleSearch,
		Visuals:        cfg.VisualsEnabled,
	})
	cserv := services.NewChatService(bs.VertexAdapter, cstore, cfg.Models.Chat, cfg.AITTL)
	eserv := services.NewExplainService(bs.VertexAdapter, nil, cfg.Models.Explain)
	if bs.Redis != nil {
		eserv = services.NewExplainService(bs.VertexAdapter, store.NewExplainCache(bs.Redis, cfg.ExplainCacheTTL), cfg.Models.Explain)
	}

	// response handler
	rh := response.New(bs.Log)

	// dependencies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.Firebase = bs.Firebase
	deps.DecisionSvc = dserv
	deps.MediaSvc = mserv
	deps.ChatSvc = cserv
	deps.ExplainSvc = eserv
	deps.HistorySvc = hserv
	deps.PreferencesSvc = pserv
	deps.MaxUploadSize = cfg.MaxUploadSize

	// router
	r := router.NewRouter(deps, router.Options{
		ProjectID:    cfg.ProjectID,
		CORSOrigins:  cfg.CORSOrigins,
		RateRPS:      cfg.RateRPS,
		RateBurst:    cfg.RateBurst,
		AuthDisabled: cfg.AuthDisabled,
	})

	err = runServer(ctx, bs.Log, ":"+cfg.Port, r)
	exitOnError("server failed", err, bs.Log)
}

func runServer(ctx context.Context, log *slog.Logger, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
