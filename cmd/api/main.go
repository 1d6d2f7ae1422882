package main

import (
	"net/http"

	"animal-rescue-ops/internal/adapters/auth/heimdall"
	"animal-rescue-ops/internal/adapters/notify/webhook"
	"animal-rescue-ops/internal/adapters/storage/postgres"
	"animal-rescue-ops/internal/platform/config"
	"animal-rescue-ops/internal/platform/logger"
	"animal-rescue-ops/internal/ports/auth"
	"animal-rescue-ops/internal/ports/notify"
	"animal-rescue-ops/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	// Sin AUTH_BASE_URL el servicio corre en modo dev: identidad por
	// headers X-Debug-*, nunca usar así fuera de local.
	var verifier auth.AuthVerifier
	if cfg.AuthBaseURL != "" {
		client, err := heimdall.NewClient(heimdall.Config{
			BaseURL: cfg.AuthBaseURL,
			APIKey:  cfg.AuthAPIKey,
			Timeout: cfg.AuthTimeout,
		})
		if err != nil {
			log.Error("heimdall client init failed", map[string]any{"error": err.Error()})
			return
		}
		verifier = heimdall.NewVerifier(client)
	} else {
		log.Warn("auth verifier not configured, running in dev mode", nil)
	}

	var notifier notify.Notifier = webhook.Nop{}
	if cfg.NotifyWebhookURL != "" {
		notifier = webhook.New(cfg.NotifyWebhookURL, cfg.NotifyTimeout, log)
	}

	opts := router.Options{
		AuthVerifier: verifier,
		Notifier:     notifier,
		Logger:       log,
	}
	if cfg.DBDSN != "" {
		db, err := postgres.Open(cfg.DBDSN)
		if err != nil {
			log.Error("postgres connect failed", map[string]any{"error": err.Error()})
			return
		}
		defer db.Close()
		opts.DB = db
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.NewRouter(opts),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	log.Info("starting server", map[string]any{"addr": srv.Addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
	}
}
