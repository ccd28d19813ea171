package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	webAdapter "insurance-dashboard/internal/adapters/web"
	"insurance-dashboard/internal/app"
	"insurance-dashboard/internal/config"
	"insurance-dashboard/internal/logger"
	"insurance-dashboard/internal/metrics"
	"insurance-dashboard/internal/presentation"
	"insurance-dashboard/internal/session"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}

	log, err := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		OutputFile: cfg.Log.File,
		MaxSize:    cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		logrus.Fatalf("logger: %v", err)
	}

	secret := cfg.Session.Secret
	if secret == "" {
		log.Warn("SESSION_SECRET is not set; using a random per-process secret, sessions will not survive a restart")
		secret = randomSecret()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	sessions := session.NewRegistry(cfg.Session.TTL, presentation.Bootstrap,
		session.WithObserver(m),
		session.WithPurgeInterval(cfg.Session.PurgeInterval),
	)
	sessions.StartPurge(ctx)

	svc := app.NewAppService(sessions, m, log)
	handler := webAdapter.NewHandler(svc, webAdapter.Config{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		SessionSecret:  secret,
		SessionTTL:     cfg.Session.TTL,
		CookieSecure:   cfg.Session.CookieSecure,
		Logger:         log,
		Metrics:        m,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("server shutdown")
		}
	}()

	log.WithFields(logrus.Fields{
		"port":   cfg.Server.Port,
		"title":  presentation.InsuranceSalesDashboard.Title,
		"layout": presentation.InsuranceSalesDashboard.Layout,
	}).Info("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server: %v", err)
	}
	log.Info("server stopped")
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand: " + err.Error())
	}
	return hex.EncodeToString(b)
}
