package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/garagedesk/garagedesk/auth"
	"github.com/garagedesk/garagedesk/internal/config"
	"github.com/garagedesk/garagedesk/internal/db"
	"github.com/garagedesk/garagedesk/internal/identity"
	"github.com/garagedesk/garagedesk/internal/models"
	"github.com/garagedesk/garagedesk/internal/server"
	"github.com/garagedesk/garagedesk/internal/store"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()
	_ = godotenv.Load()
	cfg := config.Load()

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if cfg.Env == "development" {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	conn, err := db.Connect(cfg.DatabaseDSN, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	if *migrateOnlyFlag {
		log.Info().Msg("migrations completed; exiting as requested")
		return
	}

	st := store.New(db.NewBackend(conn), log)
	if err := st.Load(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("loading state from storage failed")
	}

	var provider identity.Provider
	var local *identity.LocalProvider
	switch cfg.IdentityProvider {
	case config.ProviderREST:
		if cfg.IdentityEndpoint == "" {
			log.Fatal().Msg("IDENTITY_ENDPOINT required for the rest identity provider")
		}
		provider = identity.NewRESTProvider(cfg.IdentityEndpoint, cfg.IdentityAPIKey)
	default:
		local = identity.NewLocalProvider(conn, auth.Secret())
		provider = local
		// Sessions must not outlive their local account.
		auth.SetVerifier(func(ctx context.Context, id string) bool {
			var count int64
			err := conn.WithContext(ctx).Model(&models.User{}).
				Where("id = ? AND disabled = ?", id, false).Limit(1).Count(&count).Error
			return err == nil && count > 0
		})
	}
	gw := identity.NewGateway(provider, 15*time.Second, log)
	unsubscribe := gw.Subscribe(func(p *identity.Principal) {
		if p == nil {
			log.Info().Msg("auth state: signed out")
			return
		}
		log.Info().Str("principal", p.ID).Msg("auth state: signed in")
	})
	defer unsubscribe()

	handler := server.New(st, gw, local, log)
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: handler}

	go func() {
		log.Info().Str("env", cfg.Env).Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("server stopped")
}
