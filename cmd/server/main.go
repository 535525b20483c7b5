package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/eyecarehub/eyecare-server/googleauth"
	"github.com/eyecarehub/eyecare-server/internal/config"
	"github.com/eyecarehub/eyecare-server/server"
	"github.com/eyecarehub/eyecare-server/store"
	"github.com/eyecarehub/eyecare-server/token"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	cfg, err := config.New()
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	setupLogging(cfg)
	displayAppname(cfg.AppName)

	secret, generated, err := cfg.SigningSecret()
	if err != nil {
		return errors.Wrap(err, "signing secret")
	}
	if generated {
		log.Warn().Msg("JWT_SECRET_KEY is not set; generated a per-process key, tokens will not survive a restart")
	}

	db, err := store.Open(cfg.DatabaseDSN)
	if err != nil {
		return errors.Wrap(err, "open store")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.Ping(ctx); err != nil {
		return errors.Wrap(err, "ping database")
	}
	if err := db.RunMigrations(ctx); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	tokenManager := token.New(secret, cfg.AppName,
		token.WithTokenExpiry(cfg.AccessTokenTTL, cfg.RefreshTokenTTL))
	provider := googleauth.New(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI)

	srv, err := server.New(cfg, server.Repos{
		Users:        db.Users,
		Blogs:        db.Blogs,
		Comments:     db.Comments,
		AdminActions: db.AdminActions,
		Logins:       db.Logins,
	}, provider, tokenManager)
	if err != nil {
		return errors.Wrap(err, "create server")
	}

	httpServer := &http.Server{Addr: cfg.Addr(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	return shutdown(httpServer)
}

func listenAndServe(server *http.Server) {
	log.Info().Str("addr", server.Addr).Msg("server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "server.Shutdown")
	}
	return nil
}

func setupLogging(cfg *config.Config) {
	if cfg.Env == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
