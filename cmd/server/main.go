// Package main is the entry point of the application
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tecu23/hex-server/internal/auth"
	"github.com/tecu23/hex-server/pkg/config"
	"github.com/tecu23/hex-server/pkg/events"
	"github.com/tecu23/hex-server/pkg/game"
	"github.com/tecu23/hex-server/pkg/metrics"
	"github.com/tecu23/hex-server/pkg/repository"
	"github.com/tecu23/hex-server/pkg/server"
	"github.com/tecu23/hex-server/pkg/session"
)

// App encapsulates global dependencies
type application struct {
	Auth      *auth.APIKeyAuth
	Logger    *zap.Logger
	Config    *config.Config
	Publisher *events.Publisher
	Env       *session.Environment
	Hub       *server.Hub
	Repo      *repository.InMemoryGameRepository
	Server    *http.Server

	upgrader websocket.Upgrader
	cancel   context.CancelFunc

	StartTime time.Time
}

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Initialize logger
	logger := initLogger(cfg.Debug)
	defer logger.Sync()

	keys, err := auth.NewAPIKeyAuth(cfg.APIKeys)
	if err != nil {
		logger.Fatal("api keys", zap.Error(err))
	}

	mt := metrics.New(prometheus.DefaultRegisterer)
	publisher := events.NewPublisher(logger)

	env := session.NewEnvironment(publisher, logger,
		session.WithMetrics(mt),
		session.WithQueueCapacity(cfg.QueueCapacity),
	)
	hub := server.NewHub(env, publisher, logger,
		server.WithMetrics(mt),
		server.WithClockInterval(cfg.ClockInterval),
	)

	repo := repository.NewInMemoryRepository(logger)
	stopWatch := repo.Watch(env, publisher)
	defer stopWatch()

	match, err := game.NewMatch(cfg.BoardSize, cfg.InitialTime)
	if err != nil {
		logger.Fatal("creating game", zap.Error(err))
	}
	mgr := env.Load(match, cfg.BlueName, cfg.RedName)

	ctx, cancel := context.WithCancel(context.Background())

	app := &application{
		Auth:      keys,
		Logger:    logger,
		Config:    cfg,
		Publisher: publisher,
		Env:       env,
		Hub:       hub,
		Repo:      repo,
		upgrader:  newUpgrader(cfg.AllowedOrigin),
		cancel:    cancel,
		StartTime: time.Now(),
	}

	go app.Hub.Run()
	go func() {
		if err := mgr.Run(ctx); err != nil {
			logger.Error("session manager stopped", zap.Error(err))
		}
	}()

	if !keys.Enabled() {
		logger.Warn("no API keys configured, clients choose their player with ?player=")
	}

	err = app.serve()
	if err != nil {
		logger.Fatal("error serving", zap.Error(err))
	}
}

func newUpgrader(origin string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,

		CheckOrigin: func(r *http.Request) bool {
			return origin == "" || origin == r.Header.Get("Origin")
		},
	}
}

func initLogger(debug bool) *zap.Logger {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	return logger
}

// Shutdown cleans up resources
func (app *application) Shutdown() {
	if app.cancel != nil {
		app.cancel()
	}
	if app.Env != nil {
		if m := app.Env.Manager(); m != nil && app.Repo != nil {
			if err := app.Repo.SaveSession(m); err != nil {
				app.Logger.Error("saving session", zap.Error(err))
			}
		}
		app.Env.Reset()
	}
	// Shut down hub
	if app.Hub != nil {
		app.Hub.Shutdown()
	}

	app.Logger.Info("All components shut down successfully")
}
