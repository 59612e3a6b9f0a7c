package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/recall-server/internal/config"
	"github.com/vancomm/recall-server/internal/database"
	"github.com/vancomm/recall-server/internal/handlers"
	"github.com/vancomm/recall-server/internal/random"
	"github.com/vancomm/recall-server/internal/repository"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	logger *logrus.Logger
	cfg    *config.Config
}

func New(logger *logrus.Logger, cfg *config.Config) *App {
	return &App{logger: logger, cfg: cfg}
}

// Deps is everything the routes need. Start builds it from the config;
// tests build it from fakes.
type Deps struct {
	DB        handlers.Pinger
	Games     handlers.GameRepository
	Players   handlers.PlayerRepository
	Cookies   *config.Cookies
	JWT       *config.JWT
	WS        *config.WebSocket
	Seeds     *random.SeedSource
	PublicURL *url.URL
}

// Start migrates the database and serves until ctx is done.
func (a *App) Start(ctx context.Context) error {
	jwt, err := config.NewJWT(a.cfg.JWT)
	if err != nil {
		return err
	}
	publicURL, err := url.Parse(a.cfg.PublicURL)
	if err != nil {
		return fmt.Errorf("invalid public_url: %w", err)
	}

	db, migrator, err := database.ConnectAndMigrate(ctx, a.cfg.Database)
	if err != nil {
		return fmt.Errorf("unable to connect to db: %w", err)
	}
	defer db.Close()
	defer migrator.Close()
	if version, dirty, err := migrator.Version(); err == nil {
		a.logger.WithFields(logrus.Fields{
			"version": version, "dirty": dirty,
		}).Info("database migrated")
	}

	queries := repository.New(db)
	handler := a.Handler(Deps{
		DB:        db,
		Games:     queries,
		Players:   queries,
		Cookies:   &a.cfg.Cookies,
		JWT:       jwt,
		WS:        config.NewWebSocket(a.cfg.Origins),
		Seeds:     random.NewSeedSource(),
		PublicURL: publicURL,
	})

	server := &http.Server{
		Addr:         a.cfg.Addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.WithField("addr", a.cfg.Addr).Info("server listening")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unable to listen and serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(sctx)
	})
	return g.Wait()
}
