package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/recall-server/internal/app"
	"github.com/vancomm/recall-server/internal/config"
	"github.com/vancomm/recall-server/internal/logging"
	"github.com/vancomm/recall-server/internal/random"
	"github.com/vancomm/recall-server/internal/recall"
	"github.com/vancomm/recall-server/internal/settings"
)

const defaultConfigPath = "/run/config.json"

var configPath string

func init() {
	const usage = "config file path"
	flag.StringVar(&configPath, "config", defaultConfigPath, usage)
	flag.StringVar(&configPath, "c", defaultConfigPath, usage+" (shorthand)")
}

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logrus.Fatal("unable to load .env: ", err)
	}

	path := configPath
	if _, err := os.Stat(path); path == defaultConfigPath && errors.Is(err, fs.ErrNotExist) {
		path = ""
	}
	cfg, err := config.Load(path)
	if err != nil {
		logrus.Fatal(err)
	}

	log, err := logging.New(cfg)
	if err != nil {
		logrus.Fatal(err)
	}
	logging.Adopt(log, random.Log, settings.Log, recall.Log)

	log.Info("starting up, mode = ", cfg.Mode)
	log.WithFields(cfg.Fields()).Debug("config")

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	if err := app.New(log, cfg).Start(ctx); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
