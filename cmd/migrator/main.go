package main

import (
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/recall-server/internal/config"
	"github.com/vancomm/recall-server/internal/database"
	"github.com/vancomm/recall-server/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "config file path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatal(err)
	}
	log, err := logging.New(cfg)
	if err != nil {
		logrus.Fatal(err)
	}

	migrator, err := database.Migrate(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("failed to migrate")
	}
	defer migrator.Close()

	version, dirty, err := migrator.Version()
	if err != nil {
		log.WithError(err).Error("failed to check migration version")
		os.Exit(1)
	}
	log.WithFields(logrus.Fields{
		"version": version,
		"dirty":   dirty,
	}).Info("migration successful")
}
