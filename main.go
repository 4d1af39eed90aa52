package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/mzielinski/goxtrader/configs"
	"github.com/mzielinski/goxtrader/pkg/job"
)

func main() {
	_ = godotenv.Load()

	config, err := configs.ReadConfig()
	if err != nil {
		logrus.Fatalf("could not read config: [%v]", err)
	}

	configureLogging(&config.Logging)

	ctx, cancelCtx := context.WithCancel(context.Background())
	defer cancelCtx()

	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

		<-signals
		logrus.Infof("received shutdown signal")

		cancelCtx()
	}()

	if err := job.RunTrading(ctx, config); err != nil {
		logrus.Fatalf("trading job failed: [%v]", err)
	}
}

func configureLogging(config *configs.Logging) {
	if config.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	logLevel, err := logrus.ParseLevel(config.Level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}

	logrus.SetLevel(logLevel)

	logrus.SetOutput(os.Stdout)
}
