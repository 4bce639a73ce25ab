package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go-reliefdesk/config"
	"go-reliefdesk/metrics"
	"go-reliefdesk/routes"

	"github.com/urfave/cli/v2"
)

var relayCommand = &cli.Command{
	Name:   "relay",
	Usage:  "Run only the SMS relay",
	Action: relay,
}

func relay(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cCtx.StringSlice("env-file")...)
	if err != nil {
		return err
	}
	setupLogging(cfg.LogLevel)

	r := routes.SetupRelayRouter(senderOrNil(newTwilioSender(cfg)), metrics.New(), cfg.ClientURL)
	return run(ctx, &http.Server{Addr: fmt.Sprintf(":%d", cfg.RelayPort), Handler: r}, cfg.ShutdownTimeout)
}
