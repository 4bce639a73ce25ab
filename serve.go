package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-reliefdesk/assistant"
	"go-reliefdesk/chat"
	"go-reliefdesk/command"
	"go-reliefdesk/config"
	"go-reliefdesk/cronjobs"
	"go-reliefdesk/db"
	"go-reliefdesk/geocode"
	"go-reliefdesk/metrics"
	"go-reliefdesk/routes"
	"go-reliefdesk/sms"
	"go-reliefdesk/state"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the dashboard API with the SMS relay mounted",
	Action: serve,
}

func setupLogging(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.WithError(err).Warnf("Unknown log level %q, using info", level)
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cCtx.StringSlice("env-file")...)
	if err != nil {
		return err
	}
	setupLogging(cfg.LogLevel)

	mt := metrics.New()

	store, err := db.Open(ctx, db.Options{
		Backend:             db.Backend(cfg.StoreBackend),
		DataDir:             cfg.DataDir,
		RedisURL:            cfg.RedisURL,
		FirebaseCredentials: cfg.FirebaseCredentials,
		FirestoreCollection: cfg.FirestoreCollection,
	})
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.StoreBackend, err)
	}
	defer store.Close()

	opts := []state.Option{state.WithMetrics(mt)}
	geo, err := geocode.New(cfg.MapsCredentials)
	if err != nil {
		return err
	}
	if geo != nil {
		opts = append(opts, state.WithGeocoder(geo))
	}

	manager := state.New(store, opts...)
	if err := manager.Init(ctx); err != nil {
		return err
	}

	gateway, err := assistant.New(ctx, assistant.Config{
		Provider:     assistant.Provider(cfg.AssistantProvider),
		GeminiAPIKey: cfg.GeminiAPIKey,
		OpenAIAPIKey: cfg.OpenAIAPIKey,
		Models:       cfg.AssistantModels,
		Timeout:      cfg.AssistantTimeout,
	}, mt)
	if err != nil {
		return err
	}

	transcript := chat.NewTranscript(store)
	if err := transcript.Load(ctx); err != nil {
		return err
	}
	session := chat.NewSession(transcript, command.New(manager, gateway, mt))

	twilio := newTwilioSender(cfg)
	var notify sms.Sender
	switch {
	case twilio != nil:
		notify = twilio
	case cfg.SMSRelayURL != "":
		notify = sms.NewRelayClient(cfg.SMSRelayURL)
	default:
		logrus.Info("No SMS sender configured, assignment texts are disabled")
	}

	backups, err := cronjobs.InitCronJobs(ctx, cfg.BackupSchedule, cfg.BackupRetention, manager, store, mt)
	if err != nil {
		return err
	}
	if backups != nil {
		defer backups.Stop()
	}

	r := routes.SetupRouter(routes.Deps{
		State:     manager,
		Chat:      session,
		Metrics:   mt,
		Relay:     senderOrNil(twilio),
		Notify:    notify,
		ClientURL: cfg.ClientURL,
	})

	return run(ctx, &http.Server{Addr: fmt.Sprintf(":%d", cfg.Port), Handler: r}, cfg.ShutdownTimeout)
}

func newTwilioSender(cfg *config.Config) *sms.TwilioSender {
	return sms.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom)
}

// senderOrNil keeps a nil *TwilioSender from becoming a non-nil interface.
func senderOrNil(s *sms.TwilioSender) sms.Sender {
	if s == nil {
		return nil
	}
	return s
}

func run(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("addr", srv.Addr).Infof("server starting http://localhost%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logrus.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
