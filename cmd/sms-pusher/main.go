package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/PFigs/sms-pusher/internal/common"
	"github.com/PFigs/sms-pusher/internal/contacts"
	"github.com/PFigs/sms-pusher/internal/dispatch"
	"github.com/PFigs/sms-pusher/internal/mail"
	"github.com/PFigs/sms-pusher/internal/sms"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	configPath := flag.String("configuration", "details.ini", "path to the INI configuration file")
	spreadsheet := flag.String("spreadsheet", "", "contacts spreadsheet, overrides [SMS] DESTINATION")
	destination := flag.String("destination", "", "send to this single number instead of a spreadsheet")
	flag.Parse()

	cfg, err := common.LoadConfig(*configPath, "sms-pusher")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := common.NewLogger(cfg.ServiceName).With().Str("run_id", uuid.NewString()).Logger()

	shutdown, err := common.SetupOTel(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialise telemetry")
	}
	defer common.ShutdownTelemetry(context.Background(), shutdown)

	if metricsSrv := common.StartMetricsServer(cfg.MetricsPort); metricsSrv != nil {
		defer metricsSrv.Shutdown(context.Background())
	}

	var (
		list    []contacts.Contact
		skipped int
	)
	if *destination != "" {
		list = []contacts.Contact{{Name: "CMD", Surname: "Line", Phone: *destination}}
	} else {
		path := *spreadsheet
		if path == "" {
			path = cfg.Spreadsheet
		}
		if path == "" {
			logger.Fatal().Msg("no contacts source: pass --spreadsheet or set [SMS] DESTINATION")
		}
		list, skipped, err = contacts.Read(path)
		if err != nil {
			logger.Fatal().Err(err).Str("path", path).Msg("read contacts")
		}
		logger.Info().Int("contacts", len(list)).Int("skipped", skipped).Str("path", path).Msg("contacts loaded")
	}

	provider := &sms.NexmoProvider{
		Endpoint:  cfg.Endpoint,
		APIKey:    cfg.APIKey,
		APISecret: cfg.APISecret,
	}
	d := dispatch.Dispatcher{
		Provider:    provider,
		SendTimeout: cfg.SendTimeout,
		Logger:      logger,
	}

	results, err := d.Run(ctx, dispatch.Render(cfg), list)
	if err != nil {
		logger.Fatal().Err(err).Msg("dispatch failed to start")
	}

	if cfg.Email != nil {
		confirmed := mail.New(*cfg.Email, logger).Notify(ctx, results)
		logger.Info().Int("confirmations", confirmed).Msg("confirmation emails done")
	}

	dispatch.WriteReport(os.Stdout, dispatch.Summarize(results, skipped))
}
