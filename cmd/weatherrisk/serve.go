package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/spf13/cobra"

	httpadapter "github.com/couchcryptid/weatherwise-risk/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/weatherwise-risk/internal/adapter/kafka"
	"github.com/couchcryptid/weatherwise-risk/internal/adapter/meteomatics"
	"github.com/couchcryptid/weatherwise-risk/internal/analysis"
	"github.com/couchcryptid/weatherwise-risk/internal/config"
	"github.com/couchcryptid/weatherwise-risk/internal/observability"
	"github.com/couchcryptid/weatherwise-risk/internal/pipeline"
)

var serveOffline bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long:  `Serve the forecast, historical analysis, and download API with health, readiness, and metrics endpoints.`,
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveOffline, "offline", false, "never call the observed history provider")
	rootCmd.AddCommand(serveCmd)
}

// alwaysReady is the readiness checker when nothing gates traffic.
type alwaysReady struct{}

func (alwaysReady) CheckReadiness(context.Context) error { return nil }

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	opts, client := providerOptions(cfg, logger, metrics, serveOffline)

	var provider httpadapter.ProviderStatus
	if client != nil {
		prober := meteomatics.NewProber(client, cfg.MeteomaticsProbeInterval, logger, metrics)
		if err := prober.Start(); err != nil {
			return err
		}
		defer prober.Stop()
		provider = prober
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The publisher outlives the HTTP server so in-flight requests can
	// still enqueue while the server drains.
	publisherCtx, stopPublisher := context.WithCancel(context.Background())
	defer stopPublisher()

	var ready sharedobs.ReadinessChecker = alwaysReady{}
	var writer *kafkaadapter.Writer
	publisherDone := make(chan struct{})
	if cfg.KafkaEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher := pipeline.New(writer, logger, metrics, cfg.BatchSize, cfg.BatchFlushInterval)
		opts = append(opts, analysis.WithPublisher(publisher))
		ready = publisher

		go func() {
			defer close(publisherDone)
			if err := publisher.Run(publisherCtx); err != nil {
				logger.Error("publisher error", "error", err)
			}
		}()
		logger.Info("result publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		close(publisherDone)
	}

	svc := analysis.NewService(logger, metrics, opts...)
	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, provider, ready, cfg.CORSAllowedOrigin, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	stopPublisher()

	select {
	case <-publisherDone:
	case <-shutdownCtx.Done():
		logger.Warn("publisher did not drain before shutdown timeout")
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}
