// Copyright ContinuousC. Licensed under the "Elastic License 2.0".

// Command jaeger-topology-discovery periodically scans a Jaeger span
// index and publishes the discovered service/operation call topology to
// a relation-graph service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ContinuousC/JaegerDiscovery/internal/cliflags"
	"github.com/ContinuousC/JaegerDiscovery/internal/esquery"
	"github.com/ContinuousC/JaegerDiscovery/internal/relationgraph"
	"github.com/ContinuousC/JaegerDiscovery/internal/tlscfg"
	"github.com/ContinuousC/JaegerDiscovery/internal/topology"
)

const indexPattern = "jaeger-span-*"
const pitKeepAlive = "1m"

func main() {
	v := viper.New()
	opts := cliflags.NewOptions()

	cmd := &cobra.Command{
		Use:   "jaeger-topology-discovery",
		Short: "Discover service/operation call topology from Jaeger spans",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.InitFromViper(v)
			return run(cmd.Context(), opts)
		},
	}
	opts.AddFlags(cmd.Flags())
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	cmd.SetContext(ctx)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *cliflags.Options) error {
	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	tlsConfig, err := (tlscfg.Options{CAPath: opts.ESCA, CertPath: opts.ESCert, KeyPath: opts.ESKey}).Config()
	if err != nil {
		return fmt.Errorf("load tls material: %w", err)
	}

	esClient, err := esquery.NewClient(opts.ESURL, tlsConfig)
	if err != nil {
		return fmt.Errorf("build elasticsearch client: %w", err)
	}

	publisher, err := relationgraph.NewClient(opts.RGURL)
	if err != nil {
		return fmt.Errorf("build relation graph client: %w", err)
	}

	source := topology.NewESSource(esClient, indexPattern, pitKeepAlive)
	store := topology.FileStore{Path: opts.State}

	discovery := topology.NewDiscovery(store, source, publisher, log, topology.Options{
		BatchSize:      opts.BatchSize,
		TraceWindow:    opts.TraceWindow,
		TopologyWindow: opts.TopologyWindow,
	})
	if err := discovery.Load(); err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	return runLoop(ctx, log, opts.Interval, discovery)
}

// runLoop drives one discovery iteration per tick, with "delay" missed-
// tick semantics: the timer is reset only once the previous iteration
// has finished, so a slow iteration never causes a burst of queued
// ticks. Iteration errors are logged and the loop continues; only
// context cancellation stops it.
func runLoop(ctx context.Context, log *zap.Logger, interval time.Duration, discovery *topology.Discovery) error {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down")
			return nil
		case <-timer.C:
			if err := discovery.Run(ctx, time.Now()); err != nil {
				log.Error("discovery iteration failed", zap.Error(err))
			}
			timer.Reset(interval)
		}
	}
}

func newLogger() (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(logLevelFromEnv())); err != nil {
		return nil, fmt.Errorf("parse JAEGER_DISCOVERY_LOG_LEVEL: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}

func logLevelFromEnv() string {
	if v := os.Getenv("JAEGER_DISCOVERY_LOG_LEVEL"); v != "" {
		return v
	}
	return "info"
}
