package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/graph-gophers/graphql-go"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hermdev/graphql-basics/internal/blog"
	"github.com/hermdev/graphql-basics/internal/config"
	"github.com/hermdev/graphql-basics/internal/logging"
	"github.com/hermdev/graphql-basics/internal/server"
	"github.com/hermdev/graphql-basics/internal/store"
	"github.com/hermdev/graphql-basics/internal/telemetry"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the GraphQL HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := config.NewViper(cmd.Flags())
			if err != nil {
				return err
			}
			path, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			if err := config.ReadFile(v, path); err != nil {
				return err
			}
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}
	cmd.Flags().String("config", "",
		"Configuration file. Overridden by environment variables and flags.")
	config.BindFlags(cmd.Flags())
	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	st := store.New()
	if cfg.Seed {
		st = store.NewSeeded()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	telemetry.RegisterStoreGauges(reg, st)

	tr, shutdownTracer, err := telemetry.NewTracer(ctx, cfg.Tracer, cfg.OTLPEndpoint, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Warn("stopping tracer", zap.Error(err))
		}
	}()

	schema, err := blog.NewSchema(
		blog.NewResolver(st, blog.WithLogger(log)),
		graphql.Tracer(telemetry.NewMetrics(reg, tr)),
		graphql.Logger(&logging.PanicLogger{Logger: log}),
		graphql.MaxDepth(cfg.MaxDepth),
		graphql.MaxParallelism(cfg.MaxParallelism),
	)
	if err != nil {
		return errors.Wrap(err, "parsing schema")
	}

	log.Info("starting",
		zap.String("version", Version),
		zap.String("addr", cfg.Addr()),
		zap.String("tracer", cfg.Tracer),
		zap.Bool("seed", cfg.Seed),
	)
	srv := server.New(server.Options{
		Addr:            cfg.Addr(),
		Schema:          schema,
		Store:           st,
		Logger:          log,
		Gatherer:        reg,
		AllowedOrigins:  cfg.AllowedOrigins,
		GraphiQL:        cfg.GraphiQL,
		ShutdownTimeout: cfg.ShutdownTimeout,
	})
	return srv.Run(ctx)
}
