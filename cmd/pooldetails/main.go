package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"poolDetails/internal/chain"
	"poolDetails/internal/config"
	"poolDetails/internal/details"
	"poolDetails/internal/metrics"
)

func main() {
	root := &cobra.Command{
		Use:          "pooldetails",
		Short:        "NEAR validator pool details",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")
	root.PersistentFlags().String("rpc", chain.DefaultRPCURL, "NEAR RPC URL")
	root.PersistentFlags().Duration("rpc-timeout", 0, "RPC request timeout, 0 means none")
	root.PersistentFlags().String("contract", details.DefaultContract, "pool details contract account")
	root.PersistentFlags().String("method", details.DefaultMethod, "contract view method listing all pools")
	root.PersistentFlags().Int("from-index", 0, "first pool index requested")
	root.PersistentFlags().Int("limit", details.DefaultLimit, "maximum number of pools requested")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	showCmd := &cobra.Command{
		Use:   "show <pool>",
		Short: "Print the contacts HTML of a pool",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
	showCmd.Flags().Bool("skip-quick-links", false, "omit website and twitter")
	root.AddCommand(showCmd)

	root.AddCommand(&cobra.Command{
		Use:   "tooltip <pool>",
		Short: "Print the tooltip text of a pool",
		Args:  cobra.ExactArgs(1),
		RunE:  runTooltip,
	})

	root.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List known pool ids",
		Args:  cobra.NoArgs,
		RunE:  runList,
	})

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write formatted pool records as JSONL",
		Args:  cobra.NoArgs,
		RunE:  runExport,
	}
	exportCmd.Flags().String("out", "./data/pool_details.jsonl", "output JSONL path")
	root.AddCommand(exportCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve pool contacts and tooltips over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().String("listen", ":8080", "listen address")
	root.AddCommand(serveCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles what every command needs.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	client  *chain.Client
	svc     *details.Service
}

func setup(cmd *cobra.Command) (*app, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	client, err := chain.NewClient(cfg.RPCURL, chain.WithTimeout(cfg.RPCTimeout), chain.WithMetrics(m))
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("create rpc client: %w", err)
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		client:  client,
		svc:     details.NewService(cfg.ServiceConfig(), client, m, logger),
	}, nil
}

func (a *app) Close() {
	a.client.Close()
	_ = a.logger.Sync()
}

// load fetches pool details and turns a failed load into a command error.
func (a *app) load(ctx context.Context) error {
	result := a.svc.Load(ctx)
	if result.Failed() {
		return result.Err()
	}
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
