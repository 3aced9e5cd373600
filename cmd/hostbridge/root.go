package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/hostbridge/backend"
	"github.com/jonwraymond/hostbridge/backend/host"
	"github.com/jonwraymond/hostbridge/catalog"
	"github.com/jonwraymond/hostbridge/config"
	"github.com/jonwraymond/hostbridge/supervisor"
)

var (
	configPath string
	hostPath   string
	hostArgs   string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "hostbridge",
	Short:         "Bridge a scriptable host application to MCP clients",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default $"+config.EnvConfig+" or the user config dir)")
	flags.StringVar(&hostPath, "host-path", "", "host executable")
	flags.StringVar(&hostArgs, "host-args", "", "shell-quoted host launch arguments")
	flags.StringVar(&logLevel, "log-level", "", "stderr log level (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd, evalCmd, execCmd, toolsCmd)
}

// bridge is the wired host side: one supervised host behind a backend,
// aggregated and catalogued.
type bridge struct {
	cfg    config.Config
	logger *slog.Logger
	agg    *backend.Aggregator
	cat    *catalog.Catalog
}

func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		path = config.Path(os.Getenv)
	}
	cfg, err := config.Load(path, os.Getenv)
	if err != nil {
		return config.Config{}, err
	}
	if hostPath != "" {
		cfg.Host.Path = hostPath
	}
	if hostArgs != "" {
		cfg.Host.Args = hostArgs
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newBridge(ctx context.Context) (*bridge, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	level, _ := cfg.LogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	supCfg, err := cfg.Supervisor(logger.With("component", "supervisor"))
	if err != nil {
		return nil, err
	}
	sup, err := supervisor.New(supCfg)
	if err != nil {
		return nil, err
	}

	hb := host.New(cfg.Host.Name, sup)
	hb.SetEnabled(cfg.Host.Enabled)

	reg := backend.NewRegistry()
	if err := reg.Register(hb); err != nil {
		_ = sup.Close()
		return nil, err
	}
	agg := backend.NewAggregator(reg)

	cat := catalog.New()
	if err := cat.Load(ctx, agg, host.Doc); err != nil {
		_ = reg.StopAll()
		return nil, err
	}
	if err := reg.StartAll(ctx); err != nil {
		_ = reg.StopAll()
		return nil, err
	}

	return &bridge{cfg: cfg, logger: logger, agg: agg, cat: cat}, nil
}

// Close stops every backend, shutting the host down.
func (b *bridge) Close() error {
	return b.agg.Registry().StopAll()
}
