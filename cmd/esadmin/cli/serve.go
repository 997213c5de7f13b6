package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eventsathi/esadmin/internal/config"
	"github.com/eventsathi/esadmin/internal/server"
	"github.com/eventsathi/esadmin/internal/service"
	"github.com/eventsathi/esadmin/internal/store"
	"github.com/eventsathi/esadmin/internal/telemetry"
)

const banner = `
                      _           _
   ___  ___  __ _  __| |_ __ ___ (_)_ __
  / _ \/ __|/ _' |/ _' | '_ ' _ \| | '_ \
 |  __/\__ \ (_| | (_| | | | | | | | | | |
  \___||___/\__,_|\__,_|_| |_| |_|_|_| |_|

  EventSathi admin console backend
`

func newServeCmd() *cobra.Command {
	var (
		host string
		port int
		dev  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the admin API server",
		Long: `Start the esadmin HTTP server: admin session login, sub-admin
management, vendor and customer moderation, and the dashboard API.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Print(banner, "\n")
			return runServe(host, port, dev)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen address (overrides config)")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides config)")
	cmd.Flags().BoolVar(&dev, "dev", false, "development mode: debug logging")

	return cmd
}

func runServe(host string, port int, dev bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	level := parseLogLevel(cfg.Logging.Level)
	if dev {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	storeCfg := store.Config{
		Driver:  cfg.Store.Driver,
		DSN:     cfg.Store.DSN,
		DataDir: cfg.Store.DataDir,
	}
	if dataDir != "" {
		storeCfg.DataDir = dataDir
	}

	st, err := store.Open(storeCfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	logger.Info("store ready", "driver", cfg.Store.Driver)

	ttl := service.DefaultSessionTTL
	if cfg.Session.TTL != "" {
		d, err := time.ParseDuration(cfg.Session.TTL)
		if err != nil {
			return fmt.Errorf("invalid session.ttl %q: %w", cfg.Session.TTL, err)
		}
		ttl = d
	}

	bootstrap := service.BootstrapCredential{
		Email:    cfg.Bootstrap.Email,
		Password: cfg.Bootstrap.Password,
	}
	if bootstrap.Email == "" || bootstrap.Password == "" {
		logger.Warn("bootstrap credential not configured, top admin login is disabled")
	}

	sessions := service.NewSessionService(st, bootstrap, ttl)
	registry := service.NewRegistryService(st)
	moderation := service.NewModerationService(st)

	tracker := telemetry.New(context.Background(), st, func() telemetry.Properties {
		props := telemetry.Properties{
			Version:     appVersion,
			StoreDriver: cfg.Store.Driver,
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if stats, err := st.DashboardCounts(ctx); err == nil {
			props.Vendors = stats.TotalVendors
			props.Customers = stats.TotalCustomers
			props.SubAdmins = stats.TotalSubAdmins
		}
		return props
	})
	if tracker != nil {
		telemetry.PrintNotice()
		tracker.Start()
		defer tracker.Shutdown()
	}

	srvCfg := server.DefaultConfig()
	if cfg.Server.Host != "" {
		srvCfg.Host = cfg.Server.Host
	}
	if cfg.Server.Port != 0 {
		srvCfg.Port = cfg.Server.Port
	}
	if host != "" {
		srvCfg.Host = host
	}
	if port != 0 {
		srvCfg.Port = port
	}
	if cfg.Server.ShutdownTimeout != "" {
		d, err := time.ParseDuration(cfg.Server.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("invalid server.shutdown_timeout %q: %w", cfg.Server.ShutdownTimeout, err)
		}
		srvCfg.ShutdownTimeout = d
	}
	if len(cfg.Server.CORS.Origins) > 0 {
		srvCfg.CORSOrigins = cfg.Server.CORS.Origins
	}

	srv := server.New(srvCfg, st, sessions, registry, moderation, logger)

	fmt.Printf("  API:      http://%s:%d/api/v1/admin\n", displayHost(srvCfg.Host), srvCfg.Port)
	fmt.Printf("  OpenAPI:  http://%s:%d/openapi.json\n", displayHost(srvCfg.Host), srvCfg.Port)
	fmt.Printf("  Health:   http://%s:%d/healthz\n\n", displayHost(srvCfg.Host), srvCfg.Port)

	return srv.ListenAndServe()
}

// loadConfig resolves the effective configuration: the file viper located
// (or --config), falling back to built-in defaults when no file exists.
func loadConfig() (*config.YAMLConfig, error) {
	path := viper.ConfigFileUsed()
	if path == "" {
		return config.DefaultYAMLConfig(), nil
	}
	return config.LoadYAMLConfig(path)
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func displayHost(host string) string {
	if host == "0.0.0.0" || host == "" {
		return "localhost"
	}
	return host
}
