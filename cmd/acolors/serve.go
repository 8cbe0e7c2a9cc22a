package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arktoria/acolors/internal/bootstrap"
	"github.com/arktoria/acolors/internal/config"
	"github.com/arktoria/acolors/internal/core"
	"github.com/arktoria/acolors/internal/migrations"
	"github.com/arktoria/acolors/internal/profile"
	"github.com/arktoria/acolors/internal/repository/sqlite"
	"github.com/arktoria/acolors/internal/server"
	acsignal "github.com/arktoria/acolors/internal/signal"
	"github.com/arktoria/acolors/internal/support/logging"
	"github.com/arktoria/acolors/internal/support/netutil"
)

const (
	grpcPortLo = 11451
	grpcPortHi = 19198
)

type serveOptions struct {
	configPath string
	iface      string
	dbPath     string
	corePath   string
	coreName   string
	port       uint16
}

func init() {
	opts := &serveOptions{}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve on the specified port and address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runServe(opts); err != nil {
				return runtimeError{err: err}
			}
			return nil
		},
	}

	flags := serveCmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "./config/acolors.json", "Config path")
	flags.StringVarP(&opts.iface, "interface", "i", "127.0.0.1", "Interface to bind on")
	flags.StringVarP(&opts.dbPath, "dbpath", "d", "./config/acolors.db", "Database path")
	flags.StringVarP(&opts.corePath, "core-path", "k", "v2ray", "Core path")
	flags.StringVar(&opts.coreName, "core-name", "v2ray", "Core name")
	flags.Uint16VarP(&opts.port, "port", "p", 0, "Which port to use (default: first free in [11451, 19198))")

	rootCmd.AddCommand(serveCmd)
}

// newLogger consults the log-level environment variable once at startup.
func newLogger() *slog.Logger {
	v := viper.New()
	v.SetEnvPrefix("ACOLORS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	logger := logging.New(logging.Options{
		Level:  logging.ParseLevel(v.GetString("log.level")),
		Format: v.GetString("log.format"),
	})
	slog.SetDefault(logger)
	return logger
}

func runServe(opts *serveOptions) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := newLogger()

	port := opts.port
	if port == 0 {
		free, ok := netutil.TCPGetAvailablePort(grpcPortLo, grpcPortHi)
		if !ok {
			return fmt.Errorf("no port available")
		}
		port = free
	} else if !netutil.TCPPortIsAvailable(port) {
		return fmt.Errorf("the port %d is not available", port)
	}

	logger.Info("database path", "path", opts.dbPath)
	logger.Info("configuration file path", "path", opts.configPath)
	logger.Info("core path", "path", opts.corePath)

	db, err := bootstrap.OpenSQLite(opts.dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.Up(db); err != nil {
		return err
	}

	cfgStore, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	bus := acsignal.NewBus(logger)
	manager := profile.NewManager(sqlite.NewStore(db), bus, logger)
	defer manager.Close()

	slot := core.NewRayCore(logger)
	registerCores(slot, opts, cfgStore, logger)

	// Manager.Shutdown and the signal handler share one stop broadcaster.
	srvCtx, shutdown := context.WithCancel(ctx)
	defer shutdown()

	coreSvc := server.NewCoreService(slot, manager, cfgStore, bus, logger)
	coreSvc.SeedCurrentNode(srvCtx)
	defer coreSvc.Close()

	srv := server.New(fmt.Sprintf("%s:%d", opts.iface, port), server.Handlers{
		Greeter:       server.NewGreeterService(),
		Profile:       server.NewProfileService(manager, logger),
		Config:        server.NewConfigService(cfgStore, bus, logger),
		Core:          coreSvc,
		Notifications: server.NewNotificationsService(bus, srvCtx, logger),
		Tools:         server.NewToolsService(),
		Manager:       server.NewManagerService(shutdown, logger),
	}, logger)

	go func() {
		<-srvCtx.Done()
		srv.Stop()
	}()

	logger.Info("gRPC server is available", "address", fmt.Sprintf("http://%s:%d", opts.iface, port))
	if err := srv.Start(); err != nil {
		return err
	}

	logger.Info("gRPC server stopped normally")
	return nil
}

// registerCores installs the main core from the CLI flags and the
// auxiliary cores declared in the config file. A missing binary is logged
// and skipped so the daemon still serves profile management.
func registerCores(slot *core.RayCore, opts *serveOptions, cfgStore *config.Store, logger *slog.Logger) {
	if strings.EqualFold(opts.coreName, "v2ray") {
		main, err := core.NewV2Ray(opts.corePath)
		if err != nil {
			logger.Error("core not found", "name", opts.coreName, "path", opts.corePath, "error", err)
		} else {
			logger.Info("core registered", "name", main.Name(), "version", main.Version())
			slot.SetRayCore(main)
		}
	} else {
		aux, err := core.NewCoreByName(opts.coreName, opts.corePath, logger)
		if err != nil {
			logger.Error("core not found", "name", opts.coreName, "path", opts.corePath, "error", err)
		} else {
			logger.Info("core registered", "name", aux.Name(), "version", aux.Version())
			slot.AddExternalCore(opts.coreName, aux)
		}
	}

	for _, entry := range cfgStore.Cores() {
		aux, err := core.NewCoreByName(entry.Name, entry.Path, logger)
		if err != nil {
			logger.Error("core not found", "name", entry.Name, "path", entry.Path, "error", err)
			continue
		}
		tag := entry.Tag
		if tag == "" {
			tag = entry.Name
		}
		logger.Info("core registered", "tag", tag, "name", aux.Name(), "version", aux.Version())
		slot.AddExternalCore(tag, aux)
	}
}
