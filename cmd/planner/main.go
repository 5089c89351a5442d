// Command planner serves the Canyon Clash battle planner: the plan
// store, the live timeline, the objective catalogue, the event
// schedule, and PNG snapshot export, all over one HTTP listener.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	// The schedule converter needs the full IANA database even on
	// hosts without a system copy.
	_ "time/tzdata"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/canyonplan/planner/internal/api"
	"github.com/canyonplan/planner/internal/config"
	"github.com/canyonplan/planner/internal/live"
	"github.com/canyonplan/planner/internal/logging"
	"github.com/canyonplan/planner/internal/markings"
	"github.com/canyonplan/planner/internal/monitor"
	"github.com/canyonplan/planner/internal/objectives"
	intOtel "github.com/canyonplan/planner/internal/otel"
	"github.com/canyonplan/planner/internal/plans"
	"github.com/canyonplan/planner/internal/storage"
	"github.com/canyonplan/planner/internal/timeline"
	"github.com/canyonplan/planner/internal/worldclock"
)

// Version and BuildDate can be set at build time via ldflags.
var (
	Version   string = "0.1.0"
	BuildDate string = "unknown"
)

const appName = "planner"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configDir := flag.String("config", ".", "directory containing planner.cfg.json")
	flag.Parse()

	sessionStart := time.Now()

	// Bootstrap logging to stdout only; the file handler needs config.
	slogMgr := logging.NewSlogManager()
	slogMgr.Setup(nil, "info", nil, nil)
	log := slogMgr.Logger()

	if err := config.Load(*configDir); err != nil {
		log.Warn("Failed to load config, using defaults!", "error", err)
	} else {
		log.Info("Loaded config")
	}

	logsDir := viper.GetString("logsDir")
	if _, err := os.Stat(logsDir); os.IsNotExist(err) {
		os.MkdirAll(logsDir, 0755)
	}
	logPath := logging.LogFilePath(logsDir, appName, sessionStart)
	var sessionLog io.Writer
	logFile, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Error("Failed to create/open log file, continuing without file output!", "error", err, "path", logPath)
	} else {
		sessionLog = logFile
	}

	var otelProvider *intOtel.Provider
	otelCfg := config.GetOTelConfig()
	if otelCfg.Enabled {
		otelProvider, err = intOtel.New(intOtel.Config{
			Enabled:      otelCfg.Enabled,
			ServiceName:  otelCfg.ServiceName,
			BatchTimeout: otelCfg.BatchTimeout,
			LogWriter:    sessionLog,
			Endpoint:     otelCfg.Endpoint,
			Insecure:     otelCfg.Insecure,
		})
		if err != nil {
			log.Error("Failed to initialize OTel provider", "error", err)
		}
	}
	var logProvider *sdklog.LoggerProvider
	if otelProvider != nil {
		logProvider = otelProvider.LoggerProvider()
	}

	battle := config.GetBattleConfig()
	engine := timeline.New(battle.MaxTime, timeline.PresetByName(viper.GetString("timeline.preset")))
	defer engine.Close()

	// Re-setup logging with file output, OTel, and the battle clock
	// attached to every record.
	slogMgr.Setup(sessionLog, viper.GetString("logLevel"), logProvider, func() []slog.Attr {
		st := engine.State()
		return []slog.Attr{
			slog.Float64("battleTime", st.Current),
			slog.Bool("playing", st.Playing),
		}
	})
	log = slogMgr.Logger()
	if sessionLog != nil {
		log.Info("Logging to file", "path", logPath)
	}

	zlog := zerolog.New(os.Stdout).With().Timestamp().Logger()

	backend, err := storage.NewBackend(config.GetStorageConfig(), zlog)
	if err != nil {
		return fmt.Errorf("failed to create storage backend: %w", err)
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage backend: %w", err)
	}
	defer backend.Close()

	planSvc := plans.NewService(backend, log, battle.MaxTime)
	planSvc.EnsureDefault()

	var usage *monitor.Usage
	if config.GetInfluxConfig().Enabled {
		mgr := monitor.NewManager(zlog, filepath.Join(logsDir, "planner_metrics.lp.gz"))
		if err := mgr.Connect(); err != nil {
			log.Warn("Metrics sink unavailable, writing to backup file", "error", err)
		}
		defer mgr.Close()
		usage = monitor.NewUsage(mgr)
		planSvc.SetUsageRecorder(usage)
	}

	deps := api.Deps{
		Plans:      planSvc,
		Markings:   markings.NewStore(),
		Timeline:   engine,
		Objectives: objectives.NewRegistry(),
		Clock:      worldclock.NewConverter(),
		Battle:     battle,
		Log:        log,
	}
	if usage != nil {
		deps.Usage = usage
	}

	if viper.GetBool("live.enabled") {
		hub := live.NewHub(engine, log)
		defer hub.Close()
		deps.Live = hub
	}

	addr := viper.GetString("api.listenAddr")
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      api.New(deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	log.Info("Planner listening", "addr", addr, "version", Version, "buildDate", BuildDate)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case s := <-sig:
		log.Info("Shutting down", "signal", s.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("HTTP server shutdown failed", "error", err)
	}
	if otelProvider != nil {
		if err := otelProvider.Shutdown(ctx); err != nil {
			log.Error("OTel shutdown failed", "error", err)
		}
	}
	slogMgr.Flush(ctx)
	return nil
}
