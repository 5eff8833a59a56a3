// Command prompt-gateway serves the prompt optimization engine over
// HTTP, or runs it once against stdin with the "optimize" subcommand.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sajtmaskin/prompt-gateway/internal/config"
	"github.com/sajtmaskin/prompt-gateway/internal/gateway"
	"github.com/sajtmaskin/prompt-gateway/internal/monitoring"
	"github.com/sajtmaskin/prompt-gateway/internal/store"
)

func main() {
	loadEnvFiles()

	if len(os.Args) > 1 && os.Args[1] == "optimize" {
		runOptimize(os.Args[2:])
		return
	}

	configPath := flag.String("config", "", "path to YAML config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	cfg := loadConfig(*configPath)
	if *debug {
		cfg.Logging.Level = "debug"
	}
	monitoring.Global(cfg.Logging)

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("prompt gateway failed")
	}
}

// loadEnvFiles loads .env files if present. Missing files are fine.
func loadEnvFiles() {
	for _, name := range []string{".env.local", ".env"} {
		if _, err := os.Stat(name); err == nil {
			_ = godotenv.Load(name)
		}
	}
}

func loadConfig(path string) *config.Config {
	if path == "" {
		return config.Default()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func run(cfg *config.Config) error {
	metrics := monitoring.NewMetricsCollector()

	var decLog *monitoring.DecisionLogger
	if cfg.Engine.DecisionLogPath != "" {
		dl, err := monitoring.NewDecisionLogger(cfg.Engine.DecisionLogPath)
		if err != nil {
			return err
		}
		decLog = dl
		defer decLog.Close()
	}

	var decStore gateway.DecisionStore
	var scheduler *cron.Cron
	if cfg.Store.Path != "" {
		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()
		decStore = st

		if cfg.Store.RetentionDays > 0 {
			scheduler = cron.New(cron.WithSeconds())
			_, err := scheduler.AddFunc(cfg.Store.PruneSchedule, func() {
				pruneStore(st, cfg.Store.RetentionDays)
			})
			if err != nil {
				return fmt.Errorf("invalid prune schedule '%s': %w", cfg.Store.PruneSchedule, err)
			}
			scheduler.Start()
			defer scheduler.Stop()
		}
	}

	gw := gateway.New(cfg, metrics, decLog, decStore)

	errCh := make(chan error, 1)
	go func() { errCh <- gw.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutdown requested")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return gw.Shutdown(ctx)
}

func pruneStore(st *store.Store, retentionDays int) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	n, err := st.PruneBefore(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("decision prune failed")
		return
	}
	log.Info().Int64("pruned", n).Time("cutoff", cutoff).Msg("decision prune complete")
}

func init() {
	zerolog.DurationFieldUnit = time.Millisecond
}
