package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"bookstore-migrator/internal/config"
	"bookstore-migrator/pkg/container"
	"bookstore-migrator/pkg/logger"

	"github.com/spf13/cobra"
)

// app là state dùng chung giữa root command và các subcommand
type app struct {
	envFile   string
	logLevel  string
	container *container.Container
}

func main() {
	// Logger tạm cho lỗi xảy ra trước khi config được load
	logger.Init("development", "info")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)
	a.cleanup()
	stop()

	if err != nil {
		logger.Error("❌ Command failed", err)
		os.Exit(1)
	}
}

// newRootCmd creates and configures the root command
func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "migrator",
		Short:         "WordPress → Supabase migration tooling for the bookstore",
		Long:          `Imports WordPress users and author posts into Supabase, re-hosts legacy author photos and generates the books seed script.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", "", "env file to read (default $ENV_FILE or .env)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")

	rootCmd.AddCommand(newImportAuthorsCmd(a))
	rootCmd.AddCommand(newImportAutoresCmd(a))
	rootCmd.AddCommand(newMigratePhotosCmd(a))
	rootCmd.AddCommand(newGenerateSeedCmd(a))

	return rootCmd
}

// init loads configuration and builds the container. Configuration errors
// surface here, before any network call.
func (a *app) init() error {
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return err
	}

	level := cfg.App.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	logger.Init(cfg.App.Environment, level)
	logger.Debug("Configuration loaded from " + cfg.App.EnvFile)

	a.container = container.NewContainer(cfg)
	return nil
}

func (a *app) cleanup() {
	if a.container != nil {
		a.container.Cleanup()
	}
}

// logSummary in một event duy nhất chứa toàn bộ counters của command
func logSummary(command string, dryRun bool, result any) {
	fields := map[string]interface{}{}
	if raw, err := json.Marshal(result); err == nil {
		_ = json.Unmarshal(raw, &fields)
	}
	fields["command"] = command
	fields["dry_run"] = dryRun

	logger.Info("✅ Completed", fields)
}
