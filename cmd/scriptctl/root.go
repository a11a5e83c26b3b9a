package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"idive/internal/config"
	scriptSvc "idive/internal/domain/services/script"
	"idive/internal/presets"
	"idive/internal/repository"
	authSvc "idive/internal/service/auth"
	serviceScript "idive/internal/service/script"
)

var (
	userID       string
	outputFormat string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scriptctl",
	Short: "script history administration",
	Example: `scriptctl migrate
scriptctl history <script-id> --limit 20
scriptctl show <script-id> <entry-id>
scriptctl snapshot <script-id> --label "before review" --user <user-id>
scriptctl restore <script-id> <entry-id> --user <user-id>`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&userID, "user", "", "act as this user id (ownership is enforced)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", defaultFormat(), "output format: table or json")

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(snapshotCmd())
	rootCmd.AddCommand(restoreCmd())

	rootCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	cobra.EnableCommandSorting = false
}

// defaultFormat prints tables to a terminal and JSON to pipes
func defaultFormat() string {
	if isatty.IsTerminal(os.Stdout.Fd()) {
		return "table"
	}
	return "json"
}

// newLogger writes human-readable logs to a terminal, JSON otherwise
func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Environment == "dev" {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

// app holds what a subcommand needs; close releases the stores
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	stores  *repository.Stores
	scripts scriptSvc.ScriptService
}

func (a *app) close() {
	if err := a.stores.Close(); err != nil {
		a.logger.Warn("close storage", "error", err)
	}
}

func loadApp(ctx context.Context, migrate bool) (*app, error) {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	stores, err := repository.Open(ctx, cfg, migrate, logger)
	if err != nil {
		return nil, err
	}

	presetRegistry, err := presets.NewRegistry()
	if err != nil {
		_ = stores.Close()
		return nil, fmt.Errorf("load presets: %w", err)
	}

	// No text generator: transform and generate are API-only
	scripts := serviceScript.NewService(
		stores.Scripts,
		stores.History,
		stores.Presenters,
		authSvc.NewOwnerBasedAuthorizer(stores.Presenters, stores.Scripts),
		nil,
		presetRegistry,
		cfg.DefaultLanguage,
		logger,
	)

	return &app{cfg: cfg, logger: logger, stores: stores, scripts: scripts}, nil
}

func requireUser() error {
	if userID == "" {
		return fmt.Errorf("--user is required")
	}
	return nil
}
