// Package main is the entry point for the taskboard application.
// It loads configuration, opens storage, and starts the TUI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"taskboard/internal/config"
	"taskboard/internal/logging"
	"taskboard/internal/notify"
	"taskboard/internal/session"
	"taskboard/internal/storage"
	"taskboard/internal/ui"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "taskboard",
		Short: "A sectioned to-do board for your terminal",
		Long: `taskboard keeps tasks in named sections, flags them when their deadline
passes, and moves completed work into a history log grouped by day.

Data lives in ~/.taskboard/ unless data_dir is set in
~/.config/taskboard/config.yaml.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context())
		},
	}

	root.AddCommand(
		newBackupCmd(),
		newRestoreCmd(),
		newExportCmd(),
		newImportCmd(),
	)
	return root
}

// env is what every subcommand needs before it can touch data.
type env struct {
	cfg  *config.Config
	log  *logging.Logger
	repo *storage.Repository
}

func openEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logCfg := cfg.Log
	logCfg.File = cfg.LogFile()
	log, err := logging.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	store, err := storage.Open(cfg, log)
	if err != nil {
		_ = log.Close()
		return nil, fmt.Errorf("initializing storage: %w", err)
	}

	return &env{cfg: cfg, log: log, repo: storage.NewRepository(store, log)}, nil
}

func (e *env) Close() {
	if err := e.repo.Close(); err != nil {
		e.log.Warnw("close storage", "error", err)
	}
	_ = e.log.Close()
}

// openSession loads the board and history without starting the sweeper.
// Mutations are persisted on Close.
func (e *env) openSession(ctx context.Context) (*session.Session, error) {
	sess, err := session.Open(ctx, e.repo, session.Options{Logger: e.log})
	if err != nil {
		return nil, fmt.Errorf("loading data: %w", err)
	}
	return sess, nil
}

func runTUI(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	sess, err := session.Open(ctx, e.repo, session.Options{
		SweepInterval: e.cfg.SweepEvery(),
		OnExpired:     notify.OverdueHandler(notify.New(), e.cfg.Notifications, e.log),
		AutoSave:      true,
		Logger:        e.log,
	})
	if err != nil {
		return fmt.Errorf("loading data: %w", err)
	}
	sess.Start(ctx)

	runErr := ui.Run(sess, ui.NewStyles(e.cfg), ui.AppConfigFrom(e.cfg))

	// Save even when the UI failed.
	if err := sess.Close(context.Background()); err != nil {
		if runErr == nil {
			return fmt.Errorf("saving data: %w", err)
		}
		e.log.Errorw("save on exit", "error", err)
	}
	if runErr != nil {
		return fmt.Errorf("running app: %w", runErr)
	}
	return nil
}
