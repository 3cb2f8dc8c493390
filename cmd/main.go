package main

import (
	"context"
	"fmt"
	"os"

	"fyne.io/fyne/v2/app"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AndrivA89/memo-editor/internal/config"
	"github.com/AndrivA89/memo-editor/internal/logging"
	"github.com/AndrivA89/memo-editor/internal/repository/neo4jstore"
	"github.com/AndrivA89/memo-editor/internal/repository/sqlite"
	"github.com/AndrivA89/memo-editor/internal/ui"
	"github.com/AndrivA89/memo-editor/internal/usecase"
)

type options struct {
	configPath string
	backend    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "memo",
		Short: "Markdown editor with a local memo history",
		Long: `Stores markdown memos in a local database and browses them
newest first, ten per page.

Without a subcommand the desktop editor is opened.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd, opts)
		},
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "memo.yaml", "path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&opts.backend, "backend", "", "storage backend: sqlite or neo4j")

	rootCmd.AddCommand(
		newUICmd(opts),
		newSaveCmd(opts),
		newPagesCmd(opts),
		newHistoryCmd(opts),
	)
	return rootCmd
}

// openMemoUseCase wires the configured backend into a MemoUseCase. The returned
// func releases the backend and flushes the logger.
func openMemoUseCase(ctx context.Context, opts *options) (*usecase.MemoUseCase, func(), error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, err
	}
	if opts.backend != "" {
		cfg.Backend = opts.backend
		if err = cfg.Validate(); err != nil {
			return nil, nil, err
		}
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	var (
		repo    usecase.MemoRepository
		closeFn func()
	)
	switch cfg.Backend {
	case config.BackendNeo4j:
		repo, closeFn, err = openNeo4j(ctx, cfg, logger)
	default:
		repo, closeFn, err = openSQLite(ctx, cfg, logger)
	}
	if err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}
	logger.Debug("memo store opened", zap.String("backend", cfg.Backend))

	uc := usecase.NewMemoUseCase(repo, usecase.WithLogger(logger))
	return uc, func() {
		closeFn()
		_ = logger.Sync()
	}, nil
}

func openSQLite(ctx context.Context, cfg *config.Config, logger *zap.Logger) (usecase.MemoRepository, func(), error) {
	db, err := sqlite.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := db.Close(); err != nil {
			logger.Error("Error closing SQLite database", zap.Error(err))
		}
	}

	repo, err := sqlite.NewMemoRepository(db, cfg.Schema, logger)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	if err = repo.Init(ctx); err != nil {
		closeFn()
		return nil, nil, err
	}
	return repo, closeFn, nil
}

func openNeo4j(ctx context.Context, cfg *config.Config, logger *zap.Logger) (usecase.MemoRepository, func(), error) {
	driver, err := neo4j.NewDriverWithContext(cfg.Neo4j.URI, neo4j.BasicAuth(cfg.Neo4j.Username, cfg.Neo4j.Password, ""))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Neo4j driver: %w", err)
	}
	closeFn := func() {
		if err := driver.Close(context.Background()); err != nil {
			logger.Error("Error closing Neo4j driver", zap.Error(err))
		}
	}

	if err = driver.VerifyConnectivity(ctx); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("failed to reach Neo4j: %w", err)
	}
	repo, err := neo4jstore.NewMemoRepository(driver, cfg.Schema, logger)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	if err = repo.Init(ctx); err != nil {
		closeFn()
		return nil, nil, err
	}
	return repo, closeFn, nil
}

func runUI(cmd *cobra.Command, opts *options) error {
	uc, closeFn, err := openMemoUseCase(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer closeFn()

	ui.NewMainWindow(app.New(), uc).Window.ShowAndRun()
	return nil
}
