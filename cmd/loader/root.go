package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"sales-dashboard/internal/config"
	"sales-dashboard/internal/logger"
	"sales-dashboard/internal/service/loader"
	"sales-dashboard/internal/storage/mysql"
)

type fileLoader interface {
	LoadSales(ctx context.Context, r io.Reader) (*loader.Report, error)
	LoadSalesXLSX(ctx context.Context, r io.Reader) (*loader.Report, error)
	LoadEmployees(ctx context.Context, r io.Reader) (*loader.Report, error)
}

type app struct {
	configPath string
	cfg        *config.Config
	log        *slog.Logger
	storage    *mysql.Storage
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "loader",
		Short:         "Bulk-load sales and employee exports into the dashboard database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default $CONFIG_PATH or ./config/local.yaml)")

	root.AddCommand(
		&cobra.Command{
			Use:   "sales <file.json|file.xlsx>",
			Short: "Load sales rows",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.load(cmd, kindSales, args[0])
			},
		},
		&cobra.Command{
			Use:   "employees <file.json>",
			Short: "Load the HR employee export",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.load(cmd, kindEmployees, args[0])
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create the sales and employee tables",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				defer a.close()

				if err := a.storage.Migrate(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			},
		},
	)

	return root
}

func (a *app) open() error {
	path := a.configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "./config/local.yaml"
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}
	a.cfg = cfg
	a.log = logger.New(cfg.Env, os.Stderr, nil)

	storage, err := mysql.New(cfg.DB)
	if err != nil {
		return err
	}
	a.storage = storage

	return nil
}

// close releases the database. RunE defers it because cobra skips the post-run
// hooks when a command fails.
func (a *app) close() {
	if a.storage == nil {
		return
	}
	if err := a.storage.Close(); err != nil && a.log != nil {
		a.log.Warn("failed to close storage", slog.String("error", err.Error()))
	}
	a.storage = nil
}

func (a *app) load(cmd *cobra.Command, kind, path string) error {
	defer a.close()

	svc := loader.NewService(a.storage, a.log, a.cfg.Loader.BatchSize)

	rep, err := loadFile(cmd.Context(), svc, kind, path)
	if rep != nil {
		printReport(cmd.OutOrStdout(), rep)
	}
	return err
}

const (
	kindSales     = "sales"
	kindEmployees = "employees"
)

var errUnsupportedFile = errors.New("unsupported file type")

// loadFile picks the decoder from the extension: .xlsx sheets for sales, JSON otherwise.
func loadFile(ctx context.Context, svc fileLoader, kind, path string) (*loader.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))

	switch {
	case kind == kindSales && ext == ".xlsx":
		return svc.LoadSalesXLSX(ctx, f)
	case ext != ".json":
		return nil, fmt.Errorf("%w: %s", errUnsupportedFile, ext)
	case kind == kindSales:
		return svc.LoadSales(ctx, f)
	default:
		return svc.LoadEmployees(ctx, f)
	}
}

func printReport(w io.Writer, rep *loader.Report) {
	fmt.Fprintf(w, "batch:    %s\n", rep.BatchID)
	fmt.Fprintf(w, "total:    %d\n", rep.Total)
	fmt.Fprintf(w, "inserted: %d\n", rep.Inserted)
	fmt.Fprintf(w, "skipped:  %d\n", len(rep.Skipped))
	if len(rep.Skipped) > 0 {
		idx := make([]string, 0, len(rep.Skipped))
		for _, i := range rep.Skipped {
			idx = append(idx, fmt.Sprint(i))
		}
		fmt.Fprintf(w, "skipped rows: %s\n", strings.Join(idx, ", "))
	}
}
