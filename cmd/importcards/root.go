package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/vytor/cardrank/internal/config"
	"github.com/vytor/cardrank/internal/importer"
	"github.com/vytor/cardrank/internal/logger"
	"github.com/vytor/cardrank/internal/services"
	"github.com/vytor/cardrank/internal/store"
	"github.com/vytor/cardrank/internal/worker"
)

type importFlags struct {
	file   string
	append bool
}

func newRootCmd() *cobra.Command {
	flags := importFlags{}

	cmd := &cobra.Command{
		Use:   "importcards",
		Short: "Load cards from a CSV file into the card store",
		Long: `importcards reads a CSV file with 'name' and 'image_url' columns (and an optional
'description' column) and creates one card per row. Rows missing a name or image URL are skipped.
The import is skipped when the store already holds cards unless --append is given.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger.SetDefault(logger.New(
				logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
				logger.WithOutput(cmd.ErrOrStderr()),
			))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runImport(ctx, cfg, flags, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&flags.file, "file", "f", "jokers.csv", "CSV file to import")
	cmd.Flags().BoolVar(&flags.append, "append", false, "import even when the store already has cards")
	return cmd
}

func runImport(ctx context.Context, cfg config.Config, flags importFlags, out io.Writer) error {
	log := logger.Default()

	f, err := os.Open(flags.file)
	if err != nil {
		return fmt.Errorf("%s not found: %w", flags.file, err)
	}
	defer f.Close()

	parsed, err := importer.ParseCSV(f, log)
	if err != nil {
		return fmt.Errorf("read %s: %w", flags.file, err)
	}
	if len(parsed.Rows) == 0 {
		return fmt.Errorf("no valid cards found in %s, import aborted", flags.file)
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
	st, err := store.Open(connectCtx, cfg)
	cancel()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			log.Warn("failed to close store: %v", err)
		}
	}()

	cards := services.NewCardService(st.Cards, st.Comparisons, services.CardServiceConfig{
		StoreTimeout:     cfg.StoreTimeout,
		LeaderboardLimit: cfg.LeaderboardLimit,
	})

	pool := worker.NewPool(cfg.ImportWorkerCount, cfg.ImportQueueSize)
	pool.Start(ctx)
	defer pool.Stop()

	summary, err := services.NewImportService(cards).ImportCards(ctx, parsed.Rows, pool, services.ImportOptions{Append: flags.append})
	if stderrors.Is(err, services.ErrStorePopulated) {
		color.New(color.FgYellow).Fprintf(out, "Store already has %d cards. Skipping import (use --append to add anyway).\n", summary.Existing)
		return nil
	}
	if err != nil {
		return err
	}

	printSummary(out, parsed, summary)
	if summary.Created == 0 {
		return fmt.Errorf("no cards were imported")
	}
	return nil
}

func printSummary(out io.Writer, parsed *importer.Result, summary *services.ImportSummary) {
	green := color.New(color.FgGreen, color.Bold)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	for _, skip := range parsed.Skipped {
		yellow.Fprintf(out, "skipped row %d: %s\n", skip.Line, skip.Reason)
	}
	for _, fail := range summary.Failed {
		red.Fprintf(out, "failed row %d (%s): %v\n", fail.Line, fail.Name, fail.Err)
	}
	green.Fprintf(out, "Imported %d out of %d cards.\n", summary.Created, summary.Total)
}
