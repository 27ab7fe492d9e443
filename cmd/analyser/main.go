package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/ymakhloufi/airbnb-vintage/internal/app/analyser"
	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/config"
	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/logging"
	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/model"
	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/snapshot"
	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/store"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	noErr(err)
	logger, err := logging.New(cfg.Log)
	noErr(err)
	defer func() { _ = logger.Sync() }()

	paths := cfg.Paths()
	summaries, err := store.New(paths, cfg.SummaryCacheSize, logger.Named("Summary Store"))
	noErr(err)
	snapshots := snapshot.NewReader(paths, cfg.ListingFields, cfg.CalendarFields, logger.Named("Snapshot Reader"))
	svc := analyser.NewService(snapshots, summaries, logger.Named("Analyser Svc"))

	if err := newRootCmd(cfg, svc, summaries, logger).Execute(); err != nil {
		logger.Error("command failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config, svc *analyser.Service, summaries *store.Store, logger *zap.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "analyser",
		Short:         "aggregate InsideAirbnb snapshots into daily summaries",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var reuseMonth bool
	month := &cobra.Command{
		Use:   "month <city> <year> <month>",
		Short: "build and store the summary of one snapshot month",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, m, err := intArgs(args[1], args[2])
			if err != nil {
				return err
			}
			ym, err := model.NewYearMonth(year, m)
			if err != nil {
				return err
			}
			_, err = svc.MonthlySummary(model.SnapshotKey{City: args[0], YearMonth: ym}, reuseMonth)
			return err
		},
	}
	month.Flags().BoolVar(&reuseMonth, "reuse", false, "keep the stored summary when there is one")

	var reuse bool
	day := &cobra.Command{
		Use:   "day <city> <month> <day>",
		Short: "print one calendar day across every snapshot of a city",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, d, err := intArgs(args[1], args[2])
			if err != nil {
				return err
			}
			rows, err := svc.SpecificDay(args[0], m, d, reuse)
			if err != nil {
				return err
			}
			return store.EncodeDaySlice(cmd.OutOrStdout(), rows)
		},
	}
	day.Flags().BoolVar(&reuse, "reuse", false, "read stored monthly summaries instead of rebuilding them")

	allMonths := &cobra.Command{
		Use:   "allmonths <city>",
		Short: "build the summary of every downloaded snapshot month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := svc.ProcessAllMonths(args[0])
			return err
		},
	}

	vintage := &cobra.Command{
		Use:   "vintage <city>",
		Short: "pivot booked nights of every snapshot into the vintage table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := svc.Vintage(args[0])
			return err
		},
	}

	publish := &cobra.Command{
		Use:   "publish <city>",
		Short: "copy the stored monthly summaries of a city into postgres",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.PostgresURL == "" {
				return fmt.Errorf("AIRBNB_POSTGRES_URL is not set")
			}
			return publishCity(cmd.Context(), cfg.PostgresURL, summaries, args[0], logger.Named("PG Store"))
		},
	}

	root.AddCommand(month, day, allMonths, vintage, publish)
	return root
}

func publishCity(ctx context.Context, url string, summaries *store.Store, city string, logger *zap.Logger) error {
	pg, err := store.ConnectPostgres(ctx, url, logger)
	if err != nil {
		return err
	}
	defer func() { _ = pg.Close(ctx) }()

	if err := pg.EnsureSchema(ctx); err != nil {
		return err
	}
	keys, err := summaries.MonthlyKeys(city)
	if err != nil {
		return err
	}
	for _, k := range keys {
		summary, err := summaries.ReadMonthly(k)
		if err != nil {
			return err
		}
		if err := pg.ReplaceMonthly(ctx, summary); err != nil {
			return err
		}
	}
	return nil
}

func intArgs(a, b string) (int, int, error) {
	x, err := strconv.Atoi(a)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse '%s' as a number: %w", a, err)
	}
	y, err := strconv.Atoi(b)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse '%s' as a number: %w", b, err)
	}
	return x, y, nil
}

func noErr(err error) {
	if err != nil {
		panic("failed to initialize something important: " + err.Error())
	}
}
