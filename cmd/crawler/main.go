package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/ymakhloufi/airbnb-vintage/internal/app/crawler"
	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/config"
	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/logging"
	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/model"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	noErr(err)
	logger, err := logging.New(cfg.Log)
	noErr(err)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(cfg, logger).ExecuteContext(ctx); err != nil {
		logger.Error("command failed", zap.Error(err))
		stop()
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config, logger *zap.Logger) *cobra.Command {
	paths := cfg.Paths()
	client := &http.Client{Timeout: cfg.Crawler.Timeout}
	index := crawler.NewIndexStore(paths)
	downloader := crawler.NewDownloader(client, paths, cfg.Crawler.Workers, cfg.Crawler.RequestsPerSecond, logger.Named("Downloader"))

	root := &cobra.Command{
		Use:           "crawler",
		Short:         "collect and download InsideAirbnb snapshots",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var listPath string
	collect := &cobra.Command{
		Use:   "collect",
		Short: "crawl the snapshot index into one JSON file per city",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			crawlers := []crawler.SiteCrawler{
				crawler.NewInsideAirbnbCrawler(cfg.Crawler.IndexURL, client, logger.Named("InsideAirbnbCrawler")),
			}
			if listPath != "" {
				crawlers = append(crawlers, crawler.NewLinkListCrawler(listPath, logger.Named("LinkListCrawler")))
			}
			svc := crawler.NewService(index, crawlers, logger.Named("Crawler Svc"))
			_, err := svc.Crawl(cmd.Context())
			return err
		},
	}
	collect.Flags().StringVar(&listPath, "list", "", "also read links from an archive list CSV")

	download := &cobra.Command{
		Use:   "download <city>",
		Short: "download every indexed snapshot of a city",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			links, err := index.LoadCityIndex(args[0])
			if err != nil {
				return err
			}
			results, err := downloader.DownloadAll(cmd.Context(), links)
			if err != nil {
				return err
			}
			return failures(results)
		},
	}

	archive := &cobra.Command{
		Use:   "archive <list.csv>",
		Short: "download the links of an archive list and record each outcome in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			links, err := crawler.ReadLinkList(args[0])
			if err != nil {
				return err
			}
			results, err := downloader.DownloadAll(cmd.Context(), links)
			if err != nil {
				return err
			}
			return crawler.WriteLinkListResults(args[0], results)
		},
	}

	var workflowPath string
	workflow := &cobra.Command{
		Use:   "workflow",
		Short: "generate the scheduled download workflow for all indexed cities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cities, err := index.Cities()
			if err != nil {
				return err
			}
			return crawler.WriteWorkflow(workflowPath, crawler.BuildWorkflow(cities))
		},
	}
	workflow.Flags().StringVar(&workflowPath, "out", ".github/workflows/download.yml", "workflow file to write")

	root.AddCommand(collect, download, archive, workflow)
	return root
}

func failures(results []model.DownloadResult) error {
	failed := 0
	for _, r := range results {
		if r.Outcome == model.OutcomeFailed {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d downloads failed", failed, len(results))
	}
	return nil
}

func noErr(err error) {
	if err != nil {
		panic("failed to initialize something important: " + err.Error())
	}
}
