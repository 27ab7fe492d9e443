package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/config"
	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Downloader fetches snapshot files into the downloads tree. Files already
// on disk are never fetched again.
type Downloader struct {
	client  *http.Client
	paths   config.Paths
	sem     *semaphore.Weighted
	limiter *rate.Limiter
	logger  *zap.Logger
}

func NewDownloader(client *http.Client, paths config.Paths, workers int, requestsPerSecond float64, logger *zap.Logger) *Downloader {
	return &Downloader{
		client:  client,
		paths:   paths,
		sem:     semaphore.NewWeighted(int64(workers)),
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		logger:  logger,
	}
}

// Destination is <downloads>/<city>/<YYYY-MM>-<file>.
func (d *Downloader) Destination(link model.SnapshotLink) string {
	name := fmt.Sprintf("%04d-%02d-%s", link.Date.Year, int(link.Date.Month), strings.TrimSpace(link.File))
	return filepath.Join(d.paths.DownloadsDir(link.City), name)
}

// DownloadAll fetches links with bounded concurrency. Results line up with
// links; the error is only set when ctx was cancelled.
func (d *Downloader) DownloadAll(ctx context.Context, links []model.SnapshotLink) ([]model.DownloadResult, error) {
	results := make([]model.DownloadResult, len(links))
	g, gctx := errgroup.WithContext(ctx)

	for i, link := range links {
		i, link := i, link
		if err := d.sem.Acquire(gctx, 1); err != nil {
			results[i] = d.failed(link, err)
			continue
		}
		g.Go(func() error {
			defer d.sem.Release(1)
			results[i] = d.Download(gctx, link)
			if results[i].Outcome == model.OutcomeFailed && ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	counts := make(map[model.Outcome]int)
	for _, r := range results {
		counts[r.Outcome]++
	}
	d.logger.Info("downloads finished",
		zap.Int("downloaded", counts[model.OutcomeDownloaded]),
		zap.Int("exists", counts[model.OutcomeExists]),
		zap.Int("failed", counts[model.OutcomeFailed]))
	return results, err
}

func (d *Downloader) Download(ctx context.Context, link model.SnapshotLink) model.DownloadResult {
	dest := d.Destination(link)
	logger := d.logger.With(zap.String("city", link.City), zap.String("url", link.URL), zap.String("path", dest))

	_, err := os.Stat(dest)
	if err == nil {
		logger.Debug("file already exists")
		return model.DownloadResult{Link: link, Path: dest, Outcome: model.OutcomeExists}
	}
	if !errors.Is(err, os.ErrNotExist) {
		logger.Error("failed to stat destination", zap.Error(err))
		return d.failed(link, err)
	}

	if err := d.fetch(ctx, link.URL, dest); err != nil {
		logger.Error("failed to download", zap.Error(err))
		return d.failed(link, err)
	}
	logger.Info("downloaded")
	return model.DownloadResult{Link: link, Path: dest, Outcome: model.OutcomeDownloaded}
}

func (d *Downloader) failed(link model.SnapshotLink, err error) model.DownloadResult {
	return model.DownloadResult{Link: link, Path: d.Destination(link), Outcome: model.OutcomeFailed, Err: err}
}

// fetch streams into a .part file and renames it once complete, so a
// destination that exists is always a whole file.
func (d *Downloader) fetch(ctx context.Context, url, dest string) (err error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	part := dest + ".part"
	f, err := os.Create(part)
	if err != nil {
		return fmt.Errorf("failed to create '%s': %w", part, err)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(part)
		}
	}()

	if _, err = io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("failed to write body: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("failed to close '%s': %w", part, err)
	}
	if err = os.Rename(part, dest); err != nil {
		return fmt.Errorf("failed to move '%s' into place: %w", dest, err)
	}
	return nil
}
