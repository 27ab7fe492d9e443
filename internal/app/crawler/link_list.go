package crawler

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/model"
	"go.uber.org/zap"
)

const archiveExt = ".csv.gz"

var linkYearMonthRegex = regexp.MustCompile(`([0-9]{4})-([0-9]{2})`)

var _ SiteCrawler = &LinkListCrawler{}

// LinkListCrawler replays an archive list, a CSV with Region, Data and Link
// columns, instead of crawling the live index.
type LinkListCrawler struct {
	path   string
	logger *zap.Logger
}

func NewLinkListCrawler(path string, logger *zap.Logger) *LinkListCrawler {
	return &LinkListCrawler{path: path, logger: logger}
}

func (l LinkListCrawler) Crawl(ctx context.Context, links chan<- model.SnapshotLink) {
	found, err := ReadLinkList(l.path)
	if err != nil {
		l.logger.Error("failed to read link list", zap.String("path", l.path), zap.Error(err))
		return
	}
	for _, link := range found {
		select {
		case links <- link:
		case <-ctx.Done():
			return
		}
	}
}

func ReadLinkList(path string) ([]model.SnapshotLink, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open link list: %w", err)
	}
	defer f.Close()
	return parseLinkList(f)
}

func parseLinkList(r io.Reader) ([]model.SnapshotLink, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read link list header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, name := range []string{"Region", "Data", "Link"} {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("link list is missing column '%s'", name)
		}
	}

	var links []model.SnapshotLink
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return links, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read link list: %w", err)
		}
		url := strings.TrimSpace(record[index["Link"]])
		m := linkYearMonthRegex.FindStringSubmatch(url)
		if m == nil {
			return nil, fmt.Errorf("no year-month in link '%s'", url)
		}
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		ym, err := model.NewYearMonth(year, month)
		if err != nil {
			return nil, fmt.Errorf("link '%s': %w", url, err)
		}
		links = append(links, model.SnapshotLink{
			City: strings.TrimSpace(record[index["Region"]]),
			Date: civil.Date{Year: ym.Year, Month: ym.Month, Day: 1},
			URL:  url,
			File: strings.TrimSpace(record[index["Data"]]) + archiveExt,
		})
	}
}

// WriteLinkListResults writes the list back with the outcome of each link.
func WriteLinkListResults(path string, results []model.DownloadResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create '%s': %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"Region", "Data", "Link", "result"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range results {
		record := []string{
			r.Link.City,
			strings.TrimSuffix(r.Link.File, archiveExt),
			r.Link.URL,
			string(r.Outcome),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write result of '%s': %w", r.Link.URL, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
