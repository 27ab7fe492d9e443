package crawler

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/antchfx/htmlquery"
	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/model"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

const indexDateLayout = "2 January, 2006"

var (
	cityTableClassRegex = regexp.MustCompile(`^table table-hover table-striped (.*)$`)
	whitespaceRegex     = regexp.MustCompile(`\s+`)
)

var _ SiteCrawler = &InsideAirbnbCrawler{}

// InsideAirbnbCrawler reads the "get the data" page, which lists every
// published snapshot file in one table per city.
type InsideAirbnbCrawler struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

func NewInsideAirbnbCrawler(url string, client *http.Client, logger *zap.Logger) *InsideAirbnbCrawler {
	return &InsideAirbnbCrawler{url: url, client: client, logger: logger}
}

func (c InsideAirbnbCrawler) Crawl(ctx context.Context, links chan<- model.SnapshotLink) {
	doc, err := c.load(ctx)
	if err != nil {
		c.logger.Error("failed reading InsideAirbnb index", zap.String("url", c.url), zap.Error(err))
		return
	}
	c.logger.Debug("parsed root nodes")

	found, err := ParseIndex(doc)
	if err != nil {
		c.logger.Error("failed to parse InsideAirbnb index", zap.Error(err))
		return
	}
	c.logger.Info("parsed snapshot links", zap.Int("links", len(found)))

	for _, link := range found {
		select {
		case links <- link:
		case <-ctx.Done():
			return
		}
	}
}

func (c InsideAirbnbCrawler) load(ctx context.Context) (*html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch index: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status fetching index: %s", resp.Status)
	}
	return htmlquery.Parse(resp.Body)
}

// ParseIndex extracts one link per published file. Rows without a date
// ("N/A") are skipped.
func ParseIndex(doc *html.Node) ([]model.SnapshotLink, error) {
	tables, err := htmlquery.QueryAll(doc, "//table")
	if err != nil {
		return nil, fmt.Errorf("failed to xpath tables: %w", err)
	}

	var links []model.SnapshotLink
	for _, table := range tables {
		m := cityTableClassRegex.FindStringSubmatch(htmlquery.SelectAttr(table, "class"))
		if m == nil {
			continue
		}
		city := m[1]

		rows, err := htmlquery.QueryAll(table, "./tbody/tr")
		if err != nil {
			return nil, fmt.Errorf("failed to xpath rows of %s: %w", city, err)
		}
		for _, row := range rows {
			link, ok, err := parseIndexRow(city, row)
			if err != nil {
				return nil, fmt.Errorf("failed to parse row of %s: %w", city, err)
			}
			if ok {
				links = append(links, link)
			}
		}
	}
	return links, nil
}

func parseIndexRow(city string, row *html.Node) (model.SnapshotLink, bool, error) {
	dateCell, err := queryOne(row, "./td[1]")
	if err != nil {
		return model.SnapshotLink{}, false, err
	}
	dateText := getAllTextFromNode(dateCell)
	if dateText == "N/A" {
		return model.SnapshotLink{}, false, nil
	}
	captured, err := time.Parse(indexDateLayout, dateText)
	if err != nil {
		return model.SnapshotLink{}, false, fmt.Errorf("failed to parse date '%s': %w", dateText, err)
	}

	fileCell, err := queryOne(row, "./td[3]")
	if err != nil {
		return model.SnapshotLink{}, false, err
	}
	anchor, err := queryOne(fileCell, "./a")
	if err != nil {
		return model.SnapshotLink{}, false, err
	}

	return model.SnapshotLink{
		City: city,
		Date: civil.DateOf(captured),
		URL:  htmlquery.SelectAttr(anchor, "href"),
		File: getAllTextFromNode(fileCell),
	}, true, nil
}

func queryOne(node *html.Node, expr string) (*html.Node, error) {
	found, err := htmlquery.Query(node, expr)
	if err != nil {
		return nil, fmt.Errorf("failed to xpath '%s': %w", expr, err)
	}
	if found == nil {
		return nil, fmt.Errorf("no node matches '%s', source table structure seems to have changed", expr)
	}
	return found, nil
}

func getAllTextFromNode(node *html.Node) string {
	out := ""
	if node != nil {
		if node.Type == html.TextNode {
			out += " " + node.Data
		}

		// iterate over children
		nextNode := node.FirstChild
		for nextNode != nil {
			out += " " + getAllTextFromNode(nextNode)
			nextNode = nextNode.NextSibling
		}
	}

	out = strings.ReplaceAll(out, "\u00a0", " ") // non-breaking space
	out = whitespaceRegex.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}
