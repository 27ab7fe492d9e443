package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/model"
	"go.uber.org/zap"
)

const createMonthlyTable = `
CREATE TABLE IF NOT EXISTS monthly_summary (
	city               TEXT             NOT NULL,
	year               INT              NOT NULL,
	month              INT              NOT NULL,
	date               DATE             NOT NULL,
	available          INT              NOT NULL,
	total              INT              NOT NULL,
	available_ratio    DOUBLE PRECISION NOT NULL,
	min_price          DOUBLE PRECISION,
	max_price          DOUBLE PRECISION,
	mean_price         DOUBLE PRECISION,
	std_price          DOUBLE PRECISION,
	total_accommodates INT,
	booked             INT              NOT NULL,
	PRIMARY KEY (city, year, month, date)
)`

var monthlyColumns = []string{
	"city", "year", "month", "date",
	"available", "total", "available_ratio",
	"min_price", "max_price", "mean_price", "std_price",
	"total_accommodates", "booked",
}

// Postgres publishes monthly summaries into a shared table, one
// (city, year, month) slice at a time.
type Postgres struct {
	conn   *pgx.Conn
	logger *zap.Logger
}

func NewPostgres(conn *pgx.Conn, logger *zap.Logger) *Postgres {
	return &Postgres{conn: conn, logger: logger}
}

func ConnectPostgres(ctx context.Context, url string, logger *zap.Logger) (*Postgres, error) {
	conn, err := pgx.Connect(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return NewPostgres(conn, logger), nil
}

func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.conn.Exec(ctx, createMonthlyTable); err != nil {
		return fmt.Errorf("failed to create monthly_summary table: %w", err)
	}
	return nil
}

// ReplaceMonthly swaps the stored slice of one summary for the given rows
// inside a single transaction.
func (p *Postgres) ReplaceMonthly(ctx context.Context, summary model.MonthlySummary) error {
	tx, err := p.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ym := summary.Key.YearMonth
	if _, err := tx.Exec(ctx,
		`DELETE FROM monthly_summary WHERE city = $1 AND year = $2 AND month = $3`,
		summary.Key.City, ym.Year, int(ym.Month),
	); err != nil {
		return fmt.Errorf("failed to delete previous rows of %s: %w", summary.Key, err)
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{"monthly_summary"}, monthlyColumns, pgx.CopyFromRows(copyRows(summary)))
	if err != nil {
		return fmt.Errorf("failed to copy rows of %s: %w", summary.Key, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit %s: %w", summary.Key, err)
	}
	p.logger.Info("published monthly summary", zap.Stringer("key", summary.Key), zap.Int64("rows", n))
	return nil
}

func (p *Postgres) Close(ctx context.Context) error {
	return p.conn.Close(ctx)
}

func copyRows(summary model.MonthlySummary) [][]interface{} {
	ym := summary.Key.YearMonth
	rows := make([][]interface{}, 0, len(summary.Rows))
	for _, r := range summary.Rows {
		rows = append(rows, []interface{}{
			summary.Key.City,
			ym.Year,
			int(ym.Month),
			r.Date.In(time.UTC),
			r.Available,
			r.Total,
			r.AvailableRatio,
			nullable(r.MinPrice),
			nullable(r.MaxPrice),
			nullable(r.MeanPrice),
			nullable(r.StdPrice),
			nullableInt(r.TotalAccommodates),
			r.Booked,
		})
	}
	return rows
}

func nullable(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}

func nullableInt(n *int) interface{} {
	if n == nil {
		return nil
	}
	return *n
}
