package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

const (
	SourceListings Source = "listings"
	SourceCalendar Source = "calendar"
)

type Source string

func ParseSource(s string) (Source, error) {
	switch Source(strings.ToLower(s)) {
	case SourceListings:
		return SourceListings, nil
	case SourceCalendar:
		return SourceCalendar, nil
	default:
		return "", fmt.Errorf("%w: received '%s'", ErrInvalidSource, s)
	}
}

// YearMonth identifies a calendar month, both for snapshot batches and for
// the historical months their rows describe.
type YearMonth struct {
	Year  int
	Month time.Month
}

func NewYearMonth(year, month int) (YearMonth, error) {
	ym := YearMonth{Year: year, Month: time.Month(month)}
	if err := ym.Validate(); err != nil {
		return YearMonth{}, err
	}
	return ym, nil
}

func YearMonthOf(d civil.Date) YearMonth {
	return YearMonth{Year: d.Year, Month: d.Month}
}

// ParseYearMonth accepts "2006-01" as well as the unpadded "2006-1".
func ParseYearMonth(s string) (YearMonth, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return YearMonth{}, fmt.Errorf("failed to parse year-month from '%s'", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return YearMonth{}, fmt.Errorf("failed to parse year from '%s': %w", s, err)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return YearMonth{}, fmt.Errorf("failed to parse month from '%s': %w", s, err)
	}
	return NewYearMonth(year, month)
}

func (ym YearMonth) Validate() error {
	if ym.Month < time.January || ym.Month > time.December {
		return fmt.Errorf("%w: received %d", ErrInvalidMonth, int(ym.Month))
	}
	return nil
}

func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// SnapshotKey addresses one city-month batch of raw snapshots and its summary.
type SnapshotKey struct {
	City      string
	YearMonth YearMonth
}

func (k SnapshotKey) String() string {
	return k.City + "/" + k.YearMonth.String()
}
