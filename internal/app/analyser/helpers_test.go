package analyser

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/require"
	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/model"
)

func date(t *testing.T, s string) civil.Date {
	t.Helper()
	d, err := civil.ParseDate(s)
	require.NoError(t, err)
	return d
}

func intPtr(n int) *int {
	return &n
}

func listing(id string, accommodates int, responseRate, reviewRating string) model.ListingRecord {
	return model.ListingRecord{
		ID:                 id,
		Accommodates:       intPtr(accommodates),
		HostResponseRate:   model.Cell(responseRate),
		ReviewScoresRating: model.Cell(reviewRating),
	}
}

func calendarRow(t *testing.T, listingID, day string, available bool, price string) model.CalendarRecord {
	return model.CalendarRecord{
		ListingID: listingID,
		Date:      date(t, day),
		Available: available,
		Price:     model.Cell(price),
	}
}

// scenario is the three-listing day used across the pipeline tests: A and B
// qualify and are available, C doesn't qualify and is booked.
func scenario(t *testing.T) ([]model.ListingRecord, []model.CalendarRecord) {
	listings := []model.ListingRecord{
		listing("A", 2, "95%", "97%"),
		listing("B", 3, "90%", "0.9"),
		listing("C", 4, "50%", "99%"),
	}
	calendar := []model.CalendarRecord{
		calendarRow(t, "A", "2020-01-01", true, "$100"),
		calendarRow(t, "B", "2020-01-01", true, "$50"),
		calendarRow(t, "C", "2020-01-01", false, "$80"),
	}
	return listings, calendar
}
