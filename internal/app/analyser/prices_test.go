package analyser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/model"
)

func joinScenario(t *testing.T, listings []model.ListingRecord, calendar []model.CalendarRecord) []model.JoinedRow {
	t.Helper()
	qualifying, err := Qualify(listings)
	require.NoError(t, err)
	joined, err := Join(calendar, qualifying)
	require.NoError(t, err)
	return joined
}

func TestTwoPass_Scenario(t *testing.T) {
	listings, calendar := scenario(t)
	joined := joinScenario(t, listings, calendar)
	day := date(t, "2020-01-01")

	pass1, pass2 := TwoPass(joined)

	p1 := pass1[day]
	require.NotNil(t, p1.MeanPrice)
	assert.InDelta(t, 75, *p1.MeanPrice, 1e-9)
	assert.InDelta(t, 50, *p1.MinPrice, 1e-9)
	assert.InDelta(t, 100, *p1.MaxPrice, 1e-9)
	require.NotNil(t, p1.StdPrice)
	assert.InDelta(t, 35.35533905932738, *p1.StdPrice, 1e-9)
	assert.Equal(t, 5, *p1.TotalAccommodates)

	p2 := pass2[day]
	require.NotNil(t, p2.MeanPrice)
	assert.InDelta(t, 100, *p2.MeanPrice, 1e-9)
	assert.InDelta(t, 100, *p2.MinPrice, 1e-9)
	assert.InDelta(t, 100, *p2.MaxPrice, 1e-9)
	assert.Nil(t, p2.StdPrice, "deviation of a single sample is undefined")
	assert.Equal(t, 2, *p2.TotalAccommodates)
}

func TestTwoPass_SecondPassOnlyAboveFirstMean(t *testing.T) {
	var listings []model.ListingRecord
	var calendar []model.CalendarRecord
	prices := map[string][]string{
		"2021-06-01": {"$10", "$20", "$30", "$40", "$1,000"},
		"2021-06-02": {"$55", "$55", "$60", "$65"},
		"2021-06-03": {"$5", "$500"},
	}
	n := 0
	for day, ps := range prices {
		for _, p := range ps {
			id := string(rune('a' + n))
			n++
			listings = append(listings, listing(id, 1, "100%", "100%"))
			calendar = append(calendar, calendarRow(t, id, day, true, p))
		}
	}
	joined := joinScenario(t, listings, calendar)

	pass1, pass2 := TwoPass(joined)

	require.Len(t, pass2, len(pass1))
	for day, p1 := range pass1 {
		p2, ok := pass2[day]
		require.True(t, ok, day.String())
		assert.GreaterOrEqual(t, *p2.MeanPrice, *p1.MeanPrice, day.String())
		assert.GreaterOrEqual(t, *p2.MinPrice, *p1.MeanPrice, day.String())
		assert.Equal(t, *p1.MaxPrice, *p2.MaxPrice, day.String())
	}
	assert.InDelta(t, 1000, *pass2[date(t, "2021-06-01")].MeanPrice, 1e-9)
	assert.Equal(t, 1, *pass2[date(t, "2021-06-01")].TotalAccommodates)
}

func TestAggregatePrices_MissingValues(t *testing.T) {
	listings := []model.ListingRecord{listing("A", 2, "95%", "95%")}
	calendar := []model.CalendarRecord{
		calendarRow(t, "A", "2020-03-01", true, ""),
		calendarRow(t, "B", "2020-03-01", true, ""),
		calendarRow(t, "A", "2020-03-02", false, "$10"),
		calendarRow(t, "B", "2020-03-03", true, "$30"),
	}
	joined := joinScenario(t, listings, calendar)

	pass1, pass2 := TwoPass(joined)

	noPrice := pass1[date(t, "2020-03-01")]
	assert.Nil(t, noPrice.MeanPrice)
	assert.Nil(t, noPrice.MinPrice)
	assert.Equal(t, 2, *noPrice.TotalAccommodates, "accommodates are summed without prices")
	assert.NotContains(t, pass2, date(t, "2020-03-01"))

	assert.NotContains(t, pass1, date(t, "2020-03-02"), "a date with no available rows has no statistics")

	unqualified := pass2[date(t, "2020-03-03")]
	assert.InDelta(t, 30, *unqualified.MeanPrice, 1e-9)
	assert.Equal(t, 0, *unqualified.TotalAccommodates)
}
