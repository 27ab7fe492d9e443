package store

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/model"
)

func sampleVintage() model.VintageTable {
	jan := model.YearMonth{Year: 2021, Month: time.January}
	feb := model.YearMonth{Year: 2021, Month: time.February}
	mar := model.YearMonth{Year: 2021, Month: time.March}
	return model.VintageTable{
		Months:  []model.YearMonth{jan, feb, mar},
		Columns: []model.VintageColumn{
			{Label: "2021-01", Booked: map[model.YearMonth]int{jan: 120, mar: 40}},
			{Label: "2021-02", Booked: map[model.YearMonth]int{feb: 0, mar: 75}},
		},
	}
}

func TestEncodeVintage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, encodeVintage(&buf, sampleVintage()))

	assert.Equal(t,
		"year-month,2021-01,2021-02\n"+
			"2021-01,120,\n"+
			"2021-02,,0\n"+
			"2021-03,40,75\n",
		buf.String())
}

func TestStore_WriteVintage(t *testing.T) {
	s, paths := newTestStore(t)

	require.NoError(t, s.WriteVintage("lisbon", sampleVintage()))
	require.NoError(t, s.WriteVintage("lisbon", model.VintageTable{}))

	content, err := os.ReadFile(paths.Vintage("lisbon"))
	require.NoError(t, err)
	assert.Equal(t, "year-month\n", string(content), "the last write wins")
}
