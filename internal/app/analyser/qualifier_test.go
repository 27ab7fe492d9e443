package analyser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/model"
)

func TestNormalizePercent(t *testing.T) {
	tests := []struct {
		name    string
		in      model.RawValue
		want    *float64
		wantErr bool
	}{
		{name: "percent string", in: model.Text("95%"), want: floatPtr(0.95)},
		{name: "percent string with spaces", in: model.Text(" 100% "), want: floatPtr(1)},
		{name: "fraction text passes through", in: model.Text("0.9"), want: floatPtr(0.9)},
		{name: "number passes through", in: model.Number(0.87), want: floatPtr(0.87)},
		{name: "missing stays missing", in: model.Missing()},
		{name: "NA marker is missing", in: model.Cell("N/A")},
		{name: "lower-case NA marker is missing", in: model.Cell("n/a")},
		{name: "garbage", in: model.Text("high"), wantErr: true},
		{name: "garbage percent", in: model.Text("abc%"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePercent("host_response_rate", tt.in)
			if tt.wantErr {
				var parseErr *model.ParseError
				require.ErrorAs(t, err, &parseErr)
				assert.Equal(t, "host_response_rate", parseErr.Field)
				return
			}
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-12)
		})
	}
}

func TestQualify(t *testing.T) {
	listings := []model.ListingRecord{
		listing("high", 2, "95%", "96%"),
		listing("edge", 1, "85%", "0.85"),
		listing("low-response", 3, "84%", "99%"),
		listing("low-review", 3, "99%", "80%"),
		listing("no-response", 3, "", "99%"),
		listing("no-review", 3, "99%", ""),
		listing("high", 7, "100%", "100%"),
	}

	got, err := Qualify(listings)
	require.NoError(t, err)

	assert.Len(t, got, 2)
	require.Contains(t, got, "high")
	require.Contains(t, got, "edge")
	assert.Equal(t, 2, *got["high"].Accommodates, "first row of a repeated id wins")
	assert.InDelta(t, 0.95, got["high"].HostResponseRate, 1e-12)
	assert.InDelta(t, 0.85, got["edge"].ReviewScoresRating, 1e-12)
}

func TestQualify_ParseErrorIsFatal(t *testing.T) {
	_, err := Qualify([]model.ListingRecord{listing("x", 1, "ninety%", "99%")})

	var parseErr *model.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "ninety%", parseErr.Value)
}

func floatPtr(f float64) *float64 {
	return &f
}
