package analyser

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/model"
)

// NormalizePrice turns "$1,234.50" into 1234.5. Anything left over after
// removing the currency symbol and thousands separators must be a number.
func NormalizePrice(v model.RawValue) (*float64, error) {
	if v.IsMissing() {
		return nil, nil
	}
	if f, ok := v.AsNumber(); ok {
		return &f, nil
	}

	text, _ := v.AsText()
	s := strings.TrimSpace(text)
	s = strings.TrimLeftFunc(s, func(r rune) bool { return unicode.Is(unicode.Sc, r) })
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, &model.ParseError{Field: "price", Value: text, Err: err}
	}
	f, _ := d.Float64()
	return &f, nil
}

// Join attaches qualifying listing attributes to every calendar row. Rows of
// other listings are kept with no listing attached.
func Join(calendar []model.CalendarRecord, qualifying map[string]model.QualifyingListing) ([]model.JoinedRow, error) {
	out := make([]model.JoinedRow, 0, len(calendar))
	for _, c := range calendar {
		price, err := NormalizePrice(c.Price)
		if err != nil {
			return nil, err
		}
		row := model.JoinedRow{
			ListingID: c.ListingID,
			Date:      c.Date,
			Available: c.Available,
			Price:     price,
		}
		if l, ok := qualifying[c.ListingID]; ok {
			l := l
			row.Listing = &l
		}
		out = append(out, row)
	}
	return out, nil
}
