package analyser

import (
	"strconv"
	"strings"

	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/model"
)

const qualifyingRate = 0.85

// NormalizePercent maps "95%" to 0.95 and leaves fractional values as they are.
func NormalizePercent(field string, v model.RawValue) (*float64, error) {
	if v.IsMissing() {
		return nil, nil
	}
	if f, ok := v.AsNumber(); ok {
		return &f, nil
	}

	text, _ := v.AsText()
	s := strings.TrimSpace(text)
	percent := strings.HasSuffix(s, "%")
	if percent {
		s = strings.TrimSpace(strings.Trim(s, "%"))
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, &model.ParseError{Field: field, Value: text, Err: err}
	}
	if percent {
		f /= 100
	}
	return &f, nil
}

// Qualify keeps listings whose host response rate and review score are both
// known and at least 85%. The first row of a repeated id wins.
func Qualify(listings []model.ListingRecord) (map[string]model.QualifyingListing, error) {
	out := make(map[string]model.QualifyingListing, len(listings))
	for _, l := range listings {
		responseRate, err := NormalizePercent("host_response_rate", l.HostResponseRate)
		if err != nil {
			return nil, err
		}
		reviewRating, err := NormalizePercent("review_scores_rating", l.ReviewScoresRating)
		if err != nil {
			return nil, err
		}
		if responseRate == nil || reviewRating == nil {
			continue
		}
		if *responseRate < qualifyingRate || *reviewRating < qualifyingRate {
			continue
		}
		if _, ok := out[l.ID]; ok {
			continue
		}
		out[l.ID] = model.QualifyingListing{
			ID:                 l.ID,
			Accommodates:       l.Accommodates,
			HostResponseRate:   *responseRate,
			ReviewScoresRating: *reviewRating,
		}
	}
	return out, nil
}
