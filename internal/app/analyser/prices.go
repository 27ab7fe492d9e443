package analyser

import (
	"cloud.google.com/go/civil"
	"github.com/montanaflynn/stats"
	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/model"
)

// AggregatePrices computes price statistics over the available rows of each
// date. Missing prices are skipped; a date with no priced row gets no price
// values but still sums accommodates.
func AggregatePrices(rows []model.JoinedRow) map[civil.Date]model.PriceStats {
	available := filter(rows, func(r model.JoinedRow) bool { return r.Available })
	_, groups := groupBy(available, func(r model.JoinedRow) civil.Date { return r.Date })

	out := make(map[civil.Date]model.PriceStats, len(groups))
	for d, g := range groups {
		out[d] = priceStats(g)
	}
	return out
}

// TwoPass runs AggregatePrices once over all available rows and again over
// the available rows priced at or above that first pass's mean of the same
// date. Only the second pass ends up in the monthly summary.
func TwoPass(rows []model.JoinedRow) (pass1, pass2 map[civil.Date]model.PriceStats) {
	pass1 = AggregatePrices(rows)
	aboveMean := filter(rows, func(r model.JoinedRow) bool {
		if !r.Available || r.Price == nil {
			return false
		}
		p1, ok := pass1[r.Date]
		if !ok || p1.MeanPrice == nil {
			return false
		}
		return *r.Price >= *p1.MeanPrice
	})
	return pass1, AggregatePrices(aboveMean)
}

func priceStats(rows []model.JoinedRow) model.PriceStats {
	var prices stats.Float64Data
	accommodates := 0
	for _, r := range rows {
		if r.Price != nil {
			prices = append(prices, *r.Price)
		}
		if a := r.Accommodates(); a != nil {
			accommodates += *a
		}
	}

	ps := model.PriceStats{TotalAccommodates: &accommodates}
	if len(prices) == 0 {
		return ps
	}

	lo, _ := prices.Min()
	hi, _ := prices.Max()
	mean, _ := prices.Mean()
	ps.MinPrice, ps.MaxPrice, ps.MeanPrice = &lo, &hi, &mean

	// sample deviation is undefined below two values
	if len(prices) > 1 {
		std, _ := prices.StandardDeviationSample()
		ps.StdPrice = &std
	}
	return ps
}
