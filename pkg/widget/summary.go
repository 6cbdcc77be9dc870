package widget

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/coinmap/pkg/category"
)

// Summary aggregates the categories behind a chart.
type Summary struct {
	Count          int
	Gainers        int
	Losers         int
	TotalMarketCap float64
	// WeightedChange is the market-cap-weighted mean 24h change over the
	// categories that report one. Zero when none do.
	WeightedChange float64
}

// Summarize computes a [Summary] for cats.
func Summarize(cats []category.Category) Summary {
	s := Summary{Count: len(cats), TotalMarketCap: category.TotalMarketCap(cats)}

	changes := make([]float64, 0, len(cats))
	weights := make([]float64, 0, len(cats))
	for _, c := range cats {
		if c.MissingChange {
			continue
		}
		if c.MarketCapChange24h >= 0 {
			s.Gainers++
		} else {
			s.Losers++
		}
		changes = append(changes, c.MarketCapChange24h)
		weights = append(weights, math.Max(c.MarketCap, 0))
	}
	if len(changes) > 0 {
		if m := stat.Mean(changes, weights); !math.IsNaN(m) {
			s.WeightedChange = m
		}
	}
	return s
}

// Summary returns the aggregate of the chart's current categories.
func (c *Chart) Summary() Summary {
	return Summarize(c.cats)
}
