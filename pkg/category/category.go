// Package category defines the coin category record that the treemap is
// built from, together with decoding and normalization of API payloads.
package category

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
)

// Category is one coin category as reported by the market data source.
// A fetch replaces the whole set; records are never merged or patched.
type Category struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	MarketCap          float64  `json:"market_cap"`
	MarketCapChange24h float64  `json:"market_cap_change_24h"`
	Content            string   `json:"content"`
	Top3Coins          []string `json:"top_3_coins"`
	Volume24h          float64  `json:"volume_24h"`
	UpdatedAt          string   `json:"updated_at"`

	// MissingChange is set when the source omitted market_cap_change_24h or
	// sent null. Such leaves are filled gray instead of green.
	MissingChange bool `json:"missing_change,omitempty"`
}

// wireCategory mirrors the API shape with pointers so that absent and null
// numeric fields can be told apart from zero.
type wireCategory struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	MarketCap          *float64 `json:"market_cap"`
	MarketCapChange24h *float64 `json:"market_cap_change_24h"`
	Content            *string  `json:"content"`
	Top3Coins          []string `json:"top_3_coins"`
	Volume24h          *float64 `json:"volume_24h"`
	UpdatedAt          *string  `json:"updated_at"`
}

// Decode parses a JSON array of categories. Missing or null numbers become
// zero; the result is not normalized.
func Decode(r io.Reader) ([]Category, error) {
	var wire []wireCategory
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return fromWire(wire), nil
}

// Unmarshal is [Decode] for an in-memory payload.
func Unmarshal(data []byte) ([]Category, error) {
	var wire []wireCategory
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return fromWire(wire), nil
}

// fromWire converts raw API records.
func fromWire(wire []wireCategory) []Category {
	out := make([]Category, len(wire))
	for i, w := range wire {
		c := Category{
			ID:        w.ID,
			Name:      w.Name,
			Top3Coins: w.Top3Coins,
		}
		if w.MarketCap != nil {
			c.MarketCap = *w.MarketCap
		}
		if w.MarketCapChange24h != nil {
			c.MarketCapChange24h = *w.MarketCapChange24h
		} else {
			c.MissingChange = true
		}
		if w.Volume24h != nil {
			c.Volume24h = *w.Volume24h
		}
		if w.Content != nil {
			c.Content = *w.Content
		}
		if w.UpdatedAt != nil {
			c.UpdatedAt = *w.UpdatedAt
		}
		out[i] = c
	}
	return out
}

// Normalize returns a sanitized copy of cats, safe to hand to the layout:
//   - negative, NaN or infinite market caps become 0 (zero-area leaves)
//   - NaN or infinite changes become 0 and are marked as missing
//   - names are trimmed and fall back to the ID
//   - image URLs are trimmed; Top3Coins keeps its length and order
//
// Record order is preserved.
func Normalize(cats []Category) []Category {
	out := make([]Category, len(cats))
	for i, c := range cats {
		if !finite(c.MarketCap) || c.MarketCap < 0 {
			c.MarketCap = 0
		}
		if !finite(c.MarketCapChange24h) {
			c.MarketCapChange24h = 0
			c.MissingChange = true
		}
		if !finite(c.Volume24h) || c.Volume24h < 0 {
			c.Volume24h = 0
		}
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" {
			c.Name = c.ID
		}

		if c.Top3Coins != nil {
			coins := make([]string, len(c.Top3Coins))
			for j, u := range c.Top3Coins {
				coins[j] = strings.TrimSpace(u)
			}
			c.Top3Coins = coins
		}
		out[i] = c
	}
	return out
}

// TotalMarketCap sums the market caps of cats.
func TotalMarketCap(cats []Category) float64 {
	var total float64
	for _, c := range cats {
		if c.MarketCap > 0 {
			total += c.MarketCap
		}
	}
	return total
}

// FormatChange renders a 24h change with two decimals, like the chart label.
func FormatChange(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
