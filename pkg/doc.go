// Package pkg provides the libraries behind coinmap, a market cap treemap of
// cryptocurrency categories.
//
// # Overview
//
// coinmap draws one rectangle per coin category: area by market cap, green
// or red by the 24h market cap change, with the category's top coins shown
// on hover. The pkg directory is organized into these areas:
//
//  1. [category] - The category record and payload decoding
//  2. [integrations] - The CoinGecko client on a shared cached HTTP client
//  3. [treemap] - Visual tree construction and squarified layout
//  4. [widget] - The chart widget, its tooltip and the page shell
//  5. [render/sink] - SVG, HTML, PNG and JSON canvases
//  6. [cache], [errors], [observability] - Supporting infrastructure
//
// # Architecture
//
// The data flow for one fetch:
//
//	CoinGecko /coins/categories
//	         ↓
//	    [integrations/coingecko] (fetch, cache, decode)
//	         ↓
//	    [category] (normalize)
//	         ↓
//	    [treemap] (build root + leaves, squarify with padding)
//	         ↓
//	    [widget] (draw rectangles and labels on a Canvas)
//	         ↓
//	    SVG/HTML/PNG/JSON output, HTTP server or terminal UI
//
// # Quick Start
//
//	client := coingecko.NewClient(cache.NewNullCache(), coingecko.Options{APIKey: key})
//	canvas := sink.NewSVGCanvas(960, 600)
//	chart := widget.New(client, canvas, widget.DefaultOptions())
//	if err := chart.Mount(ctx); err != nil {
//	    // canvas now holds the error state
//	}
//	svg, _ := canvas.Bytes()
//
// [category]: https://pkg.go.dev/github.com/matzehuels/coinmap/pkg/category
// [integrations]: https://pkg.go.dev/github.com/matzehuels/coinmap/pkg/integrations
// [integrations/coingecko]: https://pkg.go.dev/github.com/matzehuels/coinmap/pkg/integrations/coingecko
// [treemap]: https://pkg.go.dev/github.com/matzehuels/coinmap/pkg/treemap
// [widget]: https://pkg.go.dev/github.com/matzehuels/coinmap/pkg/widget
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/coinmap/pkg/render/sink
// [cache]: https://pkg.go.dev/github.com/matzehuels/coinmap/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/coinmap/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/coinmap/pkg/observability
package pkg
