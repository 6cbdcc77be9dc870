// Package integrations provides HTTP clients for the market data APIs that
// feed the treemap.
//
// # Overview
//
// The [Client] type is the shared plumbing; each API has its own subpackage:
//
//   - [coingecko]: CoinGecko coin categories
//
// # Client Pattern
//
// API clients embed [Client] and expose typed fetch methods:
//
//	client := coingecko.NewClient(backend, coingecko.Options{APIKey: key})
//	cats, err := client.FetchCategories(ctx, false) // false = use cache
//
// [Client] handles:
//   - Default headers (API keys, accept)
//   - Status mapping to [ErrNotFound], [ErrUnauthorized], [ErrRateLimited], [ErrNetwork]
//   - Response caching through [cache.Cache], msgpack-encoded
//   - Optional retries through [httputil.Retry] (off by default)
//   - Observability hooks for every request and cache lookup
//
// [coingecko]: github.com/matzehuels/coinmap/pkg/integrations/coingecko
package integrations
