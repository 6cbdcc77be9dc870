// Package coingecko provides a client for the CoinGecko categories API.
//
// The only endpoint used is:
//
//	GET {base}/coins/categories
//
// which returns every coin category with market cap, 24h change, volume and
// the image URLs of the three largest coins. The request carries
// "x-cg-demo-api-key" (or "x-cg-pro-api-key" with [Options.Pro]) when a key
// is configured. No key is ever compiled in.
//
// # Usage
//
//	client := coingecko.NewClient(backend, coingecko.Options{APIKey: key})
//	cats, err := client.FetchCategories(ctx, false)
//
// Responses are cached for [DefaultCacheTTL]. There is no pagination and no
// query parameters.
package coingecko
