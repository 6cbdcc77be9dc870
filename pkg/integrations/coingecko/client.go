package coingecko

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/matzehuels/coinmap/pkg/buildinfo"
	"github.com/matzehuels/coinmap/pkg/cache"
	"github.com/matzehuels/coinmap/pkg/category"
	"github.com/matzehuels/coinmap/pkg/errors"
	"github.com/matzehuels/coinmap/pkg/integrations"
)

const (
	// DefaultBaseURL is the public (demo plan) API root.
	DefaultBaseURL = "https://api.coingecko.com/api/v3"

	// ProBaseURL is the paid plan API root.
	ProBaseURL = "https://pro-api.coingecko.com/api/v3"

	// DefaultCacheTTL is how long category payloads are reused.
	DefaultCacheTTL = 5 * time.Minute

	demoKeyHeader = "x-cg-demo-api-key"
	proKeyHeader  = "x-cg-pro-api-key"
	categoriesKey = "categories"
)

// Options configures a [Client].
type Options struct {
	// APIKey is sent in the plan's key header. Empty sends no key header;
	// there is no built-in default key.
	APIKey string
	// Pro selects the paid plan base URL and key header.
	Pro bool
	// BaseURL overrides the API root (tests, proxies).
	BaseURL string
	// CacheTTL defaults to [DefaultCacheTTL].
	CacheTTL time.Duration
	// RetryAttempts defaults to 1 (no retries).
	RetryAttempts int
}

// Client fetches coin categories from the CoinGecko API.
// It is safe for concurrent use.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a CoinGecko client backed by c (nil disables caching).
func NewClient(c cache.Cache, opts Options) *Client {
	headers := map[string]string{
		"accept":     "application/json",
		"user-agent": buildinfo.UserAgent(),
	}
	keyHeader := demoKeyHeader
	baseURL := DefaultBaseURL
	if opts.Pro {
		keyHeader = proKeyHeader
		baseURL = ProBaseURL
	}
	if opts.APIKey != "" {
		headers[keyHeader] = opts.APIKey
	}
	if opts.BaseURL != "" {
		baseURL = opts.BaseURL
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	ic := integrations.NewClient(c, "coingecko", ttl, headers)
	ic.SetRetry(opts.RetryAttempts, time.Second)
	return &Client{Client: ic, baseURL: baseURL}
}

// BaseURL returns the API root in use.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchCategories retrieves every coin category in a single request.
//
// If refresh is true the cache is bypassed. Records are decoded with
// absent numeric fields as zero and then passed through
// [category.Normalize], so the result is ready for layout.
//
// Failures are returned as coded [errors.Error] values wrapping the
// integrations sentinel errors:
//   - [errors.ErrCodeUnauthorized] for a rejected API key
//   - [errors.ErrCodeRateLimited] when the plan's rate limit is hit
//   - [errors.ErrCodeDecode] for a payload that is not a category array
//   - [errors.ErrCodeNetwork] for transport failures and 5xx responses
func (c *Client) FetchCategories(ctx context.Context, refresh bool) ([]category.Category, error) {
	var cats []category.Category
	err := c.Cached(ctx, categoriesKey, refresh, &cats, func() error {
		data, err := c.GetRaw(ctx, c.baseURL+"/coins/categories", nil)
		if err != nil {
			return err
		}
		decoded, err := category.Unmarshal(data)
		if err != nil {
			return stderrors.Join(integrations.ErrDecode, err)
		}
		cats = decoded
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}
	return category.Normalize(cats), nil
}

func classify(err error) error {
	switch {
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return err
	case stderrors.Is(err, integrations.ErrUnauthorized):
		return errors.Wrap(errors.ErrCodeUnauthorized, err, "CoinGecko rejected the API key")
	case stderrors.Is(err, integrations.ErrRateLimited):
		return errors.Wrap(errors.ErrCodeRateLimited, err, "CoinGecko rate limit reached")
	case stderrors.Is(err, integrations.ErrDecode):
		return errors.Wrap(errors.ErrCodeDecode, err, "CoinGecko returned an unreadable category list")
	case stderrors.Is(err, integrations.ErrNotFound):
		return errors.Wrap(errors.ErrCodeNotFound, err, "CoinGecko categories endpoint not found")
	default:
		return errors.Wrap(errors.ErrCodeNetwork, err, "could not reach CoinGecko")
	}
}
