// Package httputil provides retry support for outbound API calls.
//
// [Retry] re-runs an operation only when it fails with a [RetryableError]:
// network errors and 5xx responses are wrapped that way by the integrations
// client, while 4xx responses and decode failures are returned at once.
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return client.Get(ctx, url, &out)
//	})
//
// coinmap runs with a single attempt by default, so a failed fetch surfaces
// immediately as the chart's error state. Set retry_attempts in the config
// file to opt in to retries.
package httputil
