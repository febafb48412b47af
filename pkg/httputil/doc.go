// Package httputil provides retry helpers for calls to the distortion
// service.
//
// # Retry
//
// [Retry] re-runs an operation only when it fails with a [RetryableError].
// Wrap transient failures (network errors, 5xx responses) with [Retryable]
// and return everything else as-is:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    ...
//	})
//
// The delay doubles after each failed attempt. A [Policy] bundles attempts
// and delay so they can come from configuration; its zero value makes a
// single attempt with no retry.
package httputil
