// Package httputil provides shared HTTP infrastructure for Easel's remote
// clients.
//
// # Overview
//
// Two concerns live here:
//
//   - [Client]: a thin HTTP client with default headers, sentinel error
//     classification, and automatic retries. Used by the generation-service
//     client and the image-cache fetcher.
//   - [Retry]: automatic retry with exponential backoff for transient
//     failures (network errors, 5xx responses).
//
// # Error Classification
//
// Responses are mapped onto sentinel errors so callers can branch without
// inspecting status codes:
//
//   - 404 → [ErrNotFound]
//   - 5xx and transport failures → [ErrNetwork], wrapped as retryable
//   - other non-200 → [ErrNetwork], not retried
//
// # Retry
//
// Only errors wrapped in [RetryableError] trigger retries. The delay doubles
// after each failed attempt and the context is honored between attempts:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return fetchOnce()
//	})
package httputil
