// Package genimage is the HTTP client for the generative image service.
//
// The service takes a source image URL plus an optional prompt and aspect
// ratio, and returns the URL of a newly generated expansion. The client
// validates inputs locally, authenticates with a bearer API key, and
// retries transient failures with exponential backoff. Cancelling the
// request context aborts the call cleanly.
package genimage
