// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers for downloading reference tables.
package httputil

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"
)

// RetryBaseDelay is the first backoff after a throttled response. Tests
// override it to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// MaxRetryDelay caps both the computed backoff and any Retry-After value.
var MaxRetryDelay = 2 * time.Minute

const defaultMaxRetries = 5

// retryable reports whether a status code is worth retrying: throttling and
// transient gateway failures from the raw-content CDN.
func retryable(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// DoWithRetry sends req and retries throttled or transient responses with
// exponential backoff starting at RetryBaseDelay. A Retry-After header in
// seconds takes precedence over the computed delay.
//
// maxRetries <= 0 selects the default (5). After the last retry the final
// response is returned unchanged so the caller can inspect its status.
// Cancelling ctx during a wait returns ctx.Err().
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if !retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		wait := backoff(attempt, resp.Header.Get("Retry-After"))
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func backoff(attempt int, retryAfter string) time.Duration {
	if secs, err := strconv.Atoi(retryAfter); err == nil && secs >= 0 {
		return min(time.Duration(secs)*time.Second, MaxRetryDelay)
	}
	d := RetryBaseDelay << attempt
	if d <= 0 || d > MaxRetryDelay {
		return MaxRetryDelay
	}
	return d
}
