// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package stripe implements the authenticated HTTP client for the Stripe
// API. It owns bearer authentication, transient-failure retries, and the
// account endpoint used to validate credentials. Page URLs are composed
// by the caller; the client only executes them.
package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"stripeql/cli/internal/logging"
)

// maxRetries bounds how many times a transient failure is retried before
// the request is reported as failed.
const maxRetries = 3

const userAgent = "stripeql-cli"

// StatusError is a non-success HTTP response, carrying the decoded error
// envelope when the body had one.
type StatusError struct {
	StatusCode int
	// Type and Message come from the response's error envelope and may be
	// empty for non-JSON bodies.
	Type    string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upstream status %d", e.StatusCode)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// Client talks to the Stripe API with a fixed secret key. Request state
// is per-call, so a single Client may be shared across goroutines.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client

	retryInterval time.Duration

	accountCache *cachedAccount
}

// NewClient builds a client for the given secret key and API base URL.
func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:        apiKey,
		baseURL:       strings.TrimRight(baseURL, "/"),
		client:        &http.Client{Timeout: 30 * time.Second},
		retryInterval: 500 * time.Millisecond,
		accountCache:  &cachedAccount{},
	}
}

func (c *Client) setStandardHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
}

// Fetch executes one GET and returns the response body. Network failures
// and transient statuses (429 and 5xx) are retried with exponential
// backoff up to maxRetries times; other non-success statuses fail
// immediately with a StatusError.
// This method is thread-safe.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		c.setStandardHeaders(req)

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			statusErr := newStatusError(resp.StatusCode, b)
			if transientStatus(resp.StatusCode) {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}
		body = b
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryInterval
	notify := func(err error, wait time.Duration) {
		logging.Debugf("request failed, retrying in %s: %v", wait, err)
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(backoff.WithMaxRetries(bo, maxRetries), ctx), notify); err != nil {
		return nil, err
	}
	return body, nil
}

func transientStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// newStatusError decodes the Stripe error envelope out of a failed
// response body when present.
func newStatusError(code int, body []byte) *StatusError {
	se := &StatusError{StatusCode: code}
	var envelope struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		se.Type = envelope.Error.Type
		se.Message = envelope.Error.Message
	}
	return se
}
