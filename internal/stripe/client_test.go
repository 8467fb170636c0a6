// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

package stripe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"stripeql/cli/internal/errors"
)

func newTestClient(srv *httptest.Server) *Client {
	c := NewClient("sk_test_key", srv.URL+"/v1/")
	c.retryInterval = time.Millisecond
	return c
}

func TestFetchSuccess(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test_key" {
			t.Errorf("Authorization = %q, want bearer key", got)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q, want application/json", got)
		}
		w.Write([]byte(`{"object":"list","data":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	body, err := c.Fetch(context.Background(), srv.URL+"/v1/charges")
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if string(body) != `{"object":"list","data":[]}` {
		t.Errorf("body = %s", body)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestFetchRetriesTransient(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	body, err := c.Fetch(context.Background(), srv.URL+"/v1/charges")
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Errorf("body = %s", body)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestFetchRetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.Fetch(context.Background(), srv.URL+"/v1/charges")
	if err == nil {
		t.Fatal("Fetch() did not fail")
	}
	if !IsStatus(err, http.StatusServiceUnavailable) {
		t.Errorf("error = %v, want status 503", err)
	}
	if calls.Load() != 1+maxRetries {
		t.Errorf("calls = %d, want %d", calls.Load(), 1+maxRetries)
	}
}

func TestFetchClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"Unknown parameter: frob"}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.Fetch(context.Background(), srv.URL+"/v1/charges")
	if err == nil {
		t.Fatal("Fetch() did not fail")
	}
	if !IsStatus(err, http.StatusBadRequest) {
		t.Errorf("error = %v, want status 400", err)
	}
	if !strings.Contains(err.Error(), "Unknown parameter: frob") {
		t.Errorf("error %q does not carry the upstream message", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestGetAccountCaches(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/v1/account" {
			t.Errorf("path = %q, want /v1/account", r.URL.Path)
		}
		w.Write([]byte(`{"id":"acct_1","email":"ops@example.com","country":"US","default_currency":"usd","livemode":false,"charges_enabled":true}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	for i := 0; i < 2; i++ {
		account, err := c.GetAccount(context.Background())
		if err != nil {
			t.Fatalf("GetAccount() error: %v", err)
		}
		if account.ID != "acct_1" || account.Email != "ops@example.com" || !account.ChargesEnabled {
			t.Errorf("account = %+v", account)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestGetAccountStaleFallback(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"id":"acct_1","email":"ops@example.com"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	if _, err := c.GetAccount(context.Background()); err != nil {
		t.Fatalf("GetAccount() error: %v", err)
	}

	// Expire the cache, then break the endpoint. The stale copy should
	// still be served.
	c.accountCache.fetched = time.Now().Add(-time.Hour)
	fail.Store(true)

	account, err := c.GetAccount(context.Background())
	if err != nil {
		t.Fatalf("GetAccount() after outage error: %v", err)
	}
	if account.ID != "acct_1" {
		t.Errorf("account = %+v, want cached acct_1", account)
	}
}

func TestGetAccountUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"Invalid API Key provided"}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.GetAccount(context.Background())
	if err == nil {
		t.Fatal("GetAccount() did not fail")
	}
	if !errors.IsKind(err, errors.Auth) {
		t.Errorf("error kind = %v, want Auth", errors.KindOf(err))
	}
}

func TestResolveAPIKeyPrecedence(t *testing.T) {
	t.Setenv(EnvAPIKey, "sk_test_env")

	key, err := ResolveAPIKey("sk_test_flag")
	if err != nil {
		t.Fatalf("ResolveAPIKey() error: %v", err)
	}
	if key != "sk_test_flag" {
		t.Errorf("key = %q, want the override", key)
	}

	key, err = ResolveAPIKey("")
	if err != nil {
		t.Fatalf("ResolveAPIKey() error: %v", err)
	}
	if key != "sk_test_env" {
		t.Errorf("key = %q, want the environment value", key)
	}
}
