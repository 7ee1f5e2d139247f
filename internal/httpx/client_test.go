package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	apierr "github.com/injhive/injhive/internal/errors"
)

func TestGetJSONDecodesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("ids"); got != "injective-protocol" {
			t.Errorf("query ids = %q", got)
		}
		if got := r.Header.Get("x-cg-pro-api-key"); got != "secret" {
			t.Errorf("api key header = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"injective-protocol":{"usd":13.16}}`))
	}))
	defer srv.Close()

	c := New(0, 0)
	var out map[string]map[string]float64
	q := url.Values{"ids": {"injective-protocol"}}
	h := map[string]string{"x-cg-pro-api-key": "secret"}
	if err := c.GetJSON(context.Background(), srv.URL, "/simple/price", q, h, &out); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if out["injective-protocol"]["usd"] != 13.16 {
		t.Fatalf("decoded %v", out)
	}
}

func TestRetriesServerErrorsThenSucceeds(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New(0, 3)
	var out map[string]bool
	if err := c.GetJSON(context.Background(), srv.URL, "/", nil, nil, &out); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		code   apierr.Code
	}{
		{http.StatusNotFound, apierr.CodeDataNotAvailable},
		{http.StatusUnauthorized, apierr.CodeAuth},
		{http.StatusForbidden, apierr.CodeAuth},
		{http.StatusTooManyRequests, apierr.CodeRateLimited},
		{http.StatusServiceUnavailable, apierr.CodeAPIError},
		{http.StatusBadRequest, apierr.CodeAPIError},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		c := New(0, 0)
		err := c.GetJSON(context.Background(), srv.URL, "/", nil, nil, nil)
		srv.Close()
		if err == nil {
			t.Fatalf("status %d: expected error", tc.status)
		}
		if got := apierr.CodeOf(err); got != tc.code {
			t.Errorf("status %d: code = %v, want %v", tc.status, got, tc.code)
		}
	}
}

func TestPostJSONReplaysBodyAcrossRetries(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body["denom"] != "inj" {
			t.Errorf("call %d: body = %v err = %v", calls, body, err)
		}
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(0, 2)
	var out map[string]any
	if err := c.PostJSON(context.Background(), srv.URL, "/", map[string]string{"denom": "inj"}, nil, &out); err != nil {
		t.Fatalf("PostJSON: %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}
