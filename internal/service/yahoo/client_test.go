package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSearchEmptyQuotesYieldsEmptySlice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quotes":[]}`))
	}))
	defer srv.Close()
	c := New(srv.URL, 5*time.Second)

	got, err := c.Search(context.Background(), "nothing")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestSearchMapsQuotes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua == "" || ua == "Go-http-client/1.1" {
			t.Errorf("browser user agent not set, got %q", ua)
		}
		w.Write([]byte(`{"quotes":[
			{"symbol":"AAPL","shortname":"Apple Inc."},
			{"symbol":"APLE","longname":"Apple Hospitality REIT"},
			{"symbol":"BARE"},
			{"shortname":"no symbol, dropped"}
		]}`))
	}))
	defer srv.Close()
	c := New(srv.URL, 5*time.Second)

	got, err := c.Search(context.Background(), "apple")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 suggestions, got %d: %#v", len(got), got)
	}
	if got[0].Symbol != "AAPL" || got[0].Name != "Apple Inc." {
		t.Fatalf("shortname not used: %+v", got[0])
	}
	if got[1].Name != "Apple Hospitality REIT" {
		t.Fatalf("longname fallback not used: %+v", got[1])
	}
	if got[2].Name != "BARE" {
		t.Fatalf("symbol fallback not used: %+v", got[2])
	}
}

func TestSearchUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()
	c := New(srv.URL, 5*time.Second)

	if _, err := c.Search(context.Background(), "apple"); err == nil {
		t.Fatalf("expected error for non-2xx response")
	}
}
