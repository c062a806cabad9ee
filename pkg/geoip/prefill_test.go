package geoip

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/goliatone/go-estimate/pkg/form"
)

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestPrefill_CacheHitPatchesWithoutNetwork(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer srv.Close()

	store := NewMemoryStore()
	if err := store.Store(DefaultCacheKey, []byte(`{"country_name":"Italy","city":"Rome","postal":"00100","org":"Acme"}`)); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	c := New(WithEndpoint(srv.URL), WithStore(store), WithLogger(discardLogger()))
	e := form.NewEstimate()
	defer e.Close()

	if err := c.Prefill(context.Background(), e); err != nil {
		t.Fatalf("prefill: %v", err)
	}

	sub := e.Submission()
	if sub.CompanyName != "Acme" || sub.CountryName != "Italy" || sub.City != "Rome" || sub.ZipCode != "00100" {
		t.Fatalf("cache hit not applied: %+v", sub)
	}
	if requests.Load() != 0 {
		t.Fatalf("cache hit must issue zero outbound requests, got %d", requests.Load())
	}
}

func TestPrefill_CacheMissFetchesStoresAndPatches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"country_name":"France","city":"Paris","postal":"75001","org":"Globex"}`))
	}))
	defer srv.Close()

	store := NewMemoryStore()
	c := New(WithEndpoint(srv.URL), WithStore(store), WithLogger(discardLogger()))
	e := form.NewEstimate()
	defer e.Close()

	if err := c.Prefill(context.Background(), e); err != nil {
		t.Fatalf("prefill: %v", err)
	}

	sub := e.Submission()
	if sub.CountryName != "France" || sub.City != "Paris" || sub.ZipCode != "75001" {
		t.Fatalf("fresh lookup not applied: %+v", sub)
	}
	// In cached mode a fresh lookup never fills the company name.
	if sub.CompanyName != "" {
		t.Fatalf("company name must stay untouched in cached mode, got %q", sub.CompanyName)
	}

	raw, ok := store.Retrieve(DefaultCacheKey)
	if !ok {
		t.Fatalf("successful lookup must populate the cache")
	}
	if string(raw) != `{"country_name":"France","city":"Paris","postal":"75001","org":"Globex"}` {
		t.Fatalf("cache must hold the body verbatim, got %s", raw)
	}
}

func TestPrefill_ResponseModePatchesOrg(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"country_name":"France","city":"Paris","postal":"75001","org":"Globex"}`))
	}))
	defer srv.Close()

	c := New(WithEndpoint(srv.URL), WithOrgPrefill(OrgPrefillResponse), WithLogger(discardLogger()))
	e := form.NewEstimate()
	defer e.Close()

	if err := c.Prefill(context.Background(), e); err != nil {
		t.Fatalf("prefill: %v", err)
	}
	if got := e.Submission().CompanyName; got != "Globex" {
		t.Fatalf("response mode should patch company name, got %q", got)
	}
}

func TestPrefill_FailurePatchesSentinelAndCachesNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	store := NewMemoryStore()
	c := New(WithEndpoint(srv.URL), WithStore(store), WithLogger(discardLogger()))
	e := form.NewEstimate()
	defer e.Close()

	company := "Prefilled Co"
	e.Patch(form.FieldPatch{CompanyName: &company})

	err := c.Prefill(context.Background(), e)
	if err == nil {
		t.Fatalf("expected lookup failure")
	}

	sub := e.Submission()
	if sub.CountryName != "N/A" || sub.City != "N/A" || sub.ZipCode != "N/A" {
		t.Fatalf("sentinels not applied: %+v", sub)
	}
	if sub.CompanyName != "Prefilled Co" {
		t.Fatalf("company name must survive a failed lookup, got %q", sub.CompanyName)
	}
	if _, ok := store.Retrieve(DefaultCacheKey); ok {
		t.Fatalf("failed lookup must not populate the cache")
	}
}

func TestPrefill_CorruptCacheFallsThroughToFetch(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		_, _ = w.Write([]byte(`{"country_name":"France","city":"Paris","postal":"75001","org":"Globex"}`))
	}))
	defer srv.Close()

	store := NewMemoryStore()
	_ = store.Store(DefaultCacheKey, []byte("{corrupt"))

	c := New(WithEndpoint(srv.URL), WithStore(store), WithLogger(discardLogger()))
	e := form.NewEstimate()
	defer e.Close()

	if err := c.Prefill(context.Background(), e); err != nil {
		t.Fatalf("prefill: %v", err)
	}
	if requests.Load() != 1 {
		t.Fatalf("corrupt cache should trigger one fetch, got %d", requests.Load())
	}
	if got := e.Submission().CountryName; got != "France" {
		t.Fatalf("fresh data not applied after corrupt cache: %q", got)
	}
}

func TestPrefill_NilTarget(t *testing.T) {
	c := New(WithLogger(discardLogger()))
	if err := c.Prefill(context.Background(), nil); err != nil {
		t.Fatalf("nil target should be a no-op, got %v", err)
	}
}
