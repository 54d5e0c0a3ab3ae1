package ntvmr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vmr2tei/core/errors"
)

const sampleApparatus = `<apparatus><segment verse="Acts.1.1"/></apparatus>`

func newTestServer(t *testing.T, hits *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		q := r.URL.Query()
		if q.Get("indexContent") == "" {
			http.Error(w, "missing index", http.StatusBadRequest)
			return
		}
		if q.Get("format") != "xml" || q.Get("positiveConversion") != "true" || q.Get("buildA") != "false" {
			http.Error(w, "bad query", http.StatusBadRequest)
			return
		}
		w.Write([]byte(sampleApparatus))
	}))
}

func TestApparatusURL(t *testing.T) {
	c := NewClient()
	u := c.ApparatusURL("Acts.2.45")
	if !strings.HasPrefix(u, DefaultBaseURL+"?") {
		t.Errorf("URL %q should extend the default base", u)
	}
	for _, want := range []string{
		"indexContent=Acts.2.45", "positiveConversion=true", "buildA=false", "format=xml",
	} {
		if !strings.Contains(u, want) {
			t.Errorf("URL missing %q: %s", want, u)
		}
	}
}

func TestFetchApparatus(t *testing.T) {
	var hits int
	srv := newTestServer(t, &hits)
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL + "/"))
	body, err := c.FetchApparatus(context.Background(), "Acts.1.1")
	if err != nil {
		t.Fatalf("FetchApparatus failed: %v", err)
	}
	if string(body) != sampleApparatus {
		t.Errorf("body = %q", body)
	}
	if hits != 1 {
		t.Errorf("hits = %d, want 1", hits)
	}
}

func TestFetchApparatusHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL + "/"))
	_, err := c.FetchApparatus(context.Background(), "Acts.1.1")
	if err == nil {
		t.Fatal("FetchApparatus should fail on 404")
	}
	var httpErr *errors.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("error type = %T, want HTTPError", err)
	}
	if httpErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", httpErr.StatusCode)
	}
}

func TestFetchApparatusUsesCache(t *testing.T) {
	var hits int
	srv := newTestServer(t, &hits)
	defer srv.Close()

	cache, err := OpenCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("OpenCache failed: %v", err)
	}
	defer cache.Close()

	c := NewClient(WithBaseURL(srv.URL+"/"), WithCache(cache))
	for i := 0; i < 3; i++ {
		body, err := c.FetchApparatus(context.Background(), "Acts.1.1")
		if err != nil {
			t.Fatalf("fetch %d failed: %v", i, err)
		}
		if string(body) != sampleApparatus {
			t.Errorf("fetch %d body = %q", i, body)
		}
	}
	if hits != 1 {
		t.Errorf("hits = %d, want 1 (later fetches should be cached)", hits)
	}
}

func TestFetchApparatusStaleCacheRefetches(t *testing.T) {
	var hits int
	srv := newTestServer(t, &hits)
	defer srv.Close()

	// Zero TTL: every entry is immediately stale.
	cache, err := OpenCache(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("OpenCache failed: %v", err)
	}
	defer cache.Close()

	c := NewClient(WithBaseURL(srv.URL+"/"), WithCache(cache))
	for i := 0; i < 2; i++ {
		if _, err := c.FetchApparatus(context.Background(), "Acts.1.1"); err != nil {
			t.Fatalf("fetch %d failed: %v", i, err)
		}
	}
	if hits != 2 {
		t.Errorf("hits = %d, want 2 (stale entries must refetch)", hits)
	}
}

func TestFetchApparatusOffline(t *testing.T) {
	var hits int
	srv := newTestServer(t, &hits)
	defer srv.Close()

	dir := t.TempDir()
	cache, err := OpenCache(dir, 0)
	if err != nil {
		t.Fatalf("OpenCache failed: %v", err)
	}
	defer cache.Close()

	// Prime the cache online, with a TTL that makes the entry stale at once.
	online := NewClient(WithBaseURL(srv.URL+"/"), WithCache(cache))
	if _, err := online.FetchApparatus(context.Background(), "Acts.1.1"); err != nil {
		t.Fatalf("priming fetch failed: %v", err)
	}

	// Offline accepts the stale entry and never hits the network.
	offline := NewClient(WithBaseURL(srv.URL+"/"), WithCache(cache), WithOffline(true))
	body, err := offline.FetchApparatus(context.Background(), "Acts.1.1")
	if err != nil {
		t.Fatalf("offline fetch failed: %v", err)
	}
	if string(body) != sampleApparatus {
		t.Errorf("offline body = %q", body)
	}
	if hits != 1 {
		t.Errorf("hits = %d, want 1 (offline must not touch the network)", hits)
	}

	// An uncached index is fatal offline.
	if _, err := offline.FetchApparatus(context.Background(), "Acts.9.9"); !errors.Is(err, errors.ErrCacheMiss) {
		t.Errorf("offline miss error = %v, want ErrCacheMiss", err)
	}
}
