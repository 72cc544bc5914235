package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/five82/ebs/internal/state"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != DefaultAPIURL {
		t.Fatalf("url = %q, want %q", u.String(), DefaultAPIURL)
	}

	u, err = parseBaseURL("example.com:1234")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Host != "example.com:1234" {
		t.Fatalf("url = %q, want http://example.com:1234", u.String())
	}

	u, err = parseBaseURL("http://example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestClient_FetchesEndpointsAndEncodesQueries(t *testing.T) {
	t.Parallel()

	var (
		mu           sync.Mutex
		gotListQuery url.Values
		gotQuery     url.Values
		gotUserAgent string
		gotRequestID []string
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotUserAgent = r.Header.Get("User-Agent")
		gotRequestID = append(gotRequestID, r.Header.Get(requestIDHeader))
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case PreviousSearchesPath:
			mu.Lock()
			gotListQuery = r.URL.Query()
			mu.Unlock()
			_ = json.NewEncoder(w).Encode(SearchListResponse{PreviousSearches: []PreviousSearch{
				{Query: "Mock", TotalResults: 1, Kind: KindBeer},
				{Query: "Mack", TotalResults: 1, Kind: KindBrewery},
			}})
		case SearchPath:
			mu.Lock()
			gotQuery = r.URL.Query()
			mu.Unlock()
			_ = json.NewEncoder(w).Encode(SearchResponse{Beers: []Beer{{Name: "Beer", Brewery: "Mock"}}})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	health := &state.Store{}
	c, err := NewClient(server.URL, WithPreviousSearchLimit(12), WithHealth(health))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	searches, err := c.FetchPreviousSearches(ctx)
	if err != nil {
		t.Fatalf("FetchPreviousSearches returned error: %v", err)
	}
	if len(searches) != 2 || searches[1].Kind != KindBrewery {
		t.Fatalf("FetchPreviousSearches = %#v, want Mock/Mack", searches)
	}

	beers, err := c.Search(ctx, "hazy ipa", KindBrewery)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(beers) != 1 || beers[0].Name != "Beer" {
		t.Fatalf("Search = %#v, want one beer", beers)
	}

	mu.Lock()
	defer mu.Unlock()
	if gotListQuery.Get("message_limit") != "12" {
		t.Fatalf("message_limit = %q, want 12", gotListQuery.Get("message_limit"))
	}
	if gotQuery.Get("search") != "hazy ipa" || gotQuery.Get("search_type") != "brewery" {
		t.Fatalf("search query = %v, want search and search_type encoded", gotQuery)
	}
	if !strings.HasPrefix(gotUserAgent, "ebs/") {
		t.Fatalf("User-Agent = %q, want ebs/*", gotUserAgent)
	}
	if len(gotRequestID) != 2 || gotRequestID[0] == gotRequestID[1] {
		t.Fatalf("request ids = %v, want two distinct ids", gotRequestID)
	}
	for _, id := range gotRequestID {
		if _, err := uuid.Parse(id); err != nil {
			t.Fatalf("request id %q is not a uuid: %v", id, err)
		}
	}

	snap := health.Snapshot()
	if snap.Requests != 2 || snap.Failures != 0 {
		t.Fatalf("health = %#v, want 2 requests and no failures", snap)
	}
}

func TestClient_HTTPErrorAndDecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PreviousSearchesPath:
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{not-json"))
		case SearchPath:
			http.Error(w, "nope", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	health := &state.Store{}
	c, err := NewClient(server.URL, WithHealth(health))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.FetchPreviousSearches(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("FetchPreviousSearches error = %v, want decode response error", err)
	}

	_, err = c.Search(context.Background(), "x", KindBeer)
	if err == nil || !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("Search error = %v, want status 500 error", err)
	}

	if snap := health.Snapshot(); !snap.IsOffline() {
		t.Fatalf("health = %#v, want offline after two failures", snap)
	}
}

func TestClient_NilReceiver(t *testing.T) {
	var c *Client
	if _, err := c.FetchPreviousSearches(context.Background()); err == nil {
		t.Fatalf("FetchPreviousSearches on nil client returned nil error")
	}
	if _, err := c.Search(context.Background(), "x", KindBeer); err == nil {
		t.Fatalf("Search on nil client returned nil error")
	}
}
