package giphy

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/pders01/gifr/internal/config"
)

const twoRecords = `{
  "data": [
    {"rating": "g", "title": "ignored", "images": {
      "original_still": {"url": "https://media.example/1_s.gif"},
      "original": {"url": "https://media.example/1.gif", "width": "480"}}},
    {"rating": "pg-13", "images": {
      "original_still": {"url": "https://media.example/2_s.gif"},
      "original": {"url": "https://media.example/2.gif"}}}
  ],
  "pagination": {"total_count": 2},
  "meta": {"status": 200, "msg": "OK"}
}`

func testClient(t *testing.T, endpoint string) *Client {
	t.Helper()
	cfg := config.TestConfig()
	cfg.API.Endpoint = endpoint
	return NewClient(cfg)
}

func TestClient_Search(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)

		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if got := r.URL.Query().Get("q"); got != "banana" {
			t.Errorf("expected q=banana, got %q", got)
		}
		if got := r.URL.Query().Get("api_key"); got != "test-key" {
			t.Errorf("expected api_key=test-key, got %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "10" {
			t.Errorf("expected limit=10, got %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != "gifr-test/1.0" {
			t.Errorf("expected User-Agent gifr-test/1.0, got %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(twoRecords))
	}))
	defer server.Close()

	records, err := testClient(t, server.URL).Search(context.Background(), "banana")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if hits != 1 {
		t.Errorf("expected exactly one request, got %d", hits)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].StillURL() != "https://media.example/1_s.gif" {
		t.Errorf("records[0].StillURL() = %s", records[0].StillURL())
	}
	if records[0].AnimatedURL() != "https://media.example/1.gif" {
		t.Errorf("records[0].AnimatedURL() = %s", records[0].AnimatedURL())
	}
	if records[1].Rating != "pg-13" {
		t.Errorf("records[1].Rating = %s", records[1].Rating)
	}
}

func TestClient_SearchEscapesQuery(t *testing.T) {
	var rawQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		if got := r.URL.Query().Get("q"); got != "rock & roll?" {
			t.Errorf("decoded q = %q, want %q", got, "rock & roll?")
		}
		w.Write([]byte(`{"data": []}`))
	}))
	defer server.Close()

	records, err := testClient(t, server.URL).Search(context.Background(), "rock & roll?")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
	if !strings.Contains(rawQuery, "q=rock+%26+roll%3F") {
		t.Errorf("query not percent-encoded: %s", rawQuery)
	}
}

func TestClient_SearchErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			check: func(t *testing.T, err error) {
				var httpErr *HTTPError
				if !errors.As(err, &httpErr) || httpErr.StatusCode != 500 {
					t.Errorf("expected HTTPError 500, got %v", err)
				}
			},
		},
		{
			name: "forbidden with meta message",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"meta": {"status": 403, "msg": "Invalid authentication credentials"}}`))
			},
			check: func(t *testing.T, err error) {
				var httpErr *HTTPError
				if !errors.As(err, &httpErr) {
					t.Fatalf("expected HTTPError, got %v", err)
				}
				if httpErr.Message != "Invalid authentication credentials" {
					t.Errorf("Message = %q", httpErr.Message)
				}
				if httpErr.StatusText() != "Forbidden" {
					t.Errorf("StatusText() = %q", httpErr.StatusText())
				}
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"data": [`))
			},
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrMalformedResponse) {
					t.Errorf("expected ErrMalformedResponse, got %v", err)
				}
			},
		},
		{
			name: "missing data list",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"meta": {"status": 200}}`))
			},
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrMalformedResponse) {
					t.Errorf("expected ErrMalformedResponse, got %v", err)
				}
			},
		},
		{
			name: "meta failure on 200",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"data": [], "meta": {"status": 429, "msg": "rate limited"}}`))
			},
			check: func(t *testing.T, err error) {
				var httpErr *HTTPError
				if !errors.As(err, &httpErr) || httpErr.StatusCode != 429 {
					t.Errorf("expected HTTPError 429, got %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			records, err := testClient(t, server.URL).Search(context.Background(), "banana")
			if err == nil {
				t.Fatalf("expected error, got %d records", len(records))
			}
			tt.check(t, err)
		})
	}
}

func TestClient_SearchMissingKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected without an API key")
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	c.apiKey = ""

	if _, err := c.Search(context.Background(), "banana"); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestClient_SearchTransportErrorRedactsKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	c := testClient(t, endpoint)
	_, err := c.Search(context.Background(), "banana")
	if err == nil {
		t.Fatal("expected transport error")
	}
	if strings.Contains(err.Error(), "test-key") {
		t.Errorf("error leaks API key: %v", err)
	}
	var uerr *url.Error
	if !errors.As(err, &uerr) {
		t.Errorf("expected wrapped *url.Error, got %T", err)
	}
}

func TestClient_BuildURL(t *testing.T) {
	cfg := config.TestConfig()
	cfg.API.Limit = 3
	cfg.API.Rating = "pg"
	c := NewClient(cfg)

	raw, err := c.BuildURL("grape")
	if err != nil {
		t.Fatalf("BuildURL() error = %v", err)
	}

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	if u.Host != "api.giphy.com" || u.Path != "/v1/gifs/search" {
		t.Errorf("unexpected endpoint %s", raw)
	}
	q := u.Query()
	if q.Get("q") != "grape" || q.Get("limit") != "3" || q.Get("rating") != "pg" || q.Get("api_key") != "test-key" {
		t.Errorf("unexpected query %s", u.RawQuery)
	}
}

func TestDecode_EmptyData(t *testing.T) {
	records, err := Decode([]byte(`{"data": [], "meta": {"status": 200}}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", records)
	}
}

func TestClient_SearchTruncatesToLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		items := make([]string, 25)
		for i := range items {
			items[i] = fmt.Sprintf(`{"images":{"original_still":{"url":"https://media.example/%d_s.gif"},"original":{"url":"https://media.example/%d.gif"}}}`, i, i)
		}
		fmt.Fprintf(w, `{"data":[%s],"meta":{"status":200}}`, strings.Join(items, ","))
	}))
	defer server.Close()

	records, err := testClient(t, server.URL).Search(context.Background(), "banana")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(records) != 10 {
		t.Fatalf("expected 10 records, got %d", len(records))
	}
	if got := records[0].StillURL(); got != "https://media.example/0_s.gif" {
		t.Errorf("first record = %q, want the first one served", got)
	}
	if got := records[9].AnimatedURL(); got != "https://media.example/9.gif" {
		t.Errorf("last record = %q, want the tenth one served", got)
	}
}

func TestDecode_MissingURLs(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "no still",
			body: `{"data":[{"images":{"original":{"url":"https://media.example/1.gif"}}}],"meta":{"status":200}}`,
		},
		{
			name: "no animated",
			body: `{"data":[{"images":{"original_still":{"url":"https://media.example/1_s.gif"}}}],"meta":{"status":200}}`,
		},
		{
			name: "empty still url",
			body: `{"data":[{"images":{"original_still":{"url":""},"original":{"url":"https://media.example/1.gif"}}}],"meta":{"status":200}}`,
		},
		{
			name: "no images",
			body: `{"data":[{"rating":"g"}],"meta":{"status":200}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := Decode([]byte(tt.body))
			if !errors.Is(err, ErrMalformedResponse) {
				t.Fatalf("expected ErrMalformedResponse, got %v", err)
			}
			if records != nil {
				t.Errorf("expected no records, got %#v", records)
			}
		})
	}
}
