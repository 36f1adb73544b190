package duckduckgo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const resultsPage = `<html><body>
<div class="result">
  <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fmsft-earnings&amp;rut=abc">Microsoft Q4 earnings beat estimates</a>
  <a class="result__snippet">Microsoft reported quarterly revenue of $65B, up 12% year over year.</a>
</div>
<div class="result">
  <a class="result__a" href="https://example.org/analysis">MSFT stock analysis</a>
  <a class="result__snippet">Analysts remain bullish on cloud growth.</a>
</div>
<div class="result">
  <a class="result__a" href="https://example.net/ignored"></a>
</div>
<div class="result">
  <a class="result__a" href="https://example.net/third">Third result</a>
</div>
</body></html>`

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostForm.Get("q"); got != "Microsoft MSFT earnings" {
			t.Errorf("query = %q", got)
		}
		w.Write([]byte(resultsPage))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))

	results, err := client.Search(context.Background(), "Microsoft MSFT earnings", 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results len = %d, want 2 (capped)", len(results))
	}
	if results[0].Title != "Microsoft Q4 earnings beat estimates" {
		t.Errorf("title = %q", results[0].Title)
	}
	if results[0].URL != "https://example.com/msft-earnings" {
		t.Errorf("redirect not unwrapped: %q", results[0].URL)
	}
	if results[0].Snippet == "" {
		t.Error("snippet empty")
	}
	if results[1].URL != "https://example.org/analysis" {
		t.Errorf("direct url mangled: %q", results[1].URL)
	}
}

func TestSearchTitlelessResultsSkipped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(resultsPage))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))

	results, err := client.Search(context.Background(), "anything", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	// Four result blocks, one with an empty title
	if len(results) != 3 {
		t.Fatalf("results len = %d, want 3", len(results))
	}
}

func TestSearchNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))

	if _, err := client.Search(context.Background(), "anything", 5); err == nil {
		t.Fatal("want error for non-200 status")
	}
}
