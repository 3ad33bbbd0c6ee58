package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

const samplePage = `<!doctype html>
<html><head>
<title> Artisan Bakery </title>
<meta name="description" content="Fresh sourdough every morning">
</head><body>
<h1>Our Bread</h1>
<h2>Sourdough</h2><h2>Rye</h2>
<p>We bake   sourdough daily.</p>
<p></p>
<a href="/menu">Menu</a>
<a href="https://other.example/review">Review</a>
<a href="#top">Top</a>
<a href="mailto:hi@bakery.example">Mail</a>
</body></html>`

func TestFetchParsesStructure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	f := NewPageFetcher(logger.Nop(), Config{UserAgent: "test"})
	p, err := f.Fetch(context.Background(), srv.URL+"/")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if p.Title != "Artisan Bakery" || p.MetaDescription != "Fresh sourdough every morning" {
		t.Fatalf("unexpected head: %+v", p)
	}
	if len(p.Headers["h1"]) != 1 || len(p.Headers["h2"]) != 2 {
		t.Fatalf("headers=%v", p.Headers)
	}
	if p.BodyText() != "We bake sourdough daily." {
		t.Fatalf("body=%q", p.BodyText())
	}
	if p.InternalLinks != 1 || p.ExternalLinks != 1 {
		t.Fatalf("links internal=%d external=%d", p.InternalLinks, p.ExternalLinks)
	}
}

func TestFetchRejectsBadScheme(t *testing.T) {
	f := NewPageFetcher(logger.Nop(), Config{})
	if _, err := f.Fetch(context.Background(), "ftp://example.com"); err == nil {
		t.Fatal("expected error")
	}
}

func TestFetchNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()
	f := NewPageFetcher(logger.Nop(), Config{})
	if _, err := f.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error")
	}
}
