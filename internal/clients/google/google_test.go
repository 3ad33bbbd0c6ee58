package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/api/option"

	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

func fakeGoogle(t *testing.T, routes map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for suffix, body := range routes {
			if strings.HasSuffix(r.URL.Path, suffix) {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(body)
				return
			}
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestWebSearcherMapsItems(t *testing.T) {
	srv := fakeGoogle(t, map[string]any{
		"/customsearch/v1": map[string]any{
			"items": []map[string]any{
				{"title": "Best Bakery", "link": "https://bakery.example", "snippet": "fresh bread", "displayLink": "bakery.example"},
				{"title": "no link"},
			},
		},
	})
	s, err := NewWebSearcher(context.Background(), logger.Nop(), "key", "cx",
		option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewWebSearcher: %v", err)
	}
	items, err := s.Search(context.Background(), "bakery", SearchOptions{CountryCode: "US"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items=%d want=1", len(items))
	}
	if items[0].Link != "https://bakery.example" || items[0].Snippet != "fresh bread" {
		t.Fatalf("unexpected item: %+v", items[0])
	}
}

func TestNewWebSearcherRequiresKeys(t *testing.T) {
	if _, err := NewWebSearcher(context.Background(), logger.Nop(), "", "cx"); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if _, err := NewWebSearcher(context.Background(), logger.Nop(), "key", " "); err == nil {
		t.Fatal("expected error for missing engine id")
	}
}

func TestPlaceSearcherSkipsMissingLocation(t *testing.T) {
	srv := fakeGoogle(t, map[string]any{
		"places:searchText": map[string]any{
			"places": []map[string]any{
				{
					"id":               "p1",
					"displayName":      map[string]any{"text": "Corner Bakery"},
					"formattedAddress": "1 Main St",
					"location":         map[string]any{"latitude": 40.7, "longitude": -74.0},
					"rating":           4.5,
				},
				{"id": "p2", "displayName": map[string]any{"text": "Nowhere"}},
			},
		},
	})
	s, err := NewPlaceSearcher(context.Background(), logger.Nop(), "key",
		option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewPlaceSearcher: %v", err)
	}
	got, err := s.SearchPlaces(context.Background(), "bakery in new york", 0)
	if err != nil {
		t.Fatalf("SearchPlaces: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("places=%d want=1", len(got))
	}
	if got[0].Name != "Corner Bakery" || got[0].Rating == nil || *got[0].Rating != 4.5 {
		t.Fatalf("unexpected place: %+v", got[0])
	}
}

func TestVideoSearcherJoinsStatistics(t *testing.T) {
	srv := fakeGoogle(t, map[string]any{
		"/search": map[string]any{
			"items": []map[string]any{
				{"id": map[string]any{"videoId": "v1"}, "snippet": map[string]any{"title": "Sourdough 101", "publishedAt": "2024-01-02T03:04:05Z"}},
				{"id": map[string]any{"channelId": "c1"}},
			},
		},
		"/videos": map[string]any{
			"items": []map[string]any{
				{
					"id":             "v1",
					"statistics":     map[string]any{"viewCount": "1200", "likeCount": "30", "commentCount": "4"},
					"contentDetails": map[string]any{"duration": "PT4M13S"},
				},
			},
		},
	})
	s, err := NewVideoSearcher(context.Background(), logger.Nop(), "key",
		option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewVideoSearcher: %v", err)
	}
	got, err := s.SearchVideos(context.Background(), "sourdough", 5)
	if err != nil {
		t.Fatalf("SearchVideos: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("videos=%d want=1", len(got))
	}
	v := got[0]
	if v.Views != 1200 || v.Likes != 30 || v.Comments != 4 || v.DurationSeconds != 253 {
		t.Fatalf("unexpected stats: %+v", v)
	}
	if v.PublishedAt == nil || v.URL() != "https://www.youtube.com/watch?v=v1" {
		t.Fatalf("unexpected video: %+v", v)
	}
}
