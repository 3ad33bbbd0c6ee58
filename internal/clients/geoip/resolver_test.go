package geoip

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (c *memCache) Get(ctx context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

func (c *memCache) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func TestResolveUsesUpstreamThenCache(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		if r.URL.Path != "/8.8.8.8" {
			t.Errorf("path=%s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"status":"success","country":"United States","countryCode":"us"}`))
	}))
	defer srv.Close()

	cache := &memCache{data: map[string][]byte{}}
	r := NewResolver(logger.Nop(), Config{BaseURL: srv.URL}, cache)
	for i := 0; i < 2; i++ {
		loc, err := r.Resolve(context.Background(), "8.8.8.8")
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if loc.Country != "United States" || loc.CountryCode != "US" {
			t.Fatalf("unexpected locale: %+v", loc)
		}
	}
	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Fatalf("upstream calls=%d want=1", calls)
	}
}

func TestResolvePrivateAddressIsUnknown(t *testing.T) {
	r := NewResolver(logger.Nop(), Config{BaseURL: "http://127.0.0.1:1"}, nil)
	for _, ip := range []string{"", "not-an-ip", "127.0.0.1", "10.1.2.3", "::1"} {
		loc, err := r.Resolve(context.Background(), ip)
		if err != nil {
			t.Fatalf("%q: %v", ip, err)
		}
		if loc.Known() {
			t.Fatalf("%q: expected unknown locale, got %+v", ip, loc)
		}
	}
}

func TestResolveFailStatusIsUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail","message":"reserved range"}`))
	}))
	defer srv.Close()
	r := NewResolver(logger.Nop(), Config{BaseURL: srv.URL}, nil)
	loc, err := r.Resolve(context.Background(), "1.1.1.1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if loc.Known() {
		t.Fatalf("expected unknown, got %+v", loc)
	}
}
