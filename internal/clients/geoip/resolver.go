package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yungbote/keywordiq-backend/internal/platform/envutil"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

// Locale is the country a client address resolves to. The zero value means
// unknown.
type Locale struct {
	Country     string `json:"country"`
	CountryCode string `json:"country_code"`
}

func (l Locale) Known() bool { return l.Country != "" || l.CountryCode != "" }

type Resolver interface {
	Resolve(ctx context.Context, ip string) (Locale, error)
}

// Cache is satisfied by the redis JSONCache.
type Cache interface {
	Get(ctx context.Context, key string, out any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
}

type Config struct {
	// BaseURL serves ip-api compatible JSON at {BaseURL}/{ip}.
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

func ConfigFromEnv() Config {
	return Config{
		BaseURL:  envutil.String("GEOIP_URL", "http://ip-api.com/json"),
		Timeout:  envutil.Seconds("GEOIP_TIMEOUT_SECONDS", 5*time.Second),
		CacheTTL: envutil.Seconds("GEOIP_CACHE_TTL_SECONDS", 24*time.Hour),
	}
}

type resolver struct {
	log   *logger.Logger
	http  *http.Client
	cfg   Config
	cache Cache
}

// NewResolver builds a resolver; cache may be nil.
func NewResolver(log *logger.Logger, cfg Config, cache Cache) Resolver {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &resolver{
		log:   log.With("client", "GeoIPResolver"),
		http:  &http.Client{Timeout: cfg.Timeout},
		cfg:   cfg,
		cache: cache,
	}
}

type ipAPIResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	Country     string `json:"country"`
	CountryCode string `json:"countryCode"`
}

// Resolve returns the zero Locale for private, loopback or unparsable
// addresses without calling upstream.
func (r *resolver) Resolve(ctx context.Context, ip string) (Locale, error) {
	addr := net.ParseIP(strings.TrimSpace(ip))
	if addr == nil || addr.IsLoopback() || addr.IsPrivate() || addr.IsUnspecified() || addr.IsLinkLocalUnicast() {
		return Locale{}, nil
	}
	key := addr.String()

	if r.cache != nil {
		var cached Locale
		hit, err := r.cache.Get(ctx, key, &cached)
		if err != nil {
			r.log.Warn("GeoIP cache read failed", "error", err)
		} else if hit {
			return cached, nil
		}
	}

	endpoint := fmt.Sprintf("%s/%s?fields=status,message,country,countryCode", r.cfg.BaseURL, url.PathEscape(key))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Locale{}, err
	}
	resp, err := r.http.Do(req)
	if err != nil {
		return Locale{}, fmt.Errorf("geoip lookup: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return Locale{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return Locale{}, fmt.Errorf("geoip lookup: http %d", resp.StatusCode)
	}
	var parsed ipAPIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Locale{}, fmt.Errorf("geoip decode: %w", err)
	}
	if !strings.EqualFold(parsed.Status, "success") {
		r.log.Debug("GeoIP lookup unresolved", "message", parsed.Message)
		return Locale{}, nil
	}

	loc := Locale{Country: parsed.Country, CountryCode: strings.ToUpper(parsed.CountryCode)}
	if r.cache != nil {
		if err := r.cache.Set(ctx, key, loc, r.cfg.CacheTTL); err != nil {
			r.log.Warn("GeoIP cache write failed", "error", err)
		}
	}
	return loc, nil
}
