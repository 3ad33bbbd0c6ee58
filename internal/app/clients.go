package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/keywordiq-backend/internal/clients/geoip"
	"github.com/yungbote/keywordiq-backend/internal/clients/google"
	"github.com/yungbote/keywordiq-backend/internal/clients/payments"
	"github.com/yungbote/keywordiq-backend/internal/clients/reddit"
	"github.com/yungbote/keywordiq-backend/internal/clients/redis"
	"github.com/yungbote/keywordiq-backend/internal/clients/web"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
	"github.com/yungbote/keywordiq-backend/internal/platform/openai"
)

// Clients holds the outbound services. A channel whose client is nil is not
// served.
type Clients struct {
	Redis *goredis.Client

	LLM    openai.Client
	Web    google.WebSearcher
	Places google.PlaceSearcher
	Videos google.VideoSearcher
	Forum  reddit.Client
	Pages  web.PageFetcher
	Locale geoip.Resolver

	// Payments is nil when no receipt secret is configured; purchases are
	// then refused.
	Payments payments.Verifier
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	// Redis
	if cfg.RedisAddr != "" {
		rdb, err := redis.NewClient(log, cfg.RedisAddr)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis: %w", err)
		}
		out.Redis = rdb
	}

	// Openai
	if llm, err := openai.NewClient(log, openai.ConfigFromEnv()); err != nil {
		log.Warn("Completion service disabled, queries use the fallback", "error", err)
	} else {
		out.LLM = llm
	}

	// Google
	if cfg.GoogleSearchAPIKey != "" && cfg.SearchEngineID != "" {
		ws, err := google.NewWebSearcher(ctx, log, cfg.GoogleSearchAPIKey, cfg.SearchEngineID)
		if err != nil {
			out.Close()
			return Clients{}, fmt.Errorf("init web search: %w", err)
		}
		out.Web = ws
	} else {
		log.Warn("Web search not configured; news, search and competitor channels disabled")
	}
	if cfg.PlacesAPIKey != "" {
		ps, err := google.NewPlaceSearcher(ctx, log, cfg.PlacesAPIKey)
		if err != nil {
			out.Close()
			return Clients{}, fmt.Errorf("init places: %w", err)
		}
		out.Places = ps
	} else {
		log.Warn("Places not configured; maps channel disabled")
	}
	if cfg.YouTubeAPIKey != "" {
		vs, err := google.NewVideoSearcher(ctx, log, cfg.YouTubeAPIKey)
		if err != nil {
			out.Close()
			return Clients{}, fmt.Errorf("init youtube: %w", err)
		}
		out.Videos = vs
	} else {
		log.Warn("YouTube not configured; youtube channel disabled")
	}

	// Reddit
	if forum, err := reddit.NewClient(log, reddit.ConfigFromEnv()); err != nil {
		log.Warn("Reddit not configured; forum channel disabled", "error", err)
	} else {
		out.Forum = forum
	}

	out.Pages = web.NewPageFetcher(log, web.ConfigFromEnv())

	// Locale lookups are cached in Redis when available.
	if out.Redis != nil {
		out.Locale = geoip.NewResolver(log, geoip.ConfigFromEnv(), redis.NewJSONCache(out.Redis, "geoip"))
	} else {
		out.Locale = geoip.NewResolver(log, geoip.ConfigFromEnv(), nil)
	}

	if cfg.PaymentReceiptSecret != "" {
		v, err := payments.NewReceiptVerifier(log, cfg.PaymentReceiptSecret, cfg.PaymentReceiptIssuer)
		if err != nil {
			out.Close()
			return Clients{}, fmt.Errorf("init payments: %w", err)
		}
		out.Payments = v
	}

	return out, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
