package channels

import (
	"context"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	types "github.com/yungbote/keywordiq-backend/internal/domain"
	"github.com/yungbote/keywordiq-backend/internal/observability"
	"github.com/yungbote/keywordiq-backend/internal/platform/envutil"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

type GuardConfig struct {
	RPS   float64
	Burst int
	// ConsecutiveFailures trips the breaker.
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
	HalfOpenRequests    uint32
}

func GuardConfigFromEnv() GuardConfig {
	return GuardConfig{
		RPS:                 envutil.Float("SEO_CHANNEL_RPS", 5),
		Burst:               envutil.Int("SEO_CHANNEL_BURST", 5),
		ConsecutiveFailures: uint32(envutil.Int("SEO_BREAKER_FAILURES", 5)),
		OpenTimeout:         envutil.Seconds("SEO_BREAKER_OPEN_SECONDS", 30*time.Second),
		HalfOpenRequests:    uint32(envutil.Int("SEO_BREAKER_HALF_OPEN_REQUESTS", 2)),
	}
}

// Guard rate-limits and circuit-breaks the outbound calls of one channel.
type Guard struct {
	channel types.Channel
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker
}

func NewGuard(log *logger.Logger, channel types.Channel, cfg GuardConfig) *Guard {
	if cfg.RPS <= 0 {
		cfg.RPS = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if cfg.HalfOpenRequests == 0 {
		cfg.HalfOpenRequests = 1
	}
	threshold := cfg.ConsecutiveFailures
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        string(channel),
		MaxRequests: cfg.HalfOpenRequests,
		Interval:    60 * time.Second,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Channel breaker state changed", "channel", name, "from", from.String(), "to", to.String())
			observability.Current().SetBreakerOpen(name, to == gobreaker.StateOpen)
		},
	})
	return &Guard{
		channel: channel,
		limiter: rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		cb:      cb,
	}
}

// Do waits for a rate token and runs fn through the breaker. An open breaker
// fails fast with gobreaker.ErrOpenState.
func (g *Guard) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if g == nil {
		return fn(ctx)
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := g.cb.Execute(func() (interface{}, error) {
		return nil, fn(ctx)
	})
	return err
}

func (g *Guard) State() gobreaker.State { return g.cb.State() }

// Guards hands out one Guard per channel.
type Guards struct {
	log *logger.Logger
	cfg GuardConfig

	mu     sync.Mutex
	guards map[types.Channel]*Guard
}

func NewGuards(log *logger.Logger, cfg GuardConfig) *Guards {
	return &Guards{log: log.With("component", "ChannelGuards"), cfg: cfg, guards: map[types.Channel]*Guard{}}
}

func (g *Guards) For(channel types.Channel) *Guard {
	if g == nil {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if gd, ok := g.guards[channel]; ok {
		return gd
	}
	gd := NewGuard(g.log, channel, g.cfg)
	g.guards[channel] = gd
	return gd
}
