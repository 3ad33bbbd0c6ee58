package ledger

import (
	"math"
	"sync"

	"github.com/yungbote/keywordiq-backend/internal/platform/envutil"
)

// Rates are the points-unit costs of billable sub-steps.
type Rates struct {
	LLMPer1KTokens  float64
	WebSearchCall   float64
	PlacesCall      float64
	VideoSearchCall float64
	ForumCall       float64
	PageCrawl       float64
}

func DefaultRates() Rates {
	return Rates{
		LLMPer1KTokens:  0.02,
		WebSearchCall:   0.005,
		PlacesCall:      0.017,
		VideoSearchCall: 0.001,
		ForumCall:       0,
		PageCrawl:       0.0005,
	}
}

// RatesFromEnv reads SEO_RATE_* overrides. A negative or unparsable value
// keeps the default.
func RatesFromEnv() Rates {
	d := DefaultRates()
	return Rates{
		LLMPer1KTokens:  rateFromEnv("SEO_RATE_LLM_PER_1K_TOKENS", d.LLMPer1KTokens),
		WebSearchCall:   rateFromEnv("SEO_RATE_WEB_SEARCH_CALL", d.WebSearchCall),
		PlacesCall:      rateFromEnv("SEO_RATE_PLACES_CALL", d.PlacesCall),
		VideoSearchCall: rateFromEnv("SEO_RATE_VIDEO_SEARCH_CALL", d.VideoSearchCall),
		ForumCall:       rateFromEnv("SEO_RATE_FORUM_CALL", d.ForumCall),
		PageCrawl:       rateFromEnv("SEO_RATE_PAGE_CRAWL", d.PageCrawl),
	}
}

func rateFromEnv(name string, def float64) float64 {
	if v := envutil.Float(name, def); v >= 0 {
		return v
	}
	return def
}

func (r Rates) LLM(tokens int) float64 {
	if tokens <= 0 {
		return 0
	}
	return float64(tokens) * r.LLMPer1KTokens / 1000
}

// Points converts an accumulated cost into whole points, rounding up.
func Points(cost float64) int {
	if cost <= 0 {
		return 0
	}
	// Trim float noise so 0.07*100 does not become 8.
	return int(math.Ceil(math.Round(cost*100*1e6) / 1e6))
}

// CostAccumulator sums costs reported by concurrent tasks.
type CostAccumulator struct {
	mu    sync.Mutex
	total float64
}

func NewCostAccumulator() *CostAccumulator { return &CostAccumulator{} }

func (c *CostAccumulator) Add(cost float64) {
	if c == nil || cost <= 0 {
		return
	}
	c.mu.Lock()
	c.total += cost
	c.mu.Unlock()
}

func (c *CostAccumulator) Total() float64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}
