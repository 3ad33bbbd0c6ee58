package orchestrator

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	types "github.com/yungbote/keywordiq-backend/internal/domain"
	"github.com/yungbote/keywordiq-backend/internal/observability"
	"github.com/yungbote/keywordiq-backend/internal/platform/envutil"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

// Fetcher calls one external channel for one query and reports the cost of
// doing so, in points units, even when it fails.
type Fetcher interface {
	Fetch(ctx context.Context, query string) ([]*types.Analysis, float64, error)
}

type FetcherFunc func(ctx context.Context, query string) ([]*types.Analysis, float64, error)

func (f FetcherFunc) Fetch(ctx context.Context, query string) ([]*types.Analysis, float64, error) {
	return f(ctx, query)
}

// Store persists what tasks fetch; dedup.Cache satisfies it.
type Store interface {
	GetOrCreateSearchQuery(ctx context.Context, projectID uuid.UUID, channel types.Channel, text string) (*types.SearchQuery, error)
	GetOrCreateAnalysis(ctx context.Context, payload *types.Analysis) (*types.Analysis, error)
	Link(ctx context.Context, q *types.SearchQuery, a *types.Analysis) error
}

type Config struct {
	Concurrency  int
	FetchTimeout time.Duration
}

func ConfigFromEnv() Config {
	return Config{
		Concurrency:  envutil.Int("SEO_FANOUT_CONCURRENCY", 4),
		FetchTimeout: envutil.Seconds("SEO_FETCH_TIMEOUT_SECONDS", 60*time.Second),
	}
}

type Orchestrator struct {
	log   *logger.Logger
	store Store
	cfg   Config
}

func New(log *logger.Logger, store Store, cfg Config) *Orchestrator {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 60 * time.Second
	}
	return &Orchestrator{log: log.With("service", "FanOutOrchestrator"), store: store, cfg: cfg}
}

type Result struct {
	// Documents is the union of every successful task's documents, one entry
	// per stored analysis.
	Documents []*types.Analysis
	// Fetched keeps every stored occurrence, so a document returned by two
	// queries appears twice.
	Fetched   []*types.Analysis
	Cost      float64
	Succeeded int
	Failed    int
}

// Run fans queries out on a bounded pool and blocks until every task is
// done. A failing task is logged and excluded; it never cancels its siblings.
// Tasks run detached from ctx's cancellation, each bounded by the fetch
// timeout.
func (o *Orchestrator) Run(ctx context.Context, tc TaskContext, queries []string, f Fetcher) Result {
	queries = uniqueQueries(queries)
	before := tc.Cost().Total()

	var (
		mu     sync.Mutex
		seen   = map[uuid.UUID]bool{}
		result Result
	)
	detached := context.WithoutCancel(ctx)

	var g errgroup.Group
	g.SetLimit(o.cfg.Concurrency)
	for _, q := range queries {
		g.Go(func() error {
			docs, err := o.runTask(detached, tc, q, f)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				o.log.Warn("Fan-out task failed",
					"channel", tc.Channel(),
					"project_id", tc.ProjectID(),
					"query", q,
					"error", err,
				)
				return nil
			}
			result.Succeeded++
			result.Fetched = append(result.Fetched, docs...)
			for _, d := range docs {
				if !seen[d.ID] {
					seen[d.ID] = true
					result.Documents = append(result.Documents, d)
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	result.Cost = tc.Cost().Total() - before
	o.log.Info("Fan-out finished",
		"channel", tc.Channel(),
		"project_id", tc.ProjectID(),
		"queries", len(queries),
		"succeeded", result.Succeeded,
		"failed", result.Failed,
		"documents", len(result.Documents),
	)
	return result
}

func (o *Orchestrator) runTask(ctx context.Context, tc TaskContext, query string, f Fetcher) (docs []*types.Analysis, err error) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Error("Fan-out task panicked", "channel", tc.Channel(), "panic", r, "stack", string(debug.Stack()))
			docs, err = nil, fmt.Errorf("task panic: %v", r)
		}
	}()

	taskCtx, cancel := context.WithTimeout(ctx, o.cfg.FetchTimeout)
	defer cancel()
	taskCtx, span := observability.StartSpan(taskCtx, "seo.fanout.task",
		attribute.String("seo.channel", tc.Channel().String()),
		attribute.String("seo.query", query),
	)
	defer func() {
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	sq, err := o.store.GetOrCreateSearchQuery(taskCtx, tc.ProjectID(), tc.Channel(), query)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}

	start := time.Now()
	fetched, cost, err := f.Fetch(taskCtx, query)
	tc.Cost().Add(cost)
	observability.Current().ObserveChannelFetch(tc.Channel().String(), err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	if len(fetched) == 0 {
		return nil, fmt.Errorf("no results")
	}

	stored := make([]*types.Analysis, 0, len(fetched))
	for _, doc := range fetched {
		if doc == nil {
			continue
		}
		doc.Type = tc.Channel()
		a, err := o.store.GetOrCreateAnalysis(taskCtx, doc)
		if err != nil {
			o.log.Warn("Analysis not stored", "channel", tc.Channel(), "error", err)
			continue
		}
		if err := o.store.Link(taskCtx, sq, a); err != nil {
			o.log.Warn("Analysis not linked", "channel", tc.Channel(), "error", err)
			continue
		}
		stored = append(stored, a)
	}
	if len(stored) == 0 {
		return nil, fmt.Errorf("no documents stored out of %d fetched", len(fetched))
	}
	return stored, nil
}

func uniqueQueries(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]bool{}
	for _, q := range in {
		q = strings.TrimSpace(q)
		if q == "" || seen[q] {
			continue
		}
		seen[q] = true
		out = append(out, q)
	}
	return out
}
