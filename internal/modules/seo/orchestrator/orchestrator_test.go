package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/keywordiq-backend/internal/data/repos"
	"github.com/yungbote/keywordiq-backend/internal/data/repos/testutil"
	types "github.com/yungbote/keywordiq-backend/internal/domain"
	domainseo "github.com/yungbote/keywordiq-backend/internal/domain/seo"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/dedup"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/ledger"
	"github.com/yungbote/keywordiq-backend/internal/platform/dbctx"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

type memStore struct {
	mu       sync.Mutex
	queries  map[string]*types.SearchQuery
	analyses map[string]*types.Analysis
	links    map[[2]uuid.UUID]bool
}

func newMemStore() *memStore {
	return &memStore{
		queries:  map[string]*types.SearchQuery{},
		analyses: map[string]*types.Analysis{},
		links:    map[[2]uuid.UUID]bool{},
	}
}

func (s *memStore) GetOrCreateSearchQuery(ctx context.Context, projectID uuid.UUID, channel types.Channel, text string) (*types.SearchQuery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := projectID.String() + "|" + string(channel) + "|" + text
	if q, ok := s.queries[key]; ok {
		return q, nil
	}
	q := &types.SearchQuery{ID: uuid.New(), SEOProjectID: projectID, Type: channel, Query: text}
	s.queries[key] = q
	return q, nil
}

func (s *memStore) GetOrCreateAnalysis(ctx context.Context, payload *types.Analysis) (*types.Analysis, error) {
	key, err := domainseo.ComputeNaturalKey(payload)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	k := string(payload.Type) + "|" + key
	if a, ok := s.analyses[k]; ok {
		return a, nil
	}
	a := *payload
	a.ID = uuid.New()
	s.analyses[k] = &a
	return &a, nil
}

func (s *memStore) Link(ctx context.Context, q *types.SearchQuery, a *types.Analysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links[[2]uuid.UUID{q.ID, a.ID}] = true
	return nil
}

func link(u string) *types.Analysis {
	return &types.Analysis{Link: &u}
}

func newTC(cost *ledger.CostAccumulator) TaskContext {
	return NewTaskContext(uuid.New(), uuid.New(), types.ChannelGoogleSearch, cost)
}

func TestRunExcludesFailedTasks(t *testing.T) {
	o := New(logger.Nop(), newMemStore(), Config{Concurrency: 2, FetchTimeout: time.Second})
	fetch := FetcherFunc(func(ctx context.Context, q string) ([]*types.Analysis, float64, error) {
		switch q {
		case "q2":
			return nil, 0.005, errors.New("upstream 500")
		case "q4":
			return nil, 0.005, nil
		}
		return []*types.Analysis{link("https://example.com/" + q)}, 0.005, nil
	})
	cost := ledger.NewCostAccumulator()
	res := o.Run(context.Background(), newTC(cost), []string{"q1", "q2", "q3", "q4", "q5"}, fetch)
	if res.Succeeded != 3 || res.Failed != 2 {
		t.Fatalf("succeeded=%d failed=%d", res.Succeeded, res.Failed)
	}
	if len(res.Documents) != 3 {
		t.Fatalf("documents=%d want=3", len(res.Documents))
	}
	if ledger.Points(res.Cost) != 3 || ledger.Points(cost.Total()) != 3 {
		t.Fatalf("cost=%v total=%v", res.Cost, cost.Total())
	}
}

func TestRunUnionDeduplicatesDocuments(t *testing.T) {
	o := New(logger.Nop(), newMemStore(), Config{Concurrency: 3, FetchTimeout: time.Second})
	fetch := FetcherFunc(func(ctx context.Context, q string) ([]*types.Analysis, float64, error) {
		return []*types.Analysis{link("https://shared.example"), link("https://example.com/" + q)}, 0, nil
	})
	res := o.Run(context.Background(), newTC(nil), []string{"a", "b", "c", "a", " "}, fetch)
	if res.Succeeded != 3 {
		t.Fatalf("succeeded=%d want=3 (duplicates and blanks dropped)", res.Succeeded)
	}
	if len(res.Documents) != 4 {
		t.Fatalf("documents=%d want=4", len(res.Documents))
	}
}

func TestRunRecoversPanics(t *testing.T) {
	o := New(logger.Nop(), newMemStore(), Config{Concurrency: 2, FetchTimeout: time.Second})
	fetch := FetcherFunc(func(ctx context.Context, q string) ([]*types.Analysis, float64, error) {
		if q == "boom" {
			panic("nil map")
		}
		return []*types.Analysis{link("https://example.com/" + q)}, 0, nil
	})
	res := o.Run(context.Background(), newTC(nil), []string{"ok", "boom"}, fetch)
	if res.Succeeded != 1 || res.Failed != 1 {
		t.Fatalf("succeeded=%d failed=%d", res.Succeeded, res.Failed)
	}
}

func TestRunRespectsConcurrencyLimit(t *testing.T) {
	o := New(logger.Nop(), newMemStore(), Config{Concurrency: 2, FetchTimeout: time.Second})
	var inflight, peak int32
	fetch := FetcherFunc(func(ctx context.Context, q string) ([]*types.Analysis, float64, error) {
		n := atomic.AddInt32(&inflight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&inflight, -1)
		return []*types.Analysis{link("https://example.com/" + q)}, 0, nil
	})
	queries := make([]string, 8)
	for i := range queries {
		queries[i] = fmt.Sprintf("q%d", i)
	}
	res := o.Run(context.Background(), newTC(nil), queries, fetch)
	if res.Succeeded != 8 {
		t.Fatalf("succeeded=%d", res.Succeeded)
	}
	if peak > 2 {
		t.Fatalf("peak concurrency=%d want<=2", peak)
	}
}

func TestRunIgnoresRequestCancellationButHonorsTimeout(t *testing.T) {
	o := New(logger.Nop(), newMemStore(), Config{Concurrency: 2, FetchTimeout: 50 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fetch := FetcherFunc(func(ctx context.Context, q string) ([]*types.Analysis, float64, error) {
		if q == "slow" {
			<-ctx.Done()
			return nil, 0, ctx.Err()
		}
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		return []*types.Analysis{link("https://example.com/" + q)}, 0, nil
	})
	res := o.Run(ctx, newTC(nil), []string{"fast", "slow"}, fetch)
	if res.Succeeded != 1 || res.Failed != 1 {
		t.Fatalf("succeeded=%d failed=%d", res.Succeeded, res.Failed)
	}
}

func TestRunWithDedupCacheCollapsesCoordinates(t *testing.T) {
	gdb := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, gdb, uuid.NewString()+"@example.com")
	p := testutil.SeedProject(t, ctx, gdb, u.ID)
	analyses := repos.NewAnalysisRepo(gdb, log)
	cache := dedup.New(log, repos.NewSearchQueryRepo(gdb, log), analyses, repos.NewSearchAnalysisRelRepo(gdb, log))
	o := New(log, cache, Config{Concurrency: 1, FetchTimeout: 5 * time.Second})

	fetch := FetcherFunc(func(ctx context.Context, q string) ([]*types.Analysis, float64, error) {
		docs := make([]*types.Analysis, 0, 3)
		for i := 0; i < 3; i++ {
			docs = append(docs, &types.Analysis{
				Name:      testutil.PtrString(fmt.Sprintf("%s bakery %d", q, i)),
				Latitude:  testutil.PtrFloat(40.7128),
				Longitude: testutil.PtrFloat(-74.006),
			})
		}
		return docs, 0.017, nil
	})
	tc := NewTaskContext(p.ID, u.ID, types.ChannelMaps, nil)
	res := o.Run(ctx, tc, []string{"bakery new york", "family bakery nyc"}, fetch)
	if res.Succeeded != 2 {
		t.Fatalf("succeeded=%d", res.Succeeded)
	}
	if len(res.Documents) != 1 || len(res.Fetched) != 6 {
		t.Fatalf("documents=%d fetched=%d want=1,6", len(res.Documents), len(res.Fetched))
	}
	n, err := analyses.CountByChannel(dbctx.Context{Ctx: ctx}, types.ChannelMaps)
	if err != nil || n != 1 {
		t.Fatalf("analysis rows=%d err=%v", n, err)
	}
	linked, err := analyses.ListByProjectChannel(dbctx.Context{Ctx: ctx}, p.ID, types.ChannelMaps)
	if err != nil || len(linked) != 1 {
		t.Fatalf("linked=%d err=%v", len(linked), err)
	}
}
