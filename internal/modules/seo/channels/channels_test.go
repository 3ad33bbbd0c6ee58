package channels

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"gorm.io/datatypes"

	"github.com/yungbote/keywordiq-backend/internal/clients/google"
	"github.com/yungbote/keywordiq-backend/internal/clients/reddit"
	"github.com/yungbote/keywordiq-backend/internal/clients/web"
	types "github.com/yungbote/keywordiq-backend/internal/domain"
	"github.com/yungbote/keywordiq-backend/internal/domain/seo"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/ledger"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/orchestrator"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
	"github.com/yungbote/keywordiq-backend/internal/platform/openai"
)

type fakeLLM struct {
	mu      sync.Mutex
	systems []string
	reply   func(system, user string) (string, error)
}

func (f *fakeLLM) Complete(ctx context.Context, system, user string) (openai.Completion, error) {
	f.mu.Lock()
	f.systems = append(f.systems, system)
	f.mu.Unlock()
	text, err := f.reply(system, user)
	if err != nil {
		return openai.Completion{}, err
	}
	return openai.Completion{Text: text, Tokens: 500}, nil
}

type fakeWeb struct {
	mu    sync.Mutex
	calls []string
	opts  []google.SearchOptions
	items []google.SearchItem
	err   error
}

func (f *fakeWeb) Search(ctx context.Context, query string, opts google.SearchOptions) ([]google.SearchItem, error) {
	f.mu.Lock()
	f.calls = append(f.calls, query)
	f.opts = append(f.opts, opts)
	f.mu.Unlock()
	return f.items, f.err
}

type fakePlaces struct{ places []google.Place }

func (f *fakePlaces) SearchPlaces(ctx context.Context, query string, max int64) ([]google.Place, error) {
	return f.places, nil
}

type fakeVideos struct{ videos []google.Video }

func (f *fakeVideos) SearchVideos(ctx context.Context, query string, max int64) ([]google.Video, error) {
	return f.videos, nil
}

type fakeForum struct{ posts []reddit.Post }

func (f *fakeForum) Search(ctx context.Context, query string, limit int) ([]reddit.Post, error) {
	return f.posts, nil
}

type fakePages struct{ pages map[string]*web.Page }

func (f *fakePages) Fetch(ctx context.Context, rawURL string) (*web.Page, error) {
	if p, ok := f.pages[rawURL]; ok {
		return p, nil
	}
	return nil, errors.New("403")
}

func project() *types.Project {
	return &types.Project{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		BusinessType:   "bakery",
		TargetAudience: "families",
		Industry:       "food",
		Goals:          datatypes.JSON([]byte(`["more visits","brand awareness"]`)),
		Country:        "United States",
		CountryCode:    "US",
	}
}

func taskCtx(p *types.Project, c types.Channel) orchestrator.TaskContext {
	return orchestrator.NewTaskContext(p.ID, p.UserID, c, nil)
}

func TestParseList(t *testing.T) {
	got := ParseList("1. \"bakery near me\"\n2) family bakery deals\n- cake\n\n* 'artisan bread nyc',\n2) family bakery deals")
	want := []string{"bakery near me", "family bakery deals", "artisan bread nyc"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("got=%q want=%q", got, want)
	}
}

func TestFallbackQueries(t *testing.T) {
	p := project()
	if got := FallbackQuery(p); got != "bakery families food more visits, brand awareness" {
		t.Fatalf("FallbackQuery=%q", got)
	}
	if got := newsFallbackQuery(p); got != "bakery families food United States news" {
		t.Fatalf("newsFallbackQuery=%q", got)
	}
	p.Goals = datatypes.JSON([]byte(`not json`))
	if got := FallbackQuery(p); got != "bakery families food" {
		t.Fatalf("FallbackQuery with bad goals=%q", got)
	}
}

func TestGeneratorQueriesChargeTokens(t *testing.T) {
	p := project()
	llm := &fakeLLM{reply: func(system, user string) (string, error) {
		if !strings.Contains(user, "Business type: bakery") || !strings.Contains(user, "Location: United States") {
			t.Errorf("user prompt not rendered: %q", user)
		}
		return "1. bakery in new york\n2. kid friendly bakery\n3. ok", nil
	}}
	g := NewGenerator(logger.Nop(), llm, ledger.DefaultRates(), nil)
	tc := taskCtx(p, types.ChannelMaps)
	qs := g.Queries(context.Background(), tc, p, FallbackQuery(p))
	if len(qs) != 2 || qs[0] != "bakery in new york" {
		t.Fatalf("queries=%q", qs)
	}
	if got := tc.Cost().Total(); math.Abs(got-0.01) > 1e-12 {
		t.Fatalf("cost=%v want=0.01", got)
	}
	if !strings.HasPrefix(llm.systems[0], "You are an AI assistant trained to generate relevant search query for google maps") {
		t.Fatalf("wrong system prompt: %q", llm.systems[0])
	}
}

func TestGeneratorFallsBackWhenCompletionFails(t *testing.T) {
	p := project()
	llm := &fakeLLM{reply: func(system, user string) (string, error) { return "", errors.New("timeout") }}
	g := NewGenerator(logger.Nop(), llm, ledger.DefaultRates(), nil)
	tc := taskCtx(p, types.ChannelYouTube)
	qs := g.Queries(context.Background(), tc, p, FallbackQuery(p))
	if len(qs) != 1 || qs[0] != FallbackQuery(p) {
		t.Fatalf("queries=%q", qs)
	}
	if tc.Cost().Total() != 0 {
		t.Fatalf("failed completion charged %v", tc.Cost().Total())
	}
}

func TestRegistryRegistersConfiguredChannels(t *testing.T) {
	r := NewRegistry(logger.Nop(), Deps{Web: &fakeWeb{}, Rates: ledger.DefaultRates()})
	got := r.Channels()
	want := []types.Channel{types.ChannelGoogleSearch, types.ChannelNews}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("channels=%v want=%v", got, want)
	}
	if _, ok := r.Get(types.ChannelMaps); ok {
		t.Fatal("maps registered without a places client")
	}
}

func TestGuardOpensAfterConsecutiveFailures(t *testing.T) {
	g := NewGuard(logger.Nop(), types.ChannelNews, GuardConfig{RPS: 1000, Burst: 10, ConsecutiveFailures: 2, OpenTimeout: time.Minute})
	boom := errors.New("upstream 503")
	for i := 0; i < 2; i++ {
		if err := g.Do(context.Background(), func(context.Context) error { return boom }); !errors.Is(err, boom) {
			t.Fatalf("attempt %d: %v", i, err)
		}
	}
	called := false
	err := g.Do(context.Background(), func(context.Context) error { called = true; return nil })
	if !errors.Is(err, gobreaker.ErrOpenState) || called {
		t.Fatalf("err=%v called=%v", err, called)
	}
	if g.State() != gobreaker.StateOpen {
		t.Fatalf("state=%s", g.State())
	}
}

func TestNewsFetcherAppendsRecencyFilter(t *testing.T) {
	p := project()
	ws := &fakeWeb{items: []google.SearchItem{{Title: "Bakery trends", Link: "https://news.example/1", Snippet: "sourdough demand rises"}}}
	r := NewRegistry(logger.Nop(), Deps{Web: ws, Rates: ledger.DefaultRates()})
	s, _ := r.Get(types.ChannelNews)
	docs, cost, err := s.Fetcher(taskCtx(p, types.ChannelNews), p).Fetch(context.Background(), "bakery news")
	if err != nil || len(docs) != 1 {
		t.Fatalf("docs=%d err=%v", len(docs), err)
	}
	if ws.calls[0] != "bakery news AND when:7d" || !ws.opts[0].SortByDate || ws.opts[0].Num != 5 || ws.opts[0].CountryCode != "US" {
		t.Fatalf("call=%q opts=%+v", ws.calls[0], ws.opts[0])
	}
	if cost != ledger.DefaultRates().WebSearchCall {
		t.Fatalf("cost=%v", cost)
	}
	if seo.StrVal(docs[0].Link) != "https://news.example/1" {
		t.Fatalf("link=%v", docs[0].Link)
	}
}

func TestMapsStrategyClustersPlaces(t *testing.T) {
	p := project()
	places := &fakePlaces{places: []google.Place{
		{Name: "Sweet Crumbs", Address: "1 Main St", Latitude: 40.7128, Longitude: -74.006, Types: []string{"bakery"}},
		{Name: "Rise Bakery", Address: "2 Main St", Latitude: 40.7130, Longitude: -74.005, Types: []string{"bakery", "cafe"}},
		{Name: "Uptown Loaf", Address: "9 North Ave", Latitude: 40.8500, Longitude: -73.900, Types: []string{"bakery"}},
	}}
	r := NewRegistry(logger.Nop(), Deps{Places: places, Rates: ledger.DefaultRates()})
	s, ok := r.Get(types.ChannelMaps)
	if !ok {
		t.Fatal("maps not registered")
	}
	tc := taskCtx(p, types.ChannelMaps)
	docs, _, err := s.Fetcher(tc, p).Fetch(context.Background(), "bakery nyc")
	if err != nil || len(docs) != 3 {
		t.Fatalf("docs=%d err=%v", len(docs), err)
	}
	sug, err := s.Extract(context.Background(), tc, p, orchestrator.Result{Documents: docs})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	m := sug.(seo.MapsSuggestion)
	if m.V != 1 || m.Keywords[0] != "bakery" {
		t.Fatalf("suggestion=%+v", m)
	}
	total := 0
	for _, c := range m.GeoDistribution {
		total += c.Count
	}
	if total != 3 || len(m.GeoDistribution) > 3 {
		t.Fatalf("geo=%+v", m.GeoDistribution)
	}
	hasAddress := false
	for _, k := range m.Keywords {
		if k == "9 North Ave" {
			hasAddress = true
		}
	}
	if !hasAddress {
		t.Fatalf("keywords missing address: %q", m.Keywords)
	}
}

func TestYouTubeContentTitles(t *testing.T) {
	p := project()
	videos := &fakeVideos{videos: []google.Video{
		{ID: "a1", Title: "Sourdough bread tutorial", Description: "Learn sourdough baking", Views: 1000, Likes: 50, Comments: 5, DurationSeconds: 600},
		{ID: "b2", Title: "Croissant masterclass", Description: "Butter croissant lamination", Views: 10, Likes: 1, Comments: 0, DurationSeconds: 300},
	}}
	llm := &fakeLLM{reply: func(system, user string) (string, error) {
		return "1. How To Master {keyword} At Home\n2. Top 5 Bakeries\n3. Why {keyword} Matters", nil
	}}
	r := NewRegistry(logger.Nop(), Deps{LLM: llm, Videos: videos, Rates: ledger.DefaultRates()})
	s, _ := r.Get(types.ChannelYouTube)
	tc := taskCtx(p, types.ChannelYouTube)
	docs, _, err := s.Fetcher(tc, p).Fetch(context.Background(), "sourdough")
	if err != nil || len(docs) != 2 {
		t.Fatalf("docs=%d err=%v", len(docs), err)
	}
	sug, err := s.Extract(context.Background(), tc, p, orchestrator.Result{Documents: docs})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	y := sug.(seo.YouTubeSuggestion)
	if len(y.TitleTemplates) != 2 {
		t.Fatalf("templates=%q", y.TitleTemplates)
	}
	if len(y.TitleKeywords) == 0 || len(y.ContentTitles) == 0 {
		t.Fatalf("suggestion=%+v", y)
	}
	if !strings.HasPrefix(y.ContentTitles[0], "how to master ") || strings.Contains(y.ContentTitles[0], "{keyword}") {
		t.Fatalf("content title=%q", y.ContentTitles[0])
	}
	if tc.Cost().Total() <= 0 {
		t.Fatal("template generation was not charged")
	}
}

func TestCompetitorFetcherSkipsUnreachablePages(t *testing.T) {
	p := project()
	ws := &fakeWeb{items: []google.SearchItem{
		{Title: "Rival A", Link: "https://a.example"},
		{Title: "Rival B", Link: "https://b.example"},
	}}
	pages := &fakePages{pages: map[string]*web.Page{
		"https://a.example": {URL: "https://a.example", Title: "Rival A Bakery", MetaDescription: "Fresh bread daily", Paragraphs: []string{"bread bread cake"}, InternalLinks: 3, ExternalLinks: 1},
	}}
	r := NewRegistry(logger.Nop(), Deps{Web: ws, Pages: pages, Rates: ledger.DefaultRates()})
	s, _ := r.Get(types.ChannelCompetitor)
	tc := taskCtx(p, types.ChannelCompetitor)
	docs, cost, err := s.Fetcher(tc, p).Fetch(context.Background(), "bakery competitors")
	if err != nil || len(docs) != 1 {
		t.Fatalf("docs=%d err=%v", len(docs), err)
	}
	rates := ledger.DefaultRates()
	if want := rates.WebSearchCall + 2*rates.PageCrawl; cost < want-1e-12 || cost > want+1e-12 {
		t.Fatalf("cost=%v want=%v", cost, want)
	}
	pa, ok := pageAnalysisOf(docs[0])
	if !ok || pa.KeywordDensity[0].Term != "bread" || pa.KeywordDensity[0].Count != 2 || pa.InternalLinks != 3 {
		t.Fatalf("page analysis=%+v ok=%v", pa, ok)
	}
}

func TestForumExtractCountsComments(t *testing.T) {
	p := project()
	forum := &fakeForum{posts: []reddit.Post{
		{ID: "1", Title: "Best sourdough starter", Body: "my starter is slow", Permalink: "/r/Breadit/1", Subreddit: "Breadit", Comments: []string{"feed starter daily", "warm starter"}},
		{ID: "2", Title: "Croissant tips", Body: "butter keeps melting", Permalink: "/r/Breadit/2", Subreddit: "Breadit"},
	}}
	r := NewRegistry(logger.Nop(), Deps{Forum: forum, Rates: ledger.DefaultRates()})
	s, _ := r.Get(types.ChannelReddit)
	tc := taskCtx(p, types.ChannelReddit)
	docs, _, err := s.Fetcher(tc, p).Fetch(context.Background(), FallbackQuery(p))
	if err != nil || len(docs) != 2 {
		t.Fatalf("docs=%d err=%v", len(docs), err)
	}
	if seo.StrVal(docs[0].Link) != "https://www.reddit.com/r/Breadit/1" {
		t.Fatalf("link=%q", seo.StrVal(docs[0].Link))
	}
	sug, err := s.Extract(context.Background(), tc, p, orchestrator.Result{Documents: docs})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	f := sug.(seo.ForumSuggestion)
	if len(f.CommentKeywords) == 0 || f.CommentKeywords[0].Term != "starter" || f.CommentKeywords[0].Count != 2 {
		t.Fatalf("comment keywords=%+v", f.CommentKeywords)
	}
	if len(f.TitleKeywords) == 0 {
		t.Fatal("no title keywords")
	}
}
