package channels

import (
	"context"
	"encoding/json"
	"sort"

	"gorm.io/datatypes"

	"github.com/yungbote/keywordiq-backend/internal/clients/google"
	"github.com/yungbote/keywordiq-backend/internal/clients/reddit"
	"github.com/yungbote/keywordiq-backend/internal/clients/web"
	types "github.com/yungbote/keywordiq-backend/internal/domain"
	"github.com/yungbote/keywordiq-backend/internal/domain/seo"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/extraction"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/ledger"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/orchestrator"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
	"github.com/yungbote/keywordiq-backend/internal/platform/openai"
)

// Strategy is everything channel specific in a pipeline run: which queries to
// issue, how to fetch one query, and how to turn the stored documents into
// the channel's suggestion.
type Strategy interface {
	Channel() types.Channel
	Queries(ctx context.Context, tc orchestrator.TaskContext, p *types.Project) []string
	Fetcher(tc orchestrator.TaskContext, p *types.Project) orchestrator.Fetcher
	Extract(ctx context.Context, tc orchestrator.TaskContext, p *types.Project, res orchestrator.Result) (seo.Suggestion, error)
}

// Deps are the clients strategies call. A nil client leaves its channel
// unregistered.
type Deps struct {
	LLM    openai.Client
	Web    google.WebSearcher
	Places google.PlaceSearcher
	Videos google.VideoSearcher
	Forum  reddit.Client
	Pages  web.PageFetcher
	Rates  ledger.Rates
	Guards *Guards
}

// Registry is the channel dispatch table.
type Registry struct {
	strategies map[types.Channel]Strategy
}

func NewRegistry(log *logger.Logger, deps Deps) *Registry {
	log = log.With("module", "channels")
	gen := NewGenerator(log, deps.LLM, deps.Rates, DefaultPrompts())
	r := &Registry{strategies: map[types.Channel]Strategy{}}
	if deps.Videos != nil {
		r.Register(&youtubeStrategy{log: log, gen: gen, videos: deps.Videos, rates: deps.Rates, guard: deps.Guards.For(types.ChannelYouTube)})
	}
	if deps.Web != nil {
		r.Register(&newsStrategy{log: log, gen: gen, search: deps.Web, rates: deps.Rates, guard: deps.Guards.For(types.ChannelNews)})
		r.Register(&searchStrategy{log: log, gen: gen, search: deps.Web, rates: deps.Rates, guard: deps.Guards.For(types.ChannelGoogleSearch)})
		if deps.Pages != nil {
			r.Register(&competitorStrategy{log: log, gen: gen, search: deps.Web, pages: deps.Pages, rates: deps.Rates, guard: deps.Guards.For(types.ChannelCompetitor)})
		}
	}
	if deps.Places != nil {
		r.Register(&mapsStrategy{log: log, gen: gen, places: deps.Places, rates: deps.Rates, guard: deps.Guards.For(types.ChannelMaps)})
	}
	if deps.Forum != nil {
		r.Register(&forumStrategy{log: log, gen: gen, forum: deps.Forum, rates: deps.Rates, guard: deps.Guards.For(types.ChannelReddit)})
	}
	return r
}

// Register adds or replaces the strategy for s.Channel().
func (r *Registry) Register(s Strategy) {
	r.strategies[s.Channel()] = s
}

func (r *Registry) Get(c types.Channel) (Strategy, bool) {
	s, ok := r.strategies[c]
	return s, ok
}

func (r *Registry) Channels() []types.Channel {
	out := make([]types.Channel, 0, len(r.strategies))
	for c := range r.strategies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func tokenize(texts []string) [][]string {
	return extraction.DefaultTokenizer().TokenizeAll(texts)
}

func jsonOf(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

func i64(v int64) *int64 { return &v }
