package channels

import (
	"context"

	"github.com/yungbote/keywordiq-backend/internal/clients/google"
	types "github.com/yungbote/keywordiq-backend/internal/domain"
	"github.com/yungbote/keywordiq-backend/internal/domain/seo"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/extraction"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/ledger"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/orchestrator"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

const (
	// RecentNewsSuffix restricts news queries to the past week.
	RecentNewsSuffix = " AND when:7d"
	articlesPerQuery = 5
)

type newsStrategy struct {
	log    *logger.Logger
	gen    *Generator
	search google.WebSearcher
	rates  ledger.Rates
	guard  *Guard
}

func (s *newsStrategy) Channel() types.Channel { return types.ChannelNews }

func (s *newsStrategy) Queries(ctx context.Context, tc orchestrator.TaskContext, p *types.Project) []string {
	return s.gen.Queries(ctx, tc, p, newsFallbackQuery(p))
}

func (s *newsStrategy) Fetcher(tc orchestrator.TaskContext, p *types.Project) orchestrator.Fetcher {
	opts := google.SearchOptions{Num: articlesPerQuery, SortByDate: true, CountryCode: p.CountryCode}
	return searchFetcher(s.guard, s.search, s.rates, opts, RecentNewsSuffix)
}

func (s *newsStrategy) Extract(ctx context.Context, tc orchestrator.TaskContext, p *types.Project, res orchestrator.Result) (seo.Suggestion, error) {
	docs := res.Documents
	snippets := make([]string, len(docs))
	for i, d := range docs {
		snippets[i] = seo.StrVal(d.Snippet)
	}
	clusters := extraction.TrendClusters(tokenize(snippets))
	titles := s.gen.TitleClusters(ctx, tc, clusters)
	return seo.NewsSuggestion{
		V:                seo.SuggestionVersion,
		SuggestionTitles: titles,
		Clusters:         clusters,
	}, nil
}

// searchFetcher runs one Custom Search call per query and maps every item to
// a link-keyed document. suffix is appended to the query on the wire only.
func searchFetcher(guard *Guard, search google.WebSearcher, rates ledger.Rates, opts google.SearchOptions, suffix string) orchestrator.Fetcher {
	return orchestrator.FetcherFunc(func(ctx context.Context, query string) ([]*types.Analysis, float64, error) {
		var items []google.SearchItem
		err := guard.Do(ctx, func(ctx context.Context) error {
			var err error
			items, err = search.Search(ctx, query+suffix, opts)
			return err
		})
		cost := rates.WebSearchCall
		if err != nil {
			return nil, cost, err
		}
		out := make([]*types.Analysis, 0, len(items))
		for _, it := range items {
			out = append(out, analysisFromSearchItem(it))
		}
		return out, cost, nil
	})
}

func analysisFromSearchItem(it google.SearchItem) *types.Analysis {
	a := &types.Analysis{
		Title:            seo.StrPtr(it.Title),
		HTMLTitle:        seo.StrPtr(it.HTMLTitle),
		Link:             seo.StrPtr(it.Link),
		DisplayLink:      seo.StrPtr(it.DisplayLink),
		Snippet:          seo.StrPtr(it.Snippet),
		HTMLSnippet:      seo.StrPtr(it.HTMLSnippet),
		FormattedURL:     seo.StrPtr(it.FormattedURL),
		HTMLFormattedURL: seo.StrPtr(it.HTMLFormattedURL),
		Kind:             seo.StrPtr(it.Kind),
	}
	if len(it.Pagemap) > 0 {
		a.Pagemap = []byte(it.Pagemap)
	}
	return a
}
