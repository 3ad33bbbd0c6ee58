package channels

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/yungbote/keywordiq-backend/internal/clients/google"
	"github.com/yungbote/keywordiq-backend/internal/clients/web"
	types "github.com/yungbote/keywordiq-backend/internal/domain"
	"github.com/yungbote/keywordiq-backend/internal/domain/seo"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/extraction"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/ledger"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/orchestrator"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

const (
	competitorsPerQuery  = 5
	competitorComponents = 20
	densityTerms         = 20
)

type competitorStrategy struct {
	log    *logger.Logger
	gen    *Generator
	search google.WebSearcher
	pages  web.PageFetcher
	rates  ledger.Rates
	guard  *Guard
}

func (s *competitorStrategy) Channel() types.Channel { return types.ChannelCompetitor }

func (s *competitorStrategy) Queries(ctx context.Context, tc orchestrator.TaskContext, p *types.Project) []string {
	return s.gen.Queries(ctx, tc, p, FallbackQuery(p))
}

// Fetcher searches for competitors and crawls every result page. Pages that
// cannot be fetched are skipped; the page analysis travels in Pagemap.
func (s *competitorStrategy) Fetcher(tc orchestrator.TaskContext, p *types.Project) orchestrator.Fetcher {
	opts := google.SearchOptions{Num: competitorsPerQuery, CountryCode: p.CountryCode}
	return orchestrator.FetcherFunc(func(ctx context.Context, query string) ([]*types.Analysis, float64, error) {
		var items []google.SearchItem
		err := s.guard.Do(ctx, func(ctx context.Context) error {
			var err error
			items, err = s.search.Search(ctx, query, opts)
			return err
		})
		cost := s.rates.WebSearchCall
		if err != nil {
			return nil, cost, err
		}
		out := make([]*types.Analysis, 0, len(items))
		for _, it := range items {
			cost += s.rates.PageCrawl
			page, err := s.pages.Fetch(ctx, it.Link)
			if err != nil {
				s.log.Debug("Competitor page skipped", "url", it.Link, "error", err)
				continue
			}
			out = append(out, competitorAnalysis(it, page))
		}
		return out, cost, nil
	})
}

func competitorAnalysis(it google.SearchItem, page *web.Page) *types.Analysis {
	title := page.Title
	if title == "" {
		title = it.Title
	}
	pa := seo.PageAnalysis{
		URL:             it.Link,
		Title:           title,
		MetaDescription: page.MetaDescription,
		Headers:         page.Headers,
		KeywordDensity:  extraction.Frequency(page.BodyText(), densityTerms),
		InternalLinks:   page.InternalLinks,
		ExternalLinks:   page.ExternalLinks,
	}
	if pa.Headers == nil {
		pa.Headers = map[string][]string{}
	}
	return &types.Analysis{
		Title:       seo.StrPtr(title),
		Description: seo.StrPtr(page.MetaDescription),
		Link:        seo.StrPtr(it.Link),
		DisplayLink: seo.StrPtr(it.DisplayLink),
		Snippet:     seo.StrPtr(it.Snippet),
		Kind:        seo.StrPtr(it.Kind),
		Pagemap:     jsonOf(pa),
	}
}

func pageAnalysisOf(a *types.Analysis) (seo.PageAnalysis, bool) {
	var pa seo.PageAnalysis
	if len(a.Pagemap) == 0 || json.Unmarshal(a.Pagemap, &pa) != nil || pa.URL == "" {
		return pa, false
	}
	return pa, true
}

func (s *competitorStrategy) Extract(ctx context.Context, tc orchestrator.TaskContext, p *types.Project, res orchestrator.Result) (seo.Suggestion, error) {
	docs := res.Documents
	texts := make([]string, len(docs))
	pages := make([]seo.PageAnalysis, 0, len(docs))
	for i, d := range docs {
		texts[i] = strings.TrimSpace(seo.StrVal(d.Title) + " " + seo.StrVal(d.Description))
		if pa, ok := pageAnalysisOf(d); ok {
			pages = append(pages, pa)
		}
	}
	tokens := tokenize(texts)
	lsi := extraction.LSI(tokens, lsiTopics, lsiWordsPerTopic)
	clusters := extraction.TrendClusters(tokens)
	titles := s.gen.TitleClusters(ctx, tc, clusters)
	return seo.CompetitorSuggestion{
		V:                seo.SuggestionVersion,
		SuggestionTitles: titles,
		Clusters:         clusters,
		LSIKeywords:      lsi.Keywords,
		LongTailKeywords: extraction.Terms(extraction.LongTail(tokens, extraction.DefaultLongTailMax, competitorComponents)),
		SemanticTopics:   lsi.Topics,
		Pages:            pages,
	}, nil
}
