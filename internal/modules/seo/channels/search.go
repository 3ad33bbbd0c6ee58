package channels

import (
	"context"
	"strings"

	"github.com/yungbote/keywordiq-backend/internal/clients/google"
	types "github.com/yungbote/keywordiq-backend/internal/domain"
	"github.com/yungbote/keywordiq-backend/internal/domain/seo"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/extraction"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/ledger"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/orchestrator"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

const (
	lsiTopics        = 5
	lsiWordsPerTopic = 10
	tokenFrequencyN  = 50
	resultsPerQuery  = 10
)

type searchStrategy struct {
	log    *logger.Logger
	gen    *Generator
	search google.WebSearcher
	rates  ledger.Rates
	guard  *Guard
}

func (s *searchStrategy) Channel() types.Channel { return types.ChannelGoogleSearch }

// Queries issues the project's own description as the single search.
func (s *searchStrategy) Queries(ctx context.Context, tc orchestrator.TaskContext, p *types.Project) []string {
	return ParseList(FallbackQuery(p))
}

func (s *searchStrategy) Fetcher(tc orchestrator.TaskContext, p *types.Project) orchestrator.Fetcher {
	opts := google.SearchOptions{Num: resultsPerQuery, CountryCode: p.CountryCode}
	return searchFetcher(s.guard, s.search, s.rates, opts, "")
}

func (s *searchStrategy) Extract(ctx context.Context, tc orchestrator.TaskContext, p *types.Project, res orchestrator.Result) (seo.Suggestion, error) {
	docs := res.Documents
	texts := make([]string, len(docs))
	freq := make([]string, 0, len(docs)*3)
	for i, d := range docs {
		texts[i] = strings.TrimSpace(seo.StrVal(d.Title) + " " + seo.StrVal(d.Snippet))
		freq = append(freq, seo.StrVal(d.Title), seo.StrVal(d.Snippet), seo.StrVal(d.Link))
	}
	tokens := tokenize(texts)
	lsi := extraction.LSI(tokens, lsiTopics, lsiWordsPerTopic)
	clusters := extraction.TrendClusters(tokens)
	titles := s.gen.TitleClusters(ctx, tc, clusters)
	return seo.SearchSuggestion{
		V:                seo.SuggestionVersion,
		SuggestionTitles: titles,
		Clusters:         clusters,
		LSIKeywords:      lsi.Keywords,
		LongTailKeywords: extraction.Terms(extraction.LongTail(tokens, extraction.DefaultLongTailMax, extraction.DefaultLongTailComponents)),
		SemanticTopics:   lsi.Topics,
		TokenFrequency:   extraction.Frequency(strings.Join(freq, " "), tokenFrequencyN),
	}, nil
}
