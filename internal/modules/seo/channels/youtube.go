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
	videosPerQuery  = 10
	youtubeKeywords = 20
)

type youtubeStrategy struct {
	log    *logger.Logger
	gen    *Generator
	videos google.VideoSearcher
	rates  ledger.Rates
	guard  *Guard
}

func (s *youtubeStrategy) Channel() types.Channel { return types.ChannelYouTube }

func (s *youtubeStrategy) Queries(ctx context.Context, tc orchestrator.TaskContext, p *types.Project) []string {
	return s.gen.Queries(ctx, tc, p, FallbackQuery(p))
}

func (s *youtubeStrategy) Fetcher(tc orchestrator.TaskContext, p *types.Project) orchestrator.Fetcher {
	return orchestrator.FetcherFunc(func(ctx context.Context, query string) ([]*types.Analysis, float64, error) {
		var videos []google.Video
		err := s.guard.Do(ctx, func(ctx context.Context) error {
			var err error
			videos, err = s.videos.SearchVideos(ctx, query, videosPerQuery)
			return err
		})
		cost := s.rates.VideoSearchCall
		if err != nil {
			return nil, cost, err
		}
		out := make([]*types.Analysis, 0, len(videos))
		for _, v := range videos {
			if strings.TrimSpace(v.ID) == "" {
				continue
			}
			a := &types.Analysis{
				VideoID:       seo.StrPtr(v.ID),
				VideoURL:      seo.StrPtr(v.URL()),
				Title:         seo.StrPtr(v.Title),
				Description:   seo.StrPtr(v.Description),
				ChannelTitle:  seo.StrPtr(v.ChannelTitle),
				PublishDate:   v.PublishedAt,
				ThumbnailURL:  seo.StrPtr(v.ThumbnailURL),
				Views:         i64(v.Views),
				LikesCount:    i64(v.Likes),
				CommentsCount: i64(v.Comments),
				VideoDuration: i64(v.DurationSeconds),
			}
			if len(v.Tags) > 0 {
				a.Keywords = jsonOf(v.Tags)
			}
			out = append(out, a)
		}
		return out, cost, nil
	})
}

func engagementOf(a *types.Analysis) extraction.Engagement {
	val := func(p *int64) int64 {
		if p == nil {
			return 0
		}
		return *p
	}
	return extraction.Engagement{
		Views:           val(a.Views),
		Likes:           val(a.LikesCount),
		Comments:        val(a.CommentsCount),
		DurationSeconds: val(a.VideoDuration),
	}
}

func (s *youtubeStrategy) Extract(ctx context.Context, tc orchestrator.TaskContext, p *types.Project, res orchestrator.Result) (seo.Suggestion, error) {
	docs := res.Documents
	titles := make([]string, len(docs))
	descriptions := make([]string, len(docs))
	quality := make([]float64, len(docs))
	for i, d := range docs {
		titles[i] = seo.StrVal(d.Title)
		descriptions[i] = seo.StrVal(d.Description)
		quality[i] = extraction.Quality(engagementOf(d))
	}
	titleKW := extraction.RankAndFilter(extraction.WeightedKeywords(tokenize(titles), quality), youtubeKeywords)
	descKW := extraction.RankAndFilter(extraction.WeightedKeywords(tokenize(descriptions), quality), youtubeKeywords)

	combined := make([]string, 0, len(titleKW)+len(descKW))
	seen := map[string]struct{}{}
	for _, k := range append(append([]seo.ScoredKeyword{}, titleKW...), descKW...) {
		if _, ok := seen[k.Keyword]; ok {
			continue
		}
		seen[k.Keyword] = struct{}{}
		combined = append(combined, k.Keyword)
	}

	templates := s.gen.Templates(ctx, tc, p)
	contentTitles := make([]string, 0, len(templates)*len(combined))
	for _, t := range templates {
		lower := strings.ToLower(t)
		for _, k := range combined {
			contentTitles = append(contentTitles, strings.ReplaceAll(lower, "{keyword}", k))
		}
	}

	return seo.YouTubeSuggestion{
		V:                   seo.SuggestionVersion,
		TitleKeywords:       titleKW,
		DescriptionKeywords: descKW,
		ContentTitles:       contentTitles,
		TitleTemplates:      templates,
	}, nil
}
