package channels

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/yungbote/keywordiq-backend/internal/clients/reddit"
	types "github.com/yungbote/keywordiq-backend/internal/domain"
	"github.com/yungbote/keywordiq-backend/internal/domain/seo"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/extraction"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/ledger"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/orchestrator"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

const (
	postsPerQuery   = 10
	forumComponents = 20
	forumFrequencyN = 50
)

type forumStrategy struct {
	log   *logger.Logger
	gen   *Generator
	forum reddit.Client
	rates ledger.Rates
	guard *Guard
}

type forumPagemap struct {
	Subreddit string   `json:"subreddit,omitempty"`
	Score     int64    `json:"score"`
	Comments  []string `json:"comments"`
}

func (s *forumStrategy) Channel() types.Channel { return types.ChannelReddit }

func (s *forumStrategy) Queries(ctx context.Context, tc orchestrator.TaskContext, p *types.Project) []string {
	return ParseList(FallbackQuery(p))
}

func (s *forumStrategy) Fetcher(tc orchestrator.TaskContext, p *types.Project) orchestrator.Fetcher {
	return orchestrator.FetcherFunc(func(ctx context.Context, query string) ([]*types.Analysis, float64, error) {
		var posts []reddit.Post
		err := s.guard.Do(ctx, func(ctx context.Context) error {
			var err error
			posts, err = s.forum.Search(ctx, query, postsPerQuery)
			return err
		})
		cost := s.rates.ForumCall
		if err != nil {
			return nil, cost, err
		}
		out := make([]*types.Analysis, 0, len(posts))
		for _, post := range posts {
			comments := post.Comments
			if comments == nil {
				comments = []string{}
			}
			out = append(out, &types.Analysis{
				Title:       seo.StrPtr(post.Title),
				Description: seo.StrPtr(post.Body),
				Link:        seo.StrPtr(post.Link()),
				DisplayLink: seo.StrPtr("r/" + post.Subreddit),
				Pagemap:     jsonOf(forumPagemap{Subreddit: post.Subreddit, Score: post.Score, Comments: comments}),
			})
		}
		return out, cost, nil
	})
}

func postComments(a *types.Analysis) []string {
	var pm forumPagemap
	if len(a.Pagemap) == 0 || json.Unmarshal(a.Pagemap, &pm) != nil {
		return nil
	}
	return pm.Comments
}

func (s *forumStrategy) Extract(ctx context.Context, tc orchestrator.TaskContext, p *types.Project, res orchestrator.Result) (seo.Suggestion, error) {
	docs := res.Documents
	texts := make([]string, len(docs))
	titles := make([]string, 0, len(docs))
	bodies := make([]string, 0, len(docs))
	comments := make([]string, 0)
	for i, d := range docs {
		title, body := seo.StrVal(d.Title), seo.StrVal(d.Description)
		texts[i] = strings.TrimSpace(title + " " + body)
		titles = append(titles, title)
		bodies = append(bodies, body)
		comments = append(comments, postComments(d)...)
	}
	tokens := tokenize(texts)
	lsi := extraction.LSI(tokens, lsiTopics, lsiWordsPerTopic)
	return seo.ForumSuggestion{
		V:                seo.SuggestionVersion,
		LSIKeywords:      lsi.Keywords,
		LongTailKeywords: extraction.Terms(extraction.LongTail(tokens, extraction.DefaultLongTailMax, forumComponents)),
		SemanticTopics:   lsi.Topics,
		TitleKeywords:    extraction.Frequency(strings.Join(titles, " "), forumFrequencyN),
		BodyKeywords:     extraction.Frequency(strings.Join(bodies, " "), forumFrequencyN),
		CommentKeywords:  extraction.Frequency(strings.Join(comments, " "), forumFrequencyN),
	}, nil
}
