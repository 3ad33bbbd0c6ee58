package google

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

// SearchItem is one Custom Search result.
type SearchItem struct {
	Kind             string
	Title            string
	HTMLTitle        string
	Link             string
	DisplayLink      string
	Snippet          string
	HTMLSnippet      string
	FormattedURL     string
	HTMLFormattedURL string
	Pagemap          json.RawMessage
}

type SearchOptions struct {
	// Num is capped at 10 by the API.
	Num        int64
	SortByDate bool
	// CountryCode biases results (gl); empty means no bias.
	CountryCode string
}

type WebSearcher interface {
	Search(ctx context.Context, query string, opts SearchOptions) ([]SearchItem, error)
}

type webSearcher struct {
	log *logger.Logger
	svc *customsearch.Service
	cx  string
}

func NewWebSearcher(ctx context.Context, log *logger.Logger, apiKey, engineID string, extra ...option.ClientOption) (WebSearcher, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("missing GOOGLE_SEARCH_API_KEY")
	}
	if strings.TrimSpace(engineID) == "" {
		return nil, fmt.Errorf("missing CUSTOM_SEARCH_ENGINE_ID")
	}
	opts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, extra...)
	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("customsearch: %w", err)
	}
	return &webSearcher{log: log.With("client", "GoogleWebSearcher"), svc: svc, cx: engineID}, nil
}

func (s *webSearcher) Search(ctx context.Context, query string, opts SearchOptions) ([]SearchItem, error) {
	num := opts.Num
	if num <= 0 || num > 10 {
		num = 10
	}
	call := s.svc.Cse.List().
		Cx(s.cx).
		Q(query).
		Num(num).
		Lr("lang_en")
	if opts.SortByDate {
		call = call.Sort("date")
	}
	if cc := strings.TrimSpace(opts.CountryCode); cc != "" {
		call = call.Gl(strings.ToLower(cc))
	}

	res, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("customsearch list: %w", err)
	}

	out := make([]SearchItem, 0, len(res.Items))
	for _, it := range res.Items {
		if it == nil || strings.TrimSpace(it.Link) == "" {
			continue
		}
		out = append(out, SearchItem{
			Kind:             it.Kind,
			Title:            it.Title,
			HTMLTitle:        it.HtmlTitle,
			Link:             it.Link,
			DisplayLink:      it.DisplayLink,
			Snippet:          it.Snippet,
			HTMLSnippet:      it.HtmlSnippet,
			FormattedURL:     it.FormattedUrl,
			HTMLFormattedURL: it.HtmlFormattedUrl,
			Pagemap:          json.RawMessage(it.Pagemap),
		})
	}
	s.log.Debug("Custom search completed", "results", len(out))
	return out, nil
}
