package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/yungbote/keywordiq-backend/internal/platform/envutil"
	"github.com/yungbote/keywordiq-backend/internal/platform/httpx"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

// Post is a forum submission with its top-level comments.
type Post struct {
	ID        string
	Title     string
	Body      string
	Permalink string
	URL       string
	Subreddit string
	Score     int64
	Comments  []string
}

// Link is the canonical address used to key the post.
func (p Post) Link() string {
	if p.Permalink != "" {
		return "https://www.reddit.com" + p.Permalink
	}
	return p.URL
}

type Client interface {
	Search(ctx context.Context, query string, limit int) ([]Post, error)
}

type Config struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
	TokenURL     string
	APIBaseURL   string
	Timeout      time.Duration
	MaxRetries   int
	// CommentLimit bounds the top-level comments fetched per post.
	CommentLimit int
}

func ConfigFromEnv() Config {
	return Config{
		ClientID:     envutil.String("REDDIT_CLIENT_ID", ""),
		ClientSecret: envutil.String("REDDIT_CLIENT_SECRET", ""),
		UserAgent:    envutil.String("REDDIT_USER_AGENT", "keywordiq/1.0"),
		TokenURL:     envutil.String("REDDIT_TOKEN_URL", "https://www.reddit.com/api/v1/access_token"),
		APIBaseURL:   envutil.String("REDDIT_API_BASE_URL", "https://oauth.reddit.com"),
		Timeout:      envutil.Seconds("REDDIT_TIMEOUT_SECONDS", 30*time.Second),
		MaxRetries:   envutil.Int("REDDIT_MAX_RETRIES", 2),
		CommentLimit: envutil.Int("REDDIT_COMMENT_LIMIT", 10),
	}
}

type client struct {
	log          *logger.Logger
	http         *http.Client
	baseURL      string
	maxRetries   int
	commentLimit int
}

type userAgentTransport struct {
	ua   string
	base http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("User-Agent", t.ua)
	return t.base.RoundTrip(r)
}

func NewClient(log *logger.Logger, cfg Config) (Client, error) {
	if strings.TrimSpace(cfg.ClientID) == "" || strings.TrimSpace(cfg.ClientSecret) == "" {
		return nil, fmt.Errorf("missing REDDIT_CLIENT_ID / REDDIT_CLIENT_SECRET")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.CommentLimit <= 0 {
		cfg.CommentLimit = 10
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "keywordiq/1.0"
	}

	// Token and API requests share this transport; both require a User-Agent.
	base := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: &userAgentTransport{ua: cfg.UserAgent, base: http.DefaultTransport},
	}
	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	hc := cc.Client(tokenCtx)
	hc.Timeout = cfg.Timeout

	return &client{
		log:          log.With("client", "RedditClient"),
		http:         hc,
		baseURL:      strings.TrimRight(cfg.APIBaseURL, "/"),
		maxRetries:   cfg.MaxRetries,
		commentLimit: cfg.CommentLimit,
	}, nil
}

type listing struct {
	Kind string `json:"kind"`
	Data struct {
		Children []struct {
			Kind string          `json:"kind"`
			Data json.RawMessage `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type postData struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Selftext  string `json:"selftext"`
	Permalink string `json:"permalink"`
	URL       string `json:"url"`
	Subreddit string `json:"subreddit"`
	Score     int64  `json:"score"`
}

type commentData struct {
	Body string `json:"body"`
}

func (c *client) Search(ctx context.Context, query string, limit int) ([]Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("sort", "relevance")
	q.Set("type", "link")

	var res listing
	if err := c.get(ctx, "/search?"+q.Encode(), &res); err != nil {
		return nil, err
	}

	posts := make([]Post, 0, len(res.Data.Children))
	for _, child := range res.Data.Children {
		if child.Kind != "t3" {
			continue
		}
		var d postData
		if err := json.Unmarshal(child.Data, &d); err != nil || d.ID == "" {
			continue
		}
		p := Post{
			ID:        d.ID,
			Title:     d.Title,
			Body:      d.Selftext,
			Permalink: d.Permalink,
			URL:       d.URL,
			Subreddit: d.Subreddit,
			Score:     d.Score,
		}
		comments, err := c.topComments(ctx, d.ID)
		if err != nil {
			// A post without comments is still useful.
			c.log.Warn("Reddit comments fetch failed", "post_id", d.ID, "error", err)
		}
		p.Comments = comments
		posts = append(posts, p)
	}
	return posts, nil
}

func (c *client) topComments(ctx context.Context, postID string) ([]string, error) {
	path := fmt.Sprintf("/comments/%s?limit=%d&depth=1", url.PathEscape(postID), c.commentLimit)
	var pages []listing
	if err := c.get(ctx, path, &pages); err != nil {
		return nil, err
	}
	if len(pages) < 2 {
		return nil, nil
	}
	out := make([]string, 0, len(pages[1].Data.Children))
	for _, child := range pages[1].Data.Children {
		if child.Kind != "t1" {
			continue
		}
		var d commentData
		if err := json.Unmarshal(child.Data, &d); err != nil {
			continue
		}
		if body := strings.TrimSpace(d.Body); body != "" && body != "[deleted]" && body != "[removed]" {
			out = append(out, body)
		}
		if len(out) >= c.commentLimit {
			break
		}
	}
	return out, nil
}

func (c *client) get(ctx context.Context, path string, out any) error {
	var raw []byte
	err := httpx.Retry(ctx, c.log, "reddit"+strings.SplitN(path, "?", 2)[0], c.maxRetries, func(ctx context.Context) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		b, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return resp, readErr
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return resp, &httpx.StatusError{Service: "reddit", StatusCode: resp.StatusCode, Body: string(b)}
		}
		raw = b
		return resp, nil
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("reddit decode error: %w", err)
	}
	return nil
}
