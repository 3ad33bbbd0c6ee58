package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/yungbote/keywordiq-backend/internal/platform/envutil"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

// Page is the on-page SEO structure of one fetched document.
type Page struct {
	URL             string
	Title           string
	MetaDescription string
	// Headers maps h1..h6 to their texts in document order.
	Headers       map[string][]string
	Paragraphs    []string
	InternalLinks int
	ExternalLinks int
}

// BodyText joins the paragraph texts used for keyword density.
func (p Page) BodyText() string { return strings.Join(p.Paragraphs, " ") }

type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*Page, error)
}

type Config struct {
	UserAgent string
	Timeout   time.Duration
	// MaxBodyBytes truncates oversized documents.
	MaxBodyBytes int64
}

func ConfigFromEnv() Config {
	return Config{
		UserAgent:    envutil.String("CRAWL_USER_AGENT", "Mozilla/5.0 (compatible; KeywordIQ/1.0)"),
		Timeout:      envutil.Seconds("CRAWL_TIMEOUT_SECONDS", 15*time.Second),
		MaxBodyBytes: int64(envutil.Int("CRAWL_MAX_BODY_BYTES", 4<<20)),
	}
}

type pageFetcher struct {
	log  *logger.Logger
	http *http.Client
	cfg  Config
}

func NewPageFetcher(log *logger.Logger, cfg Config) PageFetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 4 << 20
	}
	return &pageFetcher{
		log:  log.With("client", "PageFetcher"),
		http: &http.Client{Timeout: cfg.Timeout},
		cfg:  cfg,
	}
}

func (f *pageFetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("URL must be http or https")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	if f.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", f.cfg.UserAgent)
	}
	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u.Host, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: http %d", u.Host, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, f.cfg.MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", u.Host, err)
	}
	return ParseDocument(u, doc), nil
}

var headerTags = []string{"h1", "h2", "h3", "h4", "h5", "h6"}

// ParseDocument extracts the page structure from an already parsed document.
// Links are internal when they resolve to base's host.
func ParseDocument(base *url.URL, doc *goquery.Document) *Page {
	p := &Page{
		URL:     base.String(),
		Title:   strings.TrimSpace(doc.Find("title").First().Text()),
		Headers: map[string][]string{},
	}
	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		p.MetaDescription = strings.TrimSpace(desc)
	}
	for _, tag := range headerTags {
		doc.Find(tag).Each(func(_ int, s *goquery.Selection) {
			if t := collapse(s.Text()); t != "" {
				p.Headers[tag] = append(p.Headers[tag], t)
			}
		})
	}
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if t := collapse(s.Text()); t != "" {
			p.Paragraphs = append(p.Paragraphs, t)
		}
	})
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		if strings.EqualFold(abs.Hostname(), base.Hostname()) {
			p.InternalLinks++
		} else {
			p.ExternalLinks++
		}
	})
	return p
}

func collapse(s string) string { return strings.Join(strings.Fields(s), " ") }
