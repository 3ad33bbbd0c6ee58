package channels

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	types "github.com/yungbote/keywordiq-backend/internal/domain"
	"github.com/yungbote/keywordiq-backend/internal/domain/seo"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/extraction"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/ledger"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/orchestrator"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
	"github.com/yungbote/keywordiq-backend/internal/platform/openai"
)

const (
	// MinQueryLength drops fragments such as stray numbering.
	MinQueryLength = 5
	MaxQueries     = 5
	TemplateCount  = 5
)

// Generator turns a project into search queries, cluster titles and title
// templates through the completion service. Token usage is added to the
// task's cost accumulator.
type Generator struct {
	log     *logger.Logger
	llm     openai.Client
	rates   ledger.Rates
	prompts *Prompts
}

func NewGenerator(log *logger.Logger, llm openai.Client, rates ledger.Rates, prompts *Prompts) *Generator {
	if prompts == nil {
		prompts = DefaultPrompts()
	}
	return &Generator{log: log.With("service", "QueryGenerator"), llm: llm, rates: rates, prompts: prompts}
}

func (g *Generator) complete(ctx context.Context, tc orchestrator.TaskContext, system, user string) (string, bool) {
	if g.llm == nil {
		return "", false
	}
	res, err := g.llm.Complete(ctx, system, user)
	if err != nil {
		g.log.Warn("Completion failed", "channel", tc.Channel(), "project_id", tc.ProjectID(), "error", err)
		return "", false
	}
	tc.Cost().Add(g.rates.LLM(res.Tokens))
	return res.Text, true
}

// Queries asks the completion service for search queries using the channel's
// prompt. When the channel has no prompt, the call fails or nothing usable
// comes back, the fallback query is used instead.
func (g *Generator) Queries(ctx context.Context, tc orchestrator.TaskContext, p *types.Project, fallback string) []string {
	system := g.prompts.QuerySystem(tc.Channel())
	if system != "" {
		if text, ok := g.complete(ctx, tc, system, render(g.prompts.User, projectVars(p))); ok {
			qs := ParseList(text)
			if len(qs) > MaxQueries {
				qs = qs[:MaxQueries]
			}
			if len(qs) > 0 {
				return qs
			}
		}
	}
	return ParseList(fallback)
}

// Title generates one title for a keyword group. Failures yield "".
func (g *Generator) Title(ctx context.Context, tc orchestrator.TaskContext, keywords []string) string {
	if len(keywords) == 0 {
		return ""
	}
	user := render(g.prompts.Title.User, map[string]string{"keywords": strings.Join(keywords, ", ")})
	text, ok := g.complete(ctx, tc, g.prompts.Title.System, user)
	if !ok {
		return ""
	}
	return extraction.CleanTitle(text)
}

// TitleClusters fills in the title of every cluster and returns the non-empty
// titles in cluster order.
func (g *Generator) TitleClusters(ctx context.Context, tc orchestrator.TaskContext, clusters []seo.TrendCluster) []string {
	titles := make([]string, 0, len(clusters))
	for i := range clusters {
		clusters[i].Title = g.Title(ctx, tc, clusters[i].Keywords)
		if clusters[i].Title != "" {
			titles = append(titles, clusters[i].Title)
		}
	}
	return titles
}

// Templates returns title templates carrying the {keyword} placeholder.
func (g *Generator) Templates(ctx context.Context, tc orchestrator.TaskContext, p *types.Project) []string {
	vars := projectVars(p)
	vars["count"] = strconv.Itoa(TemplateCount)
	text, ok := g.complete(ctx, tc, g.prompts.Templates.System, render(g.prompts.Templates.User, vars))
	if !ok {
		return []string{}
	}
	out := make([]string, 0, TemplateCount)
	for _, t := range parseLines(text) {
		if strings.Contains(strings.ToLower(t), "{keyword}") {
			out = append(out, t)
		}
	}
	return out
}

var (
	listMarker = regexp.MustCompile(`^\s*(?:[-*•]+|\d+[.)]|\[|\])\s*`)
	quoteChars = "\"'`“”‘’,[]"
)

func parseLines(text string) []string {
	out := make([]string, 0)
	seen := map[string]struct{}{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		for {
			next := listMarker.ReplaceAllString(line, "")
			if next == line {
				break
			}
			line = next
		}
		line = strings.TrimSpace(strings.Trim(line, quoteChars))
		if line == "" {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}

// ParseList splits completion output into queries: one per line with list
// numbering and quotes removed, dropping anything shorter than MinQueryLength.
func ParseList(text string) []string {
	lines := parseLines(text)
	out := lines[:0]
	for _, l := range lines {
		if len([]rune(l)) >= MinQueryLength {
			out = append(out, l)
		}
	}
	return out
}

// ProjectGoals decodes the project's goals list. Malformed JSON yields none.
func ProjectGoals(p *types.Project) []string {
	if p == nil || len(p.Goals) == 0 {
		return []string{}
	}
	var goals []string
	if err := json.Unmarshal(p.Goals, &goals); err != nil {
		return []string{}
	}
	return goals
}

// FallbackQuery is "{business_type} {target_audience} {industry} {goals}".
func FallbackQuery(p *types.Project) string {
	return strings.Join(strings.Fields(strings.Join([]string{
		p.BusinessType, p.TargetAudience, p.Industry, strings.Join(ProjectGoals(p), ", "),
	}, " ")), " ")
}

func newsFallbackQuery(p *types.Project) string {
	return strings.Join(strings.Fields(strings.Join([]string{
		p.BusinessType, p.TargetAudience, p.Industry, p.Country, "news",
	}, " ")), " ")
}
