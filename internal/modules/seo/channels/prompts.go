package channels

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	types "github.com/yungbote/keywordiq-backend/internal/domain"
)

//go:embed prompts.yaml
var promptsYAML []byte

type promptPair struct {
	System string `yaml:"system"`
	User   string `yaml:"user"`
}

// Prompts is the catalog of completion prompts, keyed by channel for query
// generation.
type Prompts struct {
	User      string            `yaml:"user"`
	Queries   map[string]string `yaml:"queries"`
	Title     promptPair        `yaml:"title"`
	Templates promptPair        `yaml:"templates"`
}

func LoadPrompts(raw []byte) (*Prompts, error) {
	var p Prompts
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse prompts: %w", err)
	}
	if strings.TrimSpace(p.User) == "" {
		return nil, fmt.Errorf("parse prompts: missing user prompt")
	}
	if strings.TrimSpace(p.Title.System) == "" || strings.TrimSpace(p.Title.User) == "" {
		return nil, fmt.Errorf("parse prompts: missing title prompt")
	}
	return &p, nil
}

var defaultPrompts = func() *Prompts {
	p, err := LoadPrompts(promptsYAML)
	if err != nil {
		panic(err)
	}
	return p
}()

// DefaultPrompts is the embedded catalog.
func DefaultPrompts() *Prompts { return defaultPrompts }

// QuerySystem returns the query-generation system prompt for c, or "" when
// the channel builds its queries without the completion service.
func (p *Prompts) QuerySystem(c types.Channel) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(p.Queries[string(c)])
}

func render(tmpl string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

func projectVars(p *types.Project) map[string]string {
	return map[string]string{
		"business_type":   p.BusinessType,
		"target_audience": p.TargetAudience,
		"industry":        p.Industry,
		"location":        p.Country,
		"goals":           strings.Join(ProjectGoals(p), ", "),
	}
}
