package seo

// SuggestionVersion is written into every stored suggestion document.
const SuggestionVersion = 1

// Suggestion is the typed record cached on a project for one channel.
type Suggestion interface {
	Channel() Channel
	Version() int
}

type WeightedTerm struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

type Topic struct {
	Index int            `json:"index"`
	Terms []WeightedTerm `json:"terms"`
}

type ScoredKeyword struct {
	Keyword string  `json:"keyword"`
	Score   float64 `json:"score"`
}

type TermCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// TrendCluster is one k-means group of documents with its top keywords and
// the generated title.
type TrendCluster struct {
	Label    int      `json:"label"`
	Keywords []string `json:"keywords"`
	Title    string   `json:"title"`
}

type GeoCluster struct {
	Count  int      `json:"count"`
	Places []string `json:"places"`
}

type PageAnalysis struct {
	URL             string              `json:"url"`
	Title           string              `json:"title"`
	MetaDescription string              `json:"meta_description"`
	Headers         map[string][]string `json:"headers"`
	KeywordDensity  []TermCount         `json:"keyword_density"`
	InternalLinks   int                 `json:"internal_links"`
	ExternalLinks   int                 `json:"external_links"`
}

type YouTubeSuggestion struct {
	V                   int             `json:"v"`
	TitleKeywords       []ScoredKeyword `json:"title_keywords"`
	DescriptionKeywords []ScoredKeyword `json:"description_keywords"`
	ContentTitles       []string        `json:"content_titles"`
	TitleTemplates      []string        `json:"title_templates"`
}

func (YouTubeSuggestion) Channel() Channel { return ChannelYouTube }
func (s YouTubeSuggestion) Version() int   { return s.V }

type NewsSuggestion struct {
	V                int            `json:"v"`
	SuggestionTitles []string       `json:"suggestion_titles"`
	Clusters         []TrendCluster `json:"clusters"`
}

func (NewsSuggestion) Channel() Channel { return ChannelNews }
func (s NewsSuggestion) Version() int   { return s.V }

type MapsSuggestion struct {
	V               int                   `json:"v"`
	Keywords        []string              `json:"keywords"`
	GeoDistribution map[string]GeoCluster `json:"geo_distribution"`
}

func (MapsSuggestion) Channel() Channel { return ChannelMaps }
func (s MapsSuggestion) Version() int   { return s.V }

type SearchSuggestion struct {
	V                int            `json:"v"`
	SuggestionTitles []string       `json:"suggestion_titles"`
	Clusters         []TrendCluster `json:"clusters"`
	LSIKeywords      []string       `json:"lsi_keywords"`
	LongTailKeywords []string       `json:"long_tail_keywords"`
	SemanticTopics   []Topic        `json:"semantic_topics"`
	TokenFrequency   []TermCount    `json:"token_frequency"`
}

func (SearchSuggestion) Channel() Channel { return ChannelGoogleSearch }
func (s SearchSuggestion) Version() int   { return s.V }

type CompetitorSuggestion struct {
	V                int            `json:"v"`
	SuggestionTitles []string       `json:"suggestion_titles"`
	Clusters         []TrendCluster `json:"clusters"`
	LSIKeywords      []string       `json:"lsi_keywords"`
	LongTailKeywords []string       `json:"long_tail_keywords"`
	SemanticTopics   []Topic        `json:"semantic_topics"`
	Pages            []PageAnalysis `json:"pages"`
}

func (CompetitorSuggestion) Channel() Channel { return ChannelCompetitor }
func (s CompetitorSuggestion) Version() int   { return s.V }

type ForumSuggestion struct {
	V                int         `json:"v"`
	LSIKeywords      []string    `json:"lsi_keywords"`
	LongTailKeywords []string    `json:"long_tail_keywords"`
	SemanticTopics   []Topic     `json:"semantic_topics"`
	TitleKeywords    []TermCount `json:"title_keywords"`
	BodyKeywords     []TermCount `json:"body_keywords"`
	CommentKeywords  []TermCount `json:"comment_keywords"`
}

func (ForumSuggestion) Channel() Channel { return ChannelReddit }
func (s ForumSuggestion) Version() int   { return s.V }
