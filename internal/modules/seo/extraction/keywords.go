package extraction

import (
	"sort"
	"strings"
	"unicode"

	"github.com/yungbote/keywordiq-backend/internal/domain/seo"
)

// Engagement is the per-item signal used to weight keywords.
type Engagement struct {
	Views           int64
	Likes           int64
	Comments        int64
	DurationSeconds int64
}

// Quality saturates each signal with x/(x+2) and weights views 2, likes 1.5,
// comments 1 and duration 0.5.
func Quality(e Engagement) float64 {
	sat := func(x int64) float64 {
		if x <= 0 {
			return 0
		}
		f := float64(x)
		return f / (f + 2)
	}
	return 2*sat(e.Views) + 1.5*sat(e.Likes) + 1*sat(e.Comments) + 0.5*sat(e.DurationSeconds)
}

// WeightedKeywords scores every term as the sum over documents of its TF-IDF
// weight in that document times the document's quality. docs and quality are
// parallel slices.
func WeightedKeywords(docs [][]string, quality []float64) []seo.ScoredKeyword {
	c := NewCorpus(docs)
	m := c.TFIDF()
	if m == nil {
		return []seo.ScoredKeyword{}
	}
	scores := make([]float64, len(c.Vocab))
	for i := range docs {
		q := 0.0
		if i < len(quality) {
			q = quality[i]
		}
		if q == 0 {
			continue
		}
		row := m.RawRowView(i)
		for j, w := range row {
			scores[j] += w * q
		}
	}
	out := make([]seo.ScoredKeyword, 0, len(c.Vocab))
	for j, term := range c.Vocab {
		if scores[j] > 0 {
			out = append(out, seo.ScoredKeyword{Keyword: term, Score: scores[j]})
		}
	}
	return out
}

// RankAndFilter sorts by score descending (keyword ascending on ties), drops
// numeric, punctuation-only and URL-fragment keywords and keeps at most limit
// entries. limit <= 0 keeps everything.
func RankAndFilter(in []seo.ScoredKeyword, limit int) []seo.ScoredKeyword {
	out := make([]seo.ScoredKeyword, 0, len(in))
	for _, k := range in {
		if keepKeyword(k.Keyword) {
			out = append(out, seo.ScoredKeyword{Keyword: k.Keyword, Score: round(k.Score, 4)})
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Score != out[b].Score {
			return out[a].Score > out[b].Score
		}
		return out[a].Keyword < out[b].Keyword
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

var urlFragments = []string{"http", "www", ".com", "://", "/"}

func keepKeyword(k string) bool {
	k = strings.TrimSpace(k)
	if k == "" {
		return false
	}
	lower := strings.ToLower(k)
	for _, frag := range urlFragments {
		if strings.Contains(lower, frag) {
			return false
		}
	}
	numeric, punct := true, true
	for _, r := range k {
		if !unicode.IsDigit(r) && r != '.' && r != ',' {
			numeric = false
		}
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			punct = false
		}
	}
	return !numeric && !punct
}

// MostCommon counts tokens and returns the limit most frequent, ties in
// first-seen order. limit <= 0 returns all.
func MostCommon(tokens []string, limit int) []seo.TermCount {
	counts := map[string]int{}
	order := make([]string, 0)
	for _, t := range tokens {
		if _, ok := counts[t]; !ok {
			order = append(order, t)
		}
		counts[t]++
	}
	out := make([]seo.TermCount, len(order))
	for i, t := range order {
		out[i] = seo.TermCount{Term: t, Count: counts[t]}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Count > out[b].Count })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Frequency tokenizes text with the default tokenizer and counts tokens.
func Frequency(text string, limit int) []seo.TermCount {
	return MostCommon(DefaultTokenizer().Tokenize(text), limit)
}
