package extraction

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

//go:embed stopwords.yaml
var stopwordsYAML []byte

type stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStopwords parses a YAML document of the form `terms: [..]`.
func LoadStopwords(raw []byte) ([]string, error) {
	var sl stoplist
	if err := yaml.Unmarshal(raw, &sl); err != nil {
		return nil, fmt.Errorf("parse stoplist: %w", err)
	}
	return sl.Terms, nil
}

var htmlTag = regexp.MustCompile(`<[^>]+>`)

// Tokenizer lowercases, strips markup and splits on anything that is not a
// letter or digit. Stop words and tokens containing non-letters are dropped.
type Tokenizer struct {
	stop map[string]struct{}
}

func NewTokenizer(stopwords []string) *Tokenizer {
	stops := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stops[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	return &Tokenizer{stop: stops}
}

var defaultTokenizer = func() *Tokenizer {
	terms, err := LoadStopwords(stopwordsYAML)
	if err != nil {
		panic(err)
	}
	return NewTokenizer(terms)
}()

// DefaultTokenizer uses the embedded English stop list.
func DefaultTokenizer() *Tokenizer { return defaultTokenizer }

func (t *Tokenizer) IsStop(word string) bool {
	_, ok := t.stop[word]
	return ok
}

func (t *Tokenizer) Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ToLower(htmlTag.ReplaceAllString(text, " "))
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if !isAlpha(f) || t.IsStop(f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// TokenizeAll tokenizes each text into its own document.
func (t *Tokenizer) TokenizeAll(texts []string) [][]string {
	docs := make([][]string, len(texts))
	for i, s := range texts {
		docs[i] = t.Tokenize(s)
	}
	return docs
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// nonEmpty counts documents with at least one token.
func nonEmpty(docs [][]string) int {
	n := 0
	for _, d := range docs {
		if len(d) > 0 {
			n++
		}
	}
	return n
}
