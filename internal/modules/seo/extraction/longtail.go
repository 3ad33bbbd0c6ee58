package extraction

import (
	"sort"

	"github.com/yungbote/keywordiq-backend/internal/domain/seo"
)

const (
	DefaultLongTailMax        = 50
	DefaultLongTailComponents = 100
)

// LongTail projects the TF-IDF matrix onto nComponents singular vectors and
// computes document cosine similarity. Each document's tokens are paired with
// its similarity row (the shorter of the two decides how many pairs exist),
// ordered by (similarity, word) descending and cut to maxKeywords. The words
// kept across all documents are counted and the maxKeywords most frequent are
// returned; ties keep first-seen order.
func LongTail(docs [][]string, maxKeywords, nComponents int) []seo.TermCount {
	if maxKeywords <= 0 || nonEmpty(docs) == 0 {
		return []seo.TermCount{}
	}
	c := NewCorpus(docs)
	k := nComponents
	if k > len(docs) {
		k = len(docs)
	}
	if k > len(c.Vocab) {
		k = len(c.Vocab)
	}
	svd, ok := truncatedSVD(c.TFIDF(), k)
	if !ok {
		return []seo.TermCount{}
	}
	sim := cosineRows(svd.reduced())

	type pair struct {
		sim  float64
		word string
	}
	var kept []string
	for i, doc := range docs {
		n := len(doc)
		if len(sim[i]) < n {
			n = len(sim[i])
		}
		pairs := make([]pair, n)
		for j := 0; j < n; j++ {
			pairs[j] = pair{sim: sim[i][j], word: doc[j]}
		}
		sort.SliceStable(pairs, func(a, b int) bool {
			if pairs[a].sim != pairs[b].sim {
				return pairs[a].sim > pairs[b].sim
			}
			return pairs[a].word > pairs[b].word
		})
		if len(pairs) > maxKeywords {
			pairs = pairs[:maxKeywords]
		}
		for _, p := range pairs {
			kept = append(kept, p.word)
		}
	}
	return MostCommon(kept, maxKeywords)
}

// Terms flattens counts into their terms.
func Terms(counts []seo.TermCount) []string {
	out := make([]string, len(counts))
	for i, c := range counts {
		out[i] = c.Term
	}
	return out
}
