package extraction

import (
	"math"
	"sort"

	"github.com/yungbote/keywordiq-backend/internal/domain/seo"
)

type LSIResult struct {
	Topics   []seo.Topic
	Keywords []string
}

// LSI factors the bag-of-words matrix and reports, per topic, the numWords
// terms with the largest absolute loading. numTopics is bounded by the rank
// of the matrix. Fewer than two non-empty documents yield an empty result.
func LSI(docs [][]string, numTopics, numWords int) LSIResult {
	empty := LSIResult{Topics: []seo.Topic{}, Keywords: []string{}}
	if numTopics <= 0 || numWords <= 0 || nonEmpty(docs) < 2 {
		return empty
	}
	c := NewCorpus(docs)
	svd, ok := truncatedSVD(c.Counts(), numTopics)
	if !ok {
		return empty
	}

	terms := len(c.Vocab)
	out := LSIResult{
		Topics:   make([]seo.Topic, 0, svd.K()),
		Keywords: make([]string, 0, svd.K()*numWords),
	}
	for j := 0; j < svd.K(); j++ {
		idx := make([]int, terms)
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool {
			la, lb := math.Abs(svd.V.At(idx[a], j)), math.Abs(svd.V.At(idx[b], j))
			if la != lb {
				return la > lb
			}
			return c.Vocab[idx[a]] < c.Vocab[idx[b]]
		})
		n := numWords
		if n > terms {
			n = terms
		}
		topic := seo.Topic{Index: j, Terms: make([]seo.WeightedTerm, 0, n)}
		for _, i := range idx[:n] {
			topic.Terms = append(topic.Terms, seo.WeightedTerm{Term: c.Vocab[i], Weight: round(svd.V.At(i, j), 3)})
			out.Keywords = append(out.Keywords, c.Vocab[i])
		}
		out.Topics = append(out.Topics, topic)
	}
	return out
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
