package extraction

import (
	"regexp"
	"strings"

	"github.com/yungbote/keywordiq-backend/internal/domain/seo"
	"github.com/yungbote/keywordiq-backend/internal/modules/seo/clustering"
)

const (
	MaxTrendClusters      = 5
	TrendKeywordsPerGroup = 5
)

// TrendClusters groups the non-empty documents by k-means over their TF-IDF
// rows (k = min(5, docs)) and reports the most frequent keywords of each
// group. Titles are left empty for the caller to fill. Fewer than two
// non-empty documents yield no clusters.
func TrendClusters(docs [][]string) []seo.TrendCluster {
	kept := make([][]string, 0, len(docs))
	for _, d := range docs {
		if len(d) > 0 {
			kept = append(kept, d)
		}
	}
	if len(kept) < 2 {
		return []seo.TrendCluster{}
	}
	m := NewCorpus(kept).TFIDF()
	rows, _ := m.Dims()
	points := make([][]float64, rows)
	for i := range points {
		points[i] = m.RawRowView(i)
	}
	labels := clustering.KMeans(points, MaxTrendClusters, clustering.DefaultSeed)

	groups := map[int][]string{}
	maxLabel := -1
	for i, l := range labels {
		groups[l] = append(groups[l], kept[i]...)
		if l > maxLabel {
			maxLabel = l
		}
	}
	out := make([]seo.TrendCluster, 0, maxLabel+1)
	for l := 0; l <= maxLabel; l++ {
		out = append(out, seo.TrendCluster{
			Label:    l,
			Keywords: Terms(MostCommon(groups[l], TrendKeywordsPerGroup)),
		})
	}
	return out
}

var (
	titleStrip = regexp.MustCompile(`[\\/"]`)
	spaces     = regexp.MustCompile(`\s+`)
)

// CleanTitle removes backslashes, slashes and double quotes and collapses
// whitespace.
func CleanTitle(title string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(titleStrip.ReplaceAllString(title, ""), " "))
}
