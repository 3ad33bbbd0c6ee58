package clustering

import (
	"strconv"

	"github.com/yungbote/keywordiq-backend/internal/domain/seo"
)

// MaxGeoClusters bounds the number of geographic groups.
const MaxGeoClusters = 5

type GeoPoint struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// Geo clusters places on (lat, lng) with k = min(5, n) and summarizes each
// label as {count, places}. Empty input yields an empty summary.
func Geo(points []GeoPoint) ([]int, map[string]seo.GeoCluster) {
	summary := map[string]seo.GeoCluster{}
	if len(points) == 0 {
		return []int{}, summary
	}
	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = []float64{p.Latitude, p.Longitude}
	}
	labels := KMeans(coords, MaxGeoClusters, DefaultSeed)
	for i, l := range labels {
		key := strconv.Itoa(l)
		c := summary[key]
		c.Count++
		c.Places = append(c.Places, points[i].Name)
		summary[key] = c
	}
	return labels, summary
}
