package clustering

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
)

const (
	// DefaultSeed makes k-means++ seeding reproducible.
	DefaultSeed   uint64 = 42
	maxIterations        = 300
)

// KMeans partitions points into at most k clusters using k-means++ seeding
// from seed followed by Lloyd iterations. Labels are compacted so they run
// 0..c-1 in order of first appearance, where c is the number of non-empty
// clusters; c never exceeds min(k, len(points)).
func KMeans(points [][]float64, k int, seed uint64) []int {
	n := len(points)
	if n == 0 || k <= 0 {
		return []int{}
	}
	if k > n {
		k = n
	}
	centers := seedCenters(points, k, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}

	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, p := range points {
			best := nearest(p, centers)
			if best != labels[i] {
				labels[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}
		dims := len(points[0])
		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, dims)
		}
		for i, p := range points {
			floats.Add(sums[labels[i]], p)
			counts[labels[i]]++
		}
		for c := range centers {
			// An empty cluster keeps its previous center.
			if counts[c] == 0 {
				continue
			}
			floats.Scale(1/float64(counts[c]), sums[c])
			centers[c] = sums[c]
		}
	}
	return compact(labels)
}

func seedCenters(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(points)
	chosen := make([]bool, n)
	first := rng.IntN(n)
	chosen[first] = true
	centers := [][]float64{clone(points[first])}

	dist := make([]float64, n)
	for len(centers) < k {
		total := 0.0
		for i, p := range points {
			d := math.Inf(1)
			for _, c := range centers {
				if dd := sqDist(p, c); dd < d {
					d = dd
				}
			}
			dist[i] = d
			total += d
		}
		next := -1
		if total > 0 {
			target := rng.Float64() * total
			acc := 0.0
			for i, d := range dist {
				acc += d
				if d > 0 && acc >= target {
					next = i
					break
				}
			}
		}
		if next < 0 {
			// Every remaining point coincides with a center.
			for i := range points {
				if !chosen[i] {
					next = i
					break
				}
			}
		}
		chosen[next] = true
		centers = append(centers, clone(points[next]))
	}
	return centers
}

func nearest(p []float64, centers [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, center := range centers {
		if d := sqDist(p, center); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func sqDist(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}

func clone(p []float64) []float64 { return append([]float64(nil), p...) }

func compact(labels []int) []int {
	remap := map[int]int{}
	out := make([]int, len(labels))
	for i, l := range labels {
		m, ok := remap[l]
		if !ok {
			m = len(remap)
			remap[l] = m
		}
		out[i] = m
	}
	return out
}
