package extraction

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const svdTolerance = 1e-10

// truncated holds the leading k singular triplets of a document x term matrix.
type truncated struct {
	U *mat.Dense // docs x k
	S []float64
	V *mat.Dense // terms x k
}

func (t *truncated) K() int { return len(t.S) }

// truncatedSVD keeps at most k components, dropping numerically zero singular
// values. Component signs are fixed so the largest absolute term loading is
// positive, which keeps results stable across runs.
func truncatedSVD(a *mat.Dense, k int) (*truncated, bool) {
	if a == nil || k <= 0 {
		return nil, false
	}
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, false
	}
	values := svd.Values(nil)
	rank := 0
	for _, s := range values {
		if s > svdTolerance {
			rank++
		}
	}
	if k > rank {
		k = rank
	}
	if k == 0 {
		return nil, false
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	rows, _ := u.Dims()
	terms, _ := v.Dims()
	out := &truncated{
		U: mat.DenseCopyOf(u.Slice(0, rows, 0, k)),
		S: append([]float64(nil), values[:k]...),
		V: mat.DenseCopyOf(v.Slice(0, terms, 0, k)),
	}
	for j := 0; j < k; j++ {
		col := mat.Col(nil, j, out.V)
		maxIdx := floats.MaxIdx(absAll(col))
		if col[maxIdx] < 0 {
			for i := 0; i < terms; i++ {
				out.V.Set(i, j, -out.V.At(i, j))
			}
			for i := 0; i < rows; i++ {
				out.U.Set(i, j, -out.U.At(i, j))
			}
		}
	}
	return out, true
}

// reduced projects documents into the component space (U * diag(S)).
func (t *truncated) reduced() *mat.Dense {
	rows, k := t.U.Dims()
	out := mat.NewDense(rows, k, nil)
	out.Apply(func(i, j int, v float64) float64 { return v * t.S[j] }, t.U)
	return out
}

func absAll(s []float64) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[i] = math.Abs(v)
	}
	return out
}

// cosineRows returns the pairwise cosine similarity of the rows of m. Zero rows
// have similarity 0 with everything.
func cosineRows(m *mat.Dense) [][]float64 {
	rows, _ := m.Dims()
	norms := make([]float64, rows)
	for i := 0; i < rows; i++ {
		norms[i] = floats.Norm(m.RawRowView(i), 2)
	}
	sim := make([][]float64, rows)
	for i := range sim {
		sim[i] = make([]float64, rows)
		for j := 0; j < rows; j++ {
			if norms[i] == 0 || norms[j] == 0 {
				continue
			}
			sim[i][j] = floats.Dot(m.RawRowView(i), m.RawRowView(j)) / (norms[i] * norms[j])
		}
	}
	return sim
}
