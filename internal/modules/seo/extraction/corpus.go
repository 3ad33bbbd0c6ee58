package extraction

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Corpus is a tokenized document set with a vocabulary in first-seen order.
type Corpus struct {
	Docs  [][]string
	Vocab []string
	index map[string]int
}

func NewCorpus(docs [][]string) *Corpus {
	c := &Corpus{Docs: docs, index: map[string]int{}}
	for _, d := range docs {
		for _, w := range d {
			if _, ok := c.index[w]; !ok {
				c.index[w] = len(c.Vocab)
				c.Vocab = append(c.Vocab, w)
			}
		}
	}
	return c
}

func (c *Corpus) Index(term string) (int, bool) {
	i, ok := c.index[term]
	return i, ok
}

func (c *Corpus) Empty() bool { return len(c.Docs) == 0 || len(c.Vocab) == 0 }

// Counts is the document x term bag-of-words matrix.
func (c *Corpus) Counts() *mat.Dense {
	if c.Empty() {
		return nil
	}
	m := mat.NewDense(len(c.Docs), len(c.Vocab), nil)
	for i, d := range c.Docs {
		for _, w := range d {
			j := c.index[w]
			m.Set(i, j, m.At(i, j)+1)
		}
	}
	return m
}

// TFIDF weights raw counts by the smoothed idf ln((1+n)/(1+df))+1 and
// L2-normalizes every row.
func (c *Corpus) TFIDF() *mat.Dense {
	m := c.Counts()
	if m == nil {
		return nil
	}
	rows, cols := m.Dims()
	df := make([]float64, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if m.At(i, j) > 0 {
				df[j]++
			}
		}
	}
	n := float64(rows)
	idf := make([]float64, cols)
	for j := range idf {
		idf[j] = math.Log((1+n)/(1+df[j])) + 1
	}
	for i := 0; i < rows; i++ {
		row := m.RawRowView(i)
		floats.Mul(row, idf)
		if norm := floats.Norm(row, 2); norm > 0 {
			floats.Scale(1/norm, row)
		}
	}
	return m
}
