package index

import (
	"strconv"

	"github.com/vinayprograms/resumerag/errors"
)

// Match is one ranked search hit. Lower Distance is a better match.
type Match struct {
	Position int     `json:"position"`
	Filename string  `json:"filename"`
	Distance float64 `json:"distance"`
	Snippet  string  `json:"snippet"`
}

// Searcher answers k-nearest-neighbour queries against stored vectors.
// Results are ordered best first.
type Searcher interface {
	Search(query []float32, k int) ([]Match, error)
}

var _ Searcher = (*Store)(nil)

// Search returns the min(k, Len()) records closest to query by squared
// Euclidean distance. Equal distances keep insertion order.
// An empty store yields an empty result and no error. A query with a NaN or
// infinite component is rejected as EMBEDDING_FAILED.
func (s *Store) Search(query []float32, k int) ([]Match, error) {
	if k <= 0 {
		return nil, errors.InvalidInput("k must be positive")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.records) == 0 {
		return []Match{}, nil
	}
	if len(query) != s.dim {
		return nil, errors.DimensionMismatch(s.dim, len(query))
	}
	if i := nonFinite(query); i >= 0 {
		return nil, errors.New(errors.ErrCodeEmbedding, "query vector has a non-finite component",
			errors.WithMetadata("component", strconv.Itoa(i)))
	}
	if k > len(s.records) {
		k = len(s.records)
	}

	top := make([]scored, 0, k)
	for i := range s.records {
		d := SquaredL2(query, s.records[i].Vector)
		top = insertTopK(top, scored{pos: i, dist: d}, k)
	}

	out := make([]Match, len(top))
	for i, c := range top {
		rec := s.records[c.pos]
		out[i] = Match{
			Position: rec.Position,
			Filename: rec.Filename,
			Distance: c.dist,
			Snippet:  Snippet(rec.Text),
		}
	}
	return out, nil
}

type scored struct {
	pos  int
	dist float64
}

// insertTopK keeps top sorted ascending and at most k long. A candidate only
// displaces entries it is strictly closer than, so earlier positions win ties.
func insertTopK(top []scored, c scored, k int) []scored {
	if len(top) == k && !(c.dist < top[k-1].dist) {
		return top
	}
	at := len(top)
	for i := range top {
		if c.dist < top[i].dist {
			at = i
			break
		}
	}
	if len(top) < k {
		top = append(top, scored{})
	}
	copy(top[at+1:], top[at:len(top)-1])
	top[at] = c
	return top
}

// SquaredL2 returns the squared Euclidean distance between a and b.
// Both must have the same length.
func SquaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
