package index

import (
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/vinayprograms/resumerag/errors"
)

// Record is one ingested resume. Records are immutable once appended.
type Record struct {
	Position int       `json:"position"`
	Filename string    `json:"filename"`
	Text     string    `json:"text"`
	Vector   []float32 `json:"-"`
}

// Store is the process-owned resume collection.
type Store struct {
	mu      sync.RWMutex
	records []Record
	dim     int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Append adds a record at the next position and returns it.
// Duplicate filenames are stored independently. The vector is copied.
// Vectors with NaN or infinite components are rejected as EMBEDDING_FAILED.
func (s *Store) Append(filename, text string, vector []float32) (Record, error) {
	if strings.TrimSpace(filename) == "" {
		return Record{}, errors.InvalidInput("filename is required")
	}
	if len(vector) == 0 {
		return Record{}, errors.InvalidInput("vector is empty", errors.WithFilename(filename))
	}
	if i := nonFinite(vector); i >= 0 {
		return Record{}, errors.New(errors.ErrCodeEmbedding, "vector has a non-finite component",
			errors.WithFilename(filename), errors.WithMetadata("component", strconv.Itoa(i)))
	}

	vec := make([]float32, len(vector))
	copy(vec, vector)

	s.mu.Lock()
	defer s.mu.Unlock()

	// dimension check and append must share the lock, otherwise two first
	// appends could race to set it
	if s.dim == 0 {
		s.dim = len(vec)
	} else if len(vec) != s.dim {
		return Record{}, errors.DimensionMismatch(s.dim, len(vec), errors.WithFilename(filename))
	}

	rec := Record{
		Position: len(s.records),
		Filename: filename,
		Text:     text,
		Vector:   vec,
	}
	s.records = append(s.records, rec)
	return rec, nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Dimension returns the vector dimension, or 0 while the store is empty.
func (s *Store) Dimension() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dim
}

// Record returns the record at pos.
func (s *Store) Record(pos int) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if pos < 0 || pos >= len(s.records) {
		return Record{}, false
	}
	return s.records[pos], true
}

// Records returns a snapshot of all records in insertion order.
// Vectors are shared with the store and must not be modified.
func (s *Store) Records() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// nonFinite returns the index of the first NaN or infinite component, or -1.
func nonFinite(vec []float32) int {
	for i, v := range vec {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return i
		}
	}
	return -1
}
