// Package matcher wires extraction, embedding and the resume store into the
// two operations the service exposes: ingesting a batch of resumes and
// matching a job description against everything ingested so far.
package matcher

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vinayprograms/resumerag/catalog"
	"github.com/vinayprograms/resumerag/embedding"
	"github.com/vinayprograms/resumerag/errors"
	"github.com/vinayprograms/resumerag/extract"
	"github.com/vinayprograms/resumerag/index"
	"github.com/vinayprograms/resumerag/logging"
)

// DefaultConcurrency bounds how many files of a batch are extracted and
// embedded at once.
const DefaultConcurrency = 4

// Per-file outcome labels.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Upload is one file of an ingestion batch.
type Upload struct {
	Filename string
	Data     []byte
}

// FileResult reports what happened to one upload.
type FileResult struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
	Code     string `json:"code,omitempty"`
}

// Query asks for the TopK resumes closest to JobDescription.
type Query struct {
	JobDescription string `json:"job_description"`
	TopK           int    `json:"top_k"`
}

// Result is one ranked resume. Score is the squared Euclidean distance
// between the query and resume embeddings, so lower is better.
type Result struct {
	Position int     `json:"position"`
	Filename string  `json:"filename"`
	Score    float64 `json:"score"`
	Snippet  string  `json:"snippet"`
}

// Service owns the store for the lifetime of the process.
type Service struct {
	store       *index.Store
	searcher    index.Searcher
	provider    embedding.Provider
	catalog     *catalog.Catalog
	logger      *logging.Logger
	concurrency int
}

// Option configures a Service.
type Option func(*Service)

// WithConcurrency sets the per-batch parallelism. Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithStore uses an existing store instead of a fresh one.
func WithStore(st *index.Store) Option {
	return func(s *Service) { s.store = st }
}

// WithSearcher replaces the flat scan over the store.
func WithSearcher(sr index.Searcher) Option {
	return func(s *Service) { s.searcher = sr }
}

// WithCatalog uses an existing catalog instead of a fresh one.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Service) { s.catalog = c }
}

// New creates a Service around provider.
func New(provider embedding.Provider, opts ...Option) (*Service, error) {
	if provider == nil {
		return nil, errors.InvalidInput("embedding provider is required")
	}
	s := &Service{
		provider:    provider,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = index.NewStore()
	}
	if s.searcher == nil {
		s.searcher = s.store
	}
	if s.logger == nil {
		s.logger = logging.New()
	}
	s.logger = s.logger.WithComponent("matcher")
	if s.catalog == nil {
		c, err := catalog.New()
		if err != nil {
			return nil, err
		}
		s.catalog = c
	}
	return s, nil
}

// Store returns the underlying store.
func (s *Service) Store() *index.Store {
	return s.store
}

// Provider returns the embedding provider.
func (s *Service) Provider() embedding.Provider {
	return s.provider
}

// prepared holds the outcome of the parallel phase for one upload.
type prepared struct {
	text   string
	vector []float32
	err    error
}

// IndexBatch ingests uploads. Each file is extracted and embedded on its
// own; a failure is reported in that file's result and never reaches the
// store. Successful files are appended in input order once every file has
// been processed, so positions are deterministic for a batch. Results are
// in input order.
func (s *Service) IndexBatch(ctx context.Context, uploads []Upload) []FileResult {
	batchID := uuid.New().String()
	log := s.logger.WithTraceID(batchID)
	start := time.Now()
	log.BatchStart(batchID, len(uploads))

	work := make([]prepared, len(uploads))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i := range uploads {
		g.Go(func() error {
			work[i] = s.prepare(ctx, uploads[i])
			return nil
		})
	}
	g.Wait()

	results := make([]FileResult, len(uploads))
	succeeded := 0
	for i, up := range uploads {
		w := work[i]
		if w.err == nil {
			rec, err := s.store.Append(up.Filename, w.text, w.vector)
			if err != nil {
				w.err = err
			} else {
				if cerr := s.catalog.Add(rec); cerr != nil {
					log.Warn("catalog_add_failed", map[string]interface{}{
						"file":  up.Filename,
						"error": cerr.Error(),
					})
				}
				log.FileIndexed(up.Filename, rec.Position, len(w.text))
			}
		}

		if w.err != nil {
			log.FileFailed(up.Filename, w.err)
			results[i] = FileResult{
				Filename: up.Filename,
				Status:   StatusFailed,
				Error:    w.err.Error(),
				Code:     string(errors.Code(w.err)),
			}
			continue
		}
		succeeded++
		results[i] = FileResult{Filename: up.Filename, Status: StatusSuccess}
	}

	log.BatchComplete(batchID, succeeded, len(uploads)-succeeded, time.Since(start))
	return results
}

// prepare extracts and embeds one upload. Panics are turned into a failed
// result for that file.
func (s *Service) prepare(ctx context.Context, up Upload) (p prepared) {
	defer func() {
		if r := recover(); r != nil {
			p = prepared{err: errors.RecoverPanic(r)}
		}
	}()

	text, err := extract.Extract(up.Filename, up.Data)
	if err != nil {
		return prepared{err: err}
	}
	vec, err := embedding.EmbedOne(ctx, s.provider, text)
	if err != nil {
		return prepared{err: errors.Wrap(err, "embedding failed", errors.WithFilename(up.Filename))}
	}
	return prepared{text: text, vector: vec}
}

// Match ranks stored resumes against q. Validation happens before any
// provider call. An empty store answers with no results and no provider
// call. A provider failure fails the whole query.
func (s *Service) Match(ctx context.Context, q Query) ([]Result, error) {
	if strings.TrimSpace(q.JobDescription) == "" {
		return nil, errors.InvalidInput("job_description is required")
	}
	if q.TopK <= 0 {
		return nil, errors.InvalidInput("top_k must be a positive integer")
	}
	if s.store.Len() == 0 {
		return []Result{}, nil
	}

	start := time.Now()
	vec, err := embedding.EmbedOne(ctx, s.provider, q.JobDescription)
	if err != nil {
		err = errors.Wrap(err, "failed to embed job description")
		s.logger.QueryFailed(err)
		return nil, err
	}

	matches, err := s.searcher.Search(vec, q.TopK)
	if err != nil {
		s.logger.QueryFailed(err)
		return nil, err
	}

	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Position: m.Position,
			Filename: m.Filename,
			Score:    m.Distance,
			Snippet:  m.Snippet,
		}
	}
	s.logger.QueryComplete(q.TopK, len(results), time.Since(start))
	return results, nil
}

// List returns ingested resumes in position order, optionally filtered by
// keyword. limit <= 0 means no limit.
func (s *Service) List(filter string, limit int) ([]catalog.Entry, error) {
	return s.catalog.List(strings.TrimSpace(filter), limit)
}

// Stats describes the store.
type Stats struct {
	Documents int `json:"documents"`
	Dimension int `json:"dimension"`
}

// Stats returns the current document count and vector dimension.
func (s *Service) Stats() Stats {
	return Stats{Documents: s.store.Len(), Dimension: s.store.Dimension()}
}

// Close releases the catalog.
func (s *Service) Close() error {
	return s.catalog.Close()
}
