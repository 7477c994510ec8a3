// Package catalog keeps a keyword-searchable listing of ingested resumes.
//
// The catalog is a bleve in-memory index that mirrors the vector store. It
// answers "which resumes mention X" for listing and filtering only. Results
// always come back in ingestion order and carry no relevance score, so it
// never competes with vector distance as a ranking signal.
package catalog

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/vinayprograms/resumerag/errors"
	"github.com/vinayprograms/resumerag/index"
)

// Entry is one listed resume.
type Entry struct {
	Position   int    `json:"position"`
	Filename   string `json:"filename"`
	Characters int    `json:"characters"`
}

// document is what gets indexed in bleve.
type document struct {
	Position   int    `json:"position"`
	Filename   string `json:"filename"`
	Text       string `json:"text"`
	Characters int    `json:"characters"`
}

// Catalog is safe for concurrent use.
type Catalog struct {
	index bleve.Index
}

// New creates an empty in-memory catalog.
func New() (*Catalog, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog index: %w", err)
	}
	return &Catalog{index: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	docMapping := bleve.NewDocumentMapping()

	filenameField := bleve.NewTextFieldMapping()
	filenameField.Analyzer = standard.Name

	// text is searchable but not stored; the vector store owns the content
	textField := bleve.NewTextFieldMapping()
	textField.Analyzer = standard.Name
	textField.Store = false
	textField.IncludeTermVectors = false

	docMapping.AddFieldMappingsAt("filename", filenameField)
	docMapping.AddFieldMappingsAt("text", textField)
	docMapping.AddFieldMappingsAt("position", bleve.NewNumericFieldMapping())
	docMapping.AddFieldMappingsAt("characters", bleve.NewNumericFieldMapping())

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = standard.Name
	return indexMapping
}

// docID orders lexically the same way positions order numerically.
func docID(position int) string {
	return fmt.Sprintf("%010d", position)
}

// Add indexes a stored record.
func (c *Catalog) Add(rec index.Record) error {
	doc := document{
		Position:   rec.Position,
		Filename:   rec.Filename,
		Text:       rec.Text,
		Characters: len([]rune(rec.Text)),
	}
	if err := c.index.Index(docID(rec.Position), doc); err != nil {
		return errors.WrapWithCode(err, errors.ErrCodeInternal, "failed to catalog resume",
			errors.WithFilename(rec.Filename))
	}
	return nil
}

// Count returns the number of cataloged resumes.
func (c *Catalog) Count() (int, error) {
	n, err := c.index.DocCount()
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrCodeInternal, "failed to count catalog")
	}
	return int(n), nil
}

// List returns cataloged resumes in position order. A non-empty filter keeps
// only resumes whose filename or text match it. limit <= 0 means no limit.
func (c *Catalog) List(filter string, limit int) ([]Entry, error) {
	if limit <= 0 {
		n, err := c.Count()
		if err != nil {
			return nil, err
		}
		limit = n
	}
	entries := []Entry{}
	if limit == 0 {
		return entries, nil
	}

	req := bleve.NewSearchRequestOptions(filterQuery(filter), limit, 0, false)
	req.Fields = []string{"position", "filename", "characters"}
	req.SortBy([]string{"_id"})

	res, err := c.index.Search(req)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrCodeInternal, "catalog search failed")
	}

	for _, hit := range res.Hits {
		e := Entry{}
		if v, ok := hit.Fields["position"].(float64); ok {
			e.Position = int(v)
		}
		if v, ok := hit.Fields["filename"].(string); ok {
			e.Filename = v
		}
		if v, ok := hit.Fields["characters"].(float64); ok {
			e.Characters = int(v)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func filterQuery(filter string) query.Query {
	if filter == "" {
		return bleve.NewMatchAllQuery()
	}
	inName := bleve.NewMatchQuery(filter)
	inName.SetField("filename")
	inText := bleve.NewMatchQuery(filter)
	inText.SetField("text")
	return bleve.NewDisjunctionQuery(inName, inText)
}

// Close releases the index.
func (c *Catalog) Close() error {
	return c.index.Close()
}
