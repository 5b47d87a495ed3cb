// Package query executes boolean and phrase queries against a loaded index
// and materialises result rows for the HTTP API.
package query

import (
	"fmt"
	"log/slog"

	"github.com/irsearch/platform/internal/analyzer"
	"github.com/irsearch/platform/internal/index"
	"github.com/irsearch/platform/internal/search"
)

// Doc is one result row.
type Doc struct {
	DocID int    `json:"doc_id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Result is the response payload for a query.
type Result struct {
	Query     string `json:"query"`
	TotalHits int    `json:"total_hits"`
	Results   []Doc  `json:"results"`
}

// Engine evaluates queries against one immutable loaded index.
type Engine struct {
	ix         *index.Index
	maxResults int
	logger     *slog.Logger
}

// NewEngine wraps a loaded index. maxResults caps how many rows any query
// materialises.
func NewEngine(ix *index.Index, maxResults int) *Engine {
	if maxResults <= 0 {
		maxResults = 50
	}
	return &Engine{
		ix:         ix,
		maxResults: maxResults,
		logger:     slog.Default().With("component", "query-engine"),
	}
}

// DocCount reports the corpus size.
func (e *Engine) DocCount() int {
	return e.ix.DocCount()
}

// Search evaluates a boolean query and returns up to limit rows.
func (e *Engine) Search(q string, limit int) (*Result, error) {
	ids, err := search.Evaluate(e.ix, q)
	if err != nil {
		return nil, fmt.Errorf("evaluating query: %w", err)
	}
	return e.materialise(q, ids, limit)
}

// Phrase runs a proximity query over raw terms: each is lowercased and
// stemmed the same way indexed text was.
func (e *Engine) Phrase(terms []string, maxDist int, limit int) (*Result, error) {
	analyzed := make([]string, 0, len(terms))
	for _, t := range terms {
		for _, tok := range analyzer.Tokenize(t) {
			analyzed = append(analyzed, tok.Term)
		}
	}
	if maxDist < len(analyzed) {
		maxDist = len(analyzed)
	}
	ids, err := search.PhraseSearch(e.ix, analyzed, maxDist)
	if err != nil {
		return nil, fmt.Errorf("evaluating phrase query: %w", err)
	}
	return e.materialise(fmt.Sprintf("phrase:%v~%d", analyzed, maxDist), ids, limit)
}

func (e *Engine) materialise(q string, ids []int, limit int) (*Result, error) {
	if limit <= 0 || limit > e.maxResults {
		limit = e.maxResults
	}
	res := &Result{
		Query:     q,
		TotalHits: len(ids),
		Results:   make([]Doc, 0, min(limit, len(ids))),
	}
	for _, id := range ids {
		if len(res.Results) >= limit {
			break
		}
		doc, err := e.ix.Doc(id)
		if err != nil {
			return nil, err
		}
		res.Results = append(res.Results, Doc{
			DocID: id,
			Title: doc.Title,
			URL:   doc.URL,
		})
	}
	return res, nil
}
