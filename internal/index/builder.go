package index

import (
	"log/slog"

	"github.com/irsearch/platform/internal/analyzer"
)

// Builder ingests documents, assigns ascending doc ids, and accumulates
// positional postings until Write serialises everything to disk.
type Builder struct {
	docs   []Document
	acc    *Accumulator
	logger *slog.Logger
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		acc:    NewAccumulator(),
		logger: slog.Default().With("component", "index-builder"),
	}
}

// AddDocument analyses body and records the document, returning its assigned
// doc id. URL and title are truncated to MaxFieldLen bytes so the docs file
// length prefixes stay truthful.
func (b *Builder) AddDocument(url, title, body string) int {
	if len(url) > MaxFieldLen {
		url = url[:MaxFieldLen]
	}
	if len(title) > MaxFieldLen {
		title = title[:MaxFieldLen]
	}
	docID := len(b.docs)
	b.docs = append(b.docs, Document{URL: url, Title: title})

	for _, tok := range analyzer.Tokenize(body) {
		b.acc.Add(tok.Term, docID, tok.Position)
	}

	if (docID+1)%1000 == 0 {
		b.logger.Info("documents processed", "count", docID+1, "terms", b.acc.TermCount())
	}
	return docID
}

// DocCount reports the number of documents added so far.
func (b *Builder) DocCount() int {
	return len(b.docs)
}

// TermCount reports the number of distinct terms accumulated so far.
func (b *Builder) TermCount() int {
	return b.acc.TermCount()
}

// Write serialises the accumulated index into dir as the three index files.
func (b *Builder) Write(dir string) error {
	return NewWriter(dir).Write(b.docs, b.acc)
}
