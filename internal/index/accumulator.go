package index

// Accumulator collects (term, doc, position) triples during a build. Callers
// must add documents in ascending doc id order and positions for a given
// (term, doc) pair in ascending order; ingestion order guarantees both.
type Accumulator struct {
	postings map[string]*TermPostings
}

// NewAccumulator returns an empty Accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		postings: make(map[string]*TermPostings),
	}
}

// Add records one occurrence of term at the given position of docID. The
// position is appended to the last DocEntry when the doc id matches,
// otherwise a new DocEntry is started.
func (a *Accumulator) Add(term string, docID int, position int) {
	tp, ok := a.postings[term]
	if !ok {
		tp = &TermPostings{}
		a.postings[term] = tp
	}
	n := len(tp.Entries)
	if n == 0 || tp.Entries[n-1].DocID != docID {
		tp.Entries = append(tp.Entries, DocEntry{
			DocID:     docID,
			Positions: []int{position},
		})
		return
	}
	tp.Entries[n-1].Positions = append(tp.Entries[n-1].Positions, position)
}

// TermCount reports the number of distinct terms accumulated.
func (a *Accumulator) TermCount() int {
	return len(a.postings)
}

// Postings exposes the accumulated term map to the writer.
func (a *Accumulator) Postings() map[string]*TermPostings {
	return a.postings
}
