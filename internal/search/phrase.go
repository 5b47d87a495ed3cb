package search

import "github.com/irsearch/platform/internal/index"

// PhraseSearch finds the documents where the analyzed terms occur in order
// within a bounded window. When maxDist equals the number of terms the match
// degenerates to exact adjacency. Matching documents are returned ascending
// by doc id.
//
// The boolean grammar has no phrase operator; this is a library primitive
// reached by the HTTP API and direct callers.
func PhraseSearch(ix Index, terms []string, maxDist int) ([]int, error) {
	if len(terms) == 0 {
		return nil, nil
	}

	candidates, err := ix.DocIDs(terms[0])
	if err != nil {
		return nil, err
	}
	for _, term := range terms[1:] {
		ids, err := ix.DocIDs(term)
		if err != nil {
			return nil, err
		}
		candidates = Intersect(candidates, ids)
	}
	if len(candidates) == 0 {
		return candidates, nil
	}

	// Full postings per term, decoded once per query.
	termPostings := make([][]index.DocEntry, len(terms))
	for i, term := range terms {
		entries, err := ix.FullPostings(term)
		if err != nil {
			return nil, err
		}
		termPostings[i] = entries
	}

	exact := maxDist == len(terms)
	result := make([]int, 0, len(candidates))
	posLists := make([][]int, len(terms))
	for _, docID := range candidates {
		foundAll := true
		for i := range terms {
			posLists[i] = positionsIn(termPostings[i], docID)
			if len(posLists[i]) == 0 {
				foundAll = false
				break
			}
		}
		if foundAll && findPath(posLists, 0, -1, -1, maxDist, exact) {
			result = append(result, docID)
		}
	}
	return result, nil
}

func positionsIn(entries []index.DocEntry, docID int) []int {
	for _, e := range entries {
		if e.DocID == docID {
			return e.Positions
		}
	}
	return nil
}

// findPath searches depth-first for positions p_0 < p_1 < ... with p_i drawn
// from posLists[i], adjacent when exact, and spanning at most maxDist from
// the anchor p_0 otherwise.
func findPath(posLists [][]int, idx, prevPos, firstPos, maxDist int, exact bool) bool {
	if idx == len(posLists) {
		return true
	}
	for _, pos := range posLists[idx] {
		if idx == 0 {
			if findPath(posLists, idx+1, pos, pos, maxDist, exact) {
				return true
			}
			continue
		}
		if pos <= prevPos {
			continue
		}
		if exact && pos != prevPos+1 {
			continue
		}
		if pos-firstPos > maxDist {
			continue
		}
		if findPath(posLists, idx+1, pos, firstPos, maxDist, exact) {
			return true
		}
	}
	return false
}
