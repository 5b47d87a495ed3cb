package index

import (
	"fmt"

	"github.com/irsearch/platform/internal/codec"
	"github.com/irsearch/platform/pkg/errors"
)

// Index is a loaded, immutable index. It is safe for concurrent readers;
// nothing mutates it after Load returns.
type Index struct {
	docs     []Document
	dict     map[string]DictRecord
	postings []byte
}

// DocCount reports the number of documents in the doc table.
func (ix *Index) DocCount() int {
	return len(ix.docs)
}

// TermCount reports the number of terms in the dictionary.
func (ix *Index) TermCount() int {
	return len(ix.dict)
}

// Doc returns the document record for id.
func (ix *Index) Doc(id int) (Document, error) {
	if id < 0 || id >= len(ix.docs) {
		return Document{}, fmt.Errorf("doc id %d: %w", id, errors.ErrDocumentNotFound)
	}
	return ix.docs[id], nil
}

// DocFreq reports the number of documents a term occurs in, 0 for unknown
// terms.
func (ix *Index) DocFreq(term string) int {
	return int(ix.dict[term].DocFreq)
}

// DocIDs decodes the sorted doc id list for a term, skipping position data.
// Unknown terms yield an empty list. The positions still have to be decoded
// to be skipped: the varbyte stream is not self-framed per document.
func (ix *Index) DocIDs(term string) ([]int, error) {
	entry, ok := ix.dict[term]
	if !ok {
		return nil, nil
	}
	dec, err := ix.blockDecoder(term, entry)
	if err != nil {
		return nil, err
	}
	docFreq, err := dec.Uvarint()
	if err != nil {
		return nil, decodeErr(term, err)
	}
	ids := make([]int, 0, docFreq)
	curDoc := 0
	for i := uint32(0); i < docFreq; i++ {
		gap, err := dec.Uvarint()
		if err != nil {
			return nil, decodeErr(term, err)
		}
		curDoc += int(gap)
		ids = append(ids, curDoc)

		posCount, err := dec.Uvarint()
		if err != nil {
			return nil, decodeErr(term, err)
		}
		if err := dec.Skip(int(posCount)); err != nil {
			return nil, decodeErr(term, err)
		}
	}
	return ids, nil
}

// FullPostings decodes the complete positional postings for a term, sorted
// by doc id with ascending positions per document.
func (ix *Index) FullPostings(term string) ([]DocEntry, error) {
	entry, ok := ix.dict[term]
	if !ok {
		return nil, nil
	}
	dec, err := ix.blockDecoder(term, entry)
	if err != nil {
		return nil, err
	}
	docFreq, err := dec.Uvarint()
	if err != nil {
		return nil, decodeErr(term, err)
	}
	entries := make([]DocEntry, 0, docFreq)
	curDoc := 0
	for i := uint32(0); i < docFreq; i++ {
		gap, err := dec.Uvarint()
		if err != nil {
			return nil, decodeErr(term, err)
		}
		curDoc += int(gap)

		posCount, err := dec.Uvarint()
		if err != nil {
			return nil, decodeErr(term, err)
		}
		positions := make([]int, 0, posCount)
		curPos := 0
		for j := uint32(0); j < posCount; j++ {
			posGap, err := dec.Uvarint()
			if err != nil {
				return nil, decodeErr(term, err)
			}
			curPos += int(posGap)
			positions = append(positions, curPos)
		}
		entries = append(entries, DocEntry{DocID: curDoc, Positions: positions})
	}
	return entries, nil
}

func (ix *Index) blockDecoder(term string, entry DictRecord) (*codec.Decoder, error) {
	if entry.Offset > uint64(len(ix.postings)) {
		return nil, decodeErr(term, errors.ErrMalformedPostings)
	}
	return codec.NewDecoder(ix.postings[entry.Offset:]), nil
}

func decodeErr(term string, err error) error {
	return fmt.Errorf("decoding postings for term %q: %w", term, err)
}
