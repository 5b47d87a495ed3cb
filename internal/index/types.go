// Package index implements the on-disk positional inverted index: the
// in-memory postings accumulator, the three-file writer, and the loader
// and postings readers used by the query engine.
//
// An index directory holds three files, all little-endian:
//
//	index.docs      "DOCS" v3, doc count, offset table, (url, title) records
//	index.dict      "DICT" v3, term count, (term, postings offset, doc freq)
//	index.postings  "POST" v3, varbyte postings blocks with gap encoding
package index

// Format constants shared by the writer and the loader.
const (
	MagicDocs = "DOCS"
	MagicDict = "DICT"
	MagicPost = "POST"

	// Version is written into every file header. The loader checks the
	// magic but accepts other versions with a warning.
	Version uint16 = 3

	// MaxTermLen caps the term bytes stored in a dict record. Longer
	// stems are truncated at write time, so the dict holds only their
	// prefix. Lookups use the term exactly as given and do not truncate
	// it, so a query for an over-long term does not find that prefix.
	MaxTermLen = 255

	// MaxFieldLen caps url and title bytes so the uint16 length prefix
	// in the docs file can always represent them.
	MaxFieldLen = 65535
)

// Document is one indexed document's immutable attributes. Its position in
// the doc table is its id.
type Document struct {
	URL   string
	Title string
}

// DocEntry is one document's occurrence list for a term. Positions are
// 0-based token offsets, strictly ascending.
type DocEntry struct {
	DocID     int
	Positions []int
}

// TermPostings is the ordered occurrence record of a term across documents,
// ascending by doc id.
type TermPostings struct {
	Entries []DocEntry
}

// DictRecord is one parsed entry of the dict file.
type DictRecord struct {
	Term    string
	Offset  uint64
	DocFreq uint32
}
