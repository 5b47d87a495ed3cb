package index

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/irsearch/platform/internal/codec"
)

// Writer serialises a built index into the three index files. Files are
// created fresh; a failed build leaves partial files behind.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter creates a Writer that writes into the given directory.
func NewWriter(dir string) *Writer {
	return &Writer{
		dir:    dir,
		logger: slog.Default().With("component", "index-writer"),
	}
}

// Write emits index.docs, index.dict, and index.postings.
func (w *Writer) Write(docs []Document, acc *Accumulator) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}
	if err := w.writeDocs(docs); err != nil {
		return err
	}
	termCount, err := w.writePostings(acc)
	if err != nil {
		return err
	}
	w.logger.Info("index written", "dir", w.dir, "docs", len(docs), "terms", termCount)
	return nil
}

// writeDocs writes the doc table: header, one uint64 offset per document,
// then the (url, title) records the offsets point at.
func (w *Writer) writeDocs(docs []Document) error {
	f, err := os.Create(filepath.Join(w.dir, "index.docs"))
	if err != nil {
		return fmt.Errorf("creating docs file: %w", err)
	}
	defer f.Close()
	bw := bufio.NewWriter(f)

	if _, err := bw.WriteString(MagicDocs); err != nil {
		return fmt.Errorf("writing docs header: %w", err)
	}
	writeU16(bw, Version)
	writeU32(bw, uint32(len(docs)))

	offset := uint64(4 + 2 + 4 + len(docs)*8)
	for _, d := range docs {
		writeU64(bw, offset)
		offset += uint64(2 + len(d.URL) + 2 + len(d.Title))
	}
	for _, d := range docs {
		writeU16(bw, uint16(len(d.URL)))
		bw.WriteString(d.URL)
		writeU16(bw, uint16(len(d.Title)))
		bw.WriteString(d.Title)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing docs file: %w", err)
	}
	return f.Sync()
}

// writePostings streams the dict and postings files in one pass over the
// accumulator, then patches the final term count into the dict header.
func (w *Writer) writePostings(acc *Accumulator) (int, error) {
	fDict, err := os.Create(filepath.Join(w.dir, "index.dict"))
	if err != nil {
		return 0, fmt.Errorf("creating dict file: %w", err)
	}
	defer fDict.Close()
	fPost, err := os.Create(filepath.Join(w.dir, "index.postings"))
	if err != nil {
		return 0, fmt.Errorf("creating postings file: %w", err)
	}
	defer fPost.Close()

	bwDict := bufio.NewWriter(fDict)
	bwPost := bufio.NewWriter(fPost)

	bwDict.WriteString(MagicDict)
	writeU16(bwDict, Version)
	writeU32(bwDict, 0) // term count, patched below

	bwPost.WriteString(MagicPost)
	writeU16(bwPost, Version)

	postOffset := uint64(4 + 2)
	termCount := 0
	var block []byte
	for term, postings := range acc.Postings() {
		termCount++
		docFreq := uint32(len(postings.Entries))

		if len(term) > MaxTermLen {
			term = term[:MaxTermLen]
		}
		bwDict.WriteByte(byte(len(term)))
		bwDict.WriteString(term)
		writeU64(bwDict, postOffset)
		writeU32(bwDict, docFreq)

		block = codec.AppendUvarint(block[:0], docFreq)
		prevDoc := 0
		for _, entry := range postings.Entries {
			block = codec.AppendUvarint(block, uint32(entry.DocID-prevDoc))
			prevDoc = entry.DocID
			block = codec.AppendUvarint(block, uint32(len(entry.Positions)))
			block = codec.AppendDeltas(block, entry.Positions)
		}
		if _, err := bwPost.Write(block); err != nil {
			return 0, fmt.Errorf("writing postings for term %q: %w", term, err)
		}
		postOffset += uint64(len(block))
	}

	if err := bwDict.Flush(); err != nil {
		return 0, fmt.Errorf("writing dict file: %w", err)
	}
	if err := bwPost.Flush(); err != nil {
		return 0, fmt.Errorf("writing postings file: %w", err)
	}

	var countBuf [4]byte
	binary.LittleEndian.PutUint32(countBuf[:], uint32(termCount))
	if _, err := fDict.WriteAt(countBuf[:], 4+2); err != nil {
		return 0, fmt.Errorf("patching term count: %w", err)
	}
	if err := fDict.Sync(); err != nil {
		return 0, fmt.Errorf("syncing dict file: %w", err)
	}
	if err := fPost.Sync(); err != nil {
		return 0, fmt.Errorf("syncing postings file: %w", err)
	}
	return termCount, nil
}

func writeU16(bw *bufio.Writer, v uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	bw.Write(buf[:])
}

func writeU32(bw *bufio.Writer, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	bw.Write(buf[:])
}

func writeU64(bw *bufio.Writer, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	bw.Write(buf[:])
}
