package index

import (
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/irsearch/platform/pkg/errors"
)

// Load reads the three index files from dir and materialises the doc table
// and term dictionary. The postings file is kept as one opaque byte buffer;
// blocks are decoded on demand per query.
func Load(dir string) (*Index, error) {
	logger := slog.Default().With("component", "index-loader")

	docs, err := readDocsFile(filepath.Join(dir, "index.docs"))
	if err != nil {
		return nil, err
	}
	records, err := ReadDict(filepath.Join(dir, "index.dict"))
	if err != nil {
		return nil, err
	}
	postings, err := readPostingsFile(filepath.Join(dir, "index.postings"))
	if err != nil {
		return nil, err
	}

	dict := make(map[string]DictRecord, len(records))
	for _, rec := range records {
		dict[rec.Term] = rec
	}
	logger.Info("index loaded",
		"dir", dir,
		"docs", len(docs),
		"terms", len(dict),
		"postings_bytes", len(postings),
	)
	return &Index{
		docs:     docs,
		dict:     dict,
		postings: postings,
	}, nil
}

// readDocsFile parses the doc table. The offset table is skipped: records
// are laid out sequentially in doc id order right after it.
func readDocsFile(path string) ([]Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening docs file: %w", err)
	}
	r, count, err := readHeader(data, MagicDocs, path)
	if err != nil {
		return nil, err
	}
	if _, err := r.bytes(int(count) * 8); err != nil {
		return nil, fmt.Errorf("reading docs offset table: %w", err)
	}
	docs := make([]Document, 0, count)
	for i := uint32(0); i < count; i++ {
		url, err := r.lengthPrefixed16()
		if err != nil {
			return nil, fmt.Errorf("reading doc %d url: %w", i, err)
		}
		title, err := r.lengthPrefixed16()
		if err != nil {
			return nil, fmt.Errorf("reading doc %d title: %w", i, err)
		}
		docs = append(docs, Document{URL: url, Title: title})
	}
	return docs, nil
}

// ReadDict parses the dict file into its records. It is used both by the
// loader and by offline index inspection.
func ReadDict(path string) ([]DictRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening dict file: %w", err)
	}
	r, count, err := readHeader(data, MagicDict, path)
	if err != nil {
		return nil, err
	}
	records := make([]DictRecord, 0, count)
	for i := uint32(0); i < count; i++ {
		termLen, err := r.u8()
		if err != nil {
			return nil, fmt.Errorf("reading dict entry %d: %w", i, err)
		}
		term, err := r.bytes(int(termLen))
		if err != nil {
			return nil, fmt.Errorf("reading dict entry %d: %w", i, err)
		}
		offset, err := r.u64()
		if err != nil {
			return nil, fmt.Errorf("reading dict entry %d: %w", i, err)
		}
		docFreq, err := r.u32()
		if err != nil {
			return nil, fmt.Errorf("reading dict entry %d: %w", i, err)
		}
		records = append(records, DictRecord{
			Term:    string(term),
			Offset:  offset,
			DocFreq: docFreq,
		})
	}
	return records, nil
}

// readPostingsFile validates the postings header and returns the whole file
// contents. Dict offsets are absolute into this buffer.
func readPostingsFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening postings file: %w", err)
	}
	if len(data) < 6 {
		return nil, fmt.Errorf("postings file %s: %w", path, io.ErrUnexpectedEOF)
	}
	if string(data[:4]) != MagicPost {
		return nil, fmt.Errorf("postings file %s: %w", path, errors.ErrBadMagic)
	}
	checkVersion(path, binary.LittleEndian.Uint16(data[4:6]))
	return data, nil
}

// readHeader validates a magic string and returns a cursor past the common
// (magic, version, count) header.
func readHeader(data []byte, magic string, path string) (*byteReader, uint32, error) {
	r := &byteReader{buf: data}
	got, err := r.bytes(4)
	if err != nil {
		return nil, 0, fmt.Errorf("reading %s header: %w", path, err)
	}
	if string(got) != magic {
		return nil, 0, fmt.Errorf("file %s: %w", path, errors.ErrBadMagic)
	}
	version, err := r.u16()
	if err != nil {
		return nil, 0, fmt.Errorf("reading %s header: %w", path, err)
	}
	checkVersion(path, version)
	count, err := r.u32()
	if err != nil {
		return nil, 0, fmt.Errorf("reading %s header: %w", path, err)
	}
	return r, count, nil
}

// checkVersion warns on unexpected versions instead of failing; the format
// has been stable since version 3 and older readers ignored the field.
func checkVersion(path string, version uint16) {
	if version != Version {
		slog.Warn("unexpected index file version",
			"file", path,
			"version", version,
			"expected", Version,
		)
	}
}

// byteReader is a bounds-checked cursor over a loaded file.
type byteReader struct {
	buf []byte
	off int
}

func (r *byteReader) bytes(n int) ([]byte, error) {
	if r.off+n > len(r.buf) {
		return nil, io.ErrUnexpectedEOF
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *byteReader) u8() (uint8, error) {
	b, err := r.bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *byteReader) u16() (uint16, error) {
	b, err := r.bytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *byteReader) u32() (uint32, error) {
	b, err := r.bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *byteReader) u64() (uint64, error) {
	b, err := r.bytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *byteReader) lengthPrefixed16() (string, error) {
	n, err := r.u16()
	if err != nil {
		return "", err
	}
	b, err := r.bytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
