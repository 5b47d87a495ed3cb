package index

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	pkgerrors "github.com/irsearch/platform/pkg/errors"
)

// buildTestIndex writes a small corpus and loads it back.
func buildTestIndex(t *testing.T, docs [][3]string) (*Index, string) {
	t.Helper()
	dir := t.TempDir()
	builder := NewBuilder()
	for _, d := range docs {
		builder.AddDocument(d[0], d[1], d[2])
	}
	if err := builder.Write(dir); err != nil {
		t.Fatalf("writing index: %v", err)
	}
	ix, err := Load(dir)
	if err != nil {
		t.Fatalf("loading index: %v", err)
	}
	return ix, dir
}

func TestIndexRoundTrip(t *testing.T) {
	ix, _ := buildTestIndex(t, [][3]string{
		{"http://a", "A", "the quick brown fox"},
		{"http://b", "B", "the lazy dog"},
		{"http://c", "C", "quick quick dog"},
	})

	if ix.DocCount() != 3 {
		t.Fatalf("DocCount = %d, want 3", ix.DocCount())
	}

	doc, err := ix.Doc(1)
	if err != nil {
		t.Fatalf("Doc(1): %v", err)
	}
	if doc.URL != "http://b" || doc.Title != "B" {
		t.Errorf("Doc(1) = %+v", doc)
	}

	ids, err := ix.DocIDs("quick")
	if err != nil {
		t.Fatalf("DocIDs(quick): %v", err)
	}
	if want := []int{0, 2}; !reflect.DeepEqual(ids, want) {
		t.Errorf("DocIDs(quick) = %v, want %v", ids, want)
	}

	ids, err = ix.DocIDs("dog")
	if err != nil {
		t.Fatalf("DocIDs(dog): %v", err)
	}
	if want := []int{1, 2}; !reflect.DeepEqual(ids, want) {
		t.Errorf("DocIDs(dog) = %v, want %v", ids, want)
	}

	// Unknown terms are empty, not errors.
	ids, err = ix.DocIDs("missing")
	if err != nil || len(ids) != 0 {
		t.Errorf("DocIDs(missing) = %v, %v", ids, err)
	}
}

func TestIndexFullPostings(t *testing.T) {
	ix, _ := buildTestIndex(t, [][3]string{
		{"a", "A", "x y x z x"},
		{"b", "B", "y x"},
	})

	entries, err := ix.FullPostings("x")
	if err != nil {
		t.Fatalf("FullPostings(x): %v", err)
	}
	want := []DocEntry{
		{DocID: 0, Positions: []int{0, 2, 4}},
		{DocID: 1, Positions: []int{1}},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("FullPostings(x) = %v, want %v", entries, want)
	}
}

// The sum of doc frequencies over the dictionary equals the number of
// distinct (term, doc) pairs in the corpus.
func TestDocFreqInvariant(t *testing.T) {
	_, dir := buildTestIndex(t, [][3]string{
		{"a", "A", "cats run"},
		{"b", "B", "dogs run"},
		{"c", "C", "cats sleep"},
	})
	records, err := ReadDict(filepath.Join(dir, "index.dict"))
	if err != nil {
		t.Fatalf("ReadDict: %v", err)
	}
	var sum uint32
	for _, rec := range records {
		sum += rec.DocFreq
	}
	// cat:{a,c} run:{a,b} dog:{b} sleep:{c}
	if sum != 6 {
		t.Errorf("sum of doc_freq = %d, want 6", sum)
	}
	if len(records) != 4 {
		t.Errorf("term count = %d, want 4", len(records))
	}
}

func TestDocsFileLayout(t *testing.T) {
	_, dir := buildTestIndex(t, [][3]string{
		{"url1", "T1", "hello"},
		{"url22", "T22", "world"},
	})
	data, err := os.ReadFile(filepath.Join(dir, "index.docs"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data[:4]) != "DOCS" {
		t.Fatalf("magic = %q", data[:4])
	}
	if v := binary.LittleEndian.Uint16(data[4:6]); v != 3 {
		t.Errorf("version = %d, want 3", v)
	}
	if n := binary.LittleEndian.Uint32(data[6:10]); n != 2 {
		t.Fatalf("doc_count = %d, want 2", n)
	}
	// First offset points just past the offset table.
	off0 := binary.LittleEndian.Uint64(data[10:18])
	if off0 != 4+2+4+2*8 {
		t.Errorf("offset[0] = %d, want %d", off0, 4+2+4+2*8)
	}
	// The record at offset[0] is (url_len, url, title_len, title).
	urlLen := binary.LittleEndian.Uint16(data[off0 : off0+2])
	if urlLen != 4 || string(data[off0+2:off0+6]) != "url1" {
		t.Errorf("first record url = len %d %q", urlLen, data[off0+2:off0+6])
	}
	// Second offset is the first plus the first record's size.
	off1 := binary.LittleEndian.Uint64(data[18:26])
	if off1 != off0+2+4+2+2 {
		t.Errorf("offset[1] = %d, want %d", off1, off0+2+4+2+2)
	}
}

func TestDictTermCountPatched(t *testing.T) {
	_, dir := buildTestIndex(t, [][3]string{
		{"a", "A", "one two three"},
	})
	data, err := os.ReadFile(filepath.Join(dir, "index.dict"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data[:4]) != "DICT" {
		t.Fatalf("magic = %q", data[:4])
	}
	if n := binary.LittleEndian.Uint32(data[6:10]); n != 3 {
		t.Errorf("term_count = %d, want 3", n)
	}
}

func TestLoadBadMagic(t *testing.T) {
	_, dir := buildTestIndex(t, [][3]string{{"a", "A", "word"}})
	path := filepath.Join(dir, "index.dict")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	copy(data[:4], "JUNK")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); !errors.Is(err, pkgerrors.ErrBadMagic) {
		t.Errorf("Load with corrupt magic = %v, want ErrBadMagic", err)
	}
}

func TestTruncatedPostings(t *testing.T) {
	_, dir := buildTestIndex(t, [][3]string{
		{"a", "A", strings.Repeat("word ", 300)},
	})
	path := filepath.Join(dir, "index.postings")
	if err := os.Truncate(path, 7); err != nil {
		t.Fatal(err)
	}
	reloaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load after truncate: %v", err)
	}
	if _, err := reloaded.DocIDs("word"); !errors.Is(err, pkgerrors.ErrMalformedPostings) {
		t.Errorf("DocIDs on truncated postings = %v, want ErrMalformedPostings", err)
	}
	if _, err := reloaded.FullPostings("word"); !errors.Is(err, pkgerrors.ErrMalformedPostings) {
		t.Errorf("FullPostings on truncated postings = %v, want ErrMalformedPostings", err)
	}
}

func TestLongTermTruncatedInDict(t *testing.T) {
	long := strings.Repeat("7", 300) // digits stem to themselves
	_, dir := buildTestIndex(t, [][3]string{
		{"a", "A", long},
	})
	records, err := ReadDict(filepath.Join(dir, "index.dict"))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("term count = %d, want 1", len(records))
	}
	if len(records[0].Term) != MaxTermLen {
		t.Errorf("stored term length = %d, want %d", len(records[0].Term), MaxTermLen)
	}
	if records[0].Term != long[:MaxTermLen] {
		t.Errorf("stored term is not the prefix of the original")
	}
}

func TestDocOutOfRange(t *testing.T) {
	ix, _ := buildTestIndex(t, [][3]string{{"a", "A", "word"}})
	if _, err := ix.Doc(5); !errors.Is(err, pkgerrors.ErrDocumentNotFound) {
		t.Errorf("Doc(5) = %v, want ErrDocumentNotFound", err)
	}
	if _, err := ix.Doc(-1); !errors.Is(err, pkgerrors.ErrDocumentNotFound) {
		t.Errorf("Doc(-1) = %v, want ErrDocumentNotFound", err)
	}
}

func TestEmptyIndex(t *testing.T) {
	ix, _ := buildTestIndex(t, nil)
	if ix.DocCount() != 0 {
		t.Errorf("DocCount = %d, want 0", ix.DocCount())
	}
	ids, err := ix.DocIDs("anything")
	if err != nil || len(ids) != 0 {
		t.Errorf("DocIDs on empty index = %v, %v", ids, err)
	}
}
