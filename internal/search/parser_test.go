package search

import (
	"errors"
	"reflect"
	"testing"

	"github.com/irsearch/platform/internal/index"
)

// fakeIndex serves canned postings for parser and phrase tests.
type fakeIndex struct {
	docCount int
	postings map[string][]index.DocEntry
	err      error
}

func (f *fakeIndex) DocIDs(term string) ([]int, error) {
	if f.err != nil {
		return nil, f.err
	}
	entries := f.postings[term]
	ids := make([]int, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.DocID)
	}
	return ids, nil
}

func (f *fakeIndex) FullPostings(term string) ([]index.DocEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.postings[term], nil
}

func (f *fakeIndex) DocCount() int {
	return f.docCount
}

// docsAt builds a positional-free postings list for parser tests.
func docsAt(ids ...int) []index.DocEntry {
	entries := make([]index.DocEntry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, index.DocEntry{DocID: id, Positions: []int{0}})
	}
	return entries
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{
		docCount: 6,
		postings: map[string][]index.DocEntry{
			"cat":   docsAt(0, 2),
			"dog":   docsAt(1),
			"run":   docsAt(0, 1),
			"sleep": docsAt(2),
			"all":   docsAt(0, 1, 2, 3, 4, 5),
		},
	}
}

func TestEvaluate(t *testing.T) {
	ix := newFakeIndex()
	cases := []struct {
		query string
		want  []int
	}{
		{"cat", []int{0, 2}},
		{"cats", []int{0, 2}}, // query terms are stemmed
		{"CAT", []int{0, 2}},  // and lowercased
		{"missing", []int{}},
		{"cat && run", []int{0}},
		{"cat run", []int{0}}, // juxtaposition is AND
		{"cat || dog", []int{0, 1, 2}},
		{"!run", []int{2, 3, 4, 5}},
		{"!!cat", []int{0, 2}},
		{"cat || dog && run", []int{0, 1, 2}}, // AND binds tighter
		{"(cat || dog) && run", []int{0, 1}},
		{"all && !sleep", []int{0, 1, 3, 4, 5}},
		{"cat && (run || sleep)", []int{0, 2}},
		{"", nil},
		{"   ", nil},
		{"(cat || dog", []int{0, 1, 2}}, // missing ) tolerated
		{"cat @# run", []int{0}},        // stray bytes skipped
		{"cat !sleep", []int{0}},        // implicit AND before NOT
	}
	for _, c := range cases {
		t.Run(c.query, func(t *testing.T) {
			got, err := Evaluate(ix, c.query)
			if err != nil {
				t.Fatalf("Evaluate(%q): %v", c.query, err)
			}
			if len(got) == 0 && len(c.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, c.want) {
				t.Errorf("Evaluate(%q) = %v, want %v", c.query, got, c.want)
			}
		})
	}
}

// != must not lex as NOT; its bytes are skipped and the terms around it
// combine with implicit AND.
func TestEvaluateNotEquals(t *testing.T) {
	ix := newFakeIndex()
	got, err := Evaluate(ix, "cat != run")
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{0}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

// Boolean identities over the fixed corpus universe.
func TestEvaluateAlgebra(t *testing.T) {
	ix := newFakeIndex()
	pairs := [][2]string{
		{"!!cat", "cat"},
		{"cat && (dog || run)", "(cat && dog) || (cat && run)"},
		{"cat || (dog && run)", "(cat || dog) && (cat || run)"},
		{"cat && dog", "dog && cat"},
		{"cat || dog", "dog || cat"},
	}
	for _, p := range pairs {
		left, err := Evaluate(ix, p[0])
		if err != nil {
			t.Fatal(err)
		}
		right, err := Evaluate(ix, p[1])
		if err != nil {
			t.Fatal(err)
		}
		if !equal(left, right) {
			t.Errorf("%q = %v but %q = %v", p[0], left, p[1], right)
		}
	}
}

func TestEvaluatePropagatesErrors(t *testing.T) {
	sentinel := errors.New("decode failed")
	ix := &fakeIndex{docCount: 1, err: sentinel}
	if _, err := Evaluate(ix, "anything"); !errors.Is(err, sentinel) {
		t.Errorf("Evaluate error = %v, want %v", err, sentinel)
	}
}
