package benchmark

import (
	"fmt"
	"testing"

	"github.com/irsearch/platform/internal/index"
	"github.com/irsearch/platform/internal/search"
)

func benchIndex(b *testing.B, docs int) *index.Index {
	b.Helper()
	dir := b.TempDir()
	builder := index.NewBuilder()
	bodies := []string{
		"alpha beta gamma delta",
		"alpha gamma epsilon",
		"beta delta zeta eta",
		"gamma eta theta alpha beta",
	}
	for i := 0; i < docs; i++ {
		builder.AddDocument(fmt.Sprintf("http://bench/%d", i), "bench", bodies[i%len(bodies)])
	}
	if err := builder.Write(dir); err != nil {
		b.Fatal(err)
	}
	ix, err := index.Load(dir)
	if err != nil {
		b.Fatal(err)
	}
	return ix
}

func BenchmarkEvaluate(b *testing.B) {
	ix := benchIndex(b, 10000)
	queries := map[string]string{
		"single":       "alpha",
		"and":          "alpha && beta",
		"or":           "alpha || zeta",
		"not":          "alpha && !eta",
		"parenthesised": "(alpha || beta) && (gamma || delta) && !theta",
	}
	for name, q := range queries {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				ids, err := search.Evaluate(ix, q)
				if err != nil {
					b.Fatal(err)
				}
				_ = ids
			}
		})
	}
}

func BenchmarkEvaluateParallel(b *testing.B) {
	ix := benchIndex(b, 10000)
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			ids, err := search.Evaluate(ix, "alpha && beta")
			if err != nil {
				b.Fatal(err)
			}
			_ = ids
		}
	})
}

func BenchmarkPhraseSearch(b *testing.B) {
	ix := benchIndex(b, 5000)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		ids, err := search.PhraseSearch(ix, []string{"alpha", "beta"}, 2)
		if err != nil {
			b.Fatal(err)
		}
		_ = ids
	}
}
