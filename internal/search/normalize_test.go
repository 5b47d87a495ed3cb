package search

import "testing"

func TestNormalizeEquivalentQueries(t *testing.T) {
	groups := [][]string{
		{"cat && dog", "dog && cat", "cat dog", "  dog   cat "},
		{"cat || dog", "dog || cat"},
		{"cats", "cat", "CAT"},
		{"a && (b || c)", "(c || b) && a"},
		{"!cat && dog", "dog && !cat", "dog !cat"},
		{"(cat)", "cat"},
	}
	for _, group := range groups {
		want := Normalize(group[0])
		for _, q := range group[1:] {
			if got := Normalize(q); got != want {
				t.Errorf("Normalize(%q) = %q, but Normalize(%q) = %q", q, got, group[0], want)
			}
		}
	}
}

func TestNormalizeDistinctQueries(t *testing.T) {
	pairs := [][2]string{
		{"cat && dog", "cat || dog"},
		{"!cat", "cat"},
		{"!(cat && dog)", "!cat && dog"},
		{"a && (b || c)", "a && b || c"}, // parens change the tree
		{"cat", "dog"},
	}
	for _, p := range pairs {
		left, right := Normalize(p[0]), Normalize(p[1])
		if left == right {
			t.Errorf("Normalize(%q) == Normalize(%q) == %q, want distinct", p[0], p[1], left)
		}
	}
}

func TestNormalizeEmpty(t *testing.T) {
	for _, q := range []string{"", "   ", "@#%"} {
		if got := Normalize(q); got != "" {
			t.Errorf("Normalize(%q) = %q, want empty", q, got)
		}
	}
}
