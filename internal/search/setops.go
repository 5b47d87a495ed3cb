// Package search implements the query engine: sorted-set algebra over doc
// ids, the boolean query parser, and the positional phrase matcher.
package search

// Union merges two ascending duplicate-free id lists, emitting equal
// elements once.
func Union(a, b []int) []int {
	res := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			res = append(res, a[i])
			i++
		case b[j] < a[i]:
			res = append(res, b[j])
			j++
		default:
			res = append(res, a[i])
			i++
			j++
		}
	}
	res = append(res, a[i:]...)
	res = append(res, b[j:]...)
	return res
}

// Intersect keeps the ids present in both ascending duplicate-free lists.
func Intersect(a, b []int) []int {
	res := make([]int, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case b[j] < a[i]:
			j++
		default:
			res = append(res, a[i])
			i++
			j++
		}
	}
	return res
}

// Difference keeps the ids of a that are absent from b.
func Difference(a, b []int) []int {
	res := make([]int, 0, len(a))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			res = append(res, a[i])
			i++
		case b[j] < a[i]:
			j++
		default:
			i++
			j++
		}
	}
	res = append(res, a[i:]...)
	return res
}
