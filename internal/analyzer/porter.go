package analyzer

import "strings"

// Stem reduces a lowercased word to its Porter (1980) stem. Words of two
// letters or fewer are returned unchanged.
func Stem(word string) string {
	if len(word) <= 2 {
		return word
	}
	w := word
	w = step1a(w)
	w = step1b(w)
	w = step1c(w)
	w = step2(w)
	w = step3(w)
	w = step4(w)
	w = step5a(w)
	w = step5b(w)
	return w
}

// isConsonant reports whether w[i] acts as a consonant. The letter y is a
// consonant at position 0 and after a vowel.
func isConsonant(w string, i int) bool {
	switch w[i] {
	case 'a', 'e', 'i', 'o', 'u':
		return false
	case 'y':
		if i == 0 {
			return true
		}
		return !isConsonant(w, i-1)
	default:
		return true
	}
}

// measure counts the vowel-consonant groupings after an optional leading
// consonant run; Porter's m(w).
func measure(w string) int {
	n := 0
	i := 0
	for i < len(w) && isConsonant(w, i) {
		i++
	}
	for i < len(w) {
		for i < len(w) && !isConsonant(w, i) {
			i++
		}
		if i >= len(w) {
			break
		}
		for i < len(w) && isConsonant(w, i) {
			i++
		}
		n++
	}
	return n
}

func containsVowel(w string) bool {
	for i := 0; i < len(w); i++ {
		if !isConsonant(w, i) {
			return true
		}
	}
	return false
}

// doubleConsonant reports whether w ends in two identical consonants.
func doubleConsonant(w string) bool {
	n := len(w)
	if n < 2 || w[n-1] != w[n-2] {
		return false
	}
	return isConsonant(w, n-1)
}

// cvc reports whether w ends consonant-vowel-consonant with the final
// consonant not being w, x, or y.
func cvc(w string) bool {
	n := len(w)
	if n < 3 {
		return false
	}
	if !isConsonant(w, n-1) || isConsonant(w, n-2) || !isConsonant(w, n-3) {
		return false
	}
	last := w[n-1]
	return last != 'w' && last != 'x' && last != 'y'
}

func step1a(w string) string {
	switch {
	case strings.HasSuffix(w, "sses"):
		return w[:len(w)-4] + "ss"
	case strings.HasSuffix(w, "ies"):
		return w[:len(w)-3] + "i"
	case strings.HasSuffix(w, "ss"):
		return w
	case strings.HasSuffix(w, "s"):
		return w[:len(w)-1]
	}
	return w
}

func step1b(w string) string {
	if strings.HasSuffix(w, "eed") {
		stem := w[:len(w)-3]
		if measure(stem) > 0 {
			return stem + "ee"
		}
		return w
	}

	removed := false
	if strings.HasSuffix(w, "ed") {
		stem := w[:len(w)-2]
		if containsVowel(stem) {
			w = stem
			removed = true
		}
	} else if strings.HasSuffix(w, "ing") {
		stem := w[:len(w)-3]
		if containsVowel(stem) {
			w = stem
			removed = true
		}
	}
	if !removed {
		return w
	}

	switch {
	case strings.HasSuffix(w, "at"), strings.HasSuffix(w, "bl"), strings.HasSuffix(w, "iz"):
		return w + "e"
	case doubleConsonant(w):
		last := w[len(w)-1]
		if last != 'l' && last != 's' && last != 'z' {
			return w[:len(w)-1]
		}
		return w
	case measure(w) == 1 && cvc(w):
		return w + "e"
	}
	return w
}

func step1c(w string) string {
	if !strings.HasSuffix(w, "y") {
		return w
	}
	if containsVowel(w[:len(w)-1]) {
		return w[:len(w)-1] + "i"
	}
	return w
}

type rule struct {
	suffix      string
	replacement string
}

var step2Rules = []rule{
	{"ational", "ate"},
	{"tional", "tion"},
	{"enci", "ence"},
	{"anci", "ance"},
	{"izer", "ize"},
	{"abli", "able"},
	{"alli", "al"},
	{"entli", "ent"},
	{"eli", "e"},
	{"ousli", "ous"},
	{"ization", "ize"},
	{"ation", "ate"},
	{"ator", "ate"},
	{"alism", "al"},
	{"iveness", "ive"},
	{"fulness", "ful"},
	{"ousness", "ous"},
	{"aliti", "al"},
	{"iviti", "ive"},
	{"biliti", "ble"},
}

var step3Rules = []rule{
	{"icate", "ic"},
	{"ative", ""},
	{"alize", "al"},
	{"iciti", "ic"},
	{"ical", "ic"},
	{"ful", ""},
	{"ness", ""},
}

// applyRules replaces the first matching suffix if the remaining stem has
// positive measure. The first suffix match ends the step either way.
func applyRules(w string, rules []rule) string {
	for _, r := range rules {
		if !strings.HasSuffix(w, r.suffix) {
			continue
		}
		stem := w[:len(w)-len(r.suffix)]
		if measure(stem) > 0 {
			return stem + r.replacement
		}
		return w
	}
	return w
}

func step2(w string) string {
	return applyRules(w, step2Rules)
}

func step3(w string) string {
	return applyRules(w, step3Rules)
}

var step4Suffixes = []string{
	"al", "ance", "ence", "er", "ic", "able", "ible", "ant",
	"ement", "ment", "ent", "ou", "ism", "ate", "iti", "ous",
	"ive", "ize",
}

func step4(w string) string {
	for _, s := range step4Suffixes {
		if !strings.HasSuffix(w, s) {
			continue
		}
		stem := w[:len(w)-len(s)]
		if measure(stem) > 1 {
			return stem
		}
		return w
	}
	if strings.HasSuffix(w, "ion") {
		stem := w[:len(w)-3]
		if len(stem) >= 1 {
			prev := stem[len(stem)-1]
			if (prev == 's' || prev == 't') && measure(stem) > 1 {
				return stem
			}
		}
	}
	return w
}

func step5a(w string) string {
	if !strings.HasSuffix(w, "e") {
		return w
	}
	stem := w[:len(w)-1]
	m := measure(stem)
	if m > 1 || (m == 1 && !cvc(stem)) {
		return stem
	}
	return w
}

func step5b(w string) string {
	if measure(w) > 1 && strings.HasSuffix(w, "ll") {
		return w[:len(w)-1]
	}
	return w
}
