package analyzer

import "testing"

func TestStem(t *testing.T) {
	cases := map[string]string{
		// Plural handling.
		"caresses": "caress",
		"ponies":   "poni",
		"ties":     "ti",
		"caress":   "caress",
		"cats":     "cat",
		// Past tense and gerunds.
		"feed":      "feed",
		"plastered": "plaster",
		"motoring":  "motor",
		"troubling": "troubl",
		"sing":      "sing",
		"hopping":   "hop",
		"falling":   "fall",
		"hissing":   "hiss",
		"fizzing":   "fizz",
		"filing":    "file",
		// Longer derivational chains.
		"rational":    "ration",
		"conditional": "condit",
		"organization": "organ",
		"sensitivity":  "sensit",
		"generalization": "gener",
		// Short words bypass everything.
		"a":  "a",
		"be": "be",
		"is": "is",
		// y handling.
		"happy": "happi",
		"sky":   "sky",
	}
	for word, want := range cases {
		if got := Stem(word); got != want {
			t.Errorf("Stem(%q) = %q, want %q", word, got, want)
		}
	}
}

// The classic per-step examples from Porter's paper. Steps 2 and 1b run on
// these inputs directly; the later steps then shorten some of them further,
// so the full Stem output differs.
func TestStemSteps(t *testing.T) {
	step1bCases := map[string]string{
		"agreed":    "agree",
		"conflated": "conflate",
	}
	for word, want := range step1bCases {
		if got := step1b(word); got != want {
			t.Errorf("step1b(%q) = %q, want %q", word, got, want)
		}
	}

	step2Cases := map[string]string{
		"relational": "relate",
		"valenci":    "valence",
		"digitizer":  "digitize",
	}
	for word, want := range step2Cases {
		if got := step2(word); got != want {
			t.Errorf("step2(%q) = %q, want %q", word, got, want)
		}
	}
}

func TestMeasure(t *testing.T) {
	cases := map[string]int{
		"tr":      0,
		"ee":      0,
		"tree":    0,
		"y":       0,
		"by":      0,
		"trouble": 1,
		"oats":    1,
		"trees":   1,
		"ivy":     1,
		"troubles": 2,
		"private":  2,
		"oaten":    2,
	}
	for word, want := range cases {
		if got := measure(word); got != want {
			t.Errorf("measure(%q) = %d, want %d", word, got, want)
		}
	}
}

func TestIsConsonant(t *testing.T) {
	// y is a consonant at position 0 and after a vowel.
	if !isConsonant("yes", 0) {
		t.Error("leading y should be a consonant")
	}
	if isConsonant("sky", 2) {
		t.Error("y after consonant should be a vowel")
	}
	if !isConsonant("say", 2) {
		t.Error("y after vowel should be a consonant")
	}
}

func TestCVC(t *testing.T) {
	cases := map[string]bool{
		"hop": true,
		"wil": true,
		"hou": false, // ends in a vowel
		"box": false, // ends in x
		"low": false, // ends in w
		"ray": false, // ends in y
		"hh":  false, // too short
	}
	for word, want := range cases {
		if got := cvc(word); got != want {
			t.Errorf("cvc(%q) = %v, want %v", word, got, want)
		}
	}
}
