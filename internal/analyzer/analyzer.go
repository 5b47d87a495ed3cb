// Package analyzer provides text analysis for the search engine. It splits
// input into maximal runs of ASCII alphanumerics, lower-cases them, and
// applies the Porter (1980) stemmer.
package analyzer

// Token represents a single stemmed term and its position in the original
// text. Positions are 0-based and count every emitted token, so they stay
// stable regardless of what the stemmer does to individual words.
type Token struct {
	Term     string
	Position int
}

// Tokenize breaks text into a slice of stemmed, lowercased Tokens. Any byte
// that is not an ASCII letter or digit is a separator.
func Tokenize(text string) []Token {
	tokens := make([]Token, 0, len(text)/6)
	pos := 0
	var word []byte
	flush := func() {
		if len(word) == 0 {
			return
		}
		tokens = append(tokens, Token{
			Term:     Stem(string(word)),
			Position: pos,
		})
		pos++
		word = word[:0]
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c >= 'a' && c <= 'z' || c >= '0' && c <= '9':
			word = append(word, c)
		case c >= 'A' && c <= 'Z':
			word = append(word, c+('a'-'A'))
		default:
			flush()
		}
	}
	flush()
	return tokens
}
