package normalizer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Longest affixes first
var (
	arabicPrefixes = []string{"وال", "بال", "كال", "فال", "لل", "ال"}
	arabicSuffixes = []string{"ها", "ات", "ون", "ين", "ان", "ية", "ه", "ة", "ي"}
)

const minStemLength = 2

// Stem applies light Arabic stemming: at most one definite-article prefix and
// one inflectional suffix are removed, never leaving fewer than two letters.
// Tokens without Arabic letters are returned unchanged.
func Stem(token string) string {
	if !isArabic(token) {
		return token
	}

	for _, prefix := range arabicPrefixes {
		if rest, ok := strings.CutPrefix(token, prefix); ok && utf8.RuneCountInString(rest) >= minStemLength {
			token = rest
			break
		}
	}

	for _, suffix := range arabicSuffixes {
		if rest, ok := strings.CutSuffix(token, suffix); ok && utf8.RuneCountInString(rest) >= minStemLength {
			token = rest
			break
		}
	}

	return token
}

func isArabic(token string) bool {
	for _, r := range token {
		if unicode.Is(unicode.Arabic, r) {
			return true
		}
	}
	return false
}
