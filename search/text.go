package search

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type numberWord struct {
	word  string
	digit string
}

// Spoken French numbers, 0-20 plus the tens up to 60. Compound forms
// come first so "dix-sept" rewrites as one unit instead of through its
// "dix" and "sept" parts.
var frenchNumbers = compileNumberWords([]numberWord{
	{"dix-sept", "17"}, {"dix-huit", "18"}, {"dix-neuf", "19"},
	{"zero", "0"}, {"un", "1"}, {"une", "1"}, {"deux", "2"},
	{"trois", "3"}, {"quatre", "4"}, {"cinq", "5"}, {"six", "6"},
	{"sept", "7"}, {"huit", "8"}, {"neuf", "9"}, {"dix", "10"},
	{"onze", "11"}, {"douze", "12"}, {"treize", "13"},
	{"quatorze", "14"}, {"quinze", "15"}, {"seize", "16"},
	{"vingt", "20"}, {"trente", "30"}, {"quarante", "40"},
	{"cinquante", "50"}, {"soixante", "60"},
})

type numberPattern struct {
	re    *regexp.Regexp
	digit string
}

func compileNumberWords(words []numberWord) []numberPattern {
	patterns := make([]numberPattern, len(words))
	for i, w := range words {
		patterns[i] = numberPattern{
			re:    regexp.MustCompile(`\b` + w.word + `\b`),
			digit: w.digit,
		}
	}
	return patterns
}

// Articles and prepositions that carry no matching signal.
var stopwords = map[string]bool{
	"le": true, "la": true, "les": true,
	"de": true, "du": true, "des": true,
	"a": true, "au": true, "aux": true,
	"et": true, "en": true,
}

var tokenSplit = regexp.MustCompile(`[\s\-_,.]+`)

// Normalize prepares text for comparison: canonical decomposition with
// combining marks stripped (so "Pyrénées" and "Pyrenees" come out the
// same), lowercased, trimmed, and whole spoken number words rewritten
// as digits ("quarante" -> "40", "dix-sept" -> "17"). Idempotent;
// empty input yields "".
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	s := strings.ToLower(foldMarks(text))
	s = strings.TrimSpace(s)
	for _, p := range frenchNumbers {
		s = p.re.ReplaceAllString(s, p.digit)
	}
	return s
}

// foldMarks decomposes to NFD and drops combining marks, collapsing
// accented letters onto their base letter.
func foldMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// ExtractKeywords returns the meaningful tokens of text: normalized,
// split on runs of whitespace, hyphen, underscore, comma, or period,
// keeping tokens of two or more runes that are not stopwords.
// Duplicates are retained in occurrence order.
func ExtractKeywords(text string) []string {
	if text == "" {
		return nil
	}
	var keywords []string
	for _, w := range tokenSplit.Split(Normalize(text), -1) {
		if utf8.RuneCountInString(w) < 2 || stopwords[w] {
			continue
		}
		keywords = append(keywords, w)
	}
	return keywords
}
