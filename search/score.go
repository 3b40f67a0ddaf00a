package search

import "strings"

// Tier values. Any substring hit outranks any keyword overlap, which
// is capped at keywordCeiling.
const (
	exactScore     = 1.0
	queryInTarget  = 0.9
	targetInQuery  = 0.8
	keywordCeiling = 0.7
)

// Score rates how well a free-text query matches a catalog label, in
// [0, 1]. Both sides are normalized first, then the first matching
// tier wins:
//
//	1.0  exact match
//	0.9  query contained in target
//	0.8  target contained in query
//	else matched query keywords / total query keywords, scaled by 0.7
//
// A query keyword counts as matched when it has a substring
// relationship, in either direction, with any target keyword; that
// tolerates plurals and prefixes ("pyrenees" vs "pyrenees-ste-croix").
// If either side has no keywords the last tier scores 0.
func Score(query, target string) float64 {
	q := Normalize(query)
	t := Normalize(target)

	if q == t {
		return exactScore
	}
	if strings.Contains(t, q) {
		return queryInTarget
	}
	if strings.Contains(q, t) {
		return targetInQuery
	}

	queryWords := ExtractKeywords(query)
	targetWords := ExtractKeywords(target)
	if len(queryWords) == 0 || len(targetWords) == 0 {
		return 0.0
	}

	matched := 0
	for _, qw := range queryWords {
		for _, tw := range targetWords {
			if strings.Contains(tw, qw) || strings.Contains(qw, tw) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(queryWords)) * keywordCeiling
}
