package textutil

import (
	"strings"
	"unicode"
)

// Normalize lowercases the input, strips every rune that is not a letter,
// digit, or space, and collapses whitespace runs to single spaces.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Similarity scores how closely two titles match, in [0,1].
//
// Both inputs are normalized first. Equal strings score 1.0 and substring
// containment in either direction scores 0.9, so the metric is not symmetric
// once the containment short-circuit fires. Otherwise the score blends
// character-level edit distance (weight 0.6) with whitespace-token overlap
// (weight 0.4), which keeps close character matches ahead while still
// rewarding shared words when lengths diverge, e.g. an appended subtitle.
func Similarity(a, b string) float64 {
	na := Normalize(a)
	nb := Normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1.0
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return 0.9
	}

	ra := []rune(na)
	rb := []rune(nb)
	maxLen := max(len(ra), len(rb))
	editScore := 1 - float64(Levenshtein(na, nb))/float64(maxLen)

	tokensA := strings.Fields(na)
	tokensB := strings.Fields(nb)
	seen := make(map[string]struct{}, len(tokensA))
	for _, tok := range tokensA {
		seen[tok] = struct{}{}
	}
	shared := 0
	counted := make(map[string]struct{}, len(tokensB))
	for _, tok := range tokensB {
		if _, ok := seen[tok]; !ok {
			continue
		}
		if _, dup := counted[tok]; dup {
			continue
		}
		counted[tok] = struct{}{}
		shared++
	}
	tokenScore := float64(shared) / float64(max(len(tokensA), len(tokensB)))

	return 0.6*editScore + 0.4*tokenScore
}

// Levenshtein computes the classic edit distance between two strings using a
// two-row dynamic program over runes.
func Levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}
