// Package match implements fuzzy subsequence ranking over record names.
//
// A candidate matches when every rune of the query appears in its name in
// order, case-insensitively, not necessarily contiguously. Non-matching
// candidates are excluded from the result entirely. A name the query covers
// entirely outranks every partial match.
package match

import (
	"sort"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Candidate is one (id, name) pair to be ranked.
type Candidate struct {
	ID   uuid.UUID
	Name string
}

// Scoring weights. Every matched rune earns the base score; runs of adjacent
// matches and matches that start a word earn extra. A single rune contributes
// at most matchScore+consecutiveBonus+boundaryBonus, which is the ceiling the
// exact-cover score in score sits above.
const (
	matchScore       = 16
	consecutiveBonus = 8
	boundaryBonus    = 12
)

// Rank returns the ids of all matching candidates, best match first.
// Ties order by shorter name, then by id string, so the result is
// deterministic for a fixed input set regardless of input order.
func Rank(candidates []Candidate, query string) []uuid.UUID {
	pattern := []rune(strings.ToLower(query))

	type ranked struct {
		id      uuid.UUID
		score   int
		nameLen int
	}

	results := make([]ranked, 0, len(candidates))
	for _, c := range candidates {
		name := []rune(c.Name)
		s, ok := score(name, pattern)
		if !ok {
			continue
		}
		results = append(results, ranked{id: c.ID, score: s, nameLen: len(name)})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		if results[i].nameLen != results[j].nameLen {
			return results[i].nameLen < results[j].nameLen
		}
		return results[i].id.String() < results[j].id.String()
	})

	ids := make([]uuid.UUID, len(results))
	for i, r := range results {
		ids[i] = r.id
	}
	return ids
}

// score returns the best alignment of pattern onto name, considering every
// position each pattern rune could take rather than only the leftmost. It
// operates on runes, never bytes, so multi-byte characters are not split
// mid-match. Reports false when the pattern is not a subsequence of name.
func score(name, pattern []rune) (int, bool) {
	m := len(pattern)
	if m > len(name) {
		return 0, false
	}
	if m == 0 {
		return 0, true
	}

	const unset = -1

	// best[j] is the highest score with pattern[:j] matched somewhere in the
	// name runes scanned so far; ending[j] additionally pins the j-th match
	// to the current rune, which is what a run of adjacent matches extends.
	best := make([]int, m+1)
	ending := make([]int, m+1)
	prevEnding := make([]int, m+1)
	for j := 1; j <= m; j++ {
		best[j] = unset
	}
	ending[0] = unset
	prevEnding[0] = unset

	for i, r := range name {
		copy(prevEnding, ending)
		lower := unicode.ToLower(r)

		// j descends so best[j-1] still holds the previous rune's value.
		for j := m; j >= 1; j-- {
			ending[j] = unset
			if lower != pattern[j-1] || best[j-1] == unset {
				continue
			}

			from := best[j-1]
			if prevEnding[j-1] != unset && prevEnding[j-1]+consecutiveBonus > from {
				from = prevEnding[j-1] + consecutiveBonus
			}

			ending[j] = from + matchScore
			if isWordStart(name, i) {
				ending[j] += boundaryBonus
			}
			if ending[j] > best[j] {
				best[j] = ending[j]
			}
		}
	}

	if best[m] == unset {
		return 0, false
	}
	if len(name) == m {
		// The pattern covers the whole name. Score it above the ceiling any
		// partial alignment can reach.
		return m*(matchScore+consecutiveBonus+boundaryBonus) + matchScore, true
	}
	return best[m], true
}

// isWordStart reports whether the rune at index i begins a word: the start of
// the name, a rune following a separator, or an upper-case rune following a
// lower-case one (camelCase).
func isWordStart(name []rune, i int) bool {
	if i == 0 {
		return true
	}
	prev := name[i-1]
	if !unicode.IsLetter(prev) && !unicode.IsDigit(prev) {
		return true
	}
	return unicode.IsLower(prev) && unicode.IsUpper(name[i])
}
