// Package match ranks account names against a spoken or typed query.
package match

import (
	"sort"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/cleared-dev/sanad/internal/persian"
)

// DefaultThreshold is the minimum score accepted as a confident match.
const DefaultThreshold = 0.75

// Candidate is an account that a query may refer to.
type Candidate struct {
	ID   string
	Code string
	Name string
}

// Result is a scored candidate.
type Result struct {
	Candidate
	Score float64
	Exact bool
}

// Score returns a similarity in [0, 1] between two names after folding.
// Identical folded names score 1; an empty name scores 0.
func Score(a, b string) float64 {
	fa, fb := persian.Fold(a), persian.Fold(b)
	if fa == "" || fb == "" {
		return 0
	}
	if fa == fb {
		return 1
	}
	maxLen := max(utf8.RuneCountInString(fa), utf8.RuneCountInString(fb))
	d := levenshtein.ComputeDistance(fa, fb)
	return 1 - float64(d)/float64(maxLen)
}

// Rank scores every candidate against query and returns them best first.
// Ties are broken by code so the order is stable for a given input.
func Rank(query string, candidates []Candidate) []Result {
	fq := persian.Fold(query)
	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		s := Score(query, c.Name)
		results = append(results, Result{
			Candidate: c,
			Score:     s,
			Exact:     fq != "" && persian.Fold(c.Name) == fq,
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Exact != results[j].Exact {
			return results[i].Exact
		}
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Code < results[j].Code
	})
	return results
}

// Best returns the top-ranked candidate when it is an exact match or scores
// at least threshold.
func Best(query string, candidates []Candidate, threshold float64) (Result, bool) {
	ranked := Rank(query, candidates)
	if len(ranked) == 0 {
		return Result{}, false
	}
	top := ranked[0]
	if top.Exact || top.Score >= threshold {
		return top, true
	}
	return top, false
}
