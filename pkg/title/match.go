package title

import (
	"regexp"
	"sort"

	"github.com/hbollon/go-edlib"
)

var numberRegex = regexp.MustCompile(`\b(\d+)\b`)

// Similarity scores how close candidate is to query (0.0-1.0) using
// Jaro-Winkler over cleaned titles, adjusted when sequel numbers differ.
func Similarity(query, candidate string) float64 {
	q := Clean(query)
	c := Clean(candidate)
	if q == "" || c == "" {
		return 0
	}
	score := float64(edlib.JaroWinklerSimilarity(q, c))
	return adjustScoreForNumbers(score, numberRegex.FindAllString(q, -1), numberRegex.FindAllString(c, -1))
}

// Ranked is a candidate index with its similarity score.
type Ranked struct {
	Index int
	Score float64
}

// Rank scores candidates against query, best first. Ties keep input order.
func Rank(query string, candidates []string) []Ranked {
	out := make([]Ranked, len(candidates))
	for i, c := range candidates {
		out[i] = Ranked{Index: i, Score: Similarity(query, c)}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// adjustScoreForNumbers rewards matching sequel numbers and penalizes
// missing or different ones. Only applies when the query has numbers.
func adjustScoreForNumbers(score float64, queryNums, candidateNums []string) float64 {
	if len(queryNums) == 0 {
		return score
	}
	if len(candidateNums) == 0 {
		return score * 0.85
	}
	have := make(map[string]bool, len(candidateNums))
	for _, n := range candidateNums {
		have[n] = true
	}
	for _, n := range queryNums {
		if have[n] {
			return min(score*1.05, 1.0)
		}
	}
	return score * 0.90
}
