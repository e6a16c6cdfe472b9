// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package matching scores channel names against a fixture's team and
// competition tokens.
package matching

import (
	"regexp"
	"strings"

	"github.com/ManuGH/matchcast/internal/normalize"
)

// MinScore is the lowest score accepted as a match. It requires either one
// team plus a competition token or a live marker, or both teams.
const MinScore = 6

// Score weights.
const (
	WeightHome        = 4
	WeightAway        = 4
	WeightBothTeams   = 6
	WeightCompetition = 2
	WeightLive        = 1
)

var liveWord = regexp.MustCompile(`\blive\b`)

// Tokens is the tokenized form of a Query.
type Tokens struct {
	Home        []string
	Away        []string
	Competition []string
}

// Query identifies one fixture to match.
type Query struct {
	ID          string
	Home        string
	Away        string
	Competition string
}

// Tokens tokenizes the query's names.
func (q Query) Tokens() Tokens {
	return Tokens{
		Home:        normalize.Tokens(q.Home),
		Away:        normalize.Tokens(q.Away),
		Competition: normalize.Tokens(q.Competition),
	}
}

// Score rates how well channelName describes the fixture. Tokens are matched
// as substrings of the normalized name, so "madrid" also hits "madridtv".
func Score(channelName string, tok Tokens) int {
	hay := normalize.Text(channelName)
	if hay == "" {
		return 0
	}

	score := 0
	home := containsAny(hay, tok.Home)
	away := containsAny(hay, tok.Away)
	if home {
		score += WeightHome
	}
	if away {
		score += WeightAway
	}
	if home && away {
		score += WeightBothTeams
	}
	if containsAny(hay, tok.Competition) {
		score += WeightCompetition
	}
	if liveWord.MatchString(hay) {
		score += WeightLive
	}
	return score
}

func containsAny(hay string, tokens []string) bool {
	for _, t := range tokens {
		if t != "" && strings.Contains(hay, t) {
			return true
		}
	}
	return false
}

// Best returns the index and score of the highest scoring name. Ties keep the
// earliest name. Index is -1 when names is empty.
func Best(n int, name func(i int) string, tok Tokens) (int, int) {
	best, bestScore := -1, -1
	for i := 0; i < n; i++ {
		s := Score(name(i), tok)
		if s > bestScore {
			best, bestScore = i, s
		}
	}
	if best < 0 {
		return -1, 0
	}
	return best, bestScore
}

// Accept reports whether score clears MinScore.
func Accept(score int) bool {
	return score >= MinScore
}
