// Package affinity scores a user's survey answers against politicians'
// voting records. Scoring is a pure function over vote matrices; no storage
// or network calls happen here.
package affinity

import (
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/plataforma-iris/iris/pkg/politics"
)

// UserVote is one survey answer.
type UserVote struct {
	QuestionID int                `json:"question_id"`
	Vote       politics.VoteValue `json:"vote"`
}

// ComparisonOutcome labels a per-question comparison in the result detail.
type ComparisonOutcome string

const (
	OutcomeCoincident    ComparisonOutcome = "COINCIDENTE"
	OutcomeDivergent     ComparisonOutcome = "DIVERGENTE"
	OutcomeNotComparable ComparisonOutcome = "NAO_COMPARAVEL"
)

// QuestionDetail records how one question compared.
type QuestionDetail struct {
	User       politics.VoteValue `json:"user"`
	Politician politics.VoteValue `json:"politician"`
	Outcome    ComparisonOutcome  `json:"outcome"`
}

// Result is one politician's affinity with the user.
type Result struct {
	PoliticianID uuid.UUID              `json:"politician_id"`
	Name         string                 `json:"name"`
	Party        string                 `json:"party,omitempty"`
	State        string                 `json:"state,omitempty"`
	Score        float64                `json:"score_percent"`
	Coincident   int                    `json:"coincident"`
	Divergent    int                    `json:"divergent"`
	Comparable   int                    `json:"comparable"`
	Detail       map[int]QuestionDetail `json:"detail,omitempty"`
}

// Stats summarizes a ranking.
type Stats struct {
	Max      float64 `json:"max"`
	Min      float64 `json:"min"`
	Mean     float64 `json:"mean"`
	Spread   float64 `json:"spread"`
	Closest  string  `json:"closest,omitempty"`
	Furthest string  `json:"furthest,omitempty"`
	Total    int     `json:"total"`
}

// ValidationError reports malformed survey input. It is surfaced to the
// caller before any scoring happens.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return "invalid survey: " + e.Reason
}

// ValidateVotes checks a user's answers against the question set: at least
// one vote, every question id known, no duplicates, every vote value valid.
func ValidateVotes(votes []UserVote, questions []Question) error {
	if len(votes) == 0 {
		return ValidationError{Reason: "no votes provided"}
	}

	known := make(map[int]bool, len(questions))
	for _, q := range questions {
		known[q.ID] = true
	}

	seen := make(map[int]bool, len(votes))
	for _, v := range votes {
		if !known[v.QuestionID] {
			return ValidationError{Reason: fmt.Sprintf("unknown question id %d", v.QuestionID)}
		}
		if seen[v.QuestionID] {
			return ValidationError{Reason: fmt.Sprintf("duplicate vote for question %d", v.QuestionID)}
		}
		seen[v.QuestionID] = true

		switch v.Vote {
		case politics.VoteSim, politics.VoteNao, politics.VoteAbstencao:
		default:
			return ValidationError{Reason: fmt.Sprintf("unknown vote value %q", v.Vote)}
		}
	}
	return nil
}

// Score compares a user's answers with one politician's votes. The
// politician's votes are positionally aligned with the question set; the
// zero VoteValue means no recorded vote. A question counts as comparable
// only when both sides cast a decisive (SIM/NAO) vote.
func Score(p politics.Politician, userVotes map[int]politics.VoteValue, politicianVotes []politics.VoteValue, questions []Question) Result {
	r := Result{
		PoliticianID: p.ID,
		Name:         p.Name,
		Party:        p.Party,
		State:        p.State,
		Detail:       make(map[int]QuestionDetail, len(questions)),
	}

	for i, q := range questions {
		userVote, answered := userVotes[q.ID]
		if !answered {
			continue
		}

		var polVote politics.VoteValue
		if i < len(politicianVotes) {
			polVote = politicianVotes[i]
		}

		detail := QuestionDetail{User: userVote, Politician: polVote}
		if polVote == "" {
			detail.Politician = politics.VoteAusente
		}

		if !userVote.Decisive() || !polVote.Decisive() {
			detail.Outcome = OutcomeNotComparable
			r.Detail[q.ID] = detail
			continue
		}

		r.Comparable++
		if userVote == polVote {
			r.Coincident++
			detail.Outcome = OutcomeCoincident
		} else {
			r.Divergent++
			detail.Outcome = OutcomeDivergent
		}
		r.Detail[q.ID] = detail
	}

	if r.Comparable > 0 {
		r.Score = round2(float64(r.Coincident-r.Divergent) / float64(r.Comparable) * 100)
	}
	return r
}

// Rank sorts results descending by score. The sort is stable: equal scores
// preserve input order, with no secondary key.
func Rank(results []Result) []Result {
	out := make([]Result, len(results))
	copy(out, results)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// Summarize computes aggregate statistics over a ranked result list.
func Summarize(ranked []Result) Stats {
	if len(ranked) == 0 {
		return Stats{}
	}

	s := Stats{
		Max:      ranked[0].Score,
		Min:      ranked[0].Score,
		Closest:  ranked[0].Name,
		Furthest: ranked[len(ranked)-1].Name,
		Total:    len(ranked),
	}

	sum := 0.0
	for _, r := range ranked {
		if r.Score > s.Max {
			s.Max = r.Score
		}
		if r.Score < s.Min {
			s.Min = r.Score
		}
		sum += r.Score
	}

	s.Mean = round2(sum / float64(len(ranked)))
	s.Spread = round2(s.Max - s.Min)
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
