package affinity_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/plataforma-iris/iris/pkg/affinity"
	"github.com/plataforma-iris/iris/pkg/politics"
)

func allSim() map[int]politics.VoteValue {
	votes := make(map[int]politics.VoteValue)
	for _, q := range affinity.Questions() {
		votes[q.ID] = politics.VoteSim
	}
	return votes
}

func TestValidateVotes(t *testing.T) {
	questions := affinity.Questions()

	cases := []struct {
		name   string
		votes  []affinity.UserVote
		reason bool
	}{
		{"no votes", nil, true},
		{"unknown question", []affinity.UserVote{{QuestionID: 99, Vote: politics.VoteSim}}, true},
		{"duplicate question", []affinity.UserVote{
			{QuestionID: 1, Vote: politics.VoteSim},
			{QuestionID: 1, Vote: politics.VoteNao},
		}, true},
		{"unknown vote value", []affinity.UserVote{{QuestionID: 1, Vote: "TALVEZ"}}, true},
		{"ausente not a survey answer", []affinity.UserVote{{QuestionID: 1, Vote: politics.VoteAusente}}, true},
		{"valid decisive votes", []affinity.UserVote{
			{QuestionID: 1, Vote: politics.VoteSim},
			{QuestionID: 2, Vote: politics.VoteNao},
		}, false},
		{"abstention is allowed", []affinity.UserVote{{QuestionID: 3, Vote: politics.VoteAbstencao}}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := affinity.ValidateVotes(tc.votes, questions)
			if tc.reason && err == nil {
				t.Fatal("expected a validation error, got nil")
			}
			if !tc.reason && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err != nil {
				var verr affinity.ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected ValidationError, got %T", err)
				}
			}
		})
	}
}

func TestScoreFullAgreement(t *testing.T) {
	questions := affinity.Questions()
	p := politics.Politician{ID: uuid.New(), Name: "Celso Russomanno", Party: "Republicanos", State: "SP"}
	refVotes := affinity.ReferenceVotes()[p.Name]

	r := affinity.Score(p, allSim(), refVotes, questions)

	// The reference deputy has no recorded vote on question 1 and SIM on the
	// other five.
	if r.Comparable != 5 {
		t.Fatalf("comparable = %d, want 5", r.Comparable)
	}
	if r.Coincident != 5 || r.Divergent != 0 {
		t.Fatalf("coincident/divergent = %d/%d, want 5/0", r.Coincident, r.Divergent)
	}
	if r.Score != 100.0 {
		t.Fatalf("score = %v, want 100.0", r.Score)
	}

	detail := r.Detail[1]
	if detail.Outcome != affinity.OutcomeNotComparable {
		t.Fatalf("question 1 outcome = %q, want %q", detail.Outcome, affinity.OutcomeNotComparable)
	}
	if detail.Politician != politics.VoteAusente {
		t.Fatalf("question 1 politician vote = %q, want AUSENTE", detail.Politician)
	}
}

func TestScoreMixedAgreement(t *testing.T) {
	questions := affinity.Questions()
	p := politics.Politician{ID: uuid.New(), Name: "Nikolas Ferreira"}
	refVotes := affinity.ReferenceVotes()[p.Name]

	r := affinity.Score(p, allSim(), refVotes, questions)

	// Recorded votes: SIM on questions 2 and 5, NAO on 3, 4, and 6.
	if r.Comparable != 5 {
		t.Fatalf("comparable = %d, want 5", r.Comparable)
	}
	if r.Coincident != 2 || r.Divergent != 3 {
		t.Fatalf("coincident/divergent = %d/%d, want 2/3", r.Coincident, r.Divergent)
	}
	if r.Score != -20.0 {
		t.Fatalf("score = %v, want -20.0", r.Score)
	}
}

func TestScoreAbstentionNotComparable(t *testing.T) {
	questions := affinity.Questions()
	p := politics.Politician{ID: uuid.New(), Name: "Tabata Amaral"}
	refVotes := affinity.ReferenceVotes()[p.Name]

	user := allSim()
	user[3] = politics.VoteAbstencao

	r := affinity.Score(p, user, refVotes, questions)

	if got := r.Detail[3].Outcome; got != affinity.OutcomeNotComparable {
		t.Fatalf("abstention outcome = %q, want %q", got, affinity.OutcomeNotComparable)
	}
	if r.Comparable != 5 {
		t.Fatalf("comparable = %d, want 5", r.Comparable)
	}
}

func TestScoreNothingComparable(t *testing.T) {
	questions := affinity.Questions()
	p := politics.Politician{ID: uuid.New(), Name: "Sem Registro"}

	r := affinity.Score(p, allSim(), nil, questions)

	if r.Comparable != 0 {
		t.Fatalf("comparable = %d, want 0", r.Comparable)
	}
	if r.Score != 0 {
		t.Fatalf("score = %v, want 0", r.Score)
	}
}

func TestScoreRounding(t *testing.T) {
	questions := affinity.Questions()
	p := politics.Politician{ID: uuid.New(), Name: "Parcial"}

	// Three comparable votes: two coincident, one divergent.
	votes := []politics.VoteValue{politics.VoteSim, politics.VoteSim, politics.VoteNao}
	user := map[int]politics.VoteValue{
		1: politics.VoteSim,
		2: politics.VoteSim,
		3: politics.VoteSim,
	}

	r := affinity.Score(p, user, votes, questions)

	if r.Score != 33.33 {
		t.Fatalf("score = %v, want 33.33", r.Score)
	}
}

func TestRankStableDescending(t *testing.T) {
	results := []affinity.Result{
		{Name: "b", Score: 40},
		{Name: "a", Score: 80},
		{Name: "c", Score: 40},
	}

	ranked := affinity.Rank(results)

	order := []string{"a", "b", "c"}
	for i, want := range order {
		if ranked[i].Name != want {
			t.Fatalf("ranked[%d] = %q, want %q", i, ranked[i].Name, want)
		}
	}

	// Input untouched.
	if results[0].Name != "b" {
		t.Fatal("Rank mutated its input")
	}
}

func TestSummarize(t *testing.T) {
	ranked := []affinity.Result{
		{Name: "a", Score: 80},
		{Name: "b", Score: 40},
		{Name: "c", Score: -20},
	}

	s := affinity.Summarize(ranked)

	if s.Max != 80 || s.Min != -20 {
		t.Fatalf("max/min = %v/%v, want 80/-20", s.Max, s.Min)
	}
	if s.Mean != 33.33 {
		t.Fatalf("mean = %v, want 33.33", s.Mean)
	}
	if s.Spread != 100 {
		t.Fatalf("spread = %v, want 100", s.Spread)
	}
	if s.Closest != "a" || s.Furthest != "c" {
		t.Fatalf("closest/furthest = %q/%q, want a/c", s.Closest, s.Furthest)
	}
	if s.Total != 3 {
		t.Fatalf("total = %d, want 3", s.Total)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := affinity.Summarize(nil)
	if s.Total != 0 || s.Closest != "" {
		t.Fatalf("unexpected stats for empty ranking: %+v", s)
	}
}
