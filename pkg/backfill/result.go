package backfill

import "fmt"

// Result contains statistics from a backfill run.
type Result struct {
	PoliticiansEmbedded int
	PoliticiansSkipped  int
	DocumentsEmbedded   int
	DocumentsSkipped    int
	VotacoesClassified  int
}

// Summary returns a human-readable summary of the backfill result.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"Backfill complete: %d biographies embedded (%d skipped), "+
			"%d documents embedded (%d skipped), "+
			"%d voting events classified",
		r.PoliticiansEmbedded, r.PoliticiansSkipped,
		r.DocumentsEmbedded, r.DocumentsSkipped,
		r.VotacoesClassified,
	)
}
