package classify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/plataforma-iris/iris/pkg/politics"
	"github.com/plataforma-iris/iris/pkg/storage"
)

// Reclassify classifies stored voting events that have no assigned axis and
// persists the results. It returns the number of events updated. Events the
// classifier cannot resolve are skipped, not failed.
func (c *Classifier) Reclassify(ctx context.Context, store storage.Store, limit int) (int, error) {
	votacoes, err := store.UnclassifiedVotacoes(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("listing unclassified votacoes: %w", err)
	}
	if len(votacoes) == 0 {
		return 0, nil
	}

	texts := make([]string, len(votacoes))
	for i, v := range votacoes {
		texts[i] = v.Description
	}

	results := c.ClassifyBatch(ctx, texts)

	updated := 0
	for i, r := range results {
		if r.Axis == politics.AxisUnknown {
			continue
		}
		if err := store.PutVotacaoAxis(ctx, votacoes[i].ID, r.Axis, r.Confidence, r.Method); err != nil {
			c.logger.Warn("failed to persist axis classification",
				zap.String("votacao", votacoes[i].ID.String()),
				zap.Error(err),
			)
			continue
		}
		updated++
	}

	return updated, nil
}
