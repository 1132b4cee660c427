// Package classify assigns political-ideology axes to legislative text using
// a hybrid strategy: a cheap deterministic keyword pass, then an embedding
// comparison against per-axis anchor bases for texts the keywords miss.
package classify

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/plataforma-iris/iris/pkg/embeddings"
	"github.com/plataforma-iris/iris/pkg/politics"
)

const marginEpsilon = 1e-9

// Embedder is the slice of the embedding service the classifier needs.
// A zero vector means no embedding could be produced.
type Embedder interface {
	Embed(ctx context.Context, text string) []float32
}

// Result is one classification outcome.
type Result struct {
	Axis       politics.Axis                 `json:"axis"`
	Confidence float64                       `json:"confidence"`
	Method     politics.ClassificationMethod `json:"method,omitempty"`
}

// Config holds the classifier's tuned constants. The blend weights were
// chosen empirically; they are configuration precisely because no derivation
// backs them.
type Config struct {
	// BlendAbs weights the rescaled best similarity in the embedding-path
	// confidence. Defaults to 0.6.
	BlendAbs float64

	// BlendMargin weights the margin sign term. Defaults to 0.4.
	BlendMargin float64
}

// DefaultConfig returns the blend weights used in production.
func DefaultConfig() Config {
	return Config{BlendAbs: 0.6, BlendMargin: 0.4}
}

// Classifier assigns an axis and confidence to texts.
type Classifier struct {
	cfg      Config
	embedder Embedder
	logger   *zap.Logger

	mu    sync.Mutex
	basis []axisBasis
}

type axisBasis struct {
	axis   politics.Axis
	vector []float32
}

// New creates a classifier. Pass a zero Config to use the default blend
// weights.
func New(cfg Config, embedder Embedder, logger *zap.Logger) *Classifier {
	if cfg.BlendAbs == 0 && cfg.BlendMargin == 0 {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{cfg: cfg, embedder: embedder, logger: logger}
}

// Classify assigns an axis and confidence to a single text.
func (c *Classifier) Classify(ctx context.Context, text string) Result {
	return c.ClassifyBatch(ctx, []string{text})[0]
}

// ClassifyBatch classifies texts, resolving as many as possible via the
// keyword pass so the embedding basis and model are only exercised for the
// remainder.
func (c *Classifier) ClassifyBatch(ctx context.Context, texts []string) []Result {
	results := make([]Result, len(texts))
	var pending []int

	for i, text := range texts {
		if r, ok := keywordChoice(text); ok {
			results[i] = r
		} else {
			// No method yet: the input produced no signal until the
			// embedding pass actually classifies it.
			results[i] = Result{Axis: politics.AxisUnknown}
			pending = append(pending, i)
		}
	}

	if len(pending) == 0 {
		return results
	}

	basis := c.axisBasis(ctx)
	if len(basis) == 0 {
		// Anchors could not be embedded; leave the pending entries unknown.
		return results
	}

	for _, i := range pending {
		emb := c.embedder.Embed(ctx, texts[i])
		if embeddings.IsZero(emb) {
			continue
		}
		results[i] = embeddingChoice(emb, basis, c.cfg)
	}

	return results
}

// keywordChoice runs the deterministic keyword pass. It reports false when
// no axis keyword occurs in the text.
func keywordChoice(text string) (Result, bool) {
	lower := strings.ToLower(text)

	counts := make(map[politics.Axis]int, len(axisKeywords))
	total := 0
	for _, axis := range politics.Axes() {
		n := 0
		for _, kw := range axisKeywords[axis] {
			n += strings.Count(lower, kw)
		}
		counts[axis] = n
		total += n
	}
	if total == 0 {
		return Result{}, false
	}

	chosen := politics.AxisUnknown
	best := -1
	for _, axis := range politics.Axes() {
		if counts[axis] > best {
			best = counts[axis]
			chosen = axis
		}
	}

	denom := 1
	for _, axis := range politics.Axes() {
		if counts[axis] > denom {
			denom = counts[axis]
		}
	}

	conf := float64(counts[chosen]) / float64(denom)
	return Result{Axis: chosen, Confidence: clip01(conf), Method: politics.MethodKeyword}, true
}

// embeddingChoice scores a text embedding against the axis bases. The text
// embedding is compared at its natural scale while the bases are unit
// vectors, so the score is a scaled projection rather than a true cosine.
func embeddingChoice(emb []float32, basis []axisBasis, cfg Config) Result {
	bestIdx := 0
	best := float64(embeddings.Dot(emb, basis[0].vector))
	second := -1.0

	for i := 1; i < len(basis); i++ {
		score := float64(embeddings.Dot(emb, basis[i].vector))
		if score > best {
			second = best
			best = score
			bestIdx = i
		} else if score > second {
			second = score
		}
	}

	margin := best - second
	rescaled := (best + 1) / 2
	conf := cfg.BlendAbs*rescaled + cfg.BlendMargin*(margin/(abs(margin)+marginEpsilon))

	return Result{
		Axis:       basis[bestIdx].axis,
		Confidence: clip01(conf),
		Method:     politics.MethodEmbedding,
	}
}

// axisBasis returns the per-axis basis vectors, building them once per
// process. Each basis is the positive-anchor embedding minus the negative,
// L2-normalized.
func (c *Classifier) axisBasis(ctx context.Context) []axisBasis {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.basis != nil {
		return c.basis
	}

	basis := make([]axisBasis, 0, len(politics.Axes()))
	for _, axis := range politics.Axes() {
		pos := c.embedder.Embed(ctx, anchorPositive[axis])
		neg := c.embedder.Embed(ctx, anchorNegative[axis])
		if embeddings.IsZero(pos) && embeddings.IsZero(neg) {
			c.logger.Warn("anchor embeddings unavailable", zap.String("axis", string(axis)))
			continue
		}

		diff := make([]float32, len(pos))
		for i := range diff {
			var n float32
			if i < len(neg) {
				n = neg[i]
			}
			diff[i] = pos[i] - n
		}
		basis = append(basis, axisBasis{axis: axis, vector: embeddings.Unit(diff)})
	}

	if len(basis) != len(politics.Axes()) {
		// Partial bases would skew the argmax; rebuild on the next call.
		c.logger.Warn("axis basis incomplete", zap.Int("built", len(basis)))
		return basis
	}

	c.basis = basis
	return basis
}

// ResetBasis discards the cached basis so it is rebuilt on the next
// classification, e.g. after anchors change.
func (c *Classifier) ResetBasis() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.basis = nil
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
