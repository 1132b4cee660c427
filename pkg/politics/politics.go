// Package politics defines the domain records shared across the IRIS engine:
// politicians, legislative documents, voting events and their recorded votes,
// chat sessions, and the query-embedding cache.
package politics

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Axis is one of the five fixed ideological dimensions.
type Axis string

const (
	AxisEconomic       Axis = "eco"
	AxisSocial         Axis = "soc"
	AxisAuthoritarian  Axis = "aut"
	AxisEnvironmental  Axis = "amb"
	AxisCentralization Axis = "est"

	// AxisUnknown is assigned when neither the keyword nor the embedding
	// path produces a usable signal.
	AxisUnknown Axis = "unknown"
)

// Axes lists the classifiable axes in canonical order. Tie-breaking in the
// classifier is first-seen over this order.
func Axes() []Axis {
	return []Axis{AxisEconomic, AxisSocial, AxisAuthoritarian, AxisEnvironmental, AxisCentralization}
}

// VoteValue is a recorded vote on a voting event. The zero value means the
// politician has no recorded vote for the event.
type VoteValue string

const (
	VoteSim       VoteValue = "SIM"
	VoteNao       VoteValue = "NAO"
	VoteAbstencao VoteValue = "ABSTENCAO"
	VoteAusente   VoteValue = "AUSENTE"
)

// ParseVoteValue normalizes and validates a raw vote string.
func ParseVoteValue(raw string) (VoteValue, error) {
	switch v := VoteValue(strings.ToUpper(strings.TrimSpace(raw))); v {
	case VoteSim, VoteNao, VoteAbstencao, VoteAusente:
		return v, nil
	default:
		return "", fmt.Errorf("unknown vote value %q", raw)
	}
}

// Decisive reports whether the vote counts toward affinity comparison.
// Abstentions, absences, and unrecorded votes do not.
func (v VoteValue) Decisive() bool {
	return v == VoteSim || v == VoteNao
}

// IdeologyScores holds the per-axis ideology score of a politician.
// A nil entry means the axis has not been scored yet.
type IdeologyScores struct {
	Eco *float64 `json:"eco,omitempty"`
	Soc *float64 `json:"soc,omitempty"`
	Aut *float64 `json:"aut,omitempty"`
	Amb *float64 `json:"amb,omitempty"`
	Est *float64 `json:"est,omitempty"`
}

// Politician is a tracked public representative. Ideology, ICI, and the
// biography embedding are written only by the classification pipeline.
type Politician struct {
	ID       uuid.UUID `json:"id"`
	CamaraID int64     `json:"id_camara,omitempty"`
	Name     string    `json:"name"`
	Party    string    `json:"party,omitempty"`
	State    string    `json:"state,omitempty"`
	Role     string    `json:"role,omitempty"`
	Active   bool      `json:"active"`

	Ideology  IdeologyScores `json:"ideology,omitempty"`
	ICI       *float64       `json:"ici,omitempty"`
	Biography string         `json:"biography,omitempty"`

	BiographyEmbedding []float32 `json:"-"`
}

// Document is a legislative document (bill, amendment, ruling) with up to
// three embedded fields.
type Document struct {
	ID       uuid.UUID `json:"id"`
	SourceID string    `json:"source_id,omitempty"`
	Title    string    `json:"title"`
	Type     string    `json:"type,omitempty"`

	Ementa            string `json:"ementa,omitempty"`
	SimplifiedSummary string `json:"simplified_summary,omitempty"`
	OriginalContent   string `json:"original_content,omitempty"`
	SourceURL         string `json:"source_url,omitempty"`

	TitleEmbedding   []float32 `json:"-"`
	EmentaEmbedding  []float32 `json:"-"`
	ContentEmbedding []float32 `json:"-"`
}

// Content returns the richest available text for the document.
func (d Document) Content() string {
	for _, s := range []string{d.OriginalContent, d.SimplifiedSummary, d.Ementa, d.Title} {
		if strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// Vote is a politician's recorded vote on a document.
type Vote struct {
	DocumentID       uuid.UUID `json:"document_id"`
	DocumentSourceID string    `json:"document_source_id,omitempty"`
	Title            string    `json:"title"`
	Value            VoteValue `json:"value"`
}

// ClassificationMethod records how a voting event's axis was assigned.
type ClassificationMethod string

const (
	MethodKeyword   ClassificationMethod = "keyword"
	MethodEmbedding ClassificationMethod = "embedding"
	MethodManual    ClassificationMethod = "manual"
)

// Votacao is a voting event on a document. Axis, confidence, and method are
// set by the classifier and may be replaced by re-classification.
type Votacao struct {
	ID          uuid.UUID            `json:"id"`
	DocumentID  uuid.UUID            `json:"document_id"`
	Description string               `json:"description"`
	Axis        Axis                 `json:"axis,omitempty"`
	Confidence  float64              `json:"confidence,omitempty"`
	Method      ClassificationMethod `json:"method,omitempty"`
}

// AnchorPolarity marks which end of an axis an anchor phrase represents.
type AnchorPolarity string

const (
	PolarityPositive AnchorPolarity = "pos"
	PolarityNegative AnchorPolarity = "neg"
)

// AxisAnchor is a canonical phrase representing one polarity of one axis.
type AxisAnchor struct {
	Axis     Axis           `json:"axis"`
	Polarity AnchorPolarity `json:"polarity"`
	Text     string         `json:"text"`
}

// SessionMessage is one turn of a conversation session. Sessions are
// append-only and ordered by CreatedAt.
type SessionMessage struct {
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// ResponseLog is the append-only audit record of one chat exchange.
type ResponseLog struct {
	SessionID string    `json:"session_id,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	Prompt    string    `json:"prompt"`
	Response  string    `json:"response"`
	Sources   []string  `json:"sources,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CachedEmbedding is a query-embedding cache entry keyed by the sha256 of the
// exact query text. Entries are write-once; a duplicate put is a no-op.
type CachedEmbedding struct {
	Hash      string    `json:"hash"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
}
