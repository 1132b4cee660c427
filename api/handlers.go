package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/plataforma-iris/iris/pkg/affinity"
	"github.com/plataforma-iris/iris/pkg/conversation"
	"github.com/plataforma-iris/iris/pkg/politics"
)

// ChatRequest is the body of POST /v1/chat.
type ChatRequest struct {
	Message     string  `json:"message"`
	SessionID   string  `json:"session_id,omitempty"`
	UserID      string  `json:"user_id,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// AffinityRequest is the body of POST /v1/affinity.
type AffinityRequest struct {
	UserName string         `json:"user_name,omitempty"`
	Votes    []AffinityVote `json:"votes"`
}

// AffinityVote is one survey answer in an AffinityRequest.
type AffinityVote struct {
	QuestionID int    `json:"question_id"`
	Vote       string `json:"vote"`
}

// AffinityResponse is the body of a successful affinity calculation.
type AffinityResponse struct {
	UserName    string            `json:"user_name,omitempty"`
	PerformedAt time.Time         `json:"performed_at"`
	Ranking     []affinity.Result `json:"ranking"`
	Summary     affinity.Stats    `json:"summary"`
}

// ClassifyRequest is the body of POST /v1/classify.
type ClassifyRequest struct {
	Text string `json:"text"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleChat runs the conversation pipeline. Short of a malformed body it
// always answers 200 with a well-formed chat result.
func (s *Server) handleChat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "message is required"})
	}

	result := s.chatter.HandleChat(c.Context(), conversation.Message{
		Text:        req.Message,
		SessionID:   req.SessionID,
		UserID:      req.UserID,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})

	return c.JSON(result)
}

// handleAffinity validates the survey answers, scores them against the
// reference politicians present in storage, and returns the ranking.
func (s *Server) handleAffinity(c *fiber.Ctx) error {
	var req AffinityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	questions := affinity.Questions()

	votes := make([]affinity.UserVote, 0, len(req.Votes))
	for _, v := range req.Votes {
		value, err := politics.ParseVoteValue(v.Vote)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
		}
		votes = append(votes, affinity.UserVote{QuestionID: v.QuestionID, Vote: value})
	}
	if err := affinity.ValidateVotes(votes, questions); err != nil {
		var verr affinity.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: verr.Error()})
		}
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	userVotes := make(map[int]politics.VoteValue, len(votes))
	for _, v := range votes {
		userVotes[v.QuestionID] = v.Vote
	}

	politicians, err := s.store.ListPoliticians(c.Context())
	if err != nil {
		s.logger.Error("listing politicians", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to list politicians"})
	}

	reference := affinity.ReferenceVotes()
	results := make([]affinity.Result, 0, len(reference))
	for _, p := range politicians {
		recorded, ok := reference[p.Name]
		if !ok {
			continue
		}
		results = append(results, affinity.Score(p, userVotes, recorded, questions))
	}
	if len(results) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "no reference politicians found in storage"})
	}

	ranked := affinity.Rank(results)

	return c.JSON(AffinityResponse{
		UserName:    req.UserName,
		PerformedAt: time.Now().UTC(),
		Ranking:     ranked,
		Summary:     affinity.Summarize(ranked),
	})
}

// handleQuestions returns the fixed survey questionnaire.
func (s *Server) handleQuestions(c *fiber.Ctx) error {
	questions := affinity.Questions()
	return c.JSON(fiber.Map{
		"questions": questions,
		"total":     len(questions),
	})
}

// handleClassify classifies arbitrary text onto an ideological axis.
func (s *Server) handleClassify(c *fiber.Ctx) error {
	var req ClassifyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}
	if strings.TrimSpace(req.Text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "text is required"})
	}

	return c.JSON(s.classifier.Classify(c.Context(), req.Text))
}
