package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/zhouzirui/billboard/backend/internal/analysis/food"
	"github.com/zhouzirui/billboard/backend/internal/logger"
	"github.com/zhouzirui/billboard/backend/internal/metrics"
	"github.com/zhouzirui/billboard/backend/internal/model/chat"
	"github.com/zhouzirui/billboard/backend/internal/service/ai"
)

var (
	ErrEmptyMessage = errors.New("message is required")
	ErrUpstream     = errors.New("failed to generate response")
)

// ApologyMessage replaces an empty completion.
const ApologyMessage = "I apologize, but I cannot process your request at the moment. Please try again."

// Conversation runs one persona completion over a replayed history.
type Conversation interface {
	Converse(ctx context.Context, system string, history []chat.Turn, query string) (string, error)
}

// Reply is the assistant's answer plus what the classifier saw in the user turn.
type Reply struct {
	Message   string
	IsFood    bool
	FoodItem  string
	Timestamp time.Time
}

// Service answers visitor messages. It holds no conversation state; the
// caller owns and resends history on every turn.
type Service struct {
	llm    Conversation
	system string
	now    func() time.Time
	log    *slog.Logger
}

// NewService builds the engine around llm with the billboard persona.
func NewService(llm Conversation, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		llm:    llm,
		system: ai.AssistantPersona,
		now:    func() time.Time { return time.Now().UTC() },
		log:    log.With("component", "chat"),
	}
}

// Respond classifies text, asks the model for a reply and reports both.
func (s *Service) Respond(ctx context.Context, text string, history []chat.Turn) (Reply, error) {
	if strings.TrimSpace(text) == "" {
		return Reply{}, ErrEmptyMessage
	}

	detection := food.Analyze(text)
	if detection.IsFood {
		metrics.FoodDetections.Inc()
		s.log.InfoContext(ctx, "food mention detected", "item", detection.Item)
	}

	content, err := s.llm.Converse(ctx, s.system, history, text)
	if err != nil {
		s.log.ErrorContext(ctx, "chat completion failed", logger.Err(err))
		return Reply{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if content == "" {
		content = ApologyMessage
	}

	return Reply{
		Message:   content,
		IsFood:    detection.IsFood,
		FoodItem:  detection.Item,
		Timestamp: s.now(),
	}, nil
}
