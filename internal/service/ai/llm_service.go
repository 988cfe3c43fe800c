package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/billboard/backend/internal/metrics"
	"github.com/zhouzirui/billboard/backend/internal/model/chat"
)

const (
	chatMaxTokens     = 300
	chatTemperature   = 0.7
	greetingMaxTokens = 60
)

// Service runs completions through two compiled chains: a persona
// conversation (system + history + user) and a single-prompt greeting.
type Service struct {
	conversation compose.Runnable[map[string]any, *schema.Message]
	greeting     compose.Runnable[map[string]any, *schema.Message]
	log          *slog.Logger
}

// NewService compiles the chains around chatModel.
func NewService(ctx context.Context, chatModel model.ChatModel, log *slog.Logger) (*Service, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("chat model is required")
	}
	if log == nil {
		log = slog.Default()
	}

	conversationTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)
	conversationChain := compose.NewChain[map[string]any, *schema.Message]()
	conversationChain.AppendChatTemplate(conversationTemplate)
	conversationChain.AppendChatModel(chatModel)

	conversation, err := conversationChain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile conversation chain: %w", err)
	}

	greetingTemplate := prompt.FromMessages(
		schema.FString,
		schema.UserMessage("{prompt}"),
	)
	greetingChain := compose.NewChain[map[string]any, *schema.Message]()
	greetingChain.AppendChatTemplate(greetingTemplate)
	greetingChain.AppendChatModel(chatModel)

	greeting, err := greetingChain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile greeting chain: %w", err)
	}

	return &Service{
		conversation: conversation,
		greeting:     greeting,
		log:          log.With("component", "ai"),
	}, nil
}

// Converse replays history after the system instruction and appends query as
// the final user turn. The returned text is trimmed and may be empty.
func (s *Service) Converse(ctx context.Context, system string, history []chat.Turn, query string) (string, error) {
	input := map[string]any{
		"system":  system,
		"history": buildHistoryMessages(history),
		"query":   query,
	}

	start := time.Now()
	response, err := s.conversation.Invoke(ctx, input, compose.WithChatModelOption(
		model.WithTemperature(chatTemperature),
		model.WithMaxTokens(chatMaxTokens),
	))
	metrics.CompletionLatency.WithLabelValues("chat").Observe(time.Since(start).Seconds())
	metrics.UpstreamRequests.WithLabelValues("completion", metrics.Outcome(err)).Inc()
	if err != nil {
		return "", fmt.Errorf("failed to run conversation chain: %w", err)
	}

	content := messageText(response)
	s.log.DebugContext(ctx, "generated chat reply", "history", len(history), "length", len(content))
	return content, nil
}

// Complete sends a single user prompt and returns the trimmed text.
func (s *Service) Complete(ctx context.Context, userPrompt string) (string, error) {
	start := time.Now()
	response, err := s.greeting.Invoke(ctx, map[string]any{"prompt": userPrompt}, compose.WithChatModelOption(
		model.WithMaxTokens(greetingMaxTokens),
	))
	metrics.CompletionLatency.WithLabelValues("greeting").Observe(time.Since(start).Seconds())
	metrics.UpstreamRequests.WithLabelValues("completion", metrics.Outcome(err)).Inc()
	if err != nil {
		return "", fmt.Errorf("failed to run greeting chain: %w", err)
	}
	return messageText(response), nil
}

// buildHistoryMessages keeps entries in order, maps every non-user role onto
// the assistant and skips entries without a role or content.
func buildHistoryMessages(turns []chat.Turn) []*schema.Message {
	if len(turns) == 0 {
		return nil
	}

	history := make([]*schema.Message, 0, len(turns))
	for _, t := range turns {
		if t.Role == "" || t.Content == "" {
			continue
		}
		switch chat.ParseRole(t.Role) {
		case chat.RoleUser:
			history = append(history, schema.UserMessage(t.Content))
		default:
			history = append(history, schema.AssistantMessage(t.Content, nil))
		}
	}
	return history
}

func messageText(msg *schema.Message) string {
	if msg == nil {
		return ""
	}
	return strings.TrimSpace(msg.Content)
}
