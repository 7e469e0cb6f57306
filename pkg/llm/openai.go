package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"golang.org/x/time/rate"
)

const defaultModel = "gpt-4o-mini"

// OpenAIGateway streams chat completions through the OpenAI API, rate
// limited so a burst of concurrent planner stages never exceeds the
// account's request budget.
type OpenAIGateway struct {
	client  openai.Client
	model   string
	limiter *rate.Limiter
}

// NewOpenAIGateway builds a gateway from an API key. requestsPerSecond
// bounds outbound call rate; a value <= 0 falls back to 2 req/s, a
// conservative default for a chat-style workload.
func NewOpenAIGateway(apiKey string, requestsPerSecond float64) *OpenAIGateway {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 2
	}
	return &OpenAIGateway{
		client:  openai.NewClient(option.WithAPIKey(apiKey)),
		model:   defaultModel,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// Stream implements Gateway via the Chat Completions streaming endpoint.
func (g *OpenAIGateway) Stream(ctx context.Context, systemPrompt, userPrompt string) <-chan Chunk {
	out := make(chan Chunk, 16)

	go func() {
		defer close(out)

		if err := g.limiter.Wait(ctx); err != nil {
			out <- Chunk{Err: fmt.Errorf("llm: rate limiter: %w", err)}
			return
		}

		messages := []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		}

		stream := g.client.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
			Model:    g.model,
			Messages: messages,
		})
		defer func() { _ = stream.Close() }()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			content := chunk.Choices[0].Delta.Content
			if content == "" {
				continue
			}
			select {
			case out <- Chunk{Content: content}:
			case <-ctx.Done():
				out <- Chunk{Err: ctx.Err()}
				return
			}
		}
		if err := stream.Err(); err != nil {
			slog.Error("llm: stream failed", "error", err)
			out <- Chunk{Err: fmt.Errorf("llm: stream: %w", err)}
		}
	}()

	return out
}
