package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"sync"

	"github.com/tmc/langchaingo/llms"

	"github.com/kaimana/makeke/internal/models"
	"github.com/kaimana/makeke/internal/tools"
)

// maxToolRounds bounds the tool-resolution loop. When the budget is
// exhausted with calls still pending, the session returns whatever text is
// available instead of looping forever.
const maxToolRounds = 5

// temperature matches the assistant's configured sampling temperature.
const temperature = 0.7

// TransportApology is returned in place of a reply when the backend fails.
// The session history stays valid, so the conversation can continue on the
// next turn.
const TransportApology = "Sorry, I'm having trouble connecting to the network right now. Please try again later."

// emptyReplyFallback covers a successful exchange that produced no text.
const emptyReplyFallback = "Sorry, I couldn't understand that."

// ErrEmptyTurn is returned when a turn carries neither text nor an image.
var ErrEmptyTurn = errors.New("turn carries no text and no image")

// ToolRunner resolves a single tool call. Results never fail; failures are
// encoded into the response content.
type ToolRunner interface {
	Execute(ctx context.Context, call llms.ToolCall) llms.ToolCallResponse
}

// Session is one ongoing multi-turn conversation with the model. It owns
// the running message history (system instruction plus every turn and tool
// exchange) and is the only component that mutates it. Turns run strictly
// one at a time.
type Session struct {
	model  llms.Model
	runner ToolRunner
	logger *slog.Logger

	mu      sync.Mutex
	history []llms.MessageContent
}

// NewSession creates a session over the model and tool runner. The history
// is initialized lazily on the first send.
func NewSession(model llms.Model, runner ToolRunner, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		model:  model,
		runner: runner,
		logger: logger,
	}
}

// Reset discards the conversation history. The next turn starts a fresh
// session. Used at authentication boundaries.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}

// SendTurn sends one logical user turn (text plus optional image) and
// returns the model's final text after resolving any tool calls.
//
// Text may be empty only when an image is present. Backend failures are
// caught here and surfaced as TransportApology rather than an error, so a
// failed turn never poisons the conversation.
func (s *Session) SendTurn(ctx context.Context, text string, image *models.PendingImage) (string, error) {
	if text == "" && image.Empty() {
		return "", ErrEmptyTurn
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.history) == 0 {
		s.history = append(s.history, llms.TextParts(llms.ChatMessageTypeSystem, SystemInstruction))
	}

	userMsg, err := buildUserMessage(text, image)
	if err != nil {
		return "", err
	}
	s.history = append(s.history, userMsg)

	choice, ok := s.generate(ctx)
	if !ok {
		return TransportApology, nil
	}

	// Tool-resolution loop: execute every requested call, hand all results
	// back as one batched message, then read the next response.
	for rounds := maxToolRounds; len(choice.ToolCalls) > 0 && rounds > 0; rounds-- {
		s.appendToolExchange(ctx, choice.ToolCalls)

		choice, ok = s.generate(ctx)
		if !ok {
			return TransportApology, nil
		}
	}

	reply := choice.Content
	if reply == "" {
		reply = emptyReplyFallback
	}
	s.history = append(s.history, llms.TextParts(llms.ChatMessageTypeAI, reply))
	return reply, nil
}

// generate runs one model exchange against the current history. Returns
// ok=false on backend failure, which the caller turns into the apology.
func (s *Session) generate(ctx context.Context) (*llms.ContentChoice, bool) {
	resp, err := s.model.GenerateContent(ctx, s.history,
		llms.WithTools(tools.Declarations()),
		llms.WithTemperature(temperature),
	)
	if err != nil {
		s.logger.Error("model backend call failed", "error", err)
		return nil, false
	}
	if len(resp.Choices) == 0 {
		s.logger.Error("model backend returned no choices")
		return nil, false
	}
	return resp.Choices[0], true
}

// appendToolExchange records the assistant's tool calls and their batched
// results in the history.
func (s *Session) appendToolExchange(ctx context.Context, calls []llms.ToolCall) {
	callMsg := llms.MessageContent{Role: llms.ChatMessageTypeAI}
	for _, call := range calls {
		callMsg.Parts = append(callMsg.Parts, call)
	}
	s.history = append(s.history, callMsg)

	resultMsg := llms.MessageContent{Role: llms.ChatMessageTypeTool}
	for _, call := range calls {
		name := ""
		if call.FunctionCall != nil {
			name = call.FunctionCall.Name
		}
		s.logger.Debug("resolving tool call", "tool", name, "id", call.ID)
		resultMsg.Parts = append(resultMsg.Parts, s.runner.Execute(ctx, call))
	}
	s.history = append(s.history, resultMsg)
}

// buildUserMessage assembles the user turn's content parts.
func buildUserMessage(text string, image *models.PendingImage) (llms.MessageContent, error) {
	if text == "" {
		// Some backends reject turns with no text part at all.
		text = " "
	}
	parts := []llms.ContentPart{llms.TextPart(text)}

	if !image.Empty() {
		data, err := base64.StdEncoding.DecodeString(image.Data)
		if err != nil {
			return llms.MessageContent{}, errors.New("image payload is not valid base64")
		}
		parts = append(parts, llms.BinaryPart(image.MIMEType, data))
	}

	return llms.MessageContent{Role: llms.ChatMessageTypeHuman, Parts: parts}, nil
}

// HistoryLen reports the number of messages in the session history
// (test hook).
func (s *Session) HistoryLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}
