// Package tools executes the callable functions declared to the model.
package tools

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/tmc/langchaingo/llms"

	"github.com/kaimana/makeke/internal/verification"
)

// Tool names declared to the model.
const (
	ToolSendVerificationCode   = "send_verification_code"
	ToolVerifyVerificationCode = "verify_verification_code"
)

// Declarations returns the tool set declared on every model turn.
func Declarations() []llms.Tool {
	return []llms.Tool{
		{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        ToolSendVerificationCode,
				Description: "Sends a 6-digit verification code to the provided phone number via SMS.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"phoneNumber": map[string]any{
							"type":        "string",
							"description": "The user's phone number.",
						},
					},
					"required": []string{"phoneNumber"},
				},
			},
		},
		{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        ToolVerifyVerificationCode,
				Description: "Verifies the 6-digit code entered by the user.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"phoneNumber": map[string]any{
							"type":        "string",
							"description": "The user's phone number.",
						},
						"code": map[string]any{
							"type":        "string",
							"description": "The 6-digit code entered by the user.",
						},
					},
					"required": []string{"phoneNumber", "code"},
				},
			},
		},
	}
}

// Executor resolves model tool calls against the verification collaborator.
//
// Execute never fails past this boundary: collaborator errors become a
// structured error result handed back to the model, because an escaped
// error would abort the session's tool-resolution loop mid-round.
type Executor struct {
	verifier verification.Service
	logger   *slog.Logger
}

// NewExecutor creates an executor over the verification collaborator.
func NewExecutor(verifier verification.Service, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{verifier: verifier, logger: logger}
}

// verificationArgs decodes the arguments of both verification tools.
type verificationArgs struct {
	PhoneNumber string `json:"phoneNumber"`
	Code        string `json:"code"`
}

// Execute runs a single tool call and returns its result tagged with the
// originating call's ID and name, so the model can correlate results when
// several calls are issued in one round.
func (e *Executor) Execute(ctx context.Context, call llms.ToolCall) llms.ToolCallResponse {
	resp := llms.ToolCallResponse{ToolCallID: call.ID}
	if call.FunctionCall == nil {
		resp.Content = errorResult("Unknown function")
		return resp
	}
	resp.Name = call.FunctionCall.Name

	var args verificationArgs
	if err := json.Unmarshal([]byte(call.FunctionCall.Arguments), &args); err != nil {
		e.logger.Warn("malformed tool arguments", "tool", call.FunctionCall.Name, "error", err)
		resp.Content = errorResult("Function execution failed")
		return resp
	}

	switch call.FunctionCall.Name {
	case ToolSendVerificationCode:
		if err := e.verifier.IssueCode(ctx, args.PhoneNumber); err != nil {
			e.logger.Error("send verification code failed", "phone", args.PhoneNumber, "error", err)
			resp.Content = errorResult("Function execution failed")
			return resp
		}
		resp.Content = marshalResult(map[string]any{"status": "sent"})

	case ToolVerifyVerificationCode:
		valid, err := e.verifier.CheckCode(ctx, args.PhoneNumber, args.Code)
		if err != nil {
			e.logger.Error("verify code failed", "phone", args.PhoneNumber, "error", err)
			resp.Content = errorResult("Function execution failed")
			return resp
		}
		msg := "Invalid code."
		if valid {
			msg = "Verification successful."
		}
		resp.Content = marshalResult(map[string]any{"valid": valid, "message": msg})

	default:
		e.logger.Warn("model requested unknown tool", "tool", call.FunctionCall.Name)
		resp.Content = errorResult("Unknown function")
	}

	return resp
}

func errorResult(msg string) string {
	return marshalResult(map[string]any{"error": msg})
}

func marshalResult(v map[string]any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return `{"error":"Function execution failed"}`
	}
	return string(b)
}
