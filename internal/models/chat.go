package models

import (
	"time"

	"github.com/kaimana/makeke/internal/intent"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one entry in the conversation transcript.
// Messages are immutable once appended to the history; insertion order is
// the rendered order.
type ChatMessage struct {
	ID        string         `json:"id"`
	Role      Role           `json:"role"`
	Text      string         `json:"text"`
	Image     string         `json:"image,omitempty"` // rendered preview only
	Intent    *intent.Intent `json:"intent,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// PendingImage is an image staged in the input composer. It is bundled
// into exactly one user turn and cleared afterwards; only Preview survives
// on the ChatMessage.
type PendingImage struct {
	Data     string `json:"data"` // base64-encoded payload, no data: prefix
	MIMEType string `json:"mime_type"`
	Preview  string `json:"preview"`
}

// Empty reports whether the pending image carries no payload.
func (p *PendingImage) Empty() bool {
	return p == nil || p.Data == ""
}
