// Package messaging provides the messaging collaborator the chat core
// hands drafted messages to.
package messaging

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Messenger delivers a drafted message to a seller.
type Messenger interface {
	SendMessage(ctx context.Context, sellerID, text string) error
}

// SentMessage is a message recorded by the Outbox.
type SentMessage struct {
	SellerID string
	Text     string
	SentAt   time.Time
}

// Outbox is the reference Messenger: it records messages instead of
// delivering them. Swap in a real delivery channel behind Messenger.
type Outbox struct {
	logger *slog.Logger

	mu   sync.Mutex
	sent []SentMessage
}

// NewOutbox creates an empty outbox.
func NewOutbox(logger *slog.Logger) *Outbox {
	if logger == nil {
		logger = slog.Default()
	}
	return &Outbox{logger: logger}
}

// SendMessage records the message.
func (o *Outbox) SendMessage(ctx context.Context, sellerID, text string) error {
	o.mu.Lock()
	o.sent = append(o.sent, SentMessage{SellerID: sellerID, Text: text, SentAt: time.Now()})
	o.mu.Unlock()

	o.logger.Info("message queued for seller", "seller", sellerID, "chars", len(text))
	return nil
}

// Sent returns a copy of the recorded messages (test hook).
func (o *Outbox) Sent() []SentMessage {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]SentMessage, len(o.sent))
	copy(out, o.sent)
	return out
}
