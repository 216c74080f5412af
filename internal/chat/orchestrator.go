// Package chat implements the conversation orchestrator: it owns the
// transcript, drives the model gateway one turn at a time, and dispatches
// confirmed intents to the marketplace collaborators.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kaimana/makeke/internal/intent"
	"github.com/kaimana/makeke/internal/listings"
	"github.com/kaimana/makeke/internal/messaging"
	"github.com/kaimana/makeke/internal/models"
)

// Sentinel errors. ErrEmptyTurn and ErrTurnInFlight mark Submit no-ops:
// callers may ignore them, nothing was appended or sent.
var (
	ErrEmptyTurn      = errors.New("empty turn")
	ErrTurnInFlight   = errors.New("a turn is already in flight")
	ErrUnknownMessage = errors.New("unknown message id")
	ErrNoIntent       = errors.New("message carries no intent")
	ErrNoActiveSeller = errors.New("no active seller to message")
)

// WelcomeText opens every conversation.
const WelcomeText = "Aloha! 🌺 Welcome to Mākeke, Hawaiʻi Island's local marketplace. " +
	"I can help you find items, create a listing in your district, or draft a message to a seller. " +
	"Note: we are currently exclusive to the Big Island."

// failureText is appended as the assistant turn when a turn could not be
// sent at all, so the transcript stays consistent on every error path.
const failureText = "Sorry, something went wrong on our end. Please try again."

// Gateway is the model gateway the orchestrator drives.
type Gateway interface {
	// SendTurn sends one user turn and returns the model's final text.
	SendTurn(ctx context.Context, text string, image *models.PendingImage) (string, error)
	// Reset discards the backend conversation.
	Reset()
}

// Dispatch is the application-level effect of a confirmed intent.
type Dispatch struct {
	Kind intent.Kind

	// Filters is set for search intents; the caller applies them to the
	// browse surface.
	Filters *models.SearchFilters
	// Listing is set for listing drafts, after it was created in the store.
	Listing *models.Listing
	// MessageSent is true for message drafts after handoff to the messenger.
	MessageSent bool
}

// Orchestrator owns one conversation. Turns run strictly one at a time; a
// Submit while another is in flight is rejected, since the backend session
// cannot interleave turns.
type Orchestrator struct {
	gateway   Gateway
	store     listings.Store
	messenger messaging.Messenger
	logger    *slog.Logger

	user         models.User
	activeSeller string

	mu       sync.Mutex
	inFlight bool
	history  []models.ChatMessage
}

// New creates an orchestrator for the given user over the collaborators.
// The transcript starts with the welcome message.
func New(gateway Gateway, store listings.Store, messenger messaging.Messenger, user models.User, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	o := &Orchestrator{
		gateway:   gateway,
		store:     store,
		messenger: messenger,
		logger:    logger,
		user:      user,
	}
	o.history = []models.ChatMessage{welcomeMessage()}
	return o
}

func welcomeMessage() models.ChatMessage {
	return models.ChatMessage{
		ID:        uuid.NewString(),
		Role:      models.RoleAssistant,
		Text:      WelcomeText,
		Timestamp: time.Now(),
	}
}

// SetActiveSeller sets the seller that confirmed message drafts go to.
func (o *Orchestrator) SetActiveSeller(sellerID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.activeSeller = sellerID
}

// History returns a copy of the transcript in insertion order.
func (o *Orchestrator) History() []models.ChatMessage {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]models.ChatMessage, len(o.history))
	copy(out, o.history)
	return out
}

// Reset clears the transcript and the backend session.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.history = []models.ChatMessage{welcomeMessage()}
	o.gateway.Reset()
}

// Submit sends one user turn. The user message is appended before the
// network call resolves; exactly one assistant message follows, carrying
// the parsed intent if the reply contained one. Returns the assistant
// message.
//
// A turn with no content, or submitted while another turn is in flight,
// is a no-op returning ErrEmptyTurn / ErrTurnInFlight.
func (o *Orchestrator) Submit(ctx context.Context, text string, image *models.PendingImage) (*models.ChatMessage, error) {
	if strings.TrimSpace(text) == "" && image.Empty() {
		return nil, ErrEmptyTurn
	}

	o.mu.Lock()
	if o.inFlight {
		o.mu.Unlock()
		return nil, ErrTurnInFlight
	}
	o.inFlight = true

	userMsg := models.ChatMessage{
		ID:        uuid.NewString(),
		Role:      models.RoleUser,
		Text:      text,
		Timestamp: time.Now(),
	}
	if !image.Empty() {
		userMsg.Image = image.Preview
	}
	o.history = append(o.history, userMsg)
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.inFlight = false
		o.mu.Unlock()
	}()

	reply, err := o.gateway.SendTurn(ctx, text, image)
	if err != nil {
		// The turn never reached the backend. Still append an assistant
		// turn so the transcript stays consistent.
		o.logger.Error("turn failed before reaching the backend", "error", err)
		reply = failureText
	}

	in, display := intent.Extract(reply)
	if !image.Empty() {
		in.EnsurePhoto(image.Preview)
	}

	assistantMsg := models.ChatMessage{
		ID:        uuid.NewString(),
		Role:      models.RoleAssistant,
		Text:      display,
		Intent:    in,
		Timestamp: time.Now(),
	}

	o.mu.Lock()
	o.history = append(o.history, assistantMsg)
	o.mu.Unlock()

	if in != nil {
		o.logger.Info("assistant reply carries an intent", "kind", in.Kind)
	}
	return &assistantMsg, nil
}

// Confirm dispatches the intent attached to a message: search intents
// resolve to filters for the browse surface, listing drafts are
// materialized and created in the listings store, message drafts are
// handed to the messenger.
//
// Confirm is deliberately not idempotent: confirming the same listing
// draft twice creates two listings.
func (o *Orchestrator) Confirm(ctx context.Context, messageID string) (*Dispatch, error) {
	msg, err := o.find(messageID)
	if err != nil {
		return nil, err
	}
	in := msg.Intent
	if in == nil {
		return nil, ErrNoIntent
	}

	switch in.Kind {
	case intent.KindSearch:
		filters := toSearchFilters(in.Search)
		o.logger.Info("search intent confirmed", "query", filters.Query)
		return &Dispatch{Kind: intent.KindSearch, Filters: &filters}, nil

	case intent.KindListingDraft:
		listing, err := o.materialize(*in.ListingDraft)
		if err != nil {
			return nil, err
		}
		if err := o.store.Create(ctx, listing); err != nil {
			return nil, fmt.Errorf("create listing: %w", err)
		}
		o.logger.Info("listing created from draft", "id", listing.ID, "title", listing.Title)
		return &Dispatch{Kind: intent.KindListingDraft, Listing: &listing}, nil

	case intent.KindMessageDraft:
		o.mu.Lock()
		seller := o.activeSeller
		o.mu.Unlock()
		if seller == "" {
			return nil, ErrNoActiveSeller
		}
		if err := o.messenger.SendMessage(ctx, seller, in.MessageDraft.MessageToSeller); err != nil {
			return nil, fmt.Errorf("send message: %w", err)
		}
		o.logger.Info("drafted message sent", "seller", seller)
		return &Dispatch{Kind: intent.KindMessageDraft, MessageSent: true}, nil
	}

	return nil, fmt.Errorf("unrecognized intent kind %q", in.Kind)
}

func (o *Orchestrator) find(messageID string) (models.ChatMessage, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, m := range o.history {
		if m.ID == messageID {
			return m, nil
		}
	}
	return models.ChatMessage{}, ErrUnknownMessage
}

// materialize turns a listing draft into a full listing record. A price
// that cannot be normalized blocks materialization with ErrInvalidPrice
// so a zero-price item is never posted silently.
func (o *Orchestrator) materialize(draft intent.ListingDraft) (models.Listing, error) {
	price, err := draft.Price.Amount()
	if err != nil {
		return models.Listing{}, fmt.Errorf("listing draft: %w", err)
	}

	category := draft.Category
	if category == "" {
		category = "Other"
	}
	photos := draft.Photos
	if len(photos) == 0 {
		photos = []string{models.PlaceholderPhoto}
	}

	return models.Listing{
		ID:           uuid.NewString(),
		Title:        draft.Title,
		Price:        price,
		Category:     category,
		Description:  draft.Description,
		Photos:       photos,
		Location:     draft.Location,
		Condition:    draft.Condition,
		SellerID:     o.user.ID,
		SellerName:   o.user.Name,
		SellerRating: o.user.Rating,
		CreatedAt:    time.Now(),
		Island:       models.IslandHawaii,
	}, nil
}

// toSearchFilters converts a search intent into store filters. Price
// bounds that fail to parse are dropped rather than failing the search.
func toSearchFilters(s *intent.Search) models.SearchFilters {
	f := models.SearchFilters{
		Query:    s.SearchQuery,
		Category: s.Filters.Category,
		Location: s.Filters.Location,
	}
	if v, err := intent.NormalizePrice(intent.Price(s.Filters.MinPrice)); err == nil && s.Filters.MinPrice != "" {
		f.MinPrice = &v
	}
	if v, err := intent.NormalizePrice(intent.Price(s.Filters.MaxPrice)); err == nil && s.Filters.MaxPrice != "" {
		f.MaxPrice = &v
	}
	return f
}
