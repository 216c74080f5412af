// Package intent extracts structured actions from assistant replies.
//
// Assistant replies may embed a single fenced ```json block describing one
// of three actions: a listing draft, a search, or a message draft. The block
// carries no explicit type tag; classification is by key presence with a
// fixed priority, since the shapes can overlap.
package intent

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind discriminates the intent union.
type Kind string

const (
	KindSearch       Kind = "search"
	KindListingDraft Kind = "listing_draft"
	KindMessageDraft Kind = "message_draft"
)

// Filters narrows a search. All fields are optional free-text values as
// emitted by the model; empty means "no filter".
type Filters struct {
	Category string `json:"category"`
	MinPrice string `json:"minPrice"`
	MaxPrice string `json:"maxPrice"`
	Location string `json:"location"`
}

// Search asks the application to browse listings with the given filters.
type Search struct {
	SearchQuery string  `json:"searchQuery"`
	Filters     Filters `json:"filters"`
}

// ListingDraft is a listing the assistant drafted for the user to confirm.
type ListingDraft struct {
	Title       string   `json:"title"`
	Price       Price    `json:"price"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Photos      []string `json:"photos"`
	Location    string   `json:"location"`
	Condition   string   `json:"condition"`
}

// MessageDraft is a message the assistant drafted for a seller.
type MessageDraft struct {
	MessageToSeller string `json:"messageToSeller"`
}

// Intent is the tagged union of the three recognized actions. Exactly one
// of the variant pointers is non-nil, matching Kind. An Intent is attached
// to at most one assistant message and is immutable once attached.
type Intent struct {
	Kind         Kind          `json:"kind"`
	Search       *Search       `json:"search,omitempty"`
	ListingDraft *ListingDraft `json:"listing_draft,omitempty"`
	MessageDraft *MessageDraft `json:"message_draft,omitempty"`
}

// EnsurePhoto backfills the user's uploaded photo onto a listing draft that
// arrived without photos, so a listing can be drafted around an upload even
// when the model omitted it. No-op for other intent kinds.
func (i *Intent) EnsurePhoto(preview string) {
	if i == nil || i.Kind != KindListingDraft || preview == "" {
		return
	}
	if len(i.ListingDraft.Photos) == 0 {
		i.ListingDraft.Photos = []string{preview}
	}
}

// payload probes the decoded block for classification. Pointer fields
// distinguish "key absent" from "key empty".
type payload struct {
	Title           *string  `json:"title"`
	Price           *Price   `json:"price"`
	Category        string   `json:"category"`
	Description     string   `json:"description"`
	Photos          []string `json:"photos"`
	Location        string   `json:"location"`
	Condition       string   `json:"condition"`
	SearchQuery     *string  `json:"searchQuery"`
	Filters         *Filters `json:"filters"`
	MessageToSeller *string  `json:"messageToSeller"`
}

// classify applies the priority rules to a decoded payload. Returns nil for
// an unrecognized shape.
func classify(raw []byte) (*Intent, error) {
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode action payload: %w", err)
	}

	switch {
	case p.Title != nil && *p.Title != "" && p.Price != nil:
		return &Intent{
			Kind: KindListingDraft,
			ListingDraft: &ListingDraft{
				Title:       *p.Title,
				Price:       *p.Price,
				Category:    p.Category,
				Description: p.Description,
				Photos:      p.Photos,
				Location:    p.Location,
				Condition:   p.Condition,
			},
		}, nil

	case p.SearchQuery != nil || p.Filters != nil:
		s := &Search{}
		if p.SearchQuery != nil {
			s.SearchQuery = *p.SearchQuery
		}
		if p.Filters != nil {
			s.Filters = *p.Filters
		}
		return &Intent{Kind: KindSearch, Search: s}, nil

	case p.MessageToSeller != nil:
		return &Intent{
			Kind:         KindMessageDraft,
			MessageDraft: &MessageDraft{MessageToSeller: *p.MessageToSeller},
		}, nil
	}

	return nil, nil
}

// Price accepts either a JSON number or a string ("45", "$1,200.50").
type Price string

// UnmarshalJSON decodes a price from a JSON string or number.
func (p *Price) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = Price(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("price must be a string or number: %s", data)
	}
	*p = Price(strconv.FormatFloat(n, 'f', -1, 64))
	return nil
}

// MarshalJSON renders the price as its raw string form.
func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(p))
}

func (p Price) String() string { return string(p) }
