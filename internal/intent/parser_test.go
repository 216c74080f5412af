package intent

import (
	"testing"
)

func TestExtract_NoBlockReturnsRawVerbatim(t *testing.T) {
	raws := []string{
		"Aloha! What are you looking for today?",
		"  leading and trailing whitespace stays  ",
		"mentions ```go code fences``` but not json",
		"",
	}
	for _, raw := range raws {
		in, display := Extract(raw)
		if in != nil {
			t.Errorf("Extract(%q) intent = %+v, want nil", raw, in)
		}
		if display != raw {
			t.Errorf("Extract(%q) display = %q, want raw unchanged", raw, display)
		}
	}
}

func TestExtract_ListingDraft(t *testing.T) {
	raw := "Here's a draft for your listing:\n" +
		"```json\n" +
		`{"title": "Red Bike", "price": "50", "category": "Sports & Outdoors", "description": "A red bike.", "location": "Hilo", "condition": "Good"}` +
		"\n```\nDoes this look right?"

	in, display := Extract(raw)
	if in == nil {
		t.Fatal("Extract() returned nil intent")
	}
	if in.Kind != KindListingDraft {
		t.Fatalf("Kind = %q, want %q", in.Kind, KindListingDraft)
	}
	d := in.ListingDraft
	if d == nil {
		t.Fatal("ListingDraft is nil")
	}
	if d.Title != "Red Bike" || d.Price != "50" || d.Location != "Hilo" {
		t.Errorf("draft = %+v", d)
	}
	want := "Here's a draft for your listing:\n\nDoes this look right?"
	if display != want {
		t.Errorf("display = %q, want %q", display, want)
	}
}

func TestExtract_NumericPrice(t *testing.T) {
	raw := "```json\n" + `{"title": "Lamp", "price": 12.5}` + "\n```"

	in, _ := Extract(raw)
	if in == nil || in.Kind != KindListingDraft {
		t.Fatalf("intent = %+v, want listing draft", in)
	}
	if in.ListingDraft.Price != "12.5" {
		t.Errorf("Price = %q, want %q", in.ListingDraft.Price, "12.5")
	}
}

func TestExtract_Search(t *testing.T) {
	raw := "Searching now.\n```json\n" +
		`{"searchQuery": "surfboard", "filters": {"maxPrice": "500", "location": "Hilo"}}` +
		"\n```"

	in, display := Extract(raw)
	if in == nil || in.Kind != KindSearch {
		t.Fatalf("intent = %+v, want search", in)
	}
	s := in.Search
	if s.SearchQuery != "surfboard" || s.Filters.MaxPrice != "500" || s.Filters.Location != "Hilo" {
		t.Errorf("search = %+v", s)
	}
	if display != "Searching now." {
		t.Errorf("display = %q", display)
	}
}

func TestExtract_FiltersOnlySearch(t *testing.T) {
	raw := "```json\n" + `{"filters": {"category": "Vehicles"}}` + "\n```"

	in, _ := Extract(raw)
	if in == nil || in.Kind != KindSearch {
		t.Fatalf("intent = %+v, want search", in)
	}
	if in.Search.Filters.Category != "Vehicles" {
		t.Errorf("Category = %q", in.Search.Filters.Category)
	}
}

func TestExtract_MessageDraft(t *testing.T) {
	raw := "```json\n" + `{"messageToSeller": "Is the bike still available?"}` + "\n```"

	in, display := Extract(raw)
	if in == nil || in.Kind != KindMessageDraft {
		t.Fatalf("intent = %+v, want message draft", in)
	}
	if in.MessageDraft.MessageToSeller != "Is the bike still available?" {
		t.Errorf("MessageToSeller = %q", in.MessageDraft.MessageToSeller)
	}
	if display != FallbackText {
		t.Errorf("display = %q, want fallback", display)
	}
}

// A payload with listing keys and search keys resolves to a listing draft.
func TestExtract_ClassificationPriority(t *testing.T) {
	raw := "```json\n" +
		`{"title": "Bike", "price": "50", "searchQuery": "bike", "messageToSeller": "hi"}` +
		"\n```"

	in, _ := Extract(raw)
	if in == nil || in.Kind != KindListingDraft {
		t.Fatalf("intent = %+v, want listing draft to win", in)
	}
}

func TestExtract_MalformedBlock(t *testing.T) {
	raw := "Some text.\n```json\n{not valid json\n```"

	in, display := Extract(raw)
	if in != nil {
		t.Errorf("intent = %+v, want nil for malformed payload", in)
	}
	if display != "Some text." {
		t.Errorf("display = %q, block should still be stripped", display)
	}
}

func TestExtract_UnrecognizedShape(t *testing.T) {
	raw := "```json\n" + `{"foo": "bar"}` + "\n```"

	in, display := Extract(raw)
	if in != nil {
		t.Errorf("intent = %+v, want nil for unknown shape", in)
	}
	if display != FallbackText {
		t.Errorf("display = %q", display)
	}
}

// An empty title means the payload is not a listing; with a query it is
// still a valid search.
func TestExtract_EmptyTitleIsNotAListing(t *testing.T) {
	raw := "```json\n" + `{"title": "", "price": "10", "searchQuery": "lamp"}` + "\n```"

	in, _ := Extract(raw)
	if in == nil || in.Kind != KindSearch {
		t.Fatalf("intent = %+v, want search", in)
	}
}

func TestEnsurePhoto(t *testing.T) {
	tests := []struct {
		name    string
		in      *Intent
		preview string
		want    []string
	}{
		{
			name:    "backfills empty photos",
			in:      &Intent{Kind: KindListingDraft, ListingDraft: &ListingDraft{Title: "Bike"}},
			preview: "data:image/jpeg;base64,xyz",
			want:    []string{"data:image/jpeg;base64,xyz"},
		},
		{
			name:    "keeps existing photos",
			in:      &Intent{Kind: KindListingDraft, ListingDraft: &ListingDraft{Photos: []string{"a.jpg"}}},
			preview: "b.jpg",
			want:    []string{"a.jpg"},
		},
		{
			name:    "empty preview is a no-op",
			in:      &Intent{Kind: KindListingDraft, ListingDraft: &ListingDraft{}},
			preview: "",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.EnsurePhoto(tt.preview)
			got := tt.in.ListingDraft.Photos
			if len(got) != len(tt.want) {
				t.Fatalf("Photos = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Photos[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestEnsurePhoto_NilAndNonListing(t *testing.T) {
	var nilIntent *Intent
	nilIntent.EnsurePhoto("x.jpg") // must not panic

	search := &Intent{Kind: KindSearch, Search: &Search{}}
	search.EnsurePhoto("x.jpg") // no-op for other kinds
}
