package models

import (
	"testing"
	"time"
)

func TestListingBoosted(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name    string
		listing Listing
		want    bool
	}{
		{name: "no boost", listing: Listing{}, want: false},
		{name: "active boost", listing: Listing{BoostedUntil: &future}, want: true},
		{name: "expired boost", listing: Listing{BoostedUntil: &past}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.listing.Boosted(now); got != tt.want {
				t.Errorf("Boosted() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApprovedLocation(t *testing.T) {
	for _, loc := range []string{"Hilo", "Kailua‑Kona", "Ocean View", "Waimea"} {
		if !ApprovedLocation(loc) {
			t.Errorf("ApprovedLocation(%q) = false, want true", loc)
		}
	}
	for _, loc := range []string{"Honolulu", "Maui", "", "hilo"} {
		if ApprovedLocation(loc) {
			t.Errorf("ApprovedLocation(%q) = true, want false", loc)
		}
	}
}

func TestPendingImageEmpty(t *testing.T) {
	var nilImage *PendingImage
	if !nilImage.Empty() {
		t.Error("nil image should be empty")
	}
	if !(&PendingImage{Preview: "x.jpg"}).Empty() {
		t.Error("image without payload should be empty")
	}
	if (&PendingImage{Data: "aGk="}).Empty() {
		t.Error("image with payload should not be empty")
	}
}
