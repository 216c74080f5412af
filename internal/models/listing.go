// Package models defines the marketplace domain types shared across packages.
package models

import "time"

// Island identifies the island a listing or user belongs to.
// The marketplace currently operates on Hawaiʻi Island only.
type Island string

const IslandHawaii Island = "hawaii"

// Listing is a marketplace listing record.
type Listing struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Price        float64    `json:"price"`
	Category     string     `json:"category"`
	Description  string     `json:"description"`
	Photos       []string   `json:"photos"`
	Location     string     `json:"location"`
	Condition    string     `json:"condition"`
	SellerID     string     `json:"seller_id"`
	SellerName   string     `json:"seller_name"`
	SellerRating float64    `json:"seller_rating"`
	CreatedAt    time.Time  `json:"created_at"`
	BoostedUntil *time.Time `json:"boosted_until,omitempty"`
	Island       Island     `json:"island"`
	Negotiable   bool       `json:"negotiable"`
}

// Boosted reports whether the listing is boosted at the given instant.
func (l Listing) Boosted(now time.Time) bool {
	return l.BoostedUntil != nil && l.BoostedUntil.After(now)
}

// User is a marketplace account.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Location     string    `json:"location"`
	Rating       float64   `json:"rating"`
	ProfilePhoto string    `json:"profile_photo"`
	Verified     bool      `json:"verified"`
	CreatedAt    time.Time `json:"created_at"`
	Island       Island    `json:"island"`
}

// SearchFilters narrows a listings query. Zero values mean "no filter".
type SearchFilters struct {
	Query    string   `json:"query,omitempty"`
	Category string   `json:"category,omitempty"`
	MinPrice *float64 `json:"min_price,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`
	Location string   `json:"location,omitempty"`
}

// PlaceholderPhoto is used when a listing is created without any photos.
const PlaceholderPhoto = "https://picsum.photos/400/300"
