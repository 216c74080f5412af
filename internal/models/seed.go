package models

import "time"

// DemoUser is the account used by the CLI demo mode.
var DemoUser = User{
	ID:           "u1",
	Name:         "Kaimana",
	Location:     "Kailua‑Kona",
	Rating:       4.8,
	ProfilePhoto: "https://picsum.photos/100/100",
	Verified:     true,
	CreatedAt:    time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC),
	Island:       IslandHawaii,
}

// SeedListings returns demo listings for the in-memory store.
func SeedListings() []Listing {
	boosted := time.Now().Add(7 * 24 * time.Hour)
	return []Listing{
		{
			ID:           "l1",
			Title:        "Vintage Koa Wood Surfboard",
			Price:        1200,
			Category:     "Local Crafts",
			Description:  "Beautiful condition, shaped in the 70s. Watertight and ready to ride or display.",
			Photos:       []string{"https://picsum.photos/400/300?random=1"},
			Location:     "Hilo",
			Condition:    "Good",
			SellerID:     "u2",
			SellerName:   "Uncle Bob",
			SellerRating: 4.9,
			CreatedAt:    time.Now().Add(-72 * time.Hour),
			BoostedUntil: &boosted,
			Island:       IslandHawaii,
			Negotiable:   true,
		},
		{
			ID:           "l2",
			Title:        "Monstera Cuttings (Huge)",
			Price:        25,
			Category:     "Plants & Farm Goods",
			Description:  "Large rooted cuttings from my yard. Variegated available too for higher price.",
			Photos:       []string{"https://picsum.photos/400/300?random=2"},
			Location:     "Kailua‑Kona",
			Condition:    "New",
			SellerID:     "u3",
			SellerName:   "Lani",
			SellerRating: 5.0,
			CreatedAt:    time.Now().Add(-48 * time.Hour),
			Island:       IslandHawaii,
		},
		{
			ID:           "l3",
			Title:        "Toyota Tacoma TRD Off-Road",
			Price:        18500,
			Category:     "Vehicles",
			Description:  "2015 Tacoma, 80k miles. Lifted, new tires. Runs perfect. Island cruiser.",
			Photos:       []string{"https://picsum.photos/400/300?random=3"},
			Location:     "Ocean View",
			Condition:    "Excellent",
			SellerID:     "u4",
			SellerName:   "Keoni",
			SellerRating: 4.7,
			CreatedAt:    time.Now().Add(-168 * time.Hour),
			Island:       IslandHawaii,
			Negotiable:   true,
		},
		{
			ID:           "l4",
			Title:        "Moving Sale - Sofa & Table",
			Price:        150,
			Category:     "Furniture",
			Description:  "Must go by Friday. Comfortable beige sofa and coffee table.",
			Photos:       []string{"https://picsum.photos/400/300?random=4"},
			Location:     "Waimea",
			Condition:    "Fair",
			SellerID:     "u5",
			SellerName:   "Sarah",
			SellerRating: 4.5,
			CreatedAt:    time.Now().Add(-24 * time.Hour),
			Island:       IslandHawaii,
			Negotiable:   true,
		},
	}
}
