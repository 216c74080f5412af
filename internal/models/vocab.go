package models

// Categories is the listing category vocabulary.
var Categories = []string{
	"Vehicles",
	"Tools",
	"Furniture",
	"Electronics",
	"Rentals",
	"Plants & Farm Goods",
	"Services",
	"Free Stuff",
	"Local Crafts",
}

// ApprovedLocations lists the Hawaiʻi Island districts and towns the
// marketplace serves. Listings outside this vocabulary are rejected by the
// assistant's service-area rule.
var ApprovedLocations = []string{
	// Districts
	"Hilo", "Puna", "Kaʻū", "South Kona", "North Kona",
	"South Kohala", "North Kohala", "Hāmākua",
	// Major towns
	"Keaʻau", "Pāhoa", "Volcano", "Mountain View", "Kurtistown",
	"Pahala", "Naʻalehu", "Ocean View",
	"Captain Cook", "Kealakekua", "Holualoa", "Kailua‑Kona",
	"Waikoloa", "Waimea", "Honokaʻa", "Laupāhoehoe", "Hawi", "Kapaʻau",
}

// ApprovedLocation reports whether loc is in the service area.
func ApprovedLocation(loc string) bool {
	for _, l := range ApprovedLocations {
		if l == loc {
			return true
		}
	}
	return false
}
