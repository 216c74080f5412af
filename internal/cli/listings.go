package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kaimana/makeke/internal/models"
)

var (
	listQuery    string
	listCategory string
	listLocation string
	listMinPrice float64
	listMaxPrice float64

	addTitle       string
	addPrice       float64
	addCategory    string
	addDescription string
	addLocation    string
	addCondition   string
	addPhotos      []string
	addNegotiable  bool

	boostDays int
)

var listingsCmd = &cobra.Command{
	Use:   "listings",
	Short: "Browse and manage listings",
}

var listingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List listings, optionally filtered",
	Example: `  makeke listings list
  makeke listings list --query surfboard --location Hilo
  makeke listings list --category Vehicles --max-price 20000`,
	RunE: runListingsList,
}

var listingsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a listing directly (without the assistant)",
	RunE:  runListingsAdd,
}

var listingsBoostCmd = &cobra.Command{
	Use:   "boost <listing-id>",
	Short: "Boost a listing for a number of days",
	Args:  cobra.ExactArgs(1),
	RunE:  runListingsBoost,
}

func init() {
	listingsListCmd.Flags().StringVarP(&listQuery, "query", "q", "", "text filter on title and description")
	listingsListCmd.Flags().StringVarP(&listCategory, "category", "c", "", "category filter")
	listingsListCmd.Flags().StringVarP(&listLocation, "location", "l", "", "location filter")
	listingsListCmd.Flags().Float64Var(&listMinPrice, "min-price", 0, "minimum price")
	listingsListCmd.Flags().Float64Var(&listMaxPrice, "max-price", 0, "maximum price")

	listingsAddCmd.Flags().StringVar(&addTitle, "title", "", "listing title (required)")
	listingsAddCmd.Flags().Float64Var(&addPrice, "price", 0, "price in dollars (required)")
	listingsAddCmd.Flags().StringVar(&addCategory, "category", "Other", "category")
	listingsAddCmd.Flags().StringVar(&addDescription, "description", "", "description")
	listingsAddCmd.Flags().StringVar(&addLocation, "location", "", "Hawaiʻi Island town (required)")
	listingsAddCmd.Flags().StringVar(&addCondition, "condition", "Good", "condition")
	listingsAddCmd.Flags().StringSliceVar(&addPhotos, "photo", nil, "photo URL (repeatable)")
	listingsAddCmd.Flags().BoolVar(&addNegotiable, "negotiable", false, "price is negotiable")
	_ = listingsAddCmd.MarkFlagRequired("title")
	_ = listingsAddCmd.MarkFlagRequired("price")
	_ = listingsAddCmd.MarkFlagRequired("location")

	listingsBoostCmd.Flags().IntVar(&boostDays, "days", 7, "boost duration in days")

	listingsCmd.AddCommand(listingsListCmd)
	listingsCmd.AddCommand(listingsAddCmd)
	listingsCmd.AddCommand(listingsBoostCmd)
}

func runListingsList(cmd *cobra.Command, args []string) error {
	filters := models.SearchFilters{
		Query:    listQuery,
		Category: listCategory,
		Location: listLocation,
	}
	if cmd.Flags().Changed("min-price") {
		filters.MinPrice = &listMinPrice
	}
	if cmd.Flags().Changed("max-price") {
		filters.MaxPrice = &listMaxPrice
	}

	results, err := store.List(cmd.Context(), filters)
	if err != nil {
		return fmt.Errorf("list listings: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No listings match.")
		return nil
	}

	now := time.Now()
	for _, l := range results {
		boost := ""
		if l.Boosted(now) {
			boost = " ★"
		}
		fmt.Printf("%s  $%.2f  %s [%s, %s]%s\n", l.ID, l.Price, l.Title, l.Category, l.Location, boost)
	}
	return nil
}

func runListingsAdd(cmd *cobra.Command, args []string) error {
	if !models.ApprovedLocation(addLocation) {
		return fmt.Errorf("location %q is not a Hawaiʻi Island town", addLocation)
	}

	photos := addPhotos
	if len(photos) == 0 {
		photos = []string{models.PlaceholderPhoto}
	}

	listing := models.Listing{
		ID:           uuid.NewString(),
		Title:        addTitle,
		Price:        addPrice,
		Category:     addCategory,
		Description:  addDescription,
		Photos:       photos,
		Location:     addLocation,
		Condition:    addCondition,
		SellerID:     models.DemoUser.ID,
		SellerName:   models.DemoUser.Name,
		SellerRating: models.DemoUser.Rating,
		CreatedAt:    time.Now(),
		Island:       models.IslandHawaii,
		Negotiable:   addNegotiable,
	}

	if err := store.Create(cmd.Context(), listing); err != nil {
		return fmt.Errorf("create listing: %w", err)
	}

	fmt.Printf("Created listing %s: %s ($%.2f, %s)\n", listing.ID, listing.Title, listing.Price, listing.Location)
	return nil
}

func runListingsBoost(cmd *cobra.Command, args []string) error {
	until := time.Now().AddDate(0, 0, boostDays)
	if err := store.Boost(cmd.Context(), args[0], until); err != nil {
		return fmt.Errorf("boost listing: %w", err)
	}
	fmt.Printf("Listing %s boosted until %s\n", args[0], until.Format("2006-01-02"))
	return nil
}
