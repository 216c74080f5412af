//go:build integration

// Integration tests for the SurrealDB-backed listings store.
package listings

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kaimana/makeke/internal/models"
)

var surrealStore *Surreal
var testContainer testcontainers.Container

// TestMain sets up and tears down the SurrealDB container for all tests.
func TestMain(m *testing.M) {
	// Disable ryuk (cleanup container) as it can cause issues in some environments
	os.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true")

	ctx := context.Background()

	var err error
	testContainer, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "surrealdb/surrealdb:v3.0.0-beta.1",
			ExposedPorts: []string{"8000/tcp"},
			Cmd:          []string{"start", "--log", "info", "--user", "root", "--pass", "root"},
			WaitingFor:   wait.ForLog("Started web server").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		log.Fatalf("Failed to start SurrealDB container: %v", err)
	}

	host, err := testContainer.Host(ctx)
	if err != nil {
		log.Fatalf("Failed to get container host: %v", err)
	}
	// Workaround: testcontainers may return "null" as host in some environments
	if host == "" || host == "null" {
		host = "localhost"
	}
	mappedPort, err := testContainer.MappedPort(ctx, "8000")
	if err != nil {
		log.Fatalf("Failed to get mapped port: %v", err)
	}

	surrealStore, err = NewSurreal(ctx, SurrealConfig{
		URL:       fmt.Sprintf("ws://%s:%s/rpc", host, mappedPort.Port()),
		Namespace: "test",
		Database:  "test",
		Username:  "root",
		Password:  "root",
		AuthLevel: "root",
	}, nil)
	if err != nil {
		log.Fatalf("Failed to connect to test database: %v", err)
	}

	code := m.Run()

	_ = surrealStore.Close(ctx)
	_ = testContainer.Terminate(ctx)

	os.Exit(code)
}

func sampleListing(id, title string, price float64, location string, createdAt time.Time) models.Listing {
	return models.Listing{
		ID:           id,
		Title:        title,
		Price:        price,
		Category:     "Other",
		Description:  "integration test listing",
		Photos:       []string{models.PlaceholderPhoto},
		Location:     location,
		Condition:    "Good",
		SellerID:     "u1",
		SellerName:   "Kaimana",
		SellerRating: 4.8,
		CreatedAt:    createdAt,
		Island:       models.IslandHawaii,
	}
}

func TestSurrealCreateAndList(t *testing.T) {
	ctx := context.Background()

	created := sampleListing("it-1", "Integration Ukulele", 250, "Hilo", time.Now().UTC().Truncate(time.Millisecond))
	if err := surrealStore.Create(ctx, created); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	results, err := surrealStore.List(ctx, models.SearchFilters{Query: "ukulele"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 listing, got %d", len(results))
	}

	got := results[0]
	if got.ID != "it-1" {
		t.Errorf("Expected id 'it-1', got %q", got.ID)
	}
	if got.Title != "Integration Ukulele" {
		t.Errorf("Expected title 'Integration Ukulele', got %q", got.Title)
	}
	if got.Price != 250 {
		t.Errorf("Expected price 250, got %v", got.Price)
	}
	if got.Island != models.IslandHawaii {
		t.Errorf("Expected island %q, got %q", models.IslandHawaii, got.Island)
	}
	if len(got.Photos) != 1 {
		t.Errorf("Expected 1 photo, got %d", len(got.Photos))
	}
}

func TestSurrealListFilters(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	seeds := []models.Listing{
		sampleListing("it-f1", "Filter Surfboard", 1200, "Hilo", now.Add(-3*time.Hour)),
		sampleListing("it-f2", "Filter Truck", 18500, "Ocean View", now.Add(-2*time.Hour)),
		sampleListing("it-f3", "Filter Sofa", 150, "Waimea", now.Add(-1*time.Hour)),
	}
	for _, l := range seeds {
		if err := surrealStore.Create(ctx, l); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	// Query is case-insensitive across title and description.
	results, err := surrealStore.List(ctx, models.SearchFilters{Query: "filter truck"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(results) != 1 || results[0].ID != "it-f2" {
		t.Errorf("Query filter: expected [it-f2], got %v", ids(results))
	}

	// Location filter.
	results, err = surrealStore.List(ctx, models.SearchFilters{Location: "Waimea"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	found := false
	for _, l := range results {
		if l.ID == "it-f3" {
			found = true
		}
		if l.Location != "Waimea" {
			t.Errorf("Location filter leaked %q", l.Location)
		}
	}
	if !found {
		t.Error("Location filter should include it-f3")
	}

	// Price bounds.
	min, max := 100.0, 2000.0
	results, err = surrealStore.List(ctx, models.SearchFilters{Query: "filter", MinPrice: &min, MaxPrice: &max})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	for _, l := range results {
		if l.Price < min || l.Price > max {
			t.Errorf("Price filter leaked %v", l.Price)
		}
	}
}

func TestSurrealBoost(t *testing.T) {
	ctx := context.Background()

	l := sampleListing("it-b1", "Boost Target", 99, "Hilo", time.Now().UTC())
	if err := surrealStore.Create(ctx, l); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	until := time.Now().UTC().Add(7 * 24 * time.Hour).Truncate(time.Millisecond)
	if err := surrealStore.Boost(ctx, "it-b1", until); err != nil {
		t.Fatalf("Boost failed: %v", err)
	}

	results, err := surrealStore.List(ctx, models.SearchFilters{Query: "boost target"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 listing, got %d", len(results))
	}
	if results[0].BoostedUntil == nil {
		t.Fatal("BoostedUntil should be set after Boost")
	}
	if !results[0].Boosted(time.Now()) {
		t.Error("listing should report as boosted")
	}

	// Boosting a non-existent listing reports ErrNotFound.
	if err := surrealStore.Boost(ctx, "no-such-listing", until); err != ErrNotFound {
		t.Errorf("Boost(missing) error = %v, want ErrNotFound", err)
	}
}
