package listings

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/contrib/rews"
	"github.com/surrealdb/surrealdb.go/pkg/connection"
	"github.com/surrealdb/surrealdb.go/pkg/connection/gorillaws"
	"github.com/surrealdb/surrealdb.go/pkg/logger"
	"github.com/surrealdb/surrealdb.go/surrealcbor"

	"github.com/kaimana/makeke/internal/models"
)

func init() {
	// Force HTTP/1.1 for WSS connections to prevent HTTP/2 ALPN negotiation.
	// WebSocket upgrade requires HTTP/1.1 semantics which fail under HTTP/2.
	gorillaws.DefaultDialer.TLSClientConfig = &tls.Config{
		NextProtos: []string{"http/1.1"},
	}
}

// SurrealConfig holds SurrealDB connection configuration.
type SurrealConfig struct {
	URL       string
	Namespace string
	Database  string
	Username  string
	Password  string
	AuthLevel string // "root" or "database"
}

// Surreal is the SurrealDB-backed Store with an auto-reconnecting
// WebSocket connection.
type Surreal struct {
	conn   *rews.Connection[*gorillaws.Connection]
	db     *surrealdb.DB
	cfg    SurrealConfig
	logger logger.Logger
}

// NewSurreal connects to SurrealDB and initializes the listing schema.
func NewSurreal(ctx context.Context, cfg SurrealConfig, log *slog.Logger) (*Surreal, error) {
	var sdkLogger logger.Logger
	if log != nil {
		sdkLogger = logger.New(log.Handler())
	} else {
		sdkLogger = logger.New(slog.Default().Handler())
	}

	// surrealcbor handles SurrealDB's custom CBOR tags
	codec := surrealcbor.New()

	// gorillaws wants the base URL without /rpc (it appends it itself)
	baseURL := strings.TrimSuffix(cfg.URL, "/rpc")

	conn := rews.New(
		func(ctx context.Context) (*gorillaws.Connection, error) {
			ws := gorillaws.New(&connection.Config{
				BaseURL:     baseURL,
				Marshaler:   codec,
				Unmarshaler: codec,
				Logger:      sdkLogger,
			})
			return ws, nil
		},
		5*time.Second,
		codec,
		sdkLogger,
	)

	retryer := rews.NewExponentialBackoffRetryer()
	retryer.InitialDelay = 1 * time.Second
	retryer.MaxDelay = 30 * time.Second
	retryer.Multiplier = 2.0
	retryer.MaxRetries = 10
	conn.Retryer = retryer

	sdkLogger.Info("connecting to SurrealDB", "url", cfg.URL)
	if err := conn.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	db, err := surrealdb.FromConnection(ctx, conn)
	if err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("from connection: %w", err)
	}

	if cfg.AuthLevel == "database" {
		_, err = db.SignIn(ctx, surrealdb.Auth{
			Namespace: cfg.Namespace,
			Database:  cfg.Database,
			Username:  cfg.Username,
			Password:  cfg.Password,
		})
	} else {
		_, err = db.SignIn(ctx, surrealdb.Auth{
			Username: cfg.Username,
			Password: cfg.Password,
		})
	}
	if err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("signin: %w", err)
	}

	if err := db.Use(ctx, cfg.Namespace, cfg.Database); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("use: %w", err)
	}

	s := &Surreal{conn: conn, db: db, cfg: cfg, logger: sdkLogger}
	if err := s.initSchema(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, err
	}

	sdkLogger.Info("SurrealDB listings store ready")
	return s, nil
}

// Close closes the SurrealDB connection.
func (s *Surreal) Close(ctx context.Context) error {
	s.logger.Info("closing SurrealDB connection")
	return s.conn.Close(ctx)
}

func (s *Surreal) initSchema(ctx context.Context) error {
	if _, err := surrealdb.Query[any](ctx, s.db, schemaSQL, nil); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// listingRecord is the stored shape of a listing.
type listingRecord struct {
	ListingID    string     `json:"listing_id"`
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
	Island       string     `json:"island"`
	Negotiable   bool       `json:"negotiable"`
}

func toRecord(l models.Listing) listingRecord {
	photos := l.Photos
	if photos == nil {
		photos = []string{}
	}
	return listingRecord{
		ListingID:    l.ID,
		Title:        l.Title,
		Price:        l.Price,
		Category:     l.Category,
		Description:  l.Description,
		Photos:       photos,
		Location:     l.Location,
		Condition:    l.Condition,
		SellerID:     l.SellerID,
		SellerName:   l.SellerName,
		SellerRating: l.SellerRating,
		CreatedAt:    l.CreatedAt,
		BoostedUntil: l.BoostedUntil,
		Island:       string(l.Island),
		Negotiable:   l.Negotiable,
	}
}

func fromRecord(r listingRecord) models.Listing {
	return models.Listing{
		ID:           r.ListingID,
		Title:        r.Title,
		Price:        r.Price,
		Category:     r.Category,
		Description:  r.Description,
		Photos:       r.Photos,
		Location:     r.Location,
		Condition:    r.Condition,
		SellerID:     r.SellerID,
		SellerName:   r.SellerName,
		SellerRating: r.SellerRating,
		CreatedAt:    r.CreatedAt,
		BoostedUntil: r.BoostedUntil,
		Island:       models.Island(r.Island),
		Negotiable:   r.Negotiable,
	}
}

// Create persists a new listing.
func (s *Surreal) Create(ctx context.Context, l models.Listing) error {
	_, err := surrealdb.Query[any](ctx, s.db,
		`CREATE listing CONTENT $content`,
		map[string]any{"content": toRecord(l)},
	)
	if err != nil {
		return fmt.Errorf("create listing: %w", err)
	}
	return nil
}

// List returns listings matching the filters, boosted first, newest first.
func (s *Surreal) List(ctx context.Context, f models.SearchFilters) ([]models.Listing, error) {
	clauses := []string{}
	vars := map[string]any{}

	if f.Query != "" {
		clauses = append(clauses,
			"(string::contains(string::lowercase(title), $q) OR string::contains(string::lowercase(description), $q))")
		vars["q"] = strings.ToLower(f.Query)
	}
	if f.Category != "" {
		clauses = append(clauses, "category = $category")
		vars["category"] = f.Category
	}
	if f.Location != "" {
		clauses = append(clauses, "location = $location")
		vars["location"] = f.Location
	}
	if f.MinPrice != nil {
		clauses = append(clauses, "price >= $min_price")
		vars["min_price"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		clauses = append(clauses, "price <= $max_price")
		vars["max_price"] = *f.MaxPrice
	}

	where := ""
	if len(clauses) > 0 {
		where = "WHERE " + strings.Join(clauses, " AND ")
	}

	sql := fmt.Sprintf(`
		SELECT * FROM listing %s
		ORDER BY boosted_until DESC, created_at DESC
	`, where)

	results, err := surrealdb.Query[[]listingRecord](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}

	if results == nil || len(*results) == 0 {
		return []models.Listing{}, nil
	}

	records := (*results)[0].Result
	out := make([]models.Listing, 0, len(records))
	for _, r := range records {
		out = append(out, fromRecord(r))
	}
	return out, nil
}

// Boost marks a listing as boosted until the given instant.
func (s *Surreal) Boost(ctx context.Context, id string, until time.Time) error {
	results, err := surrealdb.Query[[]listingRecord](ctx, s.db,
		`UPDATE listing SET boosted_until = $until WHERE listing_id = $id RETURN AFTER`,
		map[string]any{"id": id, "until": until},
	)
	if err != nil {
		return fmt.Errorf("boost listing: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return ErrNotFound
	}
	return nil
}
