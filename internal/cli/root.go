// Package cli provides the command-line interface for makeke.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kaimana/makeke/internal/chat"
	"github.com/kaimana/makeke/internal/config"
	"github.com/kaimana/makeke/internal/listings"
	"github.com/kaimana/makeke/internal/llm"
	"github.com/kaimana/makeke/internal/messaging"
	"github.com/kaimana/makeke/internal/models"
	"github.com/kaimana/makeke/internal/tools"
	"github.com/kaimana/makeke/internal/verification"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose  bool
	memStore bool

	// Global config and collaborators
	cfg      config.Config
	logger   *slog.Logger
	logClose func() error

	store        listings.Store
	storeCloser  func(context.Context) error
	demoListings bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "makeke",
	Short: "Hawaiʻi Island local marketplace with an AI assistant",
	Long: `Mākeke is a Hawaiʻi Island local marketplace. The AI assistant turns
plain requests into searches, listing drafts, and messages to sellers,
and enforces phone verification for sensitive actions.

Listings live in SurrealDB by default; pass --memory for a seeded
in-process store.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg = config.Load()
		if verbose {
			cfg.LogLevel = slog.LevelDebug
		}
		logger, logClose = config.SetupLogger(cfg.LogFile, cfg.LogLevel)
		slog.SetDefault(logger)

		return openStore(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if storeCloser != nil {
			if err := storeCloser(context.Background()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close listings store: %v\n", err)
			}
		}
		if logClose != nil {
			_ = logClose()
		}
	},
}

// openStore connects the listings store: SurrealDB unless --memory.
func openStore(ctx context.Context) error {
	if memStore {
		store = listings.NewMemorySeeded(models.SeedListings())
		demoListings = true
		return nil
	}

	s, err := listings.NewSurreal(ctx, listings.SurrealConfig{
		URL:       cfg.SurrealDBURL,
		Namespace: cfg.SurrealDBNamespace,
		Database:  cfg.SurrealDBDatabase,
		Username:  cfg.SurrealDBUser,
		Password:  cfg.SurrealDBPass,
		AuthLevel: cfg.SurrealDBAuthLevel,
	}, logger)
	if err != nil {
		return fmt.Errorf("connect to listings store: %w", err)
	}
	store = s
	storeCloser = s.Close
	return nil
}

// newOrchestrator builds a conversation over a fresh model session.
func newOrchestrator(ctx context.Context) (*chat.Orchestrator, error) {
	model, err := llm.NewModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init model: %w", err)
	}

	verifier := verification.NewMockSMS(logger)
	executor := tools.NewExecutor(verifier, logger)
	session := llm.NewSession(model.LLM(), executor, logger)
	outbox := messaging.NewOutbox(logger)

	convo := chat.New(session, store, outbox, models.DemoUser, logger)
	if demoListings {
		// Demo seller to receive drafted messages.
		convo.SetActiveSeller("u2")
	}
	return convo, nil
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&memStore, "memory", false, "use a seeded in-memory listings store")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(listingsCmd)
}
