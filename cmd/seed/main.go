// Package main provides a tool to seed the database with demo lending data.
//
// It creates a handful of books for three demo users, runs one loan through
// the full borrow/return/approve cycle, and leaves some feedback so ratings
// have something to show. It prints a PASETO token per demo user for poking
// at the API with curl.
//
// Usage:
//
//	DATA_PATH=~/BookCircle/data go run ./cmd/seed
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/bookcircleapp/bookcircle-server/internal/auth"
	"github.com/bookcircleapp/bookcircle-server/internal/guard"
	"github.com/bookcircleapp/bookcircle-server/internal/media/covers"
	"github.com/bookcircleapp/bookcircle-server/internal/service"
	"github.com/bookcircleapp/bookcircle-server/internal/store/sqlite"
)

var tokenDuration = flag.Duration("token-duration", 24*time.Hour, "Lifetime of the printed demo tokens")

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/BookCircle/data")
	}
	if err := os.MkdirAll(dataPath, 0755); err != nil {
		log.Fatalf("Failed to create data path: %v", err)
	}

	dbPath := filepath.Join(dataPath, "bookcircle.db")
	fmt.Printf("Opening database at: %s\n", dbPath)

	st, err := sqlite.Open(dbPath, slog.New(slog.DiscardHandler))
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	coverStorage, err := covers.NewStorage(dataPath)
	if err != nil {
		log.Fatalf("Failed to open cover storage: %v", err)
	}

	logger := slog.New(slog.DiscardHandler)
	g := guard.New(st)
	catalog := service.NewCatalogService(st, g, coverStorage, logger)
	lending := service.NewLendingService(st, g, logger)
	feedback := service.NewFeedbackService(st, g, logger)

	ctx := context.Background()

	users := []string{"user-alice", "user-bob", "user-carol"}

	specs := map[string][]service.BookSpec{
		"user-alice": {
			{Title: "The Dispossessed", AuthorName: "Ursula K. Le Guin", ISBN: "9780061054884", Shareable: true},
			{Title: "Annihilation", AuthorName: "Jeff VanderMeer", Shareable: true},
			{Title: "Private Notes", AuthorName: "Alice", Shareable: false},
		},
		"user-bob": {
			{Title: "The Martian", AuthorName: "Andy Weir", ISBN: "9780553418026", Shareable: true},
		},
		"user-carol": {
			{Title: "Piranesi", AuthorName: "Susanna Clarke", Shareable: true},
		},
	}

	bookIDs := map[string]string{}
	for owner, books := range specs {
		for _, spec := range books {
			book, err := catalog.Create(ctx, spec, owner)
			if err != nil {
				log.Fatalf("Failed to create book %q: %v", spec.Title, err)
			}
			bookIDs[spec.Title] = book.ID
			fmt.Printf("Created %q (%s) for %s\n", spec.Title, book.ID, owner)
		}
	}

	// One completed loan with feedback so ratings are non-zero.
	dispossessed := bookIDs["The Dispossessed"]
	if _, err := lending.Borrow(ctx, dispossessed, "user-bob"); err != nil {
		log.Fatalf("Failed to borrow: %v", err)
	}
	if _, err := lending.Return(ctx, dispossessed, "user-bob"); err != nil {
		log.Fatalf("Failed to return: %v", err)
	}
	if _, err := lending.ApproveReturn(ctx, dispossessed, "user-alice"); err != nil {
		log.Fatalf("Failed to approve return: %v", err)
	}
	if _, err := feedback.Submit(ctx, dispossessed, "user-bob", 4.5, "Sharp and humane."); err != nil {
		log.Fatalf("Failed to submit feedback: %v", err)
	}
	if _, err := feedback.Submit(ctx, dispossessed, "user-carol", 5, ""); err != nil {
		log.Fatalf("Failed to submit feedback: %v", err)
	}
	fmt.Println("Completed one loan cycle with feedback on The Dispossessed")

	// One loan left open.
	if _, err := lending.Borrow(ctx, bookIDs["The Martian"], "user-carol"); err != nil {
		log.Fatalf("Failed to borrow: %v", err)
	}
	fmt.Println("Left The Martian on loan to user-carol")

	// Print tokens for curl sessions.
	key, err := auth.LoadOrGenerateKey(dataPath)
	if err != nil {
		log.Fatalf("Failed to load auth key: %v", err)
	}
	tokens, err := auth.NewTokenService(key, *tokenDuration)
	if err != nil {
		log.Fatalf("Failed to create token service: %v", err)
	}

	fmt.Println("\nDemo tokens:")
	for _, user := range users {
		token, err := tokens.GenerateToken(user)
		if err != nil {
			log.Fatalf("Failed to generate token for %s: %v", user, err)
		}
		fmt.Printf("  %s:\n    %s\n", user, token)
	}
}
