package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dimitrije/securevault-api/internal/config"
	"github.com/dimitrije/securevault-api/internal/database"
	"github.com/dimitrije/securevault-api/internal/services"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Println("Usage: verify-account <email>")
		os.Exit(1)
	}

	email := services.NormalizeEmail(os.Args[1])

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	changed, err := services.NewAccountStore(db).ForceVerify(ctx, email)
	if err != nil {
		log.Fatalf("Failed to verify account: %v", err)
	}
	if !changed {
		fmt.Printf("%s was already verified\n", email)
		return
	}

	fmt.Printf("Successfully verified %s\n", email)
}
