package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcdev12/auctionpro/go/internal/catalogue"
	"github.com/mcdev12/auctionpro/go/internal/dbconfig"
	"github.com/mcdev12/auctionpro/go/internal/models"
)

const defaultCatalogue = "go/internal/assets/items.yaml"

func main() {
	ctx := context.Background()

	// 1) Load the YAML catalogue
	path := defaultCatalogue
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	items, err := catalogue.LoadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load catalogue: %v\n", err)
		os.Exit(1)
	}

	// 2) Connect using shared dbconfig
	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	// 3) Insert and count
	var (
		total    = len(items)
		inserted int
		skipped  int
		errs     int
	)
	now := time.Now().UTC()

	for _, it := range items {
		category, err := models.ParseCategory(string(it.Category))
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %q: %v\n", it.Name, err)
			errs++
			continue
		}
		cmdTag, err := pool.Exec(ctx, `
            INSERT INTO items (
              id, name, category, performance_score, stats, created_by, created_at
            ) VALUES (
              $1,$2,$3,$4,$5,NULL,$6
            )
            ON CONFLICT (name) DO NOTHING
        `,
			uuid.New(), it.Name, string(category), it.PerformanceScore, []byte(it.Stats), now,
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error inserting item %q: %v\n", it.Name, err)
			errs++
			continue
		}
		if cmdTag.RowsAffected() == 1 {
			inserted++
		} else {
			skipped++
		}
	}

	// 4) Print summary
	fmt.Printf(
		"Items seed complete: %d total, %d inserted, %d skipped, %d errors\n",
		total, inserted, skipped, errs,
	)
}
