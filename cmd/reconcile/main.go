// reconcile compares every party's payment snapshot against the balance
// implied by the transaction log and prints the parties whose due amount has
// drifted. Run it after bulk imports or manual snapshot edits.
//
// Usage: go run ./cmd/reconcile
package main

import (
	"context"
	"log"
	"os"

	"mandi-billing/internal/core"
	"mandi-billing/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	snapshots := core.NewSnapshotService(pool)
	drifts, err := snapshots.ReconcileAll(ctx)
	if err != nil {
		log.Fatalf("Reconciliation failed: %v", err)
	}

	if len(drifts) == 0 {
		log.Println("All snapshots match the transaction log.")
		return
	}

	log.Printf("%d parties drifted:", len(drifts))
	for _, d := range drifts {
		log.Printf("  [%d] %s (%s): snapshot due %s, derived %s, drift %s",
			d.PartyID, d.PartyName, d.Role,
			d.SnapshotDue.StringFixed(2), d.DerivedDue.StringFixed(2), d.Drift.StringFixed(2))
	}
	os.Exit(1)
}
