// seed is a one-shot tool to load demo data into an empty database: an admin
// login, the common produce items, and a handful of customers and suppliers
// with zeroed payment snapshots.
//
// Usage: go run ./cmd/seed
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

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	log.Println("Creating admin user...")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "changeme"
		log.Println("Warning: SEED_ADMIN_PASSWORD not set, using default password")
	}
	hash, err := core.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO users (username, password_hash, role)
		VALUES ('admin', $1, 'admin')
		ON CONFLICT (username) DO NOTHING;
	`, hash)
	if err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}

	log.Println("Seeding products...")
	_, err = tx.Exec(ctx, `
		INSERT INTO products (code, name, unit)
		VALUES
		  ('TOM', 'Tomato',      'kg'),
		  ('ONI', 'Onion',       'kg'),
		  ('POT', 'Potato',      'kg'),
		  ('GCH', 'Green Chili', 'kg'),
		  ('COR', 'Coriander',   'bunch'),
		  ('CAB', 'Cabbage',     'piece'),
		  ('CFL', 'Cauliflower', 'piece'),
		  ('BAN', 'Banana',      'dozen')
		ON CONFLICT (code) DO NOTHING;
	`)
	if err != nil {
		log.Fatalf("Failed to seed products: %v", err)
	}

	log.Println("Seeding parties...")
	_, err = tx.Exec(ctx, `
		INSERT INTO parties (role, code, name, contact)
		VALUES
		  ('customer', 'C001', 'Venkatesh',      '9876500001'),
		  ('customer', 'C002', 'Hotel Annapurna','9876500002'),
		  ('customer', 'C003', 'Ravi Stores',    '9876500003'),
		  ('supplier', 'S001', 'Krishna Farms',  '9876500101'),
		  ('supplier', 'S002', 'Lakshmi Traders','9876500102')
		ON CONFLICT (role, code) DO NOTHING;
	`)
	if err != nil {
		log.Fatalf("Failed to seed parties: %v", err)
	}

	log.Println("Seeding payment snapshots...")
	_, err = tx.Exec(ctx, `
		INSERT INTO payment_snapshots (party_id, party_name, total_amount, paid_amount, due_amount)
		SELECT id, name, 0, 0, 0 FROM parties
		ON CONFLICT (party_id) DO NOTHING;
	`)
	if err != nil {
		log.Fatalf("Failed to seed snapshots: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit: %v", err)
	}

	log.Println("Seed data loaded successfully.")
}
