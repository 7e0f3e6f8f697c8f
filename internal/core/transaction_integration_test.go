package core_test

import (
	"context"
	"os"
	"testing"

	"mandi-billing/internal/core"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE transactions, payment_snapshots, parties, products, users RESTART IDENTITY CASCADE;
	`)
	if err != nil {
		t.Fatalf("Failed to clean test database: %v", err)
	}

	return pool
}

func TestTransactionAppend_SnapshotBump(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	parties := core.NewPartyService(pool)
	transactions := core.NewTransactionService(pool, parties)
	snapshots := core.NewSnapshotService(pool)

	party, err := parties.Create(ctx, core.RoleCustomer, core.PartyInput{Code: "C001", Name: "Venkatesh"})
	if err != nil {
		t.Fatalf("Failed to create party: %v", err)
	}

	// A fresh party must come with a zeroed snapshot.
	snap, err := snapshots.GetByPartyID(ctx, party.ID)
	if err != nil {
		t.Fatalf("Failed to read snapshot: %v", err)
	}
	if snap == nil || !snap.DueAmount.IsZero() {
		t.Fatalf("expected zeroed snapshot after create, got %+v", snap)
	}

	if _, err := transactions.Append(ctx, core.TransactionInput{
		Date: "2025-01-10", PartyID: party.ID, Kind: "Sale", Item: "Tomato", Amount: "250.00",
	}); err != nil {
		t.Fatalf("Failed to append sale: %v", err)
	}
	if _, err := transactions.Append(ctx, core.TransactionInput{
		Date: "2025-01-12", PartyID: party.ID, Kind: "Payment", Amount: "100.00", PaymentMethod: "Cash",
	}); err != nil {
		t.Fatalf("Failed to append payment: %v", err)
	}

	snap, err = snapshots.GetByPartyID(ctx, party.ID)
	if err != nil {
		t.Fatalf("Failed to re-read snapshot: %v", err)
	}
	if !snap.TotalAmount.Equal(dec("250.00")) {
		t.Errorf("total = %s, want 250.00", snap.TotalAmount)
	}
	if !snap.PaidAmount.Equal(dec("100.00")) {
		t.Errorf("paid = %s, want 100.00", snap.PaidAmount)
	}
	if !snap.DueAmount.Equal(dec("150.00")) {
		t.Errorf("due = %s, want 150.00", snap.DueAmount)
	}
	if snap.PaymentMethod == nil || *snap.PaymentMethod != "Cash" {
		t.Errorf("payment method = %v, want Cash", snap.PaymentMethod)
	}
}

func TestTransactionAppend_Idempotency(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	parties := core.NewPartyService(pool)
	transactions := core.NewTransactionService(pool, parties)

	party, err := parties.Create(ctx, core.RoleCustomer, core.PartyInput{Code: "C001", Name: "Venkatesh"})
	if err != nil {
		t.Fatalf("Failed to create party: %v", err)
	}

	input := core.TransactionInput{
		Date:           "2025-01-10",
		PartyID:        party.ID,
		Kind:           "Sale",
		Item:           "Tomato",
		Amount:         "250.00",
		IdempotencyKey: uuid.NewString(),
	}

	if _, err := transactions.Append(ctx, input); err != nil {
		t.Fatalf("First append failed: %v", err)
	}
	if _, err := transactions.Append(ctx, input); err == nil {
		t.Fatalf("Expected duplicate append to fail, but it succeeded")
	}

	txns, err := transactions.List(ctx, core.TransactionFilter{PartyID: party.ID})
	if err != nil {
		t.Fatalf("Failed to list transactions: %v", err)
	}
	if len(txns) != 1 {
		t.Errorf("transactions = %d, want 1", len(txns))
	}
}

func TestTransactionAppend_RejectsWrongKindForRole(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	parties := core.NewPartyService(pool)
	transactions := core.NewTransactionService(pool, parties)

	supplier, err := parties.Create(ctx, core.RoleSupplier, core.PartyInput{Code: "S001", Name: "Krishna Farms"})
	if err != nil {
		t.Fatalf("Failed to create supplier: %v", err)
	}

	_, err = transactions.Append(ctx, core.TransactionInput{
		Date: "2025-01-10", PartyID: supplier.ID, Kind: "Sale", Item: "Tomato", Amount: "250.00",
	})
	if err == nil {
		t.Fatalf("Expected sale against a supplier to fail, but it succeeded")
	}
}

func TestReconcileAll_FlagsManualDrift(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	parties := core.NewPartyService(pool)
	transactions := core.NewTransactionService(pool, parties)
	snapshots := core.NewSnapshotService(pool)

	party, err := parties.Create(ctx, core.RoleCustomer, core.PartyInput{Code: "C001", Name: "Venkatesh"})
	if err != nil {
		t.Fatalf("Failed to create party: %v", err)
	}
	if _, err := transactions.Append(ctx, core.TransactionInput{
		Date: "2025-01-10", PartyID: party.ID, Kind: "Sale", Item: "Tomato", Amount: "250.00",
	}); err != nil {
		t.Fatalf("Failed to append sale: %v", err)
	}

	// Appended rows keep the snapshot in lockstep: no drift yet.
	drifts, err := snapshots.ReconcileAll(ctx)
	if err != nil {
		t.Fatalf("Reconciliation failed: %v", err)
	}
	if len(drifts) != 0 {
		t.Fatalf("drifts = %d, want 0 before any manual edit", len(drifts))
	}

	// A manual correction bypasses the log and must show up as drift.
	due := dec("400.00")
	if _, err := snapshots.Adjust(ctx, party.ID, core.SnapshotAdjustment{
		DueAmount: &due, Reason: "carried-over balance from paper ledger",
	}); err != nil {
		t.Fatalf("Failed to adjust snapshot: %v", err)
	}

	drifts, err = snapshots.ReconcileAll(ctx)
	if err != nil {
		t.Fatalf("Reconciliation failed: %v", err)
	}
	if len(drifts) != 1 {
		t.Fatalf("drifts = %d, want 1", len(drifts))
	}
	if drifts[0].PartyID != party.ID || !drifts[0].Drift.Equal(dec("150.00")) {
		t.Errorf("drift = %+v, want party %d drifted by 150.00", drifts[0], party.ID)
	}
}

func TestReconcileAll_MatchesLegacyRowsByName(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	parties := core.NewPartyService(pool)
	snapshots := core.NewSnapshotService(pool)

	party, err := parties.Create(ctx, core.RoleCustomer, core.PartyInput{Code: "C001", Name: "Venkatesh"})
	if err != nil {
		t.Fatalf("Failed to create party: %v", err)
	}

	// A legacy import: no party_id, padded name, snapshot already carries it.
	_, err = pool.Exec(ctx, `
		INSERT INTO transactions (txn_date, party_name, kind, item, amount)
		VALUES ('2024-12-01', '  venkatesh ', 'Sale', 'Onion', 500.00);
		UPDATE payment_snapshots SET total_amount = 500, due_amount = 500 WHERE party_id = $1;
	`, party.ID)
	if err != nil {
		t.Fatalf("Failed to insert legacy row: %v", err)
	}

	drifts, err := snapshots.ReconcileAll(ctx)
	if err != nil {
		t.Fatalf("Reconciliation failed: %v", err)
	}
	if len(drifts) != 0 {
		t.Errorf("drifts = %d, want 0 (legacy row should match by normalized name)", len(drifts))
	}
}

func TestPartyUpdate_RestampsNames(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	parties := core.NewPartyService(pool)
	transactions := core.NewTransactionService(pool, parties)
	snapshots := core.NewSnapshotService(pool)

	party, err := parties.Create(ctx, core.RoleCustomer, core.PartyInput{Code: "C001", Name: "Venkatesh"})
	if err != nil {
		t.Fatalf("Failed to create party: %v", err)
	}
	if _, err := transactions.Append(ctx, core.TransactionInput{
		Date: "2025-01-10", PartyID: party.ID, Kind: "Sale", Item: "Tomato", Amount: "250.00",
	}); err != nil {
		t.Fatalf("Failed to append sale: %v", err)
	}

	if _, err := parties.Update(ctx, core.RoleCustomer, party.ID, core.PartyInput{
		Code: "C001", Name: "Venkatesh Rao",
	}); err != nil {
		t.Fatalf("Failed to update party: %v", err)
	}

	snap, err := snapshots.GetByPartyID(ctx, party.ID)
	if err != nil {
		t.Fatalf("Failed to read snapshot: %v", err)
	}
	if snap.PartyName != "Venkatesh Rao" {
		t.Errorf("snapshot name = %q, want restamped name", snap.PartyName)
	}

	txns, err := transactions.List(ctx, core.TransactionFilter{PartyID: party.ID})
	if err != nil {
		t.Fatalf("Failed to list transactions: %v", err)
	}
	if len(txns) != 1 || txns[0].PartyName != "Venkatesh Rao" {
		t.Errorf("transaction name not restamped: %+v", txns)
	}
}
