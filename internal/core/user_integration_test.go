package core_test

import (
	"context"
	"testing"

	"mandi-billing/internal/core"
)

func TestAuthenticate(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	users := core.NewUserService(pool)

	hash, err := core.HashPassword("open-sesame")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	if _, err := pool.Exec(ctx, `
		INSERT INTO users (username, password_hash, role) VALUES ('asha', $1, 'staff')`,
		hash,
	); err != nil {
		t.Fatalf("Failed to insert user: %v", err)
	}

	u, err := users.Authenticate(ctx, "asha", "open-sesame")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if u.Username != "asha" {
		t.Errorf("username = %q, want asha", u.Username)
	}

	if _, err := users.Authenticate(ctx, "asha", "wrong"); err == nil {
		t.Errorf("expected wrong password to fail")
	}
	if _, err := users.Authenticate(ctx, "nobody", "open-sesame"); err == nil {
		t.Errorf("expected unknown user to fail")
	}
}

func TestGetByID_ExcludesDeactivatedUsers(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	users := core.NewUserService(pool)

	hash, err := core.HashPassword("open-sesame")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	var id int
	if err := pool.QueryRow(ctx, `
		INSERT INTO users (username, password_hash, role) VALUES ('asha', $1, 'staff')
		RETURNING id`,
		hash,
	).Scan(&id); err != nil {
		t.Fatalf("Failed to insert user: %v", err)
	}

	if _, err := users.GetByID(ctx, id); err != nil {
		t.Fatalf("GetByID failed for active user: %v", err)
	}

	if _, err := pool.Exec(ctx, "UPDATE users SET is_active = false WHERE id = $1", id); err != nil {
		t.Fatalf("Failed to deactivate user: %v", err)
	}

	// A deactivated operator must not resolve even with a still-valid session.
	if _, err := users.GetByID(ctx, id); err == nil {
		t.Errorf("expected deactivated user lookup to fail")
	}
}
