package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PartyInput is the request to create or update a customer/supplier.
type PartyInput struct {
	Code    string `json:"code" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Contact string `json:"contact"`
	Address string `json:"address"`
}

// PartyService manages customers and suppliers. Both roles share one
// implementation; every operation is scoped by role.
type PartyService interface {
	Create(ctx context.Context, role PartyRole, input PartyInput) (*Party, error)
	Update(ctx context.Context, role PartyRole, id int, input PartyInput) (*Party, error)
	List(ctx context.Context, role PartyRole) ([]Party, error)
	GetByID(ctx context.Context, id int) (*Party, error)
	Deactivate(ctx context.Context, role PartyRole, id int) error
}

type partyService struct {
	pool *pgxpool.Pool
}

// NewPartyService constructs a PartyService backed by PostgreSQL.
func NewPartyService(pool *pgxpool.Pool) PartyService {
	return &partyService{pool: pool}
}

const partyColumns = "id, role, code, name, contact, address, is_active, created_at"

func scanParty(row pgx.Row) (*Party, error) {
	p := &Party{}
	err := row.Scan(&p.ID, &p.Role, &p.Code, &p.Name, &p.Contact, &p.Address, &p.IsActive, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func toPtr(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// Create inserts a new party and its zeroed payment snapshot in one
// transaction, so every party always has a snapshot row.
func (s *partyService) Create(ctx context.Context, role PartyRole, input PartyInput) (*Party, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	p, err := scanParty(tx.QueryRow(ctx, `
		INSERT INTO parties (role, code, name, contact, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+partyColumns,
		role, input.Code, strings.TrimSpace(input.Name), toPtr(input.Contact), toPtr(input.Address),
	))
	if err != nil {
		return nil, fmt.Errorf("create %s %q: %w", role, input.Code, err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO payment_snapshots (party_id, party_name)
		VALUES ($1, $2)`,
		p.ID, p.Name,
	); err != nil {
		return nil, fmt.Errorf("create snapshot for party %d: %w", p.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return p, nil
}

// Update modifies a party. A rename restamps the snapshot party_name and the
// party_name on ID-stamped transaction rows, so only true legacy rows keep
// depending on the name join.
func (s *partyService) Update(ctx context.Context, role PartyRole, id int, input PartyInput) (*Party, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	p, err := scanParty(tx.QueryRow(ctx, `
		UPDATE parties
		SET code = $1, name = $2, contact = $3, address = $4
		WHERE id = $5 AND role = $6
		RETURNING `+partyColumns,
		input.Code, strings.TrimSpace(input.Name), toPtr(input.Contact), toPtr(input.Address), id, role,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s %d not found", role, id)
		}
		return nil, fmt.Errorf("update %s %d: %w", role, id, err)
	}

	if _, err := tx.Exec(ctx,
		"UPDATE payment_snapshots SET party_name = $1, updated_at = NOW() WHERE party_id = $2",
		p.Name, p.ID,
	); err != nil {
		return nil, fmt.Errorf("restamp snapshot name for party %d: %w", p.ID, err)
	}
	if _, err := tx.Exec(ctx,
		"UPDATE transactions SET party_name = $1 WHERE party_id = $2",
		p.Name, p.ID,
	); err != nil {
		return nil, fmt.Errorf("restamp transaction names for party %d: %w", p.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return p, nil
}

// List returns all active parties of the given role, ordered by code.
func (s *partyService) List(ctx context.Context, role PartyRole) ([]Party, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+partyColumns+`
		FROM parties
		WHERE role = $1 AND is_active = true
		ORDER BY code`,
		role,
	)
	if err != nil {
		return nil, fmt.Errorf("list %ss: %w", role, err)
	}
	defer rows.Close()

	var parties []Party
	for rows.Next() {
		var p Party
		if err := rows.Scan(&p.ID, &p.Role, &p.Code, &p.Name, &p.Contact, &p.Address, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan party: %w", err)
		}
		parties = append(parties, p)
	}
	return parties, rows.Err()
}

// GetByID returns a party of either role, or nil when it does not exist.
// The nil-without-error contract lets ledger callers short-circuit to the
// zeroed statement instead of failing the request.
func (s *partyService) GetByID(ctx context.Context, id int) (*Party, error) {
	p, err := scanParty(s.pool.QueryRow(ctx,
		"SELECT "+partyColumns+" FROM parties WHERE id = $1", id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get party %d: %w", id, err)
	}
	return p, nil
}

// Deactivate soft-deletes a party. Transaction history stays intact.
func (s *partyService) Deactivate(ctx context.Context, role PartyRole, id int) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE parties SET is_active = false WHERE id = $1 AND role = $2", id, role,
	)
	if err != nil {
		return fmt.Errorf("deactivate %s %d: %w", role, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %d not found", role, id)
	}
	return nil
}
