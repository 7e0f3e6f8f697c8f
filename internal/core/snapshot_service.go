package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// SnapshotAdjustment is a manual correction to a party's snapshot. Any field
// left nil keeps its stored value. The snapshot is the source of truth for
// the current balance, so adjustments deliberately bypass the transaction
// log — ReconcileAll exists to surface the resulting drift.
type SnapshotAdjustment struct {
	TotalAmount *decimal.Decimal `json:"total_amount,omitempty"`
	PaidAmount  *decimal.Decimal `json:"paid_amount,omitempty"`
	DueAmount   *decimal.Decimal `json:"due_amount,omitempty"`
	Reason      string           `json:"reason" validate:"required"`
}

type SnapshotService interface {
	// GetByPartyID returns the party's snapshot, or nil when none exists.
	GetByPartyID(ctx context.Context, partyID int) (*PaymentSnapshot, error)

	// Adjust applies a manual correction to the snapshot.
	Adjust(ctx context.Context, partyID int, adj SnapshotAdjustment) (*PaymentSnapshot, error)

	// ReconcileAll compares every snapshot's due amount against the balance
	// implied by the transaction log and returns the parties that drifted.
	ReconcileAll(ctx context.Context) ([]SnapshotDrift, error)
}

type snapshotService struct {
	pool *pgxpool.Pool
}

// NewSnapshotService constructs a SnapshotService backed by PostgreSQL.
func NewSnapshotService(pool *pgxpool.Pool) SnapshotService {
	return &snapshotService{pool: pool}
}

const snapshotColumns = "id, party_id, party_name, total_amount, paid_amount, due_amount, payment_method, updated_at"

func scanSnapshot(row pgx.Row) (*PaymentSnapshot, error) {
	ps := &PaymentSnapshot{}
	err := row.Scan(&ps.ID, &ps.PartyID, &ps.PartyName, &ps.TotalAmount,
		&ps.PaidAmount, &ps.DueAmount, &ps.PaymentMethod, &ps.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return ps, nil
}

func (s *snapshotService) GetByPartyID(ctx context.Context, partyID int) (*PaymentSnapshot, error) {
	ps, err := scanSnapshot(s.pool.QueryRow(ctx,
		"SELECT "+snapshotColumns+" FROM payment_snapshots WHERE party_id = $1", partyID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get snapshot for party %d: %w", partyID, err)
	}
	return ps, nil
}

func (s *snapshotService) Adjust(ctx context.Context, partyID int, adj SnapshotAdjustment) (*PaymentSnapshot, error) {
	ps, err := scanSnapshot(s.pool.QueryRow(ctx, `
		UPDATE payment_snapshots
		SET total_amount = COALESCE($1, total_amount),
		    paid_amount  = COALESCE($2, paid_amount),
		    due_amount   = COALESCE($3, due_amount),
		    updated_at   = NOW()
		WHERE party_id = $4
		RETURNING `+snapshotColumns,
		adj.TotalAmount, adj.PaidAmount, adj.DueAmount, partyID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("no snapshot for party %d", partyID)
		}
		return nil, fmt.Errorf("adjust snapshot for party %d: %w", partyID, err)
	}
	return ps, nil
}

// ReconcileAll derives each party's due as sum(inflow) − sum(payments) from
// ID-stamped and legacy name-matched rows alike, then reports snapshots whose
// stored due differs. A non-zero drift is not necessarily an error: it equals
// the party's true pre-history opening balance when no out-of-band edits
// happened.
func (s *snapshotService) ReconcileAll(ctx context.Context) ([]SnapshotDrift, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT p.id, p.name, p.role, ps.due_amount,
		       COALESCE(SUM(CASE WHEN t.kind <> 'Payment' THEN t.amount ELSE -t.amount END), 0) AS derived_due
		FROM parties p
		JOIN payment_snapshots ps ON ps.party_id = p.id
		LEFT JOIN transactions t
		  ON (t.party_id = p.id OR (t.party_id IS NULL AND LOWER(TRIM(t.party_name)) = LOWER(TRIM(p.name))))
		 AND t.kind IN (CASE WHEN p.role = 'customer' THEN 'Sale' ELSE 'Purchase' END, 'Payment')
		GROUP BY p.id, p.name, p.role, ps.due_amount
		ORDER BY p.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query reconciliation: %w", err)
	}
	defer rows.Close()

	var drifts []SnapshotDrift
	for rows.Next() {
		var d SnapshotDrift
		if err := rows.Scan(&d.PartyID, &d.PartyName, &d.Role, &d.SnapshotDue, &d.DerivedDue); err != nil {
			return nil, fmt.Errorf("scan drift row: %w", err)
		}
		d.Drift = d.SnapshotDue.Sub(d.DerivedDue)
		if !d.Drift.IsZero() {
			drifts = append(drifts, d)
		}
	}
	return drifts, rows.Err()
}
