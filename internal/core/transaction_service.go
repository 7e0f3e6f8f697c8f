package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionFilter narrows List results. Zero values mean "no filter".
type TransactionFilter struct {
	PartyID  int
	Kind     TransactionKind
	FromDate string // YYYY-MM-DD, inclusive
	ToDate   string // YYYY-MM-DD, inclusive
}

// TransactionService is the append-only transaction log plus the snapshot
// bump that keeps each party's due amount current.
type TransactionService interface {
	// Append validates and stores one transaction. The matching snapshot is
	// updated in the same database transaction: Sale/Purchase raise the
	// party's total and due amounts, Payment raises paid and lowers due.
	Append(ctx context.Context, input TransactionInput) (*Transaction, error)

	// List returns transactions matching the filter, newest first.
	List(ctx context.Context, filter TransactionFilter) ([]Transaction, error)

	// ListForLedger returns the full history oldest first, the shape the
	// ledger computation consumes.
	ListForLedger(ctx context.Context) ([]Transaction, error)
}

type transactionService struct {
	pool         *pgxpool.Pool
	partyService PartyService
}

// NewTransactionService constructs a TransactionService backed by PostgreSQL.
func NewTransactionService(pool *pgxpool.Pool, partyService PartyService) TransactionService {
	return &transactionService{pool: pool, partyService: partyService}
}

const txnColumns = "id, txn_date, party_id, party_name, kind, item, amount, payment_method, bill_number, created_at"

func scanTransaction(row pgx.Row) (*Transaction, error) {
	t := &Transaction{}
	var item *string
	err := row.Scan(&t.ID, &t.Date, &t.PartyID, &t.PartyName, &t.Kind, &item,
		&t.Amount, &t.PaymentMethod, &t.BillNumber, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	if item != nil {
		t.Item = *item
	}
	return t, nil
}

func (s *transactionService) Append(ctx context.Context, input TransactionInput) (*Transaction, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("transaction validation failed: %w", err)
	}

	party, err := s.partyService.GetByID(ctx, input.PartyID)
	if err != nil {
		return nil, err
	}
	if party == nil {
		return nil, fmt.Errorf("party %d not found", input.PartyID)
	}

	kind := TransactionKind(input.Kind)
	if kind != KindPayment && kind != party.Role.InflowKind() {
		return nil, fmt.Errorf("%s rows cannot be recorded against a %s", kind, party.Role)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var key *string
	if input.IdempotencyKey != "" {
		key = &input.IdempotencyKey
	}

	t, err := scanTransaction(tx.QueryRow(ctx, `
		INSERT INTO transactions (txn_date, party_id, party_name, kind, item, amount, payment_method, bill_number, idempotency_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (idempotency_key) DO NOTHING
		RETURNING `+txnColumns,
		input.DateValue(), party.ID, party.Name, kind, toPtr(input.Item),
		input.AmountDecimal(), input.PaymentMethod, toPtr(input.BillNumber), key,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("duplicate transaction: idempotency key %s already exists", input.IdempotencyKey)
		}
		return nil, fmt.Errorf("insert transaction: %w", err)
	}

	amount := input.AmountDecimal()
	if kind == KindPayment {
		_, err = tx.Exec(ctx, `
			UPDATE payment_snapshots
			SET paid_amount = paid_amount + $1,
			    due_amount  = due_amount - $1,
			    payment_method = CASE WHEN $2 <> '' THEN $2 ELSE payment_method END,
			    updated_at  = NOW()
			WHERE party_id = $3`,
			amount, input.PaymentMethod, party.ID,
		)
	} else {
		_, err = tx.Exec(ctx, `
			UPDATE payment_snapshots
			SET total_amount = total_amount + $1,
			    due_amount   = due_amount + $1,
			    updated_at   = NOW()
			WHERE party_id = $2`,
			amount, party.ID,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("update snapshot for party %d: %w", party.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return t, nil
}

func (s *transactionService) List(ctx context.Context, filter TransactionFilter) ([]Transaction, error) {
	q := "SELECT " + txnColumns + " FROM transactions WHERE 1=1"
	var args []any
	if filter.PartyID > 0 {
		args = append(args, filter.PartyID)
		q += fmt.Sprintf(" AND party_id = $%d", len(args))
	}
	if filter.Kind != "" {
		args = append(args, filter.Kind)
		q += fmt.Sprintf(" AND kind = $%d", len(args))
	}
	if filter.FromDate != "" {
		args = append(args, filter.FromDate)
		q += fmt.Sprintf(" AND txn_date >= $%d::date", len(args))
	}
	if filter.ToDate != "" {
		args = append(args, filter.ToDate)
		q += fmt.Sprintf(" AND txn_date <= $%d::date", len(args))
	}
	q += " ORDER BY txn_date DESC, id DESC"

	return s.queryTransactions(ctx, q, args...)
}

func (s *transactionService) ListForLedger(ctx context.Context) ([]Transaction, error) {
	return s.queryTransactions(ctx,
		"SELECT "+txnColumns+" FROM transactions ORDER BY txn_date ASC, id ASC")
}

func (s *transactionService) queryTransactions(ctx context.Context, q string, args ...any) ([]Transaction, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txns []Transaction
	for rows.Next() {
		var t Transaction
		var item *string
		if err := rows.Scan(&t.ID, &t.Date, &t.PartyID, &t.PartyName, &t.Kind, &item,
			&t.Amount, &t.PaymentMethod, &t.BillNumber, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if item != nil {
			t.Item = *item
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}
