package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SummaryService produces the dashboard's day-grouped business-wide totals.
type SummaryService interface {
	// DailySummaries returns one row per calendar day with activity, newest
	// first, optionally bounded by an inclusive date range.
	DailySummaries(ctx context.Context, fromDate, toDate string) ([]DailySummary, error)
}

type summaryService struct {
	pool *pgxpool.Pool
}

// NewSummaryService constructs a SummaryService backed by PostgreSQL.
func NewSummaryService(pool *pgxpool.Pool) SummaryService {
	return &summaryService{pool: pool}
}

func (s *summaryService) DailySummaries(ctx context.Context, fromDate, toDate string) ([]DailySummary, error) {
	q := `
		SELECT t.txn_date::text,
		       COALESCE(SUM(t.amount) FILTER (WHERE t.kind = 'Sale'), 0),
		       COALESCE(SUM(t.amount) FILTER (WHERE t.kind = 'Purchase'), 0),
		       COALESCE(SUM(t.amount) FILTER (WHERE t.kind = 'Payment' AND p.role = 'customer'), 0),
		       COALESCE(SUM(t.amount) FILTER (WHERE t.kind = 'Payment' AND p.role = 'supplier'), 0)
		FROM transactions t
		LEFT JOIN parties p ON p.id = t.party_id`

	var args []any
	where := ""
	if fromDate != "" {
		args = append(args, fromDate)
		where += fmt.Sprintf(" AND t.txn_date >= $%d::date", len(args))
	}
	if toDate != "" {
		args = append(args, toDate)
		where += fmt.Sprintf(" AND t.txn_date <= $%d::date", len(args))
	}
	if where != "" {
		q += " WHERE 1=1" + where
	}
	q += " GROUP BY t.txn_date ORDER BY t.txn_date DESC"

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query daily summaries: %w", err)
	}
	defer rows.Close()

	var summaries []DailySummary
	for rows.Next() {
		var d DailySummary
		if err := rows.Scan(&d.Date, &d.Sales, &d.Purchases, &d.PaymentsIn, &d.PaymentsOut); err != nil {
			return nil, fmt.Errorf("scan daily summary: %w", err)
		}
		summaries = append(summaries, d)
	}
	return summaries, rows.Err()
}
