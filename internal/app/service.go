package app

import (
	"context"

	"mandi-billing/internal/core"
)

// ApplicationService is the single interface all adapters call. It decouples
// presentation from business logic; implementations contain no display logic.
type ApplicationService interface {
	// ListParties returns all active customers or suppliers.
	ListParties(ctx context.Context, role core.PartyRole) (*PartyListResult, error)

	// GetParty returns one party by ID, or a nil result when it does not exist.
	GetParty(ctx context.Context, id int) (*PartyResult, error)

	// CreateParty creates a customer or supplier plus its zeroed snapshot.
	CreateParty(ctx context.Context, role core.PartyRole, input core.PartyInput) (*PartyResult, error)

	// UpdateParty modifies a party; renames restamp snapshot and stamped rows.
	UpdateParty(ctx context.Context, role core.PartyRole, id int, input core.PartyInput) (*PartyResult, error)

	// DeactivateParty soft-deletes a party, preserving its history.
	DeactivateParty(ctx context.Context, role core.PartyRole, id int) error

	// ListProducts returns the active product catalog.
	ListProducts(ctx context.Context) (*ProductListResult, error)

	// CreateProduct adds a catalog item.
	CreateProduct(ctx context.Context, input core.ProductInput) (*core.Product, error)

	// DeactivateProduct soft-deletes a catalog item.
	DeactivateProduct(ctx context.Context, id int) error

	// AppendTransaction validates and stores one transaction, bumping the
	// party's payment snapshot in the same database transaction.
	AppendTransaction(ctx context.Context, input core.TransactionInput) (*TransactionResult, error)

	// ListTransactions returns transactions matching the filter, newest first.
	ListTransactions(ctx context.Context, filter core.TransactionFilter) (*TransactionListResult, error)

	// GetSnapshot returns a party's payment snapshot, nil result when absent.
	GetSnapshot(ctx context.Context, partyID int) (*core.PaymentSnapshot, error)

	// AdjustSnapshot applies a manual correction to a party's snapshot.
	AdjustSnapshot(ctx context.Context, partyID int, adj core.SnapshotAdjustment) (*core.PaymentSnapshot, error)

	// GetLedger computes the day-grouped ledger statement for a party.
	// fromDate and toDate are optional inclusive YYYY-MM-DD bounds; fromDate
	// alone selects that single day, toDate alone caps the history at that
	// day, neither means full history. A missing party or snapshot yields
	// the zeroed empty statement, not an error.
	GetLedger(ctx context.Context, partyID int, fromDate, toDate string) (*core.LedgerStatement, error)

	// GetDailySummaries returns the dashboard's per-day business totals.
	GetDailySummaries(ctx context.Context, fromDate, toDate string) (*DailySummaryResult, error)

	// Reconcile reports parties whose snapshot due amount drifted from the
	// balance implied by the transaction log.
	Reconcile(ctx context.Context) (*ReconciliationResult, error)

	// InterpretEntry sends a natural-language billing note to the assistant
	// and returns either a transaction proposal or a clarification request.
	InterpretEntry(ctx context.Context, text string) (*AssistantResult, error)

	// CommitProposal appends a previously proposed transaction after explicit
	// operator approval.
	CommitProposal(ctx context.Context, input core.TransactionInput) (*TransactionResult, error)

	// AuthenticateUser verifies credentials and returns the user on success.
	AuthenticateUser(ctx context.Context, username, password string) (*core.User, error)

	// GetUser returns a user profile by ID.
	GetUser(ctx context.Context, userID int) (*core.User, error)
}
