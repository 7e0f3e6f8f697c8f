package app

import "mandi-billing/internal/core"

// PartyResult is returned by single-party operations.
type PartyResult struct {
	Party    *core.Party
	Snapshot *core.PaymentSnapshot
}

// PartyListResult is returned by ListParties.
type PartyListResult struct {
	Role    core.PartyRole
	Parties []core.Party
}

// ProductListResult is returned by ListProducts.
type ProductListResult struct {
	Products []core.Product
}

// TransactionResult is returned by AppendTransaction and CommitProposal.
type TransactionResult struct {
	Transaction *core.Transaction
	// Snapshot is the party's balance after the append.
	Snapshot *core.PaymentSnapshot
}

// TransactionListResult is returned by ListTransactions.
type TransactionListResult struct {
	Transactions []core.Transaction
}

// DailySummaryResult is returned by GetDailySummaries.
type DailySummaryResult struct {
	Days []core.DailySummary
}

// ReconciliationResult is returned by Reconcile.
type ReconciliationResult struct {
	Drifts []core.SnapshotDrift
}

// AssistantResult is returned by InterpretEntry.
type AssistantResult struct {
	Proposal             *core.EntryProposal
	ClarificationMessage string
	IsClarification      bool
}
