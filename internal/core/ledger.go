package core

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateRange scopes a ledger statement. Bounds are inclusive and compared at
// day granularity. A nil To with a set From selects exactly that single day;
// a nil From with a set To caps the history at that day.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// LedgerEntry is one day's aggregated movement for a party. Derived, never
// persisted; computed fresh on every request.
type LedgerEntry struct {
	Date           string          `json:"date"` // YYYY-MM-DD
	Opening        decimal.Decimal `json:"opening"`
	Inflow         decimal.Decimal `json:"inflow"`
	Outflow        decimal.Decimal `json:"outflow"`
	PaymentMethods []string        `json:"payment_methods,omitempty"`
	Closing        decimal.Decimal `json:"closing"`
	Transactions   []Transaction   `json:"transactions"`
}

// LedgerStatement is the full day-grouped statement for one party.
// Entries are ordered most recent day first. TotalIn and TotalOut are
// straight sums over the period's working set, computed independently of the
// walked entries; ClosingBalance is the final walked running balance.
type LedgerStatement struct {
	PartyID        int             `json:"party_id"`
	PartyName      string          `json:"party_name"`
	Role           PartyRole       `json:"role"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	TotalIn        decimal.Decimal `json:"total_in"`
	TotalOut       decimal.Decimal `json:"total_out"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	Entries        []LedgerEntry   `json:"entries"`
}

// normalizeName is the legacy join key: trimmed, case-folded party name.
func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// MatchTransactions returns the subset of txns belonging to party, restricted
// to the party's inflow kind plus payments. Rows stamped with a party ID are
// matched by ID; legacy rows fall back to normalized-name equality.
func MatchTransactions(party *Party, txns []Transaction) []Transaction {
	if party == nil {
		return nil
	}
	inflow := party.Role.InflowKind()
	name := normalizeName(party.Name)

	var matched []Transaction
	for _, t := range txns {
		if t.Kind != inflow && t.Kind != KindPayment {
			continue
		}
		if t.PartyID != nil {
			if *t.PartyID == party.ID {
				matched = append(matched, t)
			}
			continue
		}
		if normalizeName(t.PartyName) == name {
			matched = append(matched, t)
		}
	}
	return matched
}

// BacksolveOpening derives the balance before the first recorded transaction:
// the snapshot due amount minus lifetime net movement. The snapshot reflects
// today's true balance, so subtracting everything recorded since an assumed
// zero start recovers what the balance must have been "before time began".
func BacksolveOpening(due decimal.Decimal, matched []Transaction, inflowKind TransactionKind) decimal.Decimal {
	lifetimeIn := decimal.Zero
	lifetimePay := decimal.Zero
	for _, t := range matched {
		switch t.Kind {
		case inflowKind:
			lifetimeIn = lifetimeIn.Add(t.Amount)
		case KindPayment:
			lifetimePay = lifetimePay.Add(t.Amount)
		}
	}
	return due.Sub(lifetimeIn.Sub(lifetimePay))
}

// dayOf truncates a timestamp to its calendar day key.
func dayOf(t time.Time) string {
	return t.Format("2006-01-02")
}

// splitPeriod partitions matched transactions around the date range.
// Transactions strictly before From are returned separately so the caller can
// fold them into the opening balance. With From set and To absent, only the
// From day itself is in range; To without From keeps everything up to and
// including the To day in range. A nil range keeps the full history in range.
func splitPeriod(matched []Transaction, period *DateRange) (before, working []Transaction) {
	if period == nil || (period.From == nil && period.To == nil) {
		return nil, matched
	}
	var fromKey, toKey string
	if period.From != nil {
		fromKey = dayOf(*period.From)
		toKey = fromKey
	}
	if period.To != nil {
		toKey = dayOf(*period.To)
	}
	for _, t := range matched {
		key := dayOf(t.Date)
		switch {
		case fromKey != "" && key < fromKey:
			before = append(before, t)
		case key <= toKey:
			working = append(working, t)
		}
	}
	return before, working
}

// dayBucket accumulates one calendar day during aggregation.
type dayBucket struct {
	inflow  decimal.Decimal
	outflow decimal.Decimal
	methods []string
	txns    []Transaction
}

// ComputeLedger builds the day-grouped statement for a party from the full
// transaction list, the party's payment snapshot, and an optional period.
//
// A nil party or snapshot short-circuits to the zeroed empty statement; the
// caller presents it as-is rather than failing the request.
func ComputeLedger(party *Party, snapshot *PaymentSnapshot, txns []Transaction, period *DateRange) *LedgerStatement {
	stmt := &LedgerStatement{
		OpeningBalance: decimal.Zero,
		TotalIn:        decimal.Zero,
		TotalOut:       decimal.Zero,
		ClosingBalance: decimal.Zero,
	}
	if party == nil || snapshot == nil {
		return stmt
	}
	stmt.PartyID = party.ID
	stmt.PartyName = party.Name
	stmt.Role = party.Role

	inflowKind := party.Role.InflowKind()
	matched := MatchTransactions(party, txns)

	opening := BacksolveOpening(snapshot.DueAmount, matched, inflowKind)

	before, working := splitPeriod(matched, period)
	for _, t := range before {
		if t.Kind == inflowKind {
			opening = opening.Add(t.Amount)
		} else {
			opening = opening.Sub(t.Amount)
		}
	}
	stmt.OpeningBalance = opening

	// Group the working set by calendar day.
	buckets := make(map[string]*dayBucket)
	var keys []string
	for _, t := range working {
		key := dayOf(t.Date)
		b, ok := buckets[key]
		if !ok {
			b = &dayBucket{inflow: decimal.Zero, outflow: decimal.Zero}
			buckets[key] = b
			keys = append(keys, key)
		}
		if t.Kind == inflowKind {
			b.inflow = b.inflow.Add(t.Amount)
			stmt.TotalIn = stmt.TotalIn.Add(t.Amount)
		} else {
			b.outflow = b.outflow.Add(t.Amount)
			stmt.TotalOut = stmt.TotalOut.Add(t.Amount)
		}
		if m := strings.TrimSpace(t.PaymentMethod); m != "" && !slices.Contains(b.methods, m) {
			b.methods = append(b.methods, m)
		}
		b.txns = append(b.txns, t)
	}
	sort.Strings(keys)

	// Walk days ascending, threading the running balance forward.
	running := opening
	entries := make([]LedgerEntry, 0, len(keys))
	for _, key := range keys {
		b := buckets[key]
		closing := running.Add(b.inflow).Sub(b.outflow)
		entries = append(entries, LedgerEntry{
			Date:           key,
			Opening:        running,
			Inflow:         b.inflow,
			Outflow:        b.outflow,
			PaymentMethods: b.methods,
			Closing:        closing,
			Transactions:   b.txns,
		})
		running = closing
	}
	stmt.ClosingBalance = running

	// Most recent day first for display.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date > entries[j].Date })
	stmt.Entries = entries

	return stmt
}
