package core_test

import (
	"testing"
	"time"

	"mandi-billing/internal/core"

	"github.com/shopspring/decimal"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func txn(date string, partyID int, name string, kind core.TransactionKind, amount, method string) core.Transaction {
	t := core.Transaction{
		Date:          day(date),
		PartyName:     name,
		Kind:          kind,
		Amount:        dec(amount),
		PaymentMethod: method,
	}
	if partyID != 0 {
		t.PartyID = &partyID
	}
	return t
}

func customer(id int, name string) *core.Party {
	return &core.Party{ID: id, Role: core.RoleCustomer, Name: name}
}

func snapshot(due string) *core.PaymentSnapshot {
	return &core.PaymentSnapshot{DueAmount: dec(due)}
}

func TestComputeLedger_FullHistory(t *testing.T) {
	party := customer(1, "Venkatesh")
	txns := []core.Transaction{
		txn("2025-01-10", 1, "Venkatesh", core.KindSale, "200.00", ""),
		txn("2025-01-12", 1, "Venkatesh", core.KindPayment, "150.00", "Cash"),
	}

	stmt := core.ComputeLedger(party, snapshot("1050.00"), txns, nil)

	if !stmt.OpeningBalance.Equal(dec("1000.00")) {
		t.Errorf("opening = %s, want 1000.00", stmt.OpeningBalance)
	}
	if !stmt.ClosingBalance.Equal(dec("1050.00")) {
		t.Errorf("closing = %s, want snapshot due 1050.00", stmt.ClosingBalance)
	}
	if len(stmt.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(stmt.Entries))
	}

	// Most recent day first.
	if stmt.Entries[0].Date != "2025-01-12" || stmt.Entries[1].Date != "2025-01-10" {
		t.Errorf("entries not in descending date order: %s, %s", stmt.Entries[0].Date, stmt.Entries[1].Date)
	}

	// Walking the older day forward must land on the newer day's opening.
	if !stmt.Entries[1].Closing.Equal(stmt.Entries[0].Opening) {
		t.Errorf("day 1 closing %s != day 2 opening %s", stmt.Entries[1].Closing, stmt.Entries[0].Opening)
	}
	if !stmt.Entries[1].Closing.Equal(dec("1200.00")) {
		t.Errorf("day 1 closing = %s, want 1200.00", stmt.Entries[1].Closing)
	}

	// Totals are independent sums over the same working set.
	if !stmt.TotalIn.Equal(dec("200.00")) || !stmt.TotalOut.Equal(dec("150.00")) {
		t.Errorf("totals = in %s / out %s, want 200.00 / 150.00", stmt.TotalIn, stmt.TotalOut)
	}
	net := stmt.TotalIn.Sub(stmt.TotalOut)
	walked := stmt.ClosingBalance.Sub(stmt.OpeningBalance)
	if !net.Equal(walked) {
		t.Errorf("sum identity broken: totals net %s, walked net %s", net, walked)
	}
}

func TestComputeLedger_BacksolvedOpening(t *testing.T) {
	// Lifetime: 5000 sold, 4000 paid, snapshot says 1000 due.
	// The balance before any recorded row must therefore be zero.
	party := customer(1, "Ravi Stores")
	txns := []core.Transaction{
		txn("2025-02-01", 1, "Ravi Stores", core.KindSale, "5000.00", ""),
		txn("2025-02-05", 1, "Ravi Stores", core.KindPayment, "4000.00", "UPI"),
	}

	stmt := core.ComputeLedger(party, snapshot("1000.00"), txns, nil)

	if !stmt.OpeningBalance.IsZero() {
		t.Errorf("opening = %s, want 0", stmt.OpeningBalance)
	}
	if !stmt.ClosingBalance.Equal(dec("1000.00")) {
		t.Errorf("closing = %s, want 1000.00", stmt.ClosingBalance)
	}
}

func TestComputeLedger_WalkFromZeroOpening(t *testing.T) {
	// 200 billed, 150 paid, 50 still due: the opening backsolves to zero and
	// the walk is 0 -> 200 -> 50.
	party := customer(1, "Hotel Annapurna")
	txns := []core.Transaction{
		txn("2025-04-01", 1, "Hotel Annapurna", core.KindSale, "200.00", ""),
		txn("2025-04-02", 1, "Hotel Annapurna", core.KindPayment, "150.00", "UPI"),
	}

	stmt := core.ComputeLedger(party, snapshot("50.00"), txns, nil)

	if !stmt.OpeningBalance.IsZero() {
		t.Errorf("opening = %s, want 0", stmt.OpeningBalance)
	}
	if len(stmt.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(stmt.Entries))
	}
	day1, day2 := stmt.Entries[1], stmt.Entries[0]
	if !day1.Opening.IsZero() || !day1.Inflow.Equal(dec("200.00")) || !day1.Closing.Equal(dec("200.00")) {
		t.Errorf("day 1 = %+v, want opening 0, inflow 200, closing 200", day1)
	}
	if !day2.Opening.Equal(dec("200.00")) || !day2.Outflow.Equal(dec("150.00")) || !day2.Closing.Equal(dec("50.00")) {
		t.Errorf("day 2 = %+v, want opening 200, outflow 150, closing 50", day2)
	}
	if !stmt.ClosingBalance.Equal(dec("50.00")) {
		t.Errorf("closing = %s, want 50.00", stmt.ClosingBalance)
	}
}

func TestComputeLedger_PeriodFoldsHistoryIntoOpening(t *testing.T) {
	party := customer(1, "Venkatesh")
	txns := []core.Transaction{
		txn("2025-01-05", 1, "Venkatesh", core.KindSale, "300.00", ""),
		txn("2025-01-10", 1, "Venkatesh", core.KindSale, "200.00", ""),
		txn("2025-01-12", 1, "Venkatesh", core.KindPayment, "150.00", "Cash"),
	}
	from := day("2025-01-10")
	to := day("2025-01-31")

	stmt := core.ComputeLedger(party, snapshot("1350.00"), txns, &core.DateRange{From: &from, To: &to})

	// Backsolved opening is 1000; the Jan 5 sale folds in before the window.
	if !stmt.OpeningBalance.Equal(dec("1300.00")) {
		t.Errorf("opening = %s, want 1300.00", stmt.OpeningBalance)
	}
	if len(stmt.Entries) != 2 {
		t.Fatalf("entries = %d, want 2 in-range days", len(stmt.Entries))
	}
	if !stmt.TotalIn.Equal(dec("200.00")) {
		t.Errorf("total in = %s, want 200.00 (pre-window sale excluded)", stmt.TotalIn)
	}
	if !stmt.ClosingBalance.Equal(dec("1350.00")) {
		t.Errorf("closing = %s, want 1350.00", stmt.ClosingBalance)
	}
}

func TestComputeLedger_FromOnlySelectsSingleDay(t *testing.T) {
	party := customer(1, "Venkatesh")
	txns := []core.Transaction{
		txn("2025-01-10", 1, "Venkatesh", core.KindSale, "200.00", ""),
		txn("2025-01-12", 1, "Venkatesh", core.KindPayment, "150.00", "Cash"),
	}
	from := day("2025-01-10")

	stmt := core.ComputeLedger(party, snapshot("1050.00"), txns, &core.DateRange{From: &from})

	if len(stmt.Entries) != 1 {
		t.Fatalf("entries = %d, want exactly the From day", len(stmt.Entries))
	}
	if stmt.Entries[0].Date != "2025-01-10" {
		t.Errorf("entry date = %s, want 2025-01-10", stmt.Entries[0].Date)
	}
	if !stmt.TotalOut.IsZero() {
		t.Errorf("total out = %s, want 0 (payment is outside the single day)", stmt.TotalOut)
	}
}

func TestComputeLedger_ToOnlyCapsHistory(t *testing.T) {
	party := customer(1, "Venkatesh")
	txns := []core.Transaction{
		txn("2025-01-10", 1, "Venkatesh", core.KindSale, "200.00", ""),
		txn("2025-03-01", 1, "Venkatesh", core.KindSale, "500.00", ""),
	}
	to := day("2025-01-31")

	stmt := core.ComputeLedger(party, snapshot("700.00"), txns, &core.DateRange{To: &to})

	if len(stmt.Entries) != 1 {
		t.Fatalf("entries = %d, want 1 (the March sale is past the bound)", len(stmt.Entries))
	}
	if stmt.Entries[0].Date != "2025-01-10" {
		t.Errorf("entry date = %s, want 2025-01-10", stmt.Entries[0].Date)
	}
	if !stmt.TotalIn.Equal(dec("200.00")) {
		t.Errorf("total in = %s, want 200.00", stmt.TotalIn)
	}
	if !stmt.OpeningBalance.IsZero() {
		t.Errorf("opening = %s, want 0 (nothing predates the window)", stmt.OpeningBalance)
	}
	if !stmt.ClosingBalance.Equal(dec("200.00")) {
		t.Errorf("closing = %s, want 200.00", stmt.ClosingBalance)
	}
}

func TestComputeLedger_RangeAfterLastActivity(t *testing.T) {
	party := customer(1, "Venkatesh")
	txns := []core.Transaction{
		txn("2025-01-10", 1, "Venkatesh", core.KindSale, "200.00", ""),
	}
	from := day("2025-06-01")
	to := day("2025-06-30")

	stmt := core.ComputeLedger(party, snapshot("1200.00"), txns, &core.DateRange{From: &from, To: &to})

	// Everything predates the window, so it all folds into the opening and
	// the statement is flat at the snapshot due.
	if len(stmt.Entries) != 0 {
		t.Fatalf("entries = %d, want 0", len(stmt.Entries))
	}
	if !stmt.OpeningBalance.Equal(dec("1200.00")) {
		t.Errorf("opening = %s, want 1200.00", stmt.OpeningBalance)
	}
	if !stmt.ClosingBalance.Equal(stmt.OpeningBalance) {
		t.Errorf("closing = %s, want opening %s", stmt.ClosingBalance, stmt.OpeningBalance)
	}
}

func TestComputeLedger_NoTransactions(t *testing.T) {
	stmt := core.ComputeLedger(customer(1, "Venkatesh"), snapshot("500.00"), nil, nil)

	if len(stmt.Entries) != 0 {
		t.Fatalf("entries = %d, want 0", len(stmt.Entries))
	}
	if !stmt.OpeningBalance.Equal(dec("500.00")) || !stmt.ClosingBalance.Equal(dec("500.00")) {
		t.Errorf("opening/closing = %s/%s, want both 500.00", stmt.OpeningBalance, stmt.ClosingBalance)
	}
	if !stmt.TotalIn.IsZero() || !stmt.TotalOut.IsZero() {
		t.Errorf("totals = %s/%s, want zero", stmt.TotalIn, stmt.TotalOut)
	}
}

func TestComputeLedger_NilPartyOrSnapshot(t *testing.T) {
	stmt := core.ComputeLedger(nil, snapshot("100.00"), nil, nil)
	if !stmt.OpeningBalance.IsZero() || !stmt.ClosingBalance.IsZero() || len(stmt.Entries) != 0 {
		t.Errorf("nil party should produce an empty zeroed statement, got %+v", stmt)
	}

	stmt = core.ComputeLedger(customer(1, "Venkatesh"), nil, nil, nil)
	if !stmt.OpeningBalance.IsZero() || !stmt.ClosingBalance.IsZero() || len(stmt.Entries) != 0 {
		t.Errorf("nil snapshot should produce an empty zeroed statement, got %+v", stmt)
	}
}

func TestComputeLedger_Idempotent(t *testing.T) {
	party := customer(1, "Venkatesh")
	txns := []core.Transaction{
		txn("2025-01-10", 1, "Venkatesh", core.KindSale, "200.00", ""),
		txn("2025-01-12", 1, "Venkatesh", core.KindPayment, "150.00", "Cash"),
	}

	first := core.ComputeLedger(party, snapshot("1050.00"), txns, nil)
	second := core.ComputeLedger(party, snapshot("1050.00"), txns, nil)

	if !first.OpeningBalance.Equal(second.OpeningBalance) ||
		!first.ClosingBalance.Equal(second.ClosingBalance) ||
		len(first.Entries) != len(second.Entries) {
		t.Errorf("repeated computation over the same inputs diverged")
	}
}

func TestComputeLedger_PaymentMethods(t *testing.T) {
	party := customer(1, "Venkatesh")
	txns := []core.Transaction{
		txn("2025-01-12", 1, "Venkatesh", core.KindPayment, "100.00", "Cash"),
		txn("2025-01-12", 1, "Venkatesh", core.KindPayment, "50.00", "UPI"),
		txn("2025-01-12", 1, "Venkatesh", core.KindPayment, "25.00", "Cash"),
		txn("2025-01-12", 1, "Venkatesh", core.KindSale, "10.00", ""),
	}

	stmt := core.ComputeLedger(party, snapshot("0.00"), txns, nil)

	if len(stmt.Entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(stmt.Entries))
	}
	got := stmt.Entries[0].PaymentMethods
	want := []string{"Cash", "UPI"}
	if len(got) != len(want) {
		t.Fatalf("methods = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("methods = %v, want first-seen order %v", got, want)
		}
	}
}

func TestMatchTransactions_NameFallback(t *testing.T) {
	party := customer(7, "Venkatesh")
	txns := []core.Transaction{
		// Legacy row: no party ID, name differs only in case and padding.
		txn("2025-01-10", 0, "  venkatesh ", core.KindSale, "100.00", ""),
		// Stamped row for a different party, even though the name matches.
		txn("2025-01-11", 8, "Venkatesh", core.KindSale, "100.00", ""),
		// Wrong kind for a customer.
		txn("2025-01-12", 7, "Venkatesh", core.KindPurchase, "100.00", ""),
		// Stamped row for this party.
		txn("2025-01-13", 7, "Venkatesh", core.KindPayment, "40.00", "Cash"),
	}

	matched := core.MatchTransactions(party, txns)
	if len(matched) != 2 {
		t.Fatalf("matched = %d rows, want 2", len(matched))
	}
	if !matched[0].Amount.Equal(dec("100.00")) || matched[0].PartyID != nil {
		t.Errorf("expected the legacy name-matched sale first, got %+v", matched[0])
	}
	if matched[1].Kind != core.KindPayment {
		t.Errorf("expected the stamped payment second, got %+v", matched[1])
	}
}

func TestComputeLedger_SupplierInflowIsPurchase(t *testing.T) {
	party := &core.Party{ID: 3, Role: core.RoleSupplier, Name: "Krishna Farms"}
	txns := []core.Transaction{
		txn("2025-03-01", 3, "Krishna Farms", core.KindPurchase, "800.00", ""),
		txn("2025-03-03", 3, "Krishna Farms", core.KindPayment, "500.00", "Bank"),
		// Sales never belong on a supplier ledger.
		txn("2025-03-04", 3, "Krishna Farms", core.KindSale, "999.00", ""),
	}

	stmt := core.ComputeLedger(party, snapshot("300.00"), txns, nil)

	if !stmt.OpeningBalance.IsZero() {
		t.Errorf("opening = %s, want 0", stmt.OpeningBalance)
	}
	if !stmt.TotalIn.Equal(dec("800.00")) || !stmt.TotalOut.Equal(dec("500.00")) {
		t.Errorf("totals = in %s / out %s, want 800.00 / 500.00", stmt.TotalIn, stmt.TotalOut)
	}
	if !stmt.ClosingBalance.Equal(dec("300.00")) {
		t.Errorf("closing = %s, want 300.00", stmt.ClosingBalance)
	}
}

func TestBacksolveOpening(t *testing.T) {
	txns := []core.Transaction{
		txn("2025-01-01", 1, "X", core.KindSale, "5000.00", ""),
		txn("2025-01-02", 1, "X", core.KindPayment, "4000.00", ""),
	}
	opening := core.BacksolveOpening(dec("1000.00"), txns, core.KindSale)
	if !opening.IsZero() {
		t.Errorf("opening = %s, want 0", opening)
	}

	// A party that paid more than was ever billed has a negative opening.
	opening = core.BacksolveOpening(dec("0.00"), txns, core.KindSale)
	if !opening.Equal(dec("-1000.00")) {
		t.Errorf("opening = %s, want -1000.00", opening)
	}
}
