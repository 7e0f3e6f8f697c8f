package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// PartyRole distinguishes the two sides of the business.
type PartyRole string

const (
	RoleCustomer PartyRole = "customer"
	RoleSupplier PartyRole = "supplier"
)

// InflowKind returns the transaction kind that increases what this party owes
// (customer) or is owed (supplier). Payments reduce it for both roles.
func (r PartyRole) InflowKind() TransactionKind {
	if r == RoleSupplier {
		return KindPurchase
	}
	return KindSale
}

// TransactionKind is the type of a ledger transaction.
type TransactionKind string

const (
	KindSale     TransactionKind = "Sale"
	KindPurchase TransactionKind = "Purchase"
	KindPayment  TransactionKind = "Payment"
)

// Party is a customer or supplier.
type Party struct {
	ID        int       `json:"id"`
	Role      PartyRole `json:"role"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Contact   *string   `json:"contact,omitempty"`
	Address   *string   `json:"address,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Product is a catalog item. Transactions reference items by label, so the
// catalog exists for form pickers and reporting, not referential integrity.
type Product struct {
	ID        int       `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Unit      string    `json:"unit"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Transaction is one immutable row of the append-only transaction log.
// PartyID is nil on rows imported from the legacy system; those are matched
// to parties by normalized name instead.
type Transaction struct {
	ID            int             `json:"id"`
	Date          time.Time       `json:"date"`
	PartyID       *int            `json:"party_id,omitempty"`
	PartyName     string          `json:"party_name"`
	Kind          TransactionKind `json:"kind"`
	Item          string          `json:"item,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	BillNumber    *string         `json:"bill_number,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// PaymentSnapshot is the per-party running balance record. DueAmount is the
// authoritative current outstanding and seeds the backsolved opening balance.
type PaymentSnapshot struct {
	ID            int             `json:"id"`
	PartyID       int             `json:"party_id"`
	PartyName     string          `json:"party_name"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	DueAmount     decimal.Decimal `json:"due_amount"`
	PaymentMethod *string         `json:"payment_method,omitempty"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// User is an operator account for the web UI.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        *string   `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// DailySummary is one day of business-wide movement for the dashboard.
type DailySummary struct {
	Date       string          `json:"date"`
	Sales      decimal.Decimal `json:"sales"`
	Purchases  decimal.Decimal `json:"purchases"`
	PaymentsIn decimal.Decimal `json:"payments_in"`
	// PaymentsOut is money paid to suppliers.
	PaymentsOut decimal.Decimal `json:"payments_out"`
}

// SnapshotDrift reports the difference between a party's stored snapshot due
// amount and the balance implied by its transaction history.
type SnapshotDrift struct {
	PartyID     int             `json:"party_id"`
	PartyName   string          `json:"party_name"`
	Role        PartyRole       `json:"role"`
	SnapshotDue decimal.Decimal `json:"snapshot_due"`
	DerivedDue  decimal.Decimal `json:"derived_due"`
	Drift       decimal.Decimal `json:"drift"`
}
