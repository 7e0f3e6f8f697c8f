package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionInput is the validated request to append one transaction.
// Validation happens here, at ingestion — the ledger computation trusts what
// the store hands it.
type TransactionInput struct {
	Date           string `json:"date" jsonschema_description:"Transaction date in YYYY-MM-DD format"`
	PartyID        int    `json:"party_id" jsonschema_description:"Numeric ID of the customer or supplier"`
	Kind           string `json:"kind" jsonschema_description:"One of Sale, Purchase, Payment"`
	Item           string `json:"item" jsonschema_description:"Item label for Sale/Purchase rows, empty for payments"`
	Amount         string `json:"amount" jsonschema_description:"Positive amount as a decimal string, e.g. \"250.00\""`
	PaymentMethod  string `json:"payment_method" jsonschema_description:"Payment method label such as Cash, UPI, Bank"`
	BillNumber     string `json:"bill_number" jsonschema_description:"Optional bill number reference"`
	IdempotencyKey string `json:"idempotency_key" jsonschema_description:"Unique key to prevent duplicate entries"`
}

// Normalize cleans up user (and LLM) input before validation.
func (in *TransactionInput) Normalize() {
	in.Date = strings.TrimSpace(in.Date)
	switch strings.ToLower(strings.TrimSpace(in.Kind)) {
	case "sale":
		in.Kind = string(KindSale)
	case "purchase":
		in.Kind = string(KindPurchase)
	case "payment":
		in.Kind = string(KindPayment)
	default:
		in.Kind = strings.TrimSpace(in.Kind)
	}
	in.Item = strings.TrimSpace(in.Item)
	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)
	in.BillNumber = strings.TrimSpace(in.BillNumber)

	if strings.TrimSpace(in.Amount) == "" || strings.ToLower(in.Amount) == "null" {
		in.Amount = "0.00"
	}
	if in.Date == "" {
		in.Date = time.Now().Format("2006-01-02")
	}
}

// Validate rejects malformed rows before they reach the append-only log.
// Unparseable dates and non-positive amounts fail here, when the transaction
// is stored, never later when it is read back for a ledger.
func (in *TransactionInput) Validate() error {
	if in.PartyID <= 0 {
		return errors.New("transaction must reference a party")
	}

	switch TransactionKind(in.Kind) {
	case KindSale, KindPurchase, KindPayment:
	default:
		return fmt.Errorf("unknown transaction kind %q", in.Kind)
	}

	if _, err := time.Parse("2006-01-02", in.Date); err != nil {
		return fmt.Errorf("invalid transaction date %q: %w", in.Date, err)
	}

	amt, err := decimal.NewFromString(in.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %v", in.Amount, err)
	}
	if amt.IsNegative() {
		return errors.New("amount cannot be negative")
	}
	if amt.IsZero() {
		return errors.New("amount must be > 0")
	}

	if TransactionKind(in.Kind) != KindPayment && in.Item == "" {
		return errors.New("sale and purchase rows must name an item")
	}

	return nil
}

// AmountDecimal returns the parsed amount. Call only after Validate.
func (in *TransactionInput) AmountDecimal() decimal.Decimal {
	amt, _ := decimal.NewFromString(in.Amount)
	return amt
}

// DateValue returns the parsed transaction date. Call only after Validate.
func (in *TransactionInput) DateValue() time.Time {
	d, _ := time.Parse("2006-01-02", in.Date)
	return d
}
