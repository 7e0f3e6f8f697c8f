package core_test

import (
	"testing"
	"time"

	"mandi-billing/internal/core"
)

func TestTransactionInput_Validate_BlankAmount(t *testing.T) {
	// Blank amount normalizes to 0.00 and must then fail validation.
	in := core.TransactionInput{
		Date:    "2025-01-10",
		PartyID: 1,
		Kind:    "Sale",
		Item:    "Tomato",
		Amount:  "",
	}

	in.Normalize()
	if in.Amount != "0.00" {
		t.Errorf("normalized amount = %q, want 0.00", in.Amount)
	}
	if err := in.Validate(); err == nil {
		t.Errorf("expected error after normalization due to zero amount, got nil")
	}
}

func TestTransactionInput_NormalizationAndValidation(t *testing.T) {
	tests := []struct {
		name      string
		input     core.TransactionInput
		expectErr bool
	}{
		{
			name: "Happy path sale",
			input: core.TransactionInput{
				Date: "2025-01-10", PartyID: 1, Kind: "Sale", Item: "Tomato", Amount: "250.00",
			},
			expectErr: false,
		},
		{
			name: "Happy path payment without item",
			input: core.TransactionInput{
				Date: "2025-01-10", PartyID: 1, Kind: "Payment", Amount: "100.00", PaymentMethod: "Cash",
			},
			expectErr: false,
		},
		{
			name: "Lowercase kind is canonicalized",
			input: core.TransactionInput{
				Date: "2025-01-10", PartyID: 1, Kind: "payment", Amount: "100.00",
			},
			expectErr: false,
		},
		{
			name: "Missing party",
			input: core.TransactionInput{
				Date: "2025-01-10", Kind: "Sale", Item: "Tomato", Amount: "250.00",
			},
			expectErr: true,
		},
		{
			name: "Unknown kind",
			input: core.TransactionInput{
				Date: "2025-01-10", PartyID: 1, Kind: "Refund", Item: "Tomato", Amount: "250.00",
			},
			expectErr: true,
		},
		{
			name: "Garbled date",
			input: core.TransactionInput{
				Date: "10/01/2025", PartyID: 1, Kind: "Sale", Item: "Tomato", Amount: "250.00",
			},
			expectErr: true,
		},
		{
			name: "Negative amount",
			input: core.TransactionInput{
				Date: "2025-01-10", PartyID: 1, Kind: "Sale", Item: "Tomato", Amount: "-5.00",
			},
			expectErr: true,
		},
		{
			name: "Zero amount",
			input: core.TransactionInput{
				Date: "2025-01-10", PartyID: 1, Kind: "Sale", Item: "Tomato", Amount: "0.00",
			},
			expectErr: true,
		},
		{
			name: "Sale without item",
			input: core.TransactionInput{
				Date: "2025-01-10", PartyID: 1, Kind: "Sale", Amount: "250.00",
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.input
			in.Normalize()
			err := in.Validate()
			if tt.expectErr && err == nil {
				t.Errorf("expected validation error, got nil")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestTransactionInput_Normalize_DefaultsDateToToday(t *testing.T) {
	in := core.TransactionInput{PartyID: 1, Kind: "Payment", Amount: "50.00"}
	in.Normalize()

	if in.Date != time.Now().Format("2006-01-02") {
		t.Errorf("normalized date = %q, want today", in.Date)
	}
	if err := in.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}
