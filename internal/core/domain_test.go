package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2024-03-15" {
		t.Fatalf("got %q", d.String())
	}
	for _, bad := range []string{"", "15/03/2024", "2024-13-01", "2024-02-30"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q: expected ErrInvalidDate, got %v", bad, err)
		}
	}
}

func TestParseTransactionType(t *testing.T) {
	for in, want := range map[string]TransactionType{"income": Income, "EXPENSE": Expense, " Income ": Income} {
		got, err := ParseTransactionType(in)
		if err != nil || got != want {
			t.Fatalf("%q: got %q (err=%v)", in, got, err)
		}
	}
	if _, err := ParseTransactionType("transfer"); !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
	if err := (Money{Cents: MaxAmountCents + 1}).Validate(); !errors.Is(err, ErrAmountTooLarge) {
		t.Fatalf("expected ErrAmountTooLarge, got %v", err)
	}
}

func TestTransactionInputValidate(t *testing.T) {
	cat := int64(3)
	good := TransactionInput{
		Description: "Coffee",
		Amount:      Money{Cents: 450},
		Type:        Expense,
		CategoryID:  &cat,
		Date:        NewDate(2025, 1, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	zero := int64(0)
	cases := []struct {
		name  string
		mut   func(*TransactionInput)
		field string
	}{
		{"empty description", func(in *TransactionInput) { in.Description = "  " }, "description"},
		{"long description", func(in *TransactionInput) { in.Description = strings.Repeat("x", 201) }, "description"},
		{"long multibyte description", func(in *TransactionInput) { in.Description = strings.Repeat("é", 201) }, "description"},
		{"zero amount", func(in *TransactionInput) { in.Amount = Money{} }, "amount"},
		{"huge amount", func(in *TransactionInput) { in.Amount = Money{Cents: MaxAmountCents + 1} }, "amount"},
		{"bad type", func(in *TransactionInput) { in.Type = "gift" }, "type"},
		{"zero date", func(in *TransactionInput) { in.Date = Date{} }, "date"},
		{"bad category", func(in *TransactionInput) { in.CategoryID = &zero }, "category_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := good
			tc.mut(&in)
			err := in.Validate()
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tc.field {
				t.Fatalf("field = %q, want %q", ve.Field, tc.field)
			}
		})
	}

	accented := good
	accented.Description = strings.Repeat("é", 200)
	if err := accented.Validate(); err != nil {
		t.Fatalf("200 characters should be accepted, got %v", err)
	}

	noCat := good
	noCat.CategoryID = nil
	if err := noCat.Validate(); err != nil {
		t.Fatalf("nil category should be accepted, got %v", err)
	}
}

func TestCategoryInputValidate(t *testing.T) {
	cases := []struct {
		in CategoryInput
		ok bool
	}{
		{CategoryInput{Name: "Food"}, true},
		{CategoryInput{Name: "Food", Color: "#fff"}, true},
		{CategoryInput{Name: "Food", Color: "#EF4444"}, true},
		{CategoryInput{Name: ""}, false},
		{CategoryInput{Name: strings.Repeat("n", 101)}, false},
		{CategoryInput{Name: strings.Repeat("ü", 100)}, true},
		{CategoryInput{Name: "Food", Color: "red"}, false},
	}
	for i, tc := range cases {
		err := tc.in.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
	if got := (CategoryInput{Name: "x"}).ColorOrDefault(); got != DefaultCategoryColor {
		t.Fatalf("default color = %q", got)
	}
}

func TestTransactionInputJSON(t *testing.T) {
	var in TransactionInput
	body := `{"description":"Salary","amount":3000.5,"type":"income","category_id":null,"date":"2024-01-31"}`
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if in.Amount.Cents != 300050 || in.CategoryID != nil || in.Date.String() != "2024-01-31" {
		t.Fatalf("unexpected decode: %+v", in)
	}

	out, err := json.Marshal(EnrichedTransaction{Transaction: Transaction{ID: 1, Amount: Money{Cents: 1250}, Type: Expense}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(out)
	for _, want := range []string{`"amount":12.5`, `"date":null`, `"category_id":null`, `"category_name":null`} {
		if !strings.Contains(s, want) {
			t.Fatalf("missing %s in %s", want, s)
		}
	}
}

func TestLedgerEventName(t *testing.T) {
	ev := NewLedgerEvent(EventCreated, EntityTransaction, 7)
	if ev.Name() != "transaction.created" {
		t.Fatalf("got %q", ev.Name())
	}
	if ev.Timestamp.IsZero() {
		t.Fatalf("timestamp not set")
	}
}
