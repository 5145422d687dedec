package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewMoneyFromString(t *testing.T) {
	m, err := NewMoneyFromString("123.456")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if m.String() != "123.46" {
		t.Fatalf("amount want 123.46 got %s", m)
	}

	if _, err := NewMoneyFromString("not-a-number"); err == nil {
		t.Fatal("bad amount should fail")
	}
}

func TestMoneyAdd(t *testing.T) {
	total := ZeroMoney()
	if total.String() != "0.00" {
		t.Fatalf("zero money want 0.00 got %s", total)
	}

	total = total.AddMoney(NewMoneyFromDecimal(decimal.RequireFromString("10.005")))
	total = total.AddMoney(NewMoneyFromDecimal(decimal.RequireFromString("2.50")))
	if total.String() != "12.51" {
		t.Fatalf("sum want 12.51 got %s", total)
	}
}
