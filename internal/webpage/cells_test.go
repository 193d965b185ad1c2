package webpage

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"okcoinweb/internal/models"
)

func TestParseSide(t *testing.T) {
	tests := map[string]models.Side{
		"Bid":  models.SideBuy,
		"Ask":  models.SideSell,
		"Sell": models.SideSell,
		"":     models.SideSell,
	}
	for input, want := range tests {
		if got := parseSide(input); got != want {
			t.Errorf("parseSide(%q) = %s, want %s", input, got, want)
		}
	}
}

func TestParseDecimalCells(t *testing.T) {
	tests := []struct {
		name    string
		parse   func(string) (decimal.Decimal, error)
		input   string
		want    string
		wantErr bool
	}{
		{"yuan prefix", parsePrefixedDecimal, "¥5000.00", "5000", false},
		{"bitcoin prefix", parsePrefixedDecimal, "฿0.0125", "0.0125", false},
		{"dollar prefix", parsePrefixedDecimal, "$12", "12", false},
		{"prefix only", parsePrefixedDecimal, "¥", "", true},
		{"empty", parsePrefixedDecimal, "", "", true},
		{"grouping is not stripped", parsePrefixedDecimal, "¥1,000", "", true},
		{"grouped", parseGroupedDecimal, "¥1,234.56", "1234.56", false},
		{"grouped millions", parseGroupedDecimal, "$1,234,567.8", "1234567.8", false},
		{"grouped without commas", parseGroupedDecimal, "¥99.5", "99.5", false},
		{"grouped empty", parseGroupedDecimal, "", "", true},
		{"percent", parsePercent, "12.3%", "12.3", false},
		{"percent integer", parsePercent, "5%", "5", false},
		{"percent sign only", parsePercent, "%", "", true},
		{"percent empty", parsePercent, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q, got %s", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", tt.input, err)
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("parse(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseOrderID(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr error
	}{
		{"continuous_98765", 98765, nil},
		{"continuous_0", 0, nil},
		{"bad_id", 0, errNoIDPrefix},
		{"", 0, errNoIDPrefix},
		{"continuous_", 0, errNonNumeric},
		{"continuous_-5", 0, errNonNumeric},
		{"continuous_12a", 0, errNonNumeric},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseOrderID(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("parseOrderID(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseOrderID(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("parseOrderID(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestColumnString(t *testing.T) {
	if colProtectedPrice.String() != "protected_price" {
		t.Errorf("colProtectedPrice = %q", colProtectedPrice.String())
	}
	if columnCount != 8 {
		t.Errorf("columnCount = %d, want 8", columnCount)
	}
	if column(42).String() != "unknown" {
		t.Errorf("out of range column = %q", column(42).String())
	}
}
