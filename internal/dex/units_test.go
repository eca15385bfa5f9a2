package dex

import (
	"math/big"
	"testing"
)

func TestFormatUnits(t *testing.T) {
	cases := []struct {
		value    *big.Int
		decimals uint8
		want     string
	}{
		{big.NewInt(1_500_000), 6, "1.500000"},
		{expandDecimal(2500, 18), 18, "2500.000000000000000000"},
		{big.NewInt(1), 18, "0.000000000000000001"},
		{big.NewInt(-42), 2, "-0.42"},
		{big.NewInt(7), 0, "7"},
		{nil, 18, "0"},
	}
	for _, tc := range cases {
		if got := FormatUnits(tc.value, tc.decimals); got != tc.want {
			t.Errorf("FormatUnits(%v, %d) = %q, want %q", tc.value, tc.decimals, got, tc.want)
		}
	}
}

func TestParseUnits(t *testing.T) {
	cases := []struct {
		amount   string
		decimals uint8
		want     string
	}{
		{"1", 18, expandDecimal(1, 18).String()},
		{"0.5", 6, "500000"},
		{" 2500 ", 6, "2500000000"},
		{"0.0000000000000000019", 18, "1"}, // sub-unit tail truncates
		{"-3", 18, new(big.Int).Neg(expandDecimal(3, 18)).String()},
	}
	for _, tc := range cases {
		got, err := ParseUnits(tc.amount, tc.decimals)
		if err != nil {
			t.Errorf("ParseUnits(%q, %d): %v", tc.amount, tc.decimals, err)
			continue
		}
		if got.String() != tc.want {
			t.Errorf("ParseUnits(%q, %d) = %s, want %s", tc.amount, tc.decimals, got, tc.want)
		}
	}
}

func TestParseUnitsMalformed(t *testing.T) {
	for _, amount := range []string{"", "abc", "1.2.3", "1e"} {
		if _, err := ParseUnits(amount, 18); err == nil {
			t.Errorf("ParseUnits(%q) accepted malformed input", amount)
		}
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, text := range []string{"1", "0.000001", "123456.789", "2500"} {
		parsed, err := ParseUnits(text, 18)
		if err != nil {
			t.Fatalf("parse %q: %v", text, err)
		}
		back, err := ParseUnits(FormatUnits(parsed, 18), 18)
		if err != nil {
			t.Fatalf("reparse %q: %v", text, err)
		}
		if parsed.Cmp(back) != 0 {
			t.Errorf("round trip %q: %s != %s", text, parsed, back)
		}
	}
}
