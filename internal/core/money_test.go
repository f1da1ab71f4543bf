package core

import "testing"

func TestParseAmount_Valid(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"0.01", 1},
		{"1", 100},
		{"50", 5000},
		{"50.00", 5000},
		{"1950.5", 195050},
		{"2000.00", 200000},
		{"  12.34  ", 1234},
		{".99", 99},
		{"+3.10", 310},
		{"-5", -500},
	}

	for _, tc := range tests {
		got, err := ParseAmount(tc.in)
		if err != nil {
			t.Errorf("ParseAmount(%q) error = %v, want nil", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseAmount(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"abc",
		"12,34",
		"1.234",   // more than two decimal places
		"1.2.3",
		".",
		"-",
		"1e3",
	}

	for _, in := range tests {
		if _, err := ParseAmount(in); err == nil {
			t.Errorf("ParseAmount(%q) error = nil, want error", in)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0.00"},
		{1, "0.01"},
		{5000, "50.00"},
		{195000, "1950.00"},
		{195050, "1950.50"},
		{-1, "-0.01"},
		{-195000, "-1950.00"},
	}

	for _, tc := range tests {
		if got := FormatAmount(tc.in); got != tc.want {
			t.Errorf("FormatAmount(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestAmountRoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 1, 99, 100, 123456, 999999999} {
		parsed, err := ParseAmount(FormatAmount(cents))
		if err != nil {
			t.Fatalf("round trip %d: %v", cents, err)
		}
		if parsed != cents {
			t.Errorf("round trip %d -> %q -> %d", cents, FormatAmount(cents), parsed)
		}
	}
}
