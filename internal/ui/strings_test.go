package ui

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		limit int
		want  string
	}{
		{"  Red Lipstick  ", 0, "Red Lipstick"},
		{"Red Lipstick", 20, "Red Lipstick"},
		{"Red Lipstick", 8, "Red L..."},
		{"Red Lipstick", 3, "Red"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.limit); got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
		}
	}
}

func TestTruncateMiddle(t *testing.T) {
	if got := truncateMiddle("  ", 10); got != "" {
		t.Fatalf("truncateMiddle blank = %q, want empty", got)
	}
	if got := truncateMiddle("abcd", 2); got != "ab" {
		t.Fatalf("truncateMiddle limit<=3 = %q, want ab", got)
	}
	if got := truncateMiddle("abcdefghij", 5); got != "ab…ij" {
		t.Fatalf("truncateMiddle plain = %q, want ab…ij", got)
	}

	url := "https://cdn.example.com/products/images/beauty/1/1.png"
	got := truncateMiddle(url, 30)
	if utf8.RuneCountInString(got) != 30 {
		t.Fatalf("truncateMiddle(url) = %q, want 30 runes", got)
	}
	if !strings.HasSuffix(got, ".png") || !strings.Contains(got, "…") {
		t.Fatalf("truncateMiddle(url) = %q, want extension kept", got)
	}
}

func TestPadding(t *testing.T) {
	if got := padRight("ab", 4); got != "ab  " {
		t.Fatalf("padRight = %q", got)
	}
	if got := padLeft("ab", 4); got != "  ab" {
		t.Fatalf("padLeft = %q", got)
	}
	if got := padLeft("abcdef", 4); got != "abcdef" {
		t.Fatalf("padLeft overflow = %q", got)
	}
}

func TestFormatting(t *testing.T) {
	if got := formatPrice(9.5); got != "$9.50" {
		t.Fatalf("formatPrice = %q", got)
	}
	if got := formatRating(4.94); got != "★ 4.9" {
		t.Fatalf("formatRating = %q", got)
	}
	for stock, want := range map[int]string{0: "Out of stock", 3: "Low stock (3)", 42: "In stock (42)"} {
		if got := stockLabel(stock); got != want {
			t.Fatalf("stockLabel(%d) = %q, want %q", stock, got, want)
		}
	}
	if got := orDash(" "); got != "-" {
		t.Fatalf("orDash = %q", got)
	}
}
