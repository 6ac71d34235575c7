package utils

import "testing"

func TestValidPhone(t *testing.T) {
	cases := []struct {
		in    string
		valid bool
	}{
		{"0501234567", true},
		{"050-123-4567", true},
		{"050-1234567", true},
		{"+972501234567", true},
		{"972501234567", true},
		{"501234567", true},
		{" 054 765 4321 ", true},
		{"0401234567", false},
		{"050123456", false},
		{"05012345678", false},
		{"03-1234567", false},
		{"abc", false},
		{"", false},
		{"+1 555 123 4567", false},
	}

	for _, tt := range cases {
		if got := ValidPhone(tt.in); got != tt.valid {
			t.Fatalf("ValidPhone(%q)=%v, want %v", tt.in, got, tt.valid)
		}
	}
}

func TestChunk(t *testing.T) {
	rows := Chunk([]int{1, 2, 3, 4, 5}, 2)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if len(rows[2]) != 1 || rows[2][0] != 5 {
		t.Fatalf("unexpected last row %v", rows[2])
	}
	if Chunk([]int{}, 3) != nil {
		t.Fatalf("expected nil for empty input")
	}
}
