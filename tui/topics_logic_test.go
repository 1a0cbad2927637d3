package tui

import "testing"

// ============================================================
// CyclePage
// ============================================================

func TestCyclePage(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		page  int
		delta int
		n     int
		want  int
	}{
		{"forward", 0, 1, 4, 1},
		{"backward", 2, -1, 4, 1},
		{"wrap forward", 3, 1, 4, 0},
		{"wrap backward", 0, -1, 4, 3},
		{"no pages", 0, 1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := CyclePage(tt.page, tt.delta, tt.n); got != tt.want {
				t.Errorf("CyclePage(%d, %d, %d) = %d, want %d", tt.page, tt.delta, tt.n, got, tt.want)
			}
		})
	}
}

// ============================================================
// ClampCursor
// ============================================================

func TestClampCursor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		cursor int
		n      int
		want   int
	}{
		{"inside", 2, 5, 2},
		{"below zero", -1, 5, 0},
		{"past end", 5, 5, 4},
		{"empty list", 3, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ClampCursor(tt.cursor, tt.n); got != tt.want {
				t.Errorf("ClampCursor(%d, %d) = %d, want %d", tt.cursor, tt.n, got, tt.want)
			}
		})
	}
}
