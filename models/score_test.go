package models

import "testing"

func TestClampScore(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{-10, 0},
		{0, 0},
		{57, 57},
		{100, 100},
		{140, 100},
	}
	for _, tt := range tests {
		if got := ClampScore(tt.in); got != tt.want {
			t.Errorf("ClampScore(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
