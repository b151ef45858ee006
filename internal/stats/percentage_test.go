package stats

import "testing"

func TestPercentage(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		previous float64
		want     float64
	}{
		{"growth", 150, 100, 50},
		{"decline", 50, 100, -50},
		{"flat", 100, 100, 0},
		{"zero previous scales current", 5, 0, 500},
		{"both zero", 0, 0, 0},
		{"drop to zero", 0, 100, -100},
		{"rounds to two decimals", 1, 3, -66.67},
		{"fractional growth", 110.5, 100, 10.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentage(tt.current, tt.previous)
			if got != tt.want {
				t.Errorf("Percentage(%v, %v) = %v, want %v", tt.current, tt.previous, got, tt.want)
			}
		})
	}
}
