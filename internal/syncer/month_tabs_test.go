package syncer

import "testing"

func TestIsMonthTab(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Dec-24", true},
		{"Dec 24", true},
		{"dec-24", true},
		{"December 2024", true},
		{"Jan 2025", true},
		{"Jan '25", true},
		{"May 2025", true},
		{"Sept 2024", true},

		{"Sync Log", false},
		{"Summary", false},
		{"Dashboard", false},
		{"2024", false},
		{"Goals Dec", false},
		{"Template", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMonthTab(tt.name); got != tt.want {
				t.Errorf("IsMonthTab(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}
