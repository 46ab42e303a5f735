package derive

import "testing"

func TestTier(t *testing.T) {
	tests := []struct {
		proficiency int
		want        string
	}{
		{0, TierBeginner},
		{39, TierBeginner},
		{40, TierIntermediate},
		{59, TierIntermediate},
		{60, TierAdvanced},
		{74, TierAdvanced},
		{75, TierExpert},
		{89, TierExpert},
		{90, TierMaster},
		{100, TierMaster},
	}
	for _, tt := range tests {
		if got := Tier(tt.proficiency); got != tt.want {
			t.Errorf("Tier(%d) = %q, want %q", tt.proficiency, got, tt.want)
		}
	}
}

func TestProficiencyLabel(t *testing.T) {
	tests := []struct {
		name        string
		proficiency int
		show        bool
		want        string
	}{
		{"percentage", 85, true, "85%"},
		{"tier", 85, false, TierExpert},
		{"clamped high", 140, true, "100%"},
		{"clamped low", -3, true, "0%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProficiencyLabel(tt.proficiency, tt.show); got != tt.want {
				t.Errorf("ProficiencyLabel(%d, %v) = %q, want %q", tt.proficiency, tt.show, got, tt.want)
			}
		})
	}
}
