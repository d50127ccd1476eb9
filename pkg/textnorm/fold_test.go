package textnorm

import "testing"

func TestFold(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"ascii", "Confidential", "CONFIDENTIAL", true},
		{"greek final sigma", "ΟΔΟΣ", "οδος", true},
		{"accented", "ÉTÉ", "été", true},
		{"decomposed accent", "été", "été", true},
		{"different", "draft", "drafts", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EqualFold(tt.a, tt.b); got != tt.want {
				t.Errorf("EqualFold(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestContainsFold(t *testing.T) {
	if !ContainsFold("Company CONFIDENTIAL report", "confidential") {
		t.Error("expected case-insensitive substring match")
	}
	if ContainsFold("Company report", "confidential") {
		t.Error("unexpected match")
	}
	if Fold("") != "" {
		t.Error("Fold of empty string should be empty")
	}
}
