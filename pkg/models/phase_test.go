package models

import "testing"

func TestPhase_Valid(t *testing.T) {
	tests := []struct {
		name  string
		phase Phase
		want  bool
	}{
		{"requirements_analysis is valid", PhaseRequirements, true},
		{"proposal is valid", PhaseProposal, true},
		{"implementation is valid", PhaseImplementation, true},
		{"monitoring is valid", PhaseMonitoring, true},
		{"completed is valid", PhaseCompleted, true},
		{"empty string is invalid", Phase(""), false},
		{"unknown phase is invalid", Phase("planning"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.phase.Valid(); got != tt.want {
				t.Errorf("Phase(%q).Valid() = %v, want %v", tt.phase, got, tt.want)
			}
		})
	}
}

func TestPhase_CanTransition(t *testing.T) {
	tests := []struct {
		name string
		from Phase
		to   Phase
		want bool
	}{
		{"requirements to proposal", PhaseRequirements, PhaseProposal, true},
		{"proposal to implementation", PhaseProposal, PhaseImplementation, true},
		{"implementation to monitoring", PhaseImplementation, PhaseMonitoring, true},
		{"monitoring to completed", PhaseMonitoring, PhaseCompleted, true},
		{"requirements cannot skip to implementation", PhaseRequirements, PhaseImplementation, false},
		{"proposal cannot skip to monitoring", PhaseProposal, PhaseMonitoring, false},
		{"proposal reverts to requirements", PhaseProposal, PhaseRequirements, true},
		{"implementation reverts to requirements", PhaseImplementation, PhaseRequirements, true},
		{"monitoring reverts to requirements", PhaseMonitoring, PhaseRequirements, true},
		{"requirements does not revert to itself", PhaseRequirements, PhaseRequirements, false},
		{"completed absorbs proposal", PhaseCompleted, PhaseProposal, false},
		{"completed absorbs requirements", PhaseCompleted, PhaseRequirements, false},
		{"completed absorbs completed", PhaseCompleted, PhaseCompleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.want {
				t.Errorf("Phase(%q).CanTransition(%q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestPhase_Terminal(t *testing.T) {
	if PhaseMonitoring.Terminal() {
		t.Error("monitoring should not be terminal")
	}
	if !PhaseCompleted.Terminal() {
		t.Error("completed should be terminal")
	}
}
