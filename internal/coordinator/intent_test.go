package coordinator

import "testing"

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Intent
	}{
		{
			name: "approval with keyword and subject",
			text: "I approve the proposal, let's go",
			want: IntentApprove,
		},
		{
			name: "approval keyword without subject",
			text: "I approve of this direction",
			want: IntentNone,
		},
		{
			name: "subject without approval keyword",
			text: "I like the proposal",
			want: IntentNone,
		},
		{
			name: "approval is case insensitive",
			text: "APPROVE THE PROPOSAL",
			want: IntentApprove,
		},
		{
			name: "looks good counts as approval",
			text: "the proposal looks good to me",
			want: IntentApprove,
		},
		{
			name: "sign off counts as approval",
			text: "happy to sign off on the proposal",
			want: IntentApprove,
		},
		{
			name: "rejection with subject",
			text: "I reject the proposal",
			want: IntentReject,
		},
		{
			name: "dislike counts as rejection",
			text: "I don't like the proposal at all",
			want: IntentReject,
		},
		{
			name: "rejection wins over approval in the same message",
			text: "I reject the proposal, I can't approve it",
			want: IntentReject,
		},
		{
			name: "revision of requirements",
			text: "let's change the requirements",
			want: IntentRevise,
		},
		{
			name: "start over with details",
			text: "I want to start over with the event details",
			want: IntentRevise,
		},
		{
			name: "revision keyword without subject",
			text: "let's change the venue",
			want: IntentNone,
		},
		{
			name: "closure of planning",
			text: "please close the event planning",
			want: IntentClose,
		},
		{
			name: "wrap up the event",
			text: "time to wrap up the event",
			want: IntentClose,
		},
		{
			name: "closure keyword without subject",
			text: "close the tab",
			want: IntentNone,
		},
		{
			name: "plain message",
			text: "we expect about 120 people",
			want: IntentNone,
		},
		{
			name: "empty message",
			text: "",
			want: IntentNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyIntent(tt.text); got != tt.want {
				t.Errorf("ClassifyIntent(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
