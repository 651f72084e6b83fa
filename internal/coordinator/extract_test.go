package coordinator

import (
	"encoding/json"
	"testing"
)

func TestCoerceAttendeeCount(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{name: "bare integer", raw: `120`, want: 120},
		{name: "bare float truncates", raw: `120.7`, want: 120},
		{name: "quoted integer", raw: `"120"`, want: 120},
		{name: "digit prefixed phrase", raw: `"120 people"`, want: 120},
		{name: "range keeps lower bound", raw: `"50-60"`, want: 50},
		{name: "padded string", raw: `"  80  "`, want: 80},
		{name: "words coerce to zero", raw: `"about fifty"`, want: 0},
		{name: "null coerces to zero", raw: `null`, want: 0},
		{name: "empty coerces to zero", raw: ``, want: 0},
		{name: "object coerces to zero", raw: `{"count": 4}`, want: 0},
		{name: "zero stays zero", raw: `0`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := coerceAttendeeCount(json.RawMessage(tt.raw)); got != tt.want {
				t.Errorf("coerceAttendeeCount(%s) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestLeadingDigits(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "120 people", want: "120"},
		{in: "50-60", want: "50"},
		{in: "120", want: "120"},
		{in: "people", want: ""},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		if got := leadingDigits(tt.in); got != tt.want {
			t.Errorf("leadingDigits(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
