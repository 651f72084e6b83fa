package models

import (
	"reflect"
	"testing"
)

func TestEventDetails_Missing(t *testing.T) {
	tests := []struct {
		name    string
		details EventDetails
		want    []string
	}{
		{
			"all empty",
			EventDetails{},
			[]string{DetailEventType, DetailEventDate, DetailLocation, DetailAttendeeCount, DetailBudget},
		},
		{
			"partially filled",
			EventDetails{EventType: "conference", AttendeeCount: 120},
			[]string{DetailEventDate, DetailLocation, DetailBudget},
		},
		{
			"zero attendees still missing",
			EventDetails{EventType: "offsite", EventDate: "2025-09-12", Location: "Lisbon", Budget: "20k EUR"},
			[]string{DetailAttendeeCount},
		},
		{
			"complete",
			EventDetails{EventType: "gala dinner", EventDate: "2025-11-01", Location: "Chicago", AttendeeCount: 80, Budget: "50k USD"},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.details.Missing()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Missing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEventDetails_Complete(t *testing.T) {
	incomplete := EventDetails{EventType: "conference"}
	if incomplete.Complete() {
		t.Error("partially filled details should not be complete")
	}

	complete := EventDetails{
		EventType:     "conference",
		EventDate:     "2025-10-03",
		Location:      "Berlin",
		AttendeeCount: 250,
		Budget:        "100k EUR",
	}
	if !complete.Complete() {
		t.Error("fully filled details should be complete")
	}
}

func TestEventDetails_Merge_DoesNotClobber(t *testing.T) {
	details := EventDetails{
		EventType:     "conference",
		AttendeeCount: 250,
		Notes:         map[string]string{"theme": "open source"},
	}

	details.Merge(EventDetails{
		EventType:     "workshop",
		EventDate:     "2025-10-03",
		AttendeeCount: 10,
		Notes:         map[string]string{"theme": "enterprise", "catering": "vegetarian"},
	})

	if details.EventType != "conference" {
		t.Errorf("EventType = %q, want existing value preserved", details.EventType)
	}
	if details.AttendeeCount != 250 {
		t.Errorf("AttendeeCount = %d, want existing value preserved", details.AttendeeCount)
	}
	if details.EventDate != "2025-10-03" {
		t.Errorf("EventDate = %q, want merged value", details.EventDate)
	}
	if details.Notes["theme"] != "open source" {
		t.Errorf("Notes[theme] = %q, want existing value preserved", details.Notes["theme"])
	}
	if details.Notes["catering"] != "vegetarian" {
		t.Errorf("Notes[catering] = %q, want merged value", details.Notes["catering"])
	}
}

func TestEventDetails_Merge_IgnoresBlankUpdates(t *testing.T) {
	details := EventDetails{EventType: "conference", Location: "Berlin"}
	details.Merge(EventDetails{})

	if details.EventType != "conference" || details.Location != "Berlin" {
		t.Error("merging empty details should change nothing")
	}
	if details.Notes != nil {
		t.Error("merging empty details should not allocate notes")
	}
}
