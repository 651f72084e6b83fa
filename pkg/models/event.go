package models

// EventDetails holds the semantic attributes of the event being planned.
// Every field is optional until the user supplies it; Missing reports which
// required attributes are still absent.
type EventDetails struct {
	// EventType is the kind of event (conference, offsite, gala dinner).
	EventType string `json:"event_type,omitempty"`
	// EventDate is the target date or date range, as the user stated it.
	EventDate string `json:"event_date,omitempty"`
	// Location is the city or venue area for the event.
	Location string `json:"location,omitempty"`
	// AttendeeCount is the expected number of attendees. Zero means unknown.
	AttendeeCount int `json:"attendee_count,omitempty"`
	// Budget is the stated budget, as the user stated it.
	Budget string `json:"budget,omitempty"`
	// Notes holds additional attributes the extractor picked up.
	Notes map[string]string `json:"notes,omitempty"`
}

// Required attribute names, in prompt order.
const (
	DetailEventType     = "event_type"
	DetailEventDate     = "event_date"
	DetailLocation      = "location"
	DetailAttendeeCount = "attendee_count"
	DetailBudget        = "budget"
)

// Missing returns the required attributes that have not been filled yet.
func (d EventDetails) Missing() []string {
	var missing []string
	if d.EventType == "" {
		missing = append(missing, DetailEventType)
	}
	if d.EventDate == "" {
		missing = append(missing, DetailEventDate)
	}
	if d.Location == "" {
		missing = append(missing, DetailLocation)
	}
	if d.AttendeeCount <= 0 {
		missing = append(missing, DetailAttendeeCount)
	}
	if d.Budget == "" {
		missing = append(missing, DetailBudget)
	}
	return missing
}

// Complete returns true when every required attribute is filled.
func (d EventDetails) Complete() bool {
	return len(d.Missing()) == 0
}

// Merge folds newly extracted values into d without clobbering values the
// user already confirmed. Only blank fields are overwritten; notes are
// merged key by key with existing keys preserved.
func (d *EventDetails) Merge(update EventDetails) {
	if d.EventType == "" && update.EventType != "" {
		d.EventType = update.EventType
	}
	if d.EventDate == "" && update.EventDate != "" {
		d.EventDate = update.EventDate
	}
	if d.Location == "" && update.Location != "" {
		d.Location = update.Location
	}
	if d.AttendeeCount <= 0 && update.AttendeeCount > 0 {
		d.AttendeeCount = update.AttendeeCount
	}
	if d.Budget == "" && update.Budget != "" {
		d.Budget = update.Budget
	}
	for k, v := range update.Notes {
		if v == "" {
			continue
		}
		if d.Notes == nil {
			d.Notes = make(map[string]string)
		}
		if _, ok := d.Notes[k]; !ok {
			d.Notes[k] = v
		}
	}
}

// ResourcePlan is the structured plan assembled from completed agent results.
type ResourcePlan struct {
	// Venue summarizes venue and equipment findings.
	Venue string `json:"venue,omitempty"`
	// BudgetBreakdown summarizes the cost allocation.
	BudgetBreakdown string `json:"budget_breakdown,omitempty"`
	// Staffing summarizes staffing and vendor needs.
	Staffing string `json:"staffing,omitempty"`
	// Timeline summarizes the delivery schedule.
	Timeline string `json:"timeline,omitempty"`
}
