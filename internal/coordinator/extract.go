package coordinator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/festwork/gala/pkg/models"
)

// extractionPreamble asks the model for a single JSON object and nothing
// else. attendee_count is requested as a number, but real replies vary, so
// the decoder below accepts strings too.
const extractionPreamble = `Extract the event details from the conversation so far.
Return only a JSON object with exactly these keys:
  "event_type": string, the kind of event, or "" if not stated
  "event_date": string, the date or date range as the user stated it, or ""
  "location": string, the city or venue area, or ""
  "attendee_count": number, the expected attendee count, or 0 if not stated
  "budget": string, the budget as the user stated it, or ""
When the conversation revises a value, return the most recent statement.
Never guess values the user did not state.`

// extractedDetails is the raw shape of the extraction reply. AttendeeCount
// stays raw because models return it as a bare number, a quoted number, or
// a phrase like "120 people".
type extractedDetails struct {
	EventType     string          `json:"event_type"`
	EventDate     string          `json:"event_date"`
	Location      string          `json:"location"`
	AttendeeCount json.RawMessage `json:"attendee_count"`
	Budget        string          `json:"budget"`
}

// extractDetails runs the extraction call over the normalized transcript
// and returns the details it could recover. Errors are returned so the
// caller can log and continue with whatever was gathered on earlier turns.
func (c *Coordinator) extractDetails(ctx context.Context, transcript []models.Message) (models.EventDetails, error) {
	msgs := NormalizeMessages(transcript, true)

	var raw extractedDetails
	if err := c.gen.GenerateJSON(ctx, extractionPreamble, msgs, &raw); err != nil {
		return models.EventDetails{}, fmt.Errorf("extract event details: %w", err)
	}

	return models.EventDetails{
		EventType:     strings.TrimSpace(raw.EventType),
		EventDate:     strings.TrimSpace(raw.EventDate),
		Location:      strings.TrimSpace(raw.Location),
		AttendeeCount: coerceAttendeeCount(raw.AttendeeCount),
		Budget:        strings.TrimSpace(raw.Budget),
	}, nil
}

// coerceAttendeeCount turns whatever the model returned for attendee_count
// into an int. Bare numbers decode directly; strings keep their leading
// digit run ("120 people" -> 120, "50-60" -> 50). Everything else coerces
// to 0, which counts as still missing, so the user simply gets asked again.
func coerceAttendeeCount(raw json.RawMessage) int {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return 0
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return int(n)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		log.Printf("[Coordinator] coerced attendee_count %s to 0", trimmed)
		return 0
	}

	s = strings.TrimSpace(s)
	digits := leadingDigits(s)
	if digits == "" {
		log.Printf("[Coordinator] coerced attendee_count %q to 0", s)
		return 0
	}
	count, err := strconv.Atoi(digits)
	if err != nil {
		log.Printf("[Coordinator] coerced attendee_count %q to 0", s)
		return 0
	}
	if digits != s {
		log.Printf("[Coordinator] coerced attendee_count %q to %d", s, count)
	}
	return count
}

// leadingDigits returns the run of ASCII digits at the start of s.
func leadingDigits(s string) string {
	for i, r := range s {
		if r < '0' || r > '9' {
			return s[:i]
		}
	}
	return s
}
