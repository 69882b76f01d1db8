package eventbot

import (
	"fmt"
	"strings"
	"time"

	"github.com/campusgram/eventbot/flow"
)

// FormatProfile renders the account record as plain text. Markup is the
// transport's concern; only content is produced here.
func FormatProfile(p *Profile) string {
	lines := []string{
		"Your profile",
		"Login: " + p.Username,
		"Email: " + p.Email,
		"First name: " + orUnset(p.FirstName),
		"Last name: " + orUnset(p.LastName),
		"Role: " + orUnset(p.Role),
	}
	return strings.Join(lines, "\n")
}

// FormatEvent renders one event record as plain text.
func FormatEvent(ev *EventRecord) string {
	group := "not set"
	if ev.Group != nil {
		group = ev.Group.Name
	}

	attendees := "none yet"
	if ev.Attendees > 0 {
		attendees = fmt.Sprintf("%d", ev.Attendees)
	}

	lines := []string{
		orDefault(ev.Title, "Untitled"),
		"Date: " + formatEventDate(ev.EventDate),
		"Group: " + group,
		"Organizer: " + ev.Author.Username,
		"Description: " + orDefault(ev.Description, "no description"),
		"Attendees: " + attendees,
		"Type: " + orDefault(ev.Type, "not set"),
	}
	return strings.Join(lines, "\n")
}

// formatEventDate accepts both the backend's RFC 3339 timestamps and the
// flow's own layout; anything else reads as unset.
func formatEventDate(raw string) string {
	for _, layout := range []string{time.RFC3339, flow.DateLayout} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.Format("02.01.2006 at 15:04")
		}
	}
	return "not set"
}

func orUnset(s string) string {
	return orDefault(s, "not set")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
