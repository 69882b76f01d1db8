package eventbot

import (
	"strings"
	"time"

	"github.com/campusgram/eventbot/flow"
)

// Main menu labels. The front end renders them as the persistent keyboard
// and they come back verbatim as message text.
const (
	LabelCreateEvent  = "Create event"
	LabelBrowseEvents = "Browse events"
	LabelProfile      = "Profile"
	LabelLogout       = "Log out"
)

// MainMenu is the persistent keyboard shown to a signed-in chat.
func MainMenu() []Choice {
	return []Choice{
		{Label: LabelCreateEvent, Data: LabelCreateEvent},
		{Label: LabelBrowseEvents, Data: LabelBrowseEvents},
		{Label: LabelProfile, Data: LabelProfile},
		{Label: LabelLogout, Data: LabelLogout},
	}
}

// Known campus addresses. The keys are the callback data of the location
// menu; free-text venues are accepted alongside.
var locationAddresses = map[string]string{
	"location_oktyabrya":      "84 October 20th Street",
	"location_plekhanovskaya": "11 Plekhanovskaya Street",
	"location_moskovsky":      "179 Moskovsky Avenue",
}

// LocationChoices is the fixed menu of known campus addresses.
func LocationChoices() []Choice {
	return []Choice{
		{Label: "84 October 20th Street", Data: "location_oktyabrya"},
		{Label: "11 Plekhanovskaya Street", Data: "location_plekhanovskaya"},
		{Label: "179 Moskovsky Avenue", Data: "location_moskovsky"},
	}
}

func locationByChoice(data string) (string, bool) {
	address, ok := locationAddresses[data]
	return address, ok
}

// EventTypeChoices is the fixed menu of event types. Unlike venues there is
// no free-text fallback.
func EventTypeChoices() []Choice {
	choices := make([]Choice, 0, len(flow.EventTypes))
	for _, name := range flow.EventTypes {
		choices = append(choices, Choice{Label: name, Data: "type_" + name})
	}
	return choices
}

func eventTypeByChoice(data string) (string, bool) {
	name, ok := strings.CutPrefix(data, "type_")
	if !ok {
		return "", false
	}
	if _, err := flow.EventType(name); err != nil {
		return "", false
	}
	return name, true
}

// DateChoices suggests slots for today and tomorrow at 9:00, 13:00 and
// 16:00. The callback data carries the timestamp verbatim.
func DateChoices(now time.Time) []Choice {
	today := now.Format("2006-01-02")
	tomorrow := now.AddDate(0, 0, 1).Format("2006-01-02")

	var choices []Choice
	for _, hour := range []string{"09:00", "13:00", "16:00"} {
		choices = append(choices,
			Choice{Label: hour + " (today)", Data: "date_" + today + " " + hour},
			Choice{Label: hour + " (tomorrow)", Data: "date_" + tomorrow + " " + hour},
		)
	}
	return choices
}
