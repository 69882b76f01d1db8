package flow

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the only free-text date format the event flow accepts.
const DateLayout = "2006-01-02 15:04"

var (
	ErrEmptyText   = errors.New("empty text")
	ErrUnknownType = errors.New("unknown event type")
	ErrBadGroupID  = errors.New("group id must be an integer")
	ErrBadDate     = errors.New("date does not match the expected format")
	ErrPastDate    = errors.New("date is not in the future")
)

// EventTypes is the fixed set of accepted event types. Type input is
// menu-only; free text is never matched against this set.
var EventTypes = []string{"conference", "contest", "excursion", "seminar"}

// Text accepts any non-empty free text verbatim, trimmed.
func Text(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrEmptyText
	}
	return input, nil
}

// EventType accepts only one of the enumerated event types.
func EventType(input string) (string, error) {
	for _, t := range EventTypes {
		if input == t {
			return t, nil
		}
	}
	return "", ErrUnknownType
}

// GroupID parses free text as an integer group ID. The set of valid IDs is
// informational only; any integer is accepted and the backend stays the
// authority on whether the group exists.
func GroupID(input string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, ErrBadGroupID
	}
	return id, nil
}

// EventDate validates free-text date input: it must parse with [DateLayout]
// and lie strictly after now. The canonical string is returned.
func EventDate(input string, now time.Time) (string, error) {
	input = strings.TrimSpace(input)
	parsed, err := time.ParseInLocation(DateLayout, input, now.Location())
	if err != nil {
		return "", ErrBadDate
	}
	if !parsed.After(now) {
		return "", ErrPastDate
	}
	return input, nil
}
