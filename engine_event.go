package eventbot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/campusgram/eventbot/flow"
)

// BeginEventCreation is the privileged entry of the event-creation flow.
// The backend-reported role must match the configured privileged role or
// the flow never starts.
func (e *Engine) BeginEventCreation(ctx context.Context, upd Update, access string) (*Reply, error) {
	role, err := e.backend.FetchRole(ctx, access, upd.ChatID)
	if err != nil {
		return textReply(MenuMain, msgTryLater), fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	if role != e.config.Flows.PrivilegedRole {
		return textReply(MenuMain, "Only a teacher can create events."), ErrAuthorizationDenied
	}

	e.flows.Begin(upd.ChatID, flow.FlowEventCreate, flow.StepTitle)
	return textReply(MenuKeep, "Creating an event. Enter the title:"), nil
}

// eventInput feeds free text into the active event-creation flow.
func (e *Engine) eventInput(ctx context.Context, upd Update, access string) (*Reply, error) {
	_, step, ok := e.flows.Current(upd.ChatID)
	if !ok {
		return nil, nil
	}

	switch step {
	case flow.StepTitle:
		return e.eventTitle(upd)
	case flow.StepLocation:
		return e.eventLocationText(upd)
	case flow.StepType:
		// Type input is menu-only; free text never matches.
		return choiceReply(EventTypeChoices(), "Pick the event type from the menu:"), ErrValidationFailed
	case flow.StepGroup:
		return e.eventGroup(upd)
	case flow.StepDate:
		return e.eventDateText(ctx, upd, access)
	default:
		return nil, nil
	}
}

// eventChoice feeds a menu selection into the active event-creation flow.
// Selections that do not match the awaited step are ignored rather than
// advancing state.
func (e *Engine) eventChoice(ctx context.Context, upd Update, access string) (*Reply, error) {
	f, step, ok := e.flows.Current(upd.ChatID)
	if !ok || f != flow.FlowEventCreate {
		return nil, nil
	}

	switch {
	case step == flow.StepLocation && strings.HasPrefix(upd.Choice, "location_"):
		return e.eventLocationChoice(upd)
	case step == flow.StepType && strings.HasPrefix(upd.Choice, "type_"):
		return e.eventType(ctx, upd, access)
	case step == flow.StepDate && strings.HasPrefix(upd.Choice, "date_"):
		return e.eventDateChoice(ctx, upd, access)
	default:
		return nil, nil
	}
}

func (e *Engine) eventTitle(upd Update) (*Reply, error) {
	title, err := flow.Text(upd.Text)
	if err != nil {
		return textReply(MenuKeep, "The title cannot be empty. Enter the title:"), fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	e.flows.Advance(upd.ChatID, flow.FieldTitle, title, flow.StepLocation)
	return choiceReply(LocationChoices(), "Enter the venue or pick one from the list:"), nil
}

func (e *Engine) eventLocationText(upd Update) (*Reply, error) {
	// Commands are ignored while a venue is awaited.
	if strings.HasPrefix(upd.Text, "/") {
		return nil, nil
	}
	location, err := flow.Text(upd.Text)
	if err != nil {
		return choiceReply(LocationChoices(), "Enter the venue or pick one from the list:"), fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	return e.advanceLocation(upd.ChatID, location), nil
}

func (e *Engine) eventLocationChoice(upd Update) (*Reply, error) {
	location, ok := locationByChoice(upd.Choice)
	if !ok {
		return choiceReply(LocationChoices(), "Enter the venue or pick one from the list:"), ErrValidationFailed
	}
	return e.advanceLocation(upd.ChatID, location), nil
}

func (e *Engine) advanceLocation(chatID int64, location string) *Reply {
	e.flows.Advance(chatID, flow.FieldLocation, location, flow.StepType)
	return choiceReply(EventTypeChoices(), "Venue: "+location, "Pick the event type:")
}

// eventType resolves the selected type and renders the group list fetched
// from the backend. A failed fetch cancels the whole flow.
func (e *Engine) eventType(ctx context.Context, upd Update, access string) (*Reply, error) {
	name, ok := eventTypeByChoice(upd.Choice)
	if !ok {
		return choiceReply(EventTypeChoices(), "Pick the event type from the menu:"), ErrValidationFailed
	}

	groups, err := e.backend.FetchGroups(ctx, access)
	if err != nil {
		e.flows.Cancel(upd.ChatID)
		return textReply(MenuMain, "Could not load the group list. Try again later."), fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}

	e.flows.Advance(upd.ChatID, flow.FieldType, name, flow.StepGroup)

	var sb strings.Builder
	sb.WriteString("Event type: " + name + "\n\nAvailable groups:\n")
	for _, g := range groups {
		fmt.Fprintf(&sb, "ID %d | %s\n", g.ID, g.Name)
	}
	sb.WriteString("\nEnter the ID of the target group:")
	return textReply(MenuKeep, sb.String()), nil
}

func (e *Engine) eventGroup(upd Update) (*Reply, error) {
	id, err := flow.GroupID(upd.Text)
	if err != nil {
		return textReply(MenuKeep, "Enter a valid numeric group ID:"), fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	e.flows.Advance(upd.ChatID, flow.FieldGroup, strconv.Itoa(id), flow.StepDate)
	return choiceReply(DateChoices(e.now()),
		"Pick a time for the event or enter one manually.",
		"Format: "+flow.DateLayout+" (for example: 2025-06-19 14:30)"), nil
}

func (e *Engine) eventDateText(ctx context.Context, upd Update, access string) (*Reply, error) {
	date, err := flow.EventDate(upd.Text, e.now())
	if err != nil {
		if errors.Is(err, flow.ErrPastDate) {
			return choiceReply(DateChoices(e.now()),
				"The date cannot be in the past. Enter a future date:"), fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
		return choiceReply(DateChoices(e.now()),
			"Invalid format or impossible date.",
			"Enter the date as "+flow.DateLayout+" (for example: 2025-06-19 14:30) or pick one from the list:"), fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	return e.submitEvent(ctx, upd, access, date)
}

func (e *Engine) eventDateChoice(ctx context.Context, upd Update, access string) (*Reply, error) {
	date, ok := strings.CutPrefix(upd.Choice, "date_")
	if !ok || date == "" {
		return choiceReply(DateChoices(e.now()), "Pick a time for the event:"), ErrValidationFailed
	}
	// Menu timestamps were generated for the future at render time and are
	// not re-checked against the clock.
	return e.submitEvent(ctx, upd, access, date)
}

// submitEvent is the terminal step: assemble the draft, submit it, and
// discard the conversation state regardless of the remote outcome.
func (e *Engine) submitEvent(ctx context.Context, upd Update, access, date string) (*Reply, error) {
	fields := e.flows.Fields(upd.ChatID)
	e.flows.Cancel(upd.ChatID)

	groupID, _ := strconv.Atoi(fields[flow.FieldGroup])
	draft := EventDraft{
		Title:         fields[flow.FieldTitle],
		Location:      fields[flow.FieldLocation],
		Type:          fields[flow.FieldType],
		GroupID:       groupID,
		EventDate:     date,
		CreatorChatID: upd.ChatID,
	}

	if err := e.backend.CreateEvent(ctx, access, draft); err != nil {
		return textReply(MenuMain, "Something went wrong while creating the event."), fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}

	return textReply(MenuMain,
		"Event created: "+draft.Title+" on "+date+".",
		"On the site you can refine it: add a description, upload materials, adjust the details."), nil
}
