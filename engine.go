package eventbot

import (
	"context"
	"fmt"
	"time"

	"github.com/campusgram/eventbot/flow"
	"github.com/campusgram/eventbot/session"
)

// Shared user-facing instructions. Every error kind maps onto one of these;
// raw backend errors never reach the chat.
const (
	msgTryLater     = "Something went wrong. Try again later."
	msgStartToLogin = "Authorization required. Use /start to sign in."
)

// Engine orchestrates the token lifecycle and the conversation flows. It is
// built once via [Builder.Build] and safe for concurrent use afterward.
type Engine struct {
	config  Config
	store   *session.Store
	backend Backend
	flows   *flow.Machine
	audit   *auditDispatcher
	now     func() time.Time
}

// Close flushes and stops the audit dispatcher.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports how many audit events were dropped under backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

func (e *Engine) emitAudit(ctx context.Context, eventType string, chatID int64, updateID string, opErr error) {
	if e == nil || e.audit == nil {
		return
	}
	event := AuditEvent{
		Timestamp: e.now(),
		EventType: eventType,
		ChatID:    chatID,
		UpdateID:  updateID,
		Success:   opErr == nil,
	}
	if opErr != nil {
		event.Error = opErr.Error()
	}
	e.audit.Emit(ctx, event)
}

// Logout discards the cached session and any active conversation. Deleting
// an absent session succeeds, so logging out twice is harmless.
func (e *Engine) Logout(ctx context.Context, upd Update) (*Reply, error) {
	e.flows.Cancel(upd.ChatID)
	if err := e.store.Delete(ctx, upd.ChatID); err != nil {
		return textReply(MenuKeep, "Could not log you out. Try again later."), err
	}
	return textReply(MenuRemove, "You are logged out. Use /start to sign in again."), nil
}

// Profile shows the account behind the session.
func (e *Engine) Profile(ctx context.Context, upd Update, access string) (*Reply, error) {
	profile, err := e.backend.FetchProfile(ctx, access)
	if err != nil {
		return textReply(MenuMain, "Could not load your profile. Try again later."), fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	return textReply(MenuMain, FormatProfile(profile)), nil
}

// Events lists all events, one message per event.
func (e *Engine) Events(ctx context.Context, upd Update, access string) (*Reply, error) {
	events, err := e.backend.FetchEvents(ctx, access)
	if err != nil {
		return textReply(MenuMain, "Could not load the events. Try again later."), fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	if len(events) == 0 {
		return textReply(MenuMain, "There are no events yet."), nil
	}

	messages := make([]string, 0, len(events))
	for i := range events {
		messages = append(messages, FormatEvent(&events[i]))
	}
	return textReply(MenuMain, messages...), nil
}
