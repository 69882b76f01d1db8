package eventbot

import (
	"context"
	"errors"
	"fmt"

	"github.com/campusgram/eventbot/flow"
	"github.com/campusgram/eventbot/session"
)

// Start handles /start. A chat with a cached session is short-circuited to
// the main menu; otherwise the login flow begins.
func (e *Engine) Start(ctx context.Context, upd Update) (*Reply, error) {
	_, err := e.store.Get(ctx, upd.ChatID)
	switch {
	case err == nil:
		e.flows.Cancel(upd.ChatID)
		return textReply(MenuMain, "You are already signed in. Pick an option from the menu."), nil
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrCorruptRecord):
		// Fall through to a fresh login.
	default:
		return textReply(MenuKeep, msgTryLater), err
	}

	e.flows.Begin(upd.ChatID, flow.FlowLogin, flow.StepUsername)
	return textReply(MenuRemove, "Enter your university account username:"), nil
}

// loginInput feeds free text into the active login flow.
func (e *Engine) loginInput(ctx context.Context, upd Update) (*Reply, error) {
	_, step, ok := e.flows.Current(upd.ChatID)
	if !ok {
		return nil, nil
	}

	switch step {
	case flow.StepUsername:
		return e.loginUsername(upd)
	case flow.StepPassword:
		return e.loginPassword(ctx, upd)
	default:
		return nil, nil
	}
}

func (e *Engine) loginUsername(upd Update) (*Reply, error) {
	username, err := flow.Text(upd.Text)
	if err != nil {
		return textReply(MenuKeep, "The username cannot be empty. Enter your username:"), fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	e.flows.Advance(upd.ChatID, flow.FieldUsername, username, flow.StepPassword)
	return textReply(MenuKeep, "Now enter your password:"), nil
}

// loginPassword is the terminal login step: authenticate, cache the pair,
// link the chat. The flow is discarded on every outcome.
func (e *Engine) loginPassword(ctx context.Context, upd Update) (*Reply, error) {
	username := e.flows.Fields(upd.ChatID)[flow.FieldUsername]
	e.flows.Cancel(upd.ChatID)

	pair, err := e.backend.Authenticate(ctx, username, upd.Text)
	if err != nil {
		return textReply(MenuKeep, "Authentication failed. Check your credentials and /start again."), fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}

	tokens := &session.Tokens{
		Access:  pair.Access,
		Refresh: pair.Refresh,
		SavedAt: e.now().Unix(),
	}
	if err := e.store.Save(ctx, upd.ChatID, tokens); err != nil {
		return textReply(MenuKeep, "Could not save your session. Use /start to try again."), err
	}

	if err := e.backend.LinkChat(ctx, pair.Access, upd.ChatID); err != nil {
		// A token entry must not outlive a failed linkage; drop it so the
		// retry starts clean.
		_ = e.store.Delete(ctx, upd.ChatID)
		return textReply(MenuKeep, "Could not link your account. Use /start to try again."), fmt.Errorf("%w: %v", ErrLinkFailed, err)
	}

	return textReply(MenuMain, "Signed in successfully. Pick an option from the menu."), nil
}
