package eventbot

import (
	"context"
	"errors"
	"fmt"

	"github.com/campusgram/eventbot/session"
	"github.com/campusgram/eventbot/token"
)

// WithSession wraps a protected operation behind the token-lifecycle gate.
// The wrapped operation only ever runs with an access token whose embedded
// expiry is strictly in the future; an expired token triggers exactly one
// refresh attempt before the operation is retried with the new token or
// rejected. Applied by the router to every protected route, so the gating
// semantics are identical everywhere.
func (e *Engine) WithSession(op ProtectedHandler) Handler {
	return func(ctx context.Context, upd Update) (*Reply, error) {
		tokens, err := e.store.Get(ctx, upd.ChatID)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				return textReply(MenuRemove, msgStartToLogin), ErrUnauthenticated
			}
			if errors.Is(err, session.ErrCorruptRecord) {
				return textReply(MenuRemove, "Session error. Use /start to sign in again."), fmt.Errorf("%w: %v", ErrCorruptToken, err)
			}
			return textReply(MenuKeep, msgTryLater), err
		}

		expiry, err := token.ExpiresAt(tokens.Access)
		if err != nil {
			return textReply(MenuRemove, "Session error. Use /start to sign in again."), fmt.Errorf("%w: %v", ErrCorruptToken, err)
		}

		if expiry.After(e.now()) {
			return op(ctx, upd, tokens.Access)
		}

		refreshed, err := e.backend.Refresh(ctx, tokens.Refresh)
		if err != nil {
			// The stale entry stays: the next attempt retries the refresh.
			return textReply(MenuKeep, "Your session has expired. Use /start to sign in again."), fmt.Errorf("%w: %v", ErrSessionExpired, err)
		}

		next := &session.Tokens{
			Access:  refreshed.Access,
			Refresh: tokens.Refresh,
			SavedAt: e.now().Unix(),
		}
		if refreshed.Refresh != "" {
			next.Refresh = refreshed.Refresh
		}
		if err := e.store.Save(ctx, upd.ChatID, next); err != nil {
			// The fresh token is valid either way; a failed save only costs
			// another refresh on the next call.
			e.emitAudit(ctx, "session.save_failed", upd.ChatID, "", err)
		}

		return op(ctx, upd, next.Access)
	}
}
