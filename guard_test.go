package eventbot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgram/eventbot/session"
)

func seedSession(t *testing.T, e *Engine, chatID int64, access, refresh string) {
	t.Helper()
	require.NoError(t, e.store.Save(context.Background(), chatID, &session.Tokens{
		Access:  access,
		Refresh: refresh,
		SavedAt: testNow.Unix(),
	}))
}

// recordingOp counts invocations and remembers the token it ran with.
type recordingOp struct {
	calls  int
	access string
}

func (r *recordingOp) handle(_ context.Context, _ Update, access string) (*Reply, error) {
	r.calls++
	r.access = access
	return textReply(MenuMain, "ok"), nil
}

func TestGuardNoSession(t *testing.T) {
	engine, backend, _ := newTestEngine(t)
	op := &recordingOp{}

	reply, err := engine.WithSession(op.handle)(context.Background(), Update{ChatID: 1})
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, 0, op.calls)
	assert.Equal(t, 0, backend.refreshCalls)
	require.NotNil(t, reply)
	assert.Equal(t, MenuRemove, reply.Menu)
}

func TestGuardLiveTokenPassesThrough(t *testing.T) {
	engine, backend, _ := newTestEngine(t)
	access := makeAccessToken(t, testNow.Add(10*time.Minute))
	seedSession(t, engine, 1, access, "refresh-1")
	op := &recordingOp{}

	reply, err := engine.WithSession(op.handle)(context.Background(), Update{ChatID: 1})
	require.NoError(t, err)
	require.NotNil(t, reply)
	assert.Equal(t, 1, op.calls)
	assert.Equal(t, access, op.access)
	assert.Equal(t, 0, backend.refreshCalls, "a live token must not trigger a refresh")
}

func TestGuardRefreshesExpiredToken(t *testing.T) {
	engine, backend, _ := newTestEngine(t)
	stale := makeAccessToken(t, testNow.Add(-time.Minute))
	fresh := makeAccessToken(t, testNow.Add(time.Hour))
	backend.refreshPair = TokenPair{Access: fresh}
	seedSession(t, engine, 1, stale, "refresh-1")
	op := &recordingOp{}

	_, err := engine.WithSession(op.handle)(context.Background(), Update{ChatID: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, op.calls)
	assert.Equal(t, fresh, op.access, "the operation must see the refreshed token")
	assert.Equal(t, 1, backend.refreshCalls)
	assert.Equal(t, "refresh-1", backend.lastRefreshToken)

	stored, err := engine.store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, fresh, stored.Access)
	assert.Equal(t, "refresh-1", stored.Refresh, "the original refresh token is kept when the backend issues none")
}

func TestGuardRotatesRefreshToken(t *testing.T) {
	engine, backend, _ := newTestEngine(t)
	fresh := makeAccessToken(t, testNow.Add(time.Hour))
	backend.refreshPair = TokenPair{Access: fresh, Refresh: "refresh-2"}
	seedSession(t, engine, 1, makeAccessToken(t, testNow.Add(-time.Minute)), "refresh-1")

	_, err := engine.WithSession((&recordingOp{}).handle)(context.Background(), Update{ChatID: 1})
	require.NoError(t, err)

	stored, err := engine.store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "refresh-2", stored.Refresh)
}

func TestGuardMissingExpiryClaimRefreshes(t *testing.T) {
	engine, backend, _ := newTestEngine(t)
	backend.refreshPair = TokenPair{Access: makeAccessToken(t, testNow.Add(time.Hour))}
	seedSession(t, engine, 1, makeTokenWithoutExpiry(t), "refresh-1")
	op := &recordingOp{}

	_, err := engine.WithSession(op.handle)(context.Background(), Update{ChatID: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, backend.refreshCalls, "a token without an expiry claim counts as expired")
	assert.Equal(t, 1, op.calls)
}

func TestGuardRefreshFailure(t *testing.T) {
	engine, backend, _ := newTestEngine(t)
	backend.refreshErr = errors.New("refresh rejected")
	stale := makeAccessToken(t, testNow.Add(-time.Minute))
	seedSession(t, engine, 1, stale, "refresh-1")
	op := &recordingOp{}

	_, err := engine.WithSession(op.handle)(context.Background(), Update{ChatID: 1})
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, 0, op.calls, "the operation must not run without a valid token")

	// The stale entry stays so the next attempt can retry the refresh.
	stored, err := engine.store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, stale, stored.Access)
	assert.Equal(t, "refresh-1", stored.Refresh)
}

func TestGuardMalformedAccessToken(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	seedSession(t, engine, 1, "not-a-jwt", "refresh-1")
	op := &recordingOp{}

	_, err := engine.WithSession(op.handle)(context.Background(), Update{ChatID: 1})
	assert.ErrorIs(t, err, ErrCorruptToken)
	assert.Equal(t, 0, op.calls)
}

func TestGuardCorruptStoredRecord(t *testing.T) {
	engine, _, mr := newTestEngine(t)
	require.NoError(t, mr.Set("et:1", "this is not a token record"))
	op := &recordingOp{}

	_, err := engine.WithSession(op.handle)(context.Background(), Update{ChatID: 1})
	assert.ErrorIs(t, err, ErrCorruptToken)
	assert.Equal(t, 0, op.calls)
}
