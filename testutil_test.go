package eventbot

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// testNow pins the engine clock so expiry comparisons and date suggestions
// are deterministic.
var testNow = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

// fakeBackend is a scriptable Backend. Zero value behaves as a healthy
// backend for a teacher account.
type fakeBackend struct {
	authErr    error
	linkErr    error
	refreshErr error
	roleErr    error
	groupsErr  error
	eventsErr  error
	createErr  error

	pair        TokenPair
	refreshPair TokenPair
	role        string
	profile     Profile
	groups      []Group
	events      []EventRecord

	authCalls    int
	refreshCalls int
	createCalls  int

	lastUsername     string
	lastPassword     string
	lastRefreshToken string
	lastLinkedChat   int64
	lastDraft        EventDraft
}

func (f *fakeBackend) Authenticate(_ context.Context, username, password string) (*TokenPair, error) {
	f.authCalls++
	f.lastUsername, f.lastPassword = username, password
	if f.authErr != nil {
		return nil, f.authErr
	}
	pair := f.pair
	return &pair, nil
}

func (f *fakeBackend) Refresh(_ context.Context, refreshToken string) (*TokenPair, error) {
	f.refreshCalls++
	f.lastRefreshToken = refreshToken
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	pair := f.refreshPair
	return &pair, nil
}

func (f *fakeBackend) LinkChat(_ context.Context, _ string, chatID int64) error {
	f.lastLinkedChat = chatID
	return f.linkErr
}

func (f *fakeBackend) FetchRole(_ context.Context, _ string, _ int64) (string, error) {
	if f.roleErr != nil {
		return "", f.roleErr
	}
	if f.role == "" {
		return "teacher", nil
	}
	return f.role, nil
}

func (f *fakeBackend) FetchProfile(_ context.Context, _ string) (*Profile, error) {
	profile := f.profile
	return &profile, nil
}

func (f *fakeBackend) FetchGroups(_ context.Context, _ string) ([]Group, error) {
	if f.groupsErr != nil {
		return nil, f.groupsErr
	}
	return f.groups, nil
}

func (f *fakeBackend) FetchEvents(_ context.Context, _ string) ([]EventRecord, error) {
	if f.eventsErr != nil {
		return nil, f.eventsErr
	}
	return f.events, nil
}

func (f *fakeBackend) CreateEvent(_ context.Context, _ string, draft EventDraft) error {
	f.createCalls++
	f.lastDraft = draft
	return f.createErr
}

func newTestEngine(t *testing.T) (*Engine, *fakeBackend, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	backend := &fakeBackend{}
	engine, err := New().
		WithRedis(rdb).
		WithBackend(backend).
		WithClock(func() time.Time { return testNow }).
		Build()
	require.NoError(t, err)
	t.Cleanup(engine.Close)

	return engine, backend, mr
}

// makeAccessToken signs a real JWT whose exp claim is the given time. The
// guard never verifies signatures, so the key is irrelevant.
func makeAccessToken(t *testing.T, exp time.Time) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": exp.Unix(),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return raw
}

// makeTokenWithoutExpiry signs a JWT carrying no exp claim at all.
func makeTokenWithoutExpiry(t *testing.T) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "someone",
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return raw
}
