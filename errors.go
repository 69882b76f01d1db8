package eventbot

import "errors"

var (
	// ErrUnauthenticated is returned when no session is cached for the chat.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrCorruptToken is returned when the cached access token cannot be decoded.
	ErrCorruptToken = errors.New("corrupt access token")
	// ErrSessionExpired is returned when the access token expired and the refresh attempt failed.
	ErrSessionExpired = errors.New("session expired")
	// ErrAuthFailed is returned when the backend rejects the submitted credentials.
	ErrAuthFailed = errors.New("authentication failed")
	// ErrLinkFailed is returned when the chat-linkage call fails after login.
	ErrLinkFailed = errors.New("chat link failed")
	// ErrRemoteUnavailable is returned on any backend transport failure outside login and refresh.
	ErrRemoteUnavailable = errors.New("backend unavailable")
	// ErrValidationFailed is returned when user input does not match the shape the active step expects.
	ErrValidationFailed = errors.New("input validation failed")
	// ErrAuthorizationDenied is returned when the role check rejects a privileged flow.
	ErrAuthorizationDenied = errors.New("authorization denied")
	// ErrEngineNotReady is returned when the engine is used before Build wired its dependencies.
	ErrEngineNotReady = errors.New("engine not initialized")
)
