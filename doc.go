// Package eventbot is the core of a university chat bot: it authenticates
// users against the university REST backend, caches their token pairs with a
// sliding TTL, transparently refreshes expired access tokens, and drives the
// multi-step conversations for signing in and creating events.
//
// The package is designed for concurrent chat workloads: after [Builder.Build]
// the [Engine] and [Router] are safe to use from multiple goroutines, with
// updates serialized per chat.
//
// # Architecture boundaries
//
// eventbot is the public surface. It exposes [Engine], [Builder], [Config],
// [Router], and the value types handlers exchange with the chat transport
// ([Update], [Reply], [Choice]). The chat transport itself and the rendering
// of replies are the caller's concern; this package never talks to a chat
// network.
//
// # What this package must NOT do
//
//   - Sign or verify tokens. The backend is the issuing authority; only the
//     expiry claim is ever decoded, unverified, in package token.
//   - Execute a protected operation with a token known to be expired. The
//     session guard is the single gate, applied by the router to every
//     protected route.
//   - Leak transport errors into replies. Every failure maps onto one of the
//     sentinel kinds in errors.go and a user-facing instruction.
package eventbot
