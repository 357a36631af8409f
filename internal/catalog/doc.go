// Package catalog provides the HTTP client for the film catalog REST API.
//
// # Overview
//
// The API exposes two plain REST collections, /films and /users, with the
// usual list / create / patch / delete operations. This package maps them to
// typed Go calls and classifies every failure into an *Error with a Kind.
//
//   - client.go: Client, FilmService/UserService interfaces, request handling
//   - types.go: Film, FilmPatch, User, UserPatch
//   - errors.go: Error, Kind, sentinels and display messages
//   - fallback.go: the embedded offline catalog (fallback.yaml)
//
// # Request Handling
//
// All requests:
//   - Send and accept JSON
//   - Include User-Agent: marquee/0.1 and a fresh X-Request-Id
//   - Pass through an optional client-side rate limiter
//   - Treat any non-2xx status as a failure regardless of body
//
// Film requests are additionally bounded by the film timeout (5 seconds by
// default). User requests are bounded only by the caller's context.
//
// # Error Kinds
//
//   - KindNetworkTimeout: deadline exceeded before a response arrived
//   - KindNetworkFailure: connection refused, DNS failure and similar
//   - KindHTTPStatus: the server answered with a non-2xx status
//   - KindDecode: the body was not the expected JSON
//   - KindNotFound, KindInvalidCredentials: raised by the stores, not the client
//
// Use errors.Is(err, catalog.ErrNotFound) or catalog.IsNetwork(err) to branch,
// and catalog.Message(err) to render.
//
// # Opaque User Fields
//
// Backends commonly store profile fields marquee does not model (names,
// avatars, timestamps). User keeps them in Extra and writes them back on
// marshal, so a round trip through the client never drops data.
package catalog
