// Package state holds the in-memory film and user stores.
//
// # Overview
//
// Two independent stores wrap the catalog REST API:
//
//   - FilmStore: films, favorites, loading/offline flags and derived views
//   - UserStore: users, the logged-in user and a naive login
//
// A Session owns one of each for the lifetime of the program and is handed
// to the UI explicitly; there are no package-level singletons.
//
// # Architecture
//
//	UI action                      UI render
//	┌────────────────┐            ┌──────────────────┐
//	│ store.Add()    │            │ <-Subscribe()    │
//	│   ↓            │            │ store.Snapshot() │
//	│ catalog.Client │            │   ↓              │
//	│   ↓            │  (mutex)   │ render views     │
//	│ mutate state ──┼──notify───→│                  │
//	└────────────────┘            └──────────────────┘
//
// The mutex is held only while state is read or written, never across a
// network call. Two actions on the same store may therefore interleave; each
// one is applied against whatever state exists when its response arrives.
// Callers that need ordering serialize their calls, as the UI does.
//
// # Offline Mode
//
// A failed FilmStore.Fetch replaces the films with the fallback catalog and
// marks the store offline. While offline, Add/Update/Delete act on local data
// only and never touch the network. Only a later successful Fetch brings the
// store back online.
//
// UserStore has no offline mode: a failed fetch keeps the users it had.
//
// # Errors
//
// Each store keeps a user-facing message (Snapshot().Error) plus the cause
// (Snapshot().LastError). Fetch records and swallows failures; mutating
// actions record them and also return them so a form can stay open.
//
// # Change Notification
//
// Subscribe returns a channel with a one-slot buffer. Any number of changes
// between two reads collapse into one pending signal, so a slow reader never
// blocks a store. Session.Subscribe merges both stores into one channel.
package state
