// Package app provides the orchestration layer for the marquee application.
//
// # Overview
//
// This package wires together configuration, logging, the catalog client,
// the stores, and the UI. It is the composition root where all dependencies
// are initialized and connected.
//
// # Startup
//
//  1. Load ~/.config/marquee/config.toml (defaults when missing)
//  2. Install the slog file logger
//  3. Load UI preferences
//  4. Load the offline catalog (embedded unless fallback_catalog is set)
//  5. Build the rate-limited catalog client and the session
//  6. Start the TUI (blocks); it fetches films and users once after the
//     first frame, bounded by startupTimeout
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()          Read marquee config
//	       ├─────> logging.Setup()        File logger as slog default
//	       ├─────> catalog.NewClient()    REST client
//	       ├─────> state.NewSession()     Film and user stores
//	       └─────> ui.Run()               Start TUI (blocks)
//	                 └─> initialLoad()    First fetch, offline on failure
//
// There is no background polling. Data is reloaded on demand from the UI.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Invalid configuration file
//   - Unreadable log file or fallback catalog
//   - Invalid api_url
//
// Recoverable errors (recorded by the stores, shown in the header):
//   - Server unreachable or timing out: the film list switches to the
//     offline catalog
//   - HTTP errors from individual requests
package app
