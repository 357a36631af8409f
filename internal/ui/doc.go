// Package ui provides the terminal user interface for marquee.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model holds copies of the film and user
// store snapshots and re-syncs them whenever the session signals a change.
// Store mutations never run inside Update: they are wrapped in tea.Cmds with
// a bounded context and report back through actionDoneMsg.
//
// # Package Structure
//
//   - app.go: Model, message routing, Run
//   - films.go: film list, filters, film form
//   - detail.go: single film and not-found screens
//   - users.go: user list, login, user form
//   - logs.go: tail of marquee's own log file
//   - header.go: status header and command bar
//   - modal.go: form and confirm dialogs
//   - theme.go, render.go: colors and box drawing
//
// # Views
//
//   - Films: table of films with a detail pane; filter by favorites, top
//     rated, or genre
//   - Film: full screen detail for one film, reached by enter or ":"
//   - Not found: shown when ":" names an id no film carries
//   - Users: user list, session pane, login and logout
//   - Logs: auto-tailing view of the client log
//   - About: server address, mode, and counts
//
// # Offline Mode
//
// When the server cannot be reached the header shows OFFLINE and the film
// list comes from the bundled catalog. Adds, edits, and deletes still work
// but stay on this machine; notices say so.
//
// # Key Bindings
//
//   - 1/2/3/4 or Tab: Films, Users, Logs, About
//   - j/k, home/G, ctrl+d/u: move
//   - f/g: cycle filter / genre
//   - Space: toggle favorite (films) or follow (logs)
//   - enter: open film, ":" go to film by id
//   - n/e/d: add, edit, delete
//   - L/O: log in, log out
//   - r: reload, x: dismiss error, T: theme, ?: help, q: quit
package ui
