// Package logtail reads the tail of marquee's own log file and parses the
// records slog's TextHandler wrote there, for display in the Logs view.
//
// Read keeps a ring buffer of the last maxLines lines, so memory stays
// bounded by the window rather than the file. A missing file yields no
// lines and no error; the log file may not exist before the first record.
//
// Parse understands the key=value layout of slog.TextHandler:
//
//	time=2026-10-19T10:04:05.123+02:00 level=WARN msg="film fetch failed" error="..."
//
// time, level and msg become Entry fields; every other pair is kept in
// order as an Attr. Lines that do not fit the layout are returned verbatim
// as the message.
package logtail
