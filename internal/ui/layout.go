package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutExtraWideWidth is the threshold for extra-wide layouts.
	LayoutExtraWideWidth = 160
)

// Log display limits.
const (
	// LogTailLines is the number of lines read from the end of the log file.
	LogTailLines = 2000
)

// Timing constants.
const (
	// LogRefreshInterval is how often the Logs view re-reads the file while following.
	LogRefreshInterval = 2 * time.Second

	// ActionTimeout bounds a single store action started from the UI.
	ActionTimeout = 30 * time.Second
)
