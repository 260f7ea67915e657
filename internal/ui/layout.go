package ui

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100
)

// Log display limits.
const (
	// LogTailLines is how many lines of the log file the log view loads.
	LogTailLines = 500
)
