package main

// Exit codes for the pubmerge CLI.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error
	ExitConfigError = 2 // Project not found or invalid config
	ExitDataError   = 3 // Unreadable or corrupt data files
)
