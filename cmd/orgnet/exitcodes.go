package main

// Exit codes
const (
	ExitSuccess      = 0 // Success
	ExitError        = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError  = 2 // Configuration error (missing or invalid orgnet.yml)
	ExitDataError    = 3 // Data error (malformed snapshot or cluster file, failed check)
	ExitNotFound     = 4 // Unknown organization or view
	ExitRootNotFound = 5 // Organization handle is not a node of its graph
)
