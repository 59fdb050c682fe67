package model

import "time"

// Shared defaults used by both the service and TUI binaries.
const (
	DefaultFilter       = ShowAll
	DefaultAPIURL       = "https://android-kotlin-fun-mars-server.appspot.com"
	DefaultHTTPTimeout  = 15 * time.Second
	DefaultQueryTimeout = 30 * time.Second
)
