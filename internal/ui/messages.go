package ui

import "time"

// tickMsg drives the snapshot poll. The meter publishes per audio
// frame (roughly every 23ms at 44.1kHz with 1024-sample frames);
// polling at 50ms keeps the terminal smooth without chasing every
// frame.
type tickMsg time.Time
