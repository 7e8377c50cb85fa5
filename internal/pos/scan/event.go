package scan

import (
	"strings"
	"time"
)

// Source identifies which input channel produced a scan.
type Source string

const (
	SourceManual          Source = "manual"
	SourceHardwareScanner Source = "hardware-scanner"
	SourceCamera          Source = "camera"
	SourceRemoteSession   Source = "remote-session"
)

// Event is one normalized physical scan. Events are ephemeral: created here,
// resolved against the catalog, then discarded.
type Event struct {
	Code   string
	Source Source
	At     time.Time
}

// ManualEntry commits an explicitly submitted code from the manual input
// field. Returns nil for empty input; keystroke-by-keystroke input never
// reaches this path.
func ManualEntry(code string, at time.Time) *Event {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}
	return &Event{Code: code, Source: SourceManual, At: at}
}
