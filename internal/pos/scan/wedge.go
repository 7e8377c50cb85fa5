package scan

import "time"

// WedgeConfig tunes the keyboard-wedge burst heuristic. The thresholds are
// empirical: they only need to keep fast scanner bursts and human typing
// distinguishable, the exact millisecond values are not load-bearing.
type WedgeConfig struct {
	// MaxKeyGap is the largest inter-character gap still considered part of
	// one scanner burst. A slower keystroke resets the buffer.
	MaxKeyGap time.Duration
	// EnterTimeout is how soon after the last character the terminating
	// Enter must arrive. A buffer that goes stale is discarded, never
	// partially committed.
	EnterTimeout time.Duration
	// MinLength is the minimum buffered length for a commit. Short buffers
	// are treated as human typing and left alone.
	MinLength int
}

func (c WedgeConfig) withDefaults() WedgeConfig {
	if c.MaxKeyGap <= 0 {
		c.MaxKeyGap = 50 * time.Millisecond
	}
	if c.EnterTimeout <= 0 {
		c.EnterTimeout = 200 * time.Millisecond
	}
	if c.MinLength <= 0 {
		c.MinLength = 3
	}
	return c
}

// WedgeDetector distinguishes hardware barcode scanners, which emulate a
// keyboard but transmit at inhuman speed and terminate with Enter, from
// ordinary typing on the same keyboard. Ambiguous input is resolved in favor
// of not hijacking it: the detector stays silent and the characters remain
// wherever the user was typing them.
//
// All state is per-instance so independent terminals and tests do not share
// buffers.
type WedgeDetector struct {
	cfg     WedgeConfig
	buf     []rune
	lastKey time.Time
}

func NewWedgeDetector(cfg WedgeConfig) *WedgeDetector {
	return &WedgeDetector{cfg: cfg.withDefaults()}
}

// Key feeds one global keystroke with its observed timestamp. It returns a
// committed event on a qualifying Enter and nil otherwise.
func (d *WedgeDetector) Key(r rune, at time.Time) *Event {
	if r == '\n' || r == '\r' {
		ev := d.commit(at)
		d.Reset()
		return ev
	}
	if !wedgeRune(r) {
		d.Reset()
		return nil
	}
	if len(d.buf) > 0 && at.Sub(d.lastKey) > d.cfg.MaxKeyGap {
		// Human-speed gap: whatever was buffered was not a burst.
		d.buf = d.buf[:0]
	}
	d.buf = append(d.buf, r)
	d.lastKey = at
	return nil
}

// Reset discards any buffered burst.
func (d *WedgeDetector) Reset() {
	d.buf = d.buf[:0]
	d.lastKey = time.Time{}
}

func (d *WedgeDetector) commit(at time.Time) *Event {
	if len(d.buf) < d.cfg.MinLength {
		return nil
	}
	if d.lastKey.IsZero() || at.Sub(d.lastKey) > d.cfg.EnterTimeout {
		// Stale buffer: the Enter belongs to something else.
		return nil
	}
	return &Event{Code: string(d.buf), Source: SourceHardwareScanner, At: at}
}

func wedgeRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r == '-':
		return true
	}
	return false
}
