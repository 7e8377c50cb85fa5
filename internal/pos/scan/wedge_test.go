package scan

import (
	"testing"
	"time"
)

func feedBurst(d *WedgeDetector, code string, start time.Time, gap time.Duration) (time.Time, *Event) {
	at := start
	var ev *Event
	for _, r := range code {
		if got := d.Key(r, at); got != nil {
			ev = got
		}
		at = at.Add(gap)
	}
	return at, ev
}

func TestWedgeDetector_ScannerBurstCommitsOnce(t *testing.T) {
	d := NewWedgeDetector(WedgeConfig{})
	start := time.Now()
	last, premature := feedBurst(d, "EAN12345", start, 10*time.Millisecond)
	if premature != nil {
		t.Fatalf("committed before Enter: %+v", premature)
	}

	ev := d.Key('\n', last.Add(90*time.Millisecond))
	if ev == nil {
		t.Fatal("expected a commit on Enter")
	}
	if ev.Code != "EAN12345" {
		t.Fatalf("expected code EAN12345, got %q", ev.Code)
	}
	if ev.Source != SourceHardwareScanner {
		t.Fatalf("expected hardware-scanner source, got %s", ev.Source)
	}

	// A second Enter must not re-commit the drained buffer.
	if again := d.Key('\n', last.Add(100*time.Millisecond)); again != nil {
		t.Fatalf("buffer re-committed: %+v", again)
	}
}

func TestWedgeDetector_HumanTypingCommitsNothing(t *testing.T) {
	d := NewWedgeDetector(WedgeConfig{})
	last, _ := feedBurst(d, "EAN12345", time.Now(), 300*time.Millisecond)
	if ev := d.Key('\n', last.Add(50*time.Millisecond)); ev != nil {
		t.Fatalf("human-speed typing was hijacked: %+v", ev)
	}
}

func TestWedgeDetector_StaleBufferDiscarded(t *testing.T) {
	d := NewWedgeDetector(WedgeConfig{})
	last, _ := feedBurst(d, "ABC123", time.Now(), 10*time.Millisecond)
	// Enter arriving long after the last character belongs to something else.
	if ev := d.Key('\n', last.Add(2*time.Second)); ev != nil {
		t.Fatalf("stale buffer committed: %+v", ev)
	}
}

func TestWedgeDetector_MinimumLength(t *testing.T) {
	d := NewWedgeDetector(WedgeConfig{})
	last, _ := feedBurst(d, "AB", time.Now(), 5*time.Millisecond)
	if ev := d.Key('\n', last); ev != nil {
		t.Fatalf("two-character buffer committed: %+v", ev)
	}
}

func TestWedgeDetector_NonQualifyingRuneResetsBuffer(t *testing.T) {
	d := NewWedgeDetector(WedgeConfig{})
	at, _ := feedBurst(d, "ABC", time.Now(), 5*time.Millisecond)
	d.Key(' ', at)
	at, _ = feedBurst(d, "12", at.Add(5*time.Millisecond), 5*time.Millisecond)
	if ev := d.Key('\n', at); ev != nil {
		t.Fatalf("expected reset after space, got commit %+v", ev)
	}
}

func TestWedgeDetector_SlowGapKeepsOnlyTail(t *testing.T) {
	d := NewWedgeDetector(WedgeConfig{})
	at, _ := feedBurst(d, "XYZ", time.Now(), 10*time.Millisecond)
	// Pause, then a fresh fast burst. Only the tail may commit.
	at = at.Add(time.Second)
	at, _ = feedBurst(d, "CODE-99", at, 10*time.Millisecond)
	ev := d.Key('\n', at)
	if ev == nil {
		t.Fatal("expected tail burst to commit")
	}
	if ev.Code != "CODE-99" {
		t.Fatalf("expected CODE-99, got %q", ev.Code)
	}
}

func TestWedgeDetector_ConfigurableThresholds(t *testing.T) {
	d := NewWedgeDetector(WedgeConfig{MaxKeyGap: 500 * time.Millisecond, EnterTimeout: time.Second, MinLength: 5})
	at, _ := feedBurst(d, "SLOW1", time.Now(), 300*time.Millisecond)
	ev := d.Key('\n', at)
	if ev == nil || ev.Code != "SLOW1" {
		t.Fatalf("expected commit under widened gap, got %+v", ev)
	}
}
