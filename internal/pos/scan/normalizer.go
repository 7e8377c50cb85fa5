package scan

import (
	"context"
	"io"
	"log"
	"sync"
	"time"
)

// Config carries the tunable thresholds for all input channels.
type Config struct {
	Wedge          WedgeConfig
	CameraCooldown time.Duration
	// Buffer sizes the event stream; emissions beyond it are dropped with a
	// log line rather than blocking an input callback.
	Buffer int
}

// Normalizer funnels the heterogeneous scan sources into a single event
// stream. Cart mutation stays serialized because exactly one consumer reads
// Events; the sources themselves may call in from any goroutine.
type Normalizer struct {
	mu     sync.Mutex
	wedge  *WedgeDetector
	camera *CameraSession
	events chan Event
	logger *log.Logger
}

func NewNormalizer(cfg Config, dev Device, logger *log.Logger) *Normalizer {
	if cfg.Buffer <= 0 {
		cfg.Buffer = 64
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Normalizer{
		wedge:  NewWedgeDetector(cfg.Wedge),
		camera: NewCameraSession(dev, cfg.CameraCooldown),
		events: make(chan Event, cfg.Buffer),
		logger: logger,
	}
}

// Events is the normalized stream. One physical scan yields one event.
func (n *Normalizer) Events() <-chan Event {
	return n.events
}

// SubmitManual commits the manual field's value. Reports whether an event
// was emitted.
func (n *Normalizer) SubmitManual(code string, at time.Time) bool {
	return n.emit(ManualEntry(code, at))
}

// Keystroke feeds one global keystroke into the wedge detector.
func (n *Normalizer) Keystroke(r rune, at time.Time) {
	n.mu.Lock()
	ev := n.wedge.Key(r, at)
	n.mu.Unlock()
	n.emit(ev)
}

// CameraDecode feeds one candidate code from the frame decoder.
func (n *Normalizer) CameraDecode(code string, at time.Time) {
	n.mu.Lock()
	ev := n.camera.Decode(code, at)
	n.mu.Unlock()
	n.emit(ev)
}

// StartCamera acquires the camera device.
func (n *Normalizer) StartCamera(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.camera.Start(ctx)
}

// StopCamera releases the camera device; later decode callbacks are no-ops.
func (n *Normalizer) StopCamera() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.camera.Stop()
}

// CameraState reports the camera acquisition state.
func (n *Normalizer) CameraState() CameraState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.camera.State()
}

func (n *Normalizer) emit(ev *Event) bool {
	if ev == nil {
		return false
	}
	select {
	case n.events <- *ev:
		return true
	default:
		n.logger.Printf("scan: event buffer full, dropping code=%s source=%s", ev.Code, ev.Source)
		return false
	}
}
