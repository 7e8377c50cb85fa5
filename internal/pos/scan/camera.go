package scan

import (
	"context"
	"fmt"
	"time"
)

// DeviceFailure classifies camera acquisition failures. "No barcode visible"
// is the steady state during scanning and is not a failure.
type DeviceFailure string

const (
	DeviceNotFound         DeviceFailure = "not-found"
	DevicePermissionDenied DeviceFailure = "permission-denied"
	DeviceBusy             DeviceFailure = "busy"
)

// DeviceError is a device-level camera status surfaced to the scanning
// panel. Retrying is always a user-initiated action.
type DeviceError struct {
	Reason DeviceFailure
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("camera device: %s", e.Reason)
}

// Device abstracts camera acquisition. Start may fail with a *DeviceError;
// Stop releases the stream and is safe to call more than once.
type Device interface {
	Start(ctx context.Context) error
	Stop()
}

// CameraState reflects the acquisition lifecycle. A failed Start always
// lands back in CameraOff, never a stuck "starting" state.
type CameraState string

const (
	CameraOff      CameraState = "off"
	CameraStarting CameraState = "starting"
	CameraOn       CameraState = "on"
)

// CameraSession owns one camera stream and debounces its decode callbacks.
// The frame decoder reports candidates at high frequency while a code is
// held in view; a given code is emitted at most once per cooldown, and a
// successful emission stops capture so the next item requires a deliberate
// restart.
type CameraSession struct {
	dev      Device
	cooldown time.Duration

	state    CameraState
	lastCode string
	lastEmit time.Time
}

// DefaultCameraCooldown suppresses duplicate decodes of the code currently
// in front of the camera.
const DefaultCameraCooldown = 1500 * time.Millisecond

func NewCameraSession(dev Device, cooldown time.Duration) *CameraSession {
	if cooldown <= 0 {
		cooldown = DefaultCameraCooldown
	}
	return &CameraSession{dev: dev, cooldown: cooldown, state: CameraOff}
}

// Start acquires the device. On failure the session is off, not "starting",
// and the error carries the device-level reason.
func (s *CameraSession) Start(ctx context.Context) error {
	if s.state != CameraOff {
		return nil
	}
	s.state = CameraStarting
	if err := s.dev.Start(ctx); err != nil {
		s.state = CameraOff
		return err
	}
	s.state = CameraOn
	return nil
}

// Stop releases the stream. Decode callbacks arriving after Stop are no-ops.
func (s *CameraSession) Stop() {
	if s.state == CameraOff {
		return
	}
	s.dev.Stop()
	s.state = CameraOff
}

// State reports the acquisition lifecycle state.
func (s *CameraSession) State() CameraState {
	return s.state
}

// Decode feeds one candidate code from the frame decoder. It returns an
// event at most once per cooldown window for a given code; on emission the
// capture is stopped so a single physical scan cannot land in the cart
// dozens of times.
func (s *CameraSession) Decode(code string, at time.Time) *Event {
	if s.state != CameraOn || code == "" {
		return nil
	}
	if code == s.lastCode && at.Sub(s.lastEmit) < s.cooldown {
		return nil
	}
	s.lastCode = code
	s.lastEmit = at
	s.Stop()
	return &Event{Code: code, Source: SourceCamera, At: at}
}
