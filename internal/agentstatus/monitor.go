package agentstatus

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/palegrave/nirikit/internal/waybar"
)

const (
	activeInterval = 100 * time.Millisecond
	idleInterval   = 500 * time.Millisecond
)

// Monitor polls the status file and streams frames, ticking fast while the
// agent is busy so the spinner animates, slow otherwise.
type Monitor struct {
	Path string
	Out  io.Writer
}

// NewMonitor returns a monitor over the default status path, writing to
// stdout.
func NewMonitor() *Monitor {
	return &Monitor{Path: DefaultStatusPath, Out: os.Stdout}
}

// Run loops until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	emitter := waybar.NewEmitter(m.Out)
	frame := 0
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}

		s, at := ReadStatus(m.Path)
		now := time.Now()
		if _, err := emitter.Emit(Render(s, at, now, frame)); err != nil {
			return err
		}

		interval := idleInterval
		if s.Active() && !Stale(at, now) {
			frame++
			interval = activeInterval
		}
		timer.Reset(interval)
	}
}

// Once prints a single frame.
func (m *Monitor) Once() error {
	s, at := ReadStatus(m.Path)
	_, err := waybar.NewEmitter(m.Out).Emit(Render(s, at, time.Now(), 0))
	return err
}
