package suntimes

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/palegrave/nirikit/internal/logging"
	"github.com/palegrave/nirikit/internal/waybar"
)

const defaultUpdateInterval = time.Minute

// Monitor recomputes the sun frame every minute and emits on change.
type Monitor struct {
	Loc      Location
	Out      io.Writer
	Interval time.Duration
}

// NewMonitor returns a monitor writing to stdout.
func NewMonitor(loc Location) *Monitor {
	return &Monitor{
		Loc:      loc,
		Out:      os.Stdout,
		Interval: defaultUpdateInterval,
	}
}

// Run loops until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	log := logging.Get()
	emitter := waybar.NewEmitter(m.Out)
	if _, err := emitter.Emit(Render(m.Loc, time.Now())); err != nil {
		return err
	}

	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if _, err := emitter.Emit(Render(m.Loc, now)); err != nil {
				log.Warn().Err(err).Msg("writing waybar output")
			}
		}
	}
}

// Once renders a single frame to out.
func (m *Monitor) Once(at time.Time) error {
	_, err := waybar.NewEmitter(m.Out).Emit(Render(m.Loc, at))
	return err
}

// ParseAt parses the --at override: RFC3339 or a bare clock time today.
func ParseAt(s string, now time.Time) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	clock, err := time.ParseInLocation("15:04", s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q (want RFC3339 or 15:04)", s)
	}
	return time.Date(now.Year(), now.Month(), now.Day(),
		clock.Hour(), clock.Minute(), 0, 0, now.Location()), nil
}
