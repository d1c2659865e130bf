package mullvad

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/palegrave/nirikit/internal/logging"
	"github.com/palegrave/nirikit/internal/waybar"
)

const (
	defaultNetstateInterval = time.Second
	defaultAPIInterval      = 30 * time.Second
)

// Monitor watches the local network fingerprint every second and asks the
// Mullvad API for a fresh verdict whenever the fingerprint moves or the
// last answer reaches its age limit, streaming waybar JSON lines on change.
type Monitor struct {
	Client           *Client
	Prober           *Prober
	Out              io.Writer
	NetstateInterval time.Duration
	APIInterval      time.Duration
}

// NewMonitor returns a monitor against the production endpoints, writing to
// stdout.
func NewMonitor() *Monitor {
	return &Monitor{
		Client:           NewClient(),
		Prober:           &Prober{},
		Out:              os.Stdout,
		NetstateInterval: defaultNetstateInterval,
		APIInterval:      defaultAPIInterval,
	}
}

type checkOutcome struct {
	report *Report
	err    error
}

// Run loops until ctx is cancelled. Nothing is emitted before the first
// check lands so the bar never flashes a bogus frame on startup.
func (m *Monitor) Run(ctx context.Context) error {
	log := logging.Get()
	emitter := waybar.NewEmitter(m.Out)
	results := make(chan checkOutcome, 1)

	var (
		v       verdict
		pending bool
	)
	lastFingerprint := m.Prober.Fingerprint(ctx)

	checking := true
	lastCheckStart := time.Now()
	go m.check(ctx, results)

	ticker := time.NewTicker(m.NetstateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case res := <-results:
			checking = false
			if res.err != nil {
				log.Warn().Err(res.err).Msg("mullvad check failed")
				v.err = res.err
			} else {
				v.report = res.report
				v.checkedAt = time.Now()
				v.err = nil
			}
			if pending {
				pending = false
				checking = true
				lastCheckStart = time.Now()
				go m.check(ctx, results)
			}
			if _, err := emitter.Emit(Render(v, time.Now())); err != nil {
				return err
			}

		case <-ticker.C:
			fp := m.Prober.Fingerprint(ctx)
			changed := fp != lastFingerprint
			lastFingerprint = fp
			switch {
			case changed && checking:
				// The topology moved under an in-flight probe, so its
				// answer is already suspect. Go again once it lands.
				pending = true
			case !checking && (changed || time.Since(lastCheckStart) >= m.APIInterval):
				checking = true
				lastCheckStart = time.Now()
				go m.check(ctx, results)
			}
			if v.report == nil && v.err == nil {
				continue
			}
			if _, err := emitter.Emit(Render(v, time.Now())); err != nil {
				return err
			}
		}
	}
}

func (m *Monitor) check(ctx context.Context, results chan<- checkOutcome) {
	rep, err := m.Client.Check(ctx)
	select {
	case results <- checkOutcome{report: rep, err: err}:
	case <-ctx.Done():
	}
}

// Once performs a single check and prints one frame.
func (m *Monitor) Once(ctx context.Context) error {
	var v verdict
	rep, err := m.Client.Check(ctx)
	if err != nil {
		v.err = err
	} else {
		v.report = rep
		v.checkedAt = time.Now()
	}
	_, emitErr := waybar.NewEmitter(m.Out).Emit(Render(v, time.Now()))
	return emitErr
}
