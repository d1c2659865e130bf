package claude

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/palegrave/nirikit/internal/logging"
	"github.com/palegrave/nirikit/internal/waybar"
)

const (
	defaultCheckInterval  = 60 * time.Second
	defaultOutputInterval = 5 * time.Second
)

// Monitor probes the rate-limit headers on an interval and streams waybar
// JSON lines. SIGUSR1 forces an immediate probe, which the one-shot config
// commands send after changing a preference.
type Monitor struct {
	Client         *Client
	Store          *HistoryStore
	Out            io.Writer
	PreferSource   Source // overrides the persisted preference when set
	CheckInterval  time.Duration
	OutputInterval time.Duration
}

// NewMonitor returns a monitor against the production endpoints, writing to
// stdout.
func NewMonitor(prefer Source) (*Monitor, error) {
	store, err := NewHistoryStore()
	if err != nil {
		return nil, err
	}
	return &Monitor{
		Client:         NewClient(),
		Store:          store,
		Out:            os.Stdout,
		PreferSource:   prefer,
		CheckInterval:  defaultCheckInterval,
		OutputInterval: defaultOutputInterval,
	}, nil
}

type checkResult struct {
	usage    *Usage
	profile  *Profile // only set when the token changed
	source   Source
	fallback bool
	token    string
	tokenErr string // no usable credentials
	err      error  // transient probe failure, previous frame stays up
}

// Run claims the monitor instance and loops until ctx is cancelled. A second
// Run against the same store fails instead of fighting over the history file.
func (m *Monitor) Run(ctx context.Context) error {
	log := logging.Get()

	history, err := m.Store.Load()
	if err != nil {
		return err
	}
	if claimErr := m.Store.Claim(history, os.Getpid()); claimErr != nil {
		return claimErr
	}
	defer func() {
		if h, loadErr := m.Store.Load(); loadErr == nil {
			if releaseErr := m.Store.Release(h, os.Getpid()); releaseErr != nil {
				log.Warn().Err(releaseErr).Msg("releasing monitor claim")
			}
		}
	}()

	refresh := make(chan os.Signal, 1)
	signal.Notify(refresh, syscall.SIGUSR1)
	defer signal.Stop(refresh)

	emitter := waybar.NewEmitter(m.Out)
	results := make(chan checkResult, 1)

	var (
		usage       *Usage
		profile     *Profile
		source      Source
		fallback    bool
		token       string
		tokenErr    string
		lastChecked time.Time
		expired5h   bool
		expired7d   bool
	)

	checking := true
	lastCheckStart := time.Now()
	go m.check(ctx, token, results)

	ticker := time.NewTicker(m.OutputInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-refresh:
			if !checking {
				checking = true
				lastCheckStart = time.Now()
				go m.check(ctx, token, results)
			}

		case res := <-results:
			checking = false
			switch {
			case res.tokenErr != "":
				tokenErr = res.tokenErr
				log.Warn().Str("error", res.tokenErr).Msg("no usable oauth token")
			case res.err != nil:
				tokenErr = ""
				log.Warn().Err(res.err).Msg("usage check failed")
			default:
				tokenErr = ""
				usage = res.usage
				source = res.source
				fallback = res.fallback
				token = res.token
				if res.profile != nil {
					profile = res.profile
				}
				lastChecked = time.Now()
				expired5h = false
				expired7d = false
				m.record(usage, res.profile, profile, lastChecked)
			}
			m.emit(emitter, usage, profile, source, fallback, tokenErr, lastChecked, time.Now())

		case now := <-ticker.C:
			if !checking {
				due := now.Sub(lastCheckStart) >= m.CheckInterval
				if usage != nil {
					if windowExpired(usage.Session5h.ResetsAt, now) && !expired5h {
						expired5h = true
						due = true
					}
					if windowExpired(usage.Window7d.ResetsAt, now) && !expired7d {
						expired7d = true
						due = true
					}
				}
				if due {
					checking = true
					lastCheckStart = now
					go m.check(ctx, token, results)
				}
			}
			m.emit(emitter, usage, profile, source, fallback, tokenErr, lastChecked, now)
		}
	}
}

// Once runs a single probe and emits one JSON line. It does not claim the
// monitor instance, so it works alongside a running loop.
func (m *Monitor) Once(ctx context.Context) error {
	results := make(chan checkResult, 1)
	go m.check(ctx, "", results)

	var res checkResult
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res = <-results:
	}

	var (
		usage       *Usage
		tokenErr    string
		lastChecked time.Time
	)
	now := time.Now()
	switch {
	case res.tokenErr != "":
		tokenErr = res.tokenErr
	case res.err != nil:
		return res.err
	default:
		usage = res.usage
		lastChecked = now
		m.record(usage, res.profile, res.profile, now)
	}
	m.emit(waybar.NewEmitter(m.Out), usage, res.profile, res.source, res.fallback, tokenErr, lastChecked, now)
	return nil
}

func windowExpired(resetAt, now time.Time) bool {
	return !resetAt.IsZero() && !now.Before(resetAt)
}

// check resolves credentials, refreshes them if they are about to expire,
// and probes the API. Runs off the main loop; the result channel is buffered
// so a cancelled Run never strands it.
func (m *Monitor) check(ctx context.Context, prevToken string, results chan<- checkResult) {
	creds, fellBack, err := ResolveCredentials(m.currentPrefer())
	if err != nil {
		results <- checkResult{tokenErr: err.Error()}
		return
	}
	if _, err := creds.RefreshIfNeeded(ctx, m.Client, time.Now()); err != nil {
		results <- checkResult{tokenErr: fmt.Sprintf("token refresh failed: %v", err)}
		return
	}

	res := checkResult{source: creds.Source, fallback: fellBack, token: creds.AccessToken}
	usage, err := m.Client.ProbeUsage(ctx, creds.AccessToken)
	if err != nil {
		res.err = err
		results <- res
		return
	}
	res.usage = usage

	if creds.AccessToken != prevToken {
		if profile, err := m.Client.FetchProfile(ctx, creds.AccessToken); err == nil {
			res.profile = profile
		} else {
			logging.Get().Debug().Err(err).Msg("profile fetch failed")
		}
	}
	results <- res
}

// currentPrefer returns the runtime override or the persisted preference.
func (m *Monitor) currentPrefer() Source {
	if m.PreferSource != "" && m.PreferSource != SourceAuto {
		return m.PreferSource
	}
	h, err := m.Store.Load()
	if err != nil {
		return SourceAuto
	}
	prefer, err := ParseSource(h.Config.PreferSource)
	if err != nil {
		return SourceAuto
	}
	return prefer
}

// record folds the probe into the on-disk history. The account is keyed by
// the profile's uuid; without any profile yet the active account carries on.
func (m *Monitor) record(usage *Usage, newProfile, knownProfile *Profile, now time.Time) {
	log := logging.Get()
	h, err := m.Store.Load()
	if err != nil {
		log.Warn().Err(err).Msg("loading usage history")
		return
	}

	uuid := h.ActiveAccount
	if newProfile != nil && newProfile.Account.UUID != "" {
		uuid = newProfile.Account.UUID
	} else if knownProfile != nil && knownProfile.Account.UUID != "" {
		uuid = knownProfile.Account.UUID
	}
	if uuid == "" {
		return
	}

	h.Record(uuid, newProfile, usage, now)
	if err := m.Store.Save(h); err != nil {
		log.Warn().Err(err).Msg("saving usage history")
	}
}

func (m *Monitor) emit(emitter *waybar.Emitter, usage *Usage, profile *Profile,
	source Source, fallback bool, tokenErr string, lastChecked, now time.Time) {

	log := logging.Get()
	h, err := m.Store.Load()
	if err != nil {
		log.Warn().Err(err).Msg("loading usage history")
		h = NewHistory()
	}

	framePrefer := m.PreferSource
	if framePrefer == "" {
		framePrefer = Source(h.Config.PreferSource)
	}

	alternate := now.Unix()%30 >= 15
	frame := Frame{
		Usage:          usage,
		Profile:        profile,
		Source:         source,
		SourceFallback: fallback,
		PreferSource:   framePrefer,
		DisplayMode:    ParseDisplayMode(h.Config.DisplayMode),
		Alternate:      alternate,
		Cumulative:     !alternate,
		LastChecked:    lastChecked,
		TokenError:     tokenErr,
		Now:            now,
	}
	if acct := h.Accounts[h.ActiveAccount]; acct != nil {
		frame.Snapshots = acct.Snapshots
		frame.Sessions = acct.History.Sessions5h
	}

	out, ok := Render(frame)
	if !ok {
		return
	}
	if _, err := emitter.Emit(out); err != nil {
		log.Warn().Err(err).Msg("writing waybar output")
	}
}
