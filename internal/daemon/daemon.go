package daemon

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/palegrave/nirikit/internal/config"
	"github.com/palegrave/nirikit/internal/logging"
	"github.com/palegrave/nirikit/internal/niri"
)

// Daemon wires the manager, socket server, config watcher, and niri event
// stream together for one session.
type Daemon struct {
	niriSocket string
	configPath string
	client     *niri.Client
	manager    *Manager
	notifier   *Notifier
	startedAt  time.Time

	mu          sync.Mutex
	configFiles []string
	warnings    []string

	stopOnce sync.Once
	stopCh   chan struct{}
	restart  bool
}

// New prepares a daemon for the current niri session.
func New(configPath string) (*Daemon, error) {
	niriSocket, err := niri.SocketPath()
	if err != nil {
		return nil, err
	}
	if configPath == "" {
		configPath, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	client := niri.NewClient()
	store, err := NewStateStore()
	if err != nil {
		return nil, err
	}
	return &Daemon{
		niriSocket: niriSocket,
		configPath: configPath,
		client:     client,
		manager:    NewManager(client, store, niriSocket),
		notifier:   NewNotifier("error"),
		startedAt:  time.Now(),
		stopCh:     make(chan struct{}),
	}, nil
}

// Run executes the daemon until the session ends, a signal arrives, or a
// stop request comes in over the socket.
func (d *Daemon) Run(ctx context.Context) error {
	log := logging.Get()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg := d.loadConfig()
	if err := d.manager.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("restoring daemon state failed, starting fresh")
	}
	d.manager.ClaimPID(os.Getpid())

	server, err := NewServer(SocketPath(d.niriSocket), d.handleRequest)
	if err != nil {
		return err
	}
	log.Info().Str("socket", server.Path()).Str("niri_socket", d.niriSocket).Msg("daemon listening")

	events, err := niri.StreamEvents(ctx)
	if err != nil {
		server.Close()
		return err
	}

	reloadCh := make(chan struct{}, 1)
	if cfg.WatchEnabled() {
		d.mu.Lock()
		files := append([]string(nil), d.configFiles...)
		d.mu.Unlock()
		if len(files) > 0 {
			go func() {
				err := config.Watch(ctx, files, func() {
					select {
					case reloadCh <- struct{}{}:
					default:
					}
				})
				if err != nil && ctx.Err() == nil {
					log.Warn().Err(err).Msg("config watcher stopped")
				}
			}()
		}
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- server.Serve(ctx) }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var runErr error
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case sig := <-sigCh:
			log.Info().Str("signal", sig.String()).Msg("shutting down")
			break loop
		case <-d.stopCh:
			break loop
		case <-reloadCh:
			d.reload(ctx)
		case err := <-serveErr:
			runErr = err
			break loop
		case ev, ok := <-events:
			if !ok {
				log.Info().Msg("niri event stream closed, shutting down")
				break loop
			}
			d.handleEvent(ctx, ev)
		}
	}

	errs := multierror.Append(nil, runErr)
	if err := server.Close(); err != nil {
		errs = multierror.Append(errs, err)
	}
	cancel()
	d.manager.ClaimPID(0)

	if d.restart {
		exe, err := os.Executable()
		if err != nil {
			exe = "nirikit"
		}
		spawnCtx, spawnCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer spawnCancel()
		if err := d.client.Action(spawnCtx, niri.Spawn(exe, "daemon", "run")); err != nil {
			errs = multierror.Append(errs, err)
		} else {
			log.Info().Msg("spawned replacement daemon")
		}
	}
	return errs.ErrorOrNil()
}

// loadConfig reads the config tree and applies it everywhere.
func (d *Daemon) loadConfig() config.Config {
	log := logging.Get()
	res, err := config.Load(d.configPath)
	if err != nil {
		log.Error().Err(err).Msg("loading config failed, using defaults")
		res = &config.Result{Config: config.Defaults()}
	}
	warnings := append([]string(nil), res.Warnings...)
	warnings = append(warnings, d.manager.SetConfig(res.Config)...)
	for _, w := range warnings {
		log.Warn().Str("config", d.configPath).Msg(w)
	}
	d.notifier.SetLevel(res.Config.Settings.NotifyLevel)

	d.mu.Lock()
	d.configFiles = res.Files
	d.warnings = warnings
	d.mu.Unlock()
	return res.Config
}

// reload re-reads the config after a file change.
func (d *Daemon) reload(ctx context.Context) {
	logging.Get().Info().Str("config", d.configPath).Msg("reloading config")
	d.loadConfig()
	d.notifier.Info(ctx, "nirikit", "configuration reloaded")
}

// requestShutdown stops the run loop, optionally spawning a replacement.
func (d *Daemon) requestShutdown(restart bool) {
	d.stopOnce.Do(func() {
		d.restart = restart
		close(d.stopCh)
	})
}

// handleRequest dispatches one socket request.
func (d *Daemon) handleRequest(ctx context.Context, req Request) Response {
	logging.Get().Debug().Str("op", req.Op).Str("name", req.Name).Msg("daemon request")

	fail := func(err error) Response {
		d.notifier.Error(ctx, "nirikit", err.Error())
		return Response{Error: err.Error()}
	}

	switch req.Op {
	case OpToggle:
		if err := d.manager.Toggle(ctx, req.Name); err != nil {
			return fail(err)
		}
	case OpSmartToggle:
		if err := d.manager.SmartToggle(ctx); err != nil {
			return fail(err)
		}
	case OpShow:
		if err := d.manager.Show(ctx, req.Name); err != nil {
			return fail(err)
		}
	case OpHide:
		if err := d.manager.Hide(ctx, req.Name); err != nil {
			return fail(err)
		}
	case OpAdopt:
		if err := d.manager.Adopt(ctx, req.Name); err != nil {
			return fail(err)
		}
	case OpDisown:
		if err := d.manager.Disown(ctx, req.Name); err != nil {
			return fail(err)
		}
	case OpClose:
		if err := d.manager.Close(ctx, req.Name); err != nil {
			return fail(err)
		}
	case OpFloat, OpTile, OpToggleFloat:
		if err := d.manager.SetFloat(ctx, req.Op); err != nil {
			return fail(err)
		}
	case OpMenu:
		return Response{OK: true, Items: d.manager.Items(ctx)}
	case OpStatus:
		return Response{OK: true, Status: d.status(ctx)}
	case OpReload:
		d.reload(ctx)
	case OpStop:
		d.requestShutdown(false)
	case OpRestart:
		d.requestShutdown(true)
	default:
		return Response{Error: "unknown op " + strconv.Quote(req.Op)}
	}
	return Response{OK: true}
}

func (d *Daemon) status(ctx context.Context) *Status {
	d.mu.Lock()
	files := append([]string(nil), d.configFiles...)
	warnings := append([]string(nil), d.warnings...)
	d.mu.Unlock()

	return &Status{
		PID:         os.Getpid(),
		Socket:      SocketPath(d.niriSocket),
		NiriSocket:  d.niriSocket,
		StartedAt:   d.startedAt,
		ConfigFiles: files,
		Warnings:    warnings,
		Scratchpads: d.manager.Items(ctx),
	}
}

// handleEvent reacts to one compositor event.
func (d *Daemon) handleEvent(ctx context.Context, ev niri.Event) {
	switch {
	case ev.WindowOpenedOrChanged != nil:
		d.manager.HandleWindowOpened(ctx, ev.WindowOpenedOrChanged.Window)
	case ev.WindowClosed != nil:
		d.manager.HandleWindowClosed(ev.WindowClosed.ID)
		d.notifier.WindowCalmed(ctx, ev.WindowClosed.ID)
	case ev.WindowFocusChanged != nil:
		d.manager.HandleWindowFocused(ev.WindowFocusChanged.ID)
	case ev.WindowUrgencyChanged != nil:
		d.handleUrgency(ctx, ev.WindowUrgencyChanged.ID, ev.WindowUrgencyChanged.Urgent)
	}
}

func (d *Daemon) handleUrgency(ctx context.Context, id uint64, urgent bool) {
	if !urgent {
		d.notifier.WindowCalmed(ctx, id)
		return
	}
	windows, err := d.client.Windows(ctx)
	if err != nil {
		return
	}
	for _, w := range windows {
		if w.ID != id {
			continue
		}
		d.notifier.WindowUrgent(ctx, w, func() {
			focusCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := d.client.Action(focusCtx, niri.FocusWindow(id)); err != nil {
				logging.Get().Warn().Err(err).Msg("focusing urgent window failed")
			}
		})
		return
	}
}
