package app

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"sync"
	"time"

	"gioui.org/app"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"github.com/justyntemme/dragdrop"
	"github.com/justyntemme/dragdrop/internal/config"
	"github.com/justyntemme/dragdrop/internal/debug"
	"github.com/justyntemme/dragdrop/internal/logging"
	"github.com/justyntemme/dragdrop/internal/platform"
	"github.com/justyntemme/dragdrop/internal/store"
)

// journalRows is how many recent dispatches the window shows.
const journalRows = 8

var initializeNative = platform.Initialize

type Orchestrator struct {
	window     *app.Window
	theme      *material.Theme
	cfg        *config.Manager
	cfgPath    string
	log        *slog.Logger
	dispatcher *dragdrop.Dispatcher
	journal    *store.Journal
	record     dragdrop.Observer
	zone       *dropZone
	debug      bool

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	entries    []store.Entry
	nativeErr  error
	nativeUp   bool
	lastReload time.Time
}

func NewOrchestrator(cfgPath string, debug bool) *Orchestrator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		window:  new(app.Window),
		theme:   material.NewTheme(),
		cfg:     config.NewManager(),
		cfgPath: cfgPath,
		debug:   debug,
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (o *Orchestrator) Run() error {
	defer o.cancel()

	if err := o.cfg.Load(o.cfgPath); err != nil {
		log.Printf("Failed to load config: %v", err)
	}
	cfg := o.cfg.Get()

	level := cfg.Logging.Level
	if o.debug {
		level = "debug"
	}
	if cfg.Logging.Dir != "" {
		l, f, err := logging.NewFile(cfg.Logging.Dir, level)
		if err != nil {
			log.Printf("Failed to open log file: %v", err)
			o.log = logging.New(os.Stderr, level)
		} else {
			defer f.Close()
			o.log = l
		}
	} else {
		o.log = logging.New(os.Stderr, level)
	}
	if perr := o.cfg.ParseError(); perr != nil {
		o.log.Warn("config parse error, using defaults", "path", o.cfg.Path(), "err", perr)
	}

	opts := []dragdrop.Option{dragdrop.WithLogger(o.log)}
	if cfg.Journal.Enabled {
		o.journal = store.NewJournal()
		if err := o.journal.Open(cfg.Journal.Path); err != nil {
			o.log.Error("failed to open journal", "path", cfg.Journal.Path, "err", err)
			o.journal = nil
		} else {
			defer o.journal.Close()
			go o.journal.Start()
			go o.processEvents()
			o.record = o.journal.Observer()
			opts = append(opts, dragdrop.WithObserver(o.observe))
			o.requestJournal(cfg.Journal.Retain)
		}
	}

	// The zone and the native source share the process-wide dispatcher with any
	// handlers registered through dragdrop.SetDrop and friends.
	dragdrop.Configure(opts...)
	defer dragdrop.Configure(dragdrop.WithObserver(nil), dragdrop.WithLogger(nil))
	o.dispatcher = dragdrop.Default()
	o.zone = newDropZone(o.dispatcher, cfg.Effects, o.window.Invalidate)
	sub := o.dispatcher.Subscribe(o.zone)
	defer sub.Close()
	o.platformStartup()

	if w, err := config.Watch(o.cfg, 0, o.applyConfig); err != nil {
		o.log.Warn("config watcher unavailable", "err", err)
	} else {
		defer w.Close()
	}

	o.window.Option(
		app.Title(cfg.Window.Title),
		app.Size(unit.Dp(float32(cfg.Window.Width)), unit.Dp(float32(cfg.Window.Height))),
	)

	var ops op.Ops
	for {
		switch e := o.window.Event().(type) {
		case app.DestroyEvent:
			return e.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			o.layout(gtx)
			e.Frame(gtx.Ops)
		default:
			o.handlePlatformEvent(e)
		}
	}
}

// observe forwards outcomes to the journal and asks for a refreshed list after drops.
func (o *Orchestrator) observe(out dragdrop.Outcome) {
	o.record(out)
	if out.Phase == dragdrop.PhaseDrop || out.Phase == dragdrop.PhaseLeave {
		o.requestJournal(0)
	}
}

func (o *Orchestrator) requestJournal(prune int) {
	if o.journal == nil {
		return
	}
	if prune > 0 && !o.journal.Send(store.Request{Op: store.Prune, Limit: prune}) {
		debug.Log(debug.STORE, "journal busy, skipping prune")
	}
	o.journal.Send(store.Request{Op: store.FetchRecent, Limit: journalRows})
}

func (o *Orchestrator) processEvents() {
	for {
		select {
		case <-o.ctx.Done():
			return
		case resp := <-o.journal.ResponseChan:
			o.handleStoreResponse(resp)
		}
	}
}

func (o *Orchestrator) handleStoreResponse(resp store.Response) {
	if resp.Err != nil {
		o.log.Error("journal request failed", "op", int(resp.Op), "err", resp.Err)
		return
	}
	switch resp.Op {
	case store.FetchRecent:
		o.mu.Lock()
		o.entries = resp.Entries
		o.mu.Unlock()
		o.window.Invalidate()
	case store.Prune:
		debug.Log(debug.STORE, "pruned %d journal rows", resp.Removed)
	}
}

func (o *Orchestrator) applyConfig(cfg config.Config) {
	logging.SetLevel(cfg.Logging.Level)
	o.zone.SetAccept(cfg.Effects)
	o.mu.Lock()
	o.lastReload = time.Now()
	o.mu.Unlock()
	o.log.Info("config reloaded", "path", o.cfg.Path(), "level", cfg.Logging.Level)
	o.window.Invalidate()
}

// startNative hands the window handle to the platform listener once the OS provides it.
func (o *Orchestrator) startNative(handle uintptr) {
	errc := initializeNative(o.ctx, o.dispatcher, handle)
	go func() {
		err := <-errc
		o.mu.Lock()
		o.nativeErr = err
		o.nativeUp = err == nil
		o.mu.Unlock()
		switch {
		case errors.Is(err, platform.ErrUnsupported):
			o.log.Info("native drag-and-drop not available on this platform")
		case err != nil:
			o.log.Error("native drag-and-drop unavailable", "err", err)
		default:
			o.log.Info("native drag-and-drop registered")
		}
		o.window.Invalidate()
	}()
}

func Main(cfgPath string, debug bool) {
	go func() {
		o := NewOrchestrator(cfgPath, debug)
		if err := o.Run(); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
}
