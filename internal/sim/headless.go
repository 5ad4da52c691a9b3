package sim

import (
	"context"
	"errors"
	"time"

	"github.com/calder/browsershell/internal/chrome"
	"github.com/calder/browsershell/internal/config"
	"github.com/calder/browsershell/internal/geometry"
	"github.com/calder/browsershell/internal/logging"
	"github.com/calder/browsershell/internal/mainloop"
	"github.com/calder/browsershell/internal/shell"
)

// HeadlessOptions tunes a scripted run.
type HeadlessOptions struct {
	// Duration bounds the run. Zero means 5 seconds.
	Duration time.Duration

	// Interval is the frame step; zero means the 60Hz default.
	Interval time.Duration
}

// headlessContent discards content pushes; a headless run has no page.
type headlessContent struct{}

func (headlessContent) SetTopInset(float64)   {}
func (headlessContent) SetChromeVisible(bool) {}

// headlessHost funnels render requests through the coalescer so a burst
// of same-frame requests kicks the loop once.
type headlessHost struct {
	coalescer *mainloop.Coalescer
	loop      *mainloop.FrameLoop
	renders   int
}

func (h *headlessHost) RequestRender() {
	h.coalescer.Post(mainloop.KeyRender, func() {
		h.renders++
		h.loop.Kick()
	})
}

// RunHeadless exercises the full pipeline without a terminal: it stands
// up the controller and orchestrator, replays a fixed interaction
// script, and drives frames with a FrameLoop until the duration
// elapses. Useful for smoke-testing on hosts without a tty.
func RunHeadless(ctx context.Context, cfg *config.Config, opts HeadlessOptions) error {
	log := logging.FromContext(ctx).With().Str("component", "sim-headless").Logger()

	duration := opts.Duration
	if duration <= 0 {
		duration = 5 * time.Second
	}

	ctrl := chrome.NewController(ctx, chrome.Options{
		HeightPx:             cfg.Chrome.HeightPx,
		MinShowDuration:      cfg.Chrome.MinShowDuration(),
		MaxAnimationDuration: cfg.Chrome.MaxAnimationDuration(),
		StartHidden:          cfg.Chrome.StartHidden,
	})

	host := &headlessHost{}
	host.coalescer = mainloop.NewCoalescer(func(fn func()) { fn() })
	defer host.coalescer.Destroy()

	orch := shell.New(ctx)
	script := newHeadlessScript(orch, ctrl)
	start := time.Now()

	// The loop must exist before Init and the initial viewport push:
	// both fire render requests, and a render request kicks the loop.
	loop := mainloop.NewFrameLoop(opts.Interval, func(now time.Time, dt time.Duration) bool {
		script.advance(now.Sub(start))
		return orch.Update(now, dt)
	})
	host.loop = loop

	orch.Init(ctx, shell.Params{
		Host:        host,
		Content:     headlessContent{},
		Chrome:      ctrl,
		Factory:     &shell.DefaultFactory{},
		DefaultKind: shell.LayoutKind(cfg.Shell.DefaultLayout),
		DPScale:     cfg.Display.DPScale,
	})
	orch.OnViewportChanged(geometry.NewRect(0, 0, 1080, 1920), geometry.Rect{}, 0)

	runCtx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()

	err := loop.Run(runCtx)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	log.Info().
		Int("renders", host.renders).
		Int("transitions", len(ctrl.Transitions())).
		Str("final_layout", string(orch.ActiveKind())).
		Msg("headless run complete")
	return nil
}

// headlessScript replays a canned interaction: show the default layout,
// flash the chrome, scroll it away, switch to the tab switcher, and
// hide back to browsing.
type headlessScript struct {
	orch *shell.Orchestrator
	ctrl *chrome.Controller
	step int
}

func newHeadlessScript(orch *shell.Orchestrator, ctrl *chrome.Controller) *headlessScript {
	return &headlessScript{orch: orch, ctrl: ctrl}
}

func (s *headlessScript) advance(elapsed time.Duration) {
	steps := []struct {
		at  time.Duration
		run func()
	}{
		{0, func() { s.orch.RequestShow(shell.KindBrowsing, false); s.ctrl.ShowTransient() }},
		{500 * time.Millisecond, func() { s.ctrl.OnContentPush(-s.ctrl.Height(), s.ctrl.Height()) }},
		{1500 * time.Millisecond, func() { s.orch.RequestShow(shell.KindTabSwitcher, true) }},
		{3 * time.Second, func() { s.orch.RequestHide(shell.KindBrowsing, 0) }},
	}

	for s.step < len(steps) && elapsed >= steps[s.step].at {
		steps[s.step].run()
		s.step++
	}
}
