// Package ui runs the Tk front end: a control panel on the root window and a
// click-through overlay window over the capture region.
package ui

import (
	"context"
	"time"

	"github.com/soocke/pixel-overlay-go/app"
	"github.com/soocke/pixel-overlay-go/ui/presenter"
	"github.com/soocke/pixel-overlay-go/ui/theme"
	"github.com/soocke/pixel-overlay-go/ui/view"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// refresh is how often the Tk thread picks up new overlay frames. It
// matches the default loop period.
const refresh = 30 * time.Millisecond

// Run starts a, shows the windows and blocks until the user exits or ctx is
// cancelled.
func Run(ctx context.Context, a *app.App) error {
	c := a.C
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	theme.InitStyles()
	App.WmTitle("Pixel Overlay")
	WmGeometry(App, "+40+40")

	panel := view.NewControlPanel(c.Logger)
	ov := view.NewOverlayWindow(c.Logger, c.Region)

	status := presenter.NewStatusPresenter(c.Driver, c.Flags, panel)
	c.Driver.AddListener(status.OnState)
	set := presenter.NewSettingsPresenter(c.Logger, c.Settings, c.Flags, panel)
	if c.CfgPath != "" {
		set.Persist = c.Persist
	}

	var afterID string
	exit := func() {
		if afterID != "" {
			TclAfterCancel(afterID)
			afterID = ""
		}
		ov.Destroy()
		Destroy(App)
	}
	panel.Build(c.Settings.Snapshot().Bindings, view.Handlers{
		OnApply:      set.Apply,
		OnSnap:       set.Snap,
		OnToggleDark: func() { theme.ToggleDark() },
		OnExit:       exit,
	})
	WmProtocol(App, "WM_DELETE_WINDOW", exit)
	ov.Build()

	loop := presenter.NewLoop(presenter.NewOverlayPresenter(c.Slot, ov), status, set, nil)
	loop.Schedule = func() {
		if ctx.Err() != nil {
			exit()
			return
		}
		// Schedule the next update using TclAfter to stay on Tk's event loop thread.
		afterID = TclAfter(refresh, loop.Tick)
	}

	a.Start(ctx)
	loop.Tick()
	App.Wait()
	cancel()
	return a.Shutdown()
}
