package presenter

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/soocke/pixel-overlay-go/domain/geometry"
	"github.com/soocke/pixel-overlay-go/domain/settings"
	"github.com/soocke/pixel-overlay-go/domain/trigger"
)

// SettingsView is the overlay settings form.
type SettingsView interface {
	OverlayForm() (confidence, thickness, lod string)
	SetOverlayForm(o settings.Overlay)
	SetBindings(b settings.Bindings)
	SetFormError(msg string)
}

// SettingsPresenter applies form edits to the settings store and keeps the
// form in sync with changes made elsewhere (HTTP, config reload).
type SettingsPresenter struct {
	store  *settings.Store
	flags  *trigger.Flags
	view   SettingsView
	logger *slog.Logger
	// Persist, if set, is called after every applied edit.
	Persist func(settings.Snapshot) error

	shown uint64
}

func NewSettingsPresenter(logger *slog.Logger, store *settings.Store, flags *trigger.Flags, view SettingsView) *SettingsPresenter {
	return &SettingsPresenter{store: store, flags: flags, view: view, logger: logger}
}

// Apply parses the form and publishes it. Out of range values are clamped by
// the store; unparsable ones leave the settings untouched.
func (p *SettingsPresenter) Apply() {
	if p == nil || p.store == nil || p.view == nil {
		return
	}
	conf, thick, lod := p.view.OverlayForm()
	o, err := parseOverlay(conf, thick, lod, p.store.Snapshot().Overlay.LevelOfDetail)
	if err != nil {
		p.view.SetFormError(err.Error())
		return
	}
	p.view.SetFormError("")
	snap := p.store.SetOverlay(o)
	if p.Persist != nil {
		if err := p.Persist(snap); err != nil && p.logger != nil {
			p.logger.Warn("persist settings failed", "error", err)
		}
	}
}

// Snap latches the trigger for k, as a bound key would.
func (p *SettingsPresenter) Snap(k geometry.Kind) {
	if p == nil || p.flags == nil {
		return
	}
	p.flags.Set(k)
}

// Tick refreshes the form and the snap key labels when the store has a
// newer snapshot.
func (p *SettingsPresenter) Tick() {
	if p == nil || p.store == nil || p.view == nil {
		return
	}
	snap := p.store.Snapshot()
	if snap.Version == p.shown {
		return
	}
	p.shown = snap.Version
	p.view.SetOverlayForm(snap.Overlay)
	p.view.SetBindings(snap.Bindings)
}

// parseOverlay reads the form fields. An empty lod (no combobox selection)
// keeps cur.
func parseOverlay(conf, thick, lod string, cur settings.LevelOfDetail) (settings.Overlay, error) {
	var o settings.Overlay
	c, err := strconv.ParseFloat(strings.TrimSpace(conf), 64)
	if err != nil {
		return o, fmt.Errorf("confidence: not a number")
	}
	t, err := strconv.Atoi(strings.TrimSpace(thick))
	if err != nil {
		return o, fmt.Errorf("line thickness: not an integer")
	}
	o.DetectionConfidence = c
	o.LineThickness = t
	o.LevelOfDetail = cur
	if strings.TrimSpace(lod) != "" {
		o.LevelOfDetail = settings.ParseLevelOfDetail(lod)
	}
	return o, nil
}
