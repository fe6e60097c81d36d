package presenter

// Loop aggregates feature presenters and drives periodic updates on the Tk
// thread.
//
// It calls Tick on the sub-presenters and invokes a scheduler callback. The
// zero value is usable (methods are nil-safe).
type Loop struct {
	Overlay  *OverlayPresenter
	Status   *StatusPresenter
	Settings *SettingsPresenter
	Schedule func()
}

func NewLoop(ov *OverlayPresenter, status *StatusPresenter, set *SettingsPresenter, schedule func()) *Loop {
	return &Loop{Overlay: ov, Status: status, Settings: set, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	l.Overlay.Tick()
	l.Status.Tick()
	l.Settings.Tick()
	if l.Schedule != nil {
		l.Schedule()
	}
}
