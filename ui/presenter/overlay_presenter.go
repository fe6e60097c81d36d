package presenter

// OverlayView shows an encoded overlay image. Called on the Tk thread.
type OverlayView interface {
	ShowOverlay(png []byte)
}

// OverlayPresenter copies new frames from the slot into the view.
type OverlayPresenter struct {
	slot  *FrameSlot
	view  OverlayView
	shown uint64
}

func NewOverlayPresenter(slot *FrameSlot, view OverlayView) *OverlayPresenter {
	return &OverlayPresenter{slot: slot, view: view}
}

func (p *OverlayPresenter) Tick() {
	if p == nil || p.slot == nil || p.view == nil {
		return
	}
	png, seq, ok := p.slot.Take(p.shown)
	if !ok {
		return
	}
	p.shown = seq
	p.view.ShowOverlay(png)
}
