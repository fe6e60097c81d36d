package view

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/soocke/pixel-overlay-go/domain/capture"
	"github.com/soocke/pixel-overlay-go/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

const overlayTitle = "pixel-overlay"

var transparentKeyHex = images.Hex(images.TransparentKey)

// OverlayWindow is a borderless, always-on-top toplevel covering the
// capture region. It shows the rendered overlay as a photo image; keyed
// pixels are transparent so only boxes and skeleton lines are visible.
type OverlayWindow struct {
	logger *slog.Logger
	region capture.Region
	win    *ToplevelWidget
	label  *LabelWidget
	photo  *Img
}

func NewOverlayWindow(logger *slog.Logger, region capture.Region) *OverlayWindow {
	return &OverlayWindow{logger: logger, region: region}
}

// Build creates the toplevel. Must run on the Tk thread.
func (w *OverlayWindow) Build() {
	if w.win != nil {
		return
	}
	win := App.Toplevel(Borderwidth(0), Background(transparentKeyHex))
	win.WmTitle(overlayTitle)
	WmGeometry(win.Window, fmt.Sprintf("%dx%d+%d+%d", w.region.Width, w.region.Height, w.region.Left, w.region.Top))
	WmAttributes(win.Window, "-topmost", 1)
	WmAttributes(win.Window, "-toolwindow", true)
	WmAttributes(win.Window, "-transparentcolor", transparentKeyHex)
	w.label = win.Label(Borderwidth(0), Background(transparentKeyHex))
	Grid(w.label, Row(0), Column(0), Sticky("nsew"))
	w.win = win

	// The native window only exists once Tk has mapped it.
	TclAfter(200*time.Millisecond, func() {
		if err := makeClickThrough(overlayTitle); err != nil && w.logger != nil {
			w.logger.Warn("overlay click-through unavailable", "error", err)
		}
	})
}

// ShowOverlay replaces the displayed image. Must run on the Tk thread.
func (w *OverlayWindow) ShowOverlay(png []byte) {
	if w.label == nil || len(png) == 0 {
		return
	}
	// Delete the previous photo to avoid retaining obsolete pixel buffers.
	if w.photo != nil {
		w.photo.Delete()
	}
	w.photo = NewPhoto(Data(png))
	w.label.Configure(Image(w.photo))
}

func (w *OverlayWindow) Destroy() {
	if w.win != nil {
		Destroy(w.win)
		w.win = nil
		w.label = nil
	}
}
