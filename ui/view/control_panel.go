package view

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/soocke/pixel-overlay-go/domain/geometry"
	"github.com/soocke/pixel-overlay-go/domain/settings"
	"github.com/soocke/pixel-overlay-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

var lodNames = []string{
	settings.BoundingBoxOnly.String(),
	settings.PartialSkeleton.String(),
	settings.FullSkeleton.String(),
}

// Handlers are the user actions wired by the app.
type Handlers struct {
	OnApply      func()
	OnSnap       func(geometry.Kind)
	OnToggleDark func()
	OnExit       func()
}

// ControlPanel is the root window: loop status, overlay settings form and
// manual snap buttons.
type ControlPanel struct {
	logger *slog.Logger

	StateLabel *TLabelWidget
	StatsLabel *LabelWidget
	errLabel   *LabelWidget
	confidence *TextWidget
	thickness  *TextWidget
	lod        *TComboboxWidget
	snapBody   *TButtonWidget
	snapHead   *TButtonWidget
}

func NewControlPanel(logger *slog.Logger) *ControlPanel {
	return &ControlPanel{logger: logger}
}

// Build constructs the layout on the root window.
func (v *ControlPanel) Build(bindings settings.Bindings, h Handlers) {
	if v == nil {
		return
	}
	v.StateLabel = TLabel(Txt("State: <none>"), Style(theme.StyleStateLabel))
	Grid(v.StateLabel, Row(0), Column(0), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	v.StatsLabel = Label(Txt("Ticks: 0"), Anchor("w"))
	Grid(v.StatsLabel, Row(0), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.3m"))

	row := 1
	field := func(label string) *TextWidget {
		lbl := Label(Txt(label), Anchor("w"))
		Grid(lbl, Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := Text(Height(1), Width(10))
		Grid(w, Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		row++
		return w
	}
	v.confidence = field("Detection Confidence (0-1)")
	v.thickness = field(fmt.Sprintf("Line Thickness (%d-%d)", settings.MinLineThickness, settings.MaxLineThickness))

	Grid(Label(Txt("Level Of Detail"), Anchor("w")), Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
	v.lod = TCombobox(Values(lodNames), Width(10))
	Grid(v.lod, Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
	row++

	apply := TButton(Txt("Apply Changes"), Style(theme.StylePrimaryButton), Command(h.OnApply))
	Grid(apply, Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++
	v.errLabel = Label(Txt(""), Anchor("w"), Foreground(theme.ColorDanger))
	Grid(v.errLabel, Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"))
	row++

	btns := Frame()
	Grid(btns, Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.3m"), Pady("0.3m"))
	v.snapBody = TButton(Txt(snapLabel("Body", bindings.SnapBodyKey)), Command(func() { h.OnSnap(geometry.KindBody) }))
	Grid(v.snapBody, In(btns), Row(0), Column(0), Sticky("we"), Padx("0.2m"))
	v.snapHead = TButton(Txt(snapLabel("Head", bindings.SnapHeadKey)), Command(func() { h.OnSnap(geometry.KindHead) }))
	Grid(v.snapHead, In(btns), Row(0), Column(1), Sticky("we"), Padx("0.2m"))
	dark := TButton(Txt("Theme"), Command(h.OnToggleDark))
	Grid(dark, In(btns), Row(0), Column(2), Sticky("we"), Padx("0.2m"))
	exit := TButton(Txt("Exit"), Style(theme.StyleDangerButton), Command(h.OnExit))
	Grid(exit, In(btns), Row(0), Column(3), Sticky("we"), Padx("0.2m"))
}

func (v *ControlPanel) SetStateLabel(text string) {
	if v != nil && v.StateLabel != nil {
		v.StateLabel.Configure(Txt(text))
	}
}

func (v *ControlPanel) SetStatsLabel(text string) {
	if v != nil && v.StatsLabel != nil {
		v.StatsLabel.Configure(Txt(text))
	}
}

// OverlayForm returns the raw form values.
func (v *ControlPanel) OverlayForm() (confidence, thickness, lod string) {
	confidence = textOf(v.confidence)
	thickness = textOf(v.thickness)
	if v.lod != nil {
		if idx, err := strconv.Atoi(v.lod.Current(nil)); err == nil && idx >= 0 && idx < len(lodNames) {
			lod = lodNames[idx]
		}
	}
	return confidence, thickness, lod
}

func (v *ControlPanel) SetOverlayForm(o settings.Overlay) {
	setText(v.confidence, strconv.FormatFloat(o.DetectionConfidence, 'f', 2, 64))
	setText(v.thickness, strconv.Itoa(o.LineThickness))
	if v.lod != nil {
		v.lod.Current(int(o.LevelOfDetail))
	}
}

// SetBindings relabels the snap buttons with the current keys.
func (v *ControlPanel) SetBindings(b settings.Bindings) {
	if v == nil || v.snapBody == nil || v.snapHead == nil {
		return
	}
	v.snapBody.Configure(Txt(snapLabel("Body", b.SnapBodyKey)))
	v.snapHead.Configure(Txt(snapLabel("Head", b.SnapHeadKey)))
}

func snapLabel(what, key string) string { return "Snap " + what + " [" + key + "]" }

func (v *ControlPanel) SetFormError(msg string) {
	if v != nil && v.errLabel != nil {
		v.errLabel.Configure(Txt(msg))
	}
}

func textOf(w *TextWidget) string {
	if w == nil {
		return ""
	}
	return strings.TrimSpace(strings.Join(w.Get("1.0", END), ""))
}

func setText(w *TextWidget, s string) {
	if w == nil {
		return
	}
	w.Delete("1.0", END)
	w.Insert("1.0", s)
}
