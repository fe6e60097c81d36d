// Package theme holds the control panel palette and ttk styles.
package theme

import (
	tk "modernc.org/tk9.0"
)

// Light palette. ColorDanger is also used for form errors.
const (
	ColorBg      = "#f7f9fb"
	ColorSurface = "#ffffff"
	ColorPrimary = "#2563eb"
	ColorDanger  = "#dc2626"
	ColorAccent  = "#10b981"
	ColorText    = "#1e293b"
)

// Palette is the resolved set of colours for one mode.
type Palette struct {
	AppBg   string
	Surface string
	Primary string
	Danger  string
	Accent  string
	Text    string
}

var (
	light = Palette{AppBg: ColorBg, Surface: ColorSurface, Primary: ColorPrimary, Danger: ColorDanger, Accent: ColorAccent, Text: ColorText}
	dark  = Palette{AppBg: "#0f172a", Surface: "#1e293b", Primary: "#3b82f6", Danger: "#ef4444", Accent: "#10b981", Text: "#f1f5f9"}
)

// Style names used with Style("primary.TButton") etc.
const (
	StylePrimaryButton = "primary.TButton"
	StyleDangerButton  = "danger.TButton"
	StyleStateLabel    = "state.TLabel"
)

var darkMode bool

// PaletteFor returns the palette for the given mode.
func PaletteFor(isDark bool) Palette {
	if isDark {
		return dark
	}
	return light
}

// CurrentPalette returns colours for the current mode.
func CurrentPalette() Palette { return PaletteFor(darkMode) }

// InitStyles (re)applies styles for the current mode.
func InitStyles() { applyStyles(CurrentPalette()) }

// ToggleDark flips dark mode and reapplies styles. Returns the new mode.
func ToggleDark() bool {
	darkMode = !darkMode
	applyStyles(CurrentPalette())
	return darkMode
}

func IsDark() bool { return darkMode }

func applyStyles(p Palette) {
	_ = tk.ActivateTheme("azure light")
	tk.App.Configure(tk.Background(p.AppBg))
	tk.StyleConfigure(StylePrimaryButton, tk.Background(p.Primary), tk.Foreground("white"), tk.Padding("4p 3p"), tk.Borderwidth(1), tk.Relief("ridge"))
	tk.StyleConfigure(StyleDangerButton, tk.Background(p.Danger), tk.Foreground("white"), tk.Padding("4p 3p"), tk.Borderwidth(1), tk.Relief("ridge"))
	tk.StyleConfigure(StyleStateLabel, tk.Background(p.Accent), tk.Foreground(p.Text), tk.Padding("4p 2p"), tk.Borderwidth(1), tk.Relief("groove"))
}
