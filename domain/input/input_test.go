package input

import (
	"log/slog"
	"testing"

	gohook "github.com/robotn/gohook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/pixel-overlay-go/domain/geometry"
	"github.com/soocke/pixel-overlay-go/domain/settings"
	"github.com/soocke/pixel-overlay-go/domain/trigger"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestParseVK(t *testing.T) {
	cases := []struct {
		in   string
		want uint16
		ok   bool
	}{
		{"F1", 0x70, true},
		{"f3", 0x72, true},
		{"F12", 0x7B, true},
		{"F24", 0x87, true},
		{"F25", 0, false},
		{"R", 'R', true},
		{"7", '7', true},
		{"space", 0x20, true},
		{"mouse5", 0x06, true},
		{"", 0, false},
		{"FOO", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseVK(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestKeymap(t *testing.T) {
	m, err := NewKeymap(settings.Bindings{SnapBodyKey: "F1", SnapHeadKey: "??"})
	assert.Error(t, err)
	assert.Equal(t, []geometry.Kind{geometry.KindBody}, m.LookupEvent(59, 0))
	assert.Empty(t, m.LookupEvent(60, 0))

	require.NoError(t, m.Set(settings.Bindings{SnapBodyKey: "F1", SnapHeadKey: "F2"}))
	assert.Equal(t, []geometry.Kind{geometry.KindHead}, m.LookupEvent(60, 0))
}

func TestKeymap_FollowsStore(t *testing.T) {
	store := settings.NewStore(nil, settings.DefaultOverlay(), settings.DefaultBindings())
	m, err := NewKeymap(store.Snapshot().Bindings)
	require.NoError(t, err)
	stop := m.Follow(discardLogger, store)
	defer stop()
	store.SetBindings(settings.Bindings{SnapBodyKey: "Q", SnapHeadKey: "E"})
	assert.Equal(t, []geometry.Kind{geometry.KindBody}, m.LookupEvent(16, 0))
	assert.Empty(t, m.LookupEvent(59, 0))
}

func TestStatePoller_EdgeTriggered(t *testing.T) {
	flags := trigger.NewFlags()
	m, err := NewKeymap(settings.DefaultBindings())
	require.NoError(t, err)
	down := map[uint16]bool{}
	p := NewStatePoller(discardLogger, flags, m, func(vk uint16) bool { return down[vk] })

	p.Poll()
	assert.False(t, flags.IsSet(geometry.KindBody))

	down[0x70] = true
	p.Poll()
	require.True(t, flags.IsSet(geometry.KindBody))
	tok, _ := flags.Pending(geometry.KindBody)
	flags.Consume(tok)

	// still held: no new latch
	p.Poll()
	p.Poll()
	assert.False(t, flags.IsSet(geometry.KindBody))

	// release and press again
	down[0x70] = false
	p.Poll()
	down[0x70] = true
	p.Poll()
	assert.True(t, flags.IsSet(geometry.KindBody))
	assert.False(t, flags.IsSet(geometry.KindHead))
}

func TestHookListener_HandleIgnoresRepeat(t *testing.T) {
	flags := trigger.NewFlags()
	m, err := NewKeymap(settings.DefaultBindings())
	require.NoError(t, err)
	h := NewHookListener(discardLogger, flags, m)

	// F2: hook keycode 60, Windows VK 0x71
	f2 := gohook.Event{Keycode: 60, Rawcode: 0x71}
	h.handle(f2, true)
	tok, ok := flags.Pending(geometry.KindHead)
	require.True(t, ok)
	flags.Consume(tok)
	h.handle(f2, true) // auto-repeat
	assert.False(t, flags.IsSet(geometry.KindHead))
	h.handle(f2, false)
	h.handle(f2, true)
	assert.True(t, flags.IsSet(geometry.KindHead))
}

func TestKeymap_LookupEventByPlatform(t *testing.T) {
	defer func(v bool) { rawcodeIsVK = v }(rawcodeIsVK)
	m, err := NewKeymap(settings.Bindings{SnapBodyKey: "R", SnapHeadKey: "F13"})
	require.NoError(t, err)

	// X11 reports keysym 0x72 for "r"; only the keycode may match.
	rawcodeIsVK = false
	assert.Equal(t, []geometry.Kind{geometry.KindBody}, m.LookupEvent(19, 0x72))
	assert.Empty(t, m.LookupEvent(0, 0x52), "rawcode ignored off Windows")
	assert.Empty(t, m.LookupEvent(0, 0x7C), "F13 has no hook keycode")

	rawcodeIsVK = true
	assert.Equal(t, []geometry.Kind{geometry.KindBody}, m.LookupEvent(0, 0x52))
	assert.Equal(t, []geometry.Kind{geometry.KindHead}, m.LookupEvent(0, 0x7C))
}

func TestHookKeycode(t *testing.T) {
	code, ok := HookKeycode(" F1 ")
	assert.True(t, ok)
	assert.Equal(t, uint16(59), code)
	_, ok = HookKeycode("CAPSLOCK")
	assert.False(t, ok)
}
