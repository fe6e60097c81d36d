package trigger

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/pixel-overlay-go/domain/action"
	"github.com/soocke/pixel-overlay-go/domain/geometry"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

type recordingPointer struct {
	mu    sync.Mutex
	moves []image.Point
	err   error
}

func (p *recordingPointer) MoveTo(_ context.Context, pt image.Point) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.moves = append(p.moves, pt)
	return p.err
}

var body = geometry.Region{Kind: geometry.KindBody, Box: image.Rect(100, 50, 300, 450)}

func TestFlags_SetConsume(t *testing.T) {
	f := NewFlags()
	assert.False(t, f.IsSet(geometry.KindBody))
	f.Set(geometry.KindBody)
	f.Set(geometry.KindBody)
	tok, ok := f.Pending(geometry.KindBody)
	require.True(t, ok)
	f.Consume(tok)
	assert.False(t, f.IsSet(geometry.KindBody), "sets before the check collapse into one")
	assert.False(t, f.IsSet(geometry.KindHead))
}

func TestFlags_SetRacingConsumeIsKept(t *testing.T) {
	f := NewFlags()
	f.Set(geometry.KindHead)
	tok, ok := f.Pending(geometry.KindHead)
	require.True(t, ok)
	// poller sets again between the check and the consume
	f.Set(geometry.KindHead)
	f.Consume(tok)
	assert.True(t, f.IsSet(geometry.KindHead))
}

func TestFlags_StaleTokenDoesNotRewind(t *testing.T) {
	f := NewFlags()
	f.Set(geometry.KindBody)
	old, _ := f.Pending(geometry.KindBody)
	f.Set(geometry.KindBody)
	f.Clear(geometry.KindBody)
	f.Consume(old)
	assert.False(t, f.IsSet(geometry.KindBody))
}

func TestFlags_ConcurrentSets(t *testing.T) {
	f := NewFlags()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.Set(geometry.KindBody)
			if tok, ok := f.Pending(geometry.KindBody); ok {
				f.Consume(tok)
			}
		}()
	}
	wg.Wait()
	// whatever interleaving happened, one final set must be observable
	f.Set(geometry.KindBody)
	assert.True(t, f.IsSet(geometry.KindBody))
}

func TestDispatch_FiresOncePerSet(t *testing.T) {
	f := NewFlags()
	p := &recordingPointer{}
	d := NewDispatcher(discardLogger, f, p)
	origin := image.Pt(10, 20)

	f.Set(geometry.KindBody)
	fired := d.Dispatch(context.Background(), []geometry.Region{body}, origin)
	require.Len(t, fired, 1)
	assert.Equal(t, []image.Point{{210, 270}}, p.moves)
	assert.False(t, f.IsSet(geometry.KindBody))

	// no new set: matching detection does not fire
	assert.Empty(t, d.Dispatch(context.Background(), []geometry.Region{body}, origin))
	assert.Len(t, p.moves, 1)
}

func TestDispatch_NoDetectionKeepsFlag(t *testing.T) {
	f := NewFlags()
	p := &recordingPointer{}
	d := NewDispatcher(discardLogger, f, p)

	f.Set(geometry.KindHead)
	assert.Empty(t, d.Dispatch(context.Background(), []geometry.Region{body}, image.Point{}))
	assert.True(t, f.IsSet(geometry.KindHead))
	assert.Empty(t, p.moves)

	head := geometry.Region{Kind: geometry.KindHead, Box: image.Rect(125, 50, 175, 100)}
	fired := d.Dispatch(context.Background(), []geometry.Region{body, head}, image.Point{})
	require.Len(t, fired, 1)
	assert.Equal(t, geometry.KindHead, fired[0].Kind)
	assert.Equal(t, image.Pt(150, 75), p.moves[0])
	assert.False(t, f.IsSet(geometry.KindHead))
}

func TestDispatch_FirstInDetectionOrder(t *testing.T) {
	f := NewFlags()
	p := &recordingPointer{}
	d := NewDispatcher(discardLogger, f, p)
	second := geometry.Region{Kind: geometry.KindBody, Box: image.Rect(0, 0, 10, 10)}

	f.Set(geometry.KindBody)
	d.Dispatch(context.Background(), []geometry.Region{body, second}, image.Point{})
	require.Len(t, p.moves, 1)
	assert.Equal(t, image.Pt(200, 250), p.moves[0])
}

func TestDispatch_ActionErrorStillConsumes(t *testing.T) {
	f := NewFlags()
	p := &recordingPointer{err: errors.New("access denied")}
	d := NewDispatcher(discardLogger, f, p)

	f.Set(geometry.KindBody)
	fired := d.Dispatch(context.Background(), []geometry.Region{body}, image.Point{})
	require.Len(t, fired, 1)
	assert.ErrorIs(t, fired[0].Err, action.ErrAction)
	assert.False(t, f.IsSet(geometry.KindBody))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("snap_head")
	require.NoError(t, err)
	assert.Equal(t, geometry.KindHead, k)
	k, err = ParseKind("BODY")
	require.NoError(t, err)
	assert.Equal(t, geometry.KindBody, k)
	_, err = ParseKind("feet")
	assert.Error(t, err)
	assert.Equal(t, "snap_head", Name(geometry.KindHead))
}
