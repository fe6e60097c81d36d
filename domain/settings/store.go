package settings

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// Listener is called after a new snapshot has been published.
type Listener func(prev, next Snapshot)

// Store publishes settings snapshots. Reads are lock free; writes are
// serialized and notify listeners synchronously on the writer's goroutine.
type Store struct {
	cur       atomic.Pointer[Snapshot]
	mu        sync.Mutex
	listeners map[int]Listener
	nextID    int
	logger    *slog.Logger
}

func NewStore(logger *slog.Logger, overlay Overlay, bindings Bindings) *Store {
	s := &Store{listeners: map[int]Listener{}, logger: logger}
	s.cur.Store(&Snapshot{Overlay: overlay.Clamp(), Bindings: bindings.Normalize(), Version: 1})
	return s
}

// Snapshot returns the current settings.
func (s *Store) Snapshot() Snapshot { return *s.cur.Load() }

func (s *Store) Version() uint64 { return s.cur.Load().Version }

// SetOverlay clamps and publishes new overlay settings.
func (s *Store) SetOverlay(o Overlay) Snapshot {
	return s.update(func(sn *Snapshot) { sn.Overlay = o.Clamp() })
}

// SetBindings normalizes and publishes new key bindings.
func (s *Store) SetBindings(b Bindings) Snapshot {
	return s.update(func(sn *Snapshot) { sn.Bindings = b.Normalize() })
}

// Update applies fn to a copy of the current snapshot, clamps the result
// and publishes it.
func (s *Store) Update(fn func(*Snapshot)) Snapshot {
	return s.update(func(sn *Snapshot) {
		fn(sn)
		sn.Overlay = sn.Overlay.Clamp()
		sn.Bindings = sn.Bindings.Normalize()
	})
}

func (s *Store) update(fn func(*Snapshot)) Snapshot {
	s.mu.Lock()
	prev := *s.cur.Load()
	next := prev
	fn(&next)
	next.Version = prev.Version + 1
	s.cur.Store(&next)
	ls := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		ls = append(ls, l)
	}
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Info("settings updated",
			"version", next.Version,
			"confidence", next.Overlay.DetectionConfidence,
			"line_thickness", next.Overlay.LineThickness,
			"lod", next.Overlay.LevelOfDetail.String(),
			"snap_body_key", next.Bindings.SnapBodyKey,
			"snap_head_key", next.Bindings.SnapHeadKey,
		)
	}
	for _, l := range ls {
		l(prev, next)
	}
	return next
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}
