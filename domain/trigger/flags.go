// Package trigger latches user intents ("snap to body") and fires them
// against the first matching derived region.
package trigger

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/soocke/pixel-overlay-go/domain/geometry"
)

// Kinds lists every trigger in dispatch order.
var Kinds = []geometry.Kind{geometry.KindBody, geometry.KindHead}

// Name returns the wire name of the trigger for kind.
func Name(k geometry.Kind) string {
	return "snap_" + k.String()
}

// ParseKind maps "snap_body", "body", "snap_head" or "head" to a kind.
func ParseKind(s string) (geometry.Kind, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "snap_") {
	case "body":
		return geometry.KindBody, nil
	case "head":
		return geometry.KindHead, nil
	}
	return 0, fmt.Errorf("unknown trigger %q", s)
}

// flag counts sets and the set count already consumed. It is pending while
// sets is ahead of consumed, so a set racing a consume is never lost.
type flag struct {
	sets     atomic.Uint64
	consumed atomic.Uint64
}

// Token identifies the set generation observed by Pending.
type Token struct {
	Kind geometry.Kind
	gen  uint64
}

// Flags holds one latch per kind. Safe for concurrent use.
type Flags struct {
	flags [2]flag
}

func NewFlags() *Flags { return &Flags{} }

func (f *Flags) get(k geometry.Kind) *flag {
	if int(k) < 0 || int(k) >= len(f.flags) {
		return nil
	}
	return &f.flags[k]
}

// Set latches kind. Repeated sets before a consume collapse into one action.
func (f *Flags) Set(k geometry.Kind) {
	if fl := f.get(k); fl != nil {
		fl.sets.Add(1)
	}
}

// Pending reports whether kind is latched and returns the token to consume.
func (f *Flags) Pending(k geometry.Kind) (Token, bool) {
	fl := f.get(k)
	if fl == nil {
		return Token{}, false
	}
	s := fl.sets.Load()
	if s == fl.consumed.Load() {
		return Token{}, false
	}
	return Token{Kind: k, gen: s}, true
}

// IsSet reports whether kind is latched.
func (f *Flags) IsSet(k geometry.Kind) bool {
	_, ok := f.Pending(k)
	return ok
}

// Consume marks every set up to t as handled. Sets that arrived after t was
// taken stay pending.
func (f *Flags) Consume(t Token) {
	fl := f.get(t.Kind)
	if fl == nil {
		return
	}
	for {
		c := fl.consumed.Load()
		if c >= t.gen || fl.consumed.CompareAndSwap(c, t.gen) {
			return
		}
	}
}

// Clear drops any pending set of kind.
func (f *Flags) Clear(k geometry.Kind) {
	if fl := f.get(k); fl != nil {
		f.Consume(Token{Kind: k, gen: fl.sets.Load()})
	}
}
