// Package action moves the OS pointer. Backends share the Pointer interface
// so the dispatcher never depends on a platform API.
package action

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"
)

// ErrAction matches every error returned by a Pointer.
var ErrAction = errors.New("action error")

// Error is the ActionError of one failed pointer move.
type Error struct {
	Target image.Point
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("move pointer to %v: %v", e.Target, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrAction }

// Pointer moves the pointer to an absolute screen position.
type Pointer interface {
	MoveTo(ctx context.Context, p image.Point) error
}

// Backend names accepted by NewPointer.
const (
	BackendWin32   = "win32"
	BackendRobotgo = "robotgo"
	BackendNoop    = "noop"
)

// NewPointer returns the pointer backend registered under name. An empty
// name selects the platform default.
func NewPointer(logger *slog.Logger, name string) (Pointer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return defaultPointer(logger), nil
	case BackendWin32:
		return newWin32Pointer()
	case BackendRobotgo:
		return &RobotgoPointer{}, nil
	case BackendNoop:
		return &NoopPointer{logger: logger}, nil
	default:
		return nil, fmt.Errorf("action: unknown pointer backend %q", name)
	}
}

// NoopPointer logs moves without touching the pointer. Used for dry runs.
type NoopPointer struct {
	logger *slog.Logger
}

func NewNoopPointer(logger *slog.Logger) *NoopPointer { return &NoopPointer{logger: logger} }

func (n *NoopPointer) MoveTo(ctx context.Context, p image.Point) error {
	if err := ctx.Err(); err != nil {
		return &Error{Target: p, Err: err}
	}
	if n.logger != nil {
		n.logger.Info("pointer move (dry run)", "x", p.X, "y", p.Y)
	}
	return nil
}
