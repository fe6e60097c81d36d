package action

import (
	"context"
	"image"

	"github.com/go-vgo/robotgo"
)

// RobotgoPointer moves the pointer through robotgo, which covers macOS and
// X11 as well as Windows.
type RobotgoPointer struct{}

func (RobotgoPointer) MoveTo(ctx context.Context, p image.Point) error {
	if err := ctx.Err(); err != nil {
		return &Error{Target: p, Err: err}
	}
	robotgo.Move(p.X, p.Y)
	return nil
}
