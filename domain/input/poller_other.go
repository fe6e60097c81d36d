//go:build !windows

package input

import (
	"errors"
	"log/slog"

	"github.com/soocke/pixel-overlay-go/domain/trigger"
)

func NewAsyncKeyPoller(*slog.Logger, *trigger.Flags, *Keymap) (Poller, error) {
	return nil, errors.New("input: async key polling requires windows")
}
