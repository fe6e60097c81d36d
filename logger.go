package main

import (
	"io"
	"log/slog"

	"github.com/google/uuid"
)

// NewLogger returns a structured JSON slog.Logger with the given level. Every
// record carries the session id so logs from concurrent runs can be told
// apart.
func NewLogger(w io.Writer, level slog.Leveler) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("session", uuid.NewString())
}
