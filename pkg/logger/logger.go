package logger

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// New creates a structured slog.Logger based on the provided level string.
// Logs go to the console as text and to logs/info.log and logs/error.log as JSON.
func New(level string) (*slog.Logger, error) {
	handlerLevel, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll("logs", 0755); err != nil {
		return nil, err
	}

	errorFile, err := os.OpenFile(filepath.Join("logs", "error.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, err
	}

	infoFile, err := os.OpenFile(filepath.Join("logs", "info.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, err
	}

	consoleHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: handlerLevel})
	infoFileHandler := slog.NewJSONHandler(infoFile, &slog.HandlerOptions{Level: handlerLevel})
	errorFileHandler := slog.NewJSONHandler(errorFile, &slog.HandlerOptions{Level: slog.LevelError})

	handler := newRoutingHandler(handlerLevel, consoleHandler, infoFileHandler, errorFileHandler)
	return slog.New(handler), nil
}

// routingHandler fans records out to the console and file handlers.
type routingHandler struct {
	level    slog.Leveler
	console  slog.Handler
	infoFile slog.Handler
	errFile  slog.Handler
}

func newRoutingHandler(level slog.Leveler, console, infoFile, errFile slog.Handler) *routingHandler {
	return &routingHandler{
		level:    level,
		console:  console,
		infoFile: infoFile,
		errFile:  errFile,
	}
}

func (h *routingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *routingHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.console.Handle(ctx, r); err != nil {
		return err
	}

	if err := h.infoFile.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= slog.LevelError {
		return h.errFile.Handle(ctx, r)
	}

	return nil
}

func (h *routingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &routingHandler{
		level:    h.level,
		console:  h.console.WithAttrs(attrs),
		infoFile: h.infoFile.WithAttrs(attrs),
		errFile:  h.errFile.WithAttrs(attrs),
	}
}

func (h *routingHandler) WithGroup(name string) slog.Handler {
	return &routingHandler{
		level:    h.level,
		console:  h.console.WithGroup(name),
		infoFile: h.infoFile.WithGroup(name),
		errFile:  h.errFile.WithGroup(name),
	}
}

func parseLevel(level string) (slog.Leveler, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return nil, errors.New("invalid log level")
	}
}
