package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// dualHandler writes everything to the core handler and copies Error records to a second sink.
type dualHandler struct {
	coreHandler  slog.Handler
	errorHandler slog.Handler
}

func (h *dualHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.coreHandler.Enabled(ctx, lvl) || h.errorHandler.Enabled(ctx, lvl)
}

func (h *dualHandler) Handle(ctx context.Context, r slog.Record) error {
	var coreErr, fileErr error

	if h.coreHandler.Enabled(ctx, r.Level) {
		coreErr = h.coreHandler.Handle(ctx, r)
	}

	if r.Level >= slog.LevelError && h.errorHandler.Enabled(ctx, r.Level) {
		fileErr = h.errorHandler.Handle(ctx, r.Clone())
	}

	return errors.Join(coreErr, fileErr)
}

func (h *dualHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &dualHandler{
		coreHandler:  h.coreHandler.WithAttrs(attrs),
		errorHandler: h.errorHandler.WithAttrs(attrs),
	}
}

func (h *dualHandler) WithGroup(name string) slog.Handler {
	return &dualHandler{
		coreHandler:  h.coreHandler.WithGroup(name),
		errorHandler: h.errorHandler.WithGroup(name),
	}
}

// New builds the env-dependent handler over out and, when errOut is non-nil,
// duplicates Error records into it.
func New(env string, out, errOut io.Writer) *slog.Logger {
	level := slog.LevelDebug
	if env == EnvProd {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var core slog.Handler
	switch env {
	case EnvDev:
		core = slog.NewJSONHandler(out, opts)
	default:
		core = slog.NewTextHandler(out, opts)
	}

	if errOut == nil {
		return slog.New(core)
	}

	return slog.New(&dualHandler{
		coreHandler:  core,
		errorHandler: slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: slog.LevelError}),
	})
}

// Setup logs to stdout and appends errors to errorsPath. If the file cannot be
// opened the logger falls back to stdout only.
func Setup(env, errorsPath string) *slog.Logger {
	errorFile, err := os.OpenFile(errorsPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log := New(env, os.Stdout, nil)
		log.Warn("cannot open error log file", slog.String("path", errorsPath), slog.String("error", err.Error()))
		return log
	}

	return New(env, os.Stdout, errorFile)
}
