package safe

import (
	"context"
	"io"
	"log/slog"

	"github.com/paulmccormack00/risk-assessments/pkg/utils/logging"
)

// Close closes closer and logs any error with the resource name. Nil closers
// are ignored.
func Close(ctx context.Context, name string, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Error("Failed to close", slog.String("resource", name), slog.Any("error", err))
	}
}

// Write writes data to w and logs any error. Nil writers are ignored.
func Write(ctx context.Context, w io.Writer, data []byte) {
	if w == nil {
		return
	}
	if _, err := w.Write(data); err != nil {
		logging.From(ctx).Error("Failed to write", slog.Any("error", err))
	}
}
