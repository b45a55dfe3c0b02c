package async

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/utils/errutil"
	"github.com/paulmccormack00/risk-assessments/pkg/utils/logging"
)

// Dispatch runs handler in a new goroutine with a context detached from
// ctx's cancellation but carrying its values (logger, auth token). Errors and
// panics are logged and reported. The returned channel is closed when the
// handler finishes.
func Dispatch(ctx context.Context, name string, handler func(ctx context.Context) error) <-chan struct{} {
	bgCtx := context.WithoutCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				logging.From(bgCtx).Error("panic in async handler", "name", name, "panic", r)
			}
		}()

		if err := handler(bgCtx); err != nil {
			_ = errutil.Handle(bgCtx, goerr.Wrap(err, "async handler failed", goerr.V("name", name)), name)
		}
	}()

	return done
}
