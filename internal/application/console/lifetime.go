package console

import (
	"context"
	"errors"
)

// ErrDisposed is returned when a controller is used after it was unmounted.
// Results of fetches that complete after disposal are dropped with this error.
var ErrDisposed = errors.New("console: controller disposed")

// lifetime is the cancellation scope of one mounted controller.
type lifetime struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func newLifetime() lifetime {
	ctx, cancel := context.WithCancel(context.Background())
	return lifetime{ctx: ctx, cancel: cancel}
}

// bind derives a context that ends with either req or the lifetime.
func (l lifetime) bind(req context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(req)
	stop := context.AfterFunc(l.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (l lifetime) alive() bool {
	return l.ctx.Err() == nil
}

func (l lifetime) end() {
	l.cancel()
}
