package main

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// background tracks startup jobs so shutdown can wait for them before the
// resources they use are closed.
type background struct {
	wg     sync.WaitGroup
	logger *zap.Logger
}

func newBackground(logger *zap.Logger) *background {
	return &background{logger: logger}
}

// Go runs fn in its own goroutine. Failures caused by ctx ending are logged
// as interruptions, not errors.
func (b *background) Go(ctx context.Context, name string, fn func(context.Context) error) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		err := fn(ctx)
		switch {
		case err == nil:
		case ctx.Err() != nil:
			b.logger.Info(name+" interrupted by shutdown", zap.Error(err))
		default:
			b.logger.Error(name+" failed", zap.Error(err))
		}
	}()
}

func (b *background) Wait() {
	b.wg.Wait()
}
