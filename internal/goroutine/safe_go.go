package goroutine

import (
	"context"
	"runtime/debug"

	"github.com/annaclean/cleanmarket-backend/internal/logger"
)

// SafeGo запускает горутину с перехватом panic.
func SafeGo(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.WithComponent("goroutine").Errorf("panic: %v\n%s", r, debug.Stack())
			}
		}()
		fn()
	}()
}

// SafeGoWithContext запускает горутину с контекстом и перехватом panic.
func SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.WithComponent("goroutine").Errorf("panic: %v\n%s", r, debug.Stack())
			}
		}()
		fn(ctx)
	}()
}
