package auth

import (
	"sync"

	"go.uber.org/zap"
)

// observers is the ordered subscriber list of one authenticator. Callbacks are
// appended under lock and invoked over a snapshot, so a registration racing a
// notification is neither lost nor invoked twice.
type observers struct {
	mu        sync.RWMutex
	callbacks []func()
	logger    *zap.Logger
}

func (o *observers) register(cb func()) {
	if cb == nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.callbacks = append(o.callbacks, cb)
}

// notify invokes every callback in registration order.
func (o *observers) notify() {
	o.mu.RLock()
	snapshot := append([]func(){}, o.callbacks...)
	o.mu.RUnlock()

	for i, cb := range snapshot {
		o.invoke(i, cb)
	}
}

// invoke keeps a panicking subscriber from starving the ones after it.
func (o *observers) invoke(index int, cb func()) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("auth subscriber panicked", zap.Int("subscriber", index), zap.Any("panic", r))
		}
	}()
	cb()
}
