package pool

import "sync"

var (
	globalOnce sync.Once
	globalPool *MessagePool
)

// InitializeGlobalPool sets up the process-wide pool with cfg. Only
// the first call takes effect; later calls are no-ops, matching the
// reference implementation's call_once semantics.
func InitializeGlobalPool(cfg Config) {
	globalOnce.Do(func() {
		globalPool = New(cfg)
	})
}

// GetPooledMessage returns a Handle from the process-wide global pool,
// lazily initializing it with DefaultConfig() on first access if
// InitializeGlobalPool was never called.
func GetPooledMessage() *Handle {
	globalOnce.Do(func() {
		globalPool = New(DefaultConfig())
	})
	return globalPool.Get()
}
