// Package pool implements a bounded, FIFO-ordered object pool of
// reusable sip.Message shells, adapted from the teacher's own
// sync.Mutex-guarded connection pool (sip.ConnectionPool) rather than
// relying on sync.Pool, whose unordered-reuse and no-size-bound
// semantics don't satisfy the strict max_size/FIFO contract required
// here.
package pool

import (
	"container/list"
	"sync"

	satori "github.com/satori/go.uuid"

	"github.com/sbctools/sipcore/sip"
)

// Config controls initial sizing and the hard cap on retained shells.
type Config struct {
	InitialSize int
	MaxSize     int
	PreAllocate bool
}

// DefaultConfig matches the reference pool's defaults.
func DefaultConfig() Config {
	return Config{InitialSize: 50, MaxSize: 200, PreAllocate: true}
}

// MessagePool is a mutex-guarded FIFO queue of *sip.Message shells.
type MessagePool struct {
	mu      sync.Mutex
	queue   *list.List
	maxSize int
}

// New builds a MessagePool per cfg, pre-allocating InitialSize shells
// when PreAllocate is set.
func New(cfg Config) *MessagePool {
	maxSize := cfg.MaxSize
	if maxSize == 0 {
		maxSize = 1000
	}
	p := &MessagePool{
		queue:   list.New(),
		maxSize: maxSize,
	}
	if cfg.PreAllocate {
		for i := 0; i < cfg.InitialSize; i++ {
			p.queue.PushBack(&sip.Message{})
		}
	}
	return p
}

// Get pops the oldest shell off the queue and resets it, or constructs
// a fresh one if the pool is empty. The returned Handle must be
// released back to the pool by the caller — Go has no destructors, so
// callers are expected to `defer h.Release()` where the reference
// implementation relies on RAII.
func (p *MessagePool) Get() *Handle {
	p.mu.Lock()
	front := p.queue.Front()
	var msg *sip.Message
	if front != nil {
		p.queue.Remove(front)
		msg = front.Value.(*sip.Message)
		*msg = sip.Message{}
	} else {
		msg = &sip.Message{}
	}
	p.mu.Unlock()

	return &Handle{msg: msg, pool: p, debugID: satori.Must(satori.NewV4()).String()}
}

// Size returns the number of shells currently queued.
func (p *MessagePool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.Len()
}

func (p *MessagePool) release(msg *sip.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.queue.Len() < p.maxSize {
		p.queue.PushBack(msg)
	}
}

// Handle is an RAII-flavored wrapper around a pooled *sip.Message.
// Release must be called exactly once; Take detaches the message from
// pool bookkeeping entirely (it will not be returned on Release).
type Handle struct {
	msg  *sip.Message
	pool *MessagePool

	// debugID is a per-checkout correlation id, unrelated to anything
	// on the wire, for tying log lines from the same pooled shell's
	// lifetime together across a get/release cycle.
	debugID string
}

// Message returns the underlying shell for reading or mutation.
func (h *Handle) Message() *sip.Message {
	return h.msg
}

// DebugID returns this checkout's correlation id, for log lines.
func (h *Handle) DebugID() string {
	return h.debugID
}

// ParseFromStr replaces the shell's source buffer with data and
// reparses it in place.
func (h *Handle) ParseFromStr(data string, limits sip.ParserLimits, validateRequest bool) error {
	parsed, err := sip.ParseMessage([]byte(data), limits, validateRequest)
	if err != nil {
		return err
	}
	*h.msg = *parsed
	return nil
}

// Take detaches the shell from the handle without returning it to the
// pool; subsequent Release calls are no-ops.
func (h *Handle) Take() *sip.Message {
	msg := h.msg
	h.msg = nil
	return msg
}

// Release returns the shell to the pool, unless the pool is already at
// max_size or Take was already called.
func (h *Handle) Release() {
	if h.msg == nil {
		return
	}
	h.pool.release(h.msg)
	h.msg = nil
}
