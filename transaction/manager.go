package transaction

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sbctools/sipcore/sip"
)

// Manager owns a set of transactions keyed by branch ID. It is safe
// for concurrent use; each method's critical section is O(1) beyond
// the per-transaction timer walk in ProcessTimers.
type Manager struct {
	mu     sync.Mutex
	txs    map[string]*Transaction
	config TimerConfig
	log    zerolog.Logger

	maxConcurrent int
}

// NewManager builds a Manager with the given timer configuration and
// an optional concurrency cap (0 means unbounded, not recommended in
// production — see sip.DefaultMaxConcurrentTransactions).
func NewManager(config TimerConfig, maxConcurrent int) *Manager {
	return &Manager{
		txs:           make(map[string]*Transaction),
		config:        config,
		maxConcurrent: maxConcurrent,
		log:           sip.DefaultLogger(),
	}
}

// Create arms a new client transaction. Fails with a StateError if
// branchID is already in use, or a ResourceError if the configured
// concurrency cap would be exceeded.
func (m *Manager) Create(branchID string, method sip.RequestMethod, reliable bool, src, dst string, now time.Time) (*Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.txs[branchID]; exists {
		m.log.Warn().Str("branch", branchID).Msg("transaction create rejected: branch already exists")
		return nil, sip.NewStateError("create", "branch already exists", branchID)
	}
	if m.maxConcurrent > 0 && len(m.txs) >= m.maxConcurrent {
		m.log.Warn().Str("branch", branchID).Int("count", len(m.txs)).Int("max", m.maxConcurrent).Msg("transaction create rejected: concurrency cap reached")
		return nil, sip.NewResourceError(sip.ResourceConcurrentTx, uint64(len(m.txs)), uint64(m.maxConcurrent))
	}

	kind := ClientNonInvite
	if method == sip.INVITE {
		kind = ClientInvite
	}

	tx := &Transaction{
		BranchID: branchID,
		Method:   method,
		Kind:     kind,
		State:    StateCalling,
		Reliable: reliable,
		Src:      src,
		Dst:      dst,
		Config:   m.config,
		log:      m.log,
	}
	tx.armClientInitialTimers(now)

	m.txs[branchID] = tx
	m.log.Debug().Str("branch", branchID).Str("method", string(method)).Msg("transaction created")
	return tx, nil
}

// Get returns the transaction for branchID, if any.
func (m *Manager) Get(branchID string) (*Transaction, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.txs[branchID]
	return tx, ok
}

// ProcessTimers drains expired timers across every transaction, then
// prunes any that reached Terminated.
func (m *Manager) ProcessTimers(now time.Time) []Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	var events []Event
	for branch, tx := range m.txs {
		evs := tx.ProcessTimerExpiry(now)
		events = append(events, evs...)
		if tx.State == StateTerminated {
			m.log.Debug().Str("branch", branch).Msg("transaction pruned")
			delete(m.txs, branch)
		}
	}
	return events
}

// Count returns the number of live (non-pruned) transactions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.txs)
}
