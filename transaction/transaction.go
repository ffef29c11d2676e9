package transaction

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/sbctools/sipcore/sip"
)

// State is a transaction's position in the RFC 3261 §17 state space.
// Non-INVITE transactions never visit Confirmed.
type State string

const (
	StateCalling    State = "calling"
	StateProceeding State = "proceeding"
	StateCompleted  State = "completed"
	StateConfirmed  State = "confirmed"
	StateTerminated State = "terminated"
)

// Kind distinguishes the four transaction roles, each with its own
// timer wiring.
type Kind int

const (
	ClientInvite Kind = iota
	ClientNonInvite
	ServerInvite
	ServerNonInvite
)

// EventKind tags a ProcessTimerExpiry result.
type EventKind int

const (
	EventRetransmit EventKind = iota
	EventTimeout
	EventProvisionalTimeout
)

// Event is one timer-driven occurrence a caller must act on (e.g.
// retransmit the last message, or tear down a call leg on timeout).
type Event struct {
	Kind     EventKind
	BranchID string
}

// Transaction is one RFC 3261 client or server transaction. All timer
// fields are absolute deadlines; nil means "not armed".
type Transaction struct {
	BranchID string
	Method   sip.RequestMethod
	Kind     Kind
	State    State
	Reliable bool
	Src, Dst string
	Config   TimerConfig

	RetransmissionCount int

	retransmitAt       *time.Time
	retransmitInterval time.Duration

	timeoutAt *time.Time

	provisionalAt *time.Time

	// responseRetransmitAt is the Completed/Confirmed wait before the
	// transaction self-terminates, depending on Kind and state: Timer D
	// (client INVITE, Completed), Timer H (server INVITE, Completed),
	// Timer I (INVITE, Confirmed), Timer K (client non-INVITE,
	// Completed) or Timer J (server non-INVITE, Completed).
	responseRetransmitAt *time.Time

	log zerolog.Logger
}

func (t *Transaction) isInvite() bool {
	return t.Kind == ClientInvite || t.Kind == ServerInvite
}

// armClientInitialTimers arms the initial timers for a freshly constructed client
// transaction: A+B (INVITE) or E+F (non-INVITE) when unreliable, or
// only the timeout timer when reliable.
func (t *Transaction) armClientInitialTimers(now time.Time) {
	if !t.Reliable {
		deadline := now.Add(t.Config.T1)
		t.retransmitAt = &deadline
		t.retransmitInterval = t.Config.T1
	}
	var timeout time.Duration
	if t.isInvite() {
		timeout = t.Config.TimerB()
	} else {
		timeout = t.Config.TimerF()
	}
	deadline := now.Add(timeout)
	t.timeoutAt = &deadline
}

// ProcessTimerExpiry drains every timer on t whose deadline is <= now,
// returning the events produced. The retransmission timer is a loop:
// a single call can produce several Retransmit events if multiple
// backoff intervals have elapsed since the last call.
func (t *Transaction) ProcessTimerExpiry(now time.Time) []Event {
	var events []Event

	for t.retransmitAt != nil && !t.retransmitAt.After(now) {
		events = append(events, Event{Kind: EventRetransmit, BranchID: t.BranchID})
		t.RetransmissionCount++
		t.retransmitInterval = t.Config.capInterval(t.retransmitInterval)
		next := t.retransmitAt.Add(t.retransmitInterval)
		t.retransmitAt = &next
	}

	if t.provisionalAt != nil && !t.provisionalAt.After(now) {
		events = append(events, Event{Kind: EventProvisionalTimeout, BranchID: t.BranchID})
		t.provisionalAt = nil
	}

	if t.timeoutAt != nil && !t.timeoutAt.After(now) {
		events = append(events, Event{Kind: EventTimeout, BranchID: t.BranchID})
		t.log.Warn().Str("branch", t.BranchID).Str("state", string(t.State)).Msg("transaction timed out")
		t.cancelAllTimers()
		t.State = StateTerminated
	}

	if t.responseRetransmitAt != nil && !t.responseRetransmitAt.After(now) {
		t.responseRetransmitAt = nil
		if t.State == StateCompleted || t.State == StateConfirmed {
			t.State = StateTerminated
		}
	}

	return events
}

func (t *Transaction) cancelAllTimers() {
	t.retransmitAt = nil
	t.timeoutAt = nil
	t.provisionalAt = nil
	t.responseRetransmitAt = nil
}

// TransitionState moves t to s, arming/disarming timers per RFC 3261
// §17.1: entering Proceeding cancels retransmission (and arms Timer C
// for INVITE); entering Completed cancels A/C/E and arms the
// response-retransmit absorption wait; entering Terminated cancels
// everything.
func (t *Transaction) TransitionState(s State, now time.Time) error {
	t.log.Debug().Str("branch", t.BranchID).Str("from", string(t.State)).Str("to", string(s)).Msg("transaction state transition")
	switch s {
	case StateProceeding:
		t.retransmitAt = nil
		if t.isInvite() {
			deadline := now.Add(t.Config.TimerC())
			t.provisionalAt = &deadline
		}
	case StateCompleted:
		t.retransmitAt = nil
		t.provisionalAt = nil
		wait := t.responseAbsorptionWait()
		deadline := now.Add(wait)
		t.responseRetransmitAt = &deadline
	case StateConfirmed:
		t.retransmitAt = nil
		t.responseRetransmitAt = nil
		if t.isInvite() {
			deadline := now.Add(t.Config.TimerI(t.Reliable))
			t.responseRetransmitAt = &deadline
		}
	case StateTerminated:
		t.cancelAllTimers()
	}
	t.State = s
	return nil
}

func (t *Transaction) responseAbsorptionWait() time.Duration {
	switch t.Kind {
	case ClientInvite:
		return t.Config.TimerD(t.Reliable)
	case ServerInvite:
		return t.Config.TimerH()
	case ClientNonInvite:
		return t.Config.TimerK(t.Reliable)
	case ServerNonInvite:
		return t.Config.TimerJ(t.Reliable)
	}
	return 0
}
