// Package dialog implements the B2BUA call-leg pairing and state
// machine: two independently-owned legs bridged by a CallManager,
// driven by response codes and in-dialog requests rather than by the
// transaction layer directly.
package dialog

import (
	"time"

	"github.com/sbctools/sipcore/transaction"
)

// CallState is a leg's position in the B2BUA call lifecycle.
type CallState string

const (
	StateIdle          CallState = "idle"
	StateCalling       CallState = "calling"
	StateProceeding    CallState = "proceeding"
	StateConnecting    CallState = "connecting"
	StateConnected     CallState = "connected"
	StateDisconnecting CallState = "disconnecting"
	StateTerminated    CallState = "terminated"
	StateFailed        CallState = "failed"
)

// Dialog is the peer-to-peer SIP relationship identified by
// (Call-ID, local tag, remote tag), per RFC 3261 §12.
type Dialog struct {
	CallID     string
	LocalTag   string
	RemoteTag  string
	LocalURI   string
	RemoteURI  string
	LocalCSeq  uint32
	RemoteCSeq uint32
	State      CallState
	FailReason string
	CreatedAt  time.Time
	LastActive time.Time
	RouteSet   []string
	Contact    string
	SDP        []byte
}

// CallLeg is one side of a B2BUA's dialog pair: an inbound leg created
// at INVITE receipt, or an outbound leg created by CreateOutgoingCall.
// Transactions is keyed by branch ID; a leg may carry more than one
// live transaction (e.g. the INVITE and a subsequent re-INVITE).
type CallLeg struct {
	Dialog       Dialog
	Transactions map[string]*transaction.Transaction
	MediaRelay   *MediaRelay
	PeerLegID    string
}

func newLeg(callID, localTag, remoteTag, localURI, remoteURI string, now time.Time) *CallLeg {
	return &CallLeg{
		Dialog: Dialog{
			CallID:     callID,
			LocalTag:   localTag,
			RemoteTag:  remoteTag,
			LocalURI:   localURI,
			RemoteURI:  remoteURI,
			State:      StateCalling,
			CreatedAt:  now,
			LastActive: now,
		},
		Transactions: make(map[string]*transaction.Transaction),
	}
}

// responseState maps a final/provisional status code to the next leg
// state per §4.5's transition table. ok is false for out-of-range codes.
func responseState(code int) (CallState, bool) {
	switch {
	case code >= 100 && code <= 199:
		return StateProceeding, true
	case code >= 200 && code <= 299:
		return StateConnecting, true
	case code >= 300 && code <= 699:
		return StateFailed, true
	default:
		return "", false
	}
}
