package dialog

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sbctools/sipcore/sdp"
	"github.com/sbctools/sipcore/sip"
)

// CallManager pairs inbound and outbound legs by Call-ID, drives the
// per-leg state machine, and owns the bidirectional peer mapping.
// Every method takes the manager's own mutex, so a single instance may
// be shared across goroutines. The *CallLeg values handed out by
// HandleInvite, CreateOutgoingCall and Leg are live: later calls mutate
// them under the manager's mutex, not under any lock the caller holds.
// Pairing is tracked only within one instance; callers may instead
// partition call-ids across separate instances.
type CallManager struct {
	mu sync.Mutex

	legs      map[string]*CallLeg
	callPairs map[string]string

	maxCalls           int
	callTimeoutSeconds float64

	stats callStats
	log   zerolog.Logger
}

type callStats struct {
	total  int
	failed int
}

// NewCallManager builds a manager admitting at most maxCalls
// concurrent legs, and expiring idle legs after callTimeoutSeconds of
// inactivity (see CleanupExpired).
func NewCallManager(maxCalls int, callTimeoutSeconds float64) *CallManager {
	return &CallManager{
		legs:               make(map[string]*CallLeg),
		callPairs:          make(map[string]string),
		maxCalls:           maxCalls,
		callTimeoutSeconds: callTimeoutSeconds,
		log:                sip.DefaultLogger(),
	}
}

// HandleInvite admits a new inbound leg in Calling, generating a local
// tag. Fails with a ResourceError if the manager is already serving
// maxCalls legs.
func (m *CallManager) HandleInvite(callID, fromURI, toURI, fromTag string, cseq uint32, sdpBody []byte, now time.Time) (*CallLeg, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.legs) >= m.maxCalls {
		m.log.Warn().Str("call_id", callID).Int("active", len(m.legs)).Int("max", m.maxCalls).Msg("invite rejected: call capacity reached")
		return nil, sip.NewResourceError(sip.ResourceConcurrentCalls, uint64(len(m.legs)), uint64(m.maxCalls))
	}

	leg := newLeg(callID, newLocalTag(now), fromTag, toURI, fromURI, now)
	leg.Dialog.RemoteCSeq = cseq
	leg.Dialog.SDP = sdpBody
	m.legs[callID] = leg
	m.stats.total++
	m.log.Debug().Str("call_id", callID).Str("state", string(leg.Dialog.State)).Msg("leg admitted")
	return leg, nil
}

// CreateOutgoingCall originates a second leg toward destinationURI,
// paired bidirectionally with incomingID. Fails with a StateError if
// incomingID names no known leg.
func (m *CallManager) CreateOutgoingCall(incomingID, destinationURI string, sdpBody []byte, now time.Time) (*CallLeg, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inLeg, ok := m.legs[incomingID]
	if !ok {
		m.log.Warn().Str("call_id", incomingID).Msg("create_outgoing_call rejected: unknown incoming call")
		return nil, sip.NewStateError("create_outgoing_call", "unknown incoming call", incomingID)
	}

	outID := newSyntheticCallID(now)
	outLeg := newLeg(outID, newLocalTag(now), "", inLeg.Dialog.LocalURI, destinationURI, now)
	outLeg.Dialog.SDP = sdpBody
	outLeg.PeerLegID = incomingID
	inLeg.PeerLegID = outID

	m.legs[outID] = outLeg
	m.callPairs[incomingID] = outID
	m.callPairs[outID] = incomingID
	m.stats.total++
	m.log.Debug().Str("call_id", outID).Str("peer", incomingID).Str("state", string(outLeg.Dialog.State)).Msg("leg admitted")
	return outLeg, nil
}

// HandleResponse applies the §4.5 response-code transition table to
// the named leg, optionally recording a remote tag and/or SDP answer.
// Unknown call IDs produce a StateError.
func (m *CallManager) HandleResponse(callID string, code int, toTag string, sdpBody []byte, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	leg, ok := m.legs[callID]
	if !ok {
		m.log.Warn().Str("call_id", callID).Msg("handle_response rejected: unknown call")
		return sip.NewStateError("handle_response", "unknown call", callID)
	}

	next, ok := responseState(code)
	if !ok {
		m.log.Warn().Str("call_id", callID).Int("code", code).Msg("handle_response rejected: code out of range")
		return sip.NewStateError("handle_response", "response code out of range", callID)
	}

	if toTag != "" {
		leg.Dialog.RemoteTag = toTag
	}
	if sdpBody != nil {
		leg.Dialog.SDP = sdpBody
	}
	if next == StateFailed {
		leg.Dialog.FailReason = statusReason(code)
		m.stats.failed++
	}
	m.log.Debug().Str("call_id", callID).Int("code", code).Str("from", string(leg.Dialog.State)).Str("to", string(next)).Msg("leg state transition")
	leg.Dialog.State = next
	leg.Dialog.LastActive = now
	return nil
}

// HandleAck confirms the leg, requiring it to currently be Connecting.
func (m *CallManager) HandleAck(callID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	leg, ok := m.legs[callID]
	if !ok {
		m.log.Warn().Str("call_id", callID).Msg("handle_ack rejected: unknown call")
		return sip.NewStateError("handle_ack", "unknown call", callID)
	}
	if leg.Dialog.State != StateConnecting {
		m.log.Warn().Str("call_id", callID).Str("state", string(leg.Dialog.State)).Msg("handle_ack rejected: not Connecting")
		return sip.NewStateError("handle_ack", "ACK outside Connecting", callID)
	}
	leg.Dialog.State = StateConnected
	leg.Dialog.LastActive = now
	m.log.Debug().Str("call_id", callID).Msg("leg confirmed")
	return nil
}

// HandleBye moves the leg to Disconnecting and returns its peer's
// call-id, if paired.
func (m *CallManager) HandleBye(callID string, now time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	leg, ok := m.legs[callID]
	if !ok {
		m.log.Warn().Str("call_id", callID).Msg("handle_bye rejected: unknown call")
		return "", sip.NewStateError("handle_bye", "unknown call", callID)
	}
	leg.Dialog.State = StateDisconnecting
	leg.Dialog.LastActive = now
	m.log.Debug().Str("call_id", callID).Msg("leg disconnecting")
	return m.callPairs[callID], nil
}

// TerminateCall removes the leg, its pairing entry, and any
// transactions it owns, and returns the former peer's call-id ("" if
// unpaired). Idempotent: terminating an already-gone leg returns ""
// and changes nothing.
func (m *CallManager) TerminateCall(callID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	peer := m.callPairs[callID]
	delete(m.legs, callID)
	delete(m.callPairs, callID)
	if peer != "" {
		delete(m.callPairs, peer)
	}
	return peer
}

// SetupMediaRelay reads each leg's stored SDP for a remote address and
// first audio port, and installs a MediaRelay on each pointing at the
// other's endpoint. Fails if either leg lacks SDP or audio media.
func (m *CallManager) SetupMediaRelay(a, b string, rtpPortA, rtpPortB int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	legA, ok := m.legs[a]
	if !ok {
		m.log.Warn().Str("call_id", a).Msg("setup_media_relay rejected: unknown call")
		return sip.NewStateError("setup_media_relay", "unknown call", a)
	}
	legB, ok := m.legs[b]
	if !ok {
		m.log.Warn().Str("call_id", b).Msg("setup_media_relay rejected: unknown call")
		return sip.NewStateError("setup_media_relay", "unknown call", b)
	}

	remoteA, codecsA, err := firstAudioEndpoint(legA.Dialog.SDP)
	if err != nil {
		m.log.Warn().Str("call_id", a).Err(err).Msg("setup_media_relay rejected: no usable SDP")
		return sip.NewStateError("setup_media_relay", "leg "+a+" has no usable SDP", err.Error())
	}
	remoteB, codecsB, err := firstAudioEndpoint(legB.Dialog.SDP)
	if err != nil {
		m.log.Warn().Str("call_id", b).Err(err).Msg("setup_media_relay rejected: no usable SDP")
		return sip.NewStateError("setup_media_relay", "leg "+b+" has no usable SDP", err.Error())
	}

	legA.MediaRelay = newMediaRelay(rtpPortA, remoteB.address, remoteB.port, codecsB)
	legB.MediaRelay = newMediaRelay(rtpPortB, remoteA.address, remoteA.port, codecsA)
	m.log.Debug().Str("call_a", a).Str("call_b", b).Msg("media relay established")
	return nil
}

type audioEndpoint struct {
	address string
	port    int
}

func firstAudioEndpoint(sdpBody []byte) (audioEndpoint, []string, error) {
	if len(sdpBody) == 0 {
		return audioEndpoint{}, nil, sip.NewParseError("empty SDP", "")
	}
	session, err := sdp.Parse(sdpBody)
	if err != nil {
		return audioEndpoint{}, nil, err
	}
	for i := 0; i < session.MediaCount(); i++ {
		md, err := session.MediaAt(i)
		if err != nil {
			continue
		}
		if md.Media != "audio" {
			continue
		}
		addr := session.ConnectionAddress()
		if md.Connection != nil {
			addr = *md.Connection
		}
		if addr == "" {
			continue
		}
		codecSet := session.ExtractCodecs()
		var names []string
		if i < len(codecSet) {
			for _, c := range codecSet[i] {
				names = append(names, c.Name)
			}
		}
		return audioEndpoint{address: addr, port: md.Port}, names, nil
	}
	return audioEndpoint{}, nil, sip.NewParseError("no audio media", "")
}

// Stats is the value returned by GetCallStats.
type Stats struct {
	Total                 int
	Active                int
	Connected             int
	Failed                int
	MediaBytesSent        uint64
	MediaBytesReceived    uint64
	MeanConnectedDuration time.Duration
}

// GetCallStats reports call counters. Total and Failed are cumulative
// since the manager was built, terminated legs included; Active,
// Connected, the media byte sums and MeanConnectedDuration cover only
// the legs currently tracked. A connected leg's duration is measured
// from its CreatedAt.
func (m *CallManager) GetCallStats(now time.Time) Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Stats{Total: m.stats.total, Failed: m.stats.failed}
	var connectedDurationSum time.Duration
	var connectedCount int

	for _, leg := range m.legs {
		if leg.Dialog.State != StateTerminated {
			s.Active++
		}
		if leg.Dialog.State == StateConnected {
			s.Connected++
			connectedDurationSum += now.Sub(leg.Dialog.CreatedAt)
			connectedCount++
		}
		if leg.MediaRelay != nil {
			s.MediaBytesSent += leg.MediaRelay.BytesSent
			s.MediaBytesReceived += leg.MediaRelay.BytesReceived
		}
	}
	if connectedCount > 0 {
		s.MeanConnectedDuration = connectedDurationSum / time.Duration(connectedCount)
	}
	return s
}

// CleanupExpired terminates every leg whose last activity predates
// now by more than callTimeoutSeconds, returning the affected call ids.
func (m *CallManager) CleanupExpired(now time.Time) []string {
	m.mu.Lock()
	var expired []string
	for id, leg := range m.legs {
		if now.Sub(leg.Dialog.LastActive).Seconds() > m.callTimeoutSeconds {
			expired = append(expired, id)
		}
	}
	m.mu.Unlock()

	for _, id := range expired {
		m.TerminateCall(id)
	}
	return expired
}

// Leg returns the tracked leg for callID, if any.
func (m *CallManager) Leg(callID string) (*CallLeg, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	leg, ok := m.legs[callID]
	return leg, ok
}

// Peer returns the call-id paired with callID, if any.
func (m *CallManager) Peer(callID string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	peer, ok := m.callPairs[callID]
	return peer, ok
}

func statusReason(code int) string {
	switch {
	case code >= 300 && code < 400:
		return "redirected"
	case code >= 400 && code < 500:
		return "client_failure"
	case code >= 500 && code < 600:
		return "server_failure"
	default:
		return "global_failure"
	}
}
