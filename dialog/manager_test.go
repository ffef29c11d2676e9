package dialog

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func baseTime() time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
}

func TestScenarioS6DialogStateMachine(t *testing.T) {
	m := NewCallManager(10, 300)
	t0 := baseTime()

	leg, err := m.HandleInvite("call-1", "sip:alice@a.example.com", "sip:bob@b.example.com", "tagA", 1, nil, t0)
	require.NoError(t, err)
	require.Equal(t, StateCalling, leg.Dialog.State)

	require.NoError(t, m.HandleResponse("call-1", 100, "", nil, t0))
	require.Equal(t, StateProceeding, m.mustLeg(t, "call-1").Dialog.State)

	require.NoError(t, m.HandleResponse("call-1", 180, "", nil, t0))
	require.Equal(t, StateProceeding, m.mustLeg(t, "call-1").Dialog.State)

	require.NoError(t, m.HandleResponse("call-1", 200, "tagB", nil, t0))
	require.Equal(t, StateConnecting, m.mustLeg(t, "call-1").Dialog.State)

	require.NoError(t, m.HandleAck("call-1", t0))
	require.Equal(t, StateConnected, m.mustLeg(t, "call-1").Dialog.State)

	peer, err := m.HandleBye("call-1", t0)
	require.NoError(t, err)
	require.Equal(t, "", peer)
	require.Equal(t, StateDisconnecting, m.mustLeg(t, "call-1").Dialog.State)
}

func (m *CallManager) mustLeg(t *testing.T, callID string) *CallLeg {
	t.Helper()
	leg, ok := m.Leg(callID)
	require.True(t, ok)
	return leg
}

func TestHandleInviteRejectsOverCapacity(t *testing.T) {
	m := NewCallManager(1, 300)
	t0 := baseTime()

	_, err := m.HandleInvite("call-1", "sip:a@x", "sip:b@x", "tagA", 1, nil, t0)
	require.NoError(t, err)

	_, err = m.HandleInvite("call-2", "sip:a@x", "sip:b@x", "tagA", 1, nil, t0)
	require.Error(t, err)
}

func TestPairingSymmetry(t *testing.T) {
	m := NewCallManager(10, 300)
	t0 := baseTime()

	_, err := m.HandleInvite("call-a", "sip:a@x", "sip:b@x", "tagA", 1, nil, t0)
	require.NoError(t, err)

	outLeg, err := m.CreateOutgoingCall("call-a", "sip:c@y", nil, t0)
	require.NoError(t, err)
	b := outLeg.Dialog.CallID

	peerOfA, ok := m.Peer("call-a")
	require.True(t, ok)
	require.Equal(t, b, peerOfA)

	peerOfB, ok := m.Peer(b)
	require.True(t, ok)
	require.Equal(t, "call-a", peerOfB)

	m.TerminateCall("call-a")
	_, ok = m.Peer("call-a")
	require.False(t, ok)
	_, ok = m.Peer(b)
	require.False(t, ok)
}

func TestCreateOutgoingCallFailsOnUnknownIncoming(t *testing.T) {
	m := NewCallManager(10, 300)
	_, err := m.CreateOutgoingCall("does-not-exist", "sip:c@y", nil, baseTime())
	require.Error(t, err)
}

func TestHandleAckOutsideConnectingIsStateError(t *testing.T) {
	m := NewCallManager(10, 300)
	t0 := baseTime()
	_, err := m.HandleInvite("call-1", "sip:a@x", "sip:b@x", "tagA", 1, nil, t0)
	require.NoError(t, err)

	err = m.HandleAck("call-1", t0)
	require.Error(t, err)
}

func TestSetupMediaRelay(t *testing.T) {
	m := NewCallManager(10, 300)
	t0 := baseTime()

	sdpA := sdpWithAudio("192.0.2.10", 6000)
	sdpB := sdpWithAudio("192.0.2.20", 7000)

	_, err := m.HandleInvite("call-a", "sip:a@x", "sip:b@x", "tagA", 1, sdpA, t0)
	require.NoError(t, err)
	outLeg, err := m.CreateOutgoingCall("call-a", "sip:c@y", sdpB, t0)
	require.NoError(t, err)

	require.NoError(t, m.SetupMediaRelay("call-a", outLeg.Dialog.CallID, 4000, 4002))

	legA := m.mustLeg(t, "call-a")
	legB := m.mustLeg(t, outLeg.Dialog.CallID)

	require.Equal(t, "192.0.2.20", legA.MediaRelay.RemoteRTPAddress)
	require.Equal(t, 7000, legA.MediaRelay.RemoteRTPPort)
	require.Equal(t, 4000, legA.MediaRelay.LocalRTPPort)
	require.Equal(t, 4001, legA.MediaRelay.LocalRTCPPort)

	require.Equal(t, "192.0.2.10", legB.MediaRelay.RemoteRTPAddress)
	require.Equal(t, 6000, legB.MediaRelay.RemoteRTPPort)
}

func TestSetupMediaRelayFailsWithoutSDP(t *testing.T) {
	m := NewCallManager(10, 300)
	t0 := baseTime()
	_, err := m.HandleInvite("call-a", "sip:a@x", "sip:b@x", "tagA", 1, nil, t0)
	require.NoError(t, err)
	outLeg, err := m.CreateOutgoingCall("call-a", "sip:c@y", nil, t0)
	require.NoError(t, err)

	err = m.SetupMediaRelay("call-a", outLeg.Dialog.CallID, 4000, 4002)
	require.Error(t, err)
}

func TestCleanupExpired(t *testing.T) {
	m := NewCallManager(10, 60)
	t0 := baseTime()
	_, err := m.HandleInvite("call-1", "sip:a@x", "sip:b@x", "tagA", 1, nil, t0)
	require.NoError(t, err)

	expired := m.CleanupExpired(t0.Add(61 * time.Second))
	require.Equal(t, []string{"call-1"}, expired)

	_, ok := m.Leg("call-1")
	require.False(t, ok)
}

func TestGetCallStats(t *testing.T) {
	m := NewCallManager(10, 300)
	t0 := baseTime()
	_, err := m.HandleInvite("call-1", "sip:a@x", "sip:b@x", "tagA", 1, nil, t0)
	require.NoError(t, err)
	require.NoError(t, m.HandleResponse("call-1", 200, "tagB", nil, t0))
	require.NoError(t, m.HandleAck("call-1", t0))

	stats := m.GetCallStats(t0.Add(5 * time.Second))
	require.Equal(t, 1, stats.Total)
	require.Equal(t, 1, stats.Active)
	require.Equal(t, 1, stats.Connected)
}

func sdpWithAudio(addr string, port int) []byte {
	lines := []string{
		"v=0",
		"o=- 1 1 IN IP4 " + addr,
		"s=-",
		"c=IN IP4 " + addr,
		"t=0 0",
		"m=audio " + itoa(port) + " RTP/AVP 0",
	}
	return []byte(strings.Join(lines, "\r\n") + "\r\n")
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	return string(b)
}
