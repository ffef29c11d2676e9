package transaction

import (
	"testing"
	"time"

	"github.com/sbctools/sipcore/sip"
	"github.com/stretchr/testify/require"
)

func baseTime() time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
}

func TestTimerABackoffScenarioS5(t *testing.T) {
	m := NewManager(DefaultTimerConfig(), 0)
	t0 := baseTime()

	tx, err := m.Create("z9hG4bK-s5", sip.INVITE, false, "pc.example.com:5060", "example.com:5060", t0)
	require.NoError(t, err)

	var allEvents []Event
	now := t0
	for _, delta := range []time.Duration{
		600 * time.Millisecond,
		1400 * time.Millisecond,
		2200 * time.Millisecond,
		3100 * time.Millisecond,
		4000 * time.Millisecond,
	} {
		now = now.Add(delta)
		allEvents = append(allEvents, tx.ProcessTimerExpiry(now)...)
	}

	retransmits := 0
	timeouts := 0
	for _, e := range allEvents {
		switch e.Kind {
		case EventRetransmit:
			retransmits++
		case EventTimeout:
			timeouts++
		}
	}

	require.Equal(t, 4, retransmits)
	require.Equal(t, 4, tx.RetransmissionCount)
	require.Equal(t, 0, timeouts)
	require.Equal(t, DefaultTimerConfig().T2, tx.retransmitInterval)
}

func TestTimerBTimeout(t *testing.T) {
	m := NewManager(DefaultTimerConfig(), 0)
	t0 := baseTime()

	tx, err := m.Create("z9hG4bK-timeout", sip.INVITE, false, "a", "b", t0)
	require.NoError(t, err)

	events := tx.ProcessTimerExpiry(t0.Add(33 * time.Second))
	var sawTimeout bool
	for _, e := range events {
		if e.Kind == EventTimeout {
			sawTimeout = true
		}
	}
	require.True(t, sawTimeout)
	require.Equal(t, StateTerminated, tx.State)
}

func TestReliableTransportSkipsRetransmitTimer(t *testing.T) {
	m := NewManager(DefaultTimerConfig(), 0)
	t0 := baseTime()

	tx, err := m.Create("z9hG4bK-tcp", sip.INVITE, true, "a", "b", t0)
	require.NoError(t, err)

	events := tx.ProcessTimerExpiry(t0.Add(10 * time.Second))
	require.Empty(t, events)
}

func TestCreateDuplicateBranchFails(t *testing.T) {
	m := NewManager(DefaultTimerConfig(), 0)
	t0 := baseTime()

	_, err := m.Create("dup", sip.INVITE, false, "a", "b", t0)
	require.NoError(t, err)

	_, err = m.Create("dup", sip.INVITE, false, "a", "b", t0)
	require.Error(t, err)
	var se *sip.StateError
	require.ErrorAs(t, err, &se)
}

func TestCreateRejectsOverConcurrencyCap(t *testing.T) {
	m := NewManager(DefaultTimerConfig(), 1)
	t0 := baseTime()

	_, err := m.Create("one", sip.INVITE, false, "a", "b", t0)
	require.NoError(t, err)

	_, err = m.Create("two", sip.INVITE, false, "a", "b", t0)
	require.Error(t, err)
	var re *sip.ResourceError
	require.ErrorAs(t, err, &re)
}

func TestTransitionToProceedingArmsTimerCForInvite(t *testing.T) {
	m := NewManager(DefaultTimerConfig(), 0)
	t0 := baseTime()
	tx, err := m.Create("z9hG4bK-prc", sip.INVITE, false, "a", "b", t0)
	require.NoError(t, err)

	require.NoError(t, tx.TransitionState(StateProceeding, t0))
	require.Nil(t, tx.retransmitAt)
	require.NotNil(t, tx.provisionalAt)
}

func TestManagerProcessTimersPrunesTerminated(t *testing.T) {
	m := NewManager(DefaultTimerConfig(), 0)
	t0 := baseTime()
	_, err := m.Create("z9hG4bK-prune", sip.INVITE, false, "a", "b", t0)
	require.NoError(t, err)

	require.Equal(t, 1, m.Count())
	m.ProcessTimers(t0.Add(33 * time.Second))
	require.Equal(t, 0, m.Count())
}
