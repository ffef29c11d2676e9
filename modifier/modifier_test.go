package modifier

import (
	"strings"
	"testing"

	"github.com/sbctools/sipcore/sip"
	"github.com/stretchr/testify/require"
)

func scenarioS3Message(t *testing.T) *sip.Message {
	lines := []string{
		"INVITE sip:bob@example.com SIP/2.0",
		"Via: SIP/2.0/UDP first.example.com;branch=z9hG4bK-orig1",
		"Via: SIP/2.0/UDP second.example.com;branch=z9hG4bK-orig2",
		"Record-Route: <sip:rr.example.com;lr>",
		"Max-Forwards: 70",
		"To: Bob <sip:bob@example.com>",
		"From: Alice <sip:alice@example.com>;tag=1",
		"Call-ID: orig",
		"CSeq: 1 INVITE",
		"Contact: <sip:alice@client>",
		"Content-Length: 0",
	}
	buf := []byte(strings.Join(lines, "\r\n") + "\r\n\r\n")
	msg, err := sip.ParseMessage(buf, sip.DefaultLimits(), true)
	require.NoError(t, err)
	return msg
}

func TestCreateB2BUARequest(t *testing.T) {
	msg := scenarioS3Message(t)

	out, err := CreateB2BUARequest(msg, B2BUARequestOptions{
		NewCallID: "b",
		Contact:   "<sip:b@1.2.3.4:5060>",
		Branch:    "z9hG4bKb",
		Host:      "1.2.3.4",
		Port:      5060,
	})
	require.NoError(t, err)
	text := string(out)

	viaCount := strings.Count(text, "Via:")
	require.Equal(t, 1, viaCount)
	require.Contains(t, text, "Via: SIP/2.0/UDP 1.2.3.4:5060;branch=z9hG4bKb")
	require.NotContains(t, text, "first.example.com")
	require.NotContains(t, text, "second.example.com")
	require.NotContains(t, text, "Record-Route:")
	require.Contains(t, text, "Call-ID: b")
	require.Contains(t, text, "Contact: <sip:b@1.2.3.4:5060>")
	require.Contains(t, text, "Max-Forwards: 69")

	lines := strings.Split(text, "\r\n")
	require.True(t, strings.HasPrefix(lines[1], "Via:"))
}

func TestModifierRoundTripUnmodified(t *testing.T) {
	msg := scenarioS3Message(t)
	m := New(msg)
	out, err := m.Emit()
	require.NoError(t, err)
	require.Equal(t, string(msg.Buffer), string(out))
}

func TestModifierReplaceCallIDRejectsEmpty(t *testing.T) {
	msg := scenarioS3Message(t)
	m := New(msg)
	err := m.ReplaceCallID("")
	require.Error(t, err)
}

func TestModifierSetRequestURIFailsOnResponse(t *testing.T) {
	lines := []string{
		"SIP/2.0 200 OK",
		"Via: SIP/2.0/UDP pc.example.com;branch=z9hG4bK1",
		"To: Bob <sip:bob@example.com>;tag=2",
		"From: Alice <sip:alice@example.com>;tag=1",
		"Call-ID: call-1@example.com",
		"CSeq: 1 INVITE",
	}
	buf := []byte(strings.Join(lines, "\r\n") + "\r\n\r\n")
	msg, err := sip.ParseMessage(buf, sip.DefaultLimits(), false)
	require.NoError(t, err)

	m := New(msg)
	err = m.SetRequestURI("sip:new@example.com")
	require.Error(t, err)
}

func TestModifierAddSessionTimerHeaders(t *testing.T) {
	msg := scenarioS3Message(t)
	m := New(msg)
	m.AddSessionTimerHeaders(SessionTimerOptions{
		SessionExpires: 1800,
		MinSE:          90,
		Refresher:      "uac",
		Required:       true,
	})
	out, err := m.Emit()
	require.NoError(t, err)
	text := string(out)
	require.Contains(t, text, "Session-Expires: 1800;refresher=uac")
	require.Contains(t, text, "Min-SE: 90")
	require.Contains(t, text, "Require: timer")
}
