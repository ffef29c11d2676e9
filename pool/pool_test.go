package pool

import (
	"testing"

	"github.com/sbctools/sipcore/sip"
	"github.com/stretchr/testify/require"
)

func TestBasicPoolOperations(t *testing.T) {
	p := New(Config{InitialSize: 5, MaxSize: 10, PreAllocate: true})
	require.Equal(t, 5, p.Size())

	h := p.Get()
	require.Equal(t, 4, p.Size())

	h.Release()
	require.Equal(t, 5, p.Size())
}

func TestPoolCapacityLimit(t *testing.T) {
	p := New(Config{InitialSize: 1, MaxSize: 2, PreAllocate: true})

	h1 := p.Get()
	h2 := p.Get()
	h3 := p.Get()

	h1.Release()
	h2.Release()
	h3.Release()

	require.LessOrEqual(t, p.Size(), 2)
}

func TestHandleDebugIDIsUniquePerCheckout(t *testing.T) {
	p := New(Config{InitialSize: 1, MaxSize: 10, PreAllocate: true})

	h1 := p.Get()
	h1.Release()
	h2 := p.Get()

	require.NotEmpty(t, h1.DebugID())
	require.NotEmpty(t, h2.DebugID())
	require.NotEqual(t, h1.DebugID(), h2.DebugID())
}

func TestGetConstructsFreshWhenEmpty(t *testing.T) {
	p := New(Config{InitialSize: 0, MaxSize: 10, PreAllocate: false})
	require.Equal(t, 0, p.Size())

	h := p.Get()
	require.NotNil(t, h.Message())
}

func TestPooledMessageParsing(t *testing.T) {
	p := New(DefaultConfig())
	h := p.Get()

	data := "INVITE sip:test@example.com SIP/2.0\r\n" +
		"Via: SIP/2.0/UDP 192.168.1.1:5060\r\n" +
		"Max-Forwards: 70\r\n" +
		"To: <sip:test@example.com>\r\n" +
		"From: <sip:caller@example.com>;tag=1\r\n" +
		"Call-ID: test123\r\n" +
		"CSeq: 1 INVITE\r\n" +
		"Content-Length: 0\r\n\r\n"

	require.NoError(t, h.ParseFromStr(data, sip.DefaultLimits(), true))
	require.Equal(t, "test123", h.Message().CallIDString())
}

func TestTakeDetachesFromPool(t *testing.T) {
	p := New(Config{InitialSize: 1, MaxSize: 10, PreAllocate: true})
	h := p.Get()
	require.Equal(t, 0, p.Size())

	msg := h.Take()
	require.NotNil(t, msg)

	h.Release()
	require.Equal(t, 0, p.Size())
}

func TestGlobalPoolLazyInit(t *testing.T) {
	h := GetPooledMessage()
	require.NotNil(t, h.Message())

	data := "INVITE sip:test@example.com SIP/2.0\r\n" +
		"Via: SIP/2.0/UDP 192.168.1.1:5060\r\n" +
		"Max-Forwards: 70\r\n" +
		"To: <sip:test@example.com>\r\n" +
		"From: <sip:caller@example.com>;tag=1\r\n" +
		"Call-ID: global-test\r\n" +
		"CSeq: 1 INVITE\r\n" +
		"Content-Length: 0\r\n\r\n"

	require.NoError(t, h.ParseFromStr(data, sip.DefaultLimits(), true))
	require.Equal(t, "global-test", h.Message().CallIDString())
}
