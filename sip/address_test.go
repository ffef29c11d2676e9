package sip

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAddressNameAddr(t *testing.T) {
	buf := []byte(`Alice <sip:alice@example.com>;tag=1`)
	a, err := ParseAddress(buf, Range{Start: 0, End: len(buf)}, DefaultLimits())
	require.NoError(t, err)
	require.NotNil(t, a.DisplayName)
	require.Equal(t, "Alice", a.DisplayName.String(buf))
	require.Equal(t, "alice", a.URI.User(buf))
	require.Equal(t, "1", a.Params.GetString(buf, "tag"))
}

func TestParseAddressQuotedDisplayName(t *testing.T) {
	buf := []byte(`"Bob Smith" <sip:bob@example.com>`)
	a, err := ParseAddress(buf, Range{Start: 0, End: len(buf)}, DefaultLimits())
	require.NoError(t, err)
	require.Equal(t, "Bob Smith", a.DisplayName.String(buf))
}

func TestParseAddressAddrSpec(t *testing.T) {
	buf := []byte(`sip:alice@example.com;tag=1`)
	a, err := ParseAddress(buf, Range{Start: 0, End: len(buf)}, DefaultLimits())
	require.NoError(t, err)
	require.Nil(t, a.DisplayName)
	require.Equal(t, "alice", a.URI.User(buf))
	require.Equal(t, "1", a.Params.GetString(buf, "tag"))
}

func TestParseAddressUnterminatedNameAddr(t *testing.T) {
	buf := []byte(`Alice <sip:alice@example.com`)
	_, err := ParseAddress(buf, Range{Start: 0, End: len(buf)}, DefaultLimits())
	require.Error(t, err)
}
