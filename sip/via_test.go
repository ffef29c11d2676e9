package sip

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseViaBasic(t *testing.T) {
	buf := []byte("SIP/2.0/UDP pc.example.com:5060;branch=z9hG4bK1;rport")
	v, err := ParseVia(buf, Range{Start: 0, End: len(buf)}, DefaultLimits())
	require.NoError(t, err)
	require.Equal(t, "SIP/2.0/UDP", v.SentProtocol.String(buf))
	require.Equal(t, "pc.example.com:5060", v.SentBy.String(buf))
	require.Equal(t, "z9hG4bK1", v.Branch(buf))
}

func TestParseViaMissingSentBy(t *testing.T) {
	buf := []byte("SIP/2.0/UDP")
	_, err := ParseVia(buf, Range{Start: 0, End: len(buf)}, DefaultLimits())
	require.Error(t, err)
}

func TestParseCSeq(t *testing.T) {
	buf := []byte("314159 INVITE")
	c, err := ParseCSeq(buf, Range{Start: 0, End: len(buf)})
	require.NoError(t, err)
	require.Equal(t, uint32(314159), c.Sequence)
	require.Equal(t, INVITE, c.Method)
	require.True(t, c.Known)
}

func TestParseCSeqUnknownMethodPreserved(t *testing.T) {
	buf := []byte("1 FROBNICATE")
	c, err := ParseCSeq(buf, Range{Start: 0, End: len(buf)})
	require.NoError(t, err)
	require.False(t, c.Known)
	require.Equal(t, RequestMethod("FROBNICATE"), c.Method)
}

func TestParseCSeqExceedsMax(t *testing.T) {
	buf := []byte("99999999999 INVITE")
	_, err := ParseCSeq(buf, Range{Start: 0, End: len(buf)})
	require.Error(t, err)
}
