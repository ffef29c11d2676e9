package sdp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func scenarioS4SDP() []byte {
	lines := []string{
		"v=0",
		"o=- 1 1 IN IP4 10.0.0.1",
		"s=-",
		"c=IN IP4 10.0.0.1",
		"t=0 0",
		"m=audio 5004 RTP/AVP 0 8",
	}
	return []byte(strings.Join(lines, "\r\n") + "\r\n")
}

func TestRewriteConnectionAddressAndChangeMediaPort(t *testing.T) {
	s, err := Parse(scenarioS4SDP())
	require.NoError(t, err)

	s.RewriteConnectionAddresses("192.0.2.1")
	require.NoError(t, s.ChangeMediaPort(0, 6000))

	out, err := s.Emit()
	require.NoError(t, err)
	text := string(out)

	require.Contains(t, text, "o=- 1 1 IN IP4 192.0.2.1")
	require.Contains(t, text, "c=IN IP4 192.0.2.1")
	require.Contains(t, text, "m=audio 6000 RTP/AVP 0 8")
	require.NotContains(t, text, "10.0.0.1")
}

func TestExtractCodecs(t *testing.T) {
	s, err := Parse(scenarioS4SDP())
	require.NoError(t, err)

	codecs := s.ExtractCodecs()
	require.Len(t, codecs, 1)
	require.Equal(t, []Codec{
		{PayloadType: 0, Name: "PCMU", ClockRate: 8000},
		{PayloadType: 8, Name: "PCMA", ClockRate: 8000},
	}, codecs[0])
}

func TestExtractCodecsUnknownPayloadType(t *testing.T) {
	lines := []string{
		"v=0",
		"o=- 1 1 IN IP4 10.0.0.1",
		"s=-",
		"t=0 0",
		"m=audio 5004 RTP/AVP 0 96",
	}
	s, err := Parse([]byte(strings.Join(lines, "\r\n") + "\r\n"))
	require.NoError(t, err)

	codecs := s.ExtractCodecs()
	require.Equal(t, "unknown", codecs[0][1].Name)
	require.Equal(t, 8000, codecs[0][1].ClockRate)
}

func TestFilterCodecs(t *testing.T) {
	s, err := Parse(scenarioS4SDP())
	require.NoError(t, err)

	s.FilterCodecs([]string{"pcmu"})
	out, err := s.Emit()
	require.NoError(t, err)
	text := string(out)
	require.Contains(t, text, "m=audio 5004 RTP/AVP 0")
	require.NotContains(t, text, "RTP/AVP 0 8")
}

func TestMediaAt(t *testing.T) {
	s, err := Parse(scenarioS4SDP())
	require.NoError(t, err)

	md, err := s.MediaAt(0)
	require.NoError(t, err)
	require.Equal(t, "audio", md.Media)
	require.Equal(t, 5004, md.Port)
	require.Equal(t, []string{"0", "8"}, md.Formats)
}

func TestMediaAtOutOfRange(t *testing.T) {
	s, err := Parse(scenarioS4SDP())
	require.NoError(t, err)

	_, err = s.MediaAt(5)
	require.Error(t, err)
}

func TestParseRejectsMalformed(t *testing.T) {
	_, err := Parse([]byte("not an sdp body"))
	require.Error(t, err)
}
