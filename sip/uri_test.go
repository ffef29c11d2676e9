package sip

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseURISIP(t *testing.T) {
	buf := []byte("sip:alice@example.com:5060;transport=tcp")
	u, err := ParseURI(buf, Range{Start: 0, End: len(buf)}, DefaultLimits(), 0)
	require.NoError(t, err)
	require.Equal(t, SchemeSIP, u.Scheme)
	require.Equal(t, "alice", u.User(buf))
	require.Equal(t, "example.com", u.HostString(buf))
	require.Equal(t, uint16(5060), u.Port)
	require.Equal(t, "tcp", u.Params.GetString(buf, "transport"))
}

func TestParseURITel(t *testing.T) {
	buf := []byte("tel:+15551234567")
	u, err := ParseURI(buf, Range{Start: 0, End: len(buf)}, DefaultLimits(), 0)
	require.NoError(t, err)
	require.Equal(t, SchemeTel, u.Scheme)
	require.Equal(t, "+15551234567", u.User(buf))
}

func TestParseURIRejectsUnknownScheme(t *testing.T) {
	buf := []byte("http://example.com")
	_, err := ParseURI(buf, Range{Start: 0, End: len(buf)}, DefaultLimits(), 0)
	require.Error(t, err)
}

func TestParseURIRejectsSuspiciousSequence(t *testing.T) {
	buf := []byte("sip:alice@example.com/../etc")
	_, err := ParseURI(buf, Range{Start: 0, End: len(buf)}, DefaultLimits(), 0)
	require.Error(t, err)
}

func TestParseURIDepthLimit(t *testing.T) {
	buf := []byte("sip:alice@example.com")
	limits := DefaultLimits()
	limits.MaxURIDepth = 2
	_, err := ParseURI(buf, Range{Start: 0, End: len(buf)}, limits, 3)
	require.Error(t, err)
	var re *ResourceError
	require.ErrorAs(t, err, &re)
	require.Equal(t, ResourceURIDepth, re.Kind)
}

func TestExtractE164(t *testing.T) {
	buf := []byte("sip:+15551234567@gw.example.com")
	r, ok := ExtractE164(buf, Range{Start: 0, End: len(buf)})
	require.True(t, ok)
	require.Equal(t, "+15551234567", r.String(buf))
}

func TestExtractTrunkGroup(t *testing.T) {
	buf := []byte("<sip:gw@example.com;tgrp=tg-1;trunk-context=example.com>")
	r, ok := ExtractTrunkGroup(buf, Range{Start: 0, End: len(buf)})
	require.True(t, ok)
	require.Equal(t, "tg-1", r.String(buf))
}
