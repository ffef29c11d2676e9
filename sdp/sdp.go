// Package sdp wraps pion/sdp/v3 with the reduced, lossy structural
// model this core needs: origin, session name, session-level
// connection, and per-media name/port/protos/formats/connection. Every
// other line (in particular every "a=" attribute) is read by the
// underlying grammar but dropped from the model and from re-emission,
// by design.
package sdp

import (
	psdp "github.com/pion/sdp/v3"

	"github.com/sbctools/sipcore/sip"
)

// SessionDescription is the reduced view over a parsed SDP body. The
// underlying pion SessionDescription is kept so rewrite operations can
// mutate state in place without re-deriving it.
type SessionDescription struct {
	raw *psdp.SessionDescription
}

// Parse parses raw SDP bytes. Any non-empty line that doesn't match the
// SDP "X=..." grammar is a parse error; lines whose type this core
// doesn't model (most "a=" lines) are tolerated and simply ignored.
func Parse(raw []byte) (*SessionDescription, error) {
	var s psdp.SessionDescription
	if err := s.Unmarshal(raw); err != nil {
		return nil, sip.NewParseError("malformed SDP", err.Error())
	}
	return &SessionDescription{raw: &s}, nil
}

// OriginAddress returns the o= line's unicast address.
func (s *SessionDescription) OriginAddress() string {
	return s.raw.Origin.UnicastAddress
}

// SessionName returns the s= line's value.
func (s *SessionDescription) SessionName() string {
	return s.raw.SessionName
}

// ConnectionAddress returns the session-level c= address, or "" if
// absent.
func (s *SessionDescription) ConnectionAddress() string {
	if s.raw.ConnectionInformation == nil || s.raw.ConnectionInformation.Address == nil {
		return ""
	}
	return s.raw.ConnectionInformation.Address.Address
}

// MediaCount returns the number of media descriptions.
func (s *SessionDescription) MediaCount() int {
	return len(s.raw.MediaDescriptions)
}

// MediaAt returns a snapshot of the i'th media description's
// name/port/protos/formats/connection.
func (s *SessionDescription) MediaAt(i int) (MediaDescription, error) {
	if i < 0 || i >= len(s.raw.MediaDescriptions) {
		return MediaDescription{}, sip.NewParseError("media index out of range", "")
	}
	m := s.raw.MediaDescriptions[i]
	md := MediaDescription{
		Media:   m.MediaName.Media,
		Port:    m.MediaName.Port.Value,
		Protos:  append([]string(nil), m.MediaName.Protos...),
		Formats: append([]string(nil), m.MediaName.Formats...),
	}
	if m.ConnectionInformation != nil && m.ConnectionInformation.Address != nil {
		addr := m.ConnectionInformation.Address.Address
		md.Connection = &addr
	}
	return md, nil
}

// MediaDescription is a read-only snapshot of one media section.
type MediaDescription struct {
	Media      string
	Port       int
	Protos     []string
	Formats    []string
	Connection *string
}

// RewriteConnectionAddresses updates origin.unicast_address, the
// session-level c=, and every media-level c= (when present) to addr.
func (s *SessionDescription) RewriteConnectionAddresses(addr string) {
	s.raw.Origin.UnicastAddress = addr

	if s.raw.ConnectionInformation == nil {
		s.raw.ConnectionInformation = &psdp.ConnectionInformation{
			NetworkType: "IN",
			AddressType: "IP4",
		}
	}
	if s.raw.ConnectionInformation.Address == nil {
		s.raw.ConnectionInformation.Address = &psdp.Address{}
	}
	s.raw.ConnectionInformation.Address.Address = addr

	for _, m := range s.raw.MediaDescriptions {
		if m.ConnectionInformation != nil && m.ConnectionInformation.Address != nil {
			m.ConnectionInformation.Address.Address = addr
		}
	}
}

// ChangeMediaPort mutates media_descriptions[i].port.
func (s *SessionDescription) ChangeMediaPort(i int, port int) error {
	if i < 0 || i >= len(s.raw.MediaDescriptions) {
		return sip.NewParseError("media index out of range", "")
	}
	s.raw.MediaDescriptions[i].MediaName.Port.Value = port
	return nil
}
