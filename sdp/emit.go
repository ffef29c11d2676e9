package sdp

import (
	psdp "github.com/pion/sdp/v3"

	"github.com/sbctools/sipcore/sip"
)

// Emit reconstructs a minimal, canonical SDP body: v=0, the current o=
// line, s=, an optional session-level c=, t=0 0, and each m= line with
// its current formats. Every "a=" line from the original input is
// dropped; attribute preservation, if a caller needs it, belongs above
// this core.
func (s *SessionDescription) Emit() ([]byte, error) {
	out := &psdp.SessionDescription{
		Origin:      s.raw.Origin,
		SessionName: s.raw.SessionName,
		TimeDescriptions: []psdp.TimeDescription{
			{Timing: psdp.Timing{StartTime: 0, StopTime: 0}},
		},
	}

	if s.raw.ConnectionInformation != nil && s.raw.ConnectionInformation.Address != nil {
		out.ConnectionInformation = &psdp.ConnectionInformation{
			NetworkType: s.raw.ConnectionInformation.NetworkType,
			AddressType: s.raw.ConnectionInformation.AddressType,
			Address:     &psdp.Address{Address: s.raw.ConnectionInformation.Address.Address},
		}
	}

	for _, m := range s.raw.MediaDescriptions {
		md := &psdp.MediaDescription{
			MediaName: psdp.MediaName{
				Media:   m.MediaName.Media,
				Port:    m.MediaName.Port,
				Protos:  append([]string(nil), m.MediaName.Protos...),
				Formats: append([]string(nil), m.MediaName.Formats...),
			},
		}
		if m.ConnectionInformation != nil && m.ConnectionInformation.Address != nil {
			md.ConnectionInformation = &psdp.ConnectionInformation{
				NetworkType: m.ConnectionInformation.NetworkType,
				AddressType: m.ConnectionInformation.AddressType,
				Address:     &psdp.Address{Address: m.ConnectionInformation.Address.Address},
			}
		}
		out.MediaDescriptions = append(out.MediaDescriptions, md)
	}

	raw, err := out.Marshal()
	if err != nil {
		return nil, sip.NewParseError("failed to emit SDP", err.Error())
	}
	return raw, nil
}
