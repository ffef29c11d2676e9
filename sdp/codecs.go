package sdp

import "strconv"

// Codec is the derived, friendly view of one RTP/AVP payload format.
type Codec struct {
	PayloadType int
	Name        string
	ClockRate   int
}

// staticPayloadTypes is the RFC 3551 static assignment table this core
// understands; anything outside it resolves to an "unknown" codec at
// the conventional 8000 Hz telephony clock rate.
var staticPayloadTypes = map[int]Codec{
	0:  {PayloadType: 0, Name: "PCMU", ClockRate: 8000},
	8:  {PayloadType: 8, Name: "PCMA", ClockRate: 8000},
	18: {PayloadType: 18, Name: "G729", ClockRate: 8000},
}

func resolveCodec(format string) Codec {
	pt, err := strconv.Atoi(format)
	if err != nil {
		return Codec{PayloadType: -1, Name: "unknown", ClockRate: 8000}
	}
	if c, ok := staticPayloadTypes[pt]; ok {
		return c
	}
	return Codec{PayloadType: pt, Name: "unknown", ClockRate: 8000}
}

// ExtractCodecs maps every media description's formats to Codec,
// one slice per media description in order.
func (s *SessionDescription) ExtractCodecs() [][]Codec {
	out := make([][]Codec, len(s.raw.MediaDescriptions))
	for i, m := range s.raw.MediaDescriptions {
		codecs := make([]Codec, len(m.MediaName.Formats))
		for j, f := range m.MediaName.Formats {
			codecs[j] = resolveCodec(f)
		}
		out[i] = codecs
	}
	return out
}

// FilterCodecs retains, for every media description, only the formats
// whose derived codec name matches (case-insensitively) an entry in
// allowed.
func (s *SessionDescription) FilterCodecs(allowed []string) {
	allowedSet := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		allowedSet[lowerASCII(a)] = true
	}

	for _, m := range s.raw.MediaDescriptions {
		kept := m.MediaName.Formats[:0:0]
		for _, f := range m.MediaName.Formats {
			c := resolveCodec(f)
			if allowedSet[lowerASCII(c.Name)] {
				kept = append(kept, f)
			}
		}
		m.MediaName.Formats = kept
	}
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
