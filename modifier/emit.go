package modifier

import (
	"strings"

	"github.com/sbctools/sipcore/sip"
)

// displayNames gives the conventional mixed-case form for a header
// synthesized by the Modifier (never present in the original message,
// so there is no original casing to copy). Anything missing here falls
// back to a generic title-case-by-hyphen rendering.
var displayNames = map[string]string{
	sip.HeaderVia:             "Via",
	sip.HeaderFrom:            "From",
	sip.HeaderTo:              "To",
	sip.HeaderCallID:          "Call-ID",
	sip.HeaderCSeq:            "CSeq",
	sip.HeaderContact:         "Contact",
	sip.HeaderContentLength:   "Content-Length",
	sip.HeaderContentType:     "Content-Type",
	sip.HeaderMaxForwards:     "Max-Forwards",
	sip.HeaderRecordRoute:     "Record-Route",
	sip.HeaderRoute:           "Route",
	sip.HeaderSessionExpires:  "Session-Expires",
	sip.HeaderMinSE:           "Min-SE",
	sip.HeaderRequire:         "Require",
	sip.HeaderSupported:       "Supported",
	sip.HeaderEvent:           "Event",
	sip.HeaderUserAgent:       "User-Agent",
}

func displayName(canon string) string {
	if d, ok := displayNames[canon]; ok {
		return d
	}
	parts := strings.Split(canon, "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "-")
}

// Emit applies the accumulated edit script against the source message
// and returns the resulting byte buffer. It follows the seven-step
// procedure: new Via headers on top, then the original header block
// streamed line by line with strips/substitutions applied, then any
// remaining added or modified-but-absent headers, then the body
// verbatim.
func (m *Modifier) Emit() ([]byte, error) {
	buf := m.buf

	estimate := len(buf) + 64
	for _, a := range m.added {
		estimate += len(a.name) + len(a.value) + 4
	}
	for _, v := range m.modified {
		estimate += len(v) + 32
	}

	var out strings.Builder
	out.Grow(estimate)

	if err := m.writeStartLine(&out); err != nil {
		return nil, err
	}
	out.WriteString("\r\n")

	for _, a := range m.added {
		if a.isVia {
			out.WriteString("Via: ")
			out.WriteString(a.value)
			out.WriteString("\r\n")
		}
	}

	emitted := make(map[string]bool)
	for _, entry := range m.msg.Order {
		canon := entry.CanonicalName(buf)

		if canon == sip.HeaderVia && m.stripVia {
			continue
		}
		if canon == sip.HeaderRecordRoute && m.stripRecordRoute {
			continue
		}

		if newVal, ok := m.modified[canon]; ok {
			if emitted[canon] {
				continue
			}
			out.Write(entry.Name.Slice(buf))
			out.WriteString(": ")
			out.WriteString(newVal)
			out.WriteString("\r\n")
			emitted[canon] = true
			continue
		}

		lineEnd := entry.Value.Raw.End
		out.Write(buf[entry.Name.Start:lineEnd])
		out.WriteString("\r\n")
	}

	for _, a := range m.added {
		if !a.isVia {
			out.WriteString(a.name)
			out.WriteString(": ")
			out.WriteString(a.value)
			out.WriteString("\r\n")
		}
	}

	for _, canon := range m.modifiedOrder {
		if emitted[canon] {
			continue
		}
		out.WriteString(displayName(canon))
		out.WriteString(": ")
		out.WriteString(m.modified[canon])
		out.WriteString("\r\n")
	}

	out.WriteString("\r\n")
	out.Write(m.msg.BodyBytes())

	return []byte(out.String()), nil
}

func (m *Modifier) writeStartLine(out *strings.Builder) error {
	buf := m.buf
	if m.msg.IsRequest {
		if m.hasNewURI {
			out.WriteString(m.msg.RequestMethod.String(buf))
			out.WriteString(" ")
			out.WriteString(m.newRequestURI)
			out.WriteString(" ")
			out.WriteString(m.msg.SIPVersion.String(buf))
			return nil
		}
		out.Write(m.msg.StartLine.Slice(buf))
		return nil
	}
	out.Write(m.msg.StartLine.Slice(buf))
	return nil
}
