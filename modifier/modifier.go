// Package modifier streams a parsed sip.Message through an edit script
// and emits a new, well-formed SIP byte buffer. The original Message
// and its source buffer are never mutated; the Modifier trades one
// allocation of the output buffer for byte-exact preservation of every
// untouched header.
package modifier

import (
	"strings"

	"github.com/sbctools/sipcore/sip"
)

type addedHeader struct {
	name  string
	value string
	isVia bool
}

// Modifier accumulates an edit script against a parsed message. Build
// one, call its edit methods, then Emit.
type Modifier struct {
	msg *sip.Message
	buf []byte

	stripVia         bool
	stripRecordRoute bool

	// modified maps a canonical header name to its replacement value.
	// Values here win over the original line wherever that header
	// appears in msg.Order, and are emitted with canonical display
	// casing for any entry that doesn't appear in the original message.
	modified map[string]string
	// modifiedOrder records the order canonical names were first set in
	// modified, so Emit's modified-but-absent pass is reproducible
	// instead of following Go's randomized map iteration.
	modifiedOrder []string

	added []addedHeader

	newRequestURI string
	hasNewURI     bool
}

// New builds a Modifier over msg. msg.Buffer is read, never written.
func New(msg *sip.Message) *Modifier {
	return &Modifier{
		msg:      msg,
		buf:      msg.Buffer,
		modified: make(map[string]string),
	}
}

// StripViaHeaders removes every Via header from the output.
func (m *Modifier) StripViaHeaders() { m.stripVia = true }

// StripRecordRouteHeaders removes every Record-Route header from the output.
func (m *Modifier) StripRecordRouteHeaders() { m.stripRecordRoute = true }

// setModified records canon's replacement value, tracking first-seen
// order so Emit's output is deterministic.
func (m *Modifier) setModified(canon, value string) {
	if _, exists := m.modified[canon]; !exists {
		m.modifiedOrder = append(m.modifiedOrder, canon)
	}
	m.modified[canon] = value
}

// ReplaceCallID sets Call-ID to s. Fails on an empty string.
func (m *Modifier) ReplaceCallID(s string) error {
	if s == "" {
		return sip.NewParseError("empty Call-ID", "replace_call_id")
	}
	m.setModified(sip.HeaderCallID, s)
	return nil
}

// SetContact sets Contact to s. Fails on an empty string.
func (m *Modifier) SetContact(s string) error {
	if s == "" {
		return sip.NewParseError("empty Contact", "set_contact")
	}
	m.setModified(sip.HeaderContact, s)
	return nil
}

// DecrementMaxForwards sets Max-Forwards to the received value minus
// one. If the received value is absent or unparseable, 69 (the B2BUA
// default) is used instead. It never fails: whether a decremented
// value of zero is acceptable is a policy decision made above the core.
func (m *Modifier) DecrementMaxForwards() {
	const b2buaDefault = 69
	value, ok, err := m.msg.MaxForwardsValue()
	if !ok || err != nil {
		m.setModified(sip.HeaderMaxForwards, itoa(b2buaDefault))
		return
	}
	m.setModified(sip.HeaderMaxForwards, itoa(value-1))
}

// AddHeader appends a new header in the order added. Adding a "Via"
// header this way is equivalent to calling AddVia.
func (m *Modifier) AddHeader(name, value string) {
	isVia := strings.EqualFold(name, sip.HeaderVia) || strings.EqualFold(name, "v")
	m.added = append(m.added, addedHeader{name: name, value: value, isVia: isVia})
}

// AddVia appends a new Via header value; all Via additions are hoisted
// to the top of the output header section ahead of any surviving
// original header, regardless of insertion order among themselves.
func (m *Modifier) AddVia(v string) {
	m.added = append(m.added, addedHeader{name: sip.HeaderVia, value: v, isVia: true})
}

// SetRequestURI replaces the request-URI. Only valid on requests.
func (m *Modifier) SetRequestURI(u string) error {
	if !m.msg.IsRequest {
		return sip.NewStateError("set_request_uri", "message is not a request", "")
	}
	m.newRequestURI = u
	m.hasNewURI = true
	return nil
}

// SessionTimerOptions configures AddSessionTimerHeaders.
type SessionTimerOptions struct {
	SessionExpires int
	MinSE          int // 0 means omit Min-SE
	Refresher      string
	Required       bool
}

// AddSessionTimerHeaders writes Session-Expires, an optional Min-SE,
// and either Require: timer or Supported: timer (RFC 4028).
func (m *Modifier) AddSessionTimerHeaders(opts SessionTimerOptions) {
	m.AddHeader("Session-Expires", itoa(opts.SessionExpires)+";refresher="+opts.Refresher)
	if opts.MinSE > 0 {
		m.AddHeader("Min-SE", itoa(opts.MinSE))
	}
	if opts.Required {
		m.AddHeader("Require", "timer")
	} else {
		m.AddHeader("Supported", "timer")
	}
}

// UpdateSessionTimer replaces an existing Session-Expires value.
func (m *Modifier) UpdateSessionTimer(newExpires int, refresher string) {
	m.setModified(sip.HeaderSessionExpires, itoa(newExpires)+";refresher="+refresher)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
