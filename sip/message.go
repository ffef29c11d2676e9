package sip

// Message is the zero-copy, lazily-decoded view over a single SIP
// datagram/stream buffer. Every field below refers back into Buffer by
// range; nothing is copied out of the wire bytes during Parse except
// where header folding forced a working copy (see parser.go).
type Message struct {
	Buffer []byte
	Limits ParserLimits

	IsRequest                 bool
	HeadersParsed             bool
	ContactHasMultipleEntries bool

	StartLine Range

	// Request line (valid when IsRequest).
	RequestMethod Range
	RequestURI    Range
	SIPVersion    Range

	// Status line (valid when !IsRequest).
	StatusCode     int
	ReasonPhrase   Range

	// Dedicated single-occurrence slots.
	To           *HeaderValue
	From         *HeaderValue
	CallID       *HeaderValue
	CSeqHeader   *HeaderValue
	MaxForwards  *HeaderValue

	// memoized scalar decodes of CSeqHeader / MaxForwards
	cseqValue        *CSeqValue
	maxForwardsValue *int

	ViaHeaders     []HeaderValue
	ContactHeaders []HeaderValue
	Headers        []HeaderEntry

	// Order holds every header of the message, dedicated-slot or not, in
	// original wire order. The parser populates it unconditionally; the
	// Modifier is the one consumer that needs a single authoritative
	// sequence to replay for byte-exact passthrough of untouched lines.
	Order []HeaderEntry

	// Extension slots.
	Event              *HeaderValue
	SubscriptionState  *HeaderValue
	ReferTo            *HeaderValue

	Body *Range
}

// BodyBytes returns the message body, or nil if absent.
func (m *Message) BodyBytes() []byte {
	if m.Body == nil {
		return nil
	}
	return m.Body.Slice(m.Buffer)
}

// StartLineString returns the raw, unparsed start line.
func (m *Message) StartLineString() string {
	return m.StartLine.String(m.Buffer)
}

// Method returns the request method token (only meaningful if
// IsRequest).
func (m *Message) Method() RequestMethod {
	return RequestMethod(m.RequestMethod.String(m.Buffer))
}

// RequestURIString returns the raw request-URI text.
func (m *Message) RequestURIString() string {
	return m.RequestURI.String(m.Buffer)
}

// CallIDString returns the raw Call-ID value, or "" if absent.
func (m *Message) CallIDString() string {
	if m.CallID == nil {
		return ""
	}
	return m.CallID.String(m.Buffer)
}

// ToAddress lazily decodes the To header into an Address.
func (m *Message) ToAddress() (*Address, error) {
	if m.To == nil {
		return nil, NewParseError("missing To header", "")
	}
	return m.To.Address(m.Buffer, m.Limits)
}

// FromAddress lazily decodes the From header into an Address.
func (m *Message) FromAddress() (*Address, error) {
	if m.From == nil {
		return nil, NewParseError("missing From header", "")
	}
	return m.From.Address(m.Buffer, m.Limits)
}

// ToBuf returns the buffer an Address returned by ToAddress must be
// resolved against (handles the rare folded-header case).
func (m *Message) ToBuf() []byte {
	if m.To == nil {
		return m.Buffer
	}
	return m.To.Buf(m.Buffer)
}

// FromBuf returns the buffer an Address returned by FromAddress must
// be resolved against (handles the rare folded-header case).
func (m *Message) FromBuf() []byte {
	if m.From == nil {
		return m.Buffer
	}
	return m.From.Buf(m.Buffer)
}

// CSeqMethod returns the decoded CSeq method, memoizing on first call.
func (m *Message) CSeqMethod() (RequestMethod, error) {
	v, err := m.cseq()
	if err != nil {
		return "", err
	}
	return v.Method, nil
}

// CSeqSequence returns the decoded CSeq sequence number.
func (m *Message) CSeqSequence() (uint32, error) {
	v, err := m.cseq()
	if err != nil {
		return 0, err
	}
	return v.Sequence, nil
}

func (m *Message) cseq() (*CSeqValue, error) {
	if m.cseqValue != nil {
		return m.cseqValue, nil
	}
	if m.CSeqHeader == nil {
		return nil, NewParseError("missing CSeq header", "")
	}
	v, err := ParseCSeq(m.Buffer, m.CSeqHeader.Raw)
	if err != nil {
		return nil, err
	}
	m.cseqValue = &v
	return m.cseqValue, nil
}

// MaxForwardsValue returns the decoded Max-Forwards integer, memoizing
// on first call. ok is false if the header is absent.
func (m *Message) MaxForwardsValue() (value int, ok bool, err error) {
	if m.MaxForwards == nil {
		return 0, false, nil
	}
	if m.maxForwardsValue != nil {
		return *m.maxForwardsValue, true, nil
	}
	n, perr := parseNonNegativeInt(m.MaxForwards.String(m.Buffer))
	if perr != nil {
		return 0, true, NewParseError("invalid Max-Forwards value", m.MaxForwards.String(m.Buffer))
	}
	m.maxForwardsValue = &n
	return n, true, nil
}

func parseNonNegativeInt(s string) (int, error) {
	if s == "" {
		return 0, NewParseError("empty integer", "")
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return 0, NewParseError("non-digit in integer", s)
		}
		n = n*10 + int(s[i]-'0')
	}
	return n, nil
}

// GetHeader returns the first header in Headers whose canonical name
// matches name (case-insensitive, compact forms expanded). Dedicated
// slots and the Via/Contact lists are not searched; use the typed
// accessors or ViaHeaders/ContactHeaders for those.
func (m *Message) GetHeader(name string) (*HeaderEntry, bool) {
	canon := canonicalHeaderName([]byte(name))
	for i := range m.Headers {
		if m.Headers[i].CanonicalName(m.Buffer) == canon {
			return &m.Headers[i], true
		}
	}
	return nil, false
}

// GetHeaders returns every header in Headers whose canonical name
// matches name, in receive order.
func (m *Message) GetHeaders(name string) []*HeaderEntry {
	canon := canonicalHeaderName([]byte(name))
	var out []*HeaderEntry
	for i := range m.Headers {
		if m.Headers[i].CanonicalName(m.Buffer) == canon {
			out = append(out, &m.Headers[i])
		}
	}
	return out
}

// TopVia returns the first (topmost) Via header, if any.
func (m *Message) TopVia() (*Via, error) {
	if len(m.ViaHeaders) == 0 {
		return nil, NewParseError("no Via headers", "")
	}
	return m.ViaHeaders[0].Via(m.Buffer, m.Limits)
}
