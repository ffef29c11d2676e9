package sip

import "strconv"

// RequestMethod is the method token of a request line or CSeq header.
// Unrecognized methods are preserved verbatim rather than rejected
// (spec §6: "all others are preserved as UNKNOWN(name)").
type RequestMethod string

func (m RequestMethod) String() string { return string(m) }

const (
	INVITE    RequestMethod = "INVITE"
	ACK       RequestMethod = "ACK"
	BYE       RequestMethod = "BYE"
	CANCEL    RequestMethod = "CANCEL"
	OPTIONS   RequestMethod = "OPTIONS"
	REGISTER  RequestMethod = "REGISTER"
	PRACK     RequestMethod = "PRACK"
	SUBSCRIBE RequestMethod = "SUBSCRIBE"
	NOTIFY    RequestMethod = "NOTIFY"
	PUBLISH   RequestMethod = "PUBLISH"
	INFO      RequestMethod = "INFO"
	REFER     RequestMethod = "REFER"
	MESSAGE   RequestMethod = "MESSAGE"
	UPDATE    RequestMethod = "UPDATE"
)

var knownMethods = map[string]RequestMethod{
	"INVITE": INVITE, "ACK": ACK, "BYE": BYE, "CANCEL": CANCEL,
	"OPTIONS": OPTIONS, "REGISTER": REGISTER, "PRACK": PRACK,
	"SUBSCRIBE": SUBSCRIBE, "NOTIFY": NOTIFY, "PUBLISH": PUBLISH,
	"INFO": INFO, "REFER": REFER, "MESSAGE": MESSAGE, "UPDATE": UPDATE,
}

// ResolveMethod maps a wire method token to a known RequestMethod, or
// returns (RequestMethod(name), false) for an UNKNOWN method.
func ResolveMethod(name string) (RequestMethod, bool) {
	if m, ok := knownMethods[name]; ok {
		return m, true
	}
	return RequestMethod(name), false
}

// CSeqValue is the decoded form of a CSeq header: "<sequence> <method>".
type CSeqValue struct {
	Sequence uint32
	Method   RequestMethod
	Known    bool
}

// ParseCSeq splits raw on whitespace into (sequence, method). Sequence
// must fit uint32 and be <= MaxCSeq (spec §5).
func ParseCSeq(buf []byte, raw Range) (CSeqValue, error) {
	var c CSeqValue
	trimmed := trimWS(buf, raw)
	sp := -1
	for i := trimmed.Start; i < trimmed.End; i++ {
		if buf[i] == ' ' || buf[i] == '\t' {
			sp = i
			break
		}
	}
	if sp < 0 {
		return c, NewParseError("malformed CSeq header", "missing method")
	}
	seqStr := Range{Start: trimmed.Start, End: sp}.String(buf)
	seq, err := strconv.ParseUint(seqStr, 10, 32)
	if err != nil || seq > MaxCSeq {
		return c, NewParseError("invalid CSeq sequence number", seqStr)
	}
	c.Sequence = uint32(seq)

	methodStart := sp
	for methodStart < trimmed.End && (buf[methodStart] == ' ' || buf[methodStart] == '\t') {
		methodStart++
	}
	methodStr := Range{Start: methodStart, End: trimmed.End}.String(buf)
	m, known := ResolveMethod(methodStr)
	c.Method = m
	c.Known = known
	return c, nil
}
