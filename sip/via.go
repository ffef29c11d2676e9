package sip

// Via is the parsed view of a single Via header value:
// "<sent-protocol> <sent-by>[;params]".
type Via struct {
	Full          Range
	SentProtocol  Range
	SentBy        Range
	Params        Params
}

// ParseVia splits raw on the first space (sent-protocol | sent-by),
// then splits sent-by on the first ';' to recover params.
func ParseVia(buf []byte, raw Range, limits ParserLimits) (Via, error) {
	v := Via{Full: raw}
	trimmed := trimWS(buf, raw)

	sp := -1
	for i := trimmed.Start; i < trimmed.End; i++ {
		if buf[i] == ' ' || buf[i] == '\t' {
			sp = i
			break
		}
	}
	if sp < 0 {
		return v, NewParseError("malformed Via header", "missing sent-by")
	}
	v.SentProtocol = Range{Start: trimmed.Start, End: sp}

	rest := trimWS(buf, Range{Start: sp + 1, End: trimmed.End})
	if rest.Empty() {
		return v, NewParseError("malformed Via header", "empty sent-by")
	}

	semi := indexByte(buf, rest, ';')
	if semi >= 0 {
		v.SentBy = Range{Start: rest.Start, End: semi}
		params, err := ParseParams(buf, Range{Start: semi + 1, End: rest.End}, limits.MaxHeaderParams)
		if err != nil {
			return v, err
		}
		v.Params = params
	} else {
		v.SentBy = rest
	}
	return v, nil
}

// Branch returns the via's branch parameter value, or "" if absent.
func (v Via) Branch(buf []byte) string {
	return v.Params.GetString(buf, "branch")
}
