package sip

// Address is a name-addr or addr-spec: an optional display name, a URI,
// and trailing parameters (the ones that belong to the header, e.g.
// the From/To "tag" param — not the URI's own params).
type Address struct {
	Full        Range
	DisplayName *Range
	URI         URI
	Params      Params
}

// ParseAddress parses raw per spec §4.1: if '<' is present, the
// trimmed prefix is the display name (quotes stripped when both
// present) and the '<...>' content is the URI; any ';params' after
// '>' belong to the Address. Otherwise the value splits on the first
// ';': left is the URI, right is the Address's params.
func ParseAddress(buf []byte, raw Range, limits ParserLimits) (Address, error) {
	a := Address{Full: raw}

	trimmed := trimWS(buf, raw)
	lt := indexByte(buf, trimmed, '<')
	if lt >= 0 {
		gt := indexByte(buf, Range{Start: lt, End: trimmed.End}, '>')
		if gt < 0 {
			return a, NewParseError("unterminated name-addr", "missing '>'")
		}
		display := trimWS(buf, Range{Start: trimmed.Start, End: lt})
		display = stripQuotes(buf, display)
		if !display.Empty() {
			a.DisplayName = &display
		}
		uriRange := Range{Start: lt + 1, End: gt}
		uri, err := ParseURI(buf, uriRange, limits, 0)
		if err != nil {
			return a, err
		}
		a.URI = uri

		rest := Range{Start: gt + 1, End: trimmed.End}
		if semi := indexByte(buf, rest, ';'); semi >= 0 {
			params, err := ParseParams(buf, Range{Start: semi + 1, End: rest.End}, limits.MaxHeaderParams)
			if err != nil {
				return a, err
			}
			a.Params = params
		}
		return a, nil
	}

	// addr-spec form: URI [;params]
	semi := indexByte(buf, trimmed, ';')
	uriEnd := trimmed.End
	if semi >= 0 {
		uriEnd = semi
	}
	uri, err := ParseURI(buf, Range{Start: trimmed.Start, End: uriEnd}, limits, 0)
	if err != nil {
		return a, err
	}
	a.URI = uri
	if semi >= 0 {
		params, err := ParseParams(buf, Range{Start: semi + 1, End: trimmed.End}, limits.MaxHeaderParams)
		if err != nil {
			return a, err
		}
		a.Params = params
	}
	return a, nil
}

func trimWS(buf []byte, r Range) Range {
	s, e := r.Start, r.End
	for s < e && (buf[s] == ' ' || buf[s] == '\t') {
		s++
	}
	for e > s && (buf[e-1] == ' ' || buf[e-1] == '\t') {
		e--
	}
	return Range{Start: s, End: e}
}

func stripQuotes(buf []byte, r Range) Range {
	if r.Len() >= 2 && buf[r.Start] == '"' && buf[r.End-1] == '"' {
		return Range{Start: r.Start + 1, End: r.End - 1}
	}
	return r
}
