package sip

// validateToken checks that name is a non-empty RFC 3261 token: no
// CTL characters, no separators.
func validateToken(name []byte) error {
	if len(name) == 0 {
		return NewParseError("empty header name", "")
	}
	for _, c := range name {
		if !isTokenChar(c) {
			return NewParseError("invalid header name", "illegal token character")
		}
	}
	return nil
}

// sanitizeHeaderValue rejects a header value containing a bare CR or
// LF (after any folding has already been resolved) or a NUL byte.
// This is the CRLF-injection defense required by spec §4.1/§8 property 9.
func sanitizeHeaderValue(value []byte) error {
	for _, c := range value {
		if c == '\r' || c == '\n' {
			return NewParseError("CRLF injection attempt", "bare CR/LF in header value")
		}
		if c == 0 {
			return NewParseError("NUL byte in header value", "")
		}
	}
	return nil
}
