package sip

import "strconv"

// Scheme identifies the URI scheme this core understands. Anything
// else is a hard parse error (spec §6: only sip/sips/tel are accepted
// as request-URI schemes).
type Scheme string

const (
	SchemeSIP  Scheme = "sip"
	SchemeSIPS Scheme = "sips"
	SchemeTel  Scheme = "tel"
)

// URI is the parsed, range-backed view of a SIP/SIPS/tel URI. For a
// tel URI, UserInfo holds the phone number and Host/Port are unset.
type URI struct {
	Scheme     Scheme
	UserInfo   *Range
	UserParams Params
	Host       *Range
	Port       uint16
	Params     Params
	Headers    *Range
}

// User returns the decoded user-info string, or "" if absent.
func (u URI) User(buf []byte) string {
	if u.UserInfo == nil {
		return ""
	}
	return u.UserInfo.String(buf)
}

// HostString returns the decoded host string, or "" if absent.
func (u URI) HostString(buf []byte) string {
	if u.Host == nil {
		return ""
	}
	return u.Host.String(buf)
}

// suspicious sequences rejected anywhere in a URI per spec §4.1.
var suspiciousURISequences = []string{"../", "..\\", "%00", "%0d", "%0a", "%0D", "%0A"}

func containsSuspicious(s string) string {
	for _, seq := range suspiciousURISequences {
		if indexOf(s, seq) >= 0 {
			return seq
		}
	}
	return ""
}

func indexOf(s, sub string) int {
	n, m := len(s), len(sub)
	if m == 0 || m > n {
		return -1
	}
	for i := 0; i+m <= n; i++ {
		if s[i:i+m] == sub {
			return i
		}
	}
	return -1
}

// ParseURI parses raw (the full "scheme:..." span) into a URI.
// depth is the current URI-nesting depth (0 at top level; nested URIs
// discovered inside header parameters, e.g. a Replaces target-dialog
// URI, should be parsed with depth+1) and is checked against
// limits.MaxURIDepth.
func ParseURI(buf []byte, raw Range, limits ParserLimits, depth int) (URI, error) {
	var u URI

	if limits.MaxURIDepth > 0 && depth > limits.MaxURIDepth {
		return u, NewResourceError(ResourceURIDepth, uint64(depth), uint64(limits.MaxURIDepth))
	}
	if limits.MaxURILength > 0 && raw.Len() > limits.MaxURILength {
		return u, NewResourceError(ResourceURILength, uint64(raw.Len()), uint64(limits.MaxURILength))
	}

	full := raw.String(buf)
	if seq := containsSuspicious(full); seq != "" {
		return u, NewParseError("suspicious sequence in URI", "found "+seq)
	}

	colon := -1
	for i := raw.Start; i < raw.End; i++ {
		if buf[i] == ':' {
			colon = i
			break
		}
		if !isAlpha(buf[i]) {
			break
		}
	}
	if colon < 0 {
		return u, NewParseError("missing scheme separator in URI", "")
	}
	schemeRaw := asciiToLowerString(buf[raw.Start:colon])
	switch schemeRaw {
	case string(SchemeSIP):
		u.Scheme = SchemeSIP
	case string(SchemeSIPS):
		u.Scheme = SchemeSIPS
	case string(SchemeTel):
		u.Scheme = SchemeTel
	default:
		return u, NewParseError("invalid scheme", schemeRaw)
	}

	rest := Range{Start: colon + 1, End: raw.End}

	if u.Scheme == SchemeTel {
		semi := indexByte(buf, rest, ';')
		userEnd := rest.End
		if semi >= 0 {
			userEnd = semi
		}
		ur := Range{Start: rest.Start, End: userEnd}
		u.UserInfo = &ur
		if semi >= 0 {
			params, err := ParseParams(buf, Range{Start: semi + 1, End: rest.End}, limits.MaxHeaderParams)
			if err != nil {
				return u, err
			}
			u.Params = params
		}
		return u, nil
	}

	// sip/sips
	at := indexByte(buf, rest, '@')
	var hostPart Range
	if at >= 0 {
		userRange := Range{Start: rest.Start, End: at}
		if semi := indexByte(buf, userRange, ';'); semi >= 0 {
			ur := Range{Start: userRange.Start, End: semi}
			u.UserInfo = &ur
			params, err := ParseParams(buf, Range{Start: semi + 1, End: userRange.End}, limits.MaxHeaderParams)
			if err != nil {
				return u, err
			}
			u.UserParams = params
		} else {
			u.UserInfo = &userRange
		}
		if u.UserInfo != nil {
			if err := validateUserPart(u.UserInfo.String(buf)); err != nil {
				return u, err
			}
		}
		hostPart = Range{Start: at + 1, End: rest.End}
	} else {
		hostPart = rest
	}

	// Split off ?headers first, then ;params, then host[:port].
	headerStart := indexByte(buf, hostPart, '?')
	paramStart := indexByte(buf, hostPart, ';')

	hostEnd := hostPart.End
	if headerStart >= 0 {
		hr := Range{Start: headerStart + 1, End: hostPart.End}
		u.Headers = &hr
		hostEnd = headerStart
	}
	if paramStart >= 0 && paramStart < hostEnd {
		paramsEnd := hostEnd
		hostEnd = paramStart
		params, err := ParseParams(buf, Range{Start: paramStart + 1, End: paramsEnd}, limits.MaxHeaderParams)
		if err != nil {
			return u, err
		}
		u.Params = params
	}

	hostColonPort := Range{Start: hostPart.Start, End: hostEnd}
	colonIdx := lastIndexByte(buf, hostColonPort, ':')
	if colonIdx >= 0 {
		hr := Range{Start: hostColonPort.Start, End: colonIdx}
		u.Host = &hr
		portStr := Range{Start: colonIdx + 1, End: hostColonPort.End}.String(buf)
		port, err := strconv.ParseUint(portStr, 10, 16)
		if err != nil || port > 65535 {
			return u, NewParseError("invalid port in URI", portStr)
		}
		u.Port = uint16(port)
	} else {
		hr := hostColonPort
		u.Host = &hr
	}

	return u, nil
}

func validateUserPart(s string) error {
	i := 0
	for i < len(s) {
		c := s[i]
		if c == '%' {
			if i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2]) {
				return NewParseError("invalid percent-escape in user-info", s)
			}
			i += 3
			continue
		}
		if !isUserChar(c) {
			return NewParseError("invalid character in user-info", string(c))
		}
		i++
	}
	return nil
}

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// isUserChar implements RFC 3261's user = 1*( unreserved / escaped /
// user-unreserved ), excluding the escaped case handled separately.
func isUserChar(c byte) bool {
	if isAlpha(c) || isDigit(c) {
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')',
		'&', '=', '+', '$', ',', ';', '?', '/':
		return true
	}
	return false
}

func indexByte(buf []byte, r Range, target byte) int {
	for i := r.Start; i < r.End; i++ {
		if buf[i] == target {
			return i
		}
	}
	return -1
}

func lastIndexByte(buf []byte, r Range, target byte) int {
	for i := r.End - 1; i >= r.Start; i-- {
		if buf[i] == target {
			return i
		}
	}
	return -1
}
