package sip

// Canonical (lowercase) header name constants, interned to avoid
// stringly-typed literals scattered through the parser and modifier.
// Supplemented from the original Rust implementation's
// zero_copy::header_names table.
const (
	HeaderVia             = "via"
	HeaderFrom             = "from"
	HeaderTo                = "to"
	HeaderCallID            = "call-id"
	HeaderCSeq              = "cseq"
	HeaderContact           = "contact"
	HeaderContentLength     = "content-length"
	HeaderContentType       = "content-type"
	HeaderContentEncoding   = "content-encoding"
	HeaderMaxForwards       = "max-forwards"
	HeaderUserAgent         = "user-agent"
	HeaderAllow             = "allow"
	HeaderAllowEvents       = "allow-events"
	HeaderSupported         = "supported"
	HeaderRequire           = "require"
	HeaderRoute             = "route"
	HeaderRecordRoute       = "record-route"
	HeaderAuthorization     = "authorization"
	HeaderWWWAuthenticate   = "www-authenticate"
	HeaderPAssertedIdentity = "p-asserted-identity"
	HeaderSessionExpires    = "session-expires"
	HeaderMinSE             = "min-se"
	HeaderRAck              = "rack"
	HeaderRSeq              = "rseq"
	HeaderReason            = "reason"
	HeaderServer            = "server"
	HeaderWarning           = "warning"
	HeaderEvent             = "event"
	HeaderSubscriptionState = "subscription-state"
	HeaderReferTo           = "refer-to"
	HeaderReferredBy        = "referred-by"
	HeaderAcceptContact     = "accept-contact"
	HeaderRejectContact     = "reject-contact"
	HeaderRequestDisposit   = "request-disposition"
	HeaderIdentity          = "identity"
	HeaderIdentityInfo      = "identity-info"
	HeaderDate              = "date"
	HeaderSubject           = "subject"
)

// compactHeaderNames maps the single-letter compact form (RFC 3261
// §7.3.3, lowercased) to the canonical long-form header name.
var compactHeaderNames = map[byte]string{
	'v': HeaderVia,
	'i': HeaderCallID,
	'm': HeaderMaxForwards,
	'e': HeaderContentEncoding,
	'l': HeaderContentLength,
	'c': HeaderContentType,
	'f': HeaderFrom,
	't': HeaderTo,
	'r': HeaderReferTo,
	'b': HeaderReferredBy,
	'k': HeaderSupported,
	'o': HeaderEvent,
	'u': HeaderAllowEvents,
	'a': HeaderAcceptContact,
	'j': HeaderRejectContact,
	'd': HeaderRequestDisposit,
	'x': HeaderSessionExpires,
	'y': HeaderIdentity,
	'n': HeaderIdentityInfo,
	'h': HeaderDate,
	's': HeaderSubject,
}

// canonicalHeaderName lowercases name and, if it is a single-byte
// compact form, expands it per the table above.
func canonicalHeaderName(name []byte) string {
	if len(name) == 1 {
		lc := asciiLowerByte(name[0])
		if expanded, ok := compactHeaderNames[lc]; ok {
			return expanded
		}
	}
	return asciiToLowerString(name)
}
