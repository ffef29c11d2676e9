package sip

// ParserLimits bounds every size/count the parser and decoders will
// accept. A zero in any field disables that check, so a zero-value
// ParserLimits bounds nothing; the presets below set every field.
type ParserLimits struct {
	MaxMessageSize      int
	MaxHeaderLineLength int
	MaxHeaders          int
	MaxHeaderNameLength int
	MaxHeaderValueLength int
	MaxURIDepth         int
	MaxURILength        int
	MaxHeaderParams     int
	MaxStartLineLength  int
	MaxBodySize         int
}

// DefaultLimits matches the spec's "default" preset: generous enough
// for carrier interop, still bounded against memory exhaustion.
func DefaultLimits() ParserLimits {
	return ParserLimits{
		MaxMessageSize:       64 * 1024 * 1024,
		MaxHeaderLineLength:  8 * 1024,
		MaxHeaders:           256,
		MaxHeaderNameLength:  128,
		MaxHeaderValueLength: 8 * 1024,
		MaxURIDepth:          10,
		MaxURILength:         2 * 1024,
		MaxHeaderParams:      32,
		MaxStartLineLength:   8 * 1024,
		MaxBodySize:          16 * 1024 * 1024,
	}
}

// StrictLimits is the tight preset for exposed, untrusted ingress.
func StrictLimits() ParserLimits {
	return ParserLimits{
		MaxMessageSize:       1 * 1024 * 1024,
		MaxHeaderLineLength:  2 * 1024,
		MaxHeaders:           64,
		MaxHeaderNameLength:  64,
		MaxHeaderValueLength: 2 * 1024,
		MaxURIDepth:          6,
		MaxURILength:         1024,
		MaxHeaderParams:      16,
		MaxStartLineLength:   2 * 1024,
		MaxBodySize:          1 * 1024 * 1024,
	}
}

// CarrierGradeLimits is the preset sized for trunked carrier traffic
// (larger bodies for bulk SDP/XML, more headers for diagnostic sets).
func CarrierGradeLimits() ParserLimits {
	return ParserLimits{
		MaxMessageSize:       10 * 1024 * 1024,
		MaxHeaderLineLength:  4 * 1024,
		MaxHeaders:           128,
		MaxHeaderNameLength:  96,
		MaxHeaderValueLength: 4 * 1024,
		MaxURIDepth:          10,
		MaxURILength:         2 * 1024,
		MaxHeaderParams:      32,
		MaxStartLineLength:   4 * 1024,
		MaxBodySize:          4 * 1024 * 1024,
	}
}

// MaxViaHops is the RFC 3261-recommended cap on Via hop count. It is
// not part of ParserLimits (it bounds a count discovered across the
// whole message, not a single-field limit) but lives alongside the
// other resource caps from spec §5.
const MaxViaHops = 70

// MaxCSeq is the largest legal CSeq sequence number (2^31 - 1).
const MaxCSeq = 2147483647

// Default concurrency caps (spec §5); owned by the transaction/dialog
// managers, not the parser, but declared centrally since both
// consumers need the same numbers.
const (
	DefaultMaxConcurrentCalls        = 50_000
	DefaultMaxConcurrentTransactions = 10_000
)
