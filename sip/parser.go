package sip

import (
	"bytes"

	"github.com/rs/zerolog"
)

// Parser wraps a configured ParserLimits and logger. Mirrors the
// teacher's functional-options Parser: construct once, reuse across
// many Parse calls (it holds no per-message state).
type Parser struct {
	log    zerolog.Logger
	limits ParserLimits
}

// ParserOption configures a Parser at construction time.
type ParserOption func(*Parser)

// WithParserLogger overrides the logger used for parse diagnostics.
func WithParserLogger(l zerolog.Logger) ParserOption {
	return func(p *Parser) { p.log = l }
}

// WithParserLimits overrides the default ParserLimits (DefaultLimits()).
func WithParserLimits(limits ParserLimits) ParserOption {
	return func(p *Parser) { p.limits = limits }
}

// NewParser builds a Parser with DefaultLimits() and the package
// default logger unless overridden by options.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{log: DefaultLogger(), limits: DefaultLimits()}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Parse parses buf into a Message view. If validateRequest is true and
// the message is a request, the required single-occurrence headers
// (Via, To, From, CSeq, Call-ID, Max-Forwards) must all be present or
// parsing fails with a ParseError.
func (p *Parser) Parse(buf []byte, validateRequest bool) (*Message, error) {
	msg, err := ParseMessage(buf, p.limits, validateRequest)
	if err != nil {
		if coreErr, ok := err.(CoreError); ok && coreErr.Category() == CategoryResource {
			p.log.Warn().Err(err).Int("size", len(buf)).Msg("parse rejected: limit exceeded")
		} else {
			p.log.Debug().Err(err).Msg("parse failed")
		}
		return nil, err
	}
	p.log.Debug().Bool("is_request", msg.IsRequest).Int("vias", len(msg.ViaHeaders)).Msg("parsed message")
	return msg, nil
}

// ParseMessage is the stateless entry point used when a Parser isn't
// otherwise needed.
func ParseMessage(buf []byte, limits ParserLimits, validateRequest bool) (*Message, error) {
	if limits.MaxMessageSize > 0 && len(buf) > limits.MaxMessageSize {
		return nil, NewResourceError(ResourceMessageSize, uint64(len(buf)), uint64(limits.MaxMessageSize))
	}

	crlfIdx := bytes.Index(buf, []byte("\r\n"))
	if crlfIdx < 0 {
		return nil, NewParseError("no CRLF after start line", "")
	}
	startLine := Range{Start: 0, End: crlfIdx}
	if limits.MaxStartLineLength > 0 && startLine.Len() > limits.MaxStartLineLength {
		return nil, NewResourceError(ResourceStartLine, uint64(startLine.Len()), uint64(limits.MaxStartLineLength))
	}

	msg := &Message{Buffer: buf, Limits: limits, StartLine: startLine}
	msg.IsRequest = !bytes.HasPrefix(buf, []byte("SIP/"))

	if err := parseStartLine(msg, buf, startLine); err != nil {
		return nil, err
	}

	headersStart := crlfIdx + 2
	boundary := bytes.Index(buf[headersStart:], []byte("\r\n\r\n"))
	var headerBlockEnd, bodyStart int
	if boundary < 0 {
		headerBlockEnd = len(buf)
		bodyStart = len(buf)
	} else {
		headerBlockEnd = headersStart + boundary
		bodyStart = headerBlockEnd + 4
	}

	if err := parseHeaderBlock(msg, buf, headersStart, headerBlockEnd, limits); err != nil {
		return nil, err
	}

	if bodyStart < len(buf) {
		bodyLen := len(buf) - bodyStart
		if limits.MaxBodySize > 0 && bodyLen > limits.MaxBodySize {
			return nil, NewResourceError(ResourceBodySize, uint64(bodyLen), uint64(limits.MaxBodySize))
		}
		br := Range{Start: bodyStart, End: len(buf)}
		msg.Body = &br
	} else {
		br := Range{Start: bodyStart, End: bodyStart}
		msg.Body = &br
	}

	if validateRequest && msg.IsRequest {
		if err := validateRequiredHeaders(msg); err != nil {
			return nil, err
		}
	}

	msg.HeadersParsed = true
	return msg, nil
}

func parseStartLine(msg *Message, buf []byte, startLine Range) error {
	fields := splitWS(buf, startLine, 3)
	if msg.IsRequest {
		if len(fields) < 3 {
			return NewParseError("malformed request line", startLine.String(buf))
		}
		msg.RequestMethod = fields[0]
		msg.RequestURI = fields[1]
		msg.SIPVersion = fields[2]
		return nil
	}
	if len(fields) < 2 {
		return NewParseError("malformed status line", startLine.String(buf))
	}
	msg.SIPVersion = fields[0]
	codeStr := fields[1].String(buf)
	code, err := parseNonNegativeInt(codeStr)
	if err != nil {
		return NewParseError("invalid status code", codeStr)
	}
	msg.StatusCode = code
	if len(fields) >= 3 {
		msg.ReasonPhrase = fields[2]
	}
	return nil
}

// splitWS splits r on runs of SP/HT into at most maxFields fields; the
// last field absorbs any remaining whitespace-separated text verbatim
// (so a status line's reason phrase keeps internal spaces).
func splitWS(buf []byte, r Range, maxFields int) []Range {
	var fields []Range
	i := r.Start
	for i < r.End && len(fields) < maxFields-1 {
		for i < r.End && (buf[i] == ' ' || buf[i] == '\t') {
			i++
		}
		start := i
		for i < r.End && buf[i] != ' ' && buf[i] != '\t' {
			i++
		}
		if i > start {
			fields = append(fields, Range{Start: start, End: i})
		}
	}
	for i < r.End && (buf[i] == ' ' || buf[i] == '\t') {
		i++
	}
	if i < r.End {
		fields = append(fields, Range{Start: i, End: r.End})
	}
	return fields
}

// logicalHeader accumulates the (possibly folded) physical lines that
// make up one logical header during the header-block walk.
type logicalHeader struct {
	nameRange Range
	segments  []Range // value text per physical line, already trimmed of leading WS on continuations
}

func parseHeaderBlock(msg *Message, buf []byte, start, end int, limits ParserLimits) error {
	var current *logicalHeader
	headerCount := 0

	flush := func() error {
		if current == nil {
			return nil
		}
		if err := validateToken(current.nameRange.Slice(buf)); err != nil {
			return err
		}
		canon := canonicalHeaderName(current.nameRange.Slice(buf))

		var hv HeaderValue
		if len(current.segments) == 1 {
			seg := current.segments[0]
			if limits.MaxHeaderValueLength > 0 && seg.Len() > limits.MaxHeaderValueLength {
				return NewResourceError(ResourceHeaderLine, uint64(seg.Len()), uint64(limits.MaxHeaderValueLength))
			}
			if err := sanitizeHeaderValue(seg.Slice(buf)); err != nil {
				return err
			}
			hv = NewRawHeaderValue(seg)
		} else {
			var joined bytes.Buffer
			for i, seg := range current.segments {
				if i > 0 {
					joined.WriteByte(' ')
				}
				joined.Write(seg.Slice(buf))
			}
			unfolded := joined.Bytes()
			if limits.MaxHeaderValueLength > 0 && len(unfolded) > limits.MaxHeaderValueLength {
				return NewResourceError(ResourceHeaderLine, uint64(len(unfolded)), uint64(limits.MaxHeaderValueLength))
			}
			if err := sanitizeHeaderValue(unfolded); err != nil {
				return err
			}
			full := Range{Start: current.segments[0].Start, End: current.segments[len(current.segments)-1].End}
			hv = NewFoldedHeaderValue(full, unfolded)
		}

		return dispatchHeader(msg, buf, current.nameRange, canon, hv)
	}

	lineStart := start
	for lineStart <= end {
		lineEnd := lineStart
		for lineEnd < end && !(buf[lineEnd] == '\r' && lineEnd+1 < end && buf[lineEnd+1] == '\n') {
			lineEnd++
		}
		if lineEnd > end {
			lineEnd = end
		}
		line := Range{Start: lineStart, End: lineEnd}

		if limits.MaxHeaderLineLength > 0 && line.Len() > limits.MaxHeaderLineLength {
			return NewResourceError(ResourceHeaderLine, uint64(line.Len()), uint64(limits.MaxHeaderLineLength))
		}

		if line.Len() > 0 && (buf[line.Start] == ' ' || buf[line.Start] == '\t') {
			// Continuation line: folds into current.
			if current == nil {
				return NewParseError("header continuation with no preceding header", "")
			}
			trimmed := trimWS(buf, line)
			current.segments = append(current.segments, trimmed)
		} else {
			if err := flush(); err != nil {
				return err
			}
			current = nil
			if line.Len() > 0 {
				colon := indexByte(buf, line, ':')
				if colon < 0 {
					return NewParseError("header line missing ':'", line.String(buf))
				}
				name := trimWS(buf, Range{Start: line.Start, End: colon})
				if limits.MaxHeaderNameLength > 0 && name.Len() > limits.MaxHeaderNameLength {
					return NewResourceError(ResourceHeaderLine, uint64(name.Len()), uint64(limits.MaxHeaderNameLength))
				}
				value := trimWS(buf, Range{Start: colon + 1, End: line.End})
				headerCount++
				if limits.MaxHeaders > 0 && headerCount > limits.MaxHeaders {
					return NewResourceError(ResourceHeaderCount, uint64(headerCount), uint64(limits.MaxHeaders))
				}
				current = &logicalHeader{nameRange: name, segments: []Range{value}}
			}
		}

		if lineEnd >= end {
			break
		}
		lineStart = lineEnd + 2
	}
	return flush()
}

func dispatchHeader(msg *Message, buf []byte, nameRange Range, canon string, hv HeaderValue) error {
	msg.Order = append(msg.Order, HeaderEntry{Name: nameRange, Value: hv})

	switch canon {
	case HeaderVia:
		if len(msg.ViaHeaders) >= MaxViaHops {
			return NewResourceError(ResourceHeaderCount, uint64(len(msg.ViaHeaders)+1), uint64(MaxViaHops))
		}
		msg.ViaHeaders = append(msg.ViaHeaders, hv)
	case HeaderTo:
		if msg.To != nil {
			return NewParseError("Duplicate To header", "")
		}
		msg.To = &hv
	case HeaderFrom:
		if msg.From != nil {
			return NewParseError("Duplicate From header", "")
		}
		msg.From = &hv
	case HeaderCallID:
		if msg.CallID != nil {
			return NewParseError("Duplicate Call-ID header", "")
		}
		msg.CallID = &hv
	case HeaderCSeq:
		if msg.CSeqHeader != nil {
			return NewParseError("Duplicate CSeq header", "")
		}
		msg.CSeqHeader = &hv
	case HeaderMaxForwards:
		if msg.MaxForwards != nil {
			return NewParseError("Duplicate Max-Forwards header", "")
		}
		msg.MaxForwards = &hv
	case HeaderContact:
		if bytes.IndexByte(hv.Raw.Slice(buf), ',') >= 0 {
			msg.ContactHasMultipleEntries = true
		}
		msg.ContactHeaders = append(msg.ContactHeaders, hv)
	case HeaderSubscriptionState:
		msg.SubscriptionState = &hv
	case HeaderReferTo:
		msg.ReferTo = &hv
	case HeaderEvent:
		msg.Event = &hv
		msg.Headers = append(msg.Headers, HeaderEntry{Name: nameRange, Value: hv})
	default:
		msg.Headers = append(msg.Headers, HeaderEntry{Name: nameRange, Value: hv})
	}
	return nil
}

func validateRequiredHeaders(msg *Message) error {
	missing := func(what string) error {
		return NewParseError("missing required header", what)
	}
	if len(msg.ViaHeaders) == 0 {
		return missing("Via")
	}
	if msg.To == nil {
		return missing("To")
	}
	if msg.From == nil {
		return missing("From")
	}
	if msg.CSeqHeader == nil {
		return missing("CSeq")
	}
	if msg.CallID == nil {
		return missing("Call-ID")
	}
	if msg.MaxForwards == nil {
		return missing("Max-Forwards")
	}
	return nil
}
