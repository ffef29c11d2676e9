package sip

// headerValueKind tags which variant of the Raw|Address|Via union a
// HeaderValue currently holds.
type headerValueKind int

const (
	headerKindRaw headerValueKind = iota
	headerKindAddress
	headerKindVia
)

// HeaderValue is the tagged union backing every header slot on
// Message. It starts as Raw(range) and is decoded in place (the
// variant is replaced) the first time a typed accessor is called on
// it; subsequent calls return the memoized value with no reparse.
type HeaderValue struct {
	Raw     Range
	kind    headerValueKind
	address Address
	via     Via

	// folded holds the unfolded logical value when this header spanned
	// a continuation line. Raw still covers the whole original
	// (folded) span of the source buffer for byte-exact passthrough by
	// the Modifier; every decoder, though, must operate against this
	// reconstructed, contiguous copy instead of the source buffer. Nil
	// for the (common) non-folded case, in which case Raw indexes
	// directly into the Message's source buffer as usual.
	folded []byte
}

// NewRawHeaderValue wraps raw as an undecoded HeaderValue.
func NewRawHeaderValue(raw Range) HeaderValue {
	return HeaderValue{Raw: raw, kind: headerKindRaw}
}

// NewFoldedHeaderValue wraps a header value that required unfolding.
// raw is still the original (folded) span over the source buffer;
// unfolded is the reconstructed logical single-line value that all
// decoding operates against.
func NewFoldedHeaderValue(raw Range, unfolded []byte) HeaderValue {
	return HeaderValue{Raw: raw, kind: headerKindRaw, folded: unfolded}
}

// Buf resolves the buffer that this header's decoded sub-structures
// (Address.URI ranges, Via.Params ranges, ...) are relative to: the
// source buffer for the common unfolded case, or the private unfolded
// scratch copy when this header spanned a continuation line. Callers
// holding a decoded Address/Via obtained from a folded header MUST use
// this buffer, not Message.Buffer, when resolving its sub-ranges.
func (h *HeaderValue) Buf(sourceBuf []byte) []byte {
	if h.folded != nil {
		return h.folded
	}
	return sourceBuf
}

// IsDecoded reports whether Address/Via has already memoized a typed
// decode (Raw headers that were never accessed report false).
func (h *HeaderValue) IsDecoded() bool { return h.kind != headerKindRaw }

// valueBuf and valueRange resolve which buffer/range pair to decode
// against: the folded scratch copy if this header was unfolded, or
// the caller-supplied source buffer otherwise.
func (h *HeaderValue) valueBuf(buf []byte) ([]byte, Range) {
	if h.folded != nil {
		return h.folded, Range{Start: 0, End: len(h.folded)}
	}
	return buf, h.Raw
}

// Address lazily decodes and memoizes h as an Address. Safe to call
// repeatedly; only the first call parses.
func (h *HeaderValue) Address(buf []byte, limits ParserLimits) (*Address, error) {
	if h.kind == headerKindAddress {
		return &h.address, nil
	}
	vbuf, vrange := h.valueBuf(buf)
	a, err := ParseAddress(vbuf, vrange, limits)
	if err != nil {
		return nil, err
	}
	h.address = a
	h.kind = headerKindAddress
	return &h.address, nil
}

// Via lazily decodes and memoizes h as a Via.
func (h *HeaderValue) Via(buf []byte, limits ParserLimits) (*Via, error) {
	if h.kind == headerKindVia {
		return &h.via, nil
	}
	vbuf, vrange := h.valueBuf(buf)
	v, err := ParseVia(vbuf, vrange, limits)
	if err != nil {
		return nil, err
	}
	h.via = v
	h.kind = headerKindVia
	return &h.via, nil
}

// String returns the logical (unfolded) textual value.
func (h *HeaderValue) String(buf []byte) string {
	vbuf, vrange := h.valueBuf(buf)
	return vrange.String(vbuf)
}

// HeaderEntry is one (name, value) pair in Message.Headers — the
// catch-all ordered list covering every header not given a dedicated
// slot or a dedicated multi-occurrence list.
type HeaderEntry struct {
	Name  Range
	Value HeaderValue
}

// CanonicalName returns the lowercased, compact-form-expanded header
// name for e.
func (e *HeaderEntry) CanonicalName(buf []byte) string {
	return canonicalHeaderName(e.Name.Slice(buf))
}
