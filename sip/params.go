package sip

// Param is one semicolon-separated element: either "key=value" or a
// bare flag "key" (Value == nil).
type Param struct {
	Key   Range
	Value *Range
}

// Params is the ordered, range-backed parameter list carried by URIs,
// Addresses and Via headers. Lookups are case-insensitive on the key,
// matching RFC 3261 parameter-name semantics.
type Params struct {
	items []Param
}

// ParseParams splits raw (the bytes after the leading ';', with no
// leading ';') on ';' and records each element as a flag or key=value
// pair. maxParams bounds the element count (spec §5 Via hop / param
// caps); exceeding it is a ResourceError.
func ParseParams(buf []byte, raw Range, maxParams int) (Params, error) {
	var p Params
	if raw.Empty() {
		return p, nil
	}
	start := raw.Start
	count := 0
	for i := raw.Start; i <= raw.End; i++ {
		if i == raw.End || buf[i] == ';' {
			if i > start {
				count++
				if maxParams > 0 && count > maxParams {
					return p, NewResourceError(ResourceHeaderParams, uint64(count), uint64(maxParams))
				}
				elemRange := Range{Start: start, End: i}
				eq := -1
				for j := elemRange.Start; j < elemRange.End; j++ {
					if buf[j] == '=' {
						eq = j
						break
					}
				}
				if eq < 0 {
					p.items = append(p.items, Param{Key: elemRange})
				} else {
					valRange := Range{Start: eq + 1, End: elemRange.End}
					p.items = append(p.items, Param{
						Key:   Range{Start: elemRange.Start, End: eq},
						Value: &valRange,
					})
				}
			}
			start = i + 1
		}
	}
	return p, nil
}

// Len returns the number of parameters.
func (p Params) Len() int { return len(p.items) }

// All returns the parameter list in receive order.
func (p Params) All() []Param { return p.items }

// Get returns the value range for key (case-insensitive), and whether
// the key was present at all (a present flag-only key returns ok=true,
// value=nil).
func (p Params) Get(buf []byte, key string) (value *Range, ok bool) {
	for _, item := range p.items {
		if asciiEqualFold(item.Key.String(buf), key) {
			return item.Value, true
		}
	}
	return nil, false
}

// GetString is a convenience wrapper around Get returning the decoded
// string value ("" if the key is absent or a bare flag).
func (p Params) GetString(buf []byte, key string) string {
	v, ok := p.Get(buf, key)
	if !ok || v == nil {
		return ""
	}
	return v.String(buf)
}
