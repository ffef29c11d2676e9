package sip

import "fmt"

// ResourceKind names the resource a ResourceError was raised about.
type ResourceKind string

const (
	ResourceMemory          ResourceKind = "memory"
	ResourceMessageSize     ResourceKind = "message_size"
	ResourceHeaderCount     ResourceKind = "header_count"
	ResourceHeaderLine      ResourceKind = "header_line_length"
	ResourceHeaderParams    ResourceKind = "header_params"
	ResourceURILength       ResourceKind = "uri_length"
	ResourceURIDepth        ResourceKind = "uri_depth"
	ResourceBodySize        ResourceKind = "body_size"
	ResourceStartLine       ResourceKind = "start_line_length"
	ResourceConcurrentCalls ResourceKind = "concurrent_calls"
	ResourceConcurrentTx    ResourceKind = "concurrent_transactions"
	ResourceBandwidth       ResourceKind = "bandwidth"
	ResourceConnections     ResourceKind = "connections"
)

// Category is the four-kind error taxonomy from spec §7, exposed so
// callers can tag metrics without type-switching on concrete types.
type Category string

const (
	CategoryParsing   Category = "parsing"
	CategoryTransport Category = "transport"
	CategoryResource  Category = "resource"
	CategoryState     Category = "state"
)

// CoreError is implemented by every error this module returns.
// Category and Recoverable let a caller do generic admission-control
// and metrics handling without a type switch.
type CoreError interface {
	error
	Category() Category
	Recoverable() bool
}

// ParseError reports malformed input or a validation failure.
// Position, when known, is (line, column) 1-indexed into the original
// buffer.
type ParseError struct {
	Message  string
	Position *[2]int
	Context  string
}

func (e *ParseError) Error() string {
	s := "parse error: " + e.Message
	if e.Position != nil {
		s += fmt.Sprintf(" at %d:%d", e.Position[0], e.Position[1])
	}
	if e.Context != "" {
		s += " (" + e.Context + ")"
	}
	return s
}

func (e *ParseError) Category() Category { return CategoryParsing }
func (e *ParseError) Recoverable() bool  { return true }

func NewParseError(message string, context string) *ParseError {
	return &ParseError{Message: message, Context: context}
}

func NewParseErrorAt(message string, line, col int, context string) *ParseError {
	return &ParseError{Message: message, Position: &[2]int{line, col}, Context: context}
}

// TransportError is reported by callers delivering I/O outcomes into
// the core (e.g. a failed retransmit write). The core never raises
// these itself, it only models them for the transaction layer.
type TransportError struct {
	Endpoint       string
	Reason         string
	RecoverableVal bool
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error to %s: %s (recoverable: %v)", e.Endpoint, e.Reason, e.RecoverableVal)
}

func (e *TransportError) Category() Category { return CategoryTransport }
func (e *TransportError) Recoverable() bool  { return e.RecoverableVal }

func NewTransportError(endpoint, reason string, recoverable bool) *TransportError {
	return &TransportError{Endpoint: endpoint, Reason: reason, RecoverableVal: recoverable}
}

// ResourceError reports that a configured limit was reached. Always
// recoverable: the caller is expected to admission-control or back off.
type ResourceError struct {
	Kind    ResourceKind
	Current uint64
	Limit   uint64
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("resource exhaustion: %s usage %d exceeds limit %d", e.Kind, e.Current, e.Limit)
}

func (e *ResourceError) Category() Category { return CategoryResource }
func (e *ResourceError) Recoverable() bool  { return true }

func NewResourceError(kind ResourceKind, current, limit uint64) *ResourceError {
	return &ResourceError{Kind: kind, Current: current, Limit: limit}
}

// StateError reports that an operation is invalid for the current
// state (ACK outside Connecting, unknown call-id, duplicate branch).
// Not recoverable by retrying the same operation.
type StateError struct {
	Operation string
	Reason    string
	Context   string
}

func (e *StateError) Error() string {
	s := fmt.Sprintf("state error: %s failed - %s", e.Operation, e.Reason)
	if e.Context != "" {
		s += " (" + e.Context + ")"
	}
	return s
}

func (e *StateError) Category() Category { return CategoryState }
func (e *StateError) Recoverable() bool  { return false }

func NewStateError(operation, reason, context string) *StateError {
	return &StateError{Operation: operation, Reason: reason, Context: context}
}
