package modifier

import (
	"fmt"

	"github.com/sbctools/sipcore/sip"
)

// B2BUARequestOptions parameterizes CreateB2BUARequest.
type B2BUARequestOptions struct {
	NewCallID string
	Contact   string
	Branch    string
	Host      string
	Port      uint16
}

// CreateB2BUARequest applies the standard back-to-back user agent leg
// transform to a received request: strip all Via and Record-Route
// headers (the B2BUA terminates the original dialog path), replace
// Call-ID and Contact with the new leg's identifiers, decrement
// Max-Forwards, and hoist a single fresh Via naming the B2BUA's own
// host:port onto the outgoing request.
func CreateB2BUARequest(msg *sip.Message, opts B2BUARequestOptions) ([]byte, error) {
	m := New(msg)
	m.StripViaHeaders()
	m.StripRecordRouteHeaders()
	if err := m.ReplaceCallID(opts.NewCallID); err != nil {
		return nil, err
	}
	if err := m.SetContact(opts.Contact); err != nil {
		return nil, err
	}
	m.DecrementMaxForwards()
	m.AddVia(fmt.Sprintf("SIP/2.0/UDP %s:%d;branch=%s", opts.Host, opts.Port, opts.Branch))
	return m.Emit()
}
