package sip

import "github.com/rs/zerolog"

var defLogger zerolog.Logger = zerolog.Nop()

// SetDefaultLogger sets the logger that NewParser (unless overridden
// via WithParserLogger), transaction.NewManager and
// dialog.NewCallManager pick up at construction time. The initial
// default is a no-op logger so the module stays silent until a caller
// opts in.
func SetDefaultLogger(l zerolog.Logger) {
	defLogger = l
}

func DefaultLogger() zerolog.Logger {
	return defLogger
}
