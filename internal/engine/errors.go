package engine

import "fmt"

// ParseError is the only error that crosses the engine boundary. Everything
// else (unparseable amounts, missing metadata, lines that fail the balance
// check) is resolved locally; a ParseError means the whole parse failed and
// no partial ledger is available.
type ParseError struct {
	Bank string
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s statement could not be processed: %s", e.Bank, e.Msg)
}
