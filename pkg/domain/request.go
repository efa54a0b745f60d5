package domain

// Request is a generic ledger command with its parameters.
type Request struct {
	Command string
	Params  map[string]any
}

// Response is the decoded "result" object of a ledger command.
type Response map[string]any

// AccountInfoRequest asks for the validated AccountRoot of address.
func AccountInfoRequest(address string) Request {
	return Request{
		Command: CommandAccountInfo,
		Params:  map[string]any{"account": address, "ledger_index": LedgerIndexValidated},
	}
}

// AccountLinesRequest asks for the validated trust lines of address.
func AccountLinesRequest(address string) Request {
	return Request{
		Command: CommandAccountLines,
		Params:  map[string]any{"account": address, "ledger_index": LedgerIndexValidated},
	}
}

// PingRequest checks that the session is alive.
func PingRequest() Request {
	return Request{Command: CommandPing}
}
