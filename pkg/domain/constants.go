package domain

// BlackHoleAddress is the publicly known account with no known private key. Setting it
// as the regular key and disabling the master key leaves an account unable to sign.
const BlackHoleAddress = "rrrrrrrrrrrrrrrrrrrrrhoLvTp"

// LedgerFlagDisableMaster is the AccountRoot bit (lsfDisableMaster) set once the master
// key has been disabled.
const LedgerFlagDisableMaster uint32 = 0x00100000

// LedgerIndexValidated selects the most recent validated ledger for read requests.
const LedgerIndexValidated = "validated"

// DefaultTrustLimit is used when no trust line limit is supplied.
const DefaultTrustLimit = "1000000000"

// Commands used by the workflow against the ledger client.
const (
	CommandPing         = "ping"
	CommandAccountInfo  = "account_info"
	CommandAccountLines = "account_lines"
)

// ErrorActNotFound is the ledger error token for an account that does not exist yet.
const ErrorActNotFound = "actNotFound"
