package domain

import "strings"

// EngineResult is the network's verdict on a transaction (e.g. "tesSUCCESS").
type EngineResult string

// Engine results the workflow refers to directly.
const (
	ResultSuccess          EngineResult = "tesSUCCESS"
	ResultNoAlternativeKey EngineResult = "tecNO_ALTERNATIVE_KEY"
	ResultNoLine           EngineResult = "tecPATH_DRY"
	ResultPathPartial      EngineResult = "tecPATH_PARTIAL"
	ResultNoIssuer         EngineResult = "tecNO_ISSUER"
	ResultNoDst            EngineResult = "tecNO_DST"
	ResultMasterDisabled   EngineResult = "tefMASTER_DISABLED"
	ResultPastSeq          EngineResult = "tefPAST_SEQ"
	ResultPreSeq           EngineResult = "terPRE_SEQ"
	ResultNoAccount        EngineResult = "terNO_ACCOUNT"
	ResultMalformed        EngineResult = "temMALFORMED"
	ResultBadSigner        EngineResult = "tefBAD_AUTH"
)

// Success reports whether the result means the transaction was applied.
func (r EngineResult) Success() bool { return r == ResultSuccess }

// Class returns the three-letter category prefix ("tes", "tec", "tef", "tel", "tem", "ter").
func (r EngineResult) Class() string {
	if len(r) < 3 {
		return ""
	}
	return string(r[:3])
}

// Final reports whether the result can never change by waiting for more ledgers.
// tem, tef and tel results are never included in a validated ledger.
func (r EngineResult) Final() bool {
	switch r.Class() {
	case "tem", "tef", "tel":
		return true
	}
	return false
}

// Claimed reports whether a fee was charged (tes and tec results consume the sequence).
func (r EngineResult) Claimed() bool {
	c := r.Class()
	return c == "tes" || c == "tec"
}

func (r EngineResult) String() string { return strings.TrimSpace(string(r)) }

// SubmitResult is what a submission returns once validated (or known final).
type SubmitResult struct {
	TxType      TransactionType `json:"tx_type"`
	Hash        string          `json:"hash"`
	Code        EngineResult    `json:"engine_result"`
	Validated   bool            `json:"validated"`
	LedgerIndex uint32          `json:"ledger_index,omitempty"`
	Sequence    uint32          `json:"sequence,omitempty"`
}

// Applied reports whether the submission was validated with tesSUCCESS.
func (r SubmitResult) Applied() bool { return r.Code.Success() }
