package domain

// AccountRoot is the validated ledger view of an account as returned by account_info.
type AccountRoot struct {
	Account    string `json:"Account" mapstructure:"Account"`
	Balance    string `json:"Balance" mapstructure:"Balance"`
	Sequence   uint32 `json:"Sequence" mapstructure:"Sequence"`
	Flags      uint32 `json:"Flags" mapstructure:"Flags"`
	RegularKey string `json:"RegularKey,omitempty" mapstructure:"RegularKey"`
}

// MasterDisabled reports whether lsfDisableMaster is set.
func (a AccountRoot) MasterDisabled() bool {
	return a.Flags&LedgerFlagDisableMaster != 0
}

// BlackHoled reports whether the regular key is the black hole sentinel.
func (a AccountRoot) BlackHoled() bool {
	return a.RegularKey == BlackHoleAddress
}

// TrustLine is the holder-side view of a line from account_lines. Account is the peer
// (the issuer when read from the holder).
type TrustLine struct {
	Account   string `json:"account" mapstructure:"account"`
	Currency  string `json:"currency" mapstructure:"currency"`
	Balance   string `json:"balance" mapstructure:"balance"`
	Limit     string `json:"limit" mapstructure:"limit"`
	LimitPeer string `json:"limit_peer" mapstructure:"limit_peer"`
	NoRipple  bool   `json:"no_ripple,omitempty" mapstructure:"no_ripple"`
}

// Matches reports whether the line is for currency issued by issuer.
func (l TrustLine) Matches(currency, issuer string) bool {
	return l.Currency == currency && l.Account == issuer
}
