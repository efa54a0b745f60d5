package domain

import (
	"fmt"
	"strings"
)

// AccountFlag is an AccountSet flag (asf) identifier. The value is the protocol code
// carried in the SetFlag / ClearFlag fields.
type AccountFlag uint32

const (
	FlagRequireDest                  AccountFlag = 1
	FlagRequireAuth                  AccountFlag = 2
	FlagDisallowXRP                  AccountFlag = 3
	FlagDisableMaster                AccountFlag = 4
	FlagAccountTxnID                 AccountFlag = 5
	FlagNoFreeze                     AccountFlag = 6
	FlagGlobalFreeze                 AccountFlag = 7
	FlagDefaultRipple                AccountFlag = 8
	FlagDepositAuth                  AccountFlag = 9
	FlagAuthorizedNFTokenMinter      AccountFlag = 10
	FlagDisallowIncomingNFTokenOffer AccountFlag = 12
	FlagDisallowIncomingCheck        AccountFlag = 13
	FlagDisallowIncomingPayChan      AccountFlag = 14
	FlagDisallowIncomingTrustline    AccountFlag = 15
	FlagAllowTrustLineClawback       AccountFlag = 16
)

type flagInfo struct {
	flag  AccountFlag
	name  string // protocol name
	slug  string // kebab-case alias
	about string
}

// flagTable lists every settable flag in presentation order.
var flagTable = [...]flagInfo{
	{FlagRequireDest, "asfRequireDest", "require-destination-tag", "Require a destination tag on incoming payments"},
	{FlagRequireAuth, "asfRequireAuth", "require-authorization", "Only approved accounts may hold issued tokens"},
	{FlagDisallowXRP, "asfDisallowXRP", "disallow-base-asset", "Ask senders not to send XRP"},
	{FlagDisableMaster, "asfDisableMaster", "disable-master-key", "Disable the master key pair"},
	{FlagAccountTxnID, "asfAccountTxnID", "account-transaction-id-tracking", "Track the most recent transaction ID"},
	{FlagNoFreeze, "asfNoFreeze", "no-freeze", "Permanently give up the ability to freeze trust lines"},
	{FlagGlobalFreeze, "asfGlobalFreeze", "global-freeze", "Freeze all tokens issued by this account"},
	{FlagDefaultRipple, "asfDefaultRipple", "default-rippling", "Enable rippling on incoming trust lines by default"},
	{FlagDepositAuth, "asfDepositAuth", "deposit-authorization", "Only accept payments from preauthorized senders"},
	{FlagAllowTrustLineClawback, "asfAllowTrustLineClawback", "allow-trustline-clawback", "Allow clawing back issued tokens"},
	{FlagAuthorizedNFTokenMinter, "asfAuthorizedNFTokenMinter", "authorized-nft-minter", "Allow another account to mint NFTs for this one"},
	{FlagDisallowIncomingCheck, "asfDisallowIncomingCheck", "disallow-incoming-check", "Block incoming checks"},
	{FlagDisallowIncomingNFTokenOffer, "asfDisallowIncomingNFTokenOffer", "disallow-incoming-nft-offer", "Block incoming NFT offers"},
	{FlagDisallowIncomingPayChan, "asfDisallowIncomingPayChan", "disallow-incoming-payment-channel", "Block incoming payment channels"},
	{FlagDisallowIncomingTrustline, "asfDisallowIncomingTrustline", "disallow-incoming-trustline", "Block incoming trust lines"},
}

// AllFlags returns every recognized flag in presentation order.
func AllFlags() []AccountFlag {
	out := make([]AccountFlag, len(flagTable))
	for i, info := range flagTable {
		out[i] = info.flag
	}
	return out
}

func (f AccountFlag) info() (flagInfo, bool) {
	for _, info := range flagTable {
		if info.flag == f {
			return info, true
		}
	}
	return flagInfo{}, false
}

// Code returns the protocol integer for the flag.
func (f AccountFlag) Code() uint32 { return uint32(f) }

// Valid reports whether f is one of the recognized flags.
func (f AccountFlag) Valid() bool {
	_, ok := f.info()
	return ok
}

// String returns the protocol name, e.g. "asfDefaultRipple".
func (f AccountFlag) String() string {
	if info, ok := f.info(); ok {
		return info.name
	}
	return fmt.Sprintf("asfUnknown(%d)", uint32(f))
}

// Slug returns the kebab-case alias, e.g. "default-rippling".
func (f AccountFlag) Slug() string {
	if info, ok := f.info(); ok {
		return info.slug
	}
	return ""
}

// Description is a one-line explanation for prompts and listings.
func (f AccountFlag) Description() string {
	if info, ok := f.info(); ok {
		return info.about
	}
	return ""
}

// ParseAccountFlag accepts the protocol name ("asfNoFreeze"), the alias ("no-freeze"),
// or the name without its prefix ("NoFreeze"). Matching is case-insensitive.
func ParseAccountFlag(name string) (AccountFlag, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return 0, fmt.Errorf("empty flag name")
	}
	for _, info := range flagTable {
		proto := strings.ToLower(info.name)
		if n == proto || n == strings.TrimPrefix(proto, "asf") || n == info.slug {
			return info.flag, nil
		}
	}
	return 0, fmt.Errorf("unknown account flag %q", name)
}

// ParseAccountFlags parses a list of names, failing on the first unknown one.
func ParseAccountFlags(names []string) ([]AccountFlag, error) {
	out := make([]AccountFlag, 0, len(names))
	for _, n := range names {
		f, err := ParseAccountFlag(n)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
