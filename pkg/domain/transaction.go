package domain

import "fmt"

// TransactionType tags the transaction variant.
type TransactionType string

const (
	TxTrustSet      TransactionType = "TrustSet"
	TxPayment       TransactionType = "Payment"
	TxAccountSet    TransactionType = "AccountSet"
	TxSetRegularKey TransactionType = "SetRegularKey"
)

// Transaction is a template for one of the supported variants. Sequence, Fee and
// LastLedgerSequence are filled from the network right before signing.
type Transaction struct {
	TransactionType TransactionType `json:"TransactionType"`
	Account         string          `json:"Account"`

	LimitAmount *IssuedAmount `json:"LimitAmount,omitempty"` // TrustSet
	Amount      *IssuedAmount `json:"Amount,omitempty"`      // Payment
	Destination string        `json:"Destination,omitempty"` // Payment
	SetFlag     AccountFlag   `json:"SetFlag,omitempty"`     // AccountSet
	ClearFlag   AccountFlag   `json:"ClearFlag,omitempty"`   // AccountSet
	RegularKey  string        `json:"RegularKey,omitempty"`  // SetRegularKey

	Sequence           uint32 `json:"Sequence,omitempty"`
	Fee                string `json:"Fee,omitempty"`
	LastLedgerSequence uint32 `json:"LastLedgerSequence,omitempty"`
}

// NewTrustSet authorizes holder to hold up to limit of currency from issuer.
func NewTrustSet(holder, currency, issuer, limit string) Transaction {
	return Transaction{
		TransactionType: TxTrustSet,
		Account:         holder,
		LimitAmount:     &IssuedAmount{Currency: currency, Issuer: issuer, Value: limit},
	}
}

// NewPayment sends value of currency issued by issuer to destination.
func NewPayment(issuer, destination, currency, value string) Transaction {
	return Transaction{
		TransactionType: TxPayment,
		Account:         issuer,
		Amount:          &IssuedAmount{Currency: currency, Issuer: issuer, Value: value},
		Destination:     destination,
	}
}

// NewSetFlag sets one account flag.
func NewSetFlag(account string, flag AccountFlag) Transaction {
	return Transaction{TransactionType: TxAccountSet, Account: account, SetFlag: flag}
}

// NewClearFlag clears one account flag.
func NewClearFlag(account string, flag AccountFlag) Transaction {
	return Transaction{TransactionType: TxAccountSet, Account: account, ClearFlag: flag}
}

// NewSetRegularKey assigns key as the account's regular key.
func NewSetRegularKey(account, key string) Transaction {
	return Transaction{TransactionType: TxSetRegularKey, Account: account, RegularKey: key}
}

// Validate checks the type-specific required fields.
func (t Transaction) Validate() error {
	if t.Account == "" {
		return fmt.Errorf("%w: %s without Account", ErrInvalidTransaction, t.TransactionType)
	}
	switch t.TransactionType {
	case TxTrustSet:
		if !completeAmount(t.LimitAmount) {
			return fmt.Errorf("%w: TrustSet requires LimitAmount{currency, issuer, value}", ErrInvalidTransaction)
		}
	case TxPayment:
		if !completeAmount(t.Amount) || t.Destination == "" {
			return fmt.Errorf("%w: Payment requires Amount{currency, issuer, value} and Destination", ErrInvalidTransaction)
		}
	case TxAccountSet:
		if (t.SetFlag == 0) == (t.ClearFlag == 0) {
			return fmt.Errorf("%w: AccountSet requires exactly one of SetFlag or ClearFlag", ErrInvalidTransaction)
		}
	case TxSetRegularKey:
		if t.RegularKey == "" {
			return fmt.Errorf("%w: SetRegularKey requires RegularKey", ErrInvalidTransaction)
		}
	default:
		return fmt.Errorf("%w: unsupported type %q", ErrInvalidTransaction, t.TransactionType)
	}
	return nil
}

// Filled reports whether the runtime fields are present.
func (t Transaction) Filled() bool {
	return t.Sequence != 0 && t.Fee != "" && t.LastLedgerSequence != 0
}

func completeAmount(a *IssuedAmount) bool {
	return a != nil && a.Currency != "" && a.Issuer != "" && a.Value != ""
}

// SignedTransaction is an immutable, single-use signed transaction. Once submitted its
// sequence number is consumed or stale; a retry must start from a fresh template.
type SignedTransaction struct {
	blob string
	hash string
	tx   Transaction
}

// NewSignedTransaction is used by wallets to wrap a signing result.
func NewSignedTransaction(tx Transaction, blob, hash string) SignedTransaction {
	return SignedTransaction{blob: blob, hash: hash, tx: tx.clone()}
}

// Blob returns the hex-encoded signed transaction.
func (s SignedTransaction) Blob() string { return s.blob }

// Hash returns the transaction identifying hash.
func (s SignedTransaction) Hash() string { return s.hash }

// Tx returns a copy of the transaction as it was signed.
func (s SignedTransaction) Tx() Transaction { return s.tx.clone() }

func (t Transaction) clone() Transaction {
	c := t
	if t.LimitAmount != nil {
		a := *t.LimitAmount
		c.LimitAmount = &a
	}
	if t.Amount != nil {
		a := *t.Amount
		c.Amount = &a
	}
	return c
}
