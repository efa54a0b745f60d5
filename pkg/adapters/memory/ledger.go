package memory

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/tokenforge/pkg/domain"
	"github.com/aretw0/tokenforge/pkg/ports"
	"github.com/shopspring/decimal"
)

// Ledger flag bits recorded on the AccountRoot for the asf flags that have one.
var ledgerFlagBits = map[domain.AccountFlag]uint32{
	domain.FlagRequireDest:               0x00020000,
	domain.FlagRequireAuth:               0x00040000,
	domain.FlagDisallowXRP:               0x00080000,
	domain.FlagDisableMaster:             domain.LedgerFlagDisableMaster,
	domain.FlagNoFreeze:                  0x00200000,
	domain.FlagGlobalFreeze:              0x00400000,
	domain.FlagDefaultRipple:             0x00800000,
	domain.FlagDepositAuth:               0x01000000,
	domain.FlagAllowTrustLineClawback:    0x80000000,
	domain.FlagDisallowIncomingTrustline: 0x20000000,
}

// LastLedgerOffset is added to the current ledger index when filling transactions.
const LastLedgerOffset = 20

// BaseFee is the fee, in drops, charged for every claimed transaction.
const BaseFee = "12"

type lineKey struct {
	peer     string
	currency string
}

type trustLine struct {
	limit     decimal.Decimal
	limitPeer decimal.Decimal
	balance   decimal.Decimal
}

type account struct {
	address    string
	balance    decimal.Decimal // drops
	sequence   uint32
	flags      uint32
	asf        map[domain.AccountFlag]bool
	regularKey string
	lines      map[lineKey]*trustLine
}

type injected struct {
	txType domain.TransactionType
	code   domain.EngineResult
	err    error
}

// Ledger is an in-memory ports.LedgerClient. Safe for concurrent use.
type Ledger struct {
	mu sync.Mutex

	accounts    map[string]*account
	ledgerIndex uint32
	connected   bool

	connectFailures int
	pingFailures    int
	failures        []injected
	journal         []domain.Transaction

	connects int
	pings    int

	// BeforeApply, when set, runs (without the ledger lock) right before a submitted
	// transaction is applied. Tests use it to simulate concurrent external mutations.
	BeforeApply func(l *Ledger, tx domain.Transaction)
}

var _ ports.LedgerClient = (*Ledger)(nil)

// NewLedger creates an empty, disconnected ledger.
func NewLedger() *Ledger {
	return &Ledger{
		accounts:    make(map[string]*account),
		ledgerIndex: 1000,
	}
}

// Fund creates (or tops up) an account with the given XRP drops.
func (l *Ledger) Fund(address string, drops int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	acct, ok := l.accounts[address]
	if !ok {
		acct = &account{
			address:  address,
			sequence: l.ledgerIndex,
			asf:      make(map[domain.AccountFlag]bool),
			lines:    make(map[lineKey]*trustLine),
		}
		l.accounts[address] = acct
	}
	acct.balance = acct.balance.Add(decimal.NewFromInt(drops))
}

// Connect opens the simulated session.
func (l *Ledger) Connect(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.connects++
	if l.connectFailures > 0 {
		l.connectFailures--
		return fmt.Errorf("%w: connection refused", domain.ErrTransientNetwork)
	}
	l.connected = true
	return nil
}

// Disconnect closes the simulated session.
func (l *Ledger) Disconnect(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.connected = false
	return nil
}

// IsConnected reports the simulated session state.
func (l *Ledger) IsConnected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.connected
}

// Request serves ping, account_info and account_lines.
func (l *Ledger) Request(ctx context.Context, req domain.Request) (domain.Response, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.connected {
		return nil, fmt.Errorf("%w: not connected", domain.ErrTransientNetwork)
	}

	switch req.Command {
	case domain.CommandPing:
		l.pings++
		if l.pingFailures > 0 {
			l.pingFailures--
			l.connected = false
			return nil, fmt.Errorf("%w: ping timed out", domain.ErrTransientNetwork)
		}
		return domain.Response{}, nil

	case domain.CommandAccountInfo:
		acct, err := l.lookup(req)
		if err != nil {
			return nil, err
		}
		data := map[string]any{
			"Account":  acct.address,
			"Balance":  acct.balance.String(),
			"Sequence": acct.sequence,
			"Flags":    acct.flags,
		}
		if acct.regularKey != "" {
			data["RegularKey"] = acct.regularKey
		}
		return domain.Response{
			"account_data": data,
			"ledger_index": l.ledgerIndex,
			"validated":    true,
		}, nil

	case domain.CommandAccountLines:
		acct, err := l.lookup(req)
		if err != nil {
			return nil, err
		}
		return domain.Response{
			"account": acct.address,
			"lines":   acct.lineViews(),
		}, nil
	}

	return nil, &domain.RPCError{Command: req.Command, Code: "unknownCmd"}
}

func (l *Ledger) lookup(req domain.Request) (*account, error) {
	address, _ := req.Params["account"].(string)
	acct, ok := l.accounts[address]
	if !ok {
		return nil, &domain.RPCError{Command: req.Command, Code: domain.ErrorActNotFound, Message: "Account not found."}
	}
	return acct, nil
}

func (a *account) lineViews() []any {
	keys := make([]lineKey, 0, len(a.lines))
	for k := range a.lines {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].peer != keys[j].peer {
			return keys[i].peer < keys[j].peer
		}
		return keys[i].currency < keys[j].currency
	})

	out := make([]any, 0, len(keys))
	for _, k := range keys {
		line := a.lines[k]
		out = append(out, map[string]any{
			"account":    k.peer,
			"currency":   k.currency,
			"balance":    line.balance.String(),
			"limit":      line.limit.String(),
			"limit_peer": line.limitPeer.String(),
		})
	}
	return out
}

// Autofill sets Sequence, Fee and LastLedgerSequence from the simulated ledger.
func (l *Ledger) Autofill(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.connected {
		return tx, fmt.Errorf("%w: not connected", domain.ErrTransientNetwork)
	}
	acct, ok := l.accounts[tx.Account]
	if !ok {
		return tx, &domain.RPCError{Command: domain.CommandAccountInfo, Code: domain.ErrorActNotFound}
	}
	tx.Sequence = acct.sequence
	tx.Fee = BaseFee
	tx.LastLedgerSequence = l.ledgerIndex + LastLedgerOffset
	return tx, nil
}

// SubmitAndWait applies a signed transaction and closes a ledger.
func (l *Ledger) SubmitAndWait(ctx context.Context, signed domain.SignedTransaction) (domain.SubmitResult, error) {
	env, err := decodeEnvelope(signed.Blob())
	if err != nil {
		return domain.SubmitResult{}, err
	}
	tx := env.Tx
	if !l.IsConnected() {
		return domain.SubmitResult{TxType: tx.TransactionType}, fmt.Errorf("%w: not connected", domain.ErrTransientNetwork)
	}

	if hook := l.BeforeApply; hook != nil {
		hook(l, tx)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.connected {
		return domain.SubmitResult{}, fmt.Errorf("%w: not connected", domain.ErrTransientNetwork)
	}

	l.journal = append(l.journal, tx)
	result := domain.SubmitResult{TxType: tx.TransactionType, Hash: signed.Hash(), Sequence: tx.Sequence}

	if inj, ok := l.takeFailure(tx.TransactionType); ok {
		if inj.err != nil {
			return domain.SubmitResult{}, inj.err
		}
		result.Code = inj.code
		l.finish(tx, &result)
		return result, nil
	}

	result.Code = l.apply(env)
	l.finish(tx, &result)
	return result, nil
}

// finish consumes the sequence and fee for claimed results and closes the ledger.
func (l *Ledger) finish(tx domain.Transaction, result *domain.SubmitResult) {
	if !result.Code.Claimed() {
		return
	}
	if acct, ok := l.accounts[tx.Account]; ok {
		acct.sequence++
		fee, err := decimal.NewFromString(tx.Fee)
		if err == nil {
			acct.balance = acct.balance.Sub(fee)
		}
	}
	l.ledgerIndex++
	result.Validated = true
	result.LedgerIndex = l.ledgerIndex
}

func (l *Ledger) takeFailure(txType domain.TransactionType) (injected, bool) {
	for i, f := range l.failures {
		if f.txType == "" || f.txType == txType {
			l.failures = append(l.failures[:i], l.failures[i+1:]...)
			return f, true
		}
	}
	return injected{}, false
}

func (l *Ledger) apply(env envelope) domain.EngineResult {
	tx := env.Tx
	if err := tx.Validate(); err != nil {
		return domain.ResultMalformed
	}
	acct, ok := l.accounts[tx.Account]
	if !ok {
		return domain.ResultNoAccount
	}
	switch {
	case tx.Sequence < acct.sequence:
		return domain.ResultPastSeq
	case tx.Sequence > acct.sequence:
		return domain.ResultPreSeq
	case tx.LastLedgerSequence != 0 && tx.LastLedgerSequence <= l.ledgerIndex:
		return "tefMAX_LEDGER"
	}
	if code := acct.authorize(env.Signer); code != "" {
		return code
	}

	switch tx.TransactionType {
	case domain.TxTrustSet:
		return l.applyTrustSet(acct, tx)
	case domain.TxPayment:
		return l.applyPayment(acct, tx)
	case domain.TxAccountSet:
		return acct.applyAccountSet(tx)
	case domain.TxSetRegularKey:
		if tx.RegularKey == acct.address {
			return "temBAD_REGKEY"
		}
		acct.regularKey = tx.RegularKey
		return domain.ResultSuccess
	}
	return domain.ResultMalformed
}

// authorize checks the signing key against the account's master and regular keys.
func (a *account) authorize(signer string) domain.EngineResult {
	switch {
	case signer == a.address:
		if a.flags&domain.LedgerFlagDisableMaster != 0 {
			return domain.ResultMasterDisabled
		}
		return ""
	case signer != "" && signer == a.regularKey:
		return ""
	}
	return domain.ResultBadSigner
}

func (l *Ledger) applyTrustSet(holder *account, tx domain.Transaction) domain.EngineResult {
	amt := tx.LimitAmount
	if amt.Issuer == holder.address {
		return "temDST_IS_SRC"
	}
	issuer, ok := l.accounts[amt.Issuer]
	if !ok {
		return domain.ResultNoDst
	}
	limit, err := decimal.NewFromString(amt.Value)
	if err != nil || limit.IsNegative() {
		return "temBAD_LIMIT"
	}
	key := lineKey{peer: issuer.address, currency: amt.Currency}
	line, exists := holder.lines[key]
	if !exists && issuer.asf[domain.FlagDisallowIncomingTrustline] {
		return "tecNO_PERMISSION"
	}
	if !exists {
		line = &trustLine{}
		holder.lines[key] = line
		issuer.lines[lineKey{peer: holder.address, currency: amt.Currency}] = &trustLine{}
	}
	line.limit = limit
	issuer.lines[lineKey{peer: holder.address, currency: amt.Currency}].limitPeer = limit
	return domain.ResultSuccess
}

func (l *Ledger) applyPayment(issuer *account, tx domain.Transaction) domain.EngineResult {
	amt := tx.Amount
	if amt.Issuer != issuer.address {
		// Only direct issuance from the issuing account is simulated.
		return domain.ResultNoLine
	}
	dest, ok := l.accounts[tx.Destination]
	if !ok {
		return domain.ResultNoDst
	}
	if dest.address == issuer.address {
		return "temREDUNDANT"
	}
	value, err := decimal.NewFromString(amt.Value)
	if err != nil || !value.IsPositive() {
		return "temBAD_AMOUNT"
	}
	if issuer.asf[domain.FlagGlobalFreeze] {
		return "tecFROZEN"
	}
	line, ok := dest.lines[lineKey{peer: issuer.address, currency: amt.Currency}]
	if !ok {
		return domain.ResultNoLine
	}
	next := line.balance.Add(value)
	if next.GreaterThan(line.limit) {
		return domain.ResultPathPartial
	}
	line.balance = next
	mirror := issuer.lines[lineKey{peer: dest.address, currency: amt.Currency}]
	mirror.balance = mirror.balance.Sub(value)
	return domain.ResultSuccess
}

func (a *account) applyAccountSet(tx domain.Transaction) domain.EngineResult {
	if f := tx.SetFlag; f != 0 {
		if !f.Valid() {
			return "temINVALID_FLAG"
		}
		switch f {
		case domain.FlagDisableMaster:
			if a.regularKey == "" {
				return domain.ResultNoAlternativeKey
			}
		case domain.FlagRequireAuth:
			if len(a.lines) > 0 {
				return "tecOWNERS"
			}
		}
		a.asf[f] = true
		a.flags |= ledgerFlagBits[f]
		return domain.ResultSuccess
	}

	f := tx.ClearFlag
	if !f.Valid() {
		return "temINVALID_FLAG"
	}
	if f == domain.FlagNoFreeze {
		// NoFreeze is permanent once set.
		return domain.ResultSuccess
	}
	delete(a.asf, f)
	a.flags &^= ledgerFlagBits[f]
	return domain.ResultSuccess
}

// Account returns the current AccountRoot for address.
func (l *Ledger) Account(address string) (domain.AccountRoot, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	acct, ok := l.accounts[address]
	if !ok {
		return domain.AccountRoot{}, false
	}
	return domain.AccountRoot{
		Account:    acct.address,
		Balance:    acct.balance.String(),
		Sequence:   acct.sequence,
		Flags:      acct.flags,
		RegularKey: acct.regularKey,
	}, true
}

// HasFlag reports whether an asf flag is currently set on address.
func (l *Ledger) HasFlag(address string, flag domain.AccountFlag) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	acct, ok := l.accounts[address]
	return ok && acct.asf[flag]
}

// Journal returns every transaction submitted so far, in order.
func (l *Ledger) Journal() []domain.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.Transaction, len(l.journal))
	copy(out, l.journal)
	return out
}

// Count returns how many submitted transactions had the given type.
func (l *Ledger) Count(txType domain.TransactionType) int {
	n := 0
	for _, tx := range l.Journal() {
		if tx.TransactionType == txType {
			n++
		}
	}
	return n
}

// Connects returns how many times Connect was called.
func (l *Ledger) Connects() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.connects
}

// Pings returns how many ping requests were served.
func (l *Ledger) Pings() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pings
}

// DropConnection silently closes the session, like an idle socket being dropped.
func (l *Ledger) DropConnection() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.connected = false
}

// FailConnects makes the next n Connect calls fail.
func (l *Ledger) FailConnects(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.connectFailures = n
}

// FailPings makes the next n pings fail and drop the session.
func (l *Ledger) FailPings(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pingFailures = n
}

// FailNext makes the next submission of txType (any type when empty) return code.
func (l *Ledger) FailNext(txType domain.TransactionType, code domain.EngineResult) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures = append(l.failures, injected{txType: txType, code: code})
}

// ErrorNext makes the next submission of txType fail with err (e.g. a timeout).
func (l *Ledger) ErrorNext(txType domain.TransactionType, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures = append(l.failures, injected{txType: txType, err: err})
}

// ForceSetFlag sets an asf flag on address outside any transaction, as if
// another party had changed the account.
func (l *Ledger) ForceSetFlag(address string, flag domain.AccountFlag) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if acct, ok := l.accounts[address]; ok {
		acct.asf[flag] = true
		acct.flags |= ledgerFlagBits[flag]
	}
}

// ForceRegularKey sets the regular key on address outside any transaction.
func (l *Ledger) ForceRegularKey(address, key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if acct, ok := l.accounts[address]; ok {
		acct.regularKey = key
	}
}

// envelope is the simulated signed blob.
type envelope struct {
	Tx     domain.Transaction `json:"tx"`
	Signer string             `json:"signer"`
}

func encodeEnvelope(env envelope) (blob, hash string, err error) {
	data, err := json.Marshal(env)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode transaction: %w", err)
	}
	blob = strings.ToUpper(hex.EncodeToString(data))
	sum := sha256.Sum256(data)
	return blob, strings.ToUpper(hex.EncodeToString(sum[:])), nil
}

func decodeEnvelope(blob string) (envelope, error) {
	var env envelope
	data, err := hex.DecodeString(blob)
	if err != nil {
		return env, fmt.Errorf("%w: blob is not hex", domain.ErrInvalidTransaction)
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return env, fmt.Errorf("%w: %v", domain.ErrInvalidTransaction, err)
	}
	return env, nil
}
