package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/tokenforge/internal/logging"
	"github.com/aretw0/tokenforge/pkg/domain"
	"github.com/aretw0/tokenforge/pkg/ports"
	"github.com/google/uuid"
)

const (
	// DefaultTimeout bounds a single HTTP round trip.
	DefaultTimeout = 20 * time.Second
	// DefaultPollInterval is the delay between `tx` lookups while waiting for validation.
	DefaultPollInterval = time.Second
	// DefaultLedgerOffset is added to the current ledger index for LastLedgerSequence.
	DefaultLedgerOffset = 20
	// DefaultSubmitDeadline bounds how long a submitted blob is tracked.
	DefaultSubmitDeadline = 2 * time.Minute
)

// Client is a ports.LedgerClient over rippled JSON-RPC.
type Client struct {
	url    string
	local  bool
	http   *http.Client
	logger *slog.Logger

	pollInterval   time.Duration
	ledgerOffset   uint32
	submitDeadline time.Duration

	mu        sync.Mutex
	connected bool
}

var _ ports.LedgerClient = (*Client)(nil)

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cl *Client) {
		cl.logger = logger
	}
}

// WithPollInterval sets how often a pending submission is looked up.
func WithPollInterval(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.pollInterval = d
		}
	}
}

// WithLedgerOffset sets the LastLedgerSequence offset used by Autofill.
func WithLedgerOffset(n uint32) Option {
	return func(cl *Client) {
		if n > 0 {
			cl.ledgerOffset = n
		}
	}
}

// WithSubmitDeadline bounds the wait for a submitted transaction. The wait ignores
// cancellation of the caller's context and stops only at this deadline or at the
// transaction's LastLedgerSequence.
func WithSubmitDeadline(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.submitDeadline = d
		}
	}
}

// New creates a client for the JSON-RPC endpoint.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		url:            endpoint,
		local:          isLoopback(endpoint),
		http:           &http.Client{Timeout: DefaultTimeout},
		logger:         logging.NewNop(),
		pollInterval:   DefaultPollInterval,
		ledgerOffset:   DefaultLedgerOffset,
		submitDeadline: DefaultSubmitDeadline,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// isLoopback reports whether endpoint names this host.
func isLoopback(endpoint string) bool {
	u, err := url.Parse(endpoint)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// Local reports whether the endpoint is on this host. Seeds are only ever sent to a
// local node.
func (c *Client) Local() bool { return c.local }

// keyService guards the commands that carry a seed.
func (c *Client) keyService(method string) error {
	if !c.local {
		return fmt.Errorf("%w: %s refuses to send a seed to %s", domain.ErrAdminNodeRequired, method, c.url)
	}
	return nil
}

// adminCall runs a command that carries a seed. Public nodes refuse these, which is
// reported as domain.ErrAdminNodeRequired.
func (c *Client) adminCall(ctx context.Context, method string, params map[string]any) (json.RawMessage, error) {
	if err := c.keyService(method); err != nil {
		return nil, err
	}
	raw, err := c.call(ctx, method, params)
	if domain.IsRPCError(err, "noPermission") || domain.IsRPCError(err, "notSupported") {
		return nil, fmt.Errorf("%w: %w", domain.ErrAdminNodeRequired, err)
	}
	return raw, err
}

type rpcRequest struct {
	Method string `json:"method"`
	Params []any  `json:"params"`
	ID     string `json:"id"`
}

type rpcEnvelope struct {
	Result json.RawMessage `json:"result"`
}

type rpcStatus struct {
	Status       string `json:"status"`
	Error        string `json:"error"`
	ErrorMessage string `json:"error_message"`
}

// call runs method and returns the raw "result" object. Ledger error tokens come back
// as *domain.RPCError; transport failures wrap domain.ErrTransientNetwork and mark the
// session as disconnected.
func (c *Client) call(ctx context.Context, method string, params map[string]any) (json.RawMessage, error) {
	if params == nil {
		params = map[string]any{}
	}
	body, err := json.Marshal(rpcRequest{Method: method, Params: []any{params}, ID: uuid.NewString()})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.setConnected(false)
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrTransientNetwork, method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		c.setConnected(false)
		return nil, fmt.Errorf("%w: %s: HTTP %d", domain.ErrTransientNetwork, method, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected HTTP %d", method, resp.StatusCode)
	}

	var env rpcEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", method, err)
	}

	var status rpcStatus
	if err := json.Unmarshal(env.Result, &status); err != nil {
		return nil, fmt.Errorf("failed to decode %s status: %w", method, err)
	}
	if status.Status == "error" || status.Error != "" {
		return nil, &domain.RPCError{Command: method, Code: status.Error, Message: status.ErrorMessage}
	}

	c.setConnected(true)
	return env.Result, nil
}

func (c *Client) setConnected(v bool) {
	c.mu.Lock()
	c.connected = v
	c.mu.Unlock()
}

// Connect checks the endpoint with a ping.
func (c *Client) Connect(ctx context.Context) error {
	if _, err := c.call(ctx, domain.CommandPing, nil); err != nil {
		return fmt.Errorf("connect %s: %w", c.url, err)
	}
	c.logger.Debug("connected", "url", c.url)
	return nil
}

// Disconnect drops idle connections and marks the session closed.
func (c *Client) Disconnect(ctx context.Context) error {
	c.http.CloseIdleConnections()
	c.setConnected(false)
	return nil
}

// IsConnected reports whether the last round trip succeeded.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Request runs a generic command and returns its decoded result object.
func (c *Client) Request(ctx context.Context, req domain.Request) (domain.Response, error) {
	raw, err := c.call(ctx, req.Command, req.Params)
	if err != nil {
		return nil, err
	}
	var out domain.Response
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode %s result: %w", req.Command, err)
	}
	return out, nil
}

// Autofill completes Sequence, Fee and LastLedgerSequence.
func (c *Client) Autofill(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	// 1. Sequence from the current (open) ledger view
	raw, err := c.call(ctx, domain.CommandAccountInfo, map[string]any{
		"account":      tx.Account,
		"ledger_index": "current",
	})
	if err != nil {
		return tx, fmt.Errorf("fill sequence: %w", err)
	}
	var info struct {
		AccountData struct {
			Sequence uint32 `json:"Sequence"`
		} `json:"account_data"`
	}
	if err := json.Unmarshal(raw, &info); err != nil {
		return tx, fmt.Errorf("fill sequence: %w", err)
	}

	// 2. Open ledger fee
	raw, err = c.call(ctx, "fee", nil)
	if err != nil {
		return tx, fmt.Errorf("fill fee: %w", err)
	}
	var fee struct {
		Drops struct {
			OpenLedgerFee string `json:"open_ledger_fee"`
			BaseFee       string `json:"base_fee"`
		} `json:"drops"`
	}
	if err := json.Unmarshal(raw, &fee); err != nil {
		return tx, fmt.Errorf("fill fee: %w", err)
	}

	// 3. LastLedgerSequence
	current, err := c.currentLedger(ctx)
	if err != nil {
		return tx, fmt.Errorf("fill last ledger: %w", err)
	}

	tx.Sequence = info.AccountData.Sequence
	tx.Fee = fee.Drops.OpenLedgerFee
	if tx.Fee == "" {
		tx.Fee = fee.Drops.BaseFee
	}
	tx.LastLedgerSequence = current + c.ledgerOffset
	return tx, nil
}

func (c *Client) currentLedger(ctx context.Context) (uint32, error) {
	raw, err := c.call(ctx, "ledger_current", nil)
	if err != nil {
		return 0, err
	}
	var cur struct {
		Index uint32 `json:"ledger_current_index"`
	}
	if err := json.Unmarshal(raw, &cur); err != nil {
		return 0, err
	}
	return cur.Index, nil
}

type submitReply struct {
	EngineResult string `json:"engine_result"`
	TxJSON       struct {
		Hash string `json:"hash"`
	} `json:"tx_json"`
}

type txReply struct {
	Validated   bool   `json:"validated"`
	LedgerIndex uint32 `json:"ledger_index"`
	Meta        struct {
		TransactionResult string `json:"TransactionResult"`
	} `json:"meta"`
}

// SubmitAndWait submits the blob once and waits for a validated outcome. A cancelled ctx
// prevents the submit; once the blob is sent the wait runs to a verdict or to the
// submit deadline.
func (c *Client) SubmitAndWait(ctx context.Context, signed domain.SignedTransaction) (domain.SubmitResult, error) {
	tx := signed.Tx()
	result := domain.SubmitResult{TxType: tx.TransactionType, Hash: signed.Hash(), Sequence: tx.Sequence}
	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("submit %s: %w", tx.TransactionType, err)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.submitDeadline)
	defer cancel()

	raw, err := c.call(ctx, "submit", map[string]any{"tx_blob": signed.Blob()})
	if err != nil {
		return result, fmt.Errorf("submit %s: %w", tx.TransactionType, err)
	}
	var sub submitReply
	if err := json.Unmarshal(raw, &sub); err != nil {
		return result, fmt.Errorf("submit %s: %w", tx.TransactionType, err)
	}
	if sub.TxJSON.Hash != "" {
		result.Hash = sub.TxJSON.Hash
	}

	prelim := domain.EngineResult(sub.EngineResult)
	c.logger.Debug("submitted", "tx_type", tx.TransactionType, "hash", result.Hash, "preliminary", prelim)
	if prelim.Final() {
		result.Code = prelim
		return result, nil
	}

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("%w: %s not validated within %s", domain.ErrSubmitTimeout, result.Hash, c.submitDeadline)
		case <-ticker.C:
		}

		raw, err := c.call(ctx, "tx", map[string]any{"transaction": result.Hash})
		switch {
		case domain.IsRPCError(err, "txnNotFound"):
		case errors.Is(err, domain.ErrTransientNetwork):
			// The blob is on the network already; keep polling, never resubmit.
			c.logger.Warn("lookup failed, retrying", "hash", result.Hash, "error", err)
			continue
		case err != nil:
			return result, fmt.Errorf("lookup %s: %w", result.Hash, err)
		default:
			var got txReply
			if err := json.Unmarshal(raw, &got); err != nil {
				return result, fmt.Errorf("lookup %s: %w", result.Hash, err)
			}
			if got.Validated {
				result.Code = domain.EngineResult(got.Meta.TransactionResult)
				result.Validated = true
				result.LedgerIndex = got.LedgerIndex
				return result, nil
			}
		}

		current, err := c.currentLedger(ctx)
		if err == nil && tx.LastLedgerSequence != 0 && current > tx.LastLedgerSequence {
			return result, fmt.Errorf("%w: %s past LastLedgerSequence %d", domain.ErrSubmitTimeout,
				result.Hash, tx.LastLedgerSequence)
		}
	}
}
