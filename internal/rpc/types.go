package rpc

import (
	"github.com/chronx-io/chronx/internal/chain"
	"github.com/chronx-io/chronx/pkg/types"
)

// JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeNotFound       = -32000
)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	ID      interface{} `json:"id"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ── Param types ─────────────────────────────────────────────────────────

// AccountIdParam is used by endpoints keyed on an account.
type AccountIdParam struct {
	AccountId string `json:"account_id"`
}

// TxIdParam is used by endpoints keyed on a transaction id.
type TxIdParam struct {
	TxId string `json:"tx_id"`
}

// TimeLockIdParam is used by endpoints keyed on a lock id.
type TimeLockIdParam struct {
	LockId string `json:"lock_id"`
}

// TimeLockListParam filters and paginates timelock_list.
type TimeLockListParam struct {
	Sender    string `json:"sender,omitempty"`
	Recipient string `json:"recipient,omitempty"`
	Status    string `json:"status,omitempty"`
	Offset    int    `json:"offset,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

// SchemaIdParam is used by endpoints keyed on a certificate schema id.
type SchemaIdParam struct {
	SchemaId uint64 `json:"schema_id"`
}

// OraclePairParam is used by oracle_getSnapshot.
type OraclePairParam struct {
	Pair string `json:"pair"`
}

// TxSubmitParam wraps a hex-encoded signed transaction body for tx_submit.
type TxSubmitParam struct {
	TxHex string `json:"tx_hex"`
}

// ── Result types ─────────────────────────────────────────────────────────

// ChainInfoResult reports node-level chain statistics.
type ChainInfoResult struct {
	ChainID      string `json:"chain_id"`
	ChainName    string `json:"chain_name"`
	TipCount     int    `json:"tip_count"`
	PoWBits      int    `json:"pow_bits"`
	MempoolCount int    `json:"mempool_count"`
	PeerCount    int    `json:"peer_count"`
}

// AccountResult is the JSON view of a chain.Account.
type AccountResult struct {
	AccountId     string        `json:"account_id"`
	Balance       types.Balance `json:"balance"`
	Spendable     types.Balance `json:"spendable"`
	Nonce         types.Nonce   `json:"nonce"`
	IsVerifier    bool          `json:"is_verifier"`
	VerifierStake types.Balance `json:"verifier_stake"`
	CreatedAt     types.Timestamp `json:"created_at"`
}

func accountResult(a *chain.Account) *AccountResult {
	return &AccountResult{
		AccountId:     a.Id.String(),
		Balance:       a.Balance,
		Spendable:     a.Spendable(),
		Nonce:         a.Nonce,
		IsVerifier:    a.IsVerifier,
		VerifierStake: a.VerifierStake,
		CreatedAt:     a.CreatedAt,
	}
}

// TxSubmitResult reports the accepted transaction's id.
type TxSubmitResult struct {
	TxId string `json:"tx_id"`
}

// MempoolInfoResult reports pending-transaction pool occupancy.
type MempoolInfoResult struct {
	Count int `json:"count"`
}

// PeerInfoResult reports one connected peer.
type PeerInfoResult struct {
	ID          string `json:"id"`
	ConnectedAt int64  `json:"connected_at"`
	Source      string `json:"source"`
}

// NetInfoResult reports this node's identity and peer set.
type NetInfoResult struct {
	PeerID string           `json:"peer_id"`
	Addrs  []string         `json:"addrs"`
	Peers  []PeerInfoResult `json:"peers"`
}

// BanListResult reports one banned peer.
type BanListResult struct {
	ID        string `json:"id"`
	Reason    string `json:"reason"`
	Score     int    `json:"score"`
	BannedAt  int64  `json:"banned_at"`
	ExpiresAt int64  `json:"expires_at"`
}
