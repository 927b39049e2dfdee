package rpc

import (
	"encoding/hex"

	"github.com/chronx-io/chronx/internal/chain"
	"github.com/chronx-io/chronx/pkg/types"
)

func (s *Server) handleChainGetInfo(req *Request) (interface{}, *Error) {
	tips, err := s.store.Tips()
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	peerCount := 0
	if s.p2pNode != nil {
		peerCount = s.p2pNode.PeerCount()
	}
	bits := 0
	if s.difficulty != nil {
		bits = s.difficulty()
	}
	return &ChainInfoResult{
		ChainID:      s.genesis.ChainID,
		ChainName:    s.genesis.ChainName,
		TipCount:     len(tips),
		PoWBits:      bits,
		MempoolCount: s.pool.Count(),
		PeerCount:    peerCount,
	}, nil
}

func (s *Server) handleAccountGet(req *Request) (interface{}, *Error) {
	var p AccountIdParam
	if err := decodeParams(req, &p); err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}
	id, err := types.ParseAccountId(p.AccountId)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: "invalid account_id: " + err.Error()}
	}
	acc, found, err := s.store.GetAccount(id)
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	if !found {
		return nil, &Error{Code: CodeNotFound, Message: "account not found"}
	}
	return accountResult(acc), nil
}

func (s *Server) handleTxGet(req *Request) (interface{}, *Error) {
	var p TxIdParam
	if err := decodeParams(req, &p); err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}
	id, err := types.HexToTxId(p.TxId)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: "invalid tx_id: " + err.Error()}
	}
	tx, found, err := s.store.GetTransaction(id)
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	if !found {
		return nil, &Error{Code: CodeNotFound, Message: "transaction not found"}
	}
	return tx, nil
}

// handleTxSubmit accepts a hex-encoded signed transaction and enqueues it to
// the mempool without waiting for the apply task to commit it (the
// submitting client learns the tx_id immediately; finality follows later).
func (s *Server) handleTxSubmit(req *Request) (interface{}, *Error) {
	var p TxSubmitParam
	if err := decodeParams(req, &p); err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}
	raw, err := hex.DecodeString(p.TxHex)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: "invalid tx_hex: " + err.Error()}
	}
	tx, err := chain.DecodeTransaction(raw)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: "malformed transaction: " + err.Error()}
	}
	if err := s.pool.Add(tx); err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}
	return &TxSubmitResult{TxId: tx.TxId.String()}, nil
}

func (s *Server) handleTimeLockGet(req *Request) (interface{}, *Error) {
	var p TimeLockIdParam
	if err := decodeParams(req, &p); err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}
	id, err := types.HexToTxId(p.LockId)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: "invalid lock_id: " + err.Error()}
	}
	lock, found, err := s.store.GetTimeLock(id)
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	if !found {
		return nil, &Error{Code: CodeNotFound, Message: "lock not found"}
	}
	return lock, nil
}

// handleTimeLockList walks every lock, filtering by sender/recipient/status
// and paginating in memory (the store carries no secondary index).
func (s *Server) handleTimeLockList(req *Request) (interface{}, *Error) {
	var p TimeLockListParam
	if err := decodeParams(req, &p); err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}

	var sender, recipient types.AccountId
	if p.Sender != "" {
		id, err := types.ParseAccountId(p.Sender)
		if err != nil {
			return nil, &Error{Code: CodeInvalidParams, Message: "invalid sender: " + err.Error()}
		}
		sender = id
	}
	if p.Recipient != "" {
		id, err := types.ParseAccountId(p.Recipient)
		if err != nil {
			return nil, &Error{Code: CodeInvalidParams, Message: "invalid recipient: " + err.Error()}
		}
		recipient = id
	}

	limit := p.Limit
	if limit <= 0 || limit > 500 {
		limit = 500
	}

	var matched []*chain.TimeLockContract
	err := s.store.ForEachTimeLock(func(l *chain.TimeLockContract) error {
		if p.Sender != "" && l.Sender != sender {
			return nil
		}
		if p.Recipient != "" && l.RecipientAccount != recipient {
			return nil
		}
		if p.Status != "" && timeLockStatusName(l.Status) != p.Status {
			return nil
		}
		matched = append(matched, l)
		return nil
	})
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}

	if p.Offset >= len(matched) {
		return []*chain.TimeLockContract{}, nil
	}
	end := p.Offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[p.Offset:end], nil
}

func timeLockStatusName(st chain.TimeLockStatus) string {
	switch st {
	case chain.LockPending:
		return "pending"
	case chain.LockClaimed:
		return "claimed"
	case chain.LockForSale:
		return "for_sale"
	case chain.LockAmbiguous:
		return "ambiguous"
	case chain.LockClaimOpen:
		return "claim_open"
	case chain.LockClaimCommitted:
		return "claim_committed"
	case chain.LockClaimRevealed:
		return "claim_revealed"
	case chain.LockClaimChallenged:
		return "claim_challenged"
	case chain.LockClaimFinalized:
		return "claim_finalized"
	case chain.LockClaimSlashed:
		return "claim_slashed"
	case chain.LockCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

func (s *Server) handleClaimGet(req *Request) (interface{}, *Error) {
	var p TimeLockIdParam
	if err := decodeParams(req, &p); err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}
	id, err := types.HexToTxId(p.LockId)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: "invalid lock_id: " + err.Error()}
	}
	claim, found, err := s.store.GetClaim(id)
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	if !found {
		return nil, &Error{Code: CodeNotFound, Message: "claim not found"}
	}
	return claim, nil
}

func (s *Server) handleProviderGet(req *Request) (interface{}, *Error) {
	var p AccountIdParam
	if err := decodeParams(req, &p); err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}
	id, err := types.ParseAccountId(p.AccountId)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: "invalid account_id: " + err.Error()}
	}
	provider, found, err := s.store.GetProvider(id)
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	if !found {
		return nil, &Error{Code: CodeNotFound, Message: "provider not found"}
	}
	return provider, nil
}

func (s *Server) handleSchemaGet(req *Request) (interface{}, *Error) {
	var p SchemaIdParam
	if err := decodeParams(req, &p); err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}
	schema, found, err := s.store.GetSchema(p.SchemaId)
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	if !found {
		return nil, &Error{Code: CodeNotFound, Message: "schema not found"}
	}
	return schema, nil
}

func (s *Server) handleOracleGetSnapshot(req *Request) (interface{}, *Error) {
	var p OraclePairParam
	if err := decodeParams(req, &p); err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}
	snap, found, err := s.store.GetOracleSnapshot(p.Pair)
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	if !found {
		return nil, &Error{Code: CodeNotFound, Message: "no snapshot for pair"}
	}
	return snap, nil
}

func (s *Server) handleMempoolGetInfo(req *Request) (interface{}, *Error) {
	return &MempoolInfoResult{Count: s.pool.Count()}, nil
}

func (s *Server) handleNetGetInfo(req *Request) (interface{}, *Error) {
	if s.p2pNode == nil {
		return nil, &Error{Code: CodeInternalError, Message: "p2p disabled"}
	}
	peers := s.p2pNode.PeerList()
	out := make([]PeerInfoResult, 0, len(peers))
	for _, p := range peers {
		out = append(out, PeerInfoResult{ID: p.ID.String(), ConnectedAt: p.ConnectedAt.Unix(), Source: p.Source})
	}
	return &NetInfoResult{
		PeerID: s.p2pNode.ID().String(),
		Addrs:  s.p2pNode.Addrs(),
		Peers:  out,
	}, nil
}

func (s *Server) handleNetGetBanList(req *Request) (interface{}, *Error) {
	if s.p2pNode == nil || s.p2pNode.BanManager == nil {
		return []BanListResult{}, nil
	}
	recs := s.p2pNode.BanManager.BanList()
	out := make([]BanListResult, 0, len(recs))
	for _, r := range recs {
		out = append(out, BanListResult{ID: r.ID, Reason: r.Reason, Score: r.Score, BannedAt: r.BannedAt, ExpiresAt: r.ExpiresAt})
	}
	return out, nil
}
