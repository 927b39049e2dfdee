package rpc

import (
	"time"

	"github.com/chronx-io/chronx/internal/chain"
	"github.com/chronx-io/chronx/internal/wallet"
	"github.com/chronx-io/chronx/pkg/crypto"
	"github.com/chronx-io/chronx/pkg/types"
)

func nowUnix() int64 { return time.Now().Unix() }

// WalletParam names a keystore wallet and supplies its password, required
// by every wallet_* endpoint (the node holds the encrypted seed on disk,
// the node's "local wallet" convenience surface).
type WalletParam struct {
	Wallet   string `json:"wallet"`
	Password string `json:"password"`
}

// WalletAccountResult pairs a derived account with its ledger balance.
type WalletAccountResult struct {
	Index     uint32        `json:"index"`
	Name      string        `json:"name"`
	AccountId string        `json:"account_id"`
	Balance   types.Balance `json:"balance"`
}

// WalletSendParam authorizes and shapes a single Transfer sent from one of
// wallet's derived accounts.
type WalletSendParam struct {
	Wallet        string `json:"wallet"`
	Password      string `json:"password"`
	AccountIndex  uint32 `json:"account_index"`
	To            string `json:"to"`
	AmountChronos string `json:"amount_chronos"`
}

// openWalletAccount loads wallet's seed and derives the HD key for
// account_index's external chain position (the wallet derivation scheme).
func (s *Server) openWalletAccount(walletName, password string, accountIndex uint32) (*wallet.HDKey, error) {
	seed, err := s.keystore.Load(walletName, []byte(password))
	if err != nil {
		return nil, err
	}
	master, err := wallet.NewMasterKey(seed)
	if err != nil {
		return nil, err
	}
	return master.DeriveAccount(accountIndex, 0, 0)
}

func (s *Server) handleWalletListAccounts(req *Request) (interface{}, *Error) {
	if s.keystore == nil {
		return nil, &Error{Code: CodeInternalError, Message: "wallet disabled"}
	}
	var p WalletParam
	if err := decodeParams(req, &p); err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}

	entries, err := s.keystore.ListAccounts(p.Wallet)
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}

	out := make([]WalletAccountResult, 0, len(entries))
	for _, e := range entries {
		id, err := types.ParseAccountId(e.Address)
		if err != nil {
			continue
		}
		acc, found, err := s.store.GetAccount(id)
		if err != nil {
			return nil, &Error{Code: CodeInternalError, Message: err.Error()}
		}
		bal := types.ZeroBalance()
		if found {
			bal = acc.Balance
		}
		out = append(out, WalletAccountResult{Index: e.Index, Name: e.Name, AccountId: id.String(), Balance: bal})
	}
	return out, nil
}

func (s *Server) handleWalletGetBalance(req *Request) (interface{}, *Error) {
	if s.keystore == nil {
		return nil, &Error{Code: CodeInternalError, Message: "wallet disabled"}
	}
	var p WalletParam
	if err := decodeParams(req, &p); err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}

	entries, err := s.keystore.ListAccounts(p.Wallet)
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}

	total := types.ZeroBalance()
	for _, e := range entries {
		id, err := types.ParseAccountId(e.Address)
		if err != nil {
			continue
		}
		acc, found, err := s.store.GetAccount(id)
		if err != nil {
			return nil, &Error{Code: CodeInternalError, Message: err.Error()}
		}
		if found {
			total = total.Add(acc.Balance)
		}
	}
	return total, nil
}

// handleWalletSend builds, signs, mines the PoW nonce for, and enqueues a
// single-action Transfer transaction from one of the wallet's derived
// accounts.
func (s *Server) handleWalletSend(req *Request) (interface{}, *Error) {
	if s.keystore == nil {
		return nil, &Error{Code: CodeInternalError, Message: "wallet disabled"}
	}
	var p WalletSendParam
	if err := decodeParams(req, &p); err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}

	to, err := types.ParseAccountId(p.To)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: "invalid to: " + err.Error()}
	}
	amount, err := types.BalanceFromString(p.AmountChronos)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: "invalid amount_chronos: " + err.Error()}
	}

	hd, err := s.openWalletAccount(p.Wallet, p.Password, p.AccountIndex)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}
	key, err := hd.DilithiumKey()
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	defer key.Zero()

	from, err := hd.AccountId()
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	sender, found, err := s.store.GetAccount(from)
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	if !found {
		return nil, &Error{Code: CodeNotFound, Message: "sending account has no on-chain balance yet"}
	}

	tips, err := s.store.Tips()
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	if len(tips) > chain.DAGMaxParents {
		tips = tips[:chain.DAGMaxParents]
	}

	tx := &chain.Transaction{
		Parents:   tips,
		Timestamp: types.Timestamp(nowUnix()),
		Nonce:     sender.Nonce,
		From:      from,
		Actions:   []chain.Action{{Kind: chain.ActionTransfer, To: to, Amount: amount}},
	}
	if !sender.HasRegisteredKey() {
		tx.SenderPublicKey = key.PublicKey()
	}

	body := tx.BodyBytes()
	sig, err := key.Sign(body)
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	tx.Signatures = []types.DilithiumSignature{sig}

	bits := 0
	if s.difficulty != nil {
		bits = s.difficulty()
	}
	tx.PowNonce = crypto.MinePoW(body, bits)
	tx.TxId = tx.ComputeTxId()

	if err := s.pool.Add(tx); err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}
	return &TxSubmitResult{TxId: tx.TxId.String()}, nil
}
