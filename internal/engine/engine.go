package engine

import (
	"github.com/chronx-io/chronx/internal/chain"
	"github.com/chronx-io/chronx/internal/dag"
	"github.com/chronx-io/chronx/internal/store"
	"github.com/chronx-io/chronx/pkg/crypto"
	"github.com/chronx-io/chronx/pkg/types"
)

// Engine is ChronX's state engine: the single atomic dispatcher
// through which every accepted transaction's effects reach the store.
// It is driven by exactly one task (the single-writer serialization
// guarantee); Engine itself holds no locks.
type Engine struct {
	store      *store.Store
	difficulty int
}

// New wraps s with the given current PoW difficulty. Callers refresh
// difficulty via SetDifficulty as the retargeter (internal/consensus)
// advances it.
func New(s *store.Store, difficulty int) *Engine {
	return &Engine{store: s, difficulty: difficulty}
}

func (e *Engine) SetDifficulty(d int) { e.difficulty = d }

// Apply validates and executes tx against the store, running its full
// precondition list and execution model. On any failure the store is left
// completely untouched.
func (e *Engine) Apply(tx *chain.Transaction, now types.Timestamp) error {
	if err := dag.ValidateStructure(tx, e.difficulty, func(id types.TxId) bool {
		has, _ := e.store.HasTransaction(id)
		return has
	}); err != nil {
		return err
	}

	if has, _ := e.store.HasTransaction(tx.TxId); has {
		return chain.Err(chain.ErrDuplicateVertex)
	}
	if tx.HasExpiresAt && tx.ExpiresAt <= now {
		return chain.Err(chain.ErrTransactionExpired)
	}

	g := newStage(e.store)

	sender, err := g.account(tx.From)
	if err != nil {
		return err
	}
	if sender == nil {
		return chain.Err(chain.ErrUnknownAccount)
	}
	if tx.Nonce != sender.Nonce {
		return chain.Err(chain.ErrInvalidNonce)
	}

	// Key registration for receive-only accounts: a stub account
	// materialized by an incoming Transfer carries no public key. Its first
	// outbound transaction must carry sender_public_key; once the derived
	// AccountId matches, that key is installed permanently as SingleSig.
	if !sender.HasRegisteredKey() {
		if len(tx.SenderPublicKey) == 0 {
			return chain.Err(chain.ErrAuthPolicyViolation)
		}
		if crypto.AccountIdFromPubKey(tx.SenderPublicKey) != tx.From {
			return chain.Err(chain.ErrAuthPolicyViolation)
		}
		sender.Policy = chain.AuthPolicy{Kind: chain.AuthSingleSig, OwnerKey: tx.SenderPublicKey}
		g.putAccount(sender)
	}

	if err := dag.ValidateSignatures(tx, sender.Policy); err != nil {
		return err
	}

	for _, action := range tx.Actions {
		if err := e.applyAction(g, tx, action, now); err != nil {
			return err
		}
	}

	sender, err = g.account(tx.From)
	if err != nil {
		return err
	}
	sender.Nonce++
	g.putAccount(sender)

	depth := uint64(0)
	for _, p := range tx.Parents {
		if d, ok, _ := e.store.GetDepth(p); ok && d+1 > depth {
			depth = d + 1
		}
		g.spentTips = append(g.spentTips, p)
	}
	g.depths[tx.TxId] = depth
	g.newTips = append(g.newTips, tx.TxId)
	g.newTx = tx

	return g.commit()
}

func (e *Engine) applyAction(g *stage, tx *chain.Transaction, a chain.Action, now types.Timestamp) error {
	switch a.Kind {
	case chain.ActionTransfer:
		return e.applyTransfer(g, tx, a, now)
	case chain.ActionTimeLockCreate:
		return e.applyTimeLockCreate(g, tx, a, now)
	case chain.ActionTimeLockClaim:
		return e.applyTimeLockClaim(g, tx, a, now)
	case chain.ActionCancelTimeLock:
		return e.applyCancelTimeLock(g, tx, a, now)
	case chain.ActionTimeLockSell:
		return chain.Err(chain.ErrFeatureNotActive)
	case chain.ActionOpenClaim:
		return e.applyOpenClaim(g, tx, a, now)
	case chain.ActionSubmitClaimCommit:
		return e.applySubmitClaimCommit(g, tx, a, now)
	case chain.ActionRevealClaim:
		return e.applyRevealClaim(g, tx, a, now)
	case chain.ActionChallengeClaimReveal:
		return e.applyChallengeClaimReveal(g, tx, a, now)
	case chain.ActionFinalizeClaim:
		return e.applyFinalizeClaim(g, tx, a, now)
	case chain.ActionStartRecovery:
		return e.applyStartRecovery(g, tx, a, now)
	case chain.ActionChallengeRecovery:
		return e.applyChallengeRecovery(g, tx, a, now)
	case chain.ActionRegisterVerifier:
		return e.applyRegisterVerifier(g, tx, a, now)
	case chain.ActionVoteRecovery:
		return e.applyVoteRecovery(g, tx, a, now)
	case chain.ActionFinalizeRecovery:
		return e.applyFinalizeRecovery(g, tx, a, now)
	case chain.ActionRegisterProvider:
		return e.applyRegisterProvider(g, tx, a, now)
	case chain.ActionRevokeProvider:
		return e.applyRevokeProvider(g, tx, a, now)
	case chain.ActionRotateProviderKey:
		return e.applyRotateProviderKey(g, tx, a, now)
	case chain.ActionRegisterSchema:
		return e.applyRegisterSchema(g, tx, a, now)
	case chain.ActionDeactivateSchema:
		return e.applyDeactivateSchema(g, tx, a, now)
	case chain.ActionSubmitOraclePrice:
		return e.applySubmitOraclePrice(g, tx, a, now)
	default:
		return chain.Errf(chain.ErrSerialization, "unknown action kind %d", a.Kind)
	}
}

// debit subtracts amount from acc's balance, rejecting the draw if it would
// exceed spendable = balance - verifier_stake.
func debit(acc *chain.Account, amount types.Balance) error {
	spendable := acc.Spendable()
	if _, ok := spendable.Sub(amount); !ok {
		return chain.ErrInsufficientBalanceDetail(amount.String(), spendable.String())
	}
	newBal, ok := acc.Balance.Sub(amount)
	if !ok {
		return chain.ErrInsufficientBalanceDetail(amount.String(), acc.Balance.String())
	}
	acc.Balance = newBal
	return nil
}

func (e *Engine) applyTransfer(g *stage, tx *chain.Transaction, a chain.Action, now types.Timestamp) error {
	if a.Amount.IsZero() {
		return chain.Err(chain.ErrZeroAmount)
	}
	if a.To == tx.From {
		return chain.Err(chain.ErrSelfTransfer)
	}
	sender, err := g.account(tx.From)
	if err != nil {
		return err
	}
	if err := debit(sender, a.Amount); err != nil {
		return err
	}
	g.putAccount(sender)

	recipient, err := g.account(a.To)
	if err != nil {
		return err
	}
	if recipient == nil {
		recipient = chain.NewStubAccount(a.To, now)
	}
	recipient.Balance = recipient.Balance.Add(a.Amount)
	g.putAccount(recipient)
	return nil
}
