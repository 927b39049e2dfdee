package engine

import (
	"github.com/chronx-io/chronx/internal/chain"
	"github.com/chronx-io/chronx/pkg/crypto"
	"github.com/chronx-io/chronx/pkg/types"
)

const kxUsdPair = "KX/USD"

func (e *Engine) applyOpenClaim(g *stage, tx *chain.Transaction, a chain.Action, now types.Timestamp) error {
	lock, err := g.timelock(a.LockId)
	if err != nil {
		return err
	}
	if lock == nil {
		return chain.Err(chain.ErrTimeLockNotFound)
	}
	if !lock.HasClaimPolicy {
		return chain.Err(chain.ErrNoPolicyOnLock)
	}
	if lock.Status != chain.LockPending {
		return chain.Err(chain.ErrInvalidClaimStateTransition)
	}
	if lock.UnlockAt > now {
		return chain.Err(chain.ErrTimeLockNotMatured)
	}

	thresholds := chain.DefaultLaneThresholds()
	var vClaimCents uint64
	snap, err := g.oracleSnapshot(kxUsdPair)
	if err != nil {
		return err
	}
	if snap == nil {
		vClaimCents = ^uint64(0) // effectively infinite: forces Elevated (safety-first)
	} else {
		kx := lock.Amount.Int().Uint64() / chain.ChronosPerKX
		vClaimCents = kx * snap.PriceCents
	}
	lane := thresholds.LaneFor(vClaimCents)

	if lock.LockVersion == 1 && lock.OrgIdentifier == "" && len(lock.BeneficiaryAnchorCommitment) == 0 {
		lock.Status = chain.LockAmbiguous
		g.putTimeLock(lock)
		return nil
	}

	claim := chain.NewClaimState(lock.Id, lane, vClaimCents, now)
	g.putClaim(claim)
	lock.Status = chain.LockClaimOpen
	g.putTimeLock(lock)
	return nil
}

func (e *Engine) applySubmitClaimCommit(g *stage, tx *chain.Transaction, a chain.Action, now types.Timestamp) error {
	lock, err := g.timelock(a.LockId)
	if err != nil {
		return err
	}
	if lock == nil {
		return chain.Err(chain.ErrTimeLockNotFound)
	}
	if lock.Status != chain.LockClaimOpen {
		return chain.Err(chain.ErrInvalidClaimStateTransition)
	}
	claim, err := g.claim(a.LockId)
	if err != nil {
		return err
	}
	if claim == nil {
		return chain.Err(chain.ErrClaimNotFound)
	}

	thresholds := chain.DefaultLaneThresholds()
	if a.BondAmount.Cmp(thresholds.MinBond(claim.Lane)) < 0 {
		return chain.Err(chain.ErrClaimBondTooLow)
	}

	agent, err := g.account(tx.From)
	if err != nil {
		return err
	}
	if err := debit(agent, a.BondAmount); err != nil {
		return err
	}
	g.putAccount(agent)

	claim.AgentId = tx.From
	claim.CommitHash = a.CommitHash
	claim.CommitBond = a.BondAmount
	claim.CommittedAt = now
	g.putClaim(claim)

	lock.Status = chain.LockClaimCommitted
	g.putTimeLock(lock)
	return nil
}

func (e *Engine) applyRevealClaim(g *stage, tx *chain.Transaction, a chain.Action, now types.Timestamp) error {
	lock, err := g.timelock(a.LockId)
	if err != nil {
		return err
	}
	if lock == nil {
		return chain.Err(chain.ErrTimeLockNotFound)
	}
	if lock.Status != chain.LockClaimCommitted {
		return chain.Err(chain.ErrInvalidClaimStateTransition)
	}
	claim, err := g.claim(a.LockId)
	if err != nil {
		return err
	}
	if claim == nil || claim.AgentId != tx.From {
		return chain.Err(chain.ErrAuthPolicyViolation)
	}

	thresholds := chain.DefaultLaneThresholds()
	if int64(now) > int64(claim.CommittedAt)+thresholds.RevealWindow(claim.Lane) {
		lock.Status = chain.LockClaimSlashed
		lock.SlashReason = chain.SlashRevealTimeout
		g.putTimeLock(lock)
		return nil
	}

	hash := crypto.HashConcat(crypto.Hash(a.Payload), a.Salt)
	if hash != claim.CommitHash {
		lock.Status = chain.LockClaimSlashed
		lock.SlashReason = chain.SlashRevealHashMismatch
		g.putTimeLock(lock)
		return nil
	}

	claim.RevealedPayload = a.Payload
	claim.RevealedSalt = a.Salt
	claim.Certificates = a.Certificates
	claim.RevealedAt = now
	g.putClaim(claim)

	lock.Status = chain.LockClaimRevealed
	g.putTimeLock(lock)
	return nil
}

func (e *Engine) applyChallengeClaimReveal(g *stage, tx *chain.Transaction, a chain.Action, now types.Timestamp) error {
	lock, err := g.timelock(a.LockId)
	if err != nil {
		return err
	}
	if lock == nil {
		return chain.Err(chain.ErrTimeLockNotFound)
	}
	if lock.Status != chain.LockClaimRevealed {
		return chain.Err(chain.ErrInvalidClaimStateTransition)
	}
	claim, err := g.claim(a.LockId)
	if err != nil {
		return err
	}
	if claim == nil {
		return chain.Err(chain.ErrClaimNotFound)
	}

	thresholds := chain.DefaultLaneThresholds()
	if int64(now) > int64(claim.RevealedAt)+thresholds.ChallengeWindow(claim.Lane) {
		return chain.Err(chain.ErrClaimChallengeWindowExpired)
	}
	if a.BondAmount.Cmp(claim.CommitBond) < 0 {
		return chain.Err(chain.ErrChallengeBondTooLow)
	}

	challenger, err := g.account(tx.From)
	if err != nil {
		return err
	}
	if err := debit(challenger, a.BondAmount); err != nil {
		return err
	}
	g.putAccount(challenger)

	claim.Challenger = tx.From
	claim.ChallengeBond = a.BondAmount
	claim.ChallengeEvidenceHash = a.CommitHash
	claim.ChallengedAt = now
	g.putClaim(claim)

	lock.Status = chain.LockClaimChallenged
	g.putTimeLock(lock)
	return nil
}

func (e *Engine) applyFinalizeClaim(g *stage, tx *chain.Transaction, a chain.Action, now types.Timestamp) error {
	lock, err := g.timelock(a.LockId)
	if err != nil {
		return err
	}
	if lock == nil {
		return chain.Err(chain.ErrTimeLockNotFound)
	}
	claim, err := g.claim(a.LockId)
	if err != nil {
		return err
	}
	if claim == nil {
		return chain.Err(chain.ErrClaimNotFound)
	}

	thresholds := chain.DefaultLaneThresholds()
	switch lock.Status {
	case chain.LockClaimRevealed:
		if int64(now) <= int64(claim.RevealedAt)+thresholds.ChallengeWindow(claim.Lane) {
			return chain.Err(chain.ErrClaimChallengeWindowOpen)
		}
		agent, err := g.account(claim.AgentId)
		if err != nil {
			return err
		}
		if agent == nil {
			agent = chain.NewStubAccount(claim.AgentId, now)
		}
		agent.Balance = agent.Balance.Add(lock.Amount).Add(claim.CommitBond)
		g.putAccount(agent)

		lock.Status = chain.LockClaimFinalized
		lock.FinalizedTo = claim.AgentId
		lock.FinalizedAt = now
		g.putTimeLock(lock)
		g.deleteClaim(a.LockId)
		return nil

	case chain.LockClaimChallenged:
		challenger, err := g.account(claim.Challenger)
		if err != nil {
			return err
		}
		challenger.Balance = challenger.Balance.Add(claim.ChallengeBond).Add(claim.CommitBond)
		g.putAccount(challenger)

		sender, err := g.account(lock.Sender)
		if err != nil {
			return err
		}
		if sender == nil {
			sender = chain.NewStubAccount(lock.Sender, now)
		}
		sender.Balance = sender.Balance.Add(lock.Amount)
		g.putAccount(sender)

		lock.Status = chain.LockClaimSlashed
		lock.SlashReason = chain.SlashSuccessfulChallenge
		g.putTimeLock(lock)
		g.deleteClaim(a.LockId)
		return nil

	default:
		return chain.Err(chain.ErrInvalidClaimStateTransition)
	}
}
