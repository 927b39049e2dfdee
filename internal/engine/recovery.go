package engine

import (
	"github.com/chronx-io/chronx/internal/chain"
	"github.com/chronx-io/chronx/pkg/types"
)

func (e *Engine) applyStartRecovery(g *stage, tx *chain.Transaction, a chain.Action, now types.Timestamp) error {
	if a.BondAmount.Cmp(types.NewBalance(chain.MinRecoveryBondChronos)) < 0 {
		return chain.Err(chain.ErrRecoveryBondTooLow)
	}
	target, err := g.account(a.TargetAccount)
	if err != nil {
		return err
	}
	if target == nil {
		return chain.Err(chain.ErrUnknownAccount)
	}
	if target.Recovery.Active() {
		return chain.Err(chain.ErrRecoveryAlreadyActive)
	}

	initiator, err := g.account(tx.From)
	if err != nil {
		return err
	}
	if err := debit(initiator, a.BondAmount); err != nil {
		return err
	}
	g.putAccount(initiator)

	target.Recovery = chain.RecoveryState{
		Status:           chain.RecoveryActive,
		ProposedOwnerKey: a.ProposedOwnerKey,
		EvidenceHash:     a.EvidenceHash,
		Bond:             a.BondAmount,
		StartTime:        now,
		ExecuteAfter:     types.Timestamp(int64(now) + chain.RecoveryExecutionDelaySecs),
	}
	g.putAccount(target)
	return nil
}

func (e *Engine) applyChallengeRecovery(g *stage, tx *chain.Transaction, a chain.Action, now types.Timestamp) error {
	if a.BondAmount.Cmp(types.NewBalance(chain.MinChallengeBondChronos)) < 0 {
		return chain.Err(chain.ErrChallengeBondTooLow)
	}
	target, err := g.account(a.TargetAccount)
	if err != nil {
		return err
	}
	if target == nil || !target.Recovery.Active() {
		return chain.Err(chain.ErrNoActiveRecovery)
	}
	if int64(now) > int64(target.Recovery.StartTime)+chain.RecoveryChallengeWindowSecs {
		return chain.Err(chain.ErrChallengeWindowClosed)
	}

	challenger, err := g.account(tx.From)
	if err != nil {
		return err
	}
	if err := debit(challenger, a.BondAmount); err != nil {
		return err
	}
	g.putAccount(challenger)

	target.Recovery.Status = chain.RecoveryChallenged
	target.Recovery.ChallengeBond = a.BondAmount
	target.Recovery.CounterEvidenceHash = a.CounterEvidenceHash
	g.putAccount(target)
	return nil
}

func (e *Engine) applyRegisterVerifier(g *stage, tx *chain.Transaction, a chain.Action, now types.Timestamp) error {
	if a.StakeAmount.Cmp(types.NewBalance(chain.MinVerifierStakeChronos)) < 0 {
		return chain.Err(chain.ErrVerifierStakeTooLow)
	}
	acc, err := g.account(tx.From)
	if err != nil {
		return err
	}
	if acc == nil {
		return chain.Err(chain.ErrUnknownAccount)
	}
	if acc.Balance.Cmp(a.StakeAmount) < 0 {
		return chain.ErrInsufficientBalanceDetail(a.StakeAmount.String(), acc.Balance.String())
	}
	acc.VerifierStake = acc.VerifierStake.Add(a.StakeAmount)
	acc.IsVerifier = true
	g.putAccount(acc)
	return nil
}

func (e *Engine) applyVoteRecovery(g *stage, tx *chain.Transaction, a chain.Action, now types.Timestamp) error {
	voter, err := g.account(tx.From)
	if err != nil {
		return err
	}
	if voter == nil || !voter.IsVerifier {
		return chain.Err(chain.ErrVerifierNotRegistered)
	}
	target, err := g.account(a.TargetAccount)
	if err != nil {
		return err
	}
	if target == nil || !target.Recovery.Active() {
		return chain.Err(chain.ErrNoActiveRecovery)
	}
	for _, id := range target.Recovery.ApproveVotes {
		if id == tx.TxId {
			return chain.Err(chain.ErrVerifierAlreadyVoted)
		}
	}
	for _, id := range target.Recovery.RejectVotes {
		if id == tx.TxId {
			return chain.Err(chain.ErrVerifierAlreadyVoted)
		}
	}
	if a.Approve {
		target.Recovery.ApproveVotes = append(target.Recovery.ApproveVotes, tx.TxId)
	} else {
		target.Recovery.RejectVotes = append(target.Recovery.RejectVotes, tx.TxId)
	}
	g.putAccount(target)
	return nil
}

func (e *Engine) applyFinalizeRecovery(g *stage, tx *chain.Transaction, a chain.Action, now types.Timestamp) error {
	target, err := g.account(a.TargetAccount)
	if err != nil {
		return err
	}
	if target == nil || !target.Recovery.Active() {
		return chain.Err(chain.ErrNoActiveRecovery)
	}
	if now < target.Recovery.ExecuteAfter {
		return chain.Err(chain.ErrRecoveryDelayNotElapsed)
	}
	if len(target.Recovery.ApproveVotes) < chain.RecoveryVerifierThreshold {
		return chain.Err(chain.ErrRecoveryNotApproved)
	}

	target.Policy = chain.AuthPolicy{Kind: chain.AuthRecoveryEnabled, OwnerKey: target.Recovery.ProposedOwnerKey}
	target.Recovery = chain.RecoveryState{}
	g.putAccount(target)
	return nil
}
