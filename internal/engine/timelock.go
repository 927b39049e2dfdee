package engine

import (
	"github.com/chronx-io/chronx/internal/chain"
	"github.com/chronx-io/chronx/pkg/crypto"
	"github.com/chronx-io/chronx/pkg/types"
)

func (e *Engine) applyTimeLockCreate(g *stage, tx *chain.Transaction, a chain.Action, now types.Timestamp) error {
	if a.Amount.IsZero() {
		return chain.Err(chain.ErrZeroAmount)
	}
	if a.Amount.Cmp(types.NewBalance(chain.MinLockAmountChronos)) < 0 {
		return chain.Err(chain.ErrLockAmountTooSmall)
	}
	if a.UnlockAt <= now {
		return chain.Err(chain.ErrUnlockTimestampInPast)
	}
	duration := int64(a.UnlockAt) - int64(now)
	if duration < chain.MinLockDurationSecs {
		return chain.Err(chain.ErrLockDurationTooShort)
	}
	if duration > chain.MaxLockDurationSecs {
		return chain.Err(chain.ErrLockDurationTooLong)
	}
	if len(a.Memo) > chain.MaxMemoBytes {
		return chain.Err(chain.ErrMemoTooLong)
	}
	if len(a.Tags) > chain.MaxTags {
		return chain.Err(chain.ErrTooManyTags)
	}
	for _, t := range a.Tags {
		if len(t) > chain.MaxTagBytes {
			return chain.Err(chain.ErrTagTooLong)
		}
	}
	if len(a.ExtensionData) > chain.MaxExtensionDataBytes {
		return chain.Err(chain.ErrExtensionDataTooLarge)
	}
	if a.HasCancellationWindow && a.CancellationWindowSecs > chain.MaxCancellationWindow {
		return chain.Err(chain.ErrCancellationWindowTooLong)
	}
	if a.Recurring != chain.RecurringNone && a.RecurringCount > chain.MaxRecurringCount {
		return chain.Err(chain.ErrRecurringCountTooLarge)
	}
	if a.HasSplit {
		var sum uint32
		for _, r := range a.Split.Recipients {
			sum += uint32(r.BasisPoints)
		}
		if sum != chain.SplitPolicyBasisPoints {
			return chain.Err(chain.ErrSplitPolicyBasisPointsMismatch)
		}
	}
	sender, err := g.account(tx.From)
	if err != nil {
		return err
	}
	if err := debit(sender, a.Amount); err != nil {
		return err
	}
	g.putAccount(sender)

	lock := &chain.TimeLockContract{
		Id:                     tx.TxId,
		Sender:                 tx.From,
		RecipientPubKey:        a.RecipientPubKey,
		RecipientAccount:       crypto.AccountIdFromPubKey(a.RecipientPubKey),
		Amount:                 a.Amount,
		UnlockAt:               a.UnlockAt,
		CreatedAt:              now,
		Memo:                   a.Memo,
		Status:                      chain.LockPending,
		LockVersion:                 lockVersion(a.HasClaimPolicy),
		ClaimPolicy:                 a.ClaimPolicyId,
		HasClaimPolicy:              a.HasClaimPolicy,
		OrgIdentifier:               a.OrgIdentifier,
		BeneficiaryAnchorCommitment: a.BeneficiaryAnchorCommitment,
		CancellationWindowSecs:      a.CancellationWindowSecs,
		HasCancellationWindow:  a.HasCancellationWindow,
		NotifyRecipient:        a.NotifyRecipient,
		Tags:                   a.Tags,
		Private:                a.Private,
		ExpiryPolicy:           a.LockExpiryPolicy,
		HasExpiryPolicy:        a.HasExpiryPolicy,
		Split:                  a.Split,
		HasSplit:               a.HasSplit,
		ClaimAttemptsMax:       a.ClaimAttemptsMax,
		Recurring:              a.Recurring,
		RecurringCount:         a.RecurringCount,
		ExtensionData:          a.ExtensionData,
		OracleHint:             a.OracleHint,
		JurisdictionHint:       a.JurisdictionHint,
		GovernanceProposalId:   a.GovernanceProposalId,
		ClientRef:              a.ClientRef,
	}
	g.putTimeLock(lock)
	return nil
}

// lockVersion reports the claims-framework version for a newly created lock:
// 1 when the creator opted into a claim policy, 0 (legacy direct-claim)
// otherwise. A lock's version is fixed at creation and never auto-upgraded.
func lockVersion(hasClaimPolicy bool) uint8 {
	if hasClaimPolicy {
		return 1
	}
	return 0
}

func (e *Engine) applyTimeLockClaim(g *stage, tx *chain.Transaction, a chain.Action, now types.Timestamp) error {
	lock, err := g.timelock(a.LockId)
	if err != nil {
		return err
	}
	if lock == nil {
		return chain.Err(chain.ErrTimeLockNotFound)
	}
	if lock.HasClaimPolicy || lock.LockVersion != 0 {
		return chain.Err(chain.ErrLockRequiresClaimsFramework)
	}
	if lock.Status != chain.LockPending {
		return chain.Err(chain.ErrTimeLockAlreadyClaimed)
	}
	if lock.UnlockAt > now {
		return chain.Err(chain.ErrTimeLockNotMatured)
	}
	if tx.From != crypto.AccountIdFromPubKey(lock.RecipientPubKey) {
		return chain.Err(chain.ErrAuthPolicyViolation)
	}

	recipient, err := g.account(tx.From)
	if err != nil {
		return err
	}
	if recipient == nil {
		recipient = chain.NewStubAccount(tx.From, now)
	}
	recipient.Balance = recipient.Balance.Add(lock.Amount)
	g.putAccount(recipient)

	lock.Status = chain.LockClaimed
	lock.ClaimedAt = now
	g.putTimeLock(lock)
	return nil
}

func (e *Engine) applyCancelTimeLock(g *stage, tx *chain.Transaction, a chain.Action, now types.Timestamp) error {
	lock, err := g.timelock(a.LockId)
	if err != nil {
		return err
	}
	if lock == nil {
		return chain.Err(chain.ErrTimeLockNotFound)
	}
	if lock.Sender != tx.From {
		return chain.Err(chain.ErrCancelNotBySender)
	}
	if lock.Status != chain.LockPending {
		return chain.Err(chain.ErrTimeLockAlreadyClaimed)
	}
	if !lock.HasCancellationWindow {
		return chain.Err(chain.ErrCancellationWindowExpired)
	}
	if int64(now) > int64(lock.CreatedAt)+int64(lock.CancellationWindowSecs) {
		return chain.Err(chain.ErrCancellationWindowExpired)
	}

	sender, err := g.account(tx.From)
	if err != nil {
		return err
	}
	sender.Balance = sender.Balance.Add(lock.Amount)
	g.putAccount(sender)

	lock.Status = chain.LockCancelled
	lock.CancelledAt = now
	g.putTimeLock(lock)
	return nil
}
