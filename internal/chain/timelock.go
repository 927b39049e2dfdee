package chain

import (
	"github.com/chronx-io/chronx/internal/codec"
	"github.com/chronx-io/chronx/pkg/types"
)

// TimeLockStatus is the closed sum type for a lock's lifecycle.
// IsTerminal enforces the invariant that once a lock's status is
// terminal, its status never changes again.
type TimeLockStatus uint8

const (
	LockPending TimeLockStatus = iota
	LockClaimed
	LockForSale
	LockAmbiguous
	LockClaimOpen
	LockClaimCommitted
	LockClaimRevealed
	LockClaimChallenged
	LockClaimFinalized
	LockClaimSlashed
	LockCancelled
)

func (s TimeLockStatus) IsTerminal() bool {
	switch s {
	case LockClaimed, LockClaimFinalized, LockClaimSlashed, LockCancelled:
		return true
	default:
		return false
	}
}

// SlashReason tags why a claim was slashed.
type SlashReason uint8

const (
	SlashNone SlashReason = iota
	SlashRevealHashMismatch
	SlashRevealTimeout
	SlashSuccessfulChallenge
	SlashInvalidComplianceCert
	SlashAmbiguityTimeout
)

// TimeLockContract is keyed by the TxId of the creating transaction.
type TimeLockContract struct {
	Id                types.TimeLockId
	Sender            types.AccountId
	RecipientPubKey   types.DilithiumPublicKey
	RecipientAccount  types.AccountId
	Amount            types.Balance
	UnlockAt          types.Timestamp
	CreatedAt         types.Timestamp
	Memo              string

	Status      TimeLockStatus
	SlashReason SlashReason
	ClaimedAt   types.Timestamp
	CancelledAt types.Timestamp
	FinalizedTo types.AccountId
	FinalizedAt types.Timestamp
	AskPrice    types.Balance

	// lock_version 0 = legacy direct-claim, 1 = claims framework.
	LockVersion uint8
	ClaimPolicy uint64
	HasClaimPolicy bool

	// V3 extensibility fields.
	CancellationWindowSecs uint32
	HasCancellationWindow  bool
	NotifyRecipient        bool
	Tags                   []string
	Private                bool
	ExpiryPolicy           ExpiryPolicy
	HasExpiryPolicy        bool
	Split                  SplitPolicy
	HasSplit               bool
	ClaimAttemptsMax       uint8
	Recurring              RecurringPolicy
	RecurringCount         uint32
	ExtensionData          []byte
	OracleHint             string
	JurisdictionHint       string
	GovernanceProposalId   string
	ClientRef              []byte

	OrgIdentifier              string
	BeneficiaryAnchorCommitment []byte
}

func (l *TimeLockContract) Encode(w *codec.Writer) {
	w.Bytes32(l.Id)
	w.Bytes32(l.Sender)
	w.VarBytes(l.RecipientPubKey)
	w.Bytes32(l.RecipientAccount)
	w.VarBytes(l.Amount.Bytes())
	w.I64(int64(l.UnlockAt))
	w.I64(int64(l.CreatedAt))
	w.VarString(l.Memo)

	w.U8(uint8(l.Status))
	w.U8(uint8(l.SlashReason))
	w.I64(int64(l.ClaimedAt))
	w.I64(int64(l.CancelledAt))
	w.Bytes32(l.FinalizedTo)
	w.I64(int64(l.FinalizedAt))
	w.VarBytes(l.AskPrice.Bytes())

	w.U8(l.LockVersion)
	w.Bool(l.HasClaimPolicy)
	w.U64(l.ClaimPolicy)

	w.Bool(l.HasCancellationWindow)
	w.U32(l.CancellationWindowSecs)
	w.Bool(l.NotifyRecipient)
	w.U32(uint32(len(l.Tags)))
	for _, t := range l.Tags {
		w.VarString(t)
	}
	w.Bool(l.Private)
	w.Bool(l.HasExpiryPolicy)
	w.U8(uint8(l.ExpiryPolicy))
	w.Bool(l.HasSplit)
	w.U32(uint32(len(l.Split.Recipients)))
	for _, rec := range l.Split.Recipients {
		w.Bytes32(rec.Account)
		w.U16(rec.BasisPoints)
	}
	w.U8(l.ClaimAttemptsMax)
	w.U8(uint8(l.Recurring))
	w.U32(l.RecurringCount)
	w.VarBytes(l.ExtensionData)
	w.VarString(l.OracleHint)
	w.VarString(l.JurisdictionHint)
	w.VarString(l.GovernanceProposalId)
	w.VarBytes(l.ClientRef)

	w.VarString(l.OrgIdentifier)
	w.VarBytes(l.BeneficiaryAnchorCommitment)
}

func DecodeTimeLockContract(r *codec.Reader) *TimeLockContract {
	l := &TimeLockContract{}
	l.Id = types.TimeLockId(r.Bytes32())
	l.Sender = types.AccountId(r.Bytes32())
	l.RecipientPubKey = r.VarBytes()
	l.RecipientAccount = types.AccountId(r.Bytes32())
	l.Amount = types.BalanceFromBytes(r.VarBytes())
	l.UnlockAt = types.Timestamp(r.I64())
	l.CreatedAt = types.Timestamp(r.I64())
	l.Memo = r.VarString()

	l.Status = TimeLockStatus(r.U8())
	l.SlashReason = SlashReason(r.U8())
	l.ClaimedAt = types.Timestamp(r.I64())
	l.CancelledAt = types.Timestamp(r.I64())
	l.FinalizedTo = types.AccountId(r.Bytes32())
	l.FinalizedAt = types.Timestamp(r.I64())
	l.AskPrice = types.BalanceFromBytes(r.VarBytes())

	l.LockVersion = r.U8()
	l.HasClaimPolicy = r.Bool()
	l.ClaimPolicy = r.U64()

	l.HasCancellationWindow = r.Bool()
	l.CancellationWindowSecs = r.U32()
	l.NotifyRecipient = r.Bool()
	n := r.U32()
	l.Tags = make([]string, n)
	for i := range l.Tags {
		l.Tags[i] = r.VarString()
	}
	l.Private = r.Bool()
	l.HasExpiryPolicy = r.Bool()
	l.ExpiryPolicy = ExpiryPolicy(r.U8())
	l.HasSplit = r.Bool()
	n = r.U32()
	l.Split.Recipients = make([]SplitRecipient, n)
	for i := range l.Split.Recipients {
		l.Split.Recipients[i].Account = types.AccountId(r.Bytes32())
		l.Split.Recipients[i].BasisPoints = r.U16()
	}
	l.ClaimAttemptsMax = r.U8()
	l.Recurring = RecurringPolicy(r.U8())
	l.RecurringCount = r.U32()
	l.ExtensionData = r.VarBytes()
	l.OracleHint = r.VarString()
	l.JurisdictionHint = r.VarString()
	l.GovernanceProposalId = r.VarString()
	l.ClientRef = r.VarBytes()

	l.OrgIdentifier = r.VarString()
	l.BeneficiaryAnchorCommitment = r.VarBytes()
	return l
}
