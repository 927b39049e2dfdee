package chain

import (
	"github.com/chronx-io/chronx/internal/codec"
	"github.com/chronx-io/chronx/pkg/types"
)

// AuthPolicyKind tags the AuthPolicy sum type.
type AuthPolicyKind uint8

const (
	AuthSingleSig AuthPolicyKind = iota
	AuthMultiSig
	AuthRecoveryEnabled
)

// AuthPolicy is a closed sum type: SingleSig(pubkey) | MultiSig(k, keys) |
// RecoveryEnabled(owner_key, recovery_config). Exactly one branch is
// populated per Kind, following the codebase's "sum types everywhere" design note.
type AuthPolicy struct {
	Kind AuthPolicyKind

	// SingleSig / RecoveryEnabled
	OwnerKey types.DilithiumPublicKey

	// MultiSig
	Threshold uint32
	Keys      []types.DilithiumPublicKey

	// RecoveryEnabled
	Recovery RecoveryConfig
}

// RecoveryConfig parameterizes a RecoveryEnabled account's recovery process.
// Currently a placeholder for future governance-tunable parameters; the
// engine always applies the protocol-wide constants from constants.go.
type RecoveryConfig struct {
	// Reserved for future per-account overrides (e.g. a custom verifier
	// whitelist). Empty in the V1 protocol.
}

// Encode appends the canonical encoding of the policy.
func (p AuthPolicy) Encode(w *codec.Writer) {
	w.U8(uint8(p.Kind))
	switch p.Kind {
	case AuthSingleSig:
		w.VarBytes(p.OwnerKey)
	case AuthMultiSig:
		w.U32(p.Threshold)
		w.U32(uint32(len(p.Keys)))
		for _, k := range p.Keys {
			w.VarBytes(k)
		}
	case AuthRecoveryEnabled:
		w.VarBytes(p.OwnerKey)
	}
}

// DecodeAuthPolicy reads a policy written by Encode.
func DecodeAuthPolicy(r *codec.Reader) AuthPolicy {
	var p AuthPolicy
	p.Kind = AuthPolicyKind(r.U8())
	switch p.Kind {
	case AuthSingleSig:
		p.OwnerKey = r.VarBytes()
	case AuthMultiSig:
		p.Threshold = r.U32()
		n := r.U32()
		p.Keys = make([]types.DilithiumPublicKey, n)
		for i := range p.Keys {
			p.Keys[i] = r.VarBytes()
		}
	case AuthRecoveryEnabled:
		p.OwnerKey = r.VarBytes()
	}
	return p
}

// RecoveryDecisionStatus reflects an in-progress recovery's challenge state.
type RecoveryDecisionStatus uint8

const (
	RecoveryNone RecoveryDecisionStatus = iota
	RecoveryActive
	RecoveryChallenged
)

// RecoveryState is the nested record tracking an account's in-flight
// recovery petition; all companion fields are populated only while Active.
type RecoveryState struct {
	Status              RecoveryDecisionStatus
	ProposedOwnerKey    types.DilithiumPublicKey
	EvidenceHash        types.EvidenceHash
	Bond                types.Balance
	StartTime           types.Timestamp
	ExecuteAfter        types.Timestamp
	ChallengeBond       types.Balance
	CounterEvidenceHash types.EvidenceHash
	ApproveVotes        []types.TxId
	RejectVotes         []types.TxId
}

// Active reports whether a recovery petition is currently in flight.
func (r RecoveryState) Active() bool {
	return r.Status == RecoveryActive || r.Status == RecoveryChallenged
}

func (r RecoveryState) Encode(w *codec.Writer) {
	w.U8(uint8(r.Status))
	w.VarBytes(r.ProposedOwnerKey)
	w.Bytes32(r.EvidenceHash)
	w.VarBytes(r.Bond.Bytes())
	w.I64(int64(r.StartTime))
	w.I64(int64(r.ExecuteAfter))
	w.VarBytes(r.ChallengeBond.Bytes())
	w.Bytes32(r.CounterEvidenceHash)
	w.U32(uint32(len(r.ApproveVotes)))
	for _, v := range r.ApproveVotes {
		w.Bytes32(v)
	}
	w.U32(uint32(len(r.RejectVotes)))
	for _, v := range r.RejectVotes {
		w.Bytes32(v)
	}
}

func DecodeRecoveryState(r *codec.Reader) RecoveryState {
	var s RecoveryState
	s.Status = RecoveryDecisionStatus(r.U8())
	s.ProposedOwnerKey = r.VarBytes()
	s.EvidenceHash = r.Bytes32()
	s.Bond = types.BalanceFromBytes(r.VarBytes())
	s.StartTime = types.Timestamp(r.I64())
	s.ExecuteAfter = types.Timestamp(r.I64())
	s.ChallengeBond = types.BalanceFromBytes(r.VarBytes())
	s.CounterEvidenceHash = r.Bytes32()
	n := r.U32()
	s.ApproveVotes = make([]types.TxId, n)
	for i := range s.ApproveVotes {
		s.ApproveVotes[i] = types.TxId(r.Bytes32())
	}
	n = r.U32()
	s.RejectVotes = make([]types.TxId, n)
	for i := range s.RejectVotes {
		s.RejectVotes[i] = types.TxId(r.Bytes32())
	}
	return s
}

// ExpiryPolicy governs what happens to an unclaimed lock's funds after its
// grace period.
type ExpiryPolicy uint8

const (
	ExpiryReturnToSender ExpiryPolicy = iota
	ExpiryBurn
	ExpiryRedirectTo
)

// SplitPolicy is a scaffold for a future multi-recipient split (
// "future multi-recipient split, scaffold, inactive V1"). Recipients' basis
// points must sum to exactly SplitPolicyBasisPoints when present.
type SplitPolicy struct {
	Recipients []SplitRecipient
}

type SplitRecipient struct {
	Account     types.AccountId
	BasisPoints uint16
}

// RecurringPolicy is a scaffold for a future recurring-release schedule
// (inactive in V1).
type RecurringPolicy uint8

const (
	RecurringNone RecurringPolicy = iota
	RecurringWeekly
	RecurringMonthly
	RecurringAnnual
)

// Account is keyed by AccountId = H(public_key).
type Account struct {
	Id       types.AccountId
	Balance  types.Balance
	Nonce    types.Nonce
	Policy   AuthPolicy
	Recovery RecoveryState

	IsVerifier    bool
	VerifierStake types.Balance

	// V3 cached counters — hints only, never load-bearing for correctness
	// maintained by the engine as hints only.
	AccountVersion            uint16
	CreatedAt                 types.Timestamp
	IncomingLocksCount        uint32
	OutgoingLocksCount        uint32
	TotalLockedIncomingChron  types.Balance
	TotalLockedOutgoingChron  types.Balance
	PreferredFiatCurrency     string
}

// Spendable returns balance minus any stake held as a recovery verifier.
func (a *Account) Spendable() types.Balance {
	spendable, ok := a.Balance.Sub(a.VerifierStake)
	if !ok {
		return types.ZeroBalance()
	}
	return spendable
}

// HasRegisteredKey reports whether the account has a usable signing key,
// i.e. is not a Transfer-materialized stub.
func (a *Account) HasRegisteredKey() bool {
	switch a.Policy.Kind {
	case AuthSingleSig, AuthRecoveryEnabled:
		return len(a.Policy.OwnerKey) > 0
	case AuthMultiSig:
		return len(a.Policy.Keys) > 0
	default:
		return false
	}
}

// NewStubAccount materializes a receive-only account per the invariant
// (b): zero nonce, empty public key, cannot yet originate transactions.
func NewStubAccount(id types.AccountId, createdAt types.Timestamp) *Account {
	return &Account{
		Id:        id,
		Balance:   types.ZeroBalance(),
		Policy:    AuthPolicy{Kind: AuthSingleSig},
		CreatedAt: createdAt,
	}
}

func (a *Account) Encode(w *codec.Writer) {
	w.Bytes32(a.Id)
	w.VarBytes(a.Balance.Bytes())
	w.U64(uint64(a.Nonce))
	a.Policy.Encode(w)
	a.Recovery.Encode(w)
	w.Bool(a.IsVerifier)
	w.VarBytes(a.VerifierStake.Bytes())
	w.U16(a.AccountVersion)
	w.I64(int64(a.CreatedAt))
	w.U32(a.IncomingLocksCount)
	w.U32(a.OutgoingLocksCount)
	w.VarBytes(a.TotalLockedIncomingChron.Bytes())
	w.VarBytes(a.TotalLockedOutgoingChron.Bytes())
	w.VarString(a.PreferredFiatCurrency)
}

func DecodeAccount(r *codec.Reader) *Account {
	a := &Account{}
	a.Id = types.AccountId(r.Bytes32())
	a.Balance = types.BalanceFromBytes(r.VarBytes())
	a.Nonce = types.Nonce(r.U64())
	a.Policy = DecodeAuthPolicy(r)
	a.Recovery = DecodeRecoveryState(r)
	a.IsVerifier = r.Bool()
	a.VerifierStake = types.BalanceFromBytes(r.VarBytes())
	a.AccountVersion = r.U16()
	a.CreatedAt = types.Timestamp(r.I64())
	a.IncomingLocksCount = r.U32()
	a.OutgoingLocksCount = r.U32()
	a.TotalLockedIncomingChron = types.BalanceFromBytes(r.VarBytes())
	a.TotalLockedOutgoingChron = types.BalanceFromBytes(r.VarBytes())
	a.PreferredFiatCurrency = r.VarString()
	return a
}
