package chain

import (
	"github.com/chronx-io/chronx/internal/codec"
	"github.com/chronx-io/chronx/pkg/crypto"
	"github.com/chronx-io/chronx/pkg/types"
)

// AuthScheme describes which authentication proof accompanies a transaction.
type AuthScheme struct {
	MultiSig bool
	K        uint32
	N        uint32
}

func (s AuthScheme) encode(w *codec.Writer) {
	w.Bool(s.MultiSig)
	w.U32(s.K)
	w.U32(s.N)
}

func decodeAuthScheme(r *codec.Reader) AuthScheme {
	var s AuthScheme
	s.MultiSig = r.Bool()
	s.K = r.U32()
	s.N = r.U32()
	return s
}

// ActionKind tags the Action sum type.
type ActionKind uint8

const (
	ActionTransfer ActionKind = iota
	ActionTimeLockCreate
	ActionTimeLockClaim
	ActionTimeLockSell
	ActionCancelTimeLock
	ActionStartRecovery
	ActionChallengeRecovery
	ActionFinalizeRecovery
	ActionRegisterVerifier
	ActionVoteRecovery
	ActionOpenClaim
	ActionSubmitClaimCommit
	ActionRevealClaim
	ActionChallengeClaimReveal
	ActionFinalizeClaim
	ActionRegisterProvider
	ActionRevokeProvider
	ActionRotateProviderKey
	ActionRegisterSchema
	ActionDeactivateSchema
	ActionSubmitOraclePrice
)

// Action is every state-changing operation in the ChronX DAG. Exactly the
// fields relevant to Kind are populated; the dispatcher (internal/engine)
// switches exhaustively on Kind.
type Action struct {
	Kind ActionKind

	// Transfer
	To     types.AccountId
	Amount types.Balance

	// TimeLockCreate
	RecipientPubKey        types.DilithiumPublicKey
	UnlockAt               types.Timestamp
	Memo                   string
	CancellationWindowSecs uint32
	HasCancellationWindow  bool
	NotifyRecipient        bool
	Tags                   []string
	Private                bool
	HasExpiryPolicy        bool
	LockExpiryPolicy       ExpiryPolicy
	HasSplit               bool
	Split                  SplitPolicy
	ClaimAttemptsMax       uint8
	Recurring              RecurringPolicy
	RecurringCount         uint32
	ExtensionData          []byte
	OracleHint             string
	JurisdictionHint       string
	GovernanceProposalId   string
	ClientRef              []byte

	// TimeLockCreate: opts into lock_version=1 (the claims framework) and
	// the beneficiary-identifying fields OpenClaim checks for ambiguity
	// a version-0 lock is never auto-upgraded.
	HasClaimPolicy              bool
	ClaimPolicyId               PolicyId
	OrgIdentifier               string
	BeneficiaryAnchorCommitment []byte

	// TimeLockClaim / CancelTimeLock / TimeLockSell / OpenClaim /
	// SubmitClaimCommit / RevealClaim / ChallengeClaimReveal / FinalizeClaim
	LockId types.TimeLockId

	// TimeLockSell
	AskPrice types.Balance

	// StartRecovery / ChallengeRecovery / FinalizeRecovery / VoteRecovery
	TargetAccount       types.AccountId
	ProposedOwnerKey    types.DilithiumPublicKey
	EvidenceHash        types.EvidenceHash
	CounterEvidenceHash types.EvidenceHash
	BondAmount          types.Balance
	Approve             bool
	FeeBid              types.Balance

	// RegisterVerifier
	StakeAmount types.Balance

	// SubmitClaimCommit / ChallengeClaimReveal
	CommitHash types.Hash

	// RevealClaim
	Payload      []byte
	Salt         types.Hash
	Certificates []Certificate

	// RegisterProvider
	ProviderClass string
	Jurisdictions []string

	// RevokeProvider
	ProviderId types.AccountId

	// RotateProviderKey
	NewPublicKey types.DilithiumPublicKey

	// RegisterSchema
	SchemaName              string
	SchemaVersion            uint32
	RequiredFieldsHash       types.Hash
	ClassThresholds          []ClassThreshold
	MinProviders             uint32
	MaxCertAgeSecs           int64

	// DeactivateSchema
	SchemaId SchemaId

	// SubmitOraclePrice
	Pair       string
	PriceCents uint64
}

func (a Action) encode(w *codec.Writer) {
	w.U8(uint8(a.Kind))
	switch a.Kind {
	case ActionTransfer:
		w.Bytes32(a.To)
		w.VarBytes(a.Amount.Bytes())
	case ActionTimeLockCreate:
		w.VarBytes(a.RecipientPubKey)
		w.VarBytes(a.Amount.Bytes())
		w.I64(int64(a.UnlockAt))
		w.VarString(a.Memo)
		w.OptionalBytes(u32bytes(a.CancellationWindowSecs), a.HasCancellationWindow)
		w.Bool(a.NotifyRecipient)
		w.U32(uint32(len(a.Tags)))
		for _, t := range a.Tags {
			w.VarString(t)
		}
		w.Bool(a.Private)
		w.Bool(a.HasExpiryPolicy)
		w.U8(uint8(a.LockExpiryPolicy))
		w.Bool(a.HasSplit)
		w.U32(uint32(len(a.Split.Recipients)))
		for _, rec := range a.Split.Recipients {
			w.Bytes32(rec.Account)
			w.U16(rec.BasisPoints)
		}
		w.U8(a.ClaimAttemptsMax)
		w.U8(uint8(a.Recurring))
		w.U32(a.RecurringCount)
		w.VarBytes(a.ExtensionData)
		w.VarString(a.OracleHint)
		w.VarString(a.JurisdictionHint)
		w.VarString(a.GovernanceProposalId)
		w.VarBytes(a.ClientRef)
		w.Bool(a.HasClaimPolicy)
		w.U64(a.ClaimPolicyId)
		w.VarString(a.OrgIdentifier)
		w.VarBytes(a.BeneficiaryAnchorCommitment)
	case ActionTimeLockClaim, ActionCancelTimeLock, ActionOpenClaim:
		w.Bytes32(a.LockId)
	case ActionTimeLockSell:
		w.Bytes32(a.LockId)
		w.VarBytes(a.AskPrice.Bytes())
	case ActionStartRecovery:
		w.Bytes32(a.TargetAccount)
		w.VarBytes(a.ProposedOwnerKey)
		w.Bytes32(a.EvidenceHash)
		w.VarBytes(a.BondAmount.Bytes())
	case ActionChallengeRecovery:
		w.Bytes32(a.TargetAccount)
		w.Bytes32(a.CounterEvidenceHash)
		w.VarBytes(a.BondAmount.Bytes())
	case ActionFinalizeRecovery:
		w.Bytes32(a.TargetAccount)
	case ActionRegisterVerifier:
		w.VarBytes(a.StakeAmount.Bytes())
	case ActionVoteRecovery:
		w.Bytes32(a.TargetAccount)
		w.Bool(a.Approve)
		w.VarBytes(a.FeeBid.Bytes())
	case ActionSubmitClaimCommit:
		w.Bytes32(a.LockId)
		w.Bytes32(a.CommitHash)
		w.VarBytes(a.BondAmount.Bytes())
	case ActionRevealClaim:
		w.Bytes32(a.LockId)
		w.VarBytes(a.Payload)
		w.Bytes32(a.Salt)
		w.U32(uint32(len(a.Certificates)))
		for _, c := range a.Certificates {
			w.U64(c.SchemaId)
			w.Bytes32(c.ProviderId)
			w.I64(int64(c.IssuedAt))
			w.VarBytes(c.Signature)
			w.Bytes32(c.PayloadHash)
		}
	case ActionChallengeClaimReveal:
		w.Bytes32(a.LockId)
		w.Bytes32(a.CommitHash)
		w.VarBytes(a.BondAmount.Bytes())
	case ActionFinalizeClaim:
		w.Bytes32(a.LockId)
	case ActionRegisterProvider:
		w.VarString(a.ProviderClass)
		w.U32(uint32(len(a.Jurisdictions)))
		for _, j := range a.Jurisdictions {
			w.VarString(j)
		}
		w.VarBytes(a.BondAmount.Bytes())
	case ActionRevokeProvider:
		w.Bytes32(a.ProviderId)
	case ActionRotateProviderKey:
		w.VarBytes(a.NewPublicKey)
	case ActionRegisterSchema:
		w.VarString(a.SchemaName)
		w.U32(a.SchemaVersion)
		w.Bytes32(a.RequiredFieldsHash)
		w.U32(uint32(len(a.ClassThresholds)))
		for _, c := range a.ClassThresholds {
			w.VarString(c.ProviderClass)
			w.U32(c.MinCount)
		}
		w.U32(a.MinProviders)
		w.I64(a.MaxCertAgeSecs)
		w.VarBytes(a.BondAmount.Bytes())
	case ActionDeactivateSchema:
		w.U64(a.SchemaId)
	case ActionSubmitOraclePrice:
		w.VarString(a.Pair)
		w.U64(a.PriceCents)
	}
}

func u32bytes(v uint32) []byte {
	return (&codec.Writer{}).U32(v).Bytes()
}

func decodeAction(r *codec.Reader) Action {
	var a Action
	a.Kind = ActionKind(r.U8())
	switch a.Kind {
	case ActionTransfer:
		a.To = types.AccountId(r.Bytes32())
		a.Amount = types.BalanceFromBytes(r.VarBytes())
	case ActionTimeLockCreate:
		a.RecipientPubKey = r.VarBytes()
		a.Amount = types.BalanceFromBytes(r.VarBytes())
		a.UnlockAt = types.Timestamp(r.I64())
		a.Memo = r.VarString()
		if b, ok := r.OptionalBytes(); ok {
			a.HasCancellationWindow = true
			a.CancellationWindowSecs = codec.NewReader(b).U32()
		}
		a.NotifyRecipient = r.Bool()
		n := r.U32()
		a.Tags = make([]string, n)
		for i := range a.Tags {
			a.Tags[i] = r.VarString()
		}
		a.Private = r.Bool()
		a.HasExpiryPolicy = r.Bool()
		a.LockExpiryPolicy = ExpiryPolicy(r.U8())
		a.HasSplit = r.Bool()
		n = r.U32()
		a.Split.Recipients = make([]SplitRecipient, n)
		for i := range a.Split.Recipients {
			a.Split.Recipients[i].Account = types.AccountId(r.Bytes32())
			a.Split.Recipients[i].BasisPoints = r.U16()
		}
		a.ClaimAttemptsMax = r.U8()
		a.Recurring = RecurringPolicy(r.U8())
		a.RecurringCount = r.U32()
		a.ExtensionData = r.VarBytes()
		a.OracleHint = r.VarString()
		a.JurisdictionHint = r.VarString()
		a.GovernanceProposalId = r.VarString()
		a.ClientRef = r.VarBytes()
		a.HasClaimPolicy = r.Bool()
		a.ClaimPolicyId = r.U64()
		a.OrgIdentifier = r.VarString()
		a.BeneficiaryAnchorCommitment = r.VarBytes()
	case ActionTimeLockClaim, ActionCancelTimeLock, ActionOpenClaim:
		a.LockId = types.TimeLockId(r.Bytes32())
	case ActionTimeLockSell:
		a.LockId = types.TimeLockId(r.Bytes32())
		a.AskPrice = types.BalanceFromBytes(r.VarBytes())
	case ActionStartRecovery:
		a.TargetAccount = types.AccountId(r.Bytes32())
		a.ProposedOwnerKey = r.VarBytes()
		a.EvidenceHash = r.Bytes32()
		a.BondAmount = types.BalanceFromBytes(r.VarBytes())
	case ActionChallengeRecovery:
		a.TargetAccount = types.AccountId(r.Bytes32())
		a.CounterEvidenceHash = r.Bytes32()
		a.BondAmount = types.BalanceFromBytes(r.VarBytes())
	case ActionFinalizeRecovery:
		a.TargetAccount = types.AccountId(r.Bytes32())
	case ActionRegisterVerifier:
		a.StakeAmount = types.BalanceFromBytes(r.VarBytes())
	case ActionVoteRecovery:
		a.TargetAccount = types.AccountId(r.Bytes32())
		a.Approve = r.Bool()
		a.FeeBid = types.BalanceFromBytes(r.VarBytes())
	case ActionSubmitClaimCommit:
		a.LockId = types.TimeLockId(r.Bytes32())
		a.CommitHash = r.Bytes32()
		a.BondAmount = types.BalanceFromBytes(r.VarBytes())
	case ActionRevealClaim:
		a.LockId = types.TimeLockId(r.Bytes32())
		a.Payload = r.VarBytes()
		a.Salt = r.Bytes32()
		n := r.U32()
		a.Certificates = make([]Certificate, n)
		for i := range a.Certificates {
			a.Certificates[i].SchemaId = r.U64()
			a.Certificates[i].ProviderId = types.AccountId(r.Bytes32())
			a.Certificates[i].IssuedAt = types.Timestamp(r.I64())
			a.Certificates[i].Signature = r.VarBytes()
			a.Certificates[i].PayloadHash = r.Bytes32()
		}
	case ActionChallengeClaimReveal:
		a.LockId = types.TimeLockId(r.Bytes32())
		a.CommitHash = r.Bytes32()
		a.BondAmount = types.BalanceFromBytes(r.VarBytes())
	case ActionFinalizeClaim:
		a.LockId = types.TimeLockId(r.Bytes32())
	case ActionRegisterProvider:
		a.ProviderClass = r.VarString()
		n := r.U32()
		a.Jurisdictions = make([]string, n)
		for i := range a.Jurisdictions {
			a.Jurisdictions[i] = r.VarString()
		}
		a.BondAmount = types.BalanceFromBytes(r.VarBytes())
	case ActionRevokeProvider:
		a.ProviderId = types.AccountId(r.Bytes32())
	case ActionRotateProviderKey:
		a.NewPublicKey = r.VarBytes()
	case ActionRegisterSchema:
		a.SchemaName = r.VarString()
		a.SchemaVersion = r.U32()
		a.RequiredFieldsHash = r.Bytes32()
		n := r.U32()
		a.ClassThresholds = make([]ClassThreshold, n)
		for i := range a.ClassThresholds {
			a.ClassThresholds[i].ProviderClass = r.VarString()
			a.ClassThresholds[i].MinCount = r.U32()
		}
		a.MinProviders = r.U32()
		a.MaxCertAgeSecs = r.I64()
		a.BondAmount = types.BalanceFromBytes(r.VarBytes())
	case ActionDeactivateSchema:
		a.SchemaId = r.U64()
	case ActionSubmitOraclePrice:
		a.Pair = r.VarString()
		a.PriceCents = r.U64()
	}
	return a
}

// Transaction is a fully-formed, signed ChronX vertex payload.
type Transaction struct {
	TxId       types.TxId
	Parents    []types.TxId
	Timestamp  types.Timestamp
	Nonce      types.Nonce
	From       types.AccountId
	Actions    []Action
	PowNonce   uint64
	Signatures []types.DilithiumSignature
	AuthScheme AuthScheme

	TxVersion       uint16
	ClientRef       []byte
	FeeChronos      types.Balance
	ExpiresAt       types.Timestamp
	HasExpiresAt    bool
	SenderPublicKey types.DilithiumPublicKey
}

// IsGenesis reports whether this transaction has no parents.
func (tx *Transaction) IsGenesis() bool { return len(tx.Parents) == 0 }

// BodyBytes returns the canonical encoding of the body used for hashing and
// signing: excludes tx_id, pow_nonce and signatures.
func (tx *Transaction) BodyBytes() []byte {
	w := codec.NewWriter()
	w.U32(uint32(len(tx.Parents)))
	for _, p := range tx.Parents {
		w.Bytes32(p)
	}
	w.I64(int64(tx.Timestamp))
	w.U64(uint64(tx.Nonce))
	w.Bytes32(tx.From)
	w.U32(uint32(len(tx.Actions)))
	for _, a := range tx.Actions {
		a.encode(w)
	}
	tx.AuthScheme.encode(w)
	w.U16(tx.TxVersion)
	w.OptionalBytes(tx.ClientRef, tx.ClientRef != nil)
	w.VarBytes(tx.FeeChronos.Bytes())
	w.OptionalBytes(i64bytes(int64(tx.ExpiresAt)), tx.HasExpiresAt)
	w.OptionalBytes(tx.SenderPublicKey, tx.SenderPublicKey != nil)
	return w.Bytes()
}

func i64bytes(v int64) []byte {
	return (&codec.Writer{}).I64(v).Bytes()
}

// ComputeTxId sets and returns TxId = H(BodyBytes()).
func (tx *Transaction) ComputeTxId() types.TxId {
	id := crypto.TxIdFromBody(tx.BodyBytes())
	tx.TxId = id
	return id
}

// Encode appends the full on-disk/wire encoding of the transaction
// (body bytes plus pow_nonce, signatures and tx_id).
func (tx *Transaction) Encode() []byte {
	w := codec.NewWriter()
	w.Bytes32(tx.TxId)
	w.Raw(tx.BodyBytes())
	w.U64(tx.PowNonce)
	w.U32(uint32(len(tx.Signatures)))
	for _, s := range tx.Signatures {
		w.VarBytes(s)
	}
	return w.Bytes()
}

// DecodeTransaction parses the on-disk/wire encoding produced by Encode.
// Since BodyBytes is embedded inline rather than length-prefixed, decoding
// re-derives each field directly in body order.
func DecodeTransaction(data []byte) (*Transaction, error) {
	r := codec.NewReader(data)
	tx := &Transaction{}
	tx.TxId = types.TxId(r.Bytes32())

	nParents := r.U32()
	tx.Parents = make([]types.TxId, nParents)
	for i := range tx.Parents {
		tx.Parents[i] = types.TxId(r.Bytes32())
	}
	tx.Timestamp = types.Timestamp(r.I64())
	tx.Nonce = types.Nonce(r.U64())
	tx.From = types.AccountId(r.Bytes32())
	nActions := r.U32()
	tx.Actions = make([]Action, nActions)
	for i := range tx.Actions {
		tx.Actions[i] = decodeAction(r)
	}
	tx.AuthScheme = decodeAuthScheme(r)
	tx.TxVersion = r.U16()
	if b, ok := r.OptionalBytes(); ok {
		tx.ClientRef = b
	}
	tx.FeeChronos = types.BalanceFromBytes(r.VarBytes())
	if b, ok := r.OptionalBytes(); ok {
		tx.HasExpiresAt = true
		tx.ExpiresAt = types.Timestamp(codec.NewReader(b).I64())
	}
	if b, ok := r.OptionalBytes(); ok {
		tx.SenderPublicKey = b
	}

	tx.PowNonce = r.U64()
	nSigs := r.U32()
	tx.Signatures = make([]types.DilithiumSignature, nSigs)
	for i := range tx.Signatures {
		tx.Signatures[i] = r.VarBytes()
	}
	return tx, r.Err()
}
