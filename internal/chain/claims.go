package chain

import (
	"github.com/chronx-io/chronx/internal/codec"
	"github.com/chronx-io/chronx/pkg/types"
)

// SchemaId identifies a CertificateSchema, allocated from a persistent counter.
type SchemaId = uint64

// PolicyId identifies a ClaimPolicy.
type PolicyId = uint64

// ClaimLane is the size class assigned to a claim based on fiat value at
// open time.
type ClaimLane uint8

const (
	LaneTrivial ClaimLane = iota
	LaneStandard
	LaneElevated
)

// LaneThresholds carries per-lane bond and window parameters (
// defaults): Trivial <$1000/10KX/7d/7d, Standard <$50000/100KX/14d/14d,
// Elevated otherwise/500KX/30d/21d.
type LaneThresholds struct {
	TrivialMaxCents  uint64
	StandardMaxCents uint64

	TrivialBondKX  uint64
	StandardBondKX uint64
	ElevatedBondKX uint64

	TrivialRevealDays  uint32
	StandardRevealDays uint32
	ElevatedRevealDays uint32

	TrivialChallengeDays  uint32
	StandardChallengeDays uint32
	ElevatedChallengeDays uint32
}

// DefaultLaneThresholds returns the protocol's default lane parameters.
func DefaultLaneThresholds() LaneThresholds {
	return LaneThresholds{
		TrivialMaxCents:  100_000,  // $1,000.00
		StandardMaxCents: 5_000_000, // $50,000.00

		TrivialBondKX:  10,
		StandardBondKX: 100,
		ElevatedBondKX: 500,

		TrivialRevealDays:  7,
		StandardRevealDays: 14,
		ElevatedRevealDays: 30,

		TrivialChallengeDays:  7,
		StandardChallengeDays: 14,
		ElevatedChallengeDays: 21,
	}
}

// LaneFor classifies vClaimCents into a lane: the first bucket whose upper
// threshold exceeds vClaimCents.
func (t LaneThresholds) LaneFor(vClaimCents uint64) ClaimLane {
	if vClaimCents < t.TrivialMaxCents {
		return LaneTrivial
	}
	if vClaimCents < t.StandardMaxCents {
		return LaneStandard
	}
	return LaneElevated
}

// MinBond returns the minimum bond, in base units, for the given lane.
func (t LaneThresholds) MinBond(lane ClaimLane) types.Balance {
	var kx uint64
	switch lane {
	case LaneTrivial:
		kx = t.TrivialBondKX
	case LaneStandard:
		kx = t.StandardBondKX
	default:
		kx = t.ElevatedBondKX
	}
	return types.NewBalance(kx * ChronosPerKX)
}

// RevealWindow returns the reveal window in seconds for the given lane.
func (t LaneThresholds) RevealWindow(lane ClaimLane) int64 {
	var days uint32
	switch lane {
	case LaneTrivial:
		days = t.TrivialRevealDays
	case LaneStandard:
		days = t.StandardRevealDays
	default:
		days = t.ElevatedRevealDays
	}
	return int64(days) * 86400
}

// ChallengeWindow returns the challenge window in seconds for the given lane.
func (t LaneThresholds) ChallengeWindow(lane ClaimLane) int64 {
	var days uint32
	switch lane {
	case LaneTrivial:
		days = t.TrivialChallengeDays
	case LaneStandard:
		days = t.StandardChallengeDays
	default:
		days = t.ElevatedChallengeDays
	}
	return int64(days) * 86400
}

// ClaimPolicy names a policy id bound to a lock at TimeLockCreate time (or
// any default instance) and carries the lane thresholds applicable to it.
type ClaimPolicy struct {
	Id         PolicyId
	Thresholds LaneThresholds
}

// Certificate is a provider-issued attestation attached to a RevealClaim.
type Certificate struct {
	SchemaId    SchemaId
	ProviderId  types.AccountId
	IssuedAt    types.Timestamp
	Signature   types.DilithiumSignature
	PayloadHash types.Hash
}

// ClaimState is keyed by the lock's TxId. FinalizeClaim deletes it; a claim
// slashed at reveal keeps its record.
type ClaimState struct {
	LockId types.TimeLockId

	Lane      ClaimLane
	VClaimCents uint64
	OpenedAt  types.Timestamp

	AgentId     types.AccountId
	CommitHash  types.Hash
	CommitBond  types.Balance
	CommittedAt types.Timestamp

	RevealedPayload []byte
	RevealedSalt    types.Hash
	Certificates    []Certificate
	RevealedAt      types.Timestamp

	Challenger          types.AccountId
	ChallengeBond        types.Balance
	ChallengeEvidenceHash types.Hash
	ChallengedAt         types.Timestamp
}

// NewClaimState constructs a claim state in its initial (post-OpenClaim) shape.
func NewClaimState(lockId types.TimeLockId, lane ClaimLane, vClaimCents uint64, openedAt types.Timestamp) *ClaimState {
	return &ClaimState{LockId: lockId, Lane: lane, VClaimCents: vClaimCents, OpenedAt: openedAt}
}

func (c *ClaimState) Encode(w *codec.Writer) {
	w.Bytes32(c.LockId)
	w.U8(uint8(c.Lane))
	w.U64(c.VClaimCents)
	w.I64(int64(c.OpenedAt))
	w.Bytes32(c.AgentId)
	w.Bytes32(c.CommitHash)
	w.VarBytes(c.CommitBond.Bytes())
	w.I64(int64(c.CommittedAt))
	w.VarBytes(c.RevealedPayload)
	w.Bytes32(c.RevealedSalt)
	w.U32(uint32(len(c.Certificates)))
	for _, cert := range c.Certificates {
		w.U64(cert.SchemaId)
		w.Bytes32(cert.ProviderId)
		w.I64(int64(cert.IssuedAt))
		w.VarBytes(cert.Signature)
		w.Bytes32(cert.PayloadHash)
	}
	w.I64(int64(c.RevealedAt))
	w.Bytes32(c.Challenger)
	w.VarBytes(c.ChallengeBond.Bytes())
	w.Bytes32(c.ChallengeEvidenceHash)
	w.I64(int64(c.ChallengedAt))
}

func DecodeClaimState(r *codec.Reader) *ClaimState {
	c := &ClaimState{}
	c.LockId = types.TimeLockId(r.Bytes32())
	c.Lane = ClaimLane(r.U8())
	c.VClaimCents = r.U64()
	c.OpenedAt = types.Timestamp(r.I64())
	c.AgentId = types.AccountId(r.Bytes32())
	c.CommitHash = r.Bytes32()
	c.CommitBond = types.BalanceFromBytes(r.VarBytes())
	c.CommittedAt = types.Timestamp(r.I64())
	c.RevealedPayload = r.VarBytes()
	c.RevealedSalt = r.Bytes32()
	n := r.U32()
	c.Certificates = make([]Certificate, n)
	for i := range c.Certificates {
		c.Certificates[i].SchemaId = r.U64()
		c.Certificates[i].ProviderId = types.AccountId(r.Bytes32())
		c.Certificates[i].IssuedAt = types.Timestamp(r.I64())
		c.Certificates[i].Signature = r.VarBytes()
		c.Certificates[i].PayloadHash = r.Bytes32()
	}
	c.RevealedAt = types.Timestamp(r.I64())
	c.Challenger = types.AccountId(r.Bytes32())
	c.ChallengeBond = types.BalanceFromBytes(r.VarBytes())
	c.ChallengeEvidenceHash = r.Bytes32()
	c.ChallengedAt = types.Timestamp(r.I64())
	return c
}

// ProviderStatus tags a ProviderRecord's lifecycle.
type ProviderStatus uint8

const (
	ProviderActive ProviderStatus = iota
	ProviderStatusRevoked
)

// ProviderRecord is a registry row for a certificate/oracle provider.
type ProviderRecord struct {
	Id            types.AccountId
	Class         string
	Jurisdictions []string
	Status        ProviderStatus
	Bond          types.Balance
	Keys          []types.DilithiumPublicKey
	RevokedAt     types.Timestamp
}

func (p *ProviderRecord) Encode(w *codec.Writer) {
	w.Bytes32(p.Id)
	w.VarString(p.Class)
	w.U32(uint32(len(p.Jurisdictions)))
	for _, j := range p.Jurisdictions {
		w.VarString(j)
	}
	w.U8(uint8(p.Status))
	w.VarBytes(p.Bond.Bytes())
	w.U32(uint32(len(p.Keys)))
	for _, k := range p.Keys {
		w.VarBytes(k)
	}
	w.I64(int64(p.RevokedAt))
}

func DecodeProviderRecord(r *codec.Reader) *ProviderRecord {
	p := &ProviderRecord{}
	p.Id = types.AccountId(r.Bytes32())
	p.Class = r.VarString()
	n := r.U32()
	p.Jurisdictions = make([]string, n)
	for i := range p.Jurisdictions {
		p.Jurisdictions[i] = r.VarString()
	}
	p.Status = ProviderStatus(r.U8())
	p.Bond = types.BalanceFromBytes(r.VarBytes())
	n = r.U32()
	p.Keys = make([]types.DilithiumPublicKey, n)
	for i := range p.Keys {
		p.Keys[i] = r.VarBytes()
	}
	p.RevokedAt = types.Timestamp(r.I64())
	return p
}

// ClassThreshold pairs a provider class with the minimum count of
// certificates of that class required by a schema.
type ClassThreshold struct {
	ProviderClass string
	MinCount      uint32
}

// CertificateSchema is a registry row describing the required fields for
// compliance certificates.
type CertificateSchema struct {
	Id                  SchemaId
	Name                string
	Version             uint32
	RequiredFieldsHash  types.Hash
	ClassThresholds     []ClassThreshold
	MinProviders        uint32
	MaxCertAgeSecs      int64
	Bond                types.Balance
	RegisteredBy        types.AccountId
	Active              bool
}

func (s *CertificateSchema) Encode(w *codec.Writer) {
	w.U64(s.Id)
	w.VarString(s.Name)
	w.U32(s.Version)
	w.Bytes32(s.RequiredFieldsHash)
	w.U32(uint32(len(s.ClassThresholds)))
	for _, c := range s.ClassThresholds {
		w.VarString(c.ProviderClass)
		w.U32(c.MinCount)
	}
	w.U32(s.MinProviders)
	w.I64(s.MaxCertAgeSecs)
	w.VarBytes(s.Bond.Bytes())
	w.Bytes32(s.RegisteredBy)
	w.Bool(s.Active)
}

func DecodeCertificateSchema(r *codec.Reader) *CertificateSchema {
	s := &CertificateSchema{}
	s.Id = r.U64()
	s.Name = r.VarString()
	s.Version = r.U32()
	s.RequiredFieldsHash = r.Bytes32()
	n := r.U32()
	s.ClassThresholds = make([]ClassThreshold, n)
	for i := range s.ClassThresholds {
		s.ClassThresholds[i].ProviderClass = r.VarString()
		s.ClassThresholds[i].MinCount = r.U32()
	}
	s.MinProviders = r.U32()
	s.MaxCertAgeSecs = r.I64()
	s.Bond = types.BalanceFromBytes(r.VarBytes())
	s.RegisteredBy = types.AccountId(r.Bytes32())
	s.Active = r.Bool()
	return s
}

// OracleSubmission is a single provider's price observation for a pair.
type OracleSubmission struct {
	Pair        string
	Submitter   types.AccountId
	PriceCents  uint64
	SubmittedAt types.Timestamp
}

func (o *OracleSubmission) Encode(w *codec.Writer) {
	w.VarString(o.Pair)
	w.Bytes32(o.Submitter)
	w.U64(o.PriceCents)
	w.I64(int64(o.SubmittedAt))
}

func DecodeOracleSubmission(r *codec.Reader) *OracleSubmission {
	o := &OracleSubmission{}
	o.Pair = r.VarString()
	o.Submitter = types.AccountId(r.Bytes32())
	o.PriceCents = r.U64()
	o.SubmittedAt = types.Timestamp(r.I64())
	return o
}

// OracleSnapshot is the median of recent per-pair submissions.
type OracleSnapshot struct {
	Pair        string
	PriceCents  uint64
	ComputedAt  types.Timestamp
	SampleCount uint32
}

func (o *OracleSnapshot) Encode(w *codec.Writer) {
	w.VarString(o.Pair)
	w.U64(o.PriceCents)
	w.I64(int64(o.ComputedAt))
	w.U32(o.SampleCount)
}

func DecodeOracleSnapshot(r *codec.Reader) *OracleSnapshot {
	o := &OracleSnapshot{}
	o.Pair = r.VarString()
	o.PriceCents = r.U64()
	o.ComputedAt = types.Timestamp(r.I64())
	o.SampleCount = r.U32()
	return o
}
