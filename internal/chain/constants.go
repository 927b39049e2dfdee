// Package chain defines ChronX's core domain types: accounts, time-locks,
// the V1 claims framework, transactions/actions, and the engine's error
// taxonomy. It is the Go analogue of the original chronx-core crate.
package chain

import "github.com/chronx-io/chronx/pkg/types"

// ChronosPerKX is the display-unit scale: 1 KX = 1_000_000 Chronos.
const ChronosPerKX = 1_000_000

// TotalSupplyChronos is the fixed, one-shot-minted total supply in base units.
const TotalSupplyChronos = 8_270_000_000_000_000

// Genesis split (base units = KX * ChronosPerKX). These five numbers sum to
// exactly TotalSupplyChronos; see internal/genesis for the proof-carrying
// builder.
const (
	PublicSaleKX     = 7_268_000_000
	TreasuryKX       = 1_000_000_000
	HumanityStakeKX  = 1_000_000
	Milestone2076KX  = 500_000
	ProtocolReserveKX = 500_000
)

// Genesis timestamps (UTC unix seconds).
const (
	GenesisTimestamp        types.Timestamp = 1_798_761_599
	TreasuryStartTimestamp  types.Timestamp = 1_861_920_000
	HumanityUnlockTimestamp types.Timestamp = 4_954_435_200
	Milestone2076Timestamp  types.Timestamp = 3_345_062_400
	ProtocolReserveTimestamp types.Timestamp = 2_082_758_400
)

// TreasuryReleaseCount is the number of yearly treasury releases (100 years).
const TreasuryReleaseCount = 100

// SecondsPerAverageYear is the average Gregorian year length (365.2425 days),
// used to space the 100 treasury unlock timestamps.
const SecondsPerAverageYear = 31_556_952

// H100Scaled / H100Scale encode the 100th harmonic number as a fixed-point
// ratio (H100Scaled / H100Scale ≈ 5.18737751764), grounded on
// original_source/crates/chronx-core/src/constants.rs. Used by the treasury
// release schedule's log-declining amounts.
const (
	H100Scaled = 5_187_377_517_640
	H100Scale  = 1_000_000_000_000
)

// Proof-of-work parameters.
const (
	PowInitialDifficulty = 20
	PowMinDifficulty     = 16
	PowMaxDifficulty     = 32
	DifficultyWindowSize = 100
	TargetSolveSeconds   = 10
)

// DAG parent-set bounds.
const (
	DAGMinParents = 1
	DAGMaxParents = 8
)

// Finality threshold: ceil(2 * active_validators / 3).
const (
	FinalityThresholdNum = 2
	FinalityThresholdDen = 3
)

// Recovery workflow parameters.
const (
	RecoveryExecutionDelaySecs    = 180 * 24 * 3600
	RecoveryChallengeWindowSecs   = 120 * 24 * 3600
	RecoveryVerifierThreshold     = 3
	RecoveryVerifierTotal         = 5
	MinRecoveryBondChronos        = 100_000_000
	MinChallengeBondChronos       = 100_000_000
	MinVerifierStakeChronos       = 1_000_000_000
	PostRecoveryRestrictionSecs   = 30 * 24 * 3600
)

// Time-lock bounds.
const (
	MinLockAmountChronos    = 1
	MinLockDurationSecs     = 3600            // 1 hour
	MaxLockDurationSecs     = 200 * 365 * 86400 // 200 years
	MaxMemoBytes            = 256
	MaxTags                 = 5
	MaxTagBytes             = 32
	MaxExtensionDataBytes   = 1024
	MaxCancellationWindow   = 24 * 3600
	SplitPolicyBasisPoints  = 10_000
	MaxRecurringCount       = 1200
)

// Oracle parameters.
const (
	OracleMaxAgeSecs      = 3600
	OracleMinSubmissions  = 3
)

// Registry bonds (MVP fixed amounts; no governance override implemented).
const (
	ProviderBondChronos = 10_000_000
	SchemaBondChronos   = 10_000_000
)

// CurrentTxVersion is written into every new transaction's tx_version field.
const CurrentTxVersion = 1
