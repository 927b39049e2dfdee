package chain

import "fmt"

// Kind is a closed enumeration of the engine's error taxonomy.
// Callers match on Kind, never on the formatted message.
type Kind int

const (
	_ Kind = iota

	// Transaction-shape
	ErrInvalidSignature
	ErrInvalidPoW
	ErrInvalidNonce
	ErrZeroAmount
	ErrSelfTransfer
	ErrTransactionExpired
	ErrDuplicateVertex
	ErrUnknownAccount
	ErrAuthPolicyViolation

	// DAG-shape
	ErrTooFewParents
	ErrTooManyParents
	ErrUnknownParent

	// Balance
	ErrInsufficientBalance

	// Auth
	ErrMultisigThresholdNotMet
	ErrKeyNotInMultisigSet
	ErrDuplicateMultisigSignature

	// Time-lock
	ErrTimeLockNotFound
	ErrTimeLockNotMatured
	ErrTimeLockAlreadyClaimed
	ErrTimeLockIrrevocable
	ErrUnlockTimestampInPast
	ErrLockAmountTooSmall
	ErrLockDurationTooShort
	ErrLockDurationTooLong
	ErrMemoTooLong
	ErrTooManyTags
	ErrTagTooLong
	ErrExtensionDataTooLarge
	ErrCancellationWindowTooLong
	ErrCancellationWindowExpired
	ErrCancelNotBySender
	ErrSplitPolicyBasisPointsMismatch
	ErrRecurringCountTooLarge
	ErrLockRequiresClaimsFramework

	// Claims
	ErrClaimNotFound
	ErrInvalidClaimStateTransition
	ErrClaimRevealHashMismatch
	ErrClaimRevealWindowExpired
	ErrClaimChallengeWindowExpired
	ErrClaimChallengeWindowOpen
	ErrClaimBondTooLow
	ErrCertificateSchemaNotAllowed
	ErrComplianceCertRequired
	ErrNoPolicyOnLock
	ErrLockAmbiguous
	ErrOracleSnapshotUnavailable

	// Recovery
	ErrRecoveryAlreadyActive
	ErrNoActiveRecovery
	ErrRecoveryBondTooLow
	ErrChallengeBondTooLow
	ErrRecoveryDelayNotElapsed
	ErrChallengeWindowClosed
	ErrVerifierNotRegistered
	ErrVerifierAlreadyVoted
	ErrVerifierStakeTooLow
	ErrRecoveryNotApproved

	// Registry
	ErrProviderNotFound
	ErrProviderAlreadyRegistered
	ErrProviderRevoked
	ErrProviderBondTooLow
	ErrSchemaNotFound
	ErrSchemaNotActive
	ErrSchemaBondTooLow

	// Infrastructure
	ErrSerialization
	ErrStorage
	ErrGenesisSupplyMismatch
	ErrFeatureNotActive
)

var kindNames = map[Kind]string{
	ErrInvalidSignature:               "invalid_signature",
	ErrInvalidPoW:                     "invalid_pow",
	ErrInvalidNonce:                   "invalid_nonce",
	ErrZeroAmount:                     "zero_amount",
	ErrSelfTransfer:                   "self_transfer",
	ErrTransactionExpired:             "transaction_expired",
	ErrDuplicateVertex:                "duplicate_vertex",
	ErrUnknownAccount:                 "unknown_account",
	ErrAuthPolicyViolation:            "auth_policy_violation",
	ErrTooFewParents:                  "too_few_parents",
	ErrTooManyParents:                 "too_many_parents",
	ErrUnknownParent:                  "unknown_parent",
	ErrInsufficientBalance:            "insufficient_balance",
	ErrMultisigThresholdNotMet:        "multisig_threshold_not_met",
	ErrKeyNotInMultisigSet:            "key_not_in_multisig_set",
	ErrDuplicateMultisigSignature:     "duplicate_multisig_signature",
	ErrTimeLockNotFound:               "timelock_not_found",
	ErrTimeLockNotMatured:             "timelock_not_matured",
	ErrTimeLockAlreadyClaimed:         "timelock_already_claimed",
	ErrTimeLockIrrevocable:            "timelock_irrevocable",
	ErrUnlockTimestampInPast:          "unlock_timestamp_in_past",
	ErrLockAmountTooSmall:             "lock_amount_too_small",
	ErrLockDurationTooShort:           "lock_duration_too_short",
	ErrLockDurationTooLong:            "lock_duration_too_long",
	ErrMemoTooLong:                    "memo_too_long",
	ErrTooManyTags:                    "too_many_tags",
	ErrTagTooLong:                     "tag_too_long",
	ErrExtensionDataTooLarge:          "extension_data_too_large",
	ErrCancellationWindowTooLong:      "cancellation_window_too_long",
	ErrCancellationWindowExpired:      "cancellation_window_expired",
	ErrCancelNotBySender:              "cancel_not_by_sender",
	ErrSplitPolicyBasisPointsMismatch: "split_policy_basis_points_mismatch",
	ErrRecurringCountTooLarge:         "recurring_count_too_large",
	ErrLockRequiresClaimsFramework:    "lock_requires_claims_framework",
	ErrClaimNotFound:                  "claim_not_found",
	ErrInvalidClaimStateTransition:    "invalid_claim_state_transition",
	ErrClaimRevealHashMismatch:        "claim_reveal_hash_mismatch",
	ErrClaimRevealWindowExpired:       "claim_reveal_window_expired",
	ErrClaimChallengeWindowExpired:    "claim_challenge_window_expired",
	ErrClaimChallengeWindowOpen:       "claim_challenge_window_open",
	ErrClaimBondTooLow:                "claim_bond_too_low",
	ErrCertificateSchemaNotAllowed:    "certificate_schema_not_allowed",
	ErrComplianceCertRequired:         "compliance_cert_required",
	ErrNoPolicyOnLock:                 "no_policy_on_lock",
	ErrLockAmbiguous:                  "lock_ambiguous",
	ErrOracleSnapshotUnavailable:      "oracle_snapshot_unavailable",
	ErrRecoveryAlreadyActive:          "recovery_already_active",
	ErrNoActiveRecovery:               "no_active_recovery",
	ErrRecoveryBondTooLow:             "recovery_bond_too_low",
	ErrChallengeBondTooLow:            "challenge_bond_too_low",
	ErrRecoveryDelayNotElapsed:        "recovery_delay_not_elapsed",
	ErrChallengeWindowClosed:          "challenge_window_closed",
	ErrVerifierNotRegistered:          "verifier_not_registered",
	ErrVerifierAlreadyVoted:           "verifier_already_voted",
	ErrVerifierStakeTooLow:            "verifier_stake_too_low",
	ErrRecoveryNotApproved:            "recovery_not_approved",
	ErrProviderNotFound:               "provider_not_found",
	ErrProviderAlreadyRegistered:      "provider_already_registered",
	ErrProviderRevoked:                "provider_revoked",
	ErrProviderBondTooLow:             "provider_bond_too_low",
	ErrSchemaNotFound:                 "schema_not_found",
	ErrSchemaNotActive:                "schema_not_active",
	ErrSchemaBondTooLow:               "schema_bond_too_low",
	ErrSerialization:                  "serialization",
	ErrStorage:                        "storage",
	ErrGenesisSupplyMismatch:          "genesis_supply_mismatch",
	ErrFeatureNotActive:               "feature_not_active",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Error is ChronX's engine error: a closed Kind plus structured detail.
// Grounded on original_source/crates/chronx-core/src/error.rs's ChronxError
// enum, translated to the idiomatic Go shape (a Kind tag callers switch on,
// not a formatted-string comparison).
type Error struct {
	Kind   Kind
	Detail string
	// Need/Have populate InsufficientBalance and MultisigThresholdNotMet.
	Need string
	Have string
}

func (e *Error) Error() string {
	switch {
	case e.Need != "" || e.Have != "":
		return fmt.Sprintf("%s: need %s, have %s", e.Kind, e.Need, e.Have)
	case e.Detail != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	default:
		return e.Kind.String()
	}
}

// Is supports errors.Is(err, chain.Err(kind)) comparisons.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Err constructs a bare error of the given kind.
func Err(k Kind) *Error { return &Error{Kind: k} }

// Errf constructs an error of the given kind with a detail string.
func Errf(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Detail: fmt.Sprintf(format, args...)}
}

// ErrInsufficientBalanceDetail constructs the structured InsufficientBalance variant.
func ErrInsufficientBalanceDetail(need, have string) *Error {
	return &Error{Kind: ErrInsufficientBalance, Need: need, Have: have}
}

// ErrMultisigThresholdDetail constructs the structured MultisigThresholdNotMet variant.
func ErrMultisigThresholdDetail(need, got string) *Error {
	return &Error{Kind: ErrMultisigThresholdNotMet, Need: need, Have: got}
}
