package engine

import (
	"testing"

	"github.com/chronx-io/chronx/internal/chain"
	"github.com/chronx-io/chronx/pkg/crypto"
	"github.com/chronx-io/chronx/pkg/types"
	"github.com/stretchr/testify/require"
)

// TestRecoveryEndToEnd covers the full recovery lifecycle: three registered
// verifiers vote to approve, and FinalizeRecovery rotates auth policy to
// RecoveryEnabled(new_owner, default) once the delay has elapsed.
func TestRecoveryEndToEnd(t *testing.T) {
	s := newTestStore(t)
	e := New(s, 0)

	targetKey, _ := crypto.GenerateKey()
	target := seedAccount(t, s, targetKey, 1000)

	initiatorKey, _ := crypto.GenerateKey()
	initiator := seedAccount(t, s, initiatorKey, chain.MinRecoveryBondChronos+1)

	newOwnerKey, _ := crypto.GenerateKey()

	var evidence types.Hash
	evidence[0] = 0x01
	startTx := buildAndSign(t, initiatorKey, initiator, 0, []chain.Action{{
		Kind:             chain.ActionStartRecovery,
		TargetAccount:    target,
		ProposedOwnerKey: newOwnerKey.PublicKey(),
		EvidenceHash:     evidence,
		BondAmount:       types.NewBalance(chain.MinRecoveryBondChronos),
	}}, 0)
	require.NoError(t, e.Apply(startTx, 1000))

	targetAcc, _, _ := s.GetAccount(target)
	require.True(t, targetAcc.Recovery.Active())
	require.Equal(t, types.Timestamp(1000+chain.RecoveryExecutionDelaySecs), targetAcc.Recovery.ExecuteAfter)

	verifierKeys := make([]*crypto.PrivateKey, 3)
	verifierIds := make([]types.AccountId, 3)
	for i := range verifierKeys {
		k, _ := crypto.GenerateKey()
		verifierKeys[i] = k
		verifierIds[i] = seedAccount(t, s, k, chain.MinVerifierStakeChronos+1)

		regTx := buildAndSign(t, k, verifierIds[i], 0, []chain.Action{{
			Kind:        chain.ActionRegisterVerifier,
			StakeAmount: types.NewBalance(chain.MinVerifierStakeChronos),
		}}, 0)
		require.NoError(t, e.Apply(regTx, 1000))
	}

	for i, k := range verifierKeys {
		voteTx := buildAndSign(t, k, verifierIds[i], 1, []chain.Action{{
			Kind:          chain.ActionVoteRecovery,
			TargetAccount: target,
			Approve:       true,
		}}, 0)
		require.NoError(t, e.Apply(voteTx, 1000))
	}

	targetAcc, _, _ = s.GetAccount(target)
	require.Len(t, targetAcc.Recovery.ApproveVotes, 3)

	finalizeTx := buildAndSign(t, initiatorKey, initiator, 1, []chain.Action{{
		Kind:          chain.ActionFinalizeRecovery,
		TargetAccount: target,
	}}, 0)
	executeAfter := int64(1000) + chain.RecoveryExecutionDelaySecs
	err := e.Apply(finalizeTx, types.Timestamp(executeAfter-1))
	require.Error(t, err)
	var chErr *chain.Error
	require.ErrorAs(t, err, &chErr)
	require.Equal(t, chain.ErrRecoveryDelayNotElapsed, chErr.Kind)

	finalizeTx2 := buildAndSign(t, initiatorKey, initiator, 1, []chain.Action{{
		Kind:          chain.ActionFinalizeRecovery,
		TargetAccount: target,
	}}, 0)
	require.NoError(t, e.Apply(finalizeTx2, types.Timestamp(executeAfter)))

	targetAcc, _, _ = s.GetAccount(target)
	require.Equal(t, chain.AuthRecoveryEnabled, targetAcc.Policy.Kind)
	require.Equal(t, types.DilithiumPublicKey(newOwnerKey.PublicKey()), targetAcc.Policy.OwnerKey)
	require.False(t, targetAcc.Recovery.Active())
}

// TestVoteRecoveryTracksApproveAndRejectLists exercises the TxId-keyed vote
// lists directly (de-duplication is by vote-transaction
// TxId appearing in either list, not by voter identity) and confirms a
// byte-identical resubmission of an already-accepted vote is rejected
// upstream as a duplicate vertex rather than reaching the dedup check.
func TestVoteRecoveryTracksApproveAndRejectLists(t *testing.T) {
	s := newTestStore(t)
	e := New(s, 0)

	targetKey, _ := crypto.GenerateKey()
	target := seedAccount(t, s, targetKey, 1000)
	initiatorKey, _ := crypto.GenerateKey()
	initiator := seedAccount(t, s, initiatorKey, chain.MinRecoveryBondChronos+1)
	newOwnerKey, _ := crypto.GenerateKey()

	startTx := buildAndSign(t, initiatorKey, initiator, 0, []chain.Action{{
		Kind:             chain.ActionStartRecovery,
		TargetAccount:    target,
		ProposedOwnerKey: newOwnerKey.PublicKey(),
		BondAmount:       types.NewBalance(chain.MinRecoveryBondChronos),
	}}, 0)
	require.NoError(t, e.Apply(startTx, 1000))

	verifierKey, _ := crypto.GenerateKey()
	verifier := seedAccount(t, s, verifierKey, chain.MinVerifierStakeChronos+1)
	regTx := buildAndSign(t, verifierKey, verifier, 0, []chain.Action{{
		Kind: chain.ActionRegisterVerifier, StakeAmount: types.NewBalance(chain.MinVerifierStakeChronos),
	}}, 0)
	require.NoError(t, e.Apply(regTx, 1000))

	voteTx := buildAndSign(t, verifierKey, verifier, 1, []chain.Action{{
		Kind: chain.ActionVoteRecovery, TargetAccount: target, Approve: true,
	}}, 0)
	require.NoError(t, e.Apply(voteTx, 1000))

	// A byte-identical resubmission of voteTx never reaches the per-list
	// dedup check: the engine's duplicate-vertex precondition rejects it
	// first, since its TxId is already present in the vertex store.
	replay := *voteTx
	err := e.Apply(&replay, 1000)
	require.Error(t, err)
	var chErr *chain.Error
	require.ErrorAs(t, err, &chErr)
	require.Equal(t, chain.ErrDuplicateVertex, chErr.Kind)

	// A second, distinct vote transaction (different nonce) from the same
	// verifier has a different TxId, so it is accepted and lands in the
	// reject list alongside the first vote's approve entry.
	voteTx2 := buildAndSign(t, verifierKey, verifier, 2, []chain.Action{{
		Kind: chain.ActionVoteRecovery, TargetAccount: target, Approve: false,
	}}, 0)
	require.NoError(t, e.Apply(voteTx2, 1000))

	targetAcc, _, _ := s.GetAccount(target)
	require.Len(t, targetAcc.Recovery.ApproveVotes, 1)
	require.Len(t, targetAcc.Recovery.RejectVotes, 1)
}
