package engine

import (
	"testing"

	"github.com/chronx-io/chronx/internal/chain"
	"github.com/chronx-io/chronx/internal/storage"
	"github.com/chronx-io/chronx/internal/store"
	"github.com/chronx-io/chronx/pkg/crypto"
	"github.com/chronx-io/chronx/pkg/types"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.Open(storage.NewMemory())
}

func seedAccount(t *testing.T, s *store.Store, key *crypto.PrivateKey, balance uint64) types.AccountId {
	t.Helper()
	id := crypto.AccountIdFromPubKey(key.PublicKey())
	acc := &chain.Account{
		Id:      id,
		Balance: types.NewBalance(balance),
		Policy:  chain.AuthPolicy{Kind: chain.AuthSingleSig, OwnerKey: key.PublicKey()},
	}
	require.NoError(t, s.PutAccount(acc))
	return id
}

func buildAndSign(t *testing.T, key *crypto.PrivateKey, from types.AccountId, nonce types.Nonce, actions []chain.Action, difficulty int) *chain.Transaction {
	t.Helper()
	tx := &chain.Transaction{
		Timestamp: 1000,
		Nonce:     nonce,
		From:      from,
		Actions:   actions,
		TxVersion: chain.CurrentTxVersion,
	}
	body := tx.BodyBytes()
	tx.PowNonce = crypto.MinePoW(body, difficulty)
	sig, err := key.Sign(body)
	require.NoError(t, err)
	tx.Signatures = []types.DilithiumSignature{sig}
	tx.ComputeTxId()
	return tx
}

func TestApplyTransferMovesBalance(t *testing.T) {
	s := newTestStore(t)
	e := New(s, 0)

	aliceKey, _ := crypto.GenerateKey()
	alice := seedAccount(t, s, aliceKey, 1000)
	bob := types.AccountId{9, 9, 9}

	tx := buildAndSign(t, aliceKey, alice, 0, []chain.Action{
		{Kind: chain.ActionTransfer, To: bob, Amount: types.NewBalance(300)},
	}, 0)

	require.NoError(t, e.Apply(tx, 1000))

	aliceAcc, _, _ := s.GetAccount(alice)
	require.Equal(t, "700", aliceAcc.Balance.String())
	require.EqualValues(t, 1, aliceAcc.Nonce)

	bobAcc, found, _ := s.GetAccount(bob)
	require.True(t, found)
	require.Equal(t, "300", bobAcc.Balance.String())
}

func TestApplyTransferRejectsInsufficientBalance(t *testing.T) {
	s := newTestStore(t)
	e := New(s, 0)

	aliceKey, _ := crypto.GenerateKey()
	alice := seedAccount(t, s, aliceKey, 10)
	bob := types.AccountId{9}

	tx := buildAndSign(t, aliceKey, alice, 0, []chain.Action{
		{Kind: chain.ActionTransfer, To: bob, Amount: types.NewBalance(300)},
	}, 0)

	err := e.Apply(tx, 1000)
	require.Error(t, err)
	var chErr *chain.Error
	require.ErrorAs(t, err, &chErr)
	require.Equal(t, chain.ErrInsufficientBalance, chErr.Kind)

	aliceAcc, _, _ := s.GetAccount(alice)
	require.EqualValues(t, 0, aliceAcc.Nonce, "failed apply must not mutate the sender")
}

func TestApplyTransferRejectsSelfTransfer(t *testing.T) {
	s := newTestStore(t)
	e := New(s, 0)
	aliceKey, _ := crypto.GenerateKey()
	alice := seedAccount(t, s, aliceKey, 10)

	tx := buildAndSign(t, aliceKey, alice, 0, []chain.Action{
		{Kind: chain.ActionTransfer, To: alice, Amount: types.NewBalance(1)},
	}, 0)
	err := e.Apply(tx, 1000)
	require.Error(t, err)
	var chErr *chain.Error
	require.ErrorAs(t, err, &chErr)
	require.Equal(t, chain.ErrSelfTransfer, chErr.Kind)
}

func TestTimeLockCreateClaimRoundTrip(t *testing.T) {
	s := newTestStore(t)
	e := New(s, 0)

	senderKey, _ := crypto.GenerateKey()
	sender := seedAccount(t, s, senderKey, 10_000)
	recipientKey, _ := crypto.GenerateKey()
	recipientId := crypto.AccountIdFromPubKey(recipientKey.PublicKey())
	seedAccount(t, s, recipientKey, 0)

	createTx := buildAndSign(t, senderKey, sender, 0, []chain.Action{{
		Kind:            chain.ActionTimeLockCreate,
		RecipientPubKey: recipientKey.PublicKey(),
		Amount:          types.NewBalance(1000),
		UnlockAt:        5000,
	}}, 0)
	require.NoError(t, e.Apply(createTx, 1000))

	lock, found, err := s.GetTimeLock(createTx.TxId)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, chain.LockPending, lock.Status)
	require.Equal(t, recipientId, lock.RecipientAccount)

	claimTx := buildAndSign(t, recipientKey, recipientId, 0, []chain.Action{{
		Kind:   chain.ActionTimeLockClaim,
		LockId: createTx.TxId,
	}}, 0)
	require.NoError(t, e.Apply(claimTx, 5500))

	recipientAcc, _, _ := s.GetAccount(recipientId)
	require.Equal(t, "1000", recipientAcc.Balance.String())

	lock, _, _ = s.GetTimeLock(createTx.TxId)
	require.Equal(t, chain.LockClaimed, lock.Status)
}

func TestTimeLockClaimRejectsBeforeMaturity(t *testing.T) {
	s := newTestStore(t)
	e := New(s, 0)

	senderKey, _ := crypto.GenerateKey()
	sender := seedAccount(t, s, senderKey, 10_000)
	recipientKey, _ := crypto.GenerateKey()
	recipientId := crypto.AccountIdFromPubKey(recipientKey.PublicKey())
	seedAccount(t, s, recipientKey, 0)

	createTx := buildAndSign(t, senderKey, sender, 0, []chain.Action{{
		Kind:            chain.ActionTimeLockCreate,
		RecipientPubKey: recipientKey.PublicKey(),
		Amount:          types.NewBalance(1000),
		UnlockAt:        5000,
	}}, 0)
	require.NoError(t, e.Apply(createTx, 1000))

	claimTx := buildAndSign(t, recipientKey, recipientId, 0, []chain.Action{{
		Kind:   chain.ActionTimeLockClaim,
		LockId: createTx.TxId,
	}}, 0)
	err := e.Apply(claimTx, 1500)
	require.Error(t, err)
	var chErr *chain.Error
	require.ErrorAs(t, err, &chErr)
	require.Equal(t, chain.ErrTimeLockNotMatured, chErr.Kind)
}

func TestApplyRejectsDuplicateVertex(t *testing.T) {
	s := newTestStore(t)
	e := New(s, 0)
	aliceKey, _ := crypto.GenerateKey()
	alice := seedAccount(t, s, aliceKey, 1000)
	bob := types.AccountId{1}

	tx := buildAndSign(t, aliceKey, alice, 0, []chain.Action{
		{Kind: chain.ActionTransfer, To: bob, Amount: types.NewBalance(1)},
	}, 0)
	require.NoError(t, e.Apply(tx, 1000))

	tx2 := buildAndSign(t, aliceKey, alice, 0, []chain.Action{
		{Kind: chain.ActionTransfer, To: bob, Amount: types.NewBalance(1)},
	}, 0)
	require.Equal(t, tx.TxId, tx2.TxId, "identical body must hash identically")
	err := e.Apply(tx2, 1000)
	require.Error(t, err)
}
