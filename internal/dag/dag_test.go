package dag

import (
	"testing"

	"github.com/chronx-io/chronx/internal/chain"
	"github.com/chronx-io/chronx/pkg/crypto"
	"github.com/chronx-io/chronx/pkg/types"
	"github.com/stretchr/testify/require"
)

func signedTx(t *testing.T, key *crypto.PrivateKey, action chain.Action, parents []types.TxId) *chain.Transaction {
	t.Helper()
	tx := &chain.Transaction{
		Parents:   parents,
		Timestamp: 1000,
		From:      crypto.AccountIdFromPubKey(key.PublicKey()),
		Actions:   []chain.Action{action},
		TxVersion: chain.CurrentTxVersion,
	}
	body := tx.BodyBytes()
	tx.PowNonce = crypto.MinePoW(body, 0)
	sig, err := key.Sign(body)
	require.NoError(t, err)
	tx.Signatures = []types.DilithiumSignature{sig}
	tx.ComputeTxId()
	return tx
}

func TestValidateStructureGenesisSkipsParentChecks(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	tx := signedTx(t, key, chain.Action{Kind: chain.ActionTransfer, To: types.AccountId{1}, Amount: types.NewBalance(1)}, nil)
	err = ValidateStructure(tx, 0, func(types.TxId) bool { return false })
	require.NoError(t, err)
}

func TestValidateStructureRejectsUnknownParent(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	var parent types.TxId
	parent[0] = 0xAA
	tx := signedTx(t, key, chain.Action{Kind: chain.ActionTransfer, To: types.AccountId{1}, Amount: types.NewBalance(1)}, []types.TxId{parent})
	err = ValidateStructure(tx, 0, func(types.TxId) bool { return false })
	require.Error(t, err)
	var chErr *chain.Error
	require.ErrorAs(t, err, &chErr)
	require.Equal(t, chain.ErrUnknownParent, chErr.Kind)
}

func TestValidateSignaturesSingleSig(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	tx := signedTx(t, key, chain.Action{Kind: chain.ActionTransfer, To: types.AccountId{1}, Amount: types.NewBalance(1)}, nil)
	policy := chain.AuthPolicy{Kind: chain.AuthSingleSig, OwnerKey: key.PublicKey()}
	require.NoError(t, ValidateSignatures(tx, policy))

	wrongKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	badPolicy := chain.AuthPolicy{Kind: chain.AuthSingleSig, OwnerKey: wrongKey.PublicKey()}
	require.Error(t, ValidateSignatures(tx, badPolicy))
}

func TestValidateSignaturesMultiSigThreshold(t *testing.T) {
	k1, _ := crypto.GenerateKey()
	k2, _ := crypto.GenerateKey()
	k3, _ := crypto.GenerateKey()

	tx := &chain.Transaction{
		Timestamp:  1000,
		From:       crypto.AccountIdFromPubKey(k1.PublicKey()),
		Actions:    []chain.Action{{Kind: chain.ActionTransfer, To: types.AccountId{1}, Amount: types.NewBalance(1)}},
		TxVersion:  chain.CurrentTxVersion,
		AuthScheme: chain.AuthScheme{MultiSig: true, K: 2, N: 3},
	}
	body := tx.BodyBytes()
	tx.PowNonce = crypto.MinePoW(body, 0)
	s1, _ := k1.Sign(body)
	s2, _ := k2.Sign(body)
	tx.Signatures = []types.DilithiumSignature{s1, s2}
	tx.ComputeTxId()

	policy := chain.AuthPolicy{
		Kind:      chain.AuthMultiSig,
		Threshold: 2,
		Keys:      []types.DilithiumPublicKey{k1.PublicKey(), k2.PublicKey(), k3.PublicKey()},
	}
	require.NoError(t, ValidateSignatures(tx, policy))

	policy.Threshold = 3
	require.Error(t, ValidateSignatures(tx, policy))
}
