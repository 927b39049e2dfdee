package mempool

import (
	"testing"

	"github.com/chronx-io/chronx/internal/chain"
	"github.com/chronx-io/chronx/pkg/types"
	"github.com/stretchr/testify/require"
)

func makeTx(id byte, expiresAt types.Timestamp, hasExpiry bool) *chain.Transaction {
	var txId types.TxId
	txId[0] = id
	return &chain.Transaction{
		TxId:         txId,
		Timestamp:    types.Timestamp(1000),
		ExpiresAt:    expiresAt,
		HasExpiresAt: hasExpiry,
	}
}

func TestPool_AddAndGet(t *testing.T) {
	p := New(10)
	tx := makeTx(1, 0, false)
	require.NoError(t, p.Add(tx))
	require.True(t, p.Has(tx.TxId))
	require.Equal(t, tx, p.Get(tx.TxId))
	require.Equal(t, 1, p.Count())
}

func TestPool_RejectsDuplicate(t *testing.T) {
	p := New(10)
	tx := makeTx(1, 0, false)
	require.NoError(t, p.Add(tx))
	err := p.Add(tx)
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestPool_RejectsWhenFull(t *testing.T) {
	p := New(2)
	require.NoError(t, p.Add(makeTx(1, 0, false)))
	require.NoError(t, p.Add(makeTx(2, 0, false)))
	err := p.Add(makeTx(3, 0, false))
	require.ErrorIs(t, err, ErrPoolFull)
	require.Equal(t, 2, p.Count())
}

func TestPool_Remove(t *testing.T) {
	p := New(10)
	tx := makeTx(1, 0, false)
	require.NoError(t, p.Add(tx))
	p.Remove(tx.TxId)
	require.False(t, p.Has(tx.TxId))
	require.Equal(t, 0, p.Count())
}

func TestPool_RemoveMissingIsNoop(t *testing.T) {
	p := New(10)
	var missing types.TxId
	missing[0] = 0xff
	p.Remove(missing) // must not panic
	require.Equal(t, 0, p.Count())
}

func TestPool_NextReturnsFIFOOrder(t *testing.T) {
	p := New(10)
	require.NoError(t, p.Add(makeTx(1, 0, false)))
	require.NoError(t, p.Add(makeTx(2, 0, false)))
	require.NoError(t, p.Add(makeTx(3, 0, false)))

	first := p.Next()
	require.Equal(t, byte(1), first.TxId[0])
	second := p.Next()
	require.Equal(t, byte(2), second.TxId[0])
	require.Equal(t, 1, p.Count())
}

func TestPool_NextOnEmptyReturnsNil(t *testing.T) {
	p := New(10)
	require.Nil(t, p.Next())
}

func TestPool_NextRemovesFromLookup(t *testing.T) {
	p := New(10)
	tx := makeTx(1, 0, false)
	require.NoError(t, p.Add(tx))
	p.Next()
	require.False(t, p.Has(tx.TxId))
	require.Nil(t, p.Get(tx.TxId))
}

func TestPool_DrainRespectsLimit(t *testing.T) {
	p := New(10)
	for i := byte(1); i <= 5; i++ {
		require.NoError(t, p.Add(makeTx(i, 0, false)))
	}
	drained := p.Drain(3)
	require.Len(t, drained, 3)
	require.Equal(t, byte(1), drained[0].TxId[0])
	require.Equal(t, byte(3), drained[2].TxId[0])
	require.Equal(t, 2, p.Count())
}

func TestPool_DrainMoreThanAvailable(t *testing.T) {
	p := New(10)
	require.NoError(t, p.Add(makeTx(1, 0, false)))
	drained := p.Drain(100)
	require.Len(t, drained, 1)
	require.Equal(t, 0, p.Count())
}

func TestPool_EvictExpiredDropsPastDeadline(t *testing.T) {
	p := New(10)
	require.NoError(t, p.Add(makeTx(1, 500, true)))  // expired
	require.NoError(t, p.Add(makeTx(2, 5000, true))) // not yet expired
	require.NoError(t, p.Add(makeTx(3, 0, false)))   // never expires

	evicted := p.EvictExpired(types.Timestamp(1000))
	require.Equal(t, 1, evicted)
	require.Equal(t, 2, p.Count())

	var id1 types.TxId
	id1[0] = 1
	require.False(t, p.Has(id1))
}

func TestPool_DefaultMaxSize(t *testing.T) {
	p := New(0)
	require.Equal(t, 5000, p.maxSize)
}

func TestPolicy_RejectsOversizedTransaction(t *testing.T) {
	p := &Policy{MaxTxSize: 1}
	tx := &chain.Transaction{From: types.AccountId{1, 2, 3}}
	err := p.Check(tx)
	require.Error(t, err)
}

func TestPolicy_RejectsTooManyActions(t *testing.T) {
	p := DefaultPolicy()
	tx := &chain.Transaction{Actions: make([]chain.Action, p.MaxActions+1)}
	err := p.Check(tx)
	require.Error(t, err)
}

func TestPolicy_RejectsTooManyParents(t *testing.T) {
	p := DefaultPolicy()
	tx := &chain.Transaction{Parents: make([]types.TxId, p.MaxParents+1)}
	err := p.Check(tx)
	require.Error(t, err)
}

func TestPolicy_AcceptsWellFormedTransaction(t *testing.T) {
	p := DefaultPolicy()
	tx := &chain.Transaction{
		Parents: []types.TxId{{1}},
		Actions: []chain.Action{{}},
	}
	require.NoError(t, p.Check(tx))
}
