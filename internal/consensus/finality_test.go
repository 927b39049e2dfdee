package consensus

import (
	"testing"

	"github.com/chronx-io/chronx/pkg/types"
	"github.com/stretchr/testify/require"
)

func txid(b byte) types.TxId {
	var id types.TxId
	id[0] = b
	return id
}

func acct(b byte) types.AccountId {
	var id types.AccountId
	id[0] = b
	return id
}

func TestFinalityTracker_BelowThresholdStaysPending(t *testing.T) {
	tr := NewFinalityTracker()
	tx := txid(1)
	_, final := tr.Confirm(tx, acct(1), 5) // ceil(2*5/3) = 4
	require.False(t, final)
	_, final = tr.Confirm(tx, acct(2), 5)
	require.False(t, final)
}

func TestFinalityTracker_ExactThresholdFinalizes(t *testing.T) {
	tr := NewFinalityTracker()
	tx := txid(1)
	// 5 active validators: threshold = ceil(10/3) = 4.
	tr.Confirm(tx, acct(1), 5)
	tr.Confirm(tx, acct(2), 5)
	tr.Confirm(tx, acct(3), 5)
	_, final := tr.Confirm(tx, acct(4), 5)
	require.True(t, final)
}

func TestFinalityTracker_OneBelowThresholdDoesNotFinalize(t *testing.T) {
	tr := NewFinalityTracker()
	tx := txid(1)
	tr.Confirm(tx, acct(1), 5)
	tr.Confirm(tx, acct(2), 5)
	_, final := tr.Confirm(tx, acct(3), 5)
	require.False(t, final)
}

func TestFinalityTracker_DuplicateConfirmationIgnored(t *testing.T) {
	tr := NewFinalityTracker()
	tx := txid(1)
	count, _ := tr.Confirm(tx, acct(1), 5)
	require.Equal(t, 1, count)
	count, _ = tr.Confirm(tx, acct(1), 5)
	require.Equal(t, 1, count)
}

func TestFinalityTracker_PurgeClearsState(t *testing.T) {
	tr := NewFinalityTracker()
	tx := txid(1)
	tr.Confirm(tx, acct(1), 5)
	tr.Purge(tx)
	require.Equal(t, 0, tr.ConfirmerCount(tx))
}

func TestFinalityTracker_FinalizingClearsTrackingState(t *testing.T) {
	tr := NewFinalityTracker()
	tx := txid(1)
	// 4 active validators: threshold = ceil(8/3) = 3.
	tr.Confirm(tx, acct(1), 4)
	tr.Confirm(tx, acct(2), 4)
	_, final := tr.Confirm(tx, acct(3), 4)
	require.True(t, final)
	require.Equal(t, 0, tr.ConfirmerCount(tx))
}
