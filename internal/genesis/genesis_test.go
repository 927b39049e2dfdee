package genesis

import (
	"testing"

	"github.com/chronx-io/chronx/internal/chain"
	"github.com/chronx-io/chronx/internal/storage"
	"github.com/chronx-io/chronx/internal/store"
	"github.com/chronx-io/chronx/pkg/crypto"
	"github.com/stretchr/testify/require"
)

func testParams(t *testing.T) Params {
	t.Helper()
	keys := make([]*crypto.PrivateKey, 5)
	for i := range keys {
		k, err := crypto.GenerateKey()
		require.NoError(t, err)
		keys[i] = k
	}
	return Params{
		PublicSaleKey:      keys[0].PublicKey(),
		TreasuryKey:        keys[1].PublicKey(),
		HumanityKey:        keys[2].PublicKey(),
		Milestone2076Key:   keys[3].PublicKey(),
		ProtocolReserveKey: keys[4].PublicKey(),
	}
}

func TestBuild_SupplyIsExact(t *testing.T) {
	s := store.Open(storage.NewMemory())
	accounts, err := Build(s, testParams(t))
	require.NoError(t, err)
	require.NoError(t, VerifyAccounts(s, accounts))
}

func TestBuild_RejectsSecondApplication(t *testing.T) {
	s := store.Open(storage.NewMemory())
	params := testParams(t)
	_, err := Build(s, params)
	require.NoError(t, err)

	_, err = Build(s, params)
	require.Error(t, err)
}

func TestSchedule_SumsToTreasuryAllocation(t *testing.T) {
	total := uint64(0)
	for _, r := range Schedule() {
		total += r.Amount.Int().Uint64()
	}
	require.Equal(t, uint64(chain.TreasuryKX*chain.ChronosPerKX), total)
}

func TestSchedule_HasOneReleasePerYear(t *testing.T) {
	releases := Schedule()
	require.Len(t, releases, chain.TreasuryReleaseCount)
	for i, r := range releases {
		require.Equal(t, 2029+i, r.Year)
	}
}

func TestSchedule_AmountsAreLogDeclining(t *testing.T) {
	releases := Schedule()
	for i := 1; i < len(releases); i++ {
		require.GreaterOrEqual(t, releases[i-1].Amount.Int().Uint64(), releases[i].Amount.Int().Uint64())
	}
}

func TestTreasuryLockId_DeterministicAndUnique(t *testing.T) {
	seen := map[string]bool{}
	for k := uint32(1); k <= chain.TreasuryReleaseCount; k++ {
		id := TreasuryLockId(k)
		require.False(t, seen[id.String()])
		seen[id.String()] = true
		require.Equal(t, id, TreasuryLockId(k))
	}
}
