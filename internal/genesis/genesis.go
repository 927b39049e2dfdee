// Package genesis builds ChronX's one-shot founding state:
// the public-sale balance, the 100-year treasury release schedule, the
// humanity stake, and the milestone/protocol-reserve locks. Grounded on
// original_source/crates/chronx-genesis/src/lib.rs's "write directly into
// the state db, bypassing the transaction engine" shape and its
// verify-then-flush discipline, extended with the two additional locks
// this module adds beyond the original's three-allocation genesis.
package genesis

import (
	"math/big"

	"github.com/chronx-io/chronx/internal/chain"
	"github.com/chronx-io/chronx/internal/store"
	"github.com/chronx-io/chronx/pkg/crypto"
	"github.com/chronx-io/chronx/pkg/types"
)

// Params supplies the public keys that control each genesis allocation. In
// production these come from a key ceremony; tests generate fresh keypairs.
// Grounded on chronx-genesis/src/params.rs's GenesisParams.
type Params struct {
	PublicSaleKey     types.DilithiumPublicKey
	TreasuryKey       types.DilithiumPublicKey
	HumanityKey       types.DilithiumPublicKey
	Milestone2076Key  types.DilithiumPublicKey
	ProtocolReserveKey types.DilithiumPublicKey
}

// Accounts reports the derived AccountId of each genesis allocation holder.
type Accounts struct {
	PublicSale       types.AccountId
	Treasury         types.AccountId
	Humanity         types.AccountId
	Milestone2076    types.AccountId
	ProtocolReserve  types.AccountId
}

// TreasuryRelease is a single year's scheduled unlock.
type TreasuryRelease struct {
	Index    uint32 // 1..100
	Year     int
	UnlockAt types.Timestamp
	Amount   types.Balance
}

// Schedule computes the 100-year log-declining treasury release schedule:
// amount_k = TREASURY_CHRONOS / (H100 * k), in fixed-point integer
// arithmetic, with the rounding residue folded into release k=1 so the sum
// is exact (carried from original_source's
// treasury_release_schedule, mechanism unchanged).
func Schedule() []TreasuryRelease {
	total := new(big.Int).SetUint64(chain.TreasuryKX * chain.ChronosPerKX)
	h100Scaled := big.NewInt(chain.H100Scaled)
	h100Scale := big.NewInt(chain.H100Scale)

	out := make([]TreasuryRelease, chain.TreasuryReleaseCount)
	var sum big.Int
	for k := 1; k <= chain.TreasuryReleaseCount; k++ {
		// amount_k = total * H100Scale / (H100Scaled * k)
		num := new(big.Int).Mul(total, h100Scale)
		den := new(big.Int).Mul(h100Scaled, big.NewInt(int64(k)))
		amount := new(big.Int).Div(num, den)
		sum.Add(&sum, amount)

		year := 2029 + (k - 1)
		out[k-1] = TreasuryRelease{
			Index:    uint32(k),
			Year:     year,
			UnlockAt: chain.TreasuryStartTimestamp + types.Timestamp(int64(k-1)*chain.SecondsPerAverageYear),
			Amount:   types.BalanceFromBytes(amount.Bytes()),
		}
	}

	// Fold the rounding residue into release k=1 so the schedule sums exactly.
	residue := new(big.Int).Sub(total, &sum)
	if residue.Sign() != 0 {
		adjusted := new(big.Int).Add(out[0].Amount.Int(), residue)
		out[0].Amount = types.BalanceFromBytes(adjusted.Bytes())
	}
	return out
}

// TreasuryLockId derives the deterministic TxId for treasury release k,
// H(domain="treasury_release" || LE64(k)), so every node computes the
// same genesis lock IDs without needing them transmitted.
func TreasuryLockId(k uint32) types.TxId {
	return types.TxId(crypto.DomainHash("treasury_release", uint64(k)))
}

// HumanityLockId, Milestone2076LockId and ProtocolReserveLockId derive the
// remaining three genesis locks' deterministic ids the same way.
func HumanityLockId() types.TxId       { return types.TxId(crypto.DomainHash("humanity_stake", 0)) }
func Milestone2076LockId() types.TxId  { return types.TxId(crypto.DomainHash("milestone_2076", 0)) }
func ProtocolReserveLockId() types.TxId { return types.TxId(crypto.DomainHash("protocol_reserve", 0)) }

// Build writes the one-shot genesis state directly into s, bypassing the
// state engine entirely — genesis vertices have no parents, no PoW, and no
// signatures; they are the founding document, not a transaction.
// Build refuses to run a second time: it fails when the store already
// carries the genesis-done marker.
func Build(s *store.Store, params Params) (Accounts, error) {
	if done, _, _ := s.GetMetaU64(store.MetaKeyGenesisDone); done == 1 {
		return Accounts{}, chain.Errf(chain.ErrGenesisSupplyMismatch, "genesis already applied")
	}

	accounts := Accounts{
		PublicSale:      crypto.AccountIdFromPubKey(params.PublicSaleKey),
		Treasury:        crypto.AccountIdFromPubKey(params.TreasuryKey),
		Humanity:        crypto.AccountIdFromPubKey(params.HumanityKey),
		Milestone2076:   crypto.AccountIdFromPubKey(params.Milestone2076Key),
		ProtocolReserve: crypto.AccountIdFromPubKey(params.ProtocolReserveKey),
	}

	b := s.NewBatch()

	// 1. Public-sale allocation: spendable immediately.
	publicSale := &chain.Account{
		Id:        accounts.PublicSale,
		Balance:   types.NewBalance(chain.PublicSaleKX * chain.ChronosPerKX),
		Policy:    chain.AuthPolicy{Kind: chain.AuthSingleSig, OwnerKey: params.PublicSaleKey},
		CreatedAt: chain.GenesisTimestamp,
	}
	b.PutAccount(publicSale)

	// 2. Treasury account (zero balance) plus 100 yearly release locks.
	treasuryAcct := &chain.Account{
		Id:        accounts.Treasury,
		Balance:   types.ZeroBalance(),
		Policy:    chain.AuthPolicy{Kind: chain.AuthSingleSig, OwnerKey: params.TreasuryKey},
		CreatedAt: chain.GenesisTimestamp,
	}
	b.PutAccount(treasuryAcct)

	for _, release := range Schedule() {
		lock := &chain.TimeLockContract{
			Id:               TreasuryLockId(release.Index),
			Sender:           accounts.Treasury,
			RecipientPubKey:  params.TreasuryKey,
			RecipientAccount: accounts.Treasury,
			Amount:           release.Amount,
			UnlockAt:         release.UnlockAt,
			CreatedAt:        chain.GenesisTimestamp,
			Status:           chain.LockPending,
			Memo:             "treasury release",
		}
		b.PutTimeLock(lock)
	}

	// 3. Humanity stake: single lock unlocking 2127-01-01.
	humanityAcct := &chain.Account{
		Id:        accounts.Humanity,
		Balance:   types.ZeroBalance(),
		Policy:    chain.AuthPolicy{Kind: chain.AuthSingleSig, OwnerKey: params.HumanityKey},
		CreatedAt: chain.GenesisTimestamp,
	}
	b.PutAccount(humanityAcct)
	b.PutTimeLock(&chain.TimeLockContract{
		Id:               HumanityLockId(),
		Sender:           accounts.Humanity,
		RecipientPubKey:  params.HumanityKey,
		RecipientAccount: accounts.Humanity,
		Amount:           types.NewBalance(chain.HumanityStakeKX * chain.ChronosPerKX),
		UnlockAt:         chain.HumanityUnlockTimestamp,
		CreatedAt:        chain.GenesisTimestamp,
		Status:           chain.LockPending,
		Memo:             "the humanity stake",
	})

	// 4. Milestone-2076 lock.
	milestoneAcct := &chain.Account{
		Id:        accounts.Milestone2076,
		Balance:   types.ZeroBalance(),
		Policy:    chain.AuthPolicy{Kind: chain.AuthSingleSig, OwnerKey: params.Milestone2076Key},
		CreatedAt: chain.GenesisTimestamp,
	}
	b.PutAccount(milestoneAcct)
	b.PutTimeLock(&chain.TimeLockContract{
		Id:               Milestone2076LockId(),
		Sender:           accounts.Milestone2076,
		RecipientPubKey:  params.Milestone2076Key,
		RecipientAccount: accounts.Milestone2076,
		Amount:           types.NewBalance(chain.Milestone2076KX * chain.ChronosPerKX),
		UnlockAt:         chain.Milestone2076Timestamp,
		CreatedAt:        chain.GenesisTimestamp,
		Status:           chain.LockPending,
		Memo:             "milestone 2076",
	})

	// 5. Protocol-reserve lock.
	reserveAcct := &chain.Account{
		Id:        accounts.ProtocolReserve,
		Balance:   types.ZeroBalance(),
		Policy:    chain.AuthPolicy{Kind: chain.AuthSingleSig, OwnerKey: params.ProtocolReserveKey},
		CreatedAt: chain.GenesisTimestamp,
	}
	b.PutAccount(reserveAcct)
	b.PutTimeLock(&chain.TimeLockContract{
		Id:               ProtocolReserveLockId(),
		Sender:           accounts.ProtocolReserve,
		RecipientPubKey:  params.ProtocolReserveKey,
		RecipientAccount: accounts.ProtocolReserve,
		Amount:           types.NewBalance(chain.ProtocolReserveKX * chain.ChronosPerKX),
		UnlockAt:         chain.ProtocolReserveTimestamp,
		CreatedAt:        chain.GenesisTimestamp,
		Status:           chain.LockPending,
		Memo:             "protocol reserve",
	})

	b.PutMetaU64(store.MetaKeyGenesisDone, 1)
	b.PutMetaU64(store.MetaKeyDifficulty, uint64(chain.PowInitialDifficulty))

	if err := b.Commit(); err != nil {
		return Accounts{}, err
	}

	return accounts, VerifyAccounts(s, accounts)
}

// VerifyAccounts re-verifies the supply invariant given the known genesis
// account ids — Build calls it as a post-write check once the genesis
// batch is committed.
func VerifyAccounts(s *store.Store, accounts Accounts) error {
	total := new(big.Int)
	for _, id := range []types.AccountId{accounts.PublicSale, accounts.Treasury, accounts.Humanity, accounts.Milestone2076, accounts.ProtocolReserve} {
		acc, ok, err := s.GetAccount(id)
		if err != nil {
			return err
		}
		if ok {
			total.Add(total, acc.Balance.Int())
		}
	}
	for i := 1; i <= chain.TreasuryReleaseCount; i++ {
		lock, ok, err := s.GetTimeLock(TreasuryLockId(uint32(i)))
		if err != nil {
			return err
		}
		if ok && !lock.Status.IsTerminal() {
			total.Add(total, lock.Amount.Int())
		}
	}
	for _, id := range []types.TxId{HumanityLockId(), Milestone2076LockId(), ProtocolReserveLockId()} {
		lock, ok, err := s.GetTimeLock(id)
		if err != nil {
			return err
		}
		if ok && !lock.Status.IsTerminal() {
			total.Add(total, lock.Amount.Int())
		}
	}
	expected := new(big.Int).SetUint64(chain.TotalSupplyChronos)
	if total.Cmp(expected) != 0 {
		return chain.Errf(chain.ErrGenesisSupplyMismatch, "supply %s != expected %s", total.String(), expected.String())
	}
	return nil
}
