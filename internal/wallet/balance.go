package wallet

import "github.com/chronx-io/chronx/pkg/types"

// Balance tracks an account's settled and pending Chronos balance.
// Confirmed is read straight from the ledger; Pending nets out transactions
// this wallet has submitted but not yet seen applied.
type Balance struct {
	Confirmed types.Balance
	Pending   types.Balance
}
