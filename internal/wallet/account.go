package wallet

import "github.com/chronx-io/chronx/pkg/types"

// Account represents a wallet-tracked chain account.
type Account struct {
	Index   uint32
	Name    string
	Id      types.AccountId
}
