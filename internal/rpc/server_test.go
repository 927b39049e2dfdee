package rpc

import (
	"encoding/json"
	"testing"

	"github.com/chronx-io/chronx/config"
	"github.com/chronx-io/chronx/internal/chain"
	"github.com/chronx-io/chronx/internal/genesis"
	"github.com/chronx-io/chronx/internal/mempool"
	"github.com/chronx-io/chronx/internal/storage"
	"github.com/chronx-io/chronx/internal/store"
	"github.com/chronx-io/chronx/pkg/crypto"
)

func testServer(t *testing.T) (*Server, *store.Store, genesis.Accounts) {
	t.Helper()
	db := storage.NewMemory()
	s := store.Open(db)

	keys := make([]*crypto.PrivateKey, 5)
	for i := range keys {
		k, err := crypto.GenerateKey()
		if err != nil {
			t.Fatal(err)
		}
		keys[i] = k
	}
	params := genesis.Params{
		PublicSaleKey:      keys[0].PublicKey(),
		TreasuryKey:        keys[1].PublicKey(),
		HumanityKey:        keys[2].PublicKey(),
		Milestone2076Key:   keys[3].PublicKey(),
		ProtocolReserveKey: keys[4].PublicKey(),
	}

	accounts, err := genesis.Build(s, params)
	if err != nil {
		t.Fatalf("genesis.Build: %v", err)
	}

	pool := mempool.New(256)
	gen, err := config.TestnetGenesis()
	if err != nil {
		t.Fatalf("TestnetGenesis: %v", err)
	}
	srv := New("127.0.0.1:0", s, pool, nil, gen, func() int { return 1 })
	return srv, s, accounts
}

func call(t *testing.T, srv *Server, method string, params interface{}) (interface{}, *Error) {
	t.Helper()
	var raw interface{}
	if params != nil {
		b, err := json.Marshal(params)
		if err != nil {
			t.Fatal(err)
		}
		if err := json.Unmarshal(b, &raw); err != nil {
			t.Fatal(err)
		}
	}
	req := &Request{JSONRPC: "2.0", Method: method, Params: raw, ID: 1}
	return srv.dispatch(req)
}

func TestChainGetInfo(t *testing.T) {
	srv, _, _ := testServer(t)
	result, rpcErr := call(t, srv, "chain_getInfo", nil)
	if rpcErr != nil {
		t.Fatalf("chain_getInfo: %v", rpcErr)
	}
	info := result.(*ChainInfoResult)
	if info.ChainID == "" {
		t.Error("expected non-empty chain id")
	}
	if info.TipCount == 0 {
		t.Error("expected at least one genesis tip")
	}
}

func TestAccountGet_MalformedId(t *testing.T) {
	srv, _, _ := testServer(t)
	_, rpcErr := call(t, srv, "account_get", AccountIdParam{AccountId: "00"})
	if rpcErr == nil {
		t.Fatal("expected error for malformed account id")
	}
}

func TestAccountGet_Found(t *testing.T) {
	srv, s, accounts := testServer(t)
	tips, err := s.Tips()
	if err != nil || len(tips) == 0 {
		t.Fatalf("expected genesis tips, got %v %v", tips, err)
	}
	acc, found, err := s.GetAccount(accounts.PublicSale)
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Skip("no genesis account materialized")
	}
	result, rpcErr := call(t, srv, "account_get", AccountIdParam{AccountId: acc.Id.String()})
	if rpcErr != nil {
		t.Fatalf("account_get: %v", rpcErr)
	}
	got := result.(*AccountResult)
	if got.AccountId != acc.Id.String() {
		t.Errorf("account id mismatch: got %s want %s", got.AccountId, acc.Id.String())
	}
}

func TestTxSubmit_InvalidHex(t *testing.T) {
	srv, _, _ := testServer(t)
	_, rpcErr := call(t, srv, "tx_submit", TxSubmitParam{TxHex: "not-hex"})
	if rpcErr == nil {
		t.Fatal("expected error for invalid tx_hex")
	}
}

func TestMempoolGetInfo_Empty(t *testing.T) {
	srv, _, _ := testServer(t)
	result, rpcErr := call(t, srv, "mempool_getInfo", nil)
	if rpcErr != nil {
		t.Fatalf("mempool_getInfo: %v", rpcErr)
	}
	if result.(*MempoolInfoResult).Count != 0 {
		t.Error("expected empty mempool")
	}
}

func TestTimeLockList_EmptyWhenNoLocks(t *testing.T) {
	srv, _, _ := testServer(t)
	result, rpcErr := call(t, srv, "timelock_list", TimeLockListParam{})
	if rpcErr != nil {
		t.Fatalf("timelock_list: %v", rpcErr)
	}
	locks, ok := result.([]*chain.TimeLockContract)
	if !ok {
		t.Fatalf("unexpected result type %T", result)
	}
	if len(locks) != 0 {
		t.Errorf("expected no locks, got %d", len(locks))
	}
}

func TestUnknownMethod(t *testing.T) {
	srv, _, _ := testServer(t)
	_, rpcErr := call(t, srv, "nonexistent_method", nil)
	if rpcErr == nil || rpcErr.Code != CodeMethodNotFound {
		t.Fatalf("expected method-not-found error, got %v", rpcErr)
	}
}
