package types

import (
	"encoding/json"
	"testing"
)

func TestAccountIdBase58RoundTrip(t *testing.T) {
	var a AccountId
	for i := range a {
		a[i] = byte(i)
	}
	s := a.String()
	parsed, err := ParseAccountId(s)
	if err != nil {
		t.Fatalf("ParseAccountId: %v", err)
	}
	if parsed != a {
		t.Fatalf("round trip mismatch: got %v want %v", parsed, a)
	}

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back AccountId
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back != a {
		t.Fatalf("json round trip mismatch")
	}
}

func TestTxIdHexRoundTrip(t *testing.T) {
	var id TxId
	for i := range id {
		id[i] = byte(255 - i)
	}
	parsed, err := HexToTxId(id.String())
	if err != nil {
		t.Fatalf("HexToTxId: %v", err)
	}
	if parsed != id {
		t.Fatalf("round trip mismatch")
	}
}

func TestHashIsZero(t *testing.T) {
	var h Hash
	if !h.IsZero() {
		t.Fatalf("expected zero hash")
	}
	h[0] = 1
	if h.IsZero() {
		t.Fatalf("expected non-zero hash")
	}
}
