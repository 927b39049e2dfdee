package types

import "testing"

func TestBalanceArithmetic(t *testing.T) {
	a := NewBalance(100)
	b := NewBalance(30)

	sum := a.Add(b)
	if sum.String() != "130" {
		t.Fatalf("Add: got %s", sum.String())
	}

	diff, ok := a.Sub(b)
	if !ok || diff.String() != "70" {
		t.Fatalf("Sub: got %s ok=%v", diff.String(), ok)
	}

	_, ok = b.Sub(a)
	if ok {
		t.Fatalf("expected underflow rejection, not wraparound")
	}
}

func TestBalanceJSONIsString(t *testing.T) {
	b := NewBalance(8_270_000_000_000_000)
	data, err := b.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if string(data) != `"8270000000000000"` {
		t.Fatalf("expected decimal string JSON, got %s", data)
	}
}
