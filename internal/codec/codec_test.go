package codec

import "testing"

func TestWriterReaderRoundTrip(t *testing.T) {
	w := NewWriter()
	w.U8(7).Bool(true).U16(1234).U32(99999).U64(1 << 40).I64(-42)
	w.VarBytes([]byte("hello")).VarString("world")
	w.OptionalBytes([]byte("present"), true)
	w.OptionalBytes(nil, false)
	var arr [32]byte
	arr[0] = 0xAB
	w.Bytes32(arr)

	r := NewReader(w.Bytes())
	if v := r.U8(); v != 7 {
		t.Fatalf("U8: got %d", v)
	}
	if v := r.Bool(); v != true {
		t.Fatalf("Bool: got %v", v)
	}
	if v := r.U16(); v != 1234 {
		t.Fatalf("U16: got %d", v)
	}
	if v := r.U32(); v != 99999 {
		t.Fatalf("U32: got %d", v)
	}
	if v := r.U64(); v != 1<<40 {
		t.Fatalf("U64: got %d", v)
	}
	if v := r.I64(); v != -42 {
		t.Fatalf("I64: got %d", v)
	}
	if v := r.VarBytes(); string(v) != "hello" {
		t.Fatalf("VarBytes: got %q", v)
	}
	if v := r.VarString(); v != "world" {
		t.Fatalf("VarString: got %q", v)
	}
	if v, ok := r.OptionalBytes(); !ok || string(v) != "present" {
		t.Fatalf("OptionalBytes present: got %q ok=%v", v, ok)
	}
	if v, ok := r.OptionalBytes(); ok || v != nil {
		t.Fatalf("OptionalBytes absent: got %q ok=%v", v, ok)
	}
	if v := r.Bytes32(); v != arr {
		t.Fatalf("Bytes32: got %v", v)
	}
	if r.Remaining() != 0 {
		t.Fatalf("expected no trailing bytes, got %d", r.Remaining())
	}
	if r.Err() != nil {
		t.Fatalf("unexpected error: %v", r.Err())
	}
}

func TestReaderErrorsOnTruncatedInput(t *testing.T) {
	r := NewReader([]byte{1, 2})
	_ = r.U64()
	if r.Err() == nil {
		t.Fatalf("expected truncation error")
	}
}
