package flowkey

import "testing"

func TestBytesAreStableAndOrderSensitive(t *testing.T) {
	a := New([4]byte{10, 0, 0, 1}, [4]byte{10, 0, 0, 2})
	b := New([4]byte{10, 0, 0, 1}, [4]byte{10, 0, 0, 2})
	reversed := New([4]byte{10, 0, 0, 2}, [4]byte{10, 0, 0, 1})

	if string(a.Bytes()) != string(b.Bytes()) {
		t.Error("equal pairs must encode identically")
	}
	if string(a.Bytes()) == string(reversed.Bytes()) {
		t.Error("src/dst order must not be interchangeable")
	}
}

func TestEquality(t *testing.T) {
	a := New([4]byte{1, 2, 3, 4}, [4]byte{5, 6, 7, 8})
	b := New([4]byte{1, 2, 3, 4}, [4]byte{5, 6, 7, 8})
	if a != b {
		t.Error("identical pairs should compare equal")
	}
}
