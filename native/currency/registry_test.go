package currency

import (
	"testing"

	"launchpad/crypto"
)

func addr(last byte) crypto.Address {
	var out crypto.Address
	out[crypto.AddressLength-1] = last
	return out
}

func TestRegistryAdd(t *testing.T) {
	reg := NewRegistry()
	a, b := addr(0x01), addr(0x02)

	if !reg.Add(a) {
		t.Fatal("first add reported not new")
	}
	if reg.Add(a) {
		t.Fatal("repeat add reported new")
	}
	if !reg.Add(b) {
		t.Fatal("second address add reported not new")
	}
	if reg.Len() != 2 {
		t.Fatalf("len = %d, want 2", reg.Len())
	}
	if !reg.Contains(a) || !reg.Contains(b) {
		t.Fatal("membership lost after add")
	}
	if reg.Contains(addr(0x03)) {
		t.Fatal("unexpected membership")
	}
}

func TestRegistryListOrder(t *testing.T) {
	reg := NewRegistry()
	want := []crypto.Address{addr(0x03), addr(0x01), addr(0x02)}
	for _, a := range want {
		reg.Add(a)
	}
	reg.Add(addr(0x01)) // no-op, must not reorder

	got := reg.List()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("list[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	// The returned slice is a copy.
	got[0] = addr(0xFF)
	if reg.List()[0] != want[0] {
		t.Fatal("internal list mutated through List result")
	}
}

func TestRegistryLoad(t *testing.T) {
	reg := NewRegistry()
	reg.Add(addr(0x01))

	reg.Load([]crypto.Address{addr(0x05), addr(0x06)})
	if reg.Len() != 2 {
		t.Fatalf("len after load = %d, want 2", reg.Len())
	}
	if reg.Contains(addr(0x01)) {
		t.Fatal("load kept stale membership")
	}
	if !reg.Contains(addr(0x05)) || !reg.Contains(addr(0x06)) {
		t.Fatal("loaded membership missing")
	}
}
