package idt

import "testing"

func TestSetHandlerEncodesGate(t *testing.T) {
	tbl := New()

	const handlerAddr = 0x1000000000000
	if err := tbl.SetHandler(0x20, handlerAddr, InterruptGate); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	g := tbl.entries[0x20]
	if !g.present() {
		t.Fatal("expected gate to be marked present")
	}

	gotAddr := uintptr(g.offsetLow) | uintptr(g.offsetMid)<<16 | uintptr(g.offsetHigh)<<32
	if gotAddr != handlerAddr {
		t.Fatalf("expected encoded handler address 0x%x; got 0x%x", handlerAddr, gotAddr)
	}

	if g.selector != kernelCodeSelector {
		t.Fatalf("expected selector 0x%x; got 0x%x", kernelCodeSelector, g.selector)
	}

	if g.typeAttr&0xf != uint8(InterruptGate) {
		t.Fatalf("expected gate type %#x; got %#x", InterruptGate, g.typeAttr&0xf)
	}
}

func TestSetHandlerTrapGate(t *testing.T) {
	tbl := New()

	if err := tbl.SetHandler(0x21, 0xdeadbeef, TrapGate); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := tbl.entries[0x21].typeAttr & 0xf; got != uint8(TrapGate) {
		t.Fatalf("expected gate type %#x; got %#x", TrapGate, got)
	}
}

func TestGateMissingByDefault(t *testing.T) {
	tbl := New()

	for _, v := range []uint8{0x22, 0x30, 0xff} {
		if tbl.entries[v].present() {
			t.Fatalf("expected vector %#x to have no gate installed", v)
		}
	}
}

func TestSetHandlerLockContention(t *testing.T) {
	tbl := New()

	if !tbl.lock.TryToAcquire() {
		t.Fatal("expected to acquire lock")
	}
	defer tbl.lock.Release()

	if err := tbl.SetHandler(0x20, 0, InterruptGate); err == nil {
		t.Fatal("expected SetHandler to fail while the table is locked")
	}
}
