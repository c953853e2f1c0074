package pic

import "testing"

type portOp struct {
	write bool
	port  uint16
	val   uint8
}

func withMockPorts(t *testing.T, masterMask, slaveMask uint8) *[]portOp {
	t.Helper()
	ops := &[]portOp{}

	masks := map[uint16]uint8{masterDataPort: masterMask, slaveDataPort: slaveMask}
	origRead, origWrite := portReadByteFn, portWriteByteFn
	portReadByteFn = func(port uint16) uint8 {
		*ops = append(*ops, portOp{write: false, port: port})
		return masks[port]
	}
	portWriteByteFn = func(port uint16, val uint8) {
		*ops = append(*ops, portOp{write: true, port: port, val: val})
	}
	t.Cleanup(func() {
		portReadByteFn, portWriteByteFn = origRead, origWrite
	})
	return ops
}

// TestRemapSequence asserts the exact ordered byte sequence spec §8 scenario
// 3 requires: read both masks, ICW1 to both controllers, vector offsets,
// cascade bits, 8086-mode ICW4, then the saved masks restored.
func TestRemapSequence(t *testing.T) {
	const masterMask, slaveMask = 0xfd, 0xff
	ops := withMockPorts(t, masterMask, slaveMask)

	Remap()

	want := []portOp{
		{write: false, port: masterDataPort},
		{write: false, port: slaveDataPort},
		{write: true, port: masterCommandPort, val: 0x11},
		{write: true, port: slaveCommandPort, val: 0x11},
		{write: true, port: masterDataPort, val: 0x20},
		{write: true, port: slaveDataPort, val: 0x28},
		{write: true, port: masterDataPort, val: 0x04},
		{write: true, port: slaveDataPort, val: 0x02},
		{write: true, port: masterDataPort, val: 0x01},
		{write: true, port: slaveDataPort, val: 0x01},
		{write: true, port: masterDataPort, val: masterMask},
		{write: true, port: slaveDataPort, val: slaveMask},
	}

	got := *ops
	if len(got) != len(want) {
		t.Fatalf("expected %d port operations; got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("op %d: expected %+v; got %+v", i, want[i], got[i])
		}
	}
}

func TestEOIMasterOnly(t *testing.T) {
	ops := withMockPorts(t, 0, 0)

	EOI(0x25) // IRQ 5, master range

	got := *ops
	if len(got) != 1 || got[0] != (portOp{write: true, port: masterCommandPort, val: 0x20}) {
		t.Fatalf("expected a single master EOI write; got %+v", got)
	}
}

func TestEOISlaveAndMaster(t *testing.T) {
	ops := withMockPorts(t, 0, 0)

	EOI(0x2a) // IRQ 10, slave range

	got := *ops
	want := []portOp{
		{write: true, port: slaveCommandPort, val: 0x20},
		{write: true, port: masterCommandPort, val: 0x20},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d writes; got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("op %d: expected %+v; got %+v", i, want[i], got[i])
		}
	}
}

func TestEOIUnassignedVectorIsNoOp(t *testing.T) {
	ops := withMockPorts(t, 0, 0)

	EOI(0x05)

	if got := *ops; len(got) != 0 {
		t.Fatalf("expected no port writes for an unassigned vector; got %+v", got)
	}
}
