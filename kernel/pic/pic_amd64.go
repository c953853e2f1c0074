// Package pic drives the 8259A Programmable Interrupt Controller pair:
// remapping IRQs 0-15 onto CPU vectors 0x20-0x2F and acknowledging
// end-of-interrupt. Grounded on original_source/pic/src/lib.rs's
// remap/eoi_for, reimplemented with the teacher's function-variable mocking
// technique (the teacher's kernel/cpu/cpu_amd64_test.go substitutes cpuidFn
// the same way) so the exact wire sequence is testable from userspace.
package pic

import "tickkernel/kernel/cpu"

const (
	masterCommandPort = 0x20
	masterDataPort    = 0x21
	slaveCommandPort  = 0xA0
	slaveDataPort     = 0xA1

	icw1Init      = 0x11
	icw4_8086Mode = 0x01

	masterVectorOffset = 0x20
	slaveVectorOffset  = 0x28

	masterCascadeIRQ = 0x04 // tell master: slave lives at IRQ2
	slaveCascadeID   = 0x02 // tell slave: its cascade identity

	masterVectorEnd = masterVectorOffset + 8  // 0x28, exclusive
	slaveVectorEnd  = slaveVectorOffset + 8    // 0x30, exclusive
)

// portReadByteFn and portWriteByteFn are substituted in tests; in
// production they are cpu.InB/cpu.OutB.
var (
	portReadByteFn  = cpu.InB
	portWriteByteFn = cpu.OutB
)

// Remap reprograms the master PIC to deliver IRQs 0-7 on vectors 0x20-0x27
// and the slave PIC to deliver IRQs 8-15 on vectors 0x28-0x2F, cascaded via
// IRQ2, 8086 mode, with the previously configured interrupt masks
// preserved. The write ordering is fixed by the 8259A's ICW protocol and
// must not be reordered (spec §4.1/§6).
func Remap() {
	masterMask := portReadByteFn(masterDataPort)
	slaveMask := portReadByteFn(slaveDataPort)

	portWriteByteFn(masterCommandPort, icw1Init)
	portWriteByteFn(slaveCommandPort, icw1Init)

	portWriteByteFn(masterDataPort, masterVectorOffset)
	portWriteByteFn(slaveDataPort, slaveVectorOffset)

	portWriteByteFn(masterDataPort, masterCascadeIRQ)
	portWriteByteFn(slaveDataPort, slaveCascadeID)

	portWriteByteFn(masterDataPort, icw4_8086Mode)
	portWriteByteFn(slaveDataPort, icw4_8086Mode)

	portWriteByteFn(masterDataPort, masterMask)
	portWriteByteFn(slaveDataPort, slaveMask)
}

// EOI signals end-of-interrupt for vector to the master PIC, and to both
// master and slave if vector was delivered by the slave. It is a no-op for
// vectors outside the remapped range.
func EOI(vector uint8) {
	switch {
	case vector >= slaveVectorOffset && vector < slaveVectorEnd:
		portWriteByteFn(slaveCommandPort, 0x20)
		portWriteByteFn(masterCommandPort, 0x20)
	case vector >= masterVectorOffset && vector < masterVectorEnd:
		portWriteByteFn(masterCommandPort, 0x20)
	}
}
