// Package hal wires up the small set of devices this kernel knows about: a
// VGA text-mode console and a terminal emulator layered on top of it. There
// is no hardware discovery here (no ACPI, no PCI, no multiboot framebuffer
// tag to consult) — the target is a fixed, emulator-class x86_64 box, so the
// console lives at the well-known 0xB8000 physical address.
package hal

import (
	"tickkernel/device/tty"
	"tickkernel/device/video/console"
	"tickkernel/kernel/kfmt"
)

// vgaTextFramebufferAddr is the physical address of the VGA text-mode
// framebuffer on standard PC hardware. It is identity-mapped by the
// bootloader before paging is enabled; see DESIGN.md for why this kernel
// writes to it directly instead of going through a VMM.
const vgaTextFramebufferAddr = 0xb8000

var (
	activeConsole console.Device
	activeTTY     tty.Device
)

// ActiveConsole returns the console backing the kernel's output.
func ActiveConsole() console.Device {
	return activeConsole
}

// ActiveTTY returns the terminal emulator attached to the active console.
func ActiveTTY() tty.Device {
	return activeTTY
}

// DetectHardware initializes the VGA text console and terminal, attaches
// them to each other, and points kfmt's output sink at the terminal so that
// subsequent kfmt.Printf calls (dispatcher traces, panics) become visible.
//
// Must run after the bootstrap code has disabled interrupts but it does not
// itself touch the IDT or PIC; it only needs the framebuffer to be
// reachable, which is true from the very first instruction.
func DetectHardware() {
	cons := console.NewVgaTextConsole(80, 25, 0)
	cons.Init(80, 25, vgaTextFramebufferAddr)
	activeConsole = cons

	term := tty.NewVT(tty.DefaultTabWidth, tty.DefaultScrollback)
	term.AttachTo(activeConsole)
	term.SetState(tty.StateActive)
	activeTTY = term

	kfmt.SetOutputSink(activeTTY)
}
