// Package clock implements the system clock on top of the 8254 Programmable
// Interval Timer, grounded on original_source/clock/src/lib.rs's pit module
// (itself grounded on the OSDev wiki's PIT page). The timer ISR
// (kernel/dispatch) calls Tick once per interrupt; everything else is read
// access to the resulting counter.
package clock

import (
	"sync/atomic"

	"tickkernel/kernel"
	"tickkernel/kernel/cpu"
	"tickkernel/kernel/kfmt"
)

var (
	errBadChannel  = &kernel.Error{Module: "clock", Message: "channel must be 0, 1 or 2"}
	errZeroDivisor = &kernel.Error{Module: "clock", Message: "divisor must be non-zero"}
)

const nsecPerSec uint64 = 1_000_000_000

// Duration is a kernel-local replacement for time.Duration: a kernel this
// small has no monotonic clock until this package starts one, so there is
// nothing for the standard library's time package to read from.
type Duration struct {
	Sec  uint64
	Nsec uint64
}

// HMS splits d into hours, minutes and seconds, discarding the sub-second
// remainder.
func (d Duration) HMS() (h, m, s uint64) {
	h = d.Sec / 3600
	rem := d.Sec % 3600
	m = rem / 60
	s = rem % 60
	return h, m, s
}

// Sub returns d-other. The original's subtraction compared self.nsec against
// itself instead of other.nsec, which made the borrow branch unreachable;
// fixed here per the corrected semantics (spec's Open Questions).
func (d Duration) Sub(other Duration) Duration {
	sec := d.Sec - other.Sec
	var nsec uint64
	switch {
	case d.Nsec > other.Nsec:
		nsec = d.Nsec - other.Nsec
	case d.Nsec == other.Nsec:
		nsec = 0
	default:
		sec--
		nsec = nsecPerSec + d.Nsec - other.Nsec
	}
	return Duration{Sec: sec, Nsec: nsec}
}

const (
	baseFrequency = 1193182
	commandPort   = 0x43

	channel0Port = 0x40
	channel1Port = 0x41
	channel2Port = 0x42

	accessModeLoHi  = 0b11 << 4
	modeRateGen     = 0b010 << 1
	modeBinary16Bit = 0
)

// channelPorts maps a channel number to its data port, mirroring the
// original's CHANNEL_IO_PORTS table.
var channelPorts = [3]uint16{channel0Port, channel1Port, channel2Port}

// portWriteByteFn is substituted in tests.
var portWriteByteFn = cpu.OutB

// panicFn is substituted in tests; kfmt.Panic never returns (it halts the
// CPU), so New assumes control does not fall through to the division below.
var panicFn = kfmt.Panic

// Pit drives one PIT channel in rate-generator mode, counting elapsed ticks
// in an atomic counter so Ticks never needs the task-table lock the
// dispatcher holds while it runs.
type Pit struct {
	frequency  uint32
	divisor    uint16
	resolution uint64 // nanoseconds per tick
	channel    uint8
	ticks      uint64
}

// New builds a Pit for the given channel (0-2), programmed to fire at
// baseFrequency/divisor Hz. divisor must be non-zero; the caller chooses it
// (spec leaves exact frequency a boot-time decision, reference: divisor
// yielding ~100Hz). New panics on channel > 2 or divisor == 0, mirroring the
// original's assert and its unchecked (and otherwise divide-by-zero) division.
func New(channel uint8, divisor uint16) *Pit {
	if channel > 2 {
		panicFn(errBadChannel)
		return nil
	}
	if divisor == 0 {
		panicFn(errZeroDivisor)
		return nil
	}

	freq := baseFrequency / uint32(divisor)
	return &Pit{
		frequency:  freq,
		divisor:    divisor,
		resolution: nsecPerSec / uint64(freq),
		channel:    channel,
	}
}

// Start programs the PIT command register and loads the 16-bit divisor,
// low byte first, per the 8254's command-byte protocol.
func (p *Pit) Start() {
	lo := uint8(p.divisor & 0xff)
	hi := uint8(p.divisor >> 8)
	port := channelPorts[p.channel]
	portWriteByteFn(commandPort, genCommand(p.channel))
	portWriteByteFn(port, lo)
	portWriteByteFn(port, hi)
}

func genCommand(channel uint8) uint8 {
	return channel<<6 | accessModeLoHi | modeRateGen | modeBinary16Bit
}

// Tick is invoked once per timer interrupt by the dispatcher.
func (p *Pit) Tick() {
	atomic.AddUint64(&p.ticks, 1)
}

// Frequency returns the configured tick rate in Hz.
func (p *Pit) Frequency() uint32 {
	return p.frequency
}

// Resolution returns the nanoseconds elapsed per tick.
func (p *Pit) Resolution() uint64 {
	return p.resolution
}

// Ticks returns the raw tick count observed so far together with the
// uptime it corresponds to, mirroring the original's single ticks() call.
func (p *Pit) Ticks() (uint64, Duration) {
	ticks := atomic.LoadUint64(&p.ticks)
	sec := ticks / uint64(p.frequency)
	nsec := (ticks - sec*uint64(p.frequency)) * p.resolution
	return ticks, Duration{Sec: sec, Nsec: nsec}
}
