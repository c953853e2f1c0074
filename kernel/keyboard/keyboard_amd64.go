// Package keyboard is the minimal PS/2 scancode-to-ASCII collaborator the
// keyboard ISR calls (spec §4.7). The real decoder is explicitly out of
// scope (spec §1); this is just enough of an interface to exercise the ISR:
// a set-1 make-code table for printable US-QWERTY keys, ignoring break
// codes (high bit set) and everything else.
package keyboard

// table maps a set-1 make code to its printable ASCII character. Entries
// left at 0 are unmapped (function keys, modifiers, break codes).
var table = [128]byte{
	0x02: '1', 0x03: '2', 0x04: '3', 0x05: '4', 0x06: '5',
	0x07: '6', 0x08: '7', 0x09: '8', 0x0A: '9', 0x0B: '0',
	0x10: 'q', 0x11: 'w', 0x12: 'e', 0x13: 'r', 0x14: 't',
	0x15: 'y', 0x16: 'u', 0x17: 'i', 0x18: 'o', 0x19: 'p',
	0x1E: 'a', 0x1F: 's', 0x20: 'd', 0x21: 'f', 0x22: 'g',
	0x23: 'h', 0x24: 'j', 0x25: 'k', 0x26: 'l',
	0x2C: 'z', 0x2D: 'x', 0x2E: 'c', 0x2F: 'v', 0x30: 'b',
	0x31: 'n', 0x32: 'm',
	0x39: ' ',
	0x1C: '\n',
}

// FromScancode translates a set-1 make code to its ASCII character. The
// second return value is false for break codes (bit 7 set) and make codes
// with no printable mapping.
func FromScancode(code uint8) (byte, bool) {
	if code&0x80 != 0 {
		return 0, false
	}
	c := table[code]
	return c, c != 0
}
