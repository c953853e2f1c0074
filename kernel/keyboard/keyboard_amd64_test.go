package keyboard

import "testing"

func TestFromScancodeMapsLetters(t *testing.T) {
	c, ok := FromScancode(0x10)
	if !ok || c != 'q' {
		t.Fatalf("expected 'q'; got %q ok=%v", c, ok)
	}
}

func TestFromScancodeIgnoresBreakCodes(t *testing.T) {
	if _, ok := FromScancode(0x10 | 0x80); ok {
		t.Fatal("expected break code to be ignored")
	}
}

func TestFromScancodeUnmappedKey(t *testing.T) {
	if _, ok := FromScancode(0x3A); ok { // caps lock
		t.Fatal("expected unmapped scancode to report not-ok")
	}
}
