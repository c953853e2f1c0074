package console

import (
	"image/color"
	"reflect"
	"unsafe"

	"tickkernel/kernel"
)

// portWriteByteFn is substituted in tests; in production it is cpu.OutB.
var portWriteByteFn = func(port uint16, val uint8) {}

// VgaTextConsole implements a VGA-compatible 80x25 text console using mode
// 0x3. The console supports the default 16 EGA colors, overridable via
// SetPaletteColor.
//
// Each character in the console framebuffer occupies two bytes: the ASCII
// code and a byte that packs the foreground and background colors (4 bits
// each). The framebuffer lives at a fixed physical address (0xB8000 on
// standard hardware) that is identity-mapped before paging is ever enabled,
// so this driver writes to it directly instead of asking a VMM to map it —
// there is no VMM in this kernel (see DESIGN.md).
//
// Defaults: light gray text (color 7) on black background (color 0), space
// as the clear character.
type VgaTextConsole struct {
	width  uint32
	height uint32

	fbPhysAddr uintptr
	fb         []uint16

	palette   color.Palette
	defaultFg uint8
	defaultBg uint8
	clearChar uint16
}

// NewVgaTextConsole creates a new VGA text console backed by the framebuffer
// at fbPhysAddr.
func NewVgaTextConsole(columns, rows uint32, fbPhysAddr uintptr) *VgaTextConsole {
	return &VgaTextConsole{
		width:      columns,
		height:     rows,
		fbPhysAddr: fbPhysAddr,
		clearChar:  uint16(' '),
		palette: color.Palette{
			color.RGBA{R: 0, G: 0, B: 0},       /* black */
			color.RGBA{R: 0, G: 0, B: 128},     /* blue */
			color.RGBA{R: 0, G: 128, B: 0},     /* green */
			color.RGBA{R: 0, G: 128, B: 128},   /* cyan */
			color.RGBA{R: 128, G: 0, B: 0},     /* red */
			color.RGBA{R: 128, G: 0, B: 128},   /* magenta */
			color.RGBA{R: 64, G: 64, B: 0},     /* brown */
			color.RGBA{R: 128, G: 128, B: 128}, /* light gray */
			color.RGBA{R: 64, G: 64, B: 64},    /* dark gray */
			color.RGBA{R: 0, G: 0, B: 255},     /* light blue */
			color.RGBA{R: 0, G: 255, B: 0},     /* light green */
			color.RGBA{R: 0, G: 255, B: 255},   /* light cyan */
			color.RGBA{R: 255, G: 0, B: 0},     /* light red */
			color.RGBA{R: 255, G: 0, B: 255},   /* light magenta */
			color.RGBA{R: 255, G: 255, B: 0},   /* yellow */
			color.RGBA{R: 255, G: 255, B: 255}, /* white */
		},
		defaultFg: 7,
		defaultBg: 0,
	}
}

// Dimensions returns the console width and height in the specified dimension.
func (cons *VgaTextConsole) Dimensions(dim Dimension) (uint32, uint32) {
	switch dim {
	case Characters:
		return cons.width, cons.height
	default:
		return cons.width * 8, cons.height * 16
	}
}

// DefaultColors returns the default foreground and background colors used by
// this console.
func (cons *VgaTextConsole) DefaultColors() (fg uint8, bg uint8) {
	return cons.defaultFg, cons.defaultBg
}

// Fill sets the contents of the specified rectangular region to the
// requested color. Both x and y coordinates are 1-based.
func (cons *VgaTextConsole) Fill(x, y, width, height uint32, fg, bg uint8) {
	var (
		clr                  = (((uint16(bg) << 4) | uint16(fg)) << 8) | cons.clearChar
		rowOffset, colOffset uint32
	)

	if x == 0 {
		x = 1
	} else if x >= cons.width {
		x = cons.width
	}
	if y == 0 {
		y = 1
	} else if y >= cons.height {
		y = cons.height
	}
	if x+width-1 > cons.width {
		width = cons.width - x + 1
	}
	if y+height-1 > cons.height {
		height = cons.height - y + 1
	}

	rowOffset = ((y - 1) * cons.width) + (x - 1)
	for ; height > 0; height, rowOffset = height-1, rowOffset+cons.width {
		for colOffset = rowOffset; colOffset < rowOffset+width; colOffset++ {
			cons.fb[colOffset] = clr
		}
	}
}

// Scroll scrolls the console contents in the specified direction. The caller
// is responsible for clearing the region that scrolling exposed.
func (cons *VgaTextConsole) Scroll(dir ScrollDir, lines uint32) {
	if lines == 0 || lines > cons.height {
		return
	}

	var i uint32
	offset := lines * cons.width

	switch dir {
	case ScrollDirUp:
		for ; i < (cons.height-lines)*cons.width; i++ {
			cons.fb[i] = cons.fb[i+offset]
		}
	case ScrollDirDown:
		for i = cons.height*cons.width - 1; i >= lines*cons.width; i-- {
			cons.fb[i] = cons.fb[i-offset]
		}
	}
}

// Write writes a char to the specified location, clamping out-of-range
// colors to their default. Both x and y coordinates are 1-based.
func (cons *VgaTextConsole) Write(ch byte, fg, bg uint8, x, y uint32) {
	if x < 1 || x > cons.width || y < 1 || y > cons.height {
		return
	}

	maxColorIndex := uint8(len(cons.palette) - 1)
	if fg > maxColorIndex {
		fg = cons.defaultFg
	}
	if bg > maxColorIndex {
		bg = cons.defaultBg
	}

	cons.fb[((y-1)*cons.width)+(x-1)] = (((uint16(bg) << 4) | uint16(fg)) << 8) | uint16(ch)
}

// Palette returns the active color palette for this console.
func (cons *VgaTextConsole) Palette() color.Palette {
	return cons.palette
}

// SetPaletteColor updates the color definition for the specified palette
// index. Indexes beyond the palette size are a no-op.
func (cons *VgaTextConsole) SetPaletteColor(index uint8, rgba color.RGBA) {
	if index >= uint8(len(cons.palette)) {
		return
	}

	cons.palette[index] = rgba

	// The VGA DAC takes 6-bit-per-channel color components.
	portWriteByteFn(0x3c8, index)
	portWriteByteFn(0x3c9, rgba.R>>2)
	portWriteByteFn(0x3c9, rgba.G>>2)
	portWriteByteFn(0x3c9, rgba.B>>2)
}

// Init maps the VGA text framebuffer directly (no VMM indirection) and fills
// it with the clear character using the default colors.
func (cons *VgaTextConsole) Init(columns, rows uint32, fbPhysAddr uintptr) {
	cons.width, cons.height, cons.fbPhysAddr = columns, rows, fbPhysAddr

	fbLen := int(columns * rows)
	cons.fb = *(*[]uint16)(unsafe.Pointer(&reflect.SliceHeader{
		Len:  fbLen,
		Cap:  fbLen,
		Data: fbPhysAddr,
	}))

	cons.Fill(1, 1, columns, rows, cons.defaultFg, cons.defaultBg)
}

// DriverName returns the name of this driver.
func (cons *VgaTextConsole) DriverName() string {
	return "vga_text_console"
}

// DriverVersion returns the version of this driver.
func (cons *VgaTextConsole) DriverVersion() (uint16, uint16, uint16) {
	return 0, 1, 0
}

// DriverInit initializes this driver. The framebuffer is already mapped by
// the time Init returns, so this is a no-op; it exists to satisfy
// device.Driver for callers that enumerate drivers generically.
func (cons *VgaTextConsole) DriverInit() *kernel.Error { return nil }
