// Package vga drives the VGA text-mode console at physical address
// 0xB8000 (80x25, 16 colors) and its cursor position registers at ports
// 0x3D4/0x3D5. Grounded on original_source/noxiom/arch/x86_64/vga.c.
package vga

import (
	"image/color"
	"unsafe"

	"noxiom/cpu"
	"noxiom/kernel/hal"
)

const (
	fbAddr = 0xB8000
	Width  = 80
	Height = 25

	ctrlPort = 0x3D4
	dataPort = 0x3D5
)

// outbFn and fb are indirected the same way pic's port functions are, so tests can run
// against a backing buffer instead of the real framebuffer and ports.
var (
	outbFn = cpu.OutB
	fb     = framebuffer()
)

func framebuffer() []uint16 {
	return unsafe.Slice((*uint16)(unsafe.Pointer(uintptr(fbAddr))), Width*Height)
}

type Console struct {
	x, y  int
	color uint8
}

func New() *Console {
	return &Console{color: uint8(hal.Pack(hal.ColorLightGrey, hal.ColorBlack))}
}

func entry(c byte, attr uint8) uint16 {
	return uint16(c) | uint16(attr)<<8
}

func (c *Console) InitDisplay() {
	c.color = uint8(hal.Pack(hal.ColorLightGrey, hal.ColorBlack))
	c.ClearDisplay()
}

func (c *Console) ClearDisplay() {
	for i := range fb {
		fb[i] = entry(' ', c.color)
	}
	c.x, c.y = 0, 0
	c.updateCursor()
}

func (c *Console) SetColor(col hal.Color) {
	c.color = uint8(col)
}

func (c *Console) scroll() {
	copy(fb[0:(Height-1)*Width], fb[Width:Height*Width])
	for x := 0; x < Width; x++ {
		fb[(Height-1)*Width+x] = entry(' ', c.color)
	}
}

func (c *Console) PutcharDisplay(ch byte) {
	switch ch {
	case '\n':
		c.x = 0
		c.y++
	case '\r':
		c.x = 0
	case '\b':
		if c.x > 0 {
			c.x--
			fb[c.y*Width+c.x] = entry(' ', c.color)
		}
	case '\t':
		c.x = (c.x + 8) &^ 7
		if c.x >= Width {
			c.x = 0
			c.y++
		}
	default:
		fb[c.y*Width+c.x] = entry(ch, c.color)
		c.x++
		if c.x >= Width {
			c.x = 0
			c.y++
		}
	}

	if c.y >= Height {
		c.scroll()
		c.y = Height - 1
	}
	c.updateCursor()
}

func (c *Console) PrintDisplay(s string) {
	for i := 0; i < len(s); i++ {
		c.PutcharDisplay(s[i])
	}
}

// PrintAt writes a string directly at (x, y) in the given color without
// disturbing the cursor's running position, matching vga_print_at.
func (c *Console) PrintAt(s string, x, y int, color uint8) {
	for i := 0; i < len(s); i++ {
		fb[y*Width+x+i] = entry(s[i], color)
	}
}

func (c *Console) Cursor() (x, y int) {
	return c.x, c.y
}

// palette is the fixed RGB approximation of the 16 EGA colors hal.Color
// indexes into; the hardware palette DAC itself is not reprogrammed, this
// exists purely so diagnostics can report what a given hal.Color actually
// looks like.
var palette = color.Palette{
	color.RGBA{R: 0, G: 0, B: 0, A: 255},       // black
	color.RGBA{R: 0, G: 0, B: 170, A: 255},      // blue
	color.RGBA{R: 0, G: 170, B: 0, A: 255},      // green
	color.RGBA{R: 0, G: 170, B: 170, A: 255},    // cyan
	color.RGBA{R: 170, G: 0, B: 0, A: 255},      // red
	color.RGBA{R: 170, G: 0, B: 170, A: 255},    // magenta
	color.RGBA{R: 170, G: 85, B: 0, A: 255},     // brown
	color.RGBA{R: 170, G: 170, B: 170, A: 255},  // light grey
	color.RGBA{R: 85, G: 85, B: 85, A: 255},     // dark grey
	color.RGBA{R: 85, G: 85, B: 255, A: 255},    // light blue
	color.RGBA{R: 85, G: 255, B: 85, A: 255},    // light green
	color.RGBA{R: 85, G: 255, B: 255, A: 255},   // light cyan
	color.RGBA{R: 255, G: 85, B: 85, A: 255},    // light red
	color.RGBA{R: 255, G: 85, B: 255, A: 255},   // light magenta
	color.RGBA{R: 255, G: 255, B: 85, A: 255},   // yellow
	color.RGBA{R: 255, G: 255, B: 255, A: 255},  // white
}

// Palette returns the RGB approximation of the 16 hal.Color constants, for
// diagnostics that want to report a color by name rather than nibble.
func Palette() color.Palette {
	return palette
}

func (c *Console) updateCursor() {
	pos := uint16(c.y*Width + c.x)
	outbFn(ctrlPort, 14)
	outbFn(dataPort, uint8(pos>>8))
	outbFn(ctrlPort, 15)
	outbFn(dataPort, uint8(pos&0xff))
}
