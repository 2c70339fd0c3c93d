// Package hal defines the Hardware Abstraction Layer contract: the only
// surface the portable kernel (kmain, shell) is allowed to call. It
// describes what each operation must accomplish, never how — the x86_64
// back-end (package halx86) and the arm64 back-end (package halarm64) each
// supply one concrete hal.HAL, selected at Go build time via GOARCH, never
// at runtime. This replaces the teacher's runtime device-probe framework
// (gopher-os's device.Driver / ProbeFuncs / hal.DetectHardware): Noxiom's
// back-end is static per image (Design Notes §9), so there is nothing to
// probe for at boot.
package hal

import "noxiom/kernel/hwinfo"

// Color packs a VGA-style foreground/background nibble pair, per spec §4.1.
// Back-ends with no color concept (arm64's UART) silently ignore it.
type Color uint8

// The 16 VGA-compatible color constants.
const (
	ColorBlack Color = iota
	ColorBlue
	ColorGreen
	ColorCyan
	ColorRed
	ColorMagenta
	ColorBrown
	ColorLightGrey
	ColorDarkGrey
	ColorLightBlue
	ColorLightGreen
	ColorLightCyan
	ColorLightRed
	ColorLightMagenta
	ColorYellow
	ColorWhite
)

// Pack combines a foreground and background color into the attribute byte
// HAL displays consume, matching the original HAL_COLOR(fg, bg) macro.
func Pack(fg, bg Color) Color {
	return Color(uint8(bg)<<4 | uint8(fg)&0x0f)
}

// Serial is the early-boot diagnostic channel. It must be usable before any
// other HAL operation so that diagnostics survive a failure in display
// initialization.
type Serial interface {
	InitSerial()
	PutcharSerial(c byte)
	PrintSerial(s string)
}

// Display is the interactive text console. Init must be called once before
// use. Back-ends must honor the geometry-affecting control characters
// described in spec §4.1: '\n' advances a row, '\r' resets the column,
// '\b' erases and retreats one column (no underflow), '\t' advances to the
// next multiple-of-8 column, and a newline on the last row scrolls the
// display up by one row.
type Display interface {
	InitDisplay()
	ClearDisplay()
	PutcharDisplay(c byte)
	PrintDisplay(s string)
	SetColor(c Color)
}

// Input is the line-oriented keyboard/console input source. Getchar blocks
// until a character — a printable byte, '\n' for commit, or '\b' for
// erase — is available.
type Input interface {
	InitInput()
	Getchar() byte
}

// IntController is the interrupt controller: the 8259 PIC on x86_64, the
// GICv2 CPU interface on arm64. After Init, every source line is masked;
// the portable kernel unmasks only the lines it handles. SendEOI must be
// safe to call twice in a row for the same IRQ.
type IntController interface {
	InitIntc()
	Unmask(irq uint32)
	SendEOI(irq uint32)
}

// CPU installs descriptor tables / exception vectors so that CPU traps
// route through the arch's handler table. It must run before interrupts
// are enabled.
type CPU interface {
	InitCPU()
}

// HAL is the full arch-neutral surface the portable kernel depends on.
type HAL interface {
	Serial
	Display
	Input
	IntController
	CPU

	// Halt masks interrupts and enters an unrecoverable low-power wait.
	// It never returns.
	Halt()

	// Detect fills in everything in info except Tier, which the caller
	// computes via hwinfo.Score. Detection never fails outright — it
	// simply leaves fields at their zero value, which hwinfo.Score maps
	// to TierFallback.
	Detect() hwinfo.Info
}
