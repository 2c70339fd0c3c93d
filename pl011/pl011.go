// Package pl011 drives an ARM PL011 UART, the same IP block across every
// Raspberry Pi generation, with its MMIO base supplied by the DTB at
// runtime rather than hard-coded. On AArch64, this one UART serves as
// both the serial debug channel and the display/input console — there
// is no VGA equivalent. Grounded on
// original_source/noxiom/arch/arm64/uart_pl011.c.
package pl011

import "unsafe"

const (
	uartDR   = 0x000
	uartFR   = 0x018
	uartIBRD = 0x024
	uartFBRD = 0x028
	uartLCRH = 0x02C
	uartCR   = 0x030
	uartIMSC = 0x038

	frTXFF = 1 << 5
	frRXFE = 1 << 4

	lcrhFEN  = 1 << 4
	lcrh8Bit = 3 << 5

	crUARTEN = 1 << 0
	crTXE    = 1 << 8
	crRXE    = 1 << 9
)

var (
	mmioRead32  = defaultRead32
	mmioWrite32 = defaultWrite32
)

func defaultWrite32(addr uintptr, val uint32) {
	*(*uint32)(unsafe.Pointer(addr)) = val
}

func defaultRead32(addr uintptr) uint32 {
	return *(*uint32)(unsafe.Pointer(addr))
}

type UART struct {
	base uintptr
}

func New() *UART {
	return &UART{}
}

func (u *UART) w32(off uint32, val uint32) { mmioWrite32(u.base+uintptr(off), val) }
func (u *UART) r32(off uint32) uint32      { return mmioRead32(u.base + uintptr(off)) }

// Init configures the UART for 115200 baud (IBRD=26, FBRD=3 at the
// standard 48 MHz reference clock), 8N1, FIFOs enabled, polled (no
// interrupts), then enables the UART with TX and RX.
func (u *UART) Init(base uint64) {
	u.base = uintptr(base)

	u.w32(uartCR, 0)
	u.w32(uartIBRD, 26)
	u.w32(uartFBRD, 3)
	u.w32(uartLCRH, lcrh8Bit|lcrhFEN)
	u.w32(uartIMSC, 0)
	u.w32(uartCR, crUARTEN|crTXE|crRXE)
}

func (u *UART) Putchar(c byte) {
	if u.base == 0 {
		return
	}
	for u.r32(uartFR)&frTXFF != 0 {
	}
	u.w32(uartDR, uint32(c))
}

func (u *UART) Print(s string) {
	for i := 0; i < len(s); i++ {
		u.Putchar(s[i])
	}
}

// Getchar blocks until the RX FIFO has data. AArch64 input is polled
// rather than interrupt-driven, matching the original's synchronous
// pl011_getchar.
func (u *UART) Getchar() byte {
	if u.base == 0 {
		return 0
	}
	for u.r32(uartFR)&frRXFE != 0 {
	}
	return byte(u.r32(uartDR) & 0xFF)
}
