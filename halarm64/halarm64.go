// Package halarm64 wires the AArch64 drivers — DTB parser, GICv2, PL011
// UART, MIDR detection — into the single hal.HAL surface the portable
// kernel depends on. On this architecture serial and display are both
// the same PL011 UART; there is no VGA equivalent. Grounded on
// original_source/noxiom/arch/arm64/hal_impl.c.

//go:build arm64

package halarm64

import (
	"noxiom/cpu"
	"noxiom/detect"
	"noxiom/dtb"
	"noxiom/gic"
	"noxiom/kernel/hal"
	"noxiom/kernel/hwinfo"
	"noxiom/pl011"
)

// maxDTBSize bounds how much of the DTB blob ParseAt is willing to scan
// before a memory map is known; 1 MiB comfortably covers every Pi DTB.
const maxDTBSize = 1 << 20

// HAL implements hal.HAL for AArch64.
type HAL struct {
	dtbAddr uint64
	dtbDone bool
	dtbRes  dtb.Result

	uart *pl011.UART
	gic  *gic.Controller
}

// New creates an arm64 HAL. dtbAddr is the physical DTB pointer that
// entry_arm64.s stores into main's dtbAddr variable before the Go runtime
// starts, handed down here — it must be read before any code touches
// memory the DTB might describe.
func New(dtbAddr uint64) *HAL {
	return &HAL{
		dtbAddr: dtbAddr,
		uart:    pl011.New(),
		gic:     gic.New(),
	}
}

// dtbInit parses the DTB once and caches the result, mirroring the
// original's lazy dtb_init()/s_dtb_done pattern.
func (h *HAL) dtbInit() {
	if h.dtbDone {
		return
	}
	h.dtbDone = true
	res, err := dtb.ParseAt(uintptr(h.dtbAddr), maxDTBSize)
	if err == nil {
		h.dtbRes = res
	}
}

func (h *HAL) InitSerial() {
	h.dtbInit()
	if h.dtbRes.UARTBase != 0 {
		h.uart.Init(h.dtbRes.UARTBase)
	}
}
func (h *HAL) PutcharSerial(c byte) { h.uart.Putchar(c) }
func (h *HAL) PrintSerial(s string) { h.uart.Print(s) }

// Display == serial on arm64: the UART is already initialized by
// InitSerial, so InitDisplay has nothing extra to do.
func (h *HAL) InitDisplay()          {}
func (h *HAL) ClearDisplay()         { h.uart.Print("\033[2J\033[H") }
func (h *HAL) PutcharDisplay(c byte) { h.uart.Putchar(c) }
func (h *HAL) PrintDisplay(s string) { h.uart.Print(s) }

// SetColor is a no-op: a UART target has no VGA color attribute concept.
func (h *HAL) SetColor(c hal.Color) {}

// Input is polled over the same UART RX FIFO, not interrupt-driven.
func (h *HAL) InitInput()    {}
func (h *HAL) Getchar() byte { return h.uart.Getchar() }

func (h *HAL) InitIntc() {
	h.dtbInit()
	if h.dtbRes.GICDistBase != 0 && h.dtbRes.GICCPUBase != 0 {
		h.gic.Init(h.dtbRes.GICDistBase, h.dtbRes.GICCPUBase)
	}
}
func (h *HAL) Unmask(irq uint32)  { h.gic.Unmask(irq) }
func (h *HAL) SendEOI(irq uint32) { h.gic.SendEOI(irq) }

// InitCPU is a no-op: VBAR_EL1 is installed by entry_arm64.s before the Go
// runtime starts.
func (h *HAL) InitCPU() {}

func (h *HAL) Halt() { cpu.Halt() }

func (h *HAL) Detect() hwinfo.Info {
	h.dtbInit()
	return detect.Detect(h.dtbRes)
}
