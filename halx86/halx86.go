// Package halx86 wires the x86_64 drivers — GDT, IDT, 8259 PIC, VGA text
// console, 16550 serial, PS/2 keyboard, CPUID/CMOS detection — into the
// single hal.HAL surface the portable kernel depends on. Grounded on
// original_source/noxiom/arch/x86_64/hal_impl.c.

//go:build amd64

package halx86

import (
	"noxiom/cpu"
	"noxiom/detect"
	"noxiom/gdt"
	"noxiom/irq"
	"noxiom/kernel/hal"
	"noxiom/kernel/hwinfo"
	"noxiom/pic"
	"noxiom/ps2"
	"noxiom/serial"
	"noxiom/vga"
)

// HAL implements hal.HAL for x86_64.
type HAL struct {
	serial *serial.Port
	vga    *vga.Console
	kb     *ps2.Keyboard
}

func New() *HAL {
	return &HAL{
		serial: serial.New(),
		vga:    vga.New(),
		kb:     ps2.New(),
	}
}

func (h *HAL) InitSerial()          { h.serial.InitSerial() }
func (h *HAL) PutcharSerial(c byte) { h.serial.PutcharSerial(c) }
func (h *HAL) PrintSerial(s string) { h.serial.PrintSerial(s) }

func (h *HAL) InitDisplay()           { h.vga.InitDisplay() }
func (h *HAL) ClearDisplay()          { h.vga.ClearDisplay() }
func (h *HAL) PutcharDisplay(c byte)  { h.vga.PutcharDisplay(c) }
func (h *HAL) PrintDisplay(s string)  { h.vga.PrintDisplay(s) }
func (h *HAL) SetColor(c hal.Color)   { h.vga.SetColor(c) }

func (h *HAL) InitInput() {
	ps2.SetUnmask(pic.Unmask)
	h.kb.InitInput()
}
func (h *HAL) Getchar() byte { return h.kb.Getchar() }

func (h *HAL) InitIntc()          { pic.Init() }
func (h *HAL) Unmask(n uint32)    { pic.Unmask(n) }
func (h *HAL) SendEOI(n uint32)   { pic.SendEOI(n) }

// InitCPU builds and loads the GDT, then the IDT (wired to pic.SendEOI
// for hardware IRQs and ps2's keyboard handler for IRQ1), matching the
// original's gdt_init()+idt_init() sequence, then unmasks interrupts now
// that the IDT is loaded and every gate has a handler installed.
func (h *HAL) InitCPU() {
	gdt.Init()
	irq.SetKeyboardHandler(h.kb.HandleIRQ)
	irq.Init(pic.SendEOI)
	cpu.EnableInterrupts()
}

func (h *HAL) Halt() { cpu.Halt() }

func (h *HAL) Detect() hwinfo.Info { return detect.Detect() }
