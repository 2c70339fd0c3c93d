// Package pic drives the two cascaded 8259 programmable interrupt
// controllers, remapping IRQ 0-15 to vectors 32-47 so they never collide
// with the CPU's own exception vectors. Grounded on
// original_source/noxiom/arch/x86_64/pic.c.
package pic

import "noxiom/cpu"

const (
	pic1Cmd  = 0x20
	pic1Data = 0x21
	pic2Cmd  = 0xA0
	pic2Data = 0xA1

	icw1Init  = 0x10
	icw1ICW4  = 0x01
	icw4_8086 = 0x01

	eoi = 0x20
)

// inbFn/outbFn/ioWaitFn default to the real port I/O primitives but are
// swapped out in tests, the same seam cpu itself uses for cpuidFn.
var (
	inbFn    = cpu.InB
	outbFn   = cpu.OutB
	ioWaitFn = cpu.IOWait
)

// Init remaps IRQ 0-7 to vectors 32-39 and IRQ 8-15 to vectors 40-47,
// preserving whatever mask was already in place (matching the original's
// save-mask / reinit / restore-mask sequence).
func Init() {
	mask1 := inbFn(pic1Data)
	mask2 := inbFn(pic2Data)

	outbFn(pic1Cmd, icw1Init|icw1ICW4)
	ioWaitFn()
	outbFn(pic2Cmd, icw1Init|icw1ICW4)
	ioWaitFn()

	outbFn(pic1Data, 0x20) // IRQ 0-7  -> INT 32-39
	ioWaitFn()
	outbFn(pic2Data, 0x28) // IRQ 8-15 -> INT 40-47
	ioWaitFn()

	outbFn(pic1Data, 0x04) // IRQ2 connects to slave
	ioWaitFn()
	outbFn(pic2Data, 0x02) // slave cascade identity
	ioWaitFn()

	outbFn(pic1Data, icw4_8086)
	ioWaitFn()
	outbFn(pic2Data, icw4_8086)
	ioWaitFn()

	outbFn(pic1Data, mask1)
	outbFn(pic2Data, mask2)
}

// SendEOI acknowledges a completed IRQ. The slave PIC must also be
// acknowledged for any IRQ >= 8, since it is cascaded through IRQ2.
func SendEOI(irq uint32) {
	if irq >= 8 {
		outbFn(pic2Cmd, eoi)
	}
	outbFn(pic1Cmd, eoi)
}

// Mask disables (masks) a single IRQ line.
func Mask(irq uint32) {
	port, bit := portAndBit(irq)
	outbFn(port, inbFn(port)|bit)
}

// Unmask enables a single IRQ line.
func Unmask(irq uint32) {
	port, bit := portAndBit(irq)
	outbFn(port, inbFn(port)&^bit)
}

func portAndBit(irq uint32) (port uint16, bit uint8) {
	if irq < 8 {
		return pic1Data, 1 << irq
	}
	return pic2Data, 1 << (irq - 8)
}
