// Package gic drives an ARM GICv2-compatible distributor and CPU
// interface (GIC-400 on Cortex-A53/A72 boards, GIC-600 on Cortex-A76),
// whose MMIO base addresses are supplied by the DTB at runtime rather
// than hard-coded. Grounded on
// original_source/noxiom/arch/arm64/gic.c.
package gic

import "unsafe"

const (
	gicdCTLR       = 0x000
	gicdISEnabler  = 0x100
	gicdICEnabler  = 0x180
	gicdIPriorityR = 0x400
	gicdITargetsR  = 0x800

	giccCTLR = 0x000
	giccPMR  = 0x004
	giccIAR  = 0x00C
	giccEOIR = 0x010

	spuriousIRQ = 1023
)

// mmioRead32/mmioWrite32 are indirected so tests can back the distributor
// and CPU interface with a map instead of real MMIO.
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

type Controller struct {
	distBase uintptr
	cpuBase  uintptr
}

func New() *Controller {
	return &Controller{}
}

func (c *Controller) gicdW32(off uint32, val uint32) { mmioWrite32(c.distBase+uintptr(off), val) }
func (c *Controller) giccW32(off uint32, val uint32) { mmioWrite32(c.cpuBase+uintptr(off), val) }
func (c *Controller) giccR32(off uint32) uint32       { return mmioRead32(c.cpuBase + uintptr(off)) }

// Init programs the distributor and CPU interface: every SPI gets
// middle priority (0xA0) routed to CPU0, every interrupt starts masked,
// and the CPU interface is configured to accept every priority level.
func (c *Controller) Init(distBase, cpuBase uint64) {
	c.distBase = uintptr(distBase)
	c.cpuBase = uintptr(cpuBase)

	c.gicdW32(gicdCTLR, 1)

	for i := uint32(0); i < 256; i += 4 {
		c.gicdW32(gicdIPriorityR+i, 0xA0A0A0A0)
	}
	for i := uint32(32); i < 256; i += 4 {
		c.gicdW32(gicdITargetsR+i, 0x01010101)
	}
	for i := uint32(0); i < 256; i += 32 {
		c.gicdW32(gicdICEnabler+(i/8), 0xFFFFFFFF)
	}

	c.giccW32(giccPMR, 0xFF)
	c.giccW32(giccCTLR, 1)
}

func (c *Controller) Unmask(irq uint32) {
	if c.distBase == 0 {
		return
	}
	reg, bit := irq/32, irq%32
	c.gicdW32(gicdISEnabler+reg*4, 1<<bit)
}

func (c *Controller) Disable(irq uint32) {
	if c.distBase == 0 {
		return
	}
	reg, bit := irq/32, irq%32
	c.gicdW32(gicdICEnabler+reg*4, 1<<bit)
}

// Ack reads the interrupt acknowledge register, returning the pending
// IRQ number (or 1023 if none is pending, per the GIC spec's spurious
// interrupt ID).
func (c *Controller) Ack() uint32 {
	if c.cpuBase == 0 {
		return spuriousIRQ
	}
	return c.giccR32(giccIAR) & 0x3FF
}

func (c *Controller) SendEOI(irq uint32) {
	if c.cpuBase == 0 {
		return
	}
	c.giccW32(giccEOIR, irq)
}
