package gic

import "testing"

type fakeMMIO struct {
	regs map[uintptr]uint32
}

func withFakeMMIO(t *testing.T) *fakeMMIO {
	t.Helper()
	f := &fakeMMIO{regs: map[uintptr]uint32{}}
	oldRead, oldWrite := mmioRead32, mmioWrite32
	mmioRead32 = func(addr uintptr) uint32 { return f.regs[addr] }
	mmioWrite32 = func(addr uintptr, val uint32) { f.regs[addr] = val }
	t.Cleanup(func() {
		mmioRead32, mmioWrite32 = oldRead, oldWrite
	})
	return f
}

const (
	distBase = 0x08000000
	cpuBase  = 0x08010000
)

func TestInitProgramsDistributorAndCPUInterface(t *testing.T) {
	f := withFakeMMIO(t)
	c := New()
	c.Init(distBase, cpuBase)

	if f.regs[distBase+gicdCTLR] != 1 {
		t.Fatalf("expected distributor enabled, got %#x", f.regs[distBase+gicdCTLR])
	}
	if f.regs[distBase+gicdIPriorityR] != 0xA0A0A0A0 {
		t.Fatalf("expected priority 0xA0A0A0A0, got %#x", f.regs[distBase+gicdIPriorityR])
	}
	if f.regs[distBase+gicdIPriorityR+252] != 0xA0A0A0A0 {
		t.Fatal("expected last priority register programmed")
	}
	if f.regs[distBase+gicdITargetsR+32] != 0x01010101 {
		t.Fatalf("expected SPI 32 routed to CPU0, got %#x", f.regs[distBase+gicdITargetsR+32])
	}
	if f.regs[distBase+gicdICEnabler] != 0xFFFFFFFF {
		t.Fatal("expected all interrupts disabled initially")
	}
	if f.regs[cpuBase+giccPMR] != 0xFF {
		t.Fatal("expected CPU interface to accept every priority level")
	}
	if f.regs[cpuBase+giccCTLR] != 1 {
		t.Fatal("expected CPU interface enabled")
	}
}

func TestUnmaskSetsCorrectBit(t *testing.T) {
	f := withFakeMMIO(t)
	c := New()
	c.Init(distBase, cpuBase)

	c.Unmask(33) // reg 1, bit 1
	if f.regs[distBase+gicdISEnabler+4] != 1<<1 {
		t.Fatalf("expected bit 1 of ISENABLER1 set, got %#x", f.regs[distBase+gicdISEnabler+4])
	}
}

func TestUnmaskNoopBeforeInit(t *testing.T) {
	withFakeMMIO(t)
	c := New()
	c.Unmask(5) // distBase == 0, must not panic or write
}

func TestAckReturnsSpuriousWhenUninitialized(t *testing.T) {
	withFakeMMIO(t)
	c := New()
	if got := c.Ack(); got != spuriousIRQ {
		t.Fatalf("expected spurious IRQ %d, got %d", spuriousIRQ, got)
	}
}

func TestAckMasksToTenBits(t *testing.T) {
	f := withFakeMMIO(t)
	c := New()
	c.Init(distBase, cpuBase)
	f.regs[cpuBase+giccIAR] = 0xFFFFFC20 // irq 32 with garbage high bits

	if got := c.Ack(); got != 32 {
		t.Fatalf("expected IRQ 32, got %d", got)
	}
}

func TestSendEOIWritesIRQNumber(t *testing.T) {
	f := withFakeMMIO(t)
	c := New()
	c.Init(distBase, cpuBase)
	c.SendEOI(7)

	if f.regs[cpuBase+giccEOIR] != 7 {
		t.Fatalf("expected EOIR written with 7, got %#x", f.regs[cpuBase+giccEOIR])
	}
}
