package pl011

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

const base = 0xFE201000

func TestInitProgramsBaudAndControl(t *testing.T) {
	f := withFakeMMIO(t)
	u := New()
	u.Init(base)

	if f.regs[base+uartIBRD] != 26 {
		t.Fatalf("expected IBRD 26, got %d", f.regs[base+uartIBRD])
	}
	if f.regs[base+uartFBRD] != 3 {
		t.Fatalf("expected FBRD 3, got %d", f.regs[base+uartFBRD])
	}
	if f.regs[base+uartLCRH] != lcrh8Bit|lcrhFEN {
		t.Fatalf("expected 8-bit+FIFO LCRH, got %#x", f.regs[base+uartLCRH])
	}
	if f.regs[base+uartIMSC] != 0 {
		t.Fatal("expected interrupts masked (polled mode)")
	}
	if f.regs[base+uartCR] != crUARTEN|crTXE|crRXE {
		t.Fatalf("expected UART+TX+RX enabled, got %#x", f.regs[base+uartCR])
	}
}

func TestPutcharWaitsForTXFIFOSpace(t *testing.T) {
	f := withFakeMMIO(t)
	u := New()
	u.Init(base)
	f.regs[base+uartFR] = 0 // not full

	u.Putchar('Q')
	if f.regs[base+uartDR] != 'Q' {
		t.Fatalf("expected 'Q' written to UARTDR, got %#x", f.regs[base+uartDR])
	}
}

func TestPutcharNoopWithoutInit(t *testing.T) {
	withFakeMMIO(t)
	u := New()
	u.Putchar('x') // base == 0; must not touch MMIO
}

func TestGetcharReadsDataRegister(t *testing.T) {
	f := withFakeMMIO(t)
	u := New()
	u.Init(base)
	f.regs[base+uartFR] = 0       // RX not empty
	f.regs[base+uartDR] = 0x1FF41 // extra high bits must be masked off

	if got := u.Getchar(); got != 0x41 {
		t.Fatalf("expected 'A' (0x41), got %#x", got)
	}
}

func TestGetcharReturnsZeroWithoutInit(t *testing.T) {
	withFakeMMIO(t)
	u := New()
	if got := u.Getchar(); got != 0 {
		t.Fatalf("expected 0 before init, got %#x", got)
	}
}

func TestPrintWritesEachByte(t *testing.T) {
	f := withFakeMMIO(t)
	u := New()
	u.Init(base)
	f.regs[base+uartFR] = 0

	u.Print("hi")
	if f.regs[base+uartDR] != 'i' {
		t.Fatalf("expected last byte 'i' written, got %#x", f.regs[base+uartDR])
	}
}
