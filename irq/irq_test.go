package irq

import "testing"

func TestSetGatePacksHandlerAddress(t *testing.T) {
	var saved [entryCount]gate
	idt = saved // reset

	const handler = uintptr(0x1122334455667788)
	setGate(5, handler, 0x8e)

	g := idt[5]
	if g.offsetLow != 0x7788 {
		t.Fatalf("offsetLow: got %#x", g.offsetLow)
	}
	if g.offsetMid != 0x5566 {
		t.Fatalf("offsetMid: got %#x", g.offsetMid)
	}
	if g.offsetHigh != 0x11223344 {
		t.Fatalf("offsetHigh: got %#x", g.offsetHigh)
	}
	if g.selector != 0x08 || g.flags != 0x8e || g.ist != 0 {
		t.Fatalf("unexpected selector/flags/ist: %+v", g)
	}
}

func TestExceptionNamesCoversAllVectors(t *testing.T) {
	if len(exceptionNames) != 32 {
		t.Fatalf("expected 32 exception names, got %d", len(exceptionNames))
	}
	if exceptionNames[14] != "Page Fault" {
		t.Fatalf("expected vector 14 to be Page Fault, got %q", exceptionNames[14])
	}
	if exceptionNames[8] != "Double Fault" {
		t.Fatalf("expected vector 8 to be Double Fault, got %q", exceptionNames[8])
	}
}

func TestStubTableHas48Entries(t *testing.T) {
	if len(stubAddrs) != 48 {
		t.Fatalf("expected 48 gate stubs (32 ISR + 16 IRQ), got %d", len(stubAddrs))
	}
	for i, fn := range stubAddrs {
		if fn == nil {
			t.Fatalf("stub %d is nil", i)
		}
	}
}

func TestIRQDispatchRoutesKeyboardAndSendsEOI(t *testing.T) {
	defer func() {
		keyboardHandler = nil
		eoiFn = nil
	}()

	var kbCalled bool
	var gotEOI uint32 = 999
	keyboardHandler = func() { kbCalled = true }
	eoiFn = func(irq uint32) { gotEOI = irq }

	irqDispatch(&Regs{IntNo: 33}) // IRQ1 = keyboard

	if !kbCalled {
		t.Fatal("expected keyboard handler to be invoked for IRQ1")
	}
	if gotEOI != 1 {
		t.Fatalf("expected EOI for IRQ 1, got %d", gotEOI)
	}
}

func TestIRQDispatchIgnoresKeyboardOnOtherLines(t *testing.T) {
	defer func() {
		keyboardHandler = nil
		eoiFn = nil
	}()

	var kbCalled bool
	var gotEOI uint32
	keyboardHandler = func() { kbCalled = true }
	eoiFn = func(irq uint32) { gotEOI = irq }

	irqDispatch(&Regs{IntNo: 32 + 4}) // some other IRQ line

	if kbCalled {
		t.Fatal("keyboard handler must only fire for IRQ1")
	}
	if gotEOI != 4 {
		t.Fatalf("expected EOI for IRQ 4, got %d", gotEOI)
	}
}
