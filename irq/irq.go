// Package irq builds the x86_64 IDT (256 gates: 32 CPU exceptions plus the
// 16 hardware IRQ lines the 8259 PIC remaps to vectors 32-47) and routes
// incoming interrupts to the portable handlers. Grounded on
// original_source/noxiom/kernel/src/idt.c and idt.h.
package irq

import (
	"unsafe"

	"noxiom/cpu"
	"noxiom/kernel/kfmt"
)

const entryCount = 256

// gate is the 16-byte packed IDT gate descriptor format.
type gate struct {
	offsetLow  uint16
	selector   uint16
	ist        uint8
	flags      uint8
	offsetMid  uint16
	offsetHigh uint32
	reserved   uint32
}

// pointer is the 10-byte pseudo-descriptor the LIDT instruction consumes.
// The 64-bit base is held as four 16-bit words so it follows limit
// directly, with no alignment padding in between.
type pointer struct {
	limit uint16
	base  [4]uint16
}

// Regs is the register snapshot an ISR/IRQ stub saves to the stack before
// calling into Go, in the same push order original_source's registers_t
// documents.
type Regs struct {
	R15, R14, R13, R12, R11, R10, R9, R8       uint64
	RBP, RDI, RSI, RDX, RCX, RBX, RAX          uint64
	IntNo, ErrCode                             uint64
	RIP, CS, RFlags, RSP, SS                   uint64
}

var (
	idt    [entryCount]gate
	idtPtr pointer

	// exceptionNames mirrors original_source's exception_names table,
	// indexed by CPU exception vector.
	exceptionNames = [32]string{
		"Divide-by-Zero", "Debug", "NMI", "Breakpoint",
		"Overflow", "Bound Range Exceeded", "Invalid Opcode", "Device Not Available",
		"Double Fault", "Coprocessor Segment Overrun", "Invalid TSS", "Segment Not Present",
		"Stack-Segment Fault", "General Protection Fault", "Page Fault", "Reserved",
		"x87 FP Exception", "Alignment Check", "Machine Check", "SIMD FP Exception",
		"Virtualization", "Control Protection", "Reserved", "Reserved",
		"Reserved", "Reserved", "Reserved", "Reserved",
		"Reserved", "Reserved", "Security Exception", "Reserved",
	}

	// keyboardHandler is invoked from irqDispatch for IRQ1 (vector 33).
	// halx86 installs it once the ps2 driver is ready.
	keyboardHandler func()

	// eoiFn is called with the IRQ number (0-15) after every hardware
	// interrupt; halx86 wires it to pic.SendEOI.
	eoiFn func(irq uint32)
)

// The 48 gate entry stubs, one per vector (32 CPU exceptions + 16 IRQ
// lines). Each is a tiny hand-written trampoline in irq_amd64.s that pushes
// its own vector number (and, for every vector the CPU doesn't push one
// for automatically, a dummy error code) and jumps to the shared
// isrCommon/irqCommon entry point. They have no Go body; stubAddrs below
// resolves each one's entry address via funcPC.
func isr0()
func isr1()
func isr2()
func isr3()
func isr4()
func isr5()
func isr6()
func isr7()
func isr8()
func isr9()
func isr10()
func isr11()
func isr12()
func isr13()
func isr14()
func isr15()
func isr16()
func isr17()
func isr18()
func isr19()
func isr20()
func isr21()
func isr22()
func isr23()
func isr24()
func isr25()
func isr26()
func isr27()
func isr28()
func isr29()
func isr30()
func isr31()
func irq0()
func irq1()
func irq2()
func irq3()
func irq4()
func irq5()
func irq6()
func irq7()
func irq8()
func irq9()
func irq10()
func irq11()
func irq12()
func irq13()
func irq14()
func irq15()

// stubAddrs lists every gate stub's Go func value in vector order
// (0-31 ISRs, 32-47 IRQs), so Init can install them with one loop instead
// of 48 repetitive setGate calls.
var stubAddrs = [48]func(){
	isr0, isr1, isr2, isr3, isr4, isr5, isr6, isr7,
	isr8, isr9, isr10, isr11, isr12, isr13, isr14, isr15,
	isr16, isr17, isr18, isr19, isr20, isr21, isr22, isr23,
	isr24, isr25, isr26, isr27, isr28, isr29, isr30, isr31,
	irq0, irq1, irq2, irq3, irq4, irq5, irq6, irq7,
	irq8, irq9, irq10, irq11, irq12, irq13, irq14, irq15,
}

// funcPC extracts the entry address of a Go function value. A func value
// is a pointer to a funcval struct whose first word is the code's entry
// PC, the same assumption the Go runtime itself historically relied on for
// its own (since-removed) funcPC helper. This only ever needs to work for
// the bodyless stub funcs declared above.
//
//go:nosplit
func funcPC(f func()) uintptr {
	return **(**uintptr)(unsafe.Pointer(&f))
}

func setGate(n int, handler uintptr, flags uint8) {
	idt[n] = gate{
		offsetLow:  uint16(handler & 0xffff),
		offsetMid:  uint16((handler >> 16) & 0xffff),
		offsetHigh: uint32((handler >> 32) & 0xffffffff),
		selector:   0x08,
		ist:        0,
		flags:      flags,
		reserved:   0,
	}
}

// Init builds and loads the IDT: every CPU exception vector (0-31) and
// every remapped hardware IRQ vector (32-47) is wired to a dedicated stub.
func Init(sendEOI func(irq uint32)) {
	eoiFn = sendEOI

	idtPtr.limit = uint16(unsafe.Sizeof(idt) - 1)
	base := uint64(uintptr(unsafe.Pointer(&idt)))
	for i := range idtPtr.base {
		idtPtr.base[i] = uint16(base >> (16 * i))
	}

	for v, fn := range stubAddrs {
		setGate(v, funcPC(fn), 0x8e)
	}

	cpu.LoadIDT(uintptr(unsafe.Pointer(&idtPtr)))
}

// SetKeyboardHandler installs the function invoked whenever IRQ1 fires.
func SetKeyboardHandler(fn func()) {
	keyboardHandler = fn
}

// isrDispatch is called from the common ISR trampoline in irq_amd64.s for
// CPU exceptions (vectors 0-31). Exceptions are unrecoverable in Noxiom:
// there is no scheduler to kill a faulting task, so the only correct
// response is to report what happened and halt.
//
//go:nosplit
func isrDispatch(regs *Regs) {
	kfmt.Printf("\n*** KERNEL EXCEPTION %d: ", regs.IntNo)
	if regs.IntNo < 32 {
		kfmt.Printf("%s", exceptionNames[regs.IntNo])
	} else {
		kfmt.Printf("unknown")
	}
	kfmt.Printf(" ***\n")
	cpu.Halt()
}

// irqDispatch is called from the common IRQ trampoline for hardware
// interrupts (vectors 32-47, i.e. IntNo 32+n for IRQ n).
//
//go:nosplit
func irqDispatch(regs *Regs) {
	irqNum := uint32(regs.IntNo - 32)

	if irqNum == 1 && keyboardHandler != nil {
		keyboardHandler()
	}

	if eoiFn != nil {
		eoiFn(irqNum)
	}
}
