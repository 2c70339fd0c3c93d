// Package cpu exposes the handful of x86_64/AArch64 primitives that have no
// Go-expressible body: port I/O, CPUID, descriptor-table loads, MIDR reads,
// and the halt/interrupt-mask instructions. Every function declared without
// a body here is implemented in the matching _amd64.s/_arm64.s file, the
// same split the teacher uses for kernel/cpu/cpu_amd64.go.
package cpu

// inb reads a byte from an I/O port.
func inb(port uint16) uint8

// outb writes a byte to an I/O port.
func outb(port uint16, val uint8)

// ioWait performs a short throwaway I/O write, giving a slow legacy device
// time to react to the previous out. A write to port 0x80 (the POST debug
// port) is the standard trick since nothing listens on it.
func ioWait()

// cpuid executes the CPUID instruction for the given leaf/subleaf.
func cpuid(leaf, subleaf uint32) (eax, ebx, ecx, edx uint32)

// halt executes HLT once. The caller is expected to loop.
func halt()

// enableInterrupts executes STI.
func enableInterrupts()

// disableInterrupts executes CLI.
func disableInterrupts()

// loadGDT loads the GDTR from the 10-byte pseudo-descriptor at ptr and
// reloads every segment register, matching the original's gdt_flush.
func loadGDT(ptr uintptr)

// loadIDT loads the IDTR from the 10-byte pseudo-descriptor at ptr.
func loadIDT(ptr uintptr)

var (
	// cpuidFn is replaced by tests so CPUID-dependent detection logic can
	// run without a real CPU, mirroring the teacher's cpuidFn = ID mock.
	cpuidFn = cpuid

	// inbFn/outbFn are replaced by tests that need to observe or fake
	// port I/O (e.g. the CMOS RAM estimate).
	inbFn  = inb
	outbFn = outb
)

// InB reads a byte from an I/O port.
func InB(port uint16) uint8 { return inbFn(port) }

// OutB writes a byte to an I/O port.
func OutB(port uint16, val uint8) { outbFn(port, val) }

// IOWait gives a legacy device a moment to react to the previous OutB.
func IOWait() { ioWait() }

// CPUID executes the CPUID instruction for the given leaf/subleaf.
func CPUID(leaf, subleaf uint32) (eax, ebx, ecx, edx uint32) {
	return cpuidFn(leaf, subleaf)
}

// Halt executes HLT in a loop; it never returns.
func Halt() {
	disableInterrupts()
	for {
		halt()
	}
}

// WaitForInterrupt executes a single HLT, parking the CPU until the next
// interrupt instead of busy-spinning while a caller polls for one
// (e.g. ps2.Keyboard.Getchar waiting on IRQ1).
func WaitForInterrupt() { halt() }

// EnableInterrupts unmasks maskable interrupts.
func EnableInterrupts() { enableInterrupts() }

// DisableInterrupts masks maskable interrupts.
func DisableInterrupts() { disableInterrupts() }

// LoadGDT installs a new GDT and reloads every segment register.
func LoadGDT(ptr uintptr) { loadGDT(ptr) }

// LoadIDT installs a new IDT.
func LoadIDT(ptr uintptr) { loadIDT(ptr) }
