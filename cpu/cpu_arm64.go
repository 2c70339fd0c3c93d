package cpu

// readMIDR reads the Main ID Register (MIDR_EL1).
func readMIDR() uint64

// wfe executes WFE once. The caller is expected to loop.
func wfe()

// enableInterrupts clears the interrupt mask bits in DAIF.
func enableInterrupts()

// disableInterrupts sets every mask bit in DAIF (debug, SError, IRQ, FIQ).
func disableInterrupts()

// setVBAR installs the exception vector base address.
func setVBAR(ptr uintptr)

var (
	// midrFn is replaced by tests so CPU-identification logic can run
	// without real hardware.
	midrFn = readMIDR
)

// ReadMIDR reads the Main ID Register (MIDR_EL1).
func ReadMIDR() uint64 { return midrFn() }

// Halt masks interrupts and spins on WFE; it never returns.
func Halt() {
	disableInterrupts()
	for {
		wfe()
	}
}

// WaitForInterrupt executes a single WFE, parking the core until the next
// event/interrupt instead of busy-spinning while a caller polls for one.
func WaitForInterrupt() { wfe() }

// EnableInterrupts unmasks IRQ/FIQ delivery.
func EnableInterrupts() { enableInterrupts() }

// DisableInterrupts masks IRQ/FIQ delivery.
func DisableInterrupts() { disableInterrupts() }

// SetVBAR installs the exception vector table base address.
func SetVBAR(ptr uintptr) { setVBAR(ptr) }
