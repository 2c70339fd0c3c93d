package cpu

import "testing"

func TestCPUID(t *testing.T) {
	defer func() { cpuidFn = cpuid }()

	cpuidFn = func(leaf, subleaf uint32) (uint32, uint32, uint32, uint32) {
		if leaf == 0 {
			return 0xd, 0x756e6547, 0x6c65746e, 0x49656e69 // "GenuineIntel"
		}
		return 0, 0, 0, 0
	}

	eax, ebx, ecx, edx := CPUID(0, 0)
	if eax != 0xd || ebx != 0x756e6547 || ecx != 0x6c65746e || edx != 0x49656e69 {
		t.Fatalf("unexpected CPUID leaf 0 result: %x %x %x %x", eax, ebx, ecx, edx)
	}
}

func TestInOutB(t *testing.T) {
	defer func() {
		inbFn = inb
		outbFn = outb
	}()

	var written struct {
		port uint16
		val  uint8
	}
	outbFn = func(port uint16, val uint8) { written.port, written.val = port, val }
	inbFn = func(port uint16) uint8 {
		if port == written.port {
			return written.val
		}
		return 0
	}

	OutB(0x71, 0x42)
	if got := InB(0x71); got != 0x42 {
		t.Fatalf("expected InB to read back 0x42, got %#x", got)
	}
}
