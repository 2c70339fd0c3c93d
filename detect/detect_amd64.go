// Package detect fills a hwinfo.Info for the running hardware: core
// count and brand string via CPUID, RAM size via CMOS registers on
// x86_64 (detect_amd64.go); CPU model via MIDR_EL1 on arm64
// (detect_arm64.go). Grounded on
// original_source/noxiom/arch/x86_64/cpuid.c.
package detect

import (
	"strings"

	"noxiom/cpu"
	"noxiom/kernel/hwinfo"
)

const (
	cmosIndex = 0x70
	cmosData  = 0x71

	minRAMBytes = 128 * 1024 * 1024
)

var (
	inbFn   = cpu.InB
	outbFn  = cpu.OutB
	cpuidFn = cpu.CPUID
)

// Detect returns an Info populated from CPUID and CMOS. x86_64 uses ISA
// port I/O rather than MMIO, so UARTBase/IntcBase/IntcDistBase/CompatStr
// stay zero/empty.
func Detect() hwinfo.Info {
	return hwinfo.Info{
		Arch:     hwinfo.ArchX86_64,
		CPUCores: coreCount(),
		RAMBytes: ramBytes(),
		ModelStr: brandString(),
	}
}

func coreCount() uint32 {
	maxLeaf, _, _, _ := cpuidFn(0, 0)

	if maxLeaf >= 0xB {
		_, ebx, _, _ := cpuidFn(0xB, 1)
		if cores := ebx & 0xffff; cores > 0 {
			return cores
		}
	}

	_, ebx, _, _ := cpuidFn(1, 0)
	if logical := (ebx >> 16) & 0xff; logical > 0 {
		return logical
	}
	return 1
}

func brandString() string {
	maxExt, _, _, _ := cpuidFn(0x80000000, 0)
	if maxExt < 0x80000004 {
		return "x86_64 CPU"
	}

	var raw [48]byte
	writeLeaf := func(off int, leaf uint32) {
		eax, ebx, ecx, edx := cpuidFn(leaf, 0)
		putU32(raw[off:], eax)
		putU32(raw[off+4:], ebx)
		putU32(raw[off+8:], ecx)
		putU32(raw[off+12:], edx)
	}
	writeLeaf(0, 0x80000002)
	writeLeaf(16, 0x80000003)
	writeLeaf(32, 0x80000004)

	s := string(raw[:])
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	return strings.TrimLeft(s, " ")
}

func putU32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

// ramBytes estimates installed RAM from CMOS registers 0x30/0x31 (extended
// memory above 1 MiB, in 1 KiB units) and 0x34/0x35 (extended memory above
// 16 MiB, in 64 KiB units), flooring at 128 MiB so tier scoring never sees
// zero on real hardware.
func ramBytes() uint64 {
	readCMOS := func(reg uint8) uint8 {
		outbFn(cmosIndex, reg)
		return inbFn(cmosData)
	}

	lo := readCMOS(0x30)
	hi := readCMOS(0x31)
	kbLow := uint32(hi)<<8 | uint32(lo)

	extLo := readCMOS(0x34)
	extHi := readCMOS(0x35)
	kbExt := uint32(extHi)<<8 | uint32(extLo)

	total := uint64(1024+kbLow)*1024 + uint64(kbExt)*64*1024
	if total < minRAMBytes {
		total = minRAMBytes
	}
	return total
}
