// Package gdt builds the flat three-entry Global Descriptor Table x86_64
// long mode needs — null, kernel code, kernel data — and loads it via
// cpu.LoadGDT. Grounded on original_source/noxiom/arch/x86_64/gdt.c.
package gdt

import (
	"unsafe"

	"noxiom/cpu"
)

// entry is the 8-byte packed GDT descriptor format.
type entry struct {
	limitLow    uint16
	baseLow     uint16
	baseMid     uint8
	access      uint8
	granularity uint8
	baseHigh    uint8
}

// pointer is the 10-byte pseudo-descriptor the LGDT instruction consumes.
// The 64-bit base is held as four 16-bit words so it follows limit
// directly, with no alignment padding in between.
type pointer struct {
	limit uint16
	base  [4]uint16
}

const entryCount = 3

var (
	table gdtTable
	ptr   pointer
)

type gdtTable [entryCount]entry

func set(e *entry, base uint32, limit uint32, access, gran uint8) {
	e.baseLow = uint16(base & 0xffff)
	e.baseMid = uint8((base >> 16) & 0xff)
	e.baseHigh = uint8((base >> 24) & 0xff)
	e.limitLow = uint16(limit & 0xffff)
	e.granularity = uint8((limit>>16)&0x0f) | (gran & 0xf0)
	e.access = access
}

// Init builds and loads the kernel GDT: a null descriptor, a 64-bit
// execute/read code segment, and a read/write data segment, both flat
// (base 0, limit covering the full address space) and present.
func Init() {
	set(&table[0], 0, 0, 0x00, 0x00)
	set(&table[1], 0, 0xfffff, 0x9a, 0xa0)
	set(&table[2], 0, 0xfffff, 0x92, 0xa0)

	ptr.limit = uint16(unsafe.Sizeof(table) - 1)
	base := uint64(uintptr(unsafe.Pointer(&table)))
	for i := range ptr.base {
		ptr.base[i] = uint16(base >> (16 * i))
	}

	cpu.LoadGDT(uintptr(unsafe.Pointer(&ptr)))
}
