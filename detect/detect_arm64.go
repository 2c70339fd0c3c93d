package detect

import (
	"strconv"

	"noxiom/cpu"
	"noxiom/dtb"
	"noxiom/kernel/hwinfo"
)

var midrFn = cpu.ReadMIDR

type cpuEntry struct {
	implementer uint32
	part        uint32
	name        string
}

// cpuTable matches CPU IP-block part numbers, never board model strings,
// so the same binary identifies the CPU correctly on any board built
// around these cores. Verbatim from original_source's midr.c table.
var cpuTable = []cpuEntry{
	{0x41, 0xD03, "ARM Cortex-A53"},
	{0x41, 0xD04, "ARM Cortex-A35"},
	{0x41, 0xD05, "ARM Cortex-A55"},
	{0x41, 0xD07, "ARM Cortex-A57"},
	{0x41, 0xD08, "ARM Cortex-A72"},
	{0x41, 0xD09, "ARM Cortex-A73"},
	{0x41, 0xD0A, "ARM Cortex-A75"},
	{0x41, 0xD0B, "ARM Cortex-A76"},
	{0x41, 0xD0C, "ARM Neoverse-N1"},
	{0x41, 0xD0D, "ARM Cortex-A77"},
	{0x41, 0xD40, "ARM Neoverse-V1"},
	{0x41, 0xD41, "ARM Cortex-A78"},
	{0x41, 0xD44, "ARM Cortex-X1"},
	{0x41, 0xD46, "ARM Cortex-A510"},
	{0x41, 0xD47, "ARM Cortex-A710"},
	{0x41, 0xD48, "ARM Cortex-X2"},
	{0x41, 0xD4B, "ARM Cortex-A78C"},
	{0x41, 0xD4D, "ARM Cortex-A715"},
	{0x41, 0xD4E, "ARM Cortex-X3"},
	{0x61, 0x000, "Apple Silicon"}, // implementer-only match, part varies
	{0x51, 0x800, "Qualcomm Kryo"},
	{0x51, 0x801, "Qualcomm Kryo"},
	{0x51, 0x802, "Qualcomm Kryo"},
	{0x42, 0x00F, "Broadcom Cortex-A7"},
}

// cpuModel formats the MIDR_EL1 value into a human-readable CPU name,
// falling back to "AArch64 CPU (impl=0xNN part=0xNNN)" for anything not
// in the table.
func cpuModel(midr uint64) string {
	implementer := uint32((midr >> 24) & 0xFF)
	part := uint32((midr >> 4) & 0xFFF)

	for _, e := range cpuTable {
		if e.implementer != implementer {
			continue
		}
		if e.implementer == 0x61 || e.part == part {
			return e.name
		}
	}

	return "AArch64 CPU (impl=0x" + strconv.FormatUint(uint64(implementer), 16) +
		" part=0x" + strconv.FormatUint(uint64(part), 16) + ")"
}

// Detect reads MIDR_EL1 for the CPU model and merges it with whatever
// the DTB already discovered (RAM, CPU count, UART/GIC MMIO bases).
func Detect(d dtb.Result) hwinfo.Info {
	return hwinfo.Info{
		Arch:         hwinfo.ArchARM64,
		CPUCores:     d.CPUCount,
		RAMBytes:     d.RAMSize,
		ModelStr:     cpuModel(midrFn()),
		CompatStr:    d.UARTCompat,
		UARTBase:     d.UARTBase,
		IntcBase:     d.GICCPUBase,
		IntcDistBase: d.GICDistBase,
	}
}
