// Package dtb parses a Flattened Device Tree blob just far enough to
// discover the handful of IP blocks Noxiom cares about: the memory node's
// RAM base/size, CPU node count, and UART/GIC MMIO register bases
// identified by their IP-block compatible strings — never a board
// model string, so the same kernel binary works on any board using the
// same IP blocks. Grounded on original_source/noxiom/arch/arm64/dtb.c.
package dtb

import (
	"encoding/binary"
	"unsafe"

	"noxiom/kernel"
)

const (
	magic = 0xD00DFEED

	tokenBeginNode = 0x00000001
	tokenEndNode   = 0x00000002
	tokenProp      = 0x00000003
	tokenNop       = 0x00000004
	tokenEnd       = 0x00000009
)

// uartCompatible/gicCompatible list the IP-block compatible strings that
// identify a PL011-family UART or an ARM GIC distributor+CPU interface.
var (
	uartCompatible = []string{"arm,pl011", "brcm,bcm2835-aux-uart"}
	gicCompatible  = []string{"arm,cortex-a15-gic", "arm,gic-400", "arm,gic-v3"}
)

// Result is everything Noxiom extracts from a device tree.
type Result struct {
	RAMBase  uint64
	RAMSize  uint64
	CPUCount uint32

	UARTBase    uint64
	UARTCompat  string
	GICDistBase uint64
	GICCPUBase  uint64
}

var ErrInvalid error = kernel.KernelError("dtb: invalid or missing FDT blob")

type header struct {
	magic           uint32
	totalSize       uint32
	offDtStruct     uint32
	offDtStrings    uint32
	offMemRsvmap    uint32
	version         uint32
	lastCompVersion uint32
	bootCPUIDPhys   uint32
	sizeDtStrings   uint32
	sizeDtStruct    uint32
}

const headerSize = 10 * 4

func readHeader(b []byte) (header, bool) {
	if len(b) < headerSize {
		return header{}, false
	}
	be := binary.BigEndian
	return header{
		magic:        be.Uint32(b[0:]),
		totalSize:    be.Uint32(b[4:]),
		offDtStruct:  be.Uint32(b[8:]),
		offDtStrings: be.Uint32(b[12:]),
	}, true
}

// ParseAt parses the FDT found at a physical address, capped at maxSize
// bytes (the caller does not know totalsize until after reading the
// header, so a generous cap is given up front; entry_arm64.s captures
// this pointer before any memory map is known).
func ParseAt(addr uintptr, maxSize int) (Result, error) {
	if addr == 0 {
		return Result{}, ErrInvalid
	}
	blob := unsafe.Slice((*byte)(unsafe.Pointer(addr)), maxSize)
	return Parse(blob)
}

// Parse parses an in-memory FDT blob. It is a pure function over its
// input, making it directly unit-testable with synthetic big-endian
// byte slices.
func Parse(blob []byte) (Result, error) {
	var out Result

	hdr, ok := readHeader(blob)
	if !ok || hdr.magic != magic {
		return Result{}, ErrInvalid
	}
	if int(hdr.offDtStruct) > len(blob) || int(hdr.offDtStrings) > len(blob) {
		return Result{}, ErrInvalid
	}

	structBlock := blob[hdr.offDtStruct:]
	stringsBlock := blob[hdr.offDtStrings:]

	rootAddrCells := uint32(1)
	rootSizeCells := uint32(1)

	p := 0
	depth := 0

	var inMemory, inCPUs, inCPU, inUART, inGIC bool
	var curCompat string
	var curReg []byte
	var hasReg bool

	align4 := func() {
		for p&3 != 0 {
			p++
		}
	}
	readU32 := func() uint32 {
		v := binary.BigEndian.Uint32(structBlock[p:])
		p += 4
		return v
	}
	cstring := func(b []byte) string {
		n := 0
		for n < len(b) && b[n] != 0 {
			n++
		}
		return string(b[:n])
	}

	for {
		align4()
		if p+4 > len(structBlock) {
			break
		}
		token := readU32()

		switch token {
		case tokenEnd:
			return out, nil

		case tokenNop:
			continue

		case tokenBeginNode:
			name := cstring(structBlock[p:])
			p += len(name) + 1

			inMemory = depth == 1 && hasPrefix(name, "memory")
			if depth == 1 {
				inCPUs = hasPrefix(name, "cpus")
			}
			inCPU = inCPUs && depth == 2 && hasPrefix(name, "cpu@")

			if inCPU {
				out.CPUCount++
			}

			curCompat = ""
			curReg = nil
			hasReg = false
			inUART = false
			inGIC = false
			depth++

		case tokenEndNode:
			if inMemory && hasReg {
				out.RAMBase = regBase(curReg, rootAddrCells, rootSizeCells)
				out.RAMSize = regSize(curReg, rootAddrCells, rootSizeCells)
			}
			if inUART && hasReg && out.UARTBase == 0 {
				out.UARTBase = regBase(curReg, rootAddrCells, rootSizeCells)
				out.UARTCompat = curCompat
			}
			if inGIC && hasReg && out.GICDistBase == 0 {
				out.GICDistBase = regBase(curReg, rootAddrCells, rootSizeCells)
				skip := int(rootAddrCells+rootSizeCells) * 4
				if len(curReg) >= skip*2 {
					out.GICCPUBase = regBase(curReg[skip:], rootAddrCells, rootSizeCells)
				}
			}

			if depth <= 2 {
				inCPUs = false
			}
			inMemory = false
			inCPU = false
			inUART = false
			inGIC = false
			depth--

		case tokenProp:
			propLen := readU32()
			nameOff := readU32()
			propName := cstring(stringsBlock[nameOff:])
			propData := structBlock[p : p+int(propLen)]
			p += int(propLen)

			switch propName {
			case "compatible":
				if m, ok := compatMatch(propData, uartCompatible); ok {
					inUART = true
					curCompat = m
				}
				if _, ok := compatMatch(propData, gicCompatible); ok {
					inGIC = true
				}
			case "#address-cells":
				if depth == 1 && len(propData) >= 4 {
					rootAddrCells = binary.BigEndian.Uint32(propData)
				}
			case "#size-cells":
				if depth == 1 && len(propData) >= 4 {
					rootSizeCells = binary.BigEndian.Uint32(propData)
				}
			case "reg":
				hasReg = true
				curReg = propData
			}

		default:
			return out, nil
		}
	}

	return out, nil
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

// compatMatch checks a NUL-separated compatible-string list for any of
// the given targets and returns the first entry that matches.
func compatMatch(propData []byte, targets []string) (string, bool) {
	i := 0
	for i < len(propData) {
		j := i
		for j < len(propData) && propData[j] != 0 {
			j++
		}
		entry := string(propData[i:j])
		for _, t := range targets {
			if entry == t {
				return entry, true
			}
		}
		i = j + 1
	}
	return "", false
}

func regBase(data []byte, addrCells, sizeCells uint32) uint64 {
	_ = sizeCells
	switch {
	case addrCells == 2 && len(data) >= 8:
		return uint64(binary.BigEndian.Uint32(data))<<32 | uint64(binary.BigEndian.Uint32(data[4:]))
	case addrCells == 1 && len(data) >= 4:
		return uint64(binary.BigEndian.Uint32(data))
	default:
		return 0
	}
}

func regSize(data []byte, addrCells, sizeCells uint32) uint64 {
	offset := int(addrCells) * 4
	need := offset + int(sizeCells)*4
	if need > len(data) {
		return 0
	}
	data = data[offset:]
	switch sizeCells {
	case 2:
		return uint64(binary.BigEndian.Uint32(data))<<32 | uint64(binary.BigEndian.Uint32(data[4:]))
	case 1:
		return uint64(binary.BigEndian.Uint32(data))
	default:
		return 0
	}
}
