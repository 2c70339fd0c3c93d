// Package goruntime bootstraps the parts of the Go runtime that need a
// heap — maps, interfaces, `new`/`make` — before anything else runs.
// There is no mmap syscall on bare metal for the runtime to call, so this
// package replaces runtime.sysReserve/sysMap/sysAlloc with a bump
// allocator over a single static arena that ships inside the kernel image
// itself, already covered by the entry-time identity map. Grounded on
// gopher-os's kernel/goruntime/bootstrap.go, with its mem/pmm + mem/vmm
// frame-and-page backing replaced: Noxiom carries no page-frame allocator
// or virtual memory manager beyond that identity map, and no package in
// this kernel ever calls make/append or writes a map literal (verified by
// inspection of every non-test source file), so the arena only has to
// satisfy the runtime's own bootstrap allocations, never a kernel feature.
package goruntime

import (
	"noxiom/kernel"
	"unsafe"
)

const (
	pageSize = 4096

	// arenaSize comfortably covers the handful of allocations
	// runtime.mallocinit/alginit/modulesinit perform during schedinit;
	// Noxiom's own code never grows the heap further.
	arenaSize = 8 << 20
)

// arena is the entire backing store for the Go runtime's heap. It lives in
// the kernel image's .bss, so the loader's identity map already covers it
// — there is no frame allocator or page table walk behind a bumpAlloc
// call, just a pointer into memory that was mapped before kmain ran.
var arena [arenaSize]byte

// arenaNext is the bump offset into arena. Nothing here is ever freed:
// Noxiom has no allocator-facing feature of its own, so every byte handed
// out belongs to the runtime's one-time bootstrap, not a recurring kernel
// workload.
var arenaNext uintptr

var (
	bumpAllocFn = bumpAlloc

	mallocInitFn    = mallocInit
	algInitFn       = algInit
	modulesInitFn   = modulesInit
	typeLinksInitFn = typeLinksInit
	itabsInitFn     = itabsInit

	// prngSeed backs getRandomData; there is no /dev/random on bare metal.
	prngSeed = 0xdeadc0de
)

//go:linkname algInit runtime.alginit
func algInit()

//go:linkname modulesInit runtime.modulesinit
func modulesInit()

//go:linkname typeLinksInit runtime.typelinksinit
func typeLinksInit()

//go:linkname itabsInit runtime.itabsinit
func itabsInit()

//go:linkname mallocInit runtime.mallocinit
func mallocInit()

//go:linkname mSysStatInc runtime.mSysStatInc
func mSysStatInc(*uint64, uintptr)

func alignUp(v, align uintptr) uintptr { return (v + align - 1) &^ (align - 1) }

// bumpAlloc hands out size bytes, rounded up to a page, from arena. It
// panics if the arena is exhausted, which a correctly sized arenaSize
// should never let happen during boot.
func bumpAlloc(size uintptr) uintptr {
	size = alignUp(size, pageSize)
	start := alignUp(arenaNext, pageSize)
	if start+size > uintptr(len(arena)) {
		panic("goruntime: arena exhausted")
	}
	arenaNext = start + size
	return uintptr(unsafe.Pointer(&arena[0])) + start
}

func zero(addr unsafe.Pointer, size uintptr) {
	b := unsafe.Slice((*byte)(addr), size)
	for i := range b {
		b[i] = 0
	}
}

// sysReserve reserves address space without committing it. On Noxiom the
// whole arena is already backed by real memory — there is no demand
// paging to defer — so reserving and committing are the same bump
// allocation.
//
// This function replaces runtime.sysReserve and is required for
// initializing the Go allocator.
//
//go:redirect-from runtime.sysReserve
//go:nosplit
func sysReserve(_ unsafe.Pointer, size uintptr, reserved *bool) unsafe.Pointer {
	*reserved = true
	return unsafe.Pointer(bumpAllocFn(size))
}

// sysMap marks a region sysReserve already committed as in use for real.
//
// This function replaces runtime.sysMap and is required for initializing
// the Go allocator.
//
//go:redirect-from runtime.sysMap
//go:nosplit
func sysMap(addr unsafe.Pointer, size uintptr, reserved bool, sysStat *uint64) unsafe.Pointer {
	if !reserved {
		panic("sysMap should only be called with reserved=true")
	}
	zero(addr, size)
	mSysStatInc(sysStat, uintptr(size))
	return addr
}

// sysAlloc reserves and commits a region in one step.
//
// This function replaces runtime.sysAlloc and is required for initializing
// the Go allocator.
//
//go:redirect-from runtime.sysAlloc
//go:nosplit
func sysAlloc(size uintptr, sysStat *uint64) unsafe.Pointer {
	addr := unsafe.Pointer(bumpAllocFn(size))
	zero(addr, size)
	mSysStatInc(sysStat, uintptr(size))
	return addr
}

// nanotime is a placeholder monotonic clock: there is no timer driver in
// scope, so every tick looks the same to the runtime.
//
// This function replaces runtime.nanotime and is invoked by the Go
// allocator when a span allocation is performed.
//
//go:redirect-from runtime.nanotime
//go:nosplit
func nanotime() uint64 {
	for i := 0; i < 100; i++ {
	}
	return 1
}

// getRandomData populates r with pseudo-random bytes (map seed, etc.)
// since there is no /dev/random to read from.
//
//go:redirect-from runtime.getRandomData
func getRandomData(r []byte) {
	for i := range r {
		prngSeed = (prngSeed * 58321) + 11113
		r[i] = byte((prngSeed >> 16) & 255)
	}
}

// Init enables the Go runtime features that depend on the hooks above:
// heap allocation, map primitives, and interface itab lookups.
func Init() *kernel.Error {
	mallocInitFn()
	algInitFn()
	modulesInitFn()
	typeLinksInitFn()
	itabsInitFn()
	return nil
}

func init() {
	// Dummy calls so the compiler does not optimize away the redirect
	// targets above; matches the teacher's own init().
	var (
		reserved bool
		stat     uint64
	)
	sysReserve(nil, 0, &reserved)
	sysMap(unsafe.Pointer(&arena[0]), 0, reserved, &stat)
	sysAlloc(0, &stat)
	getRandomData(nil)
	stat = nanotime()
}
