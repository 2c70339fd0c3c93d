package main

import (
	"noxiom/halarm64"
	"noxiom/kernel"
	"noxiom/kernel/goruntime"
	"noxiom/kernel/kfmt"
	"noxiom/kernel/kmain"
)

var errTrap = &kernel.Error{Module: "entry", Message: "unhandled CPU exception"}

// trapHalt is entry_arm64.s's target for every slot of the VBAR_EL1
// vector table. Noxiom never drops to EL0 (no userland) and this build
// never unmasks a GIC line a driver doesn't poll instead (input is
// polled over the PL011, per halarm64), so in practice this only fires
// on a genuine CPU exception — same terminal policy as x86_64's
// isrDispatch for the exception vectors: report and halt, there is no
// scheduler to kill a faulting task instead.
//
//go:nosplit
func trapHalt() {
	kfmt.Panic(errTrap)
}

// dtbAddr is written by entry_arm64.s before any Go code runs: firmware
// hands the kernel the physical DTB address in X0 at entry, per the
// standard AArch64 boot protocol, and it has to be captured before the
// register is reused for anything else.
var dtbAddr uint64

func main() {
	if err := goruntime.Init(); err != nil {
		kfmt.Panic(err)
	}
	kmain.Run(halarm64.New(dtbAddr))
}
