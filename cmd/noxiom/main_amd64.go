// Command noxiom is the kernel entry point. The arch-specific assembly in
// entry_amd64.s/entry_arm64.s builds a stack and falls straight into the Go
// runtime's own rt0, which eventually calls main() below, matching the
// teacher's trivial boot.go ("func main() { kernel.Kmain() }") generalized
// to two architectures and a heap-bootstrap step the teacher's multiboot
// environment didn't need to hand-roll.
package main

import (
	"noxiom/halx86"
	"noxiom/kernel/goruntime"
	"noxiom/kernel/kfmt"
	"noxiom/kernel/kmain"
)

func main() {
	if err := goruntime.Init(); err != nil {
		kfmt.Panic(err)
	}
	kmain.Run(halx86.New())
}
