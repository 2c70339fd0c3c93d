package kfmt

import "noxiom/kernel"

var (
	// haltFn is supplied by kmain during boot (via SetHaltFunc) once a
	// concrete hal.HAL is available. kfmt does not import hal: keeping
	// kfmt arch- and HAL-agnostic avoids a needless import and keeps this
	// package usable from tests without pulling in either back-end.
	haltFn = func() {}

	errRuntimePanic = &kernel.Error{Module: "rt", Message: "unknown cause"}
)

// SetHaltFunc installs the function Panic calls after printing its message.
// kmain calls this once, early, with the active hal.HAL's Halt method.
func SetHaltFunc(fn func()) {
	haltFn = fn
}

// Panic outputs the supplied error (if not nil) to the console and halts the
// CPU. Calls to Panic never return. Panic also works as a redirection target
// for calls to panic() (resolved via runtime.gopanic)
//go:redirect-from runtime.gopanic
func Panic(e interface{}) {
	var err *kernel.Error

	switch t := e.(type) {
	case *kernel.Error:
		err = t
	case string:
		panicString(t)
		return
	case error:
		errRuntimePanic.Message = t.Error()
		err = errRuntimePanic
	}

	Printf("\n-----------------------------------\n")
	if err != nil {
		Printf("[%s] unrecoverable error: %s\n", err.Module, err.Message)
	}
	Printf("*** kernel panic: system halted ***")
	Printf("\n-----------------------------------\n")

	haltFn()
}

// panicString serves as a redirect target for runtime.throw
//go:redirect-from runtime.throw
func panicString(msg string) {
	errRuntimePanic.Message = msg
	Panic(errRuntimePanic)
}
