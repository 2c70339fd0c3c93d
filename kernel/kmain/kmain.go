// Package kmain implements the portable boot sequence: the one series of
// steps common to every architecture, expressed purely in terms of the
// hal.HAL contract. The arch-specific entry stub (cmd/noxiom) constructs the
// concrete HAL and hands it to Run; Run never returns.
package kmain

import (
	"noxiom/kernel"
	"noxiom/kernel/hal"
	"noxiom/kernel/hwinfo"
	"noxiom/kernel/kfmt"
	"noxiom/kernel/shell"
)

var errRunReturned = &kernel.Error{Module: "kmain", Message: "shell.Run returned"}

// displayWriter adapts a hal.Display to an io.Writer so kfmt.Printf can
// target the console once it is initialized.
type displayWriter struct{ d hal.Display }

func (w displayWriter) Write(p []byte) (int, error) {
	w.d.PrintDisplay(string(p))
	return len(p), nil
}

// serialWriter adapts a hal.Serial to an io.Writer so the boot-stage log
// can go through kfmt.Fprintf instead of repeating the "[noxiom] " prefix
// in every PrintSerial call by hand.
type serialWriter struct{ s hal.Serial }

func (w serialWriter) Write(p []byte) (int, error) {
	w.s.PrintSerial(string(p))
	return len(p), nil
}

// Run executes the staged boot sequence described in spec §4.4: serial
// first (so diagnostics survive any later failure), hardware detection,
// CPU descriptor tables, interrupt controller, display, input, the banner,
// and finally the shell. Run never returns; if shell.Run ever does, that is
// itself treated as a fatal condition.
func Run(h hal.HAL) {
	h.InitSerial()
	bootLog := &kfmt.PrefixWriter{Sink: serialWriter{h}, Prefix: []byte("[noxiom] ")}
	kfmt.Fprintf(bootLog, "kernel started\n")

	info := h.Detect()
	info.Tier = hwinfo.Score(info)
	kfmt.Fprintf(bootLog, "hw detected: %d cores, tier %s\n", info.CPUCores, info.Tier.String())

	h.InitCPU()
	kfmt.Fprintf(bootLog, "cpu ok\n")

	h.InitIntc()
	kfmt.Fprintf(bootLog, "intc ok\n")

	h.InitDisplay()
	kfmt.Fprintf(bootLog, "display ok\n")

	h.InitInput()
	kfmt.Fprintf(bootLog, "input ok\n")

	kfmt.SetOutputSink(displayWriter{h})
	kfmt.SetHaltFunc(h.Halt)

	printHWInfo(h, info)
	printBanner(h)
	kfmt.Fprintf(bootLog, "entering shell\n")

	shell.Run(h)

	kfmt.Panic(errRunReturned)
}

func printHWInfo(h hal.HAL, info hwinfo.Info) {
	h.SetColor(hal.Pack(hal.ColorYellow, hal.ColorBlack))
	h.PrintDisplay("[hal] CPU: ")
	h.SetColor(hal.Pack(hal.ColorLightGrey, hal.ColorBlack))
	h.PrintDisplay(info.ModelStr)
	h.PrintDisplay("  Tier: ")
	h.PrintDisplay(info.Tier.String())
	h.PrintDisplay("\n")
}

func printBanner(h hal.HAL) {
	const rule = "================================================================================"

	h.SetColor(hal.Pack(hal.ColorCyan, hal.ColorBlack))
	h.PrintDisplay(rule)
	h.SetColor(hal.Pack(hal.ColorWhite, hal.ColorBlack))
	h.PrintDisplay("\n")
	h.PrintDisplay("                              N O X I O M   O S\n")
	h.PrintDisplay("                         Lightweight Server Operating System\n")
	h.PrintDisplay("                                  Version 0.1.0\n")
	h.PrintDisplay("\n")
	h.SetColor(hal.Pack(hal.ColorCyan, hal.ColorBlack))
	h.PrintDisplay(rule)
	h.SetColor(hal.Pack(hal.ColorLightGrey, hal.ColorBlack))
	h.PrintDisplay("\n\nType 'help' for a list of commands.\n\n")
}
