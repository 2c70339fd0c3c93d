// Package shell implements Noxiom's line-edited command shell: a 256-byte
// line buffer, a whitespace tokenizer with no quoting or escaping, and a
// fixed set of built-in commands. It depends only on hal.Display and
// hal.Input, so it runs unmodified on every architecture.
package shell

import (
	"strings"

	"noxiom/kernel/hal"
)

// lineBufSize is the maximum line length, matching the original's CMD_BUF.
const lineBufSize = 256

// maxArgs is the maximum number of tokens a line parses into, matching the
// original's MAX_ARGS. Extra tokens beyond this are silently dropped.
const maxArgs = 16

const version = "Noxiom OS v0.1.0"

// shell bundles the mutable line-editing state for one Run invocation.
type shell struct {
	h   hal.HAL
	buf [lineBufSize]byte
	len int
}

// Run drives the shell's read-eval-print loop. It never returns: the only
// way out of the loop is the "halt" command, which calls h.Halt and does
// not return either.
func Run(h hal.HAL) {
	s := &shell{h: h}
	s.prompt()

	for {
		c := h.Getchar()

		switch {
		case c == '\n':
			h.PutcharDisplay('\n')
			s.dispatch(string(s.buf[:s.len]))
			s.len = 0
			s.prompt()

		case c == '\b':
			if s.len > 0 {
				s.len--
				h.PutcharDisplay('\b')
			}

		case s.len < lineBufSize-1:
			s.buf[s.len] = c
			s.len++
			h.PutcharDisplay(c)
		}
	}
}

func (s *shell) prompt() {
	s.h.SetColor(hal.Pack(hal.ColorLightGreen, hal.ColorBlack))
	s.h.PrintDisplay("noxiom")
	s.h.SetColor(hal.Pack(hal.ColorWhite, hal.ColorBlack))
	s.h.PrintDisplay("> ")
	s.h.SetColor(hal.Pack(hal.ColorLightGrey, hal.ColorBlack))
}

// tokenize splits line on runs of spaces, with no quoting or escaping, and
// caps the result at maxArgs tokens.
func tokenize(line string) []string {
	fields := strings.FieldsFunc(line, func(r rune) bool { return r == ' ' })
	if len(fields) > maxArgs {
		fields = fields[:maxArgs]
	}
	return fields
}

func (s *shell) dispatch(line string) {
	if line == "" {
		return
	}

	argv := tokenize(line)
	if len(argv) == 0 {
		return
	}

	switch argv[0] {
	case "help":
		s.cmdHelp()
	case "clear":
		s.cmdClear()
	case "echo":
		s.cmdEcho(argv)
	case "version":
		s.cmdVersion()
	case "halt":
		s.cmdHalt()
	default:
		s.h.SetColor(hal.Pack(hal.ColorLightRed, hal.ColorBlack))
		s.h.PrintDisplay("Unknown command: ")
		s.h.PrintDisplay(argv[0])
		s.h.PrintDisplay("\n")
		s.h.SetColor(hal.Pack(hal.ColorLightGrey, hal.ColorBlack))
	}
}

func (s *shell) cmdHelp() {
	s.h.SetColor(hal.Pack(hal.ColorYellow, hal.ColorBlack))
	s.h.PrintDisplay("Noxiom OS built-in commands:\n")
	s.h.SetColor(hal.Pack(hal.ColorLightGrey, hal.ColorBlack))
	s.h.PrintDisplay("  help      - show this message\n")
	s.h.PrintDisplay("  clear     - clear the screen\n")
	s.h.PrintDisplay("  echo ...  - print arguments\n")
	s.h.PrintDisplay("  version   - show OS version\n")
	s.h.PrintDisplay("  halt      - halt the system\n")
}

func (s *shell) cmdClear() {
	s.h.ClearDisplay()
}

func (s *shell) cmdEcho(argv []string) {
	for i := 1; i < len(argv); i++ {
		s.h.PrintDisplay(argv[i])
		if i < len(argv)-1 {
			s.h.PutcharDisplay(' ')
		}
	}
	s.h.PutcharDisplay('\n')
}

func (s *shell) cmdVersion() {
	s.h.SetColor(hal.Pack(hal.ColorCyan, hal.ColorBlack))
	s.h.PrintDisplay(version + "\n")
	s.h.SetColor(hal.Pack(hal.ColorLightGrey, hal.ColorBlack))
	s.h.PrintDisplay("Lightweight server OS - built from scratch\n")
}

func (s *shell) cmdHalt() {
	s.h.SetColor(hal.Pack(hal.ColorLightRed, hal.ColorBlack))
	s.h.PrintDisplay("System halted.\n")
	s.h.Halt()
}
