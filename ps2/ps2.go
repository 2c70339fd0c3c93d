// Package ps2 drives the PS/2 keyboard (port 0x60, scancode set 1) behind
// IRQ1, translating scancodes into ASCII and buffering them in a ring
// buffer for Getchar. Grounded on
// original_source/noxiom/arch/x86_64/keyboard_x86.c.
package ps2

import "noxiom/cpu"

const dataPort = 0x60

const (
	scLShift    = 0x2A
	scRShift    = 0x36
	scLShiftRel = 0xAA
	scRShiftRel = 0xB6
)

// scTable/scTableShift are the unshifted/shifted scancode-set-1 -> ASCII
// maps, verbatim from keyboard_x86.c.
var scTable = [128]byte{
	0, 27, '1', '2', '3', '4', '5', '6', '7', '8', '9', '0', '-', '=',
	'\b', '\t', 'q', 'w', 'e', 'r', 't', 'y', 'u', 'i', 'o', 'p', '[', ']',
	'\n', 0, 'a', 's', 'd', 'f', 'g', 'h', 'j', 'k', 'l', ';', '\'', '`',
	0, '\\', 'z', 'x', 'c', 'v', 'b', 'n', 'm', ',', '.', '/', 0, '*',
	0, ' ', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, '-', 0, 0, 0, '+', 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0,
}

var scTableShift = [128]byte{
	0, 27, '!', '@', '#', '$', '%', '^', '&', '*', '(', ')', '_', '+',
	'\b', '\t', 'Q', 'W', 'E', 'R', 'T', 'Y', 'U', 'I', 'O', 'P', '{', '}',
	'\n', 0, 'A', 'S', 'D', 'F', 'G', 'H', 'J', 'K', 'L', ':', '"', '~',
	0, '|', 'Z', 'X', 'C', 'V', 'B', 'N', 'M', '<', '>', '?', 0, '*',
	0, ' ', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, '-', 0, 0, 0, '+', 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0,
}

const bufSize = 256

var (
	inbFn    = cpu.InB
	unmaskFn func(irq uint32)
	waitFn   = cpu.WaitForInterrupt
)

// Keyboard holds the scancode ring buffer. Reads/writes race with the
// IRQ1 handler in real hardware, but on a single-core kernel with no
// preemption there is no concurrent access within Go itself: the handler
// only ever runs between Getchar's HLT and the next instruction.
type Keyboard struct {
	buf        [bufSize]byte
	head, tail int
	shiftHeld  bool
}

func New() *Keyboard {
	return &Keyboard{}
}

// SetUnmask wires the IRQ-unmask call (halx86 passes pic.Unmask).
func SetUnmask(fn func(irq uint32)) {
	unmaskFn = fn
}

func (k *Keyboard) InitInput() {
	if unmaskFn != nil {
		unmaskFn(1)
	}
}

func (k *Keyboard) push(c byte) {
	next := (k.head + 1) % bufSize
	if next != k.tail {
		k.buf[k.head] = c
		k.head = next
	}
	// buffer full: drop the newest scancode, matching buf_push's policy.
}

// HandleIRQ is installed via irq.SetKeyboardHandler and runs on every
// IRQ1. It reads the scancode, tracks shift state, and pushes the
// translated ASCII byte (ignoring key-release events) into the buffer.
func (k *Keyboard) HandleIRQ() {
	sc := inbFn(dataPort)

	switch sc {
	case scLShift, scRShift:
		k.shiftHeld = true
		return
	case scLShiftRel, scRShiftRel:
		k.shiftHeld = false
		return
	}

	if sc&0x80 != 0 {
		return // key release
	}

	var c byte
	if k.shiftHeld {
		c = scTableShift[sc]
	} else {
		c = scTable[sc]
	}
	if c != 0 {
		k.push(c)
	}
}

// Getchar blocks until a character is available, halting the CPU between
// checks so it isn't busy-spinning while waiting for the next IRQ1.
func (k *Keyboard) Getchar() byte {
	for k.head == k.tail {
		waitFn()
	}
	c := k.buf[k.tail]
	k.tail = (k.tail + 1) % bufSize
	return c
}
