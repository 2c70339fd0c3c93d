// Package serial drives the 16550 UART on COM1 (port 0x3F8), used as the
// kernel's earliest debug channel. It is not used as a console: halx86
// always sends display output to VGA. Grounded on
// original_source/noxiom/arch/x86_64/serial_x86.c.
package serial

import "noxiom/cpu"

const com1 = 0x3F8

var (
	inbFn  = cpu.InB
	outbFn = cpu.OutB
)

type Port struct{}

func New() *Port { return &Port{} }

func (p *Port) InitSerial() {
	outbFn(com1+1, 0x00) // disable interrupts
	outbFn(com1+3, 0x80) // enable DLAB
	outbFn(com1+0, 0x03) // divisor low:  115200 / 3 = 38400 baud
	outbFn(com1+1, 0x00) // divisor high
	outbFn(com1+3, 0x03) // 8 bits, no parity, 1 stop bit
	outbFn(com1+2, 0xC7) // enable FIFO, clear, 14-byte threshold
	outbFn(com1+4, 0x0B) // IRQs enabled (OUT2), RTS/DTR set
}

func (p *Port) empty() bool {
	return inbFn(com1+5)&0x20 != 0
}

func (p *Port) PutcharSerial(c byte) {
	for !p.empty() {
	}
	outbFn(com1, c)
}

func (p *Port) PrintSerial(s string) {
	for i := 0; i < len(s); i++ {
		p.PutcharSerial(s[i])
	}
}
