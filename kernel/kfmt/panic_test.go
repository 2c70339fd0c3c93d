package kfmt

import (
	"bytes"
	"errors"
	"testing"

	"noxiom/kernel"
)

func TestPanic(t *testing.T) {
	defer func() { haltFn = func() {} }()

	var haltCalled bool
	haltFn = func() { haltCalled = true }

	t.Run("with *kernel.Error", func(t *testing.T) {
		haltCalled = false
		var buf bytes.Buffer
		SetOutputSink(&buf)
		err := &kernel.Error{Module: "test", Message: "panic test"}

		Panic(err)

		exp := "\n-----------------------------------\n[test] unrecoverable error: panic test\n*** kernel panic: system halted ***\n-----------------------------------\n"
		if got := buf.String(); got != exp {
			t.Fatalf("expected to get:\n%q\ngot:\n%q", exp, got)
		}

		if !haltCalled {
			t.Fatal("expected haltFn() to be called by Panic")
		}
	})

	t.Run("with error", func(t *testing.T) {
		haltCalled = false
		var buf bytes.Buffer
		SetOutputSink(&buf)
		err := errors.New("go error")

		Panic(err)

		exp := "\n-----------------------------------\n[rt] unrecoverable error: go error\n*** kernel panic: system halted ***\n-----------------------------------\n"
		if got := buf.String(); got != exp {
			t.Fatalf("expected to get:\n%q\ngot:\n%q", exp, got)
		}

		if !haltCalled {
			t.Fatal("expected haltFn() to be called by Panic")
		}
	})

	t.Run("with string", func(t *testing.T) {
		haltCalled = false
		var buf bytes.Buffer
		SetOutputSink(&buf)
		err := "string error"

		Panic(err)

		exp := "\n-----------------------------------\n[rt] unrecoverable error: string error\n*** kernel panic: system halted ***\n-----------------------------------\n"
		if got := buf.String(); got != exp {
			t.Fatalf("expected to get:\n%q\ngot:\n%q", exp, got)
		}

		if !haltCalled {
			t.Fatal("expected haltFn() to be called by Panic")
		}
	})

	t.Run("without error", func(t *testing.T) {
		haltCalled = false
		var buf bytes.Buffer
		SetOutputSink(&buf)

		Panic(nil)

		exp := "\n-----------------------------------\n*** kernel panic: system halted ***\n-----------------------------------\n"
		if got := buf.String(); got != exp {
			t.Fatalf("expected to get:\n%q\ngot:\n%q", exp, got)
		}

		if !haltCalled {
			t.Fatal("expected haltFn() to be called by Panic")
		}
	})
}
