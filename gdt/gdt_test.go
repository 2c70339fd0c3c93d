package gdt

import "testing"

func TestSetPacksFields(t *testing.T) {
	var e entry
	set(&e, 0, 0xfffff, 0x9a, 0xa0)

	if e.access != 0x9a {
		t.Fatalf("expected access 0x9a, got %#x", e.access)
	}
	if e.limitLow != 0xffff {
		t.Fatalf("expected limitLow 0xffff, got %#x", e.limitLow)
	}
	// top nibble of limit (0xf) packed into the low nibble of granularity,
	// high nibble of granularity (0xa0) comes from gran as-is.
	if e.granularity != 0xaf {
		t.Fatalf("expected granularity 0xaf, got %#x", e.granularity)
	}
}

func TestSetFlatNullDescriptor(t *testing.T) {
	var e entry
	set(&e, 0, 0, 0, 0)

	if e.access != 0 || e.limitLow != 0 || e.granularity != 0 {
		t.Fatal("expected the null descriptor to be all zero")
	}
}
