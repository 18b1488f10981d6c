package core

import "testing"

func TestSetConfirmedMulti_UnsetPrimaryIsNoOp(t *testing.T) {
	provider, resolver := newTestPair()
	primary := provider.areas[resolver.Primary(0)]
	snapshot := append([]byte(nil), primary.buf...)

	if err := SetConfirmedMulti(0, provider, resolver, nil); err != nil {
		t.Fatalf("SetConfirmedMulti: %v", err)
	}
	if string(primary.buf) != string(snapshot) {
		t.Fatal("expected no writes when primary magic is Unset")
	}
}

func TestSetConfirmedMulti_BadMagicReturnsBadVector(t *testing.T) {
	provider, resolver := newTestPair()
	primary := provider.areas[resolver.Primary(0)]
	offs := computeOffsets(primary.Size())

	var corrupt [MagicSize]byte
	if err := primary.Write(offs.magic, corrupt[:]); err != nil {
		t.Fatalf("corrupt magic: %v", err)
	}

	err := SetConfirmedMulti(0, provider, resolver, nil)
	if KindOf(err) != BadVector {
		t.Fatalf("KindOf = %v, want BadVector", KindOf(err))
	}
}

func TestSetConfirmedMulti_ProgramsImageOK(t *testing.T) {
	provider, resolver := newTestPair()
	primary := provider.areas[resolver.Primary(0)]
	offs := computeOffsets(primary.Size())
	if err := writeMagic(primary, offs.magic); err != nil {
		t.Fatalf("writeMagic: %v", err)
	}

	if err := SetConfirmedMulti(0, provider, resolver, nil); err != nil {
		t.Fatalf("SetConfirmedMulti: %v", err)
	}

	flag, err := readFlag(primary, offs.imageOK)
	if err != nil {
		t.Fatalf("readFlag: %v", err)
	}
	if flag != FlagStateSet {
		t.Fatalf("image-ok = %v, want Set", flag)
	}
}

// TestSetConfirmedMulti_Idempotent covers spec §8 property 6.
func TestSetConfirmedMulti_Idempotent(t *testing.T) {
	provider, resolver := newTestPair()
	primary := provider.areas[resolver.Primary(0)]
	offs := computeOffsets(primary.Size())
	if err := writeMagic(primary, offs.magic); err != nil {
		t.Fatalf("writeMagic: %v", err)
	}

	if err := SetConfirmedMulti(0, provider, resolver, nil); err != nil {
		t.Fatalf("first call: %v", err)
	}
	snapshot := append([]byte(nil), primary.buf...)

	if err := SetConfirmedMulti(0, provider, resolver, nil); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if string(primary.buf) != string(snapshot) {
		t.Fatal("flash bytes changed on repeated confirm")
	}
}

func TestSetConfirmedMulti_IgnoresCopyDone(t *testing.T) {
	provider, resolver := newTestPair()
	primary := provider.areas[resolver.Primary(0)]
	offs := computeOffsets(primary.Size())
	if err := writeMagic(primary, offs.magic); err != nil {
		t.Fatalf("writeMagic: %v", err)
	}
	// Leave copy-done Unset: an image installed out-of-band, never
	// swapped by the bootloader, must still be confirmable.
	if err := SetConfirmedMulti(0, provider, resolver, nil); err != nil {
		t.Fatalf("SetConfirmedMulti: %v", err)
	}

	flag, err := readFlag(primary, offs.imageOK)
	if err != nil || flag != FlagStateSet {
		t.Fatalf("image-ok = %v (err %v), want Set", flag, err)
	}
}

func TestSetConfirmed_CompatibilityWrapper(t *testing.T) {
	provider, resolver := newTestPair()
	primary := provider.areas[resolver.Primary(0)]
	offs := computeOffsets(primary.Size())
	if err := writeMagic(primary, offs.magic); err != nil {
		t.Fatalf("writeMagic: %v", err)
	}

	if err := SetConfirmed(provider, resolver, nil); err != nil {
		t.Fatalf("SetConfirmed: %v", err)
	}
	flag, _ := readFlag(primary, offs.imageOK)
	if flag != FlagStateSet {
		t.Fatalf("image-ok = %v, want Set", flag)
	}
}
