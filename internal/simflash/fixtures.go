package simflash

import (
	"fmt"
	"os"

	"github.com/flashtrail/bootutil/core"
)

// Default geometry used by every named fixture, matching spec §8's
// end-to-end scenarios (A=8, erased 0xFF, programmed-set 0x01, slot size
// 4096).
const (
	DefaultSlotSize = 4096
	DefaultAlign    = core.MaxAlign
	DefaultErased   = 0xFF

	primaryID   = 0
	secondaryID = 1
)

// Fixture bundles a ready-to-use Arena and the ids of its primary and
// secondary regions.
type Fixture struct {
	Arena     *Arena
	Provider  *Provider
	Resolver  PairResolver
	Primary   *Region
	Secondary *Region
}

// Geometry describes the slot size, write alignment, and erased byte value
// a fixture's regions are built with.
type Geometry struct {
	SlotSize int
	Align    int
	Erased   byte
}

// DefaultGeometry is the geometry spec §8's scenarios are stated in.
var DefaultGeometry = Geometry{SlotSize: DefaultSlotSize, Align: DefaultAlign, Erased: DefaultErased}

// NewFixture builds one of the named scenarios from spec §8 at the default
// geometry: "fresh", "test-pending", "perm-pending", "revert-pending",
// "corrupt-secondary", or "confirmed". An unknown name is an error.
func NewFixture(name string) (*Fixture, error) {
	return NewFixtureWithGeometry(name, DefaultGeometry)
}

// NewFixtureWithGeometry is NewFixture parameterised by geometry, so host
// tooling can exercise the engine against slot sizes and alignments other
// than the ones spec §8 happens to use.
func NewFixtureWithGeometry(name string, geo Geometry) (*Fixture, error) {
	arena := NewArena()
	primary := arena.AddRegion(primaryID, geo.SlotSize, geo.Align, geo.Erased)
	secondary := arena.AddRegion(secondaryID, geo.SlotSize, geo.Align, geo.Erased)
	provider := NewProvider(arena)
	resolver := PairResolver{PrimaryID: primaryID, SecondaryID: secondaryID}

	f := &Fixture{Arena: arena, Provider: provider, Resolver: resolver, Primary: primary, Secondary: secondary}

	switch name {
	case "fresh":
		// E1: both slots erased, nothing further to do.

	case "test-pending":
		// E2: secondary staged for a one-shot test boot.
		if err := core.SetPendingMulti(0, provider, resolver, false, nil); err != nil {
			return nil, fmt.Errorf("simflash: build test-pending fixture: %w", err)
		}

	case "perm-pending":
		// E3: secondary staged for a permanent install.
		if err := core.SetPendingMulti(0, provider, resolver, true, nil); err != nil {
			return nil, fmt.Errorf("simflash: build perm-pending fixture: %w", err)
		}

	case "revert-pending":
		// E4: primary looks like a completed, unconfirmed swap.
		writeRevertPendingPrimary(primary, geo)

	case "confirmed":
		// A primary that has been booted and confirmed; no swap pending.
		writeRevertPendingPrimary(primary, geo)
		if err := core.SetConfirmedMulti(0, provider, resolver, nil); err != nil {
			return nil, fmt.Errorf("simflash: build confirmed fixture: %w", err)
		}

	case "corrupt-secondary":
		// E5: secondary magic is neither erased nor the constant.
		offsetMagic := int64(geo.SlotSize - core.MagicSize)
		zeros := make([]byte, core.MagicSize)
		if err := secondary.Write(offsetMagic, zeros); err != nil {
			return nil, fmt.Errorf("simflash: build corrupt-secondary fixture: %w", err)
		}

	default:
		return nil, fmt.Errorf("simflash: unknown fixture %q", name)
	}

	return f, nil
}

// writeRevertPendingPrimary programs the primary trailer to look like a
// swap that finished but was never confirmed: magic good, copy-done set,
// image-ok left erased.
func writeRevertPendingPrimary(primary *Region, geo Geometry) {
	magicOff := int64(geo.SlotSize - core.MagicSize)
	imageOKOff := magicOff - int64(core.MaxAlign)
	copyDoneOff := imageOKOff - int64(core.MaxAlign)

	magic := core.MagicBytes()
	if err := primary.Write(magicOff, magic[:]); err != nil {
		panic(err) // fixture construction on a fresh in-memory arena cannot fail
	}

	padded := make([]byte, core.MaxAlign)
	for i := range padded {
		padded[i] = geo.Erased
	}
	padded[0] = 0x01
	if err := primary.Write(copyDoneOff, padded); err != nil {
		panic(err)
	}
}

// FixtureNames lists every recognised fixture name, for CLI help text.
func FixtureNames() []string {
	return []string{"fresh", "test-pending", "perm-pending", "revert-pending", "confirmed", "corrupt-secondary"}
}

// WriteFiles materialises the fixture's current in-memory bytes to a real
// pair of files, so a scenario built for `trailerctl fixture` can be
// replayed against `trailerctl swap-type --primary --secondary` or handed
// to a bug report.
func (f *Fixture) WriteFiles(primaryPath, secondaryPath string) error {
	if err := os.WriteFile(primaryPath, f.Primary.Bytes(), 0o644); err != nil {
		return fmt.Errorf("simflash: write primary fixture to %s: %w", primaryPath, err)
	}
	if err := os.WriteFile(secondaryPath, f.Secondary.Bytes(), 0o644); err != nil {
		return fmt.Errorf("simflash: write secondary fixture to %s: %w", secondaryPath, err)
	}
	return nil
}
