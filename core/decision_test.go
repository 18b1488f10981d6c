package core

import "testing"

// TestMagicPattern_Compatibility covers SPEC_FULL §S.3: the nine
// (pattern, observed) combinations of the magic compatibility predicate.
func TestMagicPattern_Compatibility(t *testing.T) {
	tests := []struct {
		pattern  magicPattern
		observed MagicState
		want     bool
	}{
		{magicAny, MagicUnset, true},
		{magicAny, MagicGood, true},
		{magicAny, MagicBad, true},
		{magicNotGood, MagicUnset, true},
		{magicNotGood, MagicGood, false},
		{magicNotGood, MagicBad, true},
		{magicExactGood, MagicUnset, false},
		{magicExactGood, MagicGood, true},
		{magicExactGood, MagicBad, false},
	}
	for _, tt := range tests {
		got := tt.pattern.matches(tt.observed)
		if got != tt.want {
			t.Errorf("pattern=%v observed=%v: got %v, want %v", tt.pattern, tt.observed, got, tt.want)
		}
	}
}

// TestTablePriority covers spec §8 property 4: whenever the secondary is
// Good, the result is Test or Perm regardless of primary state.
func TestTablePriority(t *testing.T) {
	primaryStates := []SwapState{
		emptySwapState,
		{Magic: MagicGood, ImageOK: FlagStateSet, CopyDone: FlagStateSet},
		{Magic: MagicBad, ImageOK: FlagBad, CopyDone: FlagBad},
	}
	for _, primary := range primaryStates {
		for _, secondaryImageOK := range []FlagState{FlagUnset, FlagStateSet, FlagBad} {
			secondary := SwapState{Magic: MagicGood, ImageOK: secondaryImageOK}
			got := decide(primary, secondary, nil)
			if secondaryImageOK == FlagUnset {
				if got != SwapTypeTest {
					t.Errorf("primary=%+v secondary=%+v: got %v, want Test", primary, secondary, got)
				}
			} else if secondaryImageOK == FlagStateSet {
				if got != SwapTypePerm {
					t.Errorf("primary=%+v secondary=%+v: got %v, want Perm", primary, secondary, got)
				}
			} else {
				// secondary.ImageOK == Bad matches neither row 1 (Unset)
				// nor row 2 (Set), and row 3 needs the secondary magic
				// Unset, so it falls through to None: never Test/Perm
				// since the image-ok pattern is an exact match, not Any.
				if got == SwapTypeTest || got == SwapTypePerm {
					t.Errorf("primary=%+v secondary=%+v: got %v, unexpected match with Bad image-ok", primary, secondary, got)
				}
			}
		}
	}
}

// TestRevertPrecondition covers spec §8 property 5: Revert is returned
// iff primary=Good, secondary=Unset, primary.image_ok=Unset,
// primary.copy_done=Set.
func TestRevertPrecondition(t *testing.T) {
	revertPrimary := SwapState{Magic: MagicGood, ImageOK: FlagUnset, CopyDone: FlagStateSet}
	revertSecondary := SwapState{Magic: MagicUnset}

	if got := decide(revertPrimary, revertSecondary, nil); got != SwapTypeRevert {
		t.Fatalf("exact revert precondition: got %v, want Revert", got)
	}

	variants := []struct {
		name      string
		primary   SwapState
		secondary SwapState
	}{
		{"primary magic not good", SwapState{Magic: MagicUnset, ImageOK: FlagUnset, CopyDone: FlagStateSet}, revertSecondary},
		{"secondary not unset", revertPrimary, SwapState{Magic: MagicBad}},
		{"primary image-ok set", SwapState{Magic: MagicGood, ImageOK: FlagStateSet, CopyDone: FlagStateSet}, revertSecondary},
		{"primary copy-done unset", SwapState{Magic: MagicGood, ImageOK: FlagUnset, CopyDone: FlagUnset}, revertSecondary},
	}
	for _, v := range variants {
		if got := decide(v.primary, v.secondary, nil); got == SwapTypeRevert {
			t.Errorf("%s: got Revert, want anything else", v.name)
		}
	}
}

// TestTableDeterminism covers spec §8 property 3: repeated calls with the
// same inputs return the same result.
func TestTableDeterminism(t *testing.T) {
	primary := SwapState{Magic: MagicGood, ImageOK: FlagUnset, CopyDone: FlagStateSet}
	secondary := emptySwapState

	first := decide(primary, secondary, nil)
	for i := 0; i < 100; i++ {
		if got := decide(primary, secondary, nil); got != first {
			t.Fatalf("iteration %d: got %v, want %v (first result)", i, got, first)
		}
	}
}

func TestDecide_NoMatchIsNone(t *testing.T) {
	primary := SwapState{Magic: MagicBad}
	secondary := SwapState{Magic: MagicUnset}
	if got := decide(primary, secondary, nil); got != SwapTypeNone {
		t.Fatalf("got %v, want None", got)
	}
}

func TestSwapTypeMulti_UsesResolverAndProvider(t *testing.T) {
	provider, resolver := newTestPair()

	swapType, err := SwapTypeMulti(0, provider, resolver, nil, nil)
	if err != nil {
		t.Fatalf("SwapTypeMulti: %v", err)
	}
	if swapType != SwapTypeNone {
		t.Fatalf("fresh pair: got %v, want None", swapType)
	}
}

// TestSwapTypeMulti_IndependentImagePairs proves imageIndex genuinely
// selects between disjoint slot pairs: image 0 is staged for a test boot,
// image 1 is staged for a permanent install and then confirmed, and each
// image's decision reflects only its own pair's state.
func TestSwapTypeMulti_IndependentImagePairs(t *testing.T) {
	provider := newMultiImageProvider(2)
	resolver := multiPairResolver{}

	if err := SetPendingMulti(0, provider, resolver, false, nil); err != nil {
		t.Fatalf("SetPendingMulti(image 0): %v", err)
	}
	if err := SetPendingMulti(1, provider, resolver, true, nil); err != nil {
		t.Fatalf("SetPendingMulti(image 1): %v", err)
	}
	if err := SetConfirmedMulti(1, provider, resolver, nil); err != nil {
		t.Fatalf("SetConfirmedMulti(image 1): %v", err)
	}

	swap0, err := SwapTypeMulti(0, provider, resolver, nil, nil)
	if err != nil {
		t.Fatalf("SwapTypeMulti(image 0): %v", err)
	}
	if swap0 != SwapTypeTest {
		t.Fatalf("image 0: got %v, want Test", swap0)
	}

	swap1, err := SwapTypeMulti(1, provider, resolver, nil, nil)
	if err != nil {
		t.Fatalf("SwapTypeMulti(image 1): %v", err)
	}
	if swap1 != SwapTypePerm {
		t.Fatalf("image 1: got %v, want Perm (confirming image 1's unset primary is a no-op)", swap1)
	}

	primary0, err := ReadSwapStateByID(provider, resolver.Primary(0))
	if err != nil {
		t.Fatalf("read primary 0: %v", err)
	}
	if primary0.Magic != MagicUnset {
		t.Fatalf("image 0's primary was touched by image 1's operations: magic=%v", primary0.Magic)
	}
}

func TestSwapTypeMulti_SecondaryUnreachableSubstitutesEmptyState(t *testing.T) {
	provider := newFakeProvider()
	provider.add(newFakeArea(0, testSlotSize, testAlign, 0xFF))
	provider.unreachable[1] = true
	resolver := pairResolver{primary: 0, secondary: 1}

	swapType, err := SwapTypeMulti(0, provider, resolver, nil, nil)
	if err != nil {
		t.Fatalf("SwapTypeMulti: %v", err)
	}
	if swapType != SwapTypeNone {
		t.Fatalf("got %v, want None", swapType)
	}
}

func TestSwapTypeMulti_PrimaryFailureIsPanic(t *testing.T) {
	provider, resolver := newTestPair()
	primaryArea := provider.areas[resolver.Primary(0)]
	primaryArea.failRead = true

	swapType, err := SwapTypeMulti(0, provider, resolver, nil, nil)
	if swapType != SwapTypePanic {
		t.Fatalf("swapType = %v, want Panic", swapType)
	}
	if KindOf(err) != Panic {
		t.Fatalf("KindOf = %v, want Panic", KindOf(err))
	}
}

func TestSwapTypeMulti_SecondaryGenericFailureIsPanic(t *testing.T) {
	provider, resolver := newTestPair()
	secondaryArea := provider.areas[resolver.Secondary(0)]
	secondaryArea.failRead = true

	swapType, err := SwapTypeMulti(0, provider, resolver, nil, nil)
	if swapType != SwapTypePanic {
		t.Fatalf("swapType = %v, want Panic", swapType)
	}
	if KindOf(err) != Panic {
		t.Fatalf("KindOf = %v, want Panic", KindOf(err))
	}
}

// TestPrimaryStateHook_HandledShortCircuits covers SPEC_FULL §S.2.
func TestPrimaryStateHook_HandledShortCircuits(t *testing.T) {
	provider, resolver := newTestPair()
	// Poison the flash-backed read; the hook must prevent it being used.
	provider.areas[resolver.Primary(0)].failRead = true

	hook := func(imageIndex int) (SwapState, bool, error) {
		return SwapState{Magic: MagicGood, ImageOK: FlagUnset, CopyDone: FlagStateSet}, true, nil
	}

	swapType, err := SwapTypeMulti(0, provider, resolver, hook, nil)
	if err != nil {
		t.Fatalf("SwapTypeMulti: %v", err)
	}
	if swapType != SwapTypeRevert {
		t.Fatalf("got %v, want Revert (from hook-supplied state)", swapType)
	}
}

func TestPrimaryStateHook_DeclinedFallsThroughToFlash(t *testing.T) {
	provider, resolver := newTestPair()

	called := false
	hook := func(imageIndex int) (SwapState, bool, error) {
		called = true
		return SwapState{}, false, nil
	}

	swapType, err := SwapTypeMulti(0, provider, resolver, hook, nil)
	if err != nil {
		t.Fatalf("SwapTypeMulti: %v", err)
	}
	if !called {
		t.Fatal("expected hook to be called")
	}
	if swapType != SwapTypeNone {
		t.Fatalf("got %v, want None", swapType)
	}
}
