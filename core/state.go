package core

// SwapState is the decoded snapshot of one slot's trailer (spec §3.1).
type SwapState struct {
	Magic    MagicState
	SwapType SwapType
	CopyDone FlagState
	ImageOK  FlagState
	ImageNum int
}

// emptySwapState is the canonical decode of a fully erased slot (spec §3.3
// invariant 2), and the value the decision engine substitutes when a
// secondary slot is reported unreachable (spec §4.3 step 2).
var emptySwapState = SwapState{
	Magic:    MagicUnset,
	SwapType: SwapTypeNone,
	CopyDone: FlagUnset,
	ImageOK:  FlagUnset,
	ImageNum: 0,
}

// ReadSwapState decodes area's trailer into a SwapState (spec §4.2). Any
// underlying read error surfaces as a *Error with Kind Flash and the
// state is not partially populated — on error the zero SwapState is
// returned alongside the error and must not be used.
func ReadSwapState(area FlashArea) (SwapState, error) {
	offs := computeOffsets(area.Size())

	magic, err := readMagic(area, offs.magic)
	if err != nil {
		return SwapState{}, err
	}

	swapType, imageNum, err := readSwapInfo(area, offs.swapInfo)
	if err != nil {
		return SwapState{}, err
	}

	copyDone, err := readFlag(area, offs.copyDone)
	if err != nil {
		return SwapState{}, err
	}

	imageOK, err := readFlag(area, offs.imageOK)
	if err != nil {
		return SwapState{}, err
	}

	return SwapState{
		Magic:    magic,
		SwapType: swapType,
		CopyDone: copyDone,
		ImageOK:  imageOK,
		ImageNum: imageNum,
	}, nil
}

// ReadSwapStateByID opens the slot by id via provider, reads its
// SwapState, and closes the slot on every path, including error paths
// (spec §4.2's "closing must occur on all paths").
func ReadSwapStateByID(provider AreaProvider, id int) (SwapState, error) {
	area, err := provider.Open(id)
	if err != nil {
		return SwapState{}, newError("ReadSwapStateByID", Flash, err)
	}
	defer area.Close()

	return ReadSwapState(area)
}
