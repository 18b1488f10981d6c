package core

// SetConfirmedMulti marks the currently running primary image of image
// pair imageIndex as accepted, preventing the next boot from reverting it.
// See spec §4.4.
//
// Steps, on the primary slot:
//  1. Open the slot; Flash on failure.
//  2. Read its SwapState.
//  3. Branch on state.Magic:
//     - Good: proceed.
//     - Unset: nothing to confirm; return Ok.
//     - Bad: return BadVector.
//  4. copy-done is never checked, which permits confirming images
//     installed via out-of-band programming.
//  5. If image-ok is already set, return Ok (idempotent).
//  6. Write image-ok; propagate any write error as Flash.
//  7. The slot is closed on every exit path.
func SetConfirmedMulti(imageIndex int, provider AreaProvider, resolver PairResolver, log Logger) error {
	const op = "SetConfirmedMulti"

	area, err := provider.Open(resolver.Primary(imageIndex))
	if err != nil {
		return newError(op, Flash, err)
	}
	defer area.Close()

	state, err := ReadSwapState(area)
	if err != nil {
		return err
	}

	switch state.Magic {
	case MagicGood:
		// proceed
	case MagicUnset:
		logDebugf(log, "set-confirmed: primary magic unset, nothing to confirm")
		return nil
	case MagicBad:
		return newError(op, BadVector, nil)
	default:
		return newError(op, BadVector, nil)
	}

	if state.ImageOK != FlagUnset {
		logDebugf(log, "set-confirmed: primary image-ok already set, no-op")
		return nil
	}

	offs := computeOffsets(area.Size())
	if err := writeFlag(area, offs.imageOK, FlagSet); err != nil {
		return err
	}
	logInfof(log, "set-confirmed: primary image-ok programmed")
	return nil
}

// SetConfirmed is the single-image compatibility wrapper for
// SetConfirmedMulti(0, ...).
func SetConfirmed(provider AreaProvider, resolver PairResolver, log Logger) error {
	return SetConfirmedMulti(0, provider, resolver, log)
}
