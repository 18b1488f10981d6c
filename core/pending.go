package core

// SetPendingMulti queues the secondary slot of image pair imageIndex for a
// one-shot test boot (permanent=false) or a permanent install
// (permanent=true). See spec §4.4.
//
// Steps, on the secondary slot:
//  1. Open the slot; Flash on failure.
//  2. Read its SwapState.
//  3. Branch on state.Magic:
//     - Good: a swap is already scheduled; return Ok without writing.
//     - Unset: write magic, then (if permanent) image-ok, then swap-info.
//       Magic is written first so that a power loss immediately after it
//       leaves the decision table reading Test, the safest interpretation.
//     - Bad: the trailer is corrupt. The entire slot is erased to permit
//       future upgrades and BadImage is returned.
//     - Anything else is an internal invariant violation: BadImage.
//  4. The slot is closed on every exit path.
func SetPendingMulti(imageIndex int, provider AreaProvider, resolver PairResolver, permanent bool, log Logger) error {
	const op = "SetPendingMulti"

	area, err := provider.Open(resolver.Secondary(imageIndex))
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
		logDebugf(log, "set-pending: secondary already carries a good magic, no-op")
		return nil

	case MagicUnset:
		offs := computeOffsets(area.Size())

		if err := writeMagic(area, offs.magic); err != nil {
			return err
		}

		if permanent {
			if err := writeFlag(area, offs.imageOK, FlagSet); err != nil {
				return err
			}
		}

		swapType := SwapTypeTest
		if permanent {
			swapType = SwapTypePerm
		}
		if err := writeSwapInfo(area, offs.swapInfo, swapType, 0); err != nil {
			return err
		}
		logInfof(log, "set-pending: staged secondary as %s", swapType)
		return nil

	case MagicBad:
		if err := area.Erase(0, area.Size()); err != nil {
			return newError(op, Flash, err)
		}
		logInfof(log, "set-pending: secondary trailer corrupt, erased entire slot")
		return newError(op, BadImage, nil)

	default:
		return newError(op, BadImage, nil)
	}
}

// SetPending is the single-image compatibility wrapper for
// SetPendingMulti(0, ...).
func SetPending(provider AreaProvider, resolver PairResolver, permanent bool, log Logger) error {
	return SetPendingMulti(0, provider, resolver, permanent, log)
}
