package core

// swapTableRow is one pattern row of the priority-ordered decision table
// (spec §3.1, §4.3). Rows are matched in declared order; the first full
// match wins.
type swapTableRow struct {
	primaryMagic     magicPattern
	secondaryMagic   magicPattern
	primaryImageOK   flagPattern
	secondaryImageOK flagPattern
	primaryCopyDone  flagPattern
	swapType         SwapType
}

// swapTable is the exact, priority-ordered table from spec §4.3. The
// secondary's state takes priority over the primary's because a staged
// image is a new user intent that supersedes any inherited primary state.
var swapTable = []swapTableRow{
	{
		primaryMagic:     magicAny,
		secondaryMagic:   magicExactGood,
		primaryImageOK:   flagAny,
		secondaryImageOK: flagExactUnset,
		primaryCopyDone:  flagAny,
		swapType:         SwapTypeTest,
	},
	{
		primaryMagic:     magicAny,
		secondaryMagic:   magicExactGood,
		primaryImageOK:   flagAny,
		secondaryImageOK: flagExactSet,
		primaryCopyDone:  flagAny,
		swapType:         SwapTypePerm,
	},
	{
		primaryMagic:     magicExactGood,
		secondaryMagic:   magicExactUnset,
		primaryImageOK:   flagExactUnset,
		secondaryImageOK: flagAny,
		primaryCopyDone:  flagExactSet,
		swapType:         SwapTypeRevert,
	},
}

// matches reports whether primary/secondary state satisfies every pattern
// field in the row.
func (r swapTableRow) matches(primary, secondary SwapState) bool {
	return r.primaryMagic.matches(primary.Magic) &&
		r.secondaryMagic.matches(secondary.Magic) &&
		r.primaryImageOK.matches(primary.ImageOK) &&
		r.secondaryImageOK.matches(secondary.ImageOK) &&
		r.primaryCopyDone.matches(primary.CopyDone)
}

// decide walks swapTable in order and returns the first matching row's
// swap type, or SwapTypeNone if nothing matches (spec §4.3 steps 3-5).
func decide(primary, secondary SwapState, log Logger) SwapType {
	for _, row := range swapTable {
		if row.matches(primary, secondary) {
			if row.swapType != SwapTypeTest && row.swapType != SwapTypePerm && row.swapType != SwapTypeRevert {
				logInfof(log, "swap table row matched an out-of-range swap type %s; reporting panic", row.swapType)
				return SwapTypePanic
			}
			return row.swapType
		}
	}
	if primary.Magic == MagicGood && secondary.Magic == MagicUnset &&
		primary.ImageOK == FlagUnset && primary.CopyDone == FlagUnset {
		// spec §9 open question: a half-interrupted pre-swap state is
		// indistinguishable from a confirmed primary under this table.
		// Behaviour is preserved unchanged; only logged.
		logDebugf(log, "primary magic good, image-ok and copy-done both unset: "+
			"ambiguous between a confirmed primary and an interrupted pre-swap state, reporting none")
	}
	return SwapTypeNone
}

// SwapTypeMulti implements spec §4.3: it obtains the primary and secondary
// SwapState of the image pair at imageIndex and returns the swap type the
// bootloader must perform, or SwapTypePanic if either slot's state could
// not be established coherently.
//
// hook, if non-nil, may supply the primary's SwapState directly; returning
// handled=false falls through to reading the primary from flash (spec §9).
func SwapTypeMulti(imageIndex int, provider AreaProvider, resolver PairResolver, hook PrimaryStateHook, log Logger) (SwapType, error) {
	primary, err := resolvePrimaryState(imageIndex, provider, resolver, hook)
	if err != nil {
		return SwapTypePanic, newError("SwapTypeMulti", Panic, err)
	}

	secondary, err := resolveSecondaryState(imageIndex, provider, resolver)
	if err != nil {
		return SwapTypePanic, newError("SwapTypeMulti", Panic, err)
	}

	return decide(primary, secondary, log), nil
}

// DecideSwapType is the single-image compatibility wrapper for
// SwapTypeMulti(0, ...).
func DecideSwapType(provider AreaProvider, resolver PairResolver, hook PrimaryStateHook, log Logger) (SwapType, error) {
	return SwapTypeMulti(0, provider, resolver, hook, log)
}

func resolvePrimaryState(imageIndex int, provider AreaProvider, resolver PairResolver, hook PrimaryStateHook) (SwapState, error) {
	if hook != nil {
		state, handled, err := hook(imageIndex)
		if err != nil {
			return SwapState{}, err
		}
		if handled {
			return state, nil
		}
	}
	return ReadSwapStateByID(provider, resolver.Primary(imageIndex))
}

func resolveSecondaryState(imageIndex int, provider AreaProvider, resolver PairResolver) (SwapState, error) {
	area, err := provider.Open(resolver.Secondary(imageIndex))
	if err != nil {
		if IsSlotUnreachable(err) {
			return emptySwapState, nil
		}
		return SwapState{}, err
	}
	defer area.Close()

	return ReadSwapState(area)
}
