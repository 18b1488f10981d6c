package core

import "encoding/binary"

// magicWords are the four little-endian 32-bit words that make up the
// trailer magic constant (spec §6.2).
var magicWords = [4]uint32{
	0xf395c277,
	0x7fefd260,
	0x0f505235,
	0x8079b62c,
}

// MagicSize is the length in bytes of the trailer magic field.
const MagicSize = 16

// magicBytes returns the 16-byte on-flash representation of the magic
// constant, assembled from magicWords the same way the four 32-bit words
// are laid out end to end on flash.
func magicBytes() [MagicSize]byte {
	var b [MagicSize]byte
	for i, w := range magicWords {
		binary.LittleEndian.PutUint32(b[i*4:i*4+4], w)
	}
	return b
}

// MagicBytes returns the trailer's 16-byte magic constant. Host tooling
// that builds or inspects trailers outside the decision engine (fixture
// builders, CLI dumps) uses this instead of re-deriving the byte pattern.
func MagicBytes() [MagicSize]byte {
	return magicBytes()
}

// FlagSet is the single specific byte value a programmed (Set) trailer
// flag holds. Anything else that isn't the backend's erased value is Bad.
const FlagSet byte = 0x01

// SwapType classifies the swap operation a decision-table match names, or
// the persisted intent packed into a trailer's swap-info byte.
type SwapType int

const (
	// SwapTypeNone means no swap is required.
	SwapTypeNone SwapType = iota
	// SwapTypeTest means a one-shot test boot of the secondary is pending.
	SwapTypeTest
	// SwapTypePerm means a permanent install of the secondary is pending.
	SwapTypePerm
	// SwapTypeRevert means a completed, unconfirmed swap must be undone.
	SwapTypeRevert
	// SwapTypeFail is engine-only: never persisted, reserved for future
	// use by a bootloader that models a failed swap attempt distinctly
	// from Revert.
	SwapTypeFail
	// SwapTypePanic is engine-only: returned when the engine could not
	// obtain a coherent reading of either slot, or a table row named an
	// out-of-range swap type.
	SwapTypePanic
)

func (t SwapType) String() string {
	switch t {
	case SwapTypeNone:
		return "none"
	case SwapTypeTest:
		return "test"
	case SwapTypePerm:
		return "perm"
	case SwapTypeRevert:
		return "revert"
	case SwapTypeFail:
		return "fail"
	case SwapTypePanic:
		return "panic"
	default:
		return "unknown"
	}
}

// persistedSwapTypeMax is the highest SwapType value ever written to a
// swap-info byte on flash; anything decoded above this normalises to
// SwapTypeNone (spec §3.3 invariant 5).
const persistedSwapTypeMax = SwapTypeRevert

// MagicState is the semantic decode of a trailer's 16-byte magic field.
type MagicState int

const (
	// MagicUnset means the bytes equal the backend's erased value.
	MagicUnset MagicState = iota
	// MagicGood means the bytes equal the magic constant exactly.
	MagicGood
	// MagicBad means the bytes are neither erased nor the constant.
	MagicBad
)

func (m MagicState) String() string {
	switch m {
	case MagicUnset:
		return "unset"
	case MagicGood:
		return "good"
	case MagicBad:
		return "bad"
	default:
		return "unknown"
	}
}

// magicPattern is a decision-table wildcard over MagicState.
type magicPattern int

const (
	magicAny magicPattern = iota
	magicNotGood
	magicExactUnset
	magicExactGood
)

// matches implements spec §4.3 step 3's magic compatibility predicate.
func (p magicPattern) matches(observed MagicState) bool {
	switch p {
	case magicAny:
		return true
	case magicNotGood:
		return observed != MagicGood
	case magicExactUnset:
		return observed == MagicUnset
	case magicExactGood:
		return observed == MagicGood
	default:
		return false
	}
}

// FlagState is the semantic decode of a one-byte trailer flag.
type FlagState int

const (
	// FlagUnset means the byte equals the backend's erased value.
	FlagUnset FlagState = iota
	// FlagStateSet means the byte equals FlagSet exactly.
	FlagStateSet
	// FlagBad means the byte is neither erased nor FlagSet.
	FlagBad
)

func (f FlagState) String() string {
	switch f {
	case FlagUnset:
		return "unset"
	case FlagStateSet:
		return "set"
	case FlagBad:
		return "bad"
	default:
		return "unknown"
	}
}

// flagPattern is a decision-table wildcard over FlagState.
type flagPattern int

const (
	flagAny flagPattern = iota
	flagExactUnset
	flagExactSet
)

func (p flagPattern) matches(observed FlagState) bool {
	switch p {
	case flagAny:
		return true
	case flagExactUnset:
		return observed == FlagUnset
	case flagExactSet:
		return observed == FlagStateSet
	default:
		return false
	}
}
