package core

// MaxAlign is the platform's maximum write alignment, in bytes. It sizes
// each trailer field's aligned block and must be a power of two (spec
// §6.2). Real firmware sets this to the worst-case write granularity
// across every flash part the build targets; it is a compile-time
// constant because on a microcontroller it cannot change at runtime.
const MaxAlign = 8

// TrailerSize is the total size in bytes of the trailer suffix appended
// to every slot: the 16-byte magic plus three fields padded to MaxAlign
// (spec §6.2).
const TrailerSize = MagicSize + 3*MaxAlign

// trailerOffsets holds the four field offsets for one slot size, computed
// per spec §4.1. Offsets are relative to the start of the slot.
type trailerOffsets struct {
	magic     int64
	imageOK   int64
	copyDone  int64
	swapInfo  int64
}

// computeOffsets implements spec §4.1's offset formulas. It never
// validates that size is large enough for a well-formed trailer; callers
// operating on a real slot are expected to have sized it correctly, and
// property tests (spec §8 property 1) check the monotonicity invariant
// directly rather than through this function's error path.
func computeOffsets(size int64) trailerOffsets {
	magicOff := size - MagicSize
	imageOKOff := magicOff - MaxAlign
	copyDoneOff := imageOKOff - MaxAlign
	swapInfoOff := copyDoneOff - MaxAlign
	return trailerOffsets{
		magic:    magicOff,
		imageOK:  imageOKOff,
		copyDone: copyDoneOff,
		swapInfo: swapInfoOff,
	}
}

// bufferIsFilled reports whether every one of the first n bytes of buf
// equals fill. A nil buf or n == 0 returns false (spec §4.5).
func bufferIsFilled(buf []byte, fill byte, n int) bool {
	if buf == nil || n <= 0 || n > len(buf) {
		return false
	}
	for i := 0; i < n; i++ {
		if buf[i] != fill {
			return false
		}
	}
	return true
}

// bufferIsErased reports whether the first n bytes of buf all equal the
// area's erased-byte value (spec §4.5).
func bufferIsErased(area FlashArea, buf []byte, n int) bool {
	return bufferIsFilled(buf, area.ErasedVal(), n)
}

// writeTrailer implements spec §4.1's write_trailer: it rounds len(payload)
// up to the area's actual write alignment, refuses (Invalid) if the
// rounded length exceeds MaxAlign, copies payload into a MaxAlign-sized
// buffer padded with the erased value, and writes that buffer at off.
func writeTrailer(area FlashArea, off int64, payload []byte) error {
	const op = "writeTrailer"

	align := area.Align()
	if align <= 0 {
		return newError(op, Flash, nil)
	}

	rounded := roundUp(len(payload), align)
	if rounded > MaxAlign {
		return newError(op, Invalid, nil)
	}

	buf := make([]byte, MaxAlign)
	for i := range buf {
		buf[i] = area.ErasedVal()
	}
	copy(buf, payload)

	if err := area.Write(off, buf); err != nil {
		return newError(op, Flash, err)
	}
	return nil
}

func roundUp(n, align int) int {
	if align <= 0 {
		return n
	}
	if n%align == 0 {
		return n
	}
	return ((n / align) + 1) * align
}

// writeFlag writes a one-byte flag field via writeTrailer.
func writeFlag(area FlashArea, off int64, value byte) error {
	return writeTrailer(area, off, []byte{value})
}

// writeMagic writes the 16-byte magic constant at off.
func writeMagic(area FlashArea, off int64) error {
	const op = "writeMagic"
	m := magicBytes()

	align := area.Align()
	if align <= 0 {
		return newError(op, Flash, nil)
	}
	// The magic field is exactly MagicSize bytes and MagicSize is a
	// multiple of every legal alignment used in practice; write it as a
	// single aligned block rather than routing through writeTrailer,
	// which caps payloads at MaxAlign.
	if err := area.Write(off, m[:]); err != nil {
		return newError(op, Flash, err)
	}
	return nil
}

// writeSwapInfo packs (imageNum, swapType) per spec §6.2 and writes the
// resulting byte at off.
func writeSwapInfo(area FlashArea, off int64, swapType SwapType, imageNum int) error {
	info := byte(imageNum&0xF)<<4 | byte(int(swapType)&0xF)
	return writeFlag(area, off, info)
}

// readFlag implements spec §4.1's read_flag: a byte equal to the erased
// value decodes to FlagUnset, a byte equal to FlagSet decodes to
// FlagStateSet, anything else is FlagBad.
func readFlag(area FlashArea, off int64) (FlagState, error) {
	var b [1]byte
	if err := area.Read(off, b[:]); err != nil {
		return FlagBad, newError("readFlag", Flash, err)
	}
	switch b[0] {
	case area.ErasedVal():
		return FlagUnset, nil
	case FlagSet:
		return FlagStateSet, nil
	default:
		return FlagBad, nil
	}
}

// readMagic implements spec §4.2 step 1.
func readMagic(area FlashArea, off int64) (MagicState, error) {
	var buf [MagicSize]byte
	if err := area.Read(off, buf[:]); err != nil {
		return MagicBad, newError("readMagic", Flash, err)
	}
	if bufferIsErased(area, buf[:], MagicSize) {
		return MagicUnset, nil
	}
	want := magicBytes()
	if buf == want {
		return MagicGood, nil
	}
	return MagicBad, nil
}

// readSwapInfo implements spec §4.2 step 2: decode (type, imageNum) from
// one byte, normalising to (None, 0) when the byte equals the erased
// value or the decoded type exceeds the highest persisted swap type.
func readSwapInfo(area FlashArea, off int64) (SwapType, int, error) {
	var b [1]byte
	if err := area.Read(off, b[:]); err != nil {
		return SwapTypeNone, 0, newError("readSwapInfo", Flash, err)
	}
	if b[0] == area.ErasedVal() {
		return SwapTypeNone, 0, nil
	}
	swapType := SwapType(b[0] & 0x0F)
	imageNum := int(b[0]>>4) & 0x0F
	if swapType > persistedSwapTypeMax {
		return SwapTypeNone, 0, nil
	}
	return swapType, imageNum, nil
}
