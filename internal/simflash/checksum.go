package simflash

import "github.com/flashtrail/bootutil/core"

// TrailerChecksum computes an 8-bit checksum over an area's trailer bytes
// (the last n bytes), using the same basic-summation-with-two's-complement
// scheme moffa90-go-cyacd uses for its firmware row checksums. It has no
// bearing on the decision engine; trailerctl's inspect and fixture
// commands print it purely as a quick tamper/diff signal across runs.
// Taking a core.FlashArea rather than *Region lets it work identically
// against a real file-backed pair.
func TrailerChecksum(area core.FlashArea, n int) byte {
	size := area.Size()
	if n <= 0 || int64(n) > size {
		return 0
	}
	tail := make([]byte, n)
	if err := area.Read(size-int64(n), tail); err != nil {
		return 0
	}

	var sum byte
	for _, b := range tail {
		sum += b
	}
	return ^sum + 1
}
