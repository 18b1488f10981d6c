// Package simflash simulates a NOR-flash-like storage device over an
// in-memory byte arena, standing in for the real flash driver core.FlashArea
// abstracts away (spec §1: "the flash driver ... is abstracted behind a
// small capability interface"). It is used by its own tests and by
// cmd/trailerctl — never by the dependency-free core package itself.
package simflash

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/flashtrail/bootutil/core"
)

// Arena is a collection of named, independently addressable regions,
// analogous to the several flash areas a real device exposes (bootloader,
// primary slot, secondary slot, scratch...).
type Arena struct {
	regions map[int]*Region
	log     zerolog.Logger
}

// Option configures an Arena at construction time.
type Option func(*Arena)

// WithLogger routes every simulated read/write/erase through log at trace
// level, so a host tool can show a byte-level trace of what the core did
// to reach a decision.
func WithLogger(log zerolog.Logger) Option {
	return func(a *Arena) {
		a.log = log
	}
}

// NewArena builds an empty Arena. Use AddRegion to populate it.
func NewArena(opts ...Option) *Arena {
	a := &Arena{
		regions: make(map[int]*Region),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AddRegion allocates a new region of size bytes, pre-filled with
// erasedByte, addressable by id, with the given write alignment.
func (a *Arena) AddRegion(id int, size int, align int, erasedByte byte) *Region {
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = erasedByte
	}
	r := &Region{
		id:         id,
		buf:        buf,
		align:      align,
		erasedByte: erasedByte,
		correlation: uuid.New(),
		arena:      a,
	}
	a.regions[id] = r
	return r
}

// Region satisfies core.FlashArea over a slice of Arena's backing store.
type Region struct {
	id          int
	buf         []byte
	align       int
	erasedByte  byte
	base        int64
	correlation uuid.UUID
	arena       *Arena
	open        bool
}

var _ core.FlashArea = (*Region)(nil)

// Correlation returns the host-tooling-only diagnostic UUID for this
// region. core never sees or consumes this value; it exists purely for
// trailerctl inspect/trace output.
func (r *Region) Correlation() uuid.UUID { return r.correlation }

func (r *Region) ID() int           { return r.id }
func (r *Region) Size() int64       { return int64(len(r.buf)) }
func (r *Region) BaseOffset() int64 { return r.base }
func (r *Region) Align() int        { return r.align }
func (r *Region) ErasedVal() byte   { return r.erasedByte }

func (r *Region) Read(off int64, buf []byte) error {
	if err := r.checkBounds(off, int64(len(buf))); err != nil {
		return err
	}
	copy(buf, r.buf[off:off+int64(len(buf))])
	r.arena.log.Trace().
		Int("region_id", r.id).
		Int64("offset", off).
		Int("length", len(buf)).
		Str("op", "read").
		Str("correlation", r.correlation.String()).
		Msg("simflash read")
	return nil
}

func (r *Region) Write(off int64, buf []byte) error {
	if r.align > 0 && len(buf)%r.align != 0 {
		return fmt.Errorf("simflash: write length %d not a multiple of align %d", len(buf), r.align)
	}
	if err := r.checkBounds(off, int64(len(buf))); err != nil {
		return err
	}
	copy(r.buf[off:off+int64(len(buf))], buf)
	r.arena.log.Trace().
		Int("region_id", r.id).
		Int64("offset", off).
		Int("length", len(buf)).
		Str("op", "write").
		Str("correlation", r.correlation.String()).
		Msg("simflash write")
	return nil
}

func (r *Region) Erase(off, n int64) error {
	if err := r.checkBounds(off, n); err != nil {
		return err
	}
	for i := off; i < off+n; i++ {
		r.buf[i] = r.erasedByte
	}
	r.arena.log.Trace().
		Int("region_id", r.id).
		Int64("offset", off).
		Int64("length", n).
		Str("op", "erase").
		Str("correlation", r.correlation.String()).
		Msg("simflash erase")
	return nil
}

func (r *Region) Close() error {
	r.open = false
	return nil
}

func (r *Region) checkBounds(off, n int64) error {
	if off < 0 || n < 0 || off+n > int64(len(r.buf)) {
		return fmt.Errorf("simflash: out of range: off=%d n=%d size=%d", off, n, len(r.buf))
	}
	return nil
}

// Bytes returns the region's current backing bytes. Intended for tests
// and trailerctl inspect only; mutating the returned slice mutates the
// region.
func (r *Region) Bytes() []byte {
	return r.buf
}

// Provider adapts an Arena to core.AreaProvider, opening regions by id.
// Unreachable, if set, marks ids that Open should report via
// core.ErrSlotUnreachable rather than a generic failure.
type Provider struct {
	arena       *Arena
	unreachable map[int]bool
}

// NewProvider wraps arena as a core.AreaProvider.
func NewProvider(arena *Arena) *Provider {
	return &Provider{arena: arena, unreachable: make(map[int]bool)}
}

// MarkUnreachable makes future Open(id) calls return core.ErrSlotUnreachable.
func (p *Provider) MarkUnreachable(id int) {
	p.unreachable[id] = true
}

func (p *Provider) Open(id int) (core.FlashArea, error) {
	if p.unreachable[id] {
		return nil, core.ErrSlotUnreachable(id)
	}
	r, ok := p.arena.regions[id]
	if !ok {
		return nil, fmt.Errorf("simflash: no such region: %d", id)
	}
	r.open = true
	return r, nil
}

var _ core.AreaProvider = (*Provider)(nil)

// PairResolver resolves an image index to a fixed (primary, secondary)
// pair of region ids. Real deployments with multiple images would extend
// this with an actual per-index table; the simulator only ever needs one
// pair per fixture.
type PairResolver struct {
	PrimaryID   int
	SecondaryID int
}

func (r PairResolver) Primary(int) int   { return r.PrimaryID }
func (r PairResolver) Secondary(int) int { return r.SecondaryID }

var _ core.PairResolver = PairResolver{}

// MultiPairResolver resolves each image index to its own disjoint
// (2*imageIndex, 2*imageIndex+1) region-id pair, letting a single Arena
// host several independent image pairs side by side.
type MultiPairResolver struct{}

func (MultiPairResolver) Primary(imageIndex int) int   { return 2 * imageIndex }
func (MultiPairResolver) Secondary(imageIndex int) int { return 2*imageIndex + 1 }

var _ core.PairResolver = MultiPairResolver{}
