package simflash

import (
	"fmt"
	"os"

	"github.com/flashtrail/bootutil/core"
)

// FileArea implements core.FlashArea directly over an os.File, so
// trailerctl can drive the decision engine against a real pair of files
// instead of the in-memory Arena. Unlike Region it carries no zerolog
// tracing or uuid.UUID correlation id — those are simulator-only
// diagnostics that don't make sense against a file whose size and
// alignment are told to us, not owned by us.
type FileArea struct {
	id     int
	file   *os.File
	size   int64
	align  int
	erased byte
}

var _ core.FlashArea = (*FileArea)(nil)

// OpenFileArea opens (creating if absent) the file at path and pads or
// truncates it to geo.SlotSize, filling any newly added bytes with
// geo.Erased so a freshly created file reads as a blank slot rather than
// as zeros, which core would decode as MagicBad, not MagicUnset.
func OpenFileArea(id int, path string, geo Geometry) (*FileArea, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("simflash: open %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("simflash: stat %s: %w", path, err)
	}

	want := int64(geo.SlotSize)
	if info.Size() < want {
		pad := make([]byte, want-info.Size())
		for i := range pad {
			pad[i] = geo.Erased
		}
		if _, err := f.WriteAt(pad, info.Size()); err != nil {
			f.Close()
			return nil, fmt.Errorf("simflash: pad %s to %d bytes: %w", path, want, err)
		}
	} else if info.Size() > want {
		if err := f.Truncate(want); err != nil {
			f.Close()
			return nil, fmt.Errorf("simflash: truncate %s to %d bytes: %w", path, want, err)
		}
	}

	return &FileArea{id: id, file: f, size: want, align: geo.Align, erased: geo.Erased}, nil
}

func (a *FileArea) ID() int           { return a.id }
func (a *FileArea) Size() int64       { return a.size }
func (a *FileArea) BaseOffset() int64 { return 0 }
func (a *FileArea) Align() int        { return a.align }
func (a *FileArea) ErasedVal() byte   { return a.erased }

func (a *FileArea) Read(off int64, buf []byte) error {
	if err := a.checkBounds(off, int64(len(buf))); err != nil {
		return err
	}
	_, err := a.file.ReadAt(buf, off)
	return err
}

func (a *FileArea) Write(off int64, buf []byte) error {
	if a.align > 0 && len(buf)%a.align != 0 {
		return fmt.Errorf("simflash: write length %d not a multiple of align %d", len(buf), a.align)
	}
	if err := a.checkBounds(off, int64(len(buf))); err != nil {
		return err
	}
	_, err := a.file.WriteAt(buf, off)
	return err
}

func (a *FileArea) Erase(off, n int64) error {
	if err := a.checkBounds(off, n); err != nil {
		return err
	}
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = a.erased
	}
	_, err := a.file.WriteAt(buf, off)
	return err
}

func (a *FileArea) Close() error {
	return a.file.Close()
}

func (a *FileArea) checkBounds(off, n int64) error {
	if off < 0 || n < 0 || off+n > a.size {
		return fmt.Errorf("simflash: out of range: off=%d n=%d size=%d", off, n, a.size)
	}
	return nil
}

// FileProvider adapts a fixed primary/secondary FileArea pair to
// core.AreaProvider, the file-backed counterpart of Provider.
type FileProvider struct {
	areas map[int]*FileArea
}

var _ core.AreaProvider = (*FileProvider)(nil)

// NewFilePairProvider opens primaryPath and secondaryPath as a single
// slot pair at ids primaryID/secondaryID, both sized and aligned per geo.
// The returned PairResolver ignores its imageIndex argument, the same way
// Fixture's does: a file-backed pair is exactly one pair, however many
// logical images the caller's --image-index names it as.
func NewFilePairProvider(primaryPath, secondaryPath string, geo Geometry) (*FileProvider, PairResolver, error) {
	primary, err := OpenFileArea(primaryID, primaryPath, geo)
	if err != nil {
		return nil, PairResolver{}, err
	}
	secondary, err := OpenFileArea(secondaryID, secondaryPath, geo)
	if err != nil {
		primary.Close()
		return nil, PairResolver{}, err
	}

	p := &FileProvider{areas: map[int]*FileArea{
		primaryID:   primary,
		secondaryID: secondary,
	}}
	resolver := PairResolver{PrimaryID: primaryID, SecondaryID: secondaryID}
	return p, resolver, nil
}

func (p *FileProvider) Open(id int) (core.FlashArea, error) {
	a, ok := p.areas[id]
	if !ok {
		return nil, fmt.Errorf("simflash: no such file-backed region: %d", id)
	}
	return providerHandle{a}, nil
}

// providerHandle is the handle FileProvider.Open returns. Its Close only
// releases the handle; the underlying file stays open until
// FileProvider.Close, so later Open calls on the same pair keep working.
type providerHandle struct{ *FileArea }

func (providerHandle) Close() error { return nil }

// Close closes every underlying file. Errors from individual files are
// joined; callers that only care whether everything closed cleanly can
// treat a non-nil return as "at least one file failed to close".
func (p *FileProvider) Close() error {
	var firstErr error
	for _, a := range p.areas {
		if err := a.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Primary and Secondary return the FileArea for direct access, e.g. so
// trailerctl can dump raw bytes without going through core.AreaProvider.
func (p *FileProvider) Primary() *FileArea   { return p.areas[primaryID] }
func (p *FileProvider) Secondary() *FileArea { return p.areas[secondaryID] }
