// Package core implements the image-trailer state machine and swap-decision
// engine used by a dual-slot firmware updater.
//
// # Overview
//
// Every image pair occupies two flash regions, a primary slot the device
// boots from and a secondary slot where a candidate update is staged. Each
// slot ends in a small fixed-layout trailer (magic, image-ok, copy-done,
// swap-info) that records the intent and progress of an in-flight update.
// On every boot, the bootloader calls SwapTypeMulti to decide what swap
// operation, if any, it must perform before handing control to an image.
// Application firmware calls SetPendingMulti to request an update and
// SetConfirmedMulti to accept a freshly booted image.
//
// # Basic Usage
//
//	// provider supplies FlashArea handles for a caller-defined slot id space.
//	swapType, err := core.SwapTypeMulti(0, provider, resolver, nil, log)
//	if err != nil {
//	    // core.KindOf(err) is always core.Panic here
//	}
//
//	err = core.SetPendingMulti(0, provider, resolver, true, log)
//	err = core.SetConfirmedMulti(0, provider, resolver, log)
//
// # Hardware Independence
//
// This package does NOT talk to flash directly. Callers provide an
// AreaProvider that opens FlashArea handles for a slot id, and a
// PairResolver that maps an image index to the primary/secondary slot ids.
// This keeps core free of any dependency beyond the standard library, so it
// can be vendored onto a microcontroller build unmodified.
//
// # Logging
//
// core never logs on its own initiative. Callers may pass a Logger to
// observe advisory trace lines (an idempotent no-op, an ambiguous-but-legal
// table match); logging never changes an operation's outcome.
//
// # Error Handling
//
// Every operation returns a *Error carrying one of a small closed set of
// Kind values (Ok, Flash, BadImage, BadVector, Invalid, Panic). Use KindOf
// to read the Kind off any error, including nil.
package core
