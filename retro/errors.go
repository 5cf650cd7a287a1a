package retro

import (
	"errors"
	"fmt"
)

// ErrNoCore is returned by operations that need a loaded core.
var ErrNoCore = errors.New("retro: no core loaded")

// ErrNoGame is returned by operations that need a loaded game.
var ErrNoGame = errors.New("retro: no game loaded")

// LibraryOpenError reports a failure to open the core's shared object.
// Detail carries the platform loader diagnostic (dlerror).
type LibraryOpenError struct {
	Path   string
	Detail string
}

func (e *LibraryOpenError) Error() string {
	return fmt.Sprintf("retro: open core %s: %s", e.Path, e.Detail)
}

// SymbolResolutionError reports a required entry point missing from the
// core. The library is closed before this error is returned; no handle
// with a partial function table is ever exposed.
type SymbolResolutionError struct {
	Symbol string
}

func (e *SymbolResolutionError) Error() string {
	return fmt.Sprintf("retro: core is missing required symbol %s", e.Symbol)
}

// GameRejectedError reports that the core's load_game declined the
// content. The core stays loaded; the caller may retry with different
// content.
type GameRejectedError struct {
	Path string
}

func (e *GameRejectedError) Error() string {
	return fmt.Sprintf("retro: core rejected game %s", e.Path)
}

// SerializationError reports a failed save-state operation: the core
// lacks the capability, reports a zero state size, or declined the
// call.
type SerializationError struct {
	Op     string // "serialize" or "unserialize"
	Reason string
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("retro: %s: %s", e.Op, e.Reason)
}
