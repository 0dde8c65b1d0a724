package client

import "errors"

// ErrUnknownSurface indicates a command referencing an unregistered surface
// id. The command is dropped; the error is reported once.
var ErrUnknownSurface = errors.New("client: unknown surface")

// ErrUnknownCommand indicates an unrecognized command kind. Logged and
// dropped, never fatal.
var ErrUnknownCommand = errors.New("client: unknown command")

// ErrSurfaceExists indicates a bind for an already-registered surface id.
var ErrSurfaceExists = errors.New("client: surface already bound")
