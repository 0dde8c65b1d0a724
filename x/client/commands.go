package client

import (
	"reflect"

	"github.com/remoteview/renderer/x/decoder"
	"github.com/remoteview/renderer/x/surface"
)

// Inbound commands: one message = one command. The protocol layer constructs
// these from the wire and hands them to Client.HandleCommand.

// CheckCommand asks which of the requested encodings this client decodes.
type CheckCommand struct {
	Requested []string

	// Reply receives the supported subset. Optional; the result is logged
	// either way.
	Reply func(supported []string)
}

// BindCommand creates a surface decoder for a rendering surface.
type BindCommand struct {
	SurfaceID string
	Surface   surface.Canvas
	Debug     bool
}

// DecodeCommand enqueues one packet on its owning surface decoder.
type DecodeCommand struct {
	Packet *decoder.Packet
}

// EndOfStreamCommand enqueues the synthetic close marker on a surface
// without removing it from the registry.
type EndOfStreamCommand struct {
	SurfaceID string
}

// RedrawCommand blits a surface's snapshot onto its live surface.
type RedrawCommand struct {
	SurfaceID string
}

// ResizeCommand resizes a surface's live and snapshot surfaces.
type ResizeCommand struct {
	SurfaceID string
	Width     int
	Height    int
}

// RemoveCommand initiates a graceful close and deregisters the surface.
// The decoder keeps draining independently until it reaches its terminal
// state; the registry no longer looks it up.
type RemoveCommand struct {
	SurfaceID string
}

// Command types for router registration.
var (
	CheckCommandType       = reflect.TypeOf(CheckCommand{})
	BindCommandType        = reflect.TypeOf(BindCommand{})
	DecodeCommandType      = reflect.TypeOf(DecodeCommand{})
	EndOfStreamCommandType = reflect.TypeOf(EndOfStreamCommand{})
	RedrawCommandType      = reflect.TypeOf(RedrawCommand{})
	ResizeCommandType      = reflect.TypeOf(ResizeCommand{})
	RemoveCommandType      = reflect.TypeOf(RemoveCommand{})
)

// commandName labels a command for logs and metrics.
func commandName(cmd any) string {
	switch cmd.(type) {
	case CheckCommand:
		return "check"
	case BindCommand:
		return "bind"
	case DecodeCommand:
		return "decode"
	case EndOfStreamCommand:
		return "end-of-stream"
	case RedrawCommand:
		return "redraw"
	case ResizeCommand:
		return "resize"
	case RemoveCommand:
		return "remove"
	default:
		return "unknown"
	}
}
