package decoder

import "errors"

// ErrUnsupportedEncoding indicates a packet tag outside every known
// encoding set. Reported per packet; the queue continues.
var ErrUnsupportedEncoding = errors.New("decoder: unsupported encoding")

// ErrClosed indicates an operation on a surface decoder that has reached
// its terminal state.
var ErrClosed = errors.New("decoder: surface closed")

// ErrBadPayload indicates a payload whose shape does not match the
// packet's encoding.
var ErrBadPayload = errors.New("decoder: payload does not match encoding")
