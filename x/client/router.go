package client

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

// HandlerFunc handles one command kind.
type HandlerFunc func(ctx context.Context, cmd any) error

// CommandRouter dispatches commands to registered handlers by command type.
type CommandRouter interface {
	// Register registers a handler for a command type.
	Register(cmdType reflect.Type, handler HandlerFunc)

	// Route dispatches a command to its handler. Returns ErrUnknownCommand
	// when no handler is registered.
	Route(ctx context.Context, cmd any) error
}

type commandRouter struct {
	mu       sync.RWMutex
	handlers map[reflect.Type]HandlerFunc
}

// NewCommandRouter creates a router with no handlers registered.
func NewCommandRouter() CommandRouter {
	return &commandRouter{handlers: make(map[reflect.Type]HandlerFunc)}
}

func (r *commandRouter) Register(cmdType reflect.Type, handler HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[cmdType] = handler
}

func (r *commandRouter) Route(ctx context.Context, cmd any) error {
	if cmd == nil {
		return fmt.Errorf("%w: nil command", ErrUnknownCommand)
	}

	cmdType := reflect.TypeOf(cmd)

	r.mu.RLock()
	handler, exists := r.handlers[cmdType]
	r.mu.RUnlock()

	if !exists {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmdType)
	}
	return handler(ctx, cmd)
}
