package rackful

import (
	"context"

	"github.com/pieterb/rackful/resource"
	"github.com/pieterb/rackful/status"
)

// Registry resolves request paths to resources.
//
// Lookup returns (nil, nil) or a not-found status error when nothing lives at
// path. It is called concurrently and must not keep per-request state.
type Registry interface {
	Lookup(ctx context.Context, path string) (resource.Resource, error)
}

// RegistryFunc adapts a function to the Registry interface.
type RegistryFunc func(ctx context.Context, path string) (resource.Resource, error)

func (f RegistryFunc) Lookup(ctx context.Context, path string) (resource.Resource, error) {
	return f(ctx, path)
}

func (s *Server) lookup(ctx context.Context, path string) (resource.Resource, error) {
	res, err := s.registry.Lookup(ctx, path)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, status.NotFound(path)
	}
	return res, nil
}
