package config

import (
	"context"

	"github.com/vk/varflow/internal/varvalue"
)

// VariableDecl is a variable declaration as it appears in static data,
// before the catalog is frozen.
type VariableDecl struct {
	Name         string
	Default      varvalue.Value
	ReferencedBy []string
}

// Model is the format-agnostic representation of all loaded static data:
// the variable declarations and every configuration.
type Model struct {
	Variables      []VariableDecl
	Configurations []*Configuration
}

// Loader is the interface for a format-specific static-data loader. It
// reads declarative files from the given paths and translates them into
// the format-agnostic model; it performs no binding validation, which is
// the binding store's job.
type Loader interface {
	Load(ctx context.Context, paths ...string) (*Model, error)
}
