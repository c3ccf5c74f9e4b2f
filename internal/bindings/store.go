// Package bindings holds the per-configuration binding store. All
// invariants over the declared relations are enforced eagerly at insertion
// time; a malformed configuration is quarantined with its load error so it
// never blocks resolution of the others.
package bindings

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/vk/varflow/internal/catalog"
	"github.com/vk/varflow/internal/config"
	"github.com/vk/varflow/internal/ctxlog"
)

// Store maps configuration names to their binding sets. It follows a
// load-then-freeze discipline: AddConfiguration and AddRelation are only
// legal before Freeze, and after Freeze the store is safe for concurrent
// readers.
type Store struct {
	cat      *catalog.Catalog
	configs  map[string]*config.Configuration
	order    []string
	loadErrs map[string]error
	frozen   bool
}

// NewStore returns an empty store validating against the given catalog.
func NewStore(cat *catalog.Catalog) *Store {
	return &Store{
		cat:      cat,
		configs:  make(map[string]*config.Configuration),
		loadErrs: make(map[string]error),
	}
}

// AddConfiguration registers a configuration and eagerly validates its
// binding set. On failure the configuration is quarantined: the error is
// recorded, later lookups report it, and other configurations are
// unaffected.
func (s *Store) AddConfiguration(ctx context.Context, cfg *config.Configuration) error {
	if s.frozen {
		return fmt.Errorf("binding store is frozen")
	}
	if _, dup := s.configs[cfg.Name]; dup {
		return fmt.Errorf("configuration %q registered twice", cfg.Name)
	}
	s.configs[cfg.Name] = cfg
	s.order = append(s.order, cfg.Name)

	if err := s.validate(cfg); err != nil {
		s.loadErrs[cfg.Name] = err
		ctxlog.FromContext(ctx).Error("Configuration failed load-time validation; quarantined.",
			"configuration", cfg.Name, "error", err)
		return err
	}
	return nil
}

// AddRelation inserts one (source, target) pair into a registered
// configuration's relation set, enforcing the same invariants as
// AddConfiguration. Duplicate pairs are a no-op.
func (s *Store) AddRelation(configName string, kind config.RelationKind, source, target string) error {
	if s.frozen {
		return fmt.Errorf("binding store is frozen")
	}
	cfg, ok := s.configs[configName]
	if !ok {
		return &UnknownConfigurationError{Name: configName}
	}
	if !s.cat.Has(source) {
		return &UnknownVariableError{Config: configName, Kind: kind, Variable: source}
	}
	if !s.cat.Has(target) {
		return &UnknownVariableError{Config: configName, Kind: kind, Variable: target}
	}
	if _, err := cfg.Bindings.Add(kind, source, target); err != nil {
		return fmt.Errorf("configuration %q: %w", configName, err)
	}
	return nil
}

// validate applies the load-time invariants to a whole binding set.
func (s *Store) validate(cfg *config.Configuration) error {
	bs := &cfg.Bindings

	// Both sides of every relation must exist in the catalog.
	for _, kind := range config.RelationKinds() {
		for _, rel := range bs.Relations(kind) {
			if !s.cat.Has(rel.Source) {
				return &UnknownVariableError{Config: cfg.Name, Kind: kind, Variable: rel.Source}
			}
			if !s.cat.Has(rel.Target) {
				return &UnknownVariableError{Config: cfg.Name, Kind: kind, Variable: rel.Target}
			}
		}
	}

	// A variable cannot be both a raw input and an evaluated input.
	raw := make(map[string]struct{}, len(bs.PrimaryInputs)+len(bs.SecondaryInputs))
	for _, name := range bs.PrimaryInputs {
		raw[name] = struct{}{}
	}
	for _, name := range bs.SecondaryInputs {
		raw[name] = struct{}{}
	}
	for _, name := range bs.EvaluatedInputs {
		if _, clash := raw[name]; clash {
			return &ConflictingBindingError{Config: cfg.Name, Variable: name}
		}
	}
	return nil
}

// Freeze ends the load phase. After Freeze the store is read-only and safe
// for concurrent resolutions.
func (s *Store) Freeze() { s.frozen = true }

// BindingSet returns the binding set for a configuration. A quarantined
// configuration returns its load error; an unregistered name returns
// UnknownConfigurationError.
func (s *Store) BindingSet(configName string) (*config.BindingSet, error) {
	cfg, err := s.Configuration(configName)
	if err != nil {
		return nil, err
	}
	return &cfg.Bindings, nil
}

// Configuration returns the whole configuration record, with the same
// error behavior as BindingSet.
func (s *Store) Configuration(configName string) (*config.Configuration, error) {
	cfg, ok := s.configs[configName]
	if !ok {
		return nil, &UnknownConfigurationError{Name: configName}
	}
	if loadErr, bad := s.loadErrs[configName]; bad {
		return nil, fmt.Errorf("configuration %q failed to load: %w", configName, loadErr)
	}
	return cfg, nil
}

// Names returns all registered configuration names, valid and quarantined
// alike, in lexical order.
func (s *Store) Names() []string {
	names := append([]string(nil), s.order...)
	sort.Strings(names)
	return names
}

// LoadErrors returns the per-configuration load failures.
func (s *Store) LoadErrors() map[string]error {
	errs := make(map[string]error, len(s.loadErrs))
	for name, err := range s.loadErrs {
		errs[name] = err
	}
	return errs
}

// Catalog exposes the catalog the store validates against.
func (s *Store) Catalog() *catalog.Catalog { return s.cat }

// IsUnknownConfiguration reports whether err is an unknown-configuration
// lookup failure.
func IsUnknownConfiguration(err error) bool {
	var target *UnknownConfigurationError
	return errors.As(err, &target)
}
