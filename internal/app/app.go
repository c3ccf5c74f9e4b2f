package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/varflow/internal/bindings"
	"github.com/vk/varflow/internal/catalog"
	"github.com/vk/varflow/internal/config"
	"github.com/vk/varflow/internal/ctxlog"
	"github.com/vk/varflow/internal/dag"
	"github.com/vk/varflow/internal/evaluator"
	"github.com/vk/varflow/internal/registry"
	"github.com/vk/varflow/internal/resolver"
	"github.com/vk/varflow/internal/varvalue"
)

// App encapsulates the engine's dependencies, configuration and lifecycle:
// the frozen variable catalog, the binding store, and the callable
// registry.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	catalog  *catalog.Catalog
	store    *bindings.Store
	registry *registry.Registry
}

// NewApp is the constructor for the main application. It loads the static
// data through the given loader, builds and freezes the catalog and
// binding store, and registers the provided callable modules. A failure to
// load static data is a fatal startup error.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, appConfig.DataPath)
	if err != nil {
		panic(fmt.Errorf("failed to load static data: %w", err))
	}
	logger.Debug("Static data loaded and translated into unified model.")

	cat := buildCatalog(model)
	logger.Debug("Variable catalog frozen.", "variables", cat.Len())

	store := bindings.NewStore(cat)
	for _, cfg := range model.Configurations {
		// Quarantined configurations are logged inside AddConfiguration;
		// they must not block the others.
		_ = store.AddConfiguration(ctx, cfg)
	}
	store.Freeze()
	logger.Debug("Binding store frozen.",
		"configurations", len(store.Names()), "quarantined", len(store.LoadErrors()))

	reg := registry.New()
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("Callable modules registered.", "count", len(modules))

	return &App{
		outW:     outW,
		logger:   logger,
		catalog:  cat,
		store:    store,
		registry: reg,
	}
}

// buildCatalog declares every variable from the model and indexes which
// equations and modules reference it, then freezes the result.
func buildCatalog(model *config.Model) *catalog.Catalog {
	b := catalog.NewBuilder()
	for _, decl := range model.Variables {
		// Conflicting re-declarations across files are a data bug; the
		// first default wins and the conflict surfaces at load.
		if err := b.Declare(decl.Name, decl.Default); err != nil {
			panic(err)
		}
		for _, ref := range decl.ReferencedBy {
			b.AddReference(decl.Name, ref)
		}
	}
	for _, cfg := range model.Configurations {
		for _, eq := range cfg.Bindings.Equations {
			for _, name := range eq.Inputs {
				b.AddReference(name, eq.Name)
			}
			for _, name := range eq.Outputs {
				b.AddReference(name, eq.Name)
			}
		}
		for _, mod := range cfg.Bindings.Modules {
			for _, name := range mod.Inputs {
				b.AddReference(name, mod.Name)
			}
			for _, name := range mod.Outputs {
				b.AddReference(name, mod.Name)
			}
		}
	}
	return b.Build()
}

// Resolve turns raw UI values into the primary-module input set for one
// configuration: build the dependency graph, schedule it, evaluate the
// order. It is safe to call concurrently for different configurations
// because the catalog and store are frozen.
func (a *App) Resolve(ctx context.Context, configName string, raw map[string]varvalue.Value) (map[string]varvalue.Value, *evaluator.Trace, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger.With("configuration", configName))

	bs, err := a.store.BindingSet(configName)
	if err != nil {
		return nil, nil, err
	}

	g, err := dag.Build(ctx, bs)
	if err != nil {
		return nil, nil, err
	}

	rawNames := make(map[string]struct{}, len(raw))
	for name, v := range raw {
		if v.IsSet() {
			rawNames[name] = struct{}{}
		}
	}

	plan, err := resolver.Schedule(ctx, g, a.catalog, rawNames)
	if err != nil {
		return nil, nil, err
	}

	result, err := evaluator.Evaluate(ctx, g, plan, raw, a.catalog, a.registry)
	if err != nil {
		return nil, nil, err
	}
	return result.PrimaryInputs, result.Trace, nil
}

// Catalog returns the frozen variable catalog.
func (a *App) Catalog() *catalog.Catalog { return a.catalog }

// Store returns the frozen binding store. This is primarily for testing
// and the exporter surface.
func (a *App) Store() *bindings.Store { return a.store }

// Registry returns the application's callable registry. This is primarily
// for testing.
func (a *App) Registry() *registry.Registry { return a.registry }
