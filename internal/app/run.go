package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/varflow/internal/ctxlog"
	"github.com/vk/varflow/internal/export"
	"github.com/vk/varflow/internal/varvalue"
	"github.com/vk/varflow/internal/yamladapter"
)

// Run executes the CLI flow selected by the config: export bindings, or
// resolve one configuration and print its primary inputs.
func (a *App) Run(ctx context.Context, cfg *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	if cfg.ExportBindings {
		if cfg.ConfigName != "" {
			bs, err := a.store.BindingSet(cfg.ConfigName)
			if err != nil {
				return err
			}
			fmt.Fprint(a.outW, export.Bindings(cfg.ConfigName, bs))
			return nil
		}
		fmt.Fprint(a.outW, export.AllBindings(a.store))
		return nil
	}

	raw := map[string]varvalue.Value{}
	if cfg.ValuesPath != "" {
		var err error
		raw, err = yamladapter.LoadValues(cfg.ValuesPath)
		if err != nil {
			return err
		}
	}

	// Resolving requires a callable for every declared invocation.
	if err := a.registry.Validate(ctx, a.store); err != nil {
		return err
	}

	primary, trace, err := a.Resolve(ctx, cfg.ConfigName, raw)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(primary))
	for name := range primary {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(a.outW, "%s = %s\n", name, primary[name])
	}

	if cfg.ShowProvenance {
		fmt.Fprint(a.outW, export.Provenance(trace))
	}
	return nil
}
