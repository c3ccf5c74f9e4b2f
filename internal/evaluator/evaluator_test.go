package evaluator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/varflow/internal/catalog"
	"github.com/vk/varflow/internal/config"
	"github.com/vk/varflow/internal/dag"
	"github.com/vk/varflow/internal/registry"
	"github.com/vk/varflow/internal/resolver"
	"github.com/vk/varflow/internal/varvalue"
)

func evaluate(
	t *testing.T,
	bs *config.BindingSet,
	cat *catalog.Catalog,
	rawValues map[string]varvalue.Value,
	reg *registry.Registry,
) (*Result, error) {
	t.Helper()
	ctx := context.Background()
	g, err := dag.Build(ctx, bs)
	require.NoError(t, err)

	rawNames := make(map[string]struct{}, len(rawValues))
	for name := range rawValues {
		rawNames[name] = struct{}{}
	}
	plan, err := resolver.Schedule(ctx, g, cat, rawNames)
	require.NoError(t, err)

	return Evaluate(ctx, g, plan, rawValues, cat, reg)
}

func biopowerBindings(t *testing.T) *config.BindingSet {
	t.Helper()
	bs := &config.BindingSet{
		PrimaryInputs: []string{"biomass_feed_rate"},
		Equations: []config.EquationInfo{
			{
				Name:    "Biomass Feedstock#0",
				Inputs:  []string{"biomass_feed_rate_pct"},
				Outputs: []string{"biomass_feed_rate"},
			},
		},
	}
	_, err := bs.Add(config.EqnOutputsToPrimary, "biomass_feed_rate", "biomass_feed_rate")
	require.NoError(t, err)
	return bs
}

func TestEvaluateBiopower(t *testing.T) {
	reg := registry.New()
	var gotInput float64
	reg.RegisterEquation("Biomass Feedstock#0", func(_ context.Context, in map[string]varvalue.Value) (map[string]varvalue.Value, error) {
		gotInput = in["biomass_feed_rate_pct"].AsFloat()
		return map[string]varvalue.Value{
			"biomass_feed_rate": varvalue.Number(gotInput * 2000),
		}, nil
	})

	result, err := evaluate(t, biopowerBindings(t), catalog.NewBuilder().Build(),
		map[string]varvalue.Value{"biomass_feed_rate_pct": varvalue.Number(0.8)}, reg)
	require.NoError(t, err)

	assert.InDelta(t, 0.8, gotInput, 1e-12)
	require.Contains(t, result.PrimaryInputs, "biomass_feed_rate")
	assert.InDelta(t, 1600, result.PrimaryInputs["biomass_feed_rate"].AsFloat(), 1e-9)

	p, ok := result.Trace.Lookup("biomass_feed_rate")
	require.True(t, ok)
	assert.Equal(t, "Biomass Feedstock#0", p.Producer)
	assert.Equal(t, 0, p.Position)

	p, ok = result.Trace.Lookup("biomass_feed_rate_pct")
	require.True(t, ok)
	assert.Equal(t, ProducerRaw, p.Producer)
	assert.Equal(t, SeedPosition, p.Position)
}

func TestEvaluateLastWriterWins(t *testing.T) {
	// The variable has a default and a raw value, and an equation
	// overwrites it; the last writer in resolution order is authoritative.
	bs := &config.BindingSet{
		PrimaryInputs: []string{"v"},
		Equations: []config.EquationInfo{
			{Name: "f#0", Inputs: []string{"seed"}, Outputs: []string{"v"}},
		},
	}
	b := catalog.NewBuilder()
	require.NoError(t, b.Declare("v", varvalue.Number(1)))
	cat := b.Build()

	reg := registry.New()
	reg.RegisterEquation("f#0", func(_ context.Context, in map[string]varvalue.Value) (map[string]varvalue.Value, error) {
		return map[string]varvalue.Value{"v": varvalue.Number(3)}, nil
	})

	result, err := evaluate(t, bs, cat, map[string]varvalue.Value{
		"seed": varvalue.Number(0),
		"v":    varvalue.Number(2),
	}, reg)
	require.NoError(t, err)
	assert.InDelta(t, 3, result.PrimaryInputs["v"].AsFloat(), 1e-12)

	p, _ := result.Trace.Lookup("v")
	assert.Equal(t, "f#0", p.Producer)
}

func TestEvaluateAliasPropagation(t *testing.T) {
	// Raw UI value flows through ui_to_secondary into the module input;
	// the module output flows back to a UI variable feeding the primary.
	bs := &config.BindingSet{
		PrimaryInputs: []string{"ui_out"},
		Modules: []config.SecondaryModuleInfo{
			{Name: "wind_obos", Inputs: []string{"rotorD"}, Outputs: []string{"mod_out"}},
		},
	}
	_, err := bs.Add(config.UIToSecondary, "wind_turbine_rotor_diameter", "rotorD")
	require.NoError(t, err)
	_, err = bs.Add(config.SecondaryOutputsToUI, "mod_out", "ui_out")
	require.NoError(t, err)

	reg := registry.New()
	reg.RegisterModule("wind_obos", func(_ context.Context, in map[string]varvalue.Value) (map[string]varvalue.Value, error) {
		return map[string]varvalue.Value{
			"mod_out": varvalue.Number(in["rotorD"].AsFloat() * 10),
		}, nil
	})

	result, err := evaluate(t, bs, catalog.NewBuilder().Build(),
		map[string]varvalue.Value{"wind_turbine_rotor_diameter": varvalue.Number(7)}, reg)
	require.NoError(t, err)
	assert.InDelta(t, 70, result.PrimaryInputs["ui_out"].AsFloat(), 1e-12)

	// The alias target carries its writer's provenance.
	p, ok := result.Trace.Lookup("ui_out")
	require.True(t, ok)
	assert.Equal(t, "wind_obos", p.Producer)
	assert.Equal(t, 0, p.Position)
}

func TestEvaluateUndeclaredOutputIgnored(t *testing.T) {
	bs := biopowerBindings(t)
	reg := registry.New()
	reg.RegisterEquation("Biomass Feedstock#0", func(_ context.Context, in map[string]varvalue.Value) (map[string]varvalue.Value, error) {
		return map[string]varvalue.Value{
			"biomass_feed_rate": varvalue.Number(1),
			"sneaky_extra":      varvalue.Number(42),
		}, nil
	})

	result, err := evaluate(t, bs, catalog.NewBuilder().Build(),
		map[string]varvalue.Value{"biomass_feed_rate_pct": varvalue.Number(0.8)}, reg)
	require.NoError(t, err)

	_, traced := result.Trace.Lookup("sneaky_extra")
	assert.False(t, traced, "undeclared outputs must not enter the value map")
}

func TestEvaluateMissingPrimaryInput(t *testing.T) {
	// The callable fails to return its declared output, leaving the sink
	// empty: a builder/resolver invariant breach, not a data error.
	bs := biopowerBindings(t)
	reg := registry.New()
	reg.RegisterEquation("Biomass Feedstock#0", func(_ context.Context, in map[string]varvalue.Value) (map[string]varvalue.Value, error) {
		return map[string]varvalue.Value{}, nil
	})

	_, err := evaluate(t, bs, catalog.NewBuilder().Build(),
		map[string]varvalue.Value{"biomass_feed_rate_pct": varvalue.Number(0.8)}, reg)
	var missing *MissingPrimaryInputError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "biomass_feed_rate", missing.Variable)
}

func TestEvaluateCallableError(t *testing.T) {
	bs := biopowerBindings(t)
	reg := registry.New()
	boom := errors.New("boom")
	reg.RegisterEquation("Biomass Feedstock#0", func(_ context.Context, in map[string]varvalue.Value) (map[string]varvalue.Value, error) {
		return nil, boom
	})

	_, err := evaluate(t, bs, catalog.NewBuilder().Build(),
		map[string]varvalue.Value{"biomass_feed_rate_pct": varvalue.Number(0.8)}, reg)
	require.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "Biomass Feedstock#0")
}

func TestEvaluateMissingCallable(t *testing.T) {
	_, err := evaluate(t, biopowerBindings(t), catalog.NewBuilder().Build(),
		map[string]varvalue.Value{"biomass_feed_rate_pct": varvalue.Number(0.8)}, registry.New())
	assert.ErrorContains(t, err, "no callable registered")
}

func TestTraceEntriesOrdering(t *testing.T) {
	trace := newTrace()
	trace.set("z", ProducerRaw, SeedPosition)
	trace.set("a", ProducerRaw, SeedPosition)
	trace.set("m", "f#0", 0)

	entries := trace.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "a", entries[0].Variable)
	assert.Equal(t, "z", entries[1].Variable)
	assert.Equal(t, "m", entries[2].Variable)
}
