package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/varflow/internal/bindings"
	"github.com/vk/varflow/internal/catalog"
	"github.com/vk/varflow/internal/config"
	"github.com/vk/varflow/internal/varvalue"
)

func noop(_ context.Context, _ map[string]varvalue.Value) (map[string]varvalue.Value, error) {
	return nil, nil
}

func TestRegisterAndLookup(t *testing.T) {
	r := New()
	r.RegisterEquation("f#0", noop)
	r.RegisterModule("wind_obos", noop)

	_, ok := r.Equation("f#0")
	assert.True(t, ok)
	_, ok = r.Module("wind_obos")
	assert.True(t, ok)

	// Equations and modules are separate namespaces.
	_, ok = r.Module("f#0")
	assert.False(t, ok)
	_, ok = r.Equation("wind_obos")
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	store := bindings.NewStore(catalog.NewBuilder().Build())
	cfg := &config.Configuration{Name: "Wind Power-Residential"}
	cfg.Bindings.Equations = []config.EquationInfo{{Name: "Turbine#0"}}
	cfg.Bindings.Modules = []config.SecondaryModuleInfo{{Name: "wind_obos"}}
	require.NoError(t, store.AddConfiguration(context.Background(), cfg))
	store.Freeze()

	t.Run("missing callables are reported together", func(t *testing.T) {
		err := New().Validate(context.Background(), store)
		require.Error(t, err)
		assert.ErrorContains(t, err, `equation "Turbine#0"`)
		assert.ErrorContains(t, err, `secondary module "wind_obos"`)
	})

	t.Run("complete registry passes", func(t *testing.T) {
		r := New()
		r.RegisterEquation("Turbine#0", noop)
		r.RegisterModule("wind_obos", noop)
		assert.NoError(t, r.Validate(context.Background(), store))
	})
}
