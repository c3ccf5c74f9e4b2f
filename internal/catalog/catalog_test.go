package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/varflow/internal/varvalue"
)

func TestDeclare(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Declare("rate", varvalue.Number(0.5)))

	t.Run("redeclare without default is a no-op", func(t *testing.T) {
		require.NoError(t, b.Declare("rate", varvalue.Value{}))
	})

	t.Run("redeclare with same default is a no-op", func(t *testing.T) {
		require.NoError(t, b.Declare("rate", varvalue.Number(0.5)))
	})

	t.Run("conflicting defaults fail", func(t *testing.T) {
		err := b.Declare("rate", varvalue.Number(0.6))
		assert.ErrorContains(t, err, "conflicting defaults")
	})

	t.Run("default fills in a defaultless declaration", func(t *testing.T) {
		require.NoError(t, b.Declare("name", varvalue.Value{}))
		require.NoError(t, b.Declare("name", varvalue.String("x")))
		cat := b.Build()
		assert.True(t, cat.Default("name").Equal(varvalue.String("x")))
	})
}

func TestAddReference(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Declare("rate", varvalue.Value{}))
	b.AddReference("rate", "biomass")
	b.AddReference("rate", "biomass") // dedup
	b.AddReference("rate", "lcoefcr")
	b.AddReference("implicit", "biomass") // implicit declaration

	cat := b.Build()
	v, ok := cat.Lookup("rate")
	require.True(t, ok)
	assert.Equal(t, []string{"biomass", "lcoefcr"}, v.ReferencedBy)

	assert.True(t, cat.Has("implicit"))
	assert.False(t, cat.Default("implicit").IsSet())
}

func TestBuildFreezes(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Declare("a", varvalue.Number(1)))
	require.NoError(t, b.Declare("c", varvalue.Value{}))
	require.NoError(t, b.Declare("b", varvalue.Value{}))
	cat := b.Build()

	assert.Equal(t, 3, cat.Len())
	assert.Equal(t, []string{"a", "b", "c"}, cat.Names())
	assert.False(t, cat.Has("zzz"))
	assert.False(t, cat.Default("zzz").IsSet())

	_, ok := cat.Lookup("a")
	assert.True(t, ok)
}
