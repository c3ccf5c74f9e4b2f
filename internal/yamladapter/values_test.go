package yamladapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/varflow/internal/varvalue"
)

func TestParseValues(t *testing.T) {
	values, err := ParseValues([]byte(`
biomass_feed_rate_pct: 0.8
plant_name: "Unit 1"
ambient_temps: [20, 25, 30]
shading: [[0, 1], [2, 3]]
losses:
  soiling: 2.0
  label: snow
`))
	require.NoError(t, err)
	require.Len(t, values, 5)

	assert.Equal(t, varvalue.KindNumber, values["biomass_feed_rate_pct"].Kind())
	assert.InDelta(t, 0.8, values["biomass_feed_rate_pct"].AsFloat(), 1e-12)
	assert.Equal(t, varvalue.KindString, values["plant_name"].Kind())
	assert.Equal(t, varvalue.KindArray, values["ambient_temps"].Kind())
	assert.Equal(t, varvalue.KindMatrix, values["shading"].Kind())
	assert.Equal(t, varvalue.KindTable, values["losses"].Kind())
}

func TestParseValuesIntegers(t *testing.T) {
	values, err := ParseValues([]byte("count: 3"))
	require.NoError(t, err)
	assert.InDelta(t, 3, values["count"].AsFloat(), 1e-12)
}

func TestParseValuesErrors(t *testing.T) {
	_, err := ParseValues([]byte("flag: true"))
	assert.ErrorContains(t, err, "unsupported")

	_, err = ParseValues([]byte("mixed: [1, [2]]"))
	assert.Error(t, err)

	_, err = ParseValues([]byte("\t bad yaml"))
	assert.Error(t, err)
}

func TestLoadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "values.yaml")
	require.NoError(t, os.WriteFile(path, []byte("x: 1.5"), 0o644))

	values, err := LoadValues(path)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, values["x"].AsFloat(), 1e-12)

	_, err = LoadValues(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
