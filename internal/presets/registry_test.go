package presets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_LoadsEmbeddedPresets(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	names := make([]string, 0)
	for _, p := range r.List() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"shorten", "lengthen", "formal", "casual", "simplify", "translate"}, names)
}

func TestResolve(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	t.Run("free text passes through", func(t *testing.T) {
		got, err := r.Resolve("make it shorter")
		require.NoError(t, err)
		assert.Equal(t, "make it shorter", got.Instruction)
		assert.Empty(t, got.Preset)
		assert.Nil(t, got.Language)
	})

	t.Run("preset name", func(t *testing.T) {
		got, err := r.Resolve(" Shorten ")
		require.NoError(t, err)
		assert.Equal(t, "shorten", got.Preset)
		assert.Contains(t, got.Instruction, "half as long")
	})

	t.Run("translate sets language", func(t *testing.T) {
		got, err := r.Resolve("translate:pt-BR")
		require.NoError(t, err)
		assert.Equal(t, "translate:pt-BR", got.Preset)
		assert.Contains(t, got.Instruction, `"pt-BR"`)
		require.NotNil(t, got.Language)
		assert.Equal(t, "pt-BR", *got.Language)
	})

	t.Run("translate without language", func(t *testing.T) {
		_, err := r.Resolve("translate")
		assert.Error(t, err)
	})

	t.Run("translate with bad language", func(t *testing.T) {
		_, err := r.Resolve("translate:spanish")
		assert.Error(t, err)
	})

	t.Run("parameter on plain preset", func(t *testing.T) {
		_, err := r.Resolve("shorten:50")
		assert.Error(t, err)
	})
}

func TestLoad_OverridesAndValidates(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	require.NoError(t, r.Load([]byte(`
presets:
  - name: shorten
    label: Trim
    instruction: Cut it to one paragraph.
  - name: hype
    label: Hype
    instruction: Add energy.
`)))

	list := r.List()
	assert.Equal(t, "shorten", list[0].Name)
	assert.Equal(t, "Trim", list[0].Label)
	assert.Equal(t, "hype", list[len(list)-1].Name)

	assert.Error(t, r.Load([]byte("presets:\n  - name: empty\n")))
	assert.Error(t, r.Load([]byte("presets:\n  - name: a:b\n    instruction: x\n")))
}
